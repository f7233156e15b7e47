// Package fragment resolves method names to reference documentation
// fragments and cleans them for embedding in javadoc.
//
// The reference pages for OpenGL ES are keyed by method family rather than by
// the exact Java binding name: glUniform4fv is documented on glUniform.html.
// [Normalize] produces the ordered list of names worth trying, [Archive]
// answers whether a fragment exists for one name, and [Sanitize] extracts the
// documentation body from a fragment. Lookup order and retry policy are left
// to the caller.
package fragment
