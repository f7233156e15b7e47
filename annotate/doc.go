// Package annotate attaches reference documentation to Android GLES and EGL
// binding sources.
//
// For each public static method the [Annotator] looks up a fragment under
// the method name and, failing that, under the name returned by
// [fragment.Normalize] (glUniform4fv falls back to glUniform). The sanitized
// fragment is combined with a generated parameter summary by [Synthesize]
// and attached as the method's javadoc. Public static final fields are
// tagged so javadoc prints their constant value.
//
// Failures are contained: a missing fragment skips one method, a bad
// fragment fails one method, and an unreadable or unwritable source abandons
// one file. Every outcome is returned as a [Result] so callers can decide
// whether a run as a whole succeeded.
package annotate
