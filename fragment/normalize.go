package fragment

import "regexp"

// suffixPattern matches the type and arity suffix that the legacy reference
// pages drop from their keys, e.g. "Matrix4fv" in glUniformMatrix4fv.
var suffixPattern = regexp.MustCompile(`(Matrix)?[1-4]?([fi]|(Boolean|Float|Integer))?v?$`)

// Normalize returns the candidate fragment identifiers for a method name, in
// lookup order. The first candidate is always identifier itself. A second
// candidate is present when stripping the longest type suffix changes the
// name, e.g. "glUniform4fv" yields ["glUniform4fv", "glUniform"]. Only one
// stripping step is ever applied.
func Normalize(identifier string) []string {
	candidates := []string{identifier}

	loc := suffixPattern.FindStringIndex(identifier)
	if loc == nil || loc[0] == 0 || loc[0] == len(identifier) {
		return candidates
	}

	return append(candidates, identifier[:loc[0]])
}
