// Package stringtest builds expected multi-line text for tests, such as
// rendered javadoc blocks and serialized jdk.table.xml documents.
package stringtest

import "strings"

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected test output with explicit line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"line1",
//		"line2",
//	) // -> "line1\nline2"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}

// Lines joins ss like [JoinLF] and terminates the last line too, matching
// text produced line by line.
//
// Example:
//
//	want := stringtest.Lines(
//		"@param mask mask",
//	) // -> "@param mask mask\n"
func Lines(ss ...string) string {
	if len(ss) == 0 {
		return ""
	}

	return JoinLF(ss...) + "\n"
}
