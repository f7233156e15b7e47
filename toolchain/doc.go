// Package toolchain wraps the programs and directories that surround the
// documentation build: the Android SDK layout, the JDK's javadoc and jar
// tools, and the IDE configuration directory.
//
// Commands are built as argument vectors and run through a [Runner], so
// tests can substitute a fake and paths with spaces need no quoting.
package toolchain
