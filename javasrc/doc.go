// Package javasrc parses the member declarations of a Java compilation unit
// and rewrites their javadoc without disturbing the rest of the file.
//
// It is not a full Java parser. The source is tokenized with a
// [github.com/alecthomas/participle/v2/lexer] lexer, type bodies are walked
// by brace matching, and only member headers (annotations, modifiers, type,
// name, parameters, throws clause) are parsed with a participle grammar.
// Method bodies, initializer blocks and field initializers are skipped, so
// the package copes with any code the binding generators emit inside them.
//
// Each [Method] and [Field] remembers where it starts and which javadoc
// comment, if any, precedes it. Calling SetDoc on a declaration attaches a
// documentation block; [File.Bytes] then splices the rendered comment into
// the original bytes:
//
//	f, err := javasrc.ParseFile("android/opengl/GLES20.java")
//	for _, m := range f.Methods {
//		if m.Public && m.Static {
//			m.SetDoc(m.Name + "\n")
//		}
//	}
//	out := f.Bytes()
//
// Members whose header cannot be parsed are reported in [File.Problems] and
// left alone.
package javasrc
