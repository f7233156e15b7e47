package javasrc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Sentinel errors returned by [Parse] and [ParseFile].
var (
	ErrRead   = errors.New("read source")
	ErrSyntax = errors.New("syntax error")
)

// Modifiers holds the modifier keywords and annotation names of a
// declaration.
type Modifiers struct {
	Annotations  []string
	Public       bool
	Protected    bool
	Private      bool
	Static       bool
	Final        bool
	Native       bool
	Abstract     bool
	Synchronized bool
}

// Type is a Java type reference as written in a declaration.
type Type struct {
	// Name is the possibly qualified type name, e.g. "int" or
	// "java.nio.Buffer".
	Name string
	// Args holds rendered type arguments.
	Args []string
	// Dims is the number of array dimensions.
	Dims int
}

// IsVoid reports whether t denotes "no value". The zero Type, used as the
// result of constructors, is void.
func (t Type) IsVoid() bool {
	return t.Name == "" || (t.Name == "void" && t.Dims == 0)
}

// String renders t the way it would be written in source, e.g.
// "java.util.List<String>[]".
func (t Type) String() string {
	var sb strings.Builder

	sb.WriteString(t.Name)

	if len(t.Args) > 0 {
		sb.WriteByte('<')
		sb.WriteString(strings.Join(t.Args, ", "))
		sb.WriteByte('>')
	}

	for range t.Dims {
		sb.WriteString("[]")
	}

	return sb.String()
}

// Parameter is one formal parameter of a [Method].
type Parameter struct {
	Name    string
	Type    Type
	Varargs bool
}

// Method is a method or constructor declaration.
type Method struct {
	Name   string
	Params []Parameter
	Result Type
	Throws []Type
	Modifiers
	Constructor bool
	declaration
}

// Field is a field declaration. When several variables are declared
// together only the first declarator is described.
type Field struct {
	Name        string
	Type        Type
	Initializer string
	Modifiers
	declaration
}

// Parts returns the textual form of the field's declarator parts in order:
// type, name and, when present, the initializer.
func (f *Field) Parts() []string {
	parts := []string{f.Type.String(), f.Name}
	if f.Initializer != "" {
		parts = append(parts, f.Initializer)
	}

	return parts
}

// Problem records a member whose header could not be understood. The member
// is left untouched in the output.
type Problem struct {
	Err    error
	Header string
	Line   int
}

// File is a parsed Java compilation unit.
//
// Only member declarations are modeled; everything else is kept as the
// original bytes, so [File.Bytes] reproduces the input exactly unless
// documentation was attached with SetDoc.
type File struct {
	Path     string
	Package  string
	Methods  []*Method
	Fields   []*Field
	Problems []Problem

	src   []byte
	decls []*declaration
}

// ParseFile reads and parses the Java source at path.
func ParseFile(path string) (*File, error) {
	src, err := os.ReadFile(path) //nolint:gosec // Source paths come from the SDK layout.
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	return Parse(path, src)
}

// Parse parses Java source. The path is only used in diagnostics.
func Parse(path string, src []byte) (*File, error) {
	f := &File{
		Path: path,
		src:  src,
	}

	s, err := newScanner(f)
	if err != nil {
		return nil, err
	}

	err = s.members(0, false)
	if err != nil {
		return nil, err
	}

	return f, nil
}

// Bytes renders the compilation unit. Attached documentation is written as a
// javadoc comment directly before its declaration, replacing any javadoc
// comment that was there; all other bytes are copied from the input.
func (f *File) Bytes() []byte {
	var buf bytes.Buffer

	last := 0

	for _, d := range f.decls {
		if d.doc == nil {
			continue
		}

		if d.docStart >= 0 {
			buf.Write(f.src[last:d.docStart])
			buf.WriteString(renderJavadoc(*d.doc, indentAt(f.src, d.docStart)))

			last = d.docEnd

			continue
		}

		indent := indentAt(f.src, d.start)

		buf.Write(f.src[last:d.start])
		buf.WriteString(renderJavadoc(*d.doc, indent))
		buf.WriteByte('\n')
		buf.WriteString(indent)

		last = d.start
	}

	buf.Write(f.src[last:])

	return buf.Bytes()
}

// declaration is the position bookkeeping shared by methods and fields.
type declaration struct {
	doc      *string
	existing string
	// start is the offset of the first annotation or modifier.
	start int
	// docStart and docEnd delimit the javadoc comment found before the
	// declaration, or are -1.
	docStart int
	docEnd   int
	line     int
}

// Doc returns the documentation attached with SetDoc.
func (d *declaration) Doc() (string, bool) {
	if d.doc == nil {
		return "", false
	}

	return *d.doc, true
}

// SetDoc attaches a documentation block, replacing any block attached
// before. The text is the comment body without delimiters or leading
// asterisks.
func (d *declaration) SetDoc(text string) {
	d.doc = &text
}

// ExistingDoc returns the raw javadoc comment that preceded the declaration
// in the source, including delimiters.
func (d *declaration) ExistingDoc() string {
	return d.existing
}

// Line returns the 1-based line of the declaration.
func (d *declaration) Line() int {
	return d.line
}

// indentAt returns the whitespace between the start of the line holding
// offset and the first non-blank character of that line.
func indentAt(src []byte, offset int) string {
	lineStart := bytes.LastIndexByte(src[:offset], '\n') + 1

	end := lineStart
	for end < offset && (src[end] == ' ' || src[end] == '\t') {
		end++
	}

	return string(src[lineStart:end])
}

// renderJavadoc formats text as a javadoc comment. The first line is not
// indented; the caller positions it.
func renderJavadoc(text, indent string) string {
	text = strings.ReplaceAll(strings.TrimSuffix(text, "\n"), "*/", "*&#47;")

	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return "/** " + lines[0] + " */"
	}

	var sb strings.Builder

	sb.WriteString("/**\n")

	for _, line := range lines {
		sb.WriteString(indent)
		sb.WriteString(" *")

		if line != "" {
			sb.WriteByte(' ')
			sb.WriteString(line)
		}

		sb.WriteByte('\n')
	}

	sb.WriteString(indent)
	sb.WriteString(" */")

	return sb.String()
}
