package javasrc

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// javaLexer tokenizes Java source. Strings and comments are single tokens so
// braces inside them never affect nesting.
var javaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?s:.*?)\*/`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\\n])*"`},
	{Name: "Char", Pattern: `'(?:\\.|[^'\\\n])*'`},
	{Name: "Number", Pattern: `(?:0[xX][0-9a-fA-F_]+|[0-9][0-9_]*(?:\.[0-9_]*)?(?:[eE][+-]?[0-9]+)?|\.[0-9]+(?:[eE][+-]?[0-9]+)?)[lLfFdD]?`},
	{Name: "Ident", Pattern: `[\p{L}_$][\p{L}\p{N}_$]*`},
	{Name: "Ellipsis", Pattern: `\.\.\.`},
	{Name: "Punct", Pattern: `[{}()\[\];,.@=<>?:!~+\-*/%&|^]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// memberParser parses the header of one class member, from its first
// annotation or modifier up to (not including) the ';', '{' or '=' that ends
// the header.
var memberParser = participle.MustBuild[memberSyntax](
	participle.Lexer(javaLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

type memberSyntax struct {
	Prefixes   []*prefixSyntax    `@@*`
	TypeParams []*typeParamSyntax `( "<" @@ ( "," @@ )* ">" )?`
	Type       *typeSyntax        `@@`
	Name       string             `@Ident?`
	Params     *paramListSyntax   `@@?`
	Dims       []string           `( @"[" "]" )*`
	Throws     []*typeSyntax      `( "throws" @@ ( "," @@ )* )?`
}

type prefixSyntax struct {
	Annotation *annotationSyntax `  @@`
	Modifier   string            `| @( "public" | "protected" | "private" | "static" | "final" | "native" | "abstract" | "synchronized" | "transient" | "volatile" | "strictfp" | "default" )`
}

type annotationSyntax struct {
	Name []string `"@" @Ident ( "." @Ident )*`
	Args []string `( "(" @( Ident | Number | String | Char | "=" | "," | "." | "{" | "}" | "+" | "-" | "|" )* ")" )?`
}

type typeParamSyntax struct {
	Name   string        `@Ident`
	Bounds []*typeSyntax `( "extends" @@ ( "&" @@ )* )?`
}

type typeSyntax struct {
	Name []string         `@Ident ( "." @Ident )*`
	Args []*typeArgSyntax `( "<" ( @@ ( "," @@ )* )? ">" )?`
	Dims []string         `( @"[" "]" )*`
}

type typeArgSyntax struct {
	Wildcard bool        `( @"?"`
	Bound    string      `  ( @( "extends" | "super" )`
	Of       *typeSyntax `    @@ )? )`
	Type     *typeSyntax `| @@`
}

type paramListSyntax struct {
	Params []*paramSyntax `"(" ( @@ ( "," @@ )* )? ")"`
}

type paramSyntax struct {
	Prefixes []*prefixSyntax `@@*`
	Type     *typeSyntax     `@@`
	Varargs  bool            `@"..."?`
	Name     string          `@Ident`
	Dims     []string        `( @"[" "]" )*`
}

func (t *typeSyntax) toType(extraDims int) Type {
	out := Type{
		Name: strings.Join(t.Name, "."),
		Dims: len(t.Dims) + extraDims,
	}

	for _, arg := range t.Args {
		out.Args = append(out.Args, arg.String())
	}

	return out
}

func (a *typeArgSyntax) String() string {
	if a.Type != nil {
		return a.Type.toType(0).String()
	}

	if a.Of == nil {
		return "?"
	}

	return "? " + a.Bound + " " + a.Of.toType(0).String()
}

func (m *memberSyntax) modifiers() Modifiers {
	return collectModifiers(m.Prefixes)
}

func collectModifiers(prefixes []*prefixSyntax) Modifiers {
	var mods Modifiers

	for _, p := range prefixes {
		switch p.Modifier {
		case "public":
			mods.Public = true
		case "protected":
			mods.Protected = true
		case "private":
			mods.Private = true
		case "static":
			mods.Static = true
		case "final":
			mods.Final = true
		case "native":
			mods.Native = true
		case "abstract":
			mods.Abstract = true
		case "synchronized":
			mods.Synchronized = true
		}

		if p.Annotation != nil {
			mods.Annotations = append(mods.Annotations, strings.Join(p.Annotation.Name, "."))
		}
	}

	return mods
}
