package javasrc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// scanner walks the token stream of a compilation unit and records member
// declarations of every type body it enters. Method bodies, initializer
// blocks and field initializers are skipped by brace and paren matching.
type scanner struct {
	file *File
	toks []lexer.Token
	i    int

	comment lexer.TokenType
	punct   lexer.TokenType
	ident   lexer.TokenType
}

func newScanner(f *File) (*scanner, error) {
	lex, err := javaLexer.Lex(f.Path, bytes.NewReader(f.src))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	all, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	syms := javaLexer.Symbols()
	ws := syms["Whitespace"]

	toks := make([]lexer.Token, 0, len(all))
	for _, t := range all {
		if t.Type != ws {
			toks = append(toks, t)
		}
	}

	return &scanner{
		file:    f,
		toks:    toks,
		comment: syms["Comment"],
		punct:   syms["Punct"],
		ident:   syms["Ident"],
	}, nil
}

func (s *scanner) isPunct(t lexer.Token, v string) bool {
	return t.Type == s.punct && t.Value == v
}

// members consumes declarations until the '}' closing the current body, or
// until EOF at the top level.
func (s *scanner) members(depth int, inType bool) error {
	var doc *lexer.Token

	for {
		tok := s.toks[s.i]

		switch {
		case tok.EOF():
			if depth > 0 {
				return fmt.Errorf("%w: %s: unexpected end of file", ErrSyntax, tok.Pos)
			}

			return nil

		case tok.Type == s.comment:
			if isJavadoc(tok.Value) {
				doc = &s.toks[s.i]
			}

			s.i++

			continue

		case s.isPunct(tok, "}"):
			if depth == 0 {
				return fmt.Errorf("%w: %s: unbalanced '}'", ErrSyntax, tok.Pos)
			}

			s.i++

			return nil

		case s.isPunct(tok, ";"):
			s.i++
			doc = nil

			continue
		}

		err := s.member(depth, inType, doc)
		if err != nil {
			return err
		}

		doc = nil
	}
}

// member consumes one declaration starting at the current token.
func (s *scanner) member(depth int, inType bool, doc *lexer.Token) error {
	start := s.i
	parens := 0
	kind := ""

	for {
		tok := s.toks[s.i]
		if tok.EOF() {
			return fmt.Errorf("%w: %s: unterminated declaration", ErrSyntax, s.toks[start].Pos)
		}

		if tok.Type == s.ident && parens == 0 {
			switch tok.Value {
			case "class", "interface", "enum":
				if kind == "" {
					kind = tok.Value
				}
			}
		}

		if tok.Type == s.punct {
			switch tok.Value {
			case "(":
				parens++
			case ")":
				parens--
			}
		}

		if parens == 0 && s.isTerminator(tok) {
			break
		}

		s.i++
	}

	term := s.toks[s.i]
	header := s.toks[start:s.i]

	switch {
	case term.Value == "}":
		return fmt.Errorf("%w: %s: unexpected '}'", ErrSyntax, term.Pos)

	case kind != "" && term.Value == "{":
		s.i++

		if kind == "enum" {
			s.skipEnumConstants()
		}

		return s.members(depth+1, true)

	case !inType:
		if term.Value != ";" {
			return fmt.Errorf("%w: %s: unexpected %q", ErrSyntax, term.Pos, term.Value)
		}

		if len(header) > 1 && header[0].Value == "package" {
			s.file.Package = s.text(header[1:])
		}

		s.i++

		return nil

	case term.Value == "{":
		if !s.onlyModifiers(header) {
			s.record(header, term, doc, "")
		}

		s.i++

		return s.skipBlock()

	case term.Value == ";":
		s.record(header, term, doc, "")
		s.i++

		return nil
	}

	// Field with initializer.
	s.i++
	initStart := s.i

	err := s.skipExpression()
	if err != nil {
		return err
	}

	s.record(header, term, doc, s.text(s.toks[initStart:s.i]))

	for !s.isPunct(s.toks[s.i], ";") {
		s.i++

		err = s.skipExpression()
		if err != nil {
			return err
		}
	}

	s.i++

	return nil
}

// record parses a member header and stores the resulting declaration.
func (s *scanner) record(header []lexer.Token, term lexer.Token, doc *lexer.Token, initializer string) {
	first := -1

	for i, t := range header {
		if t.Type != s.comment {
			first = i
			break
		}
	}

	if first < 0 {
		return
	}

	startTok := header[first]
	text := string(s.file.src[startTok.Pos.Offset:term.Pos.Offset])

	syntax, err := memberParser.ParseString(s.file.Path, text)
	if err != nil {
		s.file.Problems = append(s.file.Problems, Problem{
			Header: strings.TrimSpace(text),
			Line:   startTok.Pos.Line,
			Err:    err,
		})

		return
	}

	d := declaration{
		start:    startTok.Pos.Offset,
		docStart: -1,
		docEnd:   -1,
		line:     startTok.Pos.Line,
	}

	if doc != nil {
		d.docStart = doc.Pos.Offset
		d.docEnd = doc.Pos.Offset + len(doc.Value)
		d.existing = doc.Value
	}

	if syntax.Params != nil && initializer == "" {
		m := &Method{
			Name:        syntax.Name,
			Modifiers:   syntax.modifiers(),
			Result:      syntax.Type.toType(len(syntax.Dims)),
			declaration: d,
		}

		if m.Name == "" {
			m.Name = m.Result.Name
			m.Result = Type{}
			m.Constructor = true
		}

		for _, p := range syntax.Params.Params {
			m.Params = append(m.Params, Parameter{
				Name:    p.Name,
				Type:    p.Type.toType(len(p.Dims)),
				Varargs: p.Varargs,
			})
		}

		for _, t := range syntax.Throws {
			m.Throws = append(m.Throws, t.toType(0))
		}

		s.file.Methods = append(s.file.Methods, m)
		s.file.decls = append(s.file.decls, &m.declaration)

		return
	}

	if syntax.Name == "" || syntax.Params != nil {
		s.file.Problems = append(s.file.Problems, Problem{
			Header: strings.TrimSpace(text),
			Line:   startTok.Pos.Line,
			Err:    fmt.Errorf("%w: not a field or method", ErrSyntax),
		})

		return
	}

	f := &Field{
		Name:        syntax.Name,
		Type:        syntax.Type.toType(len(syntax.Dims)),
		Initializer: initializer,
		Modifiers:   syntax.modifiers(),
		declaration: d,
	}

	s.file.Fields = append(s.file.Fields, f)
	s.file.decls = append(s.file.decls, &f.declaration)
}

// skipBlock consumes tokens up to and including the '}' matching a '{'
// that was already consumed.
func (s *scanner) skipBlock() error {
	depth := 1

	for depth > 0 {
		tok := s.toks[s.i]
		if tok.EOF() {
			return fmt.Errorf("%w: %s: unterminated block", ErrSyntax, tok.Pos)
		}

		switch {
		case s.isPunct(tok, "{"):
			depth++
		case s.isPunct(tok, "}"):
			depth--
		}

		s.i++
	}

	return nil
}

// skipExpression advances to the ',' or ';' ending a variable initializer.
func (s *scanner) skipExpression() error {
	depth := 0

	for {
		tok := s.toks[s.i]
		if tok.EOF() {
			return fmt.Errorf("%w: %s: unterminated initializer", ErrSyntax, tok.Pos)
		}

		if tok.Type == s.punct {
			switch tok.Value {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth == 0 {
					return fmt.Errorf("%w: %s: unexpected %q", ErrSyntax, tok.Pos, tok.Value)
				}

				depth--
			case ",", ";":
				if depth == 0 {
					return nil
				}
			}
		}

		s.i++
	}
}

// skipEnumConstants advances past the constant list of an enum body, leaving
// the scanner on the first member or on the closing '}'.
func (s *scanner) skipEnumConstants() {
	depth := 0

	for {
		tok := s.toks[s.i]
		if tok.EOF() {
			return
		}

		if tok.Type == s.punct {
			switch tok.Value {
			case "(", "{":
				depth++
			case ")":
				depth--
			case "}":
				if depth == 0 {
					return
				}

				depth--
			case ";":
				if depth == 0 {
					s.i++
					return
				}
			}
		}

		s.i++
	}
}

// onlyModifiers reports whether header is an initializer block prefix such
// as "static".
func (s *scanner) onlyModifiers(header []lexer.Token) bool {
	for _, t := range header {
		if t.Type == s.comment {
			continue
		}

		if t.Value != "static" {
			return false
		}
	}

	return true
}

// text returns the source spanned by toks, without leading or trailing
// comments.
func (s *scanner) text(toks []lexer.Token) string {
	for len(toks) > 0 && toks[0].Type == s.comment {
		toks = toks[1:]
	}

	for len(toks) > 0 && toks[len(toks)-1].Type == s.comment {
		toks = toks[:len(toks)-1]
	}

	if len(toks) == 0 {
		return ""
	}

	last := toks[len(toks)-1]

	return string(s.file.src[toks[0].Pos.Offset : last.Pos.Offset+len(last.Value)])
}

// isTerminator reports whether tok ends a member header.
func (s *scanner) isTerminator(tok lexer.Token) bool {
	if tok.Type != s.punct {
		return false
	}

	switch tok.Value {
	case ";", "{", "=", "}":
		return true
	}

	return false
}

func isJavadoc(comment string) bool {
	return strings.HasPrefix(comment, "/**") && comment != "/**/"
}
