package jdktable

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ErrParse is returned when a config document is not well-formed XML.
var ErrParse = errors.New("parse config document")

// Kind identifies the type of a [Node].
type Kind int

const (
	KindElement Kind = iota
	KindText
	KindComment
	KindCharData
	KindDeclaration
)

// Attr is an attribute of an element. Name carries the prefix, if any, as
// "prefix:local".
type Attr struct {
	Name  string
	Value string
}

// Node is one node of a [Document]. Nodes own their children; a node is
// never shared between two parents.
type Node struct {
	Kind Kind
	// Name is the element name, including any prefix.
	Name string
	// Text holds the content of text, comment and CDATA nodes.
	Text     string
	Attrs    []Attr
	Children []*Node
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}

	return "", false
}

// SetAttr sets an attribute, replacing an existing one of the same name in
// place or appending a new one.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}

	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// ShallowClone returns a copy of n with its own attributes and no children.
func (n *Node) ShallowClone() *Node {
	return &Node{
		Kind:  n.Kind,
		Name:  n.Name,
		Text:  n.Text,
		Attrs: append([]Attr(nil), n.Attrs...),
	}
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	c := n.ShallowClone()
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}

	return c
}

// Elements returns the element children of n.
func (n *Node) Elements() []*Node {
	var out []*Node

	for _, c := range n.Children {
		if c.Kind == KindElement {
			out = append(out, c)
		}
	}

	return out
}

// InsertBefore splices child into the children of n directly before ref. When
// ref is not a child of n, child is appended.
func (n *Node) InsertBefore(child, ref *Node) {
	for i, c := range n.Children {
		if c == ref {
			n.Children = slices.Insert(n.Children, i, child)
			return
		}
	}

	n.Children = append(n.Children, child)
}

// Document is an IDE configuration document held as an owned tree.
type Document struct {
	// Nodes are the top-level nodes: an optional declaration, comments
	// and the root element.
	Nodes []*Node
}

// Parse reads a configuration document. Whitespace-only text is dropped and
// adjacent text is merged, so the document is normalized for re-indenting.
func Parse(data []byte) (*Document, error) {
	top, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	doc := &Document{Nodes: convertChildren(top)}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: no root element", ErrParse)
	}

	return doc, nil
}

// Root returns the document element.
func (d *Document) Root() *Node {
	for _, n := range d.Nodes {
		if n.Kind == KindElement {
			return n
		}
	}

	return nil
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := &Document{}
	for _, n := range d.Nodes {
		c.Nodes = append(c.Nodes, n.Clone())
	}

	return c
}

func convertChildren(parent *xmlquery.Node) []*Node {
	var out []*Node

	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		n := convert(c)
		if n == nil {
			continue
		}

		if n.Kind == KindText && len(out) > 0 && out[len(out)-1].Kind == KindText {
			out[len(out)-1].Text += n.Text
			continue
		}

		out = append(out, n)
	}

	// Blank text is dropped after merging.
	kept := out[:0]
	for _, n := range out {
		if n.Kind == KindText && strings.TrimSpace(n.Text) == "" {
			continue
		}

		kept = append(kept, n)
	}

	return kept
}

func convert(x *xmlquery.Node) *Node {
	switch x.Type {
	case xmlquery.ElementNode:
		n := &Node{Kind: KindElement, Name: qualify(x.Prefix, x.Data)}
		for _, a := range x.Attr {
			n.Attrs = append(n.Attrs, Attr{Name: qualify(a.Name.Space, a.Name.Local), Value: a.Value})
		}

		n.Children = convertChildren(x)

		return n

	case xmlquery.TextNode:
		return &Node{Kind: KindText, Text: x.Data}

	case xmlquery.CharDataNode:
		return &Node{Kind: KindCharData, Text: x.Data}

	case xmlquery.CommentNode:
		return &Node{Kind: KindComment, Text: x.Data}

	case xmlquery.DeclarationNode:
		n := &Node{Kind: KindDeclaration, Name: x.Data}
		for _, a := range x.Attr {
			n.Attrs = append(n.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
		}

		return n

	default:
		return nil
	}
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}

	return prefix + ":" + local
}

// WriteTo serializes the document with two-space indentation. Elements
// holding only text are written on one line.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer

	for _, n := range d.Nodes {
		writeNode(&buf, n, 0)
	}

	written, err := w.Write(buf.Bytes())

	return int64(written), err
}

// Bytes returns the serialized document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer

	_, _ = d.WriteTo(&buf) //nolint:errcheck // bytes.Buffer writes do not fail.

	return buf.Bytes()
}

func writeNode(w *bytes.Buffer, n *Node, depth int) {
	switch n.Kind {
	case KindDeclaration:
		w.WriteString("<?xml")

		for _, a := range n.Attrs {
			writeAttr(w, a)
		}

		w.WriteString("?>\n")

	case KindComment:
		writeIndent(w, depth)
		w.WriteString("<!--")
		w.WriteString(n.Text)
		w.WriteString("-->\n")

	case KindText:
		writeIndent(w, depth)
		w.WriteString(escapeText(strings.TrimSpace(n.Text)))
		w.WriteByte('\n')

	case KindCharData:
		writeIndent(w, depth)
		w.WriteString("<![CDATA[")
		w.WriteString(n.Text)
		w.WriteString("]]>\n")

	case KindElement:
		writeElement(w, n, depth)
	}
}

func writeElement(w *bytes.Buffer, n *Node, depth int) {
	writeIndent(w, depth)
	w.WriteByte('<')
	w.WriteString(n.Name)

	for _, a := range n.Attrs {
		writeAttr(w, a)
	}

	if len(n.Children) == 0 {
		w.WriteString(" />\n")
		return
	}

	if len(n.Children) == 1 && n.Children[0].Kind == KindText {
		w.WriteByte('>')
		w.WriteString(escapeText(strings.TrimSpace(n.Children[0].Text)))
		w.WriteString("</")
		w.WriteString(n.Name)
		w.WriteString(">\n")

		return
	}

	w.WriteString(">\n")

	for _, c := range n.Children {
		writeNode(w, c, depth+1)
	}

	writeIndent(w, depth)
	w.WriteString("</")
	w.WriteString(n.Name)
	w.WriteString(">\n")
}

func writeAttr(w *bytes.Buffer, a Attr) {
	w.WriteByte(' ')
	w.WriteString(a.Name)
	w.WriteString(`="`)
	w.WriteString(escapeAttr(a.Value))
	w.WriteByte('"')
}

func writeIndent(w *bytes.Buffer, depth int) {
	for range depth {
		w.WriteString("  ")
	}
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
