package fragment

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrMalformedFragment is returned by [Sanitize] when a fragment cannot be
// parsed or has no wrapper element.
var ErrMalformedFragment = errors.New("malformed fragment")

// Sanitize parses a fragment as an HTML document and returns the outer markup
// of the first element inside <body>, the wrapper element of the reference
// pages. Every <a> element carrying a name attribute is removed together with
// its content, since named anchors break the IDE's documentation viewer.
func Sanitize(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedFragment, err)
	}

	body := findElement(doc, atom.Body)
	if body == nil {
		return "", fmt.Errorf("%w: no body", ErrMalformedFragment)
	}

	wrapper := firstElementChild(body)
	if wrapper == nil {
		return "", fmt.Errorf("%w: empty body", ErrMalformedFragment)
	}

	removeNamedAnchors(wrapper)

	var sb strings.Builder

	err = html.Render(&sb, wrapper)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedFragment, err)
	}

	return sb.String(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}

	return nil
}

func firstElementChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}

	return nil
}

// removeNamedAnchors detaches named anchors below n. The wrapper itself is
// kept even when it is one.
func removeNamedAnchors(n *html.Node) {
	var doomed []*html.Node

	var walk func(*html.Node)

	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if isNamedAnchor(c) {
				doomed = append(doomed, c)
				continue
			}

			walk(c)
		}
	}

	walk(n)

	for _, d := range doomed {
		d.Parent.RemoveChild(d)
	}
}

func isNamedAnchor(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.A {
		return false
	}

	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, "name") {
			return true
		}
	}

	return false
}
