package jdktable

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Sentinel errors returned by [PatchFile] and [JavadocURLs].
var (
	ErrRead   = errors.New("read config document")
	ErrBackup = errors.New("back up config document")
	ErrWrite  = errors.New("write config document")
	ErrQuery  = errors.New("query config document")
)

const (
	// BackupSuffix is appended to the config path to name the backup copy.
	BackupSuffix = ".backup"

	javadocPathTag = "javadocPath"
	rootTag        = "root"
	urlAttr        = "url"
)

// javadocRoots selects every registered javadoc root entry.
var javadocRoots = xpath.MustCompile(`//javadocPath/root/root[@url]`)

// JarURL returns the IDE URL of the root of a jar file.
func JarURL(jarPath string) string {
	return "jar://" + jarPath + "!/"
}

// Option configures [Document.AddJavadocRoot] and [PatchFile].
type Option func(*options)

type options struct {
	homePath string
}

// WithHomePath only considers javadoc paths of the SDK whose home path is
// path.
func WithHomePath(path string) Option {
	return func(o *options) {
		o.homePath = path
	}
}

// AddJavadocRoot registers a javadoc jar in the document.
//
// The tree is searched depth first for a javadocPath element whose first
// root child contains a root entry. A shallow copy of the first entry, with
// its url set to the jar, is inserted directly before that entry. Only the
// first such location is changed. AddJavadocRoot reports whether the
// document was changed.
func (d *Document) AddJavadocRoot(jarPath string, opts ...Option) bool {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	for _, n := range d.Nodes {
		if addJavadocRoot(n, JarURL(jarPath), o, "") {
			return true
		}
	}

	return false
}

// addJavadocRoot walks n in document order. home is the home path of the
// nearest enclosing jdk element.
func addJavadocRoot(n *Node, url string, o *options, home string) bool {
	if n.Kind != KindElement {
		return false
	}

	if strings.EqualFold(n.Name, "jdk") {
		home = jdkHomePath(n)
	}

	if strings.EqualFold(n.Name, javadocPathTag) && (o.homePath == "" || home == o.homePath) {
		if insertEntry(n, url) {
			return true
		}
	}

	for _, c := range n.Children {
		if addJavadocRoot(c, url, o, home) {
			return true
		}
	}

	return false
}

func insertEntry(javadocPath *Node, url string) bool {
	container := firstNamed(javadocPath, rootTag)
	if container == nil {
		return false
	}

	ref := firstNamed(container, rootTag)
	if ref == nil {
		return false
	}

	entry := ref.ShallowClone()
	entry.SetAttr(urlAttr, url)
	container.InsertBefore(entry, ref)

	return true
}

func firstNamed(n *Node, name string) *Node {
	for _, c := range n.Children {
		if c.Kind == KindElement && strings.EqualFold(c.Name, name) {
			return c
		}
	}

	return nil
}

func jdkHomePath(jdk *Node) string {
	home := firstNamed(jdk, "homePath")
	if home == nil {
		return ""
	}

	v, _ := home.Attr("value")

	return v
}

// Result describes the outcome of [PatchFile].
type Result struct {
	// Backup is the path of the copy made before patching.
	Backup string
	// Changed is false when no javadoc location was found; the file is
	// then rewritten unchanged apart from formatting.
	Changed bool
}

// PatchFile registers jarPath in the config document at path. The original
// bytes are first copied to path + [BackupSuffix]. When the document cannot
// be parsed the original file is left untouched and [ErrParse] is returned.
func PatchFile(path, jarPath string, opts ...Option) (Result, error) {
	data, err := os.ReadFile(path) //nolint:gosec // The config path is resolved by the caller.
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRead, err)
	}

	res := Result{Backup: path + BackupSuffix}

	err = os.WriteFile(res.Backup, data, 0o600)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrBackup, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return res, err
	}

	res.Changed = doc.AddJavadocRoot(jarPath, opts...)

	err = os.WriteFile(path, doc.Bytes(), 0o600)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return res, nil
}

// JavadocURLs lists the url of every javadoc root registered in a config
// document, in document order.
func JavadocURLs(data []byte) ([]string, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	nodes := xmlquery.QuerySelectorAll(doc, javadocRoots)

	urls := make([]string, 0, len(nodes))
	for _, n := range nodes {
		urls = append(urls, n.SelectAttr(urlAttr))
	}

	return urls, nil
}

// Registered reports whether the jar is already a javadoc root in the config
// document.
func Registered(data []byte, jarPath string) (bool, error) {
	urls, err := JavadocURLs(data)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	want := JarURL(jarPath)
	for _, u := range urls {
		if u == want {
			return true, nil
		}
	}

	return false, nil
}
