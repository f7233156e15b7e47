package fragment

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// Extension is appended to an identifier to form its archive entry name.
const Extension = ".html"

// Sentinel errors returned when loading an [Archive].
var (
	ErrReadArchive        = errors.New("read fragment archive")
	ErrUnsupportedArchive = errors.New("unsupported fragment archive")
)

// Archive is an immutable set of named HTML fragments.
//
// Entries are keyed by base name, so "html/glClear.html" inside a bundle is
// found by Lookup("glClear"). An Archive is safe for concurrent reads; it is
// never mutated after construction.
type Archive struct {
	entries map[string][]byte
	digest  string
}

// New creates an [Archive] from a map of entry name to content. The map is
// copied.
func New(entries map[string][]byte) *Archive {
	a := &Archive{entries: make(map[string][]byte, len(entries))}
	for name, data := range entries {
		a.entries[path.Base(name)] = slices.Clone(data)
	}

	a.digest = digest(a.entries)

	return a
}

// Open loads the archive at path. The format is chosen by extension: ".zip"
// for the original bundle layout, ".tar.xz" or ".txz" for xz-compressed tar.
func Open(p string) (*Archive, error) {
	data, err := os.ReadFile(p) //nolint:gosec // Archive path comes from the target definition.
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadArchive, err)
	}

	lower := strings.ToLower(p)

	switch {
	case strings.HasSuffix(lower, ".zip"):
		return ReadZip(bytes.NewReader(data), int64(len(data)))
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return ReadTarXZ(bytes.NewReader(data))
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedArchive, p)
}

// ReadZip reads every regular file of a zip archive into an [Archive].
func ReadZip(r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadArchive, err)
	}

	entries := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}

		data, err := readZipEntry(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrReadArchive, f.Name, err)
		}

		entries[f.Name] = data
	}

	return New(entries), nil
}

// ReadTarXZ reads every regular file of an xz-compressed tar stream into an
// [Archive].
func ReadTarXZ(r io.Reader) (*Archive, error) {
	xr, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadArchive, err)
	}

	tr := tar.NewReader(xr)
	entries := map[string][]byte{}

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadArchive, err)
		}

		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrReadArchive, hdr.Name, err)
		}

		entries[hdr.Name] = data
	}

	return New(entries), nil
}

// Lookup returns the fragment stored for identifier, i.e. the entry named
// identifier + [Extension].
func (a *Archive) Lookup(identifier string) ([]byte, bool) {
	data, ok := a.entries[identifier+Extension]

	return data, ok
}

// Len returns the number of entries.
func (a *Archive) Len() int {
	return len(a.entries)
}

// Digest returns a hex blake3 digest over entry names and contents, stable
// across archive formats holding the same fragments.
func (a *Archive) Digest() string {
	return a.digest
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(rc)
	closeErr := rc.Close()

	return data, errors.Join(err, closeErr)
}

func digest(entries map[string][]byte) string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}

	slices.Sort(names)

	h := blake3.New()
	for _, name := range names {
		_, _ = h.Write([]byte(name))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write(entries[name])
		_, _ = h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
