package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
)

// Sentinel errors for target definitions.
var (
	ErrInvalidTarget = errors.New("invalid target")
	ErrReadTargets   = errors.New("read targets")
)

// Target describes one documentation jar: which binding sources to
// annotate, where their reference pages come from, and what to build.
type Target struct {
	Name string `json:"name" yaml:"name" jsonschema:"short name used in logs"`
	// Archive is the fragment archive. Relative paths are resolved
	// against the driver's archive directory.
	Archive string `json:"archive" yaml:"archive" jsonschema:"fragment archive (.zip or .tar.xz) with one <identifier>.html per reference page"`
	Package string `json:"package" yaml:"package" jsonschema:"Java package passed to javadoc"`
	// Sources are paths below the SDK sources directory, written with
	// forward slashes.
	Sources []string `json:"sources" yaml:"sources" jsonschema:"binding sources relative to the SDK sources directory"`
	// Jar is the file name of the jar written to the SDK docs directory.
	Jar string `json:"jar" yaml:"jar" jsonschema:"jar file name written to the SDK docs directory"`
}

// Validate reports whether t is complete.
func (t Target) Validate() error {
	var missing []string

	if t.Name == "" {
		missing = append(missing, "name")
	}

	if t.Archive == "" {
		missing = append(missing, "archive")
	}

	if t.Package == "" {
		missing = append(missing, "package")
	}

	if len(t.Sources) == 0 {
		missing = append(missing, "sources")
	}

	if t.Jar == "" {
		missing = append(missing, "jar")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %q: missing %s", ErrInvalidTarget, t.Name, strings.Join(missing, ", "))
	}

	if filepath.Base(t.Jar) != t.Jar {
		return fmt.Errorf("%w: %q: jar must be a file name, got %q", ErrInvalidTarget, t.Name, t.Jar)
	}

	for _, src := range t.Sources {
		if filepath.IsAbs(src) || strings.HasPrefix(filepath.Clean(filepath.FromSlash(src)), "..") {
			return fmt.Errorf("%w: %q: source %q is outside the sources directory", ErrInvalidTarget, t.Name, src)
		}
	}

	return nil
}

// TargetFile is the document read by [LoadTargets].
type TargetFile struct {
	Targets []Target `json:"targets" yaml:"targets" jsonschema:"documentation targets, built in order"`
}

// DefaultTargets returns the OpenGL ES 2.0 and EGL 1.4 target.
func DefaultTargets() []Target {
	return []Target{{
		Name:    "GLES",
		Archive: "html-es2.0.zip",
		Package: "android.opengl",
		Sources: []string{
			"android/opengl/EGL14.java",
			"android/opengl/GLES20.java",
		},
		Jar: "android-gles-javadoc.jar",
	}}
}

// ParseTargets decodes a YAML target file. Unknown fields are rejected and
// every target is validated.
func ParseTargets(data []byte) ([]Target, error) {
	var f TargetFile

	err := yaml.UnmarshalWithOptions(data, &f, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}

	if len(f.Targets) == 0 {
		return nil, fmt.Errorf("%w: no targets", ErrInvalidTarget)
	}

	for _, t := range f.Targets {
		err := t.Validate()
		if err != nil {
			return nil, err
		}
	}

	return f.Targets, nil
}

// LoadTargets reads a YAML target file. Relative archive paths are made
// relative to the file's directory.
func LoadTargets(path string) ([]Target, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is given by the user.
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadTargets, err)
	}

	targets, err := ParseTargets(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range targets {
		if !filepath.IsAbs(targets[i].Archive) {
			targets[i].Archive = filepath.Join(dir, targets[i].Archive)
		}
	}

	return targets, nil
}

// TargetSchema returns the JSON Schema of target files.
func TargetSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[TargetFile](nil)
	if err != nil {
		return nil, fmt.Errorf("infer target schema: %w", err)
	}

	schema.Title = "xjavadoc targets"
	schema.Description = "Documentation targets built by xjavadoc run."

	return schema, nil
}
