package annotate

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.jacobcolvin.com/xjavadoc/fragment"
	"go.jacobcolvin.com/xjavadoc/javasrc"
)

// Sentinel errors carried by [FileReport.Err].
var (
	ErrSource = errors.New("load source")
	ErrWrite  = errors.New("write annotated source")
)

// Status is the outcome of annotating one declaration.
type Status string

const (
	// StatusAnnotated means a documentation block was attached.
	StatusAnnotated Status = "annotated"
	// StatusSkipped means no fragment exists for the declaration.
	StatusSkipped Status = "skipped"
	// StatusFailed means a fragment was found but could not be used.
	StatusFailed Status = "failed"
)

// Kind tells methods and fields apart in a [Result].
type Kind string

const (
	KindMethod Kind = "method"
	KindField  Kind = "field"
)

// Result describes what happened to one declaration.
type Result struct {
	Err         error
	Declaration string
	Kind        Kind
	Status      Status
	// Fragment is the identifier whose fragment was used, when one was
	// found.
	Fragment string
	Line     int
}

// Report collects the results of one compilation unit.
type Report struct {
	Results []Result
}

// Count returns the number of results with status s.
func (r Report) Count(s Status) int {
	n := 0

	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}

	return n
}

// FileReport is the outcome of [Annotator.AnnotateFile]. Err is set when the
// file was abandoned; Results are still filled when annotation ran but the
// output could not be written.
type FileReport struct {
	Err    error
	Source string
	Dest   string
	Report
}

// Annotator attaches documentation to the public static members of Java
// binding sources.
//
// Create instances with [New].
type Annotator struct {
	archive *fragment.Archive
	logger  *slog.Logger
}

// Option configures an [Annotator].
type Option func(*Annotator)

// WithLogger sets the logger. The default is [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(a *Annotator) {
		a.logger = l
	}
}

// New creates an [Annotator] resolving fragments in archive.
func New(archive *fragment.Archive, opts ...Option) *Annotator {
	a := &Annotator{
		archive: archive,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Annotate attaches documentation blocks to f in place:
//
//   - every public static final field gets its name followed by [ValueTag];
//   - every public static method whose name, or normalized name, has a
//     fragment gets a block built by [Synthesize].
//
// Methods without a fragment are skipped. A fragment that cannot be
// sanitized fails only its own method.
func (a *Annotator) Annotate(f *javasrc.File) Report {
	var rep Report

	for _, p := range f.Problems {
		a.logger.Debug("unparsed member left as is",
			slog.String("file", f.Path),
			slog.Int("line", p.Line),
			slog.String("header", p.Header),
			slog.Any("err", p.Err),
		)
	}

	for _, fd := range f.Fields {
		if !fd.Public || !fd.Static || !fd.Final {
			continue
		}

		doc, ok := constantDoc(fd)
		if !ok {
			continue
		}

		fd.SetDoc(doc)

		rep.Results = append(rep.Results, Result{
			Declaration: fd.Name,
			Kind:        KindField,
			Status:      StatusAnnotated,
			Line:        fd.Line(),
		})
	}

	for _, m := range f.Methods {
		if !m.Public || !m.Static {
			continue
		}

		rep.Results = append(rep.Results, a.annotateMethod(m))
	}

	return rep
}

func (a *Annotator) annotateMethod(m *javasrc.Method) Result {
	res := Result{
		Declaration: m.Name,
		Kind:        KindMethod,
		Line:        m.Line(),
	}

	id, data, ok := a.resolve(m.Name)
	if !ok {
		a.logger.Debug("no fragment for method", slog.String("method", m.Name))

		res.Status = StatusSkipped

		return res
	}

	res.Fragment = id

	markup, err := fragment.Sanitize(data)
	if err != nil {
		a.logger.Warn("cannot use fragment",
			slog.String("method", m.Name),
			slog.String("fragment", id),
			slog.Any("err", err),
		)

		res.Status = StatusFailed
		res.Err = err

		return res
	}

	m.SetDoc(Synthesize(m.Name, markup, m.Params, m.Result))

	a.logger.Debug("added javadoc", slog.String("method", m.Name), slog.String("fragment", id))

	res.Status = StatusAnnotated

	return res
}

// resolve returns the first candidate identifier of name that has a
// fragment.
func (a *Annotator) resolve(name string) (string, []byte, bool) {
	candidates := fragment.Normalize(name)

	for i, id := range candidates {
		data, ok := a.archive.Lookup(id)
		if ok {
			return id, data, true
		}

		if i+1 < len(candidates) {
			a.logger.Warn("no fragment for method, trying normalized name",
				slog.String("method", name),
				slog.String("candidate", candidates[i+1]),
			)
		}
	}

	return "", nil, false
}

// AnnotateFile parses the Java source at src, annotates it and writes the
// result to dst, creating parent directories as needed.
func (a *Annotator) AnnotateFile(src, dst string) FileReport {
	out := FileReport{Source: src, Dest: dst}

	f, err := javasrc.ParseFile(src)
	if err != nil {
		out.Err = fmt.Errorf("%w: %w", ErrSource, err)
		a.logger.Error("abandoning source file", slog.String("file", src), slog.Any("err", err))

		return out
	}

	out.Report = a.Annotate(f)

	err = os.MkdirAll(filepath.Dir(dst), 0o750)
	if err != nil {
		out.Err = fmt.Errorf("%w: %w", ErrWrite, err)
		a.logger.Error("abandoning source file", slog.String("file", src), slog.Any("err", err))

		return out
	}

	err = os.WriteFile(dst, f.Bytes(), 0o644) //nolint:gosec // Generated sources are read by javadoc.
	if err != nil {
		out.Err = fmt.Errorf("%w: %w", ErrWrite, err)
		a.logger.Error("abandoning source file", slog.String("file", src), slog.Any("err", err))

		return out
	}

	a.logger.Info("annotated source",
		slog.String("file", src),
		slog.Int("annotated", out.Count(StatusAnnotated)),
		slog.Int("skipped", out.Count(StatusSkipped)),
		slog.Int("failed", out.Count(StatusFailed)),
	)

	return out
}
