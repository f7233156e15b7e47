package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"go.jacobcolvin.com/xjavadoc/annotate"
	"go.jacobcolvin.com/xjavadoc/fragment"
	"go.jacobcolvin.com/xjavadoc/jdktable"
	"go.jacobcolvin.com/xjavadoc/toolchain"
)

// Sentinel errors recorded in [StageResult.Err].
var (
	ErrArchive  = errors.New("open fragment archive")
	ErrScratch  = errors.New("create scratch directory")
	ErrAnnotate = errors.New("annotate sources")
	ErrCleanup  = errors.New("remove scratch directory")
	ErrRegister = errors.New("register javadoc jar")
)

// Stage names one step of building a target.
type Stage string

const (
	StageArchive  Stage = "archive"
	StageAnnotate Stage = "annotate"
	StageJavadoc  Stage = "javadoc"
	StageJar      Stage = "jar"
	StageCleanup  Stage = "cleanup"
	StageRegister Stage = "register"
)

// Outcome is the result of one stage.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// StageResult describes what happened in one stage.
type StageResult struct {
	Err     error
	Stage   Stage
	Outcome Outcome
	// Detail explains skipped stages.
	Detail string
}

// TargetReport collects the outcome of building one [Target].
type TargetReport struct {
	Target  string
	JarPath string
	Files   []annotate.FileReport
	Stages  []StageResult
}

// Failed reports whether any stage failed.
func (r TargetReport) Failed() bool {
	for _, s := range r.Stages {
		if s.Outcome == OutcomeFailed {
			return true
		}
	}

	return false
}

// Stage returns the result of stage s.
func (r TargetReport) Stage(s Stage) (StageResult, bool) {
	for _, res := range r.Stages {
		if res.Stage == s {
			return res, true
		}
	}

	return StageResult{}, false
}

func (r *TargetReport) record(s Stage, err error) {
	res := StageResult{Stage: s, Outcome: OutcomeOK, Err: err}
	if err != nil {
		res.Outcome = OutcomeFailed
	}

	r.Stages = append(r.Stages, res)
}

func (r *TargetReport) skip(s Stage, detail string) {
	r.Stages = append(r.Stages, StageResult{Stage: s, Outcome: OutcomeSkipped, Detail: detail})
}

// Report is the outcome of [Driver.Run].
type Report struct {
	RunID    string
	APILevel int
	Targets  []TargetReport
}

// Failed reports whether any target failed.
func (r Report) Failed() bool {
	for _, t := range r.Targets {
		if t.Failed() {
			return true
		}
	}

	return false
}

// Driver builds documentation jars for an Android SDK and registers them in
// the IDE configuration.
//
// Create instances with [New].
type Driver struct {
	runner     toolchain.Runner
	logger     *slog.Logger
	sdkRoot    string
	configPath string
	archiveDir string
	scratchDir string
	apiLevel   int
	matchHome  bool
}

// Option configures a [Driver].
type Option func(*Driver)

// WithLogger sets the logger. The default is [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithRunner sets the runner of javadoc and jar. The default is a
// [toolchain.ExecRunner].
func WithRunner(r toolchain.Runner) Option {
	return func(d *Driver) {
		d.runner = r
	}
}

// WithConfigPath sets the jdk.table.xml to register jars in. Without it the
// register stage is skipped.
func WithConfigPath(path string) Option {
	return func(d *Driver) {
		d.configPath = path
	}
}

// WithArchiveDir sets the directory relative archive paths are resolved
// against. The default is the working directory.
func WithArchiveDir(dir string) Option {
	return func(d *Driver) {
		d.archiveDir = dir
	}
}

// WithScratchDir sets the parent of the per-target scratch directories. The
// default is [os.TempDir].
func WithScratchDir(dir string) Option {
	return func(d *Driver) {
		d.scratchDir = dir
	}
}

// WithAPILevel fixes the platform to build against. The default, 0, picks
// the highest installed one.
func WithAPILevel(level int) Option {
	return func(d *Driver) {
		d.apiLevel = level
	}
}

// WithMatchHome restricts registration to the IDE SDK entry whose home path
// is the driver's SDK root.
func WithMatchHome(match bool) Option {
	return func(d *Driver) {
		d.matchHome = match
	}
}

// New creates a [Driver] for the Android SDK at sdkRoot.
func New(sdkRoot string, opts ...Option) *Driver {
	d := &Driver{
		sdkRoot: sdkRoot,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.runner == nil {
		d.runner = toolchain.NewExecRunner(d.logger)
	}

	return d
}

// Run builds every target in order. Only failing to determine the SDK
// platform aborts the run; all other failures are recorded in the report
// and later stages still run where they can.
func (d *Driver) Run(ctx context.Context, targets ...Target) (Report, error) {
	rep := Report{RunID: uuid.NewString()}
	logger := d.logger.With(slog.String("run", rep.RunID))

	level := d.apiLevel
	if level == 0 {
		var err error

		level, err = toolchain.HighestAPILevel(d.sdkRoot, logger)
		if err != nil {
			return rep, err
		}
	}

	rep.APILevel = level
	layout := toolchain.Layout{Root: d.sdkRoot, APILevel: level}

	logger.Info("building javadoc",
		slog.String("sdk", d.sdkRoot),
		slog.Int("api_level", level),
		slog.Int("targets", len(targets)),
	)

	for _, t := range targets {
		rep.Targets = append(rep.Targets, d.runTarget(ctx, logger.With(slog.String("target", t.Name)), layout, t))
	}

	return rep, nil
}

func (d *Driver) runTarget(ctx context.Context, logger *slog.Logger, layout toolchain.Layout, t Target) TargetReport {
	rep := TargetReport{
		Target:  t.Name,
		JarPath: filepath.Join(layout.DocsDir(), t.Jar),
	}

	archive, err := d.openArchive(t)
	rep.record(StageArchive, err)

	if err != nil {
		logger.Error("cannot open fragment archive", slog.Any("err", err))

		for _, s := range []Stage{StageAnnotate, StageJavadoc, StageJar, StageCleanup, StageRegister} {
			rep.skip(s, "no fragment archive")
		}

		return rep
	}

	logger.Info("opened fragment archive",
		slog.String("path", t.Archive),
		slog.Int("entries", archive.Len()),
		slog.String("digest", archive.Digest()),
	)

	scratch, err := os.MkdirTemp(d.scratchDir, "xjavadoc-")
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrScratch, err)
		logger.Error("cannot create scratch directory", slog.Any("err", err))

		rep.record(StageAnnotate, err)

		for _, s := range []Stage{StageJavadoc, StageJar, StageCleanup} {
			rep.skip(s, "no scratch directory")
		}

		d.register(logger, &rep)

		return rep
	}

	srcOut := filepath.Join(scratch, "java")
	docOut := filepath.Join(scratch, "javadoc")

	a := annotate.New(archive, annotate.WithLogger(logger))

	var errs []error

	for _, src := range t.Sources {
		fr := a.AnnotateFile(layout.Source(src), filepath.Join(srcOut, filepath.FromSlash(src)))
		rep.Files = append(rep.Files, fr)

		if fr.Err != nil {
			errs = append(errs, fr.Err)
		}
	}

	err = nil
	if len(errs) > 0 {
		err = fmt.Errorf("%w: %w", ErrAnnotate, errors.Join(errs...))
	}

	rep.record(StageAnnotate, err)

	err = d.runner.Run(ctx, toolchain.Javadoc(layout.BootClassPath(), srcOut, docOut, t.Package))
	if err != nil {
		logger.Error("javadoc failed", slog.Any("err", err))
	}

	rep.record(StageJavadoc, err)

	err = d.runner.Run(ctx, toolchain.Jar(rep.JarPath, docOut))
	if err != nil {
		logger.Error("jar failed", slog.Any("err", err))
	} else {
		d.logJar(logger, rep.JarPath)
	}

	rep.record(StageJar, err)

	err = os.RemoveAll(scratch)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrCleanup, err)
		logger.Error("cannot remove scratch directory", slog.String("dir", scratch), slog.Any("err", err))
	}

	rep.record(StageCleanup, err)

	d.register(logger, &rep)

	return rep
}

func (d *Driver) openArchive(t Target) (*fragment.Archive, error) {
	path := t.Archive
	if !filepath.IsAbs(path) && d.archiveDir != "" {
		path = filepath.Join(d.archiveDir, path)
	}

	archive, err := fragment.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchive, err)
	}

	return archive, nil
}

func (d *Driver) logJar(logger *slog.Logger, path string) {
	info, err := os.Stat(path)
	if err != nil {
		logger.Warn("jar not found after packing", slog.String("jar", path), slog.Any("err", err))
		return
	}

	logger.Info("wrote javadoc jar",
		slog.String("jar", path),
		slog.String("size", humanize.Bytes(uint64(info.Size()))), //nolint:gosec // File sizes are not negative.
	)
}

func (d *Driver) register(logger *slog.Logger, rep *TargetReport) {
	if d.configPath == "" {
		logger.Warn("no IDE config path, skipping registration")
		rep.skip(StageRegister, "no IDE config path")

		return
	}

	logger = logger.With(slog.String("config", d.configPath))

	data, err := os.ReadFile(d.configPath)
	if err == nil {
		registered, qerr := jdktable.Registered(data, rep.JarPath)
		if qerr == nil && registered {
			logger.Warn("javadoc jar is already registered, adding it again", slog.String("jar", rep.JarPath))
		}
	}

	var opts []jdktable.Option
	if d.matchHome {
		opts = append(opts, jdktable.WithHomePath(d.sdkRoot))
	}

	res, err := jdktable.PatchFile(d.configPath, rep.JarPath, opts...)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrRegister, err)
		logger.Error("cannot register javadoc jar", slog.Any("err", err))
		rep.record(StageRegister, err)

		return
	}

	if !res.Changed {
		logger.Warn("no javadoc location in IDE config", slog.String("backup", res.Backup))
		rep.skip(StageRegister, "no javadoc location in IDE config")

		return
	}

	logger.Info("registered javadoc jar", slog.String("jar", rep.JarPath), slog.String("backup", res.Backup))
	rep.record(StageRegister, nil)
}
