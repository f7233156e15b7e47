package toolchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// ErrCommandFailed is returned by [ExecRunner.Run] when a command cannot be
// started or exits with a non-zero status.
var ErrCommandFailed = errors.New("command failed")

// Command is an external program invocation. Arguments are passed to the
// program as is; no shell is involved.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// String renders the command for logs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Javadoc returns the javadoc invocation that documents the public API of
// pkg found under sourcePath, writing HTML to outDir.
func Javadoc(bootClassPath, sourcePath, outDir, pkg string) Command {
	return Command{
		Name: "javadoc",
		Args: JavadocArgs(bootClassPath, sourcePath, outDir, pkg),
	}
}

// JavadocArgs returns the arguments of [Javadoc].
func JavadocArgs(bootClassPath, sourcePath, outDir, pkg string) []string {
	return []string{
		"-XDignore.symbol.file",
		"-Xdoclint:none",
		"-public",
		"-bootclasspath", bootClassPath,
		"-sourcepath", sourcePath,
		"-d", outDir,
		pkg,
	}
}

// Jar returns the jar invocation that packs the contents of dir into
// jarPath.
func Jar(jarPath, dir string) Command {
	return Command{
		Name: "jar",
		Args: JarArgs(jarPath, dir),
	}
}

// JarArgs returns the arguments of [Jar].
func JarArgs(jarPath, dir string) []string {
	return []string{"cvf", jarPath, "-C", dir, "."}
}

// Runner runs external commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	Logger *slog.Logger
}

// NewExecRunner creates an [ExecRunner] logging to logger.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	return &ExecRunner{Logger: logger}
}

// Run starts cmd and waits for it. Combined output is logged at debug
// level. The process is killed when ctx is done.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir

	logger.Debug("running command", slog.String("cmd", cmd.String()))

	out, err := c.CombinedOutput()
	if len(out) > 0 {
		logger.Debug("command output", slog.String("cmd", cmd.Name), slog.String("output", string(out)))
	}

	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCommandFailed, cmd.Name, err)
	}

	return nil
}
