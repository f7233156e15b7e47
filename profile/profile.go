package profile

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ErrProfile is returned when a profile cannot be started or written.
var ErrProfile = errors.New("profile")

// Flags holds CLI flag names for profiling configuration.
type Flags struct {
	CPU  string
	Heap string
}

// Config holds profile output paths. Empty paths disable the profile.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewSession] to profile a run.
type Config struct {
	Flags Flags
	CPU   string
	Heap  string
}

// NewConfig returns a new [Config] with default flag names and profiling
// disabled.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			CPU:  "cpu-profile",
			Heap: "heap-profile",
		},
	}
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.CPU, c.Flags.CPU, c.CPU, "write a CPU profile of the run to file")
	flags.StringVar(&c.Heap, c.Flags.Heap, c.Heap, "write a heap profile to file when the run ends")
}

// RegisterCompletions registers shell completions for profile flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	for _, flag := range []string{c.Flags.CPU, c.Flags.Heap} {
		err := cmd.RegisterFlagCompletionFunc(flag,
			cobra.FixedCompletions([]string{"prof", "pprof"}, cobra.ShellCompDirectiveFilterFileExt))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	return nil
}

// NewSession creates a [Session] using this [Config].
func (c *Config) NewSession() *Session {
	return &Session{cpuPath: c.CPU, heapPath: c.Heap}
}

// Session is one profiled run. Call [Session.Start] before the work and
// [Session.Stop] after it.
type Session struct {
	cpuFile  *os.File
	cpuPath  string
	heapPath string
}

// Start begins CPU profiling if enabled.
func (s *Session) Start() error {
	if s.cpuPath == "" {
		return nil
	}

	f, err := os.Create(s.cpuPath) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("%w: create cpu profile: %w", ErrProfile, err)
	}

	err = pprof.StartCPUProfile(f)
	if err != nil {
		return errors.Join(
			fmt.Errorf("%w: start cpu profile: %w", ErrProfile, err),
			f.Close(),
		)
	}

	s.cpuFile = f

	return nil
}

// Stop ends CPU profiling and writes the heap profile if enabled. It is safe
// to call Stop without a successful Start.
func (s *Session) Stop() error {
	var errs []error

	if s.cpuFile != nil {
		pprof.StopCPUProfile()

		err := s.cpuFile.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: close cpu profile: %w", ErrProfile, err))
		}

		s.cpuFile = nil
	}

	if s.heapPath != "" {
		err := writeHeap(s.heapPath)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func writeHeap(path string) error {
	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("%w: create heap profile: %w", ErrProfile, err)
	}

	runtime.GC()

	err = pprof.WriteHeapProfile(f)
	if err != nil {
		return errors.Join(fmt.Errorf("%w: write heap profile: %w", ErrProfile, err), f.Close())
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("%w: close heap profile: %w", ErrProfile, err)
	}

	return nil
}
