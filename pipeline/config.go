package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/xjavadoc/toolchain"
)

// Sentinel errors returned by [Config.NewDriver].
var (
	ErrNoSDK        = errors.New("no android sdk")
	ErrIDEVersion   = errors.New("invalid ide version")
	ErrInvalidLevel = errors.New("invalid api level")
)

// SDKRootVars are the environment variables consulted, in order, when no SDK
// root flag is given.
var SDKRootVars = []string{"ANDROID_HOME", "ANDROID_SDK_ROOT"}

// Flags holds CLI flag names for driver configuration, allowing callers to
// customize flag names while keeping sensible defaults.
type Flags struct {
	SDK          string
	APILevel     string
	Targets      string
	ArchiveDir   string
	ScratchDir   string
	ConfigPath   string
	IDE          string
	IDEVersion   string
	MatchHome    string
	SkipRegister string
}

// Config holds CLI flag values for driver configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewDriver] to create a [Driver] and
// [Config.LoadTargets] to load what it builds.
type Config struct {
	Flags        Flags
	SDK          string
	Targets      string
	ArchiveDir   string
	ScratchDir   string
	ConfigPath   string
	IDE          string
	IDEVersion   string
	APILevel     int
	MatchHome    bool
	SkipRegister bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		SDK:          "sdk",
		APILevel:     "api-level",
		Targets:      "targets",
		ArchiveDir:   "archive-dir",
		ScratchDir:   "scratch-dir",
		ConfigPath:   "config-path",
		IDE:          "ide",
		IDEVersion:   "ide-version",
		MatchHome:    "match-home",
		SkipRegister: "skip-register",
	}

	return &Config{
		Flags:      f,
		ArchiveDir: ".",
		IDE:        "Android Studio",
	}
}

// RegisterFlags adds driver flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.SDK, c.Flags.SDK, c.SDK,
		fmt.Sprintf("Android SDK root (default from %s)", strings.Join(SDKRootVars, " or ")))
	flags.IntVar(&c.APILevel, c.Flags.APILevel, c.APILevel,
		"platform API level to build against (0 picks the highest installed)")
	flags.StringVarP(&c.Targets, c.Flags.Targets, "t", c.Targets,
		"YAML file with documentation targets (default: built-in GLES target)")
	flags.StringVar(&c.ArchiveDir, c.Flags.ArchiveDir, c.ArchiveDir,
		"directory holding the fragment archives of the built-in targets")
	flags.StringVar(&c.ScratchDir, c.Flags.ScratchDir, c.ScratchDir,
		"parent directory for temporary files (default: system temp dir)")
	flags.StringVar(&c.ConfigPath, c.Flags.ConfigPath, c.ConfigPath,
		"IDE jdk.table.xml to register jars in (default: derived from --ide and --ide-version)")
	flags.StringVar(&c.IDE, c.Flags.IDE, c.IDE,
		"IDE product name used to locate its config directory")
	flags.StringVar(&c.IDEVersion, c.Flags.IDEVersion, c.IDEVersion,
		"IDE version as major.minor used to locate its config directory")
	flags.BoolVar(&c.MatchHome, c.Flags.MatchHome, c.MatchHome,
		"only register in the IDE SDK entry whose home path is --sdk")
	flags.BoolVar(&c.SkipRegister, c.Flags.SkipRegister, c.SkipRegister,
		"build jars without touching the IDE configuration")
}

// RegisterCompletions registers shell completions for driver flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	dirComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveFilterDirs
	}

	for _, flag := range []string{c.Flags.SDK, c.Flags.ArchiveDir, c.Flags.ScratchDir} {
		err := cmd.RegisterFlagCompletionFunc(flag, dirComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.Targets,
		cobra.FixedCompletions([]string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Targets, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.ConfigPath,
		cobra.FixedCompletions([]string{"xml"}, cobra.ShellCompDirectiveFilterFileExt))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.ConfigPath, err)
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{c.Flags.APILevel, c.Flags.IDE, c.Flags.IDEVersion} {
		regErr := cmd.RegisterFlagCompletionFunc(flag, noFileComp)
		if regErr != nil {
			return fmt.Errorf("registering %s completion: %w", flag, regErr)
		}
	}

	return nil
}

// SDKRoot returns the SDK root from the flag or, failing that, from
// [SDKRootVars].
func (c *Config) SDKRoot() (string, error) {
	if c.SDK != "" {
		return c.SDK, nil
	}

	for _, v := range SDKRootVars {
		if root := os.Getenv(v); root != "" {
			return root, nil
		}
	}

	return "", fmt.Errorf("%w: set --%s or one of %s", ErrNoSDK, c.Flags.SDK, strings.Join(SDKRootVars, ", "))
}

// Product returns the IDE product described by the ide flags.
func (c *Config) Product() (toolchain.Product, error) {
	p := toolchain.Product{Name: c.IDE}
	if c.IDEVersion == "" {
		return p, fmt.Errorf("%w: --%s is not set", ErrIDEVersion, c.Flags.IDEVersion)
	}

	major, minor, ok := strings.Cut(c.IDEVersion, ".")
	if !ok {
		return p, fmt.Errorf("%w: %q is not major.minor", ErrIDEVersion, c.IDEVersion)
	}

	var err error

	p.Major, err = strconv.Atoi(major)
	if err != nil {
		return p, fmt.Errorf("%w: %q: %w", ErrIDEVersion, c.IDEVersion, err)
	}

	p.Minor, err = strconv.Atoi(minor)
	if err != nil {
		return p, fmt.Errorf("%w: %q: %w", ErrIDEVersion, c.IDEVersion, err)
	}

	return p, nil
}

// ResolveConfigPath returns the jdk.table.xml to patch, or "" when
// registration is disabled or the path cannot be determined. The latter is
// logged. An override directory from [toolchain.ConfigPathVars] is honored
// even without an IDE version.
func (c *Config) ResolveConfigPath(logger *slog.Logger) string {
	if c.SkipRegister {
		return ""
	}

	if c.ConfigPath != "" {
		return c.ConfigPath
	}

	env := toolchain.DefaultEnv(toolchain.Product{})

	product, productErr := c.Product()
	if productErr == nil {
		env.Product = product
	}

	path, err := toolchain.ConfigPath(env)
	if err != nil {
		if productErr != nil {
			err = productErr
		}

		logger.Warn("cannot locate IDE config", slog.Any("err", err))

		return ""
	}

	return path
}

// NewDriver creates a [Driver] using this [Config].
func (c *Config) NewDriver(logger *slog.Logger) (*Driver, error) {
	root, err := c.SDKRoot()
	if err != nil {
		return nil, err
	}

	if c.APILevel < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, c.APILevel)
	}

	opts := []Option{
		WithLogger(logger),
		WithAPILevel(c.APILevel),
		WithArchiveDir(c.ArchiveDir),
		WithScratchDir(c.ScratchDir),
		WithConfigPath(c.ResolveConfigPath(logger)),
		WithMatchHome(c.MatchHome),
	}

	return New(root, opts...), nil
}

// LoadTargets returns the targets named by the targets flag, or
// [DefaultTargets].
func (c *Config) LoadTargets() ([]Target, error) {
	if c.Targets == "" {
		return DefaultTargets(), nil
	}

	return LoadTargets(c.Targets)
}
