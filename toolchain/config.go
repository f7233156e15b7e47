package toolchain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"unicode"
)

// ErrNoConfigPath is returned by [ConfigPath] when the IDE configuration
// directory cannot be determined.
var ErrNoConfigPath = errors.New("cannot determine ide config path")

// ConfigPathVars are the environment variables that override the IDE
// configuration directory, in order of preference.
var ConfigPathVars = []string{"STUDIO_CONFIG_PATH", "IDEA_CONFIG_PATH"}

// Product identifies an IDE release, e.g. Android Studio 3.2.
type Product struct {
	Name  string
	Major int
	Minor int
}

// ConfigDir returns the name of the product's configuration directory: the
// name without whitespace followed by major.minor, e.g. "AndroidStudio3.2".
func (p Product) ConfigDir() string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, p.Name)

	return name + strconv.Itoa(p.Major) + "." + strconv.Itoa(p.Minor)
}

// Env is the environment [ConfigPath] resolves against.
type Env struct {
	// Getenv looks up environment variables.
	Getenv  func(string) string
	GOOS    string
	Home    string
	Product Product
}

// DefaultEnv returns the environment of the current process.
func DefaultEnv(product Product) Env {
	home, _ := os.UserHomeDir() //nolint:errcheck // ConfigPath reports a missing home.

	return Env{
		Getenv:  os.Getenv,
		GOOS:    runtime.GOOS,
		Home:    home,
		Product: product,
	}
}

// ConfigPath returns the location of the IDE's jdk.table.xml.
//
// A directory named by one of [ConfigPathVars] wins. Otherwise the product's
// configuration directory is looked up under the platform's default
// location: ~/.<dir> on Linux, %USERPROFILE%\.<dir> on Windows and
// ~/Library/Preferences/<dir> elsewhere.
func ConfigPath(env Env) (string, error) {
	getenv := env.Getenv
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	for _, v := range ConfigPathVars {
		if dir := getenv(v); dir != "" {
			return tablePath(dir), nil
		}
	}

	if env.Product.Name == "" {
		return "", fmt.Errorf("%w: no product name", ErrNoConfigPath)
	}

	dir := env.Product.ConfigDir()

	var base string

	switch env.GOOS {
	case "linux":
		base = env.Home
		dir = "." + dir
	case "windows":
		base = getenv("USERPROFILE")
		dir = "." + dir
	default:
		base = env.Home
		if base != "" {
			base = filepath.Join(base, "Library", "Preferences")
		}
	}

	if base == "" {
		return "", fmt.Errorf("%w: no home directory", ErrNoConfigPath)
	}

	return tablePath(filepath.Join(base, dir)), nil
}

func tablePath(configDir string) string {
	return filepath.Join(configDir, "options", "jdk.table.xml")
}
