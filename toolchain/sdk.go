package toolchain

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MinAPILevel is the lowest API level considered. It is returned when no
// newer sources are installed.
const MinAPILevel = 21

// ErrListSources is returned when the SDK sources directory cannot be read.
var ErrListSources = errors.New("list sdk sources")

// HighestAPILevel returns the highest API level for which sources are
// installed under sdkRoot, i.e. the largest N of the sources/android-N
// directories, but at least [MinAPILevel]. Entries whose level is not a
// number are logged and ignored.
func HighestAPILevel(sdkRoot string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Join(sdkRoot, "sources")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrListSources, err)
	}

	highest := MinAPILevel

	for _, e := range entries {
		_, suffix, ok := strings.Cut(e.Name(), "-")
		if !ok {
			continue
		}

		// Suffixes such as "28-ext" only count their leading part.
		suffix, _, _ = strings.Cut(suffix, "-")

		level, err := strconv.Atoi(suffix)
		if err != nil {
			logger.Warn("ignoring sources directory",
				slog.String("dir", filepath.Join(dir, e.Name())),
				slog.Any("err", err),
			)

			continue
		}

		highest = max(highest, level)
	}

	logger.Debug("found highest api level", slog.Int("level", highest))

	return highest, nil
}

// Layout locates the files of one platform inside an Android SDK.
type Layout struct {
	Root     string
	APILevel int
}

func (l Layout) platform() string {
	return "android-" + strconv.Itoa(l.APILevel)
}

// BootClassPath returns the platform's android.jar.
func (l Layout) BootClassPath() string {
	return filepath.Join(l.Root, "platforms", l.platform(), "android.jar")
}

// SourcesDir returns the root of the platform's Java sources.
func (l Layout) SourcesDir() string {
	return filepath.Join(l.Root, "sources", l.platform())
}

// Source returns the path of a file below [Layout.SourcesDir], given with
// forward slashes.
func (l Layout) Source(rel string) string {
	return filepath.Join(l.SourcesDir(), filepath.FromSlash(rel))
}

// DocsDir returns the SDK documentation directory.
func (l Layout) DocsDir() string {
	return filepath.Join(l.Root, "docs")
}
