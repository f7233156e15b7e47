package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/xjavadoc/profile"
)

func TestConfigRegisterFlags(t *testing.T) {
	t.Parallel()

	cfg := profile.NewConfig()
	assert.Empty(t, cfg.CPU)
	assert.Empty(t, cfg.Heap)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterFlags(flags)

	err := flags.Parse([]string{"--cpu-profile=cpu.prof", "--heap-profile=heap.prof"})
	require.NoError(t, err)

	assert.Equal(t, "cpu.prof", cfg.CPU)
	assert.Equal(t, "heap.prof", cfg.Heap)
}

func TestConfigRegisterCompletions(t *testing.T) {
	t.Parallel()

	cfg := profile.NewConfig()
	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	require.NoError(t, cfg.RegisterCompletions(cmd))

	for _, flag := range []string{"cpu-profile", "heap-profile"} {
		fn, ok := cmd.GetFlagCompletionFunc(flag)
		require.True(t, ok, flag)

		values, directive := fn(cmd, nil, "")
		assert.Equal(t, cobra.ShellCompDirectiveFilterFileExt, directive)
		assert.Equal(t, []string{"prof", "pprof"}, values)
	}
}

func TestSession(t *testing.T) {
	t.Parallel()

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		s := profile.NewConfig().NewSession()
		require.NoError(t, s.Start())
		require.NoError(t, s.Stop())
	})

	t.Run("writes profiles", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := profile.NewConfig()
		cfg.CPU = filepath.Join(dir, "cpu.prof")
		cfg.Heap = filepath.Join(dir, "heap.prof")

		s := cfg.NewSession()
		require.NoError(t, s.Start())
		require.NoError(t, s.Stop())

		for _, p := range []string{cfg.CPU, cfg.Heap} {
			info, err := os.Stat(p)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		t.Parallel()

		cfg := profile.NewConfig()
		cfg.Heap = filepath.Join(t.TempDir(), "missing", "heap.prof")

		s := cfg.NewSession()
		require.NoError(t, s.Start())
		require.ErrorIs(t, s.Stop(), profile.ErrProfile)
	})
}
