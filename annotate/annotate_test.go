package annotate_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/xjavadoc/annotate"
	"go.jacobcolvin.com/xjavadoc/fragment"
	"go.jacobcolvin.com/xjavadoc/javasrc"
	"go.jacobcolvin.com/xjavadoc/stringtest"
)

func TestSynthesize(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		name   string
		markup string
		params []javasrc.Parameter
		result javasrc.Type
		want   string
	}{
		"void with parameters": {
			name:   "glUniform4fv",
			markup: "<div>sets uniform value</div>",
			params: []javasrc.Parameter{
				{Name: "location", Type: javasrc.Type{Name: "int"}},
				{Name: "count", Type: javasrc.Type{Name: "int"}},
				{Name: "value", Type: javasrc.Type{Name: "float", Dims: 1}},
			},
			result: javasrc.Type{Name: "void"},
			want: stringtest.Lines(
				"glUniform4fv",
				"<div>sets uniform value</div>",
				"",
				"@param location location",
				"@param count count",
				"@param value value",
			),
		},
		"no parameters with result": {
			name:   "glGetError",
			markup: "<div>return error information</div>",
			result: javasrc.Type{Name: "int"},
			want: stringtest.Lines(
				"glGetError",
				"<div>return error information</div>",
				"",
				"",
				"@return int",
			),
		},
		"array result": {
			name:   "f",
			markup: "<p/>",
			params: []javasrc.Parameter{{Name: "n", Type: javasrc.Type{Name: "int"}}},
			result: javasrc.Type{Name: "byte", Dims: 1},
			want: stringtest.Lines(
				"f",
				"<p/>",
				"",
				"@param n n",
				"",
				"@return byte[]",
			),
		},
		"empty markup": {
			name:   "g",
			markup: "",
			result: javasrc.Type{Name: "String", Args: nil, Dims: 2},
			want:   "g\n\n\n\n@return String[][]\n",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := annotate.Synthesize(tc.name, tc.markup, tc.params, tc.result)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAnnotate(t *testing.T) {
	t.Parallel()

	archive := fragment.New(map[string][]byte{
		"glUniform.html": []byte(`<html><body><div class="refentry"><a name="glUniform"></a>sets uniform value</div></body></html>`),
		"glClear.html":   []byte(`<html><body><div>clear buffers</div></body></html>`),
		"glBroken.html":  []byte(`no markup at all`),
	})

	src := stringtest.JoinLF(
		"package android.opengl;",
		"",
		"public class GLES20 {",
		"    public static final int GL_ONE = 1;",
		"    public static int counter;",
		"    private static final int HIDDEN = 2;",
		"",
		"    // C function void glUniform4fv ( GLint location, GLsizei count, const GLfloat *v )",
		"",
		"    public static native void glUniform4fv(int location, int count, float[] value);",
		"",
		"    public static native void glClear(int mask);",
		"",
		"    public static native void glBroken();",
		"",
		"    public static native void glMissing();",
		"",
		"    public native void glInstance();",
		"}",
		"",
	)

	f, err := javasrc.Parse("GLES20.java", []byte(src))
	require.NoError(t, err)

	var logs bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	rep := annotate.New(archive, annotate.WithLogger(logger)).Annotate(f)

	byName := map[string]annotate.Result{}
	for _, res := range rep.Results {
		byName[res.Declaration] = res
	}

	require.Len(t, rep.Results, 5)

	assert.Equal(t, annotate.StatusAnnotated, byName["GL_ONE"].Status)
	assert.Equal(t, annotate.KindField, byName["GL_ONE"].Kind)

	uniform := byName["glUniform4fv"]
	assert.Equal(t, annotate.StatusAnnotated, uniform.Status)
	assert.Equal(t, "glUniform", uniform.Fragment)
	assert.Equal(t, 10, uniform.Line)

	assert.Equal(t, "glClear", byName["glClear"].Fragment)

	broken := byName["glBroken"]
	assert.Equal(t, annotate.StatusFailed, broken.Status)
	require.ErrorIs(t, broken.Err, fragment.ErrMalformedFragment)

	assert.Equal(t, annotate.StatusSkipped, byName["glMissing"].Status)

	assert.Equal(t, 3, rep.Count(annotate.StatusAnnotated))
	assert.Equal(t, 1, rep.Count(annotate.StatusSkipped))
	assert.Equal(t, 1, rep.Count(annotate.StatusFailed))

	doc, ok := f.Methods[0].Doc()
	require.True(t, ok)
	assert.Equal(t, stringtest.Lines(
		"glUniform4fv",
		`<div class="refentry">sets uniform value</div>`,
		"",
		"@param location location",
		"@param count count",
		"@param value value",
	), doc)

	want := stringtest.JoinLF(
		"package android.opengl;",
		"",
		"public class GLES20 {",
		"    /** GL_ONE {@value} */",
		"    public static final int GL_ONE = 1;",
		"    public static int counter;",
		"    private static final int HIDDEN = 2;",
		"",
		"    // C function void glUniform4fv ( GLint location, GLsizei count, const GLfloat *v )",
		"",
		"    /**",
		"     * glUniform4fv",
		`     * <div class="refentry">sets uniform value</div>`,
		"     *",
		"     * @param location location",
		"     * @param count count",
		"     * @param value value",
		"     */",
		"    public static native void glUniform4fv(int location, int count, float[] value);",
		"",
		"    /**",
		"     * glClear",
		"     * <div>clear buffers</div>",
		"     *",
		"     * @param mask mask",
		"     */",
		"    public static native void glClear(int mask);",
		"",
		"    public static native void glBroken();",
		"",
		"    public static native void glMissing();",
		"",
		"    public native void glInstance();",
		"}",
		"",
	)
	assert.Equal(t, want, string(f.Bytes()))

	assert.Contains(t, logs.String(), "trying normalized name")
	assert.Contains(t, logs.String(), "candidate=glUniform")
	assert.Contains(t, logs.String(), "no fragment for method")
}

func TestAnnotateFile(t *testing.T) {
	t.Parallel()

	archive := fragment.New(map[string][]byte{
		"glClear.html": []byte(`<html><body><div>clear buffers</div></body></html>`),
	})

	t.Run("writes into new directories", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := filepath.Join(dir, "GLES20.java")
		dst := filepath.Join(dir, "out", "android", "opengl", "GLES20.java")

		require.NoError(t, os.WriteFile(src, []byte("class GLES20 {\n  public static native void glClear(int mask);\n}\n"), 0o600))

		rep := annotate.New(archive).AnnotateFile(src, dst)
		require.NoError(t, rep.Err)
		assert.Equal(t, 1, rep.Count(annotate.StatusAnnotated))

		out, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Contains(t, string(out), "   * <div>clear buffers</div>\n")
	})

	t.Run("missing source is abandoned", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		dst := filepath.Join(dir, "out", "Missing.java")

		rep := annotate.New(archive).AnnotateFile(filepath.Join(dir, "Missing.java"), dst)
		require.ErrorIs(t, rep.Err, annotate.ErrSource)
		require.ErrorIs(t, rep.Err, javasrc.ErrRead)
		assert.Empty(t, rep.Results)

		_, err := os.Stat(dst)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unwritable destination", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := filepath.Join(dir, "A.java")
		blocker := filepath.Join(dir, "blocker")

		require.NoError(t, os.WriteFile(src, []byte("class A {}\n"), 0o600))
		require.NoError(t, os.WriteFile(blocker, nil, 0o600))

		rep := annotate.New(archive).AnnotateFile(src, filepath.Join(blocker, "A.java"))
		require.ErrorIs(t, rep.Err, annotate.ErrWrite)
	})
}
