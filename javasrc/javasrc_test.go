package javasrc_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/xjavadoc/javasrc"
	"go.jacobcolvin.com/xjavadoc/stringtest"
)

func TestParseGLES20(t *testing.T) {
	t.Parallel()

	f, err := javasrc.ParseFile(filepath.Join("testdata", "GLES20.java"))
	require.NoError(t, err)

	assert.Equal(t, "android.opengl", f.Package)
	assert.Empty(t, f.Problems)

	var fields []string
	for _, fd := range f.Fields {
		fields = append(fields, fd.Name)
	}

	assert.Equal(t, []string{"GL_ACTIVE_TEXTURE", "GL_DEPTH_BUFFER_BIT", "GL_COLOR_BUFFER_BIT"}, fields)

	first := f.Fields[0]
	assert.True(t, first.Public)
	assert.True(t, first.Static)
	assert.True(t, first.Final)
	assert.Equal(t, "0x84E0", first.Initializer)
	assert.Equal(t, []string{"int", "GL_ACTIVE_TEXTURE", "0x84E0"}, first.Parts())

	methods := map[string]*javasrc.Method{}
	for _, m := range f.Methods {
		methods[m.Name] = m
	}

	require.Len(t, f.Methods, 8)

	classInit := methods["_nativeClassInit"]
	require.NotNil(t, classInit)
	assert.True(t, classInit.Private)
	assert.True(t, classInit.Native)
	assert.False(t, classInit.Public)

	uniform := methods["glUniform4fv"]
	require.NotNil(t, uniform)
	assert.True(t, uniform.Result.IsVoid())
	assert.Equal(t, []javasrc.Parameter{
		{Name: "location", Type: javasrc.Type{Name: "int"}},
		{Name: "count", Type: javasrc.Type{Name: "int"}},
		{Name: "v", Type: javasrc.Type{Name: "float", Dims: 1}},
		{Name: "offset", Type: javasrc.Type{Name: "int"}},
	}, uniform.Params)

	getError := methods["glGetError"]
	require.NotNil(t, getError)
	assert.Empty(t, getError.Params)
	assert.Equal(t, "int", getError.Result.String())

	pointer := methods["glVertexAttribPointer"]
	require.NotNil(t, pointer)
	assert.False(t, pointer.Native)
	assert.Equal(t, "java.nio.Buffer", pointer.Params[5].Type.String())

	assert.Equal(t, "String", methods["glGetString"].Result.String())
}

func TestParseEGL14(t *testing.T) {
	t.Parallel()

	f, err := javasrc.ParseFile(filepath.Join("testdata", "EGL14.java"))
	require.NoError(t, err)

	var names []string
	for _, fd := range f.Fields {
		names = append(names, fd.Name)
	}

	assert.Equal(t, []string{"EGL_DEFAULT_DISPLAY", "EGL_NO_CONTEXT", "EGL_NO_DISPLAY", "EGL_SUCCESS"}, names)
	assert.False(t, f.Fields[1].Final)
	assert.Equal(t, "EGLContext", f.Fields[1].Type.String())

	var display *javasrc.Method
	for _, m := range f.Methods {
		if m.Name == "eglGetDisplay" {
			display = m
		}
	}

	require.NotNil(t, display)
	assert.Contains(t, display.ExistingDoc(), "{@hide}")
	assert.Equal(t, "EGLDisplay", display.Result.String())
	assert.Equal(t, "long", display.Params[0].Type.String())
}

func TestBytesRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"GLES20.java", "EGL14.java"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			src, err := os.ReadFile(filepath.Join("testdata", name))
			require.NoError(t, err)

			f, err := javasrc.Parse(name, src)
			require.NoError(t, err)

			assert.Equal(t, string(src), string(f.Bytes()))
		})
	}
}

func TestSetDoc(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		src  string
		edit func(t *testing.T, f *javasrc.File)
		want string
	}{
		"inserts multi-line block with indentation": {
			src: stringtest.JoinLF(
				"class A {",
				"    // C function",
				"",
				"    public static native void glClear(int mask);",
				"}",
				"",
			),
			edit: func(t *testing.T, f *javasrc.File) {
				t.Helper()

				f.Methods[0].SetDoc("glClear\n<p>clear</p>\n\n@param mask mask\n")
			},
			want: stringtest.JoinLF(
				"class A {",
				"    // C function",
				"",
				"    /**",
				"     * glClear",
				"     * <p>clear</p>",
				"     *",
				"     * @param mask mask",
				"     */",
				"    public static native void glClear(int mask);",
				"}",
				"",
			),
		},
		"single line block": {
			src: stringtest.JoinLF(
				"class A {",
				"\tpublic static final int GL_ONE = 1;",
				"}",
			),
			edit: func(t *testing.T, f *javasrc.File) {
				t.Helper()

				f.Fields[0].SetDoc("GL_ONE {@value}")
			},
			want: stringtest.JoinLF(
				"class A {",
				"\t/** GL_ONE {@value} */",
				"\tpublic static final int GL_ONE = 1;",
				"}",
			),
		},
		"replaces existing javadoc": {
			src: stringtest.JoinLF(
				"class A {",
				"    /**",
				"     * {@hide}",
				"     */",
				"    @Deprecated",
				"    public static native int eglGetError();",
				"}",
			),
			edit: func(t *testing.T, f *javasrc.File) {
				t.Helper()

				f.Methods[0].SetDoc("eglGetError\n<p>error</p>\n")
			},
			want: stringtest.JoinLF(
				"class A {",
				"    /**",
				"     * eglGetError",
				"     * <p>error</p>",
				"     */",
				"    @Deprecated",
				"    public static native int eglGetError();",
				"}",
			),
		},
		"second SetDoc replaces the first": {
			src: "class A { public static void f() {} }",
			edit: func(t *testing.T, f *javasrc.File) {
				t.Helper()

				f.Methods[0].SetDoc("first")
				f.Methods[0].SetDoc("second")
			},
			want: "class A { /** second */\npublic static void f() {} }",
		},
		"comment terminator is escaped": {
			src: "class A {\npublic static void f();\n}",
			edit: func(t *testing.T, f *javasrc.File) {
				t.Helper()

				f.Methods[0].SetDoc("a */ b")
			},
			want: "class A {\n/** a *&#47; b */\npublic static void f();\n}",
		},
		"only documented members change": {
			src: stringtest.JoinLF(
				"class A {",
				"  public static final int X = 1, Y = 2;",
				"  private int z;",
				"  public static final String S = \"a;b{c\";",
				"}",
			),
			edit: func(t *testing.T, f *javasrc.File) {
				t.Helper()

				require.Len(t, f.Fields, 3)
				assert.Equal(t, `"a;b{c"`, f.Fields[2].Initializer)

				f.Fields[2].SetDoc("S {@value}")
			},
			want: stringtest.JoinLF(
				"class A {",
				"  public static final int X = 1, Y = 2;",
				"  private int z;",
				"  /** S {@value} */",
				"  public static final String S = \"a;b{c\";",
				"}",
			),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, err := javasrc.Parse("A.java", []byte(tc.src))
			require.NoError(t, err)

			tc.edit(t, f)

			assert.Equal(t, tc.want, string(f.Bytes()))
		})
	}
}

func TestParseDeclarationShapes(t *testing.T) {
	t.Parallel()

	src := stringtest.JoinLF(
		"package p;",
		"import java.util.List;",
		"public class A<T> extends B implements C {",
		"  private A() { super(); }",
		"  @SuppressWarnings(\"unchecked\") public static <E extends Comparable<E>> List<? extends E> sort(final List<E> in, int... keys) throws java.io.IOException, RuntimeException { return null; }",
		"  static int[] table[] = { {1}, {2} };",
		"  enum Mode { A, B(1) { void x() {} }; public static void m() {} }",
		"  interface I { void run(); }",
		"  { instance(); }",
		"}",
	)

	f, err := javasrc.Parse("A.java", []byte(src))
	require.NoError(t, err)
	assert.Empty(t, f.Problems)

	byName := map[string]*javasrc.Method{}
	for _, m := range f.Methods {
		byName[m.Name] = m
	}

	ctor := byName["A"]
	require.NotNil(t, ctor)
	assert.True(t, ctor.Constructor)

	sorted := byName["sort"]
	require.NotNil(t, sorted)
	assert.Equal(t, []string{"SuppressWarnings"}, sorted.Annotations)
	assert.Equal(t, "List<? extends E>", sorted.Result.String())
	assert.Equal(t, "List<E>", sorted.Params[0].Type.String())
	assert.True(t, sorted.Params[1].Varargs)
	assert.Len(t, sorted.Throws, 2)

	assert.NotNil(t, byName["m"])
	assert.NotNil(t, byName["run"])

	require.Len(t, f.Fields, 1)
	assert.Equal(t, "table", f.Fields[0].Name)
	assert.Equal(t, 2, f.Fields[0].Type.Dims)
	assert.Equal(t, "{ {1}, {2} }", f.Fields[0].Initializer)

	assert.Equal(t, src, string(f.Bytes()))
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"unbalanced close":         "class A { } }",
		"unterminated class":       "class A { void f() {",
		"unterminated field":       "class A { int x = 1",
		"unterminated declaration": "class A { int x",
	}

	for name, src := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := javasrc.Parse("A.java", []byte(src))
			require.ErrorIs(t, err, javasrc.ErrSyntax)
		})
	}
}

func TestProblemsAreReported(t *testing.T) {
	t.Parallel()

	src := "class A {\n  int value() default 1;\n  public static void ok() {}\n}"

	f, err := javasrc.Parse("A.java", []byte(src))
	require.NoError(t, err)

	require.Len(t, f.Problems, 1)
	assert.Equal(t, 2, f.Problems[0].Line)
	assert.True(t, strings.HasPrefix(f.Problems[0].Header, "int value()"))

	require.Len(t, f.Methods, 1)
	assert.Equal(t, "ok", f.Methods[0].Name)
}

func TestParseFileMissing(t *testing.T) {
	t.Parallel()

	_, err := javasrc.ParseFile(filepath.Join(t.TempDir(), "Missing.java"))
	require.ErrorIs(t, err, javasrc.ErrRead)
}
