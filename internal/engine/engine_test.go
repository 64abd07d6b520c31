package engine

import (
	"bytes"
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter struct{ greeting string }

func (g *greeter) Hello() string { return g.greeting }

type fakeCatalog map[string]map[string]any

func (c fakeCatalog) Handle(fq string) (map[string]any, bool) {
	h, ok := c[fq]
	return h, ok
}

func (c fakeCatalog) Classes() []string {
	names := make([]string, 0, len(c))
	for k := range c {
		names = append(names, k)
	}
	return names
}

func testCatalog() fakeCatalog {
	return fakeCatalog{
		"nosorog.text.Strings": {
			"upper": func(s string) string { return s + "!" },
			"empty": "",
		},
		"m.Math": {"pi": 3.14},
	}
}

func TestGoja_BindingsThenPreludeThenBody(t *testing.T) {
	e := NewGoja(WithHost(testCatalog()))
	require.NoError(t, e.InstallBindings(map[string]any{
		"greeter": &greeter{greeting: "hello"},
		"count":   int64(2),
	}))

	_, err := e.Evaluate(t.Context(), `var upper = host.type("nosorog.text.Strings").upper;`)
	require.NoError(t, err)

	out, err := e.Evaluate(t.Context(), `upper(greeter.hello()) + count`)
	require.NoError(t, err)
	assert.Equal(t, "hello!2", out)
}

func TestGoja_UndefinedResultIsNil(t *testing.T) {
	out, err := NewGoja().Evaluate(t.Context(), `var x = 1;`)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestGoja_Print(t *testing.T) {
	var buf bytes.Buffer
	e := NewGoja(WithOutput(&buf))
	_, err := e.Evaluate(t.Context(), `print("a", 1)`)
	require.NoError(t, err)
	assert.Equal(t, "a 1\n", buf.String())
}

func TestGoja_Errors(t *testing.T) {
	t.Run("exception", func(t *testing.T) {
		_, err := NewGoja().Evaluate(t.Context(), `throw new Error("nope")`)
		var se *ScriptError
		require.ErrorAs(t, err, &se)
		assert.Contains(t, se.Error(), "nope")
	})

	t.Run("unknown class", func(t *testing.T) {
		_, err := NewGoja(WithHost(testCatalog())).Evaluate(t.Context(), `host.type("no.Such")`)
		var se *ScriptError
		require.ErrorAs(t, err, &se)
		assert.Contains(t, se.Error(), "no.Such")
	})

	t.Run("syntax", func(t *testing.T) {
		_, err := NewGoja().Evaluate(t.Context(), `var = ;`)
		assert.ErrorIs(t, err, ErrCompile)
	})

	t.Run("timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
		defer cancel()
		_, err := NewGoja().Evaluate(ctx, `for (;;) {}`)
		require.ErrorIs(t, err, ErrInterrupted)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("cancelled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err := NewGoja().Evaluate(ctx, `1`)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGoja_UsableAfterInterrupt(t *testing.T) {
	e := NewGoja()
	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	_, err := e.Evaluate(ctx, `for (;;) {}`)
	require.Error(t, err)

	out, err := e.Evaluate(t.Context(), `1 + 1`)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out)
}

func TestNew(t *testing.T) {
	for _, lang := range Languages {
		e, err := New(lang)
		require.NoError(t, err, lang)
		assert.NotNil(t, e)
	}
	_, err := New("cobol")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)

	assert.Equal(t, ".js", Extension(LanguageJavaScript))
	assert.Equal(t, ".risor", Extension(LanguageRisor))
	assert.Equal(t, ".star", Extension(LanguageStarlark))
}

func TestPolyscript_InstallBindingsValidation(t *testing.T) {
	p, err := NewPolyscript(LanguageRisor)
	require.NoError(t, err)

	assert.NoError(t, p.InstallBindings(map[string]any{
		"name":  "x",
		"items": []any{"a", int64(1)},
		"conf":  map[string]any{"k": true},
	}))
	assert.ErrorIs(t, p.InstallBindings(map[string]any{"g": &greeter{}}), ErrInvalidBinding)
	assert.ErrorIs(t, p.InstallBindings(map[string]any{"fn": func() {}}), ErrInvalidBinding)
	assert.ErrorIs(t, p.InstallBindings(map[string]any{"bad-name": 1}), ErrInvalidBinding)
	assert.ErrorIs(t, p.InstallBindings(map[string]any{"host": 1}), ErrInvalidBinding)

	_, err = NewPolyscript("javascript")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestPolyscript_ProgramReplaysSources(t *testing.T) {
	p, err := NewPolyscript(LanguageStarlark)
	require.NoError(t, err)
	require.NoError(t, p.InstallBindings(map[string]any{"b": 1, "a": 2}))
	p.sources = []string{"x = 1", "y = 2\n"}

	assert.Equal(t, "a = ctx[\"a\"]\nb = ctx[\"b\"]\nx = 1\ny = 2\n_ = x", p.program("_ = x"))

	r, err := NewPolyscript(LanguageRisor)
	require.NoError(t, err)
	require.NoError(t, r.InstallBindings(map[string]any{"a": 2}))
	assert.Equal(t, "a := ctx.get(\"a\")\na", r.program("a"))
}

func TestPolyscript_HandlesKeepDataOnly(t *testing.T) {
	p, err := NewPolyscript(LanguageRisor, WithHost(testCatalog()))
	require.NoError(t, err)

	h := p.handles()
	assert.Equal(t, map[string]any{"empty": ""}, h["nosorog.text.Strings"])
	assert.Equal(t, map[string]any{"pi": 3.14}, h["m.Math"])

	plain, err := NewPolyscript(LanguageRisor)
	require.NoError(t, err)
	assert.Empty(t, plain.handles())
}

func TestPolyscript_Risor(t *testing.T) {
	p, err := NewPolyscript(LanguageRisor, WithHost(testCatalog()))
	require.NoError(t, err)
	require.NoError(t, p.InstallBindings(map[string]any{"text": "hi"}))

	_, err = p.Evaluate(t.Context(), `suffix := "!"`)
	require.NoError(t, err)

	out, err := p.Evaluate(t.Context(), `text + suffix`)
	require.NoError(t, err)
	assert.Equal(t, "hi!", out)
}

func TestPolyscript_Starlark(t *testing.T) {
	p, err := NewPolyscript(LanguageStarlark, WithHost(testCatalog()))
	require.NoError(t, err)
	require.NoError(t, p.InstallBindings(map[string]any{"text": "hi"}))

	_, err = p.Evaluate(t.Context(), `pi = ctx["host"]["m.Math"]["pi"]`)
	require.NoError(t, err)

	out, err := p.Evaluate(t.Context(), `_ = text + " " + str(pi)`)
	require.NoError(t, err)
	assert.Equal(t, "hi 3.14", out)
}

func TestPolyscript_CompileError(t *testing.T) {
	p, err := NewPolyscript(LanguageStarlark)
	require.NoError(t, err)
	_, err = p.Evaluate(t.Context(), `def (`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompile)
	assert.Empty(t, p.sources)
}

func TestIsData(t *testing.T) {
	assert.True(t, isData(reflect.ValueOf(nil)))
	assert.True(t, isData(reflect.ValueOf([]string{"a"})))
	assert.True(t, isData(reflect.ValueOf(map[string][]int{"a": {1}})))
	assert.False(t, isData(reflect.ValueOf(map[int]string{1: "a"})))
	assert.False(t, isData(reflect.ValueOf([]any{func() {}})))
	assert.False(t, isData(reflect.ValueOf(struct{}{})))
}

func TestMaskHeader(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no header", in: "x = 1\n", want: "x = 1\n"},
		{name: "header", in: "/**\n * @Name(\"a\")\n */\nx = 1\n", want: "\n\n\nx = 1\n"},
		{name: "crlf", in: "\n/**\r\n */\r\nx", want: "\n\r\n\r\nx"},
		{name: "unterminated", in: "/**\n * @Name(\"a\")\n", want: "/**\n * @Name(\"a\")\n"},
		{name: "not leading", in: "x = 1\n/**\n */\n", want: "x = 1\n/**\n */\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskHeader(tt.in))
		})
	}
}
