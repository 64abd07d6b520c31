package script

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlanticdynamic/nosorog/internal/binder"
	"github.com/atlanticdynamic/nosorog/internal/classpath"
	"github.com/atlanticdynamic/nosorog/internal/descriptor"
	"github.com/atlanticdynamic/nosorog/internal/engine"
	"github.com/atlanticdynamic/nosorog/internal/finitestate"
	"github.com/atlanticdynamic/nosorog/internal/hostlib"
	"github.com/atlanticdynamic/nosorog/internal/injector"
	"github.com/atlanticdynamic/nosorog/internal/prelude"
	"github.com/atlanticdynamic/nosorog/internal/testutil"
)

type Greeter interface {
	Hello() string
}

type stubGreeter struct{}

func (stubGreeter) Hello() string { return "hello from stub" }

const greetSource = `/**
 * @Name("greet")
 * @Description("says hello")
 * @Schedule("0 0 * * *")
 * @Inject Greeter greeter
 * import util.Printer
 */
greeter.hello()
`

func testRegistry(t *testing.T) *classpath.Registry {
	t.Helper()
	reg, err := classpath.NewRegistry(
		classpath.Class{Name: "app.Greeter", Type: reflect.TypeFor[Greeter]()},
		classpath.Class{
			Name:    "util.Printer",
			Type:    reflect.TypeFor[struct{}](),
			Statics: map[string]any{"shout": strings.ToUpper, "SUFFIX": "!"},
		},
		classpath.Class{Name: "lang.String", Type: reflect.TypeFor[string]()},
	)
	require.NoError(t, err)
	return reg
}

func testInjector(t *testing.T) *injector.Injector {
	t.Helper()
	inj := injector.New(injector.WithStringResources(map[string]string{"greeting": "hi"}))
	require.NoError(t, injector.ProvideValue[Greeter](inj, stubGreeter{}))
	return inj
}

func testLoader(t *testing.T, opts ...Option) *Loader {
	t.Helper()
	opts = append([]Option{WithDefaultPackages("lang", "app")}, opts...)
	return NewLoader(testRegistry(t), testInjector(t), opts...)
}

func TestLoad_Greet(t *testing.T) {
	t.Parallel()
	s, err := testLoader(t).Load(t.Context(), strings.NewReader(greetSource))
	require.NoError(t, err)

	assert.Equal(t, finitestate.ScriptExecutable, s.State())
	assert.Equal(t, "greet", s.Name())
	assert.Equal(t, "says hello", s.Description())
	assert.Equal(t, "0 0 * * *", s.Schedule())
	assert.False(t, s.IsStartup())
	assert.Equal(t, greetSource, s.Body())
	assert.Empty(t, s.Diagnostics())
	assert.False(t, s.LoadedAt().IsZero())
	assert.Equal(t, `var Printer = host.type("util.Printer");`+"\n", s.Prelude().Text())
	assert.Equal(t, []string{"greeter"}, s.Bindings().Names())
	assert.True(t, strings.HasPrefix(s.Carrier().Name(), "greet$"))

	out, err := s.RunWith(t.Context(), engine.NewGoja(engine.WithHost(testRegistry(t))))
	require.NoError(t, err)
	assert.Equal(t, "hello from stub", out)
}

func TestRunWith_PreludeGlobalsVisible(t *testing.T) {
	t.Parallel()
	src := strings.Replace(greetSource, "greeter.hello()", "Printer.shout(greeter.hello()) + Printer.SUFFIX", 1)
	s, err := testLoader(t).Load(t.Context(), strings.NewReader(src))
	require.NoError(t, err)

	out, err := s.RunWith(t.Context(), engine.NewGoja(engine.WithHost(testRegistry(t))))
	require.NoError(t, err)
	assert.Equal(t, "HELLO FROM STUB!", out)
}

func TestLoad_PrologueAndStringResources(t *testing.T) {
	t.Parallel()
	const src = `/*
 * Copyright the authors.
 */
'use strict';
/**
 * @Name("d")
 * @Resource Duration timeout
 * @Resource String region
 */
region + " " + timeout
`
	reg, err := hostlib.NewRegistry()
	require.NoError(t, err)
	inj := injector.New(injector.WithStringResources(map[string]string{
		"timeout": "30s",
		"region":  "eu-west-1",
	}))

	s, err := NewLoader(reg, inj, WithDefaultPackages("lang")).Load(t.Context(), strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "d", s.Name())
	assert.Equal(t, src, s.Body())
	assert.Equal(t, 30*time.Second, s.Bindings()["timeout"])
	assert.Equal(t, "eu-west-1", s.Bindings()["region"])
}

func TestRunWith_EngineErrorUnchanged(t *testing.T) {
	t.Parallel()
	src := strings.Replace(greetSource, "greeter.hello()", `throw new Error("boom")`, 1)
	s, err := testLoader(t).Load(t.Context(), strings.NewReader(src))
	require.NoError(t, err)

	_, err = s.RunWith(t.Context(), engine.NewGoja(engine.WithHost(testRegistry(t))))
	var scriptErr *engine.ScriptError
	require.ErrorAs(t, err, &scriptErr)
	assert.Contains(t, scriptErr.Message, "boom")
}

type recordingEngine struct {
	installed map[string]any
	sources   []string
	failOn    int
}

func (e *recordingEngine) InstallBindings(b map[string]any) error {
	e.installed = b
	return nil
}

func (e *recordingEngine) Evaluate(_ context.Context, src string) (any, error) {
	e.sources = append(e.sources, src)
	if len(e.sources) == e.failOn {
		return nil, errors.New("evaluation failed")
	}
	return len(e.sources), nil
}

func TestRunWith_Order(t *testing.T) {
	t.Parallel()
	s, err := testLoader(t).Load(t.Context(), strings.NewReader(greetSource))
	require.NoError(t, err)

	t.Run("prelude then body", func(t *testing.T) {
		eng := &recordingEngine{}
		out, err := s.RunWith(t.Context(), eng)
		require.NoError(t, err)
		assert.Equal(t, 2, out)
		assert.Contains(t, eng.installed, "greeter")
		assert.Equal(t, []string{s.Prelude().Text(), greetSource}, eng.sources)
	})

	t.Run("prelude failure stops the run", func(t *testing.T) {
		eng := &recordingEngine{failOn: 1}
		_, err := s.RunWith(t.Context(), eng)
		require.EqualError(t, err, "evaluation failed")
		assert.Len(t, eng.sources, 1)
	})

	t.Run("empty prelude is skipped", func(t *testing.T) {
		src := "/**\n * @Name(\"bare\")\n */\n1"
		bare, err := testLoader(t).Load(t.Context(), strings.NewReader(src))
		require.NoError(t, err)
		eng := &recordingEngine{}
		_, err = bare.RunWith(t.Context(), eng)
		require.NoError(t, err)
		assert.Equal(t, []string{src}, eng.sources)
	})
}

func TestRunWith_Starlark(t *testing.T) {
	t.Parallel()
	src := `/**
 * @Name("shout")
 * @Resource String greeting
 * import util.Printer
 */
_ = greeting + Printer["SUFFIX"]
`
	s, err := testLoader(t, WithDialect(prelude.Starlark{})).Load(t.Context(), strings.NewReader(src))
	require.NoError(t, err)

	eng, err := engine.NewPolyscript(engine.LanguageStarlark, engine.WithHost(testRegistry(t)))
	require.NoError(t, err)
	out, err := s.RunWith(t.Context(), eng)
	require.NoError(t, err)
	assert.Equal(t, "hi!", out)
}

func TestLoad_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		resolver binder.Resolver
		phase    Phase
		want     error
	}{
		{
			name:  "missing name",
			src:   "/**\n * @Inject Greeter greeter\n */\n",
			phase: PhaseDescribe,
			want:  descriptor.ErrMissingName,
		},
		{
			name:  "duplicate capability",
			src:   "/**\n * @Name(\"d\")\n * @Inject Greeter g\n * @Resource String g\n */\n",
			phase: PhaseDescribe,
			want:  descriptor.ErrDuplicateField,
		},
		{
			name:  "missing static member",
			src:   "/**\n * @Name(\"m\")\n * import static util.Printer.whisper\n */\n",
			phase: PhasePrelude,
			want:  prelude.ErrMemberNotFound,
		},
		{
			name: "resolver failure",
			src:  greetSource,
			resolver: binder.ResolverFunc(func(context.Context, *binder.Carrier) (any, error) {
				return nil, errors.New("host down")
			}),
			phase: PhaseBind,
			want:  binder.ErrResolutionHost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resolver binder.Resolver = testInjector(t)
			if tt.resolver != nil {
				resolver = tt.resolver
			}
			s, err := NewLoader(testRegistry(t), resolver, WithDefaultPackages("lang", "app")).
				LoadNamed(t.Context(), "inline", strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrLoad)
			assert.ErrorIs(t, err, tt.want)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.phase, loadErr.Phase)
			assert.Equal(t, "inline", loadErr.Source)
		})
	}
}

func TestLoad_DuplicateFailsBeforeSynthesis(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	resolver := binder.ResolverFunc(func(_ context.Context, c *binder.Carrier) (any, error) {
		calls.Add(1)
		return c.New(), nil
	})
	src := "/**\n * @Name(\"d\")\n * @Inject Greeter g\n * @Inject Greeter g\n */\n"
	_, err := NewLoader(testRegistry(t), resolver).Load(t.Context(), strings.NewReader(src))
	require.ErrorIs(t, err, descriptor.ErrDuplicateField)
	assert.Zero(t, calls.Load())
}

func TestLoad_Diagnostics(t *testing.T) {
	t.Parallel()
	src := `/**
 * @Name("partial")
 * @Inject Greeter greeter
 * @Inject Missing nothing
 * @Unknown
 * import nowhere.Thing
 */
greeter.hello()
`
	s, err := testLoader(t).Load(t.Context(), strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"greeter"}, s.Bindings().Names())
	assert.Empty(t, s.Prelude().Text())

	var typeErr *binder.TypeResolutionError
	var importErr *prelude.ImportResolutionError
	diags := s.Diagnostics()
	assert.True(t, hasErrorAs(diags, &typeErr))
	assert.True(t, hasErrorAs(diags, &importErr))
	assert.Equal(t, "nothing", typeErr.Variable)
}

func hasErrorAs[T error](errs []error, target *T) bool {
	for _, err := range errs {
		if errors.As(err, target) {
			return true
		}
	}
	return false
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := testLoader(t).Load(ctx, strings.NewReader(greetSource))
	require.ErrorIs(t, err, ErrCanceled)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "greet.js")
		require.NoError(t, os.WriteFile(path, []byte(greetSource), 0o600))

		s, err := testLoader(t).LoadFile(t.Context(), path)
		require.NoError(t, err)
		assert.Equal(t, path, s.Source())
		assert.Equal(t, greetSource, s.Body())
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "absent.js")
		_, err := testLoader(t).LoadFile(t.Context(), path)
		require.ErrorIs(t, err, os.ErrNotExist)

		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, PhaseRead, loadErr.Phase)
		assert.Contains(t, err.Error(), path)
	})
}

func TestLoad_DistinctCarriers(t *testing.T) {
	t.Parallel()
	seq := &binder.AtomicSequence{}
	loader := testLoader(t, WithSequence(seq))

	a, err := loader.Load(t.Context(), strings.NewReader(greetSource))
	require.NoError(t, err)
	b, err := loader.Load(t.Context(), strings.NewReader(greetSource))
	require.NoError(t, err)

	assert.Equal(t, "greet$1", a.Carrier().Name())
	assert.Equal(t, "greet$2", b.Carrier().Name())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestScript_NotExecutable(t *testing.T) {
	t.Parallel()
	for name, s := range map[string]*Script{"nil": nil, "zero": {}} {
		t.Run(name, func(t *testing.T) {
			_, err := s.RunWith(t.Context(), &recordingEngine{})
			require.ErrorIs(t, err, ErrNotSynthesized)

			_, err = s.NameE()
			require.ErrorIs(t, err, ErrNotSynthesized)
			_, err = s.BindingsE()
			require.ErrorIs(t, err, ErrNotSynthesized)

			assert.Empty(t, s.Name())
			assert.Nil(t, s.Bindings())
			assert.Nil(t, s.Prelude())
			assert.Nil(t, s.Descriptor())
			assert.Empty(t, s.Body())
			assert.Equal(t, finitestate.ScriptUnparsed, s.State())
			assert.Empty(t, s.Logs())
			assert.NoError(t, s.PlaybackLogs(slog.NewTextHandler(&bytes.Buffer{}, nil)))
		})
	}
}

func TestScript_Logs(t *testing.T) {
	t.Parallel()
	s, err := testLoader(t, WithLogHandler(slog.NewTextHandler(&bytes.Buffer{}, nil))).
		Load(t.Context(), strings.NewReader(greetSource))
	require.NoError(t, err)
	_, err = s.RunWith(t.Context(), &recordingEngine{})
	require.NoError(t, err)

	messages := make([]string, 0)
	for _, r := range s.Logs() {
		messages = append(messages, r.Message)
	}
	assert.Contains(t, messages, "Script loaded")
	assert.Contains(t, messages, "Script finished")

	buf := &testutil.ThreadSafeBuffer{}
	require.NoError(t, s.PlaybackLogs(slog.NewTextHandler(buf, nil)))
	assert.Contains(t, buf.String(), "Script loaded")
}

func TestScript_ToTree(t *testing.T) {
	t.Parallel()
	src := strings.Replace(greetSource, " * import util.Printer\n", " * import util.Printer\n * import nowhere.*\n", 1)
	s, err := testLoader(t).LoadNamed(t.Context(), "greet.js", strings.NewReader(src))
	require.NoError(t, err)

	out := s.String()
	for _, want := range []string{
		"greet", "greet.js", "says hello", `"0 0 * * *"`, "app.Greeter", "greeter",
		"import util.Printer", "Printer", "util.Printer", "Prelude [javascript]", "Diagnostics", "nowhere",
	} {
		assert.Contains(t, out, want)
	}

	assert.Contains(t, (&Script{}).String(), "unparsed")
}
