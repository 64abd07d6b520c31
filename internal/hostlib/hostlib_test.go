package hostlib

import (
	"bytes"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlanticdynamic/nosorog/internal/binder"
	"github.com/atlanticdynamic/nosorog/internal/descriptor"
	"github.com/atlanticdynamic/nosorog/internal/header"
	"github.com/atlanticdynamic/nosorog/internal/injector"
)

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	assert.Equal(t, []string{
		ClassAny, ClassBool, ClassDuration, ClassFloat, ClassInt, ClassList, ClassMap, ClassString,
	}, reg.TopLevelClasses("lang"))
	assert.True(t, reg.HasStaticMember(ClassStrings, "upper"))
	assert.True(t, reg.HasStaticMember(ClassClock, "RFC3339"))

	h, ok := reg.Handle(ClassConsole)
	require.True(t, ok)
	assert.Contains(t, h, "new")

	_, err = NewRegistry(Classes()[0])
	assert.Error(t, err)
}

func TestStatics(t *testing.T) {
	s := stringsStatics()
	assert.Equal(t, "ABC", s["upper"].(func(string) string)("abc"))
	assert.Equal(t, "a-b", s["join"].(func([]string, string) string)([]string{"a", "b"}, "-"))

	id, err := idStatics()["v6"].(func() (string, error))()
	require.NoError(t, err)
	parsed, err := uuid.FromString(id)
	require.NoError(t, err)
	assert.Equal(t, byte(6), parsed.Version())

	t.Setenv("NOSOROG_HOSTLIB_TEST", "set")
	get := envStatics()["get"].(func(string, string) string)
	assert.Equal(t, "set", get("NOSOROG_HOSTLIB_TEST", "fallback"))
	assert.Equal(t, "fallback", get("NOSOROG_HOSTLIB_UNSET", "fallback"))

	d, err := durationStatics()["parse"].(func(string) (time.Duration, error))("2s")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Println("a", 1)
	c.Printf("%s=%d\n", "b", 2)
	assert.Equal(t, "a 1\nb=2\n", buf.String())
}

func TestProvide_InjectsLibraryClasses(t *testing.T) {
	var out, logs bytes.Buffer
	fixed := FixedClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	inj := injector.New()
	require.NoError(t, Provide(inj,
		WithOutput(&out),
		WithLogHandler(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
		WithClock(fixed),
	))

	res, err := header.ParseString(`/**
 * @Name("lib")
 * @Inject Console console
 * @Inject Clock clock
 * @Inject Logger log
 * import nosorog.io.*
 * import nosorog.time.*
 * import nosorog.log.Logger
 */
`)
	require.NoError(t, err)
	d, _, err := descriptor.Build(res.Nodes)
	require.NoError(t, err)

	reg, err := NewRegistry()
	require.NoError(t, err)
	bound, err := binder.New(reg, inj).Bind(t.Context(), d)
	require.NoError(t, err)
	require.Empty(t, bound.Diagnostics)

	bound.Bindings["console"].(*Console).Println("hi")
	assert.Equal(t, "hi\n", out.String())

	assert.Equal(t, fixed, bound.Bindings["clock"])

	bound.Bindings["log"].(*Logger).Info("from script", "k", "v")
	assert.Contains(t, logs.String(), "from script")
	assert.Contains(t, logs.String(), "Script logger ready")

	assert.Equal(t, reflect.TypeFor[*Logger](), reflect.TypeOf(bound.Bindings["log"]))
}
