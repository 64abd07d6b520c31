package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlanticdynamic/nosorog/internal/header"
)

func parse(t *testing.T, src string) []header.Node {
	t.Helper()
	res, err := header.ParseString(src)
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)
	return res.Nodes
}

func TestBuild_FullHeader(t *testing.T) {
	nodes := parse(t, `/**
 * @Name("greet")
 * @Description("Says hello")
 * @Startup(order=1)
 * @Schedule("*/5 * * * *")
 * @Observes nosorog.time.Clock clock
 * @Inject Greeter greeter
 * @Inject @Named("formal") Greeter formal
 * @Resource(name="greeting") String text
 * @EJB Repo repo
 * import util.Greeter
 * import static nosorog.text.Strings.upper
 * import nosorog.io.*
 */
`)

	d, diags, err := Build(nodes)
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, "greet", d.Name())
	assert.Equal(t, "Says hello", d.Description())
	assert.True(t, d.HasDescription())
	assert.True(t, d.IsStartup())
	assert.Equal(t, int64(1), d.StartupArgs()["order"].Value)
	assert.Equal(t, "*/5 * * * *", d.Schedule())
	assert.True(t, d.HasSchedule())

	require.Len(t, d.Observed(), 1)
	assert.Equal(t, "clock", d.Observed()[0].VariableName)
	assert.Equal(t, CapabilityObserved, d.Observed()[0].Capability)

	injected := d.Injected()
	require.Len(t, injected, 2)
	assert.Equal(t, "greeter", injected[0].VariableName)
	assert.Equal(t, "formal", injected[1].VariableName)
	named, ok := injected[1].Marker(KindNamed)
	require.True(t, ok)
	v, ok := named.Value()
	require.True(t, ok)
	assert.Equal(t, "formal", v.Value)

	resources := d.Resources()
	require.Len(t, resources, 2)
	assert.Equal(t, "text", resources[0].VariableName)
	assert.Equal(t, "repo", resources[1].VariableName)

	caps := d.Capabilities()
	names := make([]string, 0, len(caps))
	for _, c := range caps {
		names = append(names, c.VariableName)
	}
	assert.Equal(t, []string{"clock", "greeter", "formal", "text", "repo"}, names)

	imports := d.Imports()
	require.Len(t, imports, 3)
	assert.Equal(t, ImportSpec{QualifiedName: "util.Greeter"}, imports[0])
	assert.Equal(t, ImportSpec{Static: true, QualifiedName: "nosorog.text.Strings", Member: "upper"}, imports[1])
	assert.Equal(t, ImportSpec{Wildcard: true, QualifiedName: "nosorog.io"}, imports[2])
}

func TestBuild_NameWithoutOtherMarkers(t *testing.T) {
	d, diags, err := Build(parse(t, "/**\n * @Name(\"quiet\")\n */\n"))
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, "quiet", d.Name())
	assert.False(t, d.HasDescription())
	assert.False(t, d.IsStartup())
	assert.Nil(t, d.StartupArgs())
	assert.Empty(t, d.Capabilities())
	assert.Empty(t, d.Imports())
}

func TestBuild_MissingName(t *testing.T) {
	_, _, err := Build(parse(t, "/**\n * @Description(\"anonymous\")\n */\n"))
	require.ErrorIs(t, err, ErrMissingName)
	assert.ErrorIs(t, err, ErrDescriptor)

	_, _, err = Build(nil)
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestBuild_DuplicateField(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "same sequence",
			src:  "/**\n * @Name(\"x\")\n * @Inject A a\n * @Inject B a\n */\n",
		},
		{
			name: "across sequences",
			src:  "/**\n * @Name(\"x\")\n * @Observes A a\n * @Resource B a\n */\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, err := Build(parse(t, tt.src))
			require.ErrorIs(t, err, ErrDuplicateField)
			assert.Nil(t, d)
			assert.Contains(t, err.Error(), `"a"`)
		})
	}
}

func TestBuild_NonFatalDiagnostics(t *testing.T) {
	d, diags, err := Build(parse(t, `/**
 * @Name("first")
 * @Name("second")
 * @Named("q") Thing thing
 * @Inject Thing other
 */
`))
	require.NoError(t, err)
	assert.Equal(t, "first", d.Name())
	require.Len(t, d.Injected(), 1)
	assert.Equal(t, "other", d.Injected()[0].VariableName)

	require.Len(t, diags, 2)
	assert.ErrorIs(t, diags[0], ErrDuplicateMarker)
	assert.ErrorIs(t, diags[1], ErrNoCapability)
	var ne *NodeError
	require.ErrorAs(t, diags[1], &ne)
	assert.Equal(t, 4, ne.Line)
}

func TestBuild_FirstCapabilityMarkerWins(t *testing.T) {
	d, _, err := Build(parse(t, "/**\n * @Name(\"x\")\n * @Named(\"n\") @Resource @Inject Thing thing\n */\n"))
	require.NoError(t, err)
	assert.Empty(t, d.Injected())
	require.Len(t, d.Resources(), 1)
	assert.Len(t, d.Resources()[0].Markers, 3)
}

func TestDescriptor_AccessorsReturnCopies(t *testing.T) {
	d, _, err := Build(parse(t, "/**\n * @Name(\"x\")\n * @Inject A a\n * import p.A\n */\n"))
	require.NoError(t, err)

	injected := d.Injected()
	injected[0].VariableName = "changed"
	imports := d.Imports()
	imports[0].QualifiedName = "changed"

	assert.Equal(t, "a", d.Injected()[0].VariableName)
	assert.Equal(t, "p.A", d.Imports()[0].QualifiedName)
}

func TestImportSpec(t *testing.T) {
	tests := []struct {
		in     header.Import
		shape  ImportShape
		simple string
		render string
	}{
		{header.Import{Path: "a.b.C"}, ImportClass, "C", "import a.b.C"},
		{header.Import{Path: "a.b", Wildcard: true}, ImportPackage, "b", "import a.b.*"},
		{header.Import{Path: "a.C", Static: true, Wildcard: true}, ImportStaticWildcard, "C", "import static a.C.*"},
		{header.Import{Path: "a.C.m", Static: true}, ImportStaticMember, "C", "import static a.C.m"},
	}
	for _, tt := range tests {
		t.Run(tt.render, func(t *testing.T) {
			spec := NewImportSpec(tt.in)
			assert.Equal(t, tt.shape, spec.Shape())
			assert.Equal(t, tt.simple, spec.SimpleName())
			assert.Equal(t, tt.render, spec.String())
		})
	}
}

func TestCapabilityOf(t *testing.T) {
	for _, kind := range []string{KindResource, KindEJB, KindWebServiceRef, KindPersistenceUnit, KindPersistenceContext} {
		assert.Equal(t, CapabilityResource, CapabilityOf(kind), kind)
	}
	assert.Equal(t, CapabilityInjected, CapabilityOf(KindInject))
	assert.Equal(t, CapabilityObserved, CapabilityOf(KindObserves))
	assert.Equal(t, CapabilityUnspecified, CapabilityOf(KindNamed))
	assert.Equal(t, CapabilityUnspecified, CapabilityOf("InjectAll"))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "C", SimpleName("a.b.C"))
	assert.Equal(t, "C", SimpleName("C"))
	assert.Equal(t, "a.b", PackageName("a.b.C"))
	assert.Empty(t, PackageName("C"))
}
