// Package prelude generates the statements that bind imported host classes and
// static members to script globals before the script body runs.
package prelude

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/atlanticdynamic/nosorog/internal/classpath"
	"github.com/atlanticdynamic/nosorog/internal/descriptor"
)

// StatementKind distinguishes class handles from static members.
type StatementKind int

const (
	ClassStatement StatementKind = iota
	StaticStatement
)

// String returns a string representation of the StatementKind.
func (k StatementKind) String() string {
	switch k {
	case ClassStatement:
		return "Class"
	case StaticStatement:
		return "Static"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Statement binds one script global.
type Statement struct {
	Kind StatementKind
	// Binding is the global name: the class simple name or the member name.
	Binding string
	Class   string
	// Member is set for static statements.
	Member string
}

// Target returns the symbol the statement binds: the class, or class.member.
func (s Statement) Target() string {
	if s.Kind == StaticStatement {
		return s.Class + "." + s.Member
	}
	return s.Class
}

// Prelude is the generated, immutable statement list.
type Prelude struct {
	statements  []Statement
	text        string
	dialect     string
	diagnostics []error
}

// Statements returns every generated statement in import order, shadowed ones
// included.
func (p *Prelude) Statements() []Statement { return slices.Clone(p.statements) }

// Text returns the rendered source, one statement per line.
func (p *Prelude) Text() string { return p.text }

// String returns the rendered source.
func (p *Prelude) String() string { return p.text }

// Dialect returns the name of the dialect the text was rendered in.
func (p *Prelude) Dialect() string { return p.dialect }

// Diagnostics returns the non-fatal *ImportResolutionError values.
func (p *Prelude) Diagnostics() []error { return slices.Clone(p.diagnostics) }

// Generator turns imports into a Prelude.
type Generator struct {
	host    classpath.Introspector
	dialect Dialect
	logger  *slog.Logger
}

// NewGenerator creates a Generator answering class questions through host.
func NewGenerator(host classpath.Introspector, opts ...Option) *Generator {
	g := &Generator{
		host:    host,
		dialect: JavaScript{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.WithGroup("prelude")
	return g
}

// Generate emits statements in import order. Missing classes and packages are
// skipped and reported as diagnostics; a missing static single member is returned
// as an error.
func (g *Generator) Generate(imports []descriptor.ImportSpec) (*Prelude, error) {
	p := &Prelude{dialect: g.dialect.Name()}

	skip := func(imp descriptor.ImportSpec, err error) {
		ire := &ImportResolutionError{Import: imp, Err: err}
		g.logger.Warn("Skipping import", "import", imp.String(), "error", err)
		p.diagnostics = append(p.diagnostics, ire)
	}

	for _, imp := range imports {
		switch imp.Shape() {
		case descriptor.ImportClass:
			if !g.host.ClassExists(imp.QualifiedName) {
				skip(imp, ErrClassNotFound)
				continue
			}
			p.statements = append(p.statements, classStatement(imp.QualifiedName))

		case descriptor.ImportPackage:
			classes := g.host.TopLevelClasses(imp.QualifiedName)
			if len(classes) == 0 {
				skip(imp, ErrPackageNotFound)
				continue
			}
			for _, fq := range classes {
				p.statements = append(p.statements, classStatement(fq))
			}

		case descriptor.ImportStaticWildcard:
			if !g.host.ClassExists(imp.QualifiedName) {
				skip(imp, ErrClassNotFound)
				continue
			}
			members := slices.Clone(g.host.StaticMembers(imp.QualifiedName))
			slices.Sort(members)
			for _, m := range slices.Compact(members) {
				p.statements = append(p.statements, staticStatement(imp.QualifiedName, m))
			}

		case descriptor.ImportStaticMember:
			if !g.host.ClassExists(imp.QualifiedName) {
				return nil, &ImportResolutionError{Import: imp, Err: ErrClassNotFound}
			}
			if !g.host.HasStaticMember(imp.QualifiedName, imp.Member) {
				return nil, &ImportResolutionError{Import: imp, Err: ErrMemberNotFound}
			}
			p.statements = append(p.statements, staticStatement(imp.QualifiedName, imp.Member))
		}
	}

	p.text = render(g.dialect, p.statements)
	g.logger.Debug("Prelude generated", "dialect", p.dialect, "statements", len(p.statements), "skipped", len(p.diagnostics))
	return p, nil
}

func classStatement(fq string) Statement {
	return Statement{Kind: ClassStatement, Binding: descriptor.SimpleName(fq), Class: fq}
}

func staticStatement(fq, member string) Statement {
	return Statement{Kind: StaticStatement, Binding: member, Class: fq, Member: member}
}

func render(d Dialect, statements []Statement) string {
	if len(statements) == 0 {
		return ""
	}
	keep := statements
	if !d.Reassigns() {
		last := make(map[string]int, len(statements))
		for i, s := range statements {
			last[s.Binding] = i
		}
		keep = make([]Statement, 0, len(last))
		for i, s := range statements {
			if last[s.Binding] == i {
				keep = append(keep, s)
			}
		}
	}

	var b strings.Builder
	for _, s := range keep {
		b.WriteString(d.Render(s))
		b.WriteByte('\n')
	}
	return b.String()
}
