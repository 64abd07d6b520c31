package prelude

import (
	"fmt"
	"strconv"
	"strings"
)

// HostGlobal is the name under which engines expose the class handles.
const HostGlobal = "host"

// Dialect renders statements in one scripting language.
type Dialect interface {
	// Name is the language name used in configuration.
	Name() string
	// Render returns the source text of one statement, without a line terminator.
	Render(s Statement) string
	// Reassigns reports whether a later statement may rebind a name bound earlier.
	// When false, only the last statement per binding is rendered.
	Reassigns() bool
}

// JavaScript renders `var X = host.type("a.X");`.
type JavaScript struct{}

func (JavaScript) Name() string    { return "javascript" }
func (JavaScript) Reassigns() bool { return true }

func (JavaScript) Render(s Statement) string {
	expr := fmt.Sprintf("%s.type(%s)", HostGlobal, strconv.Quote(s.Class))
	if s.Kind == StaticStatement {
		expr += "." + s.Member
	}
	return "var " + s.Binding + " = " + expr + ";"
}

// Risor renders `X := ctx.get("host").get("a.X")`.
type Risor struct{}

func (Risor) Name() string    { return "risor" }
func (Risor) Reassigns() bool { return true }

func (Risor) Render(s Statement) string {
	expr := fmt.Sprintf("ctx.get(%s).get(%s)", strconv.Quote(HostGlobal), strconv.Quote(s.Class))
	if s.Kind == StaticStatement {
		expr += "[" + strconv.Quote(s.Member) + "]"
	}
	return s.Binding + " := " + expr
}

// Starlark renders `X = ctx["host"]["a.X"]`. Starlark forbids rebinding a global,
// so shadowed statements are dropped.
type Starlark struct{}

func (Starlark) Name() string    { return "starlark" }
func (Starlark) Reassigns() bool { return false }

func (Starlark) Render(s Statement) string {
	expr := fmt.Sprintf("ctx[%s][%s]", strconv.Quote(HostGlobal), strconv.Quote(s.Class))
	if s.Kind == StaticStatement {
		expr += "[" + strconv.Quote(s.Member) + "]"
	}
	return s.Binding + " = " + expr
}

// DialectFor returns the dialect registered under a language name.
func DialectFor(language string) (Dialect, error) {
	switch strings.ToLower(language) {
	case "", "javascript", "js":
		return JavaScript{}, nil
	case "risor":
		return Risor{}, nil
	case "starlark":
		return Starlark{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, language)
}
