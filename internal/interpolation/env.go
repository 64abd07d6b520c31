// Package interpolation expands ${VAR} and ${VAR:default} references in
// configuration values.
package interpolation

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

// ErrUndefinedVariable is returned for a reference with no value and no default.
var ErrUndefinedVariable = errors.New("environment variable not defined")

// Pattern for ${VAR_NAME} and ${VAR_NAME:default} syntax - captures colon explicitly
var envVarWithDefaultPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:)?([^}]*)\}`)

// LookupFunc resolves one variable name.
type LookupFunc func(name string) (string, bool)

// MapLookup resolves names from m.
func MapLookup(m map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

// ChainLookup tries each lookup in order.
func ChainLookup(lookups ...LookupFunc) LookupFunc {
	return func(name string) (string, bool) {
		for _, lookup := range lookups {
			if lookup == nil {
				continue
			}
			if v, ok := lookup(name); ok {
				return v, true
			}
		}
		return "", false
	}
}

// ExpandEnvVars expands references against the process environment:
//
// ${VAR_NAME:default_value}
//
// If the variable is not set, the default is used when a colon is present, even an
// empty one. Otherwise the reference is left in place and an error is returned.
func ExpandEnvVars(input string) (string, error) {
	return Expand(input, os.LookupEnv)
}

// Expand is ExpandEnvVars with a custom lookup.
func Expand(input string, lookup LookupFunc) (string, error) {
	if input == "" {
		return "", nil
	}

	var missingVars []error
	result := envVarWithDefaultPattern.ReplaceAllStringFunc(input, func(match string) string {
		// [full_match, varName, colon, defaultValue]
		submatches := envVarWithDefaultPattern.FindStringSubmatch(match)
		varName := submatches[1]
		colonIsPresent := submatches[2] == ":"
		defaultValue := submatches[3]

		if value, exists := lookup(varName); exists {
			return value
		}
		if colonIsPresent {
			return defaultValue
		}

		missingVars = append(missingVars, fmt.Errorf("%w: %s", ErrUndefinedVariable, varName))
		return match
	})

	return result, errors.Join(missingVars...)
}
