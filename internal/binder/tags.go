package binder

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/atlanticdynamic/nosorog/internal/descriptor"
)

// Struct tag keys written on every carrier slot.
const (
	TagBinding    = "binding"
	TagClass      = "class"
	TagCapability = "capability"
	// TagCarrier is written on the identity field only.
	TagCarrier = "carrier"
)

var reservedTags = []string{TagBinding, TagClass, TagCapability, TagCarrier}

// MarkerEncoder renders a slot's markers as struct tag pairs.
type MarkerEncoder interface {
	EncodeMarkers(markers []descriptor.MarkerSpec) (string, error)
}

// MarkerEncoderFunc adapts a function to MarkerEncoder.
type MarkerEncoderFunc func(markers []descriptor.MarkerSpec) (string, error)

func (f MarkerEncoderFunc) EncodeMarkers(markers []descriptor.MarkerSpec) (string, error) {
	return f(markers)
}

// TagEncoder is the default MarkerEncoder. Each marker becomes a pair whose key is
// the lower-cased kind and whose value lists the arguments as k=v, sorted by key,
// with each v being the literal as written in the header:
//
//	@Resource(name="db", lookup=env.DB)  ->  resource:"lookup=env.DB,name=\"db\""
type TagEncoder struct{}

func (TagEncoder) EncodeMarkers(markers []descriptor.MarkerSpec) (string, error) {
	pairs := make([]string, 0, len(markers))
	for _, m := range markers {
		key := strings.ToLower(m.Kind)
		if !validTagKey(key) {
			return "", fmt.Errorf("%w: marker kind %q", ErrInvalidTag, m.Kind)
		}
		if slices.Contains(reservedTags, key) {
			return "", fmt.Errorf("%w: marker kind %q collides with a reserved tag", ErrInvalidTag, m.Kind)
		}
		args := make([]string, 0, len(m.Args))
		for _, k := range slices.Sorted(maps.Keys(m.Args)) {
			args = append(args, k+"="+m.Args[k].Raw)
		}
		pairs = append(pairs, key+":"+strconv.Quote(strings.Join(args, ",")))
	}
	return strings.Join(pairs, " "), nil
}

func validTagKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if r <= ' ' || r == ':' || r == '"' || r == 0x7f {
			return false
		}
	}
	return true
}

// tagPair renders one reflect.StructTag key:"value" pair.
func tagPair(key, value string) string {
	return key + ":" + strconv.Quote(value)
}

// MarkerArgs reads the marker of the given kind back from a slot tag written by
// TagEncoder. String arguments are unquoted; other literals are returned as written.
func MarkerArgs(tag reflect.StructTag, kind string) (map[string]string, bool, error) {
	raw, ok := tag.Lookup(strings.ToLower(kind))
	if !ok {
		return nil, false, nil
	}
	args, err := DecodeArgs(raw)
	if err != nil {
		return nil, true, err
	}
	return args, true, nil
}

// DecodeArgs parses a `k=v,k=v` list. Quoted values may contain commas.
func DecodeArgs(s string) (map[string]string, error) {
	args := make(map[string]string)
	for s != "" {
		eq := strings.IndexByte(s, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("%w: expected key=value in %q", ErrInvalidTag, s)
		}
		key := s[:eq]
		s = s[eq+1:]

		var value string
		if s != "" && (s[0] == '"' || s[0] == '`') {
			quoted, err := strconv.QuotedPrefix(s)
			if err != nil {
				return nil, fmt.Errorf("%w: bad quoted value for %q: %w", ErrInvalidTag, key, err)
			}
			value, _ = strconv.Unquote(quoted)
			s = s[len(quoted):]
		} else {
			end := strings.IndexByte(s, ',')
			if end < 0 {
				end = len(s)
			}
			value = s[:end]
			s = s[end:]
		}
		args[key] = value

		if s == "" {
			break
		}
		if s[0] != ',' {
			return nil, fmt.Errorf("%w: expected ',' after %q", ErrInvalidTag, key)
		}
		s = s[1:]
	}
	return args, nil
}
