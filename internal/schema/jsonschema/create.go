package jsonschema

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	// ErrUnsatisfiable is returned by Create for schemas no example can be
	// derived from (e.g. "not", unknown types).
	ErrUnsatisfiable = errors.New("jsonschema: schema cannot be instantiated")

	// ErrRecursive is returned by Create when a schema refers back to itself
	// through required members.
	ErrRecursive = errors.New("jsonschema: recursive schema cannot be instantiated")
)

// formatSamples are example strings for well-known string formats.
var formatSamples = map[string]string{
	"date":      "1970-01-01",
	"date-time": "1970-01-01T00:00:00Z",
	"email":     "user@example.com",
	"hostname":  "example.com",
	"ipv4":      "127.0.0.1",
	"ipv6":      "::1",
	"uri":       "https://example.com",
	"uuid":      "00000000-0000-0000-0000-000000000000",
}

type generator struct {
	// active holds the schemas currently being created, to detect cycles.
	active map[*openapi3.Schema]bool
}

func newGenerator() *generator {
	return &generator{active: make(map[*openapi3.Schema]bool)}
}

func (g *generator) create(s *openapi3.Schema) (any, error) {
	if s == nil {
		return nil, ErrUnsatisfiable
	}
	if g.active[s] {
		return nil, ErrRecursive
	}
	g.active[s] = true
	defer delete(g.active, s)

	switch {
	case s.Default != nil:
		return s.Default, nil
	case s.Example != nil:
		return s.Example, nil
	case len(s.Enum) > 0:
		return s.Enum[0], nil
	case s.Not != nil:
		return nil, fmt.Errorf("%w: \"not\" constraint", ErrUnsatisfiable)
	case len(s.AllOf) > 0:
		return g.createAllOf(s.AllOf)
	case len(s.OneOf) > 0:
		return g.ref(s.OneOf[0])
	case len(s.AnyOf) > 0:
		return g.ref(s.AnyOf[0])
	}

	switch s.Type {
	case openapi3.TypeObject:
		return g.createObject(s)
	case openapi3.TypeArray:
		return g.createArray(s)
	case openapi3.TypeString:
		return createString(s), nil
	case openapi3.TypeInteger:
		return createNumber(s, true), nil
	case openapi3.TypeNumber:
		return createNumber(s, false), nil
	case openapi3.TypeBoolean:
		return false, nil
	case "":
		if len(s.Properties) > 0 {
			return g.createObject(s)
		}
		if s.Nullable {
			return nil, nil
		}
		return map[string]any{}, nil
	}

	return nil, fmt.Errorf("%w: unknown type %q", ErrUnsatisfiable, s.Type)
}

func (g *generator) ref(ref *openapi3.SchemaRef) (any, error) {
	if ref == nil || ref.Value == nil {
		return nil, ErrUnsatisfiable
	}
	return g.create(ref.Value)
}

// createObject fills required properties only, in sorted order so the
// result is stable.
func (g *generator) createObject(s *openapi3.Schema) (any, error) {
	out := make(map[string]any, len(s.Required))

	required := append([]string(nil), s.Required...)
	sort.Strings(required)

	for _, name := range required {
		prop, ok := s.Properties[name]
		if !ok {
			out[name] = nil
			continue
		}
		v, err := g.ref(prop)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

func (g *generator) createArray(s *openapi3.Schema) (any, error) {
	out := make([]any, 0, s.MinItems)
	if s.MinItems == 0 {
		return out, nil
	}
	if s.Items == nil {
		return nil, fmt.Errorf("%w: array without items requires %d entries", ErrUnsatisfiable, s.MinItems)
	}

	for i := uint64(0); i < s.MinItems; i++ {
		v, err := g.ref(s.Items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (g *generator) createAllOf(refs openapi3.SchemaRefs) (any, error) {
	merged := map[string]any{}
	var last any

	for _, ref := range refs {
		v, err := g.ref(ref)
		if err != nil {
			return nil, err
		}
		obj, ok := v.(map[string]any)
		if !ok {
			last = v
			continue
		}
		for k, val := range obj {
			merged[k] = val
		}
	}

	if len(merged) == 0 && last != nil {
		return last, nil
	}
	return merged, nil
}

func createString(s *openapi3.Schema) string {
	sample := formatSamples[s.Format]
	if uint64(len(sample)) < s.MinLength {
		sample += strings.Repeat(" ", int(s.MinLength)-len(sample))
	}
	return sample
}

func createNumber(s *openapi3.Schema, integer bool) any {
	n := 0.0
	if s.Min != nil {
		n = *s.Min
		if s.ExclusiveMin {
			if integer {
				n = math.Floor(n) + 1
			} else {
				n += 1
			}
		}
	} else if s.Max != nil && *s.Max < 0 {
		n = *s.Max
		if s.ExclusiveMax {
			n -= 1
		}
	}

	if integer {
		return int64(math.Ceil(n))
	}
	return n
}
