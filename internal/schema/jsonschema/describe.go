package jsonschema

import (
	"github.com/deppfellow/go-errkit/internal/schema"
	"github.com/getkin/kin-openapi/openapi3"
)

// RecursiveRef replaces references back to a schema that encloses them
// when a definition is described.
const RecursiveRef = "#/$recursive"

var _ schema.Describer = (*Engine)(nil)

// Describe implements schema.Describer. It returns a copy of s in which
// every inline reference back to an enclosing schema is replaced by
// {"$ref": RecursiveRef}, so the result can be encoded. Named references
// are kept as they are. Unknown definitions are returned unchanged.
func (e *Engine) Describe(s any) any {
	node, err := asSchema(s)
	if err != nil {
		return s
	}
	d := describer{active: make(map[*openapi3.Schema]bool)}
	return d.schema(node)
}

type describer struct {
	active map[*openapi3.Schema]bool
}

func (d describer) schema(s *openapi3.Schema) *openapi3.Schema {
	d.active[s] = true
	defer delete(d.active, s)

	out := *s
	if s.Properties != nil {
		out.Properties = make(openapi3.Schemas, len(s.Properties))
		for name, ref := range s.Properties {
			out.Properties[name] = d.ref(ref)
		}
	}
	out.Items = d.ref(s.Items)
	out.Not = d.ref(s.Not)
	out.AllOf = d.refs(s.AllOf)
	out.AnyOf = d.refs(s.AnyOf)
	out.OneOf = d.refs(s.OneOf)
	out.AdditionalProperties.Schema = d.ref(s.AdditionalProperties.Schema)
	return &out
}

func (d describer) ref(ref *openapi3.SchemaRef) *openapi3.SchemaRef {
	if ref == nil || ref.Ref != "" || ref.Value == nil {
		return ref
	}
	if d.active[ref.Value] {
		return &openapi3.SchemaRef{Ref: RecursiveRef}
	}
	return &openapi3.SchemaRef{Value: d.schema(ref.Value)}
}

func (d describer) refs(refs openapi3.SchemaRefs) openapi3.SchemaRefs {
	if refs == nil {
		return nil
	}
	out := make(openapi3.SchemaRefs, len(refs))
	for i, ref := range refs {
		out[i] = d.ref(ref)
	}
	return out
}
