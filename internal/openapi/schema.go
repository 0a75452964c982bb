package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Formats OpenAPI 3.0 validators accept on string schemas. Other format
// hints are kept under the x-format extension.
var nativeFormats = map[string]bool{
	"date-time": true,
	"date":      true,
	"time":      true,
}

// schemaFor converts a parameter attribute document into a schema.
func schemaFor(attrs map[string]any) *openapi3.Schema {
	types := stringsOf(attrs["type"])
	var (
		nullable bool
		untyped  bool
		concrete []string
	)
	for _, t := range types {
		switch t {
		case "null":
			nullable = true
		case "any":
			untyped = true
		case "numeric":
			concrete = appendUnique(concrete, openapi3.TypeNumber)
		default:
			concrete = appendUnique(concrete, t)
		}
	}

	var schema *openapi3.Schema
	switch {
	case untyped || len(concrete) == 0:
		schema = &openapi3.Schema{}
	case len(concrete) == 1:
		schema = typedSchema(concrete[0], attrs)
	default:
		schema = &openapi3.Schema{}
		for _, t := range concrete {
			schema.AnyOf = append(schema.AnyOf, openapi3.NewSchemaRef("", typedSchema(t, attrs)))
		}
	}
	schema.Nullable = nullable
	schema.Description = stringOf(attrs, "description")
	if d, ok := attrs["default"]; ok && len(schema.AnyOf) == 0 {
		schema.Default = d
	}
	if enum := sliceOf(attrs, "enum"); len(enum) > 0 {
		schema.Enum = append([]any(nil), enum...)
	}
	if boolOf(attrs, "static") {
		schema.ReadOnly = true
	}
	return schema
}

func typedSchema(t string, attrs map[string]any) *openapi3.Schema {
	s := &openapi3.Schema{Type: t}
	switch t {
	case openapi3.TypeString:
		s.Pattern = stringOf(attrs, "pattern")
		if n := intPtrOf(attrs, "minLength"); n != nil && *n > 0 {
			s.MinLength = uint64(*n)
		}
		if n := intPtrOf(attrs, "maxLength"); n != nil && *n >= 0 {
			v := uint64(*n)
			s.MaxLength = &v
		}
	case openapi3.TypeInteger, openapi3.TypeNumber:
		if n := intPtrOf(attrs, "minimum"); n != nil {
			v := float64(*n)
			s.Min = &v
		}
		if n := intPtrOf(attrs, "maximum"); n != nil {
			v := float64(*n)
			s.Max = &v
		}
	case openapi3.TypeArray:
		if n := intPtrOf(attrs, "minItems"); n != nil && *n > 0 {
			s.MinItems = uint64(*n)
		}
		if n := intPtrOf(attrs, "maxItems"); n != nil && *n >= 0 {
			v := uint64(*n)
			s.MaxItems = &v
		}
		items := &openapi3.Schema{}
		if itemAttrs := mapOf(attrs, "items"); itemAttrs != nil {
			items = schemaFor(itemAttrs)
		}
		s.Items = openapi3.NewSchemaRef("", items)
	case openapi3.TypeObject:
		props := mapOf(attrs, "properties")
		for _, name := range sortedKeys(props) {
			propAttrs, _ := props[name].(map[string]any)
			if propAttrs == nil {
				continue
			}
			if s.Properties == nil {
				s.Properties = make(openapi3.Schemas, len(props))
			}
			s.Properties[wireName(name, propAttrs)] = openapi3.NewSchemaRef("", schemaFor(propAttrs))
			if boolOf(propAttrs, "required") {
				s.Required = append(s.Required, wireName(name, propAttrs))
			}
		}
	}
	if f := stringOf(attrs, "format"); f != "" {
		if t == openapi3.TypeString && nativeFormats[f] {
			s.Format = f
		} else {
			s.Extensions = map[string]any{"x-format": f}
		}
	}
	return s
}

// wireName is the name a parameter is sent as.
func wireName(name string, attrs map[string]any) string {
	if sentAs := stringOf(attrs, "sentAs"); sentAs != "" {
		return sentAs
	}
	return name
}

func appendUnique(list []string, v string) []string {
	for _, have := range list {
		if have == v {
			return list
		}
	}
	return append(list, v)
}
