package spec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParam_TypeAccumulation(t *testing.T) {
	t.Parallel()

	p := NewParam(ParamArgs{Name: "v"}).String().Integer().String()

	assert.Equal(t, []Type{TypeString, TypeInteger}, p.Types())
	assert.Equal(t, map[string]any{"v": map[string]any{"type": []string{"string", "integer"}}}, p.ToArray())
}

func TestParam_SingleTypeStaysScalar(t *testing.T) {
	t.Parallel()

	p := NewParam(ParamArgs{Name: "v"}).Boolean()
	assert.Equal(t, "boolean", p.Attributes()["type"])

	// A repeated declaration promotes to a set even when nothing new is added.
	p.Boolean()
	assert.Equal(t, []string{"boolean"}, p.Attributes()["type"])
}

func TestParam_ConstructorTypes(t *testing.T) {
	t.Parallel()

	p := NewParam(ParamArgs{Name: "v", Types: []Type{TypeString, TypeNull, TypeString}})
	assert.Equal(t, []string{"string", "null"}, p.Attributes()["type"])
}

func TestParam_LocationLastWins(t *testing.T) {
	t.Parallel()

	p := NewParam(ParamArgs{Name: "v"}).Query().Header()
	assert.Equal(t, LocationHeader, p.Located())
	assert.Equal(t, "header", p.Attributes()["location"])
}

func TestParam_Apply(t *testing.T) {
	t.Parallel()

	p := NewParam(ParamArgs{Name: "v"})
	require.NoError(t, p.Apply("integer"))
	require.NoError(t, p.Apply("formParam"))
	require.NoError(t, p.Apply("null"))

	assert.Equal(t, []Type{TypeInteger, TypeNull}, p.Types())
	assert.Equal(t, LocationFormParam, p.Located())
}

func TestParam_ApplyUnknownMethod(t *testing.T) {
	t.Parallel()

	p := NewParam(ParamArgs{Name: "v"})
	err := p.Apply("float")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMethodNotFound))

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "float", se.Method)
	assert.Contains(t, err.Error(), "Param::float()")

	// Response-side locations are not dispatchable.
	assert.ErrorIs(t, p.Apply("statusCode"), ErrMethodNotFound)
}

func TestParam_AnonymousAndNamedDuality(t *testing.T) {
	t.Parallel()

	anon := NewParam(ParamArgs{Types: []Type{TypeString}})
	assert.Equal(t, []any{map[string]any{"type": "string"}}, anon.ToArray())

	named := NewParam(ParamArgs{Name: "id", Types: []Type{TypeString}})
	assert.Equal(t, map[string]any{"id": map[string]any{"type": "string"}}, named.ToArray())
}

func TestParam_UnsetFieldsPruned(t *testing.T) {
	t.Parallel()

	p := NewParam(ParamArgs{Name: "q", Types: []Type{TypeString}})
	assert.Equal(t, map[string]any{"q": map[string]any{"type": "string"}}, p.ToArray())
}

func TestParam_ExplicitFalseAndZeroKept(t *testing.T) {
	t.Parallel()

	p := NewParam(ParamArgs{Name: "n"}).Integer().SetRequired(false).SetStatic(false).Default(0)
	assert.Equal(t, map[string]any{
		"type":     "integer",
		"required": false,
		"static":   false,
		"default":  0,
	}, p.Attributes())
}

func TestParam_AllAttributes(t *testing.T) {
	t.Parallel()

	p := NewParam(ParamArgs{Name: "FooBar"}).
		String().
		Required().
		Default("x").
		Static().
		Description("a header").
		Header().
		SendAs("x-foo-bar").
		Filters(NewFilter("strtoupper"), NewFilter("Foo::bar", "@value", "@api"))

	assert.Equal(t, map[string]any{
		"type":        "string",
		"required":    true,
		"default":     "x",
		"static":      true,
		"description": "a header",
		"location":    "header",
		"sentAs":      "x-foo-bar",
		"filters": []any{
			"strtoupper",
			map[string]any{"method": "Foo::bar", "args": []any{"@value", "@api"}},
		},
	}, p.Attributes())
}

func TestParam_ItemsUnwrapped(t *testing.T) {
	t.Parallel()

	p := NewParam(ParamArgs{Name: "tags"}).Array().
		SetItems(Existing(NewParam(ParamArgs{Types: []Type{TypeString}})))

	assert.Equal(t, map[string]any{
		"tags": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	}, p.ToArray())
}

func TestParam_SetItemsShapes(t *testing.T) {
	t.Parallel()

	inline := NewParam(ParamArgs{Name: "ids"}).Array().
		SetItems(Inline(ParamArgs{Types: []Type{TypeInteger}, Location: LocationQuery}))
	assert.Equal(t, map[string]any{"type": "integer", "location": "query"}, inline.Attributes()["items"])

	// A named item node loses its name.
	named := NewParam(ParamArgs{Name: "ids"}).Array().
		SetItems(Inline(ParamArgs{Name: "ignored", Types: []Type{TypeInteger}}))
	assert.Equal(t, map[string]any{"type": "integer"}, named.Attributes()["items"])

	built := NewParam(ParamArgs{Name: "ids"}).Array().
		SetItems(Build(func(s *ParamSet) {
			s.String("first")
			s.Number("last")
		}))
	assert.Equal(t, map[string]any{"type": "number"}, built.Attributes()["items"])

	// Later calls overwrite.
	inline.SetItems(Existing(NewParam(ParamArgs{}).Boolean()))
	assert.Equal(t, map[string]any{"type": "boolean"}, inline.Attributes()["items"])
}

func TestParam_AddPropertiesShapes(t *testing.T) {
	t.Parallel()

	p := NewParam(ParamArgs{Name: "user"}).Object()
	ret := p.AddProperties(Existing(NewParam(ParamArgs{Name: "a"}).String())).
		AddProperties(Build(func(s *ParamSet) {
			s.Integer("b").Required()
			s.Boolean("c")
		})).
		AddProperties(Inline(ParamArgs{Name: "d", Types: []Type{TypeNumber}, Required: true}))
	require.Same(t, p, ret)

	assert.Equal(t, map[string]any{
		"a": map[string]any{"type": "string"},
		"b": map[string]any{"type": "integer", "required": true},
		"c": map[string]any{"type": "boolean"},
		"d": map[string]any{"type": "number", "required": true},
	}, p.Attributes()["properties"])
	require.NoError(t, p.Err())
}

func TestParam_PropertyOrderIndependent(t *testing.T) {
	t.Parallel()

	first := NewParam(ParamArgs{Name: "o"}).Object().
		AddProperties(Inline(ParamArgs{Name: "a", Types: []Type{TypeString}})).
		Description("d").
		AddProperties(Inline(ParamArgs{Name: "b", Types: []Type{TypeInteger}}))
	second := NewParam(ParamArgs{Name: "o"}).
		AddProperties(Inline(ParamArgs{Name: "b", Types: []Type{TypeInteger}})).
		AddProperties(Inline(ParamArgs{Name: "a", Types: []Type{TypeString}})).
		Description("d").
		Object()

	assert.Equal(t, first.ToArray(), second.ToArray())
}

func TestParam_AnonymousPropertiesKeyedByPosition(t *testing.T) {
	t.Parallel()

	p := NewParam(ParamArgs{Name: "o"}).Object().
		AddProperties(Inline(ParamArgs{Types: []Type{TypeString}})).
		AddProperties(Inline(ParamArgs{Name: "x", Types: []Type{TypeString}})).
		AddProperties(Inline(ParamArgs{Types: []Type{TypeInteger}}))

	assert.Equal(t, map[string]any{
		"0": map[string]any{"type": "string"},
		"x": map[string]any{"type": "string"},
		"1": map[string]any{"type": "integer"},
	}, p.Attributes()["properties"])
}

func TestParam_BuilderErrorsRecorded(t *testing.T) {
	t.Parallel()

	p := NewParam(ParamArgs{Name: "o"}).Object().
		AddProperties(Build(func(s *ParamSet) {
			s.String("")
		}))
	assert.ErrorIs(t, p.Err(), ErrArgument)

	parent := NewParam(ParamArgs{Name: "list"}).Array().SetItems(Existing(p))
	assert.ErrorIs(t, parent.Err(), ErrArgument)
}

func TestParam_ValidateFlattenedAndReplaced(t *testing.T) {
	t.Parallel()

	p := NewParam(ParamArgs{Name: "code"}).String().
		Validate(WithMinimum(1)).
		Validate(WithPattern("^[A-Z]+$"), WithEnum("AB", "CD"), WithMinLength(2), WithMaxLength(8), WithFormat(FormatDate))

	assert.Equal(t, map[string]any{
		"type":      "string",
		"pattern":   "^[A-Z]+$",
		"enum":      []any{"AB", "CD"},
		"minLength": 2,
		"maxLength": 8,
		"format":    "date",
	}, p.Attributes())
}
