package spec

import (
	"errors"
	"strconv"
)

// Filter names a static filter method run over a parameter value before it
// is sent. Args may contain the "@value" and "@api" placeholders.
type Filter struct {
	Method string
	Args   []any
}

// NewFilter returns a filter calling method with args.
func NewFilter(method string, args ...any) Filter {
	return Filter{Method: method, Args: args}
}

func (f Filter) toArray() any {
	if len(f.Args) == 0 {
		return f.Method
	}
	return map[string]any{"method": f.Method, "args": append([]any(nil), f.Args...)}
}

// ParamArgs carries the constructor-shaped fields of a parameter.
type ParamArgs struct {
	Name       string
	Types      []Type
	Required   bool
	Location   Location
	Default    any
	Items      *Param
	Properties []*Param
}

// Param describes one parameter of an operation, or one nested item or
// property of an array/object parameter.
//
// A Param with an empty name is anonymous: it serializes to a one-element
// sequence instead of a name-keyed mapping. Item nodes and the
// additional-parameters node are typically anonymous.
type Param struct {
	name        string
	types       []Type
	multi       bool // promoted to a type set by a second declaration
	required    *bool
	def         any
	static      *bool
	description string
	location    Location
	sentAs      string
	filters     []Filter
	items       *Param
	properties  []*Param
	rule        *Rule
	errs        []error
}

// NewParam builds a Param from constructor-shaped arguments.
func NewParam(args ParamArgs) *Param {
	p := &Param{
		name:       args.Name,
		location:   args.Location,
		def:        args.Default,
		items:      args.Items,
		properties: append([]*Param(nil), args.Properties...),
	}
	if args.Required {
		p.SetRequired(true)
	}
	switch len(args.Types) {
	case 0:
	case 1:
		p.types = []Type{args.Types[0]}
	default:
		p.multi = true
		for _, t := range args.Types {
			p.addUnique(t)
		}
	}
	return p
}

// AddType declares t on the parameter. The first declaration sets a single
// type; every later one promotes the type to an ordered set without
// duplicates.
func (p *Param) AddType(t Type) *Param {
	if len(p.types) == 0 {
		p.types = []Type{t}
		return p
	}
	p.multi = true
	p.addUnique(t)
	return p
}

func (p *Param) addUnique(t Type) {
	for _, have := range p.types {
		if have == t {
			return
		}
	}
	p.types = append(p.types, t)
}

func (p *Param) Array() *Param   { return p.AddType(TypeArray) }
func (p *Param) Object() *Param  { return p.AddType(TypeObject) }
func (p *Param) String() *Param  { return p.AddType(TypeString) }
func (p *Param) Boolean() *Param { return p.AddType(TypeBoolean) }
func (p *Param) Integer() *Param { return p.AddType(TypeInteger) }
func (p *Param) Number() *Param  { return p.AddType(TypeNumber) }
func (p *Param) Numeric() *Param { return p.AddType(TypeNumeric) }
func (p *Param) Null() *Param    { return p.AddType(TypeNull) }
func (p *Param) Any() *Param     { return p.AddType(TypeAny) }

// In sets where the parameter is applied. The last call wins.
func (p *Param) In(l Location) *Param {
	p.location = l
	return p
}

func (p *Param) URI() *Param       { return p.In(LocationURI) }
func (p *Param) Query() *Param     { return p.In(LocationQuery) }
func (p *Param) Header() *Param    { return p.In(LocationHeader) }
func (p *Param) Body() *Param      { return p.In(LocationBody) }
func (p *Param) JSON() *Param      { return p.In(LocationJSON) }
func (p *Param) XML() *Param       { return p.In(LocationXML) }
func (p *Param) FormParam() *Param { return p.In(LocationFormParam) }
func (p *Param) Multipart() *Param { return p.In(LocationMultipart) }

// Apply dispatches a type or request-location name, as in
// p.Apply("integer") or p.Apply("query"). Names outside both vocabularies
// fail with a MethodNotFoundError.
func (p *Param) Apply(method string) error {
	if t, ok := lookupType(method); ok {
		p.AddType(t)
		return nil
	}
	if l, ok := lookupRequestLocation(method); ok {
		p.In(l)
		return nil
	}
	return newMethodNotFoundError("Param", method)
}

// Required marks the parameter as required.
func (p *Param) Required() *Param { return p.SetRequired(true) }

func (p *Param) SetRequired(required bool) *Param {
	p.required = &required
	return p
}

func (p *Param) Name(name string) *Param {
	p.name = name
	return p
}

// Default sets the value used when the caller omits the parameter.
// A nil default is treated as unset.
func (p *Param) Default(v any) *Param {
	p.def = v
	return p
}

// SendAs sets the wire name of the parameter, e.g. "x-foo-bar" for FooBar.
func (p *Param) SendAs(sentAs string) *Param {
	p.sentAs = sentAs
	return p
}

func (p *Param) Description(desc string) *Param {
	p.description = desc
	return p
}

// Filters replaces the filter list.
func (p *Param) Filters(filters ...Filter) *Param {
	p.filters = append([]Filter(nil), filters...)
	return p
}

// Static marks the value as fixed to its default.
func (p *Param) Static() *Param { return p.SetStatic(true) }

func (p *Param) SetStatic(static bool) *Param {
	p.static = &static
	return p
}

// AddProperties appends object properties and returns p itself, not the
// new property.
func (p *Param) AddProperties(in Input) *Param {
	params, err := in.resolve()
	if err != nil {
		p.errs = append(p.errs, err)
	}
	p.properties = append(p.properties, params...)
	return p
}

// SetItems sets the array item node, replacing any previous one, and
// returns p. When in declares several parameters the last one is kept.
func (p *Param) SetItems(in Input) *Param {
	params, err := in.resolve()
	if err != nil {
		p.errs = append(p.errs, err)
	}
	if len(params) > 0 {
		p.items = params[len(params)-1]
	}
	return p
}

// Validate attaches a new validation rule built from opts, replacing any
// rule set before.
func (p *Param) Validate(opts ...RuleOption) *Param {
	p.rule = NewRule(opts...)
	return p
}

// Types returns the declared types in declaration order.
func (p *Param) Types() []Type { return append([]Type(nil), p.types...) }

// Located returns the parameter location, empty when unset.
func (p *Param) Located() Location { return p.location }

// Err reports errors recorded by nested builders on p or its children.
func (p *Param) Err() error {
	errs := append([]error(nil), p.errs...)
	if p.items != nil {
		errs = append(errs, p.items.Err())
	}
	for _, prop := range p.properties {
		errs = append(errs, prop.Err())
	}
	return errors.Join(errs...)
}

func (p *Param) typeValue() any {
	switch {
	case len(p.types) == 0:
		return nil
	case !p.multi:
		return string(p.types[0])
	}
	out := make([]string, len(p.types))
	for i, t := range p.types {
		out[i] = string(t)
	}
	return out
}

// Attributes returns the bare attribute document of p, without the name
// wrapper added by ToArray.
func (p *Param) Attributes() map[string]any {
	data := make(map[string]any)
	if t := p.typeValue(); t != nil {
		data["type"] = t
	}
	if p.required != nil {
		data["required"] = *p.required
	}
	if p.def != nil {
		data["default"] = p.def
	}
	if p.static != nil {
		data["static"] = *p.static
	}
	if p.description != "" {
		data["description"] = p.description
	}
	if p.location != "" {
		data["location"] = string(p.location)
	}
	if p.sentAs != "" {
		data["sentAs"] = p.sentAs
	}
	if len(p.filters) > 0 {
		filters := make([]any, len(p.filters))
		for i, f := range p.filters {
			filters[i] = f.toArray()
		}
		data["filters"] = filters
	}
	if p.items != nil {
		if items := unwrap(p.items.ToArray()); items != nil {
			data["items"] = items
		}
	}
	if len(p.properties) > 0 {
		props := make(map[string]any, len(p.properties))
		anon := 0
		for _, prop := range p.properties {
			mergeParam(props, prop.ToArray(), &anon)
		}
		data["properties"] = props
	}
	for k, v := range p.rule.ToArray() {
		data[k] = v
	}
	return data
}

// ToArray serializes p. A named parameter yields {name: attributes}; an
// anonymous one yields [attributes]. Parents rely on this shape to either
// unwrap (items, additional parameters) or merge by key (properties,
// operation parameters).
func (p *Param) ToArray() any {
	attrs := p.Attributes()
	if p.name == "" {
		return []any{attrs}
	}
	return map[string]any{p.name: attrs}
}

// unwrap extracts the attribute document from a serialized parameter,
// dropping the name of a named node.
func unwrap(v any) map[string]any {
	switch doc := v.(type) {
	case []any:
		if len(doc) > 0 {
			attrs, _ := doc[0].(map[string]any)
			return attrs
		}
	case map[string]any:
		for _, attrs := range doc {
			m, _ := attrs.(map[string]any)
			return m
		}
	}
	return nil
}

// mergeParam merges a serialized parameter into dst. Anonymous entries are
// keyed by their position among the anonymous entries seen so far.
func mergeParam(dst map[string]any, v any, anon *int) {
	switch doc := v.(type) {
	case map[string]any:
		for name, attrs := range doc {
			dst[name] = attrs
		}
	case []any:
		for _, attrs := range doc {
			dst[strconv.Itoa(*anon)] = attrs
			*anon++
		}
	}
}

// Input selects how AddProperties and SetItems obtain their child nodes.
type Input interface {
	resolve() ([]*Param, error)
}

type existingInput struct{ p *Param }

func (in existingInput) resolve() ([]*Param, error) {
	if in.p == nil {
		return nil, nil
	}
	return []*Param{in.p}, nil
}

type buildInput struct{ fn func(*ParamSet) }

func (in buildInput) resolve() ([]*Param, error) {
	set := NewParamSet()
	if in.fn != nil {
		in.fn(set)
	}
	return set.Params(), set.Err()
}

type inlineInput struct{ args ParamArgs }

func (in inlineInput) resolve() ([]*Param, error) {
	return []*Param{NewParam(in.args)}, nil
}

// Existing uses an already built node.
func Existing(p *Param) Input { return existingInput{p: p} }

// Build runs fn against a fresh ParamSet and uses every parameter it declares.
func Build(fn func(*ParamSet)) Input { return buildInput{fn: fn} }

// Inline constructs a new node from args.
func Inline(args ParamArgs) Input { return inlineInput{args: args} }
