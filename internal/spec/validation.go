package spec

// Rule is a bundle of validation constraints attached to one parameter.
// Every field is optional; a nil pointer means "not constrained".
// Internal consistency (e.g. minimum > maximum) is left to the validator
// consuming the document.
type Rule struct {
	Pattern   *string
	Enum      []any
	MinItems  *int
	MaxItems  *int
	MinLength *int
	MaxLength *int
	Minimum   *int
	Maximum   *int
	Format    *Format
}

// RuleOption sets one constraint on a Rule.
type RuleOption func(*Rule)

// WithPattern requires string values to match the regular expression.
func WithPattern(pattern string) RuleOption {
	return func(r *Rule) { r.Pattern = &pattern }
}

// WithEnum restricts values to the given list.
func WithEnum(values ...any) RuleOption {
	return func(r *Rule) { r.Enum = values }
}

func WithMinItems(n int) RuleOption  { return func(r *Rule) { r.MinItems = &n } }
func WithMaxItems(n int) RuleOption  { return func(r *Rule) { r.MaxItems = &n } }
func WithMinLength(n int) RuleOption { return func(r *Rule) { r.MinLength = &n } }
func WithMaxLength(n int) RuleOption { return func(r *Rule) { r.MaxLength = &n } }
func WithMinimum(n int) RuleOption   { return func(r *Rule) { r.Minimum = &n } }
func WithMaximum(n int) RuleOption   { return func(r *Rule) { r.Maximum = &n } }

// WithFormat sets the serialization format hint.
func WithFormat(f Format) RuleOption {
	return func(r *Rule) { r.Format = &f }
}

// NewRule builds a Rule from opts.
func NewRule(opts ...RuleOption) *Rule {
	r := &Rule{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ruleKeys is the fixed order constraints are emitted in.
var ruleKeys = []string{"pattern", "enum", "minItems", "maxItems", "minLength", "maxLength", "minimum", "maximum", "format"}

// ToArray returns the set constraints keyed by their document names.
func (r *Rule) ToArray() map[string]any {
	out := make(map[string]any, len(ruleKeys))
	if r == nil {
		return out
	}
	if r.Pattern != nil {
		out["pattern"] = *r.Pattern
	}
	if r.Enum != nil {
		out["enum"] = append([]any(nil), r.Enum...)
	}
	setInt(out, "minItems", r.MinItems)
	setInt(out, "maxItems", r.MaxItems)
	setInt(out, "minLength", r.MinLength)
	setInt(out, "maxLength", r.MaxLength)
	setInt(out, "minimum", r.Minimum)
	setInt(out, "maximum", r.Maximum)
	if r.Format != nil {
		out["format"] = string(*r.Format)
	}
	return out
}

// Keys returns the names of the set constraints in emission order.
func (r *Rule) Keys() []string {
	doc := r.ToArray()
	keys := make([]string, 0, len(doc))
	for _, k := range ruleKeys {
		if _, ok := doc[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func setInt(m map[string]any, key string, v *int) {
	if v != nil {
		m[key] = *v
	}
}
