package declare

import (
	"fmt"

	"github.com/mark3labs/apidesc/internal/spec"
)

// Build turns the declared operations into descriptions, in declaration
// order.
func (f *File) Build() ([]*spec.Operation, error) {
	ops := make([]*spec.Operation, 0, len(f.Operations))
	for i, d := range f.Operations {
		op, err := buildOperation(d)
		if err != nil {
			name := d.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("operation %q: %w", name, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// GetAllAPI implements spec.Group.
func (f *File) GetAllAPI() (spec.Document, error) {
	ops, err := f.Build()
	if err != nil {
		return nil, err
	}
	return spec.Collect(ops...)
}

var _ spec.Group = (*File)(nil)

func buildOperation(d OperationDecl) (*spec.Operation, error) {
	method, err := spec.ParseMethod(d.HTTPMethod)
	if err != nil {
		return nil, err
	}
	op := spec.NewOperation(d.Name, method, d.URI).
		Summary(d.Summary).
		Notes(d.Notes).
		DocumentationURL(d.DocumentationURL).
		ResponseModel(d.ResponseModel).
		Extends(d.Extends)
	if d.Deprecated != nil {
		op.SetDeprecated(*d.Deprecated)
	}
	for k, v := range d.Data {
		op.Data(k, v)
	}
	for _, r := range d.ErrorResponses {
		op.ErrorResponse(r.Code, r.Reason, r.Class)
	}
	for _, pd := range d.Parameters {
		if pd.Name == "" {
			return nil, &spec.Error{Code: spec.ArgumentError, Message: "parameter without a name"}
		}
		p, err := buildParam(pd)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", pd.Name, err)
		}
		op.Parameters(p)
	}
	if d.AdditionalParameters != nil {
		p, err := buildParam(*d.AdditionalParameters)
		if err != nil {
			return nil, fmt.Errorf("additionalParameters: %w", err)
		}
		op.AdditionalParameters(p)
	}
	return op, nil
}

func buildParam(d ParamDecl) (*spec.Param, error) {
	p := spec.NewParam(spec.ParamArgs{Name: d.Name})
	for _, t := range d.Type {
		if err := p.Apply(t); err != nil {
			return nil, err
		}
	}
	if d.Location != "" {
		if err := applyLocation(p, d.Location); err != nil {
			return nil, err
		}
	}
	if d.Required != nil {
		p.SetRequired(*d.Required)
	}
	if d.Static != nil {
		p.SetStatic(*d.Static)
	}
	p.Default(d.Default).
		Description(d.Description).
		SendAs(d.SentAs)
	if len(d.Filters) > 0 {
		filters := make([]spec.Filter, len(d.Filters))
		for i, f := range d.Filters {
			filters[i] = spec.NewFilter(f.Method, f.Args...)
		}
		p.Filters(filters...)
	}
	if d.Validate != nil {
		opts, err := ruleOptions(*d.Validate)
		if err != nil {
			return nil, err
		}
		p.Validate(opts...)
	}
	if d.Items != nil {
		items, err := buildParam(*d.Items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		p.SetItems(spec.Existing(items))
	}
	for _, pd := range d.Properties {
		prop, err := buildParam(pd)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", pd.Name, err)
		}
		p.AddProperties(spec.Existing(prop))
	}
	return p, nil
}

// applyLocation sets the location by value: the response-side locations
// are valid in declarations but not reachable through Param.Apply.
func applyLocation(p *spec.Param, name string) error {
	loc, err := spec.ParseLocation(name)
	if err != nil {
		return err
	}
	p.In(loc)
	return nil
}

func ruleOptions(d RuleDecl) ([]spec.RuleOption, error) {
	var opts []spec.RuleOption
	if d.Pattern != nil {
		opts = append(opts, spec.WithPattern(*d.Pattern))
	}
	if d.Enum != nil {
		opts = append(opts, spec.WithEnum(d.Enum...))
	}
	ints := []struct {
		v   *int
		opt func(int) spec.RuleOption
	}{
		{d.MinItems, spec.WithMinItems},
		{d.MaxItems, spec.WithMaxItems},
		{d.MinLength, spec.WithMinLength},
		{d.MaxLength, spec.WithMaxLength},
		{d.Minimum, spec.WithMinimum},
		{d.Maximum, spec.WithMaximum},
	}
	for _, i := range ints {
		if i.v != nil {
			opts = append(opts, i.opt(*i.v))
		}
	}
	if d.Format != nil {
		f, err := spec.ParseFormat(*d.Format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, spec.WithFormat(f))
	}
	return opts, nil
}
