package spec

import "errors"

// ErrorResponse maps an HTTP error status to the error class raised by the
// transport.
type ErrorResponse struct {
	Code   int
	Reason string
	Class  string
}

func (r ErrorResponse) toArray() map[string]any {
	out := map[string]any{"code": r.Code}
	if r.Reason != "" {
		out["reason"] = r.Reason
	}
	if r.Class != "" {
		out["class"] = r.Class
	}
	return out
}

// Operation describes one API endpoint.
type Operation struct {
	name             string
	httpMethod       Method
	uri              string
	summary          string
	notes            string
	documentationURL string
	responseModel    string
	deprecated       *bool
	extends          string
	data             map[string]any
	errorResponses   []ErrorResponse
	parameters       []*Param
	additional       *Param
	errs             []error
}

// NewOperation describes the operation name, sent as method to the URI
// template uri.
func NewOperation(name string, method Method, uri string) *Operation {
	return &Operation{name: name, httpMethod: method, uri: uri}
}

// Name returns the operation name.
func (o *Operation) Name() string { return o.name }

// HTTPMethod returns the operation method.
func (o *Operation) HTTPMethod() Method { return o.httpMethod }

// URI returns the operation URI template.
func (o *Operation) URI() string { return o.uri }

func (o *Operation) Summary(s string) *Operation {
	o.summary = s
	return o
}

func (o *Operation) Notes(s string) *Operation {
	o.notes = s
	return o
}

func (o *Operation) DocumentationURL(s string) *Operation {
	o.documentationURL = s
	return o
}

// ResponseModel names the model used to process the response.
func (o *Operation) ResponseModel(s string) *Operation {
	o.responseModel = s
	return o
}

// Deprecated marks the operation as deprecated.
func (o *Operation) Deprecated() *Operation { return o.SetDeprecated(true) }

func (o *Operation) SetDeprecated(deprecated bool) *Operation {
	o.deprecated = &deprecated
	return o
}

// Extends names a parent operation declared earlier in the same
// collection. The consumer of the document resolves it.
func (o *Operation) Extends(parent string) *Operation {
	o.extends = parent
	return o
}

// Data attaches an arbitrary operation-scoped value.
func (o *Operation) Data(key string, value any) *Operation {
	if o.data == nil {
		o.data = make(map[string]any)
	}
	o.data[key] = value
	return o
}

// ErrorResponse declares an error status the operation may return.
func (o *Operation) ErrorResponse(code int, reason, class string) *Operation {
	o.errorResponses = append(o.errorResponses, ErrorResponse{Code: code, Reason: reason, Class: class})
	return o
}

// Parameters appends already built parameters.
func (o *Operation) Parameters(params ...*Param) *Operation {
	for _, p := range params {
		if p != nil {
			o.parameters = append(o.parameters, p)
		}
	}
	return o
}

// AddParams runs handler against a fresh ParamSet and appends everything it
// declares. Repeated calls accumulate.
func (o *Operation) AddParams(handler func(*ParamSet)) *Operation {
	set := NewParamSet()
	handler(set)
	if err := set.Err(); err != nil {
		o.errs = append(o.errs, err)
	}
	o.parameters = append(o.parameters, set.Params()...)
	return o
}

// AdditionalParameters sets the rules applied to parameters the operation
// does not declare. p is normally anonymous.
func (o *Operation) AdditionalParameters(p *Param) *Operation {
	o.additional = p
	return o
}

// Err reports builder errors recorded while describing the operation.
func (o *Operation) Err() error {
	errs := append([]error(nil), o.errs...)
	for _, p := range o.parameters {
		errs = append(errs, p.Err())
	}
	if o.additional != nil {
		errs = append(errs, o.additional.Err())
	}
	return errors.Join(errs...)
}

// ToArray serializes the operation to {name: attributes}. Unset fields are
// pruned; an explicitly set deprecated=false is kept.
func (o *Operation) ToArray() Document {
	data := make(map[string]any)
	setString(data, "httpMethod", string(o.httpMethod))
	setString(data, "uri", o.uri)
	setString(data, "responseModel", o.responseModel)
	setString(data, "notes", o.notes)
	setString(data, "summary", o.summary)
	setString(data, "documentationUrl", o.documentationURL)
	if o.deprecated != nil {
		data["deprecated"] = *o.deprecated
	}
	setString(data, "extends", o.extends)
	if len(o.data) > 0 {
		cp := make(map[string]any, len(o.data))
		for k, v := range o.data {
			cp[k] = v
		}
		data["data"] = cp
	}
	if len(o.errorResponses) > 0 {
		responses := make([]any, len(o.errorResponses))
		for i, r := range o.errorResponses {
			responses[i] = r.toArray()
		}
		data["errorResponses"] = responses
	}
	if len(o.parameters) > 0 {
		params := make(map[string]any, len(o.parameters))
		anon := 0
		for _, p := range o.parameters {
			mergeParam(params, p.ToArray(), &anon)
		}
		data["parameters"] = params
	}
	if o.additional != nil {
		if attrs := unwrap(o.additional.ToArray()); attrs != nil {
			data["additionalParameters"] = attrs
		}
	}
	return Document{o.name: data}
}

func setString(m map[string]any, key, v string) {
	if v != "" {
		m[key] = v
	}
}
