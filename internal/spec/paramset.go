package spec

import "errors"

// ParamSet accumulates a flat, ordered list of parameters declared through
// its type-named methods. Each method returns the new parameter so callers
// can keep chaining modifiers on it:
//
//	set.String("id").Required().URI()
type ParamSet struct {
	params []*Param
	errs   []error
}

// NewParamSet returns an empty set.
func NewParamSet() *ParamSet { return &ParamSet{} }

func (s *ParamSet) Array(name string) *Param   { return s.typed(TypeArray, name) }
func (s *ParamSet) Object(name string) *Param  { return s.typed(TypeObject, name) }
func (s *ParamSet) String(name string) *Param  { return s.typed(TypeString, name) }
func (s *ParamSet) Boolean(name string) *Param { return s.typed(TypeBoolean, name) }
func (s *ParamSet) Integer(name string) *Param { return s.typed(TypeInteger, name) }
func (s *ParamSet) Number(name string) *Param  { return s.typed(TypeNumber, name) }
func (s *ParamSet) Numeric(name string) *Param { return s.typed(TypeNumeric, name) }
func (s *ParamSet) Null(name string) *Param    { return s.typed(TypeNull, name) }
func (s *ParamSet) Any(name string) *Param     { return s.typed(TypeAny, name) }

// typed declares a parameter of type t. An empty name records an
// ArgumentError and returns a detached node that is not added to the set.
func (s *ParamSet) typed(t Type, name string) *Param {
	p := NewParam(ParamArgs{Name: name, Types: []Type{t}})
	if name == "" {
		s.errs = append(s.errs, newArgumentError("ParamSet", string(t)))
		return p
	}
	s.params = append(s.params, p)
	return p
}

// Declare dispatches a type-named method, as in s.Declare("integer", "page").
// Unknown methods fail with a MethodNotFoundError, a missing or empty name
// with an ArgumentError. Neither error is recorded on the set.
func (s *ParamSet) Declare(method string, args ...string) (*Param, error) {
	t, ok := lookupType(method)
	if !ok {
		return nil, newMethodNotFoundError("ParamSet", method)
	}
	if len(args) == 0 || args[0] == "" {
		return nil, newArgumentError("ParamSet", method)
	}
	p := NewParam(ParamArgs{Name: args[0], Types: []Type{t}})
	s.params = append(s.params, p)
	return p, nil
}

// Params returns the declared parameters in declaration order.
func (s *ParamSet) Params() []*Param { return append([]*Param(nil), s.params...) }

// Err reports every ArgumentError recorded by the typed methods.
func (s *ParamSet) Err() error { return errors.Join(s.errs...) }
