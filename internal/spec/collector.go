package spec

import (
	"fmt"
	"reflect"
)

// Group is an operation-group provider: anything that can produce the
// flattened document of the operations it declares.
type Group interface {
	GetAllAPI() (Document, error)
}

var operationPtrType = reflect.TypeOf((*Operation)(nil))

// CollectAPI builds the document of group by calling, in order, the
// exported zero-argument methods named by names. Each method must return an
// *Operation. Later operations overwrite earlier ones with the same name.
//
// A group type typically implements Group with it:
//
//	func (g *Users) GetAllAPI() (spec.Document, error) {
//		return spec.CollectAPI(g, "GetUser", "ListUsers")
//	}
//
// Any failure aborts collection; no partial document is returned.
func CollectAPI(group any, names ...string) (Document, error) {
	if group == nil {
		return nil, NewConfigurationError("nil operation group")
	}
	v := reflect.ValueOf(group)
	doc := make(Document, len(names))
	for _, name := range names {
		m := v.MethodByName(name)
		if !m.IsValid() {
			return nil, &Error{
				Code:      OperationNotFoundError,
				Message:   fmt.Sprintf("api %q not found on %T", name, group),
				Operation: name,
			}
		}
		mt := m.Type()
		if mt.NumIn() != 0 || mt.NumOut() != 1 || mt.Out(0) != operationPtrType {
			return nil, &Error{
				Code:      InvalidOperationError,
				Message:   fmt.Sprintf("api %q is not a valid api: %s does not return *spec.Operation", name, mt),
				Operation: name,
			}
		}
		op, _ := m.Call(nil)[0].Interface().(*Operation)
		opDoc, err := serialize(name, op)
		if err != nil {
			return nil, err
		}
		doc.Merge(opDoc)
	}
	return doc, nil
}

// Collect builds the document of an explicit operation list.
func Collect(ops ...*Operation) (Document, error) {
	doc := make(Document, len(ops))
	for i, op := range ops {
		opDoc, err := serialize(fmt.Sprintf("#%d", i), op)
		if err != nil {
			return nil, err
		}
		doc.Merge(opDoc)
	}
	return doc, nil
}

func serialize(ref string, op *Operation) (Document, error) {
	if op == nil {
		return nil, &Error{
			Code:      InvalidOperationError,
			Message:   fmt.Sprintf("api %q is not a valid api: nil operation", ref),
			Operation: ref,
		}
	}
	if op.Name() == "" {
		return nil, &Error{
			Code:      InvalidOperationError,
			Message:   fmt.Sprintf("api %q is not a valid api: empty operation name", ref),
			Operation: ref,
		}
	}
	if err := op.Err(); err != nil {
		return nil, &Error{
			Code:      InvalidOperationError,
			Message:   fmt.Sprintf("api %q is not a valid api", op.Name()),
			Operation: op.Name(),
			Cause:     err,
		}
	}
	return op.ToArray(), nil
}
