package spec

import "sort"

// Document is the flattened description handed to a transport: operation
// name to operation attributes.
type Document map[string]any

// Merge copies every operation of other into d. Colliding names are
// overwritten by other.
func (d Document) Merge(other Document) Document {
	for name, op := range other {
		d[name] = op
	}
	return d
}

// Names returns the operation names in sorted order.
func (d Document) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Operation returns the attribute document of the named operation.
func (d Document) Operation(name string) (map[string]any, bool) {
	attrs, ok := d[name].(map[string]any)
	return attrs, ok
}
