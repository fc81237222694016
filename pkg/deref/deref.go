package deref

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsonderef/pkg/errors"
	"github.com/matzehuels/jsonderef/pkg/jsonref"
	"github.com/matzehuels/jsonderef/pkg/jsonvalue"
)

// visit tracks the resolution state of one location URI.
type visit int

const (
	unvisited visit = iota
	inProgress
	resolved
)

// Stats counts the work done by a run.
type Stats struct {
	Schemas    int // documents registered
	References int // $ref nodes replaced
	Locations  int // distinct locations resolved
}

// Dereferencer resolves every $ref in a set of schema documents.
//
// A Dereferencer is single-use and not safe for concurrent use. Independent
// instances share no state.
type Dereferencer struct {
	opts   Options
	logger *log.Logger
	reg    *registry

	state  map[string]visit
	values map[string]any
	stats  Stats

	ran    bool
	result []map[string]any
	err    error
}

// New deep-copies docs and registers them by their normalized $id.
// Every document must be an object with a unique, fragment-free string $id.
func New(docs []any, opts Options) (*Dereferencer, error) {
	reg := newRegistry()
	if err := reg.ingest(jsonvalue.Clone(docs).([]any)); err != nil {
		return nil, err
	}
	return &Dereferencer{
		opts:   opts,
		logger: opts.logger(),
		reg:    reg,
		state:  make(map[string]visit),
		values: make(map[string]any),
		stats:  Stats{Schemas: len(reg.order)},
	}, nil
}

// Dereference is a convenience wrapper around New and
// [Dereferencer.Dereference].
func Dereference(docs []any, opts Options) ([]map[string]any, error) {
	d, err := New(docs, opts)
	if err != nil {
		return nil, err
	}
	return d.Dereference()
}

// SchemaURIs returns the registered schema URIs in registration order.
func (d *Dereferencer) SchemaURIs() []string {
	return slices.Clone(d.reg.order)
}

// Stats reports the work done so far.
func (d *Dereferencer) Stats() Stats {
	return d.stats
}

// Dereference fully dereferences every registered schema and returns them in
// registration order. The first error aborts the run; later calls return the
// same result or error.
func (d *Dereferencer) Dereference() ([]map[string]any, error) {
	if !d.ran {
		d.ran = true
		d.result, d.err = d.run()
	}
	if d.err != nil {
		return nil, d.err
	}

	out := make([]map[string]any, len(d.result))
	for i, s := range d.result {
		out[i] = jsonvalue.Clone(s).(map[string]any)
	}
	return out, nil
}

// Lookup returns a deep copy of the fully dereferenced value at location,
// for example "definitions.json#/definitions/address".
func (d *Dereferencer) Lookup(location string) (any, error) {
	if d.err != nil {
		return nil, d.err
	}
	target, err := jsonref.Normalize(location)
	if err != nil {
		return nil, err
	}
	return d.fetch(location, target)
}

func (d *Dereferencer) run() ([]map[string]any, error) {
	for _, uri := range d.reg.order {
		if d.reg.done[uri] {
			continue
		}
		if err := d.dereferenceSchema(uri); err != nil {
			return nil, err
		}
	}

	out := make([]map[string]any, 0, len(d.reg.order))
	for _, uri := range d.reg.order {
		s, ok := d.reg.schemas[uri].(map[string]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeInternal, "schema %q did not dereference to an object", uri)
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *Dereferencer) dereferenceSchema(uri string) error {
	d.logger.Debug("dereferencing schema", "uri", uri)
	v, err := d.dereferenceValue(uri, d.reg.schemas[uri])
	if err != nil {
		return err
	}
	d.reg.schemas[uri] = v
	d.reg.done[uri] = true
	return nil
}

// dereferenceValue returns value with every reference below location
// replaced by its target. Containers are rebuilt; leaves are returned as is.
func (d *Dereferencer) dereferenceValue(location string, value any) (any, error) {
	kind := jsonvalue.KindOf(value)
	if kind == jsonvalue.KindScalar || jsonvalue.OptedOut(value) {
		return value, nil
	}

	if arr, ok := value.([]any); ok {
		out := make([]any, len(arr))
		for i, elem := range arr {
			v, err := d.dereferenceValue(jsonref.AppendPointer(location, strconv.Itoa(i)), elem)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	obj := value.(map[string]any)
	var target any
	if kind == jsonvalue.KindReference {
		ref, ok := obj[jsonvalue.KeyRef].(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeNonStringReference,
				"reference in %q is not a string (got %T)", location, obj[jsonvalue.KeyRef])
		}

		t, err := d.resolveReference(location, ref)
		if err != nil {
			return nil, err
		}
		if m, ok := t.(map[string]any); ok && d.opts.RemoveIDs {
			delete(m, jsonvalue.KeyID)
		}

		if !d.opts.MergeAdditionalProperties {
			if len(obj) > 1 {
				return nil, errors.New(errors.ErrCodeDisallowedAdditionalProperties,
					"reference at %q has additional properties %s", location, quoteKeys(siblings(obj)))
			}
			return t, nil
		}
		target = t
	}

	out := make(map[string]any, len(obj))
	for _, k := range jsonvalue.SortedKeys(obj) {
		if kind == jsonvalue.KindReference && k == jsonvalue.KeyRef {
			continue
		}
		v, err := d.dereferenceValue(jsonref.AppendPointer(location, k), obj[k])
		if err != nil {
			return nil, err
		}
		out[k] = v
	}

	if kind != jsonvalue.KindReference {
		return out, nil
	}
	if len(out) == 0 {
		return target, nil
	}
	return jsonvalue.Merge(target, out), nil
}

// resolveReference resolves ref relative to location and returns a deep copy
// of the dereferenced target.
func (d *Dereferencer) resolveReference(location, ref string) (any, error) {
	target, err := jsonref.Resolve(location, ref)
	if err != nil {
		return nil, err
	}
	d.stats.References++
	return d.fetch(location, target)
}

// fetch returns a deep copy of the dereferenced value at target. Each
// location is resolved at most once; asking for a location while it is
// being resolved is a cycle.
func (d *Dereferencer) fetch(from, target string) (any, error) {
	schemaURI, segments, err := jsonref.Split(target)
	if err != nil {
		return nil, err
	}
	key := jsonref.Join(schemaURI, segments)

	switch d.state[key] {
	case resolved:
		return jsonvalue.Clone(d.values[key]), nil
	case inProgress:
		return nil, errors.New(errors.ErrCodeCyclicReference,
			"reference at %q requires %q, which is still being resolved", from, key)
	}

	d.state[key] = inProgress
	v, err := d.lookup(schemaURI, segments)
	if err != nil {
		// A failed location is unvisited again so that retrying reports
		// the same defect.
		delete(d.state, key)
		return nil, err
	}
	d.state[key] = resolved
	d.values[key] = v
	d.stats.Locations++
	d.logger.Debug("resolved reference", "from", from, "to", key)

	return jsonvalue.Clone(v), nil
}

// lookup walks segments from the root of schemaURI. Reference nodes met on
// the way are resolved and written back into the registry, so later walks
// over the same path find them resolved. A $deref: false node on the path
// (or at the root) switches to returning the raw value.
func (d *Dereferencer) lookup(schemaURI string, segments []string) (any, error) {
	root, ok := d.reg.schemas[schemaURI]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnresolvableReference, "no schema registered for URI %q", schemaURI)
	}

	done := d.reg.done[schemaURI]
	raw := jsonvalue.OptedOut(root)
	cur, location := root, schemaURI

	for _, seg := range segments {
		next, ok := child(cur, seg)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnresolvableReference,
				"cannot resolve %q: segment %q not found in %q", jsonref.Join(schemaURI, segments), seg, location)
		}
		childLocation := jsonref.AppendPointer(location, seg)

		if !raw && !done && jsonvalue.KindOf(next) == jsonvalue.KindReference {
			v, err := d.dereferenceValue(childLocation, next)
			if err != nil {
				return nil, err
			}
			setChild(cur, seg, v)
			next = v
		}
		if jsonvalue.OptedOut(next) {
			raw = true
		}
		cur, location = next, childLocation
	}

	if raw || done {
		return jsonvalue.Clone(cur), nil
	}
	v, err := d.dereferenceValue(location, cur)
	if err != nil {
		return nil, err
	}
	return jsonvalue.Clone(v), nil
}

func siblings(obj map[string]any) []string {
	keys := jsonvalue.SortedKeys(obj)
	return slices.DeleteFunc(keys, func(k string) bool { return k == jsonvalue.KeyRef })
}

func quoteKeys(keys []string) string {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = strconv.Quote(k)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
