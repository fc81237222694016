package deref

import (
	"strconv"

	"github.com/matzehuels/jsonderef/pkg/errors"
	"github.com/matzehuels/jsonderef/pkg/jsonref"
	"github.com/matzehuels/jsonderef/pkg/jsonvalue"
)

// registry owns the schema documents of one run, keyed by canonical schema
// URI. Stored values are mutated in place while references are resolved.
type registry struct {
	order   []string
	schemas map[string]any
	done    map[string]bool
}

func newRegistry() *registry {
	return &registry{
		schemas: make(map[string]any),
		done:    make(map[string]bool),
	}
}

// ingest registers docs in input order.
func (r *registry) ingest(docs []any) error {
	for i, doc := range docs {
		m, ok := doc.(map[string]any)
		if !ok {
			return errors.New(errors.ErrCodeInvalidSchema, "schema #%d is not an object (got %T)", i, doc)
		}
		id, ok := m[jsonvalue.KeyID].(string)
		if !ok {
			return errors.New(errors.ErrCodeInvalidSchema, "schema #%d has no string %s", i, jsonvalue.KeyID)
		}

		uri, err := jsonref.Normalize(id)
		if err != nil {
			return err
		}
		if err := jsonref.ValidateSchemaURI(uri); err != nil {
			return err
		}
		if _, exists := r.schemas[uri]; exists {
			return errors.New(errors.ErrCodeDuplicateSchemaURI, "duplicate schema for URI %q", uri)
		}

		r.schemas[uri] = m
		r.order = append(r.order, uri)
	}
	return nil
}

// child returns container[segment]. Array segments must be canonical
// decimal indexes.
func child(container any, segment string) (any, bool) {
	switch c := container.(type) {
	case map[string]any:
		v, ok := c[segment]
		return v, ok
	case []any:
		i, ok := index(segment, len(c))
		if !ok {
			return nil, false
		}
		return c[i], true
	default:
		return nil, false
	}
}

// setChild replaces container[segment]; the segment must exist.
func setChild(container any, segment string, v any) {
	switch c := container.(type) {
	case map[string]any:
		c[segment] = v
	case []any:
		if i, ok := index(segment, len(c)); ok {
			c[i] = v
		}
	}
}

func index(segment string, n int) (int, bool) {
	i, err := strconv.Atoi(segment)
	if err != nil || i < 0 || i >= n || strconv.Itoa(i) != segment {
		return 0, false
	}
	return i, true
}
