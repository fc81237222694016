// Package jsonvalue classifies, copies and merges generic JSON values.
//
// Values are the trees produced by encoding/json and gopkg.in/yaml.v3 when
// decoding into an interface: map[string]any for objects, []any for arrays,
// and scalars for everything else. Any other runtime shape is a leaf.
package jsonvalue

import (
	"maps"
	"slices"
)

// Kind classifies a node of a schema value tree.
type Kind int

const (
	// KindScalar is a leaf: string, number, boolean, null, or any value whose
	// runtime shape is not a plain map or slice.
	KindScalar Kind = iota
	// KindArray is a []any.
	KindArray
	// KindObject is a map[string]any without a "$ref" key.
	KindObject
	// KindReference is a map[string]any carrying a "$ref" key.
	KindReference
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindReference:
		return "reference"
	default:
		return "scalar"
	}
}

// Reserved keys.
const (
	KeyRef   = "$ref"
	KeyID    = "$id"
	KeyDeref = "$deref"
)

// KindOf classifies v.
func KindOf(v any) Kind {
	switch t := v.(type) {
	case []any:
		return KindArray
	case map[string]any:
		if _, ok := t[KeyRef]; ok {
			return KindReference
		}
		return KindObject
	default:
		return KindScalar
	}
}

// IsPlain reports whether v is a leaf that can neither contain references
// nor sub-schemas.
func IsPlain(v any) bool {
	return KindOf(v) == KindScalar
}

// OptedOut reports whether v is an object whose "$deref" key is literally
// false. Such subtrees are kept verbatim by the dereferencer.
func OptedOut(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	b, ok := m[KeyDeref].(bool)
	return ok && !b
}

// Clone returns a deep copy of v. Leaves are shared.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = Clone(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = Clone(child)
		}
		return out
	default:
		return v
	}
}

// Merge deep-merges override onto base and returns the result without
// modifying either input.
//
// Objects merge key by key: keys only in base are kept, keys only in
// override are added, and shared keys merge recursively. Arrays in override
// replace the base value wholesale; they are never merged element-wise. An
// explicit null under a shared key wins like any other scalar. A nil
// override passed to Merge itself means "absent" and keeps the base.
func Merge(base, override any) any {
	if override == nil {
		return Clone(base)
	}
	b, ok := base.(map[string]any)
	if !ok {
		return Clone(override)
	}
	o, ok := override.(map[string]any)
	if !ok {
		return Clone(override)
	}

	out := make(map[string]any, len(b)+len(o))
	for k, v := range b {
		out[k] = Clone(v)
	}
	for k, v := range o {
		if existing, ok := out[k]; ok && v != nil {
			out[k] = Merge(existing, v)
			continue
		}
		out[k] = Clone(v)
	}
	return out
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}
