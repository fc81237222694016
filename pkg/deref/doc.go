// Package deref replaces every JSON Reference in a set of in-memory schema
// documents with the value it points to.
//
// # Overview
//
// Each document must be an object carrying a string "$id". Ids are
// normalized with [jsonref.Normalize] and act as the schema URI other
// documents refer to. A reference is any object with a "$ref" key; its value
// is resolved against the location of the reference itself, so "#/a" points
// into the same document and "other.json#/a" into another registered one.
//
//	docs := []any{
//	    map[string]any{"$id": "a.json", "x": map[string]any{"$ref": "#/y"}, "y": map[string]any{"v": 1}},
//	}
//	out, err := deref.Dereference(docs, deref.DefaultOptions())
//	// out[0]["x"] is a copy of {"v": 1}
//
// # Sibling Keys
//
// By default a reference node may hold nothing but "$ref". With
// [Options.MergeAdditionalProperties] set, the remaining keys are
// dereferenced and deep-merged over the target (see [jsonvalue.Merge]).
//
// # Opting Out
//
// An object with "$deref": false is copied verbatim, references included.
//
// # Cycles
//
// Every location is resolved at most once and memoized. A reference that
// needs a location still being resolved fails with
// [errors.ErrCodeCyclicReference] instead of recursing forever.
//
// All failures abort the whole run; there is no partial result.
package deref
