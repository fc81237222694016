// Package jsonref implements the URI and JSON Pointer algebra used to address
// schemas and the values inside them.
//
// A schema is identified by its canonical schema URI: the normalized form of
// its $id, which never carries a fragment. Any value inside any schema is
// addressed by a location URI, the schema URI plus an optional JSON Pointer
// fragment:
//
//	definitions.json                      // the whole document
//	definitions.json#/definitions/address // one sub-schema
//	definitions.json#/paths/~1users       // key "/users"
//
// Pointer segments are escaped per RFC 6901 ("~" as "~0", "/" as "~1") and
// the fragment is percent-encoded per RFC 3986, so arbitrary object keys
// survive a round trip:
//
//	loc := jsonref.AppendPointer("test.json", `a/b\c`)
//	frag, _ := jsonref.Fragment(loc)
//	segs, _ := jsonref.PointerSegments(frag) // ["a/b\c"]
//
// Every function is pure and safe for concurrent use.
package jsonref
