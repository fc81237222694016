// Package pkg provides the libraries behind jsonderef.
//
// # Overview
//
// jsonderef takes a set of interlinked JSON Schema documents, each named by
// its "$id", and replaces every "$ref" with the value it points to. The pkg
// directory is organized into three areas:
//
//  1. Core - [jsonref], [jsonvalue] and [deref]: pure, I/O-free resolution
//  2. Infrastructure - [schemaio], [cache], [observability], [buildinfo]
//  3. Orchestration - [pipeline] and [refgraph]
//
// # Architecture
//
// The typical data flow:
//
//	JSON/YAML files, stdin, or an HTTP request body
//	         ↓
//	    [schemaio] package (decode documents, optionally assign $id from path)
//	         ↓
//	    [pipeline] package (hash input, consult [cache])
//	         ↓
//	    [deref] package (register schemas, resolve references)
//	         ↓
//	    dereferenced schemas, or a coded [errors] value
//
// # Quick Start
//
//	import "github.com/matzehuels/jsonderef/pkg/deref"
//
//	d, err := deref.New(docs, deref.Options{MergeAdditionalProperties: true})
//	if err != nil {
//	    return err
//	}
//	schemas, err := d.Dereference()
//
// # Main Packages
//
// ## Core
//
// [jsonref] - URI normalization, JSON Pointer escaping and splitting, and
// RFC 3986 reference resolution.
//
// [jsonvalue] - Classification of decoded JSON values, deep copy, and the
// merge policy used for keywords next to "$ref".
//
// [deref] - The schema registry and the dereferencer. Every location is
// resolved at most once; a location that requires itself fails with
// CYCLIC_REFERENCE.
//
// [errors] - Coded errors shared by every package.
//
// ## Infrastructure
//
// [schemaio] - Reading and writing schema documents as JSON or YAML.
//
// [cache] - Result cache with file, Redis, MongoDB and null backends.
//
// [observability] - Process-wide hooks for dereference, cache and HTTP events.
//
// ## Orchestration
//
// [pipeline] - Cache-aware runner used by the CLI and the HTTP server.
//
// [refgraph] - The schema-level reference graph, its cycles, and Graphviz
// DOT/SVG output.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/deref/...    # Specific package
//	go test -run Example ./... # Examples only
//
// Redis and MongoDB cache tests skip unless a local server is reachable.
//
// [jsonref]: https://pkg.go.dev/github.com/matzehuels/jsonderef/pkg/jsonref
// [jsonvalue]: https://pkg.go.dev/github.com/matzehuels/jsonderef/pkg/jsonvalue
// [deref]: https://pkg.go.dev/github.com/matzehuels/jsonderef/pkg/deref
// [errors]: https://pkg.go.dev/github.com/matzehuels/jsonderef/pkg/errors
// [schemaio]: https://pkg.go.dev/github.com/matzehuels/jsonderef/pkg/schemaio
// [cache]: https://pkg.go.dev/github.com/matzehuels/jsonderef/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/jsonderef/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/jsonderef/pkg/buildinfo
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/jsonderef/pkg/pipeline
// [refgraph]: https://pkg.go.dev/github.com/matzehuels/jsonderef/pkg/refgraph
package pkg
