package jsonref

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/jsonderef/pkg/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HTTP://ABC.com:80/%7Esmith/home.html", "http://abc.com/~smith/home.html"},
		{"/test.json", "test.json"},
		{"test.json", "test.json"},
		{"HTTPS://Example.COM:443/a.json", "https://example.com/a.json"},
		{"http://example.com:8080/a.json", "http://example.com:8080/a.json"},
		{"a.json#/%7Efoo", "a.json#/~foo"},
		{"a.json#/~1%5c", "a.json#/~1%5C"},
		{"http://abc.com/~smith/home.html", "http://abc.com/~smith/home.html"},
		{"a%3Ab.json", "a%3Ab.json"},
		{"a%3ab.json", "a%3Ab.json"},
		{"a%40b.json", "a%40b.json"},
		{"a%2fb.json", "a%2Fb.json"},
		{"http://x.com/a%24b", "http://x.com/a%24b"},
		{"http://x.com/%61%2D%5F.json", "http://x.com/a-_.json"},
		{"http://x.com/a.json?v=%7e1", "http://x.com/a.json?v=~1"},
		{"file:///x.json", "file:///x.json"},
		{"urn:example:a", "urn:example:a"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if err != nil {
				t.Fatalf("Normalize(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeInvalid(t *testing.T) {
	_, err := Normalize("%zz")
	if !errors.Is(err, errors.ErrCodeInvalidSchemaURI) {
		t.Errorf("Normalize(%%zz) error = %v, want INVALID_SCHEMA_URI", err)
	}
}

func TestValidateSchemaURI(t *testing.T) {
	if err := ValidateSchemaURI("HTTP://ABC.com:80/%7Esmith/home.html"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateSchemaURI("test.json"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := ValidateSchemaURI("test.json#/hi")
	if !errors.Is(err, errors.ErrCodeInvalidSchemaURI) {
		t.Errorf("ValidateSchemaURI(test.json#/hi) = %v, want INVALID_SCHEMA_URI", err)
	}
}

func TestSchemaURI(t *testing.T) {
	if got := SchemaURI("test.json"); got != "test.json" {
		t.Errorf("SchemaURI = %q", got)
	}
	if got := SchemaURI("path/here.json#/hello"); got != "path/here.json" {
		t.Errorf("SchemaURI = %q", got)
	}
}

func TestAppendPointer(t *testing.T) {
	tests := []struct {
		location string
		segment  string
		want     string
	}{
		{"test.json", "hello", "test.json#/hello"},
		{"test.json", `/\~3`, "test.json#/~1%5C~03"},
		{"test.json#/hi", "hello", "test.json#/hi/hello"},
		{"test.json#/a~1b", "0", "test.json#/a~1b/0"},
		{"test.json", "100%", "test.json#/100%25"},
	}

	for _, tt := range tests {
		if got := AppendPointer(tt.location, tt.segment); got != tt.want {
			t.Errorf("AppendPointer(%q, %q) = %q, want %q", tt.location, tt.segment, got, tt.want)
		}
	}
}

func TestPointerSegments(t *testing.T) {
	tests := []struct {
		fragment string
		want     []string
	}{
		{"/one/two", []string{"one", "two"}},
		{"/", nil},
		{"", nil},
		{"/a~1b/c~0d", []string{"a/b", "c~d"}},
		{"/~01", []string{"~1"}},
		{"/a//b", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		got, err := PointerSegments(tt.fragment)
		if err != nil {
			t.Errorf("PointerSegments(%q) error: %v", tt.fragment, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("PointerSegments(%q) mismatch (-want +got):\n%s", tt.fragment, diff)
		}
	}
}

func TestPointerSegmentsMalformed(t *testing.T) {
	for _, fragment := range []string{"one/two", "/one/"} {
		_, err := PointerSegments(fragment)
		if !errors.Is(err, errors.ErrCodeMalformedPointer) {
			t.Errorf("PointerSegments(%q) error = %v, want MALFORMED_POINTER", fragment, err)
		}
	}
}

func TestPointerRoundTrip(t *testing.T) {
	segments := []string{"a", "a/b", "~", "~1", "~0/~1", "%", `\`, "é", "#", " ", "?x=1"}
	for _, s := range segments {
		for _, base := range []string{"test.json", "test.json#/prefix"} {
			loc := AppendPointer(base, s)
			fragment, err := Fragment(loc)
			if err != nil {
				t.Fatalf("Fragment(%q) error: %v", loc, err)
			}
			got, err := PointerSegments(fragment)
			if err != nil {
				t.Fatalf("PointerSegments(%q) error: %v", fragment, err)
			}
			if len(got) == 0 || got[len(got)-1] != s {
				t.Errorf("round trip of %q through %q = %q", s, loc, got)
			}
		}
	}
}

func TestJoinAndSplit(t *testing.T) {
	loc := Join("a.json", []string{"definitions", "x/y"})
	if loc != "a.json#/definitions/x~1y" {
		t.Errorf("Join = %q", loc)
	}
	if got := Join("a.json", nil); got != "a.json" {
		t.Errorf("Join(root) = %q", got)
	}

	schemaURI, segments, err := Split(loc)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	if schemaURI != "a.json" {
		t.Errorf("schema URI = %q", schemaURI)
	}
	if diff := cmp.Diff([]string{"definitions", "x/y"}, segments); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}

	if _, _, err := Split("a.json#nope"); !errors.Is(err, errors.ErrCodeMalformedPointer) {
		t.Errorf("Split(a.json#nope) error = %v, want MALFORMED_POINTER", err)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		base string
		ref  string
		want string
	}{
		{"a.json", "#/y", "a.json#/y"},
		{"a.json#/x", "#/y", "a.json#/y"},
		{"a.json#/x", "", "a.json"},
		{"a.json#/x", "#", "a.json"},
		{"dir/a.json#/x", "b.json", "dir/b.json"},
		{"dir/a.json", "../c.json#/d", "c.json#/d"},
		{"a.json", "HTTP://X.com:80/s.json", "http://x.com/s.json"},
		{"http://x.com/schemas/a.json", "b.json#/defs", "http://x.com/schemas/b.json#/defs"},
		{"a.json", "#/~1%5C~03", "a.json#/~1%5C~03"},
	}

	for _, tt := range tests {
		got, err := Resolve(tt.base, tt.ref)
		if err != nil {
			t.Errorf("Resolve(%q, %q) error: %v", tt.base, tt.ref, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
		}
	}
}
