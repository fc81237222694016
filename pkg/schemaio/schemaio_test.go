package schemaio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/jsonderef/pkg/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", JSON},
		{"JSON", JSON},
		{"yaml", YAML},
		{" yml ", YAML},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(xml) error = %v, want INVALID_FORMAT", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	if FormatFromPath("a/b.YML") != YAML {
		t.Error("expected YAML for .YML")
	}
	if FormatFromPath("a/b.json") != JSON {
		t.Error("expected JSON for .json")
	}
	if FormatFromPath("a/b") != JSON {
		t.Error("expected JSON for no extension")
	}
}

func TestRead(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		in     string
		want   []any
	}{
		{
			name:   "json object",
			format: JSON,
			in:     `{"$id": "a.json", "n": 1}`,
			want:   []any{map[string]any{"$id": "a.json", "n": 1.0}},
		},
		{
			name:   "json array",
			format: JSON,
			in:     `[{"$id": "a.json"}, {"$id": "b.json"}]`,
			want:   []any{map[string]any{"$id": "a.json"}, map[string]any{"$id": "b.json"}},
		},
		{
			name:   "yaml stream",
			format: YAML,
			in:     "$id: a.yaml\nitems:\n  - 1\n  - x\n---\n$id: b.yaml\n",
			want: []any{
				map[string]any{"$id": "a.yaml", "items": []any{1, "x"}},
				map[string]any{"$id": "b.yaml"},
			},
		},
		{
			name:   "yaml non-string keys",
			format: YAML,
			in:     "$id: a.yaml\ncodes:\n  200: ok\n  true: fine\n",
			want: []any{
				map[string]any{"$id": "a.yaml", "codes": map[string]any{"200": "ok", "true": "fine"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.in), tt.format)
			if err != nil {
				t.Fatalf("Read() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Read() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadInvalid(t *testing.T) {
	for _, in := range []string{`{"a":`, `{} {}`, ``} {
		if _, err := Read(strings.NewReader(in), JSON); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("Read(%q) error = %v, want INVALID_FORMAT", in, err)
		}
	}
	if _, err := Read(strings.NewReader("a: [1"), YAML); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Read(yaml) error = %v, want INVALID_FORMAT", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "schemas", "b.yaml"), "type: string\n")
	writeFile(t, filepath.Join(dir, "schemas", "nested", "a.json"), `{"$id": "custom.json"}`)
	writeFile(t, filepath.Join(dir, "schemas", "README.md"), "not a schema")
	writeFile(t, filepath.Join(dir, "single.json"), `{"type": "integer"}`)

	got, err := Load(
		[]string{filepath.Join(dir, "schemas"), filepath.Join(dir, "single.json"), Stdin},
		LoadOptions{IDFromPath: true, Stdin: strings.NewReader(`[{"$id": "stdin.json"}]`)},
	)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := []any{
		map[string]any{"$id": "b.yaml", "type": "string"},
		map[string]any{"$id": "custom.json"},
		map[string]any{"$id": filepath.ToSlash(filepath.Join(dir, "single.json")), "type": "integer"},
		map[string]any{"$id": "stdin.json"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithoutIDFromPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), `{"type": "integer"}`)

	got, err := Load([]string{dir}, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff([]any{map[string]any{"type": "integer"}}, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load([]string{filepath.Join(t.TempDir(), "nope.json")}, LoadOptions{})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestWrite(t *testing.T) {
	v := map[string]any{"b": "<x>", "a": []any{1, 2}}

	var buf bytes.Buffer
	if err := Write(&buf, v, JSON); err != nil {
		t.Fatalf("Write(JSON) error: %v", err)
	}
	wantJSON := "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": \"<x>\"\n}\n"
	if buf.String() != wantJSON {
		t.Errorf("Write(JSON) = %q, want %q", buf.String(), wantJSON)
	}

	buf.Reset()
	if err := Write(&buf, map[string]any{"b": "x", "a": []any{1, 2}}, YAML); err != nil {
		t.Fatalf("Write(YAML) error: %v", err)
	}
	wantYAML := "a:\n  - 1\n  - 2\nb: x\n"
	if buf.String() != wantYAML {
		t.Errorf("Write(YAML) = %q, want %q", buf.String(), wantYAML)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		id     string
		format Format
		want   string
	}{
		{"a.json", JSON, "a.json"},
		{"a.json", YAML, "a.yaml"},
		{"/dir/b", JSON, "dir/b.json"},
		{"HTTP://Example.com:80/s/a.json", YAML, "example.com/s/a.yaml"},
		{"../../etc/passwd", JSON, "etc/passwd.json"},
		{"", JSON, "schema.json"},
	}
	for _, tt := range tests {
		if got := FileName(tt.id, tt.format); got != tt.want {
			t.Errorf("FileName(%q, %s) = %q, want %q", tt.id, tt.format, got, tt.want)
		}
	}
}

func TestWriteDir(t *testing.T) {
	dir := t.TempDir()
	schemas := []map[string]any{
		{"$id": "a.json", "x": 1},
		{"$id": "sub/b.json"},
	}
	paths, err := WriteDir(dir, schemas, JSON)
	if err != nil {
		t.Fatalf("WriteDir() error: %v", err)
	}

	want := []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "sub", "b.json")}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("WriteDir() paths mismatch (-want +got):\n%s", diff)
	}

	docs, err := ReadFile(paths[1])
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if diff := cmp.Diff([]any{map[string]any{"$id": "sub/b.json"}}, docs); diff != "" {
		t.Errorf("written file mismatch (-want +got):\n%s", diff)
	}
}
