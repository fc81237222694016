package schemaio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/jsonderef/pkg/jsonref"
	"github.com/matzehuels/jsonderef/pkg/jsonvalue"
)

// Write encodes v to w. JSON is indented by two spaces without HTML
// escaping; YAML uses two-space indentation. Object keys are sorted in both.
func Write(w io.Writer, v any, f Format) error {
	if f == YAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile encodes v into a new file at path.
func WriteFile(path string, v any, f Format) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(file, v, f); err != nil {
		file.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return file.Close()
}

// WriteDir writes each schema to its own file under dir, named by FileName.
// It returns the written paths in input order.
func WriteDir(dir string, schemas []map[string]any, f Format) ([]string, error) {
	paths := make([]string, 0, len(schemas))
	for _, s := range schemas {
		id, _ := s[jsonvalue.KeyID].(string)
		path := filepath.Join(dir, filepath.FromSlash(FileName(id, f)))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
		}
		if err := WriteFile(path, s, f); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// FileName derives a relative, slash-separated output path from a schema
// id. The scheme and any ".." segments are dropped and the extension is set
// to match f.
//
//	FileName("http://example.com/s/a.json", YAML) // "example.com/s/a.yaml"
func FileName(id string, f Format) string {
	name := id
	if n, err := jsonref.Normalize(id); err == nil {
		name = n
	}
	if _, rest, ok := strings.Cut(name, "://"); ok {
		name = rest
	}
	name, _, _ = strings.Cut(name, "?")

	var parts []string
	for _, p := range strings.Split(name, "/") {
		if p == "" || p == "." || p == ".." {
			continue
		}
		parts = append(parts, strings.NewReplacer(":", "_", "\\", "_").Replace(p))
	}
	if len(parts) == 0 {
		parts = []string{"schema"}
	}

	name = strings.Join(parts, "/")
	return strings.TrimSuffix(name, filepath.Ext(name)) + f.Ext()
}
