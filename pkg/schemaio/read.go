package schemaio

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/jsonderef/pkg/errors"
	"github.com/matzehuels/jsonderef/pkg/jsonvalue"
)

// Stdin is the path that makes Load read from LoadOptions.Stdin.
const Stdin = "-"

// LoadOptions controls Load.
type LoadOptions struct {
	// IDFromPath gives documents without a "$id" one derived from their file
	// path: relative to the directory being walked, or the path as given for
	// plain files. Only files holding a single document qualify.
	IDFromPath bool

	// Stdin is read when a path is "-". Nil means os.Stdin.
	Stdin io.Reader

	// StdinFormat is the format of Stdin. Empty means JSON.
	StdinFormat Format
}

// Read decodes all documents in r. A top-level array is a list of
// documents; anything else is one document. YAML input may also hold
// several "---"-separated documents.
func Read(r io.Reader, f Format) ([]any, error) {
	switch f {
	case YAML:
		return readYAML(r)
	default:
		return readJSON(r)
	}
}

func readJSON(r io.Reader) ([]any, error) {
	var v any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON")
	}
	if dec.More() {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "decode JSON: trailing data after the first value")
	}
	return documents(v), nil
}

func readYAML(r io.Reader) ([]any, error) {
	var docs []any
	dec := yaml.NewDecoder(r)
	for {
		var v any
		err := dec.Decode(&v)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML")
		}
		docs = append(docs, documents(fromYAML(v))...)
	}
	return docs, nil
}

func documents(v any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}
	return []any{v}
}

// fromYAML converts yaml.v3's map[any]any, produced for mappings with
// non-string keys, into the map[string]any JSON trees use.
func fromYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = fromYAML(child)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[fmt.Sprint(k)] = fromYAML(child)
		}
		return out
	case []any:
		for i, child := range t {
			t[i] = fromYAML(child)
		}
		return t
	default:
		return v
	}
}

// ReadFile decodes the documents of one file, choosing the format by
// extension.
func ReadFile(path string) ([]any, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	docs, err := Read(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// Load reads every path in order. Directories are walked recursively in
// lexical order for *.json, *.yaml and *.yml files.
func Load(paths []string, opts LoadOptions) ([]any, error) {
	var all []any
	for _, p := range paths {
		docs, err := loadPath(p, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, docs...)
	}
	return all, nil
}

func loadPath(path string, opts LoadOptions) ([]any, error) {
	if path == Stdin {
		r := opts.Stdin
		if r == nil {
			r = os.Stdin
		}
		f := opts.StdinFormat
		if f == "" {
			f = JSON
		}
		return Read(r, f)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "stat %s", path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return loadFile(path, filepath.ToSlash(filepath.Clean(path)), opts)
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isSchemaFile(d.Name()) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}
	slices.Sort(files)

	var docs []any
	for _, f := range files {
		rel, err := filepath.Rel(path, f)
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
		d, err := loadFile(f, filepath.ToSlash(rel), opts)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d...)
	}
	return docs, nil
}

func loadFile(path, id string, opts LoadOptions) ([]any, error) {
	docs, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if opts.IDFromPath && len(docs) == 1 {
		if m, ok := docs[0].(map[string]any); ok {
			if _, has := m[jsonvalue.KeyID]; !has {
				m[jsonvalue.KeyID] = id
			}
		}
	}
	return docs, nil
}
