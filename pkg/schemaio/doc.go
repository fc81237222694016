// Package schemaio loads schema documents from disk and writes dereferenced
// results back out.
//
// Documents decode into the generic trees the dereferencer works on. JSON
// goes through encoding/json and YAML through [gopkg.in/yaml.v3]; YAML
// mappings are converted to map[string]any so both formats produce the
// same shapes.
//
//	docs, err := schemaio.Load([]string{"schemas/"}, schemaio.LoadOptions{IDFromPath: true})
//	...
//	err = schemaio.Write(os.Stdout, out, schemaio.YAML)
package schemaio
