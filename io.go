// File: lixenwraith/chain/io.go
package chain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Export encodes a flattened document. JSON and YAML keep key order; TOML
// encodes the plain form. The js format is the annotated rendering wrapped as
// a module export.
func Export(doc Record, format string, opts ...StringOption) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
		return data, nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc.Map()); err != nil {
			return nil, fmt.Errorf("failed to marshal config to TOML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJS:
		return []byte("module.exports = " + Stringify(doc, opts...) + ";\n"), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Save flattens the tree and writes it atomically to path in the format
// implied by its extension
func (c *Config) Save(path string, opts ...Option) error {
	format := detectFileFormat(path)
	if format == "" {
		return fmt.Errorf("%w: cannot infer format from %q", ErrUnknownFormat, path)
	}
	return c.SaveFormat(path, format, opts...)
}

// SaveFormat flattens the tree and writes it atomically to path
func (c *Config) SaveFormat(path, format string, opts ...Option) error {
	doc, err := c.ToConfig(opts...)
	if err != nil {
		return err
	}
	data, err := Export(doc, format)
	if err != nil {
		return err
	}
	return atomicWriteFile(path, data)
}

// ExportEnv flattens the tree and returns its scalar leaves keyed by the
// environment variable MergeEnv would read them from
func (c *Config) ExportEnv(prefix string, opts ...Option) (map[string]string, error) {
	doc, err := c.ToConfig(opts...)
	if err != nil {
		return nil, err
	}
	transform := defaultEnvTransform(prefix)

	flat := flattenMap(doc.Map(), "")
	paths := make([]string, 0, len(flat))
	for path := range flat {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	exports := make(map[string]string, len(paths))
	for _, path := range paths {
		switch v := flat[path].(type) {
		case string, bool, json.Number, int, int64, float64:
			exports[transform(path)] = fmt.Sprint(v)
		}
	}
	return exports, nil
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
