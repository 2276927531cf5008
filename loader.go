// File: lixenwraith/chain/loader.go
package chain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Fragment and export formats
const (
	FormatAuto = "auto"
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatJS   = "js"
)

const (
	// MaxFragmentSize bounds the size of a fragment file read by MergeFile
	MaxFragmentSize = 10 << 20
	// MaxValueSize bounds a single environment or command-line override value
	MaxValueSize = 1 << 20
)

// EnvTransformFunc converts a configuration path to an environment variable name
type EnvTransformFunc func(path string) string

// MergeFile reads a TOML, JSON or YAML fragment and merges it into the tree.
// The format is taken from the extension, falling back to content detection.
func (c *Config) MergeFile(path string) error {
	return c.MergeFileFormat(path, FormatAuto)
}

// MergeFileFormat is MergeFile with an explicit format
func (c *Config) MergeFileFormat(path, format string) error {
	fragment, err := loadFragment(path, format)
	if err != nil {
		return err
	}
	return c.Merge(fragment).Err()
}

// loadFragment reads and parses a fragment file into a nested record source
func loadFragment(path, format string) (map[string]any, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat config file '%s': %w", path, err)
	}
	if info.Size() > MaxFragmentSize {
		return nil, fmt.Errorf("config file '%s' exceeds maximum size %d bytes", path, MaxFragmentSize)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file '%s': %w", path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxFragmentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if format == "" || format == FormatAuto {
		format = detectFileFormat(path)
		if format == "" {
			format = detectFormatFromContent(data)
		}
	}
	fragment, err := parseFragment(data, format)
	if err != nil {
		return nil, fmt.Errorf("config file '%s': %w", path, err)
	}
	return fragment, nil
}

// parseFragment decodes data in the given format
func parseFragment(data []byte, format string) (map[string]any, error) {
	fragment := make(map[string]any)
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &fragment); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&fragment); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &fragment); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return fragment, nil
}

// MergeArgs merges --dotted.path=value overrides into the tree.
// Non-flag arguments are ignored and a bare --flag means true.
func (c *Config) MergeArgs(args []string) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArgsParse, err)
	}
	if len(parsed) == 0 {
		return nil
	}
	return c.Merge(parsed).Err()
}

// MergeEnv merges the environment variables named by paths into the tree.
// A nil transform maps "output.path" to prefix+"OUTPUT_PATH".
func (c *Config) MergeEnv(prefix string, paths []string, transform EnvTransformFunc) error {
	if transform == nil {
		transform = defaultEnvTransform(prefix)
	}

	found := make(map[string]any)
	for _, path := range paths {
		value, ok := os.LookupEnv(transform(path))
		if !ok {
			continue
		}
		if len(value) > MaxValueSize {
			return fmt.Errorf("%w: %s", ErrValueSize, transform(path))
		}
		setNestedValue(found, path, parseValue(value))
	}
	if len(found) == 0 {
		return nil
	}
	return c.Merge(found).Err()
}

// defaultEnvTransform creates the default environment variable transformer
func defaultEnvTransform(prefix string) EnvTransformFunc {
	return func(path string) string {
		env := strings.ReplaceAll(path, ".", "_")
		env = strings.ToUpper(env)
		if prefix != "" {
			env = prefix + env
		}
		return env
	}
}

// parseValue converts override text into a boolean, number or string
func parseValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}

	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !strings.ContainsAny(s, "xXnN") {
		return f
	}
	return s
}

// parseArgs processes command-line arguments into a nested map structure
func parseArgs(args []string) (map[string]any, error) {
	result := make(map[string]any)
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			i++
			continue
		}

		content := strings.TrimPrefix(arg, "--")
		if content == "" {
			i++
			continue
		}

		var keyPath, valueStr string
		if k, v, ok := strings.Cut(content, "="); ok {
			keyPath, valueStr = k, v
			i++
		} else {
			keyPath = content
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				valueStr = "true"
				i++
			} else {
				valueStr = args[i+1]
				i += 2
			}
		}

		if keyPath == "" {
			continue
		}
		for _, segment := range strings.Split(keyPath, ".") {
			if !isValidKeySegment(segment) {
				return nil, fmt.Errorf("invalid command-line key segment %q in path %q", segment, keyPath)
			}
		}
		if len(valueStr) > MaxValueSize {
			return nil, fmt.Errorf("%w: --%s", ErrValueSize, keyPath)
		}

		setNestedValue(result, keyPath, parseValue(valueStr))
	}

	return result, nil
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".js", ".cjs", ".mjs":
		return FormatJS
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	var sample map[string]any
	if err := json.Unmarshal(data, &sample); err == nil {
		return FormatJSON
	}
	sample = nil
	if err := toml.Unmarshal(data, &sample); err == nil {
		return FormatTOML
	}
	sample = nil
	if err := yaml.Unmarshal(data, &sample); err == nil {
		return FormatYAML
	}
	return ""
}
