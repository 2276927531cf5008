// File: lixenwraith/chain/convenience.go
package chain

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/davecgh/go-spew/spew"
)

// Quick builds a Config from setup, the fragment file and the process
// command line, reading environment overrides for the given paths
func Quick(setup SetupFunc, envPrefix, file string, envPaths ...string) (*Config, error) {
	return NewBuilder().
		WithSetup(setup).
		WithFile(file).
		WithEnvPrefix(envPrefix).
		WithEnvWhitelist(envPaths...).
		WithArgs(os.Args[1:]).
		Build()
}

// MustQuick is like Quick but panics on error
func MustQuick(setup SetupFunc, envPrefix, file string, envPaths ...string) *Config {
	cfg, err := Quick(setup, envPrefix, file, envPaths...)
	if err != nil {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return cfg
}

// Validate flattens the tree and checks that every required dotted path is set
func (c *Config) Validate(required ...string) error {
	doc, err := c.ToConfig()
	if err != nil {
		return err
	}

	var missing []string
	for _, path := range required {
		if v, ok := doc.Lookup(path); !ok || v == nil {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

var debugConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Debug returns a dump of the flattened document with Go types shown
func (c *Config) Debug() string {
	doc, err := c.ToConfig()
	if err != nil {
		return fmt.Sprintf("Configuration Debug Info:\nerror: %v\n", err)
	}

	var b strings.Builder
	b.WriteString("Configuration Debug Info:\n")
	b.WriteString(debugConfig.Sdump(doc.Map()))
	return b.String()
}

// Dump writes the flattened document to w in TOML format
func (c *Config) Dump(w io.Writer) error {
	doc, err := c.ToConfig()
	if err != nil {
		return err
	}
	return toml.NewEncoder(w).Encode(doc.Map())
}
