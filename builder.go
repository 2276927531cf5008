// File: lixenwraith/chain/builder.go
package chain

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// ValidatorFunc validates a fully assembled Config
type ValidatorFunc func(c *Config) error

// SetupFunc configures a fresh Config programmatically
type SetupFunc func(c *Config)

// Builder assembles a Config from code, fragment files, environment variables
// and command-line overrides in that order. Every Build starts from an empty
// tree, so a Builder can be rebuilt on file changes.
type Builder struct {
	setups       []SetupFunc
	files        []string
	args         []string
	envPrefix    string
	envPaths     []string
	envTransform EnvTransformFunc
	options      []Option
	logger       *slog.Logger
	validators   []ValidatorFunc
	discovery    []discoveryStep
	err          error
}

// discoveryStep is a pending file discovery, inserted at position in files
type discoveryStep struct {
	opts     FileDiscoveryOptions
	position int
}

// NewBuilder creates a new configuration builder
func NewBuilder() *Builder {
	return &Builder{
		logger: slog.Default(),
	}
}

// WithSetup adds a programmatic configuration step, applied before any file
func (b *Builder) WithSetup(fn SetupFunc) *Builder {
	if fn != nil {
		b.setups = append(b.setups, fn)
	}
	return b
}

// WithFile adds a fragment file. Fragments are merged in the order added.
func (b *Builder) WithFile(path string) *Builder {
	if path != "" {
		b.files = append(b.files, path)
	}
	return b
}

// WithFiles adds several fragment files
func (b *Builder) WithFiles(paths ...string) *Builder {
	for _, path := range paths {
		b.WithFile(path)
	}
	return b
}

// WithArgs sets the command-line overrides, merged last
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithEnvPrefix sets the environment variable prefix
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	b.envPrefix = prefix
	return b
}

// WithEnvWhitelist adds the paths read from the environment
func (b *Builder) WithEnvWhitelist(paths ...string) *Builder {
	for _, path := range paths {
		for _, segment := range strings.Split(path, ".") {
			if !isValidKeySegment(segment) && b.err == nil {
				b.err = fmt.Errorf("invalid environment path %q", path)
			}
		}
	}
	b.envPaths = append(b.envPaths, paths...)
	return b
}

// WithEnvTransform sets a custom environment variable transformer
func (b *Builder) WithEnvTransform(fn EnvTransformFunc) *Builder {
	b.envTransform = fn
	return b
}

// WithResolver sets the resolver for string plugin references
func (b *Builder) WithResolver(r Resolver) *Builder {
	b.options = append(b.options, UseResolver(r))
	return b
}

// WithLogger sets the logger used while building and flattening
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	if l != nil {
		b.logger = l
		b.options = append(b.options, UseLogger(l))
	}
	return b
}

// WithValidator adds a validation function that runs at the end of the build.
// Validators run in the order they are added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Files returns the fragment files in merge order. Discovered files are
// looked up against the args set at the time of the call.
func (b *Builder) Files() []string {
	if len(b.discovery) == 0 {
		return slices.Clone(b.files)
	}
	files := make([]string, 0, len(b.files)+len(b.discovery))
	next := 0
	for _, step := range b.discovery {
		files = append(files, b.files[next:step.position]...)
		next = step.position
		if path := DiscoverFile(step.opts, b.args); path != "" {
			b.logger.Debug("Discovered fragment file", "path", path)
			files = append(files, path)
		}
	}
	return append(files, b.files[next:]...)
}

// Build creates a fresh Config with every configured source applied.
// A missing fragment file is not fatal: the Config is returned together with
// an error wrapping ErrConfigNotFound.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}

	cfg := New().With(b.options...)
	for _, setup := range b.setups {
		setup(cfg)
	}
	if err := cfg.Err(); err != nil {
		return nil, fmt.Errorf("setup failed: %w", err)
	}

	var missing []error
	for _, path := range b.Files() {
		if err := cfg.MergeFile(path); err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				b.logger.Warn("Fragment file not found", "path", path)
				missing = append(missing, err)
				continue
			}
			return nil, err
		}
		b.logger.Debug("Merged fragment file", "path", path)
	}

	if len(b.envPaths) > 0 {
		if err := cfg.MergeEnv(b.envPrefix, b.envPaths, b.envTransform); err != nil {
			return nil, err
		}
	}
	if len(b.args) > 0 {
		if err := cfg.MergeArgs(b.args); err != nil {
			return nil, err
		}
	}

	for _, validator := range b.validators {
		if err := validator(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return cfg, errors.Join(missing...)
}

// MustBuild is like Build but panics on error other than a missing fragment
func (b *Builder) MustBuild() *Config {
	cfg, err := b.Build()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return cfg
}

// BuildAndScan builds, flattens and decodes the section at basePath into target
func (b *Builder) BuildAndScan(basePath string, target any) error {
	cfg, err := b.Build()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return err
	}

	if err := cfg.Scan(basePath, target); err != nil {
		return fmt.Errorf("failed to scan final config into target: %w", err)
	}
	return err
}
