// File: lixenwraith/chain/errors.go
package chain

import "errors"

var (
	// ErrInvalidArgumentShape is returned when plugin arguments are not a list
	ErrInvalidArgumentShape = errors.New("args must be an array of arguments")

	// ErrIncompleteOrdering is returned when a node declares both before and after
	ErrIncompleteOrdering = errors.New("unable to set both before and after on the same node")

	// ErrMissingPluginReference is returned when a plugin slot was never completed with Use or Init
	ErrMissingPluginReference = errors.New("missing plugin reference")

	// ErrUnknownOrderingTarget is returned when a before/after target is not a sibling
	ErrUnknownOrderingTarget = errors.New("unknown ordering target")

	// ErrUnresolvableReference is returned when a string plugin reference cannot be resolved
	ErrUnresolvableReference = errors.New("unresolvable plugin reference")

	// ErrConfigNotFound indicates a fragment file was not found
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrArgsParse indicates malformed command-line overrides
	ErrArgsParse = errors.New("failed to parse command-line arguments")

	// ErrValueSize indicates an override value above MaxValueSize
	ErrValueSize = errors.New("value size exceeds maximum")

	// ErrPermissionChanged indicates a watched file changed group or world permissions
	ErrPermissionChanged = errors.New("watched file permissions changed")

	// ErrReloadTimeout indicates a rebuild exceeded the watcher's reload timeout
	ErrReloadTimeout = errors.New("configuration reload timed out")

	// ErrUnknownFormat indicates a fragment or export format that cannot be determined
	ErrUnknownFormat = errors.New("unknown configuration format")
)

// PluginError reports a problem with a named plugin slot
type PluginError struct {
	Kind    string // slot type, e.g. "plugin" or "resolve.plugin"
	Name    string
	Message string
	Err     error
}

func (e *PluginError) Error() string {
	return e.Message
}

func (e *PluginError) Unwrap() error {
	return e.Err
}
