// File: lixenwraith/chain/timing.go
package chain

import "time"

// Core timing constants for fragment watching
const (
	SpinWaitInterval     = 5 * time.Millisecond   // CPU-friendly busy-wait quantum
	MinPollInterval      = 100 * time.Millisecond // Hard floor for file stat polling
	ShutdownTimeout      = 100 * time.Millisecond // Graceful watcher termination window
	DefaultDebounce      = 500 * time.Millisecond // File change coalescence period
	DefaultPollInterval  = time.Second            // Standard file monitoring frequency
	DefaultReloadTimeout = 5 * time.Second        // Maximum duration for a rebuild
)

// Derived timing relationships for internal use
const (
	// shutdownPollCycles defines how many spin-wait cycles comprise a shutdown timeout
	shutdownPollCycles = int(ShutdownTimeout / SpinWaitInterval)

	// debounceSettleMultiplier ensures sufficient time for debounce to complete
	debounceSettleMultiplier = 3
)
