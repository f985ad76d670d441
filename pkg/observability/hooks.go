// Package observability provides hooks for logging and timing resolver runs.
//
// Scanning a source tree and indexing installed distributions are
// best-effort: a file with a syntax error or a distribution with unreadable
// metadata never aborts a run. Those per-item outcomes are not errors; they
// are routed here so a frontend can decide how loudly to report them.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetScanHooks(&myScanHooks{})
//	    observability.SetIndexHooks(&myIndexHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Resolve().OnResolveStart(ctx, method)
//	// ... resolve ...
//	observability.Resolve().OnResolveComplete(ctx, method, count, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Scan Hooks
// =============================================================================

// ScanHooks receives events from the source import scanner.
type ScanHooks interface {
	// OnFileSkipped records a source file that contributed no imports.
	OnFileSkipped(ctx context.Context, path string, err error)

	// OnScanComplete records a finished scan of root.
	OnScanComplete(ctx context.Context, root string, files, skipped, names int, duration time.Duration)
}

// =============================================================================
// Index Hooks
// =============================================================================

// IndexHooks receives events from the installed-distribution index.
type IndexHooks interface {
	// OnDistributionSkipped records a metadata directory that was dropped or
	// whose requirements could not be read.
	OnDistributionSkipped(ctx context.Context, path string, err error)

	// OnIndexBuilt records a finished enumeration of site directories.
	OnIndexBuilt(ctx context.Context, dirs, distributions int, duration time.Duration)
}

// =============================================================================
// Resolve Hooks
// =============================================================================

// ResolveHooks receives events from the requirements resolver.
type ResolveHooks interface {
	OnResolveStart(ctx context.Context, method string)
	OnResolveComplete(ctx context.Context, method string, count int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopScanHooks is a no-op implementation of ScanHooks.
type NoopScanHooks struct{}

func (NoopScanHooks) OnFileSkipped(context.Context, string, error)                         {}
func (NoopScanHooks) OnScanComplete(context.Context, string, int, int, int, time.Duration) {}

// NoopIndexHooks is a no-op implementation of IndexHooks.
type NoopIndexHooks struct{}

func (NoopIndexHooks) OnDistributionSkipped(context.Context, string, error)  {}
func (NoopIndexHooks) OnIndexBuilt(context.Context, int, int, time.Duration) {}

// NoopResolveHooks is a no-op implementation of ResolveHooks.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnResolveStart(context.Context, string)                               {}
func (NoopResolveHooks) OnResolveComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	scanHooks    ScanHooks    = NoopScanHooks{}
	indexHooks   IndexHooks   = NoopIndexHooks{}
	resolveHooks ResolveHooks = NoopResolveHooks{}
	hooksMu      sync.RWMutex
)

// SetScanHooks registers custom scan hooks.
// This should be called once at application startup before any scan.
func SetScanHooks(h ScanHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scanHooks = h
	}
}

// SetIndexHooks registers custom index hooks.
func SetIndexHooks(h IndexHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		indexHooks = h
	}
}

// SetResolveHooks registers custom resolve hooks.
func SetResolveHooks(h ResolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		resolveHooks = h
	}
}

// Scan returns the registered scan hooks.
func Scan() ScanHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scanHooks
}

// Index returns the registered index hooks.
func Index() IndexHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return indexHooks
}

// Resolve returns the registered resolve hooks.
func Resolve() ResolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return resolveHooks
}

// Reset restores all hooks to no-op implementations.
// Primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	scanHooks = NoopScanHooks{}
	indexHooks = NoopIndexHooks{}
	resolveHooks = NoopResolveHooks{}
}
