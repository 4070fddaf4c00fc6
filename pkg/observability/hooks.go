// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline execution, cache operations, and gate
// decisions.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetGateHooks(&myGateHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnStageStart(ctx, "pack")
//	// ... pack rooms ...
//	observability.Pipeline().OnStageComplete(ctx, "pack", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the geometry pipeline.
type PipelineHooks interface {
	// OnGenerateStart fires when a generation run begins.
	OnGenerateStart(ctx context.Context, fingerprint string, floors int)

	// OnStageStart fires when a named pipeline stage begins.
	OnStageStart(ctx context.Context, stage string)

	// OnStageComplete fires when a named pipeline stage finishes.
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)

	// OnGenerateComplete fires when a generation run finishes.
	OnGenerateComplete(ctx context.Context, fingerprint string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Gate Hooks
// =============================================================================

// GateHooks receives events from consistency gate batches.
type GateHooks interface {
	// OnBatchStart fires when a batch leaves the pending state.
	OnBatchStart(ctx context.Context, batchID string, panels int)

	// OnPanelFail records one panel failing its checks.
	OnPanelFail(ctx context.Context, batchID, panelID string, reasons []string)

	// OnBatchDone records the final composition decision.
	OnBatchDone(ctx context.Context, batchID, action string, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGenerateStart(context.Context, string, int)                     {}
func (NoopPipelineHooks) OnStageStart(context.Context, string)                             {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, time.Duration, error)    {}
func (NoopPipelineHooks) OnGenerateComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopGateHooks is a no-op implementation of GateHooks.
type NoopGateHooks struct{}

func (NoopGateHooks) OnBatchStart(context.Context, string, int)                  {}
func (NoopGateHooks) OnPanelFail(context.Context, string, string, []string)      {}
func (NoopGateHooks) OnBatchDone(context.Context, string, string, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	gateHooks     GateHooks     = NoopGateHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetGateHooks registers custom gate hooks.
// This should be called once at application startup before any gate batches run.
func SetGateHooks(h GateHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		gateHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Gate returns the registered gate hooks.
func Gate() GateHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return gateHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	gateHooks = NoopGateHooks{}
}
