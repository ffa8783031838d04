// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline stages and file writes.
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
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetOutputHooks(&myOutputHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnStageStart(ctx, observability.StageStyle)
//	// ... load style ...
//	observability.Pipeline().OnStageComplete(ctx, observability.StageStyle, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Stage names reported by the pipeline runner.
const (
	StageStyle     = "style"
	StageInput     = "input"
	StageParse     = "parse"
	StageGeometry  = "geometry"
	StageWrite     = "write"
	StageRelations = "relations"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the generation pipeline.
type PipelineHooks interface {
	OnStageStart(ctx context.Context, stage string)
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)
}

// =============================================================================
// Output Hooks
// =============================================================================

// OutputHooks receives events from file writes.
type OutputHooks interface {
	// OnWrite records a write attempt; err is nil on success.
	OnWrite(path string, size int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, string)                           {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, time.Duration, error) {}

// NoopOutputHooks is a no-op implementation of OutputHooks.
type NoopOutputHooks struct{}

func (NoopOutputHooks) OnWrite(string, int, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	outputHooks   OutputHooks   = NoopOutputHooks{}
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

// SetOutputHooks registers custom output hooks.
func SetOutputHooks(h OutputHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		outputHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Output returns the registered output hooks.
func Output() OutputHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return outputHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	outputHooks = NoopOutputHooks{}
}
