// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about mutations, relayouts, and document I/O.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, so the layout packages never import a
// metrics backend. [github.com/matzehuels/pedigree/pkg/observability/prom]
// provides a Prometheus implementation.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := prom.New(prometheus.DefaultRegisterer)
//	    observability.SetEngineHooks(m)
//	    observability.SetDocumentHooks(m)
//	    // ... run application
//	}
//
// The engine calls hooks to emit events:
//
//	start := time.Now()
//	// ... rank, order, place ...
//	observability.Engine().OnRelayout(observability.StageOrder, dirty, time.Since(start))
//
// Layout is synchronous and never blocks on I/O, so hook methods take no
// context.
package observability

import (
	"sync"
	"time"
)

// Stage names one step of a relayout.
type Stage string

const (
	StageRank   Stage = "rank"
	StageOrder  Stage = "order"
	StageCoords Stage = "coords"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the layout engine.
type EngineHooks interface {
	// OnMutation records a mutation attempt. err is nil when it was applied.
	OnMutation(op string, duration time.Duration, err error)

	// OnQueued records a mutation deferred behind one already in progress.
	OnQueued(op string)

	// OnRelayout records one relayout stage over the given number of dirty nodes.
	OnRelayout(stage Stage, dirty int, duration time.Duration)

	// OnCrossings records the crossing count left by the order solver.
	OnCrossings(crossings, iterations int)

	// OnPublish records a layout handed to the renderer.
	OnPublish(version uint64, nodes int)
}

// =============================================================================
// Document Hooks
// =============================================================================

// DocumentHooks receives events from snapshot and layout document I/O.
type DocumentHooks interface {
	// OnRead records a document read.
	OnRead(kind string, nodes int, duration time.Duration, err error)

	// OnWrite records a document write.
	OnWrite(kind string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnMutation(string, time.Duration, error) {}
func (NoopEngineHooks) OnQueued(string)                         {}
func (NoopEngineHooks) OnRelayout(Stage, int, time.Duration)    {}
func (NoopEngineHooks) OnCrossings(int, int)                    {}
func (NoopEngineHooks) OnPublish(uint64, int)                   {}

// NoopDocumentHooks is a no-op implementation of DocumentHooks.
type NoopDocumentHooks struct{}

func (NoopDocumentHooks) OnRead(string, int, time.Duration, error)  {}
func (NoopDocumentHooks) OnWrite(string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks   EngineHooks   = NoopEngineHooks{}
	documentHooks DocumentHooks = NoopDocumentHooks{}
	hooksMu       sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any engine is created.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetDocumentHooks registers custom document hooks.
func SetDocumentHooks(h DocumentHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		documentHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Document returns the registered document hooks.
func Document() DocumentHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return documentHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	documentHooks = NoopDocumentHooks{}
}
