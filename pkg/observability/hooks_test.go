package observability

import (
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	// Engine hooks
	e := NoopEngineHooks{}
	e.OnMutation("add person", time.Millisecond, nil)
	e.OnQueued("remove node")
	e.OnRelayout(StageRank, 3, time.Millisecond)
	e.OnCrossings(0, 1)
	e.OnPublish(1, 4)

	// Document hooks
	d := NoopDocumentHooks{}
	d.OnRead("snapshot", 4, time.Millisecond, nil)
	d.OnWrite("layout", 512, time.Millisecond, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}
	if _, ok := Document().(NoopDocumentHooks); !ok {
		t.Error("Document() should return NoopDocumentHooks by default")
	}

	// Set custom hooks
	customEngine := &testEngineHooks{}
	SetEngineHooks(customEngine)
	if Engine() != customEngine {
		t.Error("SetEngineHooks should set custom hooks")
	}

	customDocument := &testDocumentHooks{}
	SetDocumentHooks(customDocument)
	if Document() != customDocument {
		t.Error("SetDocumentHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)

	// Setting nil should be ignored
	SetEngineHooks(nil)

	if Engine() != custom {
		t.Error("SetEngineHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testEngineHooks struct{ NoopEngineHooks }
type testDocumentHooks struct{ NoopDocumentHooks }
