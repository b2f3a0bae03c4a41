package memory

import (
	"testing"

	"github.com/technetium-lang/technetium/internal/object"
)

func TestSetAndGetRoundTrip(t *testing.T) {
	m := New()
	f := m.RegisterFrame()
	if err := m.Set(f, 0, object.NewInt(42)); err != nil {
		t.Fatalf("Set: %s", err.Error())
	}
	v, err := m.Get(f, 0)
	if err != nil {
		t.Fatalf("Get: %s", err.Error())
	}
	i, ok := v.(*object.Int)
	if !ok || i.Val.Int64() != 42 {
		t.Errorf("got %v, want 42", v)
	}
}

func TestGetUninitializedLocalIsVariableUndefined(t *testing.T) {
	m := New()
	f := m.RegisterFrame()
	_, err := m.Get(f, 3)
	if err == nil {
		t.Fatal("expected an error reading a never-assigned slot")
	}
	if err.Kind != object.VariableUndefined {
		t.Errorf("got error kind %s, want VariableUndefined", err.Kind)
	}
}

func TestClearFrameDropsUnretainedLocals(t *testing.T) {
	m := New()
	f := m.RegisterFrame()
	m.Set(f, 0, object.NewInt(1))
	m.ClearFrame(f)
	if _, err := m.Get(f, 0); err == nil {
		t.Fatal("expected the local to be gone after ClearFrame with nothing retained")
	}
}

// TestClosureCaptureOutlivesClearFrame is spec §8 universal law 6: a retained
// local continues to be readable after the frame that created it is cleared.
func TestClosureCaptureOutlivesClearFrame(t *testing.T) {
	m := New()
	f := m.RegisterFrame()
	m.Set(f, 0, object.NewInt(7))
	m.DoNotDrop(f, 0)
	m.ClearFrame(f)

	v, err := m.Get(f, 0)
	if err != nil {
		t.Fatalf("expected the retained local to survive ClearFrame: %s", err.Error())
	}
	i, ok := v.(*object.Int)
	if !ok || i.Val.Int64() != 7 {
		t.Errorf("got %v, want 7", v)
	}
}

// TestDoNotDropIsPerSlotNotPerFrame confirms an unmarked local in the same frame as a
// retained one is still dropped — retention is precise to the captured slot (spec
// §4.3), not a whole-frame keep-alive.
func TestDoNotDropIsPerSlotNotPerFrame(t *testing.T) {
	m := New()
	f := m.RegisterFrame()
	m.Set(f, 0, object.NewInt(1))
	m.Set(f, 1, object.NewInt(2))
	m.DoNotDrop(f, 0)
	m.ClearFrame(f)

	if _, err := m.Get(f, 0); err != nil {
		t.Errorf("retained local 0 should have survived: %s", err.Error())
	}
	if _, err := m.Get(f, 1); err == nil {
		t.Error("local 1 was never marked retained and should have been dropped")
	}
}

func TestRegisterFrameAllocatesDistinctIDs(t *testing.T) {
	m := New()
	a := m.RegisterFrame()
	b := m.RegisterFrame()
	if a == b {
		t.Fatalf("expected distinct frame IDs, got %d and %d", a, b)
	}
}
