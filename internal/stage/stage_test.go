package stage

import "testing"

func TestOrderAndRunningStates(t *testing.T) {
	want := []State{StateRendering, StateEncoding, StateMuxing, StateStillPending}
	if len(Order) != len(want) {
		t.Fatalf("unexpected order length %d", len(Order))
	}
	for i, name := range Order {
		if got := name.Running(); got != want[i] {
			t.Fatalf("%s.Running() = %s, want %s", name, got, want[i])
		}
	}
	if Name("bogus").Running() != StateNotStarted {
		t.Fatal("expected unknown stage to map to not_started")
	}
}

func TestLabel(t *testing.T) {
	if Render.Label() != "Render" || Mux.Label() != "Mux" {
		t.Fatalf("unexpected labels %q %q", Render.Label(), Mux.Label())
	}
}
