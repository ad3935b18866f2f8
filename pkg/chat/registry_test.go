package chat

import (
	"testing"
)

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	conn := &Connection{id: "c1"}

	if old := r.Register("alice", conn); old != nil {
		t.Errorf("first Register returned old = %v", old)
	}

	got, ok := r.Lookup("alice")
	if !ok || got != conn {
		t.Errorf("Lookup = %v, %v", got, ok)
	}
	if _, ok := r.Lookup("bob"); ok {
		t.Error("Lookup for unknown name should fail")
	}
}

func TestRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	first := &Connection{id: "c1"}
	second := &Connection{id: "c2"}

	r.Register("alice", first)
	old := r.Register("alice", second)

	if old != first {
		t.Errorf("old = %v, want first connection", old)
	}
	got, _ := r.Lookup("alice")
	if got != second {
		t.Errorf("Lookup = %v, want second connection", got)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRemoveConnection(t *testing.T) {
	r := NewRegistry()
	conn := &Connection{id: "c1"}
	r.Register("alice", conn)

	r.RemoveConnection(conn)

	if _, ok := r.Lookup("alice"); ok {
		t.Error("name still bound after RemoveConnection")
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

func TestRemoveConnectionKeepsNewerBinding(t *testing.T) {
	r := NewRegistry()
	first := &Connection{id: "c1"}
	second := &Connection{id: "c2"}

	r.Register("alice", first)
	r.Register("alice", second)

	// The stale connection departs after the name moved on.
	r.RemoveConnection(first)

	got, ok := r.Lookup("alice")
	if !ok || got != second {
		t.Errorf("Lookup = %v, %v, want second connection", got, ok)
	}
}

func TestNames(t *testing.T) {
	r := NewRegistry()
	r.Register("alice", &Connection{id: "c1"})
	r.Register("bob", &Connection{id: "c2"})

	names := r.Names()
	if len(names) != 2 {
		t.Errorf("Names = %v", names)
	}
}
