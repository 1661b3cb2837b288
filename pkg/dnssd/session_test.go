package dnssd

import (
	"testing"
)

func TestSessionRegistryCreate(t *testing.T) {
	r := newSessionRegistry()

	cb := func(any, []Service, bool, error) {}
	id1, sess1 := r.create(cb)
	id2, sess2 := r.create(cb)

	if id1 == 0 || sess1.handle == 0 {
		t.Error("identifiers must be non-zero")
	}
	if id1 == id2 {
		t.Errorf("session identifiers collide: %d", id1)
	}
	if sess1.handle == sess2.handle {
		t.Errorf("browse handles collide: %d", sess1.handle)
	}
}

func TestSessionRegistryReclaim(t *testing.T) {
	r := newSessionRegistry()
	id, sess := r.create(func(any, []Service, bool, error) {})

	got, ok := r.reclaim(id)
	if !ok || got != sess {
		t.Fatal("reclaim did not return the created session")
	}

	// Second reclaim of the same identifier misses.
	if _, ok := r.reclaim(id); ok {
		t.Error("reclaimed identifier still resolves")
	}
}

func TestSessionRegistryIdentifiersNeverReused(t *testing.T) {
	r := newSessionRegistry()
	cb := func(any, []Service, bool, error) {}

	seen := make(map[SessionID]bool)
	for i := 0; i < 100; i++ {
		id, _ := r.create(cb)
		if seen[id] {
			t.Fatalf("identifier %d reused", id)
		}
		seen[id] = true
		r.reclaim(id)
	}
}

func TestSessionRegistryByHandle(t *testing.T) {
	r := newSessionRegistry()
	id, sess := r.create(func(any, []Service, bool, error) {})

	got, ok := r.byHandle(sess.handle)
	if !ok || got != sess {
		t.Fatal("byHandle did not find the active session")
	}

	r.reclaim(id)
	if _, ok := r.byHandle(sess.handle); ok {
		t.Error("byHandle found a reclaimed session")
	}
}

func TestSessionRegistryIDs(t *testing.T) {
	r := newSessionRegistry()
	cb := func(any, []Service, bool, error) {}

	if len(r.ids()) != 0 {
		t.Fatal("fresh registry reports sessions")
	}

	id1, _ := r.create(cb)
	id2, _ := r.create(cb)

	ids := r.ids()
	if len(ids) != 2 {
		t.Fatalf("ids() returned %d identifiers, want 2", len(ids))
	}
	found := map[SessionID]bool{}
	for _, id := range ids {
		found[id] = true
	}
	if !found[id1] || !found[id2] {
		t.Errorf("ids() = %v, want both %d and %d", ids, id1, id2)
	}
}
