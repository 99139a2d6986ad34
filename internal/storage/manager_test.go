package storage

import (
	"testing"

	"ChordRing/internal/domain"
	"ChordRing/internal/logger"
)

func memoryFactory(lgr logger.Logger) Factory {
	return func(owner domain.ID) (Store, error) {
		return NewMemoryStore(lgr), nil
	}
}

func TestManagerLazyCreatesStorePerOwner(t *testing.T) {
	m := NewManager(memoryFactory(&logger.NopLogger{}), &logger.NopLogger{})
	owner := idFor(t, "owner-a")
	key := idFor(t, "key-a")

	if m.HasStore(owner) {
		t.Error("HasStore should be false before any write")
	}
	if err := m.AddKey(owner, key, []byte("v")); err != nil {
		t.Fatalf("AddKey failed: %v", err)
	}
	if !m.HasStore(owner) {
		t.Error("HasStore should be true after AddKey")
	}
	v, ok := m.FindKey(owner, key)
	if !ok || string(v) != "v" {
		t.Errorf("FindKey() = (%q, %v), want (\"v\", true)", v, ok)
	}
}

func TestManagerFindKeyOnUntrackedOwner(t *testing.T) {
	m := NewManager(memoryFactory(&logger.NopLogger{}), &logger.NopLogger{})
	owner := idFor(t, "owner-b")
	key := idFor(t, "key-b")

	if _, ok := m.FindKey(owner, key); ok {
		t.Error("FindKey on an owner with no store should report not-found")
	}
	if m.GetStoreVersion(owner) != 0 {
		t.Errorf("GetStoreVersion on untracked owner = %d, want 0", m.GetStoreVersion(owner))
	}
}

func TestManagerDeleteStoreIsIdempotent(t *testing.T) {
	m := NewManager(memoryFactory(&logger.NopLogger{}), &logger.NopLogger{})
	owner := idFor(t, "owner-c")
	key := idFor(t, "key-c")
	_ = m.AddKey(owner, key, []byte("v"))

	m.DeleteStore(owner)
	if m.HasStore(owner) {
		t.Error("HasStore should be false after DeleteStore")
	}
	m.DeleteStore(owner) // must not panic on a second call
}

func TestManagerOwnersTracksEachDistinctOwner(t *testing.T) {
	m := NewManager(memoryFactory(&logger.NopLogger{}), &logger.NopLogger{})
	ownerA := idFor(t, "owner-d")
	ownerB := idFor(t, "owner-e")
	_ = m.AddKey(ownerA, idFor(t, "k"), []byte("v"))
	_ = m.AddKey(ownerB, idFor(t, "k"), []byte("v"))

	owners := m.Owners()
	if len(owners) != 2 {
		t.Fatalf("Owners() returned %d entries, want 2", len(owners))
	}
}

func TestManagerReplicateInCreatesStoreOnFirstContact(t *testing.T) {
	m := NewManager(memoryFactory(&logger.NopLogger{}), &logger.NopLogger{})
	owner := idFor(t, "owner-f")
	key := idFor(t, "key-f")

	data := map[domain.ID][]byte{key: []byte("seeded")}
	hist := map[uint64][]domain.ID{1: {key}}
	if err := m.ReplicateIn(owner, 1, hist, data, true); err != nil {
		t.Fatalf("ReplicateIn failed: %v", err)
	}
	v, ok := m.FindKey(owner, key)
	if !ok || string(v) != "seeded" {
		t.Errorf("FindKey() after ReplicateIn = (%q, %v), want (\"seeded\", true)", v, ok)
	}
	if m.GetStoreVersion(owner) != 1 {
		t.Errorf("GetStoreVersion() = %d, want 1", m.GetStoreVersion(owner))
	}
}
