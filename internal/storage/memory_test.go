package storage

import (
	"testing"

	"ChordRing/internal/domain"
	"ChordRing/internal/logger"
)

func idFor(t *testing.T, s string) domain.ID {
	t.Helper()
	sp, _ := domain.NewSpace(64, 3)
	return sp.NewIdFromString(s)
}

func TestMemoryStorePutOverwriteRecordsHistory(t *testing.T) {
	s := NewMemoryStore(&logger.NopLogger{})
	k := idFor(t, "key-a")

	if err := s.Put(k, []byte("v1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put(k, []byte("v2")); err != nil {
		t.Fatalf("overwrite Put failed: %v", err)
	}

	v, ok := s.Get(k)
	if !ok || string(v) != "v2" {
		t.Errorf("Get() = (%q, %v), want (\"v2\", true)", v, ok)
	}
	if s.VersionNumber() != 2 {
		t.Errorf("VersionNumber() = %d, want 2", s.VersionNumber())
	}
	hist := s.VersionHistory()
	if len(hist[1]) != 1 || !hist[1][0].Equal(k) {
		t.Errorf("history[1] = %v, want [%v]", hist[1], k)
	}
	if len(hist[2]) != 1 || !hist[2][0].Equal(k) {
		t.Errorf("history[2] = %v, want [%v]", hist[2], k)
	}
}

func TestMemoryStoreRemoveMissingKey(t *testing.T) {
	s := NewMemoryStore(&logger.NopLogger{})
	k := idFor(t, "missing")
	if err := s.Remove(k); err != domain.ErrKeyNotFound {
		t.Errorf("Remove on missing key = %v, want ErrKeyNotFound", err)
	}
}

func TestMemoryStoreReplicateInFullReseed(t *testing.T) {
	s := NewMemoryStore(&logger.NopLogger{})
	k1, k2 := idFor(t, "k1"), idFor(t, "k2")
	_ = s.Put(k1, []byte("stale"))

	data := map[domain.ID][]byte{k2: []byte("fresh")}
	hist := map[uint64][]domain.ID{1: {k2}}
	s.ReplicateIn(1, hist, data, true)

	if s.Contains(k1) {
		t.Error("full reseed should have dropped the pre-existing key")
	}
	v, ok := s.Get(k2)
	if !ok || string(v) != "fresh" {
		t.Errorf("Get(k2) = (%q, %v), want (\"fresh\", true)", v, ok)
	}
	if s.VersionNumber() != 1 {
		t.Errorf("VersionNumber() = %d, want 1", s.VersionNumber())
	}
}

func TestMemoryStoreReplicateInDeltaMergesNotReplaces(t *testing.T) {
	s := NewMemoryStore(&logger.NopLogger{})
	k1, k2 := idFor(t, "k1"), idFor(t, "k2")
	_ = s.Put(k1, []byte("kept"))

	data := map[domain.ID][]byte{k2: []byte("added")}
	hist := map[uint64][]domain.ID{2: {k2}}
	s.ReplicateIn(2, hist, data, false)

	if !s.Contains(k1) {
		t.Error("delta ReplicateIn must not drop pre-existing keys")
	}
	if !s.Contains(k2) {
		t.Error("delta ReplicateIn must add the new key")
	}
}

func TestMemoryStoreClearResetsVersion(t *testing.T) {
	s := NewMemoryStore(&logger.NopLogger{})
	k := idFor(t, "k")
	_ = s.Put(k, []byte("v"))
	s.Clear()

	if s.VersionNumber() != 0 {
		t.Errorf("VersionNumber() after Clear = %d, want 0", s.VersionNumber())
	}
	if len(s.Keys()) != 0 {
		t.Errorf("Keys() after Clear = %v, want empty", s.Keys())
	}
	if s.Contains(k) {
		t.Error("Clear should remove all keys")
	}
}
