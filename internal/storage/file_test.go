package storage

import (
	"testing"

	"ChordRing/internal/domain"
	"ChordRing/internal/logger"
)

func TestFileStorePutGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, &logger.NopLogger{})
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	k := idFor(t, "file-key")

	if err := s.Put(k, []byte("payload")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	v, ok := s.Get(k)
	if !ok || string(v) != "payload" {
		t.Errorf("Get() = (%q, %v), want (\"payload\", true)", v, ok)
	}
	if s.VersionNumber() != 1 {
		t.Errorf("VersionNumber() = %d, want 1", s.VersionNumber())
	}
}

func TestFileStoreReloadsExistingKeysOnRestart(t *testing.T) {
	dir := t.TempDir()
	k := idFor(t, "persisted-key")

	s1, err := NewFileStore(dir, &logger.NopLogger{})
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if err := s1.Put(k, []byte("v1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// A fresh FileStore over the same root, simulating a process restart.
	s2, err := NewFileStore(dir, &logger.NopLogger{})
	if err != nil {
		t.Fatalf("second NewFileStore failed: %v", err)
	}
	if !s2.Contains(k) {
		t.Error("a restarted FileStore should rediscover keys already on disk")
	}
	if s2.VersionNumber() != 0 {
		t.Errorf("a restarted FileStore starts at version 0 (in-memory only), got %d", s2.VersionNumber())
	}
	v, ok := s2.Get(k)
	if !ok || string(v) != "v1" {
		t.Errorf("Get() after restart = (%q, %v), want (\"v1\", true)", v, ok)
	}
}

func TestFileStoreRemoveMissingKey(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, &logger.NopLogger{})
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if err := s.Remove(idFor(t, "nope")); err != domain.ErrKeyNotFound {
		t.Errorf("Remove on missing key = %v, want ErrKeyNotFound", err)
	}
}

func TestFileStoreClearRemovesFilesAndResetsVersion(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, &logger.NopLogger{})
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	k := idFor(t, "to-clear")
	_ = s.Put(k, []byte("v"))

	s.Clear()

	if s.Contains(k) {
		t.Error("Clear should remove all tracked keys")
	}
	if s.VersionNumber() != 0 {
		t.Errorf("VersionNumber() after Clear = %d, want 0", s.VersionNumber())
	}
	if _, ok := s.Get(k); ok {
		t.Error("Get should miss after Clear")
	}
}
