package node

import (
	"errors"
	"testing"

	"ChordRing/internal/domain"
)

// TestAddKeyReplicaSkipsFanOutWhenOwnerIsNotSelf checks that writing to a
// replica store (owner != self) never touches the successor cache or the
// (nil, in this test) RPC pool.
func TestAddKeyReplicaSkipsFanOutWhenOwnerIsNotSelf(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x50", "self:4000")
	n := newTestNode(t, self, sp)

	owner := testIDFromHex(t, sp, "0x10")
	key := testIDFromHex(t, sp, "0x11")
	if err := n.AddKey(nil, owner, key, []byte("v")); err != nil {
		t.Fatalf("AddKey failed: %v", err)
	}

	v, ok := n.FindKey(owner, key)
	if !ok || string(v) != "v" {
		t.Errorf("FindKey() = (%q, %v), want (\"v\", true)", v, ok)
	}
}

// TestAddKeyOwnStoreWithEmptySuccessorCacheDoesNotFanOut checks that AddKey
// on the node's own store is safe even with a nil RPC pool, as long as the
// successor cache has nothing in it to fan out to.
func TestAddKeyOwnStoreWithEmptySuccessorCacheDoesNotFanOut(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x50", "self:4000")
	n := newTestNode(t, self, sp)

	key := testIDFromHex(t, sp, "0x11")
	if err := n.AddKey(nil, self.ID, key, []byte("v")); err != nil {
		t.Fatalf("AddKey failed: %v", err)
	}
	v, ok := n.FindKey(self.ID, key)
	if !ok || string(v) != "v" {
		t.Errorf("FindKey() = (%q, %v), want (\"v\", true)", v, ok)
	}
}

func TestGetStoreVersionUntrackedOwnerIsZero(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x50", "self:4000")
	n := newTestNode(t, self, sp)

	owner := testIDFromHex(t, sp, "0x99")
	if got := n.GetStoreVersion(owner); got != 0 {
		t.Errorf("GetStoreVersion(untracked) = %d, want 0", got)
	}
}

func TestReplicateInRejectsOwnID(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x50", "self:4000")
	n := newTestNode(t, self, sp)

	err := n.ReplicateIn(self.ID, 1, nil, nil, true)
	if !errors.Is(err, domain.ErrNotResponsible) {
		t.Errorf("ReplicateIn(self.ID, ...) err = %v, want ErrNotResponsible", err)
	}
}

func TestDeleteStoreThenFindKeyMisses(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x50", "self:4000")
	n := newTestNode(t, self, sp)

	owner := testIDFromHex(t, sp, "0x10")
	key := testIDFromHex(t, sp, "0x11")
	_ = n.AddKey(nil, owner, key, []byte("v"))
	n.DeleteStore(owner)

	if _, ok := n.FindKey(owner, key); ok {
		t.Error("FindKey should miss after DeleteStore")
	}
}
