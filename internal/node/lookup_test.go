package node

import (
	"context"
	"testing"

	"ChordRing/internal/config"
	"ChordRing/internal/domain"
	"ChordRing/internal/storage"
)

func testSpace(t *testing.T) domain.Space {
	t.Helper()
	sp, err := domain.NewSpace(8, 3)
	if err != nil {
		t.Fatalf("NewSpace failed: %v", err)
	}
	return sp
}

func testNode(t *testing.T, sp domain.Space, hex, addr string) *domain.Node {
	t.Helper()
	id, err := sp.FromHexString(hex)
	if err != nil {
		t.Fatalf("FromHexString(%q) failed: %v", hex, err)
	}
	return &domain.Node{ID: id, Addr: addr}
}

func newTestNode(t *testing.T, self *domain.Node, sp domain.Space) *Node {
	t.Helper()
	factory := func(owner domain.ID) (storage.Store, error) { return storage.NewMemoryStore(nil), nil }
	ring := config.RingConfig{RetryBudget: 1}
	return New(self, sp, ring, nil, factory)
}

func TestFindSuccessorSingletonReturnsSelf(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x40", "self:4000")
	n := newTestNode(t, self, sp)
	n.InitSingleton()

	target := testIDFromHex(t, sp, "0x90")
	succ, err := n.FindSuccessor(context.Background(), target, 0)
	if err != nil {
		t.Fatalf("FindSuccessor failed: %v", err)
	}
	if !succ.ID.Equal(self.ID) {
		t.Errorf("FindSuccessor on a singleton ring = %v, want self", succ)
	}
}

func TestFindSuccessorImmediateRange(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x10", "self:4000")
	succ := testNode(t, sp, "0x30", "succ:4000")
	n := newTestNode(t, self, sp)
	n.RoutingTable().SetSuccessor(0, succ)
	n.RoutingTable().SetFinger(0, succ)

	target := testIDFromHex(t, sp, "0x20") // inside (0x10, 0x30]
	got, err := n.FindSuccessor(context.Background(), target, 0)
	if err != nil {
		t.Fatalf("FindSuccessor failed: %v", err)
	}
	if !got.ID.Equal(succ.ID) {
		t.Errorf("FindSuccessor(0x20) = %v, want successor %v", got, succ)
	}
}

func TestClosestPrecedingNodePrefersFartherFinger(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x00", "self:4000")
	n := newTestNode(t, self, sp)

	near := testNode(t, sp, "0x10", "near:4000")
	far := testNode(t, sp, "0x80", "far:4000")
	n.RoutingTable().SetFinger(4, near) // 2^4 = 0x10
	n.RoutingTable().SetFinger(7, far)  // 2^7 = 0x80

	target := testIDFromHex(t, sp, "0xf0")
	got := n.closestPrecedingNode(target)
	if !got.ID.Equal(far.ID) {
		t.Errorf("closestPrecedingNode() = %v, want farthest qualifying finger %v", got, far)
	}
}

func TestClosestPrecedingNodeFallsBackToSuccessorCache(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x00", "self:4000")
	n := newTestNode(t, self, sp)

	cached := testNode(t, sp, "0x20", "cached:4000")
	n.RoutingTable().SetSuccessor(1, cached)

	target := testIDFromHex(t, sp, "0xf0")
	got := n.closestPrecedingNode(target)
	if !got.ID.Equal(cached.ID) {
		t.Errorf("closestPrecedingNode() = %v, want successor-cache entry %v", got, cached)
	}
}

func TestClosestPrecedingNodeReturnsSelfWhenNothingQualifies(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x50", "self:4000")
	n := newTestNode(t, self, sp)

	target := testIDFromHex(t, sp, "0x60")
	got := n.closestPrecedingNode(target)
	if !got.ID.Equal(self.ID) {
		t.Errorf("closestPrecedingNode() with no fingers set = %v, want self", got)
	}
}

func testIDFromHex(t *testing.T, sp domain.Space, hex string) domain.ID {
	t.Helper()
	id, err := sp.FromHexString(hex)
	if err != nil {
		t.Fatalf("FromHexString(%q) failed: %v", hex, err)
	}
	return id
}
