package node

import (
	"context"
	"testing"

	"ChordRing/internal/domain"
)

func TestPromoteNextSuccessorSkipsToFirstLiveEntry(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x50", "self:4000")
	n := newTestNode(t, self, sp)

	b := testNode(t, sp, "0x70", "b:4000")
	n.RoutingTable().SetSuccessorCache([]*domain.Node{nil, nil, b})

	n.promoteNextSuccessor()

	got := n.RoutingTable().FirstSuccessor()
	if got == nil || !got.ID.Equal(b.ID) {
		t.Errorf("FirstSuccessor() after promote = %v, want %v", got, b)
	}
}

func TestPromoteNextSuccessorExhaustedClearsHead(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x50", "self:4000")
	n := newTestNode(t, self, sp)
	n.RoutingTable().SetSuccessorCache([]*domain.Node{nil, nil, nil})

	n.promoteNextSuccessor() // must not panic with an entirely empty cache

	if got := n.RoutingTable().FirstSuccessor(); got != nil {
		t.Errorf("FirstSuccessor() after exhausted promote = %v, want nil", got)
	}
}

func TestFixFingersOnSingletonSetsSelfAndAdvancesCursor(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x50", "self:4000")
	n := newTestNode(t, self, sp)
	n.InitSingleton()

	n.fixFingers(context.Background())

	if got := n.RoutingTable().GetFinger(0); got == nil || !got.ID.Equal(self.ID) {
		t.Errorf("GetFinger(0) after fixFingers on a singleton ring = %v, want self", got)
	}
	if n.fingerCursor != 1 {
		t.Errorf("fingerCursor after one fixFingers call = %d, want 1", n.fingerCursor)
	}
}

func TestHealthyReportsFalseWithNoPredecessorOrSuccessors(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x50", "self:4000")
	n := newTestNode(t, self, sp)

	if n.healthy() {
		t.Error("healthy() should be false with empty routing state")
	}
}

func TestGcDroppedReplicasRecordsSnapshotWithNoDrops(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x50", "self:4000")
	n := newTestNode(t, self, sp)

	a := testNode(t, sp, "0x60", "a:4000")
	current := map[string]*domain.Node{a.ID.String(): a}

	// First tick: nothing previously recorded, so nothing to GC.
	n.gcDroppedReplicas(context.Background(), current)
	if got := n.lastReplicaSet[a.ID.String()]; got == nil || !got.ID.Equal(a.ID) {
		t.Errorf("lastReplicaSet after first tick = %v, want snapshot containing %v", n.lastReplicaSet, a)
	}

	// Second tick: same member still cached, still nothing to GC (and no
	// call to the nil pool, since the member never dropped out).
	n.gcDroppedReplicas(context.Background(), current)
	if len(n.lastReplicaSet) != 1 {
		t.Errorf("lastReplicaSet after second tick = %v, want exactly one entry", n.lastReplicaSet)
	}
}

func TestHealthyReportsTrueWithPredecessor(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x50", "self:4000")
	n := newTestNode(t, self, sp)
	n.RoutingTable().SetPredecessor(testNode(t, sp, "0x10", "pred:4000"))

	if !n.healthy() {
		t.Error("healthy() should be true once a predecessor is known")
	}
}
