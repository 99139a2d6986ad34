package node

import "testing"

func TestNotifyAcceptsFirstPredecessor(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x50", "self:4000")
	n := newTestNode(t, self, sp)

	candidate := testNode(t, sp, "0x30", "cand:4000")
	n.Notify(candidate)

	got := n.RoutingTable().GetPredecessor()
	if got == nil || !got.ID.Equal(candidate.ID) {
		t.Errorf("GetPredecessor() = %v, want %v", got, candidate)
	}
}

func TestNotifyAcceptsCloserCandidate(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x50", "self:4000")
	n := newTestNode(t, self, sp)
	n.RoutingTable().SetPredecessor(testNode(t, sp, "0x10", "old:4000"))

	closer := testNode(t, sp, "0x40", "closer:4000")
	n.Notify(closer)

	got := n.RoutingTable().GetPredecessor()
	if got == nil || !got.ID.Equal(closer.ID) {
		t.Errorf("GetPredecessor() = %v, want closer candidate %v", got, closer)
	}
}

func TestNotifyRejectsFartherCandidate(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x50", "self:4000")
	n := newTestNode(t, self, sp)
	existing := testNode(t, sp, "0x40", "existing:4000")
	n.RoutingTable().SetPredecessor(existing)

	farther := testNode(t, sp, "0x10", "farther:4000")
	n.Notify(farther)

	got := n.RoutingTable().GetPredecessor()
	if got == nil || !got.ID.Equal(existing.ID) {
		t.Errorf("GetPredecessor() = %v, want unchanged %v", got, existing)
	}
}

func TestNotifyIgnoresSelf(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x50", "self:4000")
	n := newTestNode(t, self, sp)

	n.Notify(self)

	if got := n.RoutingTable().GetPredecessor(); got != nil {
		t.Errorf("GetPredecessor() after self-notify = %v, want nil", got)
	}
}

func TestNotifyIgnoresNilCandidate(t *testing.T) {
	sp := testSpace(t)
	self := testNode(t, sp, "0x50", "self:4000")
	n := newTestNode(t, self, sp)

	n.Notify(nil) // must not panic

	if got := n.RoutingTable().GetPredecessor(); got != nil {
		t.Errorf("GetPredecessor() after nil-notify = %v, want nil", got)
	}
}
