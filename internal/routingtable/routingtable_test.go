package routingtable

import (
	"testing"

	"ChordRing/internal/domain"
)

func testNode(t *testing.T, sp domain.Space, hex, addr string) *domain.Node {
	t.Helper()
	id, err := sp.FromHexString(hex)
	if err != nil {
		t.Fatalf("FromHexString(%q) failed: %v", hex, err)
	}
	return &domain.Node{ID: id, Addr: addr}
}

func TestInitSingleNode(t *testing.T) {
	sp, _ := domain.NewSpace(8, 3)
	self := testNode(t, sp, "0x42", "self:4000")
	rt := New(self, sp, sp.SuccListSize)
	rt.InitSingleNode()

	if got := rt.FirstSuccessor(); got == nil || !got.ID.Equal(self.ID) {
		t.Errorf("FirstSuccessor() = %v, want self", got)
	}
	if got := rt.GetFinger(0); got == nil || !got.ID.Equal(self.ID) {
		t.Errorf("GetFinger(0) = %v, want self", got)
	}
	if rt.GetPredecessor() != nil {
		t.Error("expected nil predecessor for a fresh singleton ring")
	}
	for i := 1; i < rt.SuccListSize(); i++ {
		if rt.GetSuccessor(i) != nil {
			t.Errorf("successor cache slot %d should be empty, got %v", i, rt.GetSuccessor(i))
		}
	}
}

func TestSetAndGetSuccessorOutOfRange(t *testing.T) {
	sp, _ := domain.NewSpace(8, 3)
	self := testNode(t, sp, "0x00", "self:4000")
	rt := New(self, sp, sp.SuccListSize)

	if got := rt.GetSuccessor(-1); got != nil {
		t.Error("GetSuccessor(-1) should return nil, not panic")
	}
	if got := rt.GetSuccessor(99); got != nil {
		t.Error("GetSuccessor(99) should return nil, not panic")
	}
	rt.SetSuccessor(-1, self) // must not panic
	rt.SetSuccessor(99, self) // must not panic
}

func TestPromoteCandidate(t *testing.T) {
	sp, _ := domain.NewSpace(8, 3)
	self := testNode(t, sp, "0x00", "self:4000")
	a := testNode(t, sp, "0x10", "a:4000")
	b := testNode(t, sp, "0x20", "b:4000")
	c := testNode(t, sp, "0x30", "c:4000")
	rt := New(self, sp, sp.SuccListSize)
	rt.SetSuccessorCache([]*domain.Node{a, b, c})

	rt.PromoteCandidate(1)

	if got := rt.GetSuccessor(0); got == nil || !got.ID.Equal(b.ID) {
		t.Errorf("GetSuccessor(0) after promote = %v, want %v", got, b)
	}
	if got := rt.GetSuccessor(1); got == nil || !got.ID.Equal(c.ID) {
		t.Errorf("GetSuccessor(1) after promote = %v, want %v", got, c)
	}
	if got := rt.GetSuccessor(2); got != nil {
		t.Errorf("GetSuccessor(2) after promote = %v, want nil", got)
	}
}

func TestPromoteCandidateInvalidIndexIsNoop(t *testing.T) {
	sp, _ := domain.NewSpace(8, 3)
	self := testNode(t, sp, "0x00", "self:4000")
	a := testNode(t, sp, "0x10", "a:4000")
	rt := New(self, sp, sp.SuccListSize)
	rt.SetSuccessorCache([]*domain.Node{a, nil, nil})

	rt.PromoteCandidate(0) // index 0 is invalid (only >=1 promotes)
	if got := rt.GetSuccessor(0); got == nil || !got.ID.Equal(a.ID) {
		t.Errorf("PromoteCandidate(0) should be a no-op, got %v", got)
	}

	rt.PromoteCandidate(1) // candidate at 1 is nil
	if got := rt.GetSuccessor(0); got == nil || !got.ID.Equal(a.ID) {
		t.Errorf("PromoteCandidate(1) with nil candidate should be a no-op, got %v", got)
	}
}

func TestFingerTableSetGet(t *testing.T) {
	sp, _ := domain.NewSpace(8, 3)
	self := testNode(t, sp, "0x00", "self:4000")
	a := testNode(t, sp, "0x10", "a:4000")
	rt := New(self, sp, sp.SuccListSize)

	if rt.NumFingers() != sp.Bits {
		t.Errorf("NumFingers() = %d, want %d", rt.NumFingers(), sp.Bits)
	}
	rt.SetFinger(3, a)
	if got := rt.GetFinger(3); got == nil || !got.ID.Equal(a.ID) {
		t.Errorf("GetFinger(3) = %v, want %v", got, a)
	}
	if got := rt.GetFinger(4); got != nil {
		t.Errorf("GetFinger(4) = %v, want nil", got)
	}
}

func TestSetSuccessorCacheLengthMismatchIsNoop(t *testing.T) {
	sp, _ := domain.NewSpace(8, 3)
	self := testNode(t, sp, "0x00", "self:4000")
	a := testNode(t, sp, "0x10", "a:4000")
	rt := New(self, sp, sp.SuccListSize)
	rt.SetSuccessor(0, a)

	rt.SetSuccessorCache([]*domain.Node{a}) // wrong length, should be ignored

	if got := rt.GetSuccessor(0); got == nil || !got.ID.Equal(a.ID) {
		t.Errorf("SetSuccessorCache with mismatched length corrupted state: got %v", got)
	}
}
