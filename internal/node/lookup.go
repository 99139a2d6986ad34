package node

import (
	"context"

	"ChordRing/internal/client"
	"ChordRing/internal/domain"
	"ChordRing/internal/logger"
)

// FindSuccessor resolves the node responsible for target: the first node
// whose id lies in the half-open arc (self.id, successor.id]. hops is a
// diagnostic counter, forwarded and incremented on every remote hop so a
// trace can report how many nodes a lookup touched.
//
// This is the classic Chord find_successor/find_predecessor recursion: if
// target falls between self and its immediate successor the answer is the
// successor; otherwise the lookup is handed off to the closest finger that
// still precedes target, recursing until some node's successor brackets it.
func (n *Node) FindSuccessor(ctx context.Context, target domain.ID, hops int32) (*domain.Node, error) {
	succ := n.rt.FirstSuccessor()
	if succ == nil {
		// No successor known yet (still a singleton, or mid-stabilization):
		// self is the only known member of the ring.
		return n.self, nil
	}
	if target.InRangeHalfOpenRight(n.self.ID, succ.ID) {
		return succ, nil
	}

	next := n.closestPrecedingNode(target)
	if next.ID.Equal(n.self.ID) {
		// No finger closer than ourselves: our own successor is the best
		// available answer.
		return succ, nil
	}

	remote, err := client.Call(ctx, n.ring.RetryBudget, func(ctx context.Context) (*domain.Node, error) {
		return n.pool.FindSuccessor(ctx, next.Addr, target, hops+1)
	})
	if err != nil {
		n.lgr.Warn("FindSuccessor: hop failed, falling back to local successor",
			logger.F("target", target.String()), logger.FNode("hop", next), logger.F("err", err.Error()))
		return succ, nil
	}
	return remote, nil
}

// closestPrecedingNode scans the finger table from the farthest entry down
// to the closest, returning the first finger strictly between self and
// target. If no finger qualifies, the successor cache is scanned the same
// way, farthest slot first. If nothing qualifies there either, self is
// returned, which FindSuccessor treats as "nothing closer is known".
func (n *Node) closestPrecedingNode(target domain.ID) *domain.Node {
	for i := n.rt.NumFingers() - 1; i >= 0; i-- {
		f := n.rt.GetFinger(i)
		if f == nil {
			continue
		}
		if f.ID.InOpenRange(n.self.ID, target) {
			return f
		}
	}
	for i := n.rt.SuccListSize() - 1; i >= 0; i-- {
		s := n.rt.GetSuccessor(i)
		if s == nil {
			continue
		}
		if s.ID.InOpenRange(n.self.ID, target) {
			return s
		}
	}
	return n.self
}
