package node

import (
	"context"
	"sync/atomic"

	"ChordRing/internal/client"
	"ChordRing/internal/domain"
	"ChordRing/internal/logger"
)

// stabilizeSuccessors reconciles this node's successor with what that
// successor itself reports as its predecessor, adopts a closer successor if
// one is found, notifies it, and refreshes the successor cache from the
// successor's own cache.
func (n *Node) stabilizeSuccessors(ctx context.Context) {
	succ := n.rt.FirstSuccessor()
	if succ == nil || succ.ID.Equal(n.self.ID) {
		return
	}

	pred, err := client.Call(ctx, n.ring.RetryBudget, func(ctx context.Context) (*domain.Node, error) {
		return n.pool.GetPredecessor(ctx, succ.Addr)
	})
	if err != nil {
		n.lgr.Warn("stabilizeSuccessors: successor unreachable",
			logger.FNode("successor", succ), logger.F("err", err.Error()))
		n.promoteNextSuccessor()
		return
	}
	if pred != nil && !pred.ID.Equal(n.self.ID) && pred.ID.InOpenRange(n.self.ID, succ.ID) {
		succ = pred
		n.rt.SetSuccessor(0, succ)
		n.rt.SetFinger(0, succ)
	}

	if err := n.pool.Notify(ctx, succ.Addr, n.self); err != nil {
		n.lgr.Warn("stabilizeSuccessors: notify failed", logger.FNode("successor", succ), logger.F("err", err.Error()))
	}

	remoteCache, err := client.Call(ctx, n.ring.RetryBudget, func(ctx context.Context) ([]*domain.Node, error) {
		return n.pool.GetSuccessorCache(ctx, succ.Addr)
	})
	if err != nil {
		return
	}
	size := n.rt.SuccListSize()
	merged := make([]*domain.Node, 0, size)
	seen := map[string]bool{succ.ID.String(): true, n.self.ID.String(): true}
	merged = append(merged, succ)
	for _, c := range remoteCache {
		if c == nil || seen[c.ID.String()] {
			continue
		}
		seen[c.ID.String()] = true
		merged = append(merged, c)
		if len(merged) >= size {
			break
		}
	}
	for len(merged) < size {
		merged = append(merged, nil)
	}
	n.rt.SetSuccessorCache(merged)
}

// promoteNextSuccessor advances the successor cache past a dead primary
// successor. If the whole cache is exhausted, the first slot is cleared and
// left for the rejoin watchdog to notice.
func (n *Node) promoteNextSuccessor() {
	for i := 1; i < n.rt.SuccListSize(); i++ {
		if n.rt.GetSuccessor(i) != nil {
			n.rt.PromoteCandidate(i)
			return
		}
	}
	n.lgr.Warn("stabilizeSuccessors: successor cache exhausted")
	n.rt.SetSuccessor(0, nil)
}

// stabilizePredecessors pings the current predecessor and clears it if the
// ping fails (C6's retry budget already absorbs transient failures, so a
// single reported failure here means the retry budget was exhausted).
func (n *Node) stabilizePredecessors(ctx context.Context) {
	pred := n.rt.GetPredecessor()
	if pred == nil {
		return
	}
	_, err := client.Call(ctx, n.ring.RetryBudget, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, n.pool.Ping(ctx, pred.Addr)
	})
	if err != nil {
		n.lgr.Warn("stabilizePredecessors: predecessor unreachable, clearing",
			logger.FNode("predecessor", pred), logger.F("err", err.Error()))
		n.rt.SetPredecessor(nil)
	}
}

// fixFingers refreshes one finger table entry per call, round-robin, via
// find_successor(self.id + 2^i). A failed or invalid lookup leaves the entry
// unchanged until the next pass picks the same index again.
func (n *Node) fixFingers(ctx context.Context) {
	num := n.rt.NumFingers()
	i := int(atomic.AddInt32(&n.fingerCursor, 1)-1) % num
	target, err := n.space.AddPow2(n.self.ID, i)
	if err != nil {
		n.lgr.Warn("fixFingers: invalid target", logger.F("index", i), logger.F("err", err.Error()))
		return
	}
	succ, err := n.FindSuccessor(ctx, target, 0)
	if err != nil || succ == nil {
		return
	}
	n.rt.SetFinger(i, succ)
}

// rejoin is the whole-partition-recovery watchdog: if this node has had no
// live predecessor and no live successor for longer than one stabilization
// period, it re-invokes Join against the original seed.
func (n *Node) rejoin(ctx context.Context) {
	if n.healthy() {
		n.markHealthy()
		return
	}
	if n.sinceHealthy() < n.ring.StabilizeSuccessors {
		return
	}
	if n.seedAddr == "" {
		return
	}
	n.lgr.Warn("rejoin: ring view collapsed, reattaching to seed", logger.F("seed", n.seedAddr))
	if err := n.Join(ctx, n.seedAddr); err != nil {
		n.lgr.Error("rejoin: failed", logger.F("seed", n.seedAddr), logger.F("err", err.Error()))
		return
	}
	n.markHealthy()
}

// replicateStorage pushes this node's own primary store to every node
// currently in the successor cache, shipping only the delta implied by
// version_history when the replica is behind, and falling back to a full
// reseed when the replica reports version 0 or a version ahead of the
// primary. It
// also diffs the current successor cache against the set it replicated to
// on the previous tick and issues DeleteStore to any member that dropped
// out in between, so a departed replica doesn't keep holding a stale copy
// forever.
func (n *Node) replicateStorage(ctx context.Context) {
	localV := n.storage.GetStoreVersion(n.self.ID)
	if localV == 0 {
		return // nothing has ever been written locally
	}
	history := n.storage.VersionHistory(n.self.ID)

	current := map[string]*domain.Node{}
	for _, succ := range n.rt.SuccessorCache() {
		if succ == nil || succ.ID.Equal(n.self.ID) {
			continue
		}
		current[succ.ID.String()] = succ
		n.replicateToOne(ctx, succ, localV, history)
	}
	n.gcDroppedReplicas(ctx, current)
}

// gcDroppedReplicas compares current against the successor set this node
// replicated to last tick, and sends DeleteStore to any member present then
// but absent now, reclaiming replica storage for owners that fell out of
// range. The snapshot is replaced with current regardless of GC outcome, so
// a single unreachable dropped replica doesn't get retried forever.
func (n *Node) gcDroppedReplicas(ctx context.Context, current map[string]*domain.Node) {
	n.replicaMu.Lock()
	previous := n.lastReplicaSet
	n.lastReplicaSet = current
	n.replicaMu.Unlock()

	for id, dropped := range previous {
		if _, stillCached := current[id]; stillCached {
			continue
		}
		_, err := client.Call(ctx, n.ring.RetryBudget, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, n.pool.DeleteStore(ctx, dropped.Addr, n.self.ID)
		})
		if err != nil {
			n.lgr.Warn("replicateStorage: DeleteStore on dropped replica failed",
				logger.FNode("replica", dropped), logger.F("err", err.Error()))
		}
	}
}

func (n *Node) replicateToOne(ctx context.Context, succ *domain.Node, localV uint64, history map[uint64][]domain.ID) {
	remote, err := client.Call(ctx, n.ring.RetryBudget, func(ctx context.Context) (client.StoreVersion, error) {
		return n.pool.GetStoreVersion(ctx, succ.Addr, n.self.ID)
	})
	if err != nil {
		n.lgr.Warn("replicateStorage: could not reach replica", logger.FNode("replica", succ), logger.F("err", err.Error()))
		return
	}
	remoteV := remote.VersionNumber
	if remoteV == localV {
		return
	}

	fullReseed := remoteV == 0 || localV < remoteV
	if localV < remoteV {
		_, err := client.Call(ctx, n.ring.RetryBudget, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, n.pool.DeleteStore(ctx, succ.Addr, n.self.ID)
		})
		if err != nil {
			n.lgr.Warn("replicateStorage: DeleteStore on stale replica failed",
				logger.FNode("replica", succ), logger.F("err", err.Error()))
		}
	}

	var keys []domain.ID
	if fullReseed {
		keys = n.storage.Keys(n.self.ID)
	} else {
		seen := map[string]domain.ID{}
		for v := remoteV + 1; v <= localV; v++ {
			for _, k := range history[v] {
				seen[k.String()] = k
			}
		}
		for _, k := range seen {
			keys = append(keys, k)
		}
	}

	data := make(map[domain.ID][]byte, len(keys))
	for _, k := range keys {
		if v, ok := n.storage.Get(n.self.ID, k); ok {
			data[k] = v
		}
	}

	_, err = client.Call(ctx, n.ring.RetryBudget, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, n.pool.ReplicateIn(ctx, succ.Addr, n.self.ID, localV, history, data, fullReseed)
	})
	if err != nil {
		n.lgr.Warn("replicateStorage: ReplicateIn failed", logger.FNode("replica", succ), logger.F("err", err.Error()))
	}
}
