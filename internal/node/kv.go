package node

import (
	"context"

	"ChordRing/internal/client"
	"ChordRing/internal/domain"
	"ChordRing/internal/logger"
)

// AddKey stores value under key in the store owned by owner, creating that
// store on first use. When owner is this node's own id, the write is also
// fanned out, fire-and-forget, to every node currently in the successor
// cache so replicas mirror primary mutations eagerly instead of waiting for
// the next replication-loop pass.
func (n *Node) AddKey(ctx context.Context, owner, key domain.ID, value []byte) error {
	if err := n.storage.AddKey(owner, key, value); err != nil {
		return err
	}
	if owner.Equal(n.self.ID) {
		n.fanOutAddKey(key, value)
	}
	return nil
}

func (n *Node) fanOutAddKey(key domain.ID, value []byte) {
	for _, succ := range n.rt.SuccessorCache() {
		if succ == nil || succ.ID.Equal(n.self.ID) {
			continue
		}
		go func(succ *domain.Node) {
			ctx, cancel := n.retryCtx(context.Background())
			defer cancel()
			_, err := client.Call(ctx, n.ring.RetryBudget, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, n.pool.AddKey(ctx, succ.Addr, n.self.ID, key, value)
			})
			if err != nil {
				n.lgr.Warn("AddKey: replica fan-out failed",
					logger.FEntry("entry", n.self.ID, key), logger.FNode("replica", succ), logger.F("err", err.Error()))
			}
		}(succ)
	}
}

// FindKey is a pure read with no side effects.
func (n *Node) FindKey(owner, key domain.ID) ([]byte, bool) {
	return n.storage.FindKey(owner, key)
}

// GetStoreVersion returns owner's current version number, or 0 if untracked.
func (n *Node) GetStoreVersion(owner domain.ID) uint64 {
	return n.storage.GetStoreVersion(owner)
}

// DeleteStore drops the local store (primary or replica) for owner.
func (n *Node) DeleteStore(owner domain.ID) {
	n.storage.DeleteStore(owner)
}

// ReplicateIn accepts an incoming replication push for owner. A node can
// only ever be a replica for another node's primary data, never for its
// own: if owner is this node's own id, the caller has mistaken this node
// for one of its own replicas, and the push is rejected rather than
// silently overwriting primary data that should only change via local
// AddKey calls and their eager fan-out.
func (n *Node) ReplicateIn(owner domain.ID, version uint64, history map[uint64][]domain.ID, data map[domain.ID][]byte, fullReseed bool) error {
	if owner.Equal(n.self.ID) {
		return domain.ErrNotResponsible
	}
	return n.storage.ReplicateIn(owner, version, history, data, fullReseed)
}
