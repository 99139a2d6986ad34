package client

import (
	"context"
	"fmt"
	"time"

	"ChordRing/internal/domain"
)

// RoutingTableView is a snapshot of a node's routing state, as reported over
// the wire for CLI/diagnostic consumption. Unlike the node-to-node wrappers
// in rpc.go, this is a convenience read, not something the maintenance loops
// use.
type RoutingTableView struct {
	Predecessor   *domain.Node
	SuccessorList []*domain.Node
}

// Put stores value under key, first locating the node responsible for key
// via a lookup against entryAddr, then writing directly to that node's own
// store (owner == the responsible node's own id).
func Put(ctx context.Context, pool *Pool, entryAddr string, space domain.Space, key string, value []byte) (time.Duration, error) {
	start := time.Now()
	id := space.NewIdFromString(key)
	owner, err := pool.FindSuccessor(ctx, entryAddr, id, 0)
	if err != nil {
		return time.Since(start), fmt.Errorf("client: locating owner of %q: %w", key, err)
	}
	if err := pool.AddKey(ctx, owner.Addr, owner.ID, id, value); err != nil {
		return time.Since(start), fmt.Errorf("client: storing %q on %s: %w", key, owner.Addr, err)
	}
	return time.Since(start), nil
}

// Get retrieves the value for key, via the same two-step lookup-then-read
// as Put. Returns ErrKeyNotFound if the owning node has no such key.
func Get(ctx context.Context, pool *Pool, entryAddr string, space domain.Space, key string) ([]byte, time.Duration, error) {
	start := time.Now()
	id := space.NewIdFromString(key)
	owner, err := pool.FindSuccessor(ctx, entryAddr, id, 0)
	if err != nil {
		return nil, time.Since(start), fmt.Errorf("client: locating owner of %q: %w", key, err)
	}
	value, err := pool.FindKey(ctx, owner.Addr, owner.ID, id)
	if err != nil {
		return nil, time.Since(start), err
	}
	return value, time.Since(start), nil
}

// Lookup resolves id's successor by asking entryAddr, without touching any
// store.
func Lookup(ctx context.Context, pool *Pool, entryAddr string, id domain.ID) (*domain.Node, time.Duration, error) {
	start := time.Now()
	succ, err := pool.FindSuccessor(ctx, entryAddr, id, 0)
	return succ, time.Since(start), err
}

// GetRoutingTable reports addr's predecessor and successor cache. The finger
// table itself is internal routing state, not exposed over the wire.
func GetRoutingTable(ctx context.Context, pool *Pool, addr string) (RoutingTableView, time.Duration, error) {
	start := time.Now()
	pred, err := pool.GetPredecessor(ctx, addr)
	if err != nil {
		return RoutingTableView{}, time.Since(start), err
	}
	succs, err := pool.GetSuccessorCache(ctx, addr)
	if err != nil {
		return RoutingTableView{}, time.Since(start), err
	}
	return RoutingTableView{Predecessor: pred, SuccessorList: succs}, time.Since(start), nil
}

// GetStoreVersionView reports the version state of owner's store as known by
// addr, mainly for diagnosing replication lag from the CLI.
func GetStoreVersionView(ctx context.Context, pool *Pool, addr string, owner domain.ID) (StoreVersion, time.Duration, error) {
	start := time.Now()
	v, err := pool.GetStoreVersion(ctx, addr, owner)
	return v, time.Since(start), err
}
