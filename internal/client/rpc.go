package client

import (
	"context"
	"errors"
	"fmt"

	"ChordRing/internal/domain"
	"ChordRing/internal/rpc/ringv1"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Sentinel errors surfaced by the wrappers below in place of raw gRPC status
// errors, so callers in internal/node can branch on Go error values instead
// of unwrapping codes.Code everywhere. ErrNoPredecessor is not returned by
// any wrapper: GetPredecessor reports a missing predecessor as (nil, nil).
var (
	ErrTimeout       = errors.New("client: remote call timed out")
	ErrNoPredecessor = errors.New("client: remote node has no predecessor")
	ErrKeyNotFound   = domain.ErrKeyNotFound
)

func toWireNode(n *domain.Node) *ringv1.Node {
	if n == nil {
		return nil
	}
	return &ringv1.Node{Id: []byte(n.ID), Address: n.Addr}
}

func fromWireNode(n *ringv1.Node) *domain.Node {
	if n == nil {
		return nil
	}
	return &domain.Node{ID: domain.ID(n.Id), Addr: n.Address}
}

func toWireNodes(ns []*domain.Node) []*ringv1.Node {
	out := make([]*ringv1.Node, len(ns))
	for i, n := range ns {
		out[i] = toWireNode(n)
	}
	return out
}

func fromWireNodes(ns []*ringv1.Node) []*domain.Node {
	out := make([]*domain.Node, len(ns))
	for i, n := range ns {
		out[i] = fromWireNode(n)
	}
	return out
}

// mapErr normalizes a gRPC status error into a client sentinel where one
// applies, or wraps it with the operation name otherwise.
func mapErr(op, addr string, err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.DeadlineExceeded:
		return ErrTimeout
	case codes.NotFound:
		return ErrKeyNotFound
	}
	return fmt.Errorf("client: %s RPC to %s failed: %w", op, addr, err)
}

// FindSuccessor asks addr to locate the successor of target, advancing hops
// for diagnostic tracing.
func (p *Pool) FindSuccessor(ctx context.Context, addr string, target domain.ID, hops int32) (*domain.Node, error) {
	c, err := p.getClient(ctx, addr)
	if err != nil {
		return nil, err
	}
	resp, err := c.FindSuccessor(ctx, &ringv1.FindSuccessorRequest{Target: []byte(target), Hops: hops})
	if err != nil {
		p.Evict(addr)
		return nil, mapErr("FindSuccessor", addr, err)
	}
	return fromWireNode(resp.Successor), nil
}

// GetPredecessor asks addr for its current predecessor. A nil result with a
// nil error means addr genuinely has no predecessor yet.
func (p *Pool) GetPredecessor(ctx context.Context, addr string) (*domain.Node, error) {
	c, err := p.getClient(ctx, addr)
	if err != nil {
		return nil, err
	}
	resp, err := c.GetPredecessor(ctx, &ringv1.Empty{})
	if err != nil {
		p.Evict(addr)
		return nil, mapErr("GetPredecessor", addr, err)
	}
	return fromWireNode(resp.Predecessor), nil
}

// GetSuccessorCache asks addr for its full successor cache.
func (p *Pool) GetSuccessorCache(ctx context.Context, addr string) ([]*domain.Node, error) {
	c, err := p.getClient(ctx, addr)
	if err != nil {
		return nil, err
	}
	resp, err := c.GetSuccessorCache(ctx, &ringv1.Empty{})
	if err != nil {
		p.Evict(addr)
		return nil, mapErr("GetSuccessorCache", addr, err)
	}
	return fromWireNodes(resp.Successors), nil
}

// Notify tells addr that candidate believes it may be addr's predecessor.
func (p *Pool) Notify(ctx context.Context, addr string, candidate *domain.Node) error {
	c, err := p.getClient(ctx, addr)
	if err != nil {
		return err
	}
	_, err = c.Notify(ctx, &ringv1.NotifyRequest{Candidate: toWireNode(candidate)})
	if err != nil {
		p.Evict(addr)
		return mapErr("Notify", addr, err)
	}
	return nil
}

// Ping checks liveness of addr.
func (p *Pool) Ping(ctx context.Context, addr string) error {
	c, err := p.getClient(ctx, addr)
	if err != nil {
		return err
	}
	_, err = c.Ping(ctx, &ringv1.Empty{})
	if err != nil {
		p.Evict(addr)
		return mapErr("Ping", addr, err)
	}
	return nil
}

// AddKey stores value under key in the store owned by owner on addr.
func (p *Pool) AddKey(ctx context.Context, addr string, owner, key domain.ID, value []byte) error {
	c, err := p.getClient(ctx, addr)
	if err != nil {
		return err
	}
	_, err = c.AddKey(ctx, &ringv1.AddKeyRequest{Owner: []byte(owner), Key: []byte(key), Value: value})
	if err != nil {
		p.Evict(addr)
		return mapErr("AddKey", addr, err)
	}
	return nil
}

// FindKey reads key from the store owned by owner on addr.
func (p *Pool) FindKey(ctx context.Context, addr string, owner, key domain.ID) ([]byte, error) {
	c, err := p.getClient(ctx, addr)
	if err != nil {
		return nil, err
	}
	resp, err := c.FindKey(ctx, &ringv1.FindKeyRequest{Owner: []byte(owner), Key: []byte(key)})
	if err != nil {
		p.Evict(addr)
		return nil, mapErr("FindKey", addr, err)
	}
	return resp.Value, nil
}

// StoreVersion reports owner's current version and version history, as known
// by addr.
type StoreVersion struct {
	VersionNumber  uint64
	VersionHistory map[uint64][]domain.ID
}

// GetStoreVersion asks addr for the version state of owner's store.
func (p *Pool) GetStoreVersion(ctx context.Context, addr string, owner domain.ID) (StoreVersion, error) {
	c, err := p.getClient(ctx, addr)
	if err != nil {
		return StoreVersion{}, err
	}
	resp, err := c.GetStoreVersion(ctx, &ringv1.GetStoreVersionRequest{Owner: []byte(owner)})
	if err != nil {
		p.Evict(addr)
		return StoreVersion{}, mapErr("GetStoreVersion", addr, err)
	}
	hist := make(map[uint64][]domain.ID, len(resp.VersionHistory))
	for v, raws := range resp.VersionHistory {
		ids := make([]domain.ID, len(raws))
		for i, raw := range raws {
			ids[i] = domain.ID(raw)
		}
		hist[v] = ids
	}
	return StoreVersion{VersionNumber: resp.VersionNumber, VersionHistory: hist}, nil
}

// DeleteStore asks addr to drop its replica of owner's store.
func (p *Pool) DeleteStore(ctx context.Context, addr string, owner domain.ID) error {
	c, err := p.getClient(ctx, addr)
	if err != nil {
		return err
	}
	_, err = c.DeleteStore(ctx, &ringv1.DeleteStoreRequest{Owner: []byte(owner)})
	if err != nil {
		p.Evict(addr)
		return mapErr("DeleteStore", addr, err)
	}
	return nil
}

// ReplicateIn pushes owner's store (or a delta of it) to addr.
func (p *Pool) ReplicateIn(ctx context.Context, addr string, owner domain.ID, version uint64, history map[uint64][]domain.ID, data map[domain.ID][]byte, fullReseed bool) error {
	c, err := p.getClient(ctx, addr)
	if err != nil {
		return err
	}
	wireHist := make(map[uint64][][]byte, len(history))
	for v, ids := range history {
		raws := make([][]byte, len(ids))
		for i, id := range ids {
			raws[i] = []byte(id)
		}
		wireHist[v] = raws
	}
	entries := make([]*ringv1.KeyValue, 0, len(data))
	for k, v := range data {
		entries = append(entries, &ringv1.KeyValue{Key: []byte(k), Value: v})
	}
	_, err = c.ReplicateIn(ctx, &ringv1.ReplicateInRequest{
		Owner:          []byte(owner),
		VersionNumber:  version,
		VersionHistory: wireHist,
		Entries:        entries,
		FullReseed:     fullReseed,
	})
	if err != nil {
		p.Evict(addr)
		return mapErr("ReplicateIn", addr, err)
	}
	return nil
}
