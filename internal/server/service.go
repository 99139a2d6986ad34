package server

import (
	"context"
	"errors"

	"ChordRing/internal/ctxutil"
	"ChordRing/internal/domain"
	"ChordRing/internal/node"
	"ChordRing/internal/rpc/ringv1"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ringService implements ringv1.RingServer, translating wire requests into
// calls on the underlying node.Node and back.
type ringService struct {
	ringv1.UnimplementedRingServer
	node *node.Node
}

// NewRingService creates a new ring RPC service bound to n.
func NewRingService(n *node.Node) ringv1.RingServer {
	return &ringService{node: n}
}

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

func (s *ringService) FindSuccessor(ctx context.Context, req *ringv1.FindSuccessorRequest) (*ringv1.FindSuccessorResponse, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	if req == nil || len(req.Target) == 0 {
		return nil, status.Error(codes.InvalidArgument, "missing target")
	}
	succ, err := s.node.FindSuccessor(ctx, domain.ID(req.Target), req.Hops)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "FindSuccessor failed: %v", err)
	}
	if succ == nil {
		return nil, status.Error(codes.NotFound, "successor not found")
	}
	return &ringv1.FindSuccessorResponse{Successor: toWireNode(succ)}, nil
}

func (s *ringService) GetPredecessor(ctx context.Context, _ *ringv1.Empty) (*ringv1.GetPredecessorResponse, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	pred := s.node.RoutingTable().GetPredecessor()
	return &ringv1.GetPredecessorResponse{Predecessor: toWireNode(pred)}, nil
}

func (s *ringService) GetSuccessorCache(ctx context.Context, _ *ringv1.Empty) (*ringv1.GetSuccessorCacheResponse, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	cache := s.node.RoutingTable().SuccessorCache()
	out := make([]*ringv1.Node, len(cache))
	for i, n := range cache {
		out[i] = toWireNode(n)
	}
	return &ringv1.GetSuccessorCacheResponse{Successors: out}, nil
}

func (s *ringService) Notify(ctx context.Context, req *ringv1.NotifyRequest) (*ringv1.Empty, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	if req == nil || req.Candidate == nil {
		return nil, status.Error(codes.InvalidArgument, "missing candidate")
	}
	s.node.Notify(fromWireNode(req.Candidate))
	return &ringv1.Empty{}, nil
}

func (s *ringService) Ping(ctx context.Context, _ *ringv1.Empty) (*ringv1.Empty, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	return &ringv1.Empty{}, nil
}

func (s *ringService) AddKey(ctx context.Context, req *ringv1.AddKeyRequest) (*ringv1.Empty, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	if req == nil || len(req.Owner) == 0 || len(req.Key) == 0 {
		return nil, status.Error(codes.InvalidArgument, "missing owner or key")
	}
	if err := s.node.AddKey(ctx, domain.ID(req.Owner), domain.ID(req.Key), req.Value); err != nil {
		return nil, status.Errorf(codes.Internal, "AddKey failed: %v", err)
	}
	return &ringv1.Empty{}, nil
}

func (s *ringService) FindKey(ctx context.Context, req *ringv1.FindKeyRequest) (*ringv1.FindKeyResponse, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	if req == nil || len(req.Owner) == 0 || len(req.Key) == 0 {
		return nil, status.Error(codes.InvalidArgument, "missing owner or key")
	}
	value, ok := s.node.FindKey(domain.ID(req.Owner), domain.ID(req.Key))
	if !ok {
		return nil, status.Error(codes.NotFound, "key not found")
	}
	return &ringv1.FindKeyResponse{Value: value}, nil
}

func (s *ringService) GetStoreVersion(ctx context.Context, req *ringv1.GetStoreVersionRequest) (*ringv1.GetStoreVersionResponse, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	if req == nil || len(req.Owner) == 0 {
		return nil, status.Error(codes.InvalidArgument, "missing owner")
	}
	owner := domain.ID(req.Owner)
	version := s.node.GetStoreVersion(owner)
	history := s.node.Storage().VersionHistory(owner)
	wireHist := make(map[uint64][][]byte, len(history))
	for v, ids := range history {
		raws := make([][]byte, len(ids))
		for i, id := range ids {
			raws[i] = []byte(id)
		}
		wireHist[v] = raws
	}
	return &ringv1.GetStoreVersionResponse{VersionNumber: version, VersionHistory: wireHist}, nil
}

func (s *ringService) DeleteStore(ctx context.Context, req *ringv1.DeleteStoreRequest) (*ringv1.Empty, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	if req == nil || len(req.Owner) == 0 {
		return nil, status.Error(codes.InvalidArgument, "missing owner")
	}
	s.node.DeleteStore(domain.ID(req.Owner))
	return &ringv1.Empty{}, nil
}

func (s *ringService) ReplicateIn(ctx context.Context, req *ringv1.ReplicateInRequest) (*ringv1.Empty, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	if req == nil || len(req.Owner) == 0 {
		return nil, status.Error(codes.InvalidArgument, "missing owner")
	}
	owner := domain.ID(req.Owner)
	history := make(map[uint64][]domain.ID, len(req.VersionHistory))
	for v, raws := range req.VersionHistory {
		ids := make([]domain.ID, len(raws))
		for i, raw := range raws {
			ids[i] = domain.ID(raw)
		}
		history[v] = ids
	}
	data := make(map[domain.ID][]byte, len(req.Entries))
	for _, kv := range req.Entries {
		data[domain.ID(kv.Key)] = kv.Value
	}
	if err := s.node.ReplicateIn(owner, req.VersionNumber, history, data, req.FullReseed); err != nil {
		if errors.Is(err, domain.ErrNotResponsible) {
			return nil, status.Error(codes.FailedPrecondition, err.Error())
		}
		return nil, status.Errorf(codes.Internal, "ReplicateIn failed: %v", err)
	}
	return &ringv1.Empty{}, nil
}
