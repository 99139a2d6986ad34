package ringv1

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "chordring.ring.v1.Ring"

// RingServer is the node-to-node RPC surface: ring maintenance (C3/C4) and
// owner-keyed key/value storage (C5). A gRPC server implementation lives in
// internal/server and delegates each method into internal/node.
type RingServer interface {
	FindSuccessor(context.Context, *FindSuccessorRequest) (*FindSuccessorResponse, error)
	GetPredecessor(context.Context, *Empty) (*GetPredecessorResponse, error)
	GetSuccessorCache(context.Context, *Empty) (*GetSuccessorCacheResponse, error)
	Notify(context.Context, *NotifyRequest) (*Empty, error)
	Ping(context.Context, *Empty) (*Empty, error)

	AddKey(context.Context, *AddKeyRequest) (*Empty, error)
	FindKey(context.Context, *FindKeyRequest) (*FindKeyResponse, error)
	GetStoreVersion(context.Context, *GetStoreVersionRequest) (*GetStoreVersionResponse, error)
	DeleteStore(context.Context, *DeleteStoreRequest) (*Empty, error)
	ReplicateIn(context.Context, *ReplicateInRequest) (*Empty, error)
}

// UnimplementedRingServer can be embedded by a server implementation to
// satisfy RingServer for methods it has not yet provided, mirroring the
// forward-compatibility pattern protoc-gen-go-grpc generates.
type UnimplementedRingServer struct{}

func (UnimplementedRingServer) FindSuccessor(context.Context, *FindSuccessorRequest) (*FindSuccessorResponse, error) {
	return nil, errUnimplemented("FindSuccessor")
}
func (UnimplementedRingServer) GetPredecessor(context.Context, *Empty) (*GetPredecessorResponse, error) {
	return nil, errUnimplemented("GetPredecessor")
}
func (UnimplementedRingServer) GetSuccessorCache(context.Context, *Empty) (*GetSuccessorCacheResponse, error) {
	return nil, errUnimplemented("GetSuccessorCache")
}
func (UnimplementedRingServer) Notify(context.Context, *NotifyRequest) (*Empty, error) {
	return nil, errUnimplemented("Notify")
}
func (UnimplementedRingServer) Ping(context.Context, *Empty) (*Empty, error) {
	return nil, errUnimplemented("Ping")
}
func (UnimplementedRingServer) AddKey(context.Context, *AddKeyRequest) (*Empty, error) {
	return nil, errUnimplemented("AddKey")
}
func (UnimplementedRingServer) FindKey(context.Context, *FindKeyRequest) (*FindKeyResponse, error) {
	return nil, errUnimplemented("FindKey")
}
func (UnimplementedRingServer) GetStoreVersion(context.Context, *GetStoreVersionRequest) (*GetStoreVersionResponse, error) {
	return nil, errUnimplemented("GetStoreVersion")
}
func (UnimplementedRingServer) DeleteStore(context.Context, *DeleteStoreRequest) (*Empty, error) {
	return nil, errUnimplemented("DeleteStore")
}
func (UnimplementedRingServer) ReplicateIn(context.Context, *ReplicateInRequest) (*Empty, error) {
	return nil, errUnimplemented("ReplicateIn")
}

func errUnimplemented(method string) error {
	return grpcUnimplemented(serviceName + "." + method)
}

// RegisterRingServer registers srv with s using a hand-rolled ServiceDesc in
// place of protoc-gen-go-grpc output.
func RegisterRingServer(s grpc.ServiceRegistrar, srv RingServer) {
	s.RegisterService(&ringServiceDesc, srv)
}

var ringServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*RingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "FindSuccessor", Handler: findSuccessorHandler},
		{MethodName: "GetPredecessor", Handler: getPredecessorHandler},
		{MethodName: "GetSuccessorCache", Handler: getSuccessorCacheHandler},
		{MethodName: "Notify", Handler: notifyHandler},
		{MethodName: "Ping", Handler: pingHandler},
		{MethodName: "AddKey", Handler: addKeyHandler},
		{MethodName: "FindKey", Handler: findKeyHandler},
		{MethodName: "GetStoreVersion", Handler: getStoreVersionHandler},
		{MethodName: "DeleteStore", Handler: deleteStoreHandler},
		{MethodName: "ReplicateIn", Handler: replicateInHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ringv1/ring.proto",
}

func findSuccessorHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FindSuccessorRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RingServer).FindSuccessor(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/FindSuccessor"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RingServer).FindSuccessor(ctx, req.(*FindSuccessorRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getPredecessorHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RingServer).GetPredecessor(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/GetPredecessor"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RingServer).GetPredecessor(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getSuccessorCacheHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RingServer).GetSuccessorCache(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/GetSuccessorCache"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RingServer).GetSuccessorCache(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func notifyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(NotifyRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RingServer).Notify(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Notify"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RingServer).Notify(ctx, req.(*NotifyRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func pingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RingServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Ping"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RingServer).Ping(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func addKeyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AddKeyRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RingServer).AddKey(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/AddKey"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RingServer).AddKey(ctx, req.(*AddKeyRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func findKeyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FindKeyRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RingServer).FindKey(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/FindKey"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RingServer).FindKey(ctx, req.(*FindKeyRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getStoreVersionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetStoreVersionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RingServer).GetStoreVersion(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/GetStoreVersion"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RingServer).GetStoreVersion(ctx, req.(*GetStoreVersionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func deleteStoreHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteStoreRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RingServer).DeleteStore(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/DeleteStore"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RingServer).DeleteStore(ctx, req.(*DeleteStoreRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func replicateInHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ReplicateInRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RingServer).ReplicateIn(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/ReplicateIn"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RingServer).ReplicateIn(ctx, req.(*ReplicateInRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// RingClient is the client-side counterpart of RingServer, hand-written in
// place of protoc-gen-go-grpc output for the same reason (see codec.go).
type RingClient interface {
	FindSuccessor(ctx context.Context, in *FindSuccessorRequest, opts ...grpc.CallOption) (*FindSuccessorResponse, error)
	GetPredecessor(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetPredecessorResponse, error)
	GetSuccessorCache(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetSuccessorCacheResponse, error)
	Notify(ctx context.Context, in *NotifyRequest, opts ...grpc.CallOption) (*Empty, error)
	Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error)

	AddKey(ctx context.Context, in *AddKeyRequest, opts ...grpc.CallOption) (*Empty, error)
	FindKey(ctx context.Context, in *FindKeyRequest, opts ...grpc.CallOption) (*FindKeyResponse, error)
	GetStoreVersion(ctx context.Context, in *GetStoreVersionRequest, opts ...grpc.CallOption) (*GetStoreVersionResponse, error)
	DeleteStore(ctx context.Context, in *DeleteStoreRequest, opts ...grpc.CallOption) (*Empty, error)
	ReplicateIn(ctx context.Context, in *ReplicateInRequest, opts ...grpc.CallOption) (*Empty, error)
}

type ringClient struct {
	cc grpc.ClientConnInterface
}

// NewRingClient wraps an established *grpc.ClientConn (or any ClientConnInterface).
func NewRingClient(cc grpc.ClientConnInterface) RingClient {
	return &ringClient{cc: cc}
}

func (c *ringClient) FindSuccessor(ctx context.Context, in *FindSuccessorRequest, opts ...grpc.CallOption) (*FindSuccessorResponse, error) {
	out := new(FindSuccessorResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/FindSuccessor", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ringClient) GetPredecessor(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetPredecessorResponse, error) {
	out := new(GetPredecessorResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/GetPredecessor", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ringClient) GetSuccessorCache(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetSuccessorCacheResponse, error) {
	out := new(GetSuccessorCacheResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/GetSuccessorCache", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ringClient) Notify(ctx context.Context, in *NotifyRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Notify", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ringClient) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Ping", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ringClient) AddKey(ctx context.Context, in *AddKeyRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/AddKey", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ringClient) FindKey(ctx context.Context, in *FindKeyRequest, opts ...grpc.CallOption) (*FindKeyResponse, error) {
	out := new(FindKeyResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/FindKey", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ringClient) GetStoreVersion(ctx context.Context, in *GetStoreVersionRequest, opts ...grpc.CallOption) (*GetStoreVersionResponse, error) {
	out := new(GetStoreVersionResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/GetStoreVersion", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ringClient) DeleteStore(ctx context.Context, in *DeleteStoreRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/DeleteStore", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ringClient) ReplicateIn(ctx context.Context, in *ReplicateInRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/ReplicateIn", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
