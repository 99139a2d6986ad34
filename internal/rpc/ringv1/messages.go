// Package ringv1 defines the wire types and service surface of the node-to-node
// RPC protocol. No .proto compiler runs over this module: the generated-stub
// layer that conventionally sits between the domain types and gRPC has been
// hand-written instead, so these are plain, gob-encodable Go structs carried
// by a "proto"-registered codec (see codec.go) rather than protoc output.
package ringv1

// Node mirrors domain.Node on the wire.
type Node struct {
	Id      []byte
	Address string
}

// FindSuccessorRequest asks the remote node to locate the successor of Target
// on the ring. Hops is the diagnostic hop counter: the lookup path carries it
// only in this field, incrementing it on every forwarded hop, not in the
// request context.
type FindSuccessorRequest struct {
	Target []byte
	Hops   int32
}

type FindSuccessorResponse struct {
	Successor *Node
}

type Empty struct{}

type GetPredecessorResponse struct {
	Predecessor *Node // nil if none is known
}

type GetSuccessorCacheResponse struct {
	Successors []*Node
}

type NotifyRequest struct {
	Candidate *Node
}

// AddKeyRequest stores Value under Key in the store owned by Owner. Owner is
// the ring id of the node the data belongs to (normally the caller's own id,
// but storage.Manager is keyed by owner so the field is always explicit on
// the wire).
type AddKeyRequest struct {
	Owner []byte
	Key   []byte
	Value []byte
}

type FindKeyRequest struct {
	Owner []byte
	Key   []byte
}

type FindKeyResponse struct {
	Value []byte
}

type DeleteStoreRequest struct {
	Owner []byte
}

type GetStoreVersionRequest struct {
	Owner []byte
}

type GetStoreVersionResponse struct {
	VersionNumber  uint64
	VersionHistory map[uint64][][]byte // version -> keys changed at that version
}

// ReplicateInRequest pushes a delta (or full reseed) of Owner's store to the
// receiving node, which holds it as a replica. FullReseed is set when the
// receiver reports version 0 or a version ahead of the sender's; a receiver
// that is merely behind gets a delta.
type ReplicateInRequest struct {
	Owner          []byte
	VersionNumber  uint64
	VersionHistory map[uint64][][]byte
	Entries        []*KeyValue
	FullReseed     bool
}

type KeyValue struct {
	Key   []byte
	Value []byte
}
