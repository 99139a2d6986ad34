package domain

import "errors"

var (
	// ErrKeyNotFound is returned when a key has no entry in the addressed store.
	ErrKeyNotFound = errors.New("key not found")
	// ErrNotResponsible is returned when a node is asked to hold a replica
	// of its own store (a ReplicateIn push naming its own id as owner).
	ErrNotResponsible = errors.New("node not responsible for the given key")
)

// Entry is a single stored key/value pair. Value is an opaque blob: the
// core never interprets its contents, only preserves byte identity.
type Entry struct {
	Key   ID
	Value []byte
}
