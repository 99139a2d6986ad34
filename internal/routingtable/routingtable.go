package routingtable

import (
	"ChordRing/internal/domain"
	"ChordRing/internal/logger"
	"fmt"
	"sync"
)

// routingEntry represents a single entry in the routing table.
//
// Each entry holds a reference to a domain.Node and provides thread-safe
// access through a read/write mutex. The type is defined as a struct to
// allow future extensions (e.g. storing metadata, timestamps, or health
// information about the node).
type routingEntry struct {
	node *domain.Node
	mu   sync.RWMutex
}

// RoutingTable represents the routing state of a node on the ring:
// predecessor, successor cache, and finger table. It is owned by a single
// node (self) and kept live by the maintenance loops.
//
// Fields:
//   - logger: used for structured logging of routing operations.
//   - space: identifier space configuration (bit-length, successor cache size).
//   - self: the local node that owns this routing table.
//   - successorCache: ordered list of R successors, providing redundancy
//     and fault tolerance against node failures.
//   - predecessor: the immediate predecessor of this node on the ring.
//   - fingerTable: M entries, entry i caching find_successor(self.id + 2^i).
type RoutingTable struct {
	logger         logger.Logger
	space          domain.Space
	self           *domain.Node
	successorCache []*routingEntry
	succListSize   int
	predecessor    *routingEntry
	fingerTable    []*routingEntry
}

// New creates and initializes a new RoutingTable for the given node.
//
// The routing table is initialized with empty successor cache entries, an
// empty predecessor entry, and a finger table of size space.Bits. By
// default, logging is disabled (NopLogger) unless overridden with options.
func New(self *domain.Node, space domain.Space, succListSize int, opts ...Option) *RoutingTable {
	rt := &RoutingTable{
		self:           self,
		space:          space,
		successorCache: make([]*routingEntry, succListSize),
		succListSize:   succListSize,
		predecessor:    &routingEntry{},
		fingerTable:    make([]*routingEntry, space.Bits),
		logger:         &logger.NopLogger{},
	}
	for i := range rt.successorCache {
		rt.successorCache[i] = &routingEntry{}
	}
	for i := range rt.fingerTable {
		rt.fingerTable[i] = &routingEntry{}
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.logger.Debug("routing table initialized")
	return rt
}

// InitSingleNode configures the routing table to represent a single-node
// ring. The successor cache head and finger table entry 0 point to the
// local node itself; the other successor cache slots and the predecessor
// are left empty.
func (rt *RoutingTable) InitSingleNode() {
	rt.successorCache[0] = &routingEntry{node: rt.self}
	for i := 1; i < len(rt.successorCache); i++ {
		rt.successorCache[i] = &routingEntry{}
	}
	rt.predecessor = &routingEntry{}
	rt.fingerTable[0] = &routingEntry{node: rt.self}
	rt.logger.Debug("routing table reset to single-node ring")
}

// Space returns the identifier-space configuration.
func (rt *RoutingTable) Space() domain.Space {
	return rt.space
}

// Self returns the local node owning this routing table.
func (rt *RoutingTable) Self() *domain.Node {
	return rt.self
}

// SuccListSize returns the configured size of the successor cache.
func (rt *RoutingTable) SuccListSize() int {
	return rt.succListSize
}

// GetSuccessor returns the i-th entry of the successor cache, or nil if out
// of range or unset.
func (rt *RoutingTable) GetSuccessor(i int) *domain.Node {
	if i < 0 || i >= len(rt.successorCache) {
		rt.logger.Warn(
			"GetSuccessor: index out of range",
			logger.F("requested", i),
			logger.F("valid_range", fmt.Sprintf("[0..%d]", len(rt.successorCache)-1)),
		)
		return nil
	}
	entry := rt.successorCache[i]
	entry.mu.RLock()
	node := entry.node
	entry.mu.RUnlock()
	return node
}

// FirstSuccessor returns the first entry of the successor cache.
// Equivalent to GetSuccessor(0).
func (rt *RoutingTable) FirstSuccessor() *domain.Node {
	return rt.GetSuccessor(0)
}

// SetSuccessor updates the i-th successor cache entry.
func (rt *RoutingTable) SetSuccessor(i int, node *domain.Node) {
	if i < 0 || i >= len(rt.successorCache) {
		rt.logger.Warn(
			"SetSuccessor: index out of range",
			logger.F("requested", i),
			logger.F("valid_range", fmt.Sprintf("[0..%d]", len(rt.successorCache)-1)),
		)
		return
	}
	entry := rt.successorCache[i]
	entry.mu.Lock()
	entry.node = node
	entry.mu.Unlock()
	rt.logger.Debug("SetSuccessor: updated", logger.F("index", i), logger.FNode("successor", node))
}

// SuccessorCache returns a shallow copy of all non-nil entries currently
// known in the successor cache, in order.
func (rt *RoutingTable) SuccessorCache() []*domain.Node {
	out := make([]*domain.Node, 0, len(rt.successorCache))
	for _, entry := range rt.successorCache {
		entry.mu.RLock()
		node := entry.node
		entry.mu.RUnlock()
		if node != nil {
			out = append(out, node)
		}
	}
	return out
}

// SetSuccessorCache replaces the entire successor cache. The provided slice
// must have the same length as the configured cache size.
func (rt *RoutingTable) SetSuccessorCache(nodes []*domain.Node) {
	if len(nodes) != len(rt.successorCache) {
		rt.logger.Warn(
			"SetSuccessorCache: length mismatch",
			logger.F("expected", len(rt.successorCache)),
			logger.F("got", len(nodes)),
		)
		return
	}
	for i, node := range nodes {
		rt.SetSuccessor(i, node)
	}
}

// PromoteCandidate restructures the successor cache by promoting the entry
// at index i to the head, discarding earlier entries and shifting the rest
// forward, padding with nil up to the configured size.
//
// If i <= 0 or out of range, or the candidate is nil, this is a no-op.
func (rt *RoutingTable) PromoteCandidate(i int) {
	if i <= 0 || i >= rt.succListSize {
		rt.logger.Warn(
			"PromoteCandidate: invalid index",
			logger.F("requested", i),
			logger.F("valid_range", fmt.Sprintf("[1..%d]", rt.succListSize-1)),
		)
		return
	}
	candidate := rt.GetSuccessor(i)
	if candidate == nil {
		rt.logger.Warn("PromoteCandidate: candidate is nil", logger.F("index", i))
		return
	}
	newList := make([]*domain.Node, 0, rt.succListSize)
	newList = append(newList, candidate)
	for j := i + 1; j < rt.succListSize; j++ {
		if succ := rt.GetSuccessor(j); succ != nil {
			newList = append(newList, succ)
		}
	}
	for len(newList) < rt.succListSize {
		newList = append(newList, nil)
	}
	rt.SetSuccessorCache(newList)
	rt.logger.Debug("PromoteCandidate: promoted", logger.F("from_index", i), logger.FNode("candidate", candidate))
}

// GetPredecessor returns the current predecessor, or nil if unset.
func (rt *RoutingTable) GetPredecessor() *domain.Node {
	rt.predecessor.mu.RLock()
	node := rt.predecessor.node
	rt.predecessor.mu.RUnlock()
	return node
}

// SetPredecessor updates the predecessor pointer.
func (rt *RoutingTable) SetPredecessor(node *domain.Node) {
	rt.predecessor.mu.Lock()
	rt.predecessor.node = node
	rt.predecessor.mu.Unlock()
	rt.logger.Debug("SetPredecessor: updated", logger.FNode("predecessor", node))
}

// GetFinger returns the node cached at finger table index i, or nil if out
// of range or unset.
func (rt *RoutingTable) GetFinger(i int) *domain.Node {
	if i < 0 || i >= len(rt.fingerTable) {
		rt.logger.Warn(
			"GetFinger: index out of range",
			logger.F("requested", i),
			logger.F("valid_range", fmt.Sprintf("[0..%d]", len(rt.fingerTable)-1)),
		)
		return nil
	}
	entry := rt.fingerTable[i]
	entry.mu.RLock()
	node := entry.node
	entry.mu.RUnlock()
	return node
}

// SetFinger updates the finger table entry at index i.
func (rt *RoutingTable) SetFinger(i int, node *domain.Node) {
	if i < 0 || i >= len(rt.fingerTable) {
		rt.logger.Warn(
			"SetFinger: index out of range",
			logger.F("requested", i),
			logger.F("valid_range", fmt.Sprintf("[0..%d]", len(rt.fingerTable)-1)),
		)
		return
	}
	entry := rt.fingerTable[i]
	entry.mu.Lock()
	entry.node = node
	entry.mu.Unlock()
	rt.logger.Debug("SetFinger: updated", logger.F("index", i), logger.FNode("node", node))
}

// FingerTable returns a shallow copy of all non-nil finger table entries.
func (rt *RoutingTable) FingerTable() []*domain.Node {
	out := make([]*domain.Node, 0, len(rt.fingerTable))
	for _, entry := range rt.fingerTable {
		entry.mu.RLock()
		node := entry.node
		entry.mu.RUnlock()
		if node != nil {
			out = append(out, node)
		}
	}
	return out
}

// NumFingers returns the configured size of the finger table (== space.Bits).
func (rt *RoutingTable) NumFingers() int {
	return len(rt.fingerTable)
}

// DebugLog emits a single structured DEBUG-level log entry with a snapshot
// of the entire routing table (self, predecessor, successor cache, finger
// table), reading each entry directly under its own lock to avoid the
// per-entry debug noise that the individual getters would produce.
func (rt *RoutingTable) DebugLog() {
	self := rt.self

	rt.predecessor.mu.RLock()
	pred := rt.predecessor.node
	rt.predecessor.mu.RUnlock()

	successors := make([]map[string]any, 0, len(rt.successorCache))
	for i, entry := range rt.successorCache {
		entry.mu.RLock()
		node := entry.node
		entry.mu.RUnlock()
		successors = append(successors, nodeLogEntry(i, node))
	}

	fingers := make([]map[string]any, 0, len(rt.fingerTable))
	for i, entry := range rt.fingerTable {
		entry.mu.RLock()
		node := entry.node
		entry.mu.RUnlock()
		fingers = append(fingers, nodeLogEntry(i, node))
	}

	rt.logger.Debug("RoutingTable snapshot",
		logger.FNode("self", self),
		logger.FNode("predecessor", pred),
		logger.F("successors", successors),
		logger.F("fingers", fingers),
	)
}

func nodeLogEntry(index int, node *domain.Node) map[string]any {
	if node == nil {
		return map[string]any{"index": index, "node": nil}
	}
	return map[string]any{"index": index, "id": node.ID.String(), "addr": node.Addr}
}
