// Package node implements the ring member: lookup (C3), the maintenance
// loops that keep routing state live (C4), and the node-level storage
// orchestration that fans key writes out to the successor cache (C5).
package node

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ChordRing/internal/client"
	"ChordRing/internal/config"
	"ChordRing/internal/domain"
	"ChordRing/internal/logger"
	"ChordRing/internal/routingtable"
	"ChordRing/internal/storage"
)

// Node is a single ring member: its own identity, routing state, the
// key/value stores it holds (its own plus any replicas), and the facilities
// (RPC pool, retry budget) needed to talk to the rest of the ring.
type Node struct {
	self  *domain.Node
	space domain.Space
	ring  config.RingConfig

	rt      *routingtable.RoutingTable
	storage *storage.Manager
	pool    *client.Pool
	lgr     logger.Logger

	wg     sync.WaitGroup
	stopCh chan struct{}
	once   sync.Once

	fingerCursor int32 // round-robin index for FixFingers, advanced atomically

	seedAddr    string
	healthMu    sync.Mutex
	lastHealthy time.Time

	replicaMu      sync.Mutex
	lastReplicaSet map[string]*domain.Node // last tick's successor cache, by ID string, for drop-out GC
}

// New builds a Node. storageFactory is handed to storage.NewManager to
// construct per-owner stores lazily (memory- or file-backed, per
// configuration).
func New(self *domain.Node, space domain.Space, ring config.RingConfig, pool *client.Pool, storageFactory storage.Factory, opts ...Option) *Node {
	lgr := logger.Logger(&logger.NopLogger{})
	n := &Node{
		self:   self,
		space:  space,
		ring:   ring,
		pool:   pool,
		lgr:    lgr,
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.rt = routingtable.New(self, space, space.SuccListSize, routingtable.WithLogger(n.lgr))
	n.storage = storage.NewManager(storageFactory, n.lgr)
	return n
}

// Self returns the node's own identity.
func (n *Node) Self() *domain.Node { return n.self }

// Space returns the identifier-space configuration.
func (n *Node) Space() domain.Space { return n.space }

// RoutingTable exposes the routing state, mainly for the RPC service layer
// and for tests.
func (n *Node) RoutingTable() *routingtable.RoutingTable { return n.rt }

// Storage exposes the storage manager, mainly for the RPC service layer.
func (n *Node) Storage() *storage.Manager { return n.storage }

// InitSingleton configures the node as the sole member of a fresh ring.
func (n *Node) InitSingleton() {
	n.rt.InitSingleNode()
	n.lgr.Info("node: initialized as singleton ring", logger.FNode("self", n.self))
}

// Join contacts introducer to locate and adopt this node's successor, then
// primes the finger table's first entry. Full convergence of the rest of the
// finger table and successor cache happens asynchronously via the
// maintenance loops once StartMaintenance runs.
func (n *Node) Join(ctx context.Context, introducerAddr string) error {
	succ, err := client.Call(ctx, n.ring.RetryBudget, func(ctx context.Context) (*domain.Node, error) {
		return n.pool.FindSuccessor(ctx, introducerAddr, n.self.ID, 0)
	})
	if err != nil {
		return fmt.Errorf("node: join via %s failed: %w", introducerAddr, err)
	}
	if succ == nil {
		return fmt.Errorf("node: join via %s: introducer returned no successor", introducerAddr)
	}
	n.rt.SetSuccessor(0, succ)
	n.rt.SetFinger(0, succ)
	n.lgr.Info("node: joined ring", logger.FNode("self", n.self), logger.FNode("successor", succ))
	return nil
}

// StartMaintenance launches the five independent maintenance loops
// (stabilize-successors, stabilize-predecessors, fix-fingers, rejoin,
// replicate-storage), each on its own configured period. seedAddr is the
// introducer address the rejoin watchdog reattaches to if this node's view
// of the ring ever collapses entirely; it is empty for the node that
// originated the ring.
func (n *Node) StartMaintenance(seedAddr string) {
	n.seedAddr = seedAddr
	n.markHealthy()

	loops := []struct {
		name     string
		interval time.Duration
		fn       func(ctx context.Context)
	}{
		{"stabilize-successors", n.ring.StabilizeSuccessors, n.stabilizeSuccessors},
		{"stabilize-predecessors", n.ring.StabilizePredecessors, n.stabilizePredecessors},
		{"fix-fingers", n.ring.FixFingers, n.fixFingers},
		{"rejoin", n.ring.Rejoin, n.rejoin},
		{"replicate-storage", n.ring.ReplicateStorage, n.replicateStorage},
	}
	for _, l := range loops {
		n.wg.Add(1)
		go n.tick(l.name, l.interval, l.fn)
	}
	n.lgr.Info("node: maintenance loops started", logger.F("count", len(loops)))
}

// Stop signals every running maintenance loop to exit and waits for them to
// do so.
func (n *Node) Stop() {
	n.once.Do(func() { close(n.stopCh) })
	n.wg.Wait()
}

// healthy reports whether the node currently believes it has any live
// connection to the rest of the ring: a non-nil predecessor, or at least one
// non-nil successor cache entry.
func (n *Node) healthy() bool {
	if n.rt.GetPredecessor() != nil {
		return true
	}
	for _, s := range n.rt.SuccessorCache() {
		if s != nil {
			return true
		}
	}
	return false
}

func (n *Node) markHealthy() {
	n.healthMu.Lock()
	n.lastHealthy = time.Now()
	n.healthMu.Unlock()
}

func (n *Node) sinceHealthy() time.Duration {
	n.healthMu.Lock()
	defer n.healthMu.Unlock()
	return time.Since(n.lastHealthy)
}

// retryCtx derives a bounded context for a single remote call, honoring the
// configured failure timeout.
func (n *Node) retryCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, n.ring.FailureTimeout)
}

// tick runs fn once every interval, starting one interval after the call,
// until stopCh closes.
// Shared by every maintenance loop in maintenance.go so each loop is an
// independently-configured ticker rather than several concerns folded onto
// one shared clock.
func (n *Node) tick(name string, interval time.Duration, fn func(ctx context.Context)) {
	defer n.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-n.stopCh:
			n.lgr.Debug("node: maintenance loop stopped", logger.F("loop", name))
			return
		case <-ticker.C:
			ctx, cancel := n.retryCtx(context.Background())
			fn(ctx)
			cancel()
		}
	}
}
