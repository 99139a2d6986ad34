// Package client provides the node-to-node RPC facade: a single cached
// connection pool, typed per-operation wrappers around ringv1.RingClient, and
// a fixed-budget retry helper (C6).
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ChordRing/internal/logger"
	"ChordRing/internal/rpc/ringv1"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// connEntry pairs a dialed connection with the time it was last used, so the
// eviction loop can close connections that have gone idle.
type connEntry struct {
	conn     *grpc.ClientConn
	client   ringv1.RingClient
	lastUsed time.Time
}

// Pool is the single connection-pool abstraction used throughout the module:
// one cached *grpc.ClientConn per remote address, dialed lazily and evicted
// after sitting idle past idleTTL. It replaces the several narrower pool
// types a hand-rolled RPC layer tends to accumulate over time.
type Pool struct {
	lgr         logger.Logger
	dialTimeout time.Duration
	idleTTL     time.Duration
	dialOpts    []grpc.DialOption

	mu    sync.Mutex
	conns map[string]*connEntry

	stopCh chan struct{}
	once   sync.Once
}

// New creates a Pool. dialTimeout bounds each individual dial; idleTTL is the
// duration a connection may sit unused before the eviction loop closes it. A
// non-positive idleTTL disables eviction.
func New(dialTimeout, idleTTL time.Duration, opts ...Option) *Pool {
	p := &Pool{
		lgr:         &logger.NopLogger{},
		dialTimeout: dialTimeout,
		idleTTL:     idleTTL,
		dialOpts:    []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())},
		conns:       make(map[string]*connEntry),
		stopCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if idleTTL > 0 {
		go p.evictLoop()
	}
	return p
}

// Close shuts down the eviction loop and closes every pooled connection.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.stopCh) })
	p.mu.Lock()
	defer p.mu.Unlock()
	for addr, e := range p.conns {
		_ = e.conn.Close()
		delete(p.conns, addr)
	}
}

// getClient returns the cached ringv1.RingClient for addr, dialing a new
// connection on first use.
func (p *Pool) getClient(ctx context.Context, addr string) (ringv1.RingClient, error) {
	p.mu.Lock()
	if e, ok := p.conns[addr]; ok {
		e.lastUsed = time.Now()
		p.mu.Unlock()
		return e.client, nil
	}
	p.mu.Unlock()

	dialCtx, cancel := context.WithTimeout(ctx, p.dialTimeout)
	defer cancel()
	conn, err := grpc.DialContext(dialCtx, addr, p.dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s failed: %w", addr, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.conns[addr]; ok {
		// Lost the race to a concurrent dial; keep the winner, discard ours.
		_ = conn.Close()
		e.lastUsed = time.Now()
		return e.client, nil
	}
	e := &connEntry{conn: conn, client: ringv1.NewRingClient(conn), lastUsed: time.Now()}
	p.conns[addr] = e
	p.lgr.Debug("client: dialed", logger.F("addr", addr))
	return e.client, nil
}

// Evict closes and forgets the connection to addr, if any. Callers use this
// after an RPC to addr fails, so a bad connection is not reused on retry.
func (p *Pool) Evict(addr string) {
	p.mu.Lock()
	e, ok := p.conns[addr]
	if ok {
		delete(p.conns, addr)
	}
	p.mu.Unlock()
	if ok {
		_ = e.conn.Close()
		p.lgr.Debug("client: evicted", logger.F("addr", addr))
	}
}

func (p *Pool) evictLoop() {
	ticker := time.NewTicker(p.idleTTL)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.evictIdle()
		}
	}
}

func (p *Pool) evictIdle() {
	cutoff := time.Now().Add(-p.idleTTL)
	p.mu.Lock()
	stale := make([]string, 0)
	for addr, e := range p.conns {
		if e.lastUsed.Before(cutoff) {
			stale = append(stale, addr)
		}
	}
	for _, addr := range stale {
		_ = p.conns[addr].conn.Close()
		delete(p.conns, addr)
	}
	p.mu.Unlock()
	if len(stale) > 0 {
		p.lgr.Debug("client: evicted idle connections", logger.F("count", len(stale)))
	}
}
