package node

import "ChordRing/internal/logger"

// Option configures a Node at construction time.
type Option func(*Node)

// WithLogger attaches a structured logger, named "node", to n and everything
// it owns (routing table, storage manager).
func WithLogger(l logger.Logger) Option {
	return func(n *Node) {
		if l != nil {
			n.lgr = l.Named("node")
		}
	}
}
