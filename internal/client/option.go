package client

import (
	"ChordRing/internal/logger"

	"google.golang.org/grpc"
)

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithLogger attaches a structured logger to the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.lgr = l.Named("client")
		}
	}
}

// WithDialOptions appends extra grpc.DialOption values (e.g. an interceptor
// chain carrying the lookup-trace propagator) used for every dial.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(p *Pool) {
		p.dialOpts = append(p.dialOpts, opts...)
	}
}
