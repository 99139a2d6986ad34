package client

import "context"

// Call runs op up to retries+1 times (the initial attempt plus up to retries
// retries), stopping as soon as op succeeds or the context is done. It is the
// single retry facade (C6) used by every remote-call wrapper in rpc.go, so
// every node-to-node RPC in the module shares one fixed retry budget instead
// of each call site improvising its own loop.
func Call[T any](ctx context.Context, retries int, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return zero, lastErr
			}
			return zero, err
		}
		res, err := op(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err
	}
	return zero, lastErr
}
