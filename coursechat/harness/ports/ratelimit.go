package harnessports

import "context"

// RateLimiter coordinates throughput across queries sharing one provider.
type RateLimiter interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
