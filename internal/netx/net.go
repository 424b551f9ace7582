// Package netx provides networking helpers shared by client components.
package netx

import (
	"context"
	"net"
	"time"

	"github.com/sethvargo/go-retry"
)

// DialWithRetry dials addr over TCP, retrying with fibonacci backoff.
// It gives up after maxRetries failed attempts or when ctx expires.
func DialWithRetry(ctx context.Context, addr string, maxRetries uint64) (net.Conn, error) {
	var conn net.Conn

	backoff := retry.WithMaxRetries(maxRetries, retry.NewFibonacci(100*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var d net.Dialer
		c, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return retry.RetryableError(err)
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return conn, nil
}
