package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrLeaseHeld is returned when another holder owns the lease.
	ErrLeaseHeld = errors.New("lease held by another owner")
	// ErrLeaseLost is returned when the lease expired or passed to someone else.
	ErrLeaseLost = errors.New("lease lost")
)

// releaseScript deletes the key only if it still belongs to the caller.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript resets the expiry only if the key still belongs to the caller.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Lease is a single-holder lock with an expiry, used so only one overdue
// scanner runs at a time across hosts.
type Lease struct {
	client *redis.Client
	key    string
	owner  string
	ttl    time.Duration
}

func NewLease(client *redis.Client, key, owner string, ttl time.Duration) *Lease {
	return &Lease{client: client, key: "lease:" + key, owner: owner, ttl: ttl}
}

// Acquire takes the lease or returns ErrLeaseHeld.
func (l *Lease) Acquire(ctx context.Context) error {
	ok, err := l.client.SetNX(ctx, l.key, l.owner, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire lease %s: %w", l.key, err)
	}
	if !ok {
		return ErrLeaseHeld
	}
	return nil
}

// Release gives the lease back if this owner still holds it.
func (l *Lease) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.owner).Err(); err != nil {
		return fmt.Errorf("release lease %s: %w", l.key, err)
	}
	return nil
}

// Extend pushes the expiry a full ttl out from now, or returns ErrLeaseLost.
func (l *Lease) Extend(ctx context.Context) error {
	n, err := extendScript.Run(ctx, l.client, []string{l.key}, l.owner, l.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("extend lease %s: %w", l.key, err)
	}
	if n == 0 {
		return ErrLeaseLost
	}
	return nil
}

// KeepAlive extends the lease every interval until ctx is done. It returns
// nil on cancellation and an error once an extension fails.
func (l *Lease) KeepAlive(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := l.Extend(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}
