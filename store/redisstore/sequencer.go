// Package redisstore hands out order sequence numbers from Redis.
package redisstore

import (
	"context"
	"fmt"
	"time"

	"aruth-api/store"

	"github.com/redis/go-redis/v9"
)

// KeySequence is the key of a named counter: seq:{name}
const KeySequence = "seq:%s"

// New opens a client and verifies the server answers.
func New(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DialTimeout: 5 * time.Second,
		ReadTimeout: 2 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redisstore: ping %s: %w", addr, err)
	}
	return rdb, nil
}

// Sequencer increments counters with INCR, which is atomic on the server.
type Sequencer struct {
	rdb redis.Cmdable
}

// NewSequencer returns a Sequencer on rdb.
func NewSequencer(rdb redis.Cmdable) *Sequencer {
	return &Sequencer{rdb: rdb}
}

func (s *Sequencer) Next(ctx context.Context, name string) (int64, error) {
	n, err := s.rdb.Incr(ctx, fmt.Sprintf(KeySequence, name)).Result()
	if err != nil {
		return 0, fmt.Errorf("redisstore: next %s sequence: %w", name, err)
	}
	return n, nil
}

// Ping checks the Redis server still answers.
func (s *Sequencer) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redisstore: ping: %w", err)
	}
	return nil
}

var (
	_ store.Sequencer = (*Sequencer)(nil)
	_ store.Pinger    = (*Sequencer)(nil)
)
