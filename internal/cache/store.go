package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 5 * time.Minute

// Store is the query cache shared by data-access functions and the mutation
// protocol. It is an explicit dependency passed to every caller, not an
// ambient singleton. Values are JSON-encoded snapshots of backend entities.
//
// Only the optimistic engine's output and the post-mutation reconciliation
// may write to a given key; reads are unrestricted. Per-key locks serialize
// the read-modify-write sequence of a mutation, and the pending registry
// lets a mutation cancel an in-flight refetch for its key so a stale read
// can never clobber a newer optimistic write.
type Store struct {
	client *redis.Client

	mu      sync.Mutex
	pending map[string]context.CancelFunc
	locks   map[string]*sync.Mutex
}

func NewStore(client *redis.Client) *Store {
	return &Store{
		client:  client,
		pending: map[string]context.CancelFunc{},
		locks:   map[string]*sync.Mutex{},
	}
}

func (s *Store) Get(c context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(c, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed getting key=%s from cache with error=%w", key, err)
	}
	return value, true, nil
}

func (s *Store) Set(c context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	err := s.client.Set(c, key, value, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed setting key=%s in cache with error=%w", key, err)
	}
	return nil
}

func (s *Store) Invalidate(c context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.client.Del(c, keys...).Err()
	if err != nil {
		return fmt.Errorf("failed invalidating keys=%v with error=%w", keys, err)
	}
	return nil
}

// RegisterPending marks a refetch for key as in flight and returns the
// context it must run under. Registering again for the same key cancels the
// previous refetch.
func (s *Store) RegisterPending(c context.Context, key string) (context.Context, context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.pending[key]; ok {
		cancel()
	}
	c, cancel := context.WithCancel(c)
	s.pending[key] = cancel
	return c, cancel
}

// CancelPending cancels the in-flight refetch for key, if any. Cancellation
// is best effort: the context is canceled, but a network request already on
// the wire is not aborted beyond what context propagation gives.
func (s *Store) CancelPending(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.pending[key]; ok {
		cancel()
		delete(s.pending, key)
	}
}

// Lock serializes read-modify-write sequences on a single key. The returned
// function releases the lock.
func (s *Store) Lock(key string) func() {
	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// GetJSON reads and decodes the cached snapshot under key into a fresh T.
func GetJSON[T any](c context.Context, s Cache, key string) (T, bool, error) {
	var value T
	raw, ok, err := s.Get(c, key)
	if err != nil || !ok {
		return value, false, err
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, fmt.Errorf("failed decoding cached key=%s with error=%w", key, err)
	}
	return value, true, nil
}

// SetJSON encodes value and stores it under key.
func SetJSON(c context.Context, s Cache, key string, value any, ttl time.Duration) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed encoding value for key=%s with error=%w", key, err)
	}
	return s.Set(c, key, encoded, ttl)
}

// Cache is the seam the mutation protocol and data-access functions depend
// on; *Store is the Redis-backed implementation.
type Cache interface {
	Get(c context.Context, key string) ([]byte, bool, error)
	Set(c context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(c context.Context, keys ...string) error
	CancelPending(key string)
	Lock(key string) func()
}

var _ Cache = (*Store)(nil)
