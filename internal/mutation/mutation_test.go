package mutation

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/verdantlabs/storefront/internal/cache"
	"github.com/verdantlabs/storefront/internal/commerce"
)

type fakeCache struct {
	mu       sync.Mutex
	values   map[string][]byte
	canceled []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string][]byte{}}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	return value, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeCache) CancelPending(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canceled = append(f.canceled, key)
}

func (f *fakeCache) Lock(string) func() { return func() {} }

var _ cache.Cache = (*fakeCache)(nil)

func seedCart(t *testing.T, store *fakeCache, key string, cart commerce.Cart) {
	t.Helper()
	encoded, err := json.Marshal(cart)
	assert.NoError(t, err)
	store.values[key] = encoded
}

func TestRunCommitsAndInvalidates(t *testing.T) {
	store := newFakeCache()
	seedCart(t, store, "cart:cart_01", commerce.Cart{ID: "cart_01", Subtotal: 1000, Total: 1000})

	m := New[commerce.Cart](store, "cart:cart_01")
	assert.Equal(t, StateIdle, m.State())

	var observedDuringRemote commerce.Cart
	provisional, hadSnapshot, err := m.Run(
		context.Background(),
		func(cart commerce.Cart) commerce.Cart {
			cart.Subtotal = 2000
			cart.Total = 2000
			return cart
		},
		func(c context.Context) error {
			raw, ok, _ := store.Get(c, "cart:cart_01")
			assert.True(t, ok)
			assert.NoError(t, json.Unmarshal(raw, &observedDuringRemote))
			return nil
		},
	)

	assert.NoError(t, err)
	assert.True(t, hadSnapshot)
	assert.Equal(t, StateCommitted, m.State())
	assert.EqualValues(t, 2000, provisional.Subtotal)
	assert.EqualValues(t, 2000, observedDuringRemote.Subtotal,
		"provisional entity visible while the remote call is in flight")

	_, ok, _ := store.Get(context.Background(), "cart:cart_01")
	assert.False(t, ok, "key invalidated after commit")
	assert.Equal(t, []string{"cart:cart_01"}, store.canceled)
}

func TestRunRollsBackOnRemoteFailure(t *testing.T) {
	store := newFakeCache()
	snapshot := commerce.Cart{ID: "cart_01", Subtotal: 1000, Total: 1000}
	seedCart(t, store, "cart:cart_01", snapshot)

	m := New[commerce.Cart](store, "cart:cart_01")
	restored, hadSnapshot, err := m.Run(
		context.Background(),
		func(cart commerce.Cart) commerce.Cart {
			cart.Subtotal = 9999
			return cart
		},
		func(context.Context) error {
			return errors.New("backend rejected the mutation")
		},
	)

	assert.Error(t, err)
	assert.True(t, hadSnapshot)
	assert.Equal(t, StateRolledBack, m.State())
	assert.Equal(t, snapshot, restored)

	raw, ok, _ := store.Get(context.Background(), "cart:cart_01")
	assert.True(t, ok, "snapshot restored after rollback")
	var cached commerce.Cart
	assert.NoError(t, json.Unmarshal(raw, &cached))
	assert.EqualValues(t, 1000, cached.Subtotal)
}

func TestRunWithoutSnapshotSkipsOptimisticApply(t *testing.T) {
	store := newFakeCache()

	m := New[commerce.Cart](store, "cart:cart_01")
	called := false
	_, hadSnapshot, err := m.Run(
		context.Background(),
		func(cart commerce.Cart) commerce.Cart {
			t.Fatal("transform must not run without a snapshot")
			return cart
		},
		func(context.Context) error {
			called = true
			return nil
		},
	)

	assert.NoError(t, err)
	assert.False(t, hadSnapshot)
	assert.True(t, called)
	assert.Equal(t, StateCommitted, m.State())
}
