// Package mutation implements the optimistic mutation protocol around the
// query cache: snapshot, optimistic apply, remote call, then commit or
// rollback. The sequence is expressed as an explicit state machine so the
// contract is testable without a live backend or any particular async
// runtime.
package mutation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/verdantlabs/storefront/internal/cache"
	"github.com/verdantlabs/storefront/internal/log"
	"github.com/verdantlabs/storefront/internal/otel"
)

type State string

const (
	StateIdle       State = "idle"
	StateApplied    State = "applied"
	StateCommitted  State = "committed"
	StateRolledBack State = "rolled_back"
)

type Mutation[T any] struct {
	store cache.Cache
	key   string
	state State
}

func New[T any](store cache.Cache, key string) *Mutation[T] {
	return &Mutation[T]{store: store, key: key, state: StateIdle}
}

func (m *Mutation[T]) State() State { return m.state }

// Run executes the protocol for one mutation:
//
//  1. cancel any in-flight refetch for the key, so a stale read cannot
//     clobber the optimistic write,
//  2. capture the pre-mutation snapshot and write transform(snapshot) as the
//     provisional entity (skipped when nothing is cached yet),
//  3. perform the remote call,
//  4. on failure restore the snapshot; on success drop the provisional entry
//     so the next read fetches authoritative state.
//
// The returned entity is the provisional one on success and the restored
// snapshot on rollback; the boolean reports whether a snapshot existed.
func (m *Mutation[T]) Run(
	c context.Context,
	transform func(T) T,
	remote func(context.Context) error,
) (T, bool, error) {
	c, span := otel.Tracer.Start(c, "Mutation Run")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Mutation Run").
		Str(log.KeyCacheKey, m.key).
		Logger()

	unlock := m.store.Lock(m.key)
	defer unlock()

	m.store.CancelPending(m.key)

	snapshot, hasSnapshot, err := cache.GetJSON[T](c, m.store, m.key)
	if err != nil {
		// A broken cache read only costs the optimistic update; the mutation
		// itself still runs against the backend.
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		hasSnapshot = false
	}

	provisional := snapshot
	if hasSnapshot {
		provisional = transform(snapshot)
		if err := cache.SetJSON(c, m.store, m.key, provisional, cache.DefaultTTL); err != nil {
			otel.RecordError(err, span)
			logger.Warn().Err(err).Msg(err.Error())
		}
		m.state = StateApplied
		logger.Debug().Msg("applied optimistic update")
	}

	if err := remote(c); err != nil {
		if hasSnapshot {
			if restoreErr := cache.SetJSON(c, m.store, m.key, snapshot, cache.DefaultTTL); restoreErr != nil {
				otel.RecordError(restoreErr, span)
				logger.Error().Err(restoreErr).Msg(restoreErr.Error())
			}
		}
		m.state = StateRolledBack
		err = fmt.Errorf("mutation for key=%s rolled back with error=%w", m.key, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return snapshot, hasSnapshot, err
	}

	if err := m.store.Invalidate(c, m.key); err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	m.state = StateCommitted
	logger.Debug().Msg("committed mutation")
	return provisional, hasSnapshot, nil
}
