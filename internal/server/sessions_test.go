package server

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/iwvelando/ltv-leverage/internal/mode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionStoreConcurrentSessionsStayIndependent(t *testing.T) {
	var last int
	store := newSessionStore(mode.NewController(zap.NewNop(), 0), 0, func(n int) { last = n })

	const workers = 16
	ids := make([]uuid.UUID, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, _, err := store.create()
			if !assert.NoError(t, err) {
				return
			}
			ids[i] = id

			err = store.with(id, func(s *mode.Session) error {
				_, err := s.Set(mode.FieldEffectiveLTV, float64(i)/100)
				return err
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, workers, store.len())
	assert.Equal(t, workers, last)

	for i, id := range ids {
		err := store.with(id, func(s *mode.Session) error {
			in, err := s.Inputs(mode.AdjustLTV)
			require.NoError(t, err)
			assert.Equal(t, float64(i)/100, in.EffectiveLTV)
			return nil
		})
		require.NoError(t, err)
	}
}

func TestSessionStoreRemove(t *testing.T) {
	store := newSessionStore(mode.NewController(nil, 0), 2, nil)

	id, state, err := store.create()
	require.NoError(t, err)
	assert.Equal(t, mode.AdjustLTV, state.Mode)

	require.NoError(t, store.remove(id))
	assert.ErrorIs(t, store.remove(id), errSessionNotFound)
	assert.ErrorIs(t, store.with(id, func(*mode.Session) error { return nil }), errSessionNotFound)
	assert.Equal(t, 0, store.len())
}

func TestSessionStoreLimit(t *testing.T) {
	store := newSessionStore(mode.NewController(nil, 0), 1, nil)

	_, _, err := store.create()
	require.NoError(t, err)
	_, _, err = store.create()
	assert.ErrorIs(t, err, errSessionsFull)
}
