package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmoretti/auditrail/internal/core/model"
)

// MockMirror records upserts and removals.
type MockMirror struct {
	upserted []model.Account
	removed  []int64
	err      error
}

func (m *MockMirror) UpsertAccount(_ context.Context, account *model.Account) error {
	if m.err != nil {
		return m.err
	}
	m.upserted = append(m.upserted, *account)
	return nil
}

func (m *MockMirror) RemoveAccount(_ context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, id)
	return nil
}

func TestMirrorer_Handle(t *testing.T) {
	t.Run("after state is upserted", func(t *testing.T) {
		mirror := &MockMirror{}
		mirrorer := NewMirrorer(mirror)
		err := mirrorer.Handle(context.Background(), model.AccountEvent{
			ID:    "1",
			After: &model.Account{ID: 7, Email: "wa@gmail.com"},
		})
		require.NoError(t, err)
		require.Len(t, mirror.upserted, 1)
		assert.Equal(t, "wa@gmail.com", mirror.upserted[0].Email)
		assert.Empty(t, mirror.removed)
	})

	t.Run("deletion removes the mirrored account", func(t *testing.T) {
		mirror := &MockMirror{}
		mirrorer := NewMirrorer(mirror)
		err := mirrorer.Handle(context.Background(), model.AccountEvent{
			ID:     "1",
			Before: &model.Account{ID: 7, Email: "wa@gmail.com"},
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{7}, mirror.removed)
		assert.Empty(t, mirror.upserted)
	})

	t.Run("empty event is a no-op", func(t *testing.T) {
		mirror := &MockMirror{}
		mirrorer := NewMirrorer(mirror)
		require.NoError(t, mirrorer.Handle(context.Background(), model.AccountEvent{ID: "1"}))
		assert.Empty(t, mirror.upserted)
		assert.Empty(t, mirror.removed)
	})

	t.Run("mirror error surfaces", func(t *testing.T) {
		boom := errors.New("boom")
		mirrorer := NewMirrorer(&MockMirror{err: boom})
		err := mirrorer.Handle(context.Background(), model.AccountEvent{
			ID:    "1",
			After: &model.Account{ID: 7},
		})
		require.ErrorIs(t, err, boom)
	})
}
