package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyInvalidator struct {
	fail    bool
	deleted []string
}

func (f *flakyInvalidator) Invalidate(_ context.Context, key string) error {
	if f.fail {
		return errors.New("redis down")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func TestGuard_FailedInvalidationMarksKeyStale(t *testing.T) {
	g := NewGuard()
	inv := &flakyInvalidator{fail: true}
	ctx := context.Background()

	require.Error(t, g.Invalidate(ctx, inv, "k"))
	assert.True(t, g.Stale("k"))

	_, usable := g.Snapshot(ctx, inv, "k")
	assert.False(t, usable, "stale key must bypass cache while removal keeps failing")
	assert.True(t, g.Stale("k"))

	inv.fail = false
	_, usable = g.Snapshot(ctx, inv, "k")
	assert.False(t, usable)
	assert.False(t, g.Stale("k"))
	assert.Equal(t, []string{"k"}, inv.deleted)

	_, usable = g.Snapshot(ctx, inv, "k")
	assert.True(t, usable)
}

func TestGuard_OtherKeysStayUsable(t *testing.T) {
	g := NewGuard()
	inv := &flakyInvalidator{fail: true}
	ctx := context.Background()

	require.Error(t, g.Invalidate(ctx, inv, "a"))

	_, usable := g.Snapshot(ctx, inv, "b")
	assert.True(t, usable)
}

func TestGuard_Settle(t *testing.T) {
	ctx := context.Background()

	t.Run("no writes since snapshot", func(t *testing.T) {
		g := NewGuard()
		inv := &flakyInvalidator{}
		snapshot, usable := g.Snapshot(ctx, inv, "k")
		require.True(t, usable)

		require.NoError(t, g.Settle(ctx, inv, "k", snapshot))
		assert.Empty(t, inv.deleted)
	})

	t.Run("write after snapshot drops the value", func(t *testing.T) {
		g := NewGuard()
		inv := &flakyInvalidator{}
		snapshot, _ := g.Snapshot(ctx, inv, "k")

		require.NoError(t, g.Invalidate(ctx, inv, "k"))
		require.NoError(t, g.Settle(ctx, inv, "k", snapshot))
		assert.Equal(t, []string{"k", "k"}, inv.deleted)
	})

	t.Run("failed drop marks key stale", func(t *testing.T) {
		g := NewGuard()
		inv := &flakyInvalidator{}
		snapshot, _ := g.Snapshot(ctx, inv, "k")
		require.NoError(t, g.Invalidate(ctx, inv, "k"))

		inv.fail = true
		require.Error(t, g.Settle(ctx, inv, "k", snapshot))
		assert.True(t, g.Stale("k"))
	})
}
