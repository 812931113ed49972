package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T, store Store, amounts ...string) []int64 {
	t.Helper()

	var ids []int64
	for _, amount := range amounts {
		p := &Payment{Type: Type3, Money: NewMoney(*amountOf(amount), "EUR"), CreatedAt: time.Now()}
		require.NoError(t, store.Create(context.Background(), p))
		ids = append(ids, p.ID)
	}
	return ids
}

func TestMemoryStore_CreateAssignsIDs(t *testing.T) {
	store := NewMemoryStore()
	ids := seedStore(t, store, "1", "2")
	assert.Equal(t, []int64{1, 2}, ids)

	all, err := store.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ids := seedStore(t, store, "5")

	p, err := store.FindByID(ctx, ids[0])
	require.NoError(t, err)
	p.Cancelled = true

	stored, err := store.FindByID(ctx, ids[0])
	require.NoError(t, err)
	assert.False(t, stored.Cancelled)
}

func TestMemoryStore_NotCancelledIDs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ids := seedStore(t, store, "10", "50", "100", "2.5", "75")

	cancelled, err := store.FindByID(ctx, ids[2])
	require.NoError(t, err)
	fee := NewMoney(*amountOf("0.15"), "EUR")
	now := time.Now()
	cancelled.CancellationFee = &fee
	cancelled.CancellationTime = &now
	require.NoError(t, store.MarkCancelled(ctx, cancelled))

	got, err := store.NotCancelledIDs(ctx, amountOf("5"), amountOf("60"))
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[0], ids[1]}, got)

	got, err = store.NotCancelledIDs(ctx, nil, amountOf("10"))
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[0], ids[3]}, got)

	got, err = store.NotCancelledIDs(ctx, amountOf("50"), nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[1], ids[4]}, got)

	got, err = store.NotCancelledIDs(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[0], ids[1], ids[3], ids[4]}, got)
}

func TestMemoryStore_FieldLevelUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ids := seedStore(t, store, "20")

	p, err := store.FindByID(ctx, ids[0])
	require.NoError(t, err)

	require.NoError(t, store.UpdateNotificationStatus(ctx, ids[0], NotificationSuccess))

	fee := NewMoney(*amountOf("0.30"), "EUR")
	now := time.Now()
	p.Cancelled = true
	p.CancellationFee = &fee
	p.CancellationTime = &now
	require.NoError(t, store.MarkCancelled(ctx, p))

	stored, err := store.FindByID(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, stored.Cancelled)
	assert.Equal(t, NotificationSuccess, stored.NotificationStatus)

	assert.ErrorIs(t, store.MarkCancelled(ctx, p), ErrAlreadyCancelled)
	assert.ErrorIs(t, store.UpdateNotificationStatus(ctx, 99, NotificationFailure), ErrPaymentNotFound)
}

func TestMemoryStore_CancellationInfo(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ids := seedStore(t, store, "20")

	info, err := store.CancellationInfo(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, ids[0], info.ID)
	assert.Nil(t, info.CancellationFee)

	_, err = store.CancellationInfo(ctx, 42)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}
