package payments

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPgStore connects to the database named by POSTGRES_TEST_URL and
// starts from an empty payments table.
func newTestPgStore(t *testing.T) *PgStore {
	t.Helper()

	url := os.Getenv("POSTGRES_TEST_URL")
	if url == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}

	ctx := context.Background()
	dbpool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(dbpool.Close)

	store := NewPgStore(dbpool)
	require.NoError(t, store.Migrate(ctx))
	// Migrate is rerun to check it is safe on an existing table.
	require.NoError(t, store.Migrate(ctx))

	_, err = dbpool.Exec(ctx, `TRUNCATE payments RESTART IDENTITY`)
	require.NoError(t, err)
	return store
}

func TestPgStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := newTestPgStore(t)
	created := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	p := &Payment{
		Type:         Type1,
		Money:        NewMoney(*amountOf("12345678901234567.89"), "EUR"),
		DebtorIBAN:   "LT121000011101001000",
		CreditorIBAN: "LT597300010145601001",
		Details:      "invoice 42",
		CreatedAt:    created,
	}
	require.NoError(t, store.Create(ctx, p))
	assert.NotZero(t, p.ID)

	got, err := store.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, Type1, got.Type)
	assert.Equal(t, "12345678901234567.89", got.Money.Amount.StringFixed(2))
	assert.Equal(t, "EUR", got.Money.Currency)
	assert.Equal(t, "invoice 42", got.Details)
	assert.Empty(t, got.CreditorBankBIC)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.False(t, got.Cancelled)
	assert.Nil(t, got.CancellationFee)
	assert.Nil(t, got.CancellationTime)
	assert.Equal(t, NotificationUnset, got.NotificationStatus)

	require.NoError(t, store.UpdateNotificationStatus(ctx, p.ID, NotificationFailure))
	got, err = store.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, NotificationFailure, got.NotificationStatus)

	_, err = store.FindByID(ctx, p.ID+1)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
	assert.ErrorIs(t, store.UpdateNotificationStatus(ctx, p.ID+1, NotificationSuccess), ErrPaymentNotFound)

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, p.ID, all[0].ID)
}

func TestPgStore_MarkCancelled(t *testing.T) {
	ctx := context.Background()
	store := newTestPgStore(t)
	ids := seedStore(t, store, "10000000000000.00")

	p, err := store.FindByID(ctx, ids[0])
	require.NoError(t, err)

	at := p.CreatedAt.Add(time.Hour)
	fee := NewMoney(*amountOf("0.15"), "EUR")
	p.Cancelled = true
	p.CancellationFee = &fee
	p.CancellationTime = &at
	require.NoError(t, store.MarkCancelled(ctx, p))

	got, err := store.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Cancelled)
	require.NotNil(t, got.CancellationFee)
	assert.Equal(t, "0.15", got.CancellationFee.Amount.StringFixed(2))
	require.NotNil(t, got.CancellationTime)
	assert.WithinDuration(t, at, *got.CancellationTime, time.Microsecond)

	assert.ErrorIs(t, store.MarkCancelled(ctx, p), ErrAlreadyCancelled)

	info, err := store.CancellationInfo(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, info.ID)
	require.NotNil(t, info.CancellationFee)
	assert.Equal(t, "0.15", info.CancellationFee.Amount.StringFixed(2))
	assert.Equal(t, "EUR", info.CancellationFee.Currency)
}

func TestPgStore_NotCancelledIDs(t *testing.T) {
	ctx := context.Background()
	store := newTestPgStore(t)
	ids := seedStore(t, store, "1", "5", "50", "60", "99999999999999999.99")

	p, err := store.FindByID(ctx, ids[2])
	require.NoError(t, err)
	at := p.CreatedAt.Add(time.Hour)
	fee := NewMoney(*amountOf("0"), "EUR")
	p.CancellationFee = &fee
	p.CancellationTime = &at
	require.NoError(t, store.MarkCancelled(ctx, p))

	got, err := store.NotCancelledIDs(ctx, amountOf("5"), amountOf("60"))
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[1], ids[3]}, got)

	got, err = store.NotCancelledIDs(ctx, amountOf("60"), nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[3], ids[4]}, got)

	got, err = store.NotCancelledIDs(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[0], ids[1], ids[3], ids[4]}, got)

	got, err = store.NotCancelledIDs(ctx, amountOf("100"), amountOf("200"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPgStore_CancellationInfo(t *testing.T) {
	ctx := context.Background()
	store := newTestPgStore(t)
	ids := seedStore(t, store, "20")

	info, err := store.CancellationInfo(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, ids[0], info.ID)
	assert.Nil(t, info.CancellationFee)

	_, err = store.CancellationInfo(ctx, ids[0]+1)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}
