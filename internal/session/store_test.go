package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/alpenride/booking-api/internal/booking"
	"github.com/alpenride/booking-api/internal/session"
)

func testStore(t *testing.T) (*session.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.NewStore(client, time.Hour), mr
}

func TestCreateAndGet(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	rec, err := store.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)
	require.Equal(t, booking.StepLocation, rec.State.Step)
	require.NotNil(t, rec.State.Basket)

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec.ID, got.ID)
	require.Equal(t, booking.StepLocation, got.State.Step)
}

func TestGetUnknownID(t *testing.T) {
	store, _ := testStore(t)
	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestSaveRoundTripsState(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	rec, err := store.Create(ctx)
	require.NoError(t, err)

	rec.State.LocationID = "salzburg"
	rec.State.Basket["city-m-salzburg"] = 2
	rec.StockSeq = 7
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, "salzburg", got.State.LocationID)
	require.Equal(t, 2, got.State.Basket["city-m-salzburg"])
	require.Equal(t, uint64(7), got.StockSeq)
	require.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestSessionExpires(t *testing.T) {
	store, mr := testStore(t)
	ctx := context.Background()

	rec, err := store.Create(ctx)
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, rec.ID)
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	rec, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, rec.ID))
	require.NoError(t, store.Delete(ctx, rec.ID))

	_, err = store.Get(ctx, rec.ID)
	require.ErrorIs(t, err, session.ErrNotFound)
}
