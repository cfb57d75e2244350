package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autorent/internal/apperrors"
	"autorent/internal/db"
)

func seedStore(t *testing.T) *Store {
	t.Helper()
	store := New()
	store.AddVehicle(db.Vehicle{ID: "veh-1", AvailabilityStatus: db.VehicleAvailable, DailyRentPrice: 50})
	return store
}

func TestCommitAppliesBufferedWrites(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	_, err = tx.VehicleForUpdate(ctx, "veh-1")
	require.NoError(t, err)
	require.NoError(t, tx.UpdateVehicleAvailability(ctx, "veh-1", db.VehicleBooked))

	// Not visible until commit.
	vehicle, _ := store.Vehicle("veh-1")
	assert.Equal(t, db.VehicleAvailable, vehicle.AvailabilityStatus)

	require.NoError(t, tx.Commit())
	vehicle, _ = store.Vehicle("veh-1")
	assert.Equal(t, db.VehicleBooked, vehicle.AvailabilityStatus)
}

func TestRollbackDiscardsWrites(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	_, err = tx.VehicleForUpdate(ctx, "veh-1")
	require.NoError(t, err)
	require.NoError(t, tx.UpdateVehicleAvailability(ctx, "veh-1", db.VehicleBooked))
	require.NoError(t, tx.Rollback())

	vehicle, _ := store.Vehicle("veh-1")
	assert.Equal(t, db.VehicleAvailable, vehicle.AvailabilityStatus)
}

func TestRollbackAfterCommitIsNoOp(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.VehicleForUpdate(ctx, "veh-1")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, tx.Rollback())
}

func TestVehicleForUpdateUnknownRow(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = tx.VehicleForUpdate(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestRowLockSerializesTransactions(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()

	tx1, err := store.Begin(ctx)
	require.NoError(t, err)
	_, err = tx1.VehicleForUpdate(ctx, "veh-1")
	require.NoError(t, err)

	observed := make(chan string, 1)
	go func() {
		tx2, err := store.Begin(ctx)
		if err != nil {
			observed <- "begin failed"
			return
		}
		defer tx2.Rollback()
		vehicle, err := tx2.VehicleForUpdate(ctx, "veh-1")
		if err != nil {
			observed <- "lock failed"
			return
		}
		observed <- vehicle.AvailabilityStatus
	}()

	// The second transaction must block on the row lock.
	select {
	case status := <-observed:
		t.Fatalf("second transaction acquired the lock early, observed %q", status)
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, tx1.UpdateVehicleAvailability(ctx, "veh-1", db.VehicleBooked))
	require.NoError(t, tx1.Commit())

	select {
	case status := <-observed:
		assert.Equal(t, db.VehicleBooked, status, "second transaction must observe the committed write")
	case <-time.After(time.Second):
		t.Fatal("second transaction never acquired the lock")
	}
}
