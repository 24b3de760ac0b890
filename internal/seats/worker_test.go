package seats

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ticketly/internal/realtime"
	"ticketly/internal/shared/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupWorkerTest(t *testing.T) (*ExpirationWorker, Service, *fakeRepository, *realtime.MemoryBroadcaster, uuid.UUID) {
	t.Helper()

	repo := newFakeRepository()
	broadcaster := realtime.NewMemoryBroadcaster()

	svc := NewService(repo, 10*time.Minute, 8)
	svc.SetEventDirectory(&fakeDirectory{bookable: true})
	svc.SetBroadcaster(broadcaster)
	svc.SetCacheService(newFakeCache())

	eventID := uuid.New()
	seatIDs := make([]string, 0, 8)
	for i := 1; i <= 8; i++ {
		seatIDs = append(seatIDs, fmt.Sprintf("A-R1-S%d", i))
	}
	require.NoError(t, svc.CreateSeatStates(context.Background(), eventID.String(), seatIDs))

	worker := NewExpirationWorker(svc, config.WorkerConfig{
		Interval:    time.Second,
		BatchSize:   2,
		WarnBefore:  2 * time.Minute,
		WarnEnabled: true,
	})

	return worker, svc, repo, broadcaster, eventID
}

func expireHold(t *testing.T, repo *fakeRepository, hold *HoldResponse) {
	t.Helper()
	require.NoError(t, repo.UpdateHold(context.Background(), hold.HoldID, hold.SeatIDs, time.Now().Add(-time.Minute)))
}

func TestSweep_ReclaimsExpiredHolds(t *testing.T) {
	worker, svc, repo, broadcaster, eventID := setupWorkerTest(t)
	ctx := context.Background()

	hold, err := svc.HoldSeats(ctx, "session-1", nil, holdRequest(eventID, "A-R1-S1", "A-R1-S2"))
	require.NoError(t, err)
	expireHold(t, repo, hold)

	worker.Sweep(ctx)

	states, err := repo.GetSeatStates(ctx, eventID, hold.SeatIDs)
	require.NoError(t, err)
	for _, s := range states {
		assert.Equal(t, SeatAvailable, s.Status)
		assert.Nil(t, s.HoldRef)
	}

	_, err = repo.GetHold(ctx, hold.HoldID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var sawExpired bool
	for _, msg := range broadcaster.Messages(eventID.String()) {
		if msg.Type == realtime.TypeHoldExpired {
			sawExpired = true
			data := msg.Data.(realtime.HoldExpiredData)
			assert.Equal(t, hold.HoldID, data.HoldID)
			assert.Equal(t, "session-1", data.SessionID)
		}
	}
	assert.True(t, sawExpired, "expected a hold_expired message")
}

func TestSweep_LeavesLiveHoldsAlone(t *testing.T) {
	worker, svc, repo, _, eventID := setupWorkerTest(t)
	ctx := context.Background()

	hold, err := svc.HoldSeats(ctx, "session-1", nil, holdRequest(eventID, "A-R1-S1"))
	require.NoError(t, err)

	worker.Sweep(ctx)

	kept, err := repo.GetHold(ctx, hold.HoldID)
	require.NoError(t, err)
	assert.Equal(t, hold.HoldID, kept.HoldID)

	states, err := repo.GetSeatStates(ctx, eventID, []string{"A-R1-S1"})
	require.NoError(t, err)
	assert.Equal(t, SeatHeld, states[0].Status)
}

func TestSweep_DrainsBeyondOneBatch(t *testing.T) {
	worker, svc, repo, _, eventID := setupWorkerTest(t)
	ctx := context.Background()

	// More expired holds than one batch covers.
	for i := 1; i <= 5; i++ {
		hold, err := svc.HoldSeats(ctx, fmt.Sprintf("session-%d", i), nil,
			holdRequest(eventID, fmt.Sprintf("A-R1-S%d", i)))
		require.NoError(t, err)
		expireHold(t, repo, hold)
	}

	worker.Sweep(ctx)

	remaining, err := repo.ListExpiredHolds(ctx, time.Now(), 100)
	require.NoError(t, err)
	assert.Empty(t, remaining, "one sweep drains all expired holds in batches")
}

func TestWarnExpiringHolds_OncePerHold(t *testing.T) {
	_, svc, repo, broadcaster, eventID := setupWorkerTest(t)
	ctx := context.Background()

	hold, err := svc.HoldSeats(ctx, "session-1", nil, holdRequest(eventID, "A-R1-S1"))
	require.NoError(t, err)

	// Put the deadline inside the warning window without expiring it.
	require.NoError(t, repo.UpdateHold(ctx, hold.HoldID, hold.SeatIDs, time.Now().Add(time.Minute)))

	warned, err := svc.WarnExpiringHolds(ctx, 2*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, warned)

	warned, err = svc.WarnExpiringHolds(ctx, 2*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, warned, "second pass must not repeat the warning")

	var warnings int
	for _, msg := range broadcaster.Messages(eventID.String()) {
		if msg.Type == realtime.TypeHoldExpiringSoon {
			warnings++
			data := msg.Data.(realtime.HoldExpiringSoonData)
			assert.Equal(t, hold.HoldID, data.HoldID)
		}
	}
	assert.Equal(t, 1, warnings)
}

func TestWarnExpiringHolds_IgnoresDistantDeadlines(t *testing.T) {
	_, svc, _, _, eventID := setupWorkerTest(t)
	ctx := context.Background()

	_, err := svc.HoldSeats(ctx, "session-1", nil, holdRequest(eventID, "A-R1-S1"))
	require.NoError(t, err)

	// Fresh hold expires in 10 minutes, well outside the 2 minute window.
	warned, err := svc.WarnExpiringHolds(ctx, 2*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, warned)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	worker, _, _, _, _ := setupWorkerTest(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
