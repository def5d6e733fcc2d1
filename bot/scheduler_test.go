package bot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modbot/model"
	"modbot/moderation"
	"modbot/utils/database/infractions"
)

func TestSchedulerRunsUnmutesUntilCancelled(t *testing.T) {
	db, err := infractions.Init(filepath.Join(t.TempDir(), "moderation.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := infractions.NewStore(db)

	expiry := time.Now().Add(time.Hour)
	_, _, err = store.CreateMute(context.Background(), model.Infraction{
		GuildID:     "1",
		UserID:      "42",
		ModeratorID: "7",
		Kind:        model.KindMute,
	}, expiry)
	require.NoError(t, err)

	svc := moderation.NewService(store, nil, 50*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewScheduler(svc.Scheduler, nil).Run(ctx) }()

	assert.Eventually(t, func() bool {
		next, ok := svc.Scheduler.NextWake()
		return ok && next.UnixMilli() == expiry.UnixMilli()
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}

	// Stop already ran, so the unmute scheduler can be started again.
	svc.Scheduler.Start(context.Background())
	svc.Scheduler.Stop()
}
