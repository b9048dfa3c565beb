package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, config.Migrate(db))
	return db
}

func testDispatcher(db *gorm.DB, now time.Time) *Dispatcher {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 3
	cfg.BaseRetryDelay = time.Second
	cfg.MaxRetryDelay = 3 * time.Second
	d := NewDispatcher(db, cfg)
	d.now = func() time.Time { return now }
	return d
}

func insertMessage(t *testing.T, db *gorm.DB, kind, payload string, due time.Time) *models.OutboxMessage {
	t.Helper()
	msg := &models.OutboxMessage{Kind: kind, Payload: payload, Status: models.OutboxPending, NextAttemptAt: due}
	require.NoError(t, db.Create(msg).Error)
	return msg
}

func reload(t *testing.T, db *gorm.DB, id uint) models.OutboxMessage {
	t.Helper()
	var msg models.OutboxMessage
	require.NoError(t, db.First(&msg, id).Error)
	return msg
}

func TestRunOnceMarksOutcome(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().Truncate(time.Second)
	d := testDispatcher(db, now)
	d.Handle("ok", func(ctx context.Context, msg *models.OutboxMessage) error { return nil })
	d.Handle("skip", func(ctx context.Context, msg *models.OutboxMessage) error { return ErrSkip })

	sent := insertMessage(t, db, "ok", "{}", now.Add(-time.Second))
	skipped := insertMessage(t, db, "skip", "{}", now.Add(-time.Second))
	unknown := insertMessage(t, db, "mystery", "{}", now.Add(-time.Second))
	later := insertMessage(t, db, "ok", "{}", now.Add(time.Hour))

	n, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got := reload(t, db, sent.ID)
	assert.Equal(t, models.OutboxSent, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.NotNil(t, got.SentAt)

	assert.Equal(t, models.OutboxSkipped, reload(t, db, skipped.ID).Status)

	failed := reload(t, db, unknown.ID)
	assert.Equal(t, models.OutboxFailed, failed.Status)
	assert.Equal(t, "no handler for mystery", failed.LastError)

	assert.Equal(t, models.OutboxPending, reload(t, db, later.ID).Status)
}

func TestRunOnceRetriesWithBackoff(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().Truncate(time.Second)
	d := testDispatcher(db, now)
	calls := 0
	d.Handle("flaky", func(ctx context.Context, msg *models.OutboxMessage) error {
		calls++
		return errors.New("smtp timeout")
	})
	msg := insertMessage(t, db, "flaky", "{}", now.Add(-time.Second))

	_, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	got := reload(t, db, msg.ID)
	assert.Equal(t, models.OutboxPending, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.Equal(t, "smtp timeout", got.LastError)
	assert.True(t, got.NextAttemptAt.Equal(now.Add(time.Second)))

	n, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "message is not due yet")

	d.now = func() time.Time { return now.Add(10 * time.Second) }
	_, err = d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, reload(t, db, msg.ID).Attempts)

	d.now = func() time.Time { return now.Add(time.Minute) }
	_, err = d.RunOnce(context.Background())
	require.NoError(t, err)
	got = reload(t, db, msg.ID)
	assert.Equal(t, models.OutboxFailed, got.Status)
	assert.Equal(t, 3, got.Attempts)
	assert.Equal(t, 3, calls)
}

func TestRetryDelayIsCapped(t *testing.T) {
	d := testDispatcher(nil, time.Now())
	assert.Equal(t, time.Second, d.retryDelay(1))
	assert.Equal(t, 2*time.Second, d.retryDelay(2))
	assert.Equal(t, 3*time.Second, d.retryDelay(3))
	assert.Equal(t, 3*time.Second, d.retryDelay(10))
}

func TestStartStop(t *testing.T) {
	db := setupTestDB(t)
	cfg := DefaultConfig()
	cfg.PollInterval = 10 * time.Millisecond
	d := NewDispatcher(db, cfg)

	delivered := make(chan struct{}, 1)
	d.Handle("ok", func(ctx context.Context, msg *models.OutboxMessage) error {
		delivered <- struct{}{}
		return nil
	})
	insertMessage(t, db, "ok", "{}", time.Now().Add(-time.Second))

	require.NoError(t, d.Start(context.Background()))
	assert.Error(t, d.Start(context.Background()))

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
	require.NoError(t, d.Stop(ctx))
}

func TestRunOnceLeavesInterruptedMessagePending(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().Truncate(time.Second)
	d := testDispatcher(db, now)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Handle("slow", func(hctx context.Context, msg *models.OutboxMessage) error {
		cancel()
		<-hctx.Done()
		return fmt.Errorf("send: %w", hctx.Err())
	})
	msg := insertMessage(t, db, "slow", "{}", now.Add(-time.Second))

	n, err := d.RunOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, n)

	got := reload(t, db, msg.ID)
	assert.Equal(t, models.OutboxPending, got.Status)
	assert.Equal(t, 0, got.Attempts)
	assert.Empty(t, got.LastError)
}
