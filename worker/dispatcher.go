// Package worker delivers outbox messages in the background.
package worker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/nocturnelux/storefront/models"
	"github.com/nocturnelux/storefront/utils"
	"gorm.io/gorm"
)

// ErrSkip tells the dispatcher a message cannot be delivered in this
// deployment (for example, no mail server configured) and must not be retried.
var ErrSkip = errors.New("delivery skipped")

// Handler delivers one outbox message.
type Handler func(ctx context.Context, msg *models.OutboxMessage) error

// Config holds dispatcher configuration.
type Config struct {
	PollInterval   time.Duration
	BatchSize      int
	MaxAttempts    int
	BaseRetryDelay time.Duration
	MaxRetryDelay  time.Duration
	HandlerTimeout time.Duration
}

// DefaultConfig returns the default dispatcher configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval:   2 * time.Second,
		BatchSize:      20,
		MaxAttempts:    8,
		BaseRetryDelay: time.Second,
		MaxRetryDelay:  time.Minute,
		HandlerTimeout: 30 * time.Second,
	}
}

// Dispatcher polls the outbox and runs the handler registered for each kind.
// It assumes a single running instance per database.
type Dispatcher struct {
	db       *gorm.DB
	config   Config
	handlers map[string]Handler
	now      func() time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewDispatcher(db *gorm.DB, cfg Config) *Dispatcher {
	return &Dispatcher{
		db:       db,
		config:   cfg,
		handlers: make(map[string]Handler),
		now:      time.Now,
	}
}

// Handle registers h for messages of kind.
func (d *Dispatcher) Handle(kind string, h Handler) {
	d.handlers[kind] = h
}

// RunOnce delivers one batch of due messages and returns how many it processed.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	var batch []models.OutboxMessage
	err := d.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", models.OutboxPending, d.now()).
		Order("id ASC").
		Limit(d.config.BatchSize).
		Find(&batch).Error
	if err != nil {
		return 0, fmt.Errorf("load outbox batch: %w", err)
	}

	for i := range batch {
		if ctx.Err() != nil {
			return i, ctx.Err()
		}
		if err := d.deliver(ctx, &batch[i]); err != nil {
			return i, err
		}
	}
	return len(batch), nil
}

func (d *Dispatcher) deliver(ctx context.Context, msg *models.OutboxMessage) error {
	now := d.now()
	updates := map[string]interface{}{}

	handler, ok := d.handlers[msg.Kind]
	if !ok {
		updates["status"] = models.OutboxFailed
		updates["last_error"] = "no handler for " + msg.Kind
		utils.LogError("Outbox message %d has unknown kind %s", msg.ID, msg.Kind)
		return d.save(ctx, msg, updates)
	}

	hctx, cancel := context.WithTimeout(ctx, d.config.HandlerTimeout)
	herr := handler(hctx, msg)
	cancel()

	// Interrupted by shutdown: leave the message pending without using an attempt.
	if herr != nil && ctx.Err() != nil && errors.Is(herr, context.Canceled) {
		utils.LogInfo("Outbox message %d (%s) interrupted by shutdown", msg.ID, msg.Kind)
		return ctx.Err()
	}

	switch {
	case herr == nil:
		updates["status"] = models.OutboxSent
		updates["sent_at"] = now
		updates["attempts"] = msg.Attempts + 1
		updates["last_error"] = ""
	case errors.Is(herr, ErrSkip):
		updates["status"] = models.OutboxSkipped
		updates["last_error"] = herr.Error()
		utils.LogInfo("Outbox message %d (%s) skipped: %v", msg.ID, msg.Kind, herr)
	default:
		attempts := msg.Attempts + 1
		updates["attempts"] = attempts
		updates["last_error"] = herr.Error()
		if attempts >= d.config.MaxAttempts {
			updates["status"] = models.OutboxFailed
			utils.LogError("Outbox message %d (%s) failed permanently after %d attempts: %v", msg.ID, msg.Kind, attempts, herr)
		} else {
			updates["next_attempt_at"] = now.Add(d.retryDelay(attempts))
			utils.LogError("Outbox message %d (%s) attempt %d failed: %v", msg.ID, msg.Kind, attempts, herr)
		}
	}

	return d.save(ctx, msg, updates)
}

func (d *Dispatcher) save(ctx context.Context, msg *models.OutboxMessage, updates map[string]interface{}) error {
	if err := d.db.WithContext(ctx).Model(msg).Updates(updates).Error; err != nil {
		return fmt.Errorf("update outbox message %d: %w", msg.ID, err)
	}
	return nil
}

// retryDelay is BaseRetryDelay doubled per failed attempt, capped at MaxRetryDelay.
func (d *Dispatcher) retryDelay(attempts int) time.Duration {
	delay := float64(d.config.BaseRetryDelay) * math.Pow(2, float64(attempts-1))
	if delay > float64(d.config.MaxRetryDelay) {
		return d.config.MaxRetryDelay
	}
	return time.Duration(delay)
}

// Start polls in the background until Stop is called or ctx ends.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return fmt.Errorf("dispatcher is already running")
	}
	d.running = true

	ctx, d.cancel = context.WithCancel(ctx)
	d.done = make(chan struct{})
	go d.loop(ctx)
	utils.LogInfo("Outbox dispatcher started (poll every %v)", d.config.PollInterval)
	return nil
}

func (d *Dispatcher) loop(ctx context.Context) {
	defer close(d.done)
	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()
	for {
		if _, err := d.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			utils.LogError("Outbox dispatch failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop cancels polling and waits for the in-flight batch, up to ctx's deadline.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return nil
	}
	d.running = false
	d.cancel()
	done := d.done
	d.mu.Unlock()

	select {
	case <-done:
		utils.LogInfo("Outbox dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
