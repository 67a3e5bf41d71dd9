package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DailyTriggerConfig holds configuration for a once-a-day trigger
type DailyTriggerConfig struct {
	Kind     JobKind
	Hour     int
	Minute   int
	Location *time.Location

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DailyTrigger submits one job per calendar day once the configured local
// time has passed. A process started after that time still runs the day's job.
type DailyTrigger struct {
	config    DailyTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger
	now       func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewDailyTrigger creates a new daily trigger
func NewDailyTrigger(config DailyTriggerConfig, scheduler *Scheduler, logger *zap.Logger) *DailyTrigger {
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	return &DailyTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
		now:       time.Now,
	}
}

// Start starts the trigger loop
func (c *DailyTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Daily trigger started",
		zap.String("kind", string(c.config.Kind)),
		zap.Int("hour", c.config.Hour),
		zap.Int("minute", c.config.Minute),
		zap.Duration("check_interval", c.config.CheckInterval),
	)
	return nil
}

// Stop stops the trigger loop
func (c *DailyTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Daily trigger stopped", zap.String("kind", string(c.config.Kind)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *DailyTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	c.checkAndTrigger()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger()
		}
	}
}

// shouldRun reports whether the day's job is due and not yet submitted
func (c *DailyTrigger) shouldRun(now time.Time) bool {
	local := now.In(c.config.Location)
	scheduled := time.Date(local.Year(), local.Month(), local.Day(), c.config.Hour, c.config.Minute, 0, 0, c.config.Location)
	if local.Before(scheduled) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRunDate != local.Format(time.DateOnly)
}

// checkAndTrigger submits the day's job when it is due
func (c *DailyTrigger) checkAndTrigger() bool {
	now := c.now()
	if !c.shouldRun(now) {
		return false
	}

	local := now.In(c.config.Location)
	runDate := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.config.Location)
	job := NewJob(c.config.Kind, runDate, c.scheduler.config.RetryAttempts)
	if err := c.scheduler.SubmitJob(job); err != nil {
		c.logger.Error("Failed to submit daily job",
			zap.String("kind", string(c.config.Kind)),
			zap.Error(err),
		)
		return false
	}

	c.mu.Lock()
	c.lastRunDate = local.Format(time.DateOnly)
	c.mu.Unlock()
	return true
}

// TriggerNow submits a job for the given day regardless of the clock
func (c *DailyTrigger) TriggerNow(day time.Time) error {
	return c.scheduler.SubmitJob(NewJob(c.config.Kind, day, c.scheduler.config.RetryAttempts))
}
