package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() SchedulerConfig {
	cfg := DefaultSchedulerConfig()
	cfg.MaxConcurrentJobs = 1
	cfg.JobTimeout = time.Second
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func TestSchedulerConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultSchedulerConfig().Validate())

	bad := DefaultSchedulerConfig()
	bad.MaxConcurrentJobs = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = DefaultSchedulerConfig()
	bad.JobTimeout = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)
}

func TestJob_Lifecycle(t *testing.T) {
	job := NewJob(JobKindBillReminder, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), 1)
	assert.Equal(t, JobStatusPending, job.Status)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	require.NotNil(t, job.StartedAt)

	job.Fail("smtp down")
	assert.True(t, job.ShouldRetry())

	job.ScheduleRetry(time.Minute)
	assert.Equal(t, 1, job.RetryCount)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Empty(t, job.Error)

	job.Start()
	job.Fail("smtp down")
	assert.False(t, job.ShouldRetry())
}

func TestScheduler_SubmitRequiresRunningAndExecutor(t *testing.T) {
	s, err := NewScheduler(testConfig(), zap.NewNop())
	require.NoError(t, err)

	err = s.SubmitJob(NewJob(JobKindBillReminder, time.Now(), 0))
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	err = s.SubmitJob(NewJob(JobKindBillReminder, time.Now(), 0))
	assert.ErrorIs(t, err, ErrUnknownJobKind)
}

func TestScheduler_RunsAndRetries(t *testing.T) {
	s, err := NewScheduler(testConfig(), zap.NewNop())
	require.NoError(t, err)

	var calls atomic.Int32
	done := make(chan struct{})
	s.Register(JobKindBillReminder, JobExecutorFunc(func(ctx context.Context, job *Job) error {
		if calls.Add(1) == 1 {
			return errors.New("temporary")
		}
		close(done)
		return nil
	}))

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	require.NoError(t, s.SubmitJob(NewJob(JobKindBillReminder, time.Now(), 2)))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestDailyTrigger_ShouldRun(t *testing.T) {
	s, err := NewScheduler(testConfig(), zap.NewNop())
	require.NoError(t, err)
	trigger := NewDailyTrigger(DailyTriggerConfig{Kind: JobKindBillReminder, Hour: 7, Minute: 30, Location: time.UTC}, s, zap.NewNop())

	assert.False(t, trigger.shouldRun(time.Date(2025, 1, 8, 7, 29, 0, 0, time.UTC)))
	assert.True(t, trigger.shouldRun(time.Date(2025, 1, 8, 7, 30, 0, 0, time.UTC)))
	assert.True(t, trigger.shouldRun(time.Date(2025, 1, 8, 18, 0, 0, 0, time.UTC)))

	trigger.lastRunDate = "2025-01-08"
	assert.False(t, trigger.shouldRun(time.Date(2025, 1, 8, 18, 0, 0, 0, time.UTC)))
	assert.True(t, trigger.shouldRun(time.Date(2025, 1, 9, 7, 30, 0, 0, time.UTC)))
}

func TestDailyTrigger_SubmitsOncePerDay(t *testing.T) {
	s, err := NewScheduler(testConfig(), zap.NewNop())
	require.NoError(t, err)

	var mu sync.Mutex
	var runDates []time.Time
	s.Register(JobKindBillReminder, JobExecutorFunc(func(ctx context.Context, job *Job) error {
		mu.Lock()
		defer mu.Unlock()
		runDates = append(runDates, job.RunDate)
		return nil
	}))
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	saoPaulo := time.FixedZone("BRT", -3*3600)
	trigger := NewDailyTrigger(DailyTriggerConfig{Kind: JobKindBillReminder, Hour: 7, Location: saoPaulo}, s, zap.NewNop())

	now := time.Date(2025, 1, 8, 11, 0, 0, 0, time.UTC) // 08:00 local
	trigger.now = func() time.Time { return now }

	assert.True(t, trigger.checkAndTrigger())
	assert.False(t, trigger.checkAndTrigger())

	now = now.Add(24 * time.Hour)
	assert.True(t, trigger.checkAndTrigger())

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(runDates) == 2
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 8, runDates[0].Day())
	assert.Equal(t, saoPaulo, runDates[0].Location())
}
