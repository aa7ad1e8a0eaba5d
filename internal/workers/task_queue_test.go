package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTaskQueue_RunsTasksAndDrains(t *testing.T) {
	q := NewTaskQueue(2, 10)
	var count int32

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Go(context.Background(), "inc", func(ctx context.Context) error {
			atomic.AddInt32(&count, 1)
			return nil
		}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.Shutdown(ctx))
	assert.Equal(t, int32(5), atomic.LoadInt32(&count))

	assert.ErrorIs(t, q.Go(context.Background(), "late", func(ctx context.Context) error { return nil }), ErrQueueClosed)
}

func TestTaskQueue_SurvivesPanicAndRequestCancel(t *testing.T) {
	q := NewTaskQueue(1, 4)
	reqCtx, cancel := context.WithCancel(context.Background())

	var ran int32
	require.NoError(t, q.Go(reqCtx, "panics", func(ctx context.Context) error { panic("boom") }))
	require.NoError(t, q.Go(reqCtx, "after-cancel", func(ctx context.Context) error {
		if ctx.Err() == nil {
			atomic.StoreInt32(&ran, 1)
		}
		return errors.New("logged only")
	}))
	cancel()

	require.NoError(t, q.Shutdown(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestInlineRunner(t *testing.T) {
	called := false
	err := InlineRunner{}.Go(context.Background(), "inline", func(ctx context.Context) error {
		called = true
		panic("recovered")
	})
	assert.NoError(t, err)
	assert.True(t, called)
}

type fakeReminderRunner struct{ calls int }

func (f *fakeReminderRunner) RunAutoReminders(ctx context.Context, db *gorm.DB, now time.Time) (int, error) {
	f.calls++
	return 3, nil
}

func TestReminderWorker_RunOnce(t *testing.T) {
	runner := &fakeReminderRunner{}
	w := NewReminderWorker(&gorm.DB{}, runner, 0)
	assert.Equal(t, time.Hour, w.interval)
	assert.Equal(t, 3, w.RunOnce(context.Background()))
	assert.Equal(t, 1, runner.calls)
}
