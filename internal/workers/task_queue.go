package workers

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"wedding_backend/internal/logger"
)

var ErrQueueClosed = errors.New("task queue is closed")

// Task - фоновая работа (запись событий, письма-подтверждения)
type Task func(ctx context.Context) error

// Runner выполняет задачи вне запроса
type Runner interface {
	// Go ставит задачу в очередь. name попадает в логи.
	Go(ctx context.Context, name string, task Task) error
}

// TaskQueue - буферизированный канал и N воркеров
type TaskQueue struct {
	tasks  chan queuedTask
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

type queuedTask struct {
	ctx  context.Context
	name string
	task Task
}

func NewTaskQueue(workers, size int) *TaskQueue {
	if workers <= 0 {
		workers = 1
	}
	if size < 0 {
		size = 0
	}

	q := &TaskQueue{tasks: make(chan queuedTask, size)}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.loop()
	}
	return q
}

// Go не блокирует запрос: если буфер заполнен, задача отклоняется
func (q *TaskQueue) Go(ctx context.Context, name string, task Task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	// задача переживает завершение HTTP запроса, но сохраняет request_id
	qt := queuedTask{ctx: context.WithoutCancel(ctx), name: name, task: task}
	select {
	case q.tasks <- qt:
		return nil
	default:
		logger.CtxWarn(ctx, "task queue is full, dropping task", "task", name)
		return fmt.Errorf("task queue is full: %s", name)
	}
}

func (q *TaskQueue) loop() {
	defer q.wg.Done()
	for qt := range q.tasks {
		run(qt.ctx, qt.name, qt.task)
	}
}

// Shutdown перестает принимать задачи и ждет выполнения очереди
func (q *TaskQueue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InlineRunner выполняет задачу сразу, в текущей горутине (тесты, CLI)
type InlineRunner struct{}

func (InlineRunner) Go(ctx context.Context, name string, task Task) error {
	run(context.WithoutCancel(ctx), name, task)
	return nil
}

func run(ctx context.Context, name string, task Task) {
	defer func() {
		if r := recover(); r != nil {
			logger.CtxError(ctx, "background task panicked", "task", name, "panic", r, "stack", string(debug.Stack()))
		}
	}()

	if err := task(ctx); err != nil {
		logger.CtxWithError(ctx, "background task failed", err, "task", name)
	}
}
