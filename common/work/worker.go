package work

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidChannelSize = errors.New("invalid channel size")
	ErrPoolStopped        = errors.New("worker pool has been stopped")
	ErrTaskTimeout        = errors.New("task execution timeout")
)

// TaskResult represents the result of a task execution
type TaskResult[T any] struct {
	TaskID   string
	Result   T
	Error    error
	Duration time.Duration
}

// IsSuccess returns true if the task completed successfully
func (tr *TaskResult[T]) IsSuccess() bool {
	return tr.Error == nil
}

// Executor is the interface every task submitted to the pool satisfies
type Executor[T any] interface {
	ExecutorID() string
	Execute(ctx context.Context) (T, error)
	OnError(error)
	Timeout() time.Duration // 0 means use pool default
}

// Pool is a fixed-size generic worker pool
type Pool[T any] struct {
	numWorkers  int
	taskTimeout time.Duration
	tasks       chan Executor[T]
	results     chan TaskResult[T]
	quit        chan struct{}
	wg          sync.WaitGroup
	startOnce   sync.Once
	stopOnce    sync.Once

	mu      sync.RWMutex
	started bool
	stopped bool
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool[T any](numWorkers, taskChannelSize int) (*Pool[T], error) {
	if numWorkers <= 0 {
		return nil, ErrInvalidWorkerCount
	}
	if taskChannelSize < 0 {
		return nil, ErrInvalidChannelSize
	}

	return &Pool[T]{
		numWorkers:  numWorkers,
		taskTimeout: 30 * time.Second,
		tasks:       make(chan Executor[T], taskChannelSize),
		results:     make(chan TaskResult[T], numWorkers*2),
		quit:        make(chan struct{}),
	}, nil
}

// Start starts the worker goroutines
func (p *Pool[T]) Start(ctx context.Context, poolID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.stopped {
		return
	}

	p.startOnce.Do(func() {
		p.started = true
		for i := 0; i < p.numWorkers; i++ {
			p.wg.Add(1)
			go p.runWorker(ctx, poolID, i)
		}
		log.Info().
			Str("workerPoolID", poolID).
			Int("numWorkers", p.numWorkers).
			Msg("Worker pool started")
	})
}

// Stop gracefully stops the worker pool
func (p *Pool[T]) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	p.stopOnce.Do(func() {
		close(p.quit)
		close(p.tasks)
		p.wg.Wait()
		close(p.results)
	})
}

// AddTask submits a task, blocking until the queue accepts it
func (p *Pool[T]) AddTask(ctx context.Context, task Executor[T]) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.tasks <- task:
		return nil
	case <-p.quit:
		return ErrPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results returns the results channel
func (p *Pool[T]) Results() <-chan TaskResult[T] {
	return p.results
}

func (p *Pool[T]) runWorker(ctx context.Context, poolID string, workerID int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.quit:
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			p.executeTask(ctx, task, poolID, workerID)
		}
	}
}

func (p *Pool[T]) executeTask(ctx context.Context, task Executor[T], poolID string, workerID int) {
	timeout := p.taskTimeout
	if taskTimeout := task.Timeout(); taskTimeout > 0 {
		timeout = taskTimeout
	}

	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	result, err := task.Execute(taskCtx)
	duration := time.Since(start)

	if err != nil && (errors.Is(err, context.DeadlineExceeded) || taskCtx.Err() == context.DeadlineExceeded) {
		err = ErrTaskTimeout
	}

	if err != nil {
		task.OnError(err)
	}

	taskResult := TaskResult[T]{
		TaskID:   task.ExecutorID(),
		Result:   result,
		Error:    err,
		Duration: duration,
	}

	// Deliver the result without blocking a shutting-down pool.
	select {
	case p.results <- taskResult:
	case <-p.quit:
		log.Debug().
			Str("taskID", task.ExecutorID()).
			Msg("Pool shutting down, dropping result")
	}

	log.Debug().
		Str("workerPoolID", poolID).
		Int("workerID", workerID).
		Str("taskID", task.ExecutorID()).
		Dur("duration", duration).
		Bool("success", err == nil).
		Msg("Task completed")
}
