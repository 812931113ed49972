package workers

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"paymentservice/internal/metrics"
)

// Pool runs fire-and-forget tasks on a fixed number of goroutines fed by a
// bounded queue. Submit never blocks: when the queue is full the task is
// dropped with a warning.
type Pool struct {
	name    string
	size    int
	queue   chan func(ctx context.Context)
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewPool(name string, size, capacity int, m *metrics.Metrics, logger *zap.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	if capacity < 0 {
		capacity = 0
	}
	return &Pool{
		name:    name,
		size:    size,
		queue:   make(chan func(ctx context.Context), capacity),
		metrics: m,
		logger:  logger.With(zap.String("pool", name)),
	}
}

func (p *Pool) Start() {
	for range p.size {
		p.wg.Add(1)
		go p.run()
	}
}

// Stop rejects further submissions, lets queued tasks finish and waits for
// the workers to exit.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) Submit(task func(ctx context.Context)) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Warn("Pool is stopped, dropping task")
		p.metrics.TaskDropped(p.name)
		return false
	}

	select {
	case p.queue <- task:
		return true
	default:
		p.logger.Warn("Submit queue is full, dropping task")
		p.metrics.TaskDropped(p.name)
		return false
	}
}

func (p *Pool) run() {
	defer p.wg.Done()

	ctx := context.Background()
	for task := range p.queue {
		p.execute(ctx, task)
	}
}

func (p *Pool) execute(ctx context.Context, task func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Task panicked", zap.Any("panic", r))
		}
	}()
	task(ctx)
}
