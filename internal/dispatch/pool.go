package dispatch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sideEffectTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "coursepay_side_effect_total",
	Help: "Side-effect task outcomes after retries",
}, []string{"task", "outcome"})

// Task is one best-effort side effect. Run is retried per the pool's
// policy; exhaustion is logged and counted, never surfaced to a caller.
type Task struct {
	Name string
	Run  func(context.Context) error
}

// Pool runs side effects detached from the request path. Submit never
// blocks; a full queue drops the task (and says so in the logs) rather
// than holding up a payment acknowledgement.
type Pool struct {
	tasks  chan Task
	logger *slog.Logger
	wg     sync.WaitGroup

	// Retry policy. Set before Start.
	Attempts int
	Backoff  Backoff
}

func NewPool(buffer int, logger *slog.Logger) *Pool {
	return &Pool{
		tasks:    make(chan Task, buffer),
		logger:   logger,
		Attempts: 3,
		Backoff:  ExponentialBackoff,
	}
}

func (p *Pool) Start(workers int) {
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		p.run(t)
	}
}

func (p *Pool) run(t Task) {
	if err := Retry(context.Background(), p.Attempts, p.Backoff, t.Run); err != nil {
		sideEffectTotal.WithLabelValues(t.Name, "failed").Inc()
		p.logger.Error("side effect failed after retries",
			"task", t.Name,
			"attempts", p.Attempts,
			"error", err,
		)
		return
	}
	sideEffectTotal.WithLabelValues(t.Name, "ok").Inc()
}

func (p *Pool) Submit(t Task) bool {
	select {
	case p.tasks <- t:
		return true
	default:
		return false
	}
}

func (p *Pool) Shutdown() {
	close(p.tasks)
	p.wg.Wait()
}
