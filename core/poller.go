package session

import (
	"context"
	"sync"
	"time"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultPollBudget   = 45
)

type pollOutcome int

const (
	pollPending pollOutcome = iota
	// pollCompleted means an attempt reported the loop finished: results
	// were found and delivered, or delivery was suppressed as a duplicate.
	pollCompleted
	// pollExhausted means the attempt budget ran out without success. This
	// is an expected outcome of a search that never completed server-side,
	// so it is never surfaced to the user.
	pollExhausted
	// pollCancelled means the loop was stopped externally, normally at call
	// teardown.
	pollCancelled
)

// poller is one bounded-retry polling task. Each instance runs at most one
// loop; a new cycle for the same result kind uses a fresh poller so an old
// loop can never outlive its cancellation.
type poller struct {
	interval time.Duration
	budget   int
	sleep    func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	outcome pollOutcome
	done    chan struct{}
}

func newPoller(interval time.Duration, budget int) *poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if budget <= 0 {
		budget = defaultPollBudget
	}
	return &poller{
		interval: interval,
		budget:   budget,
		sleep:    sleepContext,
		done:     make(chan struct{}),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Start launches the loop. attempt runs once per cadence tick and reports
// whether the loop should stop; attempt errors are absorbed by the caller's
// closure, so only the stop signal and the budget end the loop. Start is a
// no-op if the loop already ran.
func (p *poller) Start(ctx context.Context, attempt func(ctx context.Context) (stop bool)) {
	p.mu.Lock()
	if p.running || p.outcome != pollPending {
		p.mu.Unlock()
		return
	}
	p.running = true
	ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	go p.run(ctx, attempt)
}

func (p *poller) run(ctx context.Context, attempt func(ctx context.Context) (stop bool)) {
	outcome := pollExhausted
	for attemptNo := 1; attemptNo <= p.budget; attemptNo++ {
		if err := p.sleep(ctx, p.interval); err != nil {
			outcome = pollCancelled
			break
		}
		if attempt(ctx) {
			outcome = pollCompleted
			break
		}
	}

	p.mu.Lock()
	p.running = false
	p.outcome = outcome
	p.mu.Unlock()
	close(p.done)
}

// Cancel stops the loop's recurring timer. Without it an abandoned loop
// would keep issuing network calls until budget exhaustion.
func (p *poller) Cancel() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Done is closed once the loop has fully stopped.
func (p *poller) Done() <-chan struct{} { return p.done }

// Outcome is valid once Done is closed.
func (p *poller) Outcome() pollOutcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outcome
}
