package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/san-kum/spinsim/internal/logging"
	"github.com/san-kum/spinsim/internal/solver"
)

// Method is an iterative algorithm bound to an image or a chain.
type Method interface {
	Kind() Kind
	// Iterate advances exactly one solver step.
	Iterate() error
	// Run iterates until the method finishes, is stopped or ctx is canceled.
	Run(ctx context.Context) error
	// Stop ends the method. Once it returns the target is no longer mutated.
	Stop()
	Status() Status
	// Done is closed when Run returns. It is never closed if Run is never called.
	Done() <-chan struct{}
}

// base implements the lifecycle shared by every method kind. Concrete kinds
// provide step, which performs one update and returns the convergence measure.
type base struct {
	kind      Kind
	solver    solver.Solver
	step      func() (float64, error)
	energy    func() float64
	threshold float64
	maxIter   int
	observers []Observer
	log       *logging.Logger

	// stepMu serializes Iterate and Stop.
	stepMu sync.Mutex

	mu        sync.RWMutex
	phase     Phase
	iteration int
	force     float64
	err       error

	stopOnce sync.Once
	stopCh   chan struct{}
	runOnce  sync.Once
	done     chan struct{}
}

func newBase(kind Kind, s solver.Solver, threshold float64, maxIter int) base {
	return base{
		kind:      kind,
		solver:    s,
		threshold: threshold,
		maxIter:   maxIter,
		log:       logging.NopLogger(),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (b *base) Kind() Kind { return b.kind }

func (b *base) Done() <-chan struct{} { return b.done }

func (b *base) Status() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Status{
		Kind:      b.kind,
		Solver:    b.solver.Name(),
		Phase:     b.phase,
		Iteration: b.iteration,
		Force:     b.force,
		Err:       b.err,
	}
}

func (b *base) currentPhase() Phase {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.phase
}

func (b *base) setPhase(p Phase) {
	b.mu.Lock()
	b.phase = p
	b.mu.Unlock()
}

func (b *base) Iterate() error {
	b.stepMu.Lock()
	defer b.stepMu.Unlock()

	switch b.currentPhase() {
	case Idle:
		b.resetSolver()
		b.setPhase(Running)
		b.log.Info("method started")
	case Running:
	default:
		return ErrFinished
	}

	measure, err := b.step()
	if err != nil {
		b.mu.Lock()
		b.phase = Failed
		b.err = err
		iter := b.iteration
		b.mu.Unlock()
		b.log.Error("method failed", "iteration", iter, "error", err)
		return err
	}

	b.mu.Lock()
	b.iteration++
	b.force = measure
	iter := b.iteration
	b.mu.Unlock()

	if len(b.observers) > 0 {
		s := Sample{Iteration: iter, Force: measure}
		if b.energy != nil {
			s.Energy = b.energy()
		}
		for _, o := range b.observers {
			o.OnIteration(s)
		}
	}

	switch {
	case measure < b.threshold:
		b.setPhase(Converged)
		b.log.Info("method converged", "iteration", iter, "force", measure)
	case b.maxIter > 0 && iter >= b.maxIter:
		b.setPhase(Stopped)
		b.log.Info("iteration limit reached", "iteration", iter, "force", measure)
	}
	return nil
}

func (b *base) Run(ctx context.Context) error {
	first := false
	b.runOnce.Do(func() { first = true })
	if !first {
		return ErrAlreadyRunning
	}
	defer close(b.done)

	for {
		select {
		case <-ctx.Done():
			b.Stop()
			return ctx.Err()
		case <-b.stopCh:
			return nil
		default:
		}

		if err := b.Iterate(); err != nil {
			if errors.Is(err, ErrFinished) {
				return nil
			}
			return err
		}
		if b.currentPhase().Terminal() {
			return nil
		}
	}
}

func (b *base) Stop() {
	b.stopOnce.Do(func() { close(b.stopCh) })

	b.stepMu.Lock()
	defer b.stepMu.Unlock()

	if b.currentPhase().Terminal() {
		return
	}
	b.setPhase(Stopped)
	b.log.Info("method stopped", "iteration", b.Status().Iteration)
}

// resetSolver clears solver memory such as the VP velocity.
func (b *base) resetSolver() {
	if r, ok := b.solver.(solver.Resetter); ok {
		r.Reset()
	}
}
