package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrFinished is returned by Iterate once a method reached a terminal phase.
	ErrFinished = errors.New("engine: method already finished")

	// ErrStaleTarget indicates the image or chain a method was bound to changed under it.
	ErrStaleTarget = errors.New("engine: method target no longer exists")

	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("engine: method is already running")
)

// Kind selects a method implementation.
type Kind string

const (
	Relaxation     Kind = "llg"
	PathRelaxation Kind = "gneb"
	ModeFollowing  Kind = "mmf"
)

// ChainScoped reports whether the kind binds to a whole chain instead of one image.
func (k Kind) ChainScoped() bool { return k == PathRelaxation }

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Relaxation, PathRelaxation, ModeFollowing:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown method: %s", s)
}

func Kinds() []Kind {
	return []Kind{Relaxation, PathRelaxation, ModeFollowing}
}

type Phase int32

const (
	Idle Phase = iota
	Running
	Converged
	Stopped
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Converged:
		return "converged"
	case Stopped:
		return "stopped"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int32(p))
}

// Terminal phases release the method's hold on its target.
func (p Phase) Terminal() bool {
	return p == Converged || p == Stopped || p == Failed
}

// Live reports whether the method still occupies its slot.
func (p Phase) Live() bool { return !p.Terminal() }

type Status struct {
	Kind      Kind
	Solver    string
	Phase     Phase
	Iteration int
	// Force is the last convergence measure.
	Force float64
	// Err holds the diagnostic of a failed method.
	Err error
}

// Sample is reported to observers after every iteration.
type Sample struct {
	Iteration int
	Force     float64
	Energy    float64
}

// Observer is notified synchronously from the method's goroutine. It must not
// call Stop on the method it observes.
type Observer interface {
	OnIteration(s Sample)
}
