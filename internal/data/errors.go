package data

import (
	"errors"
	"fmt"
)

// Domain errors for simulation state and method operations.
var (
	// ErrNotInitialized indicates a missing or torn-down state or chain.
	ErrNotInitialized = errors.New("spinsim: system not initialized")

	// ErrIndexOutOfRange indicates an image or chain index beyond the current count.
	ErrIndexOutOfRange = errors.New("spinsim: index out of range")

	// ErrSlotBusy indicates a dispatch onto a slot that already holds a live method.
	ErrSlotBusy = errors.New("spinsim: slot busy")

	// ErrImageBusy indicates a clipboard or chain edit on an image that is being simulated.
	ErrImageBusy = errors.New("spinsim: image busy")

	// ErrIncompatibleGeometry indicates mismatched numbers of spins.
	ErrIncompatibleGeometry = errors.New("spinsim: incompatible geometry")

	// ErrNumericFailure indicates a solver produced a non-finite state.
	ErrNumericFailure = errors.New("spinsim: numeric failure (NaN or Inf detected)")

	// ErrNotImplemented indicates an unsupported method or solver kind.
	ErrNotImplemented = errors.New("spinsim: not implemented")

	// ErrEmptyClipboard indicates a paste with nothing copied.
	ErrEmptyClipboard = errors.New("spinsim: clipboard is empty")

	// ErrLastImage indicates an attempt to remove the only image of a chain.
	ErrLastImage = errors.New("spinsim: cannot remove the last image of a chain")

	// ErrEmptyChain indicates a chain constructed without images.
	ErrEmptyChain = errors.New("spinsim: chain needs at least one image")
)

// Error wraps a domain error with the operation that produced it.
type Error struct {
	Op     string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds an *Error for op wrapping the sentinel err.
func Errorf(op string, err error, format string, args ...any) error {
	return &Error{Op: op, Err: err, Detail: fmt.Sprintf(format, args...)}
}

var kinds = []struct {
	err  error
	name string
}{
	{ErrNotInitialized, "NotInitialized"},
	{ErrIndexOutOfRange, "IndexOutOfRange"},
	{ErrSlotBusy, "SlotBusy"},
	{ErrImageBusy, "ImageBusy"},
	{ErrIncompatibleGeometry, "IncompatibleGeometry"},
	{ErrNumericFailure, "NumericFailure"},
	{ErrNotImplemented, "NotImplemented"},
	{ErrEmptyClipboard, "EmptyClipboard"},
	{ErrLastImage, "LastImage"},
	{ErrEmptyChain, "EmptyChain"},
}

// KindOf names the domain error kind err wraps, "" for nil and "Unknown" otherwise.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Unknown"
}
