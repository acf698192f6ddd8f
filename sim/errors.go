package sim

import "errors"

// Engine contract violations. None of these are recoverable by retrying:
// the engine is deterministic, so the same inputs reproduce the same failure.
var (
	// ErrInvalidDelay is returned when a wake-up is scheduled with a negative or NaN delay.
	ErrInvalidDelay = errors.New("invalid delay")

	// ErrInvalidMean is returned when a variate is sampled with a non-positive mean.
	ErrInvalidMean = errors.New("invalid mean")

	// ErrClockRegression is returned when the scheduler extracts an event due
	// before the current clock. It indicates a scheduler bug.
	ErrClockRegression = errors.New("clock regression")

	// ErrInvalidCapacity is returned when a Resource is created with capacity <= 0.
	ErrInvalidCapacity = errors.New("invalid capacity")

	// ErrNotHeld is returned when a process releases a resource it does not hold.
	ErrNotHeld = errors.New("resource not held")

	// ErrProcessFinished is returned when a wake-up is scheduled for a finished process.
	ErrProcessFinished = errors.New("process finished")

	// ErrNotRunning is returned when a process suspends outside of its own Resume call.
	ErrNotRunning = errors.New("process not running")
)
