package interp

import "fmt"

// Status is a handle's position in its lifecycle.
type Status int

const (
	// StatusCreated means the interpreter exists and no session holds it.
	StatusCreated Status = iota

	// StatusActive means a session currently holds the interpreter on some
	// goroutine.
	StatusActive

	// StatusFinalizing means destruction has been requested; no new session
	// may begin. The transition to StatusFinalized is immediate.
	StatusFinalizing

	// StatusFinalized means the underlying interpreter state has been freed.
	// A finalized handle is never reused.
	StatusFinalized
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusActive:
		return "active"
	case StatusFinalizing:
		return "finalizing"
	case StatusFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}
