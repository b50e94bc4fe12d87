package status

import "errors"

var ErrInvalidTransition = errors.New("invalid status transition")

// Status is the processing state shared by reports and reconciliation runs.
type Status string

const (
	Pending    Status = "PENDING"
	Processing Status = "PROCESSING"
	Completed  Status = "COMPLETED"
	Error      Status = "ERROR"
)

var transitions = map[Status][]Status{
	Pending:    {Processing, Error},
	Processing: {Completed, Error},
	Error:      {Pending},
}

// CanTransition reports whether moving from one status to another is allowed.
// ERROR only goes back to PENDING through a manual retry.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}

	return false
}

// Check returns ErrInvalidTransition when from cannot move to to.
func Check(from, to Status) error {
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}

	return nil
}
