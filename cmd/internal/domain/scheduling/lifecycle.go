package scheduling

import "errors"

var (
	ErrUnknownStatus     = errors.New("unknown appointment status")
	ErrTerminalStatus    = errors.New("appointment is already in a terminal status")
	ErrInvalidTransition = errors.New("status transition is not allowed")
)

type Status string

const (
	StatusScheduled  Status = "Scheduled"
	StatusConfirmed  Status = "Confirmed"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
	StatusNoShow     Status = "No Show"
)

// OccupyingStatuses hold their slot; any other status frees it.
var OccupyingStatuses = []Status{StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted}

// forward is the forward path of an appointment that is not abandoned.
var forward = map[Status]Status{
	StatusScheduled:  StatusConfirmed,
	StatusConfirmed:  StatusInProgress,
	StatusInProgress: StatusCompleted,
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return st, nil
	}
	return "", ErrUnknownStatus
}

func (s Status) Occupying() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// CanTransition reports whether an appointment in from may move to to.
func CanTransition(from, to Status) error {
	if _, err := ParseStatus(string(to)); err != nil {
		return err
	}
	if from.Terminal() {
		return ErrTerminalStatus
	}
	if to == StatusCancelled || to == StatusNoShow {
		return nil
	}
	if forward[from] == to {
		return nil
	}
	return ErrInvalidTransition
}
