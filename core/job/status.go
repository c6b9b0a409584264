package job

import "time"

type State string

const (
	StateUnknown    State = "Unknown"
	StateInProgress State = "InProgress"
	StateCompleted  State = "Completed"
	StateFailed     State = "Failed"
	StateStopping   State = "Stopping"
	StateStopped    State = "Stopped"
)

func (s State) String() string {
	return string(s)
}

func StateFrom(state string) State {
	switch State(state) {
	case StateInProgress, StateCompleted, StateFailed, StateStopping, StateStopped:
		return State(state)
	default:
		return StateUnknown
	}
}

func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateStopped
}

type Status struct {
	Name          string
	ARN           string
	State         State
	FailureReason string
	CreatedAt     time.Time
	EndedAt       time.Time
}
