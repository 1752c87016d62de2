package payment

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusCanceled:
		return true
	default:
		return false
	}
}

// IsSettled reports whether the payment reached a terminal state.
func (s Status) IsSettled() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCanceled
}
