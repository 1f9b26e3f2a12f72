package order

// Status is the lifecycle state of an order. Transitions are set-and-log:
// any non-terminal order may move to any status, Cancelled included. An
// order reaching a terminal status moves from the active set to history.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusConfirmed  Status = "confirmed"
	StatusPreparing  Status = "preparing"
	StatusReady      Status = "ready"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether the status ends the order's active life.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusConfirmed,
		StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
