package domain

// Status represents the order status.
type Status string

const (
	StatusPlaced    Status = "PLACED"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusPlaced, StatusPaid, StatusShipped, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the order may move from s to next.
// Orders only move forward: PLACED -> PAID -> SHIPPED, or PLACED -> CANCELLED.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPlaced:
		return next == StatusPaid || next == StatusCancelled
	case StatusPaid:
		return next == StatusShipped
	default:
		return false
	}
}
