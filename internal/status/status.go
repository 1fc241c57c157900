// Package status ranks pipeline and job statuses and condenses the jobs of a
// pipeline into one representative status per stage.
package status

import (
	"fmt"
	"strings"

	"github.com/codewandler/pipeman/internal/apperr"
)

type Status = string

const (
	Created            Status = "created"
	WaitingForResource Status = "waiting_for_resource"
	WaitingForCallback Status = "waiting_for_callback"
	Preparing          Status = "preparing"
	Pending            Status = "pending"
	Scheduled          Status = "scheduled"
	Skipped            Status = "skipped"
	Manual             Status = "manual"
	Canceling          Status = "canceling"
	Canceled           Status = "canceled"
	Warning            Status = "warning"
	Running            Status = "running"
	Success            Status = "success"
	Failed             Status = "failed"
)

// DefaultPrecedence lists statuses from least to most attention-worthy.
// The representative status of a stage is the maximum under this order.
var DefaultPrecedence = []Status{
	Created,
	WaitingForResource,
	WaitingForCallback,
	Preparing,
	Pending,
	Scheduled,
	Skipped,
	Manual,
	Canceling,
	Canceled,
	Warning,
	Running,
	Success,
	Failed,
}

// Order is a total order over status strings
type Order struct {
	rank  map[Status]int
	names []Status
}

// Default returns the order built from DefaultPrecedence
func Default() *Order {
	o, err := NewOrder(DefaultPrecedence)
	if err != nil {
		panic(err)
	}
	return o
}

// NewOrder builds an order from statuses listed lowest first. Statuses are
// case-insensitive; duplicates and empty names are rejected.
func NewOrder(statuses []Status) (*Order, error) {
	if len(statuses) == 0 {
		return nil, &apperr.ConfigurationError{Key: "status order", Reason: "empty"}
	}

	o := &Order{rank: make(map[Status]int, len(statuses))}
	for i, s := range statuses {
		s = canonical(s)
		if s == "" {
			return nil, &apperr.ConfigurationError{Key: "status order", Reason: fmt.Sprintf("empty status at position %d", i)}
		}
		if _, dup := o.rank[s]; dup {
			return nil, &apperr.ConfigurationError{Key: "status order", Reason: fmt.Sprintf("duplicate status %q", s)}
		}
		o.rank[s] = i
		o.names = append(o.names, s)
	}
	return o, nil
}

// Statuses returns the order lowest first
func (o *Order) Statuses() []Status {
	return append([]Status(nil), o.names...)
}

// Rank returns the position of s in the order
func (o *Order) Rank(s Status) (int, error) {
	r, ok := o.rank[canonical(s)]
	if !ok {
		return 0, &apperr.UnknownStatusError{Status: s}
	}
	return r, nil
}

// Max returns whichever of a and b ranks higher, in canonical form
func (o *Order) Max(a, b Status) (Status, error) {
	ra, err := o.Rank(a)
	if err != nil {
		return "", err
	}
	rb, err := o.Rank(b)
	if err != nil {
		return "", err
	}
	if rb > ra {
		return canonical(b), nil
	}
	return canonical(a), nil
}

func canonical(s Status) Status {
	return strings.ToLower(strings.TrimSpace(s))
}
