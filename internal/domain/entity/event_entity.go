package entity

import "time"

const (
	MinCapacity = 1
	MaxCapacity = 1000

	// MaxTextLength bounds titles, locations, names and e-mails in characters.
	MaxTextLength = 255
)

// Event is a scheduled occurrence with a fixed capacity.
// Events are immutable once created.
type Event struct {
	ID        int64
	Title     string
	Datetime  time.Time
	Location  string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// IsPast reports whether the event started strictly before now.
func (e *Event) IsPast(now time.Time) bool {
	return e.Datetime.Before(now)
}

// IsUpcoming reports whether the event is strictly after now.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.Datetime.After(now)
}

// EventStats summarises how much of an event's capacity is taken.
type EventStats struct {
	EventID                int64
	EventTitle             string
	TotalRegistrations     int
	RemainingCapacity      int
	PercentageCapacityUsed float64
}
