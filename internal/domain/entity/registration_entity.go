package entity

import "time"

// Registration reserves one slot of an event for one user.
// (UserID, EventID) is unique.
type Registration struct {
	UserID       int64
	EventID      int64
	RegisteredAt time.Time
}

// Registrant is a registration joined with the registered user.
type Registrant struct {
	UserID       int64
	Name         string
	Email        string
	RegisteredAt time.Time
}
