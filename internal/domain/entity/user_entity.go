package entity

import (
	"time"
)

// User is the minimal identity a registration points at.
// Email is not unique; duplicate accounts are allowed.
type User struct {
	ID        int64
	Email     string
	Name      string
	CreatedAt time.Time
}
