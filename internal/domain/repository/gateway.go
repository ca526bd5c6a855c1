package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/event-registration/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique key.
	ErrDuplicate = errors.New("record already exists")
)

// EventRepository defines event persistence.
type EventRepository interface {
	InsertEvent(ctx context.Context, e *entity.Event) error
	FindEvent(ctx context.Context, id int64) (*entity.Event, error)
	// LockEvent loads the event and holds an exclusive lock on it until the
	// surrounding transaction ends. Only meaningful inside WithinEventTx.
	LockEvent(ctx context.Context, id int64) (*entity.Event, error)
	// ListEventsAfter returns events strictly after t ordered by datetime, then location.
	ListEventsAfter(ctx context.Context, t time.Time) ([]entity.Event, error)
}

// UserRepository defines user persistence.
type UserRepository interface {
	InsertUser(ctx context.Context, u *entity.User) error
	FindUser(ctx context.Context, id int64) (*entity.User, error)
}

// RegistrationRepository defines registration persistence.
type RegistrationRepository interface {
	InsertRegistration(ctx context.Context, userID, eventID int64) (*entity.Registration, error)
	DeleteRegistration(ctx context.Context, userID, eventID int64) (int64, error)
	FindRegistration(ctx context.Context, userID, eventID int64) (*entity.Registration, error)
	CountRegistrations(ctx context.Context, eventID int64) (int, error)
	ListRegistrants(ctx context.Context, eventID int64) ([]entity.Registrant, error)
}

// Queries is everything a gateway can run, either on the pool or inside a transaction.
type Queries interface {
	EventRepository
	UserRepository
	RegistrationRepository
}

// Gateway is the storage boundary shared by the application services.
type Gateway interface {
	Queries
	// WithinEventTx runs fn in a single transaction. Work done through the
	// passed Queries commits only if fn returns nil. Callers that read then
	// write must call LockEvent first.
	WithinEventTx(ctx context.Context, fn func(q Queries) error) error
	Close()
}
