package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/oksasatya/event-registration/internal/domain/entity"
	repo "github.com/oksasatya/event-registration/internal/domain/repository"
	"github.com/oksasatya/event-registration/pkg/activity"
	"github.com/oksasatya/event-registration/pkg/apperror"
	"github.com/oksasatya/event-registration/pkg/helpers"
)

// RegistryService owns every decision about who holds a slot of an event.
// Register and Cancel run their checks and their write in one transaction
// that holds the event lock, so concurrent calls for the same event serialize.
type RegistryService struct {
	Gateway   repo.Gateway
	Publisher ActivityPublisher
	Logger    *logrus.Logger
	// Now is the wall clock; tests pin it.
	Now func() time.Time
	// AllowPastCancellation lets users drop registrations of events that already started.
	AllowPastCancellation bool
}

func NewRegistryService(gw repo.Gateway, pub ActivityPublisher, logger *logrus.Logger, allowPastCancellation bool) *RegistryService {
	return &RegistryService{
		Gateway:               gw,
		Publisher:             pub,
		Logger:                logger,
		Now:                   time.Now,
		AllowPastCancellation: allowPastCancellation,
	}
}

func (s *RegistryService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func validateIDs(userID, eventID int64) error {
	if userID <= 0 {
		return apperror.InvalidArgument("invalid userId provided")
	}
	if eventID <= 0 {
		return apperror.InvalidArgument("invalid eventId provided")
	}
	return nil
}

// loadParties locks the event and loads the user, in that order.
func loadParties(ctx context.Context, q repo.Queries, userID, eventID int64) (*entity.Event, error) {
	ev, err := q.LockEvent(ctx, eventID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.NotFound("event not found")
	}
	if err != nil {
		return nil, apperror.Internal("failed to load event", err)
	}
	_, err = q.FindUser(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.NotFound("user not found")
	}
	if err != nil {
		return nil, apperror.Internal("failed to load user", err)
	}
	return ev, nil
}

// Register reserves one slot of eventID for userID.
func (s *RegistryService) Register(ctx context.Context, userID, eventID int64) (reg *entity.Registration, err error) {
	if err := validateIDs(userID, eventID); err != nil {
		countRejection(err)
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "RegistryService.Register")
	span.SetAttributes(attribute.Int64("user.id", userID), attribute.Int64("event.id", eventID))
	defer func() { endSpan(span, err) }()

	err = s.Gateway.WithinEventTx(ctx, func(q repo.Queries) error {
		ev, err := loadParties(ctx, q, userID, eventID)
		if err != nil {
			return err
		}
		if ev.IsPast(s.now()) {
			return apperror.Forbidden("cannot register for a past event")
		}

		_, err = q.FindRegistration(ctx, userID, eventID)
		switch {
		case err == nil:
			return apperror.Conflict("user is already registered for this event")
		case !errors.Is(err, repo.ErrNotFound):
			return apperror.Internal("failed to check registration", err)
		}

		count, err := q.CountRegistrations(ctx, eventID)
		if err != nil {
			return apperror.Internal("failed to count registrations", err)
		}
		if count >= ev.Capacity {
			return apperror.Forbidden("event capacity reached")
		}

		reg, err = q.InsertRegistration(ctx, userID, eventID)
		if errors.Is(err, repo.ErrDuplicate) {
			return apperror.Conflict("user is already registered for this event")
		}
		if err != nil {
			return apperror.Internal("failed to register for event", err)
		}
		return nil
	})
	if err != nil {
		err = classify(err, "failed to register for event")
		countRejection(err)
		if apperror.KindOf(err) == apperror.KindInternal {
			helpers.LogError(s.Logger, "register failed", err, logrus.Fields{"user_id": userID, "event_id": eventID})
		}
		return nil, err
	}

	registrationsTotal.Add(1)
	publishActivity(ctx, s.Publisher, s.Logger, activity.Message{
		Type:       activity.RegistrationCreated,
		EventID:    eventID,
		UserID:     userID,
		OccurredAt: reg.RegisteredAt,
	})
	return reg, nil
}

// Cancel releases the slot userID holds for eventID.
func (s *RegistryService) Cancel(ctx context.Context, userID, eventID int64) (err error) {
	if err := validateIDs(userID, eventID); err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "RegistryService.Cancel")
	span.SetAttributes(attribute.Int64("user.id", userID), attribute.Int64("event.id", eventID))
	defer func() { endSpan(span, err) }()

	err = s.Gateway.WithinEventTx(ctx, func(q repo.Queries) error {
		ev, err := loadParties(ctx, q, userID, eventID)
		if err != nil {
			return err
		}
		if !s.AllowPastCancellation && ev.IsPast(s.now()) {
			return apperror.Forbidden("cannot cancel a registration for a past event")
		}

		_, err = q.FindRegistration(ctx, userID, eventID)
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("registration not found")
		}
		if err != nil {
			return apperror.Internal("failed to check registration", err)
		}

		n, err := q.DeleteRegistration(ctx, userID, eventID)
		if err != nil {
			return apperror.Internal("failed to cancel registration", err)
		}
		if n == 0 {
			return apperror.Internal("failed to cancel registration", errors.New("registration vanished before delete"))
		}
		return nil
	})
	if err != nil {
		err = classify(err, "failed to cancel registration")
		if apperror.KindOf(err) == apperror.KindInternal {
			helpers.LogError(s.Logger, "cancel failed", err, logrus.Fields{"user_id": userID, "event_id": eventID})
		}
		return err
	}

	cancellationsTotal.Add(1)
	publishActivity(ctx, s.Publisher, s.Logger, activity.Message{
		Type:       activity.RegistrationCancelled,
		EventID:    eventID,
		UserID:     userID,
		OccurredAt: s.now().UTC(),
	})
	return nil
}
