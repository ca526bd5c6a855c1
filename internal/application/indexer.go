package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/event-registration/internal/domain/repository"
	"github.com/oksasatya/event-registration/internal/infrastructure/search"
	"github.com/oksasatya/event-registration/pkg/activity"
	"github.com/oksasatya/event-registration/pkg/helpers"
)

// ErrBadMessage marks an activity message that can never be processed.
var ErrBadMessage = errors.New("invalid activity message")

// EventDocumentWriter stores search documents. *search.EventIndex satisfies it.
type EventDocumentWriter interface {
	IndexEvent(ctx context.Context, doc search.EventDocument) error
}

// IndexerService keeps the search index in step with activity messages.
type IndexerService struct {
	Gateway repo.Gateway
	Index   EventDocumentWriter
	Logger  *logrus.Logger
}

func NewIndexerService(gw repo.Gateway, index EventDocumentWriter, logger *logrus.Logger) *IndexerService {
	return &IndexerService{Gateway: gw, Index: index, Logger: logger}
}

// Handle reindexes the event msg refers to with its current registration count.
// Messages for events that no longer exist are dropped.
func (s *IndexerService) Handle(ctx context.Context, msg activity.Message) error {
	if !msg.Valid() {
		return ErrBadMessage
	}
	ev, err := s.Gateway.FindEvent(ctx, msg.EventID)
	if errors.Is(err, repo.ErrNotFound) {
		helpers.LogInfo(s.Logger, "skip activity for missing event", logrus.Fields{"event_id": msg.EventID, "type": msg.Type})
		return nil
	}
	if err != nil {
		return err
	}
	count, err := s.Gateway.CountRegistrations(ctx, ev.ID)
	if err != nil {
		return err
	}
	return s.Index.IndexEvent(ctx, search.EventDocument{
		ID:            ev.ID,
		Title:         ev.Title,
		Location:      ev.Location,
		Datetime:      ev.Datetime.UTC(),
		Capacity:      ev.Capacity,
		Registrations: count,
	})
}
