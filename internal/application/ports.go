package application

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/oksasatya/event-registration/internal/infrastructure/search"
	"github.com/oksasatya/event-registration/pkg/activity"
	"github.com/oksasatya/event-registration/pkg/apperror"
	"github.com/oksasatya/event-registration/pkg/helpers"
)

var tracer = otel.Tracer("github.com/oksasatya/event-registration/internal/application")

// ActivityPublisher puts activity messages on the queue. *helpers.RabbitPublisher satisfies it.
type ActivityPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// EventSearcher is the free-text event lookup. *search.EventIndex satisfies it.
type EventSearcher interface {
	Search(ctx context.Context, q string, size int) ([]search.EventDocument, error)
}

// ObjectUploader stores an object and returns its public URL.
type ObjectUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// publishActivity sends msg after a commit. Failures never fail the request.
func publishActivity(ctx context.Context, pub ActivityPublisher, logger *logrus.Logger, msg activity.Message) {
	if pub == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := pub.PublishJSON(pctx, msg); err != nil {
		helpers.LogError(logger, "publish activity failed", err, logrus.Fields{
			"type":     msg.Type,
			"event_id": msg.EventID,
			"user_id":  msg.UserID,
		})
	}
}

// classify keeps classified errors and wraps everything else as internal.
func classify(err error, message string) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Internal(message, err)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperror.KindOf(err)))
	}
	span.End()
}
