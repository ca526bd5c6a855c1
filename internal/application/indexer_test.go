package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oksasatya/event-registration/internal/infrastructure/gatewaytest"
	"github.com/oksasatya/event-registration/internal/infrastructure/search"
	"github.com/oksasatya/event-registration/pkg/activity"
)

type capturingIndex struct {
	docs []search.EventDocument
}

func (c *capturingIndex) IndexEvent(_ context.Context, doc search.EventDocument) error {
	c.docs = append(c.docs, doc)
	return nil
}

func TestIndexerHandle(t *testing.T) {
	gw := openGateway(t)
	idx := &capturingIndex{}
	svc := NewIndexerService(gw, idx, nil)
	ctx := context.Background()

	ev := gatewaytest.MustEvent(t, gw, "Conf", "Lisbon", future, 10)
	u := gatewaytest.MustUser(t, gw, "a@example.com", "Ada")
	if _, err := NewRegistryService(gw, nil, nil, false).Register(ctx, u.ID, ev.ID); err != nil {
		t.Fatalf("register: %v", err)
	}

	msg := activity.Message{Type: activity.RegistrationCreated, EventID: ev.ID, UserID: u.ID, OccurredAt: time.Now()}
	if err := svc.Handle(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(idx.docs) != 1 || idx.docs[0].Registrations != 1 || idx.docs[0].Title != "Conf" {
		t.Fatalf("docs = %+v", idx.docs)
	}

	if err := svc.Handle(ctx, activity.Message{Type: activity.EventCreated, EventID: ev.ID + 50}); err != nil {
		t.Fatalf("missing event should be skipped: %v", err)
	}
	if len(idx.docs) != 1 {
		t.Fatal("missing event must not be indexed")
	}

	if err := svc.Handle(ctx, activity.Message{Type: "bogus", EventID: ev.ID}); !errors.Is(err, ErrBadMessage) {
		t.Fatalf("err = %v, want ErrBadMessage", err)
	}
}
