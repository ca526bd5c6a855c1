// Package gatewaytest holds behaviour checks every repository.Gateway
// implementation must pass.
package gatewaytest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oksasatya/event-registration/internal/domain/entity"
	"github.com/oksasatya/event-registration/internal/domain/repository"
)

// Factory returns a gateway over an empty schema. It should register cleanup with t.
type Factory func(t *testing.T) repository.Gateway

// Run executes the full suite.
func Run(t *testing.T, newGateway Factory) {
	t.Run("event round trip", func(t *testing.T) { testEventRoundTrip(t, newGateway(t)) })
	t.Run("text at length limit", func(t *testing.T) { testTextAtLimit(t, newGateway(t)) })
	t.Run("missing rows", func(t *testing.T) { testMissingRows(t, newGateway(t)) })
	t.Run("list events after", func(t *testing.T) { testListEventsAfter(t, newGateway(t)) })
	t.Run("registration lifecycle", func(t *testing.T) { testRegistrationLifecycle(t, newGateway(t)) })
	t.Run("foreign keys", func(t *testing.T) { testForeignKeys(t, newGateway(t)) })
	t.Run("rollback on error", func(t *testing.T) { testRollback(t, newGateway(t)) })
	t.Run("locked check and insert", func(t *testing.T) { testLockedCheckAndInsert(t, newGateway(t)) })
}

// MustEvent inserts an event or fails the test.
func MustEvent(t *testing.T, gw repository.Gateway, title, location string, at time.Time, capacity int) *entity.Event {
	t.Helper()
	e := &entity.Event{Title: title, Datetime: at, Location: location, Capacity: capacity}
	if err := gw.InsertEvent(context.Background(), e); err != nil {
		t.Fatalf("insert event: %v", err)
	}
	return e
}

// MustUser inserts a user or fails the test.
func MustUser(t *testing.T, gw repository.Gateway, email, name string) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, Name: name}
	if err := gw.InsertUser(context.Background(), u); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return u
}

func testEventRoundTrip(t *testing.T, gw repository.Gateway) {
	ctx := context.Background()
	at := time.Date(2030, time.May, 4, 18, 30, 0, 0, time.UTC)
	e := MustEvent(t, gw, "GopherCon", "Berlin", at, 250)
	if e.ID <= 0 {
		t.Fatalf("id = %d, want positive", e.ID)
	}

	got, err := gw.FindEvent(ctx, e.ID)
	if err != nil {
		t.Fatalf("find event: %v", err)
	}
	if got.Title != "GopherCon" || got.Location != "Berlin" || got.Capacity != 250 {
		t.Fatalf("event = %+v", got)
	}
	if !got.Datetime.Equal(at) {
		t.Fatalf("datetime = %v, want %v", got.Datetime, at)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}

	u := MustUser(t, gw, "ada@example.com", "Ada")
	dup := MustUser(t, gw, "ada@example.com", "Ada Again")
	if u.ID == dup.ID {
		t.Fatal("duplicate e-mail should still create a distinct user")
	}
	gotUser, err := gw.FindUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if gotUser.Email != "ada@example.com" || gotUser.Name != "Ada" {
		t.Fatalf("user = %+v", gotUser)
	}
}

func testTextAtLimit(t *testing.T, gw repository.Gateway) {
	ctx := context.Background()
	title := strings.Repeat("é", entity.MaxTextLength)
	location := strings.Repeat("l", entity.MaxTextLength)
	at := time.Date(2030, time.May, 4, 18, 30, 0, 123_000_000, time.UTC)
	e := MustEvent(t, gw, title, location, at, 1)

	got, err := gw.FindEvent(ctx, e.ID)
	if err != nil {
		t.Fatalf("find event: %v", err)
	}
	if got.Title != title || got.Location != location || !got.Datetime.Equal(at) {
		t.Fatalf("event = %q/%q/%v", got.Title, got.Location, got.Datetime)
	}

	name := strings.Repeat("n", entity.MaxTextLength)
	email := strings.Repeat("e", entity.MaxTextLength-len("@example.com")) + "@example.com"
	u := MustUser(t, gw, email, name)
	gotUser, err := gw.FindUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if gotUser.Email != email || gotUser.Name != name {
		t.Fatal("user text truncated")
	}
}

func testMissingRows(t *testing.T, gw repository.Gateway) {
	ctx := context.Background()
	if _, err := gw.FindEvent(ctx, 404); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("find event err = %v, want ErrNotFound", err)
	}
	if _, err := gw.FindUser(ctx, 404); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("find user err = %v, want ErrNotFound", err)
	}
	if _, err := gw.FindRegistration(ctx, 1, 1); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("find registration err = %v, want ErrNotFound", err)
	}
	n, err := gw.DeleteRegistration(ctx, 1, 1)
	if err != nil || n != 0 {
		t.Fatalf("delete = (%d, %v), want (0, nil)", n, err)
	}
}

func testListEventsAfter(t *testing.T, gw repository.Gateway) {
	ctx := context.Background()
	now := time.Date(2030, time.January, 1, 12, 0, 0, 0, time.UTC)
	MustEvent(t, gw, "past", "Oslo", now.Add(-time.Hour), 10)
	MustEvent(t, gw, "now", "Oslo", now, 10)
	MustEvent(t, gw, "later-b", "Bergen", now.Add(2*time.Hour), 10)
	MustEvent(t, gw, "soon", "Zurich", now.Add(time.Hour), 10)
	MustEvent(t, gw, "later-a", "Amsterdam", now.Add(2*time.Hour), 10)

	events, err := gw.ListEventsAfter(ctx, now)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"soon", "later-a", "later-b"}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, title := range want {
		if events[i].Title != title {
			t.Fatalf("events[%d] = %q, want %q", i, events[i].Title, title)
		}
	}

	empty, err := gw.ListEventsAfter(ctx, now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", empty)
	}
}

func testRegistrationLifecycle(t *testing.T, gw repository.Gateway) {
	ctx := context.Background()
	e := MustEvent(t, gw, "Meetup", "Lisbon", time.Now().Add(48*time.Hour), 5)
	u := MustUser(t, gw, "grace@example.com", "Grace")

	r, err := gw.InsertRegistration(ctx, u.ID, e.ID)
	if err != nil {
		t.Fatalf("insert registration: %v", err)
	}
	if r.RegisteredAt.IsZero() {
		t.Fatal("registered_at not set")
	}
	if _, err := gw.InsertRegistration(ctx, u.ID, e.ID); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("duplicate insert err = %v, want ErrDuplicate", err)
	}
	if n, err := gw.CountRegistrations(ctx, e.ID); err != nil || n != 1 {
		t.Fatalf("count = (%d, %v), want (1, nil)", n, err)
	}
	if _, err := gw.FindRegistration(ctx, u.ID, e.ID); err != nil {
		t.Fatalf("find registration: %v", err)
	}

	registrants, err := gw.ListRegistrants(ctx, e.ID)
	if err != nil {
		t.Fatalf("list registrants: %v", err)
	}
	if len(registrants) != 1 || registrants[0].Email != "grace@example.com" {
		t.Fatalf("registrants = %+v", registrants)
	}

	n, err := gw.DeleteRegistration(ctx, u.ID, e.ID)
	if err != nil || n != 1 {
		t.Fatalf("delete = (%d, %v), want (1, nil)", n, err)
	}
	if n, err := gw.CountRegistrations(ctx, e.ID); err != nil || n != 0 {
		t.Fatalf("count after delete = (%d, %v), want (0, nil)", n, err)
	}
}

func testForeignKeys(t *testing.T, gw repository.Gateway) {
	ctx := context.Background()
	e := MustEvent(t, gw, "Meetup", "Lisbon", time.Now().Add(48*time.Hour), 5)
	if _, err := gw.InsertRegistration(ctx, 999999, e.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("insert for unknown user err = %v, want ErrNotFound", err)
	}
}

func testRollback(t *testing.T, gw repository.Gateway) {
	ctx := context.Background()
	e := MustEvent(t, gw, "Meetup", "Lisbon", time.Now().Add(48*time.Hour), 5)
	u := MustUser(t, gw, "linus@example.com", "Linus")
	boom := errors.New("boom")

	err := gw.WithinEventTx(ctx, func(q repository.Queries) error {
		if _, err := q.LockEvent(ctx, e.ID); err != nil {
			return err
		}
		if _, err := q.InsertRegistration(ctx, u.ID, e.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("tx err = %v, want boom", err)
	}
	if n, err := gw.CountRegistrations(ctx, e.ID); err != nil || n != 0 {
		t.Fatalf("count after rollback = (%d, %v), want (0, nil)", n, err)
	}
}

// testLockedCheckAndInsert runs the count-then-insert pattern from many
// goroutines and checks that the event lock keeps the count within capacity.
func testLockedCheckAndInsert(t *testing.T, gw repository.Gateway) {
	ctx := context.Background()
	const capacity, attempts = 3, 20
	e := MustEvent(t, gw, "Tiny room", "Porto", time.Now().Add(48*time.Hour), capacity)
	users := make([]*entity.User, attempts)
	for i := range users {
		users[i] = MustUser(t, gw, fmt.Sprintf("u%d@example.com", i), fmt.Sprintf("User %d", i))
	}

	errFull := errors.New("full")
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for _, u := range users {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			err := gw.WithinEventTx(ctx, func(q repository.Queries) error {
				ev, err := q.LockEvent(ctx, e.ID)
				if err != nil {
					return err
				}
				n, err := q.CountRegistrations(ctx, ev.ID)
				if err != nil {
					return err
				}
				if n >= ev.Capacity {
					return errFull
				}
				_, err = q.InsertRegistration(ctx, userID, ev.ID)
				return err
			})
			if err != nil && !errors.Is(err, errFull) {
				t.Errorf("unexpected tx error: %v", err)
			}
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(u.ID)
	}
	wg.Wait()

	if successes != capacity {
		t.Fatalf("successes = %d, want %d", successes, capacity)
	}
	if n, err := gw.CountRegistrations(ctx, e.ID); err != nil || n != capacity {
		t.Fatalf("count = (%d, %v), want (%d, nil)", n, err, capacity)
	}
}
