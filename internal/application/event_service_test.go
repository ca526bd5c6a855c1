package application

import (
	"context"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/oksasatya/event-registration/internal/domain/entity"
	"github.com/oksasatya/event-registration/internal/infrastructure/gatewaytest"
	"github.com/oksasatya/event-registration/internal/infrastructure/search"
	"github.com/oksasatya/event-registration/pkg/activity"
	"github.com/oksasatya/event-registration/pkg/apperror"
	"github.com/oksasatya/event-registration/pkg/helpers"
)

func newEvents(t *testing.T) (*EventService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	svc := NewEventService(openGateway(t), nil, time.Minute, pub, nil, nil, helpers.NewDiscardLogger())
	return svc, pub
}

func TestCreateEventCapacityBounds(t *testing.T) {
	svc, _ := newEvents(t)
	ctx := context.Background()
	tests := []struct {
		capacity string
		wantErr  bool
	}{
		{"0", true},
		{"1001", true},
		{"abc", true},
		{"1.5", true},
		{"-1", true},
		{"1", false},
		{"1000", false},
		{" 250 ", false},
	}
	for _, tt := range tests {
		t.Run(tt.capacity, func(t *testing.T) {
			ev, err := svc.CreateEvent(ctx, CreateEventInput{
				Title:    "Conf",
				Datetime: "2099-03-01T09:00:00Z",
				Location: "Lisbon",
				Capacity: tt.capacity,
			})
			if tt.wantErr {
				wantKind(t, err, apperror.KindInvalidArgument)
				return
			}
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			want, _ := strconv.Atoi(strings.TrimSpace(tt.capacity))
			if ev.ID <= 0 || ev.Capacity != want {
				t.Fatalf("event = %+v", ev)
			}
		})
	}
}

func TestCreateEventTextAtLimitAndMillisecondDatetime(t *testing.T) {
	svc, _ := newEvents(t)
	ctx := context.Background()

	title := strings.Repeat("é", entity.MaxTextLength)
	ev, err := svc.CreateEvent(ctx, CreateEventInput{
		Title:    title,
		Datetime: "2099-03-01T09:00:00.123456789Z",
		Location: strings.Repeat("l", entity.MaxTextLength),
		Capacity: "10",
	})
	if err != nil {
		t.Fatalf("create at limit: %v", err)
	}
	want := time.Date(2099, 3, 1, 9, 0, 0, 123_000_000, time.UTC)
	if !ev.Datetime.Equal(want) {
		t.Fatalf("datetime = %v, want %v", ev.Datetime, want)
	}

	got, err := svc.GetEventDetails(ctx, ev.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if got.Title != title || !got.Datetime.Equal(ev.Datetime) {
		t.Fatalf("stored event = %+v, created %+v", got, ev)
	}
}

func TestCreateEventRequiredFieldsAndDatetime(t *testing.T) {
	svc, pub := newEvents(t)
	ctx := context.Background()
	valid := CreateEventInput{Title: "Conf", Datetime: "2099-03-01T09:00:00Z", Location: "Lisbon", Capacity: "10"}

	cases := map[string]func(in *CreateEventInput){
		"missing title":    func(in *CreateEventInput) { in.Title = "  " },
		"missing location": func(in *CreateEventInput) { in.Location = "" },
		"missing datetime": func(in *CreateEventInput) { in.Datetime = "" },
		"missing capacity": func(in *CreateEventInput) { in.Capacity = "" },
		"bad datetime":     func(in *CreateEventInput) { in.Datetime = "next tuesday" },
		"long title":       func(in *CreateEventInput) { in.Title = strings.Repeat("t", entity.MaxTextLength+1) },
		"long location":    func(in *CreateEventInput) { in.Location = strings.Repeat("é", entity.MaxTextLength+1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := valid
			mutate(&in)
			_, err := svc.CreateEvent(ctx, in)
			wantKind(t, err, apperror.KindInvalidArgument)
		})
	}
	if len(pub.types()) != 0 {
		t.Fatal("invalid input must not publish")
	}

	ev, err := svc.CreateEvent(ctx, valid)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := time.Date(2099, time.March, 1, 9, 0, 0, 0, time.UTC)
	if !ev.Datetime.Equal(want) {
		t.Fatalf("datetime = %v, want %v", ev.Datetime, want)
	}
	if got := pub.types(); len(got) != 1 || got[0] != activity.EventCreated {
		t.Fatalf("published = %v", got)
	}
}

func TestGetEventDetails(t *testing.T) {
	svc, _ := newEvents(t)
	ctx := context.Background()
	ev := gatewaytest.MustEvent(t, svc.Gateway, "Conf", "Lisbon", future, 10)

	got, err := svc.GetEventDetails(ctx, ev.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if got.Title != "Conf" || got.Location != "Lisbon" || !got.Datetime.Equal(future) {
		t.Fatalf("details = %+v", got)
	}

	_, err = svc.GetEventDetails(ctx, ev.ID+100)
	wantKind(t, err, apperror.KindNotFound)
	_, err = svc.GetEventDetails(ctx, 0)
	wantKind(t, err, apperror.KindInvalidArgument)
}

func TestListUpcomingEventsExcludesNowAndSorts(t *testing.T) {
	svc, _ := newEvents(t)
	now := time.Date(2040, time.July, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }
	gw := svc.Gateway

	gatewaytest.MustEvent(t, gw, "Exactly now", "Anywhere", now, 10)
	gatewaytest.MustEvent(t, gw, "Earlier", "Anywhere", now.Add(-time.Hour), 10)
	gatewaytest.MustEvent(t, gw, "Later", "Zurich", now.Add(2*time.Hour), 10)
	gatewaytest.MustEvent(t, gw, "Tie B", "Bern", now.Add(time.Hour), 10)
	gatewaytest.MustEvent(t, gw, "Tie A", "Aarau", now.Add(time.Hour), 10)

	events, err := svc.ListUpcomingEvents(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var titles []string
	for _, e := range events {
		titles = append(titles, e.Title)
	}
	if strings.Join(titles, ",") != "Tie A,Tie B,Later" {
		t.Fatalf("titles = %v", titles)
	}
}

func TestListUpcomingEventsEmpty(t *testing.T) {
	svc, _ := newEvents(t)
	events, err := svc.ListUpcomingEvents(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Fatalf("events = %#v, want empty non-nil slice", events)
	}
}

func TestGetEventStats(t *testing.T) {
	svc, _ := newEvents(t)
	ctx := context.Background()
	registry := NewRegistryService(svc.Gateway, nil, nil, false)
	ev := gatewaytest.MustEvent(t, svc.Gateway, "Conf", "Lisbon", future, 10)
	for i := 0; i < 3; i++ {
		u := gatewaytest.MustUser(t, svc.Gateway, "u@example.com", "User")
		if _, err := registry.Register(ctx, u.ID, ev.ID); err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	st, err := svc.GetEventStats(ctx, ev.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.EventID != ev.ID || st.EventTitle != "Conf" || st.TotalRegistrations != 3 ||
		st.RemainingCapacity != 7 || st.PercentageCapacityUsed != 30.00 {
		t.Fatalf("stats = %+v", st)
	}

	_, err = svc.GetEventStats(ctx, ev.ID+1)
	wantKind(t, err, apperror.KindNotFound)
}

func TestComputeStatsRounding(t *testing.T) {
	tests := []struct {
		capacity, total int
		remaining       int
		pct             float64
	}{
		{3, 1, 2, 33.33},
		{3, 2, 1, 66.67},
		{7, 7, 0, 100},
		{0, 0, 0, 0},
		{2, 5, 0, 250},
	}
	for _, tt := range tests {
		st := computeStats(&entity.Event{ID: 1, Capacity: tt.capacity}, tt.total)
		if st.RemainingCapacity != tt.remaining || st.PercentageCapacityUsed != tt.pct {
			t.Fatalf("cap %d total %d: got %+v", tt.capacity, tt.total, st)
		}
	}
}

func TestSearchEvents(t *testing.T) {
	svc, _ := newEvents(t)
	ctx := context.Background()

	_, err := svc.SearchEvents(ctx, "  ", 5)
	wantKind(t, err, apperror.KindInvalidArgument)

	docs, err := svc.SearchEvents(ctx, "go", 5)
	if err != nil || len(docs) != 0 {
		t.Fatalf("without backend: %v, %v", docs, err)
	}

	stub := &stubSearcher{docs: []search.EventDocument{{ID: 1, Title: "Go Night"}}}
	svc.Searcher = stub
	for _, tt := range []struct{ in, want int }{{0, defaultSearchSize}, {7, 7}, {500, maxSearchSize}} {
		docs, err := svc.SearchEvents(ctx, "go", tt.in)
		if err != nil || len(docs) != 1 {
			t.Fatalf("search: %v, %v", docs, err)
		}
		if stub.gotSize != tt.want || stub.gotQuery != "go" {
			t.Fatalf("size %d sent as %d (q=%q)", tt.in, stub.gotSize, stub.gotQuery)
		}
	}
}

func TestExportRegistrants(t *testing.T) {
	svc, _ := newEvents(t)
	ctx := context.Background()

	_, err := svc.ExportRegistrants(ctx, 1)
	wantKind(t, err, apperror.KindInternal)

	up := &memoryUploader{}
	svc.Uploader = up
	registry := NewRegistryService(svc.Gateway, nil, nil, false)
	ev := gatewaytest.MustEvent(t, svc.Gateway, "Conf", "Lisbon", future, 10)
	ada := gatewaytest.MustUser(t, svc.Gateway, "ada@example.com", "Ada")
	if _, err := registry.Register(ctx, ada.ID, ev.ID); err != nil {
		t.Fatalf("register: %v", err)
	}

	res, err := svc.ExportRegistrants(ctx, ev.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if res.Registrations != 1 || !strings.HasPrefix(res.URL, "https://storage.googleapis.com/exports-bucket/exports/events/") {
		t.Fatalf("result = %+v", res)
	}
	if up.contentType != "text/csv" || !strings.HasSuffix(up.path, ".csv") {
		t.Fatalf("upload = %s %s", up.path, up.contentType)
	}

	records, err := csv.NewReader(strings.NewReader(up.body)).ReadAll()
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if len(records) != 2 || records[0][0] != "user_id" || records[1][1] != "Ada" || records[1][2] != "ada@example.com" {
		t.Fatalf("records = %v", records)
	}

	_, err = svc.ExportRegistrants(ctx, ev.ID+1)
	wantKind(t, err, apperror.KindNotFound)
}
