package application

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/oksasatya/event-registration/internal/domain/entity"
	repo "github.com/oksasatya/event-registration/internal/domain/repository"
	"github.com/oksasatya/event-registration/internal/infrastructure/search"
	"github.com/oksasatya/event-registration/pkg/activity"
	"github.com/oksasatya/event-registration/pkg/apperror"
	"github.com/oksasatya/event-registration/pkg/helpers"
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

type EventService struct {
	Gateway   repo.Gateway
	Redis     *redis.Client
	CacheTTL  time.Duration
	Publisher ActivityPublisher
	Searcher  EventSearcher
	Uploader  ObjectUploader
	Logger    *logrus.Logger
	Now       func() time.Time
}

func NewEventService(gw repo.Gateway, rdb *redis.Client, cacheTTL time.Duration, pub ActivityPublisher, searcher EventSearcher, uploader ObjectUploader, logger *logrus.Logger) *EventService {
	return &EventService{
		Gateway:   gw,
		Redis:     rdb,
		CacheTTL:  cacheTTL,
		Publisher: pub,
		Searcher:  searcher,
		Uploader:  uploader,
		Logger:    logger,
		Now:       time.Now,
	}
}

func (s *EventService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func eventDetailsKey(id int64) string {
	return "event:details:" + strconv.FormatInt(id, 10)
}

// CreateEventInput carries the raw fields; all of them are required.
type CreateEventInput struct {
	Title    string
	Datetime string
	Location string
	Capacity string
}

func parseCapacity(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.InvalidArgument("capacity must be an integer")
	}
	if n < entity.MinCapacity || n > entity.MaxCapacity {
		return 0, apperror.InvalidArgument(fmt.Sprintf("capacity must be between %d and %d", entity.MinCapacity, entity.MaxCapacity))
	}
	return n, nil
}

func tooLong(s string) bool {
	return utf8.RuneCountInString(s) > entity.MaxTextLength
}

func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (ev *entity.Event, err error) {
	title := strings.TrimSpace(in.Title)
	location := strings.TrimSpace(in.Location)
	rawAt := strings.TrimSpace(in.Datetime)
	rawCap := strings.TrimSpace(in.Capacity)
	if title == "" || location == "" || rawAt == "" || rawCap == "" {
		return nil, apperror.InvalidArgument("title, datetime, location and capacity are required")
	}
	if tooLong(title) || tooLong(location) {
		return nil, apperror.InvalidArgument(fmt.Sprintf("title and location must be at most %d characters", entity.MaxTextLength))
	}
	capacity, err := parseCapacity(rawCap)
	if err != nil {
		return nil, err
	}
	at, err := helpers.ParseInstant(rawAt)
	if err != nil {
		return nil, apperror.InvalidArgument("datetime must be a valid ISO 8601 instant")
	}

	ctx, span := tracer.Start(ctx, "EventService.CreateEvent")
	defer func() { endSpan(span, err) }()

	ev = &entity.Event{Title: title, Datetime: at, Location: location, Capacity: capacity}
	if err := s.Gateway.InsertEvent(ctx, ev); err != nil {
		helpers.LogError(s.Logger, "insert event failed", err, logrus.Fields{"title": title})
		return nil, apperror.Internal("failed to create event", err)
	}
	span.SetAttributes(attribute.Int64("event.id", ev.ID))

	eventsCreatedTotal.Add(1)
	publishActivity(ctx, s.Publisher, s.Logger, activity.Message{
		Type:       activity.EventCreated,
		EventID:    ev.ID,
		OccurredAt: ev.CreatedAt,
	})
	return ev, nil
}

// GetEventDetails reads through the Redis cache when one is configured.
// Events never change after creation, so cached entries are never invalidated.
func (s *EventService) GetEventDetails(ctx context.Context, id int64) (*entity.Event, error) {
	if id <= 0 {
		return nil, apperror.InvalidArgument("invalid eventId provided")
	}

	key := eventDetailsKey(id)
	if s.Redis != nil {
		var cached entity.Event
		found, err := helpers.RedisGetJSON(ctx, s.Redis, key, &cached)
		if err != nil {
			helpers.LogError(s.Logger, "event cache read failed", err, logrus.Fields{"key": key})
		} else if found {
			return &cached, nil
		}
	}

	ev, err := s.Gateway.FindEvent(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.NotFound("event not found")
	}
	if err != nil {
		return nil, apperror.Internal("failed to load event", err)
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, key, ev, s.CacheTTL); err != nil {
			helpers.LogError(s.Logger, "event cache write failed", err, logrus.Fields{"key": key})
		}
	}
	return ev, nil
}

// ListUpcomingEvents returns events strictly after now, by datetime then location.
func (s *EventService) ListUpcomingEvents(ctx context.Context) ([]entity.Event, error) {
	events, err := s.Gateway.ListEventsAfter(ctx, s.now())
	if err != nil {
		return nil, apperror.Internal("failed to list upcoming events", err)
	}
	if events == nil {
		events = []entity.Event{}
	}
	return events, nil
}

func (s *EventService) GetEventStats(ctx context.Context, id int64) (*entity.EventStats, error) {
	if id <= 0 {
		return nil, apperror.InvalidArgument("invalid eventId provided")
	}
	ev, err := s.Gateway.FindEvent(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.NotFound("event not found")
	}
	if err != nil {
		return nil, apperror.Internal("failed to load event", err)
	}
	total, err := s.Gateway.CountRegistrations(ctx, id)
	if err != nil {
		return nil, apperror.Internal("failed to count registrations", err)
	}
	return computeStats(ev, total), nil
}

func computeStats(ev *entity.Event, total int) *entity.EventStats {
	st := &entity.EventStats{
		EventID:            ev.ID,
		EventTitle:         ev.Title,
		TotalRegistrations: total,
		RemainingCapacity:  max(0, ev.Capacity-total),
	}
	if ev.Capacity > 0 {
		pct := float64(total) / float64(ev.Capacity) * 100
		st.PercentageCapacityUsed = math.Round(pct*100) / 100
	}
	return st
}

// SearchEvents matches q against title and location. Without a search
// backend it returns no results.
func (s *EventService) SearchEvents(ctx context.Context, q string, size int) ([]search.EventDocument, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperror.InvalidArgument("search query is required")
	}
	if size <= 0 {
		size = defaultSearchSize
	}
	size = min(size, maxSearchSize)

	if s.Searcher == nil {
		return []search.EventDocument{}, nil
	}
	docs, err := s.Searcher.Search(ctx, q, size)
	if err != nil {
		helpers.LogError(s.Logger, "event search failed", err, logrus.Fields{"q": q})
		return nil, apperror.Internal("failed to search events", err)
	}
	return docs, nil
}

// ExportResult locates an uploaded registrant export.
type ExportResult struct {
	URL           string
	Registrations int
}

// ExportRegistrants uploads a CSV of the event's registrants and returns its URL.
func (s *EventService) ExportRegistrants(ctx context.Context, id int64) (res *ExportResult, err error) {
	if id <= 0 {
		return nil, apperror.InvalidArgument("invalid eventId provided")
	}
	if s.Uploader == nil {
		return nil, apperror.Internal("export storage is not configured", errors.New("no uploader"))
	}

	ctx, span := tracer.Start(ctx, "EventService.ExportRegistrants")
	span.SetAttributes(attribute.Int64("event.id", id))
	defer func() { endSpan(span, err) }()

	if _, err := s.Gateway.FindEvent(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.NotFound("event not found")
		}
		return nil, apperror.Internal("failed to load event", err)
	}
	rows, err := s.Gateway.ListRegistrants(ctx, id)
	if err != nil {
		return nil, apperror.Internal("failed to list registrants", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"user_id", "name", "email", "registered_at"})
	for _, r := range rows {
		_ = w.Write([]string{
			strconv.FormatInt(r.UserID, 10),
			r.Name,
			r.Email,
			r.RegisteredAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperror.Internal("failed to build export", err)
	}

	objectPath := fmt.Sprintf("exports/events/%d/%s.csv", id, uuid.NewString())
	url, err := s.Uploader.Upload(ctx, objectPath, "text/csv", &buf)
	if err != nil {
		helpers.LogError(s.Logger, "export upload failed", err, logrus.Fields{"event_id": id, "object": objectPath})
		return nil, apperror.Internal("failed to upload export", err)
	}
	return &ExportResult{URL: url, Registrations: len(rows)}, nil
}
