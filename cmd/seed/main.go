package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/event-registration/config"
	"github.com/oksasatya/event-registration/internal/application"
	"github.com/oksasatya/event-registration/internal/infrastructure"
	"github.com/oksasatya/event-registration/pkg/helpers"
)

type demoEvent struct {
	title    string
	location string
	in       time.Duration
	capacity string
}

var demoEvents = []demoEvent{
	{"Go Meetup", "Jakarta", 7 * 24 * time.Hour, "50"},
	{"Postgres Internals Workshop", "Bandung", 14 * 24 * time.Hour, "20"},
	{"Cloud Native Day", "Surabaya", 30 * 24 * time.Hour, "300"},
}

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	gw, err := infrastructure.OpenGateway(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open gateway: %v", err)
	}
	defer gw.Close()

	users := application.NewUserService(gw, logger)
	events := application.NewEventService(gw, nil, 0, nil, nil, nil, logger)
	registry := application.NewRegistryService(gw, nil, logger, false)

	u, err := users.CreateUser(ctx, "demo@example.com", "Demo User")
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d email=%s\n", u.ID, u.Email)

	now := time.Now().UTC().Truncate(time.Hour)
	for _, d := range demoEvents {
		ev, err := events.CreateEvent(ctx, application.CreateEventInput{
			Title:    d.title,
			Datetime: now.Add(d.in).Format(time.RFC3339),
			Location: d.location,
			Capacity: d.capacity,
		})
		if err != nil {
			log.Fatalf("failed to seed event %q: %v", d.title, err)
		}
		if _, err := registry.Register(ctx, u.ID, ev.ID); err != nil {
			log.Fatalf("failed to register demo user for %q: %v", d.title, err)
		}
		fmt.Printf("seeded event: id=%d title=%q at=%s capacity=%d\n", ev.ID, ev.Title, ev.Datetime.Format(time.RFC3339), ev.Capacity)
	}
}
