package infrastructure

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/oksasatya/event-registration/config"
	"github.com/oksasatya/event-registration/internal/domain/entity"
)

func TestOpenGatewaySQLiteCreatesDirectory(t *testing.T) {
	cfg := &config.Config{
		DBDriver:       "sqlite",
		SQLitePath:     filepath.Join(t.TempDir(), "nested", "dir", "events.db"),
		DBQueryTimeout: time.Second,
	}
	gw, err := OpenGateway(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer gw.Close()

	u := &entity.User{Email: "a@example.com", Name: "Ada"}
	if err := gw.InsertUser(context.Background(), u); err != nil || u.ID <= 0 {
		t.Fatalf("insert user: %v (id %d)", err, u.ID)
	}
}

func TestOpenGatewayRejectsUnknownDriver(t *testing.T) {
	if _, err := OpenGateway(context.Background(), &config.Config{DBDriver: "mysql"}, nil); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
