package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/oksasatya/event-registration/internal/domain/repository"
	"github.com/oksasatya/event-registration/internal/infrastructure/gatewaytest"
)

func openTempGateway(t *testing.T) repository.Gateway {
	t.Helper()
	gw, err := Open(filepath.Join(t.TempDir(), "events.db"), 5*time.Second, nil)
	if err != nil {
		t.Fatalf("open sqlite gateway: %v", err)
	}
	t.Cleanup(gw.Close)
	return gw
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  ", time.Second, nil); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	first, err := Open(path, time.Second, nil)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	first.Close()

	second, err := Open(path, time.Second, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	second.Close()
}

func TestGatewayConformance(t *testing.T) {
	gatewaytest.Run(t, openTempGateway)
}

func TestMillisRoundTrip(t *testing.T) {
	at := time.Date(2031, time.July, 9, 10, 11, 12, 13_000_000, time.FixedZone("CEST", 2*3600))
	got := fromMillis(toMillis(at))
	if !got.Equal(at) {
		t.Fatalf("round trip = %v, want %v", got, at)
	}
	if got.Location() != time.UTC {
		t.Fatalf("location = %v, want UTC", got.Location())
	}
}
