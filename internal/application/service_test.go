package application

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/oksasatya/event-registration/internal/domain/repository"
	"github.com/oksasatya/event-registration/internal/infrastructure/search"
	"github.com/oksasatya/event-registration/internal/infrastructure/sqlite"
	"github.com/oksasatya/event-registration/pkg/activity"
	"github.com/oksasatya/event-registration/pkg/helpers"
)

var (
	future = time.Date(2099, time.January, 1, 10, 0, 0, 0, time.UTC)
	past   = time.Date(2001, time.January, 1, 10, 0, 0, 0, time.UTC)
)

func openGateway(t *testing.T) repository.Gateway {
	t.Helper()
	gw, err := sqlite.Open(filepath.Join(t.TempDir(), "app.db"), 5*time.Second, nil)
	if err != nil {
		t.Fatalf("open gateway: %v", err)
	}
	t.Cleanup(gw.Close)
	return gw
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []activity.Message
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := body.(activity.Message); ok {
		p.msgs = append(p.msgs, m)
	}
	return p.err
}

func (p *recordingPublisher) types() []activity.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]activity.Type, 0, len(p.msgs))
	for _, m := range p.msgs {
		out = append(out, m.Type)
	}
	return out
}

type stubSearcher struct {
	gotQuery string
	gotSize  int
	docs     []search.EventDocument
}

func (s *stubSearcher) Search(_ context.Context, q string, size int) ([]search.EventDocument, error) {
	s.gotQuery, s.gotSize = q, size
	return s.docs, nil
}

type memoryUploader struct {
	path, contentType, body string
}

func (u *memoryUploader) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.path, u.contentType, u.body = objectPath, contentType, string(b)
	return helpers.PublicURL("exports-bucket", objectPath), nil
}
