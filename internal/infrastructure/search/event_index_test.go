package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

func newTestIndex(t *testing.T, handler http.HandlerFunc) *EventIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The v8 client refuses servers that do not identify as Elasticsearch.
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatalf("es client: %v", err)
	}
	return NewEventIndex(es, "events")
}

func TestIndexEventPutsDocument(t *testing.T) {
	var (
		gotMethod, gotPath string
		gotDoc             EventDocument
	)
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotDoc)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	doc := EventDocument{ID: 42, Title: "GopherCon", Location: "Berlin", Datetime: time.Date(2030, 5, 4, 0, 0, 0, 0, time.UTC), Capacity: 100, Registrations: 3}
	if err := idx.IndexEvent(context.Background(), doc); err != nil {
		t.Fatalf("index: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/events/_doc/42" {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}
	if gotDoc.Title != "GopherCon" || gotDoc.Registrations != 3 {
		t.Fatalf("doc = %+v", gotDoc)
	}
}

func TestIndexEventReportsErrorStatus(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"mapper_parsing_exception"}`))
	})
	if err := idx.IndexEvent(context.Background(), EventDocument{ID: 1}); err == nil {
		t.Fatal("expected error for 400 response")
	}
}

func TestSearchDecodesHits(t *testing.T) {
	var gotQuery string
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/events/_search") {
			t.Errorf("path = %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		gotQuery = string(body)
		_, _ = w.Write([]byte(`{"hits":{"hits":[
			{"_id":"1","_source":{"id":1,"title":"Go Night","location":"Oslo","capacity":20}},
			{"_id":"2","_source":{"id":2,"title":"Go Day","location":"Bergen","capacity":40}}
		]}}`))
	})

	docs, err := idx.Search(context.Background(), "go", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(docs) != 2 || docs[0].Title != "Go Night" || docs[1].Location != "Bergen" {
		t.Fatalf("docs = %+v", docs)
	}
	if !strings.Contains(gotQuery, `"multi_match"`) || !strings.Contains(gotQuery, `"size":10`) {
		t.Fatalf("query = %s", gotQuery)
	}
}
