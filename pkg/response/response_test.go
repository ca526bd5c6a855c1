package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

func TestSuccessWritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	Success(c, http.StatusCreated, map[string]int64{"eventId": 7}, "Event created", nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	var body APIResponse[map[string]int64]
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Status != 201 || body.RequestID != "req-1" || body.Data["eventId"] != 7 {
		t.Fatalf("body = %+v", body)
	}
}

func TestErrorDefaultsToBadRequest(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	resp := Error[any](c, 0, "invalid payload", map[string]string{"payload": "invalid json"})

	if w.Code != http.StatusBadRequest || resp.Status != http.StatusBadRequest || resp.Success {
		t.Fatalf("code = %d, resp = %+v", w.Code, resp)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if _, ok := body["data"]; ok {
		t.Fatalf("error envelope must omit data: %v", body)
	}
}
