package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

type signup struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,max=5"`
}

func TestToDetailsUsesJSONFieldNames(t *testing.T) {
	Init()
	err := binding.Validator.ValidateStruct(&signup{Email: "nope", Name: "toolongname"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	got := ToDetails(err)
	if got["email"] != "must be a valid email address" {
		t.Fatalf("email detail = %q", got["email"])
	}
	if got["name"] != "must be at most 5 characters long" {
		t.Fatalf("name detail = %q", got["name"])
	}
}

func TestToDetailsPayloadErrors(t *testing.T) {
	var v map[string]any
	syntaxErr := json.Unmarshal([]byte(`{"a":`), &v)
	if got := ToDetails(syntaxErr); got["payload"] != "invalid json" {
		t.Fatalf("syntax = %v", got)
	}

	var typed struct {
		EventID int64 `json:"eventId"`
	}
	typeErr := json.Unmarshal([]byte(`{"eventId":"seven"}`), &typed)
	if got := ToDetails(fmt.Errorf("decode: %w", typeErr)); got["eventId"] != "has an invalid value" {
		t.Fatalf("field = %v", got)
	}

	if got := ToDetails(errors.New("eof")); got["payload"] != "invalid payload" {
		t.Fatalf("fallback = %v", got)
	}
	if ToDetails(nil) != nil {
		t.Fatal("nil error should give nil details")
	}
}
