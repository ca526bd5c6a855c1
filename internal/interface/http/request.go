package handlers

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// flexID accepts an identifier sent either as a JSON number or a numeric string.
type flexID int64

func (f *flexID) UnmarshalJSON(b []byte) error {
	raw, err := rawScalar(b)
	if err != nil {
		return typeError(b, reflect.TypeOf(int64(0)))
	}
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return typeError(b, reflect.TypeOf(int64(0)))
	}
	*f = flexID(n)
	return nil
}

// flexNumber keeps the literal text of a JSON number or string so the
// service decides what counts as valid.
type flexNumber string

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	raw, err := rawScalar(b)
	if err != nil {
		return typeError(b, reflect.TypeOf(""))
	}
	*f = flexNumber(raw)
	return nil
}

// typeError is filled in with the struct field name by encoding/json.
func typeError(b []byte, t reflect.Type) error {
	return &json.UnmarshalTypeError{Value: string(b), Type: t}
}

// rawScalar returns the text of a JSON string or number; null yields "".
func rawScalar(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		return "", nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}

// parseIDParam parses a positive id from a query value.
func parseIDParam(raw string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
