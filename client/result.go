package client

import (
	"encoding/json"
	"strings"
)

// Result is returned by every client call instead of an error. Exactly one
// of Value or Err is meaningful: Err is empty on success.
type Result[T any] struct {
	Value T
	Err   string
}

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// failed never yields an empty Err, so OK stays false.
func failed[T any](msg string) Result[T] {
	if strings.TrimSpace(msg) == "" {
		msg = "request failed"
	}
	return Result[T]{Err: msg}
}

func (r Result[T]) OK() bool {
	return r.Err == ""
}

// MarshalJSON renders {"error": "..."} on failure and the value otherwise.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if !r.OK() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: r.Err})
	}
	return json.Marshal(r.Value)
}
