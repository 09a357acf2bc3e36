// Package testutil provides small helpers for stubbing the backend in
// SDK tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// JSONHandler returns a handler answering every request with the given
// status and JSON-encoded body. A nil body writes no payload.
func JSONHandler(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body == nil {
			return
		}
		_ = json.NewEncoder(w).Encode(body)
	}
}

// Counting wraps a handler and counts how many times it is hit.
func Counting(counter *atomic.Int64, inner http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counter.Add(1)
		inner.ServeHTTP(w, r)
	}
}
