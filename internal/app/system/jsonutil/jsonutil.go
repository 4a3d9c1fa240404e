// Package jsonutil has the small request/response helpers shared by the
// JSON feature handlers.
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/carehub/internal/app/system/limits"
)

// MaxBodyBytes bounds JSON request bodies.
const MaxBodyBytes = limits.MaxJSONBody

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]string{"message": msg})
}

// Decode reads a JSON body into v. An empty body leaves v untouched.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// Missing returns the names whose values are empty, in order.
// Pairs are name, value, name, value, ...
func Missing(pairs ...string) []string {
	var out []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			out = append(out, pairs[i])
		}
	}
	return out
}

// RequireFields writes a 400 naming the missing fields and returns false when
// any are missing.
func RequireFields(w http.ResponseWriter, pairs ...string) bool {
	missing := Missing(pairs...)
	if len(missing) == 0 {
		return true
	}
	Message(w, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
	return false
}
