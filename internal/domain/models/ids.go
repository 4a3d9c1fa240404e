package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a new entity identifier. Identifiers are random UUIDs so two
// entities created in the same millisecond never collide.
func NewID() string {
	return uuid.NewString()
}

// NowMillis returns the current time as epoch milliseconds, the unit every
// stored timestamp uses.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// NormalizeEmail lowercases and trims an email address for comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
