package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/daybook/internal/core/ports/driven"
)

// Ensure SystemClock implements the interface.
var _ driven.Clock = SystemClock{}

// SystemClock is the wall-clock implementation of driven.Clock.
type SystemClock struct{}

// Now returns the current UTC time without a monotonic reading,
// so values round-trip through storage unchanged.
func (SystemClock) Now() time.Time {
	return time.Now().UTC().Round(0)
}

// AfterFunc wraps time.AfterFunc.
func (SystemClock) AfterFunc(d time.Duration, f func()) driven.Timer {
	return time.AfterFunc(d, f)
}

// NewID returns a time-ordered unique identifier (UUIDv7), so IDs created
// later sort after earlier ones.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
