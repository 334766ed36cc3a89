// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. Timers come from a driven.Clock so the
// debounce and conversation behaviour can be exercised deterministically.
package services
