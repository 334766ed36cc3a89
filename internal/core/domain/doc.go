// Package domain defines the core business entities for Daybook.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DateKey: A validated calendar date, the only key into the journal
//   - Message: A single diary or chat message
//   - JournalEntry: One day's record (diary text + conversation)
//   - Settings: Per-device user configuration
//   - JournalDoc: The whole replicated unit (entries + settings)
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
