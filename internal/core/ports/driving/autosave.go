package driving

import "github.com/custodia-labs/daybook/internal/core/domain"

// Autosave debounces edits to one day's diary text into single store writes.
type Autosave interface {
	// Content returns the current (possibly unsaved) text.
	Content() string

	// Change records new content and (re)arms the debounce timer.
	Change(content string)

	// Status returns the save indicator state.
	Status() domain.SaveStatus

	// Date returns the day the field is bound to.
	Date() domain.DateKey

	// SetDate rebinds the field to another day, discarding any pending write.
	SetDate(date domain.DateKey)

	// Flush commits pending content immediately.
	Flush() error

	// Close cancels pending timers. No write happens after Close returns.
	Close()
}
