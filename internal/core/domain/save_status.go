package domain

// SaveStatus is the user-visible state of an autosaved field.
type SaveStatus string

// Save states. A field cycles idle -> saving -> saved -> idle.
const (
	SaveStatusIdle   SaveStatus = "idle"
	SaveStatusSaving SaveStatus = "saving"
	SaveStatusSaved  SaveStatus = "saved"
)

// String returns the string representation.
func (s SaveStatus) String() string {
	return string(s)
}

// Label returns a short human-readable indicator.
func (s SaveStatus) Label() string {
	switch s {
	case SaveStatusSaving:
		return "Saving…"
	case SaveStatusSaved:
		return "Saved"
	default:
		return ""
	}
}
