package availability

import "fmt"

// DisclosureLevel controls how much detail an unavailability reason exposes.
// Customer-facing surfaces get generic wording; the assistant/bot tier may
// see blackout titles; only staff see appointment codes and customer names.
type DisclosureLevel string

const (
	DisclosureBasic DisclosureLevel = "basic"
	DisclosureFull  DisclosureLevel = "full"
	DisclosureAdmin DisclosureLevel = "admin"
)

// Valid reports whether l is a known disclosure level.
func (l DisclosureLevel) Valid() bool {
	switch l {
	case DisclosureBasic, DisclosureFull, DisclosureAdmin:
		return true
	}
	return false
}

const fallbackBlackoutTitle = "Blocked schedule"

// FormatBlackoutMessage renders the human-facing reason for a blocking
// blackout at the given disclosure level.
func FormatBlackoutMessage(b BlackoutPeriod, level DisclosureLevel) string {
	switch level {
	case DisclosureAdmin:
		scope := "Professional's"
		if b.Organizational() {
			scope = "Organizational"
		}
		title := b.Title
		if title == "" {
			title = fallbackBlackoutTitle
		}
		return fmt.Sprintf("%s block: %s", scope, title)
	case DisclosureFull:
		if b.Title != "" {
			return b.Title
		}
		return fallbackBlackoutTitle
	default:
		return "Not available"
	}
}

// FormatAppointmentMessage renders the human-facing reason for a blocking
// appointment. Customer names and appointment codes appear only at the admin
// level.
func FormatAppointmentMessage(a Appointment, level DisclosureLevel) string {
	switch level {
	case DisclosureAdmin:
		code := a.Code
		if code == "" {
			code = a.ID.String()
		}
		name := a.CustomerName
		if name == "" {
			name = "Customer"
		}
		return fmt.Sprintf("Appointment %s - %s", code, name)
	case DisclosureFull:
		return "Existing appointment"
	default:
		return "Busy"
	}
}
