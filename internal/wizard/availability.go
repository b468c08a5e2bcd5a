package wizard

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar-date wire format used everywhere.
	DateLayout = "2006-01-02"
	// TimeLayout is the 24-hour wall-clock wire format for slot times.
	TimeLayout = "15:04"

	noSlotsNotice    = "No available times for this date. Please try another date."
	fetchErrorNotice = "Unable to load available times. Please try again."
)

// QueryKey is the (date, staff, services) tuple an availability response
// answers. Responses are applied to a session only while its selection
// still produces the same key, which is what discards out-of-order results.
type QueryKey struct {
	Date       string   `json:"date"`
	StaffID    string   `json:"staff_id"`
	ServiceIDs []string `json:"service_ids"`
}

// KeyFor derives the query key from a selection. ok is false when any of
// the three inputs is missing, in which case no upstream query may be made.
func KeyFor(sel Selection) (QueryKey, bool) {
	if sel.Date == "" || strings.TrimSpace(sel.StaffID) == "" || len(sel.Services) == 0 {
		return QueryKey{}, false
	}
	ids := sel.ServiceIDs()
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return QueryKey{Date: sel.Date, StaffID: sel.StaffID, ServiceIDs: sorted}, true
}

// Equal compares two keys including their (sorted) service id sets.
func (k QueryKey) Equal(other QueryKey) bool {
	if k.Date != other.Date || k.StaffID != other.StaffID || len(k.ServiceIDs) != len(other.ServiceIDs) {
		return false
	}
	for i := range k.ServiceIDs {
		if k.ServiceIDs[i] != other.ServiceIDs[i] {
			return false
		}
	}
	return true
}

// SlotsResult is a decoded availability response from the upstream API.
type SlotsResult struct {
	Slots        []Slot
	SlotDuration int
	Message      string
}

// ValidateDate checks the booking-window guard: not before today, not more
// than windowDays ahead. The guard is evaluated against the shop's
// timezone; the upstream API remains the authority on real availability.
func ValidateDate(date string, now time.Time, windowDays int) error {
	parsed, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return &ValidationError{Field: "date", Message: "must be formatted YYYY-MM-DD"}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if parsed.Before(today) {
		return &ValidationError{Field: "date", Message: "must not be in the past"}
	}
	if parsed.After(today.AddDate(0, 0, windowDays)) {
		return &ValidationError{Field: "date", Message: fmt.Sprintf("must be within %d days", windowDays)}
	}
	return nil
}

// FormatDisplayTime renders a 24-hour "HH:MM" as a 12-hour display string
// ("3:05 PM"). Unparseable input is returned unchanged rather than hidden.
func FormatDisplayTime(hhmm string) string {
	parsed, err := time.Parse(TimeLayout, hhmm)
	if err != nil {
		return hhmm
	}
	return parsed.Format("3:04 PM")
}

// ApplySlots applies an availability response that answered key to the
// session. It returns false, leaving the session untouched, when the
// session's current selection no longer matches key (the response is
// stale). Otherwise it stores the decorated slots, surfaces or synthesizes
// the notice, and reconciles the previously selected time: a time that is
// absent or no longer available in the fresh list is cleared so a stale
// slot can never be submitted.
func ApplySlots(s *Session, key QueryKey, res SlotsResult, now time.Time) bool {
	current, ok := KeyFor(s.Selection)
	if !ok || !current.Equal(key) {
		return false
	}

	slots := make([]Slot, len(res.Slots))
	copy(slots, res.Slots)
	for i := range slots {
		if slots[i].DisplayTime == "" {
			slots[i].DisplayTime = FormatDisplayTime(slots[i].Time)
		}
	}

	notice := strings.TrimSpace(res.Message)
	if notice == "" && len(slots) == 0 {
		notice = noSlotsNotice
	}

	s.Slots = SlotState{
		Status:       SlotsReady,
		Key:          key,
		Slots:        slots,
		SlotDuration: res.SlotDuration,
		Notice:       notice,
		FetchedAt:    now,
	}

	if s.Selection.Time != "" && !slotAvailable(slots, s.Selection.Time) {
		s.Selection.Time = ""
	}

	s.touch(now)
	return true
}

// ApplySlotsError records a failed fetch for key: the slot list empties
// and an error notice is shown, but the rest of the wizard state is
// preserved so the customer can change inputs and retry. Stale failures
// are discarded the same way stale successes are.
func ApplySlotsError(s *Session, key QueryKey, now time.Time) bool {
	current, ok := KeyFor(s.Selection)
	if !ok || !current.Equal(key) {
		return false
	}
	s.Slots = SlotState{
		Status:       SlotsError,
		Key:          key,
		ErrorMessage: fetchErrorNotice,
		FetchedAt:    now,
	}
	s.touch(now)
	return true
}
