package wizard

import "strings"

// CreateBookingRequest is the payload sent to the upstream appointment
// creation endpoint. ServiceID carries the first selected service only;
// the upstream API books one service per appointment even though the
// wizard tracks the full selection for totals and display.
type CreateBookingRequest struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string // omitted from the wire when blank or not email-like
	ServiceID     string
	StaffID       string
	Date          string // YYYY-MM-DD
	Time          string // HH:MM
	Timezone      string
	Notes         string // omitted from the wire when blank
}

// BookingConfirmation is the upstream's answer to a successful creation.
type BookingConfirmation struct {
	AppointmentID string
	DisplayTime   string
	Timezone      string
}

// ValidateForSubmit checks that every field the creation endpoint needs is
// present. Failures are local: no network call is made and no state lost.
func (s *Session) ValidateForSubmit() error {
	sel := s.Selection
	switch {
	case len(sel.Services) == 0:
		return &ValidationError{Field: "services", Message: "select at least one service"}
	case strings.TrimSpace(sel.StaffID) == "":
		return &ValidationError{Field: "staff_id", Message: "select a staff member"}
	case sel.Date == "":
		return &ValidationError{Field: "date", Message: "pick a date"}
	case sel.Time == "":
		return &ValidationError{Field: "time", Message: "pick a time"}
	}
	return sel.Customer.Validate()
}

// BuildCreateRequest assembles the upstream payload from the session.
// Callers must run ValidateForSubmit first.
func (s *Session) BuildCreateRequest(timezone string) CreateBookingRequest {
	sel := s.Selection
	digits := NormalizePhone(sel.Customer.Phone)

	email := strings.TrimSpace(sel.Customer.Email)
	if !strings.Contains(email, "@") {
		email = ""
	}

	return CreateBookingRequest{
		CustomerName:  strings.TrimSpace(sel.Customer.Name),
		CustomerPhone: digits,
		CustomerEmail: email,
		ServiceID:     sel.FirstServiceID(),
		StaffID:       sel.StaffID,
		Date:          sel.Date,
		Time:          sel.Time,
		Timezone:      timezone,
		Notes:         strings.TrimSpace(sel.Customer.Notes),
	}
}
