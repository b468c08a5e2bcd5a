// Package wizard implements the barbershop booking wizard: the in-progress
// booking selection, the step state machine, slot availability reconciliation,
// and submission assembly. Slot computation itself lives behind the upstream
// appointment API; this package owns the client-facing invariants.
package wizard

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Flow is the user-chosen ordering of the service and staff steps. It
// affects step sequence only, never the submitted data.
type Flow string

const (
	FlowServiceFirst Flow = "service-first"
	FlowStaffFirst   Flow = "staff-first"
)

// Valid reports whether f is a known flow.
func (f Flow) Valid() bool {
	return f == FlowServiceFirst || f == FlowStaffFirst
}

// Service is a bookable barbershop service.
type Service struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price"`
	Duration int     `json:"duration"` // minutes
}

// StaffMember is a barber, with the set of services they can perform.
type StaffMember struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Position   string   `json:"position,omitempty"`
	Image      string   `json:"image,omitempty"`
	ServiceIDs []string `json:"service_ids"`
}

// CanPerform reports whether the staff member supports every listed service.
func (m StaffMember) CanPerform(serviceIDs []string) bool {
	supported := make(map[string]struct{}, len(m.ServiceIDs))
	for _, id := range m.ServiceIDs {
		supported[id] = struct{}{}
	}
	for _, id := range serviceIDs {
		if _, ok := supported[id]; !ok {
			return false
		}
	}
	return true
}

// EligibleStaff filters staff to those able to perform every selected service.
func EligibleStaff(staff []StaffMember, serviceIDs []string) []StaffMember {
	if len(serviceIDs) == 0 {
		return staff
	}
	out := make([]StaffMember, 0, len(staff))
	for _, m := range staff {
		if m.CanPerform(serviceIDs) {
			out = append(out, m)
		}
	}
	return out
}

// CustomerDetails holds the customer step's fields. Phone is required and
// must normalize to exactly ten digits; email is optional but must be
// email-shaped when present.
type CustomerDetails struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone"`
	Notes string `json:"notes,omitempty"`
}

// Slot is a discrete bookable time offered by the upstream API for a given
// date/staff/service combination. Time is a 24-hour "HH:MM" wall-clock
// string in the shop's timezone.
type Slot struct {
	Time              string `json:"time"`
	Available         bool   `json:"available"`
	DisplayTime       string `json:"display_time,omitempty"`
	UnavailableReason string `json:"unavailable_reason,omitempty"`
}

// Selection is the in-progress booking selection, the wizard's single
// source of truth.
type Selection struct {
	Services []Service       `json:"services"`
	StaffID  string          `json:"staff_id,omitempty"`
	Date     string          `json:"date,omitempty"` // YYYY-MM-DD
	Time     string          `json:"time,omitempty"` // HH:MM
	Customer CustomerDetails `json:"customer"`
	Flow     Flow            `json:"flow,omitempty"`
}

// ServiceIDs returns the selected service ids in insertion order.
func (s Selection) ServiceIDs() []string {
	ids := make([]string, 0, len(s.Services))
	for _, svc := range s.Services {
		ids = append(ids, svc.ID)
	}
	return ids
}

// FirstServiceID returns the id submitted to the upstream creation endpoint.
// Multi-service selections are tracked for display and totals, but the
// upstream appointment API accepts a single service per appointment.
func (s Selection) FirstServiceID() string {
	if len(s.Services) == 0 {
		return ""
	}
	return s.Services[0].ID
}

// TotalPrice sums the normalized service prices. Entries that failed
// numeric coercion contribute 0, so the result is never NaN.
func (s Selection) TotalPrice() float64 {
	var total float64
	for _, svc := range s.Services {
		total += sanitizePrice(svc.Price)
	}
	return total
}

// TotalDuration sums the service durations in minutes.
func (s Selection) TotalDuration() int {
	var total int
	for _, svc := range s.Services {
		if svc.Duration > 0 {
			total += svc.Duration
		}
	}
	return total
}

// SlotStatus describes the availability panel's lifecycle.
type SlotStatus string

const (
	// SlotsIdle means no query has been answered for the current inputs,
	// or the inputs are incomplete.
	SlotsIdle SlotStatus = "idle"
	// SlotsReady means the slot list reflects the most recent response
	// for the current input tuple.
	SlotsReady SlotStatus = "ready"
	// SlotsError means the last fetch for the current inputs failed.
	SlotsError SlotStatus = "error"
)

// SlotState is the slot panel's state, kept separate from the selection.
type SlotState struct {
	Status       SlotStatus `json:"status"`
	Key          QueryKey   `json:"key,omitzero"`
	Slots        []Slot     `json:"slots,omitempty"`
	SlotDuration int        `json:"slot_duration,omitempty"`
	Notice       string     `json:"notice,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	FetchedAt    time.Time  `json:"fetched_at,omitzero"`
}

// Confirmation carries the upstream appointment details shown after a
// successful submission.
type Confirmation struct {
	AppointmentID string `json:"appointment_id"`
	DisplayTime   string `json:"display_time,omitempty"`
	Timezone      string `json:"timezone,omitempty"`
}

// Session is one customer's wizard run: selection, step position, slot
// state, and (after submission) the confirmation. Version supports
// compare-and-set saves so an availability response applied asynchronously
// never clobbers a newer user action.
type Session struct {
	ID           string        `json:"id"`
	Selection    Selection     `json:"selection"`
	StepIndex    int           `json:"step_index"`
	Slots        SlotState     `json:"slots"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
	Version      int64         `json:"version"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewSession creates an empty session. An empty flow is allowed; the step
// order then defaults to service-first until the customer picks one.
func NewSession(flow Flow, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Selection: Selection{Flow: flow},
		Slots:     SlotState{Status: SlotsIdle},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetServices replaces the selection atomically: prices and durations are
// sanitized and duplicates collapse onto the first occurrence, preserving
// insertion order.
func (s *Session) SetServices(services []Service, now time.Time) {
	s.Selection.Services = NormalizeServices(services)
	s.invalidateSlots()
	s.touch(now)
}

// SetStaff records the chosen staff member.
func (s *Session) SetStaff(staffID string, now time.Time) {
	s.Selection.StaffID = staffID
	s.invalidateSlots()
	s.touch(now)
}

// SetDate records the chosen calendar date ("YYYY-MM-DD").
func (s *Session) SetDate(date string, now time.Time) {
	s.Selection.Date = date
	s.invalidateSlots()
	s.touch(now)
}

// SetTime records the chosen slot time. The time must be offered as
// available in the most recent slot response for the current inputs.
func (s *Session) SetTime(hhmm string, now time.Time) error {
	if s.Slots.Status != SlotsReady {
		return ErrSlotsNotLoaded
	}
	if !slotAvailable(s.Slots.Slots, hhmm) {
		return ErrTimeNotAvailable
	}
	s.Selection.Time = hhmm
	s.touch(now)
	return nil
}

// SetCustomer stores the customer details without validating them; the
// details step's completion predicate validates before progression.
func (s *Session) SetCustomer(c CustomerDetails, now time.Time) {
	s.Selection.Customer = c
	s.touch(now)
}

// SetFlow switches the booking flow. Changing to a different flow resets
// the service and staff selections, clears the chosen time, and returns
// the wizard to the first step, so partial selections never leak across
// flows. Date and customer details survive the switch.
func (s *Session) SetFlow(flow Flow, now time.Time) error {
	if !flow.Valid() {
		return ErrUnknownFlow
	}
	if s.Selection.Flow == flow {
		s.touch(now)
		return nil
	}
	s.Selection.Flow = flow
	s.Selection.Services = nil
	s.Selection.StaffID = ""
	s.Selection.Time = ""
	s.StepIndex = 0
	s.invalidateSlots()
	s.touch(now)
	return nil
}

// Reset is the explicit "start over": every field cleared, step zero.
func (s *Session) Reset(now time.Time) {
	s.Selection = Selection{}
	s.StepIndex = 0
	s.Slots = SlotState{Status: SlotsIdle}
	s.Confirmation = nil
	s.touch(now)
}

func (s *Session) invalidateSlots() {
	s.Slots = SlotState{Status: SlotsIdle}
}

func (s *Session) touch(now time.Time) {
	s.UpdatedAt = now
}

// NormalizeServices sanitizes numeric fields and dedupes by id, keeping
// the first occurrence. The upstream API has been observed returning
// string-typed prices; by the time services reach here they are floats,
// but NaN and infinities from failed coercion still map to 0.
func NormalizeServices(services []Service) []Service {
	out := make([]Service, 0, len(services))
	seen := make(map[string]struct{}, len(services))
	for _, svc := range services {
		if svc.ID == "" {
			continue
		}
		if _, dup := seen[svc.ID]; dup {
			continue
		}
		seen[svc.ID] = struct{}{}
		svc.Price = sanitizePrice(svc.Price)
		if svc.Duration < 0 {
			svc.Duration = 0
		}
		out = append(out, svc)
	}
	return out
}

func sanitizePrice(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0
	}
	return p
}

func slotAvailable(slots []Slot, hhmm string) bool {
	for _, slot := range slots {
		if slot.Time == hhmm && slot.Available {
			return true
		}
	}
	return false
}
