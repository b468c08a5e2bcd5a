// Package scheduleapi is the REST client for the appointment back end that
// owns slot computation, staff/service catalogs, and appointment storage.
package scheduleapi

import (
	"math"
	"strconv"
	"strings"

	"github.com/barberly/booking-engine/internal/wizard"
)

// Number decodes from a JSON number or a numeric string. The appointment
// API has been observed returning prices and durations as strings; invalid
// and non-finite values decode to 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*n = 0
		return nil
	}
	s = strings.TrimSpace(strings.Trim(s, `"`))
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// Service is a bookable service as the appointment API describes it.
type Service struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Price    Number `json:"price"`
	Duration Number `json:"duration"` // minutes
}

// Domain converts to the wizard's service type.
func (s Service) Domain() wizard.Service {
	return wizard.Service{
		ID:       s.ID,
		Name:     s.Name,
		Category: s.Category,
		Price:    float64(s.Price),
		Duration: int(s.Duration),
	}
}

// StaffMember is a barber as the appointment API describes them.
type StaffMember struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Position   string   `json:"position,omitempty"`
	Image      string   `json:"image,omitempty"`
	ServiceIDs []string `json:"service_ids"`
}

// Domain converts to the wizard's staff type.
func (m StaffMember) Domain() wizard.StaffMember {
	return wizard.StaffMember{
		ID:         m.ID,
		Name:       m.Name,
		Position:   m.Position,
		Image:      m.Image,
		ServiceIDs: m.ServiceIDs,
	}
}

// Slot is one bookable time in an availability response.
type Slot struct {
	Time              string `json:"time"`
	Available         bool   `json:"available"`
	DisplayTime       string `json:"display_time,omitempty"`
	UnavailableReason string `json:"unavailable_reason,omitempty"`
}

// SlotsResponse is the availability query's wire shape.
type SlotsResponse struct {
	Success      bool   `json:"success"`
	Slots        []Slot `json:"slots"`
	SlotDuration Number `json:"slot_duration,omitempty"`
	Message      string `json:"message,omitempty"`
}

// ServicesResponse groups services by display category.
type ServicesResponse struct {
	Success  bool                 `json:"success"`
	Services map[string][]Service `json:"services"`
	Message  string               `json:"message,omitempty"`
}

// StaffResponse lists staff members.
type StaffResponse struct {
	Success bool          `json:"success"`
	Staff   []StaffMember `json:"staff"`
	Message string        `json:"message,omitempty"`
}

// Customer is a returning customer found by phone lookup.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone"`
	Notes string `json:"notes,omitempty"`
}

// CustomerResponse is the phone lookup's wire shape. A missing customer
// with Success=true is a lookup miss, not an error.
type CustomerResponse struct {
	Success  bool      `json:"success"`
	Customer *Customer `json:"customer,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// CreateBookingRequest is the appointment creation payload. Optional
// fields are omitted from the wire entirely when blank.
type CreateBookingRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email,omitempty"`
	ServiceID     string `json:"service_id"`
	StaffID       string `json:"staff_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Timezone      string `json:"timezone"`
	Notes         string `json:"notes,omitempty"`
}

// Appointment is the created appointment's wire shape.
type Appointment struct {
	ID          string `json:"id"`
	DisplayTime string `json:"display_time,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

// CreateBookingResponse wraps the creation result.
type CreateBookingResponse struct {
	Success     bool         `json:"success"`
	Appointment *Appointment `json:"appointment,omitempty"`
	Message     string       `json:"message,omitempty"`
}
