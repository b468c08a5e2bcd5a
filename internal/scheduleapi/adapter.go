package scheduleapi

import (
	"context"

	"github.com/barberly/booking-engine/internal/wizard"
)

// Adapter exposes the client through the wizard's provider interfaces,
// translating between wire and domain types.
type Adapter struct {
	client *Client
}

// NewAdapter wraps a client.
func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

var (
	_ wizard.AvailabilityProvider = (*Adapter)(nil)
	_ wizard.BookingCreator       = (*Adapter)(nil)
)

// GetBookingSlots implements wizard.AvailabilityProvider.
func (a *Adapter) GetBookingSlots(ctx context.Context, date, staffID string, serviceIDs []string) (*wizard.SlotsResult, error) {
	resp, err := a.client.GetBookingSlots(ctx, date, staffID, serviceIDs)
	if err != nil {
		return nil, err
	}
	slots := make([]wizard.Slot, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, wizard.Slot{
			Time:              s.Time,
			Available:         s.Available,
			DisplayTime:       s.DisplayTime,
			UnavailableReason: s.UnavailableReason,
		})
	}
	return &wizard.SlotsResult{
		Slots:        slots,
		SlotDuration: int(resp.SlotDuration),
		Message:      resp.Message,
	}, nil
}

// CreateBooking implements wizard.BookingCreator.
func (a *Adapter) CreateBooking(ctx context.Context, req wizard.CreateBookingRequest) (*wizard.BookingConfirmation, error) {
	appt, err := a.client.CreateBooking(ctx, CreateBookingRequest{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		ServiceID:     req.ServiceID,
		StaffID:       req.StaffID,
		Date:          req.Date,
		Time:          req.Time,
		Timezone:      req.Timezone,
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &wizard.BookingConfirmation{
		AppointmentID: appt.ID,
		DisplayTime:   appt.DisplayTime,
		Timezone:      appt.Timezone,
	}, nil
}
