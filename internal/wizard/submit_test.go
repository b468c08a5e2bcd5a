package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submittableSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(FlowServiceFirst, testNow)
	s.SetServices([]Service{
		{ID: "cut", Name: "Haircut", Price: 30, Duration: 30},
		{ID: "beard", Name: "Beard Trim", Price: 15, Duration: 15},
	}, testNow)
	s.SetStaff("s1", testNow)
	s.SetDate("2026-09-01", testNow)
	s.Slots = SlotState{Status: SlotsReady, Slots: []Slot{{Time: "10:00", Available: true}}}
	require.NoError(t, s.SetTime("10:00", testNow))
	s.SetCustomer(CustomerDetails{
		Name:  "  Jane Doe ",
		Phone: "(555) 123-4567",
		Notes: " first visit ",
	}, testNow)
	return s
}

func TestValidateForSubmit(t *testing.T) {
	s := submittableSession(t)
	assert.NoError(t, s.ValidateForSubmit())

	var verr *ValidationError

	missingTime := submittableSession(t)
	missingTime.Selection.Time = ""
	require.ErrorAs(t, missingTime.ValidateForSubmit(), &verr)
	assert.Equal(t, "time", verr.Field)

	missingStaff := submittableSession(t)
	missingStaff.Selection.StaffID = ""
	require.ErrorAs(t, missingStaff.ValidateForSubmit(), &verr)
	assert.Equal(t, "staff_id", verr.Field)

	missingServices := submittableSession(t)
	missingServices.Selection.Services = nil
	require.ErrorAs(t, missingServices.ValidateForSubmit(), &verr)
	assert.Equal(t, "services", verr.Field)

	badPhone := submittableSession(t)
	badPhone.Selection.Customer.Phone = "123"
	require.ErrorAs(t, badPhone.ValidateForSubmit(), &verr)
	assert.Equal(t, "phone", verr.Field)
}

func TestBuildCreateRequestFirstServiceOnly(t *testing.T) {
	s := submittableSession(t)

	req := s.BuildCreateRequest("Australia/Sydney")

	assert.Equal(t, "cut", req.ServiceID, "only the first selected service is booked")
	assert.Equal(t, "s1", req.StaffID)
	assert.Equal(t, "2026-09-01", req.Date)
	assert.Equal(t, "10:00", req.Time)
	assert.Equal(t, "Australia/Sydney", req.Timezone)
	assert.Equal(t, "Jane Doe", req.CustomerName)
	assert.Equal(t, "5551234567", req.CustomerPhone, "phone is sent as bare digits")
	assert.Equal(t, "first visit", req.Notes)
}

func TestBuildCreateRequestDropsNonEmailValues(t *testing.T) {
	s := submittableSession(t)
	s.Selection.Customer.Email = "not-an-email"

	req := s.BuildCreateRequest("UTC")
	assert.Empty(t, req.CustomerEmail)

	s.Selection.Customer.Email = " jane@example.com "
	req = s.BuildCreateRequest("UTC")
	assert.Equal(t, "jane@example.com", req.CustomerEmail)
}
