package wizard

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

func TestNormalizeServicesSanitizesAndDedupes(t *testing.T) {
	services := []Service{
		{ID: "cut", Name: "Haircut", Price: 30, Duration: 30},
		{ID: "beard", Name: "Beard Trim", Price: math.NaN(), Duration: 15},
		{ID: "cut", Name: "Haircut again", Price: 99, Duration: 99},
		{ID: "color", Name: "Color", Price: math.Inf(1), Duration: -10},
		{ID: "", Name: "no id"},
	}

	out := NormalizeServices(services)

	require.Len(t, out, 3)
	assert.Equal(t, "cut", out[0].ID)
	assert.Equal(t, "Haircut", out[0].Name, "first occurrence wins")
	assert.Equal(t, float64(0), out[1].Price, "NaN price contributes 0")
	assert.Equal(t, float64(0), out[2].Price, "Inf price contributes 0")
	assert.Equal(t, 0, out[2].Duration, "negative duration clamps to 0")
}

func TestTotalsNeverNaN(t *testing.T) {
	s := NewSession(FlowServiceFirst, testNow)
	s.SetServices([]Service{
		{ID: "cut", Price: 30, Duration: 30},
		{ID: "beard", Price: math.NaN(), Duration: 15},
		{ID: "wash", Price: 12.5, Duration: 10},
	}, testNow)

	price := s.Selection.TotalPrice()
	require.False(t, math.IsNaN(price))
	assert.Equal(t, 42.5, price)
	assert.Equal(t, 55, s.Selection.TotalDuration())
}

func TestTotalsEmptySelection(t *testing.T) {
	s := NewSession(FlowServiceFirst, testNow)
	assert.Equal(t, float64(0), s.Selection.TotalPrice())
	assert.Equal(t, 0, s.Selection.TotalDuration())
}

func TestSetFlowResetsSelections(t *testing.T) {
	s := NewSession(FlowServiceFirst, testNow)
	s.SetServices([]Service{{ID: "cut", Price: 30, Duration: 30}}, testNow)
	s.SetStaff("s1", testNow)
	s.SetDate("2026-09-01", testNow)
	s.SetCustomer(CustomerDetails{Name: "Jane", Phone: "5551234567"}, testNow)
	s.StepIndex = 2
	s.Slots = SlotState{Status: SlotsReady, Slots: []Slot{{Time: "10:00", Available: true}}}
	require.NoError(t, s.SetTime("10:00", testNow))

	require.NoError(t, s.SetFlow(FlowStaffFirst, testNow))

	assert.Empty(t, s.Selection.Services)
	assert.Empty(t, s.Selection.StaffID)
	assert.Empty(t, s.Selection.Time)
	assert.Equal(t, 0, s.StepIndex)
	assert.Equal(t, SlotsIdle, s.Slots.Status)
	// Date and customer details survive the switch.
	assert.Equal(t, "2026-09-01", s.Selection.Date)
	assert.Equal(t, "Jane", s.Selection.Customer.Name)
}

func TestSetFlowSameFlowKeepsSelections(t *testing.T) {
	s := NewSession(FlowServiceFirst, testNow)
	s.SetServices([]Service{{ID: "cut", Price: 30, Duration: 30}}, testNow)

	require.NoError(t, s.SetFlow(FlowServiceFirst, testNow))

	assert.Len(t, s.Selection.Services, 1)
}

func TestSetFlowRejectsUnknown(t *testing.T) {
	s := NewSession("", testNow)
	assert.ErrorIs(t, s.SetFlow("backwards", testNow), ErrUnknownFlow)
}

func TestSetTimeRequiresLoadedAvailableSlot(t *testing.T) {
	s := NewSession(FlowServiceFirst, testNow)

	err := s.SetTime("10:00", testNow)
	assert.ErrorIs(t, err, ErrSlotsNotLoaded)

	s.Slots = SlotState{Status: SlotsReady, Slots: []Slot{
		{Time: "10:00", Available: true},
		{Time: "10:30", Available: false},
	}}

	assert.ErrorIs(t, s.SetTime("10:30", testNow), ErrTimeNotAvailable)
	assert.ErrorIs(t, s.SetTime("11:00", testNow), ErrTimeNotAvailable)
	require.NoError(t, s.SetTime("10:00", testNow))
	assert.Equal(t, "10:00", s.Selection.Time)
}

func TestSelectionChangeInvalidatesSlotPanel(t *testing.T) {
	s := NewSession(FlowServiceFirst, testNow)
	s.Slots = SlotState{Status: SlotsReady, Slots: []Slot{{Time: "10:00", Available: true}}}

	s.SetDate("2026-09-02", testNow)

	assert.Equal(t, SlotsIdle, s.Slots.Status)
	assert.Empty(t, s.Slots.Slots)
}

func TestResetClearsEverything(t *testing.T) {
	s := NewSession(FlowStaffFirst, testNow)
	s.SetStaff("s1", testNow)
	s.SetDate("2026-09-01", testNow)
	s.SetCustomer(CustomerDetails{Name: "Jane", Phone: "5551234567"}, testNow)
	s.Confirmation = &Confirmation{AppointmentID: "appt-1"}
	s.StepIndex = 4

	s.Reset(testNow)

	assert.Equal(t, Selection{}, s.Selection)
	assert.Equal(t, 0, s.StepIndex)
	assert.Nil(t, s.Confirmation)
	assert.Equal(t, SlotsIdle, s.Slots.Status)
}

func TestEligibleStaff(t *testing.T) {
	staff := []StaffMember{
		{ID: "s1", Name: "Alex", ServiceIDs: []string{"cut", "beard", "color"}},
		{ID: "s2", Name: "Sam", ServiceIDs: []string{"cut"}},
		{ID: "s3", Name: "Riley", ServiceIDs: []string{"beard", "color"}},
	}

	got := EligibleStaff(staff, []string{"cut", "beard"})
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)

	// No services selected means everyone is eligible.
	assert.Len(t, EligibleStaff(staff, nil), 3)
}

func TestFirstServiceID(t *testing.T) {
	sel := Selection{Services: []Service{{ID: "cut"}, {ID: "beard"}}}
	assert.Equal(t, "cut", sel.FirstServiceID())
	assert.Equal(t, "", Selection{}.FirstServiceID())
}
