package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/barberly/booking-engine/internal/scheduleapi"
	"github.com/barberly/booking-engine/internal/wizard"
	"github.com/barberly/booking-engine/pkg/logging"
	"github.com/go-chi/chi/v5"
)

// BookingHandler drives wizard sessions over HTTP.
type BookingHandler struct {
	engine *wizard.Engine
	logger *logging.Logger
}

// NewBookingHandler creates a booking wizard handler.
func NewBookingHandler(engine *wizard.Engine, logger *logging.Logger) *BookingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{engine: engine, logger: logger}
}

type createSessionRequest struct {
	Flow wizard.Flow `json:"flow,omitempty"`
}

type flowRequest struct {
	Flow wizard.Flow `json:"flow"`
}

// servicesRequest reuses the upstream wire type so string-typed prices and
// durations coming straight off the appointment API decode defensively.
type servicesRequest struct {
	Services []scheduleapi.Service `json:"services"`
}

type staffRequest struct {
	StaffID string `json:"staff_id"`
}

type dateRequest struct {
	Date string `json:"date"`
}

type timeRequest struct {
	Time string `json:"time"`
}

type totalsView struct {
	Price    float64 `json:"price"`
	Duration int     `json:"duration"`
}

// sessionView is the wire representation of a wizard session.
type sessionView struct {
	ID           string               `json:"id"`
	Flow         wizard.Flow          `json:"flow,omitempty"`
	Step         wizard.Step          `json:"step"`
	StepIndex    int                  `json:"step_index"`
	Steps        []wizard.Step        `json:"steps"`
	Selection    wizard.Selection     `json:"selection"`
	Totals       totalsView           `json:"totals"`
	Slots        wizard.SlotState     `json:"slots"`
	Confirmation *wizard.Confirmation `json:"confirmation,omitempty"`
}

func viewOf(s *wizard.Session) sessionView {
	order := wizard.StepsFor(s.Selection.Flow)
	return sessionView{
		ID:        s.ID,
		Flow:      s.Selection.Flow,
		Step:      s.CurrentStep(),
		StepIndex: s.StepIndex,
		Steps:     order[:],
		Selection: s.Selection,
		Totals: totalsView{
			Price:    s.Selection.TotalPrice(),
			Duration: s.Selection.TotalDuration(),
		},
		Slots:        s.Slots,
		Confirmation: s.Confirmation,
	}
}

// CreateSession handles POST /booking/sessions.
func (h *BookingHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	s, err := h.engine.CreateSession(r.Context(), req.Flow)
	if err != nil {
		writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(s))
}

// GetSession handles GET /booking/sessions/{sessionID}.
func (h *BookingHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.engine.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(s))
}

// SetFlow handles PUT /booking/sessions/{sessionID}/flow.
func (h *BookingHandler) SetFlow(w http.ResponseWriter, r *http.Request) {
	var req flowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.respondUpdated(w, r, func(ctx context.Context, id string) (*wizard.Session, error) {
		return h.engine.SetFlow(ctx, id, req.Flow)
	})
}

// SetServices handles PUT /booking/sessions/{sessionID}/services.
func (h *BookingHandler) SetServices(w http.ResponseWriter, r *http.Request) {
	var req servicesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	services := make([]wizard.Service, 0, len(req.Services))
	for _, svc := range req.Services {
		services = append(services, svc.Domain())
	}
	h.respondUpdated(w, r, func(ctx context.Context, id string) (*wizard.Session, error) {
		return h.engine.SetServices(ctx, id, services)
	})
}

// SetStaff handles PUT /booking/sessions/{sessionID}/staff.
func (h *BookingHandler) SetStaff(w http.ResponseWriter, r *http.Request) {
	var req staffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.respondUpdated(w, r, func(ctx context.Context, id string) (*wizard.Session, error) {
		return h.engine.SetStaff(ctx, id, req.StaffID)
	})
}

// SetDate handles PUT /booking/sessions/{sessionID}/date.
func (h *BookingHandler) SetDate(w http.ResponseWriter, r *http.Request) {
	var req dateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.respondUpdated(w, r, func(ctx context.Context, id string) (*wizard.Session, error) {
		return h.engine.SetDate(ctx, id, req.Date)
	})
}

// SetTime handles PUT /booking/sessions/{sessionID}/time.
func (h *BookingHandler) SetTime(w http.ResponseWriter, r *http.Request) {
	var req timeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.respondUpdated(w, r, func(ctx context.Context, id string) (*wizard.Session, error) {
		return h.engine.SetTime(ctx, id, req.Time)
	})
}

// SetCustomer handles PUT /booking/sessions/{sessionID}/customer.
func (h *BookingHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	var req wizard.CustomerDetails
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.respondUpdated(w, r, func(ctx context.Context, id string) (*wizard.Session, error) {
		return h.engine.SetCustomer(ctx, id, req)
	})
}

// GetSlots handles GET /booking/sessions/{sessionID}/slots: it runs one
// guarded availability round and returns the session with the refreshed
// slot panel.
func (h *BookingHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	h.respondUpdated(w, r, h.engine.RefreshSlots)
}

// Next handles POST /booking/sessions/{sessionID}/next.
func (h *BookingHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.respondUpdated(w, r, h.engine.Next)
}

// Back handles POST /booking/sessions/{sessionID}/back.
func (h *BookingHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.respondUpdated(w, r, h.engine.Back)
}

// Submit handles POST /booking/sessions/{sessionID}/submit.
func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.respondUpdated(w, r, h.engine.Submit)
}

// Restart handles POST /booking/sessions/{sessionID}/restart.
func (h *BookingHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.respondUpdated(w, r, h.engine.Restart)
}

func (h *BookingHandler) respondUpdated(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (*wizard.Session, error)) {
	s, err := op(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(s))
}
