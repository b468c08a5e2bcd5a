package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/barberly/booking-engine/internal/observability/metrics"
	"github.com/barberly/booking-engine/internal/scheduleapi"
	"github.com/barberly/booking-engine/internal/wizard"
	"github.com/barberly/booking-engine/pkg/logging"
	"github.com/go-chi/chi/v5"
)

// Directory is the slice of the appointment API the catalog and customer
// lookup endpoints need.
type Directory interface {
	GetBookingServices(ctx context.Context) (*scheduleapi.ServicesResponse, error)
	GetStaffServices(ctx context.Context, staffID string) (*scheduleapi.ServicesResponse, error)
	GetBookingStaff(ctx context.Context, serviceID string) (*scheduleapi.StaffResponse, error)
	GetCustomerByPhone(ctx context.Context, digits string) (*scheduleapi.Customer, error)
}

// CatalogHandler proxies the service/staff catalog and the returning-
// customer phone lookup.
type CatalogHandler struct {
	directory Directory
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(directory Directory, m *metrics.BookingMetrics, logger *logging.Logger) *CatalogHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CatalogHandler{directory: directory, metrics: m, logger: logger}
}

type servicesView struct {
	Services map[string][]wizard.Service `json:"services"`
}

type staffView struct {
	Staff []wizard.StaffMember `json:"staff"`
}

type customerLookupView struct {
	Found    bool                    `json:"found"`
	Customer *wizard.CustomerDetails `json:"customer,omitempty"`
}

// ListServices handles GET /booking/catalog/services.
func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	resp, err := h.directory.GetBookingServices(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "error", err)
		writeError(w, http.StatusBadGateway, "could not load services")
		return
	}
	writeJSON(w, http.StatusOK, servicesView{Services: domainServices(resp)})
}

// ListStaffServices handles GET /booking/catalog/staff/{staffID}/services.
func (h *CatalogHandler) ListStaffServices(w http.ResponseWriter, r *http.Request) {
	staffID := chi.URLParam(r, "staffID")
	resp, err := h.directory.GetStaffServices(r.Context(), staffID)
	if err != nil {
		h.logger.Error("failed to list staff services", "error", err, "staff_id", staffID)
		writeError(w, http.StatusBadGateway, "could not load services")
		return
	}
	writeJSON(w, http.StatusOK, servicesView{Services: domainServices(resp)})
}

// ListStaff handles GET /booking/catalog/staff. An optional service_id is
// forwarded upstream; an optional comma-separated service_ids filters the
// result to staff able to perform every listed service.
func (h *CatalogHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	serviceID := r.URL.Query().Get("service_id")
	resp, err := h.directory.GetBookingStaff(r.Context(), serviceID)
	if err != nil {
		h.logger.Error("failed to list staff", "error", err, "service_id", serviceID)
		writeError(w, http.StatusBadGateway, "could not load staff")
		return
	}

	staff := make([]wizard.StaffMember, 0, len(resp.Staff))
	for _, m := range resp.Staff {
		staff = append(staff, m.Domain())
	}

	if raw := r.URL.Query().Get("service_ids"); raw != "" {
		var ids []string
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		staff = wizard.EligibleStaff(staff, ids)
	}

	writeJSON(w, http.StatusOK, staffView{Staff: staff})
}

// LookupCustomer handles GET /booking/customers/lookup?phone=. The phone
// must normalize to exactly ten digits; a miss is an informational state,
// not an error.
func (h *CatalogHandler) LookupCustomer(w http.ResponseWriter, r *http.Request) {
	digits, err := wizard.ValidatePhone(r.URL.Query().Get("phone"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := h.directory.GetCustomerByPhone(r.Context(), digits)
	if err != nil {
		h.metrics.ObserveLookup("error")
		h.logger.Error("customer lookup failed", "error", err)
		writeError(w, http.StatusBadGateway, "could not look up customer")
		return
	}
	if customer == nil {
		h.metrics.ObserveLookup("miss")
		writeJSON(w, http.StatusOK, customerLookupView{Found: false})
		return
	}

	h.metrics.ObserveLookup("found")
	writeJSON(w, http.StatusOK, customerLookupView{
		Found: true,
		Customer: &wizard.CustomerDetails{
			Name:  customer.Name,
			Email: customer.Email,
			Phone: customer.Phone,
			Notes: customer.Notes,
		},
	})
}

func domainServices(resp *scheduleapi.ServicesResponse) map[string][]wizard.Service {
	out := make(map[string][]wizard.Service, len(resp.Services))
	for category, services := range resp.Services {
		converted := make([]wizard.Service, 0, len(services))
		for _, svc := range services {
			converted = append(converted, svc.Domain())
		}
		out[category] = converted
	}
	return out
}
