package scheduleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/barberly/booking-engine/pkg/logging"
)

const defaultTimeout = 15 * time.Second

// APIError is an application-level failure: the HTTP exchange succeeded
// but the appointment API reported success=false.
type APIError struct {
	Op      string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("scheduleapi: %s failed", e.Op)
	}
	return fmt.Sprintf("scheduleapi: %s failed: %s", e.Op, e.Message)
}

// Client wraps the appointment back end's booking REST endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logging.Logger
}

// NewClient constructs an appointment API client. timeout <= 0 uses the
// 15-second default.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger,
	}
}

// GetBookingSlots returns the time slots for a date/staff/services tuple.
func (c *Client) GetBookingSlots(ctx context.Context, date, staffID string, serviceIDs []string) (*SlotsResponse, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("staff_id", staffID)
	q.Set("service_ids", strings.Join(serviceIDs, ","))

	var resp SlotsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/booking/slots?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("get booking slots: %w", err)
	}
	if !resp.Success {
		return nil, &APIError{Op: "get booking slots", Message: resp.Message}
	}
	return &resp, nil
}

// GetBookingServices lists all bookable services grouped by category.
func (c *Client) GetBookingServices(ctx context.Context) (*ServicesResponse, error) {
	var resp ServicesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/booking/services", nil, &resp); err != nil {
		return nil, fmt.Errorf("get booking services: %w", err)
	}
	if !resp.Success {
		return nil, &APIError{Op: "get booking services", Message: resp.Message}
	}
	return &resp, nil
}

// GetStaffServices lists the services one staff member can perform, in the
// same grouped shape.
func (c *Client) GetStaffServices(ctx context.Context, staffID string) (*ServicesResponse, error) {
	path := fmt.Sprintf("/api/booking/staff/%s/services", url.PathEscape(staffID))

	var resp ServicesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get staff services: %w", err)
	}
	if !resp.Success {
		return nil, &APIError{Op: "get staff services", Message: resp.Message}
	}
	return &resp, nil
}

// GetBookingStaff lists staff, optionally narrowed to one service.
func (c *Client) GetBookingStaff(ctx context.Context, serviceID string) (*StaffResponse, error) {
	path := "/api/booking/staff"
	if serviceID != "" {
		q := url.Values{}
		q.Set("service_id", serviceID)
		path += "?" + q.Encode()
	}

	var resp StaffResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get booking staff: %w", err)
	}
	if !resp.Success {
		return nil, &APIError{Op: "get booking staff", Message: resp.Message}
	}
	return &resp, nil
}

// GetCustomerByPhone looks up a returning customer by their ten-digit
// phone number. A miss returns (nil, nil).
func (c *Client) GetCustomerByPhone(ctx context.Context, digits string) (*Customer, error) {
	q := url.Values{}
	q.Set("phone", digits)

	var resp CustomerResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/booking/customers/lookup?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("get customer by phone: %w", err)
	}
	if !resp.Success {
		return nil, &APIError{Op: "get customer by phone", Message: resp.Message}
	}
	return resp.Customer, nil
}

// CreateBooking creates the appointment.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Appointment, error) {
	var resp CreateBookingResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/booking/appointments", req, &resp); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if !resp.Success || resp.Appointment == nil {
		return nil, &APIError{Op: "create booking", Message: resp.Message}
	}
	return resp.Appointment, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	endpoint := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("appointment API returned error status",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
