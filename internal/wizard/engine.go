package wizard

import (
	"context"
	"errors"
	"time"

	"github.com/barberly/booking-engine/internal/observability/metrics"
	"github.com/barberly/booking-engine/pkg/logging"
)

// AvailabilityProvider answers slot queries. Implemented by the
// appointment API client.
type AvailabilityProvider interface {
	GetBookingSlots(ctx context.Context, date, staffID string, serviceIDs []string) (*SlotsResult, error)
}

// BookingCreator creates the final appointment upstream.
type BookingCreator interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingConfirmation, error)
}

// saveAttempts bounds the compare-and-set retry loop; conflicts are rare
// (one customer drives one session) and resolve on the first retry.
const saveAttempts = 3

// errStaleResponse aborts an update whose availability response no longer
// matches the session's selection.
var errStaleResponse = errors.New("stale availability response")

// EngineConfig wires the engine's collaborators and booking rules.
type EngineConfig struct {
	Store        Store
	Availability AvailabilityProvider
	Booker       BookingCreator
	Metrics      *metrics.BookingMetrics
	Logger       *logging.Logger

	// BookingWindowDays caps how far ahead a date may be picked.
	BookingWindowDays int
	// Timezone is the shop's display timezone; date bounds are evaluated
	// in it and it is sent with every creation request.
	Timezone *time.Location
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// Engine coordinates wizard sessions: it owns the store round-trips, the
// availability staleness guard, and submission.
type Engine struct {
	store   Store
	avail   AvailabilityProvider
	booker  BookingCreator
	metrics *metrics.BookingMetrics
	logger  *logging.Logger

	windowDays int
	tz         *time.Location
	now        func() time.Time
}

// NewEngine creates a wizard engine.
func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	tz := cfg.Timezone
	if tz == nil {
		tz = time.UTC
	}
	windowDays := cfg.BookingWindowDays
	if windowDays <= 0 {
		windowDays = 30
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:      cfg.Store,
		avail:      cfg.Availability,
		booker:     cfg.Booker,
		metrics:    cfg.Metrics,
		logger:     logger,
		windowDays: windowDays,
		tz:         tz,
		now:        now,
	}
}

// CreateSession starts a new wizard run. flow may be empty.
func (e *Engine) CreateSession(ctx context.Context, flow Flow) (*Session, error) {
	if flow != "" && !flow.Valid() {
		return nil, ErrUnknownFlow
	}
	s := NewSession(flow, e.now().In(e.tz))
	if err := e.store.Create(ctx, s); err != nil {
		return nil, err
	}
	e.logger.Info("booking session created", "session_id", s.ID, "flow", string(flow))
	return s, nil
}

// GetSession loads a session.
func (e *Engine) GetSession(ctx context.Context, id string) (*Session, error) {
	return e.store.Get(ctx, id)
}

// SetFlow switches the booking flow, applying the cross-flow reset.
func (e *Engine) SetFlow(ctx context.Context, id string, flow Flow) (*Session, error) {
	return e.update(ctx, id, func(s *Session) error {
		return s.SetFlow(flow, e.now().In(e.tz))
	})
}

// SetServices replaces the selected services.
func (e *Engine) SetServices(ctx context.Context, id string, services []Service) (*Session, error) {
	return e.update(ctx, id, func(s *Session) error {
		s.SetServices(services, e.now().In(e.tz))
		return nil
	})
}

// SetStaff records the chosen staff member.
func (e *Engine) SetStaff(ctx context.Context, id, staffID string) (*Session, error) {
	return e.update(ctx, id, func(s *Session) error {
		s.SetStaff(staffID, e.now().In(e.tz))
		return nil
	})
}

// SetDate records the chosen date after the booking-window check.
func (e *Engine) SetDate(ctx context.Context, id, date string) (*Session, error) {
	if err := ValidateDate(date, e.now().In(e.tz), e.windowDays); err != nil {
		return nil, err
	}
	return e.update(ctx, id, func(s *Session) error {
		s.SetDate(date, e.now().In(e.tz))
		return nil
	})
}

// SetTime records the chosen slot time; the slot must be offered as
// available in the session's current slot state.
func (e *Engine) SetTime(ctx context.Context, id, hhmm string) (*Session, error) {
	return e.update(ctx, id, func(s *Session) error {
		return s.SetTime(hhmm, e.now().In(e.tz))
	})
}

// SetCustomer stores the customer details.
func (e *Engine) SetCustomer(ctx context.Context, id string, c CustomerDetails) (*Session, error) {
	return e.update(ctx, id, func(s *Session) error {
		s.SetCustomer(c, e.now().In(e.tz))
		return nil
	})
}

// Next advances the wizard when the current step is complete.
func (e *Engine) Next(ctx context.Context, id string) (*Session, error) {
	return e.update(ctx, id, func(s *Session) error {
		return s.Next(e.now().In(e.tz))
	})
}

// Back retreats one step.
func (e *Engine) Back(ctx context.Context, id string) (*Session, error) {
	return e.update(ctx, id, func(s *Session) error {
		s.Back(e.now().In(e.tz))
		return nil
	})
}

// RefreshSlots runs one availability round: derive the query key from the
// current selection, fetch, then apply the tagged response only if the
// selection still matches. A fetch is never issued while date, staff, or
// services are missing. Upstream failures become slot-panel state, not
// errors; the rest of the wizard stays usable.
func (e *Engine) RefreshSlots(ctx context.Context, id string) (*Session, error) {
	s, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	key, ok := KeyFor(s.Selection)
	if !ok {
		if s.Slots.Status == SlotsIdle {
			return s, nil
		}
		return e.update(ctx, id, func(cur *Session) error {
			cur.invalidateSlots()
			cur.touch(e.now().In(e.tz))
			return nil
		})
	}

	if err := ValidateDate(key.Date, e.now().In(e.tz), e.windowDays); err != nil {
		return nil, err
	}

	start := e.now()
	res, fetchErr := e.avail.GetBookingSlots(ctx, key.Date, key.StaffID, key.ServiceIDs)
	elapsed := e.now().Sub(start).Seconds()

	if fetchErr != nil {
		e.metrics.ObserveSlotFetch("error", elapsed)
		e.logger.Error("availability fetch failed",
			"session_id", id,
			"date", key.Date,
			"staff_id", key.StaffID,
			"error", fetchErr,
		)
		return e.applyResponse(ctx, id, key, func(cur *Session) bool {
			return ApplySlotsError(cur, key, e.now().In(e.tz))
		})
	}

	e.metrics.ObserveSlotFetch("ok", elapsed)
	return e.applyResponse(ctx, id, key, func(cur *Session) bool {
		return ApplySlots(cur, key, *res, e.now().In(e.tz))
	})
}

// applyResponse writes a tagged availability outcome through the
// compare-and-set loop. When the session's selection moved on mid-flight
// the response is discarded and the current session returned untouched.
func (e *Engine) applyResponse(ctx context.Context, id string, key QueryKey, apply func(*Session) bool) (*Session, error) {
	s, err := e.update(ctx, id, func(cur *Session) error {
		if !apply(cur) {
			return errStaleResponse
		}
		return nil
	})
	if errors.Is(err, errStaleResponse) {
		e.metrics.ObserveStaleDiscard()
		e.logger.Info("discarded stale availability response",
			"session_id", id,
			"date", key.Date,
			"staff_id", key.StaffID,
		)
		return e.store.Get(ctx, id)
	}
	return s, err
}

// Submit validates locally, builds the creation request, and calls the
// upstream API. Failures preserve every field so the customer can retry.
func (e *Engine) Submit(ctx context.Context, id string) (*Session, error) {
	s, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Confirmation != nil {
		return nil, ErrAlreadyConfirmed
	}
	if err := s.ValidateForSubmit(); err != nil {
		return nil, err
	}

	req := s.BuildCreateRequest(e.tz.String())
	conf, err := e.booker.CreateBooking(ctx, req)
	if err != nil {
		e.metrics.ObserveSubmission("error")
		e.logger.Error("booking submission failed", "session_id", id, "error", err)
		return nil, &UpstreamError{Op: "create booking", Err: err}
	}

	e.metrics.ObserveSubmission("ok")
	e.logger.Info("booking confirmed",
		"session_id", id,
		"appointment_id", conf.AppointmentID,
		"staff_id", req.StaffID,
		"date", req.Date,
		"time", req.Time,
	)
	return e.update(ctx, id, func(cur *Session) error {
		cur.Confirmation = &Confirmation{
			AppointmentID: conf.AppointmentID,
			DisplayTime:   conf.DisplayTime,
			Timezone:      conf.Timezone,
		}
		cur.touch(e.now().In(e.tz))
		return nil
	})
}

// Restart is the explicit "start over" action.
func (e *Engine) Restart(ctx context.Context, id string) (*Session, error) {
	return e.update(ctx, id, func(s *Session) error {
		s.Reset(e.now().In(e.tz))
		return nil
	})
}

// update runs a read-mutate-save cycle, retrying lost compare-and-set
// races with a fresh read.
func (e *Engine) update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	var lastErr error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		s, err := e.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := fn(s); err != nil {
			return nil, err
		}
		err = e.store.Save(ctx, s)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
