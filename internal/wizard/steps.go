package wizard

import (
	"strings"
	"time"
)

// Step identifies one wizard screen.
type Step string

const (
	StepServices Step = "services"
	StepStaff    Step = "staff"
	StepDateTime Step = "datetime"
	StepDetails  Step = "details"
	StepConfirm  Step = "confirm"
)

// StepCount is the number of wizard steps in either flow.
const StepCount = 5

// StepsFor returns the step order for a flow. Until a flow is chosen the
// wizard presents the service-first order.
func StepsFor(flow Flow) [StepCount]Step {
	if flow == FlowStaffFirst {
		return [StepCount]Step{StepStaff, StepServices, StepDateTime, StepDetails, StepConfirm}
	}
	return [StepCount]Step{StepServices, StepStaff, StepDateTime, StepDetails, StepConfirm}
}

// CurrentStep returns the step the session is on.
func (s *Session) CurrentStep() Step {
	steps := StepsFor(s.Selection.Flow)
	idx := s.StepIndex
	if idx < 0 {
		idx = 0
	}
	if idx >= StepCount {
		idx = StepCount - 1
	}
	return steps[idx]
}

// Next advances one step if the current step's completion predicate holds.
// On the confirmation step Next is a no-op; submission ends the wizard.
func (s *Session) Next(now time.Time) error {
	if s.StepIndex >= StepCount-1 {
		return nil
	}
	if err := s.stepComplete(s.CurrentStep()); err != nil {
		return err
	}
	s.StepIndex++
	s.touch(now)
	return nil
}

// Back retreats one step, flooring at the first.
func (s *Session) Back(now time.Time) {
	if s.StepIndex > 0 {
		s.StepIndex--
		s.touch(now)
	}
}

func (s *Session) stepComplete(step Step) error {
	switch step {
	case StepServices:
		if len(s.Selection.Services) == 0 {
			return &StepIncompleteError{Step: step, Reason: "select at least one service"}
		}
	case StepStaff:
		if strings.TrimSpace(s.Selection.StaffID) == "" {
			return &StepIncompleteError{Step: step, Reason: "select a staff member"}
		}
	case StepDateTime:
		if s.Selection.Date == "" || s.Selection.Time == "" {
			return &StepIncompleteError{Step: step, Reason: "pick a date and time"}
		}
	case StepDetails:
		if err := s.Selection.Customer.Validate(); err != nil {
			return &StepIncompleteError{Step: step, Reason: err.Error()}
		}
	}
	return nil
}
