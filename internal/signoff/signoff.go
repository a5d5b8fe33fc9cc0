// Package signoff implements the multi-gate sign-off sheet shared by the
// subscription workflow (three unordered gates, all must approve) and the
// invoice validation chain (three gates approved in strict order).
package signoff

import (
	"time"

	"assistance-service/internal/apperrors"
)

type Decision string

const (
	Pending  Decision = "pending"
	Approved Decision = "approved"
	Rejected Decision = "rejected"
)

// Mode controls how gate decisions may be recorded.
type Mode int

const (
	// AnyOrder accepts decisions on any pending gate.
	AnyOrder Mode = iota
	// StrictOrder refuses a decision on gate N unless gates 0..N-1 are
	// already approved.
	StrictOrder
)

// Outcome is the aggregate of all gates on a sheet.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeApproved
	OutcomeRejected
)

type Gate struct {
	Name        string
	Decision    Decision
	ValidatorID *string
	DecidedAt   *time.Time
	Notes       *string
}

type Sheet struct {
	Mode  Mode
	Gates []Gate
}

func NewSheet(mode Mode, gateNames ...string) Sheet {
	gates := make([]Gate, len(gateNames))
	for i, name := range gateNames {
		gates[i] = Gate{Name: name, Decision: Pending}
	}
	return Sheet{Mode: mode, Gates: gates}
}

func (s *Sheet) Gate(name string) *Gate {
	for i := range s.Gates {
		if s.Gates[i].Name == name {
			return &s.Gates[i]
		}
	}
	return nil
}

// Record applies a decision to the named gate. The sheet is not mutated on
// error, so a failed Record never leaves a half-applied update behind.
func (s *Sheet) Record(gateName string, decision Decision, validatorID, notes string, now time.Time) error {
	if decision != Approved && decision != Rejected {
		return apperrors.Newf(apperrors.KindInvalidInput, "decision must be approved or rejected, got %q", decision)
	}

	idx := -1
	for i := range s.Gates {
		if s.Gates[i].Name == gateName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperrors.Newf(apperrors.KindInvalidInput, "unknown gate %q", gateName)
	}

	if s.Gates[idx].Decision != Pending {
		return apperrors.Newf(apperrors.KindAlreadyDecided, "gate %q already %s", gateName, s.Gates[idx].Decision)
	}

	if s.Mode == StrictOrder {
		for i := 0; i < idx; i++ {
			if s.Gates[i].Decision != Approved {
				return apperrors.Newf(apperrors.KindOutOfOrder,
					"gate %q requires prior approval of gate %q", gateName, s.Gates[i].Name)
			}
		}
	}

	s.Gates[idx].Decision = decision
	s.Gates[idx].ValidatorID = &validatorID
	s.Gates[idx].DecidedAt = &now
	if notes != "" {
		s.Gates[idx].Notes = &notes
	}
	return nil
}

// Outcome aggregates the sheet: first rejection wins, approval requires
// every gate approved, anything else is still pending.
func (s *Sheet) Outcome() Outcome {
	allApproved := true
	for i := range s.Gates {
		switch s.Gates[i].Decision {
		case Rejected:
			return OutcomeRejected
		case Pending:
			allApproved = false
		}
	}
	if allApproved {
		return OutcomeApproved
	}
	return OutcomePending
}
