package signoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"assistance-service/internal/apperrors"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func newTestSheet(mode Mode) Sheet {
	return NewSheet(mode, "medical", "technical", "final")
}

func record(t *testing.T, s *Sheet, gate string, decision Decision) {
	t.Helper()
	err := s.Record(gate, decision, "validator-1", "", time.Now())
	assert.NoError(t, err)
}

// ============================================================================
// TEST SUITE 1: RECORDING DECISIONS
// ============================================================================

func TestRecord_ApprovesPendingGate(t *testing.T) {
	sheet := newTestSheet(AnyOrder)
	now := time.Now()

	err := sheet.Record("medical", Approved, "doc-1", "fit to travel", now)

	assert.NoError(t, err)
	gate := sheet.Gate("medical")
	assert.Equal(t, Approved, gate.Decision)
	assert.Equal(t, "doc-1", *gate.ValidatorID)
	assert.Equal(t, now, *gate.DecidedAt)
	assert.Equal(t, "fit to travel", *gate.Notes)
}

func TestRecord_UnknownGate(t *testing.T) {
	sheet := newTestSheet(AnyOrder)

	err := sheet.Record("legal", Approved, "v-1", "", time.Now())

	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))
}

func TestRecord_PendingIsNotADecision(t *testing.T) {
	sheet := newTestSheet(AnyOrder)

	err := sheet.Record("medical", Pending, "v-1", "", time.Now())

	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))
}

func TestRecord_AlreadyDecidedGateIsImmutable(t *testing.T) {
	for _, first := range []Decision{Approved, Rejected} {
		for _, second := range []Decision{Approved, Rejected} {
			sheet := newTestSheet(AnyOrder)
			record(t, &sheet, "medical", first)

			err := sheet.Record("medical", second, "v-2", "", time.Now())

			assert.True(t, apperrors.Is(err, apperrors.KindAlreadyDecided),
				"re-deciding %s after %s must fail", second, first)
			assert.Equal(t, first, sheet.Gate("medical").Decision, "original decision must survive")
		}
	}
}

func TestRecord_FailedRecordDoesNotMutate(t *testing.T) {
	sheet := newTestSheet(StrictOrder)

	err := sheet.Record("final", Approved, "v-1", "", time.Now())

	assert.Error(t, err)
	assert.Equal(t, Pending, sheet.Gate("final").Decision)
	assert.Nil(t, sheet.Gate("final").ValidatorID)
}

// ============================================================================
// TEST SUITE 2: ANY-ORDER MODE
// ============================================================================

func TestAnyOrder_GatesDecidableInAnyOrder(t *testing.T) {
	orders := [][]string{
		{"medical", "technical", "final"},
		{"final", "medical", "technical"},
		{"technical", "final", "medical"},
	}

	for _, order := range orders {
		sheet := newTestSheet(AnyOrder)
		for _, gate := range order {
			record(t, &sheet, gate, Approved)
		}
		assert.Equal(t, OutcomeApproved, sheet.Outcome())
	}
}

func TestAnyOrder_OutcomeGrid(t *testing.T) {
	tests := []struct {
		name      string
		decisions map[string]Decision
		want      Outcome
	}{
		{"all pending", map[string]Decision{}, OutcomePending},
		{"one approved", map[string]Decision{"medical": Approved}, OutcomePending},
		{"two approved", map[string]Decision{"medical": Approved, "final": Approved}, OutcomePending},
		{"all approved", map[string]Decision{"medical": Approved, "technical": Approved, "final": Approved}, OutcomeApproved},
		{"single rejection wins", map[string]Decision{"technical": Rejected}, OutcomeRejected},
		{"rejection beats approvals", map[string]Decision{"medical": Approved, "technical": Rejected, "final": Approved}, OutcomeRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := newTestSheet(AnyOrder)
			for gate, decision := range tt.decisions {
				record(t, &sheet, gate, decision)
			}
			assert.Equal(t, tt.want, sheet.Outcome())
		})
	}
}

// ============================================================================
// TEST SUITE 3: STRICT-ORDER MODE
// ============================================================================

func TestStrictOrder_RefusesSkippingAhead(t *testing.T) {
	sheet := newTestSheet(StrictOrder)

	err := sheet.Record("technical", Approved, "v-1", "", time.Now())
	assert.True(t, apperrors.Is(err, apperrors.KindOutOfOrder))

	err = sheet.Record("final", Approved, "v-1", "", time.Now())
	assert.True(t, apperrors.Is(err, apperrors.KindOutOfOrder))
}

func TestStrictOrder_SequentialApproval(t *testing.T) {
	sheet := newTestSheet(StrictOrder)

	record(t, &sheet, "medical", Approved)
	record(t, &sheet, "technical", Approved)
	record(t, &sheet, "final", Approved)

	assert.Equal(t, OutcomeApproved, sheet.Outcome())
}

func TestStrictOrder_SecondGateNeedsFirstApproved(t *testing.T) {
	sheet := newTestSheet(StrictOrder)
	record(t, &sheet, "medical", Rejected)

	err := sheet.Record("technical", Approved, "v-1", "", time.Now())

	assert.True(t, apperrors.Is(err, apperrors.KindOutOfOrder))
	assert.Equal(t, OutcomeRejected, sheet.Outcome())
}

func TestStrictOrder_MidChainRejectionIsTerminal(t *testing.T) {
	sheet := newTestSheet(StrictOrder)
	record(t, &sheet, "medical", Approved)
	record(t, &sheet, "technical", Rejected)

	err := sheet.Record("final", Approved, "v-1", "", time.Now())

	assert.True(t, apperrors.Is(err, apperrors.KindOutOfOrder))
	assert.Equal(t, OutcomeRejected, sheet.Outcome())
}
