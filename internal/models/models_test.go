package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// GEOGRAPHIC ELIGIBILITY
// ============================================================================

func TestCoversDestination_EmptyIncludedMeansAnywhere(t *testing.T) {
	geo := GeoEligibility{}

	assert.True(t, geo.CoversDestination("FR"))
	assert.True(t, geo.CoversDestination("JP"))
}

func TestCoversDestination_ExclusionWinsOverInclusion(t *testing.T) {
	geo := GeoEligibility{
		IncludedCountries: []string{"FR", "XX"},
		ExcludedCountries: []string{"XX"},
	}

	assert.True(t, geo.CoversDestination("FR"))
	assert.False(t, geo.CoversDestination("XX"))
}

func TestCoversDestination_WarFlag(t *testing.T) {
	geo := GeoEligibility{
		ExcludeCountryAtWar: true,
		CountriesAtWar:      []string{"YY"},
	}

	assert.False(t, geo.CoversDestination("YY"))

	geo.ExcludeCountryAtWar = false
	assert.True(t, geo.CoversDestination("YY"), "flag off means the list is ignored")
}

func TestCoversDestination_IncludedListLimits(t *testing.T) {
	geo := GeoEligibility{IncludedCountries: []string{"FR", "ES"}}

	assert.True(t, geo.CoversDestination("ES"))
	assert.False(t, geo.CoversDestination("DE"))
}

// ============================================================================
// TRAVEL PROJECT
// ============================================================================

func TestDurationDays_CountsDepartureDay(t *testing.T) {
	departure := int64(1_700_000_000)

	sameDay := TravelProject{DepartureDate: &departure, ReturnDate: &departure}
	assert.Equal(t, 1, sameDay.DurationDays(), "one-day trip spans one day")

	ret := departure + 6*86400
	week := TravelProject{DepartureDate: &departure, ReturnDate: &ret}
	assert.Equal(t, 7, week.DurationDays())
}

func TestDurationDays_MissingDates(t *testing.T) {
	p := TravelProject{}
	assert.Equal(t, 0, p.DurationDays())
}

// ============================================================================
// ALERT LIFECYCLE
// ============================================================================

func TestAlertCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    AlertStatus
		to      AlertStatus
		allowed bool
	}{
		{AlertOpen, AlertAssigned, true},
		{AlertOpen, AlertCancelled, true},
		{AlertOpen, AlertInProgress, false},
		{AlertOpen, AlertClosed, false},
		{AlertAssigned, AlertInProgress, true},
		{AlertAssigned, AlertCancelled, true},
		{AlertAssigned, AlertOpen, false},
		{AlertInProgress, AlertClosed, true},
		{AlertInProgress, AlertCancelled, false},
		{AlertClosed, AlertOpen, false},
		{AlertCancelled, AlertAssigned, false},
	}

	for _, tt := range tests {
		a := Alert{Status: tt.from}
		assert.Equal(t, tt.allowed, a.CanTransitionTo(tt.to), "%s → %s", tt.from, tt.to)
	}
}

// ============================================================================
// STAY REPORT
// ============================================================================

func TestStayReportValidate_AllFieldsRequired(t *testing.T) {
	complete := StayReport{
		Motive:        "fracture",
		DurationHours: 12,
		Acts:          []string{"cast"},
		Exams:         []string{"x-ray"},
	}
	assert.Empty(t, complete.Validate())

	missing := complete
	missing.Motive = "  "
	assert.NotEmpty(t, missing.Validate())

	missing = complete
	missing.DurationHours = 0
	assert.NotEmpty(t, missing.Validate())

	missing = complete
	missing.Acts = nil
	assert.NotEmpty(t, missing.Validate())

	missing = complete
	missing.Exams = []string{}
	assert.NotEmpty(t, missing.Validate())
}
