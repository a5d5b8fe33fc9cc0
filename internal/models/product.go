package models

import (
	"time"

	"github.com/google/uuid"

	"assistance-service/internal/utils"
)

// ============================================================================
// INSURANCE PRODUCT CATALOG
// ============================================================================

// Guarantee is one covered benefit on a product.
type Guarantee struct {
	Label             string  `json:"label"`
	Cap               float64 `json:"cap"`
	Deductible        float64 `json:"deductible"`
	WaitingPeriodDays int     `json:"waiting_period_days"`
}

// GeoEligibility bounds where a product can be sold. Country codes are
// ISO 3166-1 alpha-2. An empty included list means "any country not
// excluded"; excluded entries and special flags always win.
type GeoEligibility struct {
	IncludedCountries   []string `json:"included_countries"`
	ExcludedCountries   []string `json:"excluded_countries"`
	Zones               []string `json:"zones"`
	ExcludeCountryAtWar bool     `json:"exclude_country_at_war"`
	CountriesAtWar      []string `json:"countries_at_war"`
}

// Product is a catalog entry. Once referenced by an active subscription it
// is treated as immutable; price changes are recorded as new catalog rows.
// ValidFrom/ValidTo are Unix seconds.
type Product struct {
	ID         uuid.UUID                   `json:"id" db:"id"`
	Code       string                      `json:"code" db:"code"`
	Name       string                      `json:"name" db:"name"`
	Cost       float64                     `json:"cost" db:"cost"`
	PricingKey PricingKey                  `json:"pricing_key" db:"pricing_key"`
	Active     bool                        `json:"active" db:"active"`
	ValidFrom  *int64                      `json:"valid_from,omitempty" db:"valid_from"`
	ValidTo    *int64                      `json:"valid_to,omitempty" db:"valid_to"`
	Geo        utils.JSONB[GeoEligibility] `json:"geo" db:"geo"`
	Guarantees utils.JSONB[[]Guarantee]    `json:"guarantees" db:"guarantees"`
	CreatedAt  time.Time                   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at" db:"updated_at"`
}

// AvailableAt reports whether the product can be subscribed at the given
// instant: active flag set and instant inside the validity window.
func (p *Product) AvailableAt(now int64) bool {
	if !p.Active {
		return false
	}
	if p.ValidFrom != nil && now < *p.ValidFrom {
		return false
	}
	if p.ValidTo != nil && now > *p.ValidTo {
		return false
	}
	return true
}

// CoversDestination applies the geographic eligibility rules to a country
// code. Exclusions and war flags take precedence over inclusions.
func (g *GeoEligibility) CoversDestination(countryCode string) bool {
	for _, c := range g.ExcludedCountries {
		if c == countryCode {
			return false
		}
	}
	if g.ExcludeCountryAtWar {
		for _, c := range g.CountriesAtWar {
			if c == countryCode {
				return false
			}
		}
	}
	if len(g.IncludedCountries) == 0 {
		return true
	}
	for _, c := range g.IncludedCountries {
		if c == countryCode {
			return true
		}
	}
	return false
}
