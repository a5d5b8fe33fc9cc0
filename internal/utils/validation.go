package utils

import (
	"fmt"
	"regexp"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var countryCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)

// ValidateCountryCode checks an ISO 3166-1 alpha-2 country code.
func ValidateCountryCode(code string) (bool, error) {
	if !countryCodeRegex.MatchString(code) {
		return false, fmt.Errorf("country code format incorrect: %q", code)
	}
	return true, nil
}

// ValidateCoordinates checks a latitude/longitude pair in degrees.
func ValidateCoordinates(lat, lng float64) (bool, error) {
	if lat < -90 || lat > 90 {
		return false, fmt.Errorf("latitude out of range: %f", lat)
	}
	if lng < -180 || lng > 180 {
		return false, fmt.Errorf("longitude out of range: %f", lng)
	}
	return true, nil
}

// ValidateDateWindow checks that a [from, to] epoch-seconds window is
// ordered. Nil bounds are open ends and always valid.
func ValidateDateWindow(from, to *int64) (bool, error) {
	if from == nil || to == nil {
		return true, nil
	}
	if *to < *from {
		return false, fmt.Errorf("end date %d before start date %d", *to, *from)
	}
	return true, nil
}
