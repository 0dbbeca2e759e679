package services

import "errors"

// Failures the submitting user can correct.
var (
	ErrInsufficientEvidence = errors.New("at least 3 images are required")
	ErrMissingLocation      = errors.New("location is required")
	ErrInvalidCoordinates   = errors.New("coordinates out of range")
	ErrLocationOutOfArea    = errors.New("location is outside the service area")
)

// Upstream dependency failures, surfaced as server errors.
var (
	ErrGeocodeUnavailable          = errors.New("reverse geocoding service unavailable")
	ErrGeocodeMalformed            = errors.New("reverse geocoding response malformed")
	ErrClassifierUnavailable       = errors.New("image classifier unavailable")
	ErrClassifierMalformedResponse = errors.New("image classifier response malformed")
)
