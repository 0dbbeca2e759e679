package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// LocationValidator decides whether coordinates fall inside the supported
// service area by reverse geocoding them against a Nominatim-compatible
// endpoint.
type LocationValidator struct {
	BaseURL   string
	UserAgent string
	Keyword   string
	client    *http.Client
}

// NewLocationValidator builds a validator for one service-area keyword.
// The keyword is matched case-insensitively as a substring.
func NewLocationValidator(baseURL, userAgent, keyword string, timeout time.Duration) *LocationValidator {
	return &LocationValidator{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		Keyword:   strings.ToLower(keyword),
		client:    &http.Client{Timeout: timeout},
	}
}

// ValidationResult is the outcome of one location check.
type ValidationResult struct {
	Accepted        bool
	ResolvedAddress string
}

type geocodeResponse struct {
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
}

// Validate reverse geocodes (lat, lng) and checks the result against the
// configured keyword. clientAddress is used as the display address when the
// geocoder omits one. A lookup that cannot be completed is reported as
// ErrGeocodeUnavailable and is distinct from a rejected location.
func (v *LocationValidator) Validate(ctx context.Context, lat, lng float64, clientAddress string) (ValidationResult, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("accept-language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.BaseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return ValidationResult{}, err
	}
	req.Header.Set("User-Agent", v.UserAgent)

	resp, err := v.client.Do(req)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("%w: %v", ErrGeocodeUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ValidationResult{}, fmt.Errorf("%w: status %d", ErrGeocodeUnavailable, resp.StatusCode)
	}

	var geo geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return ValidationResult{}, fmt.Errorf("%w: %v", ErrGeocodeMalformed, err)
	}

	display := geo.DisplayName
	if display == "" {
		display = clientAddress
	}

	// The geocoder returns locality at inconsistent granularity, so collect
	// every plausible locality field and match the keyword as a substring.
	var localities []string
	for _, key := range []string{"city", "town", "village", "county", "state"} {
		if val := geo.Address[key]; val != "" {
			localities = append(localities, val)
		}
	}
	combined := strings.ToLower(strings.Join(localities, " "))

	accepted := strings.Contains(strings.ToLower(display), v.Keyword) ||
		strings.Contains(combined, v.Keyword)

	return ValidationResult{Accepted: accepted, ResolvedAddress: display}, nil
}
