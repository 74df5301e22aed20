package zipsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// HTTPService answers lookups from a remote zip lookup API. Requests are
// rate limited so unattended batches cannot hammer the service.
type HTTPService struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	backoff time.Duration
}

// HTTPOptions configures the HTTP service.
type HTTPOptions struct {
	BaseURL        string
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
}

// NewHTTP creates an HTTPService with the given options.
func NewHTTP(opts HTTPOptions) *HTTPService {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 10
	}
	if opts.Burst <= 0 {
		opts.Burst = int(opts.RequestsPerSec)
	}
	return &HTTPService{
		baseURL: opts.BaseURL,
		client:  &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.Burst),
		backoff: initialBackoff,
	}
}

// wireRecord is the service's JSON shape. Demographic values may be
// absent or null; they stay loosely typed until the consumer coerces them.
type wireRecord struct {
	Zipcode               string  `json:"zipcode"`
	MajorCity             string  `json:"major_city"`
	Lat                   float64 `json:"lat"`
	Lng                   float64 `json:"lng"`
	Timezone              string  `json:"timezone"`
	RadiusInMiles         any     `json:"radius_in_miles"`
	Population            any     `json:"population"`
	PopulationDensity     any     `json:"population_density"`
	HousingUnits          any     `json:"housing_units"`
	OccupiedHousingUnits  any     `json:"occupied_housing_units"`
	MedianHomeValue       any     `json:"median_home_value"`
	MedianHouseholdIncome any     `json:"median_household_income"`
}

func (w wireRecord) toRecord() Record {
	return Record{
		Zipcode:               w.Zipcode,
		MajorCity:             w.MajorCity,
		Lat:                   w.Lat,
		Lng:                   w.Lng,
		Timezone:              w.Timezone,
		RadiusInMiles:         w.RadiusInMiles,
		Population:            w.Population,
		PopulationDensity:     w.PopulationDensity,
		HousingUnits:          w.HousingUnits,
		OccupiedHousingUnits:  w.OccupiedHousingUnits,
		MedianHomeValue:       w.MedianHomeValue,
		MedianHouseholdIncome: w.MedianHouseholdIncome,
	}
}

// ByCityAndState implements Service.
func (s *HTTPService) ByCityAndState(ctx context.Context, city, state string, limit int) ([]Record, error) {
	q := url.Values{}
	q.Set("city", city)
	q.Set("state", state)
	q.Set("type", "standard")
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	body, err := s.get(ctx, "/zipcodes?"+q.Encode(), fmt.Sprintf("city %q state %q", city, state))
	if err != nil {
		return nil, err
	}

	var wire []wireRecord
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, eris.Wrap(err, "zipsearch: decode city/state response")
	}
	if len(wire) == 0 {
		return nil, &ErrNotFound{Query: fmt.Sprintf("city %q state %q", city, state)}
	}

	records := make([]Record, len(wire))
	for i, w := range wire {
		records[i] = w.toRecord()
	}
	return records, nil
}

// ByZipcode implements Service.
func (s *HTTPService) ByZipcode(ctx context.Context, zip string) (*Record, error) {
	body, err := s.get(ctx, "/zipcodes/"+url.PathEscape(zip), fmt.Sprintf("zipcode %q", zip))
	if err != nil {
		return nil, err
	}

	var wire wireRecord
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, eris.Wrap(err, "zipsearch: decode zipcode response")
	}
	rec := wire.toRecord()
	return &rec, nil
}

const (
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
)

// get fetches path with retries on network errors and 5xx responses.
// Lookup misses (404) and other client errors return immediately.
func (s *HTTPService) get(ctx context.Context, path, query string) ([]byte, error) {
	var lastErr error
	backoff := s.backoff
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, lastErr
			case <-timer.C:
			}
			backoff *= 2
		}

		body, retryable, err := s.getOnce(ctx, path, query)
		if err == nil {
			return body, nil
		}
		if !retryable || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *HTTPService) getOnce(ctx context.Context, path, query string) (body []byte, retryable bool, err error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, false, eris.Wrap(err, "zipsearch: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, false, eris.Wrap(err, "zipsearch: build request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, true, eris.Wrap(err, "zipsearch: request")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, &ErrNotFound{Query: query}
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, true, eris.Errorf("zipsearch: server error %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, eris.Errorf("zipsearch: unexpected status %d", resp.StatusCode)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, eris.Wrap(err, "zipsearch: read response")
	}
	return body, false, nil
}
