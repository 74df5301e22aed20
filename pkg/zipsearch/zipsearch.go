// Package zipsearch provides clients for the zip-code lookup service: a
// local SQLite database in the uszipcode layout, or a remote HTTP API.
// Both answer the same two questions, every zip record for a city/state
// pair or the single record for a postal code, and are treated as black
// boxes by the enrichment pipeline above them.
package zipsearch

import "context"

// ErrNotFound reports a query the lookup service cannot resolve: an
// unknown city/state pair or postal code.
type ErrNotFound struct {
	Query string
}

func (e *ErrNotFound) Error() string {
	return "zipsearch: no records for " + e.Query
}

// Record is one zip code's demographic and geographic payload as the
// service returns it. The demographic fields are loosely typed: engines
// surface absent values as nil and pass numeric values through untouched,
// leaving zero-fill and integer coercion to the consumer.
type Record struct {
	Zipcode               string
	MajorCity             string
	Lat                   float64
	Lng                   float64
	Timezone              string
	RadiusInMiles         any
	Population            any
	PopulationDensity     any
	HousingUnits          any
	OccupiedHousingUnits  any
	MedianHomeValue       any
	MedianHouseholdIncome any
}

// Service is a zip lookup backend. Both calls are blocking and perform no
// internal retry.
type Service interface {
	// ByCityAndState returns every standard-type zip record for a
	// city/state pair, capped at limit when limit > 0.
	ByCityAndState(ctx context.Context, city, state string, limit int) ([]Record, error)
	// ByZipcode returns the single record for a 5-digit postal code.
	ByZipcode(ctx context.Context, zip string) (*Record, error)
}
