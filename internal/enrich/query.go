// Package enrich implements the zip-code enrichment pipeline: address
// lookup against the zip service, row-per-zipcode materialization with
// incremental CSV persistence, and a sharded worker pool driving a whole
// table through it. Per-record failures are logged to disk and never
// abort a batch.
package enrich

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mode selects how an address query is resolved.
type Mode string

const (
	// ByCityState resolves every zip code of a city/state pair.
	ByCityState Mode = "city-state"
	// ByZipcode resolves the single record for a postal code.
	ByZipcode Mode = "zip"
)

// AddressQuery identifies a location to enrich, plus an opaque handle on
// the originating row so its fields can be replicated onto the output and
// carried into failure logs.
type AddressQuery struct {
	City  string
	State string
	Zip   string
	Row   []string
}

var titleCaser = cases.Title(language.AmericanEnglish)

// Normalized returns a copy of the query with its fields in canonical
// lookup form: title-cased trimmed city, upper-cased trimmed state, and a
// fixed 5-character postal code.
func (q AddressQuery) Normalized() AddressQuery {
	q.City = titleCaser.String(strings.TrimSpace(q.City))
	q.State = strings.ToUpper(strings.TrimSpace(q.State))
	q.Zip = normalizeZip(q.Zip)
	return q
}

// normalizeZip forces a postal code into 5-character form: zip+4 inputs
// are truncated, shorter numeric forms (a leading zero lost upstream) are
// left-padded with zeros. Empty stays empty.
func normalizeZip(zip string) string {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return ""
	}
	if i := strings.IndexByte(zip, '-'); i >= 0 {
		zip = zip[:i]
	}
	if len(zip) > 5 {
		zip = zip[:5]
	}
	for len(zip) < 5 {
		zip = "0" + zip
	}
	return zip
}
