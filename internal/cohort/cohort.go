// Package cohort classifies birth years into named generational cohorts.
package cohort

import (
	"strconv"
	"strings"

	"github.com/sells-group/mlprep-cli/internal/table"
)

// Unknown is returned for birth years outside every cohort range.
const Unknown = "Unknown"

type cohortRange struct {
	start int // inclusive
	end   int // exclusive
	name  string
}

// ranges is an ordered rule list: some ranges overlap on purpose and the
// first match wins, so the declaration order is part of the contract.
var ranges = []cohortRange{
	{1890, 1915, "Lost Generation"},
	{1901, 1913, "Interbellum Generation"},
	{1910, 1924, "Greatest Generation"},
	{1925, 1945, "Silent Generation"},
	{1946, 1964, "Baby Boomers"},
	{1965, 1979, "Generation X"},
	{1975, 1985, "Xennials"},
	{1980, 1994, "Millennials"},
	{1995, 2012, "Generation Z"},
	{2013, 2025, "Generation Alpha"},
}

// Classify returns the cohort name for a birth year, or Unknown when the
// year falls outside every range.
func Classify(birthYear int) string {
	for _, r := range ranges {
		if birthYear >= r.start && birthYear < r.end {
			return r.name
		}
	}
	return Unknown
}

// ClassifyColumn applies Classify to an integer birth-year column and
// returns the table extended with the cohort name under outputName.
// Cells that do not parse as an integer classify as Unknown.
func ClassifyColumn(t *table.Table, column, outputName string) (*table.Table, error) {
	years, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(years))
	for i, raw := range years {
		year, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			values[i] = Unknown
			continue
		}
		values[i] = Classify(year)
	}
	return t.WithColumn(outputName, values)
}
