// Package timefeat decomposes timestamp columns into calendar,
// time-of-day, and holiday-proximity features that categorical encoders
// can consume. Every derived value is emitted as a text token, never a
// number: ISO week 52 and week 1 are adjacent in calendar time, and a
// numeric column would impose a false ordinal distance between them.
package timefeat

import (
	"strconv"
	"time"

	"github.com/sells-group/mlprep-cli/internal/table"
)

// layouts are the accepted timestamp forms, tried in order.
var layouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// featureSuffixes, in emission order, per decomposed timestamp column.
var featureSuffixes = []string{
	"iso_week", "iso_weekday", "year", "month", "day", "week_of_month",
	"hour", "minute", "second",
	"is_morning", "is_afternoon", "is_evening", "is_night",
	"is_near_federal_holiday",
}

// Decompose derives features from every timestamp column of the input
// table and drops the source columns. A column counts as a timestamp
// column when it has at least one non-empty cell and every non-empty cell
// parses under an accepted layout. Non-timestamp columns pass through
// unchanged, in their original order, followed by the derived columns.
func Decompose(t *table.Table) (*table.Table, error) {
	type tsColumn struct {
		index  int
		name   string
		values []time.Time // zero time for empty cells
	}

	var tsCols []tsColumn
	tsIndex := make(map[int]bool)
	for i, name := range t.Columns {
		values, ok := parseColumn(t.Rows, i)
		if !ok {
			continue
		}
		tsCols = append(tsCols, tsColumn{index: i, name: name, values: values})
		tsIndex[i] = true
	}

	columns := make([]string, 0, len(t.Columns)+len(tsCols)*len(featureSuffixes))
	for i, name := range t.Columns {
		if !tsIndex[i] {
			columns = append(columns, name)
		}
	}
	for _, col := range tsCols {
		for _, suffix := range featureSuffixes {
			columns = append(columns, col.name+"_"+suffix)
		}
	}

	out := table.New(columns)
	out.Rows = make([][]string, len(t.Rows))

	derived := make([][][]string, len(tsCols))
	for c, col := range tsCols {
		derived[c] = decomposeColumn(col.values)
	}

	for r, row := range t.Rows {
		cells := make([]string, 0, len(columns))
		for i, cell := range row {
			if !tsIndex[i] {
				cells = append(cells, cell)
			}
		}
		for c := range tsCols {
			cells = append(cells, derived[c][r]...)
		}
		out.Rows[r] = cells
	}
	return out, nil
}

// parseColumn parses every cell of column i, reporting whether the column
// qualifies as a timestamp column.
func parseColumn(rows [][]string, i int) ([]time.Time, bool) {
	values := make([]time.Time, len(rows))
	nonEmpty := 0
	for r, row := range rows {
		cell := row[i]
		if cell == "" {
			continue
		}
		ts, ok := parseTimestamp(cell)
		if !ok {
			return nil, false
		}
		values[r] = ts
		nonEmpty++
	}
	return values, nonEmpty > 0
}

func parseTimestamp(cell string) (time.Time, bool) {
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, cell); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// decomposeColumn derives the feature cells for one timestamp column, one
// slice of cells per row. The holiday calendar is computed over the
// column's own [min, max] span.
func decomposeColumn(values []time.Time) [][]string {
	var minTS, maxTS time.Time
	for _, ts := range values {
		if ts.IsZero() {
			continue
		}
		if minTS.IsZero() || ts.Before(minTS) {
			minTS = ts
		}
		if maxTS.IsZero() || ts.After(maxTS) {
			maxTS = ts
		}
	}
	near := nearHolidaySet(minTS, maxTS)

	out := make([][]string, len(values))
	for r, ts := range values {
		if ts.IsZero() {
			out[r] = make([]string, len(featureSuffixes))
			continue
		}
		out[r] = decomposeOne(ts, near)
	}
	return out
}

func decomposeOne(ts time.Time, near map[time.Time]bool) []string {
	_, isoWeek := ts.ISOWeek()
	isoWeekday := int(ts.Weekday())
	if isoWeekday == 0 {
		isoWeekday = 7
	}
	hour := ts.Hour()

	return []string{
		strconv.Itoa(isoWeek),
		strconv.Itoa(isoWeekday),
		strconv.Itoa(ts.Year()),
		strconv.Itoa(int(ts.Month())),
		strconv.Itoa(ts.Day()),
		strconv.Itoa(ts.Day()/7 + 1),
		strconv.Itoa(hour),
		strconv.Itoa(ts.Minute()),
		strconv.Itoa(ts.Second()),
		strconv.FormatBool(hour >= 6 && hour <= 11),
		strconv.FormatBool(hour >= 12 && hour <= 17),
		strconv.FormatBool(hour >= 18 && hour <= 23),
		strconv.FormatBool(hour <= 5),
		strconv.FormatBool(near[midnight(ts)]),
	}
}
