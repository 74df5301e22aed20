package zipsearch

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteService answers lookups from a local zip database file laid out
// like the uszipcode simple database: one row per zip code in a
// simple_zipcode table.
type SQLiteService struct {
	db *sql.DB
}

// NewSQLite opens the zip database at path read-only.
func NewSQLite(path string) (*SQLiteService, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, eris.Wrap(err, "zipsearch: open sqlite")
	}
	return &SQLiteService{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteService) Close() error {
	return eris.Wrap(s.db.Close(), "zipsearch: close sqlite")
}

const recordColumns = `
	zipcode, major_city, lat, lng, timezone,
	radius_in_miles, population, population_density,
	housing_units, occupied_housing_units,
	median_home_value, median_household_income`

// ByCityAndState implements Service. Only standard-type zip codes are
// returned; PO-box and unique-use codes carry no residential demographics.
func (s *SQLiteService) ByCityAndState(ctx context.Context, city, state string, limit int) ([]Record, error) {
	query := `SELECT` + recordColumns + `
		FROM simple_zipcode
		WHERE major_city = ? AND state = ? AND zipcode_type = 'STANDARD'
		ORDER BY zipcode`
	args := []any{city, state}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "zipsearch: query city/state")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "zipsearch: iterate city/state rows")
	}
	if len(records) == 0 {
		return nil, &ErrNotFound{Query: fmt.Sprintf("city %q state %q", city, state)}
	}
	return records, nil
}

// ByZipcode implements Service.
func (s *SQLiteService) ByZipcode(ctx context.Context, zip string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT`+recordColumns+`
		FROM simple_zipcode WHERE zipcode = ?`, zip)

	rec, err := scanRecord(row)
	if eris.Is(err, sql.ErrNoRows) {
		return nil, &ErrNotFound{Query: fmt.Sprintf("zipcode %q", zip)}
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec      Record
		city, tz sql.NullString
		lat, lng sql.NullFloat64
		numerics [7]sql.NullFloat64
	)
	err := row.Scan(
		&rec.Zipcode, &city, &lat, &lng, &tz,
		&numerics[0], &numerics[1], &numerics[2],
		&numerics[3], &numerics[4], &numerics[5], &numerics[6],
	)
	if err == sql.ErrNoRows {
		return rec, err
	}
	if err != nil {
		return rec, eris.Wrap(err, "zipsearch: scan record")
	}

	rec.MajorCity = city.String
	rec.Timezone = tz.String
	rec.Lat = lat.Float64
	rec.Lng = lng.Float64

	dests := []*any{
		&rec.RadiusInMiles, &rec.Population, &rec.PopulationDensity,
		&rec.HousingUnits, &rec.OccupiedHousingUnits,
		&rec.MedianHomeValue, &rec.MedianHouseholdIncome,
	}
	for i, dest := range dests {
		if numerics[i].Valid {
			*dest = numerics[i].Float64
		}
	}
	return rec, nil
}
