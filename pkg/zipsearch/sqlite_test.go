package zipsearch

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureSchema = `
CREATE TABLE simple_zipcode (
	zipcode                 TEXT PRIMARY KEY,
	zipcode_type            TEXT,
	major_city              TEXT,
	state                   TEXT,
	lat                     REAL,
	lng                     REAL,
	timezone                TEXT,
	radius_in_miles         REAL,
	population              REAL,
	population_density      REAL,
	housing_units           REAL,
	occupied_housing_units  REAL,
	median_home_value       REAL,
	median_household_income REAL
);`

func fixtureDB(t *testing.T) *SQLiteService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zips.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(fixtureSchema)
	require.NoError(t, err)

	rows := [][]any{
		{"10001", "STANDARD", "New York", "NY", 40.75, -73.99, "Eastern", 0.9, 21102.0, 33959.0, 12476.0, 11031.0, 650000.0, 81671.0},
		{"10002", "STANDARD", "New York", "NY", 40.71, -73.98, "Eastern", 0.91, 81410.0, 91151.0, 40925.0, 38870.0, 562500.0, 35859.0},
		{"10008", "PO BOX", "New York", "NY", 40.71, -74.0, "Eastern", nil, nil, nil, nil, nil, nil, nil},
		{"78701", "STANDARD", "Austin", "TX", 30.27, -97.74, "Central", 1.2, 6841.0, 4649.0, nil, nil, nil, 52438.0},
	}
	for _, row := range rows {
		_, err := db.Exec(`INSERT INTO simple_zipcode VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`, row...)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	svc, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestSQLiteService_ByCityAndState(t *testing.T) {
	svc := fixtureDB(t)

	records, err := svc.ByCityAndState(context.Background(), "New York", "NY", 0)
	require.NoError(t, err)

	// Standard zips only; the PO-box record is excluded.
	require.Len(t, records, 2)
	assert.Equal(t, "10001", records[0].Zipcode)
	assert.Equal(t, "10002", records[1].Zipcode)
	assert.Equal(t, "New York", records[0].MajorCity)
	assert.Equal(t, 40.75, records[0].Lat)
	assert.Equal(t, 21102.0, records[0].Population)
}

func TestSQLiteService_ByCityAndState_Limit(t *testing.T) {
	svc := fixtureDB(t)

	records, err := svc.ByCityAndState(context.Background(), "New York", "NY", 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSQLiteService_ByCityAndState_Unknown(t *testing.T) {
	svc := fixtureDB(t)

	_, err := svc.ByCityAndState(context.Background(), "Nowhere", "ZZ", 0)
	var notFound *ErrNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestSQLiteService_ByZipcode(t *testing.T) {
	svc := fixtureDB(t)

	rec, err := svc.ByZipcode(context.Background(), "78701")
	require.NoError(t, err)
	assert.Equal(t, "Austin", rec.MajorCity)
	assert.Equal(t, 52438.0, rec.MedianHouseholdIncome)

	// Missing demographics come back nil, not zero.
	assert.Nil(t, rec.HousingUnits)
}

func TestSQLiteService_ByZipcode_Unknown(t *testing.T) {
	svc := fixtureDB(t)

	_, err := svc.ByZipcode(context.Background(), "99999")
	var notFound *ErrNotFound
	require.ErrorAs(t, err, &notFound)
}
