package enrich

import (
	"context"
	"sync"

	"github.com/sells-group/mlprep-cli/pkg/zipsearch"
)

// stubService is an in-memory zipsearch.Service for tests.
type stubService struct {
	areas map[string][]zipsearch.Record // key: city|state
	zips  map[string]zipsearch.Record
}

func (s *stubService) ByCityAndState(_ context.Context, city, state string, limit int) ([]zipsearch.Record, error) {
	records, ok := s.areas[city+"|"+state]
	if !ok {
		return nil, &zipsearch.ErrNotFound{Query: city + "/" + state}
	}
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

func (s *stubService) ByZipcode(_ context.Context, zip string) (*zipsearch.Record, error) {
	rec, ok := s.zips[zip]
	if !ok {
		return nil, &zipsearch.ErrNotFound{Query: zip}
	}
	return &rec, nil
}

// memAppender collects appended rows in memory. Safe for concurrent use
// so driver tests can share it across workers.
type memAppender struct {
	mu     sync.Mutex
	header []string
	rows   [][]string
}

func (m *memAppender) Append(header, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.header == nil {
		m.header = append([]string(nil), header...)
	}
	m.rows = append(m.rows, append([]string(nil), row...))
	return nil
}

func (m *memAppender) Close() error { return nil }

func (m *memAppender) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// failAppender fails every append, for pool-failure paths.
type failAppender struct{ err error }

func (f *failAppender) Append(_, _ []string) error { return f.err }
func (f *failAppender) Close() error               { return nil }

func nycRecords() []zipsearch.Record {
	return []zipsearch.Record{
		{
			Zipcode: "10001", MajorCity: "New York", Lat: 40.75, Lng: -73.99,
			Timezone: "Eastern", RadiusInMiles: 0.9, Population: 21102.0,
			PopulationDensity: 33959.0, HousingUnits: 12476.0,
			OccupiedHousingUnits: 11031.0, MedianHomeValue: 650000.0,
			MedianHouseholdIncome: 81671.0,
		},
		{
			Zipcode: "10002", MajorCity: "New York", Lat: 40.71, Lng: -73.98,
			Timezone: "Eastern", RadiusInMiles: 0.91, Population: 81410.0,
			PopulationDensity: 91151.0, HousingUnits: nil,
			OccupiedHousingUnits: nil, MedianHomeValue: 562500.0,
			MedianHouseholdIncome: 35859.0,
		},
	}
}

func newStub() *stubService {
	return &stubService{
		areas: map[string][]zipsearch.Record{
			"New York|NY": nycRecords(),
		},
		zips: map[string]zipsearch.Record{
			"10001": nycRecords()[0],
		},
	}
}
