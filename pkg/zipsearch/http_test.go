package zipsearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/zipcodes", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("city") != "Austin" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		assert.Equal(t, "standard", r.URL.Query().Get("type"))
		_, _ = w.Write([]byte(`[
			{"zipcode":"78701","major_city":"Austin","lat":30.27,"lng":-97.74,"timezone":"Central","population":6841},
			{"zipcode":"78702","major_city":"Austin","lat":30.26,"lng":-97.71,"timezone":"Central","population":null}
		]`))
	})
	mux.HandleFunc("/zipcodes/78701", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"zipcode":"78701","major_city":"Austin","lat":30.27,"lng":-97.74,"timezone":"Central","median_household_income":52438}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPService_ByCityAndState(t *testing.T) {
	srv := testServer(t)
	svc := NewHTTP(HTTPOptions{BaseURL: srv.URL})

	records, err := svc.ByCityAndState(context.Background(), "Austin", "TX", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "78701", records[0].Zipcode)
	assert.Equal(t, 6841.0, records[0].Population)
	assert.Nil(t, records[1].Population)
}

func TestHTTPService_ByCityAndState_Empty(t *testing.T) {
	srv := testServer(t)
	svc := NewHTTP(HTTPOptions{BaseURL: srv.URL})

	_, err := svc.ByCityAndState(context.Background(), "Nowhere", "ZZ", 0)
	var notFound *ErrNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestHTTPService_ByZipcode(t *testing.T) {
	srv := testServer(t)
	svc := NewHTTP(HTTPOptions{BaseURL: srv.URL})

	rec, err := svc.ByZipcode(context.Background(), "78701")
	require.NoError(t, err)
	assert.Equal(t, "Austin", rec.MajorCity)
	assert.Equal(t, 52438.0, rec.MedianHouseholdIncome)
}

func TestHTTPService_ByZipcode_NotFound(t *testing.T) {
	srv := testServer(t)
	svc := NewHTTP(HTTPOptions{BaseURL: srv.URL})

	_, err := svc.ByZipcode(context.Background(), "00000")
	var notFound *ErrNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestHTTPService_RetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"zipcode":"78701","major_city":"Austin","lat":30.27,"lng":-97.74,"timezone":"Central"}`))
	}))
	t.Cleanup(srv.Close)

	svc := NewHTTP(HTTPOptions{BaseURL: srv.URL, RequestsPerSec: 1000})
	svc.backoff = time.Millisecond

	rec, err := svc.ByZipcode(context.Background(), "78701")
	require.NoError(t, err)
	assert.Equal(t, "78701", rec.Zipcode)
	assert.Equal(t, 3, calls)
}

func TestHTTPService_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	svc := NewHTTP(HTTPOptions{BaseURL: srv.URL, RequestsPerSec: 1000})
	svc.backoff = time.Millisecond

	_, err := svc.ByZipcode(context.Background(), "78701")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error 500")
	assert.Equal(t, maxAttempts, calls)
}
