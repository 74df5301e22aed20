package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/mlprep-cli/internal/config"
)

func zipServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/zipcodes", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("city") != "Austin" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[
			{"zipcode":"78701","major_city":"Austin","lat":30.27,"lng":-97.74,"timezone":"Central","population":6841},
			{"zipcode":"78702","major_city":"Austin","lat":30.26,"lng":-97.71,"timezone":"Central","population":null}
		]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestEnrichCmd(t *testing.T) {
	srv := zipServer(t)
	dir := t.TempDir()

	cfg = &config.Config{
		Enrich: config.EnrichConfig{
			Shards:      2,
			Savepath:    filepath.Join(dir, "runs"),
			CityColumn:  "City",
			StateColumn: "State",
			ZipColumn:   "Zip",
		},
		Zip: config.ZipConfig{Driver: "http", BaseURL: srv.URL},
	}

	enrichInput = writeCSV(t, dir, "in.csv",
		"Account,City,State,Zip\nacct-1,Austin,TX,\nacct-2,Nowhere,ZZ,\n")
	enrichMode = "city-state"
	defer func() { enrichInput, enrichSavepath = "", "" }()

	enrichCmd.SetContext(context.Background())
	defer enrichCmd.SetContext(context.TODO())

	require.NoError(t, enrichCmd.RunE(enrichCmd, nil))

	runDirs, err := filepath.Glob(filepath.Join(dir, "runs", "run-*"))
	require.NoError(t, err)
	require.Len(t, runDirs, 1)

	enriched, err := os.ReadFile(filepath.Join(runDirs[0], "enriched_addresses.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(enriched)), "\n")
	require.Len(t, lines, 3) // header + two Austin zips
	assert.True(t, strings.HasPrefix(lines[0], "zipcode,major_city,"))
	assert.True(t, strings.HasSuffix(lines[0], "Account,City,State,Zip"))

	failures, err := os.ReadFile(filepath.Join(runDirs[0], "value_errors.csv"))
	require.NoError(t, err)
	failLines := strings.Split(strings.TrimSpace(string(failures)), "\n")
	require.Len(t, failLines, 2) // header + the unresolvable row
	assert.Contains(t, failLines[1], "Nowhere")
}

func TestNewEnrichEnv_RunDirFailure(t *testing.T) {
	dir := t.TempDir()

	// Savepath's parent is a regular file, so creating the run directory
	// fails after the zip service handle is already open; the env must
	// release it and leave nothing behind.
	blocker := writeCSV(t, dir, "blocker", "")
	c := &config.Config{
		Enrich: config.EnrichConfig{Savepath: filepath.Join(blocker, "runs")},
		Zip:    config.ZipConfig{Driver: "sqlite", DBPath: filepath.Join(dir, "zips.db")},
	}

	env, err := newEnrichEnv(c, []string{"Account"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create run dir")
	assert.Nil(t, env)
}

func TestEnrichCmd_UnknownDriver(t *testing.T) {
	dir := t.TempDir()
	cfg = &config.Config{
		Enrich: config.EnrichConfig{Shards: 1, Savepath: filepath.Join(dir, "runs")},
		Zip:    config.ZipConfig{Driver: "bogus"},
	}
	enrichInput = writeCSV(t, dir, "in.csv", "Account,City,State,Zip\na,Austin,TX,\n")
	defer func() { enrichInput = "" }()

	err := enrichCmd.RunE(enrichCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown zip driver")
}
