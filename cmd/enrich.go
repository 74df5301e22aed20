package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mlprep-cli/internal/config"
	"github.com/sells-group/mlprep-cli/internal/enrich"
	"github.com/sells-group/mlprep-cli/internal/table"
	"github.com/sells-group/mlprep-cli/pkg/zipsearch"
)

var (
	enrichInput    string
	enrichShards   int
	enrichMode     string
	enrichLimit    int
	enrichSavepath string

	summaryCity  string
	summaryState string
	summaryLimit int
	summaryOut   string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a table of addresses with zip-level demographics",
	Long: `Looks up every row's address against the zip service and writes one
enriched row per matching zip code to an incremental output file. A
city/state query fans out to the whole municipal area; a zip query
resolves a single record. Rows the service rejects land in failure logs
instead of aborting the batch.

Run artifacts under <savepath>/<run-id>/:
  enriched_addresses.csv        incremental output, safe to inspect mid-run
  value_errors.csv              addresses the service could not resolve
  unresolvable_addresses.csv    records whose attributes could not be mapped

Example:
  mlprep enrich --input accounts.csv --by city-state --shards 6`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tbl, err := table.ReadFile(enrichInput)
		if err != nil {
			return eris.Wrap(err, "enrich: read input")
		}

		if enrichSavepath != "" {
			cfg.Enrich.Savepath = enrichSavepath
		}
		env, err := newEnrichEnv(cfg, tbl.Columns)
		if err != nil {
			return err
		}
		defer env.Close()

		mode := enrich.Mode(enrichMode)
		shards := enrichShards
		if shards <= 0 {
			shards = cfg.Enrich.Shards
		}
		limit := enrichLimit
		if limit == 0 {
			limit = cfg.Enrich.ResultLimit
		}

		driver := enrich.NewDriver(env.Builder, enrich.DriverOptions{
			CityColumn:  cfg.Enrich.CityColumn,
			StateColumn: cfg.Enrich.StateColumn,
			ZipColumn:   cfg.Enrich.ZipColumn,
			ResultLimit: limit,
		})

		start := time.Now()
		if err := driver.Run(cmd.Context(), tbl, shards, mode); err != nil {
			return err
		}
		zap.L().Info("enrich: run complete",
			zap.String("run_dir", env.RunDir),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil
	},
}

var enrichSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize one municipal area's zip metrics",
	Long: `Builds the full municipal area for a single city/state pair and reduces
it to count/mean/std/min/max statistics per zip metric.

Example:
  mlprep enrich summary --city "New York" --state NY --output nyc.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := newEnrichEnv(cfg, nil)
		if err != nil {
			return err
		}
		defer env.Close()

		q := enrich.AddressQuery{City: summaryCity, State: summaryState}
		out, err := env.Builder.Generalize(cmd.Context(), q, summaryLimit)
		if err != nil {
			return err
		}
		return table.WriteCSV(summaryOut, out)
	},
}

// enrichEnv bundles the lookup service, run directory, and shared
// appenders for one enrichment run.
type enrichEnv struct {
	Builder *enrich.Builder
	RunDir  string

	closers []interface{ Close() error }
}

func (e *enrichEnv) Close() {
	for _, c := range e.closers {
		_ = c.Close()
	}
}

func newEnrichEnv(cfg *config.Config, rowColumns []string) (*enrichEnv, error) {
	svc, closer, err := newZipService(cfg.Zip)
	if err != nil {
		return nil, err
	}

	env := &enrichEnv{}
	if closer != nil {
		env.closers = append(env.closers, closer)
	}
	ok := false
	defer func() {
		if !ok {
			env.Close()
		}
	}()

	runDir := filepath.Join(cfg.Enrich.Savepath, "run-"+uuid.NewString()[:8])
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, eris.Wrap(err, "enrich: create run dir")
	}
	env.RunDir = runDir
	zap.L().Info("enrich: run directory created", zap.String("run_dir", runDir))

	open := func(name string) (table.Appender, error) {
		a, err := table.NewFileAppender(filepath.Join(runDir, name))
		if err != nil {
			return nil, err
		}
		env.closers = append(env.closers, a)
		return a, nil
	}

	failures, err := open("value_errors.csv")
	if err != nil {
		return nil, err
	}
	unresolvable, err := open("unresolvable_addresses.csv")
	if err != nil {
		return nil, err
	}
	output, err := open("enriched_addresses.csv")
	if err != nil {
		return nil, err
	}

	lookup := enrich.NewLookup(svc, failures, rowColumns)
	env.Builder = enrich.NewBuilder(lookup, unresolvable, output, rowColumns)
	ok = true
	return env, nil
}

func newZipService(zc config.ZipConfig) (zipsearch.Service, interface{ Close() error }, error) {
	switch zc.Driver {
	case "sqlite":
		svc, err := zipsearch.NewSQLite(zc.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return svc, svc, nil
	case "http":
		svc := zipsearch.NewHTTP(zipsearch.HTTPOptions{
			BaseURL:        zc.BaseURL,
			Timeout:        time.Duration(zc.TimeoutSecs) * time.Second,
			RequestsPerSec: zc.RequestsPerSec,
			Burst:          zc.Burst,
		})
		return svc, nil, nil
	default:
		return nil, nil, eris.Errorf("enrich: unknown zip driver %q", zc.Driver)
	}
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInput, "input", "", "input table (.csv or .xlsx)")
	enrichCmd.Flags().IntVar(&enrichShards, "shards", 0, "worker count (default: config / CPU count)")
	enrichCmd.Flags().StringVar(&enrichMode, "by", string(enrich.ByCityState), "lookup mode: city-state or zip")
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 0, "max zip records per city/state query (0 = all)")
	enrichCmd.Flags().StringVar(&enrichSavepath, "savepath", "", "override run artifact directory")
	_ = enrichCmd.MarkFlagRequired("input")

	enrichSummaryCmd.Flags().StringVar(&summaryCity, "city", "", "city name")
	enrichSummaryCmd.Flags().StringVar(&summaryState, "state", "", "state abbreviation")
	enrichSummaryCmd.Flags().IntVar(&summaryLimit, "limit", 0, "max zip records (0 = all)")
	enrichSummaryCmd.Flags().StringVar(&summaryOut, "output", "", "output CSV path")
	_ = enrichSummaryCmd.MarkFlagRequired("city")
	_ = enrichSummaryCmd.MarkFlagRequired("state")
	_ = enrichSummaryCmd.MarkFlagRequired("output")

	enrichCmd.AddCommand(enrichSummaryCmd)
	rootCmd.AddCommand(enrichCmd)
}
