package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mlprep-cli/internal/cohort"
	"github.com/sells-group/mlprep-cli/internal/table"
)

var (
	genYear   int
	genInput  string
	genOutput string
	genColumn string
	genName   string
)

var generationCmd = &cobra.Command{
	Use:   "generation",
	Short: "Classify birth years into generational cohorts",
	Long: `Maps birth years to named generational cohorts (Lost Generation through
Generation Alpha). Ranges overlap; the earliest declared cohort wins.

Either classify a single year:
  mlprep generation --year 1984

Or derive a cohort column for a whole table:
  mlprep generation --input people.csv --column birth_year \
      --name generation --output out.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if genInput == "" {
			if !cmd.Flags().Changed("year") {
				return eris.New("generation: provide --year or --input")
			}
			fmt.Fprintln(cmd.OutOrStdout(), cohort.Classify(genYear))
			return nil
		}

		tbl, err := table.ReadFile(genInput)
		if err != nil {
			return eris.Wrap(err, "generation: read input")
		}
		out, err := cohort.ClassifyColumn(tbl, genColumn, genName)
		if err != nil {
			return err
		}
		if err := table.WriteCSV(genOutput, out); err != nil {
			return err
		}
		zap.L().Info("generation: wrote output",
			zap.String("path", genOutput),
			zap.Int("rows", out.NumRows()),
		)
		return nil
	},
}

func init() {
	generationCmd.Flags().IntVar(&genYear, "year", 0, "single birth year to classify")
	generationCmd.Flags().StringVar(&genInput, "input", "", "input table (.csv or .xlsx)")
	generationCmd.Flags().StringVar(&genOutput, "output", "", "output CSV path")
	generationCmd.Flags().StringVar(&genColumn, "column", "birth_year", "birth-year column name")
	generationCmd.Flags().StringVar(&genName, "name", "generation", "name of the new cohort column")

	rootCmd.AddCommand(generationCmd)
}
