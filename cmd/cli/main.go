package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	genesetio "generank/adapters/geneset"
	"generank/adapters/stats/engine"
	"generank/app"
	"generank/domain/expr"
	"generank/domain/geneset"
	"generank/internal"
	"generank/internal/testkit"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "generank",
		Short: "Rank-based enrichment and classification over two-group expression cohorts",
	}

	rootCmd.AddCommand(
		newDemoCmd(),
		newNullCmd(),
		newEnrichCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newDemoCmd() *cobra.Command {
	var seed int64
	var iterations, workers int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the full analysis over the synthetic demo cohort",
		RunE: func(cmd *cobra.Command, args []string) error {
			generator := testkit.NewCohortGenerator(testkit.DefaultCohortConfig())
			ledger := testkit.NewInMemoryLedgerAdapter()
			service := app.NewAnalysisService(engine.NewSeededRNG(), ledger, internal.DefaultLogger)

			result, err := service.Run(context.Background(), app.AnalysisRequest{
				Expression: generator,
				GeneSets:   generator,
				Filter:     geneset.DefaultFilterConfig(),
				Seed:       seed,
				Iterations: iterations,
				Workers:    workers,
			})
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "base seed for the permutation null")
	cmd.Flags().IntVar(&iterations, "iterations", engine.DefaultIterations, "permutation draw count")
	cmd.Flags().IntVar(&workers, "workers", engine.DefaultWorkers, "parallel worker limit")
	return cmd
}

func newNullCmd() *cobra.Command {
	var seed int64
	var iterations, workers, positive, negative int

	cmd := &cobra.Command{
		Use:   "null",
		Short: "Estimate permutation null critical bounds for a cohort split",
		RunE: func(cmd *cobra.Command, args []string) error {
			estimator := engine.NewPermutationNullEstimator(engine.NewSeededRNG(), engine.NullEstimatorConfig{
				Iterations: iterations,
				Workers:    workers,
				Seed:       seed,
			})
			null, err := estimator.Estimate(context.Background(), positive, negative)
			if err != nil {
				return err
			}
			lower, upper, err := null.CriticalBounds()
			if err != nil {
				return err
			}
			return printJSON(map[string]interface{}{
				"draws":      null.Draws,
				"seed":       null.Seed,
				"positive_n": null.PositiveN,
				"negative_n": null.NegativeN,
				"lower":      lower,
				"upper":      upper,
			})
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "base seed for the permutation null")
	cmd.Flags().IntVar(&iterations, "iterations", engine.DefaultIterations, "permutation draw count")
	cmd.Flags().IntVar(&workers, "workers", engine.DefaultWorkers, "parallel worker limit")
	cmd.Flags().IntVar(&positive, "positive", 5, "disease (positive) group size")
	cmd.Flags().IntVar(&negative, "negative", 5, "control (negative) group size")
	return cmd
}

func newEnrichCmd() *cobra.Command {
	var workers, minSize, maxSize int

	cmd := &cobra.Command{
		Use:   "enrich [gmt-file]",
		Short: "Run up/down enrichment of GMT gene sets against the demo DE ranking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			generator := testkit.NewCohortGenerator(testkit.DefaultCohortConfig())
			records, err := generator.DERanking(ctx)
			if err != nil {
				return err
			}
			ranked, err := expr.RankedListFromDE(records)
			if err != nil {
				return err
			}

			sets, err := genesetio.NewGMTReader(args[0]).LoadGeneSets(ctx)
			if err != nil {
				return err
			}
			retained := geneset.Filter(sets, geneset.UniverseOf(ranked.Universe()),
				geneset.FilterConfig{MinSize: minSize, MaxSize: maxSize})

			enricher := engine.NewEnrichmentEngine(engine.EnrichmentConfig{Workers: workers})
			up, down, err := enricher.RunBothDirections(ctx, ranked, retained)
			if err != nil {
				return err
			}
			return printJSON(map[string]interface{}{
				"retained": len(retained),
				"up":       up,
				"down":     down,
			})
		},
	}

	cmd.Flags().IntVar(&workers, "workers", engine.DefaultWorkers, "parallel worker limit")
	cmd.Flags().IntVar(&minSize, "min-size", 10, "minimum filtered gene-set size (exclusive)")
	cmd.Flags().IntVar(&maxSize, "max-size", 200, "maximum filtered gene-set size (exclusive)")
	return cmd
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
