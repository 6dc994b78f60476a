package main

import (
	"fmt"
	"log"
	"os"
	"shopRecs/business/evaluate"
	psqlRepo "shopRecs/internal/repository/postgres"
	"shopRecs/pkg/config"
	"shopRecs/pkg/database"
	"shopRecs/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	var output string

	rootCmd := &cobra.Command{
		Use:   "evaluator",
		Short: "Offline evaluation of logged recommendations",
		Long:  "Replays recommendation_logs against recorded purchases and writes per-event ranking metrics as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, output)
		},
	}

	rootCmd.Flags().StringVarP(&output, "output", "o", "evaluation_results.csv", "path of the CSV report to write")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, output string) error {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	logRepo := psqlRepo.NewRecommendationLogRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	interactionRepo := psqlRepo.NewInteractionRepository(db)

	evaluator := evaluate.New(logRepo, productRepo, interactionRepo)

	report, err := evaluator.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("run evaluation: %w", err)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := report.WriteCSV(f); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.Info("Evaluation report written", "path", output, "rows", len(report.Rows), "skipped", report.Skipped)
	return nil
}
