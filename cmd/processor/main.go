// Command processor is the batch pipeline: it loads every inspection
// workbook from the input directory, reconciles the rows against the
// canonical schema and writes the combined CSV, the rollup CSVs and the
// summary workbook to the reports directory.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"cargocli/internal/config"
	"cargocli/internal/infrastructure"
	"cargocli/internal/services"
)

func main() {
	inDir := flag.String("in", "", "input directory for .xlsx files (defaults to data/input relative to executable)")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *inDir != "" {
		paths.InputDir = *inDir
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("process.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Starting inspection processing",
		slog.String("input_dir", paths.InputDir),
		slog.String("reports_dir", paths.ReportsDir),
		slog.String("executable_dir", paths.ExecutableDir))

	service, err := services.NewDataService(cfg, paths, logger)
	if err != nil {
		logger.Error("Failed to initialize data service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultOperationTimeout)
	defer cancel()

	loaded, err := service.LoadDirectory(ctx, paths.InputDir)
	if err != nil {
		logger.Error("Failed to load input directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	totalRows := 0
	for _, d := range loaded {
		totalRows += len(d.Rows)
		logger.Info("Workbook loaded",
			slog.String("name", d.Name),
			slog.Int("rows", len(d.Rows)))
	}

	result, err := service.Export(ctx)
	if err != nil {
		logger.Error("Failed to export reports", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Processing complete",
		slog.Int("datasets", len(loaded)),
		slog.Int("rows", totalRows),
		slog.String("combined_csv", result.CombinedCSV),
		slog.String("container_rollup", result.ContainerRollupCSV),
		slog.String("factory_rollup", result.FactoryRollupCSV),
		slog.String("summary_workbook", result.SummaryWorkbook))
}
