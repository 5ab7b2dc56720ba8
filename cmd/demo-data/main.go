// Command demo-data writes the seeded demo data set to Excel workbooks:
// the outsourced supplier report and the expense register.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/erp-admin-console/internal/application/dispatcher"
	"github.com/garyjia/erp-admin-console/internal/application/service"
	"github.com/garyjia/erp-admin-console/internal/config"
	"github.com/garyjia/erp-admin-console/internal/container"
	"github.com/garyjia/erp-admin-console/internal/domain/entity"
	"github.com/garyjia/erp-admin-console/internal/export"
	"github.com/garyjia/erp-admin-console/internal/format"
	"github.com/garyjia/erp-admin-console/internal/infrastructure/storage"
	"github.com/garyjia/erp-admin-console/pkg/utils"
)

func main() {
	configPath := flag.String("config", os.Getenv("ERP_CONFIG"), "path to a YAML config file")
	outDir := flag.String("out", "", "output directory (defaults to export.output_dir)")
	dateRange := flag.String("range", entity.DateRange30Days, "report date range: today, 7d, 30d, 90d or year")
	seed := flag.Uint64("seed", 0, "override demo.seed")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *outDir != "" {
		cfg.Export.OutputDir = *outDir
	}
	if *seed != 0 {
		cfg.Demo.Seed = *seed
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: "stderr",
		Format:     "console",
		Component:  "demo-data",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg, *dateRange, time.Now, logger); err != nil {
		logger.Fatal("Failed to write demo data", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, dateRange string, now func() time.Time, logger *zap.Logger) error {
	backend := container.NewDemoBackend(cfg.Demo, now)
	formatter := format.NewFormatter(cfg.Display.CurrencySymbol, cfg.Display.Locale)
	events := dispatcher.NewDispatcher()
	defer events.Close()
	log := &cliLogger{logger: logger}

	expenses := service.NewExpenseService(backend, formatter, now, events, log)
	reports := service.NewReportService(backend, expenses, export.NewExporter(logger), formatter, now, events, log)
	store := storage.NewExportStore(cfg.Export.OutputDir, logger)

	report, err := reports.Export(ctx, entity.ReportQuery{DateRange: dateRange})
	if err != nil {
		return fmt.Errorf("export outsourced report: %w", err)
	}
	register, err := reports.ExportExpenses(ctx, service.ExpenseQuery{})
	if err != nil {
		return fmt.Errorf("export expenses: %w", err)
	}

	for _, wb := range []*service.Workbook{report, register} {
		path, err := store.Save(ctx, wb.Filename, wb.Content)
		if err != nil {
			return err
		}
		fmt.Println(path)
	}
	return nil
}

// cliLogger adapts zap to the services' key/value logger
type cliLogger struct {
	logger *zap.Logger
}

func (l *cliLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Sugar().Infow(msg, keysAndValues...)
}

func (l *cliLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Sugar().Errorw(msg, keysAndValues...)
}
