package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/eightweeks/fujimi-forecast/internal/analysis"
	"github.com/eightweeks/fujimi-forecast/internal/config"
	"github.com/eightweeks/fujimi-forecast/internal/logging"
	"github.com/eightweeks/fujimi-forecast/internal/projection"
	"github.com/eightweeks/fujimi-forecast/pkg/constants"
	"github.com/eightweeks/fujimi-forecast/pkg/output"
	"github.com/eightweeks/fujimi-forecast/pkg/report"
	"github.com/eightweeks/fujimi-forecast/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file (empty for built-in defaults)")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	properties := flag.Int("properties", constants.DefaultPropertyCount, "property count slider value (1-50)")
	occupancy := flag.Float64("occupancy", constants.DefaultOccupancyPercent, "occupancy slider value in percent (10-80)")
	xlsxPath := flag.String("xlsx", "", "optional path to write the analysis workbook")
	pdfPath := flag.String("pdf", "", "optional path to write the PDF report")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}
	if err := validation.ValidatePropertyCount(*properties); err != nil {
		logger.Fatal("invalid property count",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	if err := validation.ValidateOccupancyPercent(*occupancy); err != nil {
		logger.Fatal("invalid occupancy",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Validate configuration and display any warnings
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	calc, err := projection.NewCalculator(logger, conf.Calculator)
	if err != nil {
		logger.Fatal("failed to create calculator",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	proj, err := calc.ComputePercent(*properties, *occupancy)
	if err != nil {
		logger.Fatal("failed to compute projection",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	growth, err := calc.GrowthSeries(proj.OccupancyRate)
	if err != nil {
		logger.Fatal("failed to compute growth series",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	model, err := analysis.NewModel(logger, conf.Model)
	if err != nil {
		logger.Fatal("failed to create analysis model",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	rep, err := model.Analyze(model.BaseInputs(), *conf)
	if err != nil {
		logger.Fatal("failed to run analysis",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, output.Summary{Projection: proj, Growth: growth, Report: rep})
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, rep)
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if *xlsxPath != "" {
		if err := writeFile(*xlsxPath, func(f *os.File) error { return report.WriteWorkbook(f, rep) }); err != nil {
			logger.Fatal("failed to write workbook",
				zap.String("op", "main"),
				zap.String("path", *xlsxPath),
				zap.Error(err),
			)
		}
		logger.Info("workbook written",
			zap.String("op", "main"),
			zap.String("path", *xlsxPath),
		)
	}

	if *pdfPath != "" {
		if err := writeFile(*pdfPath, func(f *os.File) error { return report.WritePDF(f, rep, time.Now()) }); err != nil {
			logger.Fatal("failed to write PDF report",
				zap.String("op", "main"),
				zap.String("path", *pdfPath),
				zap.Error(err),
			)
		}
		logger.Info("PDF report written",
			zap.String("op", "main"),
			zap.String("path", *pdfPath),
		)
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
