package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"product-extractor/adapters"
	"product-extractor/extractor"
	"product-extractor/internal/config"
	"product-extractor/internal/types"
	"product-extractor/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	appCfg := config.Load()

	var (
		urlFlag       = flag.String("url", appCfg.ProductURL, "Product page URL to extract")
		siteFlag      = flag.String("site", appCfg.Site, "Force a site adapter (amazon, bookstoscrape, or the name in -selectors)")
		selectorsFlag = flag.String("selectors", appCfg.SelectorsFile, "YAML file with selectors for an additional site")
		outputFlag    = flag.String("output", "", "Write the result as JSON to this file")
		csvFlag       = flag.String("csv", appCfg.CSVOutputPath, "Append the result to this CSV file")
		xlsxFlag      = flag.String("xlsx", appCfg.XLSXOutputPath, "Append the result to this Excel workbook")
		sqliteFlag    = flag.String("sqlite", appCfg.SQLitePath, "Store the result in this SQLite database")
		postgresFlag  = flag.String("postgres", appCfg.PostgresDSN, "Store the result in PostgreSQL (DSN)")
		mysqlFlag     = flag.String("mysql", appCfg.MySQLDSN, "Store the result in MySQL (DSN)")
		requestDelay  = flag.Duration("delay", 1*time.Second, "Delay between retry attempts")
		maxRetries    = flag.Int("retries", 0, "Maximum retry attempts for the page request")
		timeout       = flag.Duration("timeout", 30*time.Second, "Request timeout")
		useBrowser    = flag.Bool("browser", false, "Render the page with a headless browser")
		listSites     = flag.Bool("list-sites", false, "List the available site adapters and exit")
		verbose       = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logger := newLogger(appCfg.LogLevel, *verbose)

	cfg := types.DefaultConfig()
	cfg.RequestDelay = *requestDelay
	cfg.MaxRetries = *maxRetries
	cfg.Timeout = *timeout
	cfg.UseHeadlessBrowser = *useBrowser

	var extra []adapters.SiteAdapter
	if *selectorsFlag != "" {
		site, err := config.LoadSiteConfig(*selectorsFlag)
		if err != nil {
			logger.Errorf("Failed to load selectors: %v", err)
			return 1
		}
		configured, err := adapters.NewConfiguredAdapter(site, cfg, logger)
		if err != nil {
			logger.Errorf("Invalid selectors file: %v", err)
			return 1
		}
		extra = append(extra, configured)
	}

	productExtractor := extractor.NewExtractor(cfg, logger, extra...)
	defer productExtractor.Close()

	if *listSites {
		fmt.Println(strings.Join(productExtractor.Sites(), "\n"))
		return 0
	}

	productURL := strings.TrimSpace(*urlFlag)
	if productURL == "" {
		logger.Error("A product URL is required (-url or PRODUCT_URL)")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout*time.Duration(cfg.MaxRetries+2))
	defer cancel()

	var (
		result *types.ExtractionResult
		err    error
	)
	if *outputFlag != "" {
		result, err = productExtractor.ExtractToJSON(ctx, productURL, *siteFlag, *outputFlag)
	} else {
		result, err = productExtractor.Extract(ctx, productURL, *siteFlag)
	}
	if err != nil {
		logger.Errorf("Extraction failed: %v", err)
		return 1
	}

	if err := extractor.WriteReport(os.Stdout, result.Site, result.Product); err != nil {
		logger.Errorf("Failed to print report: %v", err)
		return 1
	}

	persist(logger, result, targets{
		csvPath:     *csvFlag,
		xlsxPath:    *xlsxFlag,
		sqlitePath:  *sqliteFlag,
		postgresDSN: *postgresFlag,
		mysqlDSN:    *mysqlFlag,
	})
	return 0
}

// targets names the storage backends a result is saved to. Empty fields are skipped.
type targets struct {
	csvPath     string
	xlsxPath    string
	sqlitePath  string
	postgresDSN string
	mysqlDSN    string
}

type backend struct {
	name string
	open func() (storage.RecordWriter, error)
}

func (t targets) backends() []backend {
	var backends []backend
	if t.csvPath != "" {
		backends = append(backends, backend{"CSV " + t.csvPath, func() (storage.RecordWriter, error) {
			return storage.NewCSVWriter(t.csvPath)
		}})
	}
	if t.xlsxPath != "" {
		backends = append(backends, backend{"Excel " + t.xlsxPath, func() (storage.RecordWriter, error) {
			return storage.NewXLSXWriter(t.xlsxPath)
		}})
	}
	if t.sqlitePath != "" {
		backends = append(backends, backend{"SQLite " + t.sqlitePath, func() (storage.RecordWriter, error) {
			return storage.NewSQLiteWriter(t.sqlitePath)
		}})
	}
	if t.postgresDSN != "" {
		backends = append(backends, backend{"PostgreSQL", func() (storage.RecordWriter, error) {
			return storage.NewPostgresWriter(t.postgresDSN)
		}})
	}
	if t.mysqlDSN != "" {
		backends = append(backends, backend{"MySQL", func() (storage.RecordWriter, error) {
			return storage.NewMySQLWriter(t.mysqlDSN)
		}})
	}
	return backends
}

// persist stores result in every configured backend. Storage failures are
// logged but do not change the exit status once the report is printed.
func persist(logger *logrus.Logger, result *types.ExtractionResult, t targets) {
	for _, b := range t.backends() {
		writer, err := b.open()
		if err != nil {
			logger.Warnf("Failed to open %s: %v", b.name, err)
			continue
		}
		if err := writer.Write([]*types.ExtractionResult{result}); err != nil {
			logger.Warnf("Failed to write to %s: %v", b.name, err)
		} else {
			logger.Infof("Result saved to %s", b.name)
		}
		if err := writer.Close(); err != nil {
			logger.Warnf("Failed to close %s: %v", b.name, err)
		}
	}
}

func newLogger(levelStr string, verbose bool) *logrus.Logger {
	logger := logrus.New()

	// Set timestamp format with milliseconds
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
			return logger
		}
	}
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}
