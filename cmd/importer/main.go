package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"gomag-importer/exporter"
	"gomag-importer/extractor"
	"gomag-importer/gomag"
	"gomag-importer/internal/observability"
	"gomag-importer/internal/types"
	"gomag-importer/pipeline"
	"gomag-importer/rules"
	"gomag-importer/translate"
	"gomag-importer/utils"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	var (
		urlsFile   = flag.String("urls", "", "File with product URLs, one per line (or a CSV with a url column)")
		urlFlag    = flag.String("url", "", "Comma-separated product URLs (alternative to -urls)")
		rulesDir   = flag.String("rules", "suppliers", "Directory with per-domain YAML rule files")
		outputDir  = flag.String("output", "output", "Directory for the JSON report and import CSV")
		delay      = flag.Duration("delay", 1*time.Second, "Delay between requests per worker")
		retries    = flag.Int("retries", 3, "Maximum retry attempts per fetch")
		timeout    = flag.Duration("timeout", 30*time.Second, "Request timeout")
		concurrent = flag.Int("concurrent", 4, "Worker count")
		browser    = flag.Bool("browser", false, "Force headless-browser fetching for all URLs")
		category   = flag.Int("category", 0, "Gomag category id assigned to every imported product")
		markup     = flag.Float64("markup", 100, "Markup percent applied after currency conversion")
		dryRun     = flag.Bool("dry-run", false, "Export only, skip platform submission")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	} else if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	urls, err := collectURLs(*urlsFile, *urlFlag)
	if err != nil {
		logger.Fatalf("Failed to read URL list: %v", err)
	}
	if len(urls) == 0 {
		logger.Fatal("No URLs to import: provide -urls or -url")
	}

	config := types.DefaultConfig()
	config.RequestDelay = *delay
	config.MaxRetries = *retries
	config.Timeout = *timeout
	config.WorkerCount = *concurrent
	config.ForceBrowser = *browser
	config.CategoryID = *category
	config.MarkupPercent = *markup
	if lang := os.Getenv("TARGET_LANG"); lang != "" {
		config.TargetLang = lang
	}
	config.Rates = ratesFromEnv(config.Rates, logger)

	// Platform credentials are the only run-fatal configuration:
	// checked before any URL is touched.
	var submitter pipeline.Submitter
	if !*dryRun {
		apiKey := os.Getenv("GOMAG_API_KEY")
		apiShop := os.Getenv("GOMAG_API_SHOP")
		if apiKey == "" || apiShop == "" {
			logger.Fatal("GOMAG_API_KEY and GOMAG_API_SHOP are required (use -dry-run to export without submitting)")
		}
		submitter = gomag.NewClient(os.Getenv("GOMAG_API_URL"), apiKey, apiShop, logger)
	}

	if port := os.Getenv("METRICS_PORT"); port != "" {
		observability.Start(port)
		logger.Infof("Metrics available on :%s/metrics", port)
	}

	ruleTable, err := rules.LoadDir(*rulesDir)
	if err != nil {
		logger.Fatalf("Failed to load rule sets: %v", err)
	}
	logger.Infof("Loaded %d domain rule sets from %s", ruleTable.Len(), *rulesDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := pipeline.New(
		config,
		utils.NewFetcher(config, ruleTable, logger),
		extractor.New(ruleTable, logger),
		translate.NewFromEnv(config, logger),
		submitter,
		logger,
	)

	logger.Infof("Starting import of %d URLs (workers=%d, dry-run=%v)", len(urls), config.WorkerCount, *dryRun)
	report := run.Run(ctx, urls)

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		logger.Fatalf("Failed to create output directory %s: %v", *outputDir, err)
	}
	reportPath := filepath.Join(*outputDir, "report.json")
	csvPath := filepath.Join(*outputDir, "import.csv")
	if err := exporter.WriteJSON(report, reportPath); err != nil {
		logger.Errorf("Failed to write JSON report: %v", err)
	}
	if err := exporter.WriteCSV(report, csvPath); err != nil {
		logger.Errorf("Failed to write import CSV: %v", err)
	}

	counts := map[types.ResultStatus]int{}
	for _, r := range report.Results {
		counts[r.Status]++
	}
	logger.Infof("Run %s finished in %v", report.RunID, report.Finished.Sub(report.Started))
	logger.Infof("Imported: %d  Exported: %d  Failed: %d  Skipped: %d",
		counts[types.StatusImported], counts[types.StatusExported],
		counts[types.StatusFailed], counts[types.StatusSkipped])
	logger.Infof("Report: %s  CSV: %s", reportPath, csvPath)

	if counts[types.StatusFailed] > 0 {
		os.Exit(1)
	}
}

// collectURLs merges the -urls file and the -url flag, preserving
// order. CSV files contribute their url column (or first column).
func collectURLs(file, inline string) ([]string, error) {
	var urls []string

	if file != "" {
		fileURLs, err := readURLFile(file)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fileURLs...)
	}

	for _, u := range strings.Split(inline, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}

	return urls, nil
}

func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		return readURLColumn(f)
	}

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

func readURLColumn(f *os.File) ([]string, error) {
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	col := 0
	start := 0
	for i, header := range records[0] {
		if strings.EqualFold(strings.TrimSpace(header), "url") {
			col = i
			start = 1
			break
		}
	}

	var urls []string
	for _, row := range records[start:] {
		if col < len(row) {
			if u := strings.TrimSpace(row[col]); u != "" {
				urls = append(urls, u)
			}
		}
	}
	return urls, nil
}

func ratesFromEnv(defaults types.Rates, logger *logrus.Logger) types.Rates {
	rates := defaults
	if v := os.Getenv("EUR_RON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			rates.EURToRON = f
		} else {
			logger.Warnf("Ignoring invalid EUR_RON=%q", v)
		}
	}
	if v := os.Getenv("GBP_RON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			rates.GBPToRON = f
		} else {
			logger.Warnf("Ignoring invalid GBP_RON=%q", v)
		}
	}
	return rates
}
