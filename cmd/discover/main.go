package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"gomag-importer/extractor"
	"gomag-importer/internal/types"
	"gomag-importer/rules"
	"gomag-importer/utils"
)

// discover expands a supplier listing/category page into product URLs,
// one per line, ready to feed back into the importer.
func main() {
	_ = godotenv.Load()

	var (
		listingURL = flag.String("listing", "", "Supplier listing or category page URL (required)")
		rulesDir   = flag.String("rules", "suppliers", "Directory with per-domain YAML rule files")
		browser    = flag.Bool("browser", false, "Force headless-browser fetching")
		timeout    = flag.Duration("timeout", 30*time.Second, "Request timeout")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	logger.SetOutput(os.Stderr) // keep stdout clean for the URL list
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	if *listingURL == "" {
		logger.Fatal("-listing is required")
	}

	config := types.DefaultConfig()
	config.ForceBrowser = *browser
	config.Timeout = *timeout

	ruleTable, err := rules.LoadDir(*rulesDir)
	if err != nil {
		logger.Fatalf("Failed to load rule sets: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	page, err := utils.NewFetcher(config, ruleTable, logger).Fetch(ctx, *listingURL)
	if err != nil {
		logger.Fatalf("Failed to fetch listing: %v", err)
	}

	links := extractor.New(ruleTable, logger).ProductLinks(page)
	if len(links) == 0 {
		logger.Fatal("No product links found on listing page")
	}

	for _, link := range links {
		fmt.Println(link)
	}
}
