package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"acc3scraper/pkg/browser"
	"acc3scraper/pkg/checkpoint"
	"acc3scraper/pkg/config"
	"acc3scraper/pkg/extractor"
	"acc3scraper/pkg/logger"
	"acc3scraper/pkg/output"
	"acc3scraper/pkg/ratelimit"
	"acc3scraper/pkg/scraper"
)

var (
	// Scrape command flags
	targetURL      string
	outputPath     string
	checkpointPath string
	waitTimeout    time.Duration
	settleDelay    time.Duration
	pageInterval   time.Duration
	headless       bool
	forceRestart   bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Walk the listing and append validation entries to the CSV file",
	Long: `Walk the ACC3 listing page by page, extract the validation entries from
each rendered page and append them to the output CSV.

The checkpoint file records the last fully written page. When it exists, the
run skips forward to the page after it before extracting anything; if that
resume point cannot be reached the run aborts rather than silently starting
over and duplicating rows.`,
	Example: `  # Scrape with default settings
  acc3scraper scrape

  # Custom output and checkpoint locations
  acc3scraper scrape --output ./data/acc3.csv --checkpoint ./data/acc3.page

  # Slow down page visits and watch the browser
  acc3scraper scrape --page-interval 10s --headless=false

  # Ignore previous progress and start over
  acc3scraper scrape --force-restart`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runScrape(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&targetURL, "url", "u", "", "listing URL (default: the EU ACC3 public listing)")
	scrapeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output CSV path (default: acc3_data.csv)")
	scrapeCmd.Flags().StringVar(&checkpointPath, "checkpoint", "", "checkpoint file path (default: acc3_checkpoint.txt)")
	scrapeCmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 10*time.Second, "bounded wait for page controls and renders")
	scrapeCmd.Flags().DurationVar(&settleDelay, "settle-delay", 5*time.Second, "pause after each page transition")
	scrapeCmd.Flags().DurationVar(&pageInterval, "page-interval", 5*time.Second, "minimum interval between page visits")
	scrapeCmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless")
	scrapeCmd.Flags().BoolVar(&forceRestart, "force-restart", false, "delete the checkpoint and re-run from page 1")
}

func runScrape(cmd *cobra.Command) {
	// Build flags map from command line; only explicitly set flags override
	// config and environment.
	flags := make(map[string]interface{})
	if targetURL != "" {
		flags["url"] = targetURL
	}
	if outputPath != "" {
		flags["output"] = outputPath
	}
	if checkpointPath != "" {
		flags["checkpoint"] = checkpointPath
	}
	if cmd.Flags().Changed("wait-timeout") {
		flags["wait-timeout"] = waitTimeout
	}
	if cmd.Flags().Changed("settle-delay") {
		flags["settle-delay"] = settleDelay
	}
	if cmd.Flags().Changed("page-interval") {
		flags["page-interval"] = pageInterval
	}
	if cmd.Flags().Changed("headless") {
		flags["headless"] = headless
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to initialize logger")
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("acc3scraper starting")

	checkpoints := checkpoint.NewManager(cfg.Output.CheckpointPath)
	if forceRestart && checkpoints.Exists() {
		if err := checkpoints.Delete(); err != nil {
			log.WithError(err).Error("Failed to delete existing checkpoint")
			os.Exit(1)
		}
		log.Info("Force restart, previous checkpoint discarded")
	}

	sink, err := output.Open(cfg.Output.CSVPath)
	if err != nil {
		log.WithError(err).Error("Failed to open output file")
		os.Exit(1)
	}
	defer sink.Close()

	session, err := browser.NewSession(&cfg.Navigation)
	if err != nil {
		log.WithError(err).Error("Failed to launch browser session")
		os.Exit(1)
	}
	// Released on every exit path, successful or not.
	defer session.Close()

	s := scraper.New(
		cfg,
		session,
		extractor.New(),
		sink,
		checkpoints,
		ratelimit.NewIntervalPacer(cfg.RateLimit.MinPageInterval),
	)

	if err := s.Run(); err != nil {
		log.WithError(err).Error("Extraction failed")
		session.Close()
		sink.Close()
		os.Exit(1)
	}

	log.Info("Extraction completed successfully")
}
