package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mikey/gmail-filter-agent/internal/adapters/export"
	"github.com/mikey/gmail-filter-agent/internal/adapters/gmailapi"
	"github.com/mikey/gmail-filter-agent/internal/config"
	"github.com/mikey/gmail-filter-agent/internal/core"
	"github.com/mikey/gmail-filter-agent/internal/logging"
	"github.com/mikey/gmail-filter-agent/internal/utils"
	"go.uber.org/zap"
)

var (
	// Filter flags
	keywords      = flag.String("keywords", "", "Keywords to search for")
	sender        = flag.String("sender", "", "Filter by sender address")
	afterDate     = flag.String("after", "", "Only emails after this date (absolute or relative, e.g. '30 days ago')")
	beforeDate    = flag.String("before", "", "Only emails before this date")
	hasAttachment = flag.Bool("has-attachment", false, "Only emails with attachments")
	label         = flag.String("label", "", "Filter by Gmail label")

	// Amount flags
	minAmount = flag.Float64("min-amount", -1, "Minimum detected amount (negative means no minimum)")
	maxAmount = flag.Float64("max-amount", -1, "Maximum detected amount (negative means no maximum)")

	// Gmail flags
	credentialsFile = flag.String("credentials", "credentials.json", "OAuth client credentials file")
	tokenFile       = flag.String("token", "token.json", "OAuth token cache file")
	maxResults      = flag.Int64("max-results", 100, "Maximum number of search results")

	// Output flags
	outputDir = flag.String("output-dir", "./csv_files", "Directory for CSV exports")
	filename  = flag.String("filename", "", "CSV filename (auto-generated if empty)")
	dryRun    = flag.Bool("dry-run", false, "Print the translated query and exit without contacting Gmail")
	verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog   = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		// Create config from command line flags
		cfg = createConfigFromFlags()
	}

	// Build the filter intent
	intent := &core.FilterIntent{
		Keywords:   *keywords,
		Sender:     *sender,
		AfterDate:  *afterDate,
		BeforeDate: *beforeDate,
		Label:      *label,
	}
	if *hasAttachment {
		t := true
		intent.HasAttachment = &t
	}

	translator := core.NewQueryTranslator(logger)
	query := translator.Translate(intent, time.Now())

	fmt.Printf("\n=== Query ===\n")
	fmt.Printf("Gmail query: %s\n", query)

	if *dryRun {
		return
	}

	ctx := context.Background()
	gmailConfig := cfg.GetGmail()

	// Authenticate and create the mailbox client
	svc, err := gmailapi.NewService(ctx, gmailConfig.CredentialsFile, gmailConfig.TokenFile)
	if err != nil {
		logger.Fatal("Failed to create Gmail service", zap.Error(err))
	}
	textProcessor := utils.NewTextProcessor(logger)
	client := gmailapi.NewClient(svc, logger, gmailConfig.PageSize, textProcessor)

	pipeline := core.NewAmountFilterPipeline(logger)
	exporter := export.NewCSVExporter(cfg.GetExport().OutputDir, logger)
	service := core.NewEmailFilterService(client, client, nil, exporter, translator, pipeline, logger, false)

	// Search
	startTime := time.Now()
	_, summaries, err := service.Search(ctx, intent, gmailConfig.MaxResults)
	if err != nil {
		logger.Fatal("Search failed", zap.Error(err))
	}
	fmt.Printf("\n=== Search ===\n")
	fmt.Printf("Matching emails: %d\n", len(summaries))
	if len(summaries) == 0 {
		return
	}

	// Fetch full records
	ids := make([]string, len(summaries))
	for i, s := range summaries {
		ids[i] = s.ID
	}
	records, failures := service.FetchEmails(ctx, ids)
	fmt.Printf("Fetched: %d (failed: %d)\n", len(records), len(failures))

	// Filter by amount when a range was given
	min := amountFlag(*minAmount)
	max := amountFlag(*maxAmount)
	if min != nil || max != nil {
		matching, _ := service.FilterByAmount(records, min, max)
		fmt.Printf("\n=== Amount filter ===\n")
		fmt.Printf("Range: %s\n", formatRange(min, max))
		fmt.Printf("Matching: %d of %d\n", len(matching), len(records))
		records = matching
	}
	if len(records) == 0 {
		fmt.Printf("Nothing to export.\n")
		return
	}

	// Export
	report, err := service.Export(ctx, records, *filename)
	if err != nil {
		logger.Fatal("Export failed", zap.Error(err))
	}

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Exported: %d emails\n", report.Count)
	fmt.Printf("File: %s\n", report.Filepath)
	fmt.Printf("Processing time: %v\n", time.Since(startTime))
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("gmail.credentials_file", *credentialsFile)
	v.Set("gmail.token_file", *tokenFile)
	v.Set("gmail.max_results", *maxResults)
	v.Set("gmail.page_size", int64(100))
	v.Set("export.output_dir", *outputDir)
	v.Set("export.max_body_size", 4096)

	return config.NewFromViper(v)
}

func amountFlag(v float64) *float64 {
	if v < 0 {
		return nil
	}
	return &v
}

func formatRange(min, max *float64) string {
	var parts []string
	if min != nil {
		parts = append(parts, fmt.Sprintf(">= $%.2f", *min))
	}
	if max != nil {
		parts = append(parts, fmt.Sprintf("<= $%.2f", *max))
	}
	return strings.Join(parts, " and ")
}
