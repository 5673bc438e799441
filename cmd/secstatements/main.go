package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/sec-statements/edgar"
	"go.uber.org/zap"
)

func main() {
	var (
		cik            string
		years          int
		limit          int
		out            string
		userAgent      string
		includeAmends  bool
		keepAbstract   bool
		timeoutSecs    int
		minIntervalSec float64
		maxBytes       int64
		verbose        bool
	)

	flag.StringVar(&cik, "cik", "", "Company CIK (digits), required")
	flag.IntVar(&years, "years", 5, "Lookback window, in years")
	flag.IntVar(&limit, "limit", 5, "Max number of 10-K filings to process")
	flag.StringVar(&out, "out", "sec_statements_out", "Output directory")
	flag.StringVar(&userAgent, "user-agent", os.Getenv(edgar.SecUAEnvVar), "User-Agent with contact info (or set SEC_UA)")
	flag.BoolVar(&includeAmends, "include-amends", false, "Include 10-K/A filings")
	flag.BoolVar(&keepAbstract, "keep-abstract", false, "Keep XBRL scaffolding rows like [Abstract]")
	flag.IntVar(&timeoutSecs, "timeout", edgar.DefaultTimeout, "Per-request timeout, in seconds")
	flag.Float64Var(&minIntervalSec, "min-interval", edgar.DefaultMinInterval, "Minimum spacing between requests, in seconds")
	flag.Int64Var(&maxBytes, "max-bytes", edgar.DefaultMaxBytes, "Per-response byte cap")
	flag.BoolVar(&verbose, "verbose", false, "Log progress to stderr")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: secstatements --cik <CIK> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Extract balance sheet, income statement, and cash flow statement tables\n")
		fmt.Fprintf(os.Stderr, "from a company's recent 10-K filings on SEC EDGAR.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  secstatements --cik 1682852 --user-agent \"research (me@example.com)\"\n")
		fmt.Fprintf(os.Stderr, "  secstatements --cik 0000320193 --years 10 --limit 8 --keep-abstract\n\n")
		fmt.Fprintf(os.Stderr, "Environment:\n")
		fmt.Fprintf(os.Stderr, "  SEC_UA    User-Agent with contact info (required unless --user-agent is set)\n")
	}

	flag.Parse()

	if verbose {
		logger, _ := zap.NewDevelopment()
		zap.ReplaceGlobals(logger)
		defer logger.Sync()
	}

	if cik == "" {
		fmt.Fprintln(os.Stderr, "Error: --cik is required")
		flag.Usage()
		os.Exit(1)
	}
	if userAgent == "" {
		fmt.Fprintln(os.Stderr, "Error: provide --user-agent \"app (email@domain)\" or set SEC_UA")
		os.Exit(1)
	}

	manifest, err := edgar.Run(context.Background(), edgar.Options{
		CIK:            cik,
		Years:          years,
		Limit:          limit,
		OutDir:         out,
		UserAgent:      userAgent,
		IncludeAmends:  includeAmends,
		KeepAbstract:   keepAbstract,
		TimeoutSecs:    timeoutSecs,
		MinIntervalSec: minIntervalSec,
		MaxBytes:       maxBytes,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	summary := map[string]interface{}{
		"cik":       manifest.CIK,
		"processed": len(manifest.Filings),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(summary)
}
