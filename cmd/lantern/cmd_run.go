package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"lantern/internal/allure"
	"lantern/internal/browser"
	"lantern/internal/capture"
	"lantern/internal/config"
	"lantern/internal/logging"
	"lantern/internal/login"
	"lantern/internal/report"
	"lantern/internal/suite"
)

var (
	runConfigPath    string
	runBaseURL       string
	runResultsDir    string
	runBrowserPath   string
	runHeadless      bool
	runWorkers       int
	runTimeout       int
	runReportURL     string
	runReportProject string
	runReportKeyFile string
	runLogLevel      string
	runLogFormat     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the login suite against the target site",
	Long: `Runs the login scenarios in a real browser. Failed cases get a
screenshot, the page source, the browser console and the current URL
attached to their Allure result (and ReportPortal item, if configured).`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "config file (YAML/JSON)")
	runCmd.Flags().StringVar(&runBaseURL, "base-url", "", "site under test (default "+login.DefaultBaseURL+")")
	runCmd.Flags().StringVar(&runResultsDir, "results-dir", "", "Allure results directory")
	runCmd.Flags().StringVar(&runBrowserPath, "browser", "", "browser binary path override")
	runCmd.Flags().BoolVar(&runHeadless, "headless", true, "run the browser headless")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "parallel sessions")
	runCmd.Flags().IntVar(&runTimeout, "timeout", 0, "per-operation browser timeout, seconds")
	runCmd.Flags().StringVar(&runReportURL, "report-url", "", "ReportPortal base URL")
	runCmd.Flags().StringVar(&runReportProject, "report-project", "", "ReportPortal project")
	runCmd.Flags().StringVar(&runReportKeyFile, "report-api-key", "", "path to ReportPortal API key file")
	runCmd.Flags().StringVar(&runLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&runLogFormat, "log-format", "", "log format (text, json)")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logging.Init(level, cfg.LogFormat)
	log := logging.New("run")

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	allureSink, err := allure.NewSink(cfg.ResultsDir, logging.New("allure"))
	if err != nil {
		return fmt.Errorf("results dir: %w", err)
	}

	sinks := capture.MultiSink{allureSink}
	reporters := []suite.Reporter{allureSink}
	if cfg.Report.Enabled() {
		rpSink, err := reportSink(cfg)
		if err != nil {
			return err
		}
		sinks = append(sinks, rpSink)
		reporters = append(reporters, rpSink)
	}

	registry := capture.NewRegistry()
	runner := &suite.Runner{
		Name:      "login",
		Registry:  registry,
		Observer:  capture.NewObserver(registry, sinks, nil, logging.New("capture")),
		Factory:   browserFactory(cfg),
		Reporters: reporters,
		Workers:   cfg.Workers,
		Logger:    logging.New("suite"),
	}

	log.Info("starting run",
		"base_url", baseURL(cfg),
		"results_dir", cfg.ResultsDir,
		"workers", cfg.Workers)

	summary := runner.Run(ctx, login.Cases(cfg.BaseURL))
	printSummary(cmd.OutOrStdout(), summary)

	if summary.Anomalous() {
		return fmt.Errorf("%d of %d cases did not pass",
			summary.Failed+summary.Errored, len(summary.Results))
	}
	return nil
}

// resolveConfig loads the config file (or defaults) and lets explicitly
// set flags override it.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if runConfigPath != "" {
		loaded, err := config.LoadFromPath(runConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = runBaseURL
	}
	if flags.Changed("results-dir") {
		cfg.ResultsDir = runResultsDir
	}
	if flags.Changed("browser") {
		cfg.Browser.ExecPath = runBrowserPath
	}
	if flags.Changed("headless") {
		cfg.Browser.Headless = runHeadless
	}
	if flags.Changed("workers") {
		cfg.Workers = runWorkers
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = runTimeout
	}
	if flags.Changed("report-url") {
		cfg.Report.URL = runReportURL
	}
	if flags.Changed("report-project") {
		cfg.Report.Project = runReportProject
	}
	if flags.Changed("report-api-key") {
		cfg.Report.APIKeyFile = runReportKeyFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = runLogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = runLogFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func reportSink(cfg *config.Config) (*report.Sink, error) {
	key := os.Getenv("LANTERN_REPORT_API_KEY")
	if cfg.Report.APIKeyFile != "" {
		fileKey, err := report.ReadAPIKey(cfg.Report.APIKeyFile)
		if err != nil {
			return nil, fmt.Errorf("report api key: %w", err)
		}
		key = fileKey
	}
	if key == "" {
		return nil, errors.New("report.api_key_file or LANTERN_REPORT_API_KEY is required when report.url is set")
	}
	client, err := report.New(cfg.Report.URL, key,
		report.WithLogger(logging.New("report")),
		report.WithTimeout(30*time.Second))
	if err != nil {
		return nil, err
	}
	return report.NewSink(client, cfg.Report.Project, logging.New("report")), nil
}

func browserFactory(cfg *config.Config) suite.Factory {
	bcfg := browser.Config{
		ExecPath:     cfg.Browser.ExecPath,
		Headless:     cfg.Browser.Headless,
		WindowWidth:  cfg.Browser.Width,
		WindowHeight: cfg.Browser.Height,
		Timeout:      cfg.Timeout(),
		Logger:       logging.New("browser"),
	}
	return func(ctx context.Context) (suite.Session, error) {
		return browser.New(ctx, bcfg)
	}
}

func baseURL(cfg *config.Config) string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	return login.DefaultBaseURL
}

func printSummary(w io.Writer, s suite.Summary) {
	fmt.Fprintf(w, "\n%d cases: %d passed, %d failed, %d errored, %d skipped\n",
		len(s.Results), s.Passed, s.Failed, s.Errored, s.Skipped)
	for _, res := range s.Results {
		switch res.Outcome {
		case capture.OutcomePassed:
			fmt.Fprintf(w, "  PASS  %s\n", res.Name)
		case capture.OutcomeSkipped:
			fmt.Fprintf(w, "  SKIP  %s (%s)\n", res.Name, res.Reason)
		default:
			fmt.Fprintf(w, "  %s  %s: %s\n", outcomeTag(res.Outcome), res.Name, res.Reason)
		}
	}
}

func outcomeTag(o capture.Outcome) string {
	if o == capture.OutcomeErrored {
		return "ERROR"
	}
	return "FAIL "
}
