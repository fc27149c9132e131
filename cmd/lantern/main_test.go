package main

import (
	"bytes"
	"strings"
	"testing"

	"lantern/internal/capture"
	"lantern/internal/suite"
)

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, suite.Summary{
		Results: []suite.CaseResult{
			{ID: "test_a", Name: "a passes", Outcome: capture.OutcomePassed},
			{ID: "test_b", Name: "b fails", Outcome: capture.OutcomeFailed, Reason: "banner missing"},
			{ID: "test_c", Name: "c skipped", Outcome: capture.OutcomeSkipped, Reason: "flaky upstream"},
		},
		Passed:  1,
		Failed:  1,
		Skipped: 1,
	})

	out := buf.String()
	for _, want := range []string{
		"3 cases: 1 passed, 1 failed, 0 errored, 1 skipped",
		"PASS  a passes",
		"FAIL   b fails: banner missing",
		"SKIP  c skipped (flaky upstream)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestResolveConfig_FlagOverrides(t *testing.T) {
	flags := runCmd.Flags()
	for name, value := range map[string]string{
		"base-url":    "http://localhost:7080",
		"workers":     "3",
		"results-dir": "custom-results",
	} {
		if err := flags.Set(name, value); err != nil {
			t.Fatal(err)
		}
	}

	cfg, err := resolveConfig(runCmd)
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.BaseURL != "http://localhost:7080" {
		t.Errorf("base url = %q", cfg.BaseURL)
	}
	if cfg.Workers != 3 {
		t.Errorf("workers = %d", cfg.Workers)
	}
	if cfg.ResultsDir != "custom-results" {
		t.Errorf("results dir = %q", cfg.ResultsDir)
	}
	// Untouched fields keep their defaults.
	if cfg.TimeoutSeconds != 10 {
		t.Errorf("timeout = %d", cfg.TimeoutSeconds)
	}
}

func TestCasesCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"cases"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("cases: %v", err)
	}

	out := buf.String()
	for _, id := range []string{
		"test_successful_login",
		"test_unsuccessful_login",
		"test_invalid_password",
		"test_empty_credentials",
		"test_ui_elements_presence",
	} {
		if !strings.Contains(out, id) {
			t.Errorf("cases output missing %s:\n%s", id, out)
		}
	}
}
