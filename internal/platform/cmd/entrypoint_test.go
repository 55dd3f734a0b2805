package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type testConfig struct {
	CatalogDir string `env:"CMD_TEST_CATALOG_DIR" envDefault:"catalog"`
	LogMode    string `env:"CMD_TEST_LOG_MODE" envDefault:"dev"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_CATALOG_DIR", "env-catalog")
	t.Setenv("CMD_TEST_LOG_MODE", "prod")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfgRef := testConfig{}
	if err := ParseConfig(&cfgRef); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfgRef.CatalogDir, "catalog", cfgRef.CatalogDir, "catalog dir")
	fs.StringVar(&cfgRef.LogMode, "log-mode", cfgRef.LogMode, "log mode")

	if err := ParseArgs(fs, []string{"-catalog", "flag-catalog"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfgRef.CatalogDir != "flag-catalog" {
		t.Fatalf("expected flag value for catalog dir, got %q", cfgRef.CatalogDir)
	}
	if cfgRef.LogMode != "prod" {
		t.Fatalf("expected env log mode, got %q", cfgRef.LogMode)
	}
}

func TestParseConfigFromArgsReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_CATALOG_DIR", "env-catalog")

	cfgRef := testConfig{}
	fs := flag.NewFlagSet("configargs", flag.ContinueOnError)
	fs.StringVar(&cfgRef.LogMode, "log-mode", "", "log mode")
	if err := ParseConfigFromArgs(&cfgRef, fs, []string{"-log-mode", "nop"}); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfgRef.LogMode != "nop" {
		t.Fatalf("expected parsed flag log mode, got %q", cfgRef.LogMode)
	}
	if cfgRef.CatalogDir != "env-catalog" {
		t.Fatalf("expected env catalog dir, got %q", cfgRef.CatalogDir)
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	var cfg *testConfig
	if err := ParseConfig(cfg); err == nil {
		t.Fatal("expected nil target error")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceSheet, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryReturnsRunError(t *testing.T) {
	t.Setenv("SAVAGESHEET_OTEL_ENDPOINT", "")
	want := errors.New("run failed")
	err := RunWithTelemetry(context.Background(), ServiceSheet, func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("expected run error, got %v", err)
	}
}
