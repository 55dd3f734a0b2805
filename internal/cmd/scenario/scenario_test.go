package scenario

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Runtime.CatalogDir != "content" {
		t.Fatalf("expected default catalog dir, got %q", cfg.Runtime.CatalogDir)
	}
	if !cfg.Assertions {
		t.Fatal("expected assertions to default to true")
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %s", cfg.Timeout)
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("SAVAGESHEET_SCENARIO_FILE", "env.lua")
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, []string{"-scenario", "flag.lua", "-assert=false", "-catalog", "testdata"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Scenario != "flag.lua" {
		t.Fatalf("expected flag scenario, got %q", cfg.Scenario)
	}
	if cfg.Assertions {
		t.Fatal("expected assertions disabled")
	}
	if cfg.Runtime.CatalogDir != "testdata" {
		t.Fatalf("expected flag catalog dir, got %q", cfg.Runtime.CatalogDir)
	}
}

func TestRunRequiresScenario(t *testing.T) {
	if err := Run(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for missing scenario path")
	}
}

func TestRunExecutesScript(t *testing.T) {
	t.Setenv("SAVAGESHEET_OTEL_ENDPOINT", "")
	dir := t.TempDir()
	skills := `system_id: savage-worlds
system_version: swade
source: core
items:
  - {id: notice, name: Notice, attribute: smarts, core: true}
`
	if err := os.WriteFile(filepath.Join(dir, "skills.yaml"), []byte(skills), 0o600); err != nil {
		t.Fatalf("write skills: %v", err)
	}
	script := filepath.Join(dir, "check.lua")
	body := `local scene = Scenario.new("check")
scene:character({name = "Ada"})
scene:expect({pace = 6, skills = {notice = "d4"}})
scene:expect({pace = 5})
return scene
`
	if err := os.WriteFile(script, []byte(body), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}

	cfg := Config{Scenario: script, Assertions: true, Timeout: time.Second}
	cfg.Runtime.CatalogDir = dir
	cfg.Logging.Mode = "nop"

	err := Run(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "pace = 6, want 5") {
		t.Fatalf("expected pace mismatch from the second expectation, got %v", err)
	}
}
