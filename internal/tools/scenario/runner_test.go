package scenario

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/louisbranch/savagesheet/internal/services/sheet/app"
	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog/catalogtest"
	"github.com/louisbranch/savagesheet/internal/services/sheet/document"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/derive"
)

const bruiserScript = `local scene = Scenario.new("bruiser")

scene:character({name = "Brakka", race = "human", framework = "bruiser"})
scene:attribute({name = "agility", points = 1})
scene:attribute({name = "vigor", points = 2})
scene:skill({name = "fighting", points = 2})
scene:select({target = "framework_bonus", index = 2, value = "Fighting"})
scene:hindrance("slow")

scene:expect({
  rank = "novice",
  pace = 4,
  parry = 7,
  toughness = 7,
  attributes = {vigor = "d8"},
  skills = {fighting = "d10"},
})
`

func newTestService(t *testing.T) *app.Service {
	t.Helper()
	cat := catalogtest.Catalog()
	service, err := app.New(derive.New(cat, catalogtest.Setting()), document.New(cat))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func runScript(t *testing.T, cfg Config, script string) error {
	t.Helper()
	runner, err := NewRunner(newTestService(t), cfg)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	scenario, err := LoadScenarioFromFile(writeScenarioFixture(t, script))
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	return runner.RunScenario(context.Background(), scenario)
}

func TestNewRunnerRequiresService(t *testing.T) {
	if _, err := NewRunner(nil, DefaultConfig()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunScenarioDerivesBruiser(t *testing.T) {
	if err := runScript(t, DefaultConfig(), bruiserScript+"return scene\n"); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}

func TestRunScenarioAdvancesOpenRankGatedLine(t *testing.T) {
	script := bruiserScript + `
scene:advance({kind = "attribute", targets = {"strength"}})
scene:advance({kind = "skill_one", targets = {"fighting"}})
scene:advance({kind = "skills_two", targets = {"notice", "stealth"}})
scene:advance({kind = "edge", edge = "alertness"})
scene:select({target = "framework_bonus", index = 3, value = "brave"})
scene:expect({rank = "seasoned", edges = {"alertness", "brave"}, attributes = {strength = "d6"}})
scene:roundtrip()
scene:expect({rank = "seasoned", edges = {"brave"}})

return scene
`
	if err := runScript(t, DefaultConfig(), script); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}

func TestRunScenarioStrictFailsOnMismatch(t *testing.T) {
	script := bruiserScript + `
scene:expect({pace = 9})
return scene
`
	err := runScript(t, DefaultConfig(), script)
	if err == nil {
		t.Fatal("expected mismatch error")
	}
	if !strings.Contains(err.Error(), "pace = 4, want 9") {
		t.Fatalf("error = %q, want pace mismatch", err.Error())
	}
	if !strings.Contains(err.Error(), "step 8 (expect)") {
		t.Fatalf("error = %q, want step number", err.Error())
	}
}

func TestRunScenarioLogOnlyKeepsGoing(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cfg := DefaultConfig()
	cfg.Assertions = AssertionLogOnly
	cfg.Logger = zap.New(core)

	script := bruiserScript + `
scene:expect({pace = 9, message = "nothing like this"})
return scene
`
	if err := runScript(t, cfg, script); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	entries := logs.FilterMessage("expectation not met").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 logged expectation, got %d", len(entries))
	}
	detail := entries[0].ContextMap()["detail"]
	if s, _ := detail.(string); !strings.Contains(s, "nothing like this") || !strings.Contains(s, "pace") {
		t.Fatalf("detail = %v, want both mismatches", detail)
	}
}

func TestRunScenarioRequiresCharacter(t *testing.T) {
	err := runScript(t, DefaultConfig(), `local scene = Scenario.new("orphan")
scene:edge("brave")
return scene
`)
	if err == nil || !strings.Contains(err.Error(), "character is required") {
		t.Fatalf("expected missing character error, got %v", err)
	}
}

func TestRunScenarioRejectsUnknownCatalogID(t *testing.T) {
	err := runScript(t, DefaultConfig(), `local scene = Scenario.new("ghost")
scene:character({name = "Ada"})
scene:edge("ghost-step")
return scene
`)
	if err == nil || !strings.Contains(err.Error(), "ghost-step") {
		t.Fatalf("expected unknown edge error, got %v", err)
	}
}

func TestRunScenarioSelectOutOfRange(t *testing.T) {
	err := runScript(t, DefaultConfig(), `local scene = Scenario.new("range")
scene:character({name = "Ada"})
scene:select({target = "edge", index = 1, value = "x"})
return scene
`)
	if err == nil || !strings.Contains(err.Error(), "edge 1 does not exist") {
		t.Fatalf("expected out of range error, got %v", err)
	}
}
