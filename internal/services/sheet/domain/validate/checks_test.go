package validate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog/catalogtest"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/character"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
)

func newCharacter() *character.Aggregate {
	c := character.New(catalogtest.Catalog().Skills.All())
	c.ResetDerived(rules.RankNovice)
	return c
}

func run(c *character.Aggregate, flags ...catalog.Flag) Report {
	return New(catalogtest.Catalog(), catalogtest.Setting(flags...), nil).Validate(c, Options{})
}

func findMessage(r Report, severity rules.Severity, text string) (Message, bool) {
	for _, m := range r.Messages {
		if m.Severity == severity && m.Text == text {
			return m, true
		}
	}
	return Message{}, false
}

func requireMessage(t *testing.T, r Report, severity rules.Severity, text string) Message {
	t.Helper()
	m, ok := findMessage(r, severity, text)
	if !ok {
		t.Fatalf("expected %s %q, got %+v", severity, text, r.Messages)
	}
	return m
}

func TestChecksOrder(t *testing.T) {
	var got []string
	for _, check := range Checks {
		got = append(got, check.Name)
	}
	want := []string{
		"ledgers", "arcane", "hindrances", "legacy_super_powers", "edges",
		"advances", "strain", "robot_mods", "wealth", "min_strength", "encumbrance",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("check order mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckLedgers(t *testing.T) {
	c := newCharacter()
	c.SetLedger(character.Ledger{AttributePoints: 5, AttributesSpent: 7, SkillPoints: 12, SkillsSpent: 10})

	report := run(c)

	m := requireMessage(t, report, rules.SeverityError, "You have spent 2 attribute points more than you have")
	if m.Path != "attributes" {
		t.Fatalf("expected attributes path, got %q", m.Path)
	}
	requireMessage(t, report, rules.SeverityInformation, "You have 2 skill points left")
	if report.Validity != rules.SeverityError {
		t.Fatalf("expected error validity, got %s", report.Validity)
	}
	if report.Errors["attributes"] != 1 {
		t.Fatalf("expected one attributes error, got %d", report.Errors["attributes"])
	}
}

func TestCheckHindrances(t *testing.T) {
	c := newCharacter()
	c.AddHindrance("loyal", true)
	c.AddHindrance("bad-eyes", false)
	c.AddHindrance("bad-eyes", true)
	c.SetLedger(character.Ledger{HindrancePoints: 5, HindrancePointsCap: 4, PerksSpent: 6})

	report := run(c)

	requireMessage(t, report, rules.SeverityError, "Loyal cannot be taken as a major hindrance")
	requireMessage(t, report, rules.SeverityError, "Bad Eyes can only be taken once")
	requireMessage(t, report, rules.SeverityWarning, "Hindrance points above 4 are not counted")
	m := requireMessage(t, report, rules.SeverityError, "You have spent 2 hindrance points more than you earned")
	if diff := cmp.Diff([]string{"hindrances", "perks"}, m.Segments()); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckEdgeConflictsWithHindrance(t *testing.T) {
	c := newCharacter()
	c.AddEdge("brave")
	c.AddHindrance("yellow", true)

	report := run(c)

	requireMessage(t, report, rules.SeverityError, "Brave cannot be taken with Yellow")
}

func TestCheckEdgeRankWaivedByBornAHero(t *testing.T) {
	c := newCharacter()
	c.AddEdge("brawler")

	report := run(c)
	requireMessage(t, report, rules.SeverityError, "Brawler requires Seasoned to take this edge")
	requireMessage(t, report, rules.SeverityError, "Brawler requires Fighting d8")

	report = run(c, catalog.FlagBornAHero)
	if _, ok := findMessage(report, rules.SeverityError, "Brawler requires Seasoned to take this edge"); ok {
		t.Fatal("expected rank requirement to be waived")
	}
	requireMessage(t, report, rules.SeverityError, "Brawler requires Fighting d8")
}

func TestCheckEdgeBudgetAndDuplicates(t *testing.T) {
	c := newCharacter()
	c.AddEdge("alertness")
	c.AddEdge("alertness")
	c.AddArcaneBackground("magic")
	c.AddEdge("power-points")
	c.AddEdge("power-points")
	c.SetLedger(character.Ledger{CreationEdges: 4, FreeEdges: 1})

	report := run(c)

	requireMessage(t, report, rules.SeverityError, "Alertness can only be taken once")
	if _, ok := findMessage(report, rules.SeverityError, "Power Points can only be taken once"); ok {
		t.Fatal("expected repeatable edge to be allowed twice")
	}
	requireMessage(t, report, rules.SeverityError, "You have taken 3 more edges than allowed")
}

func TestCheckArcane(t *testing.T) {
	c := newCharacter()
	c.AddArcaneBackground("magic")
	c.AddArcaneBackground("miracles")
	c.AddPower("blast", "miracles")
	c.AddPower("light", "")
	c.SetPowerBudget("magic", character.PowerBudget{Multiplier: 1, PowersAllowed: 3, PowersKnown: 4})

	report := run(c)

	requireMessage(t, report, rules.SeverityError, "Magic cannot be combined with Miracles")
	requireMessage(t, report, rules.SeverityError, "Miracles cannot be combined with Magic")
	requireMessage(t, report, rules.SeverityError, "Magic knows 4 powers but may only know 3")
	m := requireMessage(t, report, rules.SeverityError, "Blast is not available to Miracles")
	if m.Path != "powers/Miracles" {
		t.Fatalf("expected powers/Miracles path, got %q", m.Path)
	}
	requireMessage(t, report, rules.SeverityError, "Blast requires Seasoned")
	if m, ok := findMessage(report, rules.SeverityWarning, "Light is not tied to a selected arcane background"); ok {
		t.Fatalf("expected light to count against Magic, got %+v", m)
	}
}

func TestCheckArcaneUnboundPowerUsesFirstBackground(t *testing.T) {
	c := newCharacter()
	c.AddArcaneBackground("miracles")
	c.AddPower("light", "")

	report := run(c)

	m := requireMessage(t, report, rules.SeverityError, "Light is not available to Miracles")
	if m.Path != "powers/Miracles" {
		t.Fatalf("expected powers/Miracles path, got %q", m.Path)
	}
	if _, ok := findMessage(report, rules.SeverityWarning, "Light is not tied to a selected arcane background"); ok {
		t.Fatal("expected no untied warning while an arcane background is selected")
	}

	bare := newCharacter()
	bare.AddPower("light", "")
	requireMessage(t, run(bare), rules.SeverityWarning, "Light is not tied to a selected arcane background")
}

func TestCheckSuperPowerLimitAndBestThereIs(t *testing.T) {
	c := newCharacter()
	c.AddSuperPower("flight", 4, "")

	report := run(c, catalog.FlagSuperPowers)
	requireMessage(t, report, rules.SeverityError, "Flight costs 12 points, over the power limit of 10")

	c.EnableBestThereIs()
	report = run(c, catalog.FlagSuperPowers)
	if _, ok := findMessage(report, rules.SeverityError, "Flight costs 12 points, over the power limit of 10"); ok {
		t.Fatal("expected the best there is to allow one power over the limit")
	}
	requireMessage(t, report, rules.SeverityInformation, "Flight exceeds the power limit through The Best There Is")
}

func TestCheckSuperPowersDisabled(t *testing.T) {
	c := newCharacter()
	c.AddSuperPower("flight", 1, "")

	report := run(c)

	requireMessage(t, report, rules.SeverityWarning, "Super powers are not enabled in this setting")
}

func TestCheckPooledArmorAndToughness(t *testing.T) {
	c := newCharacter()
	c.AddSuperPower("armor", 3, "")
	c.AddSuperPower("toughness", 3, "")

	report := run(c, catalog.FlagSuperPowers)

	requireMessage(t, report, rules.SeverityError, "Armor and Toughness together cost 12 points, over the power limit of 10")
}

func TestCheckPowerSets(t *testing.T) {
	c := newCharacter()
	c.AddEdge("armor-set")
	c.AddSuperPower("armor", 3, "Armor Set")
	c.AddSuperPower("flight", 2, "Armor Set")
	c.AddSuperPower("flight", 1, "Ghost Set")

	report := run(c, catalog.FlagSuperPowers)

	m := requireMessage(t, report, rules.SeverityError, "Power set Armor Set spends 2 points more than it has")
	if m.Path != "super_powers/Armor Set" {
		t.Fatalf("expected set path, got %q", m.Path)
	}
	requireMessage(t, report, rules.SeverityWarning, "Power set Ghost Set has no edge granting its points")

	c.AddPowerSetPoints("Armor Set", 5)
	report = run(c, catalog.FlagSuperPowers)
	if _, ok := findMessage(report, rules.SeverityError, "Power set Armor Set spends 2 points more than it has"); ok {
		t.Fatal("expected directive points to extend the set budget")
	}
}

func TestCheckLegacySuperPowers(t *testing.T) {
	c := newCharacter()
	c.AddLegacySuperPower("flight", 4)

	report := run(c)
	requireMessage(t, report, rules.SeverityWarning, "Legacy super powers are not enabled in this setting")

	report = run(c, catalog.FlagSuperPowersLegacy)
	requireMessage(t, report, rules.SeverityError, "You have spent 2 legacy power points more than you have")
}

func TestCheckAdvances(t *testing.T) {
	c := newCharacter()
	c.AddAdvance(character.AdvanceAttribute, "strength")
	c.AddAdvance(character.AdvanceAttribute, "vigor")
	c.AddAdvance(character.AdvanceSkillsTwo, "notice")
	c.AddAdvance(character.AdvanceNewSkill, "athletics")
	c.AddAdvance(character.AdvanceHindrance, "loyal")
	c.AddAdvance(character.AdvanceSkillOne, "juggling")
	c.AddAdvance(character.AdvanceSkillOne, "fighting")
	c.MarkAdvanceUnapplied(6, "fighting")

	report := run(c)

	requireMessage(t, report, rules.SeverityError, "Advance 2: only one attribute advance is allowed per rank (Novice)")
	requireMessage(t, report, rules.SeverityError, "Advance 3: choose two skills")
	requireMessage(t, report, rules.SeverityError, "Advance 4: Athletics is already known")
	requireMessage(t, report, rules.SeverityError, "Advance 5: choose a hindrance you have")
	requireMessage(t, report, rules.SeverityError, `Advance 6: unknown skill "juggling"`)
	requireMessage(t, report, rules.SeverityError, "Advance 7: Fighting was not advanced")
}

func TestCheckStrain(t *testing.T) {
	tests := []struct {
		name     string
		strain   int
		severity rules.Severity
	}{
		{"within budget", 0, rules.SeverityNone},
		{"one over", -1, rules.SeverityWarning},
		{"two over", -2, rules.SeverityError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCharacter()
			c.SetStats(character.Stats{Strain: tt.strain, Funds: 500, Wealth: 500})

			report := run(c, catalog.FlagCyberware)

			if report.Validity != tt.severity {
				t.Fatalf("expected %s, got %s: %+v", tt.severity, report.Validity, report.Messages)
			}
		})
	}
}

func TestCheckRobotMods(t *testing.T) {
	c := newCharacter()
	c.AddItem(character.ItemRobotMod, "jets", 2)
	c.SetEquipment(character.Equipment{ModSlotsUsed: 6})
	c.SetStats(character.Stats{ModSlots: 4})

	report := run(c)
	requireMessage(t, report, rules.SeverityWarning, "Robots are not enabled in this setting")

	report = run(c, catalog.FlagRobots)
	requireMessage(t, report, rules.SeverityError, "Mods use 6 slots but only 4 are available")
}

func TestCheckWealthFormatsMoney(t *testing.T) {
	c := newCharacter()
	c.SetStats(character.Stats{Funds: 500, Wealth: -4500})

	report := run(c)

	m := requireMessage(t, report, rules.SeverityError, "You have spent $4,500 more than your funds")
	if m.Path != "gear" {
		t.Fatalf("expected gear path, got %q", m.Path)
	}
}

func TestCheckMinStrength(t *testing.T) {
	c := newCharacter()
	c.AddItem(character.ItemArmor, "plate", 1)
	c.AddItem(character.ItemWeapon, "great-axe", 1).Equipped = false

	report := run(c)

	requireMessage(t, report, rules.SeverityWarning, "Plate Corselet requires Strength d10")
	if _, ok := findMessage(report, rules.SeverityWarning, "Great Axe requires Strength d10"); ok {
		t.Fatal("expected unequipped weapon to be ignored")
	}
	if report.Warnings["gear"] != 1 || report.Warnings["armor"] != 1 {
		t.Fatalf("expected gear and armor warning counters, got %v", report.Warnings)
	}
}

func TestCheckEncumbrance(t *testing.T) {
	tests := []struct {
		name     string
		load     float64
		severity rules.Severity
	}{
		{"under limit", 20, rules.SeverityNone},
		{"encumbered", 30, rules.SeverityWarning},
		{"over hard cap", 85, rules.SeverityError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCharacter()
			c.SetEquipment(character.Equipment{Load: tt.load})
			c.SetStats(character.Stats{LoadLimit: 21, Funds: 500, Wealth: 500})

			report := run(c, catalog.FlagEncumbrance)

			if report.Validity != tt.severity {
				t.Fatalf("expected %s, got %s: %+v", tt.severity, report.Validity, report.Messages)
			}
		})
	}
}
