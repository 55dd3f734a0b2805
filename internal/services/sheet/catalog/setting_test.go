package catalog

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/louisbranch/savagesheet/internal/platform/errors"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
)

func TestDecodeSettingKeepsDefaults(t *testing.T) {
	setting, err := DecodeSetting([]byte(`
id: necessary-evil
name: Necessary Evil
flags: [super_powers, born_a_hero]
starting_rank: seasoned
power_level: 15
power_limit: 10
`))
	if err != nil {
		t.Fatalf("decode setting: %v", err)
	}
	if setting.AttributePoints != 5 || setting.SkillPoints != 12 || setting.StartingFunds != 500 {
		t.Fatalf("expected default budgets, got %+v", setting)
	}
	if setting.StartingRank != rules.RankSeasoned {
		t.Fatalf("expected seasoned, got %s", setting.StartingRank)
	}
	if !setting.Has(FlagSuperPowers) || !setting.Has(FlagBornAHero) || setting.Has(FlagSanity) {
		t.Fatalf("unexpected flags %v", setting.Flags)
	}
	if setting.PowerLevel != 15 || setting.PowerLimit != 10 {
		t.Fatalf("unexpected power budget %d/%d", setting.PowerLevel, setting.PowerLimit)
	}
}

func TestDecodeSettingRejectsUnknownFlag(t *testing.T) {
	_, err := DecodeSetting([]byte("flags: [jetpacks]\n"))
	if err == nil {
		t.Fatal("expected unknown flag error")
	}
	if apperrors.CodeOf(err) != apperrors.CodeSettingInvalid {
		t.Fatalf("expected setting invalid, got %s", apperrors.CodeOf(err))
	}
}

func TestDecodeSettingRejectsUnknownField(t *testing.T) {
	if _, err := DecodeSetting([]byte("skil_points: 10\n")); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestLoadSetting(t *testing.T) {
	setting, err := LoadSetting("")
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if setting.ID != "core" {
		t.Fatalf("expected core setting, got %q", setting.ID)
	}

	path := filepath.Join(t.TempDir(), "setting.yaml")
	if err := os.WriteFile(path, []byte("skill_points: 15\nbanned_arcane_backgrounds: [weird-science]\n"), 0o644); err != nil {
		t.Fatalf("write setting: %v", err)
	}
	setting, err = LoadSetting(path)
	if err != nil {
		t.Fatalf("load setting: %v", err)
	}
	if setting.SkillPoints != 15 {
		t.Fatalf("expected 15 skill points, got %d", setting.SkillPoints)
	}
	if setting.AllowsArcaneBackground("weird-science") || !setting.AllowsArcaneBackground("magic") {
		t.Fatal("unexpected arcane background permissions")
	}

	if _, err := LoadSetting(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected missing file error")
	}
}

func TestAllowsArcaneBackgroundAllowList(t *testing.T) {
	setting := Setting{AllowedArcaneBackgrounds: []string{"miracles"}}
	if !setting.AllowsArcaneBackground("miracles") || setting.AllowsArcaneBackground("magic") {
		t.Fatal("expected allow list to restrict backgrounds")
	}
}
