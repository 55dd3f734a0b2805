package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/louisbranch/savagesheet/internal/platform/config"
	apperrors "github.com/louisbranch/savagesheet/internal/platform/errors"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
)

// Flag toggles an optional rule module.
type Flag string

const (
	// FlagBornAHero lets starting characters ignore one rank requirement.
	FlagBornAHero                Flag = "born_a_hero"
	FlagSanity                   Flag = "sanity"
	FlagSuperPowers              Flag = "super_powers"
	FlagSuperPowersLegacy        Flag = "super_powers_legacy"
	FlagCyberware                Flag = "cyberware"
	FlagRobots                   Flag = "robots"
	FlagEncumbrance              Flag = "encumbrance"
	FlagWealth                   Flag = "wealth"
	FlagSuperStrengthLegacyTable Flag = "super_strength_legacy_table"
)

var knownFlags = []Flag{
	FlagBornAHero, FlagSanity, FlagSuperPowers, FlagSuperPowersLegacy, FlagCyberware,
	FlagRobots, FlagEncumbrance, FlagWealth, FlagSuperStrengthLegacyTable,
}

// Setting is the campaign configuration: rule flags and creation budgets.
type Setting struct {
	ID                       string     `yaml:"id"`
	Name                     string     `yaml:"name"`
	Flags                    []Flag     `yaml:"flags"`
	AttributePoints          int        `yaml:"attribute_points"`
	SkillPoints              int        `yaml:"skill_points"`
	MaxHindrancePoints       int        `yaml:"max_hindrance_points"`
	StartingFunds            int        `yaml:"starting_funds"`
	StartingRank             rules.Rank `yaml:"starting_rank"`
	PowerLevel               int        `yaml:"power_level"`
	PowerLimit               int        `yaml:"power_limit"`
	LegacyPowerPoints        int        `yaml:"legacy_power_points"`
	AllowedArcaneBackgrounds []string   `yaml:"allowed_arcane_backgrounds"`
	BannedArcaneBackgrounds  []string   `yaml:"banned_arcane_backgrounds"`
}

// DefaultSetting returns the core rules budget with no optional modules.
func DefaultSetting() Setting {
	return Setting{
		ID:                 "core",
		Name:               "Core Rules",
		AttributePoints:    5,
		SkillPoints:        12,
		MaxHindrancePoints: 4,
		StartingFunds:      500,
	}
}

// Has reports whether flag is enabled.
func (s Setting) Has(flag Flag) bool {
	return slices.Contains(s.Flags, flag)
}

// AllowsArcaneBackground reports whether the setting permits the background.
func (s Setting) AllowsArcaneBackground(id string) bool {
	if slices.Contains(s.BannedArcaneBackgrounds, id) {
		return false
	}
	if len(s.AllowedArcaneBackgrounds) == 0 {
		return true
	}
	return slices.Contains(s.AllowedArcaneBackgrounds, id)
}

// Validate checks flags and budgets.
func (s Setting) Validate() error {
	for _, flag := range s.Flags {
		if !slices.Contains(knownFlags, flag) {
			return apperrors.WithMetadata(apperrors.CodeSettingInvalid, fmt.Sprintf("unknown setting flag %q", flag), map[string]string{"Flag": string(flag)})
		}
	}
	if s.AttributePoints < 0 || s.SkillPoints < 0 || s.MaxHindrancePoints < 0 || s.StartingFunds < 0 {
		return apperrors.New(apperrors.CodeSettingInvalid, "setting budgets must not be negative")
	}
	return nil
}

// LoadSetting reads a YAML setting file. Omitted budgets keep the core defaults.
func LoadSetting(path string) (Setting, error) {
	setting := DefaultSetting()
	if strings.TrimSpace(path) == "" {
		return setting, nil
	}
	if err := config.LoadYAML(path, &setting); err != nil {
		return Setting{}, apperrors.Wrap(apperrors.CodeSettingInvalid, "load setting", err)
	}
	if err := setting.Validate(); err != nil {
		return Setting{}, err
	}
	return setting, nil
}

// DecodeSetting parses YAML setting bytes over the core defaults.
func DecodeSetting(data []byte) (Setting, error) {
	setting := DefaultSetting()
	if err := config.DecodeYAML(data, &setting); err != nil {
		return Setting{}, apperrors.Wrap(apperrors.CodeSettingInvalid, "decode setting", err)
	}
	if err := setting.Validate(); err != nil {
		return Setting{}, err
	}
	return setting, nil
}
