package catalog

import "github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"

// Skill is a trait linked to an attribute. Core skills start at d4 for free.
type Skill struct {
	ID        string          `json:"id" yaml:"id"`
	Name      string          `json:"name" yaml:"name"`
	Attribute rules.Attribute `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Core      bool            `json:"core,omitempty" yaml:"core,omitempty"`
	// Knowledge skills take named specialties priced like skills.
	Knowledge bool `json:"knowledge,omitempty" yaml:"knowledge,omitempty"`
}

// Line is one bonus or complication of a framework, or one roll of a table.
type Line struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Rank       rules.Rank `json:"rank,omitempty" yaml:"rank,omitempty"`
	Directives []string   `json:"directives,omitempty" yaml:"directives,omitempty"`
	// Alternatives are nested directive sets selected by a sub-choice index.
	Alternatives [][]string `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
}

// Race is a playable ancestry.
type Race struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Directives     []string `json:"directives,omitempty" yaml:"directives,omitempty"`
	NaturalAttacks []string `json:"natural_attacks,omitempty" yaml:"natural_attacks,omitempty"`
	Robot          bool     `json:"robot,omitempty" yaml:"robot,omitempty"`
	ModSlots       int      `json:"mod_slots,omitempty" yaml:"mod_slots,omitempty"`
}

// Requirements lists what a character needs before taking an edge.
type Requirements struct {
	Edges            []string                `json:"edges,omitempty" yaml:"edges,omitempty"`
	Attributes       map[rules.Attribute]int `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Skills           map[string]int          `json:"skills,omitempty" yaml:"skills,omitempty"`
	ArcaneBackground bool                    `json:"arcane_background,omitempty" yaml:"arcane_background,omitempty"`
}

// Edge is a purchasable special ability.
type Edge struct {
	ID         string       `json:"id" yaml:"id"`
	Name       string       `json:"name" yaml:"name"`
	Rank       rules.Rank   `json:"rank,omitempty" yaml:"rank,omitempty"`
	Requires   Requirements `json:"requires,omitempty" yaml:"requires,omitempty"`
	Conflicts  []string     `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	Multiple   bool         `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	Directives []string     `json:"directives,omitempty" yaml:"directives,omitempty"`
	// PowerSet names the super-power set this edge budgets, if any.
	PowerSet    string `json:"power_set,omitempty" yaml:"power_set,omitempty"`
	PowerPoints int    `json:"power_points,omitempty" yaml:"power_points,omitempty"`
}

// HindranceSeverity says whether a hindrance is taken as minor, major or either.
type HindranceSeverity string

const (
	HindranceMinor  HindranceSeverity = "minor"
	HindranceMajor  HindranceSeverity = "major"
	HindranceEither HindranceSeverity = "either"
)

// Hindrance is a flaw that pays hindrance points.
type Hindrance struct {
	ID         string            `json:"id" yaml:"id"`
	Name       string            `json:"name" yaml:"name"`
	Severity   HindranceSeverity `json:"severity,omitempty" yaml:"severity,omitempty"`
	Conflicts  []string          `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	Directives []string          `json:"directives,omitempty" yaml:"directives,omitempty"`
}

// Allows reports whether the hindrance may be taken at the given severity.
func (h Hindrance) Allows(major bool) bool {
	switch h.Severity {
	case HindranceMinor:
		return !major
	case HindranceMajor:
		return major
	default:
		return true
	}
}

// Framework is an iconic framework with bonus and complication lines.
type Framework struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Bonuses        []Line   `json:"bonuses,omitempty" yaml:"bonuses,omitempty"`
	Complications  []Line   `json:"complications,omitempty" yaml:"complications,omitempty"`
	NaturalAttacks []string `json:"natural_attacks,omitempty" yaml:"natural_attacks,omitempty"`
}

// ArcaneBackground grants access to powers through an arcane skill.
type ArcaneBackground struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Skill          string `json:"skill,omitempty" yaml:"skill,omitempty"`
	PowerPoints    int    `json:"power_points,omitempty" yaml:"power_points,omitempty"`
	StartingPowers int    `json:"starting_powers,omitempty" yaml:"starting_powers,omitempty"`
	// Powers restricts the powers available; empty allows all.
	Powers     []string `json:"powers,omitempty" yaml:"powers,omitempty"`
	Banned     []string `json:"banned,omitempty" yaml:"banned,omitempty"`
	Directives []string `json:"directives,omitempty" yaml:"directives,omitempty"`
}

// AllowsPower reports whether powerID is on the background's list.
func (a ArcaneBackground) AllowsPower(powerID string) bool {
	if len(a.Powers) == 0 {
		return true
	}
	for _, id := range a.Powers {
		if id == powerID {
			return true
		}
	}
	return false
}

// Power is an arcane power.
type Power struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Rank        rules.Rank `json:"rank,omitempty" yaml:"rank,omitempty"`
	PowerPoints int        `json:"power_points,omitempty" yaml:"power_points,omitempty"`
}

// Super power pools with a shared sub-limit.
const (
	PoolNone      = ""
	PoolArmor     = "armor"
	PoolToughness = "toughness"
)

// SuperPower is a super power bought in levels.
type SuperPower struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Cost     int    `json:"cost,omitempty" yaml:"cost,omitempty"`
	MaxLevel int    `json:"max_level,omitempty" yaml:"max_level,omitempty"`
	Pool     string `json:"pool,omitempty" yaml:"pool,omitempty"`
}

// Table is a hero's journey table.
type Table struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Lines []Line `json:"lines,omitempty" yaml:"lines,omitempty"`
}

// Armor is worn protection or a shield.
type Armor struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Cost        int     `json:"cost,omitempty" yaml:"cost,omitempty"`
	Weight      float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
	Armor       int     `json:"armor,omitempty" yaml:"armor,omitempty"`
	MinStrength int     `json:"min_strength,omitempty" yaml:"min_strength,omitempty"`
	Shield      bool    `json:"shield,omitempty" yaml:"shield,omitempty"`
	Parry       int     `json:"parry,omitempty" yaml:"parry,omitempty"`
}

// Weapon is a purchasable weapon.
type Weapon struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Cost        int     `json:"cost,omitempty" yaml:"cost,omitempty"`
	Weight      float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
	Damage      string  `json:"damage,omitempty" yaml:"damage,omitempty"`
	MinStrength int     `json:"min_strength,omitempty" yaml:"min_strength,omitempty"`
	Parry       int     `json:"parry,omitempty" yaml:"parry,omitempty"`
}

// Gear is mundane equipment.
type Gear struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Cost   int     `json:"cost,omitempty" yaml:"cost,omitempty"`
	Weight float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Cyberware is implanted augmentation paid for in strain.
type Cyberware struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Cost       int      `json:"cost,omitempty" yaml:"cost,omitempty"`
	Strain     int      `json:"strain,omitempty" yaml:"strain,omitempty"`
	Directives []string `json:"directives,omitempty" yaml:"directives,omitempty"`
}

// RobotMod is a modification installed in a robot's mod slots.
type RobotMod struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Cost       int      `json:"cost,omitempty" yaml:"cost,omitempty"`
	Slots      int      `json:"slots,omitempty" yaml:"slots,omitempty"`
	Directives []string `json:"directives,omitempty" yaml:"directives,omitempty"`
}

// Vehicle is a purchasable vehicle.
type Vehicle struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Cost int    `json:"cost,omitempty" yaml:"cost,omitempty"`
}

func (s Skill) ItemID() string            { return s.ID }
func (r Race) ItemID() string             { return r.ID }
func (e Edge) ItemID() string             { return e.ID }
func (h Hindrance) ItemID() string        { return h.ID }
func (f Framework) ItemID() string        { return f.ID }
func (a ArcaneBackground) ItemID() string { return a.ID }
func (p Power) ItemID() string            { return p.ID }
func (s SuperPower) ItemID() string       { return s.ID }
func (t Table) ItemID() string            { return t.ID }
func (a Armor) ItemID() string            { return a.ID }
func (w Weapon) ItemID() string           { return w.ID }
func (g Gear) ItemID() string             { return g.ID }
func (c Cyberware) ItemID() string        { return c.ID }
func (r RobotMod) ItemID() string         { return r.ID }
func (v Vehicle) ItemID() string          { return v.ID }
