package character

import (
	"maps"
	"slices"

	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
)

// Stat names a derived statistic that directives can modify.
type Stat string

const (
	StatPace             Stat = "pace"
	StatParry            Stat = "parry"
	StatToughness        Stat = "toughness"
	StatArmor            Stat = "armor"
	StatSanity           Stat = "sanity"
	StatWealth           Stat = "wealth"
	StatStrain           Stat = "strain"
	StatLoadLimit        Stat = "load_limit"
	StatSuperStrength    Stat = "super_strength"
	StatModSlots         Stat = "mod_slots"
	StatFreeEdges        Stat = "free_edges"
	StatHindrancePoints  Stat = "hindrance_points"
	StatSuperPowerPoints Stat = "super_power_points"
)

// Ledger is the creation point accounting.
type Ledger struct {
	AttributePoints int
	AttributesSpent int
	SkillPoints     int
	SkillsSpent     int

	HindrancePoints    int
	HindrancePointsCap int
	PerksSpent         int

	CreationEdges int
	FreeEdges     int
}

// AttributesRemaining may be negative; validation reports that.
func (l Ledger) AttributesRemaining() int {
	return l.AttributePoints - l.AttributesSpent
}

// SkillsRemaining may be negative; validation reports that.
func (l Ledger) SkillsRemaining() int {
	return l.SkillPoints - l.SkillsSpent
}

// PerksRemaining is hindrance points earned minus perks bought.
func (l Ledger) PerksRemaining() int {
	earned := l.HindrancePoints
	if l.HindrancePointsCap > 0 && earned > l.HindrancePointsCap {
		earned = l.HindrancePointsCap
	}
	return earned - l.PerksSpent
}

// Attack is a weapon or innate attack.
type Attack struct {
	Name        string
	Damage      string
	Natural     bool
	Parry       int
	MinStrength int
}

// Equipment summarizes purchased gear.
type Equipment struct {
	Cost         int
	Load         float64
	Armor        int
	ShieldParry  int
	WeaponParry  int
	StrainUsed   int
	ModSlotsUsed int
	Attacks      []Attack
}

// Stats are the pure derived statistics.
type Stats struct {
	Pace       int
	RunningDie int
	Parry      int
	Toughness  int
	Armor      int
	Sanity     int
	Funds      int
	Wealth     int
	StrainMax  int
	Strain     int
	LoadLimit  int
	ModSlots   int
}

// PowerBudget is the power point and power count budget of one arcane background.
type PowerBudget struct {
	PowerPoints   int
	Multiplier    int
	BonusPowers   int
	PowersAllowed int
	PowersKnown   int
}

// TotalPowerPoints applies the multiplier to the base points.
func (b PowerBudget) TotalPowerPoints() int {
	if b.Multiplier <= 0 {
		return b.PowerPoints
	}
	return b.PowerPoints * b.Multiplier
}

// Derived holds everything a recompute produces.
type Derived struct {
	Rank      rules.Rank
	Ledger    Ledger
	Modifiers map[Stat]int
	Equipment Equipment
	Stats     Stats

	// Powers is keyed by arcane background catalog id.
	Powers map[string]PowerBudget
	// PowerSets holds extra budget granted to named super-power sets.
	PowerSets   map[string]int
	BestThereIs bool
	Attacks     []Attack
	// Unapplied lists advance targets no trait matched.
	Unapplied []UnappliedAdvance

	Validity rules.Severity
}

// UnappliedAdvance is one advance target that matched no trait.
type UnappliedAdvance struct {
	Index  int
	Target string
}

func newDerived(rank rules.Rank) Derived {
	return Derived{
		Rank:      rank,
		Modifiers: map[Stat]int{},
		Powers:    map[string]PowerBudget{},
		PowerSets: map[string]int{},
	}
}

func (d Derived) clone() Derived {
	out := d
	out.Modifiers = maps.Clone(d.Modifiers)
	out.Powers = maps.Clone(d.Powers)
	out.PowerSets = maps.Clone(d.PowerSets)
	out.Attacks = append([]Attack(nil), d.Attacks...)
	out.Unapplied = slices.Clone(d.Unapplied)
	out.Equipment.Attacks = append([]Attack(nil), d.Equipment.Attacks...)
	return out
}

// TraitValue is a snapshot of one attribute or skill.
type TraitValue struct {
	Assigned int
	Boost    int
	Advance  int
	Current  int
}

// Snapshot is a comparable copy of all derived state.
type Snapshot struct {
	Derived     Derived
	Attributes  map[rules.Attribute]TraitValue
	Skills      map[string]TraitValue
	Specialties map[string]TraitValue
	Edges       []string
	Powers      []string
}
