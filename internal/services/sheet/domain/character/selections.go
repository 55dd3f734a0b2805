package character

import (
	"fmt"

	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/selection"
)

// Origin says how an edge or power entered the sheet.
type Origin string

const (
	OriginPlayer  Origin = "player"
	OriginAdvance Origin = "advance"
	// OriginGranted entries come from add_edge or add_power directives and
	// are never exported; a fresh aggregate grants them again.
	OriginGranted Origin = "granted"
)

// Race is the selected race.
type Race struct {
	CatalogID string
	Selection *selection.Container
}

// Edge is a selected edge instance.
type Edge struct {
	CatalogID string
	Selection *selection.Container
	Origin    Origin
	GrantedBy string
}

// Hindrance is a selected hindrance instance.
type Hindrance struct {
	CatalogID string
	Major     bool
	Selection *selection.Container
}

// Points returns the hindrance points the hindrance pays.
func (h *Hindrance) Points() int {
	if h.Major {
		return 2
	}
	return 1
}

// Framework is the selected iconic framework with per-line containers.
type Framework struct {
	CatalogID     string
	Bonuses       selection.Lines
	Complications selection.Lines
}

// ArcaneBackground is a selected arcane background.
type ArcaneBackground struct {
	CatalogID string
	Selection *selection.Container
}

// Power is a known arcane power.
type Power struct {
	CatalogID        string
	ArcaneBackground string
	Trapping         string
	Origin           Origin
	GrantedBy        string
}

// SuperPower is a super power bought in levels, optionally inside a power set.
type SuperPower struct {
	CatalogID string
	Levels    int
	PowerSet  string
}

// ItemKind names an equipment category.
type ItemKind string

const (
	ItemArmor     ItemKind = "armor"
	ItemWeapon    ItemKind = "weapon"
	ItemGear      ItemKind = "gear"
	ItemCyberware ItemKind = "cyberware"
	ItemRobotMod  ItemKind = "robot_mod"
	ItemVehicle   ItemKind = "vehicle"
)

// ItemKinds lists equipment categories in export order.
var ItemKinds = []ItemKind{ItemArmor, ItemWeapon, ItemGear, ItemCyberware, ItemRobotMod, ItemVehicle}

// Item is a purchased piece of equipment.
type Item struct {
	CatalogID string
	Quantity  int
	Equipped  bool
	Selection *selection.Container
}

// Count returns the quantity, treating zero as one.
func (i *Item) Count() int {
	if i.Quantity <= 0 {
		return 1
	}
	return i.Quantity
}

// JourneyRoll is a rolled hero's journey table line.
type JourneyRoll struct {
	TableID   string
	Line      int
	Selection *selection.Container
}

// AdvanceKind names what an advance bought.
type AdvanceKind string

const (
	AdvanceEdge      AdvanceKind = "edge"
	AdvanceAttribute AdvanceKind = "attribute"
	AdvanceSkillOne  AdvanceKind = "skill_one"
	AdvanceSkillsTwo AdvanceKind = "skills_two"
	AdvanceNewSkill  AdvanceKind = "new_skill"
	AdvanceHindrance AdvanceKind = "hindrance"
)

// ParseAdvanceKind validates an advance kind.
func ParseAdvanceKind(value string) (AdvanceKind, error) {
	switch kind := AdvanceKind(value); kind {
	case AdvanceEdge, AdvanceAttribute, AdvanceSkillOne, AdvanceSkillsTwo, AdvanceNewSkill, AdvanceHindrance:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown advance kind %q", value)
	}
}

// Advance is one experience advance. Targets name attributes, skills or
// the hindrance being bought off, depending on Kind.
type Advance struct {
	Kind    AdvanceKind
	Targets []string
	Edge    *Edge
}

// Perk is a purchase paid for with hindrance points.
type Perk string

const (
	PerkAttribute Perk = "attribute"
	PerkEdge      Perk = "edge"
	PerkSkill     Perk = "skill"
	PerkWealth    Perk = "wealth"
)

// Cost returns the hindrance points the perk consumes.
func (p Perk) Cost() int {
	switch p {
	case PerkAttribute, PerkEdge:
		return 2
	case PerkSkill, PerkWealth:
		return 1
	default:
		return 0
	}
}

// ParsePerk validates a perk name.
func ParsePerk(value string) (Perk, error) {
	perk := Perk(value)
	if perk.Cost() == 0 {
		return "", fmt.Errorf("unknown perk %q", value)
	}
	return perk, nil
}
