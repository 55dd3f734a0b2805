// Package document converts characters to and from the versioned JSON
// document they are persisted as.
//
// Import is best effort: a selection that references an unknown catalog id
// is skipped and reported as an Issue, and the rest of the document still
// loads. Export is the structural inverse of Import.
package document

import "time"

// CurrentVersion is the document version Export writes.
const CurrentVersion = 2

// Document is the persisted form of a character.
type Document struct {
	Version     int       `json:"version"`
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Background  string    `json:"background,omitempty"`
	Description string    `json:"description,omitempty"`
	SettingID   string    `json:"setting_id,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`

	Attributes map[string]int `json:"attributes"`
	Skills     []SkillEntry   `json:"skills,omitempty"`

	Race              *Entry            `json:"race,omitempty"`
	Framework         *FrameworkEntry   `json:"framework,omitempty"`
	ArcaneBackgrounds []Entry           `json:"arcane_backgrounds,omitempty"`
	Edges             []Entry           `json:"edges,omitempty"`
	Hindrances        []HindranceEntry  `json:"hindrances,omitempty"`
	Powers            []PowerEntry      `json:"powers,omitempty"`
	SuperPowers       []SuperPowerEntry `json:"super_powers,omitempty"`
	LegacySuperPowers []SuperPowerEntry `json:"legacy_super_powers,omitempty"`

	Armor     []ItemEntry `json:"armor,omitempty"`
	Weapons   []ItemEntry `json:"weapons,omitempty"`
	Gear      []ItemEntry `json:"gear,omitempty"`
	Cyberware []ItemEntry `json:"cyberware,omitempty"`
	RobotMods []ItemEntry `json:"robot_mods,omitempty"`
	Vehicles  []ItemEntry `json:"vehicles,omitempty"`

	Journey  []JourneyEntry `json:"journey,omitempty"`
	Advances []AdvanceEntry `json:"advances,omitempty"`
	Perks    []string       `json:"perks,omitempty"`
}

// Selection is the persisted state of one selection container. Payload is
// the positional choice array, itself serialized as a JSON string.
type Selection struct {
	Payload   string            `json:"payload,omitempty"`
	Keyed     map[string]string `json:"keyed,omitempty"`
	SubChoice int               `json:"sub_choice,omitempty"`
	Specify   string            `json:"specify,omitempty"`
}

// Entry is a selected catalog item.
type Entry struct {
	CatalogID string     `json:"catalog_id"`
	Selection *Selection `json:"selection,omitempty"`
}

// SkillEntry holds the points a player assigned to one skill. Attribute is
// set only for skills outside the catalog.
type SkillEntry struct {
	Name        string           `json:"name"`
	Attribute   string           `json:"attribute,omitempty"`
	Assigned    int              `json:"assigned,omitempty"`
	Specialties []SpecialtyEntry `json:"specialties,omitempty"`
}

// SpecialtyEntry holds the points assigned to one knowledge specialty.
type SpecialtyEntry struct {
	Name     string `json:"name"`
	Assigned int    `json:"assigned"`
}

// FrameworkEntry is the selected framework with one selection per line.
type FrameworkEntry struct {
	CatalogID     string      `json:"catalog_id"`
	Bonuses       []LineEntry `json:"bonuses,omitempty"`
	Complications []LineEntry `json:"complications,omitempty"`
}

// LineEntry is the selection of one framework line.
type LineEntry struct {
	LineID    string     `json:"line_id"`
	Selection *Selection `json:"selection,omitempty"`
}

// HindranceEntry is a selected hindrance.
type HindranceEntry struct {
	CatalogID string     `json:"catalog_id"`
	Major     bool       `json:"major,omitempty"`
	Selection *Selection `json:"selection,omitempty"`
}

// PowerEntry is a known power.
type PowerEntry struct {
	CatalogID        string `json:"catalog_id"`
	ArcaneBackground string `json:"arcane_background,omitempty"`
	Trapping         string `json:"trapping,omitempty"`
}

// SuperPowerEntry is a super power bought in levels.
type SuperPowerEntry struct {
	CatalogID string `json:"catalog_id"`
	Levels    int    `json:"levels"`
	PowerSet  string `json:"power_set,omitempty"`
}

// ItemEntry is a purchased piece of equipment.
type ItemEntry struct {
	CatalogID string     `json:"catalog_id"`
	Quantity  int        `json:"quantity,omitempty"`
	Equipped  bool       `json:"equipped"`
	Selection *Selection `json:"selection,omitempty"`
}

// JourneyEntry is a rolled hero's journey table line.
type JourneyEntry struct {
	TableID   string     `json:"table_id"`
	Line      int        `json:"line"`
	Selection *Selection `json:"selection,omitempty"`
}

// AdvanceEntry is one advance. Edge is set for edge advances only.
type AdvanceEntry struct {
	Kind    string   `json:"kind"`
	Targets []string `json:"targets,omitempty"`
	Edge    *Entry   `json:"edge,omitempty"`
}
