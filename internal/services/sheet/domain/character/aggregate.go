// Package character defines the character aggregate: player choices plus
// everything a recompute derives from them.
//
// Player choices change through the Assign/Add/Set methods. Derived state
// changes only through the directive and phase methods in mutate.go, which
// the directive interpreter and the derivation pipeline call.
package character

import (
	"fmt"
	"slices"
	"strings"
	"time"

	apperrors "github.com/louisbranch/savagesheet/internal/platform/errors"
	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/selection"
)

// Aggregate is one character sheet.
type Aggregate struct {
	ID          string
	Name        string
	Background  string
	Description string
	SettingID   string
	UpdatedAt   time.Time

	attributes        map[rules.Attribute]*AttributeRecord
	skills            []*Skill
	race              *Race
	framework         *Framework
	edges             []*Edge
	hindrances        []*Hindrance
	arcane            []*ArcaneBackground
	powers            []*Power
	superPowers       []*SuperPower
	legacySuperPowers []*SuperPower
	items             map[ItemKind][]*Item
	journey           []*JourneyRoll
	advances          []*Advance
	perks             []Perk

	// Immediate directive effects survive resets for the aggregate's lifetime.
	grantedEdges       []*Edge
	grantedPowers      []*Power
	grantedPowerPoints map[string]int

	// Set when a choice was removed or replaced; its grants are stale.
	restructured bool

	derived Derived
}

// New returns an empty character with one record per catalog skill.
func New(skills []catalog.Skill) *Aggregate {
	c := &Aggregate{
		attributes:         make(map[rules.Attribute]*AttributeRecord, len(rules.Attributes)),
		items:              make(map[ItemKind][]*Item, len(ItemKinds)),
		grantedPowerPoints: map[string]int{},
		derived:            newDerived(rules.RankNovice),
	}
	for _, a := range rules.Attributes {
		c.attributes[a] = &AttributeRecord{}
	}
	for _, def := range skills {
		c.skills = append(c.skills, &Skill{
			ID:        def.ID,
			Name:      def.Name,
			Attribute: def.Attribute,
			Core:      def.Core,
			Knowledge: def.Knowledge,
		})
	}
	return c
}

func equalName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Attribute returns the record for a. Unknown attributes return nil.
func (c *Aggregate) Attribute(a rules.Attribute) *AttributeRecord {
	return c.attributes[a]
}

// AssignAttribute sets the player's points in a.
func (c *Aggregate) AssignAttribute(a rules.Attribute, points int) error {
	record := c.attributes[a]
	if record == nil {
		return fmt.Errorf("unknown attribute %q", a)
	}
	if points < 0 {
		return fmt.Errorf("attribute points must not be negative")
	}
	record.Assigned = points
	return nil
}

// Skills returns skill records in sheet order.
func (c *Aggregate) Skills() []*Skill {
	return c.skills
}

// Skill finds a skill by id or name, case-insensitively.
func (c *Aggregate) Skill(name string) *Skill {
	for _, s := range c.skills {
		if equalName(s.Name, name) || equalName(s.ID, name) {
			return s
		}
	}
	return nil
}

// AssignSkill sets the player's points in a skill.
func (c *Aggregate) AssignSkill(name string, points int) error {
	skill := c.Skill(name)
	if skill == nil {
		return apperrors.WithMetadata(apperrors.CodeCatalogItemNotFound, fmt.Sprintf("skill %q not found", name), map[string]string{"Skill": name})
	}
	if points < 0 {
		return fmt.Errorf("skill points must not be negative")
	}
	skill.Assigned = points
	return nil
}

// AddCustomSkill adds a player-defined skill outside the catalog.
func (c *Aggregate) AddCustomSkill(name string, attribute rules.Attribute) *Skill {
	if existing := c.Skill(name); existing != nil {
		return existing
	}
	skill := &Skill{ID: strings.ToLower(strings.TrimSpace(name)), Name: strings.TrimSpace(name), Attribute: attribute}
	c.skills = append(c.skills, skill)
	return skill
}

// AssignSpecialty sets the player's points in a knowledge specialty.
func (c *Aggregate) AssignSpecialty(skillName, specialty string, points int) error {
	skill := c.Skill(skillName)
	if skill == nil {
		return apperrors.WithMetadata(apperrors.CodeCatalogItemNotFound, fmt.Sprintf("skill %q not found", skillName), map[string]string{"Skill": skillName})
	}
	if !skill.Knowledge {
		return fmt.Errorf("skill %q does not take specialties", skill.Name)
	}
	if points < 0 {
		return fmt.Errorf("specialty points must not be negative")
	}
	if sp := skill.Specialty(specialty); sp != nil {
		sp.Assigned = points
		sp.added = false
		return nil
	}
	skill.Specialties = append(skill.Specialties, &Specialty{Name: strings.TrimSpace(specialty), Assigned: points})
	return nil
}

// Race returns the selected race, or nil.
func (c *Aggregate) Race() *Race {
	return c.race
}

// SetRace selects a race with a fresh selection container.
func (c *Aggregate) SetRace(catalogID string) *Race {
	c.restructured = c.restructured || c.race != nil
	c.race = &Race{CatalogID: catalogID, Selection: selection.New(catalogID)}
	return c.race
}

// Framework returns the selected framework, or nil.
func (c *Aggregate) Framework() *Framework {
	return c.framework
}

// SetFramework selects a framework with one container per bonus and
// complication line.
func (c *Aggregate) SetFramework(catalogID string, bonusLines, complicationLines []string) *Framework {
	c.restructured = c.restructured || c.framework != nil
	c.framework = &Framework{
		CatalogID:     catalogID,
		Bonuses:       selection.NewLines(bonusLines),
		Complications: selection.NewLines(complicationLines),
	}
	return c.framework
}

// RestoreFramework selects a framework with containers rebuilt from storage.
func (c *Aggregate) RestoreFramework(catalogID string, bonuses, complications selection.Lines) *Framework {
	c.framework = &Framework{CatalogID: catalogID, Bonuses: bonuses, Complications: complications}
	return c.framework
}

// ClearFramework removes the framework.
func (c *Aggregate) ClearFramework() {
	c.restructured = c.restructured || c.framework != nil
	c.framework = nil
}

// Edges returns the edges the player bought at creation.
func (c *Aggregate) Edges() []*Edge {
	return c.edges
}

// AllEdges returns player, advance and granted edges, in that order.
func (c *Aggregate) AllEdges() []*Edge {
	all := slices.Clone(c.edges)
	for _, adv := range c.advances {
		if adv.Edge != nil {
			all = append(all, adv.Edge)
		}
	}
	return append(all, c.grantedEdges...)
}

// HasEdge reports whether any edge instance has catalogID.
func (c *Aggregate) HasEdge(catalogID string) bool {
	return slices.ContainsFunc(c.AllEdges(), func(e *Edge) bool { return e.CatalogID == catalogID })
}

// AddEdge buys an edge at creation.
func (c *Aggregate) AddEdge(catalogID string) *Edge {
	edge := &Edge{CatalogID: catalogID, Selection: selection.New(catalogID), Origin: OriginPlayer}
	c.edges = append(c.edges, edge)
	return edge
}

// AttachEdge appends an edge restored from storage.
func (c *Aggregate) AttachEdge(edge *Edge) {
	edge.Origin = OriginPlayer
	c.edges = append(c.edges, edge)
}

// RemoveEdge removes the creation edge at index.
func (c *Aggregate) RemoveEdge(index int) error {
	if index < 0 || index >= len(c.edges) {
		return outOfRange("edge", index)
	}
	c.edges = slices.Delete(c.edges, index, index+1)
	c.restructured = true
	return nil
}

// Hindrances returns the selected hindrances.
func (c *Aggregate) Hindrances() []*Hindrance {
	return c.hindrances
}

// AddHindrance takes a hindrance at the given severity.
func (c *Aggregate) AddHindrance(catalogID string, major bool) *Hindrance {
	h := &Hindrance{CatalogID: catalogID, Major: major, Selection: selection.New(catalogID)}
	c.hindrances = append(c.hindrances, h)
	return h
}

// AttachHindrance appends a hindrance restored from storage.
func (c *Aggregate) AttachHindrance(h *Hindrance) {
	c.hindrances = append(c.hindrances, h)
}

// RemoveHindrance removes the hindrance at index.
func (c *Aggregate) RemoveHindrance(index int) error {
	if index < 0 || index >= len(c.hindrances) {
		return outOfRange("hindrance", index)
	}
	c.hindrances = slices.Delete(c.hindrances, index, index+1)
	c.restructured = true
	return nil
}

// ArcaneBackgrounds returns the selected arcane backgrounds.
func (c *Aggregate) ArcaneBackgrounds() []*ArcaneBackground {
	return c.arcane
}

// AddArcaneBackground selects an arcane background.
func (c *Aggregate) AddArcaneBackground(catalogID string) *ArcaneBackground {
	ab := &ArcaneBackground{CatalogID: catalogID, Selection: selection.New(catalogID)}
	c.arcane = append(c.arcane, ab)
	return ab
}

// AttachArcaneBackground appends an arcane background restored from storage.
func (c *Aggregate) AttachArcaneBackground(ab *ArcaneBackground) {
	c.arcane = append(c.arcane, ab)
}

// Powers returns the powers the player chose.
func (c *Aggregate) Powers() []*Power {
	return c.powers
}

// AllPowers returns chosen powers followed by granted ones.
func (c *Aggregate) AllPowers() []*Power {
	return append(slices.Clone(c.powers), c.grantedPowers...)
}

// AddPower learns a power through an arcane background.
func (c *Aggregate) AddPower(catalogID, arcaneBackground string) *Power {
	p := &Power{CatalogID: catalogID, ArcaneBackground: arcaneBackground, Origin: OriginPlayer}
	c.powers = append(c.powers, p)
	return p
}

// RemovePower forgets the chosen power at index.
func (c *Aggregate) RemovePower(index int) error {
	if index < 0 || index >= len(c.powers) {
		return outOfRange("power", index)
	}
	c.powers = slices.Delete(c.powers, index, index+1)
	c.restructured = true
	return nil
}

// SuperPowers returns super powers bought under the current rules.
func (c *Aggregate) SuperPowers() []*SuperPower {
	return c.superPowers
}

// AddSuperPower buys levels of a super power, optionally in a power set.
func (c *Aggregate) AddSuperPower(catalogID string, levels int, powerSet string) *SuperPower {
	sp := &SuperPower{CatalogID: catalogID, Levels: levels, PowerSet: powerSet}
	c.superPowers = append(c.superPowers, sp)
	return sp
}

// LegacySuperPowers returns super powers bought under the legacy rules.
func (c *Aggregate) LegacySuperPowers() []*SuperPower {
	return c.legacySuperPowers
}

// AddLegacySuperPower buys levels of a super power under the legacy rules.
func (c *Aggregate) AddLegacySuperPower(catalogID string, levels int) *SuperPower {
	sp := &SuperPower{CatalogID: catalogID, Levels: levels}
	c.legacySuperPowers = append(c.legacySuperPowers, sp)
	return sp
}

// Items returns the purchased items of a kind.
func (c *Aggregate) Items(kind ItemKind) []*Item {
	return c.items[kind]
}

// AddItem purchases quantity of an item.
func (c *Aggregate) AddItem(kind ItemKind, catalogID string, quantity int) *Item {
	item := &Item{CatalogID: catalogID, Quantity: quantity, Equipped: true, Selection: selection.New(catalogID)}
	c.items[kind] = append(c.items[kind], item)
	return item
}

// AttachItem appends an item restored from storage.
func (c *Aggregate) AttachItem(kind ItemKind, item *Item) {
	c.items[kind] = append(c.items[kind], item)
}

// RemoveItem removes the item of kind at index.
func (c *Aggregate) RemoveItem(kind ItemKind, index int) error {
	items := c.items[kind]
	if index < 0 || index >= len(items) {
		return outOfRange(string(kind), index)
	}
	c.items[kind] = slices.Delete(items, index, index+1)
	c.restructured = true
	return nil
}

// Journey returns the hero's journey rolls.
func (c *Aggregate) Journey() []*JourneyRoll {
	return c.journey
}

// AddJourneyRoll records a rolled table line; lineID keys its container.
func (c *Aggregate) AddJourneyRoll(tableID string, line int, lineID string) *JourneyRoll {
	roll := &JourneyRoll{TableID: tableID, Line: line, Selection: selection.New(lineID)}
	c.journey = append(c.journey, roll)
	return roll
}

// AttachJourneyRoll appends a roll restored from storage.
func (c *Aggregate) AttachJourneyRoll(roll *JourneyRoll) {
	c.journey = append(c.journey, roll)
}

// Advances returns advances in the order taken.
func (c *Aggregate) Advances() []*Advance {
	return c.advances
}

// AddAdvance takes an advance of a non-edge kind.
func (c *Aggregate) AddAdvance(kind AdvanceKind, targets ...string) *Advance {
	adv := &Advance{Kind: kind, Targets: targets}
	c.advances = append(c.advances, adv)
	return adv
}

// AddEdgeAdvance takes an advance that buys an edge.
func (c *Aggregate) AddEdgeAdvance(edgeID string) *Advance {
	return c.AttachEdgeAdvance(&Edge{CatalogID: edgeID, Selection: selection.New(edgeID)})
}

// AttachEdgeAdvance appends an edge advance restored from storage.
func (c *Aggregate) AttachEdgeAdvance(edge *Edge) *Advance {
	edge.Origin = OriginAdvance
	adv := &Advance{Kind: AdvanceEdge, Edge: edge}
	c.advances = append(c.advances, adv)
	return adv
}

// RemoveAdvance removes the advance at index. Later advances move up one
// slot, and the rank they count toward may drop.
func (c *Aggregate) RemoveAdvance(index int) error {
	if index < 0 || index >= len(c.advances) {
		return outOfRange("advance", index)
	}
	c.advances = slices.Delete(c.advances, index, index+1)
	c.restructured = true
	return nil
}

// Perks returns the perks bought with hindrance points.
func (c *Aggregate) Perks() []Perk {
	return c.perks
}

// AddPerk buys a perk.
func (c *Aggregate) AddPerk(perk Perk) {
	c.perks = append(c.perks, perk)
}

// Containers returns every selection container on the sheet.
func (c *Aggregate) Containers() []*selection.Container {
	var out []*selection.Container
	if c.race != nil {
		out = append(out, c.race.Selection)
	}
	if c.framework != nil {
		out = append(out, c.framework.Bonuses...)
		out = append(out, c.framework.Complications...)
	}
	for _, ab := range c.arcane {
		out = append(out, ab.Selection)
	}
	for _, e := range c.AllEdges() {
		out = append(out, e.Selection)
	}
	for _, h := range c.hindrances {
		out = append(out, h.Selection)
	}
	for _, kind := range ItemKinds {
		for _, item := range c.items[kind] {
			out = append(out, item.Selection)
		}
	}
	for _, roll := range c.journey {
		out = append(out, roll.Selection)
	}
	return out
}

// Modified reports whether a choice was removed or replaced, or any
// selection changed, since the last acknowledgement.
func (c *Aggregate) Modified() bool {
	return c.restructured || slices.ContainsFunc(c.Containers(), (*selection.Container).Modified)
}

// Acknowledge clears the modified flags.
func (c *Aggregate) Acknowledge() {
	c.restructured = false
	for _, s := range c.Containers() {
		s.Acknowledge()
	}
}

func outOfRange(kind string, index int) error {
	return apperrors.WithMetadata(
		apperrors.CodeNotFound,
		fmt.Sprintf("%s index %d out of range", kind, index),
		map[string]string{"Kind": kind},
	)
}
