package character

import (
	"maps"
	"slices"
	"strings"

	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/selection"
)

// Directive mutations. These are the only ways directives change the sheet.

// BoostAttribute adds steps to an attribute's boost.
func (c *Aggregate) BoostAttribute(a rules.Attribute, steps int) bool {
	record := c.attributes[a]
	if record == nil {
		return false
	}
	record.boost += steps
	return true
}

// RaiseAttribute forces an attribute to at least die.
func (c *Aggregate) RaiseAttribute(a rules.Attribute, die int) bool {
	record := c.attributes[a]
	if record == nil {
		return false
	}
	if die > record.hardSet {
		record.hardSet = die
	}
	return true
}

// BoostSkill adds steps to a skill's boost.
func (c *Aggregate) BoostSkill(name string, steps int) bool {
	skill := c.Skill(name)
	if skill == nil {
		return false
	}
	skill.boost += steps
	return true
}

// EnsureSkill returns the named skill, adding a directive-owned record when
// it is missing. Directive-owned records without player points vanish on reset.
func (c *Aggregate) EnsureSkill(name string, attribute rules.Attribute) *Skill {
	if skill := c.Skill(name); skill != nil {
		return skill
	}
	skill := &Skill{ID: strings.ToLower(strings.TrimSpace(name)), Name: strings.TrimSpace(name), Attribute: attribute, added: true}
	c.skills = append(c.skills, skill)
	return skill
}

// RaiseSkill forces a skill to at least die.
func (c *Aggregate) RaiseSkill(name string, die int) bool {
	skill := c.Skill(name)
	if skill == nil {
		return false
	}
	if die > skill.minimum {
		skill.minimum = die
	}
	return true
}

// BoostSpecialty adds steps to a specialty, creating it when missing.
func (c *Aggregate) BoostSpecialty(skillName, specialty string, steps int) bool {
	skill := c.Skill(skillName)
	if skill == nil || strings.TrimSpace(specialty) == "" {
		return false
	}
	sp := skill.Specialty(specialty)
	if sp == nil {
		sp = &Specialty{Name: strings.TrimSpace(specialty), added: true}
		skill.Specialties = append(skill.Specialties, sp)
	}
	sp.boost += steps
	return true
}

// AddModifier adds to a derived statistic's modifier.
func (c *Aggregate) AddModifier(stat Stat, amount int) {
	c.derived.Modifiers[stat] += amount
}

// Modifier returns a derived statistic's modifier.
func (c *Aggregate) Modifier(stat Stat) int {
	return c.derived.Modifiers[stat]
}

// GrantPowerPoints permanently adds power points to an arcane background.
// An empty id targets the first arcane background.
func (c *Aggregate) GrantPowerPoints(arcaneBackground string, points int) {
	c.grantedPowerPoints[arcaneBackground] += points
}

// GrantedPowerPoints returns points granted to an arcane background.
func (c *Aggregate) GrantedPowerPoints(arcaneBackground string) int {
	return c.grantedPowerPoints[arcaneBackground]
}

// MultiplyPowerPoints scales an arcane background's power points for this run.
func (c *Aggregate) MultiplyPowerPoints(arcaneBackground string, factor int) {
	budget := c.derived.Powers[arcaneBackground]
	if budget.Multiplier == 0 {
		budget.Multiplier = 1
	}
	budget.Multiplier *= factor
	c.derived.Powers[arcaneBackground] = budget
}

// AddBonusPowers raises an arcane background's power count for this run.
func (c *Aggregate) AddBonusPowers(arcaneBackground string, count int) {
	budget := c.derived.Powers[arcaneBackground]
	budget.BonusPowers += count
	c.derived.Powers[arcaneBackground] = budget
}

// GrantPower permanently adds a power, once per power and source.
func (c *Aggregate) GrantPower(powerID, arcaneBackground, source string) *Power {
	for _, p := range c.grantedPowers {
		if p.CatalogID == powerID && p.GrantedBy == source {
			return p
		}
	}
	p := &Power{CatalogID: powerID, ArcaneBackground: arcaneBackground, Origin: OriginGranted, GrantedBy: source}
	c.grantedPowers = append(c.grantedPowers, p)
	return p
}

// GrantEdge permanently adds an edge on behalf of source.
func (c *Aggregate) GrantEdge(edgeID, source string) *Edge {
	edge := &Edge{CatalogID: edgeID, Selection: selection.New(edgeID), Origin: OriginGranted, GrantedBy: source}
	c.grantedEdges = append(c.grantedEdges, edge)
	return edge
}

// AddPowerSetPoints extends the budget of a named super-power set.
func (c *Aggregate) AddPowerSetPoints(powerSet string, points int) {
	c.derived.PowerSets[powerSet] += points
}

// EnableBestThereIs opens the single over-limit super power lane.
func (c *Aggregate) EnableBestThereIs() {
	c.derived.BestThereIs = true
}

// AddNaturalAttack adds an innate attack for this run.
func (c *Aggregate) AddNaturalAttack(name, damage string) {
	c.derived.Attacks = append(c.derived.Attacks, Attack{Name: name, Damage: damage, Natural: true})
}

// Phase mutations, called by the derivation pipeline.

// ResetDerived clears every derived field and sets the rank.
func (c *Aggregate) ResetDerived(rank rules.Rank) {
	for _, record := range c.attributes {
		record.reset()
	}
	kept := c.skills[:0]
	for _, skill := range c.skills {
		skill.reset()
		if skill.added && skill.Assigned == 0 && len(skill.Specialties) == 0 {
			continue
		}
		skill.added = false
		kept = append(kept, skill)
	}
	clear(c.skills[len(kept):])
	c.skills = kept
	c.derived = newDerived(rank)
}

// Rank returns the rank set by the last reset.
func (c *Aggregate) Rank() rules.Rank {
	return c.derived.Rank
}

// AdvanceAttribute adds one advance step to an attribute.
func (c *Aggregate) AdvanceAttribute(a rules.Attribute) bool {
	record := c.attributes[a]
	if record == nil {
		return false
	}
	record.advance++
	return true
}

// AdvanceSkill adds one advance step to a skill.
func (c *Aggregate) AdvanceSkill(name string) bool {
	skill := c.Skill(name)
	if skill == nil {
		return false
	}
	skill.advance++
	return true
}

// MarkAdvanceUnapplied records that target of the advance at index matched
// no trait.
func (c *Aggregate) MarkAdvanceUnapplied(index int, target string) {
	c.derived.Unapplied = append(c.derived.Unapplied, UnappliedAdvance{Index: index, Target: target})
}

// UnappliedTargets returns the targets of the advance at index that matched
// no trait in the last recompute.
func (c *Aggregate) UnappliedTargets(index int) []string {
	var out []string
	for _, u := range c.derived.Unapplied {
		if u.Index == index {
			out = append(out, u.Target)
		}
	}
	return out
}

// SetLedger stores the creation point accounting.
func (c *Aggregate) SetLedger(l Ledger) {
	c.derived.Ledger = l
}

// SetEquipment stores the equipment summary.
func (c *Aggregate) SetEquipment(e Equipment) {
	c.derived.Equipment = e
}

// SetStats stores the pure derived statistics.
func (c *Aggregate) SetStats(s Stats) {
	c.derived.Stats = s
}

// PowerBudget returns an arcane background's budget.
func (c *Aggregate) PowerBudget(arcaneBackground string) PowerBudget {
	return c.derived.Powers[arcaneBackground]
}

// SetPowerBudget stores an arcane background's budget.
func (c *Aggregate) SetPowerBudget(arcaneBackground string, b PowerBudget) {
	c.derived.Powers[arcaneBackground] = b
}

// SetValidity stores the highest validation severity.
func (c *Aggregate) SetValidity(s rules.Severity) {
	c.derived.Validity = s
}

// Validity returns the highest severity found by the last validation.
func (c *Aggregate) Validity() rules.Severity {
	return c.derived.Validity
}

// Derived returns a copy of the derived state.
func (c *Aggregate) Derived() Derived {
	return c.derived.clone()
}

// Attacks returns equipment attacks followed by directive attacks.
func (c *Aggregate) Attacks() []Attack {
	return append(slices.Clone(c.derived.Equipment.Attacks), c.derived.Attacks...)
}

// Snapshot copies all derived state into a comparable value.
func (c *Aggregate) Snapshot() Snapshot {
	s := Snapshot{
		Derived:     c.derived.clone(),
		Attributes:  make(map[rules.Attribute]TraitValue, len(c.attributes)),
		Skills:      make(map[string]TraitValue, len(c.skills)),
		Specialties: map[string]TraitValue{},
	}
	for a, r := range c.attributes {
		s.Attributes[a] = TraitValue{Assigned: r.Assigned, Boost: r.boost, Advance: r.advance, Current: r.Current()}
	}
	for _, skill := range c.skills {
		s.Skills[skill.Name] = TraitValue{Assigned: skill.Assigned, Boost: skill.boost, Advance: skill.advance, Current: skill.Current()}
		for _, sp := range skill.Specialties {
			s.Specialties[skill.Name+"/"+sp.Name] = TraitValue{Assigned: sp.Assigned, Boost: sp.boost, Current: sp.Current()}
		}
	}
	for _, e := range c.AllEdges() {
		s.Edges = append(s.Edges, string(e.Origin)+":"+e.CatalogID)
	}
	for _, p := range c.AllPowers() {
		s.Powers = append(s.Powers, string(p.Origin)+":"+p.CatalogID)
	}
	return s
}

// GrantedState reports the permanent immediate-directive effects, for
// diagnostics and tests.
func (c *Aggregate) GrantedState() (edges []string, powers []string, powerPoints map[string]int) {
	for _, e := range c.grantedEdges {
		edges = append(edges, e.CatalogID)
	}
	for _, p := range c.grantedPowers {
		powers = append(powers, p.CatalogID)
	}
	return edges, powers, maps.Clone(c.grantedPowerPoints)
}
