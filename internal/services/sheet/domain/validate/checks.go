package validate

import (
	"fmt"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/character"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
)

const (
	pathAttributes  = "attributes"
	pathSkills      = "skills"
	pathPowers      = "powers"
	pathHindrances  = "hindrances"
	pathPerks       = "hindrances/perks"
	pathSuperPowers = "super_powers"
	pathEdges       = "edges"
	pathAdvances    = "advances"
	pathGear        = "gear"
	pathArmor       = "gear/armor"
	pathWeapons     = "gear/weapons"
	pathCyberware   = "gear/cyberware"
	pathRobotMods   = "gear/robot_mods"
)

var money = message.NewPrinter(language.AmericanEnglish)

func checkLedgers(acc *Accumulator, in Input) {
	ledger := in.Character.Derived().Ledger
	switch remaining := ledger.AttributesRemaining(); {
	case remaining < 0:
		acc.Errorf(pathAttributes, "You have spent %d attribute points more than you have", -remaining)
	case remaining > 0:
		acc.Infof(pathAttributes, "You have %d attribute points left", remaining)
	}
	switch remaining := ledger.SkillsRemaining(); {
	case remaining < 0:
		acc.Errorf(pathSkills, "You have spent %d skill points more than you have", -remaining)
	case remaining > 0:
		acc.Infof(pathSkills, "You have %d skill points left", remaining)
	}
}

func checkArcane(acc *Accumulator, in Input) {
	c := in.Character
	selected := make([]string, 0, len(c.ArcaneBackgrounds()))
	for _, ab := range c.ArcaneBackgrounds() {
		selected = append(selected, ab.CatalogID)
	}

	for _, ab := range c.ArcaneBackgrounds() {
		def, ok := in.Catalog.ArcaneBackgrounds.Get(ab.CatalogID)
		if !ok {
			acc.Errorf(pathPowers, "Unknown arcane background %q", ab.CatalogID)
			continue
		}
		path := pathPowers + PathSeparator + def.Name
		if !in.Setting.AllowsArcaneBackground(def.ID) {
			acc.Errorf(path, "%s is not allowed in this setting", def.Name)
		}
		for _, banned := range def.Banned {
			if banned != def.ID && slices.Contains(selected, banned) {
				acc.Errorf(path, "%s cannot be combined with %s", def.Name, arcaneName(in.Catalog, banned))
			}
		}

		budget := c.PowerBudget(def.ID)
		switch {
		case budget.PowersKnown > budget.PowersAllowed:
			acc.Errorf(path, "%s knows %d powers but may only know %d", def.Name, budget.PowersKnown, budget.PowersAllowed)
		case budget.PowersKnown < budget.PowersAllowed:
			acc.Infof(path, "%s may learn %d more powers", def.Name, budget.PowersAllowed-budget.PowersKnown)
		}
		if budget.TotalPowerPoints() < 0 {
			acc.Errorf(path, "%s has negative power points", def.Name)
		}
	}

	for _, p := range c.AllPowers() {
		def, ok := in.Catalog.Powers.Get(p.CatalogID)
		if !ok {
			acc.Errorf(pathPowers, "Unknown power %q", p.CatalogID)
			continue
		}
		if p.Origin == character.OriginGranted {
			continue
		}
		abID := p.ArcaneBackground
		if abID == "" && len(selected) > 0 {
			abID = selected[0]
		}
		ab, ok := in.Catalog.ArcaneBackgrounds.Get(abID)
		if !ok || !slices.Contains(selected, ab.ID) {
			acc.Warnf(pathPowers, "%s is not tied to a selected arcane background", def.Name)
			continue
		}
		path := pathPowers + PathSeparator + ab.Name
		if !ab.AllowsPower(def.ID) {
			acc.Errorf(path, "%s is not available to %s", def.Name, ab.Name)
		}
		if !c.Rank().Allows(def.Rank) {
			acc.Errorf(path, "%s requires %s", def.Name, def.Rank.Title())
		}
	}

	if !in.Setting.Has(catalog.FlagSuperPowers) {
		if len(c.SuperPowers()) > 0 {
			acc.Warnf(pathSuperPowers, "Super powers are not enabled in this setting")
		}
		return
	}
	spent := 0
	for _, sp := range c.SuperPowers() {
		def, ok := in.Catalog.SuperPowers.Get(sp.CatalogID)
		if !ok {
			acc.Errorf(pathSuperPowers, "Unknown super power %q", sp.CatalogID)
			continue
		}
		cost := def.Cost * sp.Levels
		spent += cost
		if def.MaxLevel > 0 && sp.Levels > def.MaxLevel {
			acc.Errorf(pathSuperPowers, "%s cannot exceed level %d", def.Name, def.MaxLevel)
		}
		if in.Setting.PowerLimit > 0 && cost > in.Setting.PowerLimit {
			if acc.UseBestThereIs() {
				acc.Infof(pathSuperPowers, "%s exceeds the power limit through The Best There Is", def.Name)
			} else {
				acc.Errorf(pathSuperPowers, "%s costs %d points, over the power limit of %d", def.Name, cost, in.Setting.PowerLimit)
			}
		}
	}
	budget := in.Setting.PowerLevel + c.Modifier(character.StatSuperPowerPoints)
	if spent > budget {
		acc.Errorf(pathSuperPowers, "You have spent %d super power points more than you have", spent-budget)
	}
}

func checkHindrances(acc *Accumulator, in Input) {
	c := in.Character
	seen := map[string]bool{}
	for _, h := range c.Hindrances() {
		def, ok := in.Catalog.Hindrances.Get(h.CatalogID)
		if !ok {
			acc.Errorf(pathHindrances, "Unknown hindrance %q", h.CatalogID)
			continue
		}
		if seen[def.ID] {
			acc.Errorf(pathHindrances, "%s can only be taken once", def.Name)
		}
		seen[def.ID] = true
		if !def.Allows(h.Major) {
			acc.Errorf(pathHindrances, "%s cannot be taken as a %s hindrance", def.Name, severityWord(h.Major))
		}
		for _, other := range c.Hindrances() {
			if other != h && slices.Contains(def.Conflicts, other.CatalogID) {
				acc.Errorf(pathHindrances, "%s conflicts with %s", def.Name, hindranceName(in.Catalog, other.CatalogID))
			}
		}
	}

	ledger := c.Derived().Ledger
	if ledger.HindrancePointsCap > 0 && ledger.HindrancePoints > ledger.HindrancePointsCap {
		acc.Warnf(pathHindrances, "Hindrance points above %d are not counted", ledger.HindrancePointsCap)
	}
	switch remaining := ledger.PerksRemaining(); {
	case remaining < 0:
		acc.Errorf(pathPerks, "You have spent %d hindrance points more than you earned", -remaining)
	case remaining > 0:
		acc.Infof(pathPerks, "You have %d hindrance points to spend", remaining)
	}
}

func checkLegacySuperPowers(acc *Accumulator, in Input) {
	c := in.Character
	if len(c.LegacySuperPowers()) == 0 {
		return
	}
	if !in.Setting.Has(catalog.FlagSuperPowersLegacy) {
		acc.Warnf(pathSuperPowers, "Legacy super powers are not enabled in this setting")
		return
	}
	spent := 0
	for _, sp := range c.LegacySuperPowers() {
		def, ok := in.Catalog.SuperPowers.Get(sp.CatalogID)
		if !ok {
			acc.Errorf(pathSuperPowers, "Unknown super power %q", sp.CatalogID)
			continue
		}
		spent += def.Cost * sp.Levels
	}
	budget := in.Setting.LegacyPowerPoints + c.Modifier(character.StatSuperPowerPoints)
	if spent > budget {
		acc.Errorf(pathSuperPowers, "You have spent %d legacy power points more than you have", spent-budget)
	}
}

func checkEdges(acc *Accumulator, in Input) {
	c := in.Character
	counts := map[string]int{}
	var taken []string
	powerSets := map[string]int{}
	for setName, points := range c.Derived().PowerSets {
		powerSets[setName] += points
	}

	for _, e := range c.AllEdges() {
		def, ok := in.Catalog.Edges.Get(e.CatalogID)
		if !ok {
			acc.Errorf(pathEdges, "Unknown edge %q", e.CatalogID)
			continue
		}
		if counts[def.ID] == 0 {
			taken = append(taken, def.ID)
		}
		counts[def.ID]++
		if def.PowerSet != "" {
			powerSets[def.PowerSet] += def.PowerPoints
		}
		if e.Origin == character.OriginGranted {
			continue
		}
		if !c.Rank().Allows(def.Rank) {
			acc.RankRequirement(pathEdges, def.Name, def.Rank)
		}
		checkRequirements(acc, in, def)
		for _, conflict := range def.Conflicts {
			if c.HasEdge(conflict) || hasHindrance(c, conflict) {
				acc.Errorf(pathEdges, "%s cannot be taken with %s", def.Name, conflictName(in.Catalog, conflict))
			}
		}
	}
	for _, id := range taken {
		def, _ := in.Catalog.Edges.Get(id)
		if counts[id] > 1 && !def.Multiple {
			acc.Errorf(pathEdges, "%s can only be taken once", def.Name)
		}
	}

	ledger := c.Derived().Ledger
	switch extra := ledger.CreationEdges - ledger.FreeEdges; {
	case extra > 0:
		acc.Errorf(pathEdges, "You have taken %d more edges than allowed", extra)
	case extra < 0:
		acc.Infof(pathEdges, "You may take %d more edges", -extra)
	}

	checkPowerSets(acc, in, powerSets)
}

func checkRequirements(acc *Accumulator, in Input, def catalog.Edge) {
	c := in.Character
	for _, required := range def.Requires.Edges {
		if !c.HasEdge(required) {
			acc.Errorf(pathEdges, "%s requires %s", def.Name, edgeName(in.Catalog, required))
		}
	}
	for _, a := range rules.Attributes {
		die, ok := def.Requires.Attributes[a]
		if !ok {
			continue
		}
		if c.Attribute(a).Current() < die {
			acc.Errorf(pathEdges, "%s requires %s %s", def.Name, a.Title(), rules.DieLabel(die))
		}
	}
	skills := make([]string, 0, len(def.Requires.Skills))
	for name := range def.Requires.Skills {
		skills = append(skills, name)
	}
	slices.Sort(skills)
	for _, name := range skills {
		die := def.Requires.Skills[name]
		skill := c.Skill(name)
		if skill == nil || skill.Current() < die {
			acc.Errorf(pathEdges, "%s requires %s %s", def.Name, skillTitle(in.Catalog, name), rules.DieLabel(die))
		}
	}
	if def.Requires.ArcaneBackground && len(c.ArcaneBackgrounds()) == 0 {
		acc.Errorf(pathEdges, "%s requires an arcane background", def.Name)
	}
}

// checkPowerSets enforces edge-granted power set budgets and the pooled
// Armor plus Toughness limit, globally and per set.
func checkPowerSets(acc *Accumulator, in Input, budgets map[string]int) {
	c := in.Character
	spent := map[string]int{}
	pooled := map[string]int{}
	pooledTotal := 0
	var order []string
	for _, sp := range c.SuperPowers() {
		def, ok := in.Catalog.SuperPowers.Get(sp.CatalogID)
		if !ok {
			continue
		}
		cost := def.Cost * sp.Levels
		if sp.PowerSet != "" {
			if _, seen := spent[sp.PowerSet]; !seen {
				order = append(order, sp.PowerSet)
			}
			spent[sp.PowerSet] += cost
		}
		if def.Pool == catalog.PoolArmor || def.Pool == catalog.PoolToughness {
			pooledTotal += cost
			if sp.PowerSet != "" {
				pooled[sp.PowerSet] += cost
			}
		}
	}

	limit := in.Setting.PowerLimit
	if limit > 0 && pooledTotal > limit {
		acc.Errorf(pathSuperPowers, "Armor and Toughness together cost %d points, over the power limit of %d", pooledTotal, limit)
	}
	for _, set := range order {
		path := pathSuperPowers + PathSeparator + set
		budget, ok := budgets[set]
		if !ok {
			acc.Warnf(path, "Power set %s has no edge granting its points", set)
		} else if spent[set] > budget {
			acc.Errorf(path, "Power set %s spends %d points more than it has", set, spent[set]-budget)
		}
		if limit > 0 && pooled[set] > limit {
			acc.Errorf(path, "Armor and Toughness in %s cost %d points, over the power limit of %d", set, pooled[set], limit)
		}
	}
}

func checkAdvances(acc *Accumulator, in Input) {
	c := in.Character
	attributeRanks := map[rules.Rank]bool{}
	for i, adv := range c.Advances() {
		rank := rules.RankForAdvances(i)
		label := fmt.Sprintf("Advance %d", i+1)
		switch adv.Kind {
		case character.AdvanceAttribute:
			if attributeRanks[rank] {
				acc.Errorf(pathAdvances, "%s: only one attribute advance is allowed per rank (%s)", label, rank.Title())
			}
			attributeRanks[rank] = true
			if len(adv.Targets) != 1 {
				acc.Errorf(pathAdvances, "%s: choose one attribute", label)
				continue
			}
			if _, err := rules.ParseAttribute(adv.Targets[0]); err != nil {
				acc.Errorf(pathAdvances, "%s: unknown attribute %q", label, adv.Targets[0])
			}
		case character.AdvanceSkillOne:
			if len(adv.Targets) != 1 {
				acc.Errorf(pathAdvances, "%s: choose one skill", label)
				continue
			}
			if skill := advanceSkill(acc, c, i, label, adv.Targets[0]); skill != nil && skillBelowAttribute(c, skill) {
				acc.Warnf(pathAdvances, "%s: %s is below its attribute; raise two skills instead", label, skill.Name)
			}
		case character.AdvanceSkillsTwo:
			if len(adv.Targets) != 2 {
				acc.Errorf(pathAdvances, "%s: choose two skills", label)
				continue
			}
			for _, target := range adv.Targets {
				if skill := advanceSkill(acc, c, i, label, target); skill != nil && !skillBelowAttribute(c, skill) {
					acc.Warnf(pathAdvances, "%s: %s is not below its attribute", label, skill.Name)
				}
			}
		case character.AdvanceNewSkill:
			if len(adv.Targets) != 1 {
				acc.Errorf(pathAdvances, "%s: choose one skill", label)
				continue
			}
			if skill := advanceSkill(acc, c, i, label, adv.Targets[0]); skill != nil && (skill.Core || skill.Assigned > 0) {
				acc.Errorf(pathAdvances, "%s: %s is already known", label, skill.Name)
			}
		case character.AdvanceHindrance:
			if len(adv.Targets) != 1 || !hasHindrance(c, adv.Targets[0]) {
				acc.Errorf(pathAdvances, "%s: choose a hindrance you have", label)
			}
		case character.AdvanceEdge:
			if adv.Edge == nil {
				acc.Errorf(pathAdvances, "%s: choose an edge", label)
			}
		}
	}
}

func advanceSkill(acc *Accumulator, c *character.Aggregate, index int, label, name string) *character.Skill {
	skill := c.Skill(name)
	switch {
	case skill == nil:
		acc.Errorf(pathAdvances, "%s: unknown skill %q", label, name)
	case slices.Contains(c.UnappliedTargets(index), name):
		acc.Errorf(pathAdvances, "%s: %s was not advanced", label, skill.Name)
	}
	return skill
}

// skillBelowAttribute compares the skill without advances to its attribute.
func skillBelowAttribute(c *character.Aggregate, skill *character.Skill) bool {
	attribute := c.Attribute(skill.Attribute)
	if attribute == nil {
		return false
	}
	return skill.Current()-skill.Advance() < attribute.Current()
}

func checkStrain(acc *Accumulator, in Input) {
	if !in.Setting.Has(catalog.FlagCyberware) {
		if len(in.Character.Items(character.ItemCyberware)) > 0 {
			acc.Warnf(pathCyberware, "Cyberware is not enabled in this setting")
		}
		return
	}
	strain := in.Character.Derived().Stats.Strain
	switch {
	case strain <= -2:
		acc.Errorf(pathCyberware, "Strain is %d; cyberware exceeds what the body can bear", strain)
	case strain == -1:
		acc.Warnf(pathCyberware, "Strain is %d", strain)
	}
}

func checkRobotMods(acc *Accumulator, in Input) {
	c := in.Character
	mods := c.Items(character.ItemRobotMod)
	if len(mods) == 0 {
		return
	}
	if !in.Setting.Has(catalog.FlagRobots) {
		acc.Warnf(pathRobotMods, "Robots are not enabled in this setting")
		return
	}
	d := c.Derived()
	if used, slots := d.Equipment.ModSlotsUsed, d.Stats.ModSlots; used > slots {
		acc.Errorf(pathRobotMods, "Mods use %d slots but only %d are available", used, slots)
	}
}

func checkWealth(acc *Accumulator, in Input) {
	if wealth := in.Character.Derived().Stats.Wealth; wealth < 0 {
		acc.Errorf(pathGear, "%s", money.Sprintf("You have spent $%d more than your funds", -wealth))
	}
}

func checkMinStrength(acc *Accumulator, in Input) {
	c := in.Character
	strength := c.Attribute(rules.Strength).Current()
	for _, item := range c.Items(character.ItemArmor) {
		def, ok := in.Catalog.Armor.Get(item.CatalogID)
		if ok && item.Equipped && def.MinStrength > strength {
			acc.Warnf(pathArmor, "%s requires Strength %s", def.Name, rules.DieLabel(def.MinStrength))
		}
	}
	for _, item := range c.Items(character.ItemWeapon) {
		def, ok := in.Catalog.Weapons.Get(item.CatalogID)
		if ok && item.Equipped && def.MinStrength > strength {
			acc.Warnf(pathWeapons, "%s requires Strength %s", def.Name, rules.DieLabel(def.MinStrength))
		}
	}
}

// EncumbranceHardCap is the multiple of the load limit that cannot be carried.
const EncumbranceHardCap = 4

func checkEncumbrance(acc *Accumulator, in Input) {
	if !in.Setting.Has(catalog.FlagEncumbrance) {
		return
	}
	d := in.Character.Derived()
	load, limit := d.Equipment.Load, float64(d.Stats.LoadLimit)
	switch {
	case load > limit*EncumbranceHardCap:
		acc.Errorf(pathGear, "Load of %g lb is more than %d times the limit of %d lb", load, EncumbranceHardCap, d.Stats.LoadLimit)
	case load > limit:
		acc.Warnf(pathGear, "Load of %g lb is over the limit of %d lb; you are encumbered", load, d.Stats.LoadLimit)
	}
}

func hasHindrance(c *character.Aggregate, id string) bool {
	return slices.ContainsFunc(c.Hindrances(), func(h *character.Hindrance) bool { return h.CatalogID == id })
}

func severityWord(major bool) string {
	if major {
		return "major"
	}
	return "minor"
}

func edgeName(cat *catalog.Catalog, id string) string {
	if def, ok := cat.Edges.Get(id); ok {
		return def.Name
	}
	return id
}

func hindranceName(cat *catalog.Catalog, id string) string {
	if def, ok := cat.Hindrances.Get(id); ok {
		return def.Name
	}
	return id
}

func arcaneName(cat *catalog.Catalog, id string) string {
	if def, ok := cat.ArcaneBackgrounds.Get(id); ok {
		return def.Name
	}
	return id
}

func conflictName(cat *catalog.Catalog, id string) string {
	if cat.Edges.Has(id) {
		return edgeName(cat, id)
	}
	return hindranceName(cat, id)
}

func skillTitle(cat *catalog.Catalog, name string) string {
	if def, ok := cat.SkillByName(name); ok {
		return def.Name
	}
	if def, ok := cat.Skills.Get(name); ok {
		return def.Name
	}
	return name
}
