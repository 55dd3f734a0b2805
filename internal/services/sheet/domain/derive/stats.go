package derive

import (
	"strings"

	"go.uber.org/zap"

	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/character"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
)

// Ledger computes creation point accounting from assigned points, hindrances
// and perks.
func Ledger(c *character.Aggregate, setting catalog.Setting) character.Ledger {
	l := character.Ledger{
		AttributePoints:    setting.AttributePoints,
		SkillPoints:        setting.SkillPoints,
		HindrancePointsCap: setting.MaxHindrancePoints + c.Modifier(character.StatHindrancePoints),
	}
	for _, a := range rules.Attributes {
		l.AttributesSpent += c.Attribute(a).Assigned
	}
	for _, skill := range c.Skills() {
		base := rules.DieD4
		if record := c.Attribute(skill.Attribute); record != nil {
			base = record.Base()
		}
		l.SkillsSpent += SkillCost(skill.Start(), skill.Assigned, base)
		for _, sp := range skill.Specialties {
			l.SkillsSpent += SkillCost(rules.DieNone, sp.Assigned, base)
		}
	}
	for _, h := range c.Hindrances() {
		l.HindrancePoints += h.Points()
	}
	for _, perk := range c.Perks() {
		l.PerksSpent += perk.Cost()
		switch perk {
		case character.PerkAttribute:
			l.AttributePoints++
		case character.PerkSkill:
			l.SkillPoints++
		case character.PerkEdge:
			l.FreeEdges++
		}
	}
	l.CreationEdges = len(c.Edges())
	l.FreeEdges += c.Modifier(character.StatFreeEdges)
	return l
}

// Stats computes the pure derived statistics from current traits, the
// equipment summary and directive modifiers.
func Stats(c *character.Aggregate, cat *catalog.Catalog, setting catalog.Setting) character.Stats {
	d := c.Derived()
	mod := func(stat character.Stat) int { return d.Modifiers[stat] }
	current := func(a rules.Attribute) int { return c.Attribute(a).Current() }

	fighting := rules.DieNone
	if skill := c.Skill("fighting"); skill != nil {
		fighting = skill.Current()
	}
	wealthPerks := 0
	for _, perk := range c.Perks() {
		if perk == character.PerkWealth {
			wealthPerks++
		}
	}

	s := character.Stats{
		Pace:       Pace(mod(character.StatPace)),
		RunningDie: BaseRunningDie,
		Parry:      Parry(fighting, mod(character.StatParry), d.Equipment.ShieldParry, d.Equipment.WeaponParry),
		Toughness:  Toughness(current(rules.Vigor), mod(character.StatToughness)),
		Armor:      d.Equipment.Armor + mod(character.StatArmor),
		Funds:      Funds(setting.StartingFunds, wealthPerks, mod(character.StatWealth)),
	}
	s.Wealth = s.Funds - d.Equipment.Cost

	table := LoadStandard
	if mod(character.StatSuperStrength) > 0 {
		table = LoadSuperStrength
		if setting.Has(catalog.FlagSuperStrengthLegacyTable) {
			table = LoadSuperStrengthLegacy
		}
	}
	s.LoadLimit = LoadLimit(table, StrengthIndex(current(rules.Strength), mod(character.StatSuperStrength), mod(character.StatLoadLimit)))

	if setting.Has(catalog.FlagSanity) {
		s.Sanity = Sanity(current(rules.Spirit), mod(character.StatSanity))
	}
	if setting.Has(catalog.FlagCyberware) {
		s.StrainMax = StrainMax(current(rules.Spirit), current(rules.Vigor), mod(character.StatStrain))
		s.Strain = s.StrainMax - d.Equipment.StrainUsed
	}
	if race := c.Race(); race != nil {
		if def, ok := cat.Races.Get(race.CatalogID); ok {
			s.ModSlots = def.ModSlots
		}
	}
	s.ModSlots += mod(character.StatModSlots)
	return s
}

func (ps *pass) assembleEquipment() character.Equipment {
	c, cat := ps.c, ps.p.catalog
	var e character.Equipment

	for _, item := range c.Items(character.ItemArmor) {
		def, ok := cat.Armor.Get(item.CatalogID)
		if !ok {
			ps.unknownItem(character.ItemArmor, item.CatalogID)
			continue
		}
		e.Cost += def.Cost * item.Count()
		e.Load += def.Weight * float64(item.Count())
		if !item.Equipped {
			continue
		}
		if def.Shield {
			e.ShieldParry = max(e.ShieldParry, def.Parry)
		} else {
			e.Armor = max(e.Armor, def.Armor)
		}
	}
	for _, item := range c.Items(character.ItemWeapon) {
		def, ok := cat.Weapons.Get(item.CatalogID)
		if !ok {
			ps.unknownItem(character.ItemWeapon, item.CatalogID)
			continue
		}
		e.Cost += def.Cost * item.Count()
		e.Load += def.Weight * float64(item.Count())
		if !item.Equipped {
			continue
		}
		e.WeaponParry = max(e.WeaponParry, def.Parry)
		e.Attacks = append(e.Attacks, character.Attack{
			Name:        def.Name,
			Damage:      def.Damage,
			Parry:       def.Parry,
			MinStrength: def.MinStrength,
		})
	}
	for _, item := range c.Items(character.ItemGear) {
		def, ok := cat.Gear.Get(item.CatalogID)
		if !ok {
			ps.unknownItem(character.ItemGear, item.CatalogID)
			continue
		}
		e.Cost += def.Cost * item.Count()
		e.Load += def.Weight * float64(item.Count())
	}
	for _, item := range c.Items(character.ItemCyberware) {
		def, ok := cat.Cyberware.Get(item.CatalogID)
		if !ok {
			ps.unknownItem(character.ItemCyberware, item.CatalogID)
			continue
		}
		e.Cost += def.Cost * item.Count()
		e.StrainUsed += def.Strain * item.Count()
	}
	for _, item := range c.Items(character.ItemRobotMod) {
		def, ok := cat.RobotMods.Get(item.CatalogID)
		if !ok {
			ps.unknownItem(character.ItemRobotMod, item.CatalogID)
			continue
		}
		e.Cost += def.Cost * item.Count()
		e.ModSlotsUsed += def.Slots * item.Count()
	}
	for _, item := range c.Items(character.ItemVehicle) {
		def, ok := cat.Vehicles.Get(item.CatalogID)
		if !ok {
			ps.unknownItem(character.ItemVehicle, item.CatalogID)
			continue
		}
		e.Cost += def.Cost * item.Count()
	}

	var natural []string
	if race := c.Race(); race != nil {
		if def, ok := cat.Races.Get(race.CatalogID); ok {
			natural = append(natural, def.NaturalAttacks...)
		}
	}
	if _, def, ok := ps.framework(); ok {
		natural = append(natural, def.NaturalAttacks...)
	}
	for _, spec := range natural {
		e.Attacks = append(e.Attacks, NaturalAttack(spec))
	}
	return e
}

func (ps *pass) unknownItem(kind character.ItemKind, id string) {
	ps.p.logger.Debug("item not in catalog", zap.String("kind", string(kind)), zap.String("item", id))
}

// NaturalAttack parses a "Name|Damage" attack description.
func NaturalAttack(spec string) character.Attack {
	name, damage, _ := strings.Cut(spec, "|")
	return character.Attack{Name: strings.TrimSpace(name), Damage: strings.TrimSpace(damage), Natural: true}
}
