// Package catalogtest provides a small fixed catalog for tests.
package catalogtest

import (
	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
)

// Content returns the fixture content.
func Content() catalog.Content {
	return catalog.Content{
		Skills: []catalog.Skill{
			{ID: "athletics", Name: "Athletics", Attribute: rules.Agility, Core: true},
			{ID: "common-knowledge", Name: "Common Knowledge", Attribute: rules.Smarts, Core: true},
			{ID: "notice", Name: "Notice", Attribute: rules.Smarts, Core: true},
			{ID: "persuasion", Name: "Persuasion", Attribute: rules.Spirit, Core: true},
			{ID: "stealth", Name: "Stealth", Attribute: rules.Agility, Core: true},
			{ID: "fighting", Name: "Fighting", Attribute: rules.Agility},
			{ID: "shooting", Name: "Shooting", Attribute: rules.Agility},
			{ID: "spellcasting", Name: "Spellcasting", Attribute: rules.Smarts},
			{ID: "faith", Name: "Faith", Attribute: rules.Spirit},
			{ID: "knowledge", Name: "Knowledge", Attribute: rules.Smarts, Knowledge: true},
		},
		Races: []catalog.Race{
			{ID: "human", Name: "Human", Directives: []string{"free_edges 1"}},
			{ID: "saurian", Name: "Saurian", Directives: []string{"toughness 1", "pace -1"}, NaturalAttacks: []string{"Bite|Str+d4"}},
			{ID: "android", Name: "Android", Robot: true, ModSlots: 4, Directives: []string{"attribute_boost:vigor 1"}},
			{ID: "fey", Name: "Fey", Directives: []string{"new_powers_bonus 1", "power_points_multiplier 2"}},
		},
		Edges: []catalog.Edge{
			{ID: "alertness", Name: "Alertness"},
			{ID: "brave", Name: "Brave", Conflicts: []string{"yellow"}},
			{ID: "quick", Name: "Quick", Requires: catalog.Requirements{Attributes: map[rules.Attribute]int{rules.Agility: rules.DieD8}}},
			{ID: "brawny", Name: "Brawny", Requires: catalog.Requirements{Attributes: map[rules.Attribute]int{rules.Strength: rules.DieD6, rules.Vigor: rules.DieD6}}, Directives: []string{"toughness 1", "load_limit 1"}},
			{ID: "brawler", Name: "Brawler", Rank: rules.RankSeasoned, Requires: catalog.Requirements{Skills: map[string]int{"fighting": rules.DieD8}}, Directives: []string{"parry 1"}},
			{ID: "scholar", Name: "Scholar", Directives: []string{"skill_boost:[select_skill] 1", "skill_boost:[select_skill] 1"}},
			{ID: "arcane-background", Name: "Arcane Background", Multiple: true},
			{ID: "power-points", Name: "Power Points", Multiple: true, Requires: catalog.Requirements{ArcaneBackground: true}, Directives: []string{"power_points 5"}},
			{ID: "wizard", Name: "Wizard", Rank: rules.RankSeasoned, Requires: catalog.Requirements{ArcaneBackground: true}, Directives: []string{"add_power:bolt"}},
			{ID: "armor-set", Name: "Armor Set", PowerSet: "Armor Set", PowerPoints: 10},
			{ID: "best-there-is", Name: "The Best There Is", Directives: []string{"best_there_is"}},
			{ID: "martial-training", Name: "Martial Training", Directives: []string{"add_edge:Brawny", "natural_attack:Fists|Str+d4"}},
		},
		Hindrances: []catalog.Hindrance{
			{ID: "loyal", Name: "Loyal", Severity: catalog.HindranceMinor},
			{ID: "bad-eyes", Name: "Bad Eyes", Severity: catalog.HindranceEither},
			{ID: "slow", Name: "Slow", Severity: catalog.HindranceEither, Directives: []string{"pace -1"}},
			{ID: "code-of-honor", Name: "Code of Honor", Severity: catalog.HindranceMajor},
			{ID: "yellow", Name: "Yellow", Severity: catalog.HindranceMajor, Conflicts: []string{"brave"}},
		},
		Frameworks: []catalog.Framework{
			{
				ID:   "bruiser",
				Name: "Bruiser",
				Bonuses: []catalog.Line{
					{ID: "bruiser-tough", Name: "Tough", Directives: []string{"toughness 1"}},
					{ID: "bruiser-training", Name: "Training", Directives: []string{"skill_boost:[select_skill] 2"}},
					{ID: "bruiser-grit", Name: "Grit", Rank: rules.RankSeasoned, Directives: []string{"add_edge:[choose_edge]|brave,quick"}},
				},
				Complications: []catalog.Line{
					{ID: "bruiser-temper", Name: "Bad Temper", Directives: []string{"pace -1"}},
				},
				NaturalAttacks: []string{"Headbutt|Str+d6"},
			},
		},
		ArcaneBackgrounds: []catalog.ArcaneBackground{
			{ID: "magic", Name: "Magic", Skill: "spellcasting", PowerPoints: 10, StartingPowers: 3, Banned: []string{"miracles"}},
			{ID: "miracles", Name: "Miracles", Skill: "faith", PowerPoints: 10, StartingPowers: 3, Powers: []string{"bolt", "healing"}, Banned: []string{"magic"}},
			{ID: "gifted", Name: "Gifted", Skill: "faith", PowerPoints: 15, StartingPowers: 1, Directives: []string{"power_points_multiplier 2", "new_powers_bonus 1"}},
		},
		Powers: []catalog.Power{
			{ID: "bolt", Name: "Bolt", PowerPoints: 1},
			{ID: "healing", Name: "Healing", PowerPoints: 3},
			{ID: "blast", Name: "Blast", Rank: rules.RankSeasoned, PowerPoints: 3},
			{ID: "light", Name: "Light", PowerPoints: 1},
		},
		SuperPowers: []catalog.SuperPower{
			{ID: "armor", Name: "Armor", Cost: 2, MaxLevel: 10, Pool: catalog.PoolArmor},
			{ID: "toughness", Name: "Toughness", Cost: 2, MaxLevel: 10, Pool: catalog.PoolToughness},
			{ID: "flight", Name: "Flight", Cost: 3, MaxLevel: 5},
			{ID: "super-strength", Name: "Super Strength", Cost: 2, MaxLevel: 10},
		},
		Tables: []catalog.Table{
			{
				ID:   "training",
				Name: "Training",
				Lines: []catalog.Line{
					{ID: "training-specialist", Name: "Specialist", Directives: []string{"skill_boost:[select_skill] 1"}},
					{ID: "training-focus", Name: "Focus", Alternatives: [][]string{{"pace 1"}, {"parry 1"}}},
					{ID: "training-lore", Name: "Lore", Directives: []string{"specialty_add:Knowledge|[specify] 2"}},
				},
			},
		},
		Armor: []catalog.Armor{
			{ID: "leather", Name: "Leather Jacket", Cost: 50, Weight: 5, Armor: 1, MinStrength: rules.DieD4},
			{ID: "plate", Name: "Plate Corselet", Cost: 400, Weight: 25, Armor: 4, MinStrength: rules.DieD10},
			{ID: "medium-shield", Name: "Medium Shield", Cost: 50, Weight: 8, Shield: true, Parry: 2, MinStrength: rules.DieD8},
		},
		Weapons: []catalog.Weapon{
			{ID: "staff", Name: "Staff", Cost: 10, Weight: 8, Damage: "Str+d4", MinStrength: rules.DieD4, Parry: 1},
			{ID: "long-sword", Name: "Long Sword", Cost: 300, Weight: 3, Damage: "Str+d8", MinStrength: rules.DieD8},
			{ID: "great-axe", Name: "Great Axe", Cost: 500, Weight: 7, Damage: "Str+d10", MinStrength: rules.DieD10},
		},
		Gear: []catalog.Gear{
			{ID: "backpack", Name: "Backpack", Cost: 50, Weight: 2},
			{ID: "rope", Name: "Rope", Cost: 10, Weight: 15},
			{ID: "anvil", Name: "Anvil", Cost: 100, Weight: 150},
		},
		Cyberware: []catalog.Cyberware{
			{ID: "dermal-plating", Name: "Dermal Plating", Cost: 2000, Strain: 2, Directives: []string{"armor 2"}},
			{ID: "reflex-boost", Name: "Reflex Boost", Cost: 3000, Strain: 3, Directives: []string{"attribute_boost:agility 1"}},
			{ID: "cybereyes", Name: "Cybereyes", Cost: 500, Strain: 1},
		},
		RobotMods: []catalog.RobotMod{
			{ID: "armor-mod", Name: "Armor Mod", Cost: 1000, Slots: 1, Directives: []string{"armor 2"}},
			{ID: "jets", Name: "Jets", Cost: 2000, Slots: 3},
		},
		Vehicles: []catalog.Vehicle{
			{ID: "hover-bike", Name: "Hover Bike", Cost: 20000},
		},
	}
}

// Catalog returns the fixture catalog. It panics on invalid fixture data.
func Catalog() *catalog.Catalog {
	cat, err := catalog.New(Content())
	if err != nil {
		panic(err)
	}
	return cat
}

// Setting returns the core setting with the given flags enabled.
func Setting(flags ...catalog.Flag) catalog.Setting {
	setting := catalog.DefaultSetting()
	setting.Flags = flags
	setting.PowerLevel = 20
	setting.PowerLimit = 10
	setting.LegacyPowerPoints = 10
	return setting
}
