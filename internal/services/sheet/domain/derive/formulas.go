package derive

import "github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"

// Base values of the derived statistics.
const (
	BasePace       = 6
	BaseRunningDie = rules.DieD6
	BaseParry      = 2
	BaseToughness  = 2
	BaseSanity     = 2

	// MaxParryBoost caps the directive bonus added to Parry.
	MaxParryBoost = 10
)

// Pace is the base pace plus modifiers, never below zero.
func Pace(modifier int) int {
	return max(BasePace+modifier, 0)
}

// Parry is 2 plus half the Fighting die, the capped directive bonus and
// the best shield and weapon parry bonuses.
func Parry(fighting, boost, shield, weapon int) int {
	return BaseParry + rules.HalfDie(fighting) + min(boost, MaxParryBoost) + shield + weapon
}

// Toughness is 2 plus half the Vigor die plus modifiers, armor excluded.
func Toughness(vigor, modifier int) int {
	return BaseToughness + rules.HalfDie(vigor) + modifier
}

// Sanity is 2 plus half the Spirit die plus modifiers.
func Sanity(spirit, modifier int) int {
	return BaseSanity + rules.HalfDie(spirit) + modifier
}

// Funds is the starting money: each wealth perk adds the base amount again.
func Funds(starting, wealthPerks, modifier int) int {
	return starting*(1+wealthPerks) + modifier
}

// StrainMax is the average of the Spirit and Vigor die sizes plus modifiers.
func StrainMax(spirit, vigor, modifier int) int {
	return (rules.DieSides(spirit)+rules.DieSides(vigor))/2 + modifier
}

// StrengthIndex is the effective strength used for load lookups.
func StrengthIndex(strength, superStrength, loadSteps int) int {
	return ClampStrengthIndex(strength + superStrength + loadSteps)
}

// SkillStepCost is the point cost of raising a skill to level. Steps up to
// the linked attribute's base cost 1, later steps cost 2.
func SkillStepCost(level, attributeBase int) int {
	if level <= attributeBase {
		return 1
	}
	return 2
}

// SkillCost prices assigned steps above the free start level.
func SkillCost(start, assigned, attributeBase int) int {
	cost := 0
	for level := start + 1; level <= start+assigned; level++ {
		cost += SkillStepCost(level, attributeBase)
	}
	return cost
}
