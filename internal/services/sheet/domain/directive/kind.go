package directive

// Kind identifies a directive action.
type Kind int

const (
	KindUnknown Kind = iota

	KindPowerPointsMultiplier
	KindNewPowersBonus

	KindPowerPoints
	KindAddPower
	KindAddEdge

	KindAttributeBoost
	KindAttributeSet
	KindSkillBoost
	KindSkillAdd
	KindSpecialtyAdd
	KindPace
	KindParry
	KindToughness
	KindArmor
	KindSanity
	KindWealth
	KindStrain
	KindLoadLimit
	KindSuperStrength
	KindModSlots
	KindFreeEdges
	KindHindrancePoints
	KindSuperPowerPoints
	KindBestThereIs
	KindNaturalAttack
)

// Phase says when a directive runs during a recompute.
type Phase int

const (
	// PhaseInert directives never run.
	PhaseInert Phase = iota
	// PhasePrecalc directives run before traits so later phases can read them.
	PhasePrecalc
	// PhaseImmediate directives run during the main pass, once per container.
	PhaseImmediate
	// PhaseDeferred directives are queued in the main pass and replayed after it.
	PhaseDeferred
)

func (p Phase) String() string {
	switch p {
	case PhasePrecalc:
		return "precalc"
	case PhaseImmediate:
		return "immediate"
	case PhaseDeferred:
		return "deferred"
	default:
		return "inert"
	}
}

type kindSpec struct {
	action string
	phase  Phase
}

var kindSpecs = map[Kind]kindSpec{
	KindPowerPointsMultiplier: {"power_points_multiplier", PhasePrecalc},
	KindNewPowersBonus:        {"new_powers_bonus", PhasePrecalc},
	KindPowerPoints:           {"power_points", PhaseImmediate},
	KindAddPower:              {"add_power", PhaseImmediate},
	KindAddEdge:               {"add_edge", PhaseImmediate},
	KindAttributeBoost:        {"attribute_boost", PhaseDeferred},
	KindAttributeSet:          {"attribute_set", PhaseDeferred},
	KindSkillBoost:            {"skill_boost", PhaseDeferred},
	KindSkillAdd:              {"skill_add", PhaseDeferred},
	KindSpecialtyAdd:          {"specialty_add", PhaseDeferred},
	KindPace:                  {"pace", PhaseDeferred},
	KindParry:                 {"parry", PhaseDeferred},
	KindToughness:             {"toughness", PhaseDeferred},
	KindArmor:                 {"armor", PhaseDeferred},
	KindSanity:                {"sanity", PhaseDeferred},
	KindWealth:                {"wealth", PhaseDeferred},
	KindStrain:                {"strain", PhaseDeferred},
	KindLoadLimit:             {"load_limit", PhaseDeferred},
	KindSuperStrength:         {"super_strength", PhaseDeferred},
	KindModSlots:              {"mod_slots", PhaseDeferred},
	KindFreeEdges:             {"free_edges", PhaseDeferred},
	KindHindrancePoints:       {"hindrance_points", PhaseDeferred},
	KindSuperPowerPoints:      {"super_power_points", PhaseDeferred},
	KindBestThereIs:           {"best_there_is", PhaseDeferred},
	KindNaturalAttack:         {"natural_attack", PhaseDeferred},
}

var kindsByAction = func() map[string]Kind {
	out := make(map[string]Kind, len(kindSpecs))
	for kind, spec := range kindSpecs {
		out[spec.action] = kind
	}
	return out
}()

// KindOf returns the kind for an action name.
func KindOf(action string) Kind {
	return kindsByAction[action]
}

// Phase returns when directives of kind k run.
func (k Kind) Phase() Phase {
	return kindSpecs[k].phase
}

// String returns the action name.
func (k Kind) String() string {
	if spec, ok := kindSpecs[k]; ok {
		return spec.action
	}
	return "unknown"
}

// TouchesTraits reports whether the kind changes attributes or skills.
func (k Kind) TouchesTraits() bool {
	switch k {
	case KindAttributeBoost, KindAttributeSet, KindSkillBoost, KindSkillAdd, KindSpecialtyAdd:
		return true
	default:
		return false
	}
}
