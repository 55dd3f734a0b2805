// Package directive parses and executes the effect directives carried by
// catalog items.
package directive

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/character"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
)

// Sheet is the mutation surface directives act on.
type Sheet interface {
	BoostAttribute(a rules.Attribute, steps int) bool
	RaiseAttribute(a rules.Attribute, die int) bool
	BoostSkill(name string, steps int) bool
	EnsureSkill(name string, attribute rules.Attribute) *character.Skill
	RaiseSkill(name string, die int) bool
	BoostSpecialty(skill, specialty string, steps int) bool
	AddModifier(stat character.Stat, amount int)
	GrantPowerPoints(arcaneBackground string, points int)
	MultiplyPowerPoints(arcaneBackground string, factor int)
	AddBonusPowers(arcaneBackground string, count int)
	GrantPower(powerID, arcaneBackground, source string) *character.Power
	GrantEdge(edgeID, source string) *character.Edge
	AddPowerSetPoints(powerSet string, points int)
	EnableBestThereIs()
	AddNaturalAttack(name, damage string)
}

// Container is the per-instance selection state the main pass needs.
type Container interface {
	Selection
	MarkApplied() bool
	Applied() bool
}

// Source identifies the catalog-item instance a directive list belongs to.
type Source struct {
	// Kind is the catalog category, e.g. "edge" or "framework_bonus".
	Kind string
	// ID is the catalog id.
	ID string
	// Key is unique per instance on the sheet.
	Key string
	// Rank gates the item's directives.
	Rank rules.Rank
	// ArcaneBackground is the default target of power directives.
	ArcaneBackground string
}

var statKinds = map[Kind]character.Stat{
	KindPace:             character.StatPace,
	KindParry:            character.StatParry,
	KindToughness:        character.StatToughness,
	KindArmor:            character.StatArmor,
	KindSanity:           character.StatSanity,
	KindWealth:           character.StatWealth,
	KindStrain:           character.StatStrain,
	KindLoadLimit:        character.StatLoadLimit,
	KindSuperStrength:    character.StatSuperStrength,
	KindModSlots:         character.StatModSlots,
	KindFreeEdges:        character.StatFreeEdges,
	KindHindrancePoints:  character.StatHindrancePoints,
	KindSuperPowerPoints: character.StatSuperPowerPoints,
}

// Interpreter runs directive lists against a Sheet.
type Interpreter struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// New returns an interpreter reading definitions from cat. A nil logger
// discards diagnostics.
func New(cat *catalog.Catalog, logger *zap.Logger) *Interpreter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interpreter{catalog: cat, logger: logger}
}

// Precalc runs the precalc kinds of one item when its rank gate is met.
// Precalc effects are derived state, so they run on every recompute.
func (in *Interpreter) Precalc(sheet Sheet, rank rules.Rank, src Source, lines []string, sel Selection) int {
	if !rank.Allows(src.Rank) {
		return 0
	}
	directives, _ := in.resolve(src, lines, sel)
	ran := 0
	for _, d := range directives {
		if d.Phase() != PhasePrecalc {
			continue
		}
		if in.execute(sheet, src, d) {
			ran++
		}
	}
	return ran
}

// Apply runs the main pass of one item. Immediate directives run only the
// first time the container is applied; deferred directives go on the queue
// every recompute. A second Apply of the same instance against the same
// queue is a no-op.
func (in *Interpreter) Apply(sheet Sheet, rank rules.Rank, src Source, lines []string, sel Container, queue *Queue) {
	if !rank.Allows(src.Rank) {
		in.logger.Debug("directives gated by rank",
			zap.String("source", src.Key),
			zap.Stringer("requires", src.Rank),
			zap.Stringer("rank", rank),
		)
		return
	}
	if !queue.visit(src.Key) {
		in.logger.Debug("double application ignored", zap.String("source", src.Key))
		return
	}

	directives, _ := in.resolve(src, lines, sel)
	first := sel.MarkApplied()
	for _, d := range directives {
		switch d.Phase() {
		case PhaseImmediate:
			if !first {
				continue
			}
			in.execute(sheet, src, d)
		case PhaseDeferred:
			queue.push(src, d)
		case PhaseInert:
			in.logger.Debug("unknown directive ignored",
				zap.String("source", src.Key),
				zap.String("directive", d.Raw),
			)
		}
	}
}

// Replay executes the deferred queue once, in the order it was filled.
// It reports whether any replayed directive changed a trait.
func (in *Interpreter) Replay(sheet Sheet, queue *Queue) bool {
	traits := false
	for _, e := range queue.entries {
		if in.execute(sheet, e.src, e.directive) && e.directive.Kind.TouchesTraits() {
			traits = true
		}
	}
	return traits
}

func (in *Interpreter) resolve(src Source, lines []string, sel Selection) ([]Directive, []Skipped) {
	directives, skipped := Resolve(ParseAll(lines), sel)
	for _, s := range skipped {
		in.logger.Debug("directive skipped",
			zap.String("source", src.Key),
			zap.String("directive", s.Directive.Raw),
			zap.Int("occurrence", s.Occurrence),
			zap.String("reason", string(s.Reason)),
		)
	}
	return directives, skipped
}

// Execute runs one resolved directive. It reports whether the sheet changed.
func (in *Interpreter) Execute(sheet Sheet, src Source, d Directive) bool {
	return in.execute(sheet, src, d)
}

func (in *Interpreter) execute(sheet Sheet, src Source, d Directive) bool {
	if err := in.apply(sheet, src, d); err != nil {
		in.logger.Debug("directive not applied",
			zap.String("source", src.Key),
			zap.String("directive", d.Raw),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (in *Interpreter) apply(sheet Sheet, src Source, d Directive) error {
	if d.Placeholder != PlaceholderNone || d.Specify {
		return fmt.Errorf("unresolved placeholder")
	}
	n := d.Magnitude

	switch d.Kind {
	case KindPowerPointsMultiplier:
		sheet.MultiplyPowerPoints(in.arcaneTarget(src, d.Target), n)
	case KindNewPowersBonus:
		sheet.AddBonusPowers(in.arcaneTarget(src, d.Target), n)
	case KindPowerPoints:
		sheet.GrantPowerPoints(in.arcaneTarget(src, d.Target), n)
	case KindAddPower:
		power, ok := in.lookupPower(d.Target)
		if !ok {
			return catalog.ErrItemNotFound("power", d.Target)
		}
		sheet.GrantPower(power.ID, in.arcaneTarget(src, d.Modifier), src.Key)
	case KindAddEdge:
		edge, ok := in.catalog.EdgeByName(d.Target)
		if !ok {
			return catalog.ErrItemNotFound("edge", d.Target)
		}
		sheet.GrantEdge(edge.ID, src.Key)
	case KindAttributeBoost:
		a, err := rules.ParseAttribute(d.Target)
		if err != nil {
			return err
		}
		sheet.BoostAttribute(a, n)
	case KindAttributeSet:
		a, err := rules.ParseAttribute(d.Target)
		if err != nil {
			return err
		}
		die, err := dieArgument(d)
		if err != nil {
			return err
		}
		sheet.RaiseAttribute(a, die)
	case KindSkillBoost:
		name, err := in.skillName(sheet, d.Target, d.Modifier)
		if err != nil {
			return err
		}
		sheet.BoostSkill(name, n)
	case KindSkillAdd:
		name, err := in.skillName(sheet, d.Target, d.Modifier)
		if err != nil {
			return err
		}
		sheet.RaiseSkill(name, n)
	case KindSpecialtyAdd:
		if d.Modifier == "" {
			return fmt.Errorf("specialty name is required")
		}
		if !sheet.BoostSpecialty(d.Target, d.Modifier, n) {
			return fmt.Errorf("skill %q not on sheet", d.Target)
		}
	case KindSuperPowerPoints:
		if d.Target != "" {
			sheet.AddPowerSetPoints(d.Target, n)
			return nil
		}
		sheet.AddModifier(character.StatSuperPowerPoints, n)
	case KindBestThereIs:
		sheet.EnableBestThereIs()
	case KindNaturalAttack:
		if d.Target == "" {
			return fmt.Errorf("attack name is required")
		}
		sheet.AddNaturalAttack(d.Target, d.Modifier)
	default:
		stat, ok := statKinds[d.Kind]
		if !ok {
			return fmt.Errorf("unknown action %q", d.Action)
		}
		sheet.AddModifier(stat, n)
	}
	return nil
}

// skillName resolves a skill directive target, adding the skill when the
// sheet lacks it. The modifier may name the linked attribute.
func (in *Interpreter) skillName(sheet Sheet, target, modifier string) (string, error) {
	if strings.TrimSpace(target) == "" {
		return "", fmt.Errorf("skill name is required")
	}
	attribute := rules.Smarts
	if def, ok := in.catalog.SkillByName(target); ok {
		target, attribute = def.Name, def.Attribute
	}
	if modifier != "" {
		a, err := rules.ParseAttribute(modifier)
		if err != nil {
			return "", err
		}
		attribute = a
	}
	return sheet.EnsureSkill(target, attribute).Name, nil
}

func (in *Interpreter) lookupPower(target string) (catalog.Power, bool) {
	if power, ok := in.catalog.Powers.Get(target); ok {
		return power, true
	}
	for _, power := range in.catalog.Powers.All() {
		if strings.EqualFold(power.Name, target) {
			return power, true
		}
	}
	return catalog.Power{}, false
}

func (in *Interpreter) arcaneTarget(src Source, target string) string {
	if target = strings.TrimSpace(target); target != "" {
		return target
	}
	return src.ArcaneBackground
}

// dieArgument reads a die from the modifier label, else the magnitude index.
func dieArgument(d Directive) (int, error) {
	if d.Modifier != "" {
		return rules.ParseDie(d.Modifier)
	}
	return d.Magnitude, nil
}
