// Package derive runs the fixed sequence of phases that turns a character's
// choices into derived statistics and validation findings.
//
// Every Run is a full pass: phase one resets all derived state, so running
// twice without a player mutation in between yields identical output.
package derive

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/character"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/directive"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/validate"
)

// Pipeline recomputes characters against one catalog and setting. It holds
// no per-character state and may be shared; callers serialize runs over the
// same aggregate.
type Pipeline struct {
	catalog  *catalog.Catalog
	setting  catalog.Setting
	interp   *directive.Interpreter
	engine   *validate.Engine
	logger   *zap.Logger
	validate validate.Options
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger for the pipeline, interpreter and validator.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithValidateOptions sets validation finalization options.
func WithValidateOptions(opts validate.Options) Option {
	return func(p *Pipeline) {
		p.validate = opts
	}
}

// New returns a pipeline.
func New(cat *catalog.Catalog, setting catalog.Setting, opts ...Option) *Pipeline {
	p := &Pipeline{catalog: cat, setting: setting, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	p.interp = directive.New(cat, p.logger.Named("directive"))
	p.engine = validate.New(cat, setting, p.logger.Named("validate"))
	return p
}

// Setting returns the setting the pipeline computes against.
func (p *Pipeline) Setting() catalog.Setting {
	return p.setting
}

// Catalog returns the catalog the pipeline reads.
func (p *Pipeline) Catalog() *catalog.Catalog {
	return p.catalog
}

// Phase is one step of a recompute.
type Phase struct {
	Name string
	run  func(*pass)
}

// Phases run in this order. A phase reads only what earlier phases set.
var Phases = []Phase{
	{Name: "reset", run: (*pass).reset},
	{Name: "precalc", run: (*pass).precalc},
	{Name: "traits", run: (*pass).traits},
	{Name: "ledgers", run: (*pass).ledgers},
	{Name: "equipment", run: (*pass).equipment},
	{Name: "main", run: (*pass).main},
	{Name: "stats", run: (*pass).stats},
	{Name: "deferred", run: (*pass).deferred},
	{Name: "validate", run: (*pass).validate},
}

// pass is the state of one Run.
type pass struct {
	p         *Pipeline
	c         *character.Aggregate
	queue     *directive.Queue
	defaultAB string
	report    validate.Report

	// Skill advances whose skill did not exist yet when traits ran.
	pending []pendingAdvance
}

type pendingAdvance struct {
	index  int
	target string
}

// Run recomputes c in place and returns its validation report.
func (p *Pipeline) Run(c *character.Aggregate) validate.Report {
	ps := &pass{p: p, c: c, queue: directive.NewQueue()}
	for _, phase := range Phases {
		phase.run(ps)
	}
	p.logger.Debug("character recomputed",
		zap.String("character", c.ID),
		zap.Stringer("rank", c.Rank()),
		zap.Int("deferred", ps.queue.Len()),
		zap.Stringer("validity", ps.report.Validity),
	)
	return ps.report
}

func (ps *pass) reset() {
	c := ps.c
	rank := max(rules.RankForAdvances(len(c.Advances())), ps.p.setting.StartingRank)
	c.ResetDerived(rank)
	ps.defaultAB = ""
	for i, ab := range c.ArcaneBackgrounds() {
		if i == 0 {
			ps.defaultAB = ab.CatalogID
		}
		c.SetPowerBudget(ab.CatalogID, character.PowerBudget{Multiplier: 1})
	}
}

func (ps *pass) precalc() {
	c, cat, in := ps.c, ps.p.catalog, ps.p.interp
	rank := c.Rank()
	if race := c.Race(); race != nil {
		if def, ok := cat.Races.Get(race.CatalogID); ok {
			in.Precalc(c, rank, ps.source("race", def.ID, "race", rules.RankNovice), def.Directives, race.Selection)
		}
	}
	if fw, def, ok := ps.framework(); ok {
		for i, line := range def.Bonuses {
			if i < len(fw.Bonuses) {
				in.Precalc(c, rank, ps.source("framework_bonus", line.ID, fmt.Sprintf("framework:bonus:%d", i), line.Rank), lineDirectives(line, fw.Bonuses[i]), fw.Bonuses[i])
			}
		}
		for i, line := range def.Complications {
			if i < len(fw.Complications) {
				in.Precalc(c, rank, ps.source("framework_complication", line.ID, fmt.Sprintf("framework:complication:%d", i), line.Rank), lineDirectives(line, fw.Complications[i]), fw.Complications[i])
			}
		}
	}
	for i, ab := range c.ArcaneBackgrounds() {
		if def, ok := cat.ArcaneBackgrounds.Get(ab.CatalogID); ok {
			src := ps.source("arcane_background", def.ID, fmt.Sprintf("arcane:%d", i), rules.RankNovice)
			src.ArcaneBackground = def.ID
			in.Precalc(c, rank, src, def.Directives, ab.Selection)
		}
	}
}

func (ps *pass) traits() {
	c := ps.c
	for i, adv := range c.Advances() {
		switch adv.Kind {
		case character.AdvanceAttribute:
			if len(adv.Targets) != 1 {
				continue
			}
			if a, err := rules.ParseAttribute(adv.Targets[0]); err == nil {
				c.AdvanceAttribute(a)
			}
		case character.AdvanceSkillOne, character.AdvanceSkillsTwo, character.AdvanceNewSkill:
			for _, target := range adv.Targets {
				if !c.AdvanceSkill(target) {
					ps.pending = append(ps.pending, pendingAdvance{index: i, target: target})
				}
			}
		}
	}
}

func (ps *pass) ledgers() {
	ps.c.SetLedger(Ledger(ps.c, ps.p.setting))
}

func (ps *pass) equipment() {
	ps.c.SetEquipment(ps.assembleEquipment())
}

func (ps *pass) main() {
	c, cat, in, q := ps.c, ps.p.catalog, ps.p.interp, ps.queue
	rank := c.Rank()

	if fw, def, ok := ps.framework(); ok {
		for i, line := range def.Bonuses {
			if i < len(fw.Bonuses) {
				in.Apply(c, rank, ps.source("framework_bonus", line.ID, fmt.Sprintf("framework:bonus:%d", i), line.Rank), lineDirectives(line, fw.Bonuses[i]), fw.Bonuses[i], q)
			}
		}
		for i, line := range def.Complications {
			if i < len(fw.Complications) {
				in.Apply(c, rank, ps.source("framework_complication", line.ID, fmt.Sprintf("framework:complication:%d", i), line.Rank), lineDirectives(line, fw.Complications[i]), fw.Complications[i], q)
			}
		}
	}
	for i, ab := range c.ArcaneBackgrounds() {
		if def, ok := cat.ArcaneBackgrounds.Get(ab.CatalogID); ok {
			src := ps.source("arcane_background", def.ID, fmt.Sprintf("arcane:%d", i), rules.RankNovice)
			src.ArcaneBackground = def.ID
			in.Apply(c, rank, src, def.Directives, ab.Selection, q)
		}
	}
	if race := c.Race(); race != nil {
		if def, ok := cat.Races.Get(race.CatalogID); ok {
			in.Apply(c, rank, ps.source("race", def.ID, "race", rules.RankNovice), def.Directives, race.Selection, q)
		}
	}
	for i, e := range c.AllEdges() {
		if e.Origin == character.OriginGranted {
			continue
		}
		ps.applyEdge(fmt.Sprintf("edge:%d", i), e)
	}
	for i, h := range c.Hindrances() {
		if def, ok := cat.Hindrances.Get(h.CatalogID); ok {
			in.Apply(c, rank, ps.source("hindrance", def.ID, fmt.Sprintf("hindrance:%d", i), rules.RankNovice), def.Directives, h.Selection, q)
		}
	}
	for i, item := range c.Items(character.ItemCyberware) {
		if def, ok := cat.Cyberware.Get(item.CatalogID); ok {
			in.Apply(c, rank, ps.source("cyberware", def.ID, fmt.Sprintf("cyberware:%d", i), rules.RankNovice), def.Directives, item.Selection, q)
		}
	}
	for i, item := range c.Items(character.ItemRobotMod) {
		if def, ok := cat.RobotMods.Get(item.CatalogID); ok {
			in.Apply(c, rank, ps.source("robot_mod", def.ID, fmt.Sprintf("robot_mod:%d", i), rules.RankNovice), def.Directives, item.Selection, q)
		}
	}
	for i, roll := range c.Journey() {
		table, ok := cat.Tables.Get(roll.TableID)
		if !ok || roll.Line < 0 || roll.Line >= len(table.Lines) {
			ps.p.logger.Debug("journey roll skipped", zap.String("table", roll.TableID), zap.Int("line", roll.Line))
			continue
		}
		line := table.Lines[roll.Line]
		in.Apply(c, rank, ps.source("journey", line.ID, fmt.Sprintf("journey:%d", i), line.Rank), lineDirectives(line, roll.Selection), roll.Selection, q)
	}

	// Granted edges go last so grants from any source above, including
	// other granted edges, are applied in the same pass.
	for i := 0; ; i++ {
		granted := grantedEdges(c)
		if i >= len(granted) {
			break
		}
		ps.applyEdge(fmt.Sprintf("granted:%d", i), granted[i])
	}
}

func (ps *pass) applyEdge(key string, e *character.Edge) {
	def, ok := ps.p.catalog.Edges.Get(e.CatalogID)
	if !ok {
		ps.p.logger.Debug("edge not in catalog", zap.String("edge", e.CatalogID))
		return
	}
	ps.p.interp.Apply(ps.c, ps.c.Rank(), ps.source("edge", def.ID, key, def.Rank), def.Directives, e.Selection, ps.queue)
}

func grantedEdges(c *character.Aggregate) []*character.Edge {
	var out []*character.Edge
	for _, e := range c.AllEdges() {
		if e.Origin == character.OriginGranted {
			out = append(out, e)
		}
	}
	return out
}

func (ps *pass) stats() {
	ps.settle()
}

func (ps *pass) deferred() {
	replayed := ps.queue.Len() > 0
	if replayed {
		traits := ps.p.interp.Replay(ps.c, ps.queue)
		ps.p.logger.Debug("deferred directives replayed",
			zap.Int("count", ps.queue.Len()),
			zap.Bool("traits", traits),
		)
	}
	if ps.advancePending() || replayed {
		ps.settle()
	}
}

// advancePending applies skill advances whose skill a deferred directive
// added. Targets still missing are recorded for validation.
func (ps *pass) advancePending() bool {
	applied := false
	for _, pa := range ps.pending {
		if ps.c.AdvanceSkill(pa.target) {
			applied = true
			continue
		}
		ps.c.MarkAdvanceUnapplied(pa.index, pa.target)
	}
	ps.pending = nil
	return applied
}

func (ps *pass) validate() {
	ps.report = ps.p.engine.Validate(ps.c, ps.p.validate)
	ps.c.SetValidity(ps.report.Validity)
}

// settle recomputes everything derived from traits and modifiers with the
// pure formulas.
func (ps *pass) settle() {
	c := ps.c
	c.SetLedger(Ledger(c, ps.p.setting))
	ps.settlePowers()
	c.SetStats(Stats(c, ps.p.catalog, ps.p.setting))
}

func (ps *pass) settlePowers() {
	c := ps.c
	for i, ab := range c.ArcaneBackgrounds() {
		def, ok := ps.p.catalog.ArcaneBackgrounds.Get(ab.CatalogID)
		if !ok {
			continue
		}
		budget := c.PowerBudget(def.ID)
		budget.PowerPoints = def.PowerPoints + c.GrantedPowerPoints(def.ID)
		if i == 0 {
			budget.PowerPoints += c.GrantedPowerPoints("")
		}
		if budget.Multiplier == 0 {
			budget.Multiplier = 1
		}
		budget.PowersAllowed = def.StartingPowers + budget.BonusPowers
		budget.PowersKnown = 0
		for _, p := range c.Powers() {
			if p.ArcaneBackground == def.ID || (p.ArcaneBackground == "" && i == 0) {
				budget.PowersKnown++
			}
		}
		c.SetPowerBudget(def.ID, budget)
	}
}

func (ps *pass) source(kind, id, key string, rank rules.Rank) directive.Source {
	return directive.Source{Kind: kind, ID: id, Key: key, Rank: rank, ArcaneBackground: ps.defaultAB}
}

func (ps *pass) framework() (*character.Framework, catalog.Framework, bool) {
	fw := ps.c.Framework()
	if fw == nil {
		return nil, catalog.Framework{}, false
	}
	def, ok := ps.p.catalog.Frameworks.Get(fw.CatalogID)
	if !ok {
		ps.p.logger.Debug("framework not in catalog", zap.String("framework", fw.CatalogID))
		return nil, catalog.Framework{}, false
	}
	return fw, def, true
}

// lineDirectives appends the alternative set picked by the line's sub-choice.
func lineDirectives(line catalog.Line, sel interface{ SubChoice() int }) []string {
	if len(line.Alternatives) == 0 {
		return line.Directives
	}
	out := append([]string(nil), line.Directives...)
	if idx := sel.SubChoice(); idx >= 0 && idx < len(line.Alternatives) {
		out = append(out, line.Alternatives[idx]...)
	}
	return out
}
