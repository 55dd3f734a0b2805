package validate

import (
	"go.uber.org/zap"

	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/character"
)

// Input is what every check reads.
type Input struct {
	Character *character.Aggregate
	Catalog   *catalog.Catalog
	Setting   catalog.Setting
}

// Check is one validation category.
type Check struct {
	Name string
	Run  func(acc *Accumulator, in Input)
}

// Checks run in this order.
var Checks = []Check{
	{Name: "ledgers", Run: checkLedgers},
	{Name: "arcane", Run: checkArcane},
	{Name: "hindrances", Run: checkHindrances},
	{Name: "legacy_super_powers", Run: checkLegacySuperPowers},
	{Name: "edges", Run: checkEdges},
	{Name: "advances", Run: checkAdvances},
	{Name: "strain", Run: checkStrain},
	{Name: "robot_mods", Run: checkRobotMods},
	{Name: "wealth", Run: checkWealth},
	{Name: "min_strength", Run: checkMinStrength},
	{Name: "encumbrance", Run: checkEncumbrance},
}

// Engine validates derived characters against one catalog and setting.
type Engine struct {
	catalog *catalog.Catalog
	setting catalog.Setting
	logger  *zap.Logger
}

// New returns a validation engine.
func New(cat *catalog.Catalog, setting catalog.Setting, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{catalog: cat, setting: setting, logger: logger}
}

// Validate runs every check and finalizes the findings.
func (e *Engine) Validate(c *character.Aggregate, opts Options) Report {
	acc := NewAccumulator()
	if e.setting.Has(catalog.FlagBornAHero) {
		acc.rankWaivers = 1
	}
	if c.Derived().BestThereIs {
		acc.bestThereIs = 1
	}
	in := Input{Character: c, Catalog: e.catalog, Setting: e.setting}
	for _, check := range Checks {
		check.Run(acc, in)
	}
	report := Finalize(acc.messages, opts)
	e.logger.Debug("character validated",
		zap.String("character", c.ID),
		zap.Stringer("validity", report.Validity),
		zap.Int("messages", len(report.Messages)),
	)
	return report
}
