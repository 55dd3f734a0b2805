package scenario

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/character"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/selection"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/validate"
)

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case "character":
		return r.runCharacterStep(ctx, state, step)
	case "recompute":
		return r.runRecomputeStep(ctx, state)
	case "roundtrip":
		return r.runRoundtripStep(ctx, state)
	case "expect":
		return r.runExpectStep(state, step)
	}

	mutation, err := r.mutation(step)
	if err != nil {
		return err
	}
	id, ok := state.currentID()
	if !ok {
		return r.failf("character is required before %s", step.Kind)
	}
	_, err = r.service.Mutate(ctx, id, mutation)
	return err
}

// mutation translates a sheet-editing step into a character mutation.
func (r *Runner) mutation(step Step) (func(*character.Aggregate) error, error) {
	cat := r.service.Catalog()
	args := step.Args

	switch step.Kind {
	case "attribute":
		attr, err := rules.ParseAttribute(requiredString(args, "name"))
		if err != nil {
			return nil, err
		}
		points, err := pointsArg(args)
		if err != nil {
			return nil, err
		}
		return func(c *character.Aggregate) error { return c.AssignAttribute(attr, points) }, nil

	case "skill":
		name := requiredString(args, "name")
		if name == "" {
			return nil, r.failf("skill name is required")
		}
		points, err := pointsArg(args)
		if err != nil {
			return nil, err
		}
		specialty := optionalString(args, "specialty", "")
		custom := optionalString(args, "attribute", "")
		return func(c *character.Aggregate) error {
			if custom != "" && c.Skill(name) == nil {
				attr, err := rules.ParseAttribute(custom)
				if err != nil {
					return err
				}
				c.AddCustomSkill(name, attr)
			}
			if specialty != "" {
				return c.AssignSpecialty(name, specialty, points)
			}
			return c.AssignSkill(name, points)
		}, nil

	case "race":
		id := requiredString(args, "id")
		if !cat.Races.Has(id) {
			return nil, catalog.ErrItemNotFound("race", id)
		}
		return func(c *character.Aggregate) error {
			c.SetRace(id)
			return nil
		}, nil

	case "framework":
		id := requiredString(args, "id")
		if strings.EqualFold(id, "none") {
			return func(c *character.Aggregate) error {
				c.ClearFramework()
				return nil
			}, nil
		}
		fw, ok := cat.Frameworks.Get(id)
		if !ok {
			return nil, catalog.ErrItemNotFound("framework", id)
		}
		return func(c *character.Aggregate) error {
			c.SetFramework(fw.ID, lineIDs(fw.Bonuses), lineIDs(fw.Complications))
			return nil
		}, nil

	case "edge":
		id := requiredString(args, "id")
		if !cat.Edges.Has(id) {
			return nil, catalog.ErrItemNotFound("edge", id)
		}
		return func(c *character.Aggregate) error {
			c.AddEdge(id)
			return nil
		}, nil

	case "remove_edge":
		index, ok := readInt(args, "index")
		if !ok {
			return nil, r.failf("remove_edge index is required")
		}
		return func(c *character.Aggregate) error { return c.RemoveEdge(index - 1) }, nil

	case "hindrance":
		id := requiredString(args, "id")
		if !cat.Hindrances.Has(id) {
			return nil, catalog.ErrItemNotFound("hindrance", id)
		}
		major := optionalBool(args, "major", false)
		return func(c *character.Aggregate) error {
			c.AddHindrance(id, major)
			return nil
		}, nil

	case "arcane_background":
		id := requiredString(args, "id")
		if !cat.ArcaneBackgrounds.Has(id) {
			return nil, catalog.ErrItemNotFound("arcane background", id)
		}
		return func(c *character.Aggregate) error {
			c.AddArcaneBackground(id)
			return nil
		}, nil

	case "power":
		id := requiredString(args, "id")
		if !cat.Powers.Has(id) {
			return nil, catalog.ErrItemNotFound("power", id)
		}
		ab := requiredString(args, "arcane_background")
		trapping := optionalString(args, "trapping", "")
		return func(c *character.Aggregate) error {
			c.AddPower(id, ab).Trapping = trapping
			return nil
		}, nil

	case "super_power":
		id := requiredString(args, "id")
		if !cat.SuperPowers.Has(id) {
			return nil, catalog.ErrItemNotFound("super power", id)
		}
		levels := optionalInt(args, "levels", 1)
		powerSet := optionalString(args, "power_set", "")
		return func(c *character.Aggregate) error {
			c.AddSuperPower(id, levels, powerSet)
			return nil
		}, nil

	case "item":
		kind, err := parseItemKind(optionalString(args, "kind", string(character.ItemGear)))
		if err != nil {
			return nil, err
		}
		id := requiredString(args, "id")
		if !hasItem(cat, kind, id) {
			return nil, catalog.ErrItemNotFound(string(kind), id)
		}
		quantity := optionalInt(args, "quantity", 1)
		equipped := optionalBool(args, "equipped", true)
		return func(c *character.Aggregate) error {
			c.AddItem(kind, id, quantity).Equipped = equipped
			return nil
		}, nil

	case "journey":
		tableID := requiredString(args, "table")
		table, ok := cat.Tables.Get(tableID)
		if !ok {
			return nil, catalog.ErrItemNotFound("table", tableID)
		}
		line, ok := readInt(args, "line")
		if !ok || line < 1 || line > len(table.Lines) {
			return nil, r.failf("journey line must be between 1 and %d", len(table.Lines))
		}
		subChoice := optionalInt(args, "sub_choice", 1) - 1
		specify := optionalString(args, "specify", "")
		return func(c *character.Aggregate) error {
			roll := c.AddJourneyRoll(table.ID, line-1, table.Lines[line-1].ID)
			roll.Selection.SetSubChoice(subChoice)
			roll.Selection.SetSpecify(specify)
			return nil
		}, nil

	case "advance":
		kind, err := character.ParseAdvanceKind(requiredString(args, "kind"))
		if err != nil {
			return nil, err
		}
		if kind == character.AdvanceEdge {
			id := requiredString(args, "edge")
			if !cat.Edges.Has(id) {
				return nil, catalog.ErrItemNotFound("edge", id)
			}
			return func(c *character.Aggregate) error {
				c.AddEdgeAdvance(id)
				return nil
			}, nil
		}
		targets := stringList(args, "targets")
		return func(c *character.Aggregate) error {
			c.AddAdvance(kind, targets...)
			return nil
		}, nil

	case "remove_advance":
		index, ok := readInt(args, "index")
		if !ok {
			return nil, r.failf("remove_advance index is required")
		}
		return func(c *character.Aggregate) error { return c.RemoveAdvance(index - 1) }, nil

	case "perk":
		perk, err := character.ParsePerk(requiredString(args, "id"))
		if err != nil {
			return nil, err
		}
		return func(c *character.Aggregate) error {
			c.AddPerk(perk)
			return nil
		}, nil

	case "select":
		return r.selectMutation(args)

	default:
		return nil, fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

// selectMutation writes a placeholder choice. Indexes in scripts are 1-based.
func (r *Runner) selectMutation(args map[string]any) (func(*character.Aggregate) error, error) {
	target := requiredString(args, "target")
	if target == "" {
		return nil, r.failf("select target is required")
	}
	value := optionalString(args, "value", "")
	index := optionalInt(args, "index", 1) - 1
	slot := optionalInt(args, "slot", 1) - 1
	kind := optionalString(args, "kind", string(character.ItemGear))

	return func(c *character.Aggregate) error {
		switch target {
		case "framework_bonus", "framework_complication":
			fw := c.Framework()
			if fw == nil {
				return r.failf("framework is required before selecting its lines")
			}
			lines := fw.Bonuses
			if target == "framework_complication" {
				lines = fw.Complications
			}
			return lines.Set(index, slot, value)
		}
		ctr, err := container(c, target, kind, index)
		if err != nil {
			return err
		}
		return ctr.Set(slot, value)
	}, nil
}

func container(c *character.Aggregate, target, kind string, index int) (*selection.Container, error) {
	switch target {
	case "race":
		if c.Race() == nil {
			return nil, fmt.Errorf("race is required before selecting its choices")
		}
		return c.Race().Selection, nil
	case "edge":
		return pick(c.Edges(), index, "edge", func(e *character.Edge) *selection.Container { return e.Selection })
	case "hindrance":
		return pick(c.Hindrances(), index, "hindrance", func(h *character.Hindrance) *selection.Container { return h.Selection })
	case "arcane_background":
		return pick(c.ArcaneBackgrounds(), index, "arcane background", func(a *character.ArcaneBackground) *selection.Container { return a.Selection })
	case "journey":
		return pick(c.Journey(), index, "journey roll", func(j *character.JourneyRoll) *selection.Container { return j.Selection })
	case "advance":
		var edges []*character.Edge
		for _, adv := range c.Advances() {
			if adv.Edge != nil {
				edges = append(edges, adv.Edge)
			}
		}
		return pick(edges, index, "edge advance", func(e *character.Edge) *selection.Container { return e.Selection })
	case "item":
		itemKind, err := parseItemKind(kind)
		if err != nil {
			return nil, err
		}
		return pick(c.Items(itemKind), index, string(itemKind), func(i *character.Item) *selection.Container { return i.Selection })
	default:
		return nil, fmt.Errorf("unknown select target %q", target)
	}
}

func pick[T any](list []T, index int, what string, get func(T) *selection.Container) (*selection.Container, error) {
	if index < 0 || index >= len(list) {
		return nil, fmt.Errorf("%s %d does not exist", what, index+1)
	}
	return get(list[index]), nil
}

func (r *Runner) runCharacterStep(ctx context.Context, state *scenarioState, step Step) error {
	name := requiredString(step.Args, "name")
	if name == "" {
		return r.failf("character name is required")
	}
	var setup []func(*character.Aggregate) error
	for _, kind := range []string{"race", "framework"} {
		id := optionalString(step.Args, kind, "")
		if id == "" {
			continue
		}
		fn, err := r.mutation(Step{Kind: kind, Args: map[string]any{"id": id}})
		if err != nil {
			return err
		}
		setup = append(setup, fn)
	}
	background := optionalString(step.Args, "background", "")

	id, _, err := r.service.Create(ctx, func(c *character.Aggregate) error {
		c.Name = name
		c.Background = background
		for _, fn := range setup {
			if err := fn(c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create character %q: %w", name, err)
	}
	state.characters[name] = id
	state.current = name
	return nil
}

func (r *Runner) runRecomputeStep(ctx context.Context, state *scenarioState) error {
	id, ok := state.currentID()
	if !ok {
		return r.failf("character is required before recompute")
	}
	_, err := r.service.Recompute(ctx, id)
	return err
}

// runRoundtripStep exports the character, imports the document back and
// expects the same derived state.
func (r *Runner) runRoundtripStep(ctx context.Context, state *scenarioState) error {
	id, ok := state.currentID()
	if !ok {
		return r.failf("character is required before roundtrip")
	}
	before, err := r.snapshot(id)
	if err != nil {
		return err
	}
	data, err := r.service.Export(ctx, id)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	importedID, issues, err := r.service.Import(ctx, data)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	state.characters[state.current] = importedID
	if len(issues) > 0 {
		return r.assertf("roundtrip import reported %d issues, first: %s", len(issues), issues[0].Message)
	}
	after, err := r.snapshot(importedID)
	if err != nil {
		return err
	}
	if diff := cmp.Diff(before, after); diff != "" {
		return r.assertf("roundtrip changed derived state (-before +after):\n%s", diff)
	}
	return nil
}

func (r *Runner) snapshot(id string) (character.Snapshot, error) {
	var snap character.Snapshot
	err := r.service.View(id, func(c *character.Aggregate, _ validate.Report) {
		snap = c.Snapshot()
	})
	return snap, err
}

func (r *Runner) runExpectStep(state *scenarioState, step Step) error {
	if name := optionalString(step.Args, "character", ""); name != "" {
		if _, ok := state.characters[name]; !ok {
			return r.failf("unknown character %q", name)
		}
		state.current = name
	}
	id, ok := state.currentID()
	if !ok {
		return r.failf("character is required before expect")
	}

	var failures []string
	err := r.service.View(id, func(c *character.Aggregate, report validate.Report) {
		failures = checkExpectations(c, report, step.Args)
	})
	if err != nil {
		return err
	}
	if len(failures) > 0 {
		return r.assertf("%s: %s", state.current, strings.Join(failures, "; "))
	}
	return nil
}

func (r *Runner) failf(format string, args ...any) error {
	return r.assertions.Failf(format, args...)
}

func (r *Runner) assertf(format string, args ...any) error {
	return r.assertions.Assertf(format, args...)
}
