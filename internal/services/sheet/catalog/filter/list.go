package filter

import (
	"fmt"
	"math"

	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
)

// Row is one catalog entry flattened for filtering and display.
type Row struct {
	Kind   Kind
	ID     string
	Name   string
	Fields map[string]any
}

func (r Row) resolve(name string) (any, bool) {
	switch name {
	case "id":
		return r.ID, true
	case "name":
		return r.Name, true
	}
	value, ok := r.Fields[name]
	return value, ok
}

// List returns the entries of kind matching filterStr, in catalog order.
// An empty filter matches everything.
func List(cat *catalog.Catalog, kind Kind, filterStr string) ([]Row, error) {
	q, err := Parse(kind, filterStr)
	if err != nil {
		return nil, err
	}

	var out []Row
	for _, row := range rows(cat, kind) {
		ok, err := q.Matches(row)
		if err != nil {
			return nil, fmt.Errorf("evaluate filter on %s %q: %w", kind, row.ID, err)
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func rows(cat *catalog.Catalog, kind Kind) []Row {
	var out []Row
	add := func(id, name string, fields map[string]any) {
		out = append(out, Row{Kind: kind, ID: id, Name: name, Fields: fields})
	}

	switch kind {
	case KindSkills:
		for _, s := range cat.Skills.All() {
			add(s.ID, s.Name, map[string]any{"attribute": string(s.Attribute)})
		}
	case KindRaces:
		for _, r := range cat.Races.All() {
			add(r.ID, r.Name, map[string]any{"mod_slots": int64(r.ModSlots)})
		}
	case KindEdges:
		for _, e := range cat.Edges.All() {
			add(e.ID, e.Name, map[string]any{
				"rank":         e.Rank.String(),
				"rank_level":   int64(e.Rank),
				"power_points": int64(e.PowerPoints),
				"power_set":    e.PowerSet,
			})
		}
	case KindHindrances:
		for _, h := range cat.Hindrances.All() {
			severity := h.Severity
			if severity == "" {
				severity = catalog.HindranceEither
			}
			add(h.ID, h.Name, map[string]any{"severity": string(severity)})
		}
	case KindFrameworks:
		for _, f := range cat.Frameworks.All() {
			add(f.ID, f.Name, map[string]any{"bonuses": int64(len(f.Bonuses)), "complications": int64(len(f.Complications))})
		}
	case KindArcaneBackgrounds:
		for _, a := range cat.ArcaneBackgrounds.All() {
			add(a.ID, a.Name, map[string]any{
				"skill":           a.Skill,
				"power_points":    int64(a.PowerPoints),
				"starting_powers": int64(a.StartingPowers),
			})
		}
	case KindPowers:
		for _, p := range cat.Powers.All() {
			add(p.ID, p.Name, map[string]any{
				"rank":         p.Rank.String(),
				"rank_level":   int64(p.Rank),
				"power_points": int64(p.PowerPoints),
			})
		}
	case KindSuperPowers:
		for _, s := range cat.SuperPowers.All() {
			add(s.ID, s.Name, map[string]any{"cost": int64(s.Cost), "max_level": int64(s.MaxLevel), "pool": s.Pool})
		}
	case KindTables:
		for _, t := range cat.Tables.All() {
			add(t.ID, t.Name, map[string]any{"lines": int64(len(t.Lines))})
		}
	case KindArmor:
		for _, a := range cat.Armor.All() {
			add(a.ID, a.Name, map[string]any{
				"cost":         int64(a.Cost),
				"weight":       weight(a.Weight),
				"armor":        int64(a.Armor),
				"min_strength": int64(a.MinStrength),
				"parry":        int64(a.Parry),
			})
		}
	case KindWeapons:
		for _, w := range cat.Weapons.All() {
			add(w.ID, w.Name, map[string]any{
				"cost":         int64(w.Cost),
				"weight":       weight(w.Weight),
				"damage":       w.Damage,
				"min_strength": int64(w.MinStrength),
				"parry":        int64(w.Parry),
			})
		}
	case KindGear:
		for _, g := range cat.Gear.All() {
			add(g.ID, g.Name, map[string]any{"cost": int64(g.Cost), "weight": weight(g.Weight)})
		}
	case KindCyberware:
		for _, c := range cat.Cyberware.All() {
			add(c.ID, c.Name, map[string]any{"cost": int64(c.Cost), "strain": int64(c.Strain)})
		}
	case KindRobotMods:
		for _, r := range cat.RobotMods.All() {
			add(r.ID, r.Name, map[string]any{"cost": int64(r.Cost), "slots": int64(r.Slots)})
		}
	case KindVehicles:
		for _, v := range cat.Vehicles.All() {
			add(v.ID, v.Name, map[string]any{"cost": int64(v.Cost)})
		}
	}
	return out
}

// weight rounds to whole pounds; filters only compare integers.
func weight(w float64) int64 {
	return int64(math.Round(w))
}
