// Package filter selects catalog entries with AIP-160 filter expressions,
// for example `rank = "seasoned" AND power_points > 0`.
package filter

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	apperrors "github.com/louisbranch/savagesheet/internal/platform/errors"
)

// Kind names a catalog category.
type Kind string

const (
	KindSkills            Kind = "skills"
	KindRaces             Kind = "races"
	KindEdges             Kind = "edges"
	KindHindrances        Kind = "hindrances"
	KindFrameworks        Kind = "frameworks"
	KindArcaneBackgrounds Kind = "arcane_backgrounds"
	KindPowers            Kind = "powers"
	KindSuperPowers       Kind = "super_powers"
	KindTables            Kind = "tables"
	KindArmor             Kind = "armor"
	KindWeapons           Kind = "weapons"
	KindGear              Kind = "gear"
	KindCyberware         Kind = "cyberware"
	KindRobotMods         Kind = "robot_mods"
	KindVehicles          Kind = "vehicles"
)

// FieldType is the declared type of a filterable field.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldInt    FieldType = "int"
)

// Fields maps filterable field names to their types.
type Fields map[string]FieldType

// Names returns the field names, sorted.
func (f Fields) Names() []string {
	return slices.Sorted(maps.Keys(f))
}

func (f Fields) declarations() (*filtering.Declarations, error) {
	opts := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	for _, name := range f.Names() {
		switch f[name] {
		case FieldString:
			opts = append(opts, filtering.DeclareIdent(name, filtering.TypeString))
		case FieldInt:
			opts = append(opts, filtering.DeclareIdent(name, filtering.TypeInt))
		default:
			return nil, fmt.Errorf("field %s has unsupported type %q", name, f[name])
		}
	}
	return filtering.NewDeclarations(opts...)
}

var kindFields = map[Kind]Fields{
	KindSkills:            {"attribute": FieldString},
	KindRaces:             {"mod_slots": FieldInt},
	KindEdges:             {"rank": FieldString, "rank_level": FieldInt, "power_points": FieldInt, "power_set": FieldString},
	KindHindrances:        {"severity": FieldString},
	KindFrameworks:        {"bonuses": FieldInt, "complications": FieldInt},
	KindArcaneBackgrounds: {"skill": FieldString, "power_points": FieldInt, "starting_powers": FieldInt},
	KindPowers:            {"rank": FieldString, "rank_level": FieldInt, "power_points": FieldInt},
	KindSuperPowers:       {"cost": FieldInt, "max_level": FieldInt, "pool": FieldString},
	KindTables:            {"lines": FieldInt},
	KindArmor:             {"cost": FieldInt, "weight": FieldInt, "armor": FieldInt, "min_strength": FieldInt, "parry": FieldInt},
	KindWeapons:           {"cost": FieldInt, "weight": FieldInt, "damage": FieldString, "min_strength": FieldInt, "parry": FieldInt},
	KindGear:              {"cost": FieldInt, "weight": FieldInt},
	KindCyberware:         {"cost": FieldInt, "strain": FieldInt},
	KindRobotMods:         {"cost": FieldInt, "slots": FieldInt},
	KindVehicles:          {"cost": FieldInt},
}

// Kinds returns every filterable catalog category, sorted.
func Kinds() []Kind {
	return slices.Sorted(maps.Keys(kindFields))
}

// FieldsFor returns the filterable fields of kind. Every kind has id and name.
func FieldsFor(kind Kind) (Fields, error) {
	extra, ok := kindFields[kind]
	if !ok {
		return nil, apperrors.WithMetadata(
			apperrors.CodeNotFound,
			fmt.Sprintf("unknown catalog kind %q", kind),
			map[string]string{"Kind": string(kind)},
		)
	}
	fields := Fields{"id": FieldString, "name": FieldString}
	maps.Copy(fields, extra)
	return fields, nil
}

// Query is a type-checked filter over one catalog kind.
type Query struct {
	Kind Kind
	// Expr is nil for a blank filter.
	Expr *expr.Expr
}

// Parse checks filterStr against the fields of kind.
func Parse(kind Kind, filterStr string) (Query, error) {
	fields, err := FieldsFor(kind)
	if err != nil {
		return Query{}, err
	}
	q := Query{Kind: kind}
	if strings.TrimSpace(filterStr) == "" {
		return q, nil
	}
	decls, err := fields.declarations()
	if err != nil {
		return Query{}, err
	}
	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return Query{}, fmt.Errorf("parse %s filter: %w", kind, err)
	}
	q.Expr = parsed.CheckedExpr.Expr
	return q, nil
}

// Matches reports whether row satisfies the query.
func (q Query) Matches(row Row) (bool, error) {
	if row.Kind != q.Kind {
		return false, fmt.Errorf("%s filter cannot match a %s row", q.Kind, row.Kind)
	}
	return Evaluate(q.Expr, row.resolve)
}
