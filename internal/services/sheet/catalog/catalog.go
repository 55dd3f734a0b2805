// Package catalog holds the read-only content a character sheet is built from.
//
// A Catalog is immutable after New returns and may be shared across any
// number of concurrent computations.
package catalog

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/savagesheet/internal/platform/errors"
)

// Item is implemented by every catalog entry.
type Item interface {
	ItemID() string
}

// Collection is an ordered, id-indexed list of catalog entries.
type Collection[T Item] struct {
	items []T
	byID  map[string]int
}

func newCollection[T Item](kind string, items []T) (Collection[T], error) {
	c := Collection[T]{items: make([]T, 0, len(items)), byID: make(map[string]int, len(items))}
	for _, item := range items {
		id := strings.TrimSpace(item.ItemID())
		if id == "" {
			return Collection[T]{}, apperrors.New(apperrors.CodeCatalogPayloadInvalid, fmt.Sprintf("%s id is required", kind))
		}
		if _, exists := c.byID[id]; exists {
			return Collection[T]{}, apperrors.WithMetadata(
				apperrors.CodeCatalogPayloadInvalid,
				fmt.Sprintf("duplicate %s id %q", kind, id),
				map[string]string{"Kind": kind, "ID": id},
			)
		}
		c.byID[id] = len(c.items)
		c.items = append(c.items, item)
	}
	return c, nil
}

// Get returns the entry with id.
func (c Collection[T]) Get(id string) (T, bool) {
	idx, ok := c.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[idx], true
}

// Has reports whether id exists.
func (c Collection[T]) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// All returns the entries in load order. The slice must not be modified.
func (c Collection[T]) All() []T {
	return c.items
}

// Len returns the number of entries.
func (c Collection[T]) Len() int {
	return len(c.items)
}

// Content is the raw material for a Catalog.
type Content struct {
	Skills            []Skill
	Races             []Race
	Edges             []Edge
	Hindrances        []Hindrance
	Frameworks        []Framework
	ArcaneBackgrounds []ArcaneBackground
	Powers            []Power
	SuperPowers       []SuperPower
	Tables            []Table
	Armor             []Armor
	Weapons           []Weapon
	Gear              []Gear
	Cyberware         []Cyberware
	RobotMods         []RobotMod
	Vehicles          []Vehicle
}

// Catalog is the indexed, immutable content set.
type Catalog struct {
	Skills            Collection[Skill]
	Races             Collection[Race]
	Edges             Collection[Edge]
	Hindrances        Collection[Hindrance]
	Frameworks        Collection[Framework]
	ArcaneBackgrounds Collection[ArcaneBackground]
	Powers            Collection[Power]
	SuperPowers       Collection[SuperPower]
	Tables            Collection[Table]
	Armor             Collection[Armor]
	Weapons           Collection[Weapon]
	Gear              Collection[Gear]
	Cyberware         Collection[Cyberware]
	RobotMods         Collection[RobotMod]
	Vehicles          Collection[Vehicle]

	skillsByName map[string]string
}

// New indexes content. Duplicate or empty ids are rejected.
func New(content Content) (*Catalog, error) {
	var (
		c   Catalog
		err error
	)
	if c.Skills, err = newCollection("skill", content.Skills); err != nil {
		return nil, err
	}
	if c.Races, err = newCollection("race", content.Races); err != nil {
		return nil, err
	}
	if c.Edges, err = newCollection("edge", content.Edges); err != nil {
		return nil, err
	}
	if c.Hindrances, err = newCollection("hindrance", content.Hindrances); err != nil {
		return nil, err
	}
	if c.Frameworks, err = newCollection("framework", content.Frameworks); err != nil {
		return nil, err
	}
	if c.ArcaneBackgrounds, err = newCollection("arcane background", content.ArcaneBackgrounds); err != nil {
		return nil, err
	}
	if c.Powers, err = newCollection("power", content.Powers); err != nil {
		return nil, err
	}
	if c.SuperPowers, err = newCollection("super power", content.SuperPowers); err != nil {
		return nil, err
	}
	if c.Tables, err = newCollection("table", content.Tables); err != nil {
		return nil, err
	}
	if c.Armor, err = newCollection("armor", content.Armor); err != nil {
		return nil, err
	}
	if c.Weapons, err = newCollection("weapon", content.Weapons); err != nil {
		return nil, err
	}
	if c.Gear, err = newCollection("gear", content.Gear); err != nil {
		return nil, err
	}
	if c.Cyberware, err = newCollection("cyberware", content.Cyberware); err != nil {
		return nil, err
	}
	if c.RobotMods, err = newCollection("robot mod", content.RobotMods); err != nil {
		return nil, err
	}
	if c.Vehicles, err = newCollection("vehicle", content.Vehicles); err != nil {
		return nil, err
	}

	c.skillsByName = make(map[string]string, c.Skills.Len())
	for _, skill := range c.Skills.All() {
		c.skillsByName[strings.ToLower(skill.Name)] = skill.ID
	}
	return &c, nil
}

// SkillByName finds a skill by display name, case-insensitively.
func (c *Catalog) SkillByName(name string) (Skill, bool) {
	id, ok := c.skillsByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Skill{}, false
	}
	return c.Skills.Get(id)
}

// EdgeByName finds an edge by id or display name, case-insensitively.
func (c *Catalog) EdgeByName(name string) (Edge, bool) {
	name = strings.TrimSpace(name)
	if edge, ok := c.Edges.Get(name); ok {
		return edge, true
	}
	for _, edge := range c.Edges.All() {
		if strings.EqualFold(edge.Name, name) {
			return edge, true
		}
	}
	return Edge{}, false
}

// ErrItemNotFound reports a catalog id that does not resolve.
func ErrItemNotFound(kind, id string) error {
	return apperrors.WithMetadata(
		apperrors.CodeCatalogItemNotFound,
		fmt.Sprintf("%s %q not found", kind, id),
		map[string]string{"Kind": kind, "ID": id},
	)
}
