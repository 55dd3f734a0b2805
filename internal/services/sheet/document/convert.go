package document

import (
	"time"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/savagesheet/internal/platform/errors"
	"github.com/louisbranch/savagesheet/internal/platform/id"
	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/character"
)

// Codec imports and exports documents against one catalog.
type Codec struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
	now     func() time.Time
	newID   func() (string, error)
}

// Option configures a Codec.
type Option func(*Codec)

// WithLogger sets the logger used for import diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock sets the clock that stamps exported documents.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator sets how ids are minted for characters that have none.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(c *Codec) {
		if newID != nil {
			c.newID = newID
		}
	}
}

// New returns a codec.
func New(cat *catalog.Catalog, opts ...Option) *Codec {
	c := &Codec{
		catalog: cat,
		logger:  zap.NewNop(),
		now:     time.Now,
		newID:   id.NewID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue is a part of a document Import could not load.
type Issue struct {
	Path      string
	CatalogID string
	Code      apperrors.Code
	Message   string
}

type itemSlot struct {
	kind    character.ItemKind
	entries *[]ItemEntry
}

// itemSlots pairs each equipment kind with its document field.
func itemSlots(doc *Document) []itemSlot {
	return []itemSlot{
		{character.ItemArmor, &doc.Armor},
		{character.ItemWeapon, &doc.Weapons},
		{character.ItemGear, &doc.Gear},
		{character.ItemCyberware, &doc.Cyberware},
		{character.ItemRobotMod, &doc.RobotMods},
		{character.ItemVehicle, &doc.Vehicles},
	}
}

// hasItem reports whether the catalog lists id under kind.
func (c *Codec) hasItem(kind character.ItemKind, id string) bool {
	switch kind {
	case character.ItemArmor:
		return c.catalog.Armor.Has(id)
	case character.ItemWeapon:
		return c.catalog.Weapons.Has(id)
	case character.ItemGear:
		return c.catalog.Gear.Has(id)
	case character.ItemCyberware:
		return c.catalog.Cyberware.Has(id)
	case character.ItemRobotMod:
		return c.catalog.RobotMods.Has(id)
	case character.ItemVehicle:
		return c.catalog.Vehicles.Has(id)
	default:
		return false
	}
}
