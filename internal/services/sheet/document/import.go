package document

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/savagesheet/internal/platform/errors"
	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/character"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/selection"
)

// importer carries the state of one Import.
type importer struct {
	codec  *Codec
	c      *character.Aggregate
	issues []Issue
}

// Import builds a fresh aggregate from doc. Every container starts
// unapplied, so the first recompute grants immediate effects again.
func (cv *Codec) Import(doc Document) (*character.Aggregate, []Issue) {
	im := &importer{codec: cv, c: character.New(cv.catalog.Skills.All())}
	c := im.c
	c.ID = doc.ID
	c.Name = RepairText(doc.Name)
	c.Background = RepairText(doc.Background)
	c.Description = RepairText(doc.Description)
	c.SettingID = doc.SettingID
	c.UpdatedAt = doc.UpdatedAt

	im.attributes(doc.Attributes)
	im.skills(doc.Skills)
	im.race(doc.Race)
	im.framework(doc.Framework)
	im.arcaneBackgrounds(doc.ArcaneBackgrounds)
	im.edges(doc.Edges)
	im.hindrances(doc.Hindrances)
	im.powers(doc.Powers)
	im.superPowers(doc.SuperPowers, doc.LegacySuperPowers)
	im.items(&doc)
	im.journey(doc.Journey)
	im.advances(doc.Advances)
	im.perks(doc.Perks)

	if len(im.issues) > 0 {
		cv.logger.Info("document imported with issues",
			zap.String("character", c.ID),
			zap.Int("issues", len(im.issues)),
		)
	}
	return c, im.issues
}

func (im *importer) issue(path, catalogID string, code apperrors.Code, message string) {
	im.issues = append(im.issues, Issue{Path: path, CatalogID: catalogID, Code: code, Message: message})
	im.codec.logger.Debug("import issue",
		zap.String("path", path),
		zap.String("catalog_id", catalogID),
		zap.String("code", string(code)),
		zap.String("message", message),
	)
}

func (im *importer) missing(path, kind, catalogID string) {
	im.issue(path, catalogID, apperrors.CodeCatalogItemNotFound, fmt.Sprintf("%s %q is not in the catalog", kind, catalogID))
}

// container restores a selection. A malformed payload leaves the container
// empty; the item itself still loads.
func (im *importer) container(path, lineID string, sel *Selection) *selection.Container {
	if sel == nil {
		return selection.New(lineID)
	}
	ctr, err := selection.Restore(lineID, sel.Payload, sel.Keyed, sel.SubChoice, sel.Specify)
	if err != nil {
		im.codec.logger.Warn("malformed selection payload", zap.String("path", path), zap.Error(err))
		im.issue(path, lineID, apperrors.CodeOf(err), err.Error())
	}
	return ctr
}

func (im *importer) attributes(assigned map[string]int) {
	for _, name := range slices.Sorted(maps.Keys(assigned)) {
		a, err := rules.ParseAttribute(name)
		if err != nil {
			im.issue("attributes", name, apperrors.CodeDocumentDecode, err.Error())
			continue
		}
		if err := im.c.AssignAttribute(a, assigned[name]); err != nil {
			im.issue("attributes", name, apperrors.CodeOf(err), err.Error())
		}
	}
}

func (im *importer) skills(entries []SkillEntry) {
	for _, entry := range entries {
		if im.c.Skill(entry.Name) == nil {
			if entry.Attribute == "" {
				im.missing("skills", "skill", entry.Name)
				continue
			}
			a, err := rules.ParseAttribute(entry.Attribute)
			if err != nil {
				im.issue("skills", entry.Name, apperrors.CodeDocumentDecode, err.Error())
				continue
			}
			im.c.AddCustomSkill(entry.Name, a)
		}
		if err := im.c.AssignSkill(entry.Name, entry.Assigned); err != nil {
			im.issue("skills", entry.Name, apperrors.CodeOf(err), err.Error())
			continue
		}
		for _, sp := range entry.Specialties {
			if err := im.c.AssignSpecialty(entry.Name, sp.Name, sp.Assigned); err != nil {
				im.issue("skills/"+entry.Name, sp.Name, apperrors.CodeOf(err), err.Error())
			}
		}
	}
}

func (im *importer) race(entry *Entry) {
	if entry == nil {
		return
	}
	if !im.codec.catalog.Races.Has(entry.CatalogID) {
		im.missing("race", "race", entry.CatalogID)
		return
	}
	race := im.c.SetRace(entry.CatalogID)
	race.Selection = im.container("race", entry.CatalogID, entry.Selection)
}

func (im *importer) framework(entry *FrameworkEntry) {
	if entry == nil {
		return
	}
	def, ok := im.codec.catalog.Frameworks.Get(entry.CatalogID)
	if !ok {
		im.missing("framework", "framework", entry.CatalogID)
		return
	}
	bonuses := im.lines("framework/bonuses", def.Bonuses, entry.Bonuses)
	complications := im.lines("framework/complications", def.Complications, entry.Complications)
	im.c.RestoreFramework(def.ID, bonuses, complications)
}

// lines builds one container per catalog line. Entries match by line id;
// entries without one match by position.
func (im *importer) lines(path string, defs []catalog.Line, entries []LineEntry) selection.Lines {
	byID := make(map[string]LineEntry, len(entries))
	for _, e := range entries {
		if e.LineID == "" {
			continue
		}
		if !slices.ContainsFunc(defs, func(l catalog.Line) bool { return l.ID == e.LineID }) {
			im.missing(path, "framework line", e.LineID)
			continue
		}
		byID[e.LineID] = e
	}
	out := make(selection.Lines, len(defs))
	for i, def := range defs {
		var sel *Selection
		if e, ok := byID[def.ID]; ok {
			sel = e.Selection
		} else if i < len(entries) && entries[i].LineID == "" {
			sel = entries[i].Selection
		}
		out[i] = im.container(path+"/"+strconv.Itoa(i), def.ID, sel)
	}
	return out
}

func (im *importer) arcaneBackgrounds(entries []Entry) {
	for _, e := range entries {
		if !im.codec.catalog.ArcaneBackgrounds.Has(e.CatalogID) {
			im.missing("arcane_backgrounds", "arcane background", e.CatalogID)
			continue
		}
		im.c.AttachArcaneBackground(&character.ArcaneBackground{
			CatalogID: e.CatalogID,
			Selection: im.container("arcane_backgrounds", e.CatalogID, e.Selection),
		})
	}
}

func (im *importer) edges(entries []Entry) {
	for _, e := range entries {
		if !im.codec.catalog.Edges.Has(e.CatalogID) {
			im.missing("edges", "edge", e.CatalogID)
			continue
		}
		im.c.AttachEdge(&character.Edge{
			CatalogID: e.CatalogID,
			Selection: im.container("edges", e.CatalogID, e.Selection),
		})
	}
}

func (im *importer) hindrances(entries []HindranceEntry) {
	for _, e := range entries {
		if !im.codec.catalog.Hindrances.Has(e.CatalogID) {
			im.missing("hindrances", "hindrance", e.CatalogID)
			continue
		}
		im.c.AttachHindrance(&character.Hindrance{
			CatalogID: e.CatalogID,
			Major:     e.Major,
			Selection: im.container("hindrances", e.CatalogID, e.Selection),
		})
	}
}

func (im *importer) powers(entries []PowerEntry) {
	for _, e := range entries {
		if !im.codec.catalog.Powers.Has(e.CatalogID) {
			im.missing("powers", "power", e.CatalogID)
			continue
		}
		p := im.c.AddPower(e.CatalogID, e.ArcaneBackground)
		p.Trapping = e.Trapping
	}
}

func (im *importer) superPowers(current, legacy []SuperPowerEntry) {
	for _, e := range current {
		if !im.codec.catalog.SuperPowers.Has(e.CatalogID) {
			im.missing("super_powers", "super power", e.CatalogID)
			continue
		}
		im.c.AddSuperPower(e.CatalogID, e.Levels, e.PowerSet)
	}
	for _, e := range legacy {
		if !im.codec.catalog.SuperPowers.Has(e.CatalogID) {
			im.missing("legacy_super_powers", "super power", e.CatalogID)
			continue
		}
		im.c.AddLegacySuperPower(e.CatalogID, e.Levels)
	}
}

func (im *importer) items(doc *Document) {
	for _, slot := range itemSlots(doc) {
		path := "gear/" + string(slot.kind)
		for _, e := range *slot.entries {
			if !im.codec.hasItem(slot.kind, e.CatalogID) {
				im.missing(path, string(slot.kind), e.CatalogID)
				continue
			}
			im.c.AttachItem(slot.kind, &character.Item{
				CatalogID: e.CatalogID,
				Quantity:  e.Quantity,
				Equipped:  e.Equipped,
				Selection: im.container(path, e.CatalogID, e.Selection),
			})
		}
	}
}

func (im *importer) journey(entries []JourneyEntry) {
	for _, e := range entries {
		table, ok := im.codec.catalog.Tables.Get(e.TableID)
		if !ok {
			im.missing("journey", "table", e.TableID)
			continue
		}
		if e.Line < 0 || e.Line >= len(table.Lines) {
			im.issue("journey", e.TableID, apperrors.CodeSelectionLineOutOfRange, fmt.Sprintf("line %d is not on table %q", e.Line, e.TableID))
			continue
		}
		lineID := table.Lines[e.Line].ID
		im.c.AttachJourneyRoll(&character.JourneyRoll{
			TableID:   e.TableID,
			Line:      e.Line,
			Selection: im.container("journey", lineID, e.Selection),
		})
	}
}

func (im *importer) advances(entries []AdvanceEntry) {
	for i, e := range entries {
		path := "advances/" + strconv.Itoa(i)
		kind, err := character.ParseAdvanceKind(e.Kind)
		if err != nil {
			im.issue(path, e.Kind, apperrors.CodeDocumentDecode, err.Error())
			continue
		}
		if kind != character.AdvanceEdge {
			im.c.AddAdvance(kind, e.Targets...)
			continue
		}
		if e.Edge == nil || !im.codec.catalog.Edges.Has(e.Edge.CatalogID) {
			catalogID := ""
			if e.Edge != nil {
				catalogID = e.Edge.CatalogID
			}
			im.missing(path, "edge", catalogID)
			continue
		}
		im.c.AttachEdgeAdvance(&character.Edge{
			CatalogID: e.Edge.CatalogID,
			Selection: im.container(path, e.Edge.CatalogID, e.Edge.Selection),
		})
	}
}

func (im *importer) perks(names []string) {
	for _, name := range names {
		perk, err := character.ParsePerk(name)
		if err != nil {
			im.issue("hindrances/perks", name, apperrors.CodeDocumentDecode, err.Error())
			continue
		}
		im.c.AddPerk(perk)
	}
}
