package document

import (
	apperrors "github.com/louisbranch/savagesheet/internal/platform/errors"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/character"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/selection"
)

// Export renders c as a current-version document. A character without an
// id is given one. Granted edges and powers are left out; importing the
// document grants them again on the first recompute.
func (cv *Codec) Export(c *character.Aggregate) (Document, error) {
	if c.ID == "" {
		minted, err := cv.newID()
		if err != nil {
			return Document{}, apperrors.Wrap(apperrors.CodeUnknown, "mint character id", err)
		}
		c.ID = minted
	}
	doc := Document{
		Version:     CurrentVersion,
		ID:          c.ID,
		Name:        c.Name,
		Background:  c.Background,
		Description: c.Description,
		SettingID:   c.SettingID,
		UpdatedAt:   cv.now().UTC(),
		Attributes:  make(map[string]int, len(rules.Attributes)),
	}
	for _, a := range rules.Attributes {
		doc.Attributes[string(a)] = c.Attribute(a).Assigned
	}
	doc.Skills = cv.exportSkills(c)

	if race := c.Race(); race != nil {
		doc.Race = &Entry{CatalogID: race.CatalogID, Selection: exportSelection(race.Selection)}
	}
	if fw := c.Framework(); fw != nil {
		doc.Framework = &FrameworkEntry{
			CatalogID:     fw.CatalogID,
			Bonuses:       exportLines(fw.Bonuses),
			Complications: exportLines(fw.Complications),
		}
	}
	for _, ab := range c.ArcaneBackgrounds() {
		doc.ArcaneBackgrounds = append(doc.ArcaneBackgrounds, Entry{CatalogID: ab.CatalogID, Selection: exportSelection(ab.Selection)})
	}
	for _, e := range c.Edges() {
		doc.Edges = append(doc.Edges, Entry{CatalogID: e.CatalogID, Selection: exportSelection(e.Selection)})
	}
	for _, h := range c.Hindrances() {
		doc.Hindrances = append(doc.Hindrances, HindranceEntry{CatalogID: h.CatalogID, Major: h.Major, Selection: exportSelection(h.Selection)})
	}
	for _, p := range c.Powers() {
		doc.Powers = append(doc.Powers, PowerEntry{CatalogID: p.CatalogID, ArcaneBackground: p.ArcaneBackground, Trapping: p.Trapping})
	}
	for _, sp := range c.SuperPowers() {
		doc.SuperPowers = append(doc.SuperPowers, SuperPowerEntry{CatalogID: sp.CatalogID, Levels: sp.Levels, PowerSet: sp.PowerSet})
	}
	for _, sp := range c.LegacySuperPowers() {
		doc.LegacySuperPowers = append(doc.LegacySuperPowers, SuperPowerEntry{CatalogID: sp.CatalogID, Levels: sp.Levels})
	}
	for _, slot := range itemSlots(&doc) {
		for _, item := range c.Items(slot.kind) {
			*slot.entries = append(*slot.entries, ItemEntry{
				CatalogID: item.CatalogID,
				Quantity:  item.Quantity,
				Equipped:  item.Equipped,
				Selection: exportSelection(item.Selection),
			})
		}
	}
	for _, roll := range c.Journey() {
		doc.Journey = append(doc.Journey, JourneyEntry{TableID: roll.TableID, Line: roll.Line, Selection: exportSelection(roll.Selection)})
	}
	for _, adv := range c.Advances() {
		entry := AdvanceEntry{Kind: string(adv.Kind), Targets: adv.Targets}
		if adv.Edge != nil {
			entry.Edge = &Entry{CatalogID: adv.Edge.CatalogID, Selection: exportSelection(adv.Edge.Selection)}
		}
		doc.Advances = append(doc.Advances, entry)
	}
	for _, perk := range c.Perks() {
		doc.Perks = append(doc.Perks, string(perk))
	}
	return doc, nil
}

// exportSkills writes skills with player points, player specialties and
// skills outside the catalog. Records a directive created this run are
// left out unless the player has since put points in them.
func (cv *Codec) exportSkills(c *character.Aggregate) []SkillEntry {
	var out []SkillEntry
	for _, skill := range c.Skills() {
		var specialties []SpecialtyEntry
		for _, sp := range skill.Specialties {
			if sp.Added() && sp.Assigned == 0 {
				continue
			}
			specialties = append(specialties, SpecialtyEntry{Name: sp.Name, Assigned: sp.Assigned})
		}
		if skill.Added() && skill.Assigned == 0 && len(specialties) == 0 {
			continue
		}
		custom := !cv.catalog.Skills.Has(skill.ID)
		if skill.Assigned == 0 && len(specialties) == 0 && !custom {
			continue
		}
		entry := SkillEntry{Name: skill.Name, Assigned: skill.Assigned, Specialties: specialties}
		if custom {
			entry.Attribute = string(skill.Attribute)
		}
		out = append(out, entry)
	}
	return out
}

func exportLines(lines selection.Lines) []LineEntry {
	var out []LineEntry
	for _, ctr := range lines {
		out = append(out, LineEntry{LineID: ctr.LineID(), Selection: exportSelection(ctr)})
	}
	return out
}

// exportSelection returns nil for an untouched container.
func exportSelection(ctr *selection.Container) *Selection {
	if ctr == nil {
		return nil
	}
	sel := Selection{
		Payload:   ctr.Payload(),
		Keyed:     ctr.Keyed(),
		SubChoice: ctr.SubChoice(),
		Specify:   ctr.Specify(),
	}
	if sel.Payload == "[]" {
		sel.Payload = ""
	}
	if sel.Payload == "" && len(sel.Keyed) == 0 && sel.SubChoice == 0 && sel.Specify == "" {
		return nil
	}
	return &sel
}
