package document

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
	"time"
)

// legacyDocument is the version 1 layout: camelCase keys, assignments as
// name maps and positional selection payloads only.
type legacyDocument struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Background  string         `json:"background"`
	Description string         `json:"description"`
	Setting     string         `json:"setting"`
	UpdatedAt   string         `json:"updatedAt"`
	Attributes  map[string]int `json:"attributeAssignments"`
	Skills      map[string]int `json:"skillAssignments"`

	Race              *legacyEntry       `json:"race"`
	Framework         *legacyFramework   `json:"framework"`
	ArcaneBackgrounds []legacyEntry      `json:"arcaneBackgrounds"`
	Edges             []legacyEntry      `json:"edges"`
	Hindrances        []legacyEntry      `json:"hindrances"`
	Powers            []legacyPower      `json:"powers"`
	SuperPowers       []legacySuperPower `json:"superPowers"`
	Armor             []legacyEntry      `json:"armor"`
	Weapons           []legacyEntry      `json:"weapons"`
	Gear              []legacyEntry      `json:"gear"`
	Cyberware         []legacyEntry      `json:"cyberware"`
	Vehicles          []legacyEntry      `json:"vehicles"`
}

type legacyEntry struct {
	CatalogID        string          `json:"catalogId"`
	SelectionPayload json.RawMessage `json:"selectionPayload"`
	Major            bool            `json:"major"`
	Quantity         int             `json:"quantity"`
}

type legacyFramework struct {
	CatalogID     string            `json:"catalogId"`
	Bonuses       []json.RawMessage `json:"bonusSelections"`
	Complications []json.RawMessage `json:"complicationSelections"`
}

type legacyPower struct {
	CatalogID        string `json:"catalogId"`
	ArcaneBackground string `json:"arcaneBackground"`
}

type legacySuperPower struct {
	CatalogID string `json:"catalogId"`
	Levels    int    `json:"levels"`
}

func (l legacyDocument) upgrade() Document {
	doc := Document{
		Version:     CurrentVersion,
		ID:          l.ID,
		Name:        l.Name,
		Background:  l.Background,
		Description: l.Description,
		SettingID:   l.Setting,
		Attributes:  l.Attributes,
	}
	if t, err := time.Parse(time.RFC3339, l.UpdatedAt); err == nil {
		doc.UpdatedAt = t
	}
	for _, name := range slices.Sorted(maps.Keys(l.Skills)) {
		doc.Skills = append(doc.Skills, SkillEntry{Name: name, Assigned: l.Skills[name]})
	}
	if l.Race != nil {
		race := l.Race.entry()
		doc.Race = &race
	}
	if l.Framework != nil {
		fw := &FrameworkEntry{CatalogID: l.Framework.CatalogID}
		for _, raw := range l.Framework.Bonuses {
			fw.Bonuses = append(fw.Bonuses, LineEntry{Selection: legacySelection(raw)})
		}
		for _, raw := range l.Framework.Complications {
			fw.Complications = append(fw.Complications, LineEntry{Selection: legacySelection(raw)})
		}
		doc.Framework = fw
	}
	for _, e := range l.ArcaneBackgrounds {
		doc.ArcaneBackgrounds = append(doc.ArcaneBackgrounds, e.entry())
	}
	for _, e := range l.Edges {
		doc.Edges = append(doc.Edges, e.entry())
	}
	for _, e := range l.Hindrances {
		doc.Hindrances = append(doc.Hindrances, HindranceEntry{CatalogID: e.CatalogID, Major: e.Major, Selection: legacySelection(e.SelectionPayload)})
	}
	for _, p := range l.Powers {
		doc.Powers = append(doc.Powers, PowerEntry{CatalogID: p.CatalogID, ArcaneBackground: p.ArcaneBackground})
	}
	for _, sp := range l.SuperPowers {
		doc.SuperPowers = append(doc.SuperPowers, SuperPowerEntry{CatalogID: sp.CatalogID, Levels: sp.Levels})
	}
	doc.Armor = legacyItems(l.Armor)
	doc.Weapons = legacyItems(l.Weapons)
	doc.Gear = legacyItems(l.Gear)
	doc.Cyberware = legacyItems(l.Cyberware)
	doc.Vehicles = legacyItems(l.Vehicles)
	return doc
}

func (e legacyEntry) entry() Entry {
	return Entry{CatalogID: e.CatalogID, Selection: legacySelection(e.SelectionPayload)}
}

func legacyItems(entries []legacyEntry) []ItemEntry {
	var out []ItemEntry
	for _, e := range entries {
		out = append(out, ItemEntry{CatalogID: e.CatalogID, Quantity: e.Quantity, Equipped: true, Selection: legacySelection(e.SelectionPayload)})
	}
	return out
}

// legacySelection accepts a payload stored either as a JSON array or as a
// string holding one.
func legacySelection(raw json.RawMessage) *Selection {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		var inner string
		if err := json.Unmarshal(raw, &inner); err == nil {
			text = inner
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return &Selection{Payload: text}
}
