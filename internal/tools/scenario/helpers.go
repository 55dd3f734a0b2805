package scenario

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/character"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/validate"
)

func requiredString(args map[string]any, key string) string {
	value, ok := args[key]
	if !ok {
		return ""
	}
	text, ok := value.(string)
	if ok && text != "" {
		return text
	}
	return ""
}

func readInt(args map[string]any, key string) (int, bool) {
	value, ok := args[key]
	if !ok {
		return 0, false
	}
	switch typed := value.(type) {
	case int:
		return typed, true
	case float64:
		return int(typed), true
	default:
		return 0, false
	}
}

func optionalString(args map[string]any, key, fallback string) string {
	value, ok := args[key]
	if !ok {
		return fallback
	}
	text, ok := value.(string)
	if ok && text != "" {
		return text
	}
	return fallback
}

func optionalInt(args map[string]any, key string, fallback int) int {
	if value, ok := readInt(args, key); ok {
		return value
	}
	return fallback
}

func optionalBool(args map[string]any, key string, fallback bool) bool {
	if value, ok := readBool(args, key); ok {
		return value
	}
	return fallback
}

func readBool(args map[string]any, key string) (bool, bool) {
	value, ok := args[key]
	if !ok {
		return false, false
	}
	switch typed := value.(type) {
	case bool:
		return typed, true
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
	}
	return false, false
}

// stringList reads a Lua array of strings or a single string.
func stringList(args map[string]any, key string) []string {
	switch typed := args[key].(type) {
	case string:
		return []string{typed}
	case []any:
		out := make([]string, 0, len(typed))
		for _, v := range typed {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func pointsArg(args map[string]any) (int, error) {
	points, ok := readInt(args, "points")
	if !ok {
		return 0, fmt.Errorf("points is required")
	}
	if points < 0 {
		return 0, fmt.Errorf("points must not be negative")
	}
	return points, nil
}

func parseItemKind(value string) (character.ItemKind, error) {
	kind := character.ItemKind(value)
	if !slices.Contains(character.ItemKinds, kind) {
		return "", fmt.Errorf("unknown item kind %q", value)
	}
	return kind, nil
}

func hasItem(cat *catalog.Catalog, kind character.ItemKind, id string) bool {
	switch kind {
	case character.ItemArmor:
		return cat.Armor.Has(id)
	case character.ItemWeapon:
		return cat.Weapons.Has(id)
	case character.ItemGear:
		return cat.Gear.Has(id)
	case character.ItemCyberware:
		return cat.Cyberware.Has(id)
	case character.ItemRobotMod:
		return cat.RobotMods.Has(id)
	case character.ItemVehicle:
		return cat.Vehicles.Has(id)
	default:
		return false
	}
}

func lineIDs(lines []catalog.Line) []string {
	ids := make([]string, len(lines))
	for i, line := range lines {
		ids[i] = line.ID
	}
	return ids
}

// checkExpectations compares the character against every key in args and
// returns one description per mismatch.
func checkExpectations(c *character.Aggregate, report validate.Report, args map[string]any) []string {
	var failures []string
	mismatch := func(what string, want, got any) {
		failures = append(failures, fmt.Sprintf("%s = %v, want %v", what, got, want))
	}

	if want := optionalString(args, "validity", ""); want != "" && !strings.EqualFold(want, report.Validity.String()) {
		mismatch("validity", want, report.Validity)
	}
	if want, ok := readBool(args, "complete"); ok && want != report.Complete() {
		mismatch("complete", want, report.Complete())
	}
	if want := optionalString(args, "rank", ""); want != "" && !strings.EqualFold(want, c.Rank().String()) {
		mismatch("rank", want, c.Rank())
	}
	if want, ok := readInt(args, "errors"); ok && want != report.Count(rules.SeverityError) {
		mismatch("errors", want, report.Count(rules.SeverityError))
	}
	if want, ok := readInt(args, "warnings"); ok && want != report.Count(rules.SeverityWarning) {
		mismatch("warnings", want, report.Count(rules.SeverityWarning))
	}

	stats := c.Derived().Stats
	for key, got := range map[string]int{
		"pace":       stats.Pace,
		"parry":      stats.Parry,
		"toughness":  stats.Toughness,
		"armor":      stats.Armor,
		"funds":      stats.Funds,
		"strain":     stats.Strain,
		"load_limit": stats.LoadLimit,
	} {
		if want, ok := readInt(args, key); ok && want != got {
			mismatch(key, want, got)
		}
	}

	if text := optionalString(args, "message", ""); text != "" && !hasMessage(report, text) {
		failures = append(failures, fmt.Sprintf("no finding mentions %q", text))
	}
	if text := optionalString(args, "no_message", ""); text != "" && hasMessage(report, text) {
		failures = append(failures, fmt.Sprintf("unexpected finding mentions %q", text))
	}
	for _, id := range stringList(args, "edges") {
		if !c.HasEdge(id) {
			failures = append(failures, fmt.Sprintf("missing edge %q", id))
		}
	}
	if traits, ok := args["attributes"].(map[string]any); ok {
		for name, want := range traits {
			attr, err := rules.ParseAttribute(name)
			if err != nil {
				failures = append(failures, err.Error())
				continue
			}
			if got := rules.DieLabel(c.Attribute(attr).Current()); !strings.EqualFold(fmt.Sprint(want), got) {
				mismatch(name, want, got)
			}
		}
	}
	if traits, ok := args["skills"].(map[string]any); ok {
		for name, want := range traits {
			skill := c.Skill(name)
			if skill == nil {
				failures = append(failures, fmt.Sprintf("missing skill %q", name))
				continue
			}
			if got := rules.DieLabel(skill.Current()); !strings.EqualFold(fmt.Sprint(want), got) {
				mismatch(name, want, got)
			}
		}
	}

	sort.Strings(failures)
	return failures
}

func hasMessage(report validate.Report, text string) bool {
	text = strings.ToLower(text)
	return slices.ContainsFunc(report.Messages, func(m validate.Message) bool {
		return strings.Contains(strings.ToLower(m.Text), text)
	})
}
