package directive

import (
	"strings"
)

// Selection is the player-choice source for one container.
type Selection interface {
	Choice(occurrence int) (string, bool)
	Specify() string
}

// SkipReason explains why a directive was dropped during resolution.
type SkipReason string

const (
	SkipMissingChoice SkipReason = "missing_choice"
	SkipInvalidOption SkipReason = "invalid_option"
	SkipMissingSpec   SkipReason = "missing_specification"
)

// Skipped is a directive dropped during resolution.
type Skipped struct {
	Directive  Directive
	Occurrence int
	Reason     SkipReason
}

// Resolve substitutes placeholders left to right: the n-th placeholder in
// the list consumes choice n. A directive whose choice is missing is dropped
// whole and still consumes its slot.
func Resolve(directives []Directive, sel Selection) ([]Directive, []Skipped) {
	resolved := make([]Directive, 0, len(directives))
	var skipped []Skipped
	occurrence := 0
	for _, d := range directives {
		if d.Placeholder != PlaceholderNone {
			slot := occurrence
			occurrence++
			value, ok := "", false
			if sel != nil {
				value, ok = sel.Choice(slot)
			}
			if !ok {
				skipped = append(skipped, Skipped{Directive: d, Occurrence: slot, Reason: SkipMissingChoice})
				continue
			}
			if options := d.Options(); options != nil {
				if !containsFold(options, value) {
					skipped = append(skipped, Skipped{Directive: d, Occurrence: slot, Reason: SkipInvalidOption})
					continue
				}
				d.Modifier = ""
			}
			d.Target = strings.Replace(d.Target, d.Placeholder.Tag(), value, 1)
			d.Placeholder = PlaceholderNone
		}
		if d.Specify {
			text := ""
			if sel != nil {
				text = strings.TrimSpace(sel.Specify())
			}
			if text == "" {
				skipped = append(skipped, Skipped{Directive: d, Reason: SkipMissingSpec})
				continue
			}
			d.Target = strings.ReplaceAll(d.Target, SpecifyTag, text)
			d.Modifier = strings.ReplaceAll(d.Modifier, SpecifyTag, text)
			d.Specify = false
		}
		resolved = append(resolved, d)
	}
	return resolved, skipped
}

// CountPlaceholders returns how many choices a directive list consumes.
func CountPlaceholders(directives []Directive) int {
	n := 0
	for _, d := range directives {
		if d.Placeholder != PlaceholderNone {
			n++
		}
	}
	return n
}

func containsFold(options []string, value string) bool {
	for _, option := range options {
		if strings.EqualFold(option, value) {
			return true
		}
	}
	return false
}
