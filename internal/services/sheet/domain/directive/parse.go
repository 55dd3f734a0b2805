package directive

import (
	"errors"
	"strconv"
	"strings"
)

// Placeholder is a bracketed tag in a directive target replaced by a
// player choice.
type Placeholder int

const (
	PlaceholderNone Placeholder = iota
	PlaceholderSelectEdge
	PlaceholderChooseEdge
	PlaceholderSelectSkill
	PlaceholderChooseSkill
)

// SpecifyTag is replaced by a table line's free-text specification.
const SpecifyTag = "[specify]"

var placeholderTags = []struct {
	tag         string
	placeholder Placeholder
}{
	{"[select_edge]", PlaceholderSelectEdge},
	{"[choose_edge]", PlaceholderChooseEdge},
	{"[select_skill]", PlaceholderSelectSkill},
	{"[choose_skill]", PlaceholderChooseSkill},
}

// Tag returns the bracketed text of the placeholder.
func (p Placeholder) Tag() string {
	for _, t := range placeholderTags {
		if t.placeholder == p {
			return t.tag
		}
	}
	return ""
}

// Choose reports whether the placeholder takes its options from the modifier.
func (p Placeholder) Choose() bool {
	return p == PlaceholderChooseEdge || p == PlaceholderChooseSkill
}

// ErrEmpty is returned for a blank directive.
var ErrEmpty = errors.New("empty directive")

// Directive is one parsed effect instruction:
//
//	<action>[:<target>[|<modifier>]][ <magnitude>]
type Directive struct {
	Raw          string
	Action       string
	Kind         Kind
	Target       string
	Modifier     string
	Magnitude    int
	HasMagnitude bool
	Placeholder  Placeholder
	// Specify is set when the target or modifier carries [specify].
	Specify bool
}

// Phase returns when the directive runs.
func (d Directive) Phase() Phase {
	return d.Kind.Phase()
}

// Parse parses one directive. Unknown actions parse to KindUnknown.
func Parse(raw string) (Directive, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Directive{}, ErrEmpty
	}
	d := Directive{Raw: raw, Magnitude: 1}
	if i := strings.LastIndexByte(text, ' '); i >= 0 {
		if n, err := strconv.Atoi(text[i+1:]); err == nil {
			d.Magnitude = n
			d.HasMagnitude = true
			text = strings.TrimSpace(text[:i])
		}
	}

	action, rest, _ := strings.Cut(text, ":")
	target, modifier, _ := strings.Cut(rest, "|")
	d.Action = strings.ToLower(strings.TrimSpace(action))
	d.Kind = KindOf(d.Action)
	d.Target = strings.TrimSpace(target)
	d.Modifier = strings.TrimSpace(modifier)
	for _, t := range placeholderTags {
		if strings.Contains(d.Target, t.tag) {
			d.Placeholder = t.placeholder
			break
		}
	}
	d.Specify = strings.Contains(d.Target, SpecifyTag) || strings.Contains(d.Modifier, SpecifyTag)
	return d, nil
}

// ParseAll parses a directive list, dropping blank entries.
func ParseAll(lines []string) []Directive {
	out := make([]Directive, 0, len(lines))
	for _, line := range lines {
		d, err := Parse(line)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Options returns the modifier's option list for choose placeholders.
func (d Directive) Options() []string {
	if !d.Placeholder.Choose() || d.Modifier == "" {
		return nil
	}
	var options []string
	for _, option := range strings.Split(d.Modifier, ",") {
		if option = strings.TrimSpace(option); option != "" {
			options = append(options, option)
		}
	}
	return options
}

// String renders the directive back into its textual form.
func (d Directive) String() string {
	var b strings.Builder
	b.WriteString(d.Action)
	if d.Target != "" || d.Modifier != "" {
		b.WriteByte(':')
		b.WriteString(d.Target)
	}
	if d.Modifier != "" {
		b.WriteByte('|')
		b.WriteString(d.Modifier)
	}
	if d.HasMagnitude {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(d.Magnitude))
	}
	return b.String()
}
