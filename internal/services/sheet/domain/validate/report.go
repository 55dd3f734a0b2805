// Package validate inspects a fully derived character and reports rule
// violations.
package validate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
)

// PathSeparator splits a category path into UI sections.
const PathSeparator = "/"

// Message is one finding.
type Message struct {
	Severity rules.Severity
	Text     string
	Path     string
}

// Segments returns the UI sections of the message's path.
func (m Message) Segments() []string {
	var out []string
	for _, segment := range strings.Split(m.Path, PathSeparator) {
		if segment = strings.TrimSpace(segment); segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

// Accumulator collects findings during one validation pass.
type Accumulator struct {
	messages []Message

	// rankWaivers is how many "requires <rank>" findings may still be suppressed.
	rankWaivers int
	// bestThereIs is how many super powers may still exceed the power limit.
	bestThereIs int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

func (a *Accumulator) add(severity rules.Severity, path, format string, args ...any) {
	a.messages = append(a.messages, Message{Severity: severity, Text: fmt.Sprintf(format, args...), Path: path})
}

// Errorf records an Error finding.
func (a *Accumulator) Errorf(path, format string, args ...any) {
	a.add(rules.SeverityError, path, format, args...)
}

// Warnf records a Warning finding.
func (a *Accumulator) Warnf(path, format string, args ...any) {
	a.add(rules.SeverityWarning, path, format, args...)
}

// Infof records an Information finding.
func (a *Accumulator) Infof(path, format string, args ...any) {
	a.add(rules.SeverityInformation, path, format, args...)
}

// RankRequirement records that an edge needs a higher rank. Under the
// born_a_hero setting flag the first such finding is waived.
func (a *Accumulator) RankRequirement(path, edge string, rank rules.Rank) {
	if a.rankWaivers > 0 {
		a.rankWaivers--
		return
	}
	a.Errorf(path, "%s requires %s to take this edge", edge, rank.Title())
}

// UseBestThereIs consumes the over-limit lane. It reports false once used.
func (a *Accumulator) UseBestThereIs() bool {
	if a.bestThereIs <= 0 {
		return false
	}
	a.bestThereIs--
	return true
}

// Messages returns the findings in encounter order.
func (a *Accumulator) Messages() []Message {
	return slices.Clone(a.messages)
}

// Options tunes finalization.
type Options struct {
	// AllowDuplicates keeps repeated (text, severity) findings.
	AllowDuplicates bool
}

// Report is the finalized validation result.
type Report struct {
	Messages []Message
	Validity rules.Severity
	Errors   map[string]int
	Warnings map[string]int
}

// Complete reports whether nothing blocks the character.
func (r Report) Complete() bool {
	return !r.Validity.Blocking()
}

// Count returns the number of findings at severity.
func (r Report) Count(severity rules.Severity) int {
	n := 0
	for _, m := range r.Messages {
		if m.Severity == severity {
			n++
		}
	}
	return n
}

// Finalize sorts findings by severity, highest first and otherwise in
// encounter order, drops repeated (text, severity) pairs unless asked not
// to, and counts errors and warnings per path segment.
func Finalize(messages []Message, opts Options) Report {
	report := Report{Errors: map[string]int{}, Warnings: map[string]int{}}

	type dedupeKey struct {
		text     string
		severity rules.Severity
	}
	seen := make(map[dedupeKey]bool, len(messages))
	for _, m := range messages {
		key := dedupeKey{text: m.Text, severity: m.Severity}
		if !opts.AllowDuplicates && seen[key] {
			continue
		}
		seen[key] = true
		report.Messages = append(report.Messages, m)
	}

	slices.SortStableFunc(report.Messages, func(a, b Message) int {
		return int(b.Severity) - int(a.Severity)
	})

	for _, m := range report.Messages {
		report.Validity = max(report.Validity, m.Severity)
		var counters map[string]int
		switch m.Severity {
		case rules.SeverityError:
			counters = report.Errors
		case rules.SeverityWarning:
			counters = report.Warnings
		default:
			continue
		}
		for _, segment := range m.Segments() {
			counters[segment]++
		}
	}
	return report
}
