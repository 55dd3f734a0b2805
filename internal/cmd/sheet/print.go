package sheet

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/louisbranch/savagesheet/internal/services/sheet/document"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/character"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/validate"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printSheet(w io.Writer, c *character.Aggregate, report validate.Report) error {
	d := c.Derived()
	fmt.Fprintf(w, "%s (%s)\n", displayName(c.Name), d.Rank.Title())
	fmt.Fprintf(w, "Pace %d  Parry %d  Toughness %d (%d)\n", d.Stats.Pace, d.Stats.Parry, d.Stats.Toughness+d.Stats.Armor, d.Stats.Armor)

	var attrs []string
	for _, a := range rules.Attributes {
		attrs = append(attrs, fmt.Sprintf("%s %s", a.Title(), rules.DieLabel(c.Attribute(a).Current())))
	}
	fmt.Fprintln(w, strings.Join(attrs, ", "))

	var skills []string
	for _, s := range c.Skills() {
		if s.Trained() {
			skills = append(skills, fmt.Sprintf("%s %s", s.Name, rules.DieLabel(s.Current())))
		}
	}
	if len(skills) > 0 {
		fmt.Fprintf(w, "Skills: %s\n", strings.Join(skills, ", "))
	}

	var edges []string
	for _, e := range c.AllEdges() {
		edges = append(edges, e.CatalogID)
	}
	if len(edges) > 0 {
		fmt.Fprintf(w, "Edges: %s\n", strings.Join(edges, ", "))
	}
	for _, attack := range c.Attacks() {
		fmt.Fprintf(w, "Attack: %s %s\n", attack.Name, attack.Damage)
	}
	return printFindings(w, report)
}

func printFindings(w io.Writer, report validate.Report) error {
	if len(report.Messages) == 0 {
		return nil
	}
	t := newTable(w)
	fmt.Fprintln(t, "SEVERITY\tSECTION\tFINDING")
	for _, m := range report.Messages {
		fmt.Fprintf(t, "%s\t%s\t%s\n", m.Severity, m.Path, m.Text)
	}
	return t.Flush()
}

func printIssues(w io.Writer, issues []document.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(w, "import: %s: %s\n", issue.Path, issue.Message)
	}
}
