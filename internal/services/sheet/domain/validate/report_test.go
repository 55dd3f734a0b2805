package validate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
)

func TestFinalizeOrdersErrorsFirst(t *testing.T) {
	report := Finalize([]Message{
		{Severity: rules.SeverityWarning, Text: "Strain is -1", Path: "gear/cyberware"},
		{Severity: rules.SeverityError, Text: "Too many edges", Path: "edges"},
	}, Options{})
	if len(report.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(report.Messages))
	}
	if report.Messages[0].Severity != rules.SeverityError {
		t.Fatalf("expected error first, got %+v", report.Messages)
	}
	if report.Validity != rules.SeverityError || report.Complete() {
		t.Fatalf("expected blocking validity, got %s", report.Validity)
	}
}

func TestFinalizeStableWithinSeverity(t *testing.T) {
	report := Finalize([]Message{
		{Severity: rules.SeverityInformation, Text: "a"},
		{Severity: rules.SeverityWarning, Text: "b"},
		{Severity: rules.SeverityInformation, Text: "c"},
		{Severity: rules.SeverityWarning, Text: "d"},
	}, Options{})
	var got []string
	for _, m := range report.Messages {
		got = append(got, m.Text)
	}
	if diff := cmp.Diff([]string{"b", "d", "a", "c"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if report.Validity != rules.SeverityWarning || !report.Complete() {
		t.Fatalf("expected warning validity, got %s", report.Validity)
	}
}

func TestFinalizeDedupes(t *testing.T) {
	messages := []Message{
		{Severity: rules.SeverityError, Text: "Brawny requires Seasoned to take this edge", Path: "edges"},
		{Severity: rules.SeverityError, Text: "Brawny requires Seasoned to take this edge", Path: "edges"},
		{Severity: rules.SeverityWarning, Text: "Brawny requires Seasoned to take this edge", Path: "edges"},
	}
	if got := len(Finalize(messages, Options{}).Messages); got != 2 {
		t.Fatalf("expected duplicates dropped to 2, got %d", got)
	}
	if got := len(Finalize(messages, Options{AllowDuplicates: true}).Messages); got != 3 {
		t.Fatalf("expected duplicates kept, got %d", got)
	}
}

func TestFinalizeCountsEverySegment(t *testing.T) {
	report := Finalize([]Message{
		{Severity: rules.SeverityError, Text: "strain", Path: "gear/cyberware"},
		{Severity: rules.SeverityWarning, Text: "heavy", Path: "gear"},
		{Severity: rules.SeverityWarning, Text: "str", Path: "gear/armor"},
		{Severity: rules.SeverityInformation, Text: "left", Path: "skills"},
	}, Options{})
	if diff := cmp.Diff(map[string]int{"gear": 1, "cyberware": 1}, report.Errors); diff != "" {
		t.Fatalf("error counters mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]int{"gear": 2, "armor": 1}, report.Warnings); diff != "" {
		t.Fatalf("warning counters mismatch (-want +got):\n%s", diff)
	}
	if report.Count(rules.SeverityInformation) != 1 {
		t.Fatal("expected one information message")
	}
}

func TestFinalizeEmpty(t *testing.T) {
	report := Finalize(nil, Options{})
	if report.Validity != rules.SeverityNone || len(report.Messages) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

func TestRankRequirementWaiver(t *testing.T) {
	acc := NewAccumulator()
	acc.rankWaivers = 1
	acc.RankRequirement("edges", "Brawler", rules.RankSeasoned)
	acc.RankRequirement("edges", "Bruiser", rules.RankSeasoned)
	messages := acc.Messages()
	if len(messages) != 1 || messages[0].Text != "Bruiser requires Seasoned to take this edge" {
		t.Fatalf("expected only the second finding, got %+v", messages)
	}
}

func TestBestThereIsLaneUsedOnce(t *testing.T) {
	acc := NewAccumulator()
	if acc.UseBestThereIs() {
		t.Fatal("expected lane closed by default")
	}
	acc.bestThereIs = 1
	if !acc.UseBestThereIs() || acc.UseBestThereIs() {
		t.Fatal("expected lane usable exactly once")
	}
}
