package rules

import (
	"encoding/json"
	"testing"
)

func TestDieConversions(t *testing.T) {
	tests := []struct {
		index int
		sides int
		pips  int
		label string
		half  int
	}{
		{index: 0, sides: 0, pips: 0, label: "-", half: 0},
		{index: 1, sides: 4, pips: 0, label: "d4", half: 2},
		{index: 2, sides: 6, pips: 0, label: "d6", half: 3},
		{index: 3, sides: 8, pips: 0, label: "d8", half: 4},
		{index: 4, sides: 10, pips: 0, label: "d10", half: 5},
		{index: 5, sides: 12, pips: 0, label: "d12", half: 6},
		{index: 6, sides: 12, pips: 1, label: "d12+1", half: 6},
		{index: 7, sides: 12, pips: 2, label: "d12+2", half: 7},
	}
	for _, tt := range tests {
		if got := DieSides(tt.index); got != tt.sides {
			t.Fatalf("DieSides(%d) = %d, want %d", tt.index, got, tt.sides)
		}
		if got := DiePips(tt.index); got != tt.pips {
			t.Fatalf("DiePips(%d) = %d, want %d", tt.index, got, tt.pips)
		}
		if got := DieLabel(tt.index); got != tt.label {
			t.Fatalf("DieLabel(%d) = %q, want %q", tt.index, got, tt.label)
		}
		if got := HalfDie(tt.index); got != tt.half {
			t.Fatalf("HalfDie(%d) = %d, want %d", tt.index, got, tt.half)
		}
		if tt.index > 0 {
			parsed, err := ParseDie(tt.label)
			if err != nil {
				t.Fatalf("ParseDie(%q): %v", tt.label, err)
			}
			if parsed != tt.index {
				t.Fatalf("ParseDie(%q) = %d, want %d", tt.label, parsed, tt.index)
			}
		}
	}
}

func TestParseDieRejectsInvalid(t *testing.T) {
	for _, label := range []string{"d5", "8", "d8+1", "d12+x", "dx"} {
		if _, err := ParseDie(label); err == nil {
			t.Fatalf("expected error for %q", label)
		}
	}
}

func TestRankForAdvances(t *testing.T) {
	tests := map[int]Rank{
		0: RankNovice, 3: RankNovice, 4: RankSeasoned, 7: RankSeasoned,
		8: RankVeteran, 12: RankHeroic, 16: RankLegendary, 40: RankLegendary, -1: RankNovice,
	}
	for advances, want := range tests {
		if got := RankForAdvances(advances); got != want {
			t.Fatalf("RankForAdvances(%d) = %s, want %s", advances, got, want)
		}
	}
}

func TestRankJSON(t *testing.T) {
	var payload struct {
		Rank Rank `json:"rank"`
	}
	if err := json.Unmarshal([]byte(`{"rank":"veteran"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Rank != RankVeteran {
		t.Fatalf("expected veteran, got %s", payload.Rank)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"rank":"veteran"}` {
		t.Fatalf("unexpected json %s", data)
	}
	if err := json.Unmarshal([]byte(`{"rank":"mythic"}`), &payload); err == nil {
		t.Fatal("expected unknown rank error")
	}
}

func TestRankAllows(t *testing.T) {
	if !RankSeasoned.Allows(RankNovice) || !RankSeasoned.Allows(RankSeasoned) {
		t.Fatal("expected seasoned to allow novice and seasoned gates")
	}
	if RankSeasoned.Allows(RankVeteran) {
		t.Fatal("expected seasoned not to allow veteran gate")
	}
	if RankHeroic.Title() != "Heroic" {
		t.Fatalf("unexpected title %q", RankHeroic.Title())
	}
}

func TestParseAttribute(t *testing.T) {
	got, err := ParseAttribute(" Strength ")
	if err != nil || got != Strength {
		t.Fatalf("expected strength, got %q (%v)", got, err)
	}
	if _, err := ParseAttribute("luck"); err == nil {
		t.Fatal("expected unknown attribute error")
	}
}

func TestSeverityOrdering(t *testing.T) {
	if !(SeverityInformation < SeverityWarning && SeverityWarning < SeverityError) {
		t.Fatal("expected Information < Warning < Error")
	}
	if SeverityWarning.Blocking() || !SeverityError.Blocking() {
		t.Fatal("only errors block completion")
	}
}
