package catalog

import (
	"errors"
	"testing"

	apperrors "github.com/louisbranch/savagesheet/internal/platform/errors"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
)

func TestNewIndexesContent(t *testing.T) {
	cat, err := New(Content{
		Skills: []Skill{
			{ID: "fighting", Name: "Fighting", Attribute: rules.Agility},
			{ID: "notice", Name: "Notice", Attribute: rules.Smarts, Core: true},
		},
		Edges: []Edge{{ID: "brawny", Name: "Brawny"}, {ID: "quick", Name: "Quick"}},
	})
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if cat.Skills.Len() != 2 {
		t.Fatalf("expected 2 skills, got %d", cat.Skills.Len())
	}
	if got := cat.Edges.All(); got[0].ID != "brawny" || got[1].ID != "quick" {
		t.Fatalf("expected load order, got %+v", got)
	}
	skill, ok := cat.SkillByName("  fighting ")
	if !ok || skill.ID != "fighting" {
		t.Fatalf("expected fighting by name, got %+v", skill)
	}
	edge, ok := cat.EdgeByName("QUICK")
	if !ok || edge.ID != "quick" {
		t.Fatalf("expected quick by name, got %+v", edge)
	}
	if _, ok := cat.Races.Get("human"); ok {
		t.Fatal("expected missing race")
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New(Content{Edges: []Edge{{ID: "brawny"}, {ID: "brawny"}}})
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
	if apperrors.CodeOf(err) != apperrors.CodeCatalogPayloadInvalid {
		t.Fatalf("expected payload invalid code, got %s", apperrors.CodeOf(err))
	}
}

func TestNewRejectsEmptyID(t *testing.T) {
	if _, err := New(Content{Powers: []Power{{Name: "Bolt"}}}); err == nil {
		t.Fatal("expected empty id error")
	}
}

func TestErrItemNotFound(t *testing.T) {
	err := ErrItemNotFound("edge", "ghost")
	if !errors.Is(err, apperrors.New(apperrors.CodeCatalogItemNotFound, "")) {
		t.Fatalf("expected catalog item not found, got %v", err)
	}
	if !apperrors.CodeOf(err).Recoverable() {
		t.Fatal("expected missing catalog item to be recoverable")
	}
}

func TestHindranceAllows(t *testing.T) {
	tests := []struct {
		severity HindranceSeverity
		major    bool
		want     bool
	}{
		{HindranceMinor, false, true},
		{HindranceMinor, true, false},
		{HindranceMajor, true, true},
		{HindranceMajor, false, false},
		{HindranceEither, true, true},
		{HindranceEither, false, true},
	}
	for _, tt := range tests {
		h := Hindrance{Severity: tt.severity}
		if got := h.Allows(tt.major); got != tt.want {
			t.Fatalf("%s major=%v: expected %v, got %v", tt.severity, tt.major, tt.want, got)
		}
	}
}

func TestArcaneBackgroundAllowsPower(t *testing.T) {
	open := ArcaneBackground{ID: "magic"}
	if !open.AllowsPower("bolt") {
		t.Fatal("expected open list to allow any power")
	}
	restricted := ArcaneBackground{ID: "miracles", Powers: []string{"healing"}}
	if restricted.AllowsPower("bolt") || !restricted.AllowsPower("healing") {
		t.Fatal("expected restricted list to allow only listed powers")
	}
}
