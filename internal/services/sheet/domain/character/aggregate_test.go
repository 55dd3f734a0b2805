package character

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
)

func testSkills() []catalog.Skill {
	return []catalog.Skill{
		{ID: "athletics", Name: "Athletics", Attribute: rules.Agility, Core: true},
		{ID: "fighting", Name: "Fighting", Attribute: rules.Agility},
		{ID: "knowledge", Name: "Knowledge", Attribute: rules.Smarts, Knowledge: true},
	}
}

func TestAttributeCurrentInvariant(t *testing.T) {
	for assigned := 0; assigned <= 4; assigned++ {
		for boost := -1; boost <= 2; boost++ {
			for advance := 0; advance <= 2; advance++ {
				for hardSet := 0; hardSet <= 7; hardSet++ {
					c := New(nil)
					if err := c.AssignAttribute(rules.Vigor, assigned); err != nil {
						t.Fatalf("assign: %v", err)
					}
					c.BoostAttribute(rules.Vigor, boost)
					for range advance {
						c.AdvanceAttribute(rules.Vigor)
					}
					c.RaiseAttribute(rules.Vigor, hardSet)

					want := max(hardSet, 1+assigned+boost+advance)
					if got := c.Attribute(rules.Vigor).Current(); got != want {
						t.Fatalf("assigned=%d boost=%d advance=%d hardSet=%d: expected %d, got %d",
							assigned, boost, advance, hardSet, want, got)
					}
				}
			}
		}
	}
}

func TestAssignAttributeRejectsInvalid(t *testing.T) {
	c := New(nil)
	if err := c.AssignAttribute("luck", 1); err == nil {
		t.Fatal("expected unknown attribute error")
	}
	if err := c.AssignAttribute(rules.Agility, -1); err == nil {
		t.Fatal("expected negative points error")
	}
}

func TestSkillCurrent(t *testing.T) {
	c := New(testSkills())
	if got := c.Skill("athletics").Current(); got != rules.DieD4 {
		t.Fatalf("expected core skill at d4, got %d", got)
	}
	if c.Skill("Fighting").Trained() {
		t.Fatal("expected fighting untrained")
	}
	if err := c.AssignSkill("fighting", 2); err != nil {
		t.Fatalf("assign skill: %v", err)
	}
	c.BoostSkill("fighting", 1)
	c.AdvanceSkill("fighting")
	if got := c.Skill("fighting").Current(); got != rules.DieD10 {
		t.Fatalf("expected d10, got %s", rules.DieLabel(got))
	}
	c.RaiseSkill("fighting", 6)
	if got := c.Skill("fighting").Current(); got != 6 {
		t.Fatalf("expected raised to d12+1, got %s", rules.DieLabel(got))
	}
	if err := c.AssignSkill("sailing", 1); err == nil {
		t.Fatal("expected unknown skill error")
	}
}

func TestResetDerivedClearsDirectiveEffects(t *testing.T) {
	c := New(testSkills())
	_ = c.AssignAttribute(rules.Strength, 2)
	_ = c.AssignSkill("fighting", 1)
	_ = c.AssignSpecialty("knowledge", "Science", 1)

	c.BoostAttribute(rules.Strength, 1)
	c.RaiseAttribute(rules.Agility, 4)
	c.BoostSkill("fighting", 2)
	c.EnsureSkill("Occult", rules.Smarts)
	c.BoostSkill("Occult", 1)
	c.BoostSpecialty("knowledge", "Science", 1)
	c.BoostSpecialty("knowledge", "Battle", 1)
	c.AddModifier(StatPace, 2)
	c.AddNaturalAttack("Claws", "Str+d4")
	c.EnableBestThereIs()
	c.GrantPowerPoints("magic", 5)
	c.GrantEdge("brave", "framework#0")

	c.ResetDerived(rules.RankSeasoned)

	if got := c.Attribute(rules.Strength).Current(); got != 3 {
		t.Fatalf("expected strength back to 3, got %d", got)
	}
	if got := c.Attribute(rules.Agility).Current(); got != 1 {
		t.Fatalf("expected agility hard-set cleared, got %d", got)
	}
	if got := c.Skill("fighting").Current(); got != 1 {
		t.Fatalf("expected fighting back to d4, got %d", got)
	}
	if c.Skill("Occult") != nil {
		t.Fatal("expected directive-owned skill to be dropped")
	}
	know := c.Skill("knowledge")
	if len(know.Specialties) != 1 || know.Specialties[0].Name != "Science" || know.Specialties[0].Current() != 1 {
		t.Fatalf("expected only the player's specialty to survive, got %+v", know.Specialties)
	}
	d := c.Derived()
	if d.Rank != rules.RankSeasoned || len(d.Modifiers) != 0 || len(d.Attacks) != 0 || d.BestThereIs {
		t.Fatalf("expected derived state cleared, got %+v", d)
	}

	edges, _, points := c.GrantedState()
	if diff := cmp.Diff([]string{"brave"}, edges); diff != "" {
		t.Fatalf("granted edges mismatch (-want +got):\n%s", diff)
	}
	if points["magic"] != 5 {
		t.Fatalf("expected granted power points to survive reset, got %v", points)
	}
}

func TestAssignedDirectiveSkillBecomesPlayerOwned(t *testing.T) {
	c := New(nil)
	c.EnsureSkill("Occult", rules.Smarts)
	if err := c.AssignSkill("occult", 1); err != nil {
		t.Fatalf("assign: %v", err)
	}
	c.ResetDerived(rules.RankNovice)
	c.ResetDerived(rules.RankNovice)
	if c.Skill("Occult") == nil {
		t.Fatal("expected assigned skill to survive resets")
	}
}

func TestAllEdgesOrder(t *testing.T) {
	c := New(nil)
	c.AddEdge("alertness")
	c.AddEdgeAdvance("quick")
	c.GrantEdge("brave", "line#0")

	var got []string
	for _, e := range c.AllEdges() {
		got = append(got, string(e.Origin)+":"+e.CatalogID)
	}
	want := []string{"player:alertness", "advance:quick", "granted:brave"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("edge order mismatch (-want +got):\n%s", diff)
	}
	if !c.HasEdge("quick") || c.HasEdge("brawny") {
		t.Fatal("unexpected HasEdge result")
	}
	if err := c.RemoveEdge(3); err == nil {
		t.Fatal("expected out of range error")
	}
	if err := c.RemoveEdge(0); err != nil || len(c.Edges()) != 0 {
		t.Fatalf("expected edge removed, got %v", err)
	}
}

func TestGrantPowerOncePerSource(t *testing.T) {
	c := New(nil)
	c.GrantPower("bolt", "magic", "edge:wizard")
	c.GrantPower("bolt", "magic", "edge:wizard")
	c.GrantPower("bolt", "magic", "edge:other")
	if got := len(c.AllPowers()); got != 2 {
		t.Fatalf("expected 2 granted powers, got %d", got)
	}
}

func TestContainersAndModified(t *testing.T) {
	c := New(nil)
	c.SetRace("human")
	fw := c.SetFramework("bruiser", []string{"b0", "b1"}, []string{"c0"})
	c.AddEdge("alertness")
	c.AddHindrance("loyal", false)
	c.AddItem(ItemWeapon, "sword", 1)
	c.AddJourneyRoll("training", 2, "training-3")

	if got := len(c.Containers()); got != 8 {
		t.Fatalf("expected 8 containers, got %d", got)
	}
	if c.Modified() {
		t.Fatal("expected fresh containers to be unmodified")
	}
	if err := fw.Bonuses.Set(1, 0, "Fighting"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !c.Modified() {
		t.Fatal("expected modified after setter")
	}
	c.Acknowledge()
	if c.Modified() {
		t.Fatal("expected acknowledge to clear modified")
	}
}

func TestRemovalsMarkModified(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Aggregate) error
	}{
		{name: "remove edge", mutate: func(c *Aggregate) error { return c.RemoveEdge(0) }},
		{name: "remove hindrance", mutate: func(c *Aggregate) error { return c.RemoveHindrance(0) }},
		{name: "remove power", mutate: func(c *Aggregate) error { return c.RemovePower(0) }},
		{name: "remove item", mutate: func(c *Aggregate) error { return c.RemoveItem(ItemWeapon, 0) }},
		{name: "remove advance", mutate: func(c *Aggregate) error { return c.RemoveAdvance(0) }},
		{name: "replace race", mutate: func(c *Aggregate) error { c.SetRace("saurian"); return nil }},
		{name: "replace framework", mutate: func(c *Aggregate) error { c.SetFramework("scholar", nil, nil); return nil }},
		{name: "clear framework", mutate: func(c *Aggregate) error { c.ClearFramework(); return nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil)
			c.SetRace("human")
			c.SetFramework("bruiser", []string{"b0"}, nil)
			c.AddEdge("martial-training")
			c.AddHindrance("loyal", false)
			c.AddPower("bolt", "magic")
			c.AddItem(ItemWeapon, "sword", 1)
			c.AddAdvance(AdvanceSkillOne, "fighting")
			if c.Modified() {
				t.Fatal("expected additions to leave the sheet unmodified")
			}

			if err := tt.mutate(c); err != nil {
				t.Fatalf("mutate: %v", err)
			}
			if !c.Modified() {
				t.Fatal("expected modified after removal")
			}
			c.Acknowledge()
			if c.Modified() {
				t.Fatal("expected acknowledge to clear modified")
			}
		})
	}
}

func TestRemoveAdvanceOutOfRange(t *testing.T) {
	c := New(nil)
	if err := c.RemoveAdvance(0); err == nil {
		t.Fatal("expected out of range error")
	}
	if c.Modified() {
		t.Fatal("expected failed removal to leave the sheet unmodified")
	}
}

func TestPowerBudgetMultiplier(t *testing.T) {
	c := New(nil)
	c.SetPowerBudget("magic", PowerBudget{PowerPoints: 10})
	c.MultiplyPowerPoints("magic", 2)
	c.MultiplyPowerPoints("magic", 2)
	if got := c.PowerBudget("magic").TotalPowerPoints(); got != 40 {
		t.Fatalf("expected 40 power points, got %d", got)
	}
	if got := (PowerBudget{PowerPoints: 10}).TotalPowerPoints(); got != 10 {
		t.Fatalf("expected unmultiplied budget of 10, got %d", got)
	}
}

func TestLedgerRemaining(t *testing.T) {
	l := Ledger{AttributePoints: 5, AttributesSpent: 6, SkillPoints: 12, SkillsSpent: 10, HindrancePoints: 6, HindrancePointsCap: 4, PerksSpent: 3}
	if l.AttributesRemaining() != -1 || l.SkillsRemaining() != 2 {
		t.Fatalf("unexpected remaining %d/%d", l.AttributesRemaining(), l.SkillsRemaining())
	}
	if l.PerksRemaining() != 1 {
		t.Fatalf("expected capped hindrance points to leave 1, got %d", l.PerksRemaining())
	}
}

func TestPerks(t *testing.T) {
	for _, perk := range []Perk{PerkAttribute, PerkEdge, PerkSkill, PerkWealth} {
		if _, err := ParsePerk(string(perk)); err != nil {
			t.Fatalf("parse %s: %v", perk, err)
		}
	}
	if _, err := ParsePerk("luck"); err == nil {
		t.Fatal("expected unknown perk error")
	}
	if PerkEdge.Cost() != 2 || PerkSkill.Cost() != 1 {
		t.Fatal("unexpected perk costs")
	}
}
