package character

import "github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"

// AttributeRecord tracks one attribute. Assigned is the player's choice;
// the rest is derived and reset on every recompute.
type AttributeRecord struct {
	Assigned int
	boost    int
	advance  int
	hardSet  int
}

// Boost returns the directive bonus.
func (r *AttributeRecord) Boost() int { return r.boost }

// Advance returns the steps bought with advances.
func (r *AttributeRecord) Advance() int { return r.advance }

// HardSet returns the minimum die index forced by directives.
func (r *AttributeRecord) HardSet() int { return r.hardSet }

// Base is the unboosted die index the player paid for, without advances.
func (r *AttributeRecord) Base() int {
	return 1 + r.Assigned
}

// Current is max(hardSet, 1 + assigned + boost + advance).
func (r *AttributeRecord) Current() int {
	computed := 1 + r.Assigned + r.boost + r.advance
	if r.hardSet > computed {
		return r.hardSet
	}
	return computed
}

func (r *AttributeRecord) reset() {
	r.boost, r.advance, r.hardSet = 0, 0, 0
}

// Specialty is a named knowledge specialty.
type Specialty struct {
	Name     string
	Assigned int
	boost    int
	added    bool
}

// Boost returns the directive bonus.
func (s *Specialty) Boost() int { return s.boost }

// Added reports whether a directive created the specialty this run.
func (s *Specialty) Added() bool { return s.added }

// Current returns the specialty's die index.
func (s *Specialty) Current() int {
	return s.Assigned + s.boost
}

// Skill tracks one skill.
type Skill struct {
	ID        string
	Name      string
	Attribute rules.Attribute
	Core      bool
	Knowledge bool
	Assigned  int

	Specialties []*Specialty

	boost   int
	advance int
	minimum int
	added   bool
}

// Boost returns the directive bonus.
func (s *Skill) Boost() int { return s.boost }

// Advance returns the steps bought with advances.
func (s *Skill) Advance() int { return s.advance }

// Added reports whether a directive created the skill this run.
func (s *Skill) Added() bool { return s.added }

// Start is the free die index every character has in the skill.
func (s *Skill) Start() int {
	if s.Core {
		return rules.DieD4
	}
	return rules.DieNone
}

// Current returns the skill's die index. Zero means untrained.
func (s *Skill) Current() int {
	computed := s.Start() + s.Assigned + s.boost + s.advance
	if s.minimum > computed {
		return s.minimum
	}
	return computed
}

// Trained reports whether the skill has at least a d4.
func (s *Skill) Trained() bool {
	return s.Current() > rules.DieNone
}

// Specialty returns the named specialty.
func (s *Skill) Specialty(name string) *Specialty {
	for _, sp := range s.Specialties {
		if equalName(sp.Name, name) {
			return sp
		}
	}
	return nil
}

func (s *Skill) reset() {
	s.boost, s.advance, s.minimum = 0, 0, 0
	kept := s.Specialties[:0]
	for _, sp := range s.Specialties {
		if sp.added && sp.Assigned == 0 {
			continue
		}
		sp.boost = 0
		sp.added = false
		kept = append(kept, sp)
	}
	s.Specialties = kept
}
