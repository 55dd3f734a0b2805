// Package rules holds the small shared vocabulary of the ruleset: ranks,
// trait dice, attribute names and finding severities.
package rules

import (
	"fmt"
	"strings"
)

// Rank is the tier gate controlling when bonuses and edges become available.
type Rank int

const (
	RankNovice Rank = iota
	RankSeasoned
	RankVeteran
	RankHeroic
	RankLegendary
)

// AdvancesPerRank is how many advances a character takes before moving up a rank.
const AdvancesPerRank = 4

var rankNames = [...]string{"novice", "seasoned", "veteran", "heroic", "legendary"}

// String returns the lowercase rank name.
func (r Rank) String() string {
	if r < RankNovice || int(r) >= len(rankNames) {
		return fmt.Sprintf("rank(%d)", int(r))
	}
	return rankNames[r]
}

// Title returns the rank name as shown to players.
func (r Rank) Title() string {
	name := r.String()
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// ParseRank parses a rank name. The empty string is Novice.
func ParseRank(value string) (Rank, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return RankNovice, nil
	}
	for i, name := range rankNames {
		if name == value {
			return Rank(i), nil
		}
	}
	return RankNovice, fmt.Errorf("unknown rank %q", value)
}

// MarshalText encodes the rank by name.
func (r Rank) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a rank name.
func (r *Rank) UnmarshalText(text []byte) error {
	parsed, err := ParseRank(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// RankForAdvances returns the rank reached after the given number of advances.
func RankForAdvances(advances int) Rank {
	if advances < 0 {
		return RankNovice
	}
	rank := Rank(advances / AdvancesPerRank)
	if rank > RankLegendary {
		return RankLegendary
	}
	return rank
}

// Allows reports whether a character of rank r meets a gate of rank gate.
func (r Rank) Allows(gate Rank) bool {
	return gate <= r
}
