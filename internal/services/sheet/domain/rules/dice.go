package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// Die indexes. Zero means untrained; past d12 each index adds a flat pip.
const (
	DieNone = 0
	DieD4   = 1
	DieD6   = 2
	DieD8   = 3
	DieD10  = 4
	DieD12  = 5
)

var dieSides = [...]int{0, 4, 6, 8, 10, 12}

// DieSides returns the die size for index, capped at d12.
func DieSides(index int) int {
	if index <= DieNone {
		return 0
	}
	if index >= DieD12 {
		return 12
	}
	return dieSides[index]
}

// DiePips returns the flat bonus beyond d12 for index.
func DiePips(index int) int {
	if index <= DieD12 {
		return 0
	}
	return index - DieD12
}

// DieLabel renders index as d4..d12 or d12+N.
func DieLabel(index int) string {
	if index <= DieNone {
		return "-"
	}
	if pips := DiePips(index); pips > 0 {
		return fmt.Sprintf("d12+%d", pips)
	}
	return fmt.Sprintf("d%d", DieSides(index))
}

// ParseDie parses d4..d12 and d12+N labels into a die index.
func ParseDie(label string) (int, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" || label == "-" {
		return DieNone, nil
	}
	if !strings.HasPrefix(label, "d") {
		return 0, fmt.Errorf("invalid die %q", label)
	}
	body := label[1:]
	pips := 0
	if base, extra, ok := strings.Cut(body, "+"); ok {
		n, err := strconv.Atoi(extra)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid die %q", label)
		}
		body, pips = base, n
	}
	sides, err := strconv.Atoi(body)
	if err != nil {
		return 0, fmt.Errorf("invalid die %q", label)
	}
	for index, s := range dieSides {
		if index > DieNone && s == sides {
			if pips > 0 && index != DieD12 {
				return 0, fmt.Errorf("invalid die %q: pips only follow d12", label)
			}
			return index + pips, nil
		}
	}
	return 0, fmt.Errorf("invalid die %q", label)
}

// HalfDie returns half the die size plus half the pips, rounded down.
// Parry, Toughness and Sanity are built on it.
func HalfDie(index int) int {
	return DieSides(index)/2 + DiePips(index)/2
}
