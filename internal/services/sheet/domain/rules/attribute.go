package rules

import (
	"fmt"
	"strings"
)

// Attribute names one of the five core attributes.
type Attribute string

const (
	Agility  Attribute = "agility"
	Smarts   Attribute = "smarts"
	Spirit   Attribute = "spirit"
	Strength Attribute = "strength"
	Vigor    Attribute = "vigor"
)

// Attributes lists the attributes in sheet order.
var Attributes = []Attribute{Agility, Smarts, Spirit, Strength, Vigor}

// ParseAttribute parses an attribute name, case-insensitively.
func ParseAttribute(value string) (Attribute, error) {
	candidate := Attribute(strings.ToLower(strings.TrimSpace(value)))
	for _, a := range Attributes {
		if a == candidate {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown attribute %q", value)
}

// Title returns the attribute name as shown to players.
func (a Attribute) Title() string {
	if a == "" {
		return ""
	}
	return strings.ToUpper(string(a[:1])) + string(a[1:])
}
