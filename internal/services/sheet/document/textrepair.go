package document

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// maxRepairPasses bounds how many encoding layers RepairText peels off.
const maxRepairPasses = 8

// mojibakeMarkers are sequences UTF-8 text shows after being decoded as
// Windows-1252.
var mojibakeMarkers = []string{"Ã", "Â", "â€"}

// RepairText undoes doubled string encoding in free text: JSON string
// literals stored as text, and UTF-8 read back as Windows-1252. It repeats
// until the text is stable or the pass limit is hit. Clean text is returned
// unchanged, including text that is merely wrapped in quotes.
func RepairText(s string) string {
	repaired := s
	damaged := false
	for range maxRepairPasses {
		next := repairOnce(repaired, damaged)
		if next == repaired {
			break
		}
		repaired, damaged = next, true
	}
	if repaired == s {
		return s
	}
	return norm.NFC.String(repaired)
}

func repairOnce(s string, damaged bool) string {
	if unquoted, ok := unquoteJSON(s, damaged); ok {
		return unquoted
	}
	if fixed, ok := undoMojibake(s); ok {
		return fixed
	}
	return s
}

// unquoteJSON decodes a JSON string literal. Unless the text is already
// known to be damaged, the literal must show signs of encoding: escapes,
// another literal inside, or mojibake.
func unquoteJSON(s string, damaged bool) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if !quoted(trimmed) {
		return "", false
	}
	var out string
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return "", false
	}
	if !damaged && !strings.Contains(trimmed, `\`) && !quoted(strings.TrimSpace(out)) && !hasMojibake(out) {
		return "", false
	}
	return out, true
}

func quoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

func hasMojibake(s string) bool {
	for _, marker := range mojibakeMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

func undoMojibake(s string) (string, bool) {
	if !hasMojibake(s) {
		return "", false
	}
	raw, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil || !utf8.ValidString(raw) || raw == s {
		return "", false
	}
	return raw, true
}
