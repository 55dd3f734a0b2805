// Package selection stores the player choices that resolve directive
// placeholders.
//
// Every choice-bearing catalog-item instance owns one Container. Choices are
// addressed by a stable key (owning line id plus placeholder occurrence);
// the positional array is kept for documents written before keys existed.
package selection

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/savagesheet/internal/platform/errors"
)

// maxPayloadUnwrap bounds how many string-encoding layers are peeled off a
// legacy payload.
const maxPayloadUnwrap = 4

// Key returns the stable key of the occurrence-th placeholder of a line.
func Key(lineID string, occurrence int) string {
	return lineID + "#" + strconv.Itoa(occurrence)
}

// Container holds the choices of one catalog-item instance.
type Container struct {
	lineID    string
	choices   []string
	keyed     map[string]string
	subChoice int
	specify   string
	payload   string
	malformed bool
	modified  bool
	applied   bool
}

// New returns an empty container for the line or item with lineID.
func New(lineID string) *Container {
	return &Container{lineID: lineID, payload: "[]"}
}

// FromPayload restores a container from its stored positional payload and
// keyed choices. A payload that cannot be decoded yields an empty, malformed
// container together with the decode error; callers log it and carry on.
func FromPayload(lineID, payload string, keyed map[string]string) (*Container, error) {
	c := New(lineID)
	if len(keyed) > 0 {
		c.keyed = maps.Clone(keyed)
	}
	choices, err := DecodePayload(payload)
	if err != nil {
		c.malformed = true
		c.keyed = nil
		return c, apperrors.WrapWithMetadata(
			apperrors.CodeSelectionMalformed,
			"decode selection payload",
			map[string]string{"Line": lineID},
			err,
		)
	}
	c.choices = choices
	c.payload = encode(choices)
	return c, nil
}

// DecodePayload decodes a positional payload. Empty input is an empty
// selection. Payloads that were string-encoded more than once are unwrapped.
func DecodePayload(payload string) ([]string, error) {
	payload = strings.TrimSpace(payload)
	for range maxPayloadUnwrap {
		if payload == "" || payload == "null" {
			return nil, nil
		}
		var choices []string
		if err := json.Unmarshal([]byte(payload), &choices); err == nil {
			return choices, nil
		}
		var inner string
		if err := json.Unmarshal([]byte(payload), &inner); err != nil {
			return nil, fmt.Errorf("selection payload is not a string array: %w", err)
		}
		payload = strings.TrimSpace(inner)
	}
	return nil, fmt.Errorf("selection payload nested deeper than %d levels", maxPayloadUnwrap)
}

func encode(choices []string) string {
	if choices == nil {
		choices = []string{}
	}
	data, err := json.Marshal(choices)
	if err != nil {
		// []string always marshals.
		panic(err)
	}
	return string(data)
}

// LineID returns the owning line or item id.
func (c *Container) LineID() string {
	return c.lineID
}

// Choice returns the value for the occurrence-th placeholder. A keyed value
// wins over the positional slot; empty values count as missing.
func (c *Container) Choice(occurrence int) (string, bool) {
	if occurrence < 0 {
		return "", false
	}
	if value := strings.TrimSpace(c.keyed[Key(c.lineID, occurrence)]); value != "" {
		return value, true
	}
	if occurrence < len(c.choices) {
		if value := strings.TrimSpace(c.choices[occurrence]); value != "" {
			return value, true
		}
	}
	return "", false
}

// Set writes value into slot sub, growing the positional array with empty
// strings as needed, and marks the container modified.
func (c *Container) Set(sub int, value string) error {
	if sub < 0 {
		return apperrors.WithMetadata(
			apperrors.CodeSelectionLineOutOfRange,
			fmt.Sprintf("selection index %d out of range", sub),
			map[string]string{"Line": c.lineID},
		)
	}
	for len(c.choices) <= sub {
		c.choices = append(c.choices, "")
	}
	c.choices[sub] = value
	if c.keyed == nil {
		c.keyed = make(map[string]string)
	}
	c.keyed[Key(c.lineID, sub)] = value
	c.payload = encode(c.choices)
	c.malformed = false
	c.modified = true
	return nil
}

// SetSubChoice selects among a table line's alternative directive sets.
func (c *Container) SetSubChoice(index int) {
	if c.subChoice == index {
		return
	}
	c.subChoice = index
	c.modified = true
}

// SubChoice returns the selected alternative index.
func (c *Container) SubChoice() int {
	return c.subChoice
}

// SetSpecify stores the free text substituted for [specify].
func (c *Container) SetSpecify(text string) {
	if c.specify == text {
		return
	}
	c.specify = text
	c.modified = true
}

// Specify returns the free text substituted for [specify].
func (c *Container) Specify() string {
	return c.specify
}

// Restore returns a container rebuilt from persisted table-line state.
func Restore(lineID, payload string, keyed map[string]string, subChoice int, specify string) (*Container, error) {
	c, err := FromPayload(lineID, payload, keyed)
	c.subChoice = subChoice
	c.specify = specify
	return c, err
}

// Payload returns the serialized positional array.
func (c *Container) Payload() string {
	return c.payload
}

// Choices returns a copy of the positional array.
func (c *Container) Choices() []string {
	return append([]string(nil), c.choices...)
}

// Keyed returns a copy of the stable-key choices.
func (c *Container) Keyed() map[string]string {
	if len(c.keyed) == 0 {
		return nil
	}
	return maps.Clone(c.keyed)
}

// Malformed reports whether the stored payload failed to decode.
func (c *Container) Malformed() bool {
	return c.malformed
}

// Modified reports whether a setter changed the container since the last
// acknowledgement.
func (c *Container) Modified() bool {
	return c.modified
}

// Acknowledge clears the modified flag.
func (c *Container) Acknowledge() {
	c.modified = false
}

// Applied reports whether the container's directives already ran.
func (c *Container) Applied() bool {
	return c.applied
}

// MarkApplied flips the applied flag. It returns false when the container
// was already applied; the flag never goes back to false.
func (c *Container) MarkApplied() bool {
	if c.applied {
		return false
	}
	c.applied = true
	return true
}

// Lines are the per-line containers of a framework bonus or complication group.
type Lines []*Container

// NewLines returns one empty container per line id.
func NewLines(lineIDs []string) Lines {
	lines := make(Lines, len(lineIDs))
	for i, id := range lineIDs {
		lines[i] = New(id)
	}
	return lines
}

// Set writes value into slot sub of line.
func (l Lines) Set(line, sub int, value string) error {
	if line < 0 || line >= len(l) {
		return apperrors.WithMetadata(
			apperrors.CodeSelectionLineOutOfRange,
			fmt.Sprintf("line %d out of range", line),
			map[string]string{"Line": strconv.Itoa(line), "Lines": strconv.Itoa(len(l))},
		)
	}
	return l[line].Set(sub, value)
}

// Modified reports whether any line changed.
func (l Lines) Modified() bool {
	for _, c := range l {
		if c.Modified() {
			return true
		}
	}
	return false
}
