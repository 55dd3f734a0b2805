// Package storage defines persistence contracts for character sheets.
package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/savagesheet/internal/platform/errors"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
)

// ErrNotFound indicates a requested character is missing.
var ErrNotFound = apperrors.New(apperrors.CodeCharacterNotFound, "character not found")

// CharacterRecord is one stored character document.
type CharacterRecord struct {
	ID        string
	Name      string
	Document  []byte
	Validity  rules.Severity
	UpdatedAt time.Time
}

// CharacterPage is one page of stored characters, without documents.
type CharacterPage struct {
	Characters    []CharacterRecord
	NextPageToken string
}

// CharacterStore persists character documents.
type CharacterStore interface {
	PutCharacter(ctx context.Context, record CharacterRecord) error
	GetCharacter(ctx context.Context, id string) (CharacterRecord, error)
	ListCharacters(ctx context.Context, pageSize int, pageToken string) (CharacterPage, error)
	DeleteCharacter(ctx context.Context, id string) error
}
