package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/savagesheet/internal/platform/errors"
)

// maxDocumentUnwrap bounds how many string-encoding layers are peeled off a
// whole document.
const maxDocumentUnwrap = 4

// Decode parses a document of any supported version. Version 1 documents
// are upgraded to the current layout.
func Decode(data []byte) (Document, error) {
	data = bytes.TrimSpace(data)
	for range maxDocumentUnwrap {
		if len(data) == 0 || data[0] != '"' {
			break
		}
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return Document{}, apperrors.Wrap(apperrors.CodeDocumentDecode, "decode document", err)
		}
		data = []byte(strings.TrimSpace(inner))
	}

	var probe struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Document{}, apperrors.Wrap(apperrors.CodeDocumentDecode, "decode document", err)
	}
	version := 1
	if probe.Version != nil && *probe.Version > 1 {
		version = *probe.Version
	}

	switch version {
	case 1:
		var legacy legacyDocument
		if err := json.Unmarshal(data, &legacy); err != nil {
			return Document{}, apperrors.Wrap(apperrors.CodeDocumentDecode, "decode version 1 document", err)
		}
		return legacy.upgrade(), nil
	case CurrentVersion:
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, apperrors.Wrap(apperrors.CodeDocumentDecode, "decode document", err)
		}
		return doc, nil
	default:
		return Document{}, apperrors.WithMetadata(
			apperrors.CodeDocumentVersionUnsupported,
			fmt.Sprintf("document version %d is not supported", version),
			map[string]string{"Version": strconv.Itoa(version)},
		)
	}
}

// Encode renders doc as indented JSON.
func Encode(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}
