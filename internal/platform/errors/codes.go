// Package errors provides structured domain errors with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Catalog errors
	CodeCatalogItemNotFound   Code = "CATALOG_ITEM_NOT_FOUND"
	CodeCatalogPayloadInvalid Code = "CATALOG_PAYLOAD_INVALID"

	// Selection errors
	CodeSelectionMalformed      Code = "SELECTION_MALFORMED"
	CodeSelectionLineOutOfRange Code = "SELECTION_LINE_OUT_OF_RANGE"

	// Document errors
	CodeDocumentDecode             Code = "DOCUMENT_DECODE"
	CodeDocumentVersionUnsupported Code = "DOCUMENT_VERSION_UNSUPPORTED"

	// Character errors
	CodeCharacterNotFound Code = "CHARACTER_NOT_FOUND"

	// Setting errors
	CodeSettingInvalid Code = "SETTING_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// Recoverable reports whether the code describes a condition the pipeline
// recovers from locally instead of failing the caller.
func (c Code) Recoverable() bool {
	switch c {
	case CodeCatalogItemNotFound,
		CodeSelectionMalformed:
		return true
	default:
		return false
	}
}
