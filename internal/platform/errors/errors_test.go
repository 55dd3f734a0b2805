package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := WithMetadata(CodeCatalogItemNotFound, "edge missing", map[string]string{"ID": "brawny"})
	if !stderrors.Is(err, New(CodeCatalogItemNotFound, "")) {
		t.Fatal("expected errors.Is to match by code")
	}
	if stderrors.Is(err, New(CodeNotFound, "")) {
		t.Fatal("expected different codes not to match")
	}
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(CodeDocumentDecode, "decode document", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
	if err.Error() != "decode document: boom" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestCodeOf(t *testing.T) {
	inner := New(CodeSelectionMalformed, "bad payload")
	wrapped := fmt.Errorf("apply: %w", inner)
	if got := CodeOf(wrapped); got != CodeSelectionMalformed {
		t.Fatalf("expected %s, got %s", CodeSelectionMalformed, got)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != CodeUnknown {
		t.Fatalf("expected %s, got %s", CodeUnknown, got)
	}
}

func TestRecoverable(t *testing.T) {
	if !CodeSelectionMalformed.Recoverable() {
		t.Fatal("expected malformed selections to be recoverable")
	}
	if CodeDocumentDecode.Recoverable() {
		t.Fatal("expected document decode failures to be fatal for the caller")
	}
}
