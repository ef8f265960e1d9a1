package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCode(t *testing.T) {
	meta := MetadataFor(CodeConflict)
	if meta.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409 got %d", meta.HTTPStatus)
	}
	if meta.Retryable {
		t.Fatal("conflict should not be retryable")
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(CodeDependency, cause, "lookup merchant")
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("expected dependency code got %s", err.Code())
	}
}

func TestWrapNilCauseBehavesLikeNew(t *testing.T) {
	err := Wrap(CodeNotFound, nil, "merchant not found")
	if err.Unwrap() != nil {
		t.Fatal("expected no cause")
	}
	if err.Error() != "NOT_FOUND: merchant not found" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestAsFindsTypedErrorThroughChain(t *testing.T) {
	typed := New(CodeForbidden, "access denied")
	wrapped := fmt.Errorf("handler: %w", typed)
	found := As(wrapped)
	if found == nil || found.Code() != CodeForbidden {
		t.Fatalf("expected typed forbidden error, got %v", found)
	}
}

func TestAsReturnsNilForPlainError(t *testing.T) {
	if As(errors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "validation failed").WithDetails(map[string]string{"size": "is required"})
	details, ok := err.Details().(map[string]string)
	if !ok || details["size"] != "is required" {
		t.Fatalf("unexpected details %v", err.Details())
	}
}
