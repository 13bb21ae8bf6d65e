package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataFor_KnownCodes(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodeAlreadyProcessed, http.StatusConflict},
		{CodeInsufficientCarbon, http.StatusUnprocessableEntity},
		{CodeInsufficientCash, http.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("MetadataFor(%s).HTTPStatus = %d, want %d", tc.code, got, tc.status)
		}
	}
}

func TestMetadataFor_UnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("row missing")
	err := Wrap(CodeNotFound, cause, "balance not found")

	if err.Unwrap() != cause {
		t.Fatal("expected Unwrap to return the cause")
	}
	if !HasCode(err, CodeNotFound) {
		t.Fatal("expected HasCode to match NOT_FOUND")
	}
	if HasCode(err, CodeForbidden) {
		t.Fatal("HasCode matched the wrong code")
	}
}

func TestAs_UnwrapsNestedError(t *testing.T) {
	inner := New(CodeInsufficientCash, "buyer short")
	outer := fmt.Errorf("settle: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected As to find typed error")
	}
	if typed.Code() != CodeInsufficientCash {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestDump_CollectsChain(t *testing.T) {
	err := Wrap(CodeDependency, fmt.Errorf("dial tcp"), "load proposal")
	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(dump.Chain))
	}
}
