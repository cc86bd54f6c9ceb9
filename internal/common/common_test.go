package common

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
)

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	const n = 16
	s, err := MakeRandHexString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != n*2 {
		t.Fatalf("expected hex length %d, got %d", n*2, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		t.Fatalf("string is not valid hex: %v", err)
	}
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	if err != nil {
		t.Fatalf("unexpected error for size=0: %v", err)
	}
	if s != "" {
		t.Fatalf("expected empty string for size=0, got %q", s)
	}
}

func TestConflictFamily(t *testing.T) {
	if !errors.Is(ErrAlreadyRecovered, ErrConflict) {
		t.Fatal("ErrAlreadyRecovered must match ErrConflict")
	}
	if !errors.Is(ErrInvalidTransition, ErrConflict) {
		t.Fatal("ErrInvalidTransition must match ErrConflict")
	}
	if errors.Is(ErrAlreadyRecovered, ErrorNotFound) {
		t.Fatal("conflict must stay distinct from not found")
	}
	if !errors.Is(ErrPayloadTooLarge, ErrValidation) {
		t.Fatal("ErrPayloadTooLarge must match ErrValidation")
	}
}

func TestStoreError_WrapsAndFormats(t *testing.T) {
	err := WrapStore(StorePostgres, "insert item", fmt.Errorf("x: %w", ErrDuplicateKey))
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey in chain, got %v", err)
	}
	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StoreError, got %T", err)
	}
	if se.Store != "postgres" || se.Op != "insert item" {
		t.Fatalf("unexpected store error fields: %+v", se)
	}
	if got := err.Error(); got != "postgres: insert item: x: duplicate key" {
		t.Fatalf("unexpected message %q", got)
	}
	if WrapStore("s3", "op", nil) != nil {
		t.Fatal("nil error must stay nil")
	}
}

func TestValidationf(t *testing.T) {
	err := Validationf("title is %s", "required")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err.Error() != "validation error: title is required" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
