package core

import (
	"errors"
	"strings"
	"testing"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"Asset", Asset, true},
		{"asset", Asset, true},
		{" LIABILITY ", Liability, true},
		{"", "", false},
		{"equity", "", false},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%q expected validation error, got %v", tc.in, err)
		}
	}
}

func TestLineItemInputNormalize(t *testing.T) {
	got, err := LineItemInput{Name: "  Cash ", Type: " Bank ", Status: "asset", Amount: "10,5"}.Normalize()
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	want := LineItemInput{Name: "Cash", Type: "Bank", Status: Asset, Amount: "10.50"}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	// Type is free text and may be empty
	if err := (LineItemInput{Name: "Car", Status: Asset, Amount: "1"}).Validate(); err != nil {
		t.Fatalf("expected empty type to be accepted, got %v", err)
	}
}

func TestLineItemInputNormalizeErrors(t *testing.T) {
	bads := []struct {
		in    LineItemInput
		field string
	}{
		{LineItemInput{Name: "", Status: Asset, Amount: "1"}, "name"},
		{LineItemInput{Name: "   ", Status: Asset, Amount: "1"}, "name"},
		{LineItemInput{Name: strings.Repeat("x", 201), Status: Asset, Amount: "1"}, "name"},
		{LineItemInput{Name: "a", Status: "", Amount: "1"}, "status"},
		{LineItemInput{Name: "a", Status: "Equity", Amount: "1"}, "status"},
		{LineItemInput{Name: "a", Status: Asset, Amount: ""}, "amount"},
		{LineItemInput{Name: "a", Status: Asset, Amount: "abc"}, "amount"},
		{LineItemInput{Name: "a", Status: Liability, Amount: "-5"}, "amount"},
	}
	for i, tc := range bads {
		_, err := tc.in.Normalize()
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("case %d expected ValidationError, got %v", i, err)
		}
		if verr.Field != tc.field {
			t.Fatalf("case %d expected field %q, got %q", i, tc.field, verr.Field)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d expected errors.Is ErrValidation", i)
		}
	}
}

func TestErrorClasses(t *testing.T) {
	if !errors.Is(&NotFoundError{ID: 3}, ErrNotFound) {
		t.Fatalf("NotFoundError should match ErrNotFound")
	}
	if !errors.Is(&DataIntegrityError{ID: 1, Field: "amount", Value: "x"}, ErrDataIntegrity) {
		t.Fatalf("DataIntegrityError should match ErrDataIntegrity")
	}
	cause := errors.New("disk I/O error")
	serr := &StorageError{Op: "insert", Err: cause}
	if !errors.Is(serr, ErrStorage) || !errors.Is(serr, cause) {
		t.Fatalf("StorageError should match both ErrStorage and its cause")
	}
	if errors.Is(serr, ErrNotFound) {
		t.Fatalf("StorageError must not match ErrNotFound")
	}
}
