package core

import (
	"strings"
)

const (
	Asset     Status = "Asset"
	Liability Status = "Liability"
)

const maxNameLength = 200

type (
	// Status decides the sign an item contributes to net worth.
	Status string

	// LineItem is one persisted financial entry. ID is zero until the store
	// assigns one.
	LineItem struct {
		ID     int64
		Name   string
		Type   string // free-text category chosen by the user
		Status Status
		Amount string // canonical decimal text, see CanonicalAmount
	}

	// LineItemInput carries the mutable fields of a LineItem for Create and Update.
	LineItemInput struct {
		Name   string
		Type   string
		Status Status
		Amount string
	}
)

// ParseStatus accepts the two recognised statuses, case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asset":
		return Asset, nil
	case "liability":
		return Liability, nil
	case "":
		return "", &ValidationError{Field: "status", Reason: "required"}
	default:
		return "", &ValidationError{Field: "status", Reason: "must be Asset or Liability"}
	}
}

func (s Status) Valid() bool {
	return s == Asset || s == Liability
}

func (s Status) String() string {
	return string(s)
}

// Input returns the mutable fields of the item.
func (li LineItem) Input() LineItemInput {
	return LineItemInput{
		Name:   li.Name,
		Type:   li.Type,
		Status: li.Status,
		Amount: li.Amount,
	}
}

// Normalize validates the input and returns a copy with trimmed text fields
// and the amount rewritten in canonical form.
func (in LineItemInput) Normalize() (LineItemInput, error) {
	out := LineItemInput{
		Name: strings.TrimSpace(in.Name),
		Type: strings.TrimSpace(in.Type),
	}

	if out.Name == "" {
		return LineItemInput{}, &ValidationError{Field: "name", Reason: "required"}
	}
	if len(out.Name) > maxNameLength {
		return LineItemInput{}, &ValidationError{Field: "name", Reason: "too long (max 200 characters)"}
	}

	status, err := ParseStatus(string(in.Status))
	if err != nil {
		return LineItemInput{}, err
	}
	out.Status = status

	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return LineItemInput{}, err
	}
	out.Amount = CanonicalAmount(amount)

	return out, nil
}

// Validate reports whether the input would be accepted by Normalize.
func (in LineItemInput) Validate() error {
	_, err := in.Normalize()
	return err
}
