package model

import "fmt"

// Direction is the normal balance side of a subject.
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// Valid reports whether d is Debit or Credit.
func (d Direction) Valid() bool {
	return d == Debit || d == Credit
}

// ParseDirection accepts "debit"/"credit" and the 借/贷 labels used on vouchers.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "debit", "Debit", "DEBIT", "借":
		return Debit, nil
	case "credit", "Credit", "CREDIT", "贷":
		return Credit, nil
	default:
		return "", fmt.Errorf("%w: direction %q", ErrInvalidSubjectConfiguration, s)
	}
}

// Subject is a node in the chart of accounts.
type Subject struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"` // descendants extend the parent's code, e.g. 1002 -> 100201
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	ParentID  string    `json:"parent_id,omitempty"`
	Active    bool      `json:"active"`
}

// CategoryKind says which side of the cash journal a category is meant for.
type CategoryKind string

const (
	CategoryIncome  CategoryKind = "income"
	CategoryExpense CategoryKind = "expense"
)

// Category is an income/expense classification for cash-journal entries.
type Category struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Kind CategoryKind `json:"kind"`
}

// AuxiliaryItem is one member of an auxiliary dimension (customer, project, ...).
type AuxiliaryItem struct {
	Key  string `json:"key"`
	Type string `json:"type"`
	Name string `json:"name"`
}
