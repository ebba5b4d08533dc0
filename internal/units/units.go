// Package units converts cart and catalog quantities between grams, kilograms and pieces.
//
// Grams and kilograms convert freely (1 kg = 1000 g). Pieces never convert to or from a weight.
package units

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

type Unit string

const (
	Gram     Unit = "gram"
	Kilogram Unit = "kilogram"
	Piece    Unit = "piece"
)

var (
	ErrIncompatibleUnits = errors.New("piece and weight units cannot be mixed")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrUnknownUnit       = errors.New("unknown unit")
)

var gramsPerKilogram = decimal.NewFromInt(1000)

var baseUnitPattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)?\s*([a-zA-Z]+)\s*$`)

// ParseUnit accepts the long names plus the usual shop abbreviations (g, gm, kg, pc, pcs).
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "g", "gm", "gms", "gram", "grams":
		return Gram, nil
	case "kg", "kgs", "kilo", "kilogram", "kilograms":
		return Kilogram, nil
	case "pc", "pcs", "piece", "pieces":
		return Piece, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

func (u Unit) IsWeight() bool {
	return u == Gram || u == Kilogram
}

func (u Unit) Valid() bool {
	return u == Gram || u == Kilogram || u == Piece
}

// Compatible reports whether two units can take part in the same arithmetic.
func Compatible(a, b Unit) bool {
	return a.IsWeight() == b.IsWeight()
}

type Quantity struct {
	Amount decimal.Decimal
	Unit   Unit
}

func New(amount float64, unit Unit) Quantity {
	return Quantity{Amount: decimal.NewFromFloat(amount), Unit: unit}
}

// ParseBaseUnit reads a product's per-tap increment such as "250g", "0.5 kg", "1 piece" or "pc".
// A missing amount means one. A piece increment must be exactly one.
func ParseBaseUnit(s string) (Quantity, error) {
	m := baseUnitPattern.FindStringSubmatch(s)
	if m == nil {
		return Quantity{}, fmt.Errorf("%w: base unit %q", ErrInvalidQuantity, s)
	}

	unit, err := ParseUnit(m[2])
	if err != nil {
		return Quantity{}, err
	}

	amount := decimal.NewFromInt(1)
	if m[1] != "" {
		amount, err = decimal.NewFromString(m[1])
		if err != nil {
			return Quantity{}, fmt.Errorf("%w: base unit %q", ErrInvalidQuantity, s)
		}
	}

	if !amount.IsPositive() {
		return Quantity{}, fmt.Errorf("%w: base unit %q must be positive", ErrInvalidQuantity, s)
	}

	if unit == Piece && !amount.Equal(decimal.NewFromInt(1)) {
		return Quantity{}, fmt.Errorf("%w: piece base unit must be 1, got %s", ErrInvalidQuantity, amount)
	}

	return Quantity{Amount: amount, Unit: unit}, nil
}

func (q Quantity) Grams() (decimal.Decimal, error) {
	switch q.Unit {
	case Gram:
		return q.Amount, nil
	case Kilogram:
		return q.Amount.Mul(gramsPerKilogram), nil
	case Piece:
		return decimal.Zero, ErrIncompatibleUnits
	}

	return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownUnit, q.Unit)
}

func (q Quantity) Kilograms() (decimal.Decimal, error) {
	g, err := q.Grams()
	if err != nil {
		return decimal.Zero, err
	}

	return g.Div(gramsPerKilogram), nil
}

// GramsToKilograms is the canonical write path for weight totals.
func GramsToKilograms(g decimal.Decimal) decimal.Decimal {
	return g.Div(gramsPerKilogram)
}

func KilogramsToGrams(kg decimal.Decimal) decimal.Decimal {
	return kg.Mul(gramsPerKilogram)
}

func (q Quantity) String() string {
	switch q.Unit {
	case Gram:
		return q.Amount.String() + "g"
	case Kilogram:
		return q.Amount.String() + "kg"
	case Piece:
		if q.Amount.Equal(decimal.NewFromInt(1)) {
			return "1 piece"
		}
		return q.Amount.String() + " pieces"
	}

	return q.Amount.String() + " " + string(q.Unit)
}
