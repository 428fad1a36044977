// Package units converts display quantities (box, tray) into canonical
// base-unit quantities (piece). All pricing and stock math downstream
// operates on base units only.
package units

import (
	"restock/internal/core/apperror"
	"restock/internal/core/types"
)

// Unit is a display unit code.
type Unit string

const (
	Piece Unit = "piece"
	Dozen Unit = "dozen"
	Box   Unit = "box"
	Tray  Unit = "tray"
)

// Converter maps display units to their base-unit factors.
type Converter struct {
	factors map[Unit]int64
}

// NewConverter creates a converter with the given factor table.
// The base unit must be present with factor 1.
func NewConverter(factors map[Unit]int64) *Converter {
	c := &Converter{factors: make(map[Unit]int64, len(factors))}
	for u, f := range factors {
		c.factors[u] = f
	}
	return c
}

// DefaultConverter returns the standard retail factor table.
func DefaultConverter() *Converter {
	return NewConverter(map[Unit]int64{
		Piece: 1,
		Dozen: 12,
		Box:   24,
		Tray:  30,
	})
}

// Factor returns the base-unit factor for a unit.
func (c *Converter) Factor(u Unit) (int64, error) {
	f, ok := c.factors[u]
	if !ok {
		return 0, apperror.NewInvalidUnit(string(u))
	}
	return f, nil
}

// IsRegistered reports whether the unit is in the factor table.
func (c *Converter) IsRegistered(u Unit) bool {
	_, ok := c.factors[u]
	return ok
}

// ToBaseQuantity converts a display quantity to base units.
// Returns InvalidUnit for units outside the registered table.
func (c *Converter) ToBaseQuantity(quantity int64, u Unit) (types.Quantity, error) {
	f, err := c.Factor(u)
	if err != nil {
		return 0, err
	}
	return types.Quantity(quantity * f), nil
}
