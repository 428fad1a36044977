package types

// Quantity is an integer count of base units (pieces).
//
// The retail domain counts whole pieces only, so unlike prices there is
// no fractional scale. Display quantities in larger units (trays, boxes)
// are converted to base pieces before they reach this type.
type Quantity int64

func (q Quantity) IsZero() bool     { return q == 0 }
func (q Quantity) IsPositive() bool { return q > 0 }
func (q Quantity) IsNegative() bool { return q < 0 }
func (q Quantity) Neg() Quantity    { return -q }

func (q Quantity) Abs() Quantity {
	if q < 0 {
		return -q
	}
	return q
}

func (q Quantity) Int64() int64 { return int64(q) }
