package chem

import (
	"fmt"
	"math"
)

// Quantity is a reagent amount in fixed-point hundredths of a unit.
type Quantity int64

const quantityScale = 100

// Q converts a float amount of units to a Quantity, rounding to the nearest hundredth.
func Q(units float64) Quantity {
	return Quantity(math.Round(units * quantityScale))
}

// Float returns the quantity in units.
func (q Quantity) Float() float64 {
	return float64(q) / quantityScale
}

// Mul scales the quantity by f.
func (q Quantity) Mul(f float64) Quantity {
	return Q(q.Float() * f)
}

func (q Quantity) String() string {
	return fmt.Sprintf("%.2f", q.Float())
}

// MinQ returns the smaller of two quantities.
func MinQ(a, b Quantity) Quantity {
	if a < b {
		return a
	}
	return b
}

// MaxQ returns the larger of two quantities.
func MaxQ(a, b Quantity) Quantity {
	if a > b {
		return a
	}
	return b
}
