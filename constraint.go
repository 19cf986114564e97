package aspect

import (
	"fmt"
	"math"
)

// MaxDimension bounds width and height values, matching the 32-bit
// integer domain of video geometry.
const MaxDimension = math.MaxInt32

// ConstraintKind identifies how an attribute is constrained.
type ConstraintKind int

const (
	ConstraintAbsent ConstraintKind = iota
	ConstraintFixed
	ConstraintRanged
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintAbsent:
		return "Absent"
	case ConstraintFixed:
		return "Fixed"
	case ConstraintRanged:
		return "Ranged"
	default:
		return "Unknown"
	}
}

// IntConstraint constrains a single dimension. The zero value is Absent
// and behaves as the unbounded range [1, MaxDimension].
type IntConstraint struct {
	Kind ConstraintKind
	// Value holds the fixed dimension when Kind is ConstraintFixed.
	Value int
	// Min and Max hold the inclusive bounds when Kind is ConstraintRanged.
	Min, Max int
}

// FixedInt constrains a dimension to a single value.
func FixedInt(v int) IntConstraint {
	return IntConstraint{Kind: ConstraintFixed, Value: v}
}

// RangedInt constrains a dimension to the inclusive range [min, max].
func RangedInt(min, max int) IntConstraint {
	return IntConstraint{Kind: ConstraintRanged, Min: min, Max: max}
}

// Fixed returns the constrained value and whether the constraint is fixed.
func (c IntConstraint) Fixed() (int, bool) {
	if c.Kind == ConstraintFixed {
		return c.Value, true
	}
	return 0, false
}

// Nearest resolves the constraint to the legal value closest to v:
// identity for fixed constraints, clamping for ranges. An absent
// constraint clamps into [1, MaxDimension].
func (c IntConstraint) Nearest(v int) int {
	switch c.Kind {
	case ConstraintFixed:
		return c.Value
	case ConstraintRanged:
		return clampInt(v, c.Min, c.Max)
	default:
		return clampInt(v, 1, MaxDimension)
	}
}

func (c IntConstraint) String() string {
	switch c.Kind {
	case ConstraintFixed:
		return fmt.Sprintf("%d", c.Value)
	case ConstraintRanged:
		return fmt.Sprintf("[%d,%d]", c.Min, c.Max)
	default:
		return "*"
	}
}

// FractionConstraint constrains a ratio attribute. The zero value is
// Absent, meaning the attribute was not declared by the caller; the
// fixation defaults then apply per direction.
type FractionConstraint struct {
	Kind ConstraintKind
	// Value holds the fixed ratio when Kind is ConstraintFixed.
	Value Fraction
	// Min and Max hold the inclusive bounds when Kind is ConstraintRanged.
	Min, Max Fraction
}

// FixedFraction constrains a ratio to a single value.
func FixedFraction(f Fraction) FractionConstraint {
	return FractionConstraint{Kind: ConstraintFixed, Value: f}
}

// RangedFraction constrains a ratio to the inclusive range [min, max].
func RangedFraction(min, max Fraction) FractionConstraint {
	return FractionConstraint{Kind: ConstraintRanged, Min: min, Max: max}
}

// Fixed returns the constrained ratio and whether the constraint is fixed.
func (c FractionConstraint) Fixed() (Fraction, bool) {
	if c.Kind == ConstraintFixed {
		return c.Value, true
	}
	return Fraction{}, false
}

// Present reports whether the attribute was declared at all.
func (c FractionConstraint) Present() bool {
	return c.Kind != ConstraintAbsent
}

// Nearest resolves the constraint to the legal ratio closest to f:
// identity for fixed constraints, clamping for ranges, f itself when
// absent.
func (c FractionConstraint) Nearest(f Fraction) Fraction {
	switch c.Kind {
	case ConstraintFixed:
		return c.Value
	case ConstraintRanged:
		if f.Cmp(c.Min) < 0 {
			return c.Min
		}
		if f.Cmp(c.Max) > 0 {
			return c.Max
		}
		return f
	default:
		return f
	}
}

func (c FractionConstraint) String() string {
	switch c.Kind {
	case ConstraintFixed:
		return c.Value.String()
	case ConstraintRanged:
		return fmt.Sprintf("[%v,%v]", c.Min, c.Max)
	default:
		return "*"
	}
}

// Constraints describes the negotiable side of a fixation: what the
// downstream (or upstream, depending on direction) declares acceptable.
type Constraints struct {
	Width  IntConstraint
	Height IntConstraint
	PAR    FractionConstraint
}

// Widened returns the constraint set a scaling element can accept on its
// other side: any dimensions and any pixel aspect ratio. Conversion
// elements advertise this before fixation narrows it again.
func (c Constraints) Widened() Constraints {
	return Constraints{
		Width:  RangedInt(1, MaxDimension),
		Height: RangedInt(1, MaxDimension),
		PAR:    fullPARRange(),
	}
}

func (c Constraints) String() string {
	return fmt.Sprintf("width %v height %v par %v", c.Width, c.Height, c.PAR)
}

// fullPARRange is the default for an undeclared PAR on the side being
// fixed: any positive ratio.
func fullPARRange() FractionConstraint {
	return RangedFraction(NewFraction(1, MaxDimension), NewFraction(MaxDimension, 1))
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
