package aspect

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// ErrOverflow is returned when exact fraction arithmetic would exceed the
// representable range. Negotiation must fail rather than return a silently
// wrapped geometry.
var ErrOverflow = errors.New("aspect: fraction overflow")

// Fraction is an exact integer ratio: a pixel aspect ratio, a display
// aspect ratio, or a frame rate. The zero value means "unset".
type Fraction struct {
	Num int64
	Den int64
}

// Square is the 1:1 pixel aspect ratio.
var Square = Fraction{Num: 1, Den: 1}

// NewFraction returns num/den in lowest terms, sign on the numerator.
func NewFraction(num, den int64) Fraction {
	return Fraction{Num: num, Den: den}.Reduce()
}

// IsZero reports whether the fraction is unset.
func (f Fraction) IsZero() bool {
	return f.Num == 0 && f.Den == 0
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

// Float64 returns the fraction as a float. Only for approximate
// comparisons (refresh rates, placement); geometry decisions stay in
// integer math.
func (f Fraction) Float64() float64 {
	return float64(f.Num) / float64(f.Den)
}

// Invert returns the reciprocal.
func (f Fraction) Invert() Fraction {
	return Fraction{Num: f.Den, Den: f.Num}
}

// Reduce returns the fraction in lowest terms with the sign carried by
// the numerator.
func (f Fraction) Reduce() Fraction {
	if f.Num == 0 {
		return Fraction{Num: 0, Den: 1}
	}
	g := gcd(abs64(f.Num), abs64(f.Den))
	r := Fraction{Num: f.Num / g, Den: f.Den / g}
	if r.Den < 0 {
		r.Num, r.Den = -r.Num, -r.Den
	}
	return r
}

// Mul returns f·g reduced to lowest terms, or ErrOverflow if the product
// cannot be represented. A zero numerator short-circuits to 0/1. The
// factors are cross-reduced before the overflow check so only genuinely
// unrepresentable products fail.
func (f Fraction) Mul(g Fraction) (Fraction, error) {
	if f.Num == 0 || g.Num == 0 {
		return Fraction{Num: 0, Den: 1}, nil
	}

	// Cross-reduce: f.Num with g.Den, g.Num with f.Den.
	d := gcd(abs64(f.Num), abs64(g.Den))
	f.Num /= d
	g.Den /= d
	d = gcd(abs64(g.Num), abs64(f.Den))
	g.Num /= d
	f.Den /= d

	if math.MaxInt64/abs64(f.Num) < abs64(g.Num) {
		return Fraction{}, ErrOverflow
	}
	if math.MaxInt64/abs64(f.Den) < abs64(g.Den) {
		return Fraction{}, ErrOverflow
	}

	return Fraction{Num: f.Num * g.Num, Den: f.Den * g.Den}.Reduce(), nil
}

// Cmp compares f and g: -1 if f < g, 0 if equal, +1 if f > g.
// The cross products are evaluated in 128 bits, so comparison never
// overflows.
func (f Fraction) Cmp(g Fraction) int {
	lsign := sign64(f.Num) * sign64(g.Den)
	rsign := sign64(g.Num) * sign64(f.Den)
	if lsign != rsign {
		if lsign < rsign {
			return -1
		}
		return 1
	}

	lhi, llo := bits.Mul64(uint64(abs64(f.Num)), uint64(abs64(g.Den)))
	rhi, rlo := bits.Mul64(uint64(abs64(g.Num)), uint64(abs64(f.Den)))

	cmp := 0
	if lhi != rhi {
		cmp = 1
		if lhi < rhi {
			cmp = -1
		}
	} else if llo != rlo {
		cmp = 1
		if llo < rlo {
			cmp = -1
		}
	}
	if lsign < 0 {
		cmp = -cmp
	}
	return cmp
}

// Scale returns trunc(v·f), rounding toward zero. v and f must be
// non-negative; the intermediate product is kept in 128 bits so only a
// result out of range fails. Results are bounded to 32-bit dimensions,
// matching the integer domain of video geometry.
func (f Fraction) Scale(v int) (int, error) {
	if v < 0 || f.Num < 0 || f.Den <= 0 {
		return 0, ErrOverflow
	}
	hi, lo := bits.Mul64(uint64(v), uint64(f.Num))
	if hi >= uint64(f.Den) {
		return 0, ErrOverflow
	}
	q, _ := bits.Div64(hi, lo, uint64(f.Den))
	if q > math.MaxInt32 {
		return 0, ErrOverflow
	}
	return int(q), nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func sign64(v int64) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
