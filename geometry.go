package aspect

import "fmt"

// Geometry is a video geometry: pixel dimensions plus the pixel aspect
// ratio. A zero PAR means the ratio was never declared; square pixels
// are implied.
type Geometry struct {
	Width  int
	Height int
	PAR    Fraction
}

// EffectivePAR returns the pixel aspect ratio, substituting 1:1 when it
// is unset.
func (g Geometry) EffectivePAR() Fraction {
	if g.PAR.IsZero() {
		return Square
	}
	return g.PAR
}

// DAR returns the display aspect ratio: (Width·par_n)/(Height·par_d),
// reduced. Fails with ErrOverflow if the products are unrepresentable.
func (g Geometry) DAR() (Fraction, error) {
	return Fraction{Num: int64(g.Width), Den: int64(g.Height)}.Mul(g.EffectivePAR())
}

func (g Geometry) String() string {
	if g.PAR.IsZero() {
		return fmt.Sprintf("%dx%d", g.Width, g.Height)
	}
	return fmt.Sprintf("%dx%d par %v", g.Width, g.Height, g.PAR)
}
