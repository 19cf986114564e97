package aspect

import "fmt"

// Direction identifies which end of a negotiation is being fixed.
// It decides how undeclared pixel aspect ratios default: the side
// already fixed assumes square pixels, while an undeclared PAR on the
// side being fixed is either left open (fixing the output) or pinned to
// 1:1 explicitly (fixing the input).
type Direction int

const (
	// DirectionOutput fixates the downstream side against a fully fixed
	// upstream input.
	DirectionOutput Direction = iota
	// DirectionInput fixates the upstream side against a fully fixed
	// downstream output.
	DirectionInput
)

func (d Direction) String() string {
	switch d {
	case DirectionOutput:
		return "Output"
	case DirectionInput:
		return "Input"
	default:
		return "Unknown"
	}
}

// Fixate resolves target constraints against a fixed source geometry,
// fixing the downstream side. See FixateDirection.
func Fixate(source Geometry, target Constraints) (Geometry, error) {
	return FixateDirection(DirectionOutput, source, target)
}

// FixateDirection picks the single target geometry that satisfies the
// target constraints and preserves the source display aspect ratio as
// closely as possible. All ratio math is exact; the only failure mode is
// ErrOverflow, in which case no geometry is returned. Inputs are never
// mutated and the call is safe for concurrent use.
//
// The case order is strict: fixed dimensions win over everything, a
// fixed PAR wins over free dimensions, and the fully free case walks a
// staged fallback that prefers source-sized output, then exact
// DAR-preserving rescales of one side, and finally accepts the nearest
// values with an approximated DAR.
func FixateDirection(dir Direction, source Geometry, target Constraints) (Geometry, error) {
	if source.Width <= 0 || source.Height <= 0 {
		return Geometry{}, fmt.Errorf("aspect: source geometry %v is not fixed", source)
	}

	par := target.PAR
	// An undeclared PAR never appears in the result when fixing the
	// output side; fixing the input side pins it to 1:1 explicitly.
	parExplicit := par.Present() || dir == DirectionInput
	if !par.Present() {
		if dir == DirectionOutput {
			par = fullPARRange()
		} else {
			par = FixedFraction(Square)
		}
	}

	srcDAR, err := source.DAR()
	if err != nil {
		return Geometry{}, err
	}

	wFixed, wOK := target.Width.Fixed()
	hFixed, hOK := target.Height.Fixed()

	switch {
	// Both dimensions already fixed: only the PAR is negotiable.
	case wOK && hOK:
		derived, err := srcDAR.Mul(Fraction{Num: int64(hFixed), Den: int64(wFixed)})
		if err != nil {
			return Geometry{}, err
		}
		set := par.Nearest(derived)
		return assemble(wFixed, hFixed, set, parExplicit || set.Cmp(Square) != 0), nil
	case hOK:
		return fixateWithHeight(srcDAR, source, target, par, parExplicit, hFixed)
	case wOK:
		return fixateWithWidth(srcDAR, source, target, par, parExplicit, wFixed)
	default:
		if pv, ok := par.Fixed(); ok {
			return fixateWithPAR(srcDAR, source, target, pv)
		}
		return fixateFree(srcDAR, source, target, par, parExplicit)
	}
}

// fixateWithHeight handles a fixed height with a free width: pick the
// width and PAR nearest to a DAR-preserving pair.
func fixateWithHeight(srcDAR Fraction, source Geometry, target Constraints, par FractionConstraint, parExplicit bool, h int) (Geometry, error) {
	// Fixed PAR: the width is fully determined, clamp it and be done.
	if pv, ok := par.Fixed(); ok {
		ratio, err := srcDAR.Mul(pv.Invert())
		if err != nil {
			return Geometry{}, err
		}
		w, err := ratio.Scale(h)
		if err != nil {
			return Geometry{}, err
		}
		return assemble(target.Width.Nearest(w), h, pv, true), nil
	}

	// Try to keep the source width and absorb the DAR change in the PAR.
	setW := target.Width.Nearest(source.Width)
	derived, err := srcDAR.Mul(Fraction{Num: int64(h), Den: int64(setW)})
	if err != nil {
		return Geometry{}, err
	}
	setPar := par.Nearest(derived)
	if setPar.Cmp(derived) == 0 {
		return assemble(setW, h, setPar, parExplicit || setPar.Cmp(Square) != 0), nil
	}

	// The PAR was clamped; rescale the width to it. The DAR may no
	// longer be exact but this is the closest the constraints allow.
	ratio, err := srcDAR.Mul(setPar.Invert())
	if err != nil {
		return Geometry{}, err
	}
	w, err := ratio.Scale(h)
	if err != nil {
		return Geometry{}, err
	}
	return assemble(target.Width.Nearest(w), h, setPar, parExplicit || setPar.Cmp(Square) != 0), nil
}

// fixateWithWidth mirrors fixateWithHeight for a fixed width.
func fixateWithWidth(srcDAR Fraction, source Geometry, target Constraints, par FractionConstraint, parExplicit bool, w int) (Geometry, error) {
	if pv, ok := par.Fixed(); ok {
		ratio, err := srcDAR.Mul(pv.Invert())
		if err != nil {
			return Geometry{}, err
		}
		h, err := ratio.Invert().Scale(w)
		if err != nil {
			return Geometry{}, err
		}
		return assemble(w, target.Height.Nearest(h), pv, true), nil
	}

	setH := target.Height.Nearest(source.Height)
	derived, err := srcDAR.Mul(Fraction{Num: int64(setH), Den: int64(w)})
	if err != nil {
		return Geometry{}, err
	}
	setPar := par.Nearest(derived)
	if setPar.Cmp(derived) == 0 {
		return assemble(w, setH, setPar, parExplicit || setPar.Cmp(Square) != 0), nil
	}

	ratio, err := srcDAR.Mul(setPar.Invert())
	if err != nil {
		return Geometry{}, err
	}
	h, err := ratio.Invert().Scale(w)
	if err != nil {
		return Geometry{}, err
	}
	return assemble(w, target.Height.Nearest(h), setPar, parExplicit || setPar.Cmp(Square) != 0), nil
}

// fixateWithPAR handles a fixed PAR with both dimensions free: scale the
// source dimensions by the implied factor, preferring to keep one side
// of the source untouched.
func fixateWithPAR(srcDAR Fraction, source Geometry, target Constraints, pv Fraction) (Geometry, error) {
	ratio, err := srcDAR.Mul(pv.Invert())
	if err != nil {
		return Geometry{}, err
	}

	// Try to keep the source height (because of interlacing).
	setH := target.Height.Nearest(source.Height)
	w, err := ratio.Scale(setH)
	if err != nil {
		return Geometry{}, err
	}
	setW := target.Width.Nearest(w)
	if setW == w {
		return assemble(setW, setH, pv, true), nil
	}
	fW, fH := setW, setH

	// Keeping the height failed; try to keep the source width.
	setW = target.Width.Nearest(source.Width)
	h, err := ratio.Invert().Scale(setW)
	if err != nil {
		return Geometry{}, err
	}
	setH = target.Height.Nearest(h)
	if setH == h {
		return assemble(setW, setH, pv, true), nil
	}

	// Neither side survives an exact rescale: keep the height-preserving
	// candidate even though the DAR shifts.
	return assemble(fW, fH, pv, true), nil
}

// fixateFree handles the fully negotiable case: width, height and PAR
// all free.
func fixateFree(srcDAR Fraction, source Geometry, target Constraints, par FractionConstraint, parExplicit bool) (Geometry, error) {
	// Stage one: keep both dimensions as close to the source as the
	// constraints allow and absorb the difference in the PAR.
	setH := target.Height.Nearest(source.Height)
	setW := target.Width.Nearest(source.Width)
	derived, err := srcDAR.Mul(Fraction{Num: int64(setH), Den: int64(setW)})
	if err != nil {
		return Geometry{}, err
	}
	setPar := par.Nearest(derived)
	explicit := parExplicit || setPar.Cmp(Square) != 0
	if setPar.Cmp(derived) == 0 {
		return assemble(setW, setH, setPar, explicit), nil
	}

	// Stage two: the PAR was clamped; rescale the width against it and
	// accept only an exact fit.
	ratio, err := srcDAR.Mul(setPar.Invert())
	if err != nil {
		return Geometry{}, err
	}
	w, err := ratio.Scale(setH)
	if err != nil {
		return Geometry{}, err
	}
	if target.Width.Nearest(w) == w {
		return assemble(w, setH, setPar, explicit), nil
	}

	// Stage three: same rescale on the height.
	h, err := ratio.Invert().Scale(setW)
	if err != nil {
		return Geometry{}, err
	}
	if target.Height.Nearest(h) == h {
		return assemble(setW, h, setPar, explicit), nil
	}

	// No exact fit exists: accept the stage-one candidate and let the
	// DAR drift.
	return assemble(setW, setH, setPar, explicit), nil
}

// assemble builds the final geometry in one place. The PAR is written
// only when the negotiation decided it must be explicit; otherwise it
// stays unset and square pixels are implied.
func assemble(w, h int, par Fraction, explicit bool) Geometry {
	g := Geometry{Width: w, Height: h}
	if explicit {
		g.PAR = par.Reduce()
	}
	return g
}
