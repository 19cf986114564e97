package aspect

import (
	"fmt"
	"math"
)

// Mode is a display timing: the size the hardware scans out plus the
// pixel clock and blanking totals that define its refresh rate. For
// interlaced modes Height is the field height.
type Mode struct {
	Name       string
	Width      int
	Height     int
	Clock      int // pixel clock in kHz
	HTotal     int
	VTotal     int
	Interlaced bool
}

// Refresh returns the vertical refresh rate in Hz, derived from the
// pixel clock and the blanking totals.
func (m Mode) Refresh() float64 {
	return float64(m.Clock) * 1000.0 / (float64(m.HTotal) * float64(m.VTotal))
}

// FrameHeight returns the full frame height the mode displays: twice
// the scanout height for interlaced modes.
func (m Mode) FrameHeight() int {
	if m.Interlaced {
		return m.Height * 2
	}
	return m.Height
}

func (m Mode) String() string {
	if m.Name != "" {
		return m.Name
	}
	suffix := ""
	if m.Interlaced {
		suffix = "i"
	}
	return fmt.Sprintf("%dx%d%s", m.Width, m.Height, suffix)
}

// RefreshTolerance is how far a mode's refresh rate may sit from the
// video frame rate and still count as matching, in Hz.
const RefreshTolerance = 0.005

// MatchMode picks the mode a video should be scanned out with: the
// first whose size equals the video's field size and whose refresh rate
// sits within RefreshTolerance of the frame rate. Interlaced video only
// ever takes an interlace-capable mode at the right rate; progressive
// video falls back to the last size-only match when no rate agrees.
func MatchMode(modes []Mode, video Geometry, fps Fraction, interlaced bool) (Mode, bool) {
	want := fps.Float64()
	fieldHeight := video.Height
	if interlaced {
		fieldHeight = (video.Height + 1) / 2
	}

	cached := -1
	for i, m := range modes {
		if m.Width != video.Width || m.Height != fieldHeight {
			continue
		}
		if interlaced {
			if !m.Interlaced {
				continue
			}
			if math.Abs(m.Refresh()-want) > RefreshTolerance {
				continue
			}
		} else if math.Abs(m.Refresh()-want) > RefreshTolerance {
			cached = i
			continue
		}
		return m, true
	}

	if !interlaced && cached >= 0 {
		return modes[cached], true
	}
	return Mode{}, false
}

// ModeConstraints returns the constraints a display mode imposes on
// video sent to it: both dimensions pinned to the scanout size, the
// frame height for interlaced modes. The PAR stays open for the
// negotiation defaults to settle.
func ModeConstraints(m Mode) Constraints {
	return Constraints{
		Width:  FixedInt(m.Width),
		Height: FixedInt(m.FrameHeight()),
	}
}

// RangeConstraints returns the constraints of a display plane that can
// scan out any size within its limits.
func RangeConstraints(minWidth, maxWidth, minHeight, maxHeight int) Constraints {
	return Constraints{
		Width:  RangedInt(minWidth, maxWidth),
		Height: RangedInt(minHeight, maxHeight),
	}
}

// ForceNTSCTV widens 480-line video to the NTSC TV D1 raster, 720x486,
// for TV encoders that only scan out the full 486-line mode.
func ForceNTSCTV(video Geometry) Geometry {
	if video.Height == 480 {
		video.Width = 720
		video.Height = 486
	}
	return video
}
