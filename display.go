package aspect

import "math"

// Rectangle is a placement region in display coordinates.
type Rectangle struct {
	X, Y int
	W, H int
}

// Empty reports whether the rectangle has no area.
func (r Rectangle) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Placement defines how a frame is placed into a target rectangle when
// the aspect ratios differ.
type Placement int

const (
	// PlacementFit scales to fit within the target, preserving aspect
	// ratio (may letterbox).
	PlacementFit Placement = iota
	// PlacementFill scales to cover the target, preserving aspect ratio
	// (the result extends past the target and is cropped by it).
	PlacementFill
	// PlacementStretch scales to exactly the target (may distort).
	PlacementStretch
	// PlacementCenter performs no scaling: the frame is clipped to the
	// target size and centered.
	PlacementCenter
)

// PlaceRect positions src inside dst according to the placement mode and
// returns the resulting rectangle in dst's coordinate space. Aspect
// ratios are compared as floats; only the placement is approximate, the
// negotiated geometry is not touched.
func PlaceRect(src, dst Rectangle, mode Placement) Rectangle {
	if src.Empty() || dst.Empty() {
		return Rectangle{X: dst.X, Y: dst.Y}
	}

	switch mode {
	case PlacementCenter:
		w := min(src.W, dst.W)
		h := min(src.H, dst.H)
		return Rectangle{
			X: dst.X + (dst.W-w)/2,
			Y: dst.Y + (dst.H-h)/2,
			W: w,
			H: h,
		}

	case PlacementStretch:
		return dst

	case PlacementFill:
		srcRatio := float64(src.W) / float64(src.H)
		dstRatio := float64(dst.W) / float64(dst.H)
		switch {
		case srcRatio > dstRatio:
			w := int(float64(dst.H) * srcRatio)
			return Rectangle{X: dst.X + (dst.W-w)/2, Y: dst.Y, W: w, H: dst.H}
		case srcRatio < dstRatio:
			h := int(float64(dst.W) / srcRatio)
			return Rectangle{X: dst.X, Y: dst.Y + (dst.H-h)/2, W: dst.W, H: h}
		default:
			return dst
		}

	default: // PlacementFit
		srcRatio := float64(src.W) / float64(src.H)
		dstRatio := float64(dst.W) / float64(dst.H)
		switch {
		case srcRatio > dstRatio:
			h := int(float64(dst.W) / srcRatio)
			return Rectangle{X: dst.X, Y: dst.Y + (dst.H-h)/2, W: dst.W, H: h}
		case srcRatio < dstRatio:
			w := int(float64(dst.H) * srcRatio)
			return Rectangle{X: dst.X + (dst.W-w)/2, Y: dst.Y, W: w, H: dst.H}
		default:
			return dst
		}
	}
}

// DisplayRatio returns the ratio of display units the video occupies once
// its pixels land on a device with the given pixel shape: the video DAR
// divided by the device PAR. An unset device PAR means square pixels.
func DisplayRatio(video Geometry, devicePAR Fraction) (Fraction, error) {
	if devicePAR.IsZero() {
		devicePAR = Square
	}
	dar, err := video.DAR()
	if err != nil {
		return Fraction{}, err
	}
	return dar.Mul(devicePAR.Invert())
}

// ScaledSize returns the frame size that shows video at its display
// aspect ratio on a device with the given pixel shape. A source
// dimension is kept whenever an exact integer scale of the other side
// exists, preferring the height so interlaced content keeps its line
// count.
func ScaledSize(video Geometry, devicePAR Fraction) (int, int, error) {
	ratio, err := DisplayRatio(video, devicePAR)
	if err != nil {
		return 0, 0, err
	}

	switch {
	case int64(video.Height)%ratio.Den == 0:
		w, err := ratio.Scale(video.Height)
		if err != nil {
			return 0, 0, err
		}
		return w, video.Height, nil
	case int64(video.Width)%ratio.Num == 0:
		h, err := ratio.Invert().Scale(video.Width)
		if err != nil {
			return 0, 0, err
		}
		return video.Width, h, nil
	default:
		// No integer fit on either side: approximate, keeping the height.
		w, err := ratio.Scale(video.Height)
		if err != nil {
			return 0, 0, err
		}
		return w, video.Height, nil
	}
}

// Monitor pixel shapes a physical display plausibly has. Reported
// millimeter sizes are too coarse to trust directly, so the measured
// ratio snaps to the closest known shape.
var devicePARs = []Fraction{
	{1, 1},   // regular computer screen
	{16, 15}, // PAL TV
	{11, 10}, // 525-line Rec.601 video
	{54, 59}, // 625-line Rec.601 video
	{64, 45}, // 1280x1024 on a 16:9 display
	{5, 3},   // 1280x1024 on a 4:3 display
	{4, 3},   // 800x600 on a 16:9 display
}

// DeviceRatio estimates the pixel aspect ratio of a display from its
// resolution and physical size. Unknown physical dimensions yield square
// pixels.
func DeviceRatio(widthPx, heightPx, widthMM, heightMM int) Fraction {
	if widthPx <= 0 || heightPx <= 0 || widthMM <= 0 || heightMM <= 0 {
		return Square
	}

	measured := (float64(widthMM) * float64(heightPx)) / (float64(heightMM) * float64(widthPx))

	best := Square
	bestDelta := math.Inf(1)
	for _, par := range devicePARs {
		if d := math.Abs(measured - par.Float64()); d < bestDelta {
			best, bestDelta = par, d
		}
	}
	return best
}
