package aspect

import (
	"fmt"
	"sync"
)

// DisplayInfo describes the scanout target a Planner negotiates onto.
// Width and Height are the current scanout size. Modes, when set, makes
// the planner pick and report a display mode instead: the frame is then
// scanned out whole, so placement does not apply.
type DisplayInfo struct {
	Width    int // current scanout width in pixels
	Height   int // current scanout height in pixels
	WidthMM  int // physical width in millimetres
	HeightMM int // physical height in millimetres

	Modes []Mode

	// CanScale reports whether the plane engine scales during scanout.
	// Without it video shows pixel for pixel and is clipped to fit.
	CanScale bool
}

// Plan is one frame's placement on the display.
type Plan struct {
	// Mode is the display mode to program before showing the frame,
	// set only when planning from a mode list.
	Mode    Mode
	HasMode bool

	// ScaledWidth and ScaledHeight are the video size corrected for
	// the display's pixel shape, before fitting into the render
	// rectangle.
	ScaledWidth  int
	ScaledHeight int

	// Source is the frame region the plane reads, Target the display
	// region it writes.
	Source Rectangle
	Target Rectangle
}

// Planner places video frames onto one display.
type Planner struct {
	display DisplayInfo

	mu        sync.Mutex
	render    Rectangle
	forceNTSC bool
}

// NewPlanner creates a planner for the given display.
func NewPlanner(display DisplayInfo) *Planner {
	return &Planner{display: display}
}

// SetRenderRectangle restricts output to a region of the display. An
// empty rectangle restores the full display.
func (p *Planner) SetRenderRectangle(rect Rectangle) {
	p.mu.Lock()
	if rect.Empty() {
		rect = Rectangle{}
	}
	p.render = rect
	p.mu.Unlock()
}

// SetForceNTSCTV widens 480-line video to the 720x486 D1 raster before
// mode matching, for TV encoders that only scan out the full mode.
func (p *Planner) SetForceNTSCTV(force bool) {
	p.mu.Lock()
	p.forceNTSC = force
	p.mu.Unlock()
}

// Plan places a full video frame. The frame rate and interlacing only
// matter when the display is planned from a mode list.
func (p *Planner) Plan(video Geometry, fps Fraction, interlaced bool) (Plan, error) {
	return p.plan(video, Rectangle{}, fps, interlaced)
}

// PlanCropped places the crop region of a video frame. The display
// ratio is computed from the crop, so the visible region keeps its
// shape on screen.
func (p *Planner) PlanCropped(video Geometry, crop Rectangle, fps Fraction, interlaced bool) (Plan, error) {
	if crop.Empty() || crop.X < 0 || crop.Y < 0 ||
		crop.X+crop.W > video.Width || crop.Y+crop.H > video.Height {
		return Plan{}, fmt.Errorf("aspect: crop %v outside frame %dx%d", crop, video.Width, video.Height)
	}
	return p.plan(video, crop, fps, interlaced)
}

func (p *Planner) plan(video Geometry, crop Rectangle, fps Fraction, interlaced bool) (Plan, error) {
	p.mu.Lock()
	render := p.render
	forceNTSC := p.forceNTSC
	p.mu.Unlock()

	if video.Width <= 0 || video.Height <= 0 {
		return Plan{}, fmt.Errorf("aspect: video geometry %v is not fixed", video)
	}

	// Modesetting path: the CRTC scans the frame out whole. No
	// scaling, placement, or cropping happens on this path.
	if len(p.display.Modes) > 0 {
		matched := video
		if forceNTSC {
			matched = ForceNTSCTV(matched)
		}
		mode, ok := MatchMode(p.display.Modes, matched, fps, interlaced)
		if !ok {
			return Plan{}, fmt.Errorf("aspect: no display mode fits %dx%d at %v fps",
				matched.Width, matched.Height, fps)
		}
		return Plan{
			Mode:         mode,
			HasMode:      true,
			ScaledWidth:  matched.Width,
			ScaledHeight: matched.Height,
			Source:       Rectangle{W: matched.Width, H: matched.Height},
			Target:       Rectangle{W: mode.Width, H: mode.FrameHeight()},
		}, nil
	}

	dispW, dispH := p.display.Width, p.display.Height
	if dispW <= 0 || dispH <= 0 {
		return Plan{}, fmt.Errorf("aspect: display has no size")
	}

	// The region being shown: the crop, or the whole frame.
	shown := video
	src := Rectangle{W: video.Width, H: video.Height}
	if !crop.Empty() {
		shown = Geometry{Width: crop.W, Height: crop.H, PAR: video.PAR}
		src = crop
	}

	// Scaled size from the display's pixel shape. Without a scaling
	// engine the video stays at its coded size.
	var plan Plan
	plan.ScaledWidth, plan.ScaledHeight = shown.Width, shown.Height
	if p.display.CanScale {
		par := DeviceRatio(dispW, dispH, p.display.WidthMM, p.display.HeightMM)
		w, h, err := ScaledSize(shown, par)
		if err != nil {
			return Plan{}, err
		}
		plan.ScaledWidth, plan.ScaledHeight = w, h
	}

	if render.Empty() {
		render = Rectangle{W: dispW, H: dispH}
	}
	placement := PlacementCenter
	if p.display.CanScale {
		placement = PlacementFit
	}
	target := PlaceRect(Rectangle{W: plan.ScaledWidth, H: plan.ScaledHeight}, render, placement)

	// Clip what runs off the display edge.
	if target.X+target.W > dispW {
		target.W = dispW - target.X
	}
	if target.Y+target.H > dispH {
		target.H = dispH - target.Y
	}
	if target.W <= 0 || target.H <= 0 {
		return Plan{}, fmt.Errorf("aspect: video is out of display range")
	}

	// Without scaling the plane reads exactly the pixels it writes.
	if !p.display.CanScale {
		src.W = target.W
		src.H = target.H
	}

	plan.Source = src
	plan.Target = target
	return plan, nil
}
