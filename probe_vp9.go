package aspect

import "fmt"

const vp9SyncCode = 0x498342

// ParseVP9FrameHeader reads the geometry from a VP9 keyframe's
// uncompressed header. Per the VP9 bitstream specification Section 6.2.
// A render size differing from the frame size becomes the pixel aspect
// ratio.
func ParseVP9FrameHeader(data []byte) (Geometry, error) {
	r := &bitReader{data: data}

	if r.bits(2) != 2 {
		return Geometry{}, fmt.Errorf("aspect: bad VP9 frame marker")
	}
	low := r.bit()
	high := r.bit()
	profile := high<<1 | low
	if profile == 3 {
		r.bit() // reserved_zero
	}
	if r.flag() {
		// show_existing_frame repeats a decoded frame; no header follows.
		return Geometry{}, fmt.Errorf("aspect: VP9 repeated frame carries no geometry")
	}
	keyframe := !r.flag()
	r.bit() // show_frame
	r.bit() // error_resilient_mode
	if !keyframe {
		return Geometry{}, fmt.Errorf("aspect: VP9 interframe carries no geometry")
	}
	if r.bits(24) != vp9SyncCode {
		return Geometry{}, fmt.Errorf("aspect: bad VP9 sync code")
	}

	// color_config
	if profile >= 2 {
		r.bit() // ten_or_twelve_bit
	}
	if colorSpace := r.bits(3); colorSpace != 7 {
		r.bit() // color_range
		if profile == 1 || profile == 3 {
			r.skip(3) // subsampling_x, subsampling_y, reserved_zero
		}
	} else if profile == 1 || profile == 3 {
		r.bit() // reserved_zero
	}

	w := int(r.bits(16)) + 1
	h := int(r.bits(16)) + 1

	g := Geometry{Width: w, Height: h}
	if r.flag() {
		// render_and_frame_size_different
		rw := int64(r.bits(16)) + 1
		rh := int64(r.bits(16)) + 1
		if r.err == nil && (rw != int64(w) || rh != int64(h)) {
			// The render size is the display aspect; fold the frame size
			// back out to get the pixel shape.
			par, err := (Fraction{Num: rw, Den: rh}).Mul(Fraction{Num: int64(h), Den: int64(w)})
			if err != nil {
				return Geometry{}, err
			}
			if par.Num > 0 && par.Den > 0 {
				g.PAR = par
			}
		}
	}

	if err := r.Err(); err != nil {
		return Geometry{}, err
	}
	return g, nil
}
