package aspect

import (
	"bytes"
	"fmt"
)

// edidHeader opens every base EDID block.
var edidHeader = []byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}

const edidBlockSize = 128

// EDID is the subset of a display identification block that geometry
// negotiation needs: the physical screen size and the detailed timing
// modes.
type EDID struct {
	// WidthMM and HeightMM are the screen size. The base block stores
	// centimeters, so the precision is one centimeter.
	WidthMM  int
	HeightMM int
	// Modes holds the detailed timing descriptors in block order; the
	// first one is the display's preferred mode.
	Modes []Mode
}

// DevicePAR returns the pixel shape of the display scanning out its
// preferred mode.
func (e *EDID) DevicePAR() Fraction {
	if len(e.Modes) == 0 {
		return Square
	}
	m := e.Modes[0]
	return DeviceRatio(m.Width, m.FrameHeight(), e.WidthMM, e.HeightMM)
}

// DisplayInfo returns the planner's description of this display.
func (e *EDID) DisplayInfo() DisplayInfo {
	return DisplayInfo{
		WidthMM:  e.WidthMM,
		HeightMM: e.HeightMM,
		Modes:    e.Modes,
	}
}

// ParseEDID decodes the base block of an EDID: the screen size and the
// detailed timing descriptors. Extension blocks are ignored.
func ParseEDID(data []byte) (*EDID, error) {
	if len(data) < edidBlockSize {
		return nil, fmt.Errorf("aspect: EDID block truncated: %d bytes", len(data))
	}
	if !bytes.Equal(data[:8], edidHeader) {
		return nil, fmt.Errorf("aspect: bad EDID header")
	}
	var sum byte
	for _, b := range data[:edidBlockSize] {
		sum += b
	}
	if sum != 0 {
		return nil, fmt.Errorf("aspect: EDID checksum mismatch")
	}

	e := &EDID{
		WidthMM:  int(data[21]) * 10,
		HeightMM: int(data[22]) * 10,
	}

	// Four 18-byte descriptor slots. A zero pixel clock marks a display
	// descriptor rather than a timing.
	for off := 54; off+18 <= 126; off += 18 {
		d := data[off : off+18]
		clock := int(d[0]) | int(d[1])<<8 // 10 kHz units
		if clock == 0 {
			continue
		}
		hactive := int(d[2]) | int(d[4]&0xF0)<<4
		hblank := int(d[3]) | int(d[4]&0x0F)<<8
		vactive := int(d[5]) | int(d[7]&0xF0)<<4
		vblank := int(d[6]) | int(d[7]&0x0F)<<8
		if hactive == 0 || vactive == 0 {
			continue
		}
		e.Modes = append(e.Modes, Mode{
			Width:      hactive,
			Height:     vactive,
			Clock:      clock * 10,
			HTotal:     hactive + hblank,
			VTotal:     vactive + vblank,
			Interlaced: d[17]&0x80 != 0,
		})
	}

	return e, nil
}
