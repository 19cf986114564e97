package aspect

import (
	"encoding/binary"
	"fmt"
)

// ParseVP8FrameHeader reads the geometry from a VP8 keyframe's
// uncompressed data chunk. Per RFC 6386 Section 9.1. Interframes carry
// no geometry and are rejected.
func ParseVP8FrameHeader(data []byte) (Geometry, error) {
	if len(data) < 10 {
		return Geometry{}, fmt.Errorf("aspect: VP8 frame truncated: %d bytes", len(data))
	}
	if data[0]&0x01 != 0 {
		return Geometry{}, fmt.Errorf("aspect: VP8 interframe carries no geometry")
	}
	if data[3] != 0x9D || data[4] != 0x01 || data[5] != 0x2A {
		return Geometry{}, fmt.Errorf("aspect: bad VP8 keyframe start code")
	}

	// The top two bits of each size are a display upscaling hint; the
	// coded size is what negotiation works with.
	w := int(binary.LittleEndian.Uint16(data[6:8]) & 0x3FFF)
	h := int(binary.LittleEndian.Uint16(data[8:10]) & 0x3FFF)
	if w == 0 || h == 0 {
		return Geometry{}, fmt.Errorf("aspect: VP8 keyframe has no geometry")
	}
	return Geometry{Width: w, Height: h}, nil
}
