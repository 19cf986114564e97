package aspect

import (
	"encoding/binary"
	"fmt"
)

// DetectVideoCodec sniffs the codec of a video bitstream from its first
// bytes. It recognizes IVF files, H.264 Annex B streams, and VP8/VP9
// keyframes; anything else is VideoCodecUnknown.
func DetectVideoCodec(data []byte) VideoCodec {
	if len(data) < 4 {
		return VideoCodecUnknown
	}

	// IVF container: "DKIF" magic with the codec FourCC at offset 8.
	if string(data[:4]) == "DKIF" {
		if len(data) < 12 {
			return VideoCodecUnknown
		}
		switch string(data[8:12]) {
		case "VP80":
			return VideoCodecVP8
		case "VP90":
			return VideoCodecVP9
		case "AV01":
			return VideoCodecAV1
		}
		return VideoCodecUnknown
	}

	// H.264 Annex B start code, 3- or 4-byte form.
	if data[0] == 0x00 && data[1] == 0x00 &&
		(data[2] == 0x01 || (data[2] == 0x00 && data[3] == 0x01)) {
		return VideoCodecH264
	}

	// VP8 keyframe: a 3-byte frame tag with the keyframe bit clear,
	// then the start code 9D 01 2A. Per RFC 6386 Section 9.1.
	if len(data) >= 6 && data[0]&0x01 == 0 &&
		data[3] == 0x9D && data[4] == 0x01 && data[5] == 0x2A {
		return VideoCodecVP8
	}

	// VP9 keyframe: frame marker 0b10 and profile bits, then the sync
	// code 49 83 42. Profiles 0-2 keep the sync code byte-aligned;
	// profile 3 does not and is left to the full parser.
	if len(data) >= 4 &&
		(data[0]&0xFC == 0x80 || data[0]&0xFC == 0x90 || data[0]&0xFC == 0xA0) &&
		data[1] == 0x49 && data[2] == 0x83 && data[3] == 0x42 {
		return VideoCodecVP9
	}

	return VideoCodecUnknown
}

// ProbeGeometry sniffs the codec of a bitstream and extracts its coded
// geometry: the dimensions always, the pixel aspect ratio when the
// bitstream declares one (H.264 VUI aspect ratio, VP9 render size).
func ProbeGeometry(data []byte) (VideoCodec, Geometry, error) {
	if len(data) >= 4 && string(data[:4]) == "DKIF" {
		return ProbeIVF(data)
	}

	codec := DetectVideoCodec(data)
	var g Geometry
	var err error
	switch codec {
	case VideoCodecH264:
		g, err = probeH264AnnexB(data)
	case VideoCodecVP8:
		g, err = ParseVP8FrameHeader(data)
	case VideoCodecVP9:
		g, err = ParseVP9FrameHeader(data)
	default:
		return VideoCodecUnknown, Geometry{}, fmt.Errorf("aspect: unrecognized video bitstream")
	}
	if err != nil {
		return codec, Geometry{}, err
	}
	return codec, g, nil
}

const ivfHeaderSize = 32

// ProbeIVF reads the stream geometry from an IVF file header. When the
// first frame is complete it is parsed too, since the bitstream can
// carry a pixel aspect ratio the container cannot.
func ProbeIVF(data []byte) (VideoCodec, Geometry, error) {
	if len(data) < ivfHeaderSize {
		return VideoCodecUnknown, Geometry{}, fmt.Errorf("aspect: IVF header truncated: %d bytes", len(data))
	}
	if string(data[:4]) != "DKIF" {
		return VideoCodecUnknown, Geometry{}, fmt.Errorf("aspect: not an IVF file")
	}

	var codec VideoCodec
	switch string(data[8:12]) {
	case "VP80":
		codec = VideoCodecVP8
	case "VP90":
		codec = VideoCodecVP9
	case "AV01":
		codec = VideoCodecAV1
	default:
		return VideoCodecUnknown, Geometry{}, fmt.Errorf("aspect: unknown IVF codec %q", data[8:12])
	}

	g := Geometry{
		Width:  int(binary.LittleEndian.Uint16(data[12:14])),
		Height: int(binary.LittleEndian.Uint16(data[14:16])),
	}
	if g.Width == 0 || g.Height == 0 {
		return codec, Geometry{}, fmt.Errorf("aspect: IVF header has no geometry")
	}

	// Frame header: 4-byte payload size, 8-byte timestamp.
	if len(data) >= ivfHeaderSize+12 {
		size := int(binary.LittleEndian.Uint32(data[ivfHeaderSize : ivfHeaderSize+4]))
		frame := data[ivfHeaderSize+12:]
		if size > 0 && len(frame) >= size {
			var fg Geometry
			var err error
			switch codec {
			case VideoCodecVP8:
				fg, err = ParseVP8FrameHeader(frame[:size])
			case VideoCodecVP9:
				fg, err = ParseVP9FrameHeader(frame[:size])
			default:
				err = fmt.Errorf("aspect: no frame parser")
			}
			if err == nil {
				return codec, fg, nil
			}
		}
	}

	return codec, g, nil
}

// bitReader consumes a byte slice MSB-first, the bit order of H.264
// RBSP and VP9 headers. Reads past the end set a sticky error and
// return zero, so a parse can run to completion and check Err once.
type bitReader struct {
	data []byte
	pos  int
	err  error
}

func (r *bitReader) bit() uint {
	if r.err != nil {
		return 0
	}
	if r.pos >= len(r.data)*8 {
		r.err = fmt.Errorf("aspect: bitstream exhausted at bit %d", r.pos)
		return 0
	}
	b := r.data[r.pos>>3] >> (7 - uint(r.pos&7)) & 1
	r.pos++
	return uint(b)
}

func (r *bitReader) bits(n uint) uint {
	var v uint
	for i := uint(0); i < n; i++ {
		v = v<<1 | r.bit()
	}
	return v
}

func (r *bitReader) flag() bool {
	return r.bit() == 1
}

func (r *bitReader) skip(n uint) {
	for i := uint(0); i < n; i++ {
		r.bit()
	}
}

// ue reads an unsigned Exp-Golomb code. Per ITU-T H.264 Section 9.1.
func (r *bitReader) ue() uint {
	zeros := 0
	for r.bit() == 0 && r.err == nil {
		zeros++
		if zeros > 31 {
			r.err = fmt.Errorf("aspect: malformed Exp-Golomb code")
			return 0
		}
	}
	if r.err != nil {
		return 0
	}
	return 1<<uint(zeros) - 1 + r.bits(uint(zeros))
}

// se reads a signed Exp-Golomb code. Per ITU-T H.264 Section 9.1.1.
func (r *bitReader) se() int {
	k := r.ue()
	if k%2 == 1 {
		return int(k+1) / 2
	}
	return -int(k) / 2
}

func (r *bitReader) Err() error {
	return r.err
}
