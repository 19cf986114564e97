package aspect

import (
	"testing"
)

// FuzzDetectVideoCodec tests codec detection with random inputs.
// Run with: go test -fuzz=FuzzDetectVideoCodec -fuzztime=30s
func FuzzDetectVideoCodec(f *testing.F) {
	seeds := [][]byte{
		// H264 Annex-B patterns
		{0x00, 0x00, 0x00, 0x01, 0x67}, // SPS
		{0x00, 0x00, 0x00, 0x01, 0x68}, // PPS
		{0x00, 0x00, 0x01, 0x65, 0x88}, // 3-byte start code + IDR

		// VP8 keyframe
		{0x10, 0x00, 0x00, 0x9D, 0x01, 0x2A, 0x80, 0x02, 0xE0, 0x01},
		// VP8 interframe (keyframe bit set)
		{0x11, 0x00, 0x00, 0x9D, 0x01, 0x2A, 0x80, 0x02, 0xE0, 0x01},

		// VP9 keyframes, profiles 0-2
		{0x82, 0x49, 0x83, 0x42},
		{0xA2, 0x49, 0x83, 0x42},
		{0x92, 0x49, 0x83, 0x42},

		// IVF headers
		buildIVF("VP80", 320, 240),
		buildIVF("VP90", 1920, 1080),
		buildIVF("AV01", 1280, 720),
		buildIVF("XXXX", 320, 240),

		// Edge cases
		{},
		{0x00},
		{0x00, 0x00},
		{0x00, 0x00, 0x00},
		{0xFF, 0xFF, 0xFF, 0xFF},
		{'D', 'K', 'I', 'F'},
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		// The function should never panic
		result := DetectVideoCodec(data)

		// Result must be a valid VideoCodec value
		if result < VideoCodecUnknown || result > VideoCodecAV1 {
			t.Errorf("DetectVideoCodec returned invalid codec: %d", result)
		}

		// Verify deterministic behavior
		result2 := DetectVideoCodec(data)
		if result != result2 {
			t.Errorf("DetectVideoCodec not deterministic: %v != %v", result, result2)
		}
	})
}

// FuzzParseSPS tests the H.264 SPS parser with random inputs.
// Run with: go test -fuzz=FuzzParseSPS -fuzztime=30s
func FuzzParseSPS(f *testing.F) {
	seeds := [][]byte{
		buildSPS(spsParams{profile: 66, widthMBs: 40, heightUnits: 30, frameMBSOnly: true}),
		buildSPS(spsParams{profile: 100, widthMBs: 120, heightUnits: 68, frameMBSOnly: true, crop: [4]uint{0, 0, 0, 4}}),
		buildSPS(spsParams{profile: 66, widthMBs: 45, heightUnits: 30, frameMBSOnly: true, sarIDC: 3}),
		buildSPS(spsParams{profile: 100, widthMBs: 8, heightUnits: 8, frameMBSOnly: true, sarIDC: sarExtended, sarW: 4, sarH: 3}),
		buildSPS(spsParams{profile: 66, widthMBs: 120, heightUnits: 34, frameMBSOnly: false, crop: [4]uint{0, 0, 0, 2}}),
		{0x67},
		{0x67, 0x42, 0x00, 0x1F},
		{0x68, 0xCE, 0x38, 0x80}, // PPS, not an SPS
		{},
		{0x00, 0x00, 0x00, 0x00},
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		// The parser should never panic, whatever the bytes
		g, err := ParseSPS(data)
		if err != nil {
			return
		}

		// A successful parse must yield usable geometry
		if g.Width <= 0 || g.Height <= 0 || g.Width > MaxDimension || g.Height > MaxDimension {
			t.Errorf("ParseSPS accepted geometry %dx%d", g.Width, g.Height)
		}
		if !g.PAR.IsZero() && (g.PAR.Num <= 0 || g.PAR.Den <= 0) {
			t.Errorf("ParseSPS accepted aspect ratio %v", g.PAR)
		}

		// Verify deterministic behavior
		g2, err2 := ParseSPS(data)
		if err2 != nil || g != g2 {
			t.Errorf("ParseSPS not deterministic: %v != %v", g, g2)
		}
	})
}

// FuzzParseVP8FrameHeader tests the VP8 frame header parser.
// Run with: go test -fuzz=FuzzParseVP8FrameHeader -fuzztime=30s
func FuzzParseVP8FrameHeader(f *testing.F) {
	seeds := [][]byte{
		buildVP8Keyframe(640, 480),
		buildVP8Keyframe(1920, 1080),
		buildVP8Keyframe(0, 0),
		{0x11, 0x00, 0x00, 0x9D, 0x01, 0x2A, 0x80, 0x02, 0xE0, 0x01}, // interframe
		{0x10, 0x00, 0x00, 0x00, 0x01, 0x2A, 0x80, 0x02, 0xE0, 0x01}, // bad start code
		{},
		{0x10, 0x00, 0x00, 0x9D, 0x01},
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		g, err := ParseVP8FrameHeader(data)
		if err != nil {
			return
		}

		// Coded sizes are 14-bit values
		if g.Width <= 0 || g.Width > 0x3FFF || g.Height <= 0 || g.Height > 0x3FFF {
			t.Errorf("ParseVP8FrameHeader accepted geometry %dx%d", g.Width, g.Height)
		}
	})
}

// FuzzParseVP9FrameHeader tests the VP9 uncompressed header parser.
// Run with: go test -fuzz=FuzzParseVP9FrameHeader -fuzztime=30s
func FuzzParseVP9FrameHeader(f *testing.F) {
	seeds := [][]byte{
		buildVP9Keyframe(1920, 1080, 0, 0),
		buildVP9Keyframe(1920, 1080, 1440, 1080),
		buildVP9Keyframe(1, 1, 0, 0),
		{0x82, 0x49, 0x83, 0x42},
		{0x84, 0x00, 0x00, 0x00}, // show_existing_frame
		{0xC0, 0x00, 0x00, 0x00}, // bad frame marker
		{},
		{0x82},
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		g, err := ParseVP9FrameHeader(data)
		if err != nil {
			return
		}

		// Frame sizes are 16-bit values plus one
		if g.Width <= 0 || g.Width > 0x10000 || g.Height <= 0 || g.Height > 0x10000 {
			t.Errorf("ParseVP9FrameHeader accepted geometry %dx%d", g.Width, g.Height)
		}
		if !g.PAR.IsZero() && (g.PAR.Num <= 0 || g.PAR.Den <= 0) {
			t.Errorf("ParseVP9FrameHeader accepted aspect ratio %v", g.PAR)
		}
	})
}

// FuzzProbeGeometry tests the whole probe path end to end.
// Run with: go test -fuzz=FuzzProbeGeometry -fuzztime=30s
func FuzzProbeGeometry(f *testing.F) {
	sps := buildSPS(spsParams{profile: 66, widthMBs: 45, heightUnits: 30, frameMBSOnly: true, sarIDC: 3})
	annexB := append([]byte{0x00, 0x00, 0x00, 0x01}, sps...)

	seeds := [][]byte{
		annexB,
		buildVP8Keyframe(640, 480),
		buildVP9Keyframe(1920, 1080, 1440, 1080),
		buildIVF("VP80", 320, 240),
		buildIVF("VP90", 1920, 1080, buildVP9Keyframe(1920, 1080, 0, 0)),
		buildIVF("AV01", 1280, 720, []byte{0x12, 0x00}),
		{},
		{0x00, 0x00, 0x00, 0x01},
		{0xFF, 0xFF, 0xFF, 0xFF},
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		codec, g, err := ProbeGeometry(data)
		if err != nil {
			return
		}

		if codec == VideoCodecUnknown {
			t.Error("ProbeGeometry succeeded without identifying a codec")
		}
		if g.Width <= 0 || g.Height <= 0 {
			t.Errorf("ProbeGeometry accepted geometry %dx%d", g.Width, g.Height)
		}
	})
}
