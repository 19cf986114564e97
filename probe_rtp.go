package aspect

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/pion/rtp/codecs"
)

// H264 NAL unit payload structures on the RTP path. Per RFC 6184.
const (
	nalTypeSTAPA = 24 // Single-time aggregation packet
	nalTypeFUA   = 28 // Fragmentation Unit A
)

// GeometryProbe watches one video stream's RTP packets for the first
// frame header that declares the stream geometry: an H.264 sequence
// parameter set, or a VP8/VP9 keyframe header.
//
// Damaged or unparseable packets are skipped rather than failed; the
// next parameter set or keyframe brings another chance.
type GeometryProbe struct {
	codec VideoCodec

	// FU-A reassembly state for a fragmented SPS.
	fuaBuffer   []byte
	fragmenting bool

	vp8 codecs.VP8Packet
	vp9 codecs.VP9Packet
	mu  sync.Mutex
}

// NewGeometryProbe creates a probe for a stream of the given codec.
// H264, VP8, and VP9 can be probed.
func NewGeometryProbe(codec VideoCodec) *GeometryProbe {
	return &GeometryProbe{codec: codec}
}

// Feed inspects one RTP packet. It returns the stream geometry and true
// once a frame header has revealed it; until then it returns false.
func (p *GeometryProbe) Feed(pkt *RTPPacket) (Geometry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(pkt.Payload) == 0 {
		return Geometry{}, false
	}

	switch p.codec {
	case VideoCodecH264:
		return p.feedH264(pkt.Payload)
	case VideoCodecVP8:
		return p.feedVP8(pkt.Payload)
	case VideoCodecVP9:
		return p.feedVP9(pkt.Payload)
	}
	return Geometry{}, false
}

func (p *GeometryProbe) feedH264(payload []byte) (Geometry, bool) {
	switch payload[0] & 0x1F {
	case nalTypeSPS:
		if g, err := ParseSPS(payload); err == nil {
			return g, true
		}

	case nalTypeSTAPA:
		// STAP-A aggregates NAL units with 16-bit length prefixes; the
		// SDP sprop parameter sets usually arrive this way.
		offset := 1
		for offset+2 <= len(payload) {
			size := int(binary.BigEndian.Uint16(payload[offset:]))
			offset += 2
			if size == 0 || offset+size > len(payload) {
				break
			}
			nal := payload[offset : offset+size]
			offset += size
			if nal[0]&0x1F != nalTypeSPS {
				continue
			}
			if g, err := ParseSPS(nal); err == nil {
				return g, true
			}
		}

	case nalTypeFUA:
		if len(payload) < 2 {
			return Geometry{}, false
		}
		fuHeader := payload[1]
		if fuHeader&0x80 != 0 {
			// Start bit: only an SPS fragment is worth assembling. The
			// NAL header is rebuilt from the indicator's NRI bits.
			if fuHeader&0x1F != nalTypeSPS {
				p.fragmenting = false
				return Geometry{}, false
			}
			nalHeader := payload[0]&0xE0 | fuHeader&0x1F
			p.fuaBuffer = append(p.fuaBuffer[:0], nalHeader)
			p.fragmenting = true
		}
		if !p.fragmenting {
			return Geometry{}, false
		}
		p.fuaBuffer = append(p.fuaBuffer, payload[2:]...)
		if fuHeader&0x40 != 0 {
			// End bit
			p.fragmenting = false
			if g, err := ParseSPS(p.fuaBuffer); err == nil {
				return g, true
			}
		}
	}
	return Geometry{}, false
}

func (p *GeometryProbe) feedVP8(payload []byte) (Geometry, bool) {
	if _, err := p.vp8.Unmarshal(payload); err != nil {
		return Geometry{}, false
	}
	// The frame header lives in the first bytes of the first partition,
	// so only a packet that starts partition 0 can carry it.
	if p.vp8.S != 1 || p.vp8.PID != 0 {
		return Geometry{}, false
	}
	if g, err := ParseVP8FrameHeader(p.vp8.Payload); err == nil {
		return g, true
	}
	return Geometry{}, false
}

func (p *GeometryProbe) feedVP9(payload []byte) (Geometry, bool) {
	if _, err := p.vp9.Unmarshal(payload); err != nil {
		return Geometry{}, false
	}
	if !p.vp9.B {
		return Geometry{}, false
	}
	if g, err := ParseVP9FrameHeader(p.vp9.Payload); err == nil {
		return g, true
	}
	return Geometry{}, false
}

// probePacketBudget bounds how many packets ProbeTrack inspects before
// giving up. At a typical MTU that is several keyframes worth of video.
const probePacketBudget = 4096

// ProbeTrack reads packets from an incoming track until one reveals the
// stream geometry, typically within the first keyframe. VideoCodecUnknown
// resolves the codec from the first packet's payload type defaults.
// Cancellation is checked between packets, so give the context a deadline
// when the stream may stall; the packet budget bounds probing a stream
// that never carries a parameter set.
func ProbeTrack(ctx context.Context, track RTPTrack, codec VideoCodec) (Geometry, error) {
	switch codec {
	case VideoCodecH264, VideoCodecVP8, VideoCodecVP9, VideoCodecUnknown:
	default:
		return Geometry{}, fmt.Errorf("aspect: no geometry probe for %v", codec)
	}

	var probe *GeometryProbe
	for read := 0; read < probePacketBudget; read++ {
		if err := ctx.Err(); err != nil {
			return Geometry{}, err
		}
		pkt, _, err := track.ReadRTP()
		if err != nil {
			return Geometry{}, fmt.Errorf("aspect: track read failed: %w", err)
		}
		if probe == nil {
			if codec == VideoCodecUnknown {
				codec = CodecForPayloadType(pkt.PayloadType)
			}
			switch codec {
			case VideoCodecH264, VideoCodecVP8, VideoCodecVP9:
			default:
				return Geometry{}, fmt.Errorf("aspect: no geometry probe for payload type %d", pkt.PayloadType)
			}
			probe = NewGeometryProbe(codec)
		}
		if g, ok := probe.Feed(pkt); ok {
			return g, nil
		}
	}
	return Geometry{}, fmt.Errorf("aspect: no geometry in %d packets", probePacketBudget)
}
