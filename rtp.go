package aspect

import (
	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
)

// Re-export pion/rtp types for convenience
type (
	// RTPPacket is an alias to pion's rtp.Packet
	RTPPacket = rtp.Packet

	// RTPHeader is an alias to pion's rtp.Header
	RTPHeader = rtp.Header
)

// RTPTrack is the reading side of one incoming RTP stream.
type RTPTrack interface {
	// ReadRTP reads the next packet from the stream.
	ReadRTP() (*RTPPacket, interceptor.Attributes, error)
}

// Verify webrtc.TrackRemote satisfies RTPTrack
var _ RTPTrack = (*webrtc.TrackRemote)(nil)
