// Package aspect negotiates concrete video geometry: given a fully
// resolved source (width, height, pixel aspect ratio) and a partially
// constrained target, it fixates the target to the single geometry that
// best preserves the display aspect ratio.
//
// Key pieces include:
//   - Fraction: exact integer ratio arithmetic with overflow detection
//   - Constraints and Fixate: the ordered-fallback fixation engine
//   - DisplayRatio/ScaledSize/PlaceRect: sizing and placement on a display
//   - Mode/MatchMode and ParseEDID: display timing selection
//   - ProbeGeometry and GeometryProbe: geometry straight from H.264/
//     VP8/VP9 bitstreams, IVF files, RTP packets, or WebRTC tracks
//
// # Negotiation flow
//
//	Probe (bitstream/RTP) -> Geometry
//	Geometry + Constraints -> Fixate -> fixed Geometry
//	fixed Geometry + DisplayInfo -> Plan -> mode + render rectangle
//
// All ratio math is exact integer fraction arithmetic; the only failure
// mode of the engine is arithmetic overflow, reported as ErrOverflow.
// Results are deterministic and identical across platforms.
//
// The engine itself is pure and safe for concurrent use. Probes that
// accumulate state across packets (GeometryProbe) are individually
// synchronized.
package aspect
