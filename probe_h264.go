package aspect

import (
	"encoding/binary"
	"fmt"
)

const (
	nalTypeSPS  = 7
	sarExtended = 255
)

// sarTable maps aspect_ratio_idc to a sample aspect ratio. Per ITU-T
// H.264 Table E-1; index 0 is "unspecified".
var sarTable = [17]Fraction{
	{}, {1, 1}, {12, 11}, {10, 11}, {16, 11}, {40, 33}, {24, 11},
	{20, 11}, {32, 11}, {80, 33}, {18, 11}, {15, 11}, {64, 33},
	{160, 99}, {4, 3}, {3, 2}, {2, 1},
}

// highProfiles are the profile_idc values whose SPS carries chroma
// format and bit depth fields. Per ITU-T H.264 Section 7.3.2.1.1.
var highProfiles = map[uint]bool{
	100: true, 110: true, 122: true, 244: true, 44: true, 83: true,
	86: true, 118: true, 128: true, 138: true, 139: true, 134: true,
	135: true,
}

// ParseSPS decodes the geometry an H.264 sequence parameter set NAL
// unit declares: the cropped frame size and, when the VUI carries one,
// the sample aspect ratio.
func ParseSPS(nal []byte) (Geometry, error) {
	if len(nal) < 4 {
		return Geometry{}, fmt.Errorf("aspect: SPS truncated: %d bytes", len(nal))
	}
	if t := nal[0] & 0x1F; t != nalTypeSPS {
		return Geometry{}, fmt.Errorf("aspect: NAL unit type %d is not an SPS", t)
	}

	r := &bitReader{data: stripEmulation(nal[1:])}

	profileIDC := r.bits(8)
	r.skip(8) // constraint flags and reserved bits
	r.skip(8) // level_idc
	r.ue()    // seq_parameter_set_id

	chromaFormatIDC := uint(1)
	separateColourPlane := false
	if highProfiles[profileIDC] {
		chromaFormatIDC = r.ue()
		if chromaFormatIDC == 3 {
			separateColourPlane = r.flag()
		}
		r.ue()  // bit_depth_luma_minus8
		r.ue()  // bit_depth_chroma_minus8
		r.bit() // qpprime_y_zero_transform_bypass_flag
		if r.flag() {
			// seq_scaling_matrix_present_flag
			count := 8
			if chromaFormatIDC == 3 {
				count = 12
			}
			for i := 0; i < count && r.err == nil; i++ {
				if r.flag() {
					size := 16
					if i >= 6 {
						size = 64
					}
					skipScalingList(r, size)
				}
			}
		}
	}

	r.ue() // log2_max_frame_num_minus4
	switch r.ue() {
	case 0:
		r.ue() // log2_max_pic_order_cnt_lsb_minus4
	case 1:
		r.bit() // delta_pic_order_always_zero_flag
		r.se()  // offset_for_non_ref_pic
		r.se()  // offset_for_top_to_bottom_field
		n := r.ue()
		if r.err == nil && n > 255 {
			return Geometry{}, fmt.Errorf("aspect: malformed SPS ref frame cycle")
		}
		for i := uint(0); i < n && r.err == nil; i++ {
			r.se() // offset_for_ref_frame[i]
		}
	}
	r.ue()  // max_num_ref_frames
	r.bit() // gaps_in_frame_num_value_allowed_flag

	widthInMBs := r.ue() + 1
	heightInMapUnits := r.ue() + 1
	frameMBSOnly := r.flag()
	if !frameMBSOnly {
		r.bit() // mb_adaptive_frame_field_flag
	}
	r.bit() // direct_8x8_inference_flag

	// Map units are 16 pixels; field coding doubles the frame height.
	heightFactor := int64(2)
	if frameMBSOnly {
		heightFactor = 1
	}
	width := int64(widthInMBs) * 16
	height := heightFactor * int64(heightInMapUnits) * 16

	if r.flag() {
		// frame_cropping_flag: offsets are in chroma sample units.
		left, right := int64(r.ue()), int64(r.ue())
		top, bottom := int64(r.ue()), int64(r.ue())

		cropX, cropY := int64(1), heightFactor
		if !separateColourPlane {
			switch chromaFormatIDC {
			case 1: // 4:2:0
				cropX, cropY = 2, 2*heightFactor
			case 2: // 4:2:2
				cropX, cropY = 2, heightFactor
			case 3: // 4:4:4
				cropX, cropY = 1, heightFactor
			}
		}
		width -= cropX * (left + right)
		height -= cropY * (top + bottom)
	}

	var par Fraction
	if r.flag() {
		// vui_parameters_present_flag
		if r.flag() {
			// aspect_ratio_info_present_flag
			idc := r.bits(8)
			switch {
			case idc == sarExtended:
				par = Fraction{Num: int64(r.bits(16)), Den: int64(r.bits(16))}
			case idc >= 1 && idc <= 16:
				par = sarTable[idc]
			}
		}
	}

	if err := r.Err(); err != nil {
		return Geometry{}, err
	}
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return Geometry{}, fmt.Errorf("aspect: SPS geometry %dx%d out of range", width, height)
	}

	g := Geometry{Width: int(width), Height: int(height)}
	if par.Num > 0 && par.Den > 0 {
		g.PAR = par.Reduce()
	}
	return g, nil
}

// skipScalingList consumes a scaling list without keeping it. Per ITU-T
// H.264 Section 7.3.2.1.1.1.
func skipScalingList(r *bitReader, size int) {
	last, next := 8, 8
	for i := 0; i < size && r.err == nil; i++ {
		if next != 0 {
			next = (last + r.se() + 256) % 256
		}
		if next != 0 {
			last = next
		}
	}
}

// stripEmulation removes the 00 00 03 emulation prevention bytes that
// keep NAL payloads free of start codes.
func stripEmulation(ebsp []byte) []byte {
	out := make([]byte, 0, len(ebsp))
	zeros := 0
	for _, b := range ebsp {
		if zeros >= 2 && b == 0x03 {
			zeros = 0
			continue
		}
		out = append(out, b)
		if b == 0x00 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return out
}

// probeH264AnnexB parses the first sequence parameter set in an Annex B
// stream.
func probeH264AnnexB(data []byte) (Geometry, error) {
	for _, nal := range splitNALUnits(data) {
		if len(nal) > 0 && nal[0]&0x1F == nalTypeSPS {
			return ParseSPS(nal)
		}
	}
	return Geometry{}, fmt.Errorf("aspect: no SPS in stream")
}

// splitNALUnits slices an Annex B stream at its start codes. Trailing
// zeros ahead of a start code belong to the code, not the payload.
func splitNALUnits(data []byte) [][]byte {
	var units [][]byte
	start := -1
	zeros := 0
	for i := 0; i < len(data); i++ {
		switch {
		case data[i] == 0x00:
			zeros++
		case data[i] == 0x01 && zeros >= 2:
			if start >= 0 {
				end := i - min(zeros, 3)
				if end > start {
					units = append(units, data[start:end])
				}
			}
			start = i + 1
			zeros = 0
		default:
			zeros = 0
		}
	}
	if start >= 0 && start < len(data) {
		units = append(units, data[start:])
	}
	return units
}

// SPSFromAVCC extracts the first sequence parameter set from an
// AVCDecoderConfigurationRecord, the codec configuration record FLV and
// MP4 carry. Per ISO/IEC 14496-15 Section 5.2.4.1.
func SPSFromAVCC(config []byte) ([]byte, error) {
	if len(config) < 8 {
		return nil, fmt.Errorf("aspect: AVC configuration truncated: %d bytes", len(config))
	}
	if config[0] != 1 {
		return nil, fmt.Errorf("aspect: AVC configuration version %d", config[0])
	}
	if config[5]&0x1F == 0 {
		return nil, fmt.Errorf("aspect: AVC configuration has no SPS")
	}
	n := int(binary.BigEndian.Uint16(config[6:8]))
	if len(config) < 8+n {
		return nil, fmt.Errorf("aspect: AVC configuration SPS truncated")
	}
	return config[8 : 8+n], nil
}
