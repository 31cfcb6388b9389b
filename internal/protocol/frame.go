// Package protocol implements the HueStream v2 binary frame format used by
// the bridge's entertainment streaming endpoint.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ColorSpace selects the on-wire color representation of a frame.
type ColorSpace byte

const (
	// ColorSpaceRGB carries 16-bit-expanded device RGB components.
	ColorSpaceRGB ColorSpace = 0x00
	// ColorSpaceXY carries CIE xy chromaticity plus brightness.
	ColorSpaceXY ColorSpace = 0x01
)

const (
	headerTag = "HueStream"

	// MaxChannels is the maximum number of channel entries per frame,
	// imposed by the bridge.
	MaxChannels = 20

	// ConfigIDLength is the exact length of the entertainment
	// configuration UUID on the wire.
	ConfigIDLength = 36

	headerLen = 9 + 2 + 1 + 2 + 1 + 1 + ConfigIDLength
	entryLen  = 1 + 2 + 2 + 2
	versionHi = 0x02
	versionLo = 0x00
)

var (
	// ErrTooManyChannels is returned when a frame would carry more than
	// MaxChannels entries. Frames are rejected, never truncated.
	ErrTooManyChannels = errors.New("too many channel entries")

	// ErrMalformedConfigID is returned when the entertainment
	// configuration id is not exactly 36 ASCII bytes.
	ErrMalformedConfigID = errors.New("malformed entertainment configuration id")

	// ErrMalformedFrame is returned by Decode for byte sequences that do
	// not form a valid frame.
	ErrMalformedFrame = errors.New("malformed frame")
)

// ChannelEntry is one channel's color within a frame. The three components
// are interpreted according to the frame's ColorSpace: either 16-bit-expanded
// R, G, B or 16-bit-normalized x, y, brightness.
type ChannelEntry struct {
	Channel uint8
	C1      uint16
	C2      uint16
	C3      uint16
}

// Frame is a decoded streaming frame. Frames are transient: built, sent and
// discarded within a single tick.
type Frame struct {
	ConfigID string
	Space    ColorSpace
	Sequence uint8
	Entries  []ChannelEntry
}

// Encode serializes one streaming frame. Entry order is preserved; callers
// that need deterministic output should pass entries sorted by channel.
// Multi-byte fields are big-endian.
func Encode(configID string, space ColorSpace, seq uint8, entries []ChannelEntry) ([]byte, error) {
	if len(entries) > MaxChannels {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyChannels, len(entries), MaxChannels)
	}
	if err := validateConfigID(configID); err != nil {
		return nil, err
	}
	if space != ColorSpaceRGB && space != ColorSpaceXY {
		return nil, fmt.Errorf("%w: unknown color space 0x%02x", ErrMalformedFrame, byte(space))
	}

	buf := make([]byte, 0, headerLen+len(entries)*entryLen)
	buf = append(buf, headerTag...)
	buf = append(buf, versionHi, versionLo)
	buf = append(buf, seq)
	buf = append(buf, 0x00, 0x00)
	buf = append(buf, byte(space))
	buf = append(buf, 0x00)
	buf = append(buf, configID...)

	for _, e := range entries {
		buf = append(buf, e.Channel)
		buf = binary.BigEndian.AppendUint16(buf, e.C1)
		buf = binary.BigEndian.AppendUint16(buf, e.C2)
		buf = binary.BigEndian.AppendUint16(buf, e.C3)
	}
	return buf, nil
}

// Decode parses a streaming frame. It validates the header tag, version,
// reserved bytes and entry alignment.
func Decode(data []byte) (Frame, error) {
	var f Frame
	if len(data) < headerLen {
		return f, fmt.Errorf("%w: %d bytes, want at least %d", ErrMalformedFrame, len(data), headerLen)
	}
	if string(data[:9]) != headerTag {
		return f, fmt.Errorf("%w: bad header tag", ErrMalformedFrame)
	}
	if data[9] != versionHi || data[10] != versionLo {
		return f, fmt.Errorf("%w: unsupported version %d.%d", ErrMalformedFrame, data[9], data[10])
	}
	f.Sequence = data[11]
	if data[12] != 0 || data[13] != 0 || data[15] != 0 {
		return f, fmt.Errorf("%w: nonzero reserved bytes", ErrMalformedFrame)
	}
	f.Space = ColorSpace(data[14])
	if f.Space != ColorSpaceRGB && f.Space != ColorSpaceXY {
		return f, fmt.Errorf("%w: unknown color space 0x%02x", ErrMalformedFrame, data[14])
	}
	f.ConfigID = string(data[16 : 16+ConfigIDLength])
	if err := validateConfigID(f.ConfigID); err != nil {
		return f, err
	}

	rest := data[headerLen:]
	if len(rest)%entryLen != 0 {
		return f, fmt.Errorf("%w: trailing %d bytes", ErrMalformedFrame, len(rest)%entryLen)
	}
	n := len(rest) / entryLen
	if n > MaxChannels {
		return f, fmt.Errorf("%w: %d > %d", ErrTooManyChannels, n, MaxChannels)
	}
	f.Entries = make([]ChannelEntry, 0, n)
	for i := 0; i < n; i++ {
		e := rest[i*entryLen:]
		f.Entries = append(f.Entries, ChannelEntry{
			Channel: e[0],
			C1:      binary.BigEndian.Uint16(e[1:3]),
			C2:      binary.BigEndian.Uint16(e[3:5]),
			C3:      binary.BigEndian.Uint16(e[5:7]),
		})
	}
	return f, nil
}

// Expand8 widens an 8-bit color component to the 16-bit wire range.
// 255*257 == 65535, so full scale maps to full scale.
func Expand8(v uint8) uint16 {
	return uint16(v) * 257
}

// Normalize16 converts a [0,1] float to the 16-bit wire range.
func Normalize16(v float64) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xffff
	}
	return uint16(v*65535.0 + 0.5)
}

func validateConfigID(id string) error {
	if len(id) != ConfigIDLength {
		return fmt.Errorf("%w: length %d, want %d", ErrMalformedConfigID, len(id), ConfigIDLength)
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x20 || id[i] > 0x7e {
			return fmt.Errorf("%w: non-ASCII byte at offset %d", ErrMalformedConfigID, i)
		}
	}
	return nil
}
