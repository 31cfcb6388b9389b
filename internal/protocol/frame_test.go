package protocol

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const testConfigID = "0b216218-d811-4c95-941b-2a9d29f9b2b4"

func TestEncode_Header(t *testing.T) {
	data, err := Encode(testConfigID, ColorSpaceRGB, 7, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(data) != 52 {
		t.Errorf("header-only frame length = %d, want 52", len(data))
	}
	if !bytes.HasPrefix(data, []byte("HueStream")) {
		t.Error("frame does not start with HueStream tag")
	}
	if data[9] != 0x02 || data[10] != 0x00 {
		t.Errorf("version bytes = %02x %02x, want 02 00", data[9], data[10])
	}
	if data[11] != 7 {
		t.Errorf("sequence byte = %d, want 7", data[11])
	}
	if data[14] != 0x00 {
		t.Errorf("color space byte = %02x, want 00", data[14])
	}
	if string(data[16:52]) != testConfigID {
		t.Errorf("uuid bytes = %q", data[16:52])
	}
}

func TestEncode_TwoChannelFrameLength(t *testing.T) {
	// A two-node gradient frame: 16 header + 36 uuid + 2*7 = 66 bytes.
	entries := []ChannelEntry{
		{Channel: 0, C1: Expand8(255), C2: 0, C3: 0},
		{Channel: 1, C1: 0, C2: 0, C3: Expand8(255)},
	}
	data, err := Encode(testConfigID, ColorSpaceRGB, 0, entries)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(data) != 66 {
		t.Errorf("frame length = %d, want 66", len(data))
	}
	if data[14] != 0x00 {
		t.Errorf("color space byte = %02x, want 00", data[14])
	}
	// First entry: channel 0, full red.
	if data[52] != 0 || data[53] != 0xff || data[54] != 0xff {
		t.Errorf("entry 0 bytes = % 02x", data[52:59])
	}
	// Second entry: channel 1, full blue.
	if data[59] != 1 || data[63] != 0xff || data[64] != 0xff {
		t.Errorf("entry 1 bytes = % 02x", data[59:66])
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		space   ColorSpace
		seq     uint8
		entries []ChannelEntry
	}{
		{name: "empty_rgb", space: ColorSpaceRGB, seq: 0},
		{
			name:  "rgb",
			space: ColorSpaceRGB,
			seq:   255,
			entries: []ChannelEntry{
				{Channel: 0, C1: Expand8(1), C2: Expand8(2), C3: Expand8(3)},
				{Channel: 5, C1: 0xffff, C2: 0, C3: 0x8080},
			},
		},
		{
			name:  "xy",
			space: ColorSpaceXY,
			seq:   42,
			entries: []ChannelEntry{
				{Channel: 19, C1: Normalize16(0.5), C2: Normalize16(0.25), C3: Normalize16(1.0)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(testConfigID, tt.space, tt.seq, tt.entries)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			f, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if f.ConfigID != testConfigID {
				t.Errorf("ConfigID = %q, want %q", f.ConfigID, testConfigID)
			}
			if f.Space != tt.space {
				t.Errorf("Space = %v, want %v", f.Space, tt.space)
			}
			if f.Sequence != tt.seq {
				t.Errorf("Sequence = %d, want %d", f.Sequence, tt.seq)
			}
			if len(f.Entries) != len(tt.entries) {
				t.Fatalf("got %d entries, want %d", len(f.Entries), len(tt.entries))
			}
			for i, e := range tt.entries {
				if f.Entries[i] != e {
					t.Errorf("entry %d = %+v, want %+v", i, f.Entries[i], e)
				}
			}
		})
	}
}

func TestEncode_MaxChannels(t *testing.T) {
	entries := make([]ChannelEntry, MaxChannels)
	for i := range entries {
		entries[i].Channel = uint8(i)
	}
	if _, err := Encode(testConfigID, ColorSpaceRGB, 0, entries); err != nil {
		t.Errorf("Encode with %d channels should succeed: %v", MaxChannels, err)
	}

	entries = append(entries, ChannelEntry{Channel: 20})
	_, err := Encode(testConfigID, ColorSpaceRGB, 0, entries)
	if !errors.Is(err, ErrTooManyChannels) {
		t.Errorf("Encode with 21 channels: err = %v, want ErrTooManyChannels", err)
	}
}

func TestEncode_ConfigIDLength(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "empty", id: ""},
		{name: "short", id: "abc"},
		{name: "long", id: testConfigID + "x"},
		{name: "non_ascii", id: strings.Repeat("\x01", ConfigIDLength)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.id, ColorSpaceRGB, 0, nil)
			if !errors.Is(err, ErrMalformedConfigID) {
				t.Errorf("err = %v, want ErrMalformedConfigID", err)
			}
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	good, err := Encode(testConfigID, ColorSpaceRGB, 0, []ChannelEntry{{Channel: 1}})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "truncated_header", data: good[:20]},
		{name: "bad_tag", data: append([]byte("NotStream"), good[9:]...)},
		{name: "misaligned_entries", data: good[:len(good)-3]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); err == nil {
				t.Error("Decode should fail")
			}
		})
	}
}

func TestExpand8(t *testing.T) {
	if Expand8(0) != 0 {
		t.Error("Expand8(0) != 0")
	}
	if Expand8(255) != 0xffff {
		t.Errorf("Expand8(255) = %d, want 65535", Expand8(255))
	}
	if Expand8(128) != 128*257 {
		t.Errorf("Expand8(128) = %d, want %d", Expand8(128), 128*257)
	}
}

func TestNormalize16(t *testing.T) {
	if Normalize16(-0.5) != 0 {
		t.Error("negative input should clamp to 0")
	}
	if Normalize16(2.0) != 0xffff {
		t.Error("input above 1 should clamp to 65535")
	}
	if v := Normalize16(0.5); v != 32768 {
		t.Errorf("Normalize16(0.5) = %d, want 32768", v)
	}
}
