package pcap

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"
)

func TestParseHeaderFourMagicVariants(t *testing.T) {
	cases := []struct {
		name  string
		order binary.ByteOrder
		res   time.Duration
	}{
		{"big-micro", binary.BigEndian, time.Microsecond},
		{"big-nano", binary.BigEndian, time.Nanosecond},
		{"little-micro", binary.LittleEndian, time.Microsecond},
		{"little-nano", binary.LittleEndian, time.Nanosecond},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := Header{
				Magic:        magicFor(c.order, c.res),
				VersionMajor: 2,
				VersionMinor: 4,
				SnapLen:      65535,
				LinkType:     1,
			}
			encoded := h.AppendTo(nil)
			if len(encoded) != headerLen {
				t.Fatalf("unexpected encoded length: %d", len(encoded))
			}

			decoded, n, err := ParseHeader(encoded)
			if err != nil {
				t.Fatalf("ParseHeader failed: %v", err)
			}
			if n != headerLen {
				t.Fatalf("unexpected consumed length: %d", n)
			}
			if decoded.Endianness() != c.order {
				t.Fatalf("endianness mismatch")
			}
			if decoded.TimestampResolution() != c.res {
				t.Fatalf("resolution mismatch")
			}
			if decoded.SnapLen != 65535 {
				t.Fatalf("snaplen mismatch: %d", decoded.SnapLen)
			}

			reencoded := decoded.AppendTo(nil)
			if !bytes.Equal(encoded, reencoded) {
				t.Fatalf("round trip mismatch: %x != %x", encoded, reencoded)
			}
		})
	}
}

// E1 from the test corpus: a little-endian, microsecond header with
// version 2.4, snaplen 65535, linktype 1.
func TestParseHeaderSeedE1(t *testing.T) {
	wire := []byte{
		0xD4, 0xC3, 0xB2, 0xA1,
		0x02, 0x00, 0x04, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0xFF, 0xFF, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
	}

	h, n, err := ParseHeader(wire)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if n != headerLen {
		t.Fatalf("unexpected consumed length: %d", n)
	}
	if h.Endianness() != binary.LittleEndian {
		t.Fatalf("expected little endian")
	}
	if h.TimestampResolution() != time.Microsecond {
		t.Fatalf("expected microsecond resolution")
	}
	if h.VersionMajor != 2 || h.VersionMinor != 4 {
		t.Fatalf("unexpected version: %d.%d", h.VersionMajor, h.VersionMinor)
	}
	if h.SnapLen != 65535 {
		t.Fatalf("unexpected snaplen: %d", h.SnapLen)
	}
	if h.LinkType != 1 {
		t.Fatalf("unexpected linktype: %d", h.LinkType)
	}
}

func TestParseHeaderRejectsBadMagic(t *testing.T) {
	wire := make([]byte, headerLen)
	_, _, err := ParseHeader(wire)
	if err == nil {
		t.Fatalf("expected error for bad magic")
	}
}

func TestParseHeaderIncomplete(t *testing.T) {
	_, _, err := ParseHeader([]byte{0xD4, 0xC3, 0xB2})
	if err == nil {
		t.Fatalf("expected incomplete buffer error")
	}
}
