// Package pcap implements the classic flat capture file format: one
// 24-byte global header followed by a sequence of 16-byte packet
// record headers and their payloads.
package pcap

import (
	"encoding/binary"
	"time"

	"github.com/sofiworker/gocap/bufreader"
	"github.com/sofiworker/gocap/errkind"
)

// The four magic numbers a capture file can open with, selecting both
// endianness and timestamp resolution at once.
const (
	MagicMicroseconds        uint32 = 0xa1b2c3d4
	MagicMicrosecondsSwapped uint32 = 0xd4c3b2a1
	MagicNanoseconds         uint32 = 0xa1b23c4d
	MagicNanosecondsSwapped  uint32 = 0x4d3cb2a1
)

const headerLen = 24

// Header is the 24-byte global header at the start of every pcap file.
type Header struct {
	Magic        uint32
	VersionMajor uint16
	VersionMinor uint16
	TimeZone     int32
	SigFigs      uint32
	SnapLen      uint32
	LinkType     uint32
}

// Endianness reports the byte order the magic number selects.
func (h Header) Endianness() binary.ByteOrder {
	switch h.Magic {
	case MagicMicrosecondsSwapped, MagicNanosecondsSwapped:
		return binary.LittleEndian
	default:
		return binary.BigEndian
	}
}

// TimestampResolution reports the sub-second unit the magic number
// selects.
func (h Header) TimestampResolution() time.Duration {
	switch h.Magic {
	case MagicNanoseconds, MagicNanosecondsSwapped:
		return time.Nanosecond
	default:
		return time.Microsecond
	}
}

// magicFor picks the magic number for a given endianness/resolution
// pair, the inverse of Endianness/TimestampResolution.
func magicFor(order binary.ByteOrder, resolution time.Duration) uint32 {
	nanos := resolution == time.Nanosecond
	if order == binary.BigEndian {
		if nanos {
			return MagicNanoseconds
		}
		return MagicMicroseconds
	}
	if nanos {
		return MagicNanosecondsSwapped
	}
	return MagicMicrosecondsSwapped
}

// ParseHeader decodes the 24-byte global header from the front of src.
// It returns the header, the number of bytes consumed, and an error.
func ParseHeader(src []byte) (Header, int, error) {
	if len(src) < headerLen {
		return Header{}, 0, errkind.ErrIncompleteBuffer
	}

	magic := binary.BigEndian.Uint32(src[0:4])
	var order binary.ByteOrder
	switch magic {
	case MagicMicroseconds, MagicNanoseconds:
		order = binary.BigEndian
	case MagicMicrosecondsSwapped, MagicNanosecondsSwapped:
		order = binary.LittleEndian
	default:
		return Header{}, 0, errkind.InvalidField("pcap: unrecognized magic number")
	}

	cur := bufreader.New(src[4:headerLen], order)
	h := Header{Magic: magic}
	var err error
	if h.VersionMajor, err = cur.ReadUint16(); err != nil {
		return Header{}, 0, err
	}
	if h.VersionMinor, err = cur.ReadUint16(); err != nil {
		return Header{}, 0, err
	}
	if h.TimeZone, err = cur.ReadInt32(); err != nil {
		return Header{}, 0, err
	}
	if h.SigFigs, err = cur.ReadUint32(); err != nil {
		return Header{}, 0, err
	}
	if h.SnapLen, err = cur.ReadUint32(); err != nil {
		return Header{}, 0, err
	}
	if h.LinkType, err = cur.ReadUint32(); err != nil {
		return Header{}, 0, err
	}
	return h, headerLen, nil
}

// AppendTo appends the wire encoding of h to dst and returns the result.
func (h Header) AppendTo(dst []byte) []byte {
	order := h.Endianness()
	var magicBytes [4]byte
	binary.BigEndian.PutUint32(magicBytes[:], h.Magic)
	dst = append(dst, magicBytes[:]...)

	var rest [20]byte
	order.PutUint16(rest[0:2], h.VersionMajor)
	order.PutUint16(rest[2:4], h.VersionMinor)
	order.PutUint32(rest[4:8], uint32(h.TimeZone))
	order.PutUint32(rest[8:12], h.SigFigs)
	order.PutUint32(rest[12:16], h.SnapLen)
	order.PutUint32(rest[16:20], h.LinkType)
	return append(dst, rest[:]...)
}
