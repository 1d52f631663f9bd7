package pcapng

import (
	"encoding/binary"

	"github.com/sofiworker/gocap/bufreader"
	"github.com/sofiworker/gocap/errkind"
)

// SectionHeaderBlock opens a new section and fixes its endianness for
// every block that follows until the next Section Header.
type SectionHeaderBlock struct {
	BlockHeader
	LittleEndian  bool
	MajorVersion  uint16
	MinorVersion  uint16
	SectionLength int64
	Options       []Option
}

// DefaultSectionHeaderBlock returns the conventional section header a
// fresh writer opens with: big-endian, version 1.0, unknown length.
func DefaultSectionHeaderBlock() SectionHeaderBlock {
	return SectionHeaderBlock{
		BlockHeader:   BlockHeader{Type: SectionHeaderBlockType},
		LittleEndian:  false,
		MajorVersion:  1,
		MinorVersion:  0,
		SectionLength: -1,
	}
}

// Known option codes for SectionHeaderBlock.
const (
	optShbHardware uint16 = 2
	optShbOS       uint16 = 3
	optShbUserAppl uint16 = 4
)

func shbOptionDecoder(code uint16, value []byte) (Option, bool, error) {
	switch code {
	case optShbHardware, optShbOS, optShbUserAppl:
		if err := utf8Value(value); err != nil {
			return nil, true, err
		}
		return TextOption{OptCode: code, Text: string(value)}, true, nil
	default:
		return nil, false, nil
	}
}

func parseSectionHeaderBody(totalLength uint32, order binary.ByteOrder, body []byte) (*SectionHeaderBlock, error) {
	if len(body) < 16 {
		return nil, errkind.InvalidField("pcapng: section header block shorter than 16 bytes")
	}

	magic := binary.BigEndian.Uint32(body[0:4])
	switch magic {
	case ByteOrderMagicBig, ByteOrderMagicLittle:
	default:
		return nil, errkind.InvalidField("pcapng: bad section header byte-order magic")
	}

	cur := bufreader.New(body[4:], order)
	major, err := cur.ReadUint16()
	if err != nil {
		return nil, err
	}
	minor, err := cur.ReadUint16()
	if err != nil {
		return nil, err
	}
	sectionLength, err := cur.ReadUint64()
	if err != nil {
		return nil, err
	}
	options, err := parseOptions(cur.Remaining(), order, shbOptionDecoder)
	if err != nil {
		return nil, err
	}

	return &SectionHeaderBlock{
		BlockHeader:   BlockHeader{Type: SectionHeaderBlockType, TotalLength: totalLength},
		LittleEndian:  magic == ByteOrderMagicLittle,
		MajorVersion:  major,
		MinorVersion:  minor,
		SectionLength: int64(sectionLength),
		Options:       options,
	}, nil
}

func (b SectionHeaderBlock) writeBody(dst []byte, order binary.ByteOrder) []byte {
	magic := ByteOrderMagicBig
	if order == binary.LittleEndian {
		magic = ByteOrderMagicLittle
	}
	dst = appendUint32(dst, binary.BigEndian, magic)
	dst = appendUint16(dst, order, b.MajorVersion)
	dst = appendUint16(dst, order, b.MinorVersion)
	dst = appendUint64(dst, order, uint64(b.SectionLength))
	dst = encodeOptions(dst, order, b.Options)
	return dst
}

// Endianness returns the binary.ByteOrder this section's blocks are
// encoded in.
func (b SectionHeaderBlock) Endianness() binary.ByteOrder {
	if b.LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}
