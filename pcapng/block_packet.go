package pcapng

import (
	"encoding/binary"
	"time"

	"github.com/sofiworker/gocap/bufreader"
	"github.com/sofiworker/gocap/errkind"
)

// PacketBlock is the obsolete pre-EnhancedPacketBlock packet record,
// superseded by EnhancedPacketBlockType in every modern writer but
// still legal to encounter on read. Its layout is EPB's minus the
// widened interface ID, plus a drop count field EPB dropped in favor
// of the epb_dropcount option.
type PacketBlock struct {
	BlockHeader
	InterfaceID  uint16
	DropsCount   uint16
	TimestampRaw uint64
	CapturedLen  uint32
	OriginalLen  uint32
	Data         []byte
	Options      []Option
}

// Timestamp resolves TimestampRaw the same way EnhancedPacketBlock does.
func (b PacketBlock) Timestamp(resolution time.Duration) time.Time {
	return timeFromRaw64(b.TimestampRaw, resolution)
}

// Owned returns a copy of b whose Data and option values no longer
// alias the parser's internal buffer.
func (b PacketBlock) Owned() PacketBlock {
	b.Data = append([]byte(nil), b.Data...)
	b.Options = cloneOptions(b.Options)
	return b
}

func parsePacketBody(totalLength uint32, order binary.ByteOrder, body []byte) (*PacketBlock, error) {
	if len(body) < 20 {
		return nil, errkind.InvalidField("pcapng: obsolete packet block shorter than 20 bytes")
	}

	cur := bufreader.New(body, order)
	interfaceID, err := cur.ReadUint16()
	if err != nil {
		return nil, err
	}
	dropsCount, err := cur.ReadUint16()
	if err != nil {
		return nil, err
	}
	tsHigh, err := cur.ReadUint32()
	if err != nil {
		return nil, err
	}
	tsLow, err := cur.ReadUint32()
	if err != nil {
		return nil, err
	}
	capturedLen, err := cur.ReadUint32()
	if err != nil {
		return nil, err
	}
	originalLen, err := cur.ReadUint32()
	if err != nil {
		return nil, err
	}

	data, err := cur.ReadBytes(int(capturedLen))
	if err != nil {
		return nil, errkind.InvalidField("pcapng: obsolete packet captured_len runs past end of block")
	}
	if err := cur.Skip(padLen(int(capturedLen))); err != nil {
		return nil, errkind.InvalidField("pcapng: obsolete packet padding runs past end of block")
	}

	options, err := parseOptions(cur.Remaining(), order, epbOptionDecoder(order))
	if err != nil {
		return nil, err
	}

	return &PacketBlock{
		BlockHeader:  BlockHeader{Type: PacketBlockType, TotalLength: totalLength},
		InterfaceID:  interfaceID,
		DropsCount:   dropsCount,
		TimestampRaw: (uint64(tsHigh) << 32) | uint64(tsLow),
		CapturedLen:  capturedLen,
		OriginalLen:  originalLen,
		Data:         data,
		Options:      options,
	}, nil
}

func (b PacketBlock) writeBody(dst []byte, order binary.ByteOrder) []byte {
	dst = appendUint16(dst, order, b.InterfaceID)
	dst = appendUint16(dst, order, b.DropsCount)
	dst = appendUint32(dst, order, uint32(b.TimestampRaw>>32))
	dst = appendUint32(dst, order, uint32(b.TimestampRaw))
	dst = appendUint32(dst, order, b.CapturedLen)
	dst = appendUint32(dst, order, b.OriginalLen)
	dst = append(dst, b.Data...)
	dst = append(dst, make([]byte, padLen(len(b.Data)))...)
	dst = encodeOptions(dst, order, b.Options)
	return dst
}
