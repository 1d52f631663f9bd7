package pcapng

import (
	"encoding/binary"
	"time"

	"github.com/sofiworker/gocap/bufreader"
	"github.com/sofiworker/gocap/errkind"
)

// Known option codes for EnhancedPacketBlock.
const (
	optEpbFlags     uint16 = 2
	optEpbHash      uint16 = 3
	optEpbDropCount uint16 = 4
)

// EnhancedPacketBlock is a single captured packet tied to an
// interface by index. TimestampRaw is the 64-bit wire count; resolving
// it to a time.Time requires the owning interface's timestamp
// resolution (see Timestamp), since the PCAPNG specification makes
// resolution a per-interface property rather than a fixed unit.
type EnhancedPacketBlock struct {
	BlockHeader
	InterfaceID  uint32
	TimestampRaw uint64
	CapturedLen  uint32
	OriginalLen  uint32
	Data         []byte
	Options      []Option
}

// Timestamp resolves TimestampRaw into a time.Time at the given
// resolution (looked up by the caller from the referenced interface's
// if_tsresol option; see InterfaceDescriptionBlock.TimestampResolution).
func (b EnhancedPacketBlock) Timestamp(resolution time.Duration) time.Time {
	return timeFromRaw64(b.TimestampRaw, resolution)
}

// Owned returns a copy of b whose Data and option values no longer
// alias the parser's internal buffer.
func (b EnhancedPacketBlock) Owned() EnhancedPacketBlock {
	b.Data = append([]byte(nil), b.Data...)
	b.Options = cloneOptions(b.Options)
	return b
}

func epbOptionDecoder(order binary.ByteOrder) optionDecoder {
	return func(code uint16, value []byte) (Option, bool, error) {
		switch code {
		case optEpbFlags:
			if err := exactLength(4)(code, value); err != nil {
				return nil, true, err
			}
			return Uint32Option{OptCode: code, Value: order.Uint32(value), rawBytes: value}, true, nil
		case optEpbDropCount:
			if err := exactLength(8)(code, value); err != nil {
				return nil, true, err
			}
			return Uint64Option{OptCode: code, Value: order.Uint64(value), rawBytes: value}, true, nil
		default:
			return nil, false, nil
		}
	}
}

func parseEnhancedPacketBody(totalLength uint32, order binary.ByteOrder, body []byte) (*EnhancedPacketBlock, error) {
	if len(body) < 20 {
		return nil, errkind.InvalidField("pcapng: enhanced packet block shorter than 20 bytes")
	}

	cur := bufreader.New(body, order)
	interfaceID, err := cur.ReadUint32()
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
		return nil, errkind.InvalidField("pcapng: enhanced packet captured_len runs past end of block")
	}
	if err := cur.Skip(padLen(int(capturedLen))); err != nil {
		return nil, errkind.InvalidField("pcapng: enhanced packet padding runs past end of block")
	}

	options, err := parseOptions(cur.Remaining(), order, epbOptionDecoder(order))
	if err != nil {
		return nil, err
	}

	return &EnhancedPacketBlock{
		BlockHeader:  BlockHeader{Type: EnhancedPacketBlockType, TotalLength: totalLength},
		InterfaceID:  interfaceID,
		TimestampRaw: (uint64(tsHigh) << 32) | uint64(tsLow),
		CapturedLen:  capturedLen,
		OriginalLen:  originalLen,
		Data:         data,
		Options:      options,
	}, nil
}

func (b EnhancedPacketBlock) writeBody(dst []byte, order binary.ByteOrder) []byte {
	dst = appendUint32(dst, order, b.InterfaceID)
	dst = appendUint32(dst, order, uint32(b.TimestampRaw>>32))
	dst = appendUint32(dst, order, uint32(b.TimestampRaw))
	dst = appendUint32(dst, order, b.CapturedLen)
	dst = appendUint32(dst, order, b.OriginalLen)
	dst = append(dst, b.Data...)
	dst = append(dst, make([]byte, padLen(len(b.Data)))...)
	dst = encodeOptions(dst, order, b.Options)
	return dst
}
