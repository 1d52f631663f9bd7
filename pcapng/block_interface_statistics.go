package pcapng

import (
	"encoding/binary"

	"github.com/sofiworker/gocap/bufreader"
	"github.com/sofiworker/gocap/errkind"
)

// Known option codes for InterfaceStatisticsBlock.
const (
	optIsbStartTime    uint16 = 2
	optIsbEndTime      uint16 = 3
	optIsbIfRecv       uint16 = 4
	optIsbIfDrop       uint16 = 5
	optIsbFilterAccept uint16 = 6
	optIsbOsDrop       uint16 = 7
	optIsbUsrDeliv     uint16 = 8
)

// InterfaceStatisticsBlock carries capture statistics for one
// interface as of TimestampRaw, at that interface's own resolution (see
// InterfaceDescriptionBlock.TimestampResolution).
type InterfaceStatisticsBlock struct {
	BlockHeader
	InterfaceID  uint32
	TimestampRaw uint64
	Options      []Option
}

func isbOptionDecoder(order binary.ByteOrder) optionDecoder {
	return func(code uint16, value []byte) (Option, bool, error) {
		switch code {
		case optIsbStartTime, optIsbEndTime, optIsbIfRecv, optIsbIfDrop,
			optIsbFilterAccept, optIsbOsDrop, optIsbUsrDeliv:
			if err := exactLength(8)(code, value); err != nil {
				return nil, true, err
			}
			return Uint64Option{OptCode: code, Value: order.Uint64(value), rawBytes: value}, true, nil
		default:
			return nil, false, nil
		}
	}
}

// Owned returns a copy of b whose options no longer alias the
// parser's internal buffer.
func (b InterfaceStatisticsBlock) Owned() InterfaceStatisticsBlock {
	b.Options = cloneOptions(b.Options)
	return b
}

func parseInterfaceStatisticsBody(totalLength uint32, order binary.ByteOrder, body []byte) (*InterfaceStatisticsBlock, error) {
	if len(body) < 12 {
		return nil, errkind.InvalidField("pcapng: interface statistics block shorter than 12 bytes")
	}

	cur := bufreader.New(body, order)
	interfaceID, err := cur.ReadUint32()
	if err != nil {
		return nil, err
	}
	timestamp, err := cur.ReadUint64()
	if err != nil {
		return nil, err
	}
	options, err := parseOptions(cur.Remaining(), order, isbOptionDecoder(order))
	if err != nil {
		return nil, err
	}

	return &InterfaceStatisticsBlock{
		BlockHeader:  BlockHeader{Type: InterfaceStatisticsBlockType, TotalLength: totalLength},
		InterfaceID:  interfaceID,
		TimestampRaw: timestamp,
		Options:      options,
	}, nil
}

func (b InterfaceStatisticsBlock) writeBody(dst []byte, order binary.ByteOrder) []byte {
	dst = appendUint32(dst, order, b.InterfaceID)
	dst = appendUint64(dst, order, b.TimestampRaw)
	dst = encodeOptions(dst, order, b.Options)
	return dst
}
