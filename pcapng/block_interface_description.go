package pcapng

import (
	"encoding/binary"
	"time"

	"github.com/sofiworker/gocap/bufreader"
	"github.com/sofiworker/gocap/errkind"
)

// Known option codes for InterfaceDescriptionBlock.
const (
	optIfName        uint16 = 2
	optIfDescription uint16 = 3
	optIfIPv4Addr    uint16 = 4
	optIfIPv6Addr    uint16 = 5
	optIfMacAddr     uint16 = 6
	optIfEuiAddr     uint16 = 7
	optIfSpeed       uint16 = 8
	optIfTsResol     uint16 = 9
	optIfTzone       uint16 = 10
	optIfFilter      uint16 = 11
	optIfOs          uint16 = 12
	optIfFcsLen      uint16 = 13
	optIfTsOffset    uint16 = 14
	optIfHardware    uint16 = 15
	optIfTxSpeed     uint16 = 16
	optIfRxSpeed     uint16 = 17
)

// InterfaceDescriptionBlock describes one capture interface; its
// position among the section's Interface Description blocks (starting
// at 0) is the interface ID referenced by packet blocks.
type InterfaceDescriptionBlock struct {
	BlockHeader
	LinkType uint16
	SnapLen  uint32
	Options  []Option
}

func idbOptionDecoder(order binary.ByteOrder) optionDecoder {
	return func(code uint16, value []byte) (Option, bool, error) {
		switch code {
		case optIfName, optIfDescription, optIfFilter, optIfOs, optIfHardware:
			if err := utf8Value(value); err != nil {
				return nil, true, err
			}
			return TextOption{OptCode: code, Text: string(value)}, true, nil
		case optIfIPv4Addr:
			if err := exactLength(8)(code, value); err != nil {
				return nil, true, err
			}
			return BytesOption{OptCode: code, Value: value}, true, nil
		case optIfIPv6Addr:
			if err := exactLength(17)(code, value); err != nil {
				return nil, true, err
			}
			return BytesOption{OptCode: code, Value: value}, true, nil
		case optIfMacAddr:
			if err := exactLength(6)(code, value); err != nil {
				return nil, true, err
			}
			return BytesOption{OptCode: code, Value: value}, true, nil
		case optIfEuiAddr, optIfSpeed, optIfTsOffset, optIfTxSpeed, optIfRxSpeed:
			if err := exactLength(8)(code, value); err != nil {
				return nil, true, err
			}
			return Uint64Option{OptCode: code, Value: order.Uint64(value), rawBytes: value}, true, nil
		case optIfTsResol, optIfFcsLen:
			if err := exactLength(1)(code, value); err != nil {
				return nil, true, err
			}
			return Uint8Option{OptCode: code, Value: value[0]}, true, nil
		case optIfTzone:
			// Corrected: the PCAPNG specification defines if_tzone as a
			// 4-byte field. A strict 1-byte check here could never pass,
			// since the value is always read as 4 bytes on the wire.
			if err := exactLength(4)(code, value); err != nil {
				return nil, true, err
			}
			return Uint32Option{OptCode: code, Value: order.Uint32(value), rawBytes: value}, true, nil
		default:
			return nil, false, nil
		}
	}
}

func parseInterfaceDescriptionBody(totalLength uint32, order binary.ByteOrder, body []byte) (*InterfaceDescriptionBlock, error) {
	if len(body) < 8 {
		return nil, errkind.InvalidField("pcapng: interface description block shorter than 8 bytes")
	}

	cur := bufreader.New(body, order)
	linkType, err := cur.ReadUint16()
	if err != nil {
		return nil, err
	}
	reserved, err := cur.ReadUint16()
	if err != nil {
		return nil, err
	}
	if reserved != 0 {
		return nil, errkind.InvalidField("pcapng: interface description reserved field must be zero")
	}
	snapLen, err := cur.ReadUint32()
	if err != nil {
		return nil, err
	}
	options, err := parseOptions(cur.Remaining(), order, idbOptionDecoder(order))
	if err != nil {
		return nil, err
	}

	return &InterfaceDescriptionBlock{
		BlockHeader: BlockHeader{Type: InterfaceDescriptionBlockType, TotalLength: totalLength},
		LinkType:    linkType,
		SnapLen:     snapLen,
		Options:     options,
	}, nil
}

func (b InterfaceDescriptionBlock) writeBody(dst []byte, order binary.ByteOrder) []byte {
	dst = appendUint16(dst, order, b.LinkType)
	dst = appendUint16(dst, order, 0)
	dst = appendUint32(dst, order, b.SnapLen)
	dst = encodeOptions(dst, order, b.Options)
	return dst
}

// TimestampResolution returns the interface's if_tsresol option,
// decoded per the PCAPNG specification's power-of-ten/power-of-two
// encoding, or the default (microsecond) if the option is absent.
func (b InterfaceDescriptionBlock) TimestampResolution() time.Duration {
	for _, opt := range b.Options {
		if u8, ok := opt.(Uint8Option); ok && u8.OptCode == optIfTsResol {
			return decodeTimestampResolution(u8.Value)
		}
	}
	return defaultTimeResolution()
}
