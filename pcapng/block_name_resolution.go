package pcapng

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"

	"github.com/sofiworker/gocap/bufreader"
	"github.com/sofiworker/gocap/errkind"
)

// Name Resolution Block record type codes.
const (
	nrbRecordEnd  uint16 = 0
	nrbRecordIPv4 uint16 = 1
	nrbRecordIPv6 uint16 = 2
)

// Known option codes for NameResolutionBlock, beyond the shared
// opt_comment.
const (
	optNsDnsName     uint16 = 2
	optNsDnsIPv4Addr uint16 = 3
	optNsDnsIPv6Addr uint16 = 4
)

// NameResolutionRecord maps one address to one or more names. Addr is
// 4 bytes for an IPv4 record, 16 for IPv6, and empty for a record type
// this package doesn't know about (RawValue then holds the whole
// record body verbatim so it can round-trip).
type NameResolutionRecord struct {
	Type     uint16
	Addr     []byte
	Names    []string
	RawValue []byte
}

// NameResolutionBlock correlates numeric addresses seen in captured
// packets with their canonical names.
type NameResolutionBlock struct {
	BlockHeader
	Records []NameResolutionRecord
	Options []Option
}

func nrbOptionDecoder(code uint16, value []byte) (Option, bool, error) {
	switch code {
	case optNsDnsName:
		if err := utf8Value(value); err != nil {
			return nil, true, err
		}
		return TextOption{OptCode: code, Text: string(value)}, true, nil
	case optNsDnsIPv4Addr:
		if err := exactLength(4)(code, value); err != nil {
			return nil, true, err
		}
		return BytesOption{OptCode: code, Value: value}, true, nil
	case optNsDnsIPv6Addr:
		if err := exactLength(16)(code, value); err != nil {
			return nil, true, err
		}
		return BytesOption{OptCode: code, Value: value}, true, nil
	default:
		return nil, false, nil
	}
}

// Owned returns a copy of b whose records and options no longer alias
// the parser's internal buffer.
func (b NameResolutionBlock) Owned() NameResolutionBlock {
	records := make([]NameResolutionRecord, len(b.Records))
	for i, r := range b.Records {
		records[i] = NameResolutionRecord{
			Type:     r.Type,
			Addr:     append([]byte(nil), r.Addr...),
			Names:    append([]string(nil), r.Names...),
			RawValue: append([]byte(nil), r.RawValue...),
		}
	}
	b.Records = records
	b.Options = cloneOptions(b.Options)
	return b
}

func parseAddressNames(value []byte) ([]string, error) {
	var names []string
	for _, part := range bytes.Split(value, []byte{0}) {
		if len(part) == 0 {
			break
		}
		if !utf8.Valid(part) {
			return nil, errkind.ErrUtf8
		}
		names = append(names, string(part))
	}
	if len(names) == 0 {
		return nil, errkind.InvalidField("pcapng: name resolution record without any name")
	}
	return names, nil
}

func parseNameResolutionBody(totalLength uint32, order binary.ByteOrder, body []byte) (*NameResolutionBlock, error) {
	cur := bufreader.New(body, order)

	var records []NameResolutionRecord
	for {
		if cur.Len() < 4 {
			return nil, errkind.InvalidField("pcapng: name resolution block missing end-of-records marker")
		}
		recType, err := cur.ReadUint16()
		if err != nil {
			return nil, err
		}
		length, err := cur.ReadUint16()
		if err != nil {
			return nil, err
		}
		value, err := cur.ReadBytes(int(length))
		if err != nil {
			return nil, errkind.InvalidField("pcapng: name resolution record length runs past end of block")
		}
		if err := cur.Skip(padLen(int(length))); err != nil {
			return nil, errkind.InvalidField("pcapng: truncated name resolution record padding")
		}

		if recType == nrbRecordEnd {
			if length != 0 {
				return nil, errkind.InvalidField("pcapng: nrb_record_end length must be zero")
			}
			break
		}

		record := NameResolutionRecord{Type: recType}
		switch recType {
		case nrbRecordIPv4:
			if len(value) < 6 {
				return nil, errkind.InvalidField("pcapng: ipv4 name resolution record shorter than 6 bytes")
			}
			names, err := parseAddressNames(value[4:])
			if err != nil {
				return nil, err
			}
			record.Addr = value[:4]
			record.Names = names
		case nrbRecordIPv6:
			if len(value) < 18 {
				return nil, errkind.InvalidField("pcapng: ipv6 name resolution record shorter than 18 bytes")
			}
			names, err := parseAddressNames(value[16:])
			if err != nil {
				return nil, err
			}
			record.Addr = value[:16]
			record.Names = names
		default:
			record.RawValue = value
		}
		records = append(records, record)
	}

	options, err := parseOptions(cur.Remaining(), order, nrbOptionDecoder)
	if err != nil {
		return nil, err
	}

	return &NameResolutionBlock{
		BlockHeader: BlockHeader{Type: NameResolutionBlockType, TotalLength: totalLength},
		Records:     records,
		Options:     options,
	}, nil
}

func (b NameResolutionBlock) writeBody(dst []byte, order binary.ByteOrder) []byte {
	for _, r := range b.Records {
		var value []byte
		switch r.Type {
		case nrbRecordIPv4, nrbRecordIPv6:
			value = append(value, r.Addr...)
			for _, name := range r.Names {
				value = append(value, []byte(name)...)
				value = append(value, 0)
			}
		default:
			value = r.RawValue
		}
		dst = appendUint16(dst, order, r.Type)
		dst = appendUint16(dst, order, uint16(len(value)))
		dst = append(dst, value...)
		dst = append(dst, make([]byte, padLen(len(value)))...)
	}
	dst = appendUint16(dst, order, nrbRecordEnd)
	dst = appendUint16(dst, order, 0)
	dst = encodeOptions(dst, order, b.Options)
	return dst
}
