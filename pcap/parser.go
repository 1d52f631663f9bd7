package pcap

import (
	"encoding/binary"
	"time"

	"github.com/sofiworker/gocap/bufreader"
	"github.com/sofiworker/gocap/errkind"
)

const packetHeaderLen = 16

// Parser decodes pcap packets out of in-memory byte slices; it
// performs no I/O of its own. NewParser consumes the global header;
// every subsequent NextPacket/NextRawPacket call decodes one record
// in the header-selected endianness and resolution.
type Parser struct {
	header Header
	order  binary.ByteOrder
	tsRes  time.Duration
}

// NewParser parses the global header from the front of src.
func NewParser(src []byte) (*Parser, int, error) {
	h, n, err := ParseHeader(src)
	if err != nil {
		return nil, 0, err
	}
	return &Parser{header: h, order: h.Endianness(), tsRes: h.TimestampResolution()}, n, nil
}

// Header returns the parsed global header.
func (p *Parser) Header() Header { return p.header }

// NextRawPacket decodes one packet record from the front of src,
// leaving the timestamp in its raw wire form.
func (p *Parser) NextRawPacket(src []byte) (RawPacket, int, error) {
	if len(src) < packetHeaderLen {
		return RawPacket{}, 0, errkind.ErrIncompleteBuffer
	}

	cur := bufreader.New(src, p.order)
	var pkt RawPacket
	var err error
	if pkt.TsSec, err = cur.ReadUint32(); err != nil {
		return RawPacket{}, 0, err
	}
	if pkt.TsSubsec, err = cur.ReadUint32(); err != nil {
		return RawPacket{}, 0, err
	}
	if pkt.CapturedLen, err = cur.ReadUint32(); err != nil {
		return RawPacket{}, 0, err
	}
	if pkt.OriginalLen, err = cur.ReadUint32(); err != nil {
		return RawPacket{}, 0, err
	}

	if p.header.SnapLen > 0 && pkt.CapturedLen > p.header.SnapLen {
		return RawPacket{}, 0, errkind.InvalidFieldf("pcap: captured length %d exceeds snap length %d", pkt.CapturedLen, p.header.SnapLen)
	}

	data, err := cur.ReadBytes(int(pkt.CapturedLen))
	if err != nil {
		return RawPacket{}, 0, err
	}
	pkt.Data = data
	return pkt, cur.Pos(), nil
}

// NextPacket decodes one packet record and interprets its timestamp
// according to the header's resolution.
func (p *Parser) NextPacket(src []byte) (Packet, int, error) {
	raw, n, err := p.NextRawPacket(src)
	if err != nil {
		return Packet{}, 0, err
	}
	return Packet{
		Timestamp:   timestampFrom(raw.TsSec, raw.TsSubsec, p.tsRes),
		CapturedLen: raw.CapturedLen,
		OriginalLen: raw.OriginalLen,
		Data:        raw.Data,
	}, n, nil
}
