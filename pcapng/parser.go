package pcapng

import (
	"encoding/binary"
)

// Parser decodes PCAPNG blocks out of in-memory byte slices; it
// performs no I/O of its own. It carries the state a correct decode
// needs across blocks: the byte order the current section was opened
// with, and the list of interfaces that section has described so far,
// both of which reset whenever a new Section Header block arrives.
type Parser struct {
	order      binary.ByteOrder
	interfaces []InterfaceDescriptionBlock
}

// NewParser returns a Parser ready to read the first Section Header
// block of a stream. Unlike pcap.NewParser, there is no leading fixed
// header to consume up front: a PCAPNG stream's first block establishes
// its own byte order.
func NewParser() *Parser {
	return &Parser{order: binary.BigEndian}
}

// Interfaces returns the Interface Description blocks seen so far in
// the current section, indexed by interface ID.
func (p *Parser) Interfaces() []InterfaceDescriptionBlock {
	return p.interfaces
}

// Interface looks up an interface by ID within the current section.
func (p *Parser) Interface(id uint32) (InterfaceDescriptionBlock, bool) {
	if int(id) < 0 || int(id) >= len(p.interfaces) {
		return InterfaceDescriptionBlock{}, false
	}
	return p.interfaces[int(id)], true
}

// NextRawBlock decodes one block envelope from the front of src without
// interpreting its body, advancing the parser's section state the same
// way NextBlock does for a Section Header.
func (p *Parser) NextRawBlock(src []byte) (RawBlock, int, error) {
	raw, n, err := parseRawBlock(src, p.order)
	if err != nil {
		return RawBlock{}, 0, err
	}
	if raw.Type == SectionHeaderBlockType {
		p.order = raw.Order
		p.interfaces = nil
	}
	return raw, n, nil
}

// NextBlock decodes one fully-typed block from the front of src,
// dispatching on its type to the matching body decoder and updating
// section/interface bookkeeping as it goes.
func (p *Parser) NextBlock(src []byte) (Block, int, error) {
	raw, n, err := parseRawBlock(src, p.order)
	if err != nil {
		return nil, 0, err
	}

	switch raw.Type {
	case SectionHeaderBlockType:
		shb, err := parseSectionHeaderBody(raw.InitialLength, raw.Order, raw.Body)
		if err != nil {
			return nil, 0, err
		}
		p.order = raw.Order
		p.interfaces = nil
		return *shb, n, nil

	case InterfaceDescriptionBlockType:
		idb, err := parseInterfaceDescriptionBody(raw.InitialLength, raw.Order, raw.Body)
		if err != nil {
			return nil, 0, err
		}
		p.interfaces = append(p.interfaces, *idb)
		return *idb, n, nil

	case PacketBlockType:
		pb, err := parsePacketBody(raw.InitialLength, raw.Order, raw.Body)
		if err != nil {
			return nil, 0, err
		}
		return *pb, n, nil

	case SimplePacketBlockType:
		spb, err := parseSimplePacketBody(raw.InitialLength, raw.Order, raw.Body)
		if err != nil {
			return nil, 0, err
		}
		return *spb, n, nil

	case NameResolutionBlockType:
		nrb, err := parseNameResolutionBody(raw.InitialLength, raw.Order, raw.Body)
		if err != nil {
			return nil, 0, err
		}
		return *nrb, n, nil

	case InterfaceStatisticsBlockType:
		isb, err := parseInterfaceStatisticsBody(raw.InitialLength, raw.Order, raw.Body)
		if err != nil {
			return nil, 0, err
		}
		return *isb, n, nil

	case EnhancedPacketBlockType:
		epb, err := parseEnhancedPacketBody(raw.InitialLength, raw.Order, raw.Body)
		if err != nil {
			return nil, 0, err
		}
		return *epb, n, nil

	case SystemdJournalExportBlockType:
		sje, err := parseSystemdJournalExportBody(raw.InitialLength, raw.Order, raw.Body)
		if err != nil {
			return nil, 0, err
		}
		return *sje, n, nil

	default:
		return *parseUnknownBody(raw.Type, raw.InitialLength, raw.Body), n, nil
	}
}
