package pcapng

import (
	"encoding/binary"

	"github.com/sofiworker/gocap/errkind"
)

const blockEnvelopeLen = 12

// RawBlock is the type/length/body/trailer envelope shared by every
// PCAPNG block, decoded before any block-kind-specific body parsing
// happens. Order is the byte order this particular block's body must
// be read at: for every block except a Section Header it is whatever
// order the enclosing section established; a Section Header instead
// re-derives its own order from the byte-order magic in its body,
// independently of what came before it in the stream.
type RawBlock struct {
	Type          BlockType
	InitialLength uint32
	Body          []byte
	TrailerLength uint32
	Order         binary.ByteOrder
}

// parseRawBlock decodes one block envelope from the front of data, at
// the byte order currently in effect for the section. The block type
// field (0x0A0D0D0A for a Section Header) reads identically regardless
// of byte order, since its bytes are a palindrome; that lets this
// function recognize a Section Header before it knows which order to
// read the rest of the envelope at.
func parseRawBlock(data []byte, order binary.ByteOrder) (RawBlock, int, error) {
	if len(data) < blockEnvelopeLen {
		return RawBlock{}, 0, errkind.ErrIncompleteBuffer
	}

	typ := BlockType(order.Uint32(data[0:4]))

	if typ == SectionHeaderBlockType {
		initialLenBE := binary.BigEndian.Uint32(data[4:8])
		magic := binary.BigEndian.Uint32(data[8:12])

		var effectiveOrder binary.ByteOrder
		var initialLen uint32
		switch magic {
		case ByteOrderMagicBig:
			effectiveOrder = binary.BigEndian
			initialLen = initialLenBE
		case ByteOrderMagicLittle:
			effectiveOrder = binary.LittleEndian
			initialLen = swapUint32(initialLenBE)
		default:
			return RawBlock{}, 0, errkind.InvalidField("pcapng: section header block has an invalid byte-order magic")
		}
		return finishRawBlock(data, typ, initialLen, effectiveOrder)
	}

	initialLen := order.Uint32(data[4:8])
	return finishRawBlock(data, typ, initialLen, order)
}

func finishRawBlock(data []byte, typ BlockType, initialLen uint32, order binary.ByteOrder) (RawBlock, int, error) {
	if initialLen%4 != 0 {
		return RawBlock{}, 0, errkind.InvalidField("pcapng: block length is not a multiple of 4")
	}
	if initialLen < blockEnvelopeLen {
		return RawBlock{}, 0, errkind.InvalidFieldf("pcapng: block length %d shorter than the minimum %d bytes", initialLen, blockEnvelopeLen)
	}
	if uint64(len(data)) < uint64(initialLen) {
		return RawBlock{}, 0, errkind.ErrIncompleteBuffer
	}

	bodyLen := initialLen - blockEnvelopeLen
	body := data[8 : 8+bodyLen]
	trailerLen := order.Uint32(data[8+bodyLen : 12+bodyLen])
	if trailerLen != initialLen {
		return RawBlock{}, 0, errkind.InvalidField("pcapng: block trailer length does not match its header length")
	}

	return RawBlock{
		Type:          typ,
		InitialLength: initialLen,
		Body:          body,
		TrailerLength: trailerLen,
		Order:         order,
	}, int(initialLen), nil
}

func swapUint32(v uint32) uint32 {
	return (v>>24)&0xff | (v>>8)&0xff00 | (v<<8)&0xff0000 | (v<<24)&0xff000000
}

// writeRawBlock appends a complete block envelope (type, length, body,
// trailer) to dst, computing the padded length from len(body).
func writeRawBlock(dst []byte, order binary.ByteOrder, typ BlockType, body []byte) []byte {
	pad := padLen(len(body))
	total := uint32(blockEnvelopeLen + len(body) + pad)
	dst = appendUint32(dst, order, uint32(typ))
	dst = appendUint32(dst, order, total)
	dst = append(dst, body...)
	dst = append(dst, make([]byte, pad)...)
	dst = appendUint32(dst, order, total)
	return dst
}
