package pcapng

import (
	"encoding/binary"

	"github.com/sofiworker/gocap/bufreader"
	"github.com/sofiworker/gocap/errkind"
)

// SimplePacketBlock is a minimal packet record with no options and no
// interface reference; its original length is recorded but, unlike
// EnhancedPacketBlock, there is no captured-length field — the rest of
// the body is the packet data.
//
// Neither this implementation nor the format it was ported from
// validates that OriginalLen agrees with len(Data), or that trailing
// bytes are actually padding: a writer may have truncated the packet
// to the interface's snaplen without updating anything else, and nothing
// here rejects that.
type SimplePacketBlock struct {
	BlockHeader
	OriginalLen uint32
	Data        []byte
}

// Owned returns a copy of b whose Data no longer aliases the parser's
// internal buffer.
func (b SimplePacketBlock) Owned() SimplePacketBlock {
	b.Data = append([]byte(nil), b.Data...)
	return b
}

func parseSimplePacketBody(totalLength uint32, order binary.ByteOrder, body []byte) (*SimplePacketBlock, error) {
	if len(body) < 4 {
		return nil, errkind.InvalidField("pcapng: simple packet block shorter than 4 bytes")
	}
	cur := bufreader.New(body, order)
	originalLen, err := cur.ReadUint32()
	if err != nil {
		return nil, err
	}
	return &SimplePacketBlock{
		BlockHeader: BlockHeader{Type: SimplePacketBlockType, TotalLength: totalLength},
		OriginalLen: originalLen,
		Data:        cur.Remaining(),
	}, nil
}

func (b SimplePacketBlock) writeBody(dst []byte, order binary.ByteOrder) []byte {
	dst = appendUint32(dst, order, b.OriginalLen)
	dst = append(dst, b.Data...)
	dst = append(dst, make([]byte, padLen(len(b.Data)))...)
	return dst
}
