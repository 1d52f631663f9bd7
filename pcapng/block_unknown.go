package pcapng

import "encoding/binary"

// UnknownBlock preserves a block of a type this package doesn't
// otherwise decode, verbatim, so that round-tripping an unfamiliar
// stream doesn't lose blocks it can't interpret.
type UnknownBlock struct {
	BlockHeader
	Value []byte
}

// Owned returns a copy of b whose Value no longer aliases the
// parser's internal buffer.
func (b UnknownBlock) Owned() UnknownBlock {
	b.Value = append([]byte(nil), b.Value...)
	return b
}

func parseUnknownBody(blockType BlockType, totalLength uint32, body []byte) *UnknownBlock {
	return &UnknownBlock{
		BlockHeader: BlockHeader{Type: blockType, TotalLength: totalLength},
		Value:       body,
	}
}

func (b UnknownBlock) writeBody(dst []byte, order binary.ByteOrder) []byte {
	return append(dst, b.Value...)
}
