// Package pcapng implements the block-oriented PCAP Next Generation
// capture file format: a sequence of self-describing, 4-byte-aligned
// blocks, each carrying an optional list of (code, length, value)
// options.
package pcapng


// BlockType identifies the kind of a PCAPNG block.
type BlockType uint32

// The block kinds defined by the PCAPNG specification.
const (
	SectionHeaderBlockType        BlockType = 0x0A0D0D0A
	InterfaceDescriptionBlockType BlockType = 0x00000001
	PacketBlockType               BlockType = 0x00000002 // obsolete, superseded by EnhancedPacketBlockType
	SimplePacketBlockType         BlockType = 0x00000003
	NameResolutionBlockType       BlockType = 0x00000004
	InterfaceStatisticsBlockType  BlockType = 0x00000005
	EnhancedPacketBlockType       BlockType = 0x00000006
	SystemdJournalExportBlockType BlockType = 0x00000009
)

// The two byte-order magic values that appear inside a Section Header
// Block's body, used to bootstrap the section's endianness.
const (
	ByteOrderMagicBig    uint32 = 0x1A2B3C4D
	ByteOrderMagicLittle uint32 = 0x4D3C2B1A
)

// optEndOfOpt is the (code=0, length=0) sentinel terminating an option
// list, shared by every block kind.
const optEndOfOpt uint16 = 0

// optComment (code 1) is a UTF-8 free-text comment, valid on every
// block kind.
const optComment uint16 = 1

// Custom option codes: PEN-prefixed, either copyable (lower numbers,
// may be copied into a new file by processors that don't understand
// them) or non-copyable (higher numbers, should not be copied).
const (
	optCustomUtf8Copy     uint16 = 2988
	optCustomBinaryCopy   uint16 = 2989
	optCustomUtf8NoCopy   uint16 = 19372
	optCustomBinaryNoCopy uint16 = 19373
)

// Block is implemented by every decoded PCAPNG block kind.
type Block interface {
	BlockType() BlockType
}

// BlockHeader is embedded by every concrete block type to implement
// Block and to carry the wire-level total length for round-tripping.
type BlockHeader struct {
	Type        BlockType
	TotalLength uint32
}

// BlockType implements Block.
func (h BlockHeader) BlockType() BlockType { return h.Type }
