package pcapng

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// Each case round-trips one block kind's body codec directly
// (testable property 2), independent of the framing layer.

func TestInterfaceDescriptionRoundTrip(t *testing.T) {
	orig := InterfaceDescriptionBlock{
		BlockHeader: BlockHeader{Type: InterfaceDescriptionBlockType},
		LinkType:    1,
		SnapLen:     262144,
		Options: []Option{
			TextOption{OptCode: optIfName, Text: "eth0"},
			Uint32Option{OptCode: optIfTzone, Value: 0, rawBytes: []byte{0, 0, 0, 0}},
		},
	}
	body := orig.writeBody(nil, binary.LittleEndian)
	got, err := parseInterfaceDescriptionBody(uint32(len(body)+12), binary.LittleEndian, body)
	if err != nil {
		t.Fatalf("parseInterfaceDescriptionBody: %v", err)
	}
	if got.LinkType != orig.LinkType || got.SnapLen != orig.SnapLen {
		t.Fatalf("mismatch: %+v", got)
	}
	if len(got.Options) != 2 || !bytes.Equal(got.Options[0].Raw(), []byte("eth0")) {
		t.Fatalf("option mismatch: %+v", got.Options)
	}
}

func TestEnhancedPacketRoundTrip(t *testing.T) {
	orig := EnhancedPacketBlock{
		BlockHeader:  BlockHeader{Type: EnhancedPacketBlockType},
		InterfaceID:  3,
		TimestampRaw: 0x0102030405060708,
		CapturedLen:  5,
		OriginalLen:  9,
		Data:         []byte{1, 2, 3, 4, 5},
		Options:      []Option{Uint32Option{OptCode: optEpbFlags, Value: 1, rawBytes: []byte{0, 0, 0, 1}}},
	}
	body := orig.writeBody(nil, binary.BigEndian)
	got, err := parseEnhancedPacketBody(uint32(len(body)+12), binary.BigEndian, body)
	if err != nil {
		t.Fatalf("parseEnhancedPacketBody: %v", err)
	}
	if got.InterfaceID != orig.InterfaceID || got.TimestampRaw != orig.TimestampRaw {
		t.Fatalf("mismatch: %+v", got)
	}
	if !bytes.Equal(got.Data, orig.Data) {
		t.Fatalf("data mismatch: %x", got.Data)
	}
	if len(got.Options) != 1 {
		t.Fatalf("expected 1 option, got %d", len(got.Options))
	}
}

func TestSimplePacketRoundTrip(t *testing.T) {
	orig := SimplePacketBlock{
		BlockHeader: BlockHeader{Type: SimplePacketBlockType},
		OriginalLen: 64,
		Data:        []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01},
	}
	body := orig.writeBody(nil, binary.LittleEndian)
	got, err := parseSimplePacketBody(uint32(len(body)+12), binary.LittleEndian, body)
	if err != nil {
		t.Fatalf("parseSimplePacketBody: %v", err)
	}
	if got.OriginalLen != orig.OriginalLen {
		t.Fatalf("original length mismatch")
	}
	// The trailing padding the writer appends is, by design, not
	// stripped back off on read (see the leniency note on
	// SimplePacketBlock), so the tail beyond the real payload is
	// expected to carry zero bytes rather than disappear.
	if !bytes.HasPrefix(got.Data, orig.Data) {
		t.Fatalf("data prefix mismatch: %x", got.Data)
	}
}

func TestPacketObsoleteRoundTrip(t *testing.T) {
	orig := PacketBlock{
		BlockHeader:  BlockHeader{Type: PacketBlockType},
		InterfaceID:  2,
		DropsCount:   7,
		TimestampRaw: 0xAABBCCDD11223344,
		CapturedLen:  3,
		OriginalLen:  3,
		Data:         []byte{9, 8, 7},
	}
	body := orig.writeBody(nil, binary.LittleEndian)
	got, err := parsePacketBody(uint32(len(body)+12), binary.LittleEndian, body)
	if err != nil {
		t.Fatalf("parsePacketBody: %v", err)
	}
	if got.InterfaceID != orig.InterfaceID || got.DropsCount != orig.DropsCount {
		t.Fatalf("mismatch: %+v", got)
	}
	if !bytes.Equal(got.Data, orig.Data) {
		t.Fatalf("data mismatch: %x", got.Data)
	}
}

func TestNameResolutionRoundTrip(t *testing.T) {
	orig := NameResolutionBlock{
		BlockHeader: BlockHeader{Type: NameResolutionBlockType},
		Records: []NameResolutionRecord{
			{Type: nrbRecordIPv4, Addr: []byte{127, 0, 0, 1}, Names: []string{"localhost", "loopback"}},
			{Type: nrbRecordIPv6, Addr: bytes.Repeat([]byte{0}, 16), Names: []string{"::1"}},
		},
		Options: []Option{TextOption{OptCode: optNsDnsName, Text: "resolver.local"}},
	}
	body := orig.writeBody(nil, binary.LittleEndian)
	got, err := parseNameResolutionBody(uint32(len(body)+12), binary.LittleEndian, body)
	if err != nil {
		t.Fatalf("parseNameResolutionBody: %v", err)
	}
	if len(got.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got.Records))
	}
	if got.Records[0].Names[0] != "localhost" || got.Records[0].Names[1] != "loopback" {
		t.Fatalf("ipv4 names mismatch: %+v", got.Records[0])
	}
	if got.Records[1].Names[0] != "::1" {
		t.Fatalf("ipv6 names mismatch: %+v", got.Records[1])
	}
	if len(got.Options) != 1 || string(got.Options[0].Raw()) != "resolver.local" {
		t.Fatalf("option mismatch: %+v", got.Options)
	}
}

func TestInterfaceStatisticsRoundTrip(t *testing.T) {
	orig := InterfaceStatisticsBlock{
		BlockHeader:  BlockHeader{Type: InterfaceStatisticsBlockType},
		InterfaceID:  1,
		TimestampRaw: 123456789,
		Options:      []Option{Uint64Option{OptCode: optIsbIfRecv, Value: 42, rawBytes: []byte{0, 0, 0, 0, 0, 0, 0, 42}}},
	}
	body := orig.writeBody(nil, binary.BigEndian)
	got, err := parseInterfaceStatisticsBody(uint32(len(body)+12), binary.BigEndian, body)
	if err != nil {
		t.Fatalf("parseInterfaceStatisticsBody: %v", err)
	}
	if got.InterfaceID != orig.InterfaceID || got.TimestampRaw != orig.TimestampRaw {
		t.Fatalf("mismatch: %+v", got)
	}
}

func TestSystemdJournalExportRoundTrip(t *testing.T) {
	orig := SystemdJournalExportBlock{
		BlockHeader:  BlockHeader{Type: SystemdJournalExportBlockType},
		JournalEntry: []byte("MESSAGE=hello\n"),
	}
	body := orig.writeBody(nil, binary.LittleEndian)
	got, err := parseSystemdJournalExportBody(uint32(len(body)+12), binary.LittleEndian, body)
	if err != nil {
		t.Fatalf("parseSystemdJournalExportBody: %v", err)
	}
	if !bytes.HasPrefix(got.JournalEntry, orig.JournalEntry) {
		t.Fatalf("journal entry mismatch: %q", got.JournalEntry)
	}
}

func TestUnknownBlockPassthrough(t *testing.T) {
	value := []byte{1, 2, 3, 4}
	got := parseUnknownBody(BlockType(0xDEADBEEF), uint32(len(value)+12), value)
	if got.BlockType() != BlockType(0xDEADBEEF) {
		t.Fatalf("unexpected block type: %x", got.BlockType())
	}
	out := got.writeBody(nil, binary.LittleEndian)
	if !bytes.Equal(out, value) {
		t.Fatalf("passthrough mismatch: %x", out)
	}
}

func TestIfTzoneValidatesFourBytes(t *testing.T) {
	decode := idbOptionDecoder(binary.BigEndian)
	if _, _, err := decode(optIfTzone, []byte{0, 0, 0, 0}); err != nil {
		t.Fatalf("expected 4-byte if_tzone to validate, got %v", err)
	}
	if _, _, err := decode(optIfTzone, []byte{0}); err == nil {
		t.Fatalf("expected 1-byte if_tzone to be rejected")
	}
}
