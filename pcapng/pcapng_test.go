package pcapng

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
	"time"
)

func TestReadWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	writer, err := NewWriter(&buf, WithByteOrder(binary.LittleEndian))
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	defer writer.Close()

	ifaceID, err := writer.AddInterface(InterfaceDescriptionBlock{
		BlockHeader: BlockHeader{Type: InterfaceDescriptionBlockType},
		LinkType:    1,
		SnapLen:     65535,
		Options: []Option{
			TextOption{OptCode: optIfName, Text: "eth0"},
			Uint8Option{OptCode: optIfTsResol, Value: 6},
		},
	})
	if err != nil {
		t.Fatalf("AddInterface failed: %v", err)
	}

	ts := time.Unix(1_700_000_000, 123000).UTC()
	if err := writer.WritePacket(ifaceID, ts, []byte{0xAA, 0xBB, 0xCC}); err != nil {
		t.Fatalf("WritePacket failed: %v", err)
	}

	reader := NewReader(bytes.NewReader(buf.Bytes()))

	shb, err := reader.NextBlock()
	if err != nil {
		t.Fatalf("NextBlock (section header) failed: %v", err)
	}
	if _, ok := shb.(SectionHeaderBlock); !ok {
		t.Fatalf("expected SectionHeaderBlock, got %T", shb)
	}

	idb, err := reader.NextBlock()
	if err != nil {
		t.Fatalf("NextBlock (interface description) failed: %v", err)
	}
	idBlock, ok := idb.(InterfaceDescriptionBlock)
	if !ok {
		t.Fatalf("expected InterfaceDescriptionBlock, got %T", idb)
	}
	if idBlock.TimestampResolution() != time.Microsecond {
		t.Fatalf("expected microsecond resolution, got %s", idBlock.TimestampResolution())
	}

	epb, err := reader.NextBlock()
	if err != nil {
		t.Fatalf("NextBlock (enhanced packet) failed: %v", err)
	}
	pkt, ok := epb.(EnhancedPacketBlock)
	if !ok {
		t.Fatalf("expected EnhancedPacketBlock, got %T", epb)
	}
	if !bytes.Equal(pkt.Data, []byte{0xAA, 0xBB, 0xCC}) {
		t.Fatalf("unexpected packet data: %x", pkt.Data)
	}
	if !pkt.Timestamp(time.Microsecond).Equal(ts) {
		t.Fatalf("timestamp mismatch: got %s want %s", pkt.Timestamp(time.Microsecond), ts)
	}

	if _, err := reader.NextBlock(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestBigEndianSection(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf, WithByteOrder(binary.BigEndian))
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	ifaceID, err := writer.AddInterface(InterfaceDescriptionBlock{
		BlockHeader: BlockHeader{Type: InterfaceDescriptionBlockType},
		LinkType:    1,
		SnapLen:     65535,
	})
	if err != nil {
		t.Fatalf("AddInterface failed: %v", err)
	}
	ts := time.Unix(1_710_000_000, 987654321).UTC()
	if err := writer.WritePacket(ifaceID, ts, []byte{0x10, 0x20, 0x30}); err != nil {
		t.Fatalf("WritePacket failed: %v", err)
	}

	reader := NewReader(bytes.NewReader(buf.Bytes()))
	shb, err := reader.NextBlock()
	if err != nil {
		t.Fatalf("NextBlock failed: %v", err)
	}
	if shb.(SectionHeaderBlock).LittleEndian {
		t.Fatalf("expected big-endian section")
	}
	if _, err := reader.NextBlock(); err != nil {
		t.Fatalf("NextBlock (idb) failed: %v", err)
	}
	epb, err := reader.NextBlock()
	if err != nil {
		t.Fatalf("NextBlock (epb) failed: %v", err)
	}
	if !bytes.Equal(epb.(EnhancedPacketBlock).Data, []byte{0x10, 0x20, 0x30}) {
		t.Fatalf("unexpected packet data")
	}
}

// Block alignment invariant (testable property 4): every block's
// total length, as read back off the wire, is a multiple of 4.
func TestBlockAlignment(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	ifaceID, err := writer.AddInterface(InterfaceDescriptionBlock{
		BlockHeader: BlockHeader{Type: InterfaceDescriptionBlockType},
		LinkType:    1,
		SnapLen:     65535,
		Options:     []Option{TextOption{OptCode: optIfName, Text: "x"}},
	})
	if err != nil {
		t.Fatalf("AddInterface failed: %v", err)
	}
	for _, n := range []int{1, 2, 3, 5, 7} {
		if err := writer.WritePacket(ifaceID, time.Unix(0, 0), bytes.Repeat([]byte{0x01}, n)); err != nil {
			t.Fatalf("WritePacket failed: %v", err)
		}
	}
	writer.Close()

	reader := NewReader(bytes.NewReader(buf.Bytes()))
	for {
		raw, err := reader.NextRawBlock()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextRawBlock failed: %v", err)
		}
		if raw.InitialLength%4 != 0 {
			t.Fatalf("block length %d not 4-byte aligned", raw.InitialLength)
		}
	}
}

// Option terminator invariant (testable property 5): a block with at
// least one option always ends its option list with the (0,0)
// sentinel, and a block with none omits it entirely.
func TestOptionTerminatorInvariant(t *testing.T) {
	withOpt := SectionHeaderBlock{
		BlockHeader:   BlockHeader{Type: SectionHeaderBlockType},
		MajorVersion:  1,
		SectionLength: -1,
		Options:       []Option{CommentOption{Text: "hi"}},
	}
	body := withOpt.writeBody(nil, binary.BigEndian)
	if len(body) < 4 || !allZero(body[len(body)-4:]) {
		t.Fatalf("expected trailing (0,0) terminator, got tail %x", body[len(body)-4:])
	}

	noOpt := SectionHeaderBlock{
		BlockHeader:   BlockHeader{Type: SectionHeaderBlockType},
		MajorVersion:  1,
		SectionLength: -1,
	}
	body = noOpt.writeBody(nil, binary.BigEndian)
	// 4 (magic) + 2 + 2 + 8 = 16 bytes exactly, no terminator appended.
	if len(body) != 16 {
		t.Fatalf("expected no trailing terminator bytes, got length %d", len(body))
	}
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// Section reset semantics (testable property 8): a second Section
// Header resets the interface list, so an interface ID that was valid
// in the first section must be re-established in the second.
func TestSectionResetsInterfaces(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if _, err := writer.AddInterface(InterfaceDescriptionBlock{
		BlockHeader: BlockHeader{Type: InterfaceDescriptionBlockType},
		LinkType:    1,
		SnapLen:     65535,
	}); err != nil {
		t.Fatalf("AddInterface failed: %v", err)
	}

	if err := writer.WriteBlock(DefaultSectionHeaderBlock()); err != nil {
		t.Fatalf("WriteBlock (second section header) failed: %v", err)
	}
	if len(writer.Interfaces()) != 0 {
		t.Fatalf("expected interfaces reset after new section header")
	}
	if err := writer.WritePacket(0, time.Unix(0, 0), []byte{0x01}); err == nil {
		t.Fatalf("expected WritePacket against unregistered interface to fail")
	}

	reader := NewReader(bytes.NewReader(buf.Bytes()))
	for i := 0; i < 3; i++ {
		if _, err := reader.NextBlock(); err != nil {
			t.Fatalf("NextBlock %d failed: %v", i, err)
		}
	}
	if len(reader.Interfaces()) != 0 {
		t.Fatalf("expected reader's interface list reset after second section header")
	}
}

// Streaming equivalence (testable property 7): the same stream fed in
// one shot or split into one-byte chunks yields the same blocks.
func TestStreamingEquivalence(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	ifaceID, err := writer.AddInterface(InterfaceDescriptionBlock{
		BlockHeader: BlockHeader{Type: InterfaceDescriptionBlockType},
		LinkType:    1,
		SnapLen:     65535,
	})
	if err != nil {
		t.Fatalf("AddInterface failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := writer.WritePacket(ifaceID, time.Unix(int64(1_700_000_000+i), 0), bytes.Repeat([]byte{byte(i)}, i+1)); err != nil {
			t.Fatalf("WritePacket %d failed: %v", i, err)
		}
	}
	writer.Close()

	whole := readAllEPB(t, bytes.NewReader(buf.Bytes()))
	chunked := readAllEPB(t, &byteAtATimeReader{data: buf.Bytes()})

	if len(whole) != len(chunked) || len(whole) != 4 {
		t.Fatalf("packet count mismatch: whole=%d chunked=%d", len(whole), len(chunked))
	}
	for i := range whole {
		if !bytes.Equal(whole[i], chunked[i]) {
			t.Fatalf("packet %d data mismatch", i)
		}
	}
}

func readAllEPB(t *testing.T, r io.Reader) [][]byte {
	t.Helper()
	reader := NewReader(r)
	var out [][]byte
	for {
		block, err := reader.NextBlock()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextBlock failed: %v", err)
		}
		if epb, ok := block.(EnhancedPacketBlock); ok {
			out = append(out, append([]byte(nil), epb.Data...))
		}
	}
	return out
}

type byteAtATimeReader struct{ data []byte }

func (r *byteAtATimeReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.data[:1])
	r.data = r.data[1:]
	return n, nil
}
