package pcapng

import "encoding/binary"

// SystemdJournalExportBlock carries a single journal entry as
// described by the systemd Journal Export Format, opaque to this
// package beyond its block framing.
type SystemdJournalExportBlock struct {
	BlockHeader
	JournalEntry []byte
}

// Owned returns a copy of b whose JournalEntry no longer aliases the
// parser's internal buffer.
func (b SystemdJournalExportBlock) Owned() SystemdJournalExportBlock {
	b.JournalEntry = append([]byte(nil), b.JournalEntry...)
	return b
}

func parseSystemdJournalExportBody(totalLength uint32, order binary.ByteOrder, body []byte) (*SystemdJournalExportBlock, error) {
	return &SystemdJournalExportBlock{
		BlockHeader:  BlockHeader{Type: SystemdJournalExportBlockType, TotalLength: totalLength},
		JournalEntry: body,
	}, nil
}

func (b SystemdJournalExportBlock) writeBody(dst []byte, order binary.ByteOrder) []byte {
	dst = append(dst, b.JournalEntry...)
	dst = append(dst, make([]byte, padLen(len(b.JournalEntry)))...)
	return dst
}
