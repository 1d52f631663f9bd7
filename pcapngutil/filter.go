// Package pcapngutil holds higher-level PCAPNG utilities built on top
// of the pcapng codec that don't belong in the codec itself.
package pcapngutil

import (
	"io"
	"time"

	"golang.org/x/net/bpf"

	"github.com/sofiworker/gocap/pcapng"
)

// FilterCopy reads PCAPNG blocks from r, keeps only the
// EnhancedPacketBlock records that a BPF program accepts, and writes
// them to w against a freshly remapped set of interfaces. Every other
// block kind is forwarded unchanged. It returns the number of packets
// kept. A new Section Header in the input resets the interface
// mapping, matching a fresh section's own reset of interface IDs.
func FilterCopy(r io.Reader, w io.Writer, prog []bpf.Instruction) (int, error) {
	reader := pcapng.NewReader(r)
	writer, err := pcapng.NewWriter(w)
	if err != nil {
		return 0, err
	}
	defer writer.Close()

	vm, err := bpf.NewVM(prog)
	if err != nil {
		return 0, err
	}

	idMap := make(map[uint32]uint32)
	count := 0
	sawSection := false

	for {
		block, err := reader.NextBlock()
		if err != nil {
			if err == io.EOF {
				return count, nil
			}
			return count, err
		}

		switch b := block.(type) {
		case pcapng.SectionHeaderBlock:
			// NewWriter already opened the output with its own Section
			// Header; only a later one (a new section starting partway
			// through the input) needs forwarding.
			if sawSection {
				if err := writer.WriteBlock(b); err != nil {
					return count, err
				}
			}
			sawSection = true
			idMap = make(map[uint32]uint32)

		case pcapng.InterfaceDescriptionBlock:
			newID, err := writer.AddInterface(b)
			if err != nil {
				return count, err
			}
			sourceID := uint32(len(reader.Interfaces()) - 1)
			idMap[sourceID] = newID

		case pcapng.EnhancedPacketBlock:
			newID, ok := idMap[b.InterfaceID]
			if !ok {
				newID, err = remapUnknownInterface(writer, reader, b.InterfaceID)
				if err != nil {
					return count, err
				}
				idMap[b.InterfaceID] = newID
			}

			keep, err := vm.Run(b.Data)
			if err != nil {
				return count, err
			}
			if keep == 0 {
				continue
			}

			resolution := time.Microsecond
			if idb, ok := reader.Interface(b.InterfaceID); ok {
				resolution = idb.TimestampResolution()
			}
			if err := writer.WritePacket(newID, b.Timestamp(resolution), b.Data); err != nil {
				return count, err
			}
			count++

		default:
			if err := writer.WriteBlock(block); err != nil {
				return count, err
			}
		}
	}
}

// remapUnknownInterface covers a packet block that references an
// interface ID this copy hasn't registered a mapping for yet, by
// writing through whatever interface description the reader does have
// on file, or a conservative default if it has none.
func remapUnknownInterface(writer *pcapng.Writer, reader *pcapng.Reader, sourceID uint32) (uint32, error) {
	idb, ok := reader.Interface(sourceID)
	if !ok {
		idb = pcapng.InterfaceDescriptionBlock{
			BlockHeader: pcapng.BlockHeader{Type: pcapng.InterfaceDescriptionBlockType},
			LinkType:    1,
			SnapLen:     65535,
		}
	}
	return writer.AddInterface(idb)
}
