// Package pcaputil provides small utilities built on top of pcap.Reader
// and pcap.Writer that operate purely on captured bytes.
package pcaputil

import (
	"io"

	"golang.org/x/net/bpf"

	"github.com/sofiworker/gocap/pcap"
)

// FilterCopy reads a pcap stream from r, keeps only the packets that a
// classic BPF program accepts, and writes them to w in the same pcap
// format. It returns the number of packets kept. Evaluation is purely
// over the raw captured bytes; no protocol above the link layer is
// interpreted.
func FilterCopy(r io.Reader, w io.Writer, prog []bpf.Instruction) (int, error) {
	reader, err := pcap.NewReader(r)
	if err != nil {
		return 0, err
	}
	writer, err := pcap.NewWriter(w,
		pcap.WithSnapLen(reader.Header().SnapLen),
		pcap.WithLinkType(reader.Header().LinkType),
		pcap.WithByteOrder(reader.Header().Endianness()),
		pcap.WithTimestampResolution(reader.Header().TimestampResolution()),
	)
	if err != nil {
		return 0, err
	}
	defer writer.Close()

	vm, err := bpf.NewVM(prog)
	if err != nil {
		return 0, err
	}

	count := 0
	for {
		pkt, err := reader.NextPacket()
		if err != nil {
			if err == io.EOF {
				return count, nil
			}
			return count, err
		}
		keep, err := vm.Run(pkt.Data)
		if err != nil {
			return count, err
		}
		if keep != 0 {
			if err := writer.WritePacket(pkt); err != nil {
				return count, err
			}
			count++
		}
	}
}
