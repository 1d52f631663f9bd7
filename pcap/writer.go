package pcap

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/sofiworker/gocap/glog"
)

// WriterOption configures a Writer at construction time.
type WriterOption func(*writerConfig) error

type writerConfig struct {
	order        binary.ByteOrder
	resolution   time.Duration
	versionMajor uint16
	versionMinor uint16
	timeZone     int32
	sigFigs      uint32
	snapLen      uint32
	linkType     uint32
	bufferSize   int
	logger       glog.Logger
}

// Writer writes a pcap file: the global header on construction, then
// one packet record per WritePacket call.
type Writer struct {
	w      io.Writer
	buf    *bufio.Writer
	header Header
	order  binary.ByteOrder
	tsRes  time.Duration
	closer io.Closer
	logger glog.Logger
}

// NewWriter writes the global header to w and returns a Writer ready
// to accept packets.
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	cfg := writerConfig{
		order:        binary.LittleEndian,
		resolution:   time.Microsecond,
		versionMajor: 2,
		versionMinor: 4,
		snapLen:      65535,
		linkType:     1,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = glog.GetLogger()
	}

	header := Header{
		Magic:        magicFor(cfg.order, cfg.resolution),
		VersionMajor: cfg.versionMajor,
		VersionMinor: cfg.versionMinor,
		TimeZone:     cfg.timeZone,
		SigFigs:      cfg.sigFigs,
		SnapLen:      cfg.snapLen,
		LinkType:     cfg.linkType,
	}

	writer := &Writer{
		w:      w,
		header: header,
		order:  cfg.order,
		tsRes:  cfg.resolution,
		logger: cfg.logger,
	}
	if closer, ok := w.(io.Closer); ok {
		writer.closer = closer
	}
	if cfg.bufferSize > 0 {
		writer.buf = bufio.NewWriterSize(w, cfg.bufferSize)
		writer.w = writer.buf
	}

	if _, err := writer.w.Write(header.AppendTo(nil)); err != nil {
		cfg.logger.Errorf("pcap: failed to write global header: %v", err)
		return nil, err
	}
	cfg.logger.Debugf("pcap: opened writer, header=%+v", header)
	return writer, nil
}

// Header returns the header written at construction.
func (w *Writer) Header() Header { return w.header }

// WritePacket writes pkt as a packet record, filling in the timestamp
// and lengths when the caller left them zero.
func (w *Writer) WritePacket(pkt *Packet) error {
	if pkt == nil {
		return fmt.Errorf("pcap: packet is nil")
	}

	ts := pkt.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	sec, subsec := splitTimestamp(ts, w.tsRes)

	capturedLen := pkt.CapturedLen
	if capturedLen == 0 {
		capturedLen = uint32(len(pkt.Data))
	}
	originalLen := pkt.OriginalLen
	if originalLen == 0 {
		originalLen = uint32(len(pkt.Data))
	}
	if uint32(len(pkt.Data)) < capturedLen {
		return fmt.Errorf("pcap: packet data shorter than captured length")
	}

	return w.writeRecord(sec, subsec, capturedLen, originalLen, pkt.Data[:capturedLen])
}

// WriteRawPacket writes pkt, taking its timestamp fields as-is.
func (w *Writer) WriteRawPacket(pkt *RawPacket) error {
	if pkt == nil {
		return fmt.Errorf("pcap: packet is nil")
	}
	capturedLen := pkt.CapturedLen
	if capturedLen == 0 {
		capturedLen = uint32(len(pkt.Data))
	}
	originalLen := pkt.OriginalLen
	if originalLen == 0 {
		originalLen = uint32(len(pkt.Data))
	}
	return w.writeRecord(pkt.TsSec, pkt.TsSubsec, capturedLen, originalLen, pkt.Data[:capturedLen])
}

func (w *Writer) writeRecord(sec, subsec, capturedLen, originalLen uint32, data []byte) error {
	var hdr [packetHeaderLen]byte
	w.order.PutUint32(hdr[0:4], sec)
	w.order.PutUint32(hdr[4:8], subsec)
	w.order.PutUint32(hdr[8:12], capturedLen)
	w.order.PutUint32(hdr[12:16], originalLen)
	if _, err := w.w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.w.Write(data)
	return err
}

// Close flushes any internal buffer and, if the underlying writer is
// an io.Closer, closes it.
func (w *Writer) Close() error {
	if w.buf != nil {
		if err := w.buf.Flush(); err != nil {
			return err
		}
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// WithSnapLen sets the maximum captured length advertised by the
// header; WritePacket does not enforce it (that policy applies on
// read, see Parser.NextRawPacket).
func WithSnapLen(snapLen uint32) WriterOption {
	return func(cfg *writerConfig) error {
		if snapLen == 0 {
			return fmt.Errorf("pcap: snap length must be positive")
		}
		cfg.snapLen = snapLen
		return nil
	}
}

// WithLinkType sets the header's link-layer type code.
func WithLinkType(linkType uint32) WriterOption {
	return func(cfg *writerConfig) error {
		cfg.linkType = linkType
		return nil
	}
}

// WithBuffer wraps the writer's sink in a bufio.Writer to cut down on
// syscalls for small, frequent writes.
func WithBuffer(size int) WriterOption {
	return func(cfg *writerConfig) error {
		if size <= 0 {
			return fmt.Errorf("pcap: buffer size must be positive")
		}
		cfg.bufferSize = size
		return nil
	}
}

// WithByteOrder selects the header's and every record's byte order.
func WithByteOrder(order binary.ByteOrder) WriterOption {
	return func(cfg *writerConfig) error {
		if order != binary.BigEndian && order != binary.LittleEndian {
			return fmt.Errorf("pcap: unsupported byte order")
		}
		cfg.order = order
		return nil
	}
}

// WithTimestampResolution selects microsecond or nanosecond sub-second
// scale.
func WithTimestampResolution(resolution time.Duration) WriterOption {
	return func(cfg *writerConfig) error {
		switch resolution {
		case time.Microsecond, time.Nanosecond:
			cfg.resolution = resolution
			return nil
		default:
			return fmt.Errorf("pcap: unsupported timestamp resolution %s", resolution)
		}
	}
}

// WithVersion overrides the header's format version, default 2.4.
func WithVersion(major, minor uint16) WriterOption {
	return func(cfg *writerConfig) error {
		if major == 0 {
			return fmt.Errorf("pcap: version major must be positive")
		}
		cfg.versionMajor = major
		cfg.versionMinor = minor
		return nil
	}
}

// WithTimeZone sets the header's (rarely used) GMT-to-local correction.
func WithTimeZone(zone int32) WriterOption {
	return func(cfg *writerConfig) error {
		cfg.timeZone = zone
		return nil
	}
}

// WithSigFigs sets the header's accuracy-of-timestamps field.
func WithSigFigs(sigFigs uint32) WriterOption {
	return func(cfg *writerConfig) error {
		cfg.sigFigs = sigFigs
		return nil
	}
}

// WithLogger injects a logger for diagnostic messages. Without one,
// the Writer falls back to glog's global logger.
func WithLogger(logger glog.Logger) WriterOption {
	return func(cfg *writerConfig) error {
		cfg.logger = logger
		return nil
	}
}
