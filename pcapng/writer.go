package pcapng

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/sofiworker/gocap/errkind"
	"github.com/sofiworker/gocap/glog"
)

// WriterOption configures a Writer at construction time.
type WriterOption func(*writerConfig) error

type writerConfig struct {
	order          binary.ByteOrder
	majorVersion   uint16
	minorVersion   uint16
	sectionOptions []Option
	bufferSize     int
	logger         glog.Logger
}

// bodyWriter is implemented by every concrete block type; it is kept
// unexported because callers only ever need the Block interface to
// pass a value to Writer.WriteBlock.
type bodyWriter interface {
	writeBody(dst []byte, order binary.ByteOrder) []byte
}

// Writer writes a PCAPNG file: an opening Section Header block on
// construction, then whatever further blocks the caller writes.
type Writer struct {
	w          io.Writer
	buf        *bufio.Writer
	order      binary.ByteOrder
	interfaces []InterfaceDescriptionBlock
	closer     io.Closer
	logger     glog.Logger
}

// NewWriter writes an opening Section Header block to w and returns a
// Writer ready to accept further blocks.
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	cfg := writerConfig{
		order:        binary.BigEndian,
		majorVersion: 1,
		minorVersion: 0,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = glog.GetLogger()
	}

	writer := &Writer{w: w, order: cfg.order, logger: cfg.logger}
	if closer, ok := w.(io.Closer); ok {
		writer.closer = closer
	}
	if cfg.bufferSize > 0 {
		writer.buf = bufio.NewWriterSize(w, cfg.bufferSize)
		writer.w = writer.buf
	}

	shb := SectionHeaderBlock{
		BlockHeader:   BlockHeader{Type: SectionHeaderBlockType},
		LittleEndian:  cfg.order == binary.LittleEndian,
		MajorVersion:  cfg.majorVersion,
		MinorVersion:  cfg.minorVersion,
		SectionLength: -1,
		Options:       cfg.sectionOptions,
	}
	if err := writer.WriteBlock(shb); err != nil {
		cfg.logger.Errorf("pcapng: failed to write opening section header: %v", err)
		return nil, err
	}
	cfg.logger.Debugf("pcapng: opened writer, order=%v version=%d.%d", cfg.order, cfg.majorVersion, cfg.minorVersion)
	return writer, nil
}

// Interfaces returns the Interface Description blocks written so far
// in the current section.
func (w *Writer) Interfaces() []InterfaceDescriptionBlock {
	return w.interfaces
}

// Interface looks up an interface written so far in the current
// section, by ID.
func (w *Writer) Interface(id uint32) (InterfaceDescriptionBlock, bool) {
	if int(id) < 0 || int(id) >= len(w.interfaces) {
		return InterfaceDescriptionBlock{}, false
	}
	return w.interfaces[id], true
}

// AddInterface writes idb as a new Interface Description block and
// returns the interface ID later EnhancedPacketBlock/PacketBlock/
// InterfaceStatisticsBlock writes should reference, namely its
// position among this section's interfaces.
func (w *Writer) AddInterface(idb InterfaceDescriptionBlock) (uint32, error) {
	if err := w.WriteBlock(idb); err != nil {
		return 0, err
	}
	return uint32(len(w.interfaces) - 1), nil
}

// WritePacket is a convenience wrapper writing an EnhancedPacketBlock
// against interfaceID, resolving ts into that interface's timestamp
// unit via its if_tsresol option.
func (w *Writer) WritePacket(interfaceID uint32, ts time.Time, data []byte) error {
	idb, ok := w.Interface(interfaceID)
	if !ok {
		w.logger.Warnf("pcapng: rejected block referencing unregistered interface %d", interfaceID)
		return errkind.InvalidInterfaceID(interfaceID)
	}
	high, low := splitTimestamp64(ts, idb.TimestampResolution())
	epb := EnhancedPacketBlock{
		BlockHeader:  BlockHeader{Type: EnhancedPacketBlockType},
		InterfaceID:  interfaceID,
		TimestampRaw: (uint64(high) << 32) | uint64(low),
		CapturedLen:  uint32(len(data)),
		OriginalLen:  uint32(len(data)),
		Data:         data,
	}
	return w.WriteBlock(epb)
}

// WriteBlock encodes b and writes it to the stream, rejecting a
// packet or statistics block that references an interface ID this
// writer hasn't seen an AddInterface call for yet, before any bytes
// reach the underlying writer.
func (w *Writer) WriteBlock(b Block) error {
	if err := w.checkInterfaceReference(b); err != nil {
		return err
	}
	bw, ok := b.(bodyWriter)
	if !ok {
		return fmt.Errorf("pcapng: block type %T cannot be written", b)
	}

	body := bw.writeBody(nil, w.order)
	raw := writeRawBlock(nil, w.order, b.BlockType(), body)
	if _, err := w.w.Write(raw); err != nil {
		return err
	}

	switch blk := b.(type) {
	case SectionHeaderBlock:
		w.interfaces = nil
	case InterfaceDescriptionBlock:
		w.interfaces = append(w.interfaces, blk)
	}
	return nil
}

func (w *Writer) checkInterfaceReference(b Block) error {
	var id uint32
	var bad bool
	switch blk := b.(type) {
	case EnhancedPacketBlock:
		_, ok := w.Interface(blk.InterfaceID)
		id, bad = blk.InterfaceID, !ok
	case PacketBlock:
		_, ok := w.Interface(uint32(blk.InterfaceID))
		id, bad = uint32(blk.InterfaceID), !ok
	case InterfaceStatisticsBlock:
		_, ok := w.Interface(blk.InterfaceID)
		id, bad = blk.InterfaceID, !ok
	default:
		return nil
	}
	if bad {
		w.logger.Warnf("pcapng: rejected block referencing unregistered interface %d", id)
		return errkind.InvalidInterfaceID(id)
	}
	return nil
}

// WriteRawBlock writes a pre-built block envelope verbatim, tracking
// section/interface state the same way WriteBlock does so a caller
// that forwards undecoded blocks (see pcapngutil.FilterCopy) keeps
// later WriteBlock/WritePacket calls consistent.
func (w *Writer) WriteRawBlock(raw RawBlock) error {
	out := writeRawBlock(nil, raw.Order, raw.Type, raw.Body)
	if _, err := w.w.Write(out); err != nil {
		return err
	}

	switch raw.Type {
	case SectionHeaderBlockType:
		w.order = raw.Order
		w.interfaces = nil
	case InterfaceDescriptionBlockType:
		if idb, err := parseInterfaceDescriptionBody(raw.InitialLength, raw.Order, raw.Body); err == nil {
			w.interfaces = append(w.interfaces, *idb)
		}
	}
	return nil
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

// WithByteOrder selects the section's byte order.
func WithByteOrder(order binary.ByteOrder) WriterOption {
	return func(cfg *writerConfig) error {
		if order != binary.BigEndian && order != binary.LittleEndian {
			return fmt.Errorf("pcapng: unsupported byte order")
		}
		cfg.order = order
		return nil
	}
}

// WithVersion overrides the Section Header's format version, default
// 1.0.
func WithVersion(major, minor uint16) WriterOption {
	return func(cfg *writerConfig) error {
		cfg.majorVersion = major
		cfg.minorVersion = minor
		return nil
	}
}

// WithSectionOptions sets the opening Section Header block's options
// (shb_hardware, shb_os, shb_userappl, comments, ...).
func WithSectionOptions(options ...Option) WriterOption {
	return func(cfg *writerConfig) error {
		cfg.sectionOptions = options
		return nil
	}
}

// WithBuffer wraps the writer's sink in a bufio.Writer to cut down on
// syscalls for small, frequent block writes.
func WithBuffer(size int) WriterOption {
	return func(cfg *writerConfig) error {
		if size <= 0 {
			return fmt.Errorf("pcapng: buffer size must be positive")
		}
		cfg.bufferSize = size
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
