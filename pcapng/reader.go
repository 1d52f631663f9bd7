package pcapng

import (
	"io"

	"github.com/sofiworker/gocap/glog"
	"github.com/sofiworker/gocap/streamio"
)

// ReaderOption configures a Reader at construction time.
type ReaderOption func(*readerConfig)

type readerConfig struct {
	logger glog.Logger
}

// WithReaderLogger injects a logger for diagnostic messages. Without
// one, the Reader falls back to glog's global logger.
func WithReaderLogger(logger glog.Logger) ReaderOption {
	return func(cfg *readerConfig) { cfg.logger = logger }
}

// Reader drives a Parser over an io.Reader, pulling only as many bytes
// as each block needs. Unlike pcap.Reader there is no fixed global
// header to validate up front: the first call to NextBlock reads the
// stream's opening Section Header and establishes its byte order.
type Reader struct {
	parser *Parser
	rb     *streamio.ReadBuffer
	logger glog.Logger
}

// NewReader wraps r without reading anything from it yet.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	cfg := readerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = glog.GetLogger()
	}
	return &Reader{parser: NewParser(), rb: streamio.New(r), logger: cfg.logger}
}

// Interfaces returns the Interface Description blocks seen in the
// current section so far.
func (r *Reader) Interfaces() []InterfaceDescriptionBlock {
	return r.parser.Interfaces()
}

// Interface looks up an interface seen so far in the current section,
// by ID.
func (r *Reader) Interface(id uint32) (InterfaceDescriptionBlock, bool) {
	return r.parser.Interface(id)
}

// NextBlock returns the next fully-decoded block, or io.EOF at a clean
// end of stream.
func (r *Reader) NextBlock() (Block, error) {
	has, err := r.rb.HasDataLeft()
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, io.EOF
	}
	block, err := streamio.ParseWith(r.rb, r.parser.NextBlock)
	if err != nil {
		r.logger.Warnf("pcapng: failed to read block: %v", err)
		return nil, err
	}
	return block, nil
}

// NextRawBlock returns the next block's envelope without decoding its
// body, or io.EOF at a clean end of stream.
func (r *Reader) NextRawBlock() (RawBlock, error) {
	has, err := r.rb.HasDataLeft()
	if err != nil {
		return RawBlock{}, err
	}
	if !has {
		return RawBlock{}, io.EOF
	}
	return streamio.ParseWith(r.rb, r.parser.NextRawBlock)
}
