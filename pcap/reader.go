package pcap

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
// as each record needs.
type Reader struct {
	parser *Parser
	rb     *streamio.ReadBuffer
	logger glog.Logger
}

// NewReader reads and validates the global header from r.
func NewReader(r io.Reader, opts ...ReaderOption) (*Reader, error) {
	cfg := readerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = glog.GetLogger()
	}

	rb := streamio.New(r)
	parser, err := streamio.ParseWith(rb, NewParser)
	if err != nil {
		cfg.logger.Errorf("pcap: failed to read global header: %v", err)
		return nil, err
	}
	cfg.logger.Debugf("pcap: opened reader, header=%+v", parser.Header())
	return &Reader{parser: parser, rb: rb, logger: cfg.logger}, nil
}

// Header returns the file's global header.
func (r *Reader) Header() Header {
	return r.parser.Header()
}

// NextPacket returns the next packet, or io.EOF at a clean end of
// stream.
func (r *Reader) NextPacket() (*Packet, error) {
	has, err := r.rb.HasDataLeft()
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, io.EOF
	}
	pkt, err := streamio.ParseWith(r.rb, r.parser.NextPacket)
	if err != nil {
		r.logger.Warnf("pcap: failed to read packet record: %v", err)
		return nil, err
	}
	return &pkt, nil
}

// NextRawPacket is like NextPacket but leaves the timestamp in its raw
// wire form.
func (r *Reader) NextRawPacket() (*RawPacket, error) {
	has, err := r.rb.HasDataLeft()
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, io.EOF
	}
	pkt, err := streamio.ParseWith(r.rb, r.parser.NextRawPacket)
	if err != nil {
		return nil, err
	}
	return &pkt, nil
}
