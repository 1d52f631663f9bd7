package pcap

import (
	"fmt"
	"os"
)

// NewFileReader opens path and returns a Reader over it, plus a close
// function the caller should defer.
func NewFileReader(path string) (*Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("pcap: open %s: %w", path, err)
	}
	r, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return r, f.Close, nil
}

// NewFileWriter creates path and returns a Writer over it, plus a
// close function the caller should defer.
func NewFileWriter(path string, opts ...WriterOption) (*Writer, func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("pcap: create %s: %w", path, err)
	}
	w, err := NewWriter(f, opts...)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return w, f.Close, nil
}
