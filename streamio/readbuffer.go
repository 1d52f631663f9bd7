// Package streamio implements the incremental parsing driver shared by
// the pcap and pcapng readers: a growable buffer that pulls from an
// io.Reader only when a parse function reports it doesn't have enough
// bytes yet, instead of requiring the whole file up front.
package streamio

import (
	"errors"
	"io"

	"github.com/sofiworker/gocap/errkind"
)

const growChunk = 64 * 1024

// ReadBuffer wraps an io.Reader with a growable buffer. It is not safe
// for concurrent use: a ReadBuffer is owned by exactly one parser.
type ReadBuffer struct {
	r        io.Reader
	buf      []byte
	off      int
	consumed int
	eof      bool
}

// New creates a ReadBuffer pulling from r.
func New(r io.Reader) *ReadBuffer {
	return &ReadBuffer{r: r}
}

// Unread returns the currently buffered, not-yet-consumed bytes. The
// slice is only valid until the next call to ParseWith/ParseWithContext
// or HasDataLeft; callers that need to retain data past that point must copy
// it first.
func (rb *ReadBuffer) Unread() []byte {
	return rb.buf[rb.off:]
}

// fill reads one more chunk from the underlying reader, appending it
// to the buffer. It returns io.EOF once the underlying reader is
// exhausted and no more bytes were produced by this call.
func (rb *ReadBuffer) fill() error {
	if rb.eof {
		return io.EOF
	}
	chunk := make([]byte, growChunk)
	n, err := rb.r.Read(chunk)
	if n > 0 {
		rb.buf = append(rb.buf, chunk[:n]...)
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			rb.eof = true
			if n > 0 {
				return nil
			}
		}
		return err
	}
	return nil
}

// compact drops the already-consumed prefix once it grows past half
// the buffer, so a long-lived stream doesn't grow its buffer forever.
func (rb *ReadBuffer) compact() {
	if rb.off == 0 {
		return
	}
	if rb.off < len(rb.buf)/2 {
		return
	}
	n := copy(rb.buf, rb.buf[rb.off:])
	rb.buf = rb.buf[:n]
	rb.off = 0
}

// HasDataLeft reports whether at least one more byte is available,
// pulling from the underlying reader if the buffer is currently empty.
// A false result with a nil error means clean EOF.
func (rb *ReadBuffer) HasDataLeft() (bool, error) {
	if rb.off < len(rb.buf) {
		return true, nil
	}
	for {
		err := rb.fill()
		if rb.off < len(rb.buf) {
			return true, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}
	}
}

// ParseFunc parses a value out of the head of src, returning the value,
// the number of bytes it consumed, and an error. Returning
// errkind.ErrIncompleteBuffer asks the driver to read more data and
// retry; src is never mutated by the driver between retries other than
// to grow.
type ParseFunc[T any] func(src []byte) (T, int, error)

// ParseWith runs f against the buffered bytes, growing the buffer and
// retrying whenever f reports ErrIncompleteBuffer. Any other error from
// f is returned as-is. If filling hits EOF while retrying, ParseWith
// returns errkind.ErrIncompleteBuffer when the buffer hadn't consumed
// anything yet (a clean "nothing here" signal a reader can turn into
// end-of-iteration) or an errkind.TruncatedError once some bytes were
// already consumed (a record started but the stream cut off early).
func ParseWith[T any](rb *ReadBuffer, f ParseFunc[T]) (T, error) {
	var zero T
	rb.compact()
	for {
		val, n, err := f(rb.Unread())
		if err == nil {
			rb.off += n
			rb.consumed += n
			return val, nil
		}
		if !errkind.IsIncomplete(err) {
			return zero, err
		}
		if fillErr := rb.fill(); fillErr != nil {
			if errors.Is(fillErr, io.EOF) {
				if rb.consumed == 0 {
					return zero, errkind.ErrIncompleteBuffer
				}
				return zero, errkind.Truncated(rb.consumed)
			}
			return zero, fillErr
		}
	}
}

// ContextParseFunc is like ParseFunc but threads a mutable parser state
// S through the call, for codecs (like pcapng) whose parsing depends on
// section/interface bookkeeping carried across blocks.
type ContextParseFunc[S, T any] func(state S, src []byte) (T, int, error)

// ParseWithContext is ParseWith with an explicit state value passed
// through to f on every attempt.
func ParseWithContext[S, T any](rb *ReadBuffer, state S, f ContextParseFunc[S, T]) (T, error) {
	var zero T
	rb.compact()
	for {
		val, n, err := f(state, rb.Unread())
		if err == nil {
			rb.off += n
			rb.consumed += n
			return val, nil
		}
		if !errkind.IsIncomplete(err) {
			return zero, err
		}
		if fillErr := rb.fill(); fillErr != nil {
			if errors.Is(fillErr, io.EOF) {
				if rb.consumed == 0 {
					return zero, errkind.ErrIncompleteBuffer
				}
				return zero, errkind.Truncated(rb.consumed)
			}
			return zero, fillErr
		}
	}
}
