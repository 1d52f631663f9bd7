// Package bufreader provides a small cursor over a byte slice for the
// fixed-width reads the pcap and pcapng block codecs need, generalizing
// the inline order.Uint32(...)/offset bookkeeping the codecs would
// otherwise repeat by hand.
package bufreader

import (
	"encoding/binary"

	"github.com/sofiworker/gocap/errkind"
)

// Cursor reads fixed-width integers and byte slices out of a borrowed
// buffer at a given byte order, advancing its position only on success.
type Cursor struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
}

// New wraps buf for reading at the given byte order.
func New(buf []byte, order binary.ByteOrder) *Cursor {
	return &Cursor{buf: buf, order: order}
}

// Pos returns the current read offset.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the number of unread bytes remaining.
func (c *Cursor) Len() int { return len(c.buf) - c.pos }

// Remaining returns the unread tail of the buffer without consuming it.
func (c *Cursor) Remaining() []byte { return c.buf[c.pos:] }

func (c *Cursor) need(n int) error {
	if c.Len() < n {
		return errkind.ErrIncompleteBuffer
	}
	return nil
}

// ReadUint8 reads a single byte.
func (c *Cursor) ReadUint8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

// ReadUint16 reads a uint16 at the cursor's byte order.
func (c *Cursor) ReadUint16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := c.order.Uint16(c.buf[c.pos : c.pos+2])
	c.pos += 2
	return v, nil
}

// ReadUint32 reads a uint32 at the cursor's byte order.
func (c *Cursor) ReadUint32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := c.order.Uint32(c.buf[c.pos : c.pos+4])
	c.pos += 4
	return v, nil
}

// ReadUint64 reads a uint64 at the cursor's byte order.
func (c *Cursor) ReadUint64() (uint64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := c.order.Uint64(c.buf[c.pos : c.pos+8])
	c.pos += 8
	return v, nil
}

// ReadInt32 reads a signed int32 at the cursor's byte order.
func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads a signed int64 at the cursor's byte order.
func (c *Cursor) ReadInt64() (int64, error) {
	v, err := c.ReadUint64()
	return int64(v), err
}

// ReadBytes returns the next n bytes as a sub-slice of the underlying
// buffer (no copy) and advances past them.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	v := c.buf[c.pos : c.pos+n]
	c.pos += n
	return v, nil
}

// Skip advances the cursor by n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

// ByteOrder returns the cursor's configured byte order.
func (c *Cursor) ByteOrder() binary.ByteOrder { return c.order }
