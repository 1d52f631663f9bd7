package pcapng

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/sofiworker/gocap/bufreader"
	"github.com/sofiworker/gocap/errkind"
)

// Option is implemented by every decoded PCAPNG option. Code and Raw
// are enough to re-encode any variant without a type switch; Raw
// always returns the option's value bytes exactly as they appeared on
// the wire, so round-tripping never depends on recognizing the
// concrete type.
type Option interface {
	Code() uint16
	Raw() []byte
}

// UnknownOption preserves an option this block's decoder doesn't give
// a typed meaning to, verbatim: the closed-but-extensible tail variant
// every block's option set carries.
type UnknownOption struct {
	OptCode uint16
	Value   []byte
}

func (o UnknownOption) Code() uint16 { return o.OptCode }
func (o UnknownOption) Raw() []byte  { return o.Value }

// CommentOption is opt_comment (code 1), valid on every block kind.
type CommentOption struct {
	Text string
}

func (o CommentOption) Code() uint16 { return optComment }
func (o CommentOption) Raw() []byte  { return []byte(o.Text) }

// TextOption is a free-text UTF-8 option whose code carries
// block-specific meaning (if_name, if_os, shb_hardware, ns_dnsname,
// and similar).
type TextOption struct {
	OptCode uint16
	Text    string
}

func (o TextOption) Code() uint16 { return o.OptCode }
func (o TextOption) Raw() []byte  { return []byte(o.Text) }

// Uint8Option is a single-byte numeric option (if_tsresol, if_fcslen).
type Uint8Option struct {
	OptCode uint16
	Value   uint8
}

func (o Uint8Option) Code() uint16 { return o.OptCode }
func (o Uint8Option) Raw() []byte  { return []byte{o.Value} }

// Uint32Option is a fixed 4-byte numeric option (if_tzone, epb_flags).
// rawBytes keeps the wire encoding so Raw() never has to re-derive a
// byte order the option itself doesn't carry.
type Uint32Option struct {
	OptCode  uint16
	Value    uint32
	rawBytes []byte
}

func (o Uint32Option) Code() uint16 { return o.OptCode }
func (o Uint32Option) Raw() []byte  { return o.rawBytes }

// Uint64Option is a fixed 8-byte numeric option (epb_dropcount, the
// isb_* counters, if_*speed, if_euiaddr, and similar).
type Uint64Option struct {
	OptCode  uint16
	Value    uint64
	rawBytes []byte
}

func (o Uint64Option) Code() uint16 { return o.OptCode }
func (o Uint64Option) Raw() []byte  { return o.rawBytes }

// BytesOption is a fixed-shape binary option this package validates
// the length of but doesn't decode further (if_macaddr,
// if_ipv4addr/if_ipv6addr, ns_dnsipv4addr/ns_dnsipv6addr): its bytes
// are exposed as-is rather than split into sub-fields.
type BytesOption struct {
	OptCode uint16
	Value   []byte
}

func (o BytesOption) Code() uint16 { return o.OptCode }
func (o BytesOption) Raw() []byte  { return o.Value }

// CustomOption is one of the four PEN-prefixed custom option codes
// (2988/2989/19372/19373), valid on every block kind. PEN is the
// Private Enterprise Number prefix; Payload is everything after it.
// Copy reports whether processors that don't understand the PEN may
// copy the option into a new file (the lower-numbered "copy" codes)
// or should leave it out (the higher-numbered "no-copy" codes);
// UTF8 reports whether Payload is free text rather than opaque binary.
type CustomOption struct {
	OptCode uint16
	PEN     uint32
	Payload []byte
	Copy    bool
	UTF8    bool
	value   []byte // full wire value (PEN prefix + payload), verbatim
}

func (o CustomOption) Code() uint16 { return o.OptCode }
func (o CustomOption) Raw() []byte  { return o.value }

// optionDecoder turns a raw (code, value) pair into this block's
// typed Option variant. ok is false for a code the block doesn't
// recognize, in which case the caller falls back to UnknownOption.
type optionDecoder func(code uint16, value []byte) (opt Option, ok bool, err error)

// exactLength checks a decoded option's value length against the rule
// the PCAPNG specification mandates for its code, for use inside a
// block's optionDecoder.
func exactLength(n int) func(code uint16, value []byte) error {
	return func(code uint16, value []byte) error {
		if len(value) != n {
			return errkind.InvalidFieldf("pcapng: option %d must be %d bytes, got %d", code, n, len(value))
		}
		return nil
	}
}

// utf8Value validates a comment/custom-string option's bytes as UTF-8.
func utf8Value(value []byte) error {
	if !utf8.Valid(value) {
		return errkind.ErrUtf8
	}
	return nil
}

// decodeOption dispatches one raw (code, value) pair to the option
// codes every block kind shares (opt_comment, the four custom option
// codes), then to decode for anything block-specific, falling back to
// UnknownOption if neither recognizes it.
func decodeOption(order binary.ByteOrder, code uint16, value []byte, decode optionDecoder) (Option, error) {
	switch {
	case code == optComment:
		if err := utf8Value(value); err != nil {
			return nil, err
		}
		return CommentOption{Text: string(value)}, nil
	default:
		if isCustom, isUTF8 := isCustomOption(code); isCustom {
			pen, payload, err := customOptionPEN(order, value)
			if err != nil {
				return nil, err
			}
			if isUTF8 {
				if err := utf8Value(payload); err != nil {
					return nil, err
				}
			}
			copyable := code == optCustomUtf8Copy || code == optCustomBinaryCopy
			return CustomOption{OptCode: code, PEN: pen, Payload: payload, Copy: copyable, UTF8: isUTF8, value: value}, nil
		}
	}

	if decode != nil {
		if opt, ok, err := decode(code, value); err != nil {
			return nil, err
		} else if ok {
			return opt, nil
		}
	}
	return UnknownOption{OptCode: code, Value: value}, nil
}

// parseOptions decodes the option TLV list occupying the whole of
// data, dispatching each (code, value) pair to decode (if non-nil) to
// produce this block's typed Option variants. It stops at the first
// (0,0) sentinel or at end of data.
func parseOptions(data []byte, order binary.ByteOrder, decode optionDecoder) ([]Option, error) {
	var options []Option
	cur := bufreader.New(data, order)

	for cur.Len() >= 4 {
		code, err := cur.ReadUint16()
		if err != nil {
			return nil, err
		}
		length, err := cur.ReadUint16()
		if err != nil {
			return nil, err
		}

		if code == optEndOfOpt {
			pad := padLen(int(length))
			if err := cur.Skip(pad); err != nil {
				return nil, errkind.InvalidField("pcapng: truncated option terminator padding")
			}
			return options, nil
		}

		value, err := cur.ReadBytes(int(length))
		if err != nil {
			return nil, errkind.InvalidField("pcapng: option value runs past end of block")
		}

		opt, err := decodeOption(order, code, value, decode)
		if err != nil {
			return nil, err
		}
		options = append(options, opt)

		pad := padLen(len(value))
		if err := cur.Skip(pad); err != nil {
			return nil, errkind.InvalidField("pcapng: truncated option padding")
		}
	}

	if len(data) == 0 {
		return nil, nil
	}
	return options, nil
}

// encodeOptions appends the wire form of options to dst: each option's
// (code, length, value, pad), then a (0,0) terminator iff at least one
// option was written.
func encodeOptions(dst []byte, order binary.ByteOrder, options []Option) []byte {
	for _, opt := range options {
		raw := opt.Raw()
		dst = appendUint16(dst, order, opt.Code())
		dst = appendUint16(dst, order, uint16(len(raw)))
		dst = append(dst, raw...)
		dst = append(dst, make([]byte, padLen(len(raw)))...)
	}
	if len(options) > 0 {
		dst = appendUint16(dst, order, 0)
		dst = appendUint16(dst, order, 0)
	}
	return dst
}

// cloneOptions deep-copies options so none of them alias the parser's
// internal buffer, for use by a block's Owned method.
func cloneOptions(options []Option) []Option {
	if options == nil {
		return nil
	}
	out := make([]Option, len(options))
	for i, opt := range options {
		switch o := opt.(type) {
		case UnknownOption:
			out[i] = UnknownOption{OptCode: o.OptCode, Value: append([]byte(nil), o.Value...)}
		case CommentOption:
			out[i] = o
		case TextOption:
			out[i] = o
		case Uint8Option:
			out[i] = o
		case Uint32Option:
			out[i] = Uint32Option{OptCode: o.OptCode, Value: o.Value, rawBytes: append([]byte(nil), o.rawBytes...)}
		case Uint64Option:
			out[i] = Uint64Option{OptCode: o.OptCode, Value: o.Value, rawBytes: append([]byte(nil), o.rawBytes...)}
		case BytesOption:
			out[i] = BytesOption{OptCode: o.OptCode, Value: append([]byte(nil), o.Value...)}
		case CustomOption:
			out[i] = CustomOption{
				OptCode: o.OptCode, PEN: o.PEN, Copy: o.Copy, UTF8: o.UTF8,
				Payload: append([]byte(nil), o.Payload...),
				value:   append([]byte(nil), o.value...),
			}
		default:
			out[i] = opt
		}
	}
	return out
}

func padLen(n int) int {
	return (4 - (n % 4)) % 4
}

func appendUint16(dst []byte, order binary.ByteOrder, v uint16) []byte {
	var tmp [2]byte
	order.PutUint16(tmp[:], v)
	return append(dst, tmp[:]...)
}

func appendUint32(dst []byte, order binary.ByteOrder, v uint32) []byte {
	var tmp [4]byte
	order.PutUint32(tmp[:], v)
	return append(dst, tmp[:]...)
}

func appendUint64(dst []byte, order binary.ByteOrder, v uint64) []byte {
	var tmp [8]byte
	order.PutUint64(tmp[:], v)
	return append(dst, tmp[:]...)
}

// customOptionPEN extracts the 32-bit Private Enterprise Number prefix
// shared by every custom option, returning the remaining payload.
func customOptionPEN(order binary.ByteOrder, value []byte) (pen uint32, payload []byte, err error) {
	if len(value) < 4 {
		return 0, nil, errkind.InvalidField("pcapng: custom option shorter than its PEN prefix")
	}
	return order.Uint32(value[0:4]), value[4:], nil
}

// isCustomOption reports whether code is one of the four custom-option
// codes, and whether its payload (after the PEN) is UTF-8 or binary.
func isCustomOption(code uint16) (isCustom, isUTF8 bool) {
	switch code {
	case optCustomUtf8Copy, optCustomUtf8NoCopy:
		return true, true
	case optCustomBinaryCopy, optCustomBinaryNoCopy:
		return true, false
	default:
		return false, false
	}
}
