package pcap

import "time"

// Packet is a decoded pcap packet record with an interpreted timestamp.
// Data borrows from the buffer it was parsed out of; call Owned to
// detach it before the source buffer is reused.
type Packet struct {
	Timestamp   time.Time
	CapturedLen uint32
	OriginalLen uint32
	Data        []byte
}

// Owned returns a copy of p whose Data slice no longer aliases the
// parser's internal buffer.
func (p Packet) Owned() Packet {
	p.Data = append([]byte(nil), p.Data...)
	return p
}

// RawPacket is a pcap packet record with the timestamp left as the raw
// wire fields, for callers that want to interpret sub-second scale
// themselves.
type RawPacket struct {
	TsSec       uint32
	TsSubsec    uint32
	CapturedLen uint32
	OriginalLen uint32
	Data        []byte
}

// Owned returns a copy of p whose Data slice no longer aliases the
// parser's internal buffer.
func (p RawPacket) Owned() RawPacket {
	p.Data = append([]byte(nil), p.Data...)
	return p
}

func timestampFrom(sec, subsec uint32, resolution time.Duration) time.Time {
	var nanos int64
	if resolution == time.Nanosecond {
		nanos = int64(subsec)
	} else {
		nanos = int64(subsec) * 1000
	}
	return time.Unix(int64(sec), nanos).UTC()
}

func splitTimestamp(ts time.Time, resolution time.Duration) (sec, subsec uint32) {
	sec = uint32(ts.Unix())
	if resolution == time.Nanosecond {
		subsec = uint32(ts.Nanosecond())
	} else {
		subsec = uint32(ts.Nanosecond() / 1000)
	}
	return sec, subsec
}
