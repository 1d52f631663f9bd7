package pcapng

import (
	"fmt"
	"time"
)

// decodeTimestampResolution interprets an if_tsresol option byte per
// the PCAPNG specification: a clear high bit selects a power-of-ten
// divisor of one second, a set high bit selects a power-of-two
// divisor (the low 7 bits are the exponent either way).
//
// This is the resolved form of the timestamp-resolution open
// question: EnhancedPacketBlock keeps its raw 64-bit count and looks
// the resolution up here, per interface, instead of assuming
// nanoseconds outright.
func decodeTimestampResolution(raw byte) time.Duration {
	if raw&0x80 == 0 {
		return powerOfTenResolution(int(raw))
	}
	return powerOfTwoResolution(int(raw & 0x7f))
}

func defaultTimeResolution() time.Duration {
	return time.Microsecond
}

func powerOfTenResolution(power int) time.Duration {
	if power < 0 || power > 9 {
		return defaultTimeResolution()
	}
	divisor := int64(1)
	for i := 0; i < power; i++ {
		divisor *= 10
	}
	return clampToNanosecond(time.Second / time.Duration(divisor))
}

func powerOfTwoResolution(power int) time.Duration {
	if power < 0 || power > 30 {
		return defaultTimeResolution()
	}
	divisor := int64(1) << uint(power)
	return clampToNanosecond(time.Second / time.Duration(divisor))
}

func clampToNanosecond(d time.Duration) time.Duration {
	if d < time.Nanosecond {
		return time.Nanosecond
	}
	return d
}

// encodeTimestampResolution produces the if_tsresol option byte for
// the resolutions the writer supports.
func encodeTimestampResolution(d time.Duration) (byte, error) {
	switch d {
	case time.Microsecond:
		return 6, nil
	case time.Nanosecond:
		return 9, nil
	default:
		return 0, fmt.Errorf("pcapng: unsupported timestamp resolution %s", d)
	}
}

// splitTimestamp64 encodes ts as a 64-bit count at the given
// resolution, split into the high/low 32-bit halves the wire format
// stores.
func splitTimestamp64(ts time.Time, resolution time.Duration) (high, low uint32) {
	if resolution <= 0 {
		resolution = defaultTimeResolution()
	}
	unitsPerSecond := uint64(time.Second / resolution)
	if unitsPerSecond == 0 {
		unitsPerSecond = 1
	}
	value := uint64(ts.Unix())*unitsPerSecond + uint64(ts.Nanosecond())/uint64(resolution)
	return uint32(value >> 32), uint32(value)
}

// timeFromRaw64 interprets a raw 64-bit EnhancedPacketBlock timestamp
// count at the given resolution, splitting into seconds/sub-second
// remainder the same way the wire format itself does, to keep the
// arithmetic within int64 range for any practical capture timestamp.
func timeFromRaw64(raw uint64, resolution time.Duration) time.Time {
	if resolution <= 0 {
		resolution = defaultTimeResolution()
	}
	unitsPerSecond := uint64(time.Second / resolution)
	if unitsPerSecond == 0 {
		unitsPerSecond = 1
	}
	sec := int64(raw / unitsPerSecond)
	remainder := raw % unitsPerSecond
	nanos := int64(remainder) * int64(resolution)
	return time.Unix(sec, nanos).UTC()
}
