package transit

import (
	"encoding/binary"

	"github.com/antigravity/transitcore/internal/transit/pathmapper"
)

// EncodeLeg writes the bit-exact diagnostic encoding spec §6 defines for one
// leg: 32-bit little-endian (kind, from_stop, to_stop, departure_time,
// arrival_time, trip_index_or_-1). This is strictly a golden-test comparison
// format, never a transport format (compression/endianness for wire
// transport is explicitly out of scope).
func EncodeLeg(l Path, index int) [24]byte {
	leg := l.Legs[index]
	var buf [24]byte
	trip := int32(-1)
	if leg.Kind == pathmapper.Transit {
		trip = int32(leg.Trip)
	}
	binary.LittleEndian.PutUint32(buf[0:4], uint32(leg.Kind))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(leg.FromStop))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(leg.ToStop))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(leg.DepartureTime))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(leg.ArrivalTime))
	binary.LittleEndian.PutUint32(buf[20:24], uint32(trip))
	return buf
}

// EncodePath concatenates EncodeLeg across an entire path, in order.
func EncodePath(p Path) []byte {
	out := make([]byte, 0, len(p.Legs)*24)
	for i := range p.Legs {
		b := EncodeLeg(p, i)
		out = append(out, b[:]...)
	}
	return out
}
