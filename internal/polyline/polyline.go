// Package polyline implements the delta-encoded polyline string format used
// by routing providers: scaled integer coordinates, zigzag sign transform,
// 5-bit chunks biased by 63 with a 0x20 continuation bit.
package polyline

import (
	"math"
	"strings"
)

// DefaultPrecision is the coordinate scaling exponent used by the routing
// provider (polyline6).
const DefaultPrecision = 6

// Point is one lat/lng coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Encode delta-encodes points into a printable ASCII string. Round-trips
// with Decode within 10^-precision per coordinate.
func Encode(points []Point, precision int) string {
	factor := math.Pow10(precision)

	var b strings.Builder
	var prevLat, prevLng int64
	for _, p := range points {
		lat := int64(math.Round(p.Lat * factor))
		lng := int64(math.Round(p.Lng * factor))
		encodeValue(&b, lat-prevLat)
		encodeValue(&b, lng-prevLng)
		prevLat, prevLng = lat, lng
	}
	return b.String()
}

// Decode is the exact inverse of Encode. Empty or truncated input yields the
// points decoded so far; Decode never panics.
func Decode(encoded string, precision int) []Point {
	factor := math.Pow10(precision)

	points := []Point{}
	var lat, lng int64
	i := 0
	for i < len(encoded) {
		dLat, next, ok := decodeValue(encoded, i)
		if !ok {
			break
		}
		dLng, after, ok := decodeValue(encoded, next)
		if !ok {
			break
		}
		lat += dLat
		lng += dLng
		points = append(points, Point{
			Lat: float64(lat) / factor,
			Lng: float64(lng) / factor,
		})
		i = after
	}
	return points
}

// encodeValue writes one zigzag-transformed value as 5-bit chunks.
func encodeValue(b *strings.Builder, v int64) {
	u := v << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		b.WriteByte(byte((0x20 | (u & 0x1f)) + 63))
		u >>= 5
	}
	b.WriteByte(byte(u + 63))
}

// decodeValue reads one value starting at offset i, returning the value, the
// next offset and whether a complete value was present.
func decodeValue(encoded string, i int) (int64, int, bool) {
	var result int64
	var shift uint
	for i < len(encoded) {
		c := int64(encoded[i]) - 63
		i++
		result |= (c & 0x1f) << shift
		if c < 0x20 {
			if result&1 != 0 {
				return ^(result >> 1), i, true
			}
			return result >> 1, i, true
		}
		shift += 5
	}
	return 0, i, false
}
