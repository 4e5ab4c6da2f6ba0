package utils

import (
	"encoding/binary"
	"math"

	"github.com/spaolacci/murmur3"
)

func GetMurMurHash(key string) int32 {
	h := murmur3.New32()
	h.Write([]byte(key))
	return int32(h.Sum32() - math.MaxUint32 - 1)
}

// IsEnabledForKey buckets key into [0, 100) by its murmur hash and reports whether the
// bucket falls under percentage. The same key always lands in the same bucket.
func IsEnabledForKey(key string, percentage int) bool {
	if percentage <= 0 {
		return false
	}
	if percentage >= 100 {
		return true
	}
	hashValue := GetMurMurHash(key)
	return (int(math.Abs(float64(hashValue))))%100 < percentage
}

// HashFloats returns a 16 byte murmur3 digest of prefix followed by the IEEE-754 bits
// of values.
func HashFloats(prefix string, values []float64) []byte {
	buf := make([]byte, 0, len(prefix)+8*len(values))
	buf = append(buf, prefix...)
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	h1, h2 := murmur3.Sum128(buf)
	key := make([]byte, 16)
	binary.LittleEndian.PutUint64(key[:8], h1)
	binary.LittleEndian.PutUint64(key[8:], h2)
	return key
}
