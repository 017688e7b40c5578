package namegen

import mathrand "math/rand"

// FixedKey is the XOR key used at the minimal level.
const FixedKey = 42

// RandomKey returns a key in [1, 255].
func RandomKey(r *mathrand.Rand) int {
	return Intn(r, 1, 255)
}

// XOR encodes every byte of data with key.
func XOR(data []byte, key int) []int {
	out := make([]int, len(data))
	for i, b := range data {
		out[i] = int(b) ^ key
	}

	return out
}

// ScheduleLen is the key count for a literal of n bytes: ceil(n/2)+1.
func ScheduleLen(n int) int {
	return (n+1)/2 + 1
}

// NewSchedule draws a key schedule sized for a literal of n bytes.
func NewSchedule(r *mathrand.Rand, n int) []int {
	keys := make([]int, ScheduleLen(n))
	for i := range keys {
		keys[i] = RandomKey(r)
	}

	return keys
}

// Rotation is the additive offset applied to byte i before XOR.
func Rotation(i int) int {
	return i%7 + 1
}

// EncodeRotating encodes byte i as ((b + Rotation(i)) ^ keys[i mod len]) mod 256.
func EncodeRotating(data []byte, keys []int) []int {
	out := make([]int, len(data))
	for i, b := range data {
		out[i] = ((int(b) + Rotation(i)) ^ keys[i%len(keys)]) % 256
	}

	return out
}

// DecodeRotating inverts EncodeRotating.
func DecodeRotating(enc []int, keys []int) []byte {
	out := make([]byte, len(enc))
	for i, v := range enc {
		out[i] = byte(((v ^ keys[i%len(keys)]) - Rotation(i) + 256) % 256)
	}

	return out
}

// Reverse returns a reversed copy of v.
func Reverse(v []int) []int {
	out := make([]int, len(v))
	for i, x := range v {
		out[len(v)-1-i] = x
	}

	return out
}
