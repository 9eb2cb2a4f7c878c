package brc

import (
	"encoding/binary"
	"math/bits"
)

const (
	swarOnes = 0x0101010101010101
	swarHigh = 0x8080808080808080
)

// NextNewline returns the index of the first '\n' in buf, or -1 if there
// is none. It checks eight bytes per step: XORing a word against a
// newline-broadcast pattern turns matching bytes into zero, and the
// (x-ones)&^x&high trick lights the top bit of every zero byte, so the
// lowest set bit locates the first match. The tail shorter than a word
// falls back to a plain loop. Both paths agree byte for byte.
func NextNewline(buf []byte) int {
	i := 0
	for ; i+8 <= len(buf); i += 8 {
		x := binary.LittleEndian.Uint64(buf[i:]) ^ (swarOnes * uint64(Newline))
		if m := (x - swarOnes) &^ x & swarHigh; m != 0 {
			return i + bits.TrailingZeros64(m)>>3
		}
	}
	for ; i < len(buf); i++ {
		if buf[i] == Newline {
			return i
		}
	}
	return -1
}
