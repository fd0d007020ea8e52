package dbc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMotorolaPhysIsSelfInverse(t *testing.T) {
	for k := uint32(0); k < 64; k++ {
		assert.Equal(t, k, motorolaPhys(motorolaPhys(k)), "k=%d", k)
	}
}

func TestBitRangeLittleEndian(t *testing.T) {
	lsb, msb := bitRange(0, 16, LittleEndian)
	assert.Equal(t, uint32(0), lsb)
	assert.Equal(t, uint32(15), msb)

	lsb, msb = bitRange(8, 8, LittleEndian)
	assert.Equal(t, uint32(8), lsb)
	assert.Equal(t, uint32(15), msb)
}

func TestBitRangeBigEndianSingleByte(t *testing.T) {
	// A full byte-0 signal in Motorola convention is conventionally
	// declared with start_bit 7 (the byte's MSB position).
	lsb, msb := bitRange(7, 8, BigEndian)
	assert.Equal(t, uint32(0), lsb)
	assert.Equal(t, uint32(7), msb)
}

func TestBitRangeBigEndianTwoBytes(t *testing.T) {
	// spec.md §8 scenario 5: 7|16@0+ must fill bytes 0 and 1.
	lsb, msb := bitRange(7, 16, BigEndian)
	assert.Equal(t, uint32(0), lsb)
	assert.Equal(t, uint32(15), msb)
}

func TestBitRangeBigEndianSecondByte(t *testing.T) {
	lsb, msb := bitRange(15, 8, BigEndian)
	assert.Equal(t, uint32(8), lsb)
	assert.Equal(t, uint32(15), msb)
}

func TestInBounds(t *testing.T) {
	assert.True(t, inBounds(63, 8))
	assert.False(t, inBounds(64, 8))
	assert.True(t, inBounds(0, 0+1)) // dlc=1, bit 0 fits
	assert.False(t, inBounds(0, 0))  // dlc=0 holds no bits
}

func TestOverlaps(t *testing.T) {
	assert.True(t, overlaps(0, 7, 7, 15))
	assert.True(t, overlaps(0, 15, 4, 8))
	assert.False(t, overlaps(0, 7, 8, 15))
}

func TestBitPositionForWeightMatchesWorkedExample(t *testing.T) {
	// For 7|16@0+, weight 0 (the value's LSB) must land in byte 1's
	// bit 0 and weight 15 (the value's MSB) in byte 0's bit 7 -- the
	// standard big-endian two-byte word layout bytes[0]=high,
	// bytes[1]=low.
	assert.Equal(t, uint32(8), bitPositionForWeight(7, 16, BigEndian, 0))
	assert.Equal(t, uint32(7), bitPositionForWeight(7, 16, BigEndian, 15))
}
