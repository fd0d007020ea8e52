package dbc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseMinimalRoundTrip exercises spec.md §8 scenario 1: a minimal
// database parses, and re-parsing its serialized form yields an
// equivalent database.
func TestParseMinimalRoundTrip(t *testing.T) {
	src := `VERSION "1.0"

BS_:

BU_: ECU1 ECU2

BO_ 256 EngineData: 8 ECU1
 SG_ RPM : 0|16@1+ (0.25,0) [0|16383.75] "rpm" ECU2
`
	d, err := Parse(src)
	require.NoError(t, err)

	v, ok := d.Version()
	require.True(t, ok)
	assert.Equal(t, "1.0", v)
	assert.Len(t, d.Nodes(), 2)
	require.Len(t, d.Messages(), 1)

	m := d.Messages()[0]
	assert.Equal(t, "EngineData", m.Name)
	assert.Equal(t, uint8(8), m.DLC)
	require.Len(t, m.Signals, 1)
	assert.Equal(t, "RPM", m.Signals[0].Name)

	reserialized := d.ToDBCString()
	d2, err := Parse(reserialized)
	require.NoError(t, err)
	assert.Equal(t, d.Messages()[0].Name, d2.Messages()[0].Name)
	assert.Equal(t, d.Messages()[0].Signals[0].StartBit, d2.Messages()[0].Signals[0].StartBit)
}

// TestParseDuplicateIDRejected exercises spec.md §8 scenario 2.
func TestParseDuplicateIDRejected(t *testing.T) {
	src := `BU_: ECU1

BO_ 100 A: 8 ECU1
 SG_ X : 0|8@1+ (1,0) [0|0] "" ECU1

BO_ 100 B: 8 ECU1
 SG_ Y : 0|8@1+ (1,0) [0|0] "" ECU1
`
	_, err := Parse(src)
	require.Error(t, err)
	dbcErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindValidation, dbcErr.Kind)
}

// TestParseSenderNotInNodesRejected exercises spec.md §8 scenario 3.
func TestParseSenderNotInNodesRejected(t *testing.T) {
	src := `BU_: ECU1

BO_ 100 A: 8 GhostECU
 SG_ X : 0|8@1+ (1,0) [0|0] "" ECU1
`
	_, err := Parse(src)
	require.Error(t, err)
}

// TestParseSenderBroadcastAlwaysAllowed confirms Vector__XXX never
// needs to appear in BU_.
func TestParseSenderBroadcastAlwaysAllowed(t *testing.T) {
	src := `BU_: ECU1

BO_ 100 A: 8 Vector__XXX
 SG_ X : 0|8@1+ (1,0) [0|0] "" ECU1
`
	_, err := Parse(src)
	require.NoError(t, err)
}

// TestParseMultiplexingGate exercises spec.md §8 scenario 4: classic
// M/mN tokens parse into the right Multiplexer shape.
func TestParseMultiplexingGate(t *testing.T) {
	src := `BU_: ECU1

BO_ 200 Mux: 8 ECU1
 SG_ Mode M : 0|8@1+ (1,0) [0|0] "" ECU1
 SG_ A m0 : 8|8@1+ (1,0) [0|0] "" ECU1
 SG_ B m1 : 16|8@1+ (1,0) [0|0] "" ECU1
`
	d, err := Parse(src)
	require.NoError(t, err)
	m := d.Messages()[0]
	mode := m.SignalByName("Mode")
	a := m.SignalByName("A")
	b := m.SignalByName("B")
	require.NotNil(t, mode)
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, MuxSwitch, mode.Mux.Kind)
	assert.Equal(t, MuxMultiplexed, a.Mux.Kind)
	assert.Equal(t, uint64(0), a.Mux.SwitchValue)
	assert.Equal(t, uint64(1), b.Mux.SwitchValue)
}

// TestParseBigEndianBitMapping exercises spec.md §8 scenario 5: the
// kPa example parses with the start bit and length taken literally
// (the bit-layout transform only applies at decode/encode/validate
// time, not at parse time).
func TestParseBigEndianBitMapping(t *testing.T) {
	src := `BU_: ECU1

BO_ 300 Pressure: 8 ECU1
 SG_ P : 7|16@0+ (0.01,0) [0|655.35] "kPa" ECU1
`
	d, err := Parse(src)
	require.NoError(t, err)
	s := d.Messages()[0].SignalByName("P")
	require.NotNil(t, s)
	assert.Equal(t, uint16(7), s.StartBit)
	assert.Equal(t, uint16(16), s.Length)
	assert.Equal(t, BigEndian, s.ByteOrder)
	lsb, msb := s.PhysicalRange()
	assert.Equal(t, uint32(0), lsb)
	assert.Equal(t, uint32(15), msb)
}

// TestParseGlobalValueDescriptions exercises spec.md §8 scenario 6:
// VAL_ -1 applies a value table to every signal with a matching name.
func TestParseGlobalValueDescriptions(t *testing.T) {
	src := `BU_: ECU1

BO_ 100 A: 8 ECU1
 SG_ Status : 0|8@1+ (1,0) [0|0] "" ECU1

VAL_ -1 Status 0 "Off" 1 "On" ;
`
	d, err := Parse(src)
	require.NoError(t, err)
	entries, ok := d.ValueDescriptionsFor(100, "Status")
	require.True(t, ok)
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(0), entries[0].RawValue)
	assert.Equal(t, "Off", entries[0].Label)
	assert.Equal(t, uint64(1), entries[1].RawValue)
	assert.Equal(t, "On", entries[1].Label)
}

func TestParseValueDescriptionMinusOneLiteralFoldsToAllOnes(t *testing.T) {
	src := `BU_: ECU1

BO_ 100 A: 8 ECU1
 SG_ Flags : 0|8@1+ (1,0) [0|0] "" ECU1

VAL_ 100 Flags -1 "AllSet" ;
`
	d, err := Parse(src)
	require.NoError(t, err)
	entries, ok := d.ValueDescriptionsFor(100, "Flags")
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(0xFFFFFFFF), entries[0].RawValue)
}

// TestParseDLCZeroIsLegal ensures a zero-length message (no signals)
// parses and validates cleanly.
func TestParseDLCZeroIsLegal(t *testing.T) {
	src := `BU_: ECU1

BO_ 100 Heartbeat: 0 ECU1
`
	d, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), d.Messages()[0].DLC)
}

// TestParse64BitSignalFitsDLC8Exactly ensures a signal spanning an
// entire 8-byte payload is accepted, not rejected as overflowing.
func TestParse64BitSignalFitsDLC8Exactly(t *testing.T) {
	src := `BU_: ECU1

BO_ 100 Wide: 8 ECU1
 SG_ All : 0|64@1+ (1,0) [0|0] "" ECU1
`
	_, err := Parse(src)
	require.NoError(t, err)
}

// TestParseExtendedIDPreservesFlagBit exercises the 0x1FFFFFFF
// extended-id boundary: the literal decimal already carries bit 31,
// and RawID/IsExtended must recover both halves correctly.
func TestParseExtendedIDPreservesFlagBit(t *testing.T) {
	src := `BU_: ECU1

BO_ 2684354559 ExtMsg: 8 ECU1
 SG_ X : 0|8@1+ (1,0) [0|0] "" ECU1
`
	d, err := Parse(src)
	require.NoError(t, err)
	m := d.Messages()[0]
	assert.True(t, m.IsExtended())
	assert.Equal(t, uint32(0x1FFFFFFF), m.RawID())
}

// TestParseReceiversStarFoldsToNone exercises the '*' broadcast
// receiver-list shorthand.
func TestParseReceiversStarFoldsToNone(t *testing.T) {
	src := `BU_: ECU1

BO_ 100 A: 8 ECU1
 SG_ X : 0|8@1+ (1,0) [0|0] "" *
`
	d, err := Parse(src)
	require.NoError(t, err)
	s := d.Messages()[0].SignalByName("X")
	require.NotNil(t, s)
	assert.Equal(t, ReceiversNone, s.Receivers.Kind)
}

func TestParseUnknownLinesAreSkippedLeniently(t *testing.T) {
	src := `BU_: ECU1
NS_ :
 NS_DESC_

BO_ 100 A: 8 ECU1
 SG_ X : 0|8@1+ (1,0) [0|0] "" ECU1
`
	d, err := Parse(src)
	require.NoError(t, err)
	assert.Len(t, d.Messages(), 1)
}
