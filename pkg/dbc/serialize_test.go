package dbc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDBCStringRoundTripsThroughParse(t *testing.T) {
	sig := NewSignalBuilder("P", 7, 16, BigEndian).Scaling(0.01, 0).Range(0, 655.35).Unit("kPa")
	msg := NewMessageBuilder(0x12C, "Pressure").DLC(8).Sender("ECU1").AddSignal(sig).Comment("pressure frame")
	d, err := NewDatabaseBuilder().
		Version("1.0").
		Node("ECU1", "").
		AddMessage(msg).
		Build()
	require.NoError(t, err)

	text := d.ToDBCString()
	assert.Contains(t, text, `VERSION "1.0"`)
	assert.Contains(t, text, "BU_: ECU1")
	assert.Contains(t, text, "BO_ 300 Pressure: 8 ECU1")
	assert.Contains(t, text, "7|16@0+")
	assert.Contains(t, text, `CM_ BO_ 300 "pressure frame";`)

	d2, err := Parse(text)
	require.NoError(t, err)
	m2, ok := d2.MessageByRawID(0x12C, false)
	require.True(t, ok)
	s2 := m2.SignalByName("P")
	require.NotNil(t, s2)
	assert.Equal(t, uint16(7), s2.StartBit)
	assert.Equal(t, uint16(16), s2.Length)
	assert.Equal(t, BigEndian, s2.ByteOrder)
	assert.InDelta(t, 0.01, s2.Factor, 1e-9)
	assert.Equal(t, "pressure frame", m2.Comment)
}

func TestToDBCStringPreservesExtendedIDBit(t *testing.T) {
	msg := NewMessageBuilder(0x1FFFFFFF, "ExtMsg").Extended(true).DLC(8).Sender("ECU1")
	d, err := NewDatabaseBuilder().Node("ECU1", "").AddMessage(msg).Build()
	require.NoError(t, err)

	text := d.ToDBCString()
	assert.Contains(t, text, "BO_ 2684354559 ExtMsg")

	d2, err := Parse(text)
	require.NoError(t, err)
	m2, ok := d2.MessageByRawID(0x1FFFFFFF, true)
	require.True(t, ok)
	assert.True(t, m2.IsExtended())
}

func TestFormatFloatOmitsTrailingZero(t *testing.T) {
	assert.Equal(t, "0", formatFloat(0))
	assert.Equal(t, "1", formatFloat(1.0))
	assert.Equal(t, "0.25", formatFloat(0.25))
}

func TestFormatReceiversFoldsBroadcastAndNone(t *testing.T) {
	assert.Equal(t, broadcastNode, formatReceivers(Receivers{Kind: ReceiversBroadcast}))
	assert.Equal(t, broadcastNode, formatReceivers(Receivers{Kind: ReceiversNone}))
	assert.Equal(t, "ECU1,ECU2", formatReceivers(Receivers{Kind: ReceiversNodes, Nodes: []string{"ECU1", "ECU2"}}))
}

func TestWriteValueDescriptionsDeterministicOrder(t *testing.T) {
	sig1 := NewSignalBuilder("A", 0, 8, LittleEndian).Scaling(1, 0)
	sig2 := NewSignalBuilder("B", 8, 8, LittleEndian).Scaling(1, 0)
	msg := NewMessageBuilder(0x100, "M").DLC(8).Sender("ECU1").AddSignal(sig1).AddSignal(sig2)
	d, err := NewDatabaseBuilder().
		Node("ECU1", "").
		AddMessage(msg).
		ValueDescription(nil, "B", []ValueDescriptionEntry{{RawValue: 0, Label: "BOff"}}).
		ValueDescription(nil, "A", []ValueDescriptionEntry{{RawValue: 0, Label: "AOff"}}).
		Build()
	require.NoError(t, err)

	text := d.ToDBCString()
	idxA := strings.Index(text, "VAL_ -1 A")
	idxB := strings.Index(text, "VAL_ -1 B")
	require.NotEqual(t, -1, idxA)
	require.NotEqual(t, -1, idxB)
	assert.Less(t, idxA, idxB)
}

func TestWriteExtendedMultiplexingFormat(t *testing.T) {
	sw := NewSignalBuilder("Mode", 0, 8, LittleEndian).Scaling(1, 0)
	x := NewSignalBuilder("X", 8, 8, LittleEndian).Scaling(1, 0)
	msg := NewMessageBuilder(0x100, "M").DLC(8).Sender("ECU1").AddSignal(sw).AddSignal(x)
	d, err := NewDatabaseBuilder().
		Node("ECU1", "").
		AddMessage(msg).
		ExtendedMultiplexing(ExtendedMultiplexing{
			MessageID:         0x100,
			MultiplexedSignal: "X",
			SwitchSignal:      "Mode",
			Ranges:            []ExtendedMultiplexingRange{{Min: 0, Max: 1}, {Min: 5, Max: 7}},
		}).
		Build()
	require.NoError(t, err)

	text := d.ToDBCString()
	assert.Contains(t, text, "SG_MUL_VAL_ 256 X Mode 0-1,5-7;")
}
