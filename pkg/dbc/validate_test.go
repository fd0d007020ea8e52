package dbc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRejectsSignalOverflowingDLC(t *testing.T) {
	sb := NewSignalBuilder("X", 0, 16, LittleEndian).Scaling(1, 0)
	mb := NewMessageBuilder(0x100, "M").DLC(1).Sender("ECU1").AddSignal(sb)
	_, err := NewDatabaseBuilder().Node("ECU1", "").AddMessage(mb).Build()
	require.Error(t, err)
	dbcErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindValidation, dbcErr.Kind)
}

func TestValidateRejectsOverlappingSignals(t *testing.T) {
	a := NewSignalBuilder("A", 0, 8, LittleEndian).Scaling(1, 0)
	b := NewSignalBuilder("B", 4, 8, LittleEndian).Scaling(1, 0)
	mb := NewMessageBuilder(0x100, "M").DLC(8).Sender("ECU1").AddSignal(a).AddSignal(b)
	_, err := NewDatabaseBuilder().Node("ECU1", "").AddMessage(mb).Build()
	require.Error(t, err)
}

func TestValidateAllowsAdjacentNonOverlappingSignals(t *testing.T) {
	a := NewSignalBuilder("A", 0, 8, LittleEndian).Scaling(1, 0)
	b := NewSignalBuilder("B", 8, 8, LittleEndian).Scaling(1, 0)
	mb := NewMessageBuilder(0x100, "M").DLC(8).Sender("ECU1").AddSignal(a).AddSignal(b)
	_, err := NewDatabaseBuilder().Node("ECU1", "").AddMessage(mb).Build()
	require.NoError(t, err)
}

func TestValidateRejectsDuplicateMessageID(t *testing.T) {
	mb1 := NewMessageBuilder(0x100, "A").DLC(8).Sender("ECU1")
	mb2 := NewMessageBuilder(0x100, "B").DLC(8).Sender("ECU1")
	_, err := NewDatabaseBuilder().Node("ECU1", "").AddMessage(mb1).AddMessage(mb2).Build()
	require.Error(t, err)
}

func TestValidateExtendedAndClassicIDsWithSameRawIDDoNotCollide(t *testing.T) {
	mb1 := NewMessageBuilder(0x100, "Classic").DLC(8).Sender("ECU1")
	mb2 := NewMessageBuilder(0x100, "Extended").Extended(true).DLC(8).Sender("ECU1")
	_, err := NewDatabaseBuilder().Node("ECU1", "").AddMessage(mb1).AddMessage(mb2).Build()
	require.NoError(t, err)
}

func TestValidateRejectsUnknownSender(t *testing.T) {
	mb := NewMessageBuilder(0x100, "A").DLC(8).Sender("Ghost")
	_, err := NewDatabaseBuilder().Node("ECU1", "").AddMessage(mb).Build()
	require.Error(t, err)
}

func TestValidateBroadcastSenderNeverRequiresNodeEntry(t *testing.T) {
	mb := NewMessageBuilder(0x100, "A").DLC(8) // sender defaults to Vector__XXX
	_, err := NewDatabaseBuilder().Node("ECU1", "").AddMessage(mb).Build()
	require.NoError(t, err)
}

func TestValidateSGMulValRejectsUnknownMessage(t *testing.T) {
	_, err := NewDatabaseBuilder().
		Node("ECU1", "").
		ExtendedMultiplexing(ExtendedMultiplexing{
			MessageID:         0xDEAD,
			MultiplexedSignal: "X",
			SwitchSignal:      "Mode",
			Ranges:            []ExtendedMultiplexingRange{{Min: 0, Max: 1}},
		}).
		Build()
	require.Error(t, err)
}

func TestValidateSGMulValRejectsInvertedRange(t *testing.T) {
	sw := NewSignalBuilder("Mode", 0, 8, LittleEndian).Scaling(1, 0)
	mux := NewSignalBuilder("X", 8, 8, LittleEndian).Scaling(1, 0)
	mb := NewMessageBuilder(0x100, "M").DLC(8).Sender("ECU1").AddSignal(sw).AddSignal(mux)
	_, err := NewDatabaseBuilder().
		Node("ECU1", "").
		AddMessage(mb).
		ExtendedMultiplexing(ExtendedMultiplexing{
			MessageID:         0x100,
			MultiplexedSignal: "X",
			SwitchSignal:      "Mode",
			Ranges:            []ExtendedMultiplexingRange{{Min: 5, Max: 1}},
		}).
		Build()
	require.Error(t, err)
}

func TestValidateCMBUReferencingUnknownNodeRejected(t *testing.T) {
	src := `BU_: ECU1

CM_ BU_ GhostNode "orphan comment";
`
	_, err := Parse(src)
	require.Error(t, err)
}
