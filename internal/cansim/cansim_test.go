package cansim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reneherrero/godbc/pkg/dbc"
)

func buildTwoMessageDB(t *testing.T) *dbc.Database {
	t.Helper()
	sig := dbc.NewSignalBuilder("X", 0, 8, dbc.LittleEndian).Scaling(1, 0)
	msgA := dbc.NewMessageBuilder(0x100, "A").DLC(8).Sender("ECU1").AddSignal(sig)
	msgB := dbc.NewMessageBuilder(0x200, "B").DLC(4).Sender("ECU1")
	d, err := dbc.NewDatabaseBuilder().Node("ECU1", "").AddMessage(msgA).AddMessage(msgB).Build()
	require.NoError(t, err)
	return d
}

func TestGenerateProducesOneFramePerMessagePerCount(t *testing.T) {
	d := buildTwoMessageDB(t)
	batch := Generate(d, 42, 3)
	assert.Len(t, batch.Frames, 6)
	for _, f := range batch.Frames {
		if f.MessageName == "A" {
			assert.Len(t, f.Payload, 8)
		} else {
			assert.Len(t, f.Payload, 4)
		}
	}
}

func TestGenerateIsDeterministicForSameSeed(t *testing.T) {
	d := buildTwoMessageDB(t)
	b1 := Generate(d, 7, 2)
	b2 := Generate(d, 7, 2)
	require.Equal(t, len(b1.Frames), len(b2.Frames))
	for i := range b1.Frames {
		assert.Equal(t, b1.Frames[i].Payload, b2.Frames[i].Payload)
	}
}

func TestGenerateDiffersAcrossSeeds(t *testing.T) {
	d := buildTwoMessageDB(t)
	b1 := Generate(d, 1, 1)
	b2 := Generate(d, 2, 1)
	assert.NotEqual(t, b1.Frames[0].Payload, b2.Frames[0].Payload)
}

func TestGenerateEachBatchGetsAFreshRunID(t *testing.T) {
	d := buildTwoMessageDB(t)
	b1 := Generate(d, 1, 1)
	b2 := Generate(d, 1, 1)
	assert.NotEqual(t, b1.RunID, b2.RunID)
}

func TestGenerateSkipsIndependentSignalsMessage(t *testing.T) {
	msg := dbc.NewMessageBuilder(0, dbc.IndependentSignalsMessageName).DLC(0)
	d, err := dbc.NewDatabaseBuilder().AddMessage(msg).Build()
	require.NoError(t, err)

	batch := Generate(d, 1, 5)
	assert.Empty(t, batch.Frames)
}
