// Package cansim generates deterministic, seeded CAN frame payloads
// for every message in a Database. It never touches a real bus; it
// exists purely so dbctool's "-simulate" mode and its tests have
// reproducible synthetic traffic to decode.
package cansim

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/reneherrero/godbc/pkg/dbc"
)

// Frame is one generated payload for a specific message.
type Frame struct {
	MessageName string
	RawID       uint32
	Extended    bool
	Payload     []byte
}

// Batch is a reproducible group of generated frames, tagged with a
// run ID so repeated simulation runs can be told apart in logs.
type Batch struct {
	RunID  uuid.UUID
	Frames []Frame
}

// Generate produces count frames for every non-pseudo message in d,
// using a PRNG seeded from seed so the same (d, seed, count) always
// produces byte-identical output.
func Generate(d *dbc.Database, seed int64, count int) Batch {
	rng := rand.New(rand.NewSource(seed))
	batch := Batch{RunID: uuid.New()}

	for _, m := range d.Messages() {
		if m.IsIndependentSignalsMessage() {
			continue
		}
		for i := 0; i < count; i++ {
			payload := make([]byte, m.DLC)
			rng.Read(payload)
			batch.Frames = append(batch.Frames, Frame{
				MessageName: m.Name,
				RawID:       m.RawID(),
				Extended:    m.IsExtended(),
				Payload:     payload,
			})
		}
	}
	return batch
}
