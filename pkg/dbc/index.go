package dbc

// buildIndices constructs the derived, private lookup structures
// described in spec.md §4.12. They are rebuilt on every construction
// and are never part of what gets serialized.
func buildIndices(d *Database) {
	d.msgIndex = make(map[uint32]int, len(d.messages))
	for i := range d.messages {
		d.msgIndex[d.messages[i].StoredID] = i
	}

	d.extMuxIndex = make(map[extMuxKey][]int, len(d.extMux))
	for i, em := range d.extMux {
		key := extMuxKey{messageID: em.MessageID, signal: em.MultiplexedSignal}
		d.extMuxIndex[key] = append(d.extMuxIndex[key], i)
	}
}
