package dbc

// validateDatabase runs the cross-entity checks of spec.md §4.11
// after staging is complete and before the Database is handed out.
func validateDatabase(d *Database) error {
	seenIDs := map[uint32]string{}
	for i := range d.messages {
		m := &d.messages[i]

		if prev, ok := seenIDs[m.StoredID]; ok {
			return newErrf(KindValidation, 0, "duplicate message ID %d (messages %q and %q)", m.StoredID, prev, m.Name)
		}
		seenIDs[m.StoredID] = m.Name

		if len(d.nodes) > 0 && !m.IsIndependentSignalsMessage() {
			if m.Sender != broadcastNode {
				if _, ok := d.NodeByName(m.Sender); !ok {
					return newErrf(KindValidation, 0, "message %q sender %q not in nodes", m.Name, m.Sender)
				}
			}
		}

		if err := validateMessageSignals(m); err != nil {
			return err
		}
	}

	for _, em := range d.extMux {
		m := findMessage(d.messages, em.MessageID)
		if m == nil {
			return newErrf(KindValidation, 0, "SG_MUL_VAL_ references unknown message %d", em.MessageID)
		}
		if m.SignalByName(em.MultiplexedSignal) == nil {
			return newErrf(KindValidation, 0, "SG_MUL_VAL_ references unknown signal %s in message %d", em.MultiplexedSignal, em.MessageID)
		}
		if m.SignalByName(em.SwitchSignal) == nil {
			return newErrf(KindValidation, 0, "SG_MUL_VAL_ references unknown switch signal %s in message %d", em.SwitchSignal, em.MessageID)
		}
		for _, r := range em.Ranges {
			if r.Min > r.Max {
				return newErrf(KindValidation, 0, "SG_MUL_VAL_ range min %d greater than max %d", r.Min, r.Max)
			}
		}
	}

	return nil
}

// validateMessageSignals checks spec.md §4.5's boundary and overlap
// rules for every signal in a message.
func validateMessageSignals(m *Message) error {
	type span struct {
		name     string
		lsb, msb uint32
	}
	var spans []span
	for i := range m.Signals {
		s := &m.Signals[i]
		lsb, msb := s.PhysicalRange()
		if !inBounds(msb, m.DLC) {
			return newErrf(KindValidation, 0, "signal %q in message %q does not fit in DLC %d", s.Name, m.Name, m.DLC)
		}
		for _, other := range spans {
			if overlaps(lsb, msb, other.lsb, other.msb) {
				return newErrf(KindValidation, 0, "signals %q and %q in message %q overlap", s.Name, other.name, m.Name)
			}
		}
		spans = append(spans, span{name: s.Name, lsb: lsb, msb: msb})
	}
	return nil
}
