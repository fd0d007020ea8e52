package dbc

// parseMessage implements the BO_ grammar from spec.md §4.3:
//
//	BO_ <id> <name> : <dlc> <sender>
//	 SG_ ...
//	 SG_ ...
//
// BO_ is the only multi-line statement: after the header line, we
// loop collecting SG_ statements (disambiguated from SG_MUL_VAL_ by
// the shared longest-first keyword matcher) until a non-SG_ keyword
// or EOF ends the block.
func parseMessage(c *cursor, st *staging) error {
	if err := c.expect(kwBO.String()); err != nil {
		return err
	}
	c.skipNewlinesAndSpaces()
	rawID, err := c.parseU32()
	if err != nil {
		return newErrf(KindMessage, c.line, "%v", err)
	}
	c.skipNewlinesAndSpaces()
	name, err := c.parseIdentifier()
	if err != nil {
		return newErrf(KindMessage, c.line, "%v", err)
	}
	c.skipNewlinesAndSpaces()
	if err := c.expect(":"); err != nil {
		return newErr(KindMessage, c.line, "expected ':'")
	}
	c.skipNewlinesAndSpaces()
	dlc, err := c.parseU8()
	if err != nil {
		return newErrf(KindMessage, c.line, "%v", err)
	}
	c.skipNewlinesAndSpaces()
	sender, err := c.parseIdentifier()
	if err != nil {
		return newErrf(KindMessage, c.line, "%v", err)
	}
	c.skipToEndOfLine()

	var signals []Signal
	for {
		c.skipNewlinesAndSpaces()
		if c.eof() {
			break
		}
		kw, err := c.peekNextKeyword()
		if err != nil {
			break
		}
		if kw != kwSG {
			break
		}
		if len(signals) >= MaxSignalsPerMessage {
			return newErrf(KindValidation, c.line, "message %s exceeds max signals per message (%d)", name, MaxSignalsPerMessage)
		}
		sig, err := parseSignal(c)
		if err != nil {
			return err
		}
		signals = append(signals, sig)
	}

	msg := Message{
		StoredID: rawID, // bit 31, if present in the literal id, is preserved as-is
		Name:     name,
		DLC:      dlc,
		Sender:   sender,
		Signals:  signals,
	}
	st.messages = append(st.messages, msg)
	return nil
}
