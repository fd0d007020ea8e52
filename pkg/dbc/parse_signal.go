package dbc

// parseSignal implements the SG_ grammar from spec.md §4.4:
//
//	SG_ <name> [M | m<u64> [M]] : <start_bit>|<length>@<bo><sign>
//	    (<factor>,<offset>) [<min>|<max>] "<unit>" <receivers>
func parseSignal(c *cursor) (Signal, error) {
	var sig Signal
	if err := c.expect(kwSG.String()); err != nil {
		return sig, err
	}
	c.skipNewlinesAndSpaces()
	name, err := c.parseIdentifier()
	if err != nil {
		return sig, newErrf(KindSignal, c.line, "%v", err)
	}
	sig.Name = name

	c.skipNewlinesAndSpaces()
	mux, err := parseMuxToken(c)
	if err != nil {
		return sig, err
	}
	sig.Mux = mux

	c.skipNewlinesAndSpaces()
	if err := c.expect(":"); err != nil {
		return sig, newErr(KindSignal, c.line, "expected ':'")
	}
	c.skipNewlinesAndSpaces()

	start, err := c.parseU32()
	if err != nil {
		return sig, newErrf(KindSignal, c.line, "%v", err)
	}
	if err := c.expect("|"); err != nil {
		return sig, newErr(KindSignal, c.line, "expected '|'")
	}
	length, err := c.parseU32()
	if err != nil {
		return sig, newErrf(KindSignal, c.line, "%v", err)
	}
	if length < 1 || length > 512 {
		return sig, newErrf(KindSignal, c.line, "signal length %d out of range [1,512]", length)
	}
	if err := c.expect("@"); err != nil {
		return sig, newErr(KindSignal, c.line, "expected '@'")
	}
	boB, ok := c.peekByteAt(0)
	if !ok {
		return sig, newErr(KindUnexpectedEOF, c.line, "expected byte order digit")
	}
	switch boB {
	case '0':
		sig.ByteOrder = BigEndian
	case '1':
		sig.ByteOrder = LittleEndian
	default:
		return sig, newErrf(KindSignal, c.line, "invalid byte order byte %q", boB)
	}
	c.advance(1)
	signB, ok := c.peekByteAt(0)
	if !ok {
		return sig, newErr(KindUnexpectedEOF, c.line, "expected sign")
	}
	switch signB {
	case '+':
		sig.Signedness = Unsigned
	case '-':
		sig.Signedness = Signed
	default:
		return sig, newErrf(KindSignal, c.line, "invalid sign byte %q", signB)
	}
	c.advance(1)
	sig.StartBit = uint16(start)
	sig.Length = uint16(length)

	c.skipNewlinesAndSpaces()
	if err := c.expect("("); err != nil {
		return sig, newErr(KindSignal, c.line, "expected '('")
	}
	factor, err := parseOptionalFloatField(c)
	if err != nil {
		return sig, newErrf(KindSignal, c.line, "%v", err)
	}
	if err := c.expect(","); err != nil {
		return sig, newErr(KindSignal, c.line, "expected ','")
	}
	offset, err := parseOptionalFloatField(c)
	if err != nil {
		return sig, newErrf(KindSignal, c.line, "%v", err)
	}
	if err := c.expect(")"); err != nil {
		return sig, newErr(KindSignal, c.line, "expected ')'")
	}
	sig.Factor = factor
	sig.Offset = offset

	c.skipNewlinesAndSpaces()
	if err := c.expect("["); err != nil {
		return sig, newErr(KindSignal, c.line, "expected '['")
	}
	min, err := parseOptionalFloatField(c)
	if err != nil {
		return sig, newErrf(KindSignal, c.line, "%v", err)
	}
	if err := c.expect("|"); err != nil {
		return sig, newErr(KindSignal, c.line, "expected '|'")
	}
	max, err := parseOptionalFloatField(c)
	if err != nil {
		return sig, newErrf(KindSignal, c.line, "%v", err)
	}
	if err := c.expect("]"); err != nil {
		return sig, newErr(KindSignal, c.line, "expected ']'")
	}
	if min > max {
		return sig, newErrf(KindSignal, c.line, "min %v greater than max %v", min, max)
	}
	sig.Min = min
	sig.Max = max

	c.skipNewlinesAndSpaces()
	if err := c.expect("\""); err != nil {
		return sig, newErr(KindSignal, c.line, "expected opening quote for unit")
	}
	unit, err := c.takeUntilQuote(false, MaxUnitLength)
	if err != nil {
		return sig, newErrf(KindSignal, c.line, "%v", err)
	}
	sig.Unit = unit

	recv, err := parseReceivers(c)
	if err != nil {
		return sig, err
	}
	sig.Receivers = recv

	c.skipToEndOfLine()
	return sig, nil
}

// parseOptionalFloatField parses a float that may be empty
// (whitespace only, meaning 0.0). Assumes the caller has already
// skipped up to the field's starting delimiter.
func parseOptionalFloatField(c *cursor) (float64, error) {
	c.skipNewlinesAndSpaces()
	b, ok := c.peekByteAt(0)
	if ok && (b == ',' || b == ')' || b == '|' || b == ']') {
		return 0.0, nil
	}
	v, err := c.parseF64()
	if err != nil {
		return 0, err
	}
	c.skipNewlinesAndSpaces()
	return v, nil
}

// parseMuxToken recognizes the token pattern: no token (not
// multiplexed), "M" alone (Switch), "m<digits>" (Multiplexed), or
// "m<digits>M" (multiplexed and itself a switch).
func parseMuxToken(c *cursor) (Multiplexer, error) {
	b, ok := c.peekByteAt(0)
	if !ok {
		return Multiplexer{}, newErr(KindUnexpectedEOF, c.line, "unexpected eof in signal")
	}
	switch {
	case b == 'M':
		// Could be the switch marker "M" or the start of an
		// identifier-looking token; "M" alone is always immediately
		// followed by whitespace/':'.
		next, hasNext := c.peekByteAt(1)
		if !hasNext || next == ' ' || next == '\t' || next == ':' {
			c.advance(1)
			return Multiplexer{Kind: MuxSwitch}, nil
		}
		return Multiplexer{}, nil
	case b == 'm':
		start := c.pos
		c.advance(1)
		v, err := c.parseU64Digits()
		if err != nil {
			c.pos = start
			return Multiplexer{}, nil
		}
		mux := Multiplexer{Kind: MuxMultiplexed, SwitchValue: v}
		if b2, ok := c.peekByteAt(0); ok && b2 == 'M' {
			c.advance(1)
			mux.IsAlsoSwitch = true
		}
		return mux, nil
	default:
		return Multiplexer{}, nil
	}
}

// parseU64Digits reads a bare run of decimal digits (no sign), used
// for the m<digits> multiplexer token which has no surrounding
// delimiter before the following 'M' or ':'.
func (c *cursor) parseU64Digits() (uint64, error) {
	start := c.pos
	for {
		b, ok := c.peekByteAt(0)
		if !ok || !isDigit(b) {
			break
		}
		c.advance(1)
	}
	if c.pos == start {
		return 0, newErr(KindExpected, c.line, "expected digits")
	}
	var v uint64
	for _, b := range c.buf[start:c.pos] {
		v = v*10 + uint64(b-'0')
	}
	return v, nil
}

// parseReceivers implements spec.md §4.6: zero or more
// space/tab/comma-separated identifiers terminated by newline/EOF.
func parseReceivers(c *cursor) (Receivers, error) {
	var names []string
	sawStar := false
	for {
		c.skipReceiverSeparators()
		b, ok := c.peekByteAt(0)
		if !ok || b == '\n' || b == '\r' {
			break
		}
		if b == '*' {
			c.advance(1)
			sawStar = true
			continue
		}
		name, err := c.parseIdentifier()
		if err != nil {
			return Receivers{}, newErrf(KindReceivers, c.line, "%v", err)
		}
		names = append(names, name)
	}
	if len(names) == 0 && !sawStar {
		return Receivers{Kind: ReceiversNone}, nil
	}
	if sawStar && len(names) == 0 {
		return Receivers{Kind: ReceiversNone}, nil
	}
	if len(names) == 1 && names[0] == broadcastNode {
		return Receivers{Kind: ReceiversBroadcast}, nil
	}
	return Receivers{Kind: ReceiversNodes, Nodes: names}, nil
}

func (c *cursor) skipReceiverSeparators() {
	for {
		b, ok := c.peekByteAt(0)
		if !ok {
			return
		}
		switch b {
		case ' ', '\t', ',':
			c.advance(1)
		default:
			return
		}
	}
}
