package dbc

// parseComment implements spec.md §4.9's four CM_ forms:
//
//	CM_ "<s>";
//	CM_ BU_ <node> "<s>";
//	CM_ BO_ <id> "<s>";
//	CM_ SG_ <id> <signal> "<s>";
func parseComment(c *cursor, st *staging) error {
	if err := c.expect(kwCM.String()); err != nil {
		return err
	}
	c.skipNewlinesAndSpaces()

	if c.startsWith("BU_") {
		c.advance(3)
		c.skipNewlinesAndSpaces()
		node, err := c.parseIdentifier()
		if err != nil {
			return newErrf(KindMessage, c.line, "CM_ BU_: %v", err)
		}
		text, err := readQuotedComment(c)
		if err != nil {
			return err
		}
		st.nodeComments[node] = text
		return finishStatement(c)
	}
	if c.startsWith("BO_") {
		c.advance(3)
		c.skipNewlinesAndSpaces()
		id, err := c.parseU32()
		if err != nil {
			return newErrf(KindMessage, c.line, "CM_ BO_: %v", err)
		}
		text, err := readQuotedComment(c)
		if err != nil {
			return err
		}
		st.msgComments[id] = text
		return finishStatement(c)
	}
	if c.startsWith("SG_") {
		c.advance(3)
		c.skipNewlinesAndSpaces()
		id, err := c.parseU32()
		if err != nil {
			return newErrf(KindSignal, c.line, "CM_ SG_: %v", err)
		}
		c.skipNewlinesAndSpaces()
		sigName, err := c.parseIdentifier()
		if err != nil {
			return newErrf(KindSignal, c.line, "CM_ SG_: %v", err)
		}
		text, err := readQuotedComment(c)
		if err != nil {
			return err
		}
		st.sigComments = append(st.sigComments, pendingSigComment{messageID: id, signal: sigName, text: text})
		return finishStatement(c)
	}

	// Bare database comment.
	text, err := readQuotedComment(c)
	if err != nil {
		return err
	}
	st.dbComment = text
	st.hasDBComment = true
	return finishStatement(c)
}

func readQuotedComment(c *cursor) (string, error) {
	c.skipNewlinesAndSpaces()
	if err := c.expect("\""); err != nil {
		return "", newErr(KindMessage, c.line, "expected opening quote for comment")
	}
	return c.takeUntilQuote(false, MaxCommentLength)
}

// finishStatement skips to the trailing ';' and then to end of line;
// this is lenient about exact whitespace before the semicolon.
func finishStatement(c *cursor) error {
	c.skipNewlinesAndSpaces()
	if b, ok := c.peekByteAt(0); ok && b == ';' {
		c.advance(1)
	}
	c.skipToEndOfLine()
	return nil
}

// parseValueDescriptions implements spec.md §4.7:
//
//	VAL_ <message_id_or_-1> <signal_name> { <value> "<label>" }+ ;
func parseValueDescriptions(c *cursor, st *staging) error {
	if err := c.expect(kwVAL.String()); err != nil {
		return err
	}
	c.skipNewlinesAndSpaces()
	idRaw, err := c.parseI64()
	if err != nil {
		// malformed VAL_: line-skip, no entry recorded.
		c.skipToEndOfLine()
		return nil
	}
	c.skipNewlinesAndSpaces()
	sigName, err := c.parseIdentifier()
	if err != nil {
		c.skipToEndOfLine()
		return nil
	}

	var entries []ValueDescriptionEntry
	for {
		c.skipNewlinesAndSpaces()
		b, ok := c.peekByteAt(0)
		if !ok || b == ';' {
			break
		}
		v, err := c.parseI64()
		if err != nil {
			c.skipToEndOfLine()
			return nil
		}
		c.skipNewlinesAndSpaces()
		if err := c.expect("\""); err != nil {
			c.skipToEndOfLine()
			return nil
		}
		label, err := c.takeUntilQuote(false, MaxCommentLength)
		if err != nil {
			c.skipToEndOfLine()
			return nil
		}
		entries = append(entries, ValueDescriptionEntry{RawValue: rawValueFromI64(v), Label: label})
	}
	finishStatement(c)

	var key *uint32
	if idRaw != -1 {
		id := uint32(idRaw)
		key = &id
	}
	st.valueDescs = append(st.valueDescs, pendingValueDesc{messageID: key, signal: sigName, entries: entries})
	return nil
}

// rawValueFromI64 reinterprets a parsed signed literal per spec.md
// §4.7: -1 becomes 0xFFFFFFFF, other negatives cast to u64 by two's
// complement (as a 32-bit quantity, matching the DBC convention that
// value-description raw values are 32-bit).
func rawValueFromI64(v int64) uint64 {
	if v == -1 {
		return 0xFFFFFFFF
	}
	if v < 0 {
		return uint64(uint32(int32(v)))
	}
	return uint64(v)
}

// parseExtendedMultiplexing implements spec.md §4.8:
//
//	SG_MUL_VAL_ <message_id> <multiplexed_signal> <switch_signal>
//	            <range>{,<range>} ;
func parseExtendedMultiplexing(c *cursor, st *staging) error {
	if err := c.expect(kwSGMulVal.String()); err != nil {
		return err
	}
	c.skipNewlinesAndSpaces()
	id, err := c.parseU32()
	if err != nil {
		c.skipToEndOfLine()
		return nil
	}
	c.skipNewlinesAndSpaces()
	muxSig, err := c.parseIdentifier()
	if err != nil {
		c.skipToEndOfLine()
		return nil
	}
	c.skipNewlinesAndSpaces()
	swSig, err := c.parseIdentifier()
	if err != nil {
		c.skipToEndOfLine()
		return nil
	}

	var ranges []ExtendedMultiplexingRange
	for {
		c.skipNewlinesAndSpaces()
		lo, err := c.parseU64Digits()
		if err != nil {
			c.skipToEndOfLine()
			return nil
		}
		if err := c.expect("-"); err != nil {
			c.skipToEndOfLine()
			return nil
		}
		hi, err := c.parseU64Digits()
		if err != nil {
			c.skipToEndOfLine()
			return nil
		}
		if lo > hi {
			c.skipToEndOfLine()
			return nil
		}
		ranges = append(ranges, ExtendedMultiplexingRange{Min: lo, Max: hi})
		c.skipNewlinesAndSpaces()
		if b, ok := c.peekByteAt(0); ok && b == ',' {
			c.advance(1)
			continue
		}
		break
	}
	finishStatement(c)

	st.extMux = append(st.extMux, ExtendedMultiplexing{
		MessageID:         id,
		MultiplexedSignal: muxSig,
		SwitchSignal:      swSig,
		Ranges:            ranges,
	})
	return nil
}

// parseAttrDef implements the BA_DEF_ grammar:
//
//	BA_DEF_ [BU_|BO_|SG_] "<name>" <type> [<constraints>] ;
func parseAttrDef(c *cursor, st *staging) error {
	if err := c.expect(kwBADEF.String()); err != nil {
		return err
	}
	c.skipNewlinesAndSpaces()

	target := AttrTargetDatabase
	switch {
	case c.startsWith("BU_"):
		c.advance(3)
		target = AttrTargetNode
	case c.startsWith("BO_"):
		c.advance(3)
		target = AttrTargetMessage
	case c.startsWith("SG_"):
		c.advance(3)
		target = AttrTargetSignal
	}
	c.skipNewlinesAndSpaces()
	if err := c.expect("\""); err != nil {
		c.skipToEndOfLine()
		return nil
	}
	name, err := c.takeUntilQuote(false, MaxCommentLength)
	if err != nil {
		c.skipToEndOfLine()
		return nil
	}
	c.skipNewlinesAndSpaces()
	typeName, err := c.parseIdentifier()
	if err != nil {
		c.skipToEndOfLine()
		return nil
	}

	def := AttributeDefinition{Name: name, Target: target}
	switch typeName {
	case "INT":
		def.ValueType = AttrInt
		c.skipNewlinesAndSpaces()
		lo, _ := c.parseI64()
		c.skipNewlinesAndSpaces()
		hi, _ := c.parseI64()
		def.IntMin, def.IntMax = lo, hi
	case "HEX":
		def.ValueType = AttrHex
		c.skipNewlinesAndSpaces()
		lo, _ := c.parseI64()
		c.skipNewlinesAndSpaces()
		hi, _ := c.parseI64()
		def.IntMin, def.IntMax = lo, hi
	case "FLOAT":
		def.ValueType = AttrFloat
		c.skipNewlinesAndSpaces()
		lo, _ := c.parseF64()
		c.skipNewlinesAndSpaces()
		hi, _ := c.parseF64()
		def.FloatMin, def.FloatMax = lo, hi
	case "STRING":
		def.ValueType = AttrString
	case "ENUM":
		def.ValueType = AttrEnum
		for {
			c.skipNewlinesAndSpaces()
			if b, ok := c.peekByteAt(0); !ok || b == ';' {
				break
			}
			if err := c.expect("\""); err != nil {
				break
			}
			label, err := c.takeUntilQuote(false, MaxCommentLength)
			if err != nil {
				break
			}
			def.EnumLabels = append(def.EnumLabels, label)
			c.skipNewlinesAndSpaces()
			if b, ok := c.peekByteAt(0); ok && b == ',' {
				c.advance(1)
				continue
			}
			break
		}
	}
	finishStatement(c)
	st.attrDefs = append(st.attrDefs, def)
	return nil
}

// parseAttrDefaultDef implements BA_DEF_DEF_ "<name>" <value> ;
func parseAttrDefaultDef(c *cursor, st *staging) error {
	if err := c.expect(kwBADEFDEF.String()); err != nil {
		return err
	}
	assign, ok := parseNamedValue(c)
	finishStatement(c)
	if ok {
		st.attrDefDef = append(st.attrDefDef, assign)
	}
	return nil
}

// parseAttrAssignment implements:
//
//	BA_ "<name>" [BU_ <node>|BO_ <id>|SG_ <id> <sig>] <value> ;
func parseAttrAssignment(c *cursor, st *staging) error {
	if err := c.expect(kwBA.String()); err != nil {
		return err
	}
	c.skipNewlinesAndSpaces()
	if err := c.expect("\""); err != nil {
		c.skipToEndOfLine()
		return nil
	}
	name, err := c.takeUntilQuote(false, MaxCommentLength)
	if err != nil {
		c.skipToEndOfLine()
		return nil
	}

	var target AttributeTarget
	c.skipNewlinesAndSpaces()
	switch {
	case c.startsWith("BU_"):
		c.advance(3)
		c.skipNewlinesAndSpaces()
		node, err := c.parseIdentifier()
		if err != nil {
			c.skipToEndOfLine()
			return nil
		}
		target = AttributeTarget{Kind: AttrTargetNode, NodeName: node}
	case c.startsWith("BO_"):
		c.advance(3)
		c.skipNewlinesAndSpaces()
		id, err := c.parseU32()
		if err != nil {
			c.skipToEndOfLine()
			return nil
		}
		target = AttributeTarget{Kind: AttrTargetMessage, MessageID: id}
	case c.startsWith("SG_"):
		c.advance(3)
		c.skipNewlinesAndSpaces()
		id, err := c.parseU32()
		if err != nil {
			c.skipToEndOfLine()
			return nil
		}
		c.skipNewlinesAndSpaces()
		sig, err := c.parseIdentifier()
		if err != nil {
			c.skipToEndOfLine()
			return nil
		}
		target = AttributeTarget{Kind: AttrTargetSignal, MessageID: id, SignalName: sig}
	default:
		target = AttributeTarget{Kind: AttrTargetDatabase}
	}

	val, err := parseAttrValue(c)
	if err != nil {
		c.skipToEndOfLine()
		return nil
	}
	finishStatement(c)
	st.attrAssign = append(st.attrAssign, AttributeAssignment{Name: name, Target: target, Value: val})
	return nil
}

// parseNamedValue parses "<name>" <value> used by BA_DEF_DEF_, which
// has no target — it always applies to the attribute definition
// itself, so the Target field is left zero.
func parseNamedValue(c *cursor) (AttributeAssignment, bool) {
	c.skipNewlinesAndSpaces()
	if err := c.expect("\""); err != nil {
		return AttributeAssignment{}, false
	}
	name, err := c.takeUntilQuote(false, MaxCommentLength)
	if err != nil {
		return AttributeAssignment{}, false
	}
	val, err := parseAttrValue(c)
	if err != nil {
		return AttributeAssignment{}, false
	}
	return AttributeAssignment{Name: name, Value: val}, true
}

// parseAttrValue parses a quoted string, a float, or an integer --
// whichever the next token looks like -- since BA_DEF_DEF_/BA_ do not
// repeat the declared type inline.
func parseAttrValue(c *cursor) (AttributeValue, error) {
	c.skipNewlinesAndSpaces()
	if b, ok := c.peekByteAt(0); ok && b == '"' {
		c.advance(1)
		s, err := c.takeUntilQuote(false, MaxCommentLength)
		if err != nil {
			return AttributeValue{}, err
		}
		return AttributeValue{StringVal: s}, nil
	}
	start := c.pos
	if f, err := c.parseF64(); err == nil {
		if isIntegralToken(c.buf[start:c.pos]) {
			return AttributeValue{IntVal: int64(f), FloatVal: f}, nil
		}
		return AttributeValue{FloatVal: f}, nil
	}
	return AttributeValue{}, newErr(KindValidation, c.line, "expected attribute value")
}

func isIntegralToken(tok []byte) bool {
	for _, b := range tok {
		if b == '.' || b == 'e' || b == 'E' {
			return false
		}
	}
	return true
}
