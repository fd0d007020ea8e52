package dbc

// staging accumulates entities across a single parse pass so that
// cross-references (comments, value descriptions, multiplexing) can
// be resolved once all messages are known. This is the two-phase
// approach spec.md §9 requires: collect during parse, resolve after.
type staging struct {
	version   string
	hasVersion bool

	bitTiming BitTiming

	nodeNames []string

	messages []Message

	// comments pending resolution, in source order.
	dbComment     string
	hasDBComment  bool
	nodeComments  map[string]string
	msgComments   map[uint32]string
	sigComments   []pendingSigComment

	valueDescs []pendingValueDesc

	extMux []ExtendedMultiplexing

	attrDefs   []AttributeDefinition
	attrDefDef []AttributeAssignment // synthetic target-less defaults keyed by Name
	attrAssign []AttributeAssignment
}

type pendingSigComment struct {
	messageID uint32
	signal    string
	text      string
}

type pendingValueDesc struct {
	messageID *uint32
	signal    string
	entries   []ValueDescriptionEntry
}

func newStaging() *staging {
	return &staging{
		nodeComments: map[string]string{},
		msgComments:  map[uint32]string{},
	}
}

// Parse parses a DBC source string into a validated Database.
func Parse(src string) (*Database, error) {
	return ParseBytes([]byte(src))
}

// ParseBytes parses a DBC source buffer into a validated Database.
func ParseBytes(src []byte) (*Database, error) {
	c := newCursor(src)
	st := newStaging()

	for {
		c.skipNewlinesAndSpaces()
		if c.eof() {
			break
		}
		if c.startsWith("//") {
			c.skipToEndOfLine()
			continue
		}
		kw, err := c.peekNextKeyword()
		if err != nil {
			if dbcErr, ok := err.(*Error); ok && dbcErr.Kind == KindUnexpectedEOF {
				break
			}
			// Expected on junk: skip the line and keep going.
			c.skipToEndOfLine()
			continue
		}
		if err := dispatch(c, st, kw); err != nil {
			return nil, err
		}
	}

	return buildDatabase(st)
}

// dispatch consumes one statement, given its already-peeked keyword.
func dispatch(c *cursor, st *staging, kw keyword) error {
	switch kw {
	case kwVersion:
		return parseVersion(c, st)
	case kwNS:
		skipStatement(c, kw)
		return nil
	case kwBS:
		return parseBitTiming(c, st)
	case kwBU:
		return parseNodes(c, st)
	case kwBO:
		return parseMessage(c, st)
	case kwCM:
		return parseComment(c, st)
	case kwVAL:
		return parseValueDescriptions(c, st)
	case kwSGMulVal:
		return parseExtendedMultiplexing(c, st)
	case kwBADEFDEF:
		return parseAttrDefaultDef(c, st)
	case kwBADEF:
		return parseAttrDef(c, st)
	case kwBA:
		return parseAttrAssignment(c, st)
	case kwValTable, kwSigGroup, kwSigValType, kwEV, kwBOTxBU, kwSG:
		// SG_ at top level (outside a BO_ block) is not meaningful;
		// treat it like any other not-yet-implemented/forward
		// statement per the permissive skip policy.
		skipStatement(c, kw)
		return nil
	default:
		skipStatement(c, kw)
		return nil
	}
}

// skipStatement consumes the keyword and the rest of its line.
func skipStatement(c *cursor, kw keyword) {
	_ = c.expect(kw.String())
	c.skipToEndOfLine()
}

func parseVersion(c *cursor, st *staging) error {
	if err := c.expect(kwVersion.String()); err != nil {
		return err
	}
	c.skipNewlinesAndSpaces()
	if err := c.expect("\""); err != nil {
		return newErr(KindVersion, c.line, "expected opening quote")
	}
	s, err := c.takeUntilQuote(false, MaxCommentLength)
	if err != nil {
		return newErrf(KindVersion, c.line, "%v", err)
	}
	st.version = s
	st.hasVersion = true
	return nil
}

func parseBitTiming(c *cursor, st *staging) error {
	if err := c.expect(kwBS.String()); err != nil {
		return err
	}
	if err := c.expect(":"); err != nil {
		return newErr(KindMessage, c.line, "BS_ expected ':'")
	}
	// BS_ is a one-line statement: only spaces and tabs are skipped.
	skipBlanks := func() {
		for {
			b, ok := c.peekByteAt(0)
			if !ok || (b != ' ' && b != '\t') {
				return
			}
			c.advance(1)
		}
	}
	skipBlanks()
	if b, ok := c.peekByteAt(0); !ok || b == '\n' || b == '\r' {
		// empty BS_: line
		c.skipToEndOfLine()
		return nil
	}
	baud, err := c.parseU32()
	if err != nil {
		c.skipToEndOfLine()
		return nil
	}
	st.bitTiming.Baudrate = baud
	skipBlanks()
	if c.startsWith(":") {
		c.advance(1)
		skipBlanks()
		btr1, err1 := c.parseU32()
		if err1 != nil {
			c.skipToEndOfLine()
			return nil
		}
		skipBlanks()
		if err := c.expect(","); err != nil {
			c.skipToEndOfLine()
			return nil
		}
		skipBlanks()
		btr2, err2 := c.parseU32()
		if err2 != nil {
			c.skipToEndOfLine()
			return nil
		}
		st.bitTiming.BTR1 = btr1
		st.bitTiming.BTR2 = btr2
		st.bitTiming.HasBTR12 = true
	}
	c.skipToEndOfLine()
	return nil
}

func parseNodes(c *cursor, st *staging) error {
	if err := c.expect(kwBU.String()); err != nil {
		return err
	}
	if err := c.expect(":"); err != nil {
		return newErr(KindNodes, c.line, "BU_ expected ':'")
	}
	for {
		// node names share the BU_ line: skip spaces and tabs only.
		for {
			b, ok := c.peekByteAt(0)
			if !ok || (b != ' ' && b != '\t') {
				break
			}
			c.advance(1)
		}
		b, ok := c.peekByteAt(0)
		if !ok || b == '\n' || b == '\r' {
			break
		}
		if _, err := c.peekNextKeyword(); err == nil {
			break
		}
		name, err := c.parseIdentifier()
		if err != nil {
			return newErrf(KindNodes, c.line, "%v", err)
		}
		if len(name) > MaxNodeNameLength {
			return newErrf(KindNodes, c.line, "node name %q exceeds max length", name)
		}
		st.nodeNames = append(st.nodeNames, name)
	}
	c.skipToEndOfLine()
	return nil
}
