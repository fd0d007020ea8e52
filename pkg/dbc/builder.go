package dbc

// DatabaseBuilder assembles a Database programmatically. All
// validation is deferred to Build, per spec.md §6.3 and §3.2: a
// builder lets callers construct entities (including standalone
// signals) before the cross-entity invariants can be checked.
type DatabaseBuilder struct {
	st *staging
}

// NewDatabaseBuilder starts an empty builder.
func NewDatabaseBuilder() *DatabaseBuilder {
	return &DatabaseBuilder{st: newStaging()}
}

func (b *DatabaseBuilder) Version(v string) *DatabaseBuilder {
	b.st.version = v
	b.st.hasVersion = true
	return b
}

func (b *DatabaseBuilder) BitTiming(bt BitTiming) *DatabaseBuilder {
	b.st.bitTiming = bt
	return b
}

func (b *DatabaseBuilder) Comment(c string) *DatabaseBuilder {
	b.st.dbComment = c
	b.st.hasDBComment = true
	return b
}

// Node registers a node name, with an optional comment.
func (b *DatabaseBuilder) Node(name string, comment string) *DatabaseBuilder {
	b.st.nodeNames = append(b.st.nodeNames, name)
	if comment != "" {
		b.st.nodeComments[name] = comment
	}
	return b
}

// AddMessage appends a message built by a MessageBuilder.
func (b *DatabaseBuilder) AddMessage(mb *MessageBuilder) *DatabaseBuilder {
	m := mb.build()
	b.st.messages = append(b.st.messages, m)
	if mb.comment != "" {
		b.st.msgComments[m.StoredID] = mb.comment
	}
	for _, sc := range mb.sigComments {
		b.st.sigComments = append(b.st.sigComments, pendingSigComment{
			messageID: m.StoredID,
			signal:    sc.name,
			text:      sc.text,
		})
	}
	return b
}

// ValueDescription registers a VAL_ table for signalName under
// messageID, or globally if messageID is nil.
func (b *DatabaseBuilder) ValueDescription(messageID *uint32, signalName string, entries []ValueDescriptionEntry) *DatabaseBuilder {
	b.st.valueDescs = append(b.st.valueDescs, pendingValueDesc{
		messageID: messageID,
		signal:    signalName,
		entries:   entries,
	})
	return b
}

// ExtendedMultiplexing registers one SG_MUL_VAL_ entry.
func (b *DatabaseBuilder) ExtendedMultiplexing(em ExtendedMultiplexing) *DatabaseBuilder {
	b.st.extMux = append(b.st.extMux, em)
	return b
}

// AttributeDefinition registers one BA_DEF_ declaration.
func (b *DatabaseBuilder) AttributeDefinition(def AttributeDefinition) *DatabaseBuilder {
	b.st.attrDefs = append(b.st.attrDefs, def)
	return b
}

// AttributeDefault registers one BA_DEF_DEF_ default value.
func (b *DatabaseBuilder) AttributeDefault(name string, value AttributeValue) *DatabaseBuilder {
	b.st.attrDefDef = append(b.st.attrDefDef, AttributeAssignment{Name: name, Value: value})
	return b
}

// Attribute registers one BA_ assignment.
func (b *DatabaseBuilder) Attribute(name string, target AttributeTarget, value AttributeValue) *DatabaseBuilder {
	b.st.attrAssign = append(b.st.attrAssign, AttributeAssignment{Name: name, Target: target, Value: value})
	return b
}

// Build resolves cross-references, validates, and indexes, exactly as
// Parse does. No partial Database is ever returned on error.
func (b *DatabaseBuilder) Build() (*Database, error) {
	return buildDatabase(b.st)
}

// MessageBuilder assembles one Message. Signal boundary/overlap
// checks run only when the owning DatabaseBuilder's Build is called.
type MessageBuilder struct {
	id          uint32
	extended    bool
	name        string
	dlc         uint8
	sender      string
	signals     []Signal
	comment     string
	sigComments []struct{ name, text string }
}

// NewMessageBuilder starts a message with the given raw id and name.
func NewMessageBuilder(rawID uint32, name string) *MessageBuilder {
	return &MessageBuilder{id: rawID, name: name, sender: broadcastNode}
}

func (m *MessageBuilder) Extended(extended bool) *MessageBuilder {
	m.extended = extended
	return m
}

func (m *MessageBuilder) DLC(dlc uint8) *MessageBuilder {
	m.dlc = dlc
	return m
}

func (m *MessageBuilder) Sender(name string) *MessageBuilder {
	m.sender = name
	return m
}

func (m *MessageBuilder) Comment(c string) *MessageBuilder {
	m.comment = c
	return m
}

// AddSignal appends a signal built by a SignalBuilder.
func (m *MessageBuilder) AddSignal(sb *SignalBuilder) *MessageBuilder {
	m.signals = append(m.signals, sb.sig)
	if sb.comment != "" {
		m.sigComments = append(m.sigComments, struct{ name, text string }{sb.sig.Name, sb.comment})
	}
	return m
}

func (m *MessageBuilder) build() Message {
	return Message{
		StoredID: storedID(m.id, m.extended),
		Name:     m.name,
		DLC:      m.dlc,
		Sender:   m.sender,
		Signals:  m.signals,
	}
}

// SignalBuilder assembles one Signal. Construction never fails;
// invalid bit layouts surface only when the message (and database)
// containing the signal is built, per spec.md §4.5.
type SignalBuilder struct {
	sig     Signal
	comment string
}

// NewSignalBuilder starts a signal with the given name, bit layout,
// and byte order. Factor defaults to 1.0, matching the DBC grammar's
// implicit default.
func NewSignalBuilder(name string, startBit, length uint16, order ByteOrder) *SignalBuilder {
	return &SignalBuilder{sig: Signal{
		Name:      name,
		StartBit:  startBit,
		Length:    length,
		ByteOrder: order,
		Factor:    1.0,
	}}
}

func (s *SignalBuilder) Signed() *SignalBuilder {
	s.sig.Signedness = Signed
	return s
}

func (s *SignalBuilder) Scaling(factor, offset float64) *SignalBuilder {
	s.sig.Factor = factor
	s.sig.Offset = offset
	return s
}

func (s *SignalBuilder) Range(min, max float64) *SignalBuilder {
	s.sig.Min = min
	s.sig.Max = max
	return s
}

func (s *SignalBuilder) Unit(u string) *SignalBuilder {
	s.sig.Unit = u
	return s
}

func (s *SignalBuilder) Receivers(r Receivers) *SignalBuilder {
	s.sig.Receivers = r
	return s
}

func (s *SignalBuilder) Mux(m Multiplexer) *SignalBuilder {
	s.sig.Mux = m
	return s
}

func (s *SignalBuilder) Comment(c string) *SignalBuilder {
	s.comment = c
	return s
}

// Build returns the assembled Signal. Exposed so a SignalBuilder can
// also be used standalone (spec.md §3.1: "a signal may be built
// standalone") without ever attaching to a message.
func (s *SignalBuilder) Build() Signal {
	return s.sig
}
