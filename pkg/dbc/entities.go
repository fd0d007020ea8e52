package dbc

// Resource bounds enforced as ordinary validation limits (see
// SPEC_FULL.md §8.4 on the chosen allocation flavor).
const (
	MaxSignalsPerMessage = 64
	MaxNodeNameLength     = 32
	MaxCommentLength      = 4096
	MaxUnitLength         = 128

	// IndependentSignalsMessageName is the VECTOR__INDEPENDENT_SIG_MSG
	// pseudo-message that holds orphan signals not attached to any
	// real frame; it is matched by name, not by a reserved id.
	IndependentSignalsMessageName = "VECTOR__INDEPENDENT_SIG_MSG"

	extendedIDFlag uint32 = 1 << 31

	broadcastNode = "Vector__XXX"
)

// ByteOrder is the DBC signal packing convention.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota // Intel
	BigEndian                    // Motorola
)

// Signedness of a signal's raw value.
type Signedness int

const (
	Unsigned Signedness = iota
	Signed
)

// MultiplexerKind tags a signal's role in classic multiplexing.
type MultiplexerKind int

const (
	MuxNone MultiplexerKind = iota
	MuxSwitch
	MuxMultiplexed
)

// Multiplexer describes a signal's classic multiplexing role. A
// signal may be MuxMultiplexed and still itself be a switch (the
// "m<N>M" form used for extended multiplexing chains); that case is
// represented with Kind == MuxMultiplexed and IsAlsoSwitch == true.
type Multiplexer struct {
	Kind         MultiplexerKind
	SwitchValue  uint64 // valid when Kind == MuxMultiplexed
	IsAlsoSwitch bool
}

// ReceiversKind distinguishes the three receiver-list shapes a signal
// can have.
type ReceiversKind int

const (
	ReceiversNone ReceiversKind = iota
	ReceiversBroadcast
	ReceiversNodes
)

// Receivers holds the parsed receiver list for a signal.
type Receivers struct {
	Kind  ReceiversKind
	Nodes []string // valid when Kind == ReceiversNodes
}

// Signal is one bitfield within a message's payload.
type Signal struct {
	Name       string
	StartBit   uint16
	Length     uint16
	ByteOrder  ByteOrder
	Signedness Signedness
	Factor     float64
	Offset     float64
	Min        float64
	Max        float64
	Unit       string
	Receivers  Receivers
	Mux        Multiplexer
	Comment    string
}

// PhysicalRange returns the inclusive [lsb, msb] physical bit range
// this signal occupies, per the bit-range engine in bitrange.go.
func (s *Signal) PhysicalRange() (lsb, msb uint32) {
	return bitRange(uint32(s.StartBit), uint32(s.Length), s.ByteOrder)
}

// Message is one CAN frame definition.
type Message struct {
	StoredID uint32
	Name     string
	DLC      uint8
	Sender   string
	Signals  []Signal
	Comment  string
}

// RawID masks off the extended-frame marker bit.
func (m *Message) RawID() uint32 {
	return m.StoredID &^ extendedIDFlag
}

// IsExtended reports whether bit 31 of StoredID is set.
func (m *Message) IsExtended() bool {
	return m.StoredID&extendedIDFlag != 0
}

// IsIndependentSignalsMessage reports whether this is the
// VECTOR__INDEPENDENT_SIG_MSG pseudo-message.
func (m *Message) IsIndependentSignalsMessage() bool {
	return m.Name == IndependentSignalsMessageName
}

func storedID(rawID uint32, extended bool) uint32 {
	if extended {
		return rawID | extendedIDFlag
	}
	return rawID
}

// SignalByName returns a pointer into m.Signals, or nil.
func (m *Message) SignalByName(name string) *Signal {
	for i := range m.Signals {
		if m.Signals[i].Name == name {
			return &m.Signals[i]
		}
	}
	return nil
}

// Node is one ECU on the bus.
type Node struct {
	Name    string
	Comment string
}

// BitTiming is opaque metadata, preserved only if non-empty.
type BitTiming struct {
	Baudrate uint32
	BTR1     uint32
	BTR2     uint32
	HasBTR12 bool
}

// ValueDescriptionEntry is one raw-value-to-label pair.
type ValueDescriptionEntry struct {
	RawValue uint64
	Label    string
}

// ValueDescriptionKey is the lookup key for a value-description
// table: a specific message id, or nil for a global entry.
type ValueDescriptionKey struct {
	MessageID *uint32
	SignalName string
}

// ExtendedMultiplexingRange is one [Min, Max] inclusive switch-value
// range for an SG_MUL_VAL_ entry.
type ExtendedMultiplexingRange struct {
	Min, Max uint64
}

// ExtendedMultiplexing records one SG_MUL_VAL_ statement.
type ExtendedMultiplexing struct {
	MessageID          uint32
	MultiplexedSignal  string
	SwitchSignal       string
	Ranges             []ExtendedMultiplexingRange
}

// InRange reports whether v falls in any of the entry's ranges.
func (e *ExtendedMultiplexing) InRange(v uint64) bool {
	for _, r := range e.Ranges {
		if v >= r.Min && v <= r.Max {
			return true
		}
	}
	return false
}

// AttributeValueType is the declared type of an attribute definition.
type AttributeValueType int

const (
	AttrInt AttributeValueType = iota
	AttrHex
	AttrFloat
	AttrString
	AttrEnum
)

// AttributeTargetKind is what kind of entity an attribute definition
// applies to.
type AttributeTargetKind int

const (
	AttrTargetDatabase AttributeTargetKind = iota
	AttrTargetNode
	AttrTargetMessage
	AttrTargetSignal
)

// AttributeDefinition is one BA_DEF_ statement.
type AttributeDefinition struct {
	Name       string
	Target     AttributeTargetKind
	ValueType  AttributeValueType
	IntMin     int64
	IntMax     int64
	FloatMin   float64
	FloatMax   float64
	EnumLabels []string
}

// AttributeValue is a parsed BA_ or BA_DEF_DEF_ scalar.
type AttributeValue struct {
	IntVal    int64
	FloatVal  float64
	StringVal string
	EnumIndex int
}

// AttributeTarget identifies what a BA_ statement is binding a value
// to.
type AttributeTarget struct {
	Kind       AttributeTargetKind
	NodeName   string
	MessageID  uint32
	SignalName string
}

// AttributeAssignment is one BA_ statement: name + target + value.
type AttributeAssignment struct {
	Name   string
	Target AttributeTarget
	Value  AttributeValue
}
