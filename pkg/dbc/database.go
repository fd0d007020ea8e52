package dbc

// Database is the root aggregate produced by Parse/ParseBytes or by
// DatabaseBuilder.Build. It is immutable after construction; indices
// are private derived state rebuilt at construction time.
type Database struct {
	version    string
	hasVersion bool
	bitTiming  BitTiming

	nodes []Node

	messages []Message

	dbComment    string
	hasDBComment bool

	valueDescriptions map[ValueDescriptionKey][]ValueDescriptionEntry

	extMux []ExtendedMultiplexing

	attrDefs   []AttributeDefinition
	attrDefDef map[string]AttributeValue
	attrAssign []AttributeAssignment

	msgIndex    map[uint32]int
	extMuxIndex map[extMuxKey][]int
}

type extMuxKey struct {
	messageID uint32
	signal    string
}

func (d *Database) Version() (string, bool) { return d.version, d.hasVersion }
func (d *Database) BitTiming() BitTiming     { return d.bitTiming }
func (d *Database) Nodes() []Node           { return d.nodes }
func (d *Database) Messages() []Message     { return d.messages }
func (d *Database) Comment() (string, bool) { return d.dbComment, d.hasDBComment }
func (d *Database) ExtendedMultiplexing() []ExtendedMultiplexing { return d.extMux }
func (d *Database) AttributeDefinitions() []AttributeDefinition { return d.attrDefs }
func (d *Database) AttributeAssignments() []AttributeAssignment { return d.attrAssign }

// MessageByID looks up a message by its stored id (extended flag
// included), using the message-by-id index.
func (d *Database) MessageByID(storedID uint32) (*Message, bool) {
	if i, ok := d.msgIndex[storedID]; ok {
		return &d.messages[i], true
	}
	return nil, false
}

// MessageByRawID resolves by raw id + extended flag, as callers of
// Decode/Encode do.
func (d *Database) MessageByRawID(rawID uint32, extended bool) (*Message, bool) {
	return d.MessageByID(storedID(rawID, extended))
}

// NodeByName looks up a node by name.
func (d *Database) NodeByName(name string) (*Node, bool) {
	for i := range d.nodes {
		if d.nodes[i].Name == name {
			return &d.nodes[i], true
		}
	}
	return nil, false
}

// ValueDescriptionsFor implements the lookup order of spec.md §4.7 /
// §3.1: message-specific first, then the global (nil message id)
// fallback.
func (d *Database) ValueDescriptionsFor(messageID uint32, signalName string) ([]ValueDescriptionEntry, bool) {
	// Specific keys hold a *uint32, so they are matched by the pointed-to
	// id rather than by map lookup.
	for k, entries := range d.valueDescriptions {
		if k.MessageID != nil && *k.MessageID == messageID && k.SignalName == signalName {
			return entries, true
		}
	}
	if entries, ok := d.valueDescriptions[ValueDescriptionKey{MessageID: nil, SignalName: signalName}]; ok {
		return entries, true
	}
	return nil, false
}

// extMuxEntriesFor returns the extended-multiplexing entries for a
// given (message, signal) pair using the derived index. The index is
// built from the same slice, so a key it lacks has no entries and nil
// is returned.
func (d *Database) extMuxEntriesFor(messageID uint32, signalName string) []ExtendedMultiplexing {
	key := extMuxKey{messageID: messageID, signal: signalName}
	if idxs, ok := d.extMuxIndex[key]; ok {
		out := make([]ExtendedMultiplexing, 0, len(idxs))
		for _, i := range idxs {
			out = append(out, d.extMux[i])
		}
		return out
	}
	return nil
}

// AttributeValueFor resolves an attribute's effective value for a
// target: an explicit BA_ assignment if present, otherwise the
// BA_DEF_DEF_ default for that attribute name, if any.
func (d *Database) AttributeValueFor(name string, target AttributeTarget) (AttributeValue, bool) {
	for _, a := range d.attrAssign {
		if a.Name == name && a.Target == target {
			return a.Value, true
		}
	}
	if v, ok := d.attrDefDef[name]; ok {
		return v, true
	}
	return AttributeValue{}, false
}

// buildDatabase resolves cross-references from staging, runs
// validation, and builds the derived indices. No partial Database is
// ever returned on error.
func buildDatabase(st *staging) (*Database, error) {
	d := &Database{
		version:      st.version,
		hasVersion:   st.hasVersion,
		bitTiming:    st.bitTiming,
		dbComment:    st.dbComment,
		hasDBComment: st.hasDBComment,
		messages:     st.messages,
		extMux:       st.extMux,
		attrDefs:     st.attrDefs,
		attrDefDef:   map[string]AttributeValue{},
		attrAssign:   st.attrAssign,
	}
	for _, n := range st.nodeNames {
		d.nodes = append(d.nodes, Node{Name: n, Comment: st.nodeComments[n]})
	}
	for name := range st.nodeComments {
		if _, ok := d.NodeByName(name); !ok {
			return nil, newErrf(KindValidation, 0, "CM_ BU_ references unknown node %q", name)
		}
	}
	for _, def := range st.attrDefDef {
		d.attrDefDef[def.Name] = def.Value
	}

	// apply message/signal comments
	for id, text := range st.msgComments {
		m := findMessage(d.messages, id)
		if m == nil {
			return nil, newErrf(KindValidation, 0, "CM_ BO_ references unknown message %d", id)
		}
		m.Comment = text
	}
	for _, pc := range st.sigComments {
		m := findMessage(d.messages, pc.messageID)
		if m == nil {
			return nil, newErrf(KindValidation, 0, "CM_ SG_ references unknown message %d", pc.messageID)
		}
		sig := m.SignalByName(pc.signal)
		if sig == nil {
			return nil, newErrf(KindValidation, 0, "CM_ SG_ references unknown signal %s in message %d", pc.signal, pc.messageID)
		}
		sig.Comment = pc.text
	}

	// resolve value descriptions
	d.valueDescriptions = map[ValueDescriptionKey][]ValueDescriptionEntry{}
	for _, vd := range st.valueDescs {
		if vd.messageID != nil {
			m := findMessage(d.messages, *vd.messageID)
			if m == nil {
				return nil, newErrf(KindValidation, 0, "VAL_ references unknown message %d", *vd.messageID)
			}
			if m.SignalByName(vd.signal) == nil {
				return nil, newErrf(KindValidation, 0, "VAL_ references unknown signal %s in message %d", vd.signal, *vd.messageID)
			}
			id := *vd.messageID
			d.valueDescriptions[ValueDescriptionKey{MessageID: &id, SignalName: vd.signal}] = vd.entries
		} else {
			if !anyMessageHasSignal(d.messages, vd.signal) {
				return nil, newErrf(KindValidation, 0, "VAL_ -1 references signal %s that exists in no message", vd.signal)
			}
			d.valueDescriptions[ValueDescriptionKey{MessageID: nil, SignalName: vd.signal}] = vd.entries
		}
	}

	if err := validateDatabase(d); err != nil {
		return nil, err
	}

	buildIndices(d)
	return d, nil
}

func findMessage(messages []Message, id uint32) *Message {
	for i := range messages {
		if messages[i].StoredID == id {
			return &messages[i]
		}
	}
	return nil
}

func anyMessageHasSignal(messages []Message, name string) bool {
	for i := range messages {
		if messages[i].SignalByName(name) != nil {
			return true
		}
	}
	return false
}
