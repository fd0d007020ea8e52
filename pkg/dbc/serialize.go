package dbc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ToDBCString emits a canonical DBC text rendering of the database
// (spec.md §6.2). The output is best-effort pretty-printing; it is not
// byte-identical to whatever source produced the Database, only
// semantically equivalent (parse(serialize(d)) re-parses to an
// equal Database).
func (d *Database) ToDBCString() string {
	var b strings.Builder

	if v, ok := d.Version(); ok {
		fmt.Fprintf(&b, "VERSION %q\n\n", v)
	}

	bt := d.BitTiming()
	if bt.HasBTR12 || bt.Baudrate != 0 {
		fmt.Fprintf(&b, "BS_: %d:%d,%d\n\n", bt.Baudrate, bt.BTR1, bt.BTR2)
	} else {
		b.WriteString("BS_:\n\n")
	}

	names := make([]string, len(d.nodes))
	for i, n := range d.nodes {
		names[i] = n.Name
	}
	fmt.Fprintf(&b, "BU_: %s\n", strings.Join(names, " "))

	for i := range d.messages {
		b.WriteString("\n")
		writeMessage(&b, &d.messages[i])
	}

	writeComments(&b, d)

	return b.String()
}

func writeMessage(b *strings.Builder, m *Message) {
	fmt.Fprintf(b, "BO_ %d %s: %d %s\n", m.RawID()|extendedBit(m), m.Name, m.DLC, m.Sender)
	for i := range m.Signals {
		writeSignal(b, &m.Signals[i])
	}
}

// extendedBit returns the stored id's extended marker bit, preserved
// verbatim through serialization so a round-trip keeps is_extended.
func extendedBit(m *Message) uint32 {
	if m.IsExtended() {
		return extendedIDFlag
	}
	return 0
}

func writeSignal(b *strings.Builder, s *Signal) {
	b.WriteString(" SG_ ")
	b.WriteString(s.Name)
	b.WriteString(muxSuffix(s.Mux))
	b.WriteString(" : ")
	fmt.Fprintf(b, "%d|%d@%d%s", s.StartBit, s.Length, byteOrderDigit(s.ByteOrder), signChar(s.Signedness))
	fmt.Fprintf(b, " (%s,%s)", formatFloat(s.Factor), formatFloat(s.Offset))
	fmt.Fprintf(b, " [%s|%s]", formatFloat(s.Min), formatFloat(s.Max))
	fmt.Fprintf(b, " %q", s.Unit)
	b.WriteString(" ")
	b.WriteString(formatReceivers(s.Receivers))
	b.WriteString("\n")
}

func muxSuffix(m Multiplexer) string {
	switch {
	case m.Kind == MuxSwitch:
		return " M"
	case m.Kind == MuxMultiplexed && m.IsAlsoSwitch:
		return " m" + strconv.FormatUint(m.SwitchValue, 10) + "M"
	case m.Kind == MuxMultiplexed:
		return " m" + strconv.FormatUint(m.SwitchValue, 10)
	default:
		return ""
	}
}

func byteOrderDigit(o ByteOrder) int {
	if o == BigEndian {
		return 0
	}
	return 1
}

func signChar(s Signedness) string {
	if s == Signed {
		return "-"
	}
	return "+"
}

// formatFloat renders a float the way real DBC files do: integral
// values with no trailing ".0" (e.g. "0", not "0.000000").
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatReceivers(r Receivers) string {
	switch r.Kind {
	case ReceiversBroadcast, ReceiversNone:
		return broadcastNode
	default:
		return strings.Join(r.Nodes, ",")
	}
}

// writeComments emits the trailing section: the database comment,
// node comments, then each message's comment followed by its signals'
// comments, then the VAL_, SG_MUL_VAL_ and attribute statements.
func writeComments(b *strings.Builder, d *Database) {
	if c, ok := d.Comment(); ok {
		fmt.Fprintf(b, "\nCM_ %q;\n", c)
	}
	for _, n := range d.nodes {
		if n.Comment != "" {
			fmt.Fprintf(b, "CM_ BU_ %s %q;\n", n.Name, n.Comment)
		}
	}
	for i := range d.messages {
		m := &d.messages[i]
		if m.Comment != "" {
			fmt.Fprintf(b, "CM_ BO_ %d %q;\n", m.RawID()|extendedBit(m), m.Comment)
		}
		for j := range m.Signals {
			s := &m.Signals[j]
			if s.Comment != "" {
				fmt.Fprintf(b, "CM_ SG_ %d %s %q;\n", m.RawID()|extendedBit(m), s.Name, s.Comment)
			}
		}
	}

	writeValueDescriptions(b, d)
	writeExtendedMultiplexing(b, d)
	writeAttributes(b, d)
}

func writeValueDescriptions(b *strings.Builder, d *Database) {
	keys := make([]ValueDescriptionKey, 0, len(d.valueDescriptions))
	for k := range d.valueDescriptions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return valueDescriptionKeyLess(keys[i], keys[j])
	})
	for _, k := range keys {
		entries := d.valueDescriptions[k]
		id := int64(-1)
		if k.MessageID != nil {
			id = int64(*k.MessageID)
		}
		fmt.Fprintf(b, "VAL_ %d %s", id, k.SignalName)
		for _, e := range entries {
			fmt.Fprintf(b, " %d %q", int64(e.RawValue), e.Label)
		}
		b.WriteString(" ;\n")
	}
}

func valueDescriptionKeyLess(a, b ValueDescriptionKey) bool {
	aid, bid := int64(-1), int64(-1)
	if a.MessageID != nil {
		aid = int64(*a.MessageID)
	}
	if b.MessageID != nil {
		bid = int64(*b.MessageID)
	}
	if aid != bid {
		return aid < bid
	}
	return a.SignalName < b.SignalName
}

func writeExtendedMultiplexing(b *strings.Builder, d *Database) {
	for _, em := range d.extMux {
		fmt.Fprintf(b, "SG_MUL_VAL_ %d %s %s ", em.MessageID, em.MultiplexedSignal, em.SwitchSignal)
		parts := make([]string, len(em.Ranges))
		for i, r := range em.Ranges {
			parts[i] = fmt.Sprintf("%d-%d", r.Min, r.Max)
		}
		b.WriteString(strings.Join(parts, ","))
		b.WriteString(";\n")
	}
}

func writeAttributes(b *strings.Builder, d *Database) {
	for _, def := range d.attrDefs {
		fmt.Fprintf(b, "BA_DEF_ %s %q %s", attrTargetPrefix(def.Target), def.Name, attrTypeDecl(def))
		b.WriteString(";\n")
	}
	for name, v := range d.attrDefDef {
		fmt.Fprintf(b, "BA_DEF_DEF_ %q %s;\n", name, formatAttrValue(v))
	}
	for _, a := range d.attrAssign {
		fmt.Fprintf(b, "BA_ %q %s %s;\n", a.Name, attrTargetClause(a.Target), formatAttrValue(a.Value))
	}
}

func attrTargetPrefix(k AttributeTargetKind) string {
	switch k {
	case AttrTargetNode:
		return "BU_"
	case AttrTargetMessage:
		return "BO_"
	case AttrTargetSignal:
		return "SG_"
	default:
		return ""
	}
}

func attrTargetClause(t AttributeTarget) string {
	switch t.Kind {
	case AttrTargetNode:
		return "BU_ " + t.NodeName
	case AttrTargetMessage:
		return fmt.Sprintf("BO_ %d", t.MessageID)
	case AttrTargetSignal:
		return fmt.Sprintf("SG_ %d %s", t.MessageID, t.SignalName)
	default:
		return ""
	}
}

func attrTypeDecl(def AttributeDefinition) string {
	switch def.ValueType {
	case AttrInt:
		return fmt.Sprintf("INT %d %d", def.IntMin, def.IntMax)
	case AttrHex:
		return fmt.Sprintf("HEX %d %d", def.IntMin, def.IntMax)
	case AttrFloat:
		return fmt.Sprintf("FLOAT %s %s", formatFloat(def.FloatMin), formatFloat(def.FloatMax))
	case AttrString:
		return "STRING"
	case AttrEnum:
		quoted := make([]string, len(def.EnumLabels))
		for i, l := range def.EnumLabels {
			quoted[i] = strconv.Quote(l)
		}
		return "ENUM " + strings.Join(quoted, ",")
	default:
		return ""
	}
}

func formatAttrValue(v AttributeValue) string {
	// The value's shape depends on its definition's declared type,
	// which the staging model does not carry alongside the scalar; a
	// best-effort render tries, in order, string, then float, then int.
	if v.StringVal != "" {
		return strconv.Quote(v.StringVal)
	}
	if v.FloatVal != 0 {
		return formatFloat(v.FloatVal)
	}
	return strconv.FormatInt(v.IntVal, 10)
}
