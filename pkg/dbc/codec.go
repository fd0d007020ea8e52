package dbc

import "math"

// DecodedSignal is one physical value produced by Decode.
type DecodedSignal struct {
	Name  string
	Value float64
	Unit  string
}

// extractRaw reads a signal's `length` bits out of payload according
// to its declared start bit and byte order, sign-extending if signed.
// Weight i (i=0 is the value's least significant bit) lives at
// bitPositionForWeight(start, length, order, i); for LittleEndian that
// is simply start+i, for BigEndian it follows the Motorola
// reflect-then-walk rule in bitrange.go.
func extractRaw(payload []byte, start, length uint32, order ByteOrder, signed bool) uint64 {
	var raw uint64
	for i := uint32(0); i < length; i++ {
		bitPos := bitPositionForWeight(start, length, order, i)
		byteIdx := bitPos / 8
		bitIdx := bitPos % 8
		if int(byteIdx) >= len(payload) {
			continue
		}
		bit := (payload[byteIdx] >> bitIdx) & 1
		raw |= uint64(bit) << i
	}
	if signed && length < 64 && raw&(1<<(length-1)) != 0 {
		raw |= ^uint64(0) << length
	}
	return raw
}

// mergeRaw OR's the low `length` bits of raw into payload at the
// physical positions extractRaw would read them back from, leaving
// every other bit untouched.
func mergeRaw(payload []byte, start, length uint32, order ByteOrder, raw uint64) {
	for i := uint32(0); i < length; i++ {
		bit := (raw >> i) & 1
		if bit == 0 {
			continue
		}
		bitPos := bitPositionForWeight(start, length, order, i)
		byteIdx := bitPos / 8
		bitIdx := bitPos % 8
		if int(byteIdx) >= len(payload) {
			continue
		}
		payload[byteIdx] |= 1 << bitIdx
	}
}

// physicalFromRaw applies spec.md §4.10's linear scaling, with the
// factor==0 degenerate case resolved per the Open Questions.
func physicalFromRaw(raw uint64, s *Signal) float64 {
	var rawAsNumber float64
	if s.Signedness == Signed {
		rawAsNumber = float64(int64(raw))
	} else {
		rawAsNumber = float64(raw)
	}
	if s.Factor == 0.0 {
		return s.Offset
	}
	return rawAsNumber*s.Factor + s.Offset
}

// switchGate reports whether a multiplexed signal should be emitted,
// given the already-decoded switch value for its message.
func (d *Database) switchGate(m *Message, s *Signal, switchRaw uint64) bool {
	if ext := d.extMuxEntriesFor(m.StoredID, s.Name); len(ext) > 0 {
		for i := range ext {
			if ext[i].InRange(switchRaw) {
				return true
			}
		}
		return false
	}
	return switchRaw == s.Mux.SwitchValue
}

// Decode decodes a raw CAN frame payload into physical signal values,
// honoring multiplexer gating (spec.md §4.10).
func (d *Database) Decode(rawID uint32, payload []byte, extended bool) ([]DecodedSignal, error) {
	m, ok := d.MessageByRawID(rawID, extended)
	if !ok {
		return nil, newErrf(KindEncoding, 0, "no message with id %d (extended=%v)", rawID, extended)
	}

	// First pass: decode every switch signal's raw value so
	// multiplexed signals (possibly depending on a switch that
	// appears later in the signal list) can be gated.
	switchRaw := map[string]uint64{}
	for i := range m.Signals {
		s := &m.Signals[i]
		if s.Mux.Kind == MuxSwitch || s.Mux.IsAlsoSwitch {
			switchRaw[s.Name] = extractRaw(payload, uint32(s.StartBit), uint32(s.Length), s.ByteOrder, false)
		}
	}

	var out []DecodedSignal
	for i := range m.Signals {
		s := &m.Signals[i]
		if s.Mux.Kind == MuxMultiplexed {
			sw, ok := findSwitchForMessage(m)
			if !ok {
				continue
			}
			swVal, ok := switchRaw[sw.Name]
			if !ok {
				continue
			}
			if !d.switchGate(m, s, swVal) {
				continue
			}
		}
		raw := extractRaw(payload, uint32(s.StartBit), uint32(s.Length), s.ByteOrder, s.Signedness == Signed)
		out = append(out, DecodedSignal{
			Name:  s.Name,
			Value: physicalFromRaw(raw, s),
			Unit:  s.Unit,
		})
	}
	return out, nil
}

// findSwitchForMessage returns the message's classic multiplexer
// switch signal, if any. A message has at most one top-level switch
// in the classic (non-extended) scheme.
func findSwitchForMessage(m *Message) (*Signal, bool) {
	for i := range m.Signals {
		if m.Signals[i].Mux.Kind == MuxSwitch || m.Signals[i].Mux.IsAlsoSwitch {
			return &m.Signals[i], true
		}
	}
	return nil, false
}

// NamedValue is one (signal name, physical value) pair passed to
// Encode.
type NamedValue struct {
	Name  string
	Value float64
}

// Encode encodes physical signal values back into a zero-initialized
// payload of length DLC, per spec.md §4.10.
func (d *Database) Encode(rawID uint32, values []NamedValue, extended bool) ([]byte, error) {
	m, ok := d.MessageByRawID(rawID, extended)
	if !ok {
		return nil, newErrf(KindEncoding, 0, "no message with id %d (extended=%v)", rawID, extended)
	}
	payload := make([]byte, m.DLC)
	for _, nv := range values {
		s := m.SignalByName(nv.Name)
		if s == nil {
			return nil, newErrf(KindEncoding, 0, "signal %q not found in message %q", nv.Name, m.Name)
		}
		if s.Min < s.Max && (nv.Value < s.Min || nv.Value > s.Max) {
			return nil, newErrf(KindEncoding, 0, "value %v for signal %q out of range [%v,%v]", nv.Value, nv.Name, s.Min, s.Max)
		}
		raw := rawFromPhysical(nv.Value, s)
		mergeRaw(payload, uint32(s.StartBit), uint32(s.Length), s.ByteOrder, raw)
	}
	return payload, nil
}

// rawFromPhysical inverts physicalFromRaw and clamps to the signal's
// representable range.
func rawFromPhysical(value float64, s *Signal) uint64 {
	if s.Factor == 0.0 {
		return 0
	}
	raw := math.Round((value - s.Offset) / s.Factor)
	length := uint32(s.Length)
	if s.Signedness == Unsigned {
		maxVal := float64(uint64(1)<<length - 1)
		if length >= 64 {
			maxVal = math.MaxUint64
		}
		if raw < 0 {
			raw = 0
		}
		if raw > maxVal {
			raw = maxVal
		}
		return uint64(raw)
	}
	minVal := -float64(int64(1) << (length - 1))
	maxVal := float64(int64(1)<<(length-1)) - 1
	if length >= 64 {
		minVal, maxVal = math.MinInt64, math.MaxInt64
	}
	if raw < minVal {
		raw = minVal
	}
	if raw > maxVal {
		raw = maxVal
	}
	return uint64(int64(raw)) & maskForLength(length)
}

func maskForLength(length uint32) uint64 {
	if length >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << length) - 1
}
