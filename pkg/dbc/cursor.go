package dbc

import (
	"strconv"
	"strings"
)

// delimiter set that terminates a bare numeric or identifier token.
const tokenDelims = " \t\r\n:|@;,)]"

func isDelim(b byte) bool {
	return strings.IndexByte(tokenDelims, b) >= 0
}

// cursor is a positioned, read-only view over an input buffer. It
// never copies the input; every parsed string is copied out into its
// own owned allocation by the caller so the resulting Database does
// not keep the source buffer alive.
type cursor struct {
	buf  []byte
	pos  int
	line int // 1-based
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf, pos: 0, line: 1}
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.buf)
}

func (c *cursor) peekByteAt(offset int) (byte, bool) {
	p := c.pos + offset
	if p < 0 || p >= len(c.buf) {
		return 0, false
	}
	return c.buf[p], true
}

func (c *cursor) startsWith(pattern string) bool {
	if c.pos+len(pattern) > len(c.buf) {
		return false
	}
	return string(c.buf[c.pos:c.pos+len(pattern)]) == pattern
}

// expect consumes pattern exactly, or fails leaving position unchanged.
func (c *cursor) expect(pattern string) error {
	if !c.startsWith(pattern) {
		return newErr(KindExpected, c.line, "expected "+strconv.Quote(pattern))
	}
	c.advance(len(pattern))
	return nil
}

// advance moves pos forward by n bytes, updating the line counter for
// any newlines crossed. \r\n counts as a single newline.
func (c *cursor) advance(n int) {
	for i := 0; i < n; i++ {
		b := c.buf[c.pos]
		if b == '\r' {
			// \r\n counts once; bare \r also counts once, and the
			// following \n (if any) is absorbed without a double count.
			if i+1 < n && c.buf[c.pos+1] == '\n' {
				i++
				c.pos++
			}
			c.line++
		} else if b == '\n' {
			// the \n of a \r\n crossed by an earlier call was already
			// counted with its \r.
			if c.pos == 0 || c.buf[c.pos-1] != '\r' {
				c.line++
			}
		}
		c.pos++
	}
}

// skipWhitespace consumes one-or-more ASCII spaces (not tabs, not
// newlines). Fails with Expected if the current byte is not a space.
func (c *cursor) skipWhitespace() error {
	if b, ok := c.peekByteAt(0); !ok || b != ' ' {
		return newErr(KindExpected, c.line, "expected space")
	}
	for {
		b, ok := c.peekByteAt(0)
		if !ok || b != ' ' {
			return nil
		}
		c.advance(1)
	}
}

// skipNewlinesAndSpaces consumes any mix of space, tab, \n, \r, \r\n.
func (c *cursor) skipNewlinesAndSpaces() {
	for {
		b, ok := c.peekByteAt(0)
		if !ok {
			return
		}
		switch b {
		case ' ', '\t', '\n', '\r':
			c.advance(1)
		default:
			return
		}
	}
}

// skipToEndOfLine consumes through and including one line terminator.
func (c *cursor) skipToEndOfLine() {
	for {
		b, ok := c.peekByteAt(0)
		if !ok {
			return
		}
		if b == '\r' {
			if next, ok := c.peekByteAt(1); ok && next == '\n' {
				c.advance(2)
				return
			}
		}
		if b == '\n' || b == '\r' {
			c.advance(1)
			return
		}
		c.advance(1)
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '_'
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

// parseIdentifier reads [A-Za-z_][A-Za-z0-9_]* terminated by the
// standard delimiter set (or EOF).
func (c *cursor) parseIdentifier() (string, error) {
	start := c.pos
	b, ok := c.peekByteAt(0)
	if !ok {
		return "", newErr(KindUnexpectedEOF, c.line, "expected identifier")
	}
	if isDelim(b) {
		return "", newErr(KindExpected, c.line, "expected identifier")
	}
	if !isIdentStart(b) {
		return "", newErrf(KindInvalidChar, c.line, "invalid identifier start byte %q", b)
	}
	c.advance(1)
	for {
		b, ok := c.peekByteAt(0)
		if !ok || isDelim(b) {
			break
		}
		if !isIdentCont(b) {
			c.pos = start
			return "", newErrf(KindInvalidChar, c.line, "invalid identifier byte %q", b)
		}
		c.advance(1)
	}
	return string(c.buf[start:c.pos]), nil
}

func (c *cursor) parseU8() (uint8, error) {
	start := c.pos
	v, err := c.parseI64()
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 0xFF {
		c.pos = start
		return 0, newErrf(KindExpected, c.line, "value %d out of range for u8", v)
	}
	return uint8(v), nil
}

func (c *cursor) parseU32() (uint32, error) {
	start := c.pos
	v, err := c.parseI64()
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 0xFFFFFFFF {
		c.pos = start
		return 0, newErrf(KindExpected, c.line, "value %d out of range for u32", v)
	}
	return uint32(v), nil
}

// parseI64 does a greedy numeric read with the standard delimiter
// set. On failure position is restored to call entry.
func (c *cursor) parseI64() (int64, error) {
	start := c.pos
	p := c.pos
	if p < len(c.buf) && (c.buf[p] == '+' || c.buf[p] == '-') {
		p++
	}
	digitsStart := p
	for p < len(c.buf) && isDigit(c.buf[p]) {
		p++
	}
	if p == digitsStart {
		c.pos = start
		return 0, newErr(KindExpected, c.line, "expected integer")
	}
	if p < len(c.buf) && !isDelim(c.buf[p]) {
		c.pos = start
		return 0, newErrf(KindInvalidChar, c.line, "invalid integer byte %q", c.buf[p])
	}
	text := string(c.buf[start:p])
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		c.pos = start
		return 0, newErrf(KindExpected, c.line, "invalid integer %q", text)
	}
	c.advance(p - start)
	return v, nil
}

// parseF64 accepts an optional leading sign, digits, an optional '.'
// with more digits, and an optional [eE][+-]?digits exponent.
func (c *cursor) parseF64() (float64, error) {
	start := c.pos
	p := c.pos
	n := len(c.buf)
	if p < n && (c.buf[p] == '+' || c.buf[p] == '-') {
		p++
	}
	digits := 0
	for p < n && isDigit(c.buf[p]) {
		p++
		digits++
	}
	if p < n && c.buf[p] == '.' {
		p++
		for p < n && isDigit(c.buf[p]) {
			p++
			digits++
		}
	}
	if digits == 0 {
		c.pos = start
		return 0, newErr(KindExpected, c.line, "expected float")
	}
	if p < n && (c.buf[p] == 'e' || c.buf[p] == 'E') {
		q := p + 1
		if q < n && (c.buf[q] == '+' || c.buf[q] == '-') {
			q++
		}
		expDigitsStart := q
		for q < n && isDigit(c.buf[q]) {
			q++
		}
		if q > expDigitsStart {
			p = q
		}
	}
	if p < n && !isDelim(c.buf[p]) {
		c.pos = start
		return 0, newErrf(KindInvalidChar, c.line, "invalid float byte %q", c.buf[p])
	}
	text := string(c.buf[start:p])
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		c.pos = start
		return 0, newErrf(KindExpected, c.line, "invalid float %q", text)
	}
	c.advance(p - start)
	return v, nil
}

func isControlByte(b byte) bool {
	return b < 32 || b == 127
}

// takeUntilQuote reads until the next unescaped '"'; the caller has
// already consumed the opening quote. Rejects '\', tab, newlines, and
// any other control byte. If cIdentifier is true the content must
// additionally be a valid C identifier (first char [A-Za-z_], rest
// [A-Za-z0-9_]).
func (c *cursor) takeUntilQuote(cIdentifier bool, maxLen int) (string, error) {
	start := c.pos
	for {
		b, ok := c.peekByteAt(0)
		if !ok {
			c.pos = start
			return "", newErr(KindUnexpectedEOF, c.line, "unterminated string")
		}
		if b == '"' {
			content := string(c.buf[start:c.pos])
			if len(content) > maxLen {
				c.pos = start
				return "", newErrf(KindMaxStrLength, c.line, "string exceeds %d bytes", maxLen)
			}
			if cIdentifier {
				if err := validateCIdentifier(content); err != nil {
					c.pos = start
					return "", newErrf(KindInvalidChar, c.line, "%s is not a valid identifier", strconv.Quote(content))
				}
			}
			c.advance(1) // consume closing quote
			return content, nil
		}
		if b == '\\' || b == '\t' || b == '\n' || b == '\r' || isControlByte(b) {
			c.pos = start
			return "", newErrf(KindInvalidChar, c.line, "invalid byte %q in quoted string", b)
		}
		c.advance(1)
	}
}

func validateCIdentifier(s string) error {
	if s == "" || !isIdentStart(s[0]) {
		return newErr(KindInvalidChar, 0, "empty or invalid identifier")
	}
	for i := 1; i < len(s); i++ {
		if !isIdentCont(s[i]) {
			return newErr(KindInvalidChar, 0, "invalid identifier byte")
		}
	}
	return nil
}

// peekNextKeyword skips leading whitespace/newlines, then tests the
// well-known keyword set longest-first, requiring the byte
// immediately following the candidate to be a separator ({space, tab,
// \n, \r, :} or EOF). Returns the keyword without advancing position.
func (c *cursor) peekNextKeyword() (keyword, error) {
	c.skipNewlinesAndSpaces()
	if c.eof() {
		return kwNone, newErr(KindUnexpectedEOF, c.line, "eof")
	}
	for _, kw := range keywordsLongestFirst {
		text := kw.String()
		if !c.startsWith(text) {
			continue
		}
		next, ok := c.peekByteAt(len(text))
		if !ok || isKeywordSep(next) {
			return kw, nil
		}
	}
	return kwNone, newErrf(KindExpected, c.line, "unrecognized token")
}

func isKeywordSep(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', ':':
		return true
	default:
		return false
	}
}
