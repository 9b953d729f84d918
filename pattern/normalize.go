package pattern

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const maxRune = 0x10FFFF

// jsSpace is JavaScript's \s, which is wider than the ASCII-only \s of
// regexp/syntax and regexp2.
var jsSpace = []Range{
	{Lo: '\t', Hi: '\r'},
	{Lo: ' ', Hi: ' '},
	{Lo: 0xa0, Hi: 0xa0},
	{Lo: 0x1680, Hi: 0x1680},
	{Lo: 0x2000, Hi: 0x200a},
	{Lo: 0x2028, Hi: 0x2029},
	{Lo: 0x202f, Hi: 0x202f},
	{Lo: 0x205f, Hi: 0x205f},
	{Lo: 0x3000, Hi: 0x3000},
	{Lo: 0xfeff, Hi: 0xfeff},
}

// jsNonSpace is JavaScript's \S. Spelling it out keeps [^\S] meaning \s
// inside a class, where neither target dialect has a negated member.
var jsNonSpace = invert(jsSpace)

// lineTerminators are the code points JavaScript's dot does not match.
var lineTerminators = []Range{
	{Lo: '\n', Hi: '\n'},
	{Lo: '\r', Hi: '\r'},
	{Lo: 0x2028, Hi: 0x2029},
}

// regexpMeta are the ASCII characters that keep their backslash when an
// escape is rewritten. Other escaped punctuation is emitted bare.
const regexpMeta = `\^$.|?*+()[]{}-`

// dialect selects the regex syntax a rewriter emits.
type dialect uint8

const (
	// goDialect targets regexp/syntax. Constructs the automaton cannot
	// express become empty capture groups recorded as placeholders.
	goDialect dialect = iota

	// ecmaDialect targets regexp2 in ECMAScript mode. Everything is kept,
	// with the character sets regexp2 reads differently spelled out.
	ecmaDialect
)

// rewriter translates a JavaScript regex source into a target dialect
// with the same JavaScript meaning:
//
//	\uXXXX, \u{X...}, \xHH, \cX, \0  ->  code points
//	\s, \S, and the dot                ->  JavaScript sets
//	[^] and []                         ->  any / no code point
//	unknown letter escapes             ->  the letter
//	\1, \k<name>, lookaround           ->  placeholders (goDialect)
//
// Group syntax JavaScript does not have, such as (?i) or (?P<name>, is
// rejected rather than given the target dialect's meaning.
type rewriter struct {
	dialect dialect
	unicode bool
	dotAll  bool

	b            strings.Builder
	caps         int
	placeholders []int
}

func newRewriter(d dialect, f Flags) *rewriter {
	return &rewriter{
		dialect: d,
		unicode: f.Has(Unicode),
		dotAll:  f.Has(DotAll),
	}
}

// normalize rewrites src for regexp/syntax. It returns the capture indexes
// that stand in for backreferences and lookaround.
func normalize(src string, f Flags) (string, []int, error) {
	w := newRewriter(goDialect, f)
	if err := w.rewrite(src); err != nil {
		return "", nil, err
	}
	return w.b.String(), w.placeholders, nil
}

// ECMAScriptSource rewrites a JavaScript regex source into the syntax
// regexp2 accepts with its ECMAScript option, giving it the meaning
// JavaScript gives source under flags f. The dot and \s are spelled out, so
// the result needs no single-line option for the dotAll flag.
func ECMAScriptSource(source string, f Flags) (string, error) {
	w := newRewriter(ecmaDialect, f)
	if err := w.rewrite(source); err != nil {
		return "", err
	}
	return w.b.String(), nil
}

func (w *rewriter) rewrite(src string) error {
	w.b.Grow(len(src))
	inClass := false
	afterSet := false
	for i := 0; i < len(src); {
		c := src[i]
		wasSet := afterSet
		afterSet = false

		switch {
		case c == '\\':
			n, set := w.escape(src, i, inClass)
			afterSet = set && inClass
			i += n
		case inClass:
			switch {
			case c == ']':
				inClass = false
				w.b.WriteByte(c)
			case c == '[':
				w.b.WriteString(`\[`)
			case c == '-' && wasSet:
				// After a set escape the dash is literal in JavaScript
				// but would start an invalid range in either target.
				w.b.WriteString(`\-`)
			default:
				w.b.WriteByte(c)
			}
			i++
		case strings.HasPrefix(src[i:], "[^]"):
			w.writeSet([]Range{{Lo: 0, Hi: maxRune}}, false, false)
			i += 3
		case strings.HasPrefix(src[i:], "[]"):
			w.writeSet([]Range{{Lo: 0, Hi: maxRune}}, false, true)
			i += 2
		case c == '[':
			inClass = true
			w.b.WriteByte(c)
			i++
			// A leading ] or ^] is literal in regexp/syntax but not in
			// JavaScript; the cases above handle the JavaScript meaning.
			if strings.HasPrefix(src[i:], "^") {
				w.b.WriteByte('^')
				i++
			}
		case c == '.':
			w.dot()
			i++
		case c == '(':
			n, err := w.group(src, i)
			if err != nil {
				return err
			}
			i += n
		default:
			w.b.WriteByte(c)
			i++
		}
	}
	return nil
}

// group writes the opening of the group at src[i] and returns the number
// of source bytes consumed.
func (w *rewriter) group(src string, i int) (int, error) {
	rest := src[i:]
	switch {
	case isLookaround(rest):
		if w.dialect == ecmaDialect {
			n := len("(?=")
			if rest[2] == '<' {
				n++
			}
			w.b.WriteString(rest[:n])
			return n, nil
		}
		end := closingParen(src, i)
		if end < 0 {
			// Unbalanced: leave it for the parser to report.
			w.b.WriteString(rest)
			return len(rest), nil
		}
		w.placeholder()
		return end + 1 - i, nil
	case strings.HasPrefix(rest, "(?:"):
		w.b.WriteString("(?:")
		return 3, nil
	case strings.HasPrefix(rest, "(?<"):
		name, ok := groupName(rest[3:])
		if !ok {
			return 0, fmt.Errorf("%w: invalid group name at offset %d", ErrUnsupportedSyntax, i)
		}
		w.caps++
		w.b.WriteString("(?<" + name + ">")
		return len("(?<") + len(name) + 1, nil
	case strings.HasPrefix(rest, "(?"):
		return 0, fmt.Errorf("%w: group %q at offset %d", ErrUnsupportedSyntax, groupPrefix(rest), i)
	default:
		w.caps++
		w.b.WriteByte('(')
		return 1, nil
	}
}

// escape writes the translation of the escape sequence starting at src[i].
// It returns the number of source bytes consumed and whether the escape
// stood for a set rather than a single code point.
func (w *rewriter) escape(src string, i int, inClass bool) (n int, set bool) {
	if i+1 >= len(src) {
		// A trailing backslash is left for the parser to reject.
		w.b.WriteByte('\\')
		return 1, false
	}
	next := src[i+1]
	switch {
	case next == 'u':
		return w.unicodeEscape(src, i), false
	case next == 'x':
		if i+4 <= len(src) && allHex(src[i+2:i+4]) {
			w.writeCode(hexValue(src[i+2 : i+4]))
			return 4, false
		}
		w.b.WriteByte('x')
		return 2, false
	case next == 'c':
		if i+2 < len(src) && isASCIILetter(src[i+2]) {
			w.writeCode(rune(src[i+2] % 32))
			return 3, false
		}
		// Annex B: \c without a control letter is a literal backslash
		// followed by c.
		w.b.WriteString(`\\`)
		return 1, false
	case next == '0' || inClass && isDigit(next):
		// \0 is NUL; Annex B reads other digit escapes in a class, and a
		// zero followed by digits anywhere, as octal.
		r, n := octal(src[i+1:])
		if n == 0 {
			w.b.WriteByte(next)
			return 2, false
		}
		w.writeCode(r)
		return 1 + n, false
	case isDigit(next):
		n := 2
		for i+n < len(src) && isDigit(src[i+n]) {
			n++
		}
		w.backref(src[i : i+n])
		return n, false
	case next == 'k' && !inClass && i+2 < len(src) && src[i+2] == '<':
		if end := strings.IndexByte(src[i+3:], '>'); end > 0 {
			n := 3 + end + 1
			w.backref(src[i : i+n])
			return n, false
		}
		w.b.WriteByte('k')
		return 2, false
	case next == 's':
		w.writeSet(jsSpace, inClass, false)
		return 2, true
	case next == 'S':
		w.writeSet(jsNonSpace, inClass, false)
		return 2, true
	case next == 'b' && inClass:
		w.writeCode('\b')
		return 2, false
	case (next == 'b' || next == 'B') && !inClass:
		w.b.WriteByte('\\')
		w.b.WriteByte(next)
		return 2, false
	case strings.IndexByte("dDwW", next) >= 0:
		w.b.WriteByte('\\')
		w.b.WriteByte(next)
		return 2, true
	case strings.IndexByte("fnrtv", next) >= 0:
		w.b.WriteByte('\\')
		w.b.WriteByte(next)
		return 2, false
	case (next == 'p' || next == 'P') && w.unicode:
		w.b.WriteByte('\\')
		w.b.WriteByte(next)
		return 2, true
	case next >= utf8.RuneSelf:
		_, size := utf8.DecodeRuneInString(src[i+1:])
		w.b.WriteString(src[i+1 : i+1+size])
		return 1 + size, false
	case strings.IndexByte(regexpMeta, next) >= 0:
		w.b.WriteByte('\\')
		w.b.WriteByte(next)
		return 2, false
	default:
		// Identity escape: \z, \Q, \/ and the like are the character itself.
		w.b.WriteByte(next)
		return 2, false
	}
}

func (w *rewriter) unicodeEscape(src string, i int) int {
	if w.unicode && i+2 < len(src) && src[i+2] == '{' {
		end := strings.IndexByte(src[i+3:], '}')
		if end > 0 && end <= 6 && allHex(src[i+3:i+3+end]) {
			if r := hexValue(src[i+3 : i+3+end]); r <= maxRune {
				w.writeCode(r)
				return 3 + end + 1
			}
		}
	}
	if i+6 <= len(src) && allHex(src[i+2:i+6]) {
		r := hexValue(src[i+2 : i+6])
		if utf8.ValidRune(r) || r > 0xdbff {
			w.writeCode(r)
			return 6
		}
		// A high surrogate followed by a low one is a single code point.
		if j := i + 6; j+6 <= len(src) && src[j] == '\\' && src[j+1] == 'u' && allHex(src[j+2:j+6]) {
			if lo := hexValue(src[j+2 : j+6]); lo >= 0xdc00 && lo <= 0xdfff {
				w.writeCode(0x10000 + (r-0xd800)<<10 + (lo - 0xdc00))
				return 12
			}
		}
		w.writeCode(r)
		return 6
	}
	// Annex B: a lone \u is the letter u.
	w.b.WriteByte('u')
	return 2
}

func (w *rewriter) backref(src string) {
	if w.dialect == ecmaDialect {
		w.b.WriteString(src)
		return
	}
	w.placeholder()
}

func (w *rewriter) placeholder() {
	w.caps++
	w.placeholders = append(w.placeholders, w.caps)
	w.b.WriteString("()")
}

func (w *rewriter) dot() {
	switch {
	case w.dialect == goDialect:
		// Parse maps the regexp/syntax dot onto JavaScript's.
		w.b.WriteByte('.')
	case w.dotAll:
		w.writeSet([]Range{{Lo: 0, Hi: maxRune}}, false, false)
	default:
		w.writeSet(lineTerminators, false, true)
	}
}

// writeSet writes ranges as class members when inClass is set, and as a
// bracketed class otherwise.
func (w *rewriter) writeSet(ranges []Range, inClass, negated bool) {
	if !inClass {
		w.b.WriteByte('[')
		if negated {
			w.b.WriteByte('^')
		}
	}
	for _, r := range ranges {
		w.writeCode(r.Lo)
		if r.Hi != r.Lo {
			w.b.WriteByte('-')
			w.writeCode(r.Hi)
		}
	}
	if !inClass {
		w.b.WriteByte(']')
	}
}

// writeCode writes r as an escape both dialects read as that code point.
func (w *rewriter) writeCode(r rune) {
	switch {
	case w.dialect == goDialect:
		writeHexEscape(&w.b, r)
	case r <= 0xffff:
		fmt.Fprintf(&w.b, `\u%04x`, r)
	default:
		// regexp2 reads patterns as runes, so a supplementary code point
		// can stand for itself.
		w.b.WriteRune(r)
	}
}

// invert returns the complement of sorted, non-overlapping ranges.
func invert(ranges []Range) []Range {
	var out []Range
	next := rune(0)
	for _, r := range ranges {
		if r.Lo > next {
			out = append(out, Range{Lo: next, Hi: r.Lo - 1})
		}
		next = r.Hi + 1
	}
	if next <= maxRune {
		out = append(out, Range{Lo: next, Hi: maxRune})
	}
	return out
}

// octal reads up to three octal digits with a value of at most 0o377.
func octal(s string) (r rune, n int) {
	for n < len(s) && n < 3 && '0' <= s[n] && s[n] <= '7' {
		v := r<<3 | rune(s[n]-'0')
		if v > 0o377 {
			break
		}
		r = v
		n++
	}
	return r, n
}

// groupName reads a group name terminated by '>'.
func groupName(s string) (string, bool) {
	end := strings.IndexByte(s, '>')
	if end <= 0 {
		return "", false
	}
	name := s[:end]
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !(isASCIILetter(c) || c == '_' || i > 0 && isDigit(c)) {
			return "", false
		}
	}
	return name, true
}

func groupPrefix(s string) string {
	if len(s) > 4 {
		return s[:4]
	}
	return s
}

func isLookaround(s string) bool {
	return strings.HasPrefix(s, "(?=") || strings.HasPrefix(s, "(?!") ||
		strings.HasPrefix(s, "(?<=") || strings.HasPrefix(s, "(?<!")
}

// closingParen returns the index of the parenthesis closing the group that
// opens at src[open], or -1.
func closingParen(src string, open int) int {
	depth := 0
	inClass := false
	for i := open; i < len(src); i++ {
		switch c := src[i]; {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func allHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

// hexValue parses s, which allHex has accepted.
func hexValue(s string) rune {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || v > maxRune {
		return maxRune + 1
	}
	return rune(v)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isASCIILetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func writeHexEscape(b *strings.Builder, r rune) {
	const digits = "0123456789abcdef"
	b.WriteString(`\x{`)
	if r == 0 {
		b.WriteByte('0')
	}
	var buf [8]byte
	n := len(buf)
	for v := r; v > 0; v >>= 4 {
		n--
		buf[n] = digits[v&0xf]
	}
	b.Write(buf[n:])
	b.WriteByte('}')
}
