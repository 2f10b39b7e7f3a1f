package regex

// patternKind discriminates the variants of pattern.
type patternKind uint8

const (
	patternChar patternKind = iota
	patternRange
	patternFunc
)

// pattern is a single-byte-level acceptor used by opMatch instructions.
// It is a tagged union: exactly one of the kind-specific fields is
// meaningful, selected by kind.
type pattern struct {
	kind patternKind

	ch byte // patternChar

	from, to byte // patternRange; invariant from <= to, enforced at compile time

	fn func(byte) bool // patternFunc
}

func charPattern(b byte) pattern { return pattern{kind: patternChar, ch: b} }

func rangePattern(from, to byte) pattern {
	return pattern{kind: patternRange, from: from, to: to}
}

func funcPattern(fn func(byte) bool) pattern { return pattern{kind: patternFunc, fn: fn} }

// accepts reports whether p matches b. ignoreCase folds both the input
// byte and the pattern's own bytes to lowercase before comparing; Func
// patterns are unaffected since they already describe the intended
// class (\d \w \s .).
func (p pattern) accepts(b byte, ignoreCase bool) bool {
	switch p.kind {
	case patternChar:
		if ignoreCase {
			return foldByte(b) == foldByte(p.ch)
		}
		return b == p.ch
	case patternRange:
		lo, hi := p.from, p.to
		if ignoreCase {
			b = foldByte(b)
			lo, hi = foldByte(lo), foldByte(hi)
		}
		return lo <= b && b <= hi
	case patternFunc:
		return p.fn(b)
	}
	return false
}

func foldByte(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

func isWordByte(b byte) bool {
	return isDigitByte(b) || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || b == '_'
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isAnyByte(byte) bool { return true }
