package regex

// compiler is a one-pass recursive-descent parser with a byte cursor
// into the source. It emits an ordered instruction list and a parallel
// pattern table, in an emit-then-patch style: every
// nondeterministic choice the parser sees (quantifier, alternation,
// character-class membership) compiles down to Split nodes whose
// next/alt fields get patched once the extent of the choice is known.
type compiler struct {
	src          cursor
	instructions []instruction
	patterns     []pattern
	groupCount   int
}

// emit appends an instruction and returns the index it was stored at.
//
// Every opcode except Nil, End and Split defaults its next field to the
// index immediately following itself — plain sequential emission during
// concat compilation is exactly the fallthrough a caller wants, and
// this lets compileConcat chain atoms together without knowing in
// advance where the next one will land. Split's next/alt, and any
// quantifier's patched alt, are always set explicitly by the caller
// once the extent of the branch is known, so the zero default there is
// never observed.
func (c *compiler) emit(ins instruction) uint32 {
	idx := uint32(len(c.instructions))
	switch ins.op {
	case opNil, opEnd, opSplit:
	default:
		if ins.next == 0 {
			ins.next = idx + 1
		}
	}
	c.instructions = append(c.instructions, ins)
	return idx
}

func (c *compiler) emitPattern(p pattern) uint32 {
	c.patterns = append(c.patterns, p)
	return uint32(len(c.patterns) - 1)
}

func (c *compiler) emitMatch(p pattern) uint32 {
	return c.emit(instruction{op: opMatch, arg: c.emitPattern(p)})
}

// len is the index the next emitted instruction will occupy.
func (c *compiler) len() uint32 { return uint32(len(c.instructions)) }

// compileSource runs the full compiler over raw and returns the
// populated compiler (instructions, patterns, groupCount) or a
// CompileError.
func compileSource(raw []byte) (*compiler, error) {
	c := &compiler{src: cursor{src: raw}}
	c.emit(instruction{op: opNil})

	if b, ok := c.src.peek(); ok && b == '^' {
		c.src.pos++
		c.emit(instruction{op: opAssert, arg: uint32(anchorStartLineOrString)})
	}

	if err := c.compileAlternation(); err != nil {
		return nil, err
	}
	if !c.src.atEnd() {
		return nil, newCompileError(UnsupportedClass, c.src.pos, "extraneous characters at the end of pattern")
	}
	c.emit(instruction{op: opEnd})
	return c, nil
}

// compileAlternation implements `alternation := concat ('|' concat)*`.
//
// The instruction set has no explicit unconditional-jump opcode, so the
// merge point after a taken left branch is reached via a Split whose
// next and alt both point at the same target — Split tries next first,
// and if that subtree ever backtracks into this instruction it simply
// tries alt, landing on the identical target. This is the jmp-via-Split
// trick documented in DESIGN.md; it keeps every control-transfer in the
// program expressible with the single Split opcode, exactly as the
// "Split is the sole source of nondeterminism" design note requires.
func (c *compiler) compileAlternation() error {
	splitIdx := c.emit(instruction{op: opSplit})
	leftStart := c.len()
	if err := c.compileConcat(); err != nil {
		return err
	}
	c.instructions[splitIdx].next = leftStart

	b, ok := c.src.peek()
	if !ok || b != '|' {
		c.instructions[splitIdx].alt = 0
		return nil
	}

	jmpIdx := c.emit(instruction{op: opSplit})
	rightStart := c.len()
	c.instructions[splitIdx].alt = rightStart

	c.src.pos++ // consume '|'
	if err := c.compileAlternation(); err != nil {
		return err
	}

	mergePoint := c.len()
	c.instructions[jmpIdx].next = mergePoint
	c.instructions[jmpIdx].alt = mergePoint
	return nil
}

// compileConcat implements `concat := repetition*`.
func (c *compiler) compileConcat() error {
	for {
		b, ok := c.src.peek()
		if !ok || b == '|' || b == ')' {
			return nil
		}
		if err := c.compileRepetition(); err != nil {
			return err
		}
	}
}

// compileRepetition implements `repetition := atom ['+' | '?' | '*']`.
func (c *compiler) compileRepetition() error {
	startIdx := c.len()
	if err := c.compileAtom(); err != nil {
		return err
	}
	return c.applyQuantifier(startIdx)
}

// applyQuantifier patches the atom beginning at startIdx with a trailing
// +, ? or *, per the three patch recipes in the design. startIdx is the
// index of the atom's own leading patchable entry: the Split for a
// character group, the GroupStart for a capture group, or the atom's
// single instruction otherwise — in every case its alt field is still
// its default zero, which is what makes these patches valid.
func (c *compiler) applyQuantifier(startIdx uint32) error {
	b, ok := c.src.peek()
	if !ok {
		return nil
	}
	switch b {
	case '+':
		c.src.pos++
		newIdx := c.len()
		c.emit(instruction{op: opSplit, next: startIdx, alt: newIdx + 1})
	case '?':
		c.src.pos++
		c.instructions[startIdx].alt = c.len()
	case '*':
		c.src.pos++
		splitPos := c.len()
		c.instructions[startIdx].alt = splitPos + 1
		c.emit(instruction{op: opSplit, next: startIdx, alt: splitPos + 1})
	}
	return nil
}

// compileAtom implements
// `atom := escape | char_group | capture | '.' | '$' | literal`.
func (c *compiler) compileAtom() error {
	b, ok := c.src.peek()
	if !ok {
		return newCompileError(UnexpectedEOF, c.src.pos, "expected an atom")
	}
	switch b {
	case '+', '?', '*':
		return newCompileError(MissingRepeatArgument, c.src.pos, "quantifier with nothing to repeat")
	case '.':
		c.src.pos++
		c.emitMatch(funcPattern(isAnyByte))
		return nil
	case '$':
		if c.src.pos+1 != len(c.src.src) {
			return newCompileError(UnsupportedClass, c.src.pos, "'$' is only permitted as the last byte of the pattern")
		}
		c.src.pos++
		c.emit(instruction{op: opAssert, arg: uint32(anchorEndLineOrString)})
		return nil
	case '^':
		return newCompileError(UnsupportedClass, c.src.pos, "'^' is only permitted at the start of the pattern")
	case '[':
		c.src.pos++
		return c.compileCharGroup()
	case '(':
		c.src.pos++
		return c.compileCaptureGroup()
	case '\\':
		c.src.pos++
		_, _, err := c.compileEscape()
		return err
	default:
		c.src.pos++
		c.emitMatch(charPattern(b))
		return nil
	}
}

// compileCaptureGroup implements `capture := '(' alternation ')'`.
func (c *compiler) compileCaptureGroup() error {
	c.groupCount++
	n := c.groupCount

	c.emit(instruction{op: opGroupStart, arg: uint32(n)})
	if err := c.compileAlternation(); err != nil {
		return err
	}
	if !c.src.consume(')') {
		return newCompileError(MissingParen, c.src.pos, "unterminated group")
	}
	c.emit(instruction{op: opGroupEnd, arg: uint32(n)})
	return nil
}

// compileEscape parses a backslash-introduced escape sequence — the
// backslash itself must already be consumed — and emits the
// corresponding instruction(s). It reports whether exactly one literal
// Char pattern was emitted, and that byte, so a caller inside a
// character group can treat the result as a range endpoint.
func (c *compiler) compileEscape() (isLiteralChar bool, litByte byte, err error) {
	b, ok := c.src.next()
	if !ok {
		return false, 0, newCompileError(UnexpectedEOF, c.src.pos, "trailing backslash")
	}

	switch b {
	case 'd':
		c.emitMatch(funcPattern(isDigitByte))
		return false, 0, nil
	case 'w':
		c.emitMatch(funcPattern(isWordByte))
		return false, 0, nil
	case 's':
		c.emitMatch(funcPattern(isSpaceByte))
		return false, 0, nil
	case 't':
		return c.emitLiteralEscape('\t')
	case 'r':
		return c.emitLiteralEscape('\r')
	case 'v':
		return c.emitLiteralEscape('\v')
	case 'f':
		return c.emitLiteralEscape('\f')
	case 'n':
		return c.emitLiteralEscape('\n')
	case 'e':
		return c.emitLiteralEscape(0x1b)
	case '-', '|', '*', '+', '?', '(', ')':
		return c.emitLiteralEscape(b)
	case 'b':
		c.emit(instruction{op: opAssert, arg: uint32(anchorWordBoundary)})
		return false, 0, nil
	case 'B':
		c.emit(instruction{op: opAssert, arg: uint32(anchorNonWordBoundary)})
		return false, 0, nil
	}

	if b >= '1' && b <= '9' {
		n := int(b - '0')
		for {
			nb, nok := c.src.peek()
			if !nok || !isDigitByte(nb) {
				break
			}
			c.src.pos++
			n = n*10 + int(nb-'0')
		}
		if n < 1 || n > c.groupCount {
			return false, 0, newCompileError(InvalidBackReference, c.src.pos, "backreference to a group that has not been declared")
		}
		c.emit(instruction{op: opBackref, arg: uint32(n)})
		return false, 0, nil
	}

	return false, 0, newCompileError(UnexpectedEOF, c.src.pos, "unsupported escape sequence")
}

func (c *compiler) emitLiteralEscape(b byte) (bool, byte, error) {
	c.emitMatch(charPattern(b))
	return true, b, nil
}

// compileClassAtom compiles one item inside a character group using the
// same rule as a top-level atom (escape or literal byte); ranges,
// negation and the enclosing brackets are handled by the caller. It
// reports whether exactly one literal Char pattern was emitted, for the
// caller's range-detection lookahead.
func (c *compiler) compileClassAtom() (isLiteralChar bool, litByte byte, err error) {
	b, _ := c.src.next()
	if b == '\\' {
		return c.compileEscape()
	}
	c.emitMatch(charPattern(b))
	return true, b, nil
}

// compileCharGroup implements
// `char_group := '[' ['^'] (atom_in_group | range)+ ']'`, assuming the
// leading '[' has already been consumed.
//
// The leading Split is the atom's own patchable entry (see
// applyQuantifier); it exists purely so that a trailing quantifier has
// something to rewrite, and is otherwise an unconditional step into the
// class's items.
func (c *compiler) compileCharGroup() error {
	splitIdx := c.emit(instruction{op: opSplit})

	negated := false
	if b, ok := c.src.peek(); ok && b == '^' {
		negated = true
		c.src.pos++
	}

	start := c.len()
	count := 0
	lastWasLiteral := false
	var lastLiteral byte

	for {
		b, ok := c.src.peek()
		if !ok {
			return newCompileError(MissingBracket, c.src.pos, "unterminated character class")
		}
		if b == ']' {
			break
		}

		if lastWasLiteral && b == '-' {
			if after, hasAfter := c.src.peekAt(1); hasAfter && after != ']' {
				c.src.pos++ // consume '-'
				to, _ := c.src.next()
				if lastLiteral > to {
					return newCompileError(InvalidCharRange, c.src.pos, "character range out of order")
				}
				// The most recently emitted Match instruction's pattern
				// upgrades in place from Char to Range; no new
				// instruction is needed.
				lastInst := c.instructions[c.len()-1]
				c.patterns[lastInst.arg] = rangePattern(lastLiteral, to)
				lastWasLiteral = false
				continue
			}
		}

		isLiteral, litByte, err := c.compileClassAtom()
		if err != nil {
			return err
		}
		count++
		lastWasLiteral = isLiteral
		lastLiteral = litByte
	}
	c.src.pos++ // consume ']'
	end := c.len()

	switch {
	case negated:
		for i := start; i < end; i++ {
			c.instructions[i].next = 0
			c.instructions[i].alt = i + 1
		}
		extraIdx := c.emit(instruction{op: opMatch, arg: c.emitPattern(funcPattern(isAnyByte))})
		c.instructions[extraIdx].next = extraIdx + 1
		c.instructions[extraIdx].alt = 0
	case count == 0:
		// An empty, non-negated class can never match; make its Split
		// fail unconditionally instead of falling through to whatever
		// follows it in the program.
		c.instructions[splitIdx].next = 0
		c.instructions[splitIdx].alt = 0
		return nil
	default:
		for i := start; i < end; i++ {
			c.instructions[i].next = end
			c.instructions[i].alt = i + 1
		}
		c.instructions[end-1].alt = 0
	}

	c.instructions[splitIdx].next = start
	c.instructions[splitIdx].alt = 0
	return nil
}
