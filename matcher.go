package regex

// capture holds the byte offsets of one capture group. Both fields are
// -1 until the group's GroupStart/GroupEnd instruction has actually
// executed on the winning path; a still -1 field means "group did not
// participate in this match", not "group matched the empty string".
type capture struct {
	start, end int
}

func newCaptures(n int) []capture {
	c := make([]capture, n)
	for i := range c {
		c[i] = capture{start: -1, end: -1}
	}
	return c
}

func cloneCaptures(c []capture) []capture {
	clone := make([]capture, len(c))
	copy(clone, c)
	return clone
}

// maxMatchDepth bounds the recursion depth of matchAt for a single start
// position. depth grows by one for each nested matchAt call on the
// current path; sibling branches do not share it and capture clones do
// not count against it. A path that nests deeper than this (for example
// a very long input consumed one byte per call) reports ErrOutOfMemory
// instead of growing the goroutine stack until it crashes. The total
// work of a catastrophically backtracking pattern is not bounded by it.
const maxMatchDepth = 1 << 20

// matchEngine holds everything matchAt needs that does not change while
// walking one candidate start position: the compiled program, the
// pattern table, the subject bytes and the active Options.
type matchEngine struct {
	instructions []instruction
	patterns     []pattern
	input        []byte
	opts         Options
}

// matchAt attempts to match the program starting at instruction pc
// against e.input beginning at byte offset pos, threading captures
// through by value-of-slice-header so that each branch of a Split (or
// quantifier skip) sees its own independent view: captures is cloned
// immediately before any mutation, never after, so a branch that later
// fails can never have corrupted the sibling branch's view.
//
// It returns the input offset the match ended at and the captures in
// effect at that point.
func (e *matchEngine) matchAt(pc uint32, pos int, captures []capture, depth int) (int, []capture, bool, error) {
	if depth > maxMatchDepth {
		return 0, nil, false, ErrOutOfMemory
	}
	depth++

	ins := e.instructions[pc]
	switch ins.op {
	case opNil:
		return 0, nil, false, nil

	case opEnd:
		return pos, captures, true, nil

	case opSplit:
		nextCaptures := cloneCaptures(captures)
		if end, res, ok, err := e.matchAt(ins.next, pos, nextCaptures, depth); err != nil || ok {
			return end, res, ok, err
		}
		if ins.alt == 0 {
			return 0, nil, false, nil
		}
		return e.matchAt(ins.alt, pos, captures, depth)

	case opMatch:
		if pos < len(e.input) && e.patterns[ins.arg].accepts(e.input[pos], e.opts.IgnoreCase) {
			if ins.next == 0 {
				// An item of a negated class accepted the byte: the class
				// fails instead of trying the remaining items.
				return 0, nil, false, nil
			}
			if end, res, ok, err := e.matchAt(ins.next, pos+1, captures, depth); err != nil || ok {
				return end, res, ok, err
			}
		}
		if ins.alt == 0 {
			return 0, nil, false, nil
		}
		return e.matchAt(ins.alt, pos, captures, depth)

	case opAssert:
		if !e.evalAssert(anchorKind(ins.arg), pos) {
			return 0, nil, false, nil
		}
		return e.matchAt(ins.next, pos, captures, depth)

	case opGroupStart:
		n := int(ins.arg) - 1
		started := cloneCaptures(captures)
		started[n].start = pos
		if end, res, ok, err := e.matchAt(ins.next, pos, started, depth); err != nil || ok {
			return end, res, ok, err
		}
		if ins.alt == 0 {
			return 0, nil, false, nil
		}
		return e.matchAt(ins.alt, pos, captures, depth)

	case opGroupEnd:
		n := int(ins.arg) - 1
		ended := cloneCaptures(captures)
		ended[n].end = pos
		return e.matchAt(ins.next, pos, ended, depth)

	case opBackref:
		n := int(ins.arg) - 1
		if n < len(captures) {
			cap := captures[n]
			if cap.start >= 0 && cap.end >= 0 {
				want := e.input[cap.start:cap.end]
				if pos+len(want) <= len(e.input) && bytesEqual(e.input[pos:pos+len(want)], want, e.opts.IgnoreCase) {
					if end, res, ok, err := e.matchAt(ins.next, pos+len(want), captures, depth); err != nil || ok {
						return end, res, ok, err
					}
				}
			}
		}
		if ins.alt == 0 {
			return 0, nil, false, nil
		}
		return e.matchAt(ins.alt, pos, captures, depth)
	}

	return 0, nil, false, nil
}

func bytesEqual(a, b []byte, ignoreCase bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if ignoreCase {
			if foldByte(a[i]) != foldByte(b[i]) {
				return false
			}
			continue
		}
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// evalAssert reports whether the zero-width assertion kind holds at
// input offset pos.
func (e *matchEngine) evalAssert(kind anchorKind, pos int) bool {
	switch kind {
	case anchorStartLineOrString:
		if pos == 0 {
			return true
		}
		return e.opts.Multiline && e.input[pos-1] == '\n'
	case anchorEndLineOrString:
		if pos == len(e.input) {
			return true
		}
		return e.opts.Multiline && e.input[pos] == '\n'
	case anchorWordBoundary, anchorNonWordBoundary:
		before := pos > 0 && isWordByte(e.input[pos-1])
		after := pos < len(e.input) && isWordByte(e.input[pos])
		boundary := before != after
		if kind == anchorNonWordBoundary {
			return !boundary
		}
		return boundary
	}
	return false
}
