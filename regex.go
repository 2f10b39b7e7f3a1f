package regex

// Group reports the byte range a single capture group matched. A group
// that did not participate in the winning match (for example the
// unmatched side of an alternation, or a quantifier that matched zero
// times) has Start and End both -1.
type Group struct {
	Start, End int
}

// Valid reports whether the group participated in the match.
func (g Group) Valid() bool { return g.Start >= 0 && g.End >= 0 }

// Match describes one successful match of a Regex against a subject.
type Match struct {
	Start, End int
	Groups     []Group
}

// Regex is a compiled pattern ready to match against byte slices. The
// zero value is not usable; construct one with Compile.
type Regex struct {
	source       []byte
	instructions []instruction
	patterns     []pattern
	groupCount   int
	options      Options
}

// Compile parses source and builds a Regex, or returns a *CompileError
// describing the first problem encountered.
func Compile(source []byte, opts Options) (*Regex, error) {
	c, err := compileSource(source)
	if err != nil {
		return nil, err
	}
	return &Regex{
		source:       append([]byte(nil), source...),
		instructions: c.instructions,
		patterns:     c.patterns,
		groupCount:   c.groupCount,
		options:      opts,
	}, nil
}

// Recompile rebuilds r in place from a new source and/or Options,
// leaving r untouched on error. It is not safe to call concurrently
// with a Match call on the same Regex; callers that share a Regex
// across goroutines must synchronize Recompile against in-flight
// Match calls themselves.
func (r *Regex) Recompile(source []byte, opts Options) error {
	c, err := compileSource(source)
	if err != nil {
		return err
	}
	r.source = append([]byte(nil), source...)
	r.instructions = c.instructions
	r.patterns = c.patterns
	r.groupCount = c.groupCount
	r.options = opts
	return nil
}

// GroupCount reports the number of capture groups declared in the
// pattern, not counting the implicit whole-match span.
func (r *Regex) GroupCount() int { return r.groupCount }

// Match scans input for the leftmost position at which the pattern
// matches, trying each start offset from 0 through len(input) in turn
// (an empty-matching pattern like `a*` is therefore permitted to match
// at the very end of input). It returns the winning Match and true, or
// a zero Match and false if no position matches. err is non-nil only
// when the recursion depth limit is exceeded (see ErrOutOfMemory).
func (r *Regex) Match(input []byte) (Match, bool, error) {
	e := &matchEngine{instructions: r.instructions, patterns: r.patterns, input: input, opts: r.options}

	for start := 0; start <= len(input); start++ {
		end, caps, ok, err := e.matchAt(1, start, newCaptures(r.groupCount), 0)
		if err != nil {
			return Match{}, false, err
		}
		if ok {
			groups := make([]Group, r.groupCount)
			for i, c := range caps {
				groups[i] = Group{Start: c.start, End: c.end}
			}
			return Match{Start: start, End: end, Groups: groups}, true, nil
		}
	}
	return Match{}, false, nil
}
