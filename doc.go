// Package regex implements a byte-oriented regular expression engine: a
// recursive-descent compiler that emits a linear program of typed
// instructions over a shared pattern table, and a backtracking virtual
// machine that executes that program against an input byte slice.
//
// The supported dialect covers alternation, greedy quantifiers (+ ? *),
// character classes with ranges and negation, capture groups,
// backreferences, the ^ and $ anchors, word-boundary assertions (\b \B),
// the class escapes \d \w \s, the control escapes \t \r \v \f \n \e, and
// the escaped metacharacters \- \| \* \+ \? \( \). The engine is
// deliberately backtracking rather than Thompson-NFA/DFA based, operates
// on 8-bit bytes rather than Unicode code points, and does not implement
// lookaround, named groups, non-greedy quantifiers, or {m,n} repetition
// counts.
package regex
