package regex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

func mustCompile(t *testing.T, src string, opts Options) *Regex {
	t.Helper()
	re, err := Compile([]byte(src), opts)
	assert.NilError(t, err)
	return re
}

func groupText(input []byte, g Group) string {
	if !g.Valid() {
		return "<nil>"
	}
	return string(input[g.Start:g.End])
}

// assertMatch compiles src, matches it against input, and asserts the
// winning span's text and every capture group's text (or "<nil>" for a
// group that did not participate) equal want.
func assertMatch(t *testing.T, src, input string, want ...string) {
	t.Helper()
	re := mustCompile(t, src, Options{})
	m, ok, err := re.Match([]byte(input))
	assert.NilError(t, err)
	assert.Assert(t, ok, "expected %q to match %q", src, input)

	got := []string{input[m.Start:m.End]}
	for _, g := range m.Groups {
		got = append(got, groupText([]byte(input), g))
	}
	assert.DeepEqual(t, got, want)
}

func assertNoMatch(t *testing.T, src, input string) {
	t.Helper()
	re := mustCompile(t, src, Options{})
	_, ok, err := re.Match([]byte(input))
	assert.NilError(t, err)
	assert.Assert(t, !ok, "expected %q not to match %q", src, input)
}

func TestLiteralsAndConcat(t *testing.T) {
	assertMatch(t, "foo", "foo", "foo")
	assertMatch(t, "foo", "xxfooyy", "foo")
	assertNoMatch(t, "foo", "bar")
	assertMatch(t, "", "anything", "")
}

func TestWildcard(t *testing.T) {
	assertMatch(t, "f.o", "foo", "foo")
	assertMatch(t, "...", "xyz", "xyz")
	assertNoMatch(t, "...", "xy")
}

func TestAnchors(t *testing.T) {
	assertMatch(t, "^foo", "foobar", "foo")
	assertNoMatch(t, "^foo", "barfoo")
	assertMatch(t, "bar$", "foobar", "bar")
	assertNoMatch(t, "bar$", "barfoo")
	assertMatch(t, "^foo$", "foo", "foo")
	assertNoMatch(t, "^foo$", "foobar")
}

func TestMultilineAnchors(t *testing.T) {
	re := mustCompile(t, "^bar", Options{Multiline: true})
	m, ok, err := re.Match([]byte("foo\nbar"))
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Equal(t, m.Start, 4)

	re2 := mustCompile(t, "^bar", Options{})
	_, ok, err = re2.Match([]byte("foo\nbar"))
	assert.NilError(t, err)
	assert.Assert(t, !ok, "without Multiline, ^ only matches at offset 0")
}

func TestQuantifiers(t *testing.T) {
	assertMatch(t, "ab*c", "ac", "ac")
	assertMatch(t, "ab*c", "abbbc", "abbbc")
	assertMatch(t, "ab+c", "abc", "abc")
	assertNoMatch(t, "ab+c", "ac")
	assertMatch(t, "ab?c", "ac", "ac")
	assertMatch(t, "ab?c", "abc", "abc")
	assertNoMatch(t, "ab?c", "abbc")
}

func TestGreedyBacktracking(t *testing.T) {
	// a* must give back characters to let c match.
	assertMatch(t, "a*c", "aaac", "aaac")
	assertMatch(t, "a*ac", "aaac", "aaac")
}

func TestAlternation(t *testing.T) {
	assertMatch(t, "foo|bar", "bar", "bar")
	assertMatch(t, "foo|bar", "foo", "foo")
	assertMatch(t, "(foo|bar)baz", "barbaz", "barbaz", "bar")
	assertMatch(t, "a(b|c|d)e", "ace", "ace", "c")
}

func TestCaptureGroups(t *testing.T) {
	assertMatch(t, "(foo)(bar)", "foobar", "foobar", "foo", "bar")
	assertMatch(t, "(a)(b)?", "a", "a", "a", "<nil>")
	assertMatch(t, "(a+)(b)?", "aab", "aab", "aa", "b")
}

func TestCharacterClasses(t *testing.T) {
	assertMatch(t, "[abc]", "b", "b")
	assertNoMatch(t, "[abc]", "d")
	assertMatch(t, "[a-z]+", "hello", "hello")
	assertMatch(t, "[^a-z]", "9", "9")
	assertNoMatch(t, "[^a-z]", "m")
	assertMatch(t, "[a-zA-Z0-9]+", "Az9", "Az9")
}

func TestEscapes(t *testing.T) {
	assertMatch(t, `\d+`, "42", "42")
	assertMatch(t, `\w+`, "hello_1", "hello_1")
	assertMatch(t, `\s+`, "  \t", "  \t")
	assertMatch(t, `\+`, "+", "+")
	assertMatch(t, `\t`, "\t", "\t")
	assertMatch(t, `[\d]+`, "123", "123")
}

func TestWordBoundary(t *testing.T) {
	assertMatch(t, `\bfoo\b`, "a foo b", "foo")
	assertNoMatch(t, `\bfoo\b`, "afoob")
	assertMatch(t, `\Bfoo`, "afoo", "foo")
	assertNoMatch(t, `\Bfoo`, "a foo")
}

func TestBackreference(t *testing.T) {
	assertMatch(t, `(a+)\1`, "aaaa", "aaaa", "aa")
	assertNoMatch(t, `^(a+)\1$`, "aaa")
	assertMatch(t, `(cat|dog)-\1`, "dog-dog", "dog-dog", "dog")
	assertNoMatch(t, `(cat|dog)-\1`, "dog-cat")
}

func TestIgnoreCase(t *testing.T) {
	re := mustCompile(t, "[a-z]+", Options{IgnoreCase: true})
	m, ok, err := re.Match([]byte("HELLO"))
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Equal(t, string("HELLO"[m.Start:m.End]), "HELLO")
}

func TestEmptyMatchAtEndOfInput(t *testing.T) {
	re := mustCompile(t, "a*", Options{})
	m, ok, err := re.Match(nil)
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Equal(t, m.Start, 0)
	assert.Equal(t, m.End, 0)
}

func TestRecompile(t *testing.T) {
	re := mustCompile(t, "foo", Options{})
	_, ok, _ := re.Match([]byte("foo"))
	assert.Assert(t, ok)

	assert.NilError(t, re.Recompile([]byte("bar"), Options{}))
	_, ok, _ = re.Match([]byte("foo"))
	assert.Assert(t, !ok)
	_, ok, _ = re.Match([]byte("bar"))
	assert.Assert(t, ok)
}

func TestRecompileLeavesRegexUntouchedOnError(t *testing.T) {
	re := mustCompile(t, "foo", Options{})
	err := re.Recompile([]byte("("), Options{})
	assert.ErrorContains(t, err, "unterminated group")

	_, ok, _ := re.Match([]byte("foo"))
	assert.Assert(t, ok, "a failed Recompile must not disturb the previous program")
}

func TestGroupCount(t *testing.T) {
	re := mustCompile(t, "(a)(b(c))", Options{})
	assert.Equal(t, re.GroupCount(), 3)
}

func TestMatchStructure(t *testing.T) {
	re := mustCompile(t, "(a)(b(c))", Options{})
	got, ok, err := re.Match([]byte("abc"))
	assert.NilError(t, err)
	assert.Assert(t, ok)

	want := Match{
		Start: 0,
		End:   3,
		Groups: []Group{
			{Start: 0, End: 1},
			{Start: 1, End: 3},
			{Start: 2, End: 3},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Match mismatch (-want +got):\n%s", diff)
	}
}
