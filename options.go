package regex

// Options controls how a compiled Regex matches.
type Options struct {
	// Multiline makes ^ and $ also match immediately after and before an
	// embedded '\n', not only at the very start and end of the input.
	Multiline bool

	// IgnoreCase folds ASCII letters to lowercase before comparing
	// literal and range patterns. Func patterns (\d \w \s .) are
	// unaffected, since they already describe the intended class.
	IgnoreCase bool
}
