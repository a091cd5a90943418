package compile

// ParseError is returned when compilation fails due to unbalanced loop
// brackets — the only malformed-program condition the streaming compiler
// can detect. Msg is always one of the two exact strings the contract
// specifies ("program parse error: expected ]" / "... expected ["); Offset
// is the input byte offset at which the error was detected, kept for
// callers that want more than the message (tests, future diagnostics)
// without it leaking into the required wording. Because compilation runs
// behind the lookahead window, Offset lies after the offending bracket,
// and it equals the total input length for errors found by Close.
type ParseError struct {
	Msg    string
	Offset int
}

func (e *ParseError) Error() string {
	return e.Msg
}
