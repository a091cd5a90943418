package interp

import "fmt"

// RuntimeError represents an error during tree-walking interpretation.
type RuntimeError struct {
	Msg string
	PC  int
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at PC %d: %s", e.PC, e.Msg)
}

// ParseError mirrors compile.ParseError's wording so the interpreter and
// JIT paths report identical diagnostics for the same malformed program.
type ParseError struct {
	Msg    string
	Offset int
}

func (e *ParseError) Error() string {
	return e.Msg
}
