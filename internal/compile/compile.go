// Package compile provides a streaming Brainfuck-to-AArch64 compiler. It
// consumes one source byte at a time, batches consecutive arithmetic ops,
// recognizes the `[-]` cell-clear idiom via a three-byte lookahead window,
// and drives an arm64.Encoder.
package compile

import "github.com/phuebner/zero/pkg/arm64"

// addSubImmLimit mirrors arm64.AddSubImmLimit; kept as a local alias so the
// pointer-chunking math below reads without a package-qualified constant on
// every line.
const addSubImmLimit = arm64.AddSubImmLimit

// sentinel marks end-of-stream in the lookahead window. Brainfuck source
// never contains a NUL byte meaningfully, so it is safe to reserve.
const sentinel = 0

// Compiler consumes a stream of Brainfuck characters and drives an
// arm64.Encoder, batching arithmetic and recognizing one peephole pattern.
type Compiler struct {
	enc *arm64.Encoder

	cellDelta    int8
	pointerDelta int64

	// win holds the three-slot lookahead window: win[0] is the oldest
	// buffered character (the one about to be compiled), win[1] and win[2]
	// are the two characters that arrived after it. filled counts how many
	// of the three slots hold real (possibly sentinel) data.
	win    [3]byte
	filled int

	skip int

	jumps []int // LIFO of buffer indices awaiting their matching ]

	offset int   // running byte offset, for ParseError reporting
	err    error // first error seen; sticky once set
}

// New creates a Compiler that emits into enc. Callers are expected to have
// already emitted enc.Prelude() if they want the standard entry sequence;
// New does not emit it itself, so Compiler can also be driven in isolation
// (e.g. from tests that only want the loop body).
func New(enc *arm64.Encoder) *Compiler {
	return &Compiler{enc: enc}
}

// Feed submits one raw input byte. Bytes outside `+-<>[].,` are silently
// dropped before they ever enter the lookahead window, matching Brainfuck's
// treatment of all other characters as comments. It returns a *ParseError
// once an unmatched `]` is compiled, which happens when two further
// meaningful bytes have arrived after it (otherwise Close reports it);
// once an error has been returned,
// further Feed/Close calls are no-ops that keep returning it.
func (c *Compiler) Feed(b byte) error {
	if c.err != nil {
		return c.err
	}
	if !isOp(b) {
		c.offset++
		return nil
	}
	c.push(b)
	c.offset++
	return c.err
}

// Close drains the lookahead window with two sentinel bytes, flushes any
// residual deltas, and emits the encoder's postlude. It returns a
// *ParseError if the jump stack is non-empty (an unmatched `[`) or if an
// unmatched `]` was found, by an earlier Feed call or while draining the
// window.
func (c *Compiler) Close() error {
	if c.err != nil {
		return c.err
	}

	c.push(sentinel)
	c.push(sentinel)
	if c.err != nil {
		return c.err
	}

	c.flushCell()
	c.flushPointer()
	c.enc.Postlude()

	if len(c.jumps) > 0 {
		return &ParseError{Msg: "program parse error: expected ]", Offset: c.offset}
	}
	return nil
}

// push advances the three-slot window by one character, compiling the slot
// that falls out the back once both younger slots are populated.
func (c *Compiler) push(b byte) {
	if c.filled < 3 {
		c.win[c.filled] = b
		c.filled++
		if c.filled < 3 {
			return
		}
	} else {
		c.win[0] = c.win[1]
		c.win[1] = c.win[2]
		c.win[2] = b
	}
	c.emit(c.win[0], c.win[1], c.win[2])
}

// isOp reports whether b is one of the eight meaningful Brainfuck bytes.
func isOp(b byte) bool {
	switch b {
	case '+', '-', '<', '>', '[', ']', '.', ',':
		return true
	}
	return false
}

// emit compiles the oldest character in the window now that both
// lookahead characters (fut1, fut2) are known.
func (c *Compiler) emit(ch, fut1, fut2 byte) {
	if c.skip > 0 {
		c.skip--
		return
	}

	switch ch {
	case '+':
		c.flushPointer()
		c.cellDelta++
	case '-':
		c.flushPointer()
		c.cellDelta--
	case '>':
		c.flushCell()
		c.pointerDelta++
	case '<':
		c.flushCell()
		c.pointerDelta--
	case '[':
		c.emitLoopOpen(fut1, fut2)
	case ']':
		if err := c.emitLoopClose(); err != nil {
			c.err = err
		}
	case '.':
		c.flushCell()
		c.flushPointer()
		c.enc.SyscallOut()
	case ',':
		c.flushCell()
		c.flushPointer()
		c.enc.SyscallIn()
	}
}

// emitLoopOpen handles `[`, recognizing the `[-]` cell-clear idiom via the
// two-character lookahead and falling back to the general loop-open
// otherwise.
func (c *Compiler) emitLoopOpen(fut1, fut2 byte) {
	if fut1 == '-' && fut2 == ']' {
		c.flushCell()
		c.flushPointer()
		c.enc.Mov0(arm64.Tmp1)
		c.enc.Strb(arm64.Tmp1, arm64.MemBase, arm64.MemPtr)
		c.skip = 2 // consume the '-' and ']' already accounted for
		return
	}

	c.flushCell()
	c.flushPointer()
	c.enc.Ldrb(arm64.Tmp1, arm64.MemBase, arm64.MemPtr)
	c.jumps = append(c.jumps, c.enc.Cbz(arm64.Tmp1))
}

// emitLoopClose handles `]`: it pops the matching `[`'s CBZ index, emits
// the CBNZ, and patches both branches to jump past each other.
func (c *Compiler) emitLoopClose() error {
	c.flushCell()
	c.flushPointer()
	c.enc.Ldrb(arm64.Tmp1, arm64.MemBase, arm64.MemPtr)

	if len(c.jumps) == 0 {
		return &ParseError{Msg: "program parse error: expected [", Offset: c.offset}
	}
	start := c.jumps[len(c.jumps)-1]
	c.jumps = c.jumps[:len(c.jumps)-1]

	end := c.enc.Cbnz(arm64.Tmp1)

	c.enc.PatchBranch(start, int32(end-start)+1)
	c.enc.PatchBranch(end, int32(start-end)+1)
	return nil
}

// flushCell emits the accumulated cell delta (if any) as a single atomic
// add to the tape byte at memBase+memPtr, then resets it to zero.
func (c *Compiler) flushCell() {
	if c.cellDelta == 0 {
		return
	}
	c.enc.AddReg(arm64.Tmp1, arm64.MemBase, arm64.MemPtr)
	// The 16-bit MOVZ immediate already carries the signed 8-bit delta's
	// two's-complement byte pattern in its low byte, so LDADDB's byte-wise
	// add is correct for negative deltas without a separate code path.
	c.enc.MovImm16(arm64.Tmp2, uint16(uint8(c.cellDelta)))
	c.enc.Ldaddb(arm64.Tmp1, arm64.Tmp2)
	c.cellDelta = 0
}

// flushPointer emits the accumulated pointer delta (if any) as a chunked
// sequence of ADD/SUB immediates on memPtr, each within [0, AddSubImmLimit],
// then resets it to zero.
func (c *Compiler) flushPointer() {
	if c.pointerDelta == 0 {
		return
	}
	abs := c.pointerDelta
	neg := abs < 0
	if neg {
		abs = -abs
	}

	iters := abs / addSubImmLimit
	rem := uint32(abs % addSubImmLimit)

	op := c.enc.AddImm
	if neg {
		op = c.enc.SubImm
	}
	for i := int64(0); i < iters; i++ {
		op(arm64.MemPtr, arm64.MemPtr, addSubImmLimit)
	}
	if rem != 0 {
		op(arm64.MemPtr, arm64.MemPtr, rem)
	}
	c.pointerDelta = 0
}
