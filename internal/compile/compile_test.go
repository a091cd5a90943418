package compile

import (
	"testing"

	"github.com/phuebner/zero/pkg/arm64"
)

// compileSource runs a full source string through a fresh Compiler,
// including the prelude, and returns the encoder and any error from Close.
func compileSource(t *testing.T, src string) (*arm64.Encoder, error) {
	t.Helper()
	enc := arm64.NewEncoder(len(src))
	enc.Prelude()
	c := New(enc)
	for i := 0; i < len(src); i++ {
		if err := c.Feed(src[i]); err != nil {
			return enc, err
		}
	}
	return enc, c.Close()
}

func TestUnmatchedOpenFailsAtClose(t *testing.T) {
	_, err := compileSource(t, "[unmatched")
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
	if pe.Msg != "program parse error: expected ]" {
		t.Errorf("message = %q, want %q", pe.Msg, "program parse error: expected ]")
	}
}

func TestUnmatchedCloseFails(t *testing.T) {
	_, err := compileSource(t, "]")
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
	if pe.Msg != "program parse error: expected [" {
		t.Errorf("message = %q, want %q", pe.Msg, "program parse error: expected [")
	}
}

func TestBalancedLoopsSucceed(t *testing.T) {
	if _, err := compileSource(t, "++++++++[>++++++++<-]>+."); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestDeltaCoalescing checks property #4: a run of N '+' with no
// intervening non-arithmetic op produces exactly one flushCell sequence.
func TestDeltaCoalescing(t *testing.T) {
	enc := arm64.NewEncoder(16)
	c := New(enc)
	for i := 0; i < 10; i++ {
		if err := c.Feed('+'); err != nil {
			t.Fatalf("feed: %v", err)
		}
	}
	if err := c.Feed('.'); err != nil {
		t.Fatalf("feed '.': %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if c.cellDelta != 0 {
		t.Errorf("cellDelta not flushed: %d", c.cellDelta)
	}
	// One AddReg+MovImm16+Ldaddb (3), SyscallOut (9), Postlude (2).
	if got := enc.PC(); got != 14 {
		t.Errorf("expected a single flushCell sequence (3+9+2 = 14 instructions), got %d", got)
	}
}

// TestDeltaCoalescingNegative is the symmetric case of TestDeltaCoalescing:
// a run of N '-' must also collapse into a single AddReg+MovImm16+Ldaddb
// sequence rather than N individual atomic decrements.
func TestDeltaCoalescingNegative(t *testing.T) {
	enc := arm64.NewEncoder(1)
	c := New(enc)
	c.cellDelta = -10
	before := enc.PC()
	c.flushCell()
	if instrs := enc.PC() - before; instrs != 3 {
		t.Fatalf("expected AddReg+MovImm16+Ldaddb = 3 instructions, got %d", instrs)
	}
	if c.cellDelta != 0 {
		t.Errorf("cellDelta not flushed: %d", c.cellDelta)
	}
}

// TestPeepholeClearConsumesThreeChars checks property #6: "[-]" compiles
// to the two-instruction clear pattern and consumes all three characters,
// leaving nothing behind for the jump stack.
func TestPeepholeClearConsumesThreeChars(t *testing.T) {
	enc := arm64.NewEncoder(16)
	c := New(enc)
	for _, b := range []byte("+[-]") {
		if err := c.Feed(b); err != nil {
			t.Fatalf("feed %q: %v", b, err)
		}
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(c.jumps) != 0 {
		t.Errorf("jump stack not empty after [-]: %v", c.jumps)
	}
	// flushCell for the leading '+' (3), Mov0+Strb (2), Postlude (2).
	if got := enc.PC(); got != 7 {
		t.Errorf("expected the two-instruction clear (3+2+2 = 7 instructions), got %d", got)
	}
}

// TestFilterNeutrality checks property #8: inserting arbitrary
// non-Brainfuck bytes does not change the produced buffer.
func TestFilterNeutrality(t *testing.T) {
	clean, err := compileSource(t, "++[>+<-]>.")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	noisy, err := compileSource(t, "++ [>+<-]\n>. # comment")
	if err != nil {
		t.Fatalf("noisy: %v", err)
	}
	if string(clean.Bytes()) != string(noisy.Bytes()) {
		t.Errorf("comment bytes changed the emitted buffer")
	}
}

// TestPointerChunking checks property #5: a pointerDelta larger than one
// immediate chunk is split into full chunks plus a remainder, each within
// [0, AddSubImmLimit].
func TestPointerChunking(t *testing.T) {
	enc := arm64.NewEncoder(1)
	c := New(enc)
	c.pointerDelta = int64(arm64.AddSubImmLimit)*2 + 7
	before := enc.PC()
	c.flushPointer()
	instrs := enc.PC() - before
	if instrs != 3 {
		t.Fatalf("expected 2 full chunks + 1 remainder = 3 instructions, got %d", instrs)
	}
	if c.pointerDelta != 0 {
		t.Errorf("pointerDelta not reset: %d", c.pointerDelta)
	}
}
