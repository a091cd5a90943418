package interp

import (
	"bytes"
	"strings"
	"testing"
)

func TestHelloWorld(t *testing.T) {
	// A well-known minimal Brainfuck "Hello World!\n" program.
	const src = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

	var out bytes.Buffer
	in := New(WithOutput(&out))
	if err := in.Run([]byte(src)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := out.String(), "Hello World!\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestUnmatchedOpen(t *testing.T) {
	err := New().Run([]byte("[+"))
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
	if pe.Msg != "program parse error: expected ]" {
		t.Errorf("message = %q", pe.Msg)
	}
}

func TestUnmatchedClose(t *testing.T) {
	err := New().Run([]byte("+]"))
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
	if pe.Msg != "program parse error: expected [" {
		t.Errorf("message = %q", pe.Msg)
	}
}

func TestPointerUnderflowIsRejectedNotWrapped(t *testing.T) {
	err := New().Run([]byte("<"))
	re, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T (%v)", err, err)
	}
	if !strings.Contains(re.Msg, "low end") {
		t.Errorf("message = %q, want mention of low end", re.Msg)
	}
}

func TestPointerOverflowIsRejectedNotWrapped(t *testing.T) {
	src := make([]byte, MemorySize)
	for i := range src {
		src[i] = '>'
	}
	err := New().Run(src)
	re, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T (%v)", err, err)
	}
	if !strings.Contains(re.Msg, "high end") {
		t.Errorf("message = %q, want mention of high end", re.Msg)
	}
}

func TestEOFZeroDefault(t *testing.T) {
	var out bytes.Buffer
	in := New(WithInput(strings.NewReader("")), WithOutput(&out))
	if err := in.Run([]byte(",.")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Bytes()[0] != 0 {
		t.Errorf("cell = %d, want 0 on EOF", out.Bytes()[0])
	}
}

func TestEOFMinusOne(t *testing.T) {
	var out bytes.Buffer
	in := New(WithInput(strings.NewReader("")), WithOutput(&out), WithEOFBehavior(EOFMinusOne))
	if err := in.Run([]byte(",.")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Bytes()[0] != 255 {
		t.Errorf("cell = %d, want 255 on EOF", out.Bytes()[0])
	}
}

func TestCommentBytesAreIgnored(t *testing.T) {
	var clean, noisy bytes.Buffer
	if err := New(WithOutput(&clean)).Run([]byte("+++.")); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if err := New(WithOutput(&noisy)).Run([]byte("+ ++ # three plus\n.")); err != nil {
		t.Fatalf("noisy: %v", err)
	}
	if clean.String() != noisy.String() {
		t.Errorf("comment bytes changed output: %q vs %q", clean.String(), noisy.String())
	}
}
