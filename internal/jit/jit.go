//go:build darwin && arm64

// Package jit allocates RWX/MAP_JIT memory on darwin/arm64, installs
// encoded AArch64 instructions into it under the platform's per-thread
// JIT-write toggle, flushes the instruction cache, and jumps into the
// result with the Brainfuck cell tape as its first argument.
package jit

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// mapJIT is Apple's MAP_JIT flag (0x0800). It is not part of the generic
// golang.org/x/sys/unix constant set, so it is defined here next to its one
// call site rather than assumed to exist upstream.
const mapJIT = 0x0800

// Program is an installed, runnable JIT subroutine: a page-aligned
// executable mapping holding the compiled instruction buffer.
type Program struct {
	mem []byte
}

// Load maps a fresh RWX/MAP_JIT region sized to len(code), copies code into
// it under the write-enabled toggle, switches the toggle back to
// write-protected, and flushes the instruction cache over the written
// range. The returned Program is ready to Run.
func Load(code []byte) (*Program, error) {
	// The write-protect toggle is per-thread, and Run must later call the
	// installed code from whichever thread last toggled it write-protected
	// here. Locking the calling goroutine to its OS thread for the
	// Program's lifetime keeps install and Run on the same thread even
	// across an intervening Go scheduler preemption.
	runtime.LockOSThread()

	mem, err := unix.Mmap(-1, 0, len(code),
		unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC,
		unix.MAP_PRIVATE|unix.MAP_ANON|mapJIT)
	if err != nil {
		runtime.UnlockOSThread()
		return nil, &MapError{Msg: "could not JIT memory region", Err: err}
	}

	p := &Program{mem: mem}
	p.install(code)
	return p, nil
}

// install copies code into the mapping with writes bracketed by the
// per-thread JIT write toggle, then flushes the instruction cache over
// exactly the written range. All three steps must run on the same thread
// that will later call Run — see bridge_darwin_arm64.go.
func (p *Program) install(code []byte) {
	jitWriteProtect(false)
	copy(p.mem, code)
	jitWriteProtect(true)
	clearICache(p.mem)
}

// Run transfers control to the installed code with tape's address as its
// first argument (x0), per the int32(*)(uint8_t*) ABI, and returns its
// result as the program's exit status. tape must be at least
// interp.MemorySize (50000) bytes and is exposed to the generated code for the duration of the call
// with exclusive mutable access.
func (p *Program) Run(tape []byte) int32 {
	return callEntry(p.mem, tape)
}

// Close unmaps the executable region. Explicit unmapping is optional —
// process teardown reclaims it — but Close gives callers (notably tests)
// a way to do it deterministically.
func (p *Program) Close() error {
	return unix.Munmap(p.mem)
}
