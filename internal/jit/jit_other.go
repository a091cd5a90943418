//go:build !(darwin && arm64)

package jit

// Program is the non-darwin/arm64 stand-in: the AArch64 encoder targets
// Apple's JIT ABI specifically, so there is no executable mapping to
// install or run on any other platform.
type Program struct{}

// Load always fails outside darwin/arm64 — there is no MAP_JIT region or
// pthread_jit_write_protect_np to allocate against.
func Load(code []byte) (*Program, error) {
	return nil, &MapError{Msg: "could not JIT memory region", Err: errUnsupportedPlatform}
}

// Run is unreachable in practice since Load always fails first; it exists
// so Program satisfies the same shape as the darwin/arm64 build.
func (p *Program) Run(tape []byte) int32 {
	return -1
}

// Close is a no-op: Load never produced a mapping to release.
func (p *Program) Close() error {
	return nil
}

var errUnsupportedPlatform = platformError("zero's JIT backend only targets darwin/arm64")

type platformError string

func (e platformError) Error() string { return string(e) }
