package arm64

import "encoding/binary"

// AddSubImmLimit is the largest immediate ADD/SUB (immediate) accepts:
// a 12-bit unsigned field.
const AddSubImmLimit = 0xfff // 4095

// branchImm19Limit is the largest magnitude a signed 19-bit instruction-count
// displacement can hold.
const branchImm19Limit = 1 << 18

// EncodingError reports a violated encoder precondition: an immediate or
// branch displacement outside the range a mnemonic documents. This is a
// programmer bug in the caller, not a recoverable condition, so encoder
// methods panic with this type rather than returning an error.
type EncodingError struct {
	Msg string
}

func (e *EncodingError) Error() string { return e.Msg }

// Encoder is a stateful instruction-buffer writer. It exposes one typed
// method per supported AArch64 mnemonic; each appends exactly one 32-bit
// little-endian word to the buffer.
type Encoder struct {
	buf []byte
}

// NewEncoder allocates an Encoder whose initial buffer capacity is sized
// from a heuristic based on the expected Brainfuck source length: 16
// instructions per source byte, plus room for prelude/postlude. Growth
// beyond this is allowed but should be rare in steady state.
func NewEncoder(sourceBytes int) *Encoder {
	return &Encoder{buf: make([]byte, 0, 16*sourceBytes*4+64)}
}

// PC returns the current program counter: the number of instructions
// written so far.
func (e *Encoder) PC() int {
	return len(e.buf) / 4
}

// Bytes returns the encoded instruction buffer in program order. The
// returned slice aliases the Encoder's internal storage.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// writeNext appends one 32-bit instruction word to the buffer and returns
// the buffer index (in instructions, not bytes) it was written at.
func (e *Encoder) writeNext(word uint32) int {
	idx := e.PC()
	e.buf = binary.LittleEndian.AppendUint32(e.buf, word)
	return idx
}

// Mov0 emits MOVZ Xd, #0 — move zero into dst.
func (e *Encoder) Mov0(dst Reg) {
	e.writeNext(0xD2800000 | dst.Encode())
}

// MovReg emits ORR Xd, XZR, Xsrc — a register-to-register move.
func (e *Encoder) MovReg(dst, src Reg) {
	e.writeNext(0xAA0003E0 | dst.Encode() | src.Encode()<<16)
}

// MovImm16 emits MOVZ Xd, #imm16. imm is treated as a 16-bit pattern, so
// callers that want a negative signed value (e.g. the delta accumulated in
// flushCell) pass its unsigned bit pattern.
func (e *Encoder) MovImm16(dst Reg, imm16 uint16) {
	e.writeNext(0xD2800000 | dst.Encode() | uint32(imm16)<<5)
}

// Ldrb emits LDRB Wdst, [Xbase, Xindex] — load unsigned byte with register offset.
func (e *Encoder) Ldrb(dst, base, index Reg) {
	e.writeNext(0x38606800 | dst.Encode() | base.Encode()<<5 | index.Encode()<<16)
}

// Strb emits STRB Wsrc, [Xbase, Xindex] — store byte with register offset.
func (e *Encoder) Strb(src, base, index Reg) {
	e.writeNext(0x38206800 | src.Encode() | base.Encode()<<5 | index.Encode()<<16)
}

// AddReg emits ADD Xd, Xleft, Xright — shifted register add.
func (e *Encoder) AddReg(dst, left, right Reg) {
	e.writeNext(0x8B000000 | dst.Encode() | left.Encode()<<5 | right.Encode()<<16)
}

// AddImm emits ADD Xd, Xsrc, #imm12. Panics if imm exceeds AddSubImmLimit.
func (e *Encoder) AddImm(dst, src Reg, imm12 uint32) {
	if imm12 > AddSubImmLimit {
		panic(&EncodingError{Msg: "arm64: ADD immediate out of range"})
	}
	e.writeNext(0x91000000 | dst.Encode() | src.Encode()<<5 | imm12<<10)
}

// SubImm emits SUB Xd, Xsrc, #imm12. Panics if imm exceeds AddSubImmLimit.
func (e *Encoder) SubImm(dst, src Reg, imm12 uint32) {
	if imm12 > AddSubImmLimit {
		panic(&EncodingError{Msg: "arm64: SUB immediate out of range"})
	}
	e.writeNext(0xD1000000 | dst.Encode() | src.Encode()<<5 | imm12<<10)
}

// Ldaddb emits an atomic LDADDB that adds amt to the byte at [addr],
// discarding the previous value (destination register is the implicit WZR
// discard encoding).
func (e *Encoder) Ldaddb(addr, amt Reg) {
	e.writeNext(0x3820001F | amt.Encode()<<16 | addr.Encode()<<5)
}

// Cbz emits CBZ Xreg with a placeholder imm19 of 0 and returns the buffer
// index so the branch can be patched once the target is known.
func (e *Encoder) Cbz(reg Reg) int {
	return e.writeNext(0xB4000000 | reg.Encode())
}

// Cbnz emits CBNZ Xreg with a placeholder imm19 of 0 and returns the buffer
// index so the branch can be patched once the target is known.
func (e *Encoder) Cbnz(reg Reg) int {
	return e.writeNext(0xB5000000 | reg.Encode())
}

// PatchBranch takes a signed instruction-count displacement — not a byte
// offset — masks it to 19 bits, and OR-s it into bits [5..24) of the
// instruction at index. AArch64's imm19 is already scaled by 4 bytes, and
// this Encoder works in buffer indices throughout, so no shift is needed
// here. Panics if the displacement doesn't fit in a signed 19-bit field.
func (e *Encoder) PatchBranch(index int, deltaInstructions int32) {
	if deltaInstructions >= branchImm19Limit || deltaInstructions < -branchImm19Limit {
		panic(&EncodingError{Msg: "arm64: branch displacement out of range"})
	}
	word := binary.LittleEndian.Uint32(e.buf[index*4:])
	word |= (uint32(deltaInstructions) & 0x7ffff) << 5
	binary.LittleEndian.PutUint32(e.buf[index*4:], word)
}

// Svc emits SVC #0x80, the Darwin syscall trap.
func (e *Encoder) Svc() {
	e.writeNext(0xD4001001)
}

// Ret emits RET.
func (e *Encoder) Ret() {
	e.writeNext(0xD65F03C0)
}
