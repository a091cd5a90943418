package arm64

// Prelude emits the entry sequence shared by every compiled program: the
// incoming argument register (x0, the tape base pointer per the
// int32(*)(uint8_t*) ABI) is moved into MemBase, MemPtr is zeroed, and the
// two arithmetic constants are initialized.
func (e *Encoder) Prelude() {
	e.MovReg(MemBase, X0) // memBase = x0 (tape base argument)
	e.Mov0(MemPtr)        // memPtr = 0
	e.MovImm16(ConstOne, 1)
	e.movNegOne(ConstNegOne) // constNegOne = -1 (MOVN x12, #0)
}

// movNegOne emits MOVN Xd, #0, which loads the all-ones pattern (-1 as a
// two's complement 64-bit value). This is the one mnemonic the prelude
// needs that isn't part of the compiler's general-purpose vocabulary, so it
// stays private rather than becoming a public Encoder method.
func (e *Encoder) movNegOne(dst Reg) {
	e.writeNext(0x92800000 | dst.Encode())
}

// Postlude emits the exit sequence: zero the return-value register and
// return to the trampoline.
func (e *Encoder) Postlude() {
	e.Mov0(X0)
	e.Ret()
}

// SyscallOut emits the Darwin write(2) macro sequence: x0=fd(1), x1=memBase+memPtr,
// x2=length(1), x16=4 (SYS_write), then SVC.
func (e *Encoder) SyscallOut() {
	e.syscallIO(sysWrite)
}

// SyscallIn emits the Darwin read(2) macro sequence: x0=fd(0), x1=memBase+memPtr,
// x2=length(1), x16=3 (SYS_read), then SVC. The emitted code does not check
// the syscall's return value: on EOF the cell is left however the kernel's
// short read leaves it, matching the original implementation.
func (e *Encoder) SyscallIn() {
	e.syscallIO(sysRead)
}

// syscallIO emits the shared argument setup for read/write: the address
// register x1 is computed as memBase+memPtr via Tmp1, the length is fixed
// at 1 byte, and fd/number are loaded per call site.
func (e *Encoder) syscallIO(number int) {
	e.AddReg(Tmp1, MemBase, MemPtr) // tmp1 = memBase + memPtr
	e.MovReg(X1, Tmp1)              // x1 = address
	e.Mov0(X2)
	e.AddImm(X2, X2, 1) // x2 = 1 (length)
	if number == sysWrite {
		e.Mov0(X0)
		e.AddImm(X0, X0, 1) // x0 = 1 (stdout)
	} else {
		e.Mov0(X0) // x0 = 0 (stdin)
	}
	e.Mov0(Sys)
	e.AddImm(Sys, Sys, uint32(number)) // x16 = syscall number
	e.Svc()
}
