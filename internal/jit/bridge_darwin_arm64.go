//go:build darwin && arm64

package jit

/*
#include <pthread.h>
#include <libkern/OSCacheControl.h>
#include <stdint.h>

static void zero_jit_write_protect(int enabled) {
	pthread_jit_write_protect_np(enabled);
}

static void zero_jit_clear_icache(void *addr, size_t len) {
	sys_icache_invalidate(addr, len);
}

typedef int32_t (*zero_entry_fn)(uint8_t *);

static int32_t zero_jit_call(void *entry, uint8_t *tape) {
	zero_entry_fn fn = (zero_entry_fn)entry;
	return fn(tape);
}
*/
import "C"

import "unsafe"

// jitWriteProtect toggles the calling thread's write permission on
// MAP_JIT pages. enabled=false makes the mapping writable (and
// non-executable); enabled=true makes it executable (and non-writable).
// Apple's W^X enforcement on MAP_JIT memory requires this call around
// every write, on the same thread that performs the write.
func jitWriteProtect(enabled bool) {
	v := C.int(0)
	if enabled {
		v = 1
	}
	C.zero_jit_write_protect(v)
}

// clearICache invalidates the instruction cache over buf's range so the
// CPU's instruction fetcher observes bytes just written through the data
// cache.
func clearICache(buf []byte) {
	if len(buf) == 0 {
		return
	}
	C.zero_jit_clear_icache(unsafe.Pointer(&buf[0]), C.size_t(len(buf)))
}

// callEntry jumps into mem's first byte as a function of one argument
// (the tape's base address) returning int32, per the JIT program's fixed
// calling convention, and returns its result.
func callEntry(mem []byte, tape []byte) int32 {
	var tapePtr *C.uint8_t
	if len(tape) > 0 {
		tapePtr = (*C.uint8_t)(unsafe.Pointer(&tape[0]))
	}
	return int32(C.zero_jit_call(unsafe.Pointer(&mem[0]), tapePtr))
}
