package dfa

import "golang.org/x/sys/cpu"

// defaultChunkHint is the bulk-scan chunk size used when the CPU
// offers no wide vector support worth sizing around.
const defaultChunkHint = 4 * 1024

// wideChunkHint is used on CPUs wide enough that larger chunks amortize
// the per-call overhead of whatever bulk scan loop consumes this hint.
const wideChunkHint = 16 * 1024

// SIMDHint reports whether the running CPU has wide enough vector
// support (AVX2 on amd64, NEON on arm64) that a caller scanning bytes
// in bulk ahead of the DFA should prefer larger chunks. The DFA loop
// itself is plain Go either way — see the domain-stack note in
// SPEC_FULL.md — this only sizes the caller's scan buffer.
func SIMDHint() bool {
	switch {
	case cpu.X86.HasAVX2:
		return true
	case cpu.ARM64.HasASIMD:
		return true
	default:
		return false
	}
}

// ChunkHint returns the suggested bulk-scan chunk size for the running
// CPU.
func ChunkHint() int {
	if SIMDHint() {
		return wideChunkHint
	}
	return defaultChunkHint
}
