//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

package main

// The OTO and ALSA hosts hand native float32 buffers to devices opened as
// FLOAT32LE, which only matches the host byte order on little-endian CPUs.
var _ = "BitBeat requires a little-endian architecture" + 1
