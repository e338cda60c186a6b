// Package bytebeat compiles bytebeat expressions and renders them in real time.
//
// A Compiler turns expression text such as "t*(t>>5|t>>8)" into a Generator,
// a function of the time counter t and the live parameters x, y, a and b
// that yields one unsigned byte per sample. An Engine drives the active
// Generator from an audio host callback, converting each byte to a float32 in
// [-1, 1), and publishes the first samples of every callback as a waveform
// snapshot. A Session sits on the control side: it debounces editor text,
// compiles it and installs the result.
//
// The render path never blocks. Params are independent atomics, the active
// Generator is an atomically swapped {generator, generation} record loaded
// once per callback, and superseded Generators are released only after a
// callback that loaded a newer generation has completed.
package bytebeat
