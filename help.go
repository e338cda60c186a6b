// help.go - live-coding quick reference

package main

const helpText = `BITBEAT QUICK REFERENCE

The expression is evaluated once per tick of t (8000 ticks per second by
default). Its value, reduced to 0..255, is the output sample.

Variables   t            time counter
            x y a b      live parameters, 0..15 (pads, MIDI, :set)
Constants   PI E
Operators   ?: || && | ^ & == != < <= > >= << >> >>> + - * / % **
            unary - + ~ !
Functions   sin cos tan abs floor ceil round sqrt log exp sign
            pow(b, e) min(a, ...) max(a, ...)   (Math. prefix allowed)
Literals    42 3.5 1e3 0x2A 0b101 0o52

Results are masked to a byte unless the expression already contains
& 255, & 0xFF or % 256, in which case values outside 0..255 are clamped.

Try
  t*(t>>5|t>>8)
  t*(t>>x|t>>y)&a*16
  (t>>b|t|t>>6)*10+4*(t&t>>13|t>>6)
  t*((t>>12|t>>8)&63&t>>4)

GUI keys    F1 help  F5 play/stop  F11 fullscreen  F12 status bar
            Ctrl+V paste  Ctrl+C copy  Ctrl+R reset params
Terminal    Enter compiles now, lines starting with ':' are commands (:help)`
