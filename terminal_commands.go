// terminal_commands.go - Command parser and handlers for the terminal console

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/intuitionamiga/bitbeat/bytebeat"
)

// ConsoleCommand is a parsed command with name and arguments.
type ConsoleCommand struct {
	Name string
	Args []string
}

// ParseCommand splits a raw input line into a command name and arguments.
func ParseCommand(input string) ConsoleCommand {
	input = strings.TrimSpace(input)
	if input == "" {
		return ConsoleCommand{}
	}
	parts := strings.Fields(input)
	return ConsoleCommand{
		Name: strings.ToLower(parts[0]),
		Args: parts[1:],
	}
}

const consoleCommandHelp = `Commands
  :play :stop :toggle     start, stop or toggle playback (play restarts at t=0)
  :x N  :y N  :a N  :b N  set a parameter (0..15); without N, show it
  :set NAME N             same as :NAME N
  :params                 show all parameters
  :reset                  restore x=5 y=8 a=3 b=11
  :scope [cols]           draw the latest waveform window
  :status                 playback state, counter and backend
  :diag                   last compile diagnostic
  :src                    expression currently playing
  :about  :help  :quit`

// ExecuteCommand dispatches a parsed command to the appropriate handler.
// Returns true if the console should exit.
func (tc *TerminalConsole) ExecuteCommand(input string) bool {
	cmd := ParseCommand(input)
	if cmd.Name == "" {
		return false
	}

	switch cmd.Name {
	case "play", "p":
		return tc.cmdPlay(cmd)
	case "stop", "s":
		return tc.cmdStop(cmd)
	case "toggle", "t":
		return tc.cmdToggle(cmd)
	case "x", "y", "a", "b":
		return tc.cmdParam(cmd.Name, cmd.Args)
	case "set":
		if len(cmd.Args) == 0 {
			tc.appendOutput("Usage: :set x|y|a|b [value]", ansiRed)
			return false
		}
		return tc.cmdParam(cmd.Args[0], cmd.Args[1:])
	case "params":
		return tc.cmdParams(cmd)
	case "reset":
		return tc.cmdReset(cmd)
	case "scope":
		return tc.cmdScope(cmd)
	case "status":
		return tc.cmdStatus(cmd)
	case "diag":
		return tc.cmdDiag(cmd)
	case "src", "source":
		tc.appendOutput(tc.actions.session.Source(), "")
		return false
	case "about":
		tc.appendOutput(tc.actions.About(), "")
		return false
	case "?", "h", "help":
		return tc.cmdHelp(cmd)
	case "q", "quit", "exit":
		return true
	default:
		tc.appendOutput(fmt.Sprintf("Unknown command: %s", cmd.Name), ansiRed)
		return false
	}
}

func (tc *TerminalConsole) cmdPlay(_ ConsoleCommand) bool {
	if err := tc.actions.Dispatch(GUIEvent{Type: EventStartPlayback}); err != nil {
		tc.appendOutput(err.Error(), ansiRed)
		return false
	}
	tc.appendOutput("playing", ansiGreen)
	return false
}

func (tc *TerminalConsole) cmdStop(_ ConsoleCommand) bool {
	if err := tc.actions.Dispatch(GUIEvent{Type: EventStopPlayback}); err != nil {
		tc.appendOutput(err.Error(), ansiRed)
		return false
	}
	tc.appendOutput("stopped", "")
	return false
}

func (tc *TerminalConsole) cmdToggle(_ ConsoleCommand) bool {
	playing, err := tc.actions.TogglePlay()
	switch {
	case err != nil:
		tc.appendOutput(err.Error(), ansiRed)
	case playing:
		tc.appendOutput("playing", ansiGreen)
	default:
		tc.appendOutput("stopped", "")
	}
	return false
}

func (tc *TerminalConsole) cmdParam(name string, args []string) bool {
	n, err := bytebeat.ParseParamName(name)
	if err != nil {
		tc.appendOutput(err.Error(), ansiRed)
		return false
	}
	if len(args) == 0 {
		tc.appendOutput(fmt.Sprintf("%s = %g", n, tc.actions.engine.Params().Get(n)), "")
		return false
	}
	v, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		tc.appendOutput(fmt.Sprintf("Invalid value: %s", args[0]), ansiRed)
		return false
	}
	tc.actions.Dispatch(GUIEvent{Type: EventSetParam, Data: ParamChange{Name: n, Value: float32(v)}})
	tc.appendOutput(fmt.Sprintf("%s = %g", n, tc.actions.engine.Params().Get(n)), ansiGreen)
	return false
}

func (tc *TerminalConsole) cmdParams(_ ConsoleCommand) bool {
	p := tc.actions.engine.Params()
	tc.appendOutput(fmt.Sprintf("x = %g  y = %g  a = %g  b = %g", p.X, p.Y, p.A, p.B), "")
	return false
}

func (tc *TerminalConsole) cmdReset(_ ConsoleCommand) bool {
	tc.actions.Dispatch(GUIEvent{Type: EventResetParams})
	return tc.cmdParams(ConsoleCommand{})
}

func (tc *TerminalConsole) cmdScope(cmd ConsoleCommand) bool {
	cols := tc.width - 2
	if len(cmd.Args) > 0 {
		n, err := strconv.Atoi(cmd.Args[0])
		if err != nil || n < 1 {
			tc.appendOutput(fmt.Sprintf("Invalid width: %s", cmd.Args[0]), ansiRed)
			return false
		}
		cols = n
	}
	snap := tc.actions.engine.Snapshot()
	if len(snap) == 0 {
		tc.appendOutput("no waveform yet (:play first)", ansiDim)
		return false
	}
	tc.appendOutput(sparkline(snap, cols), ansiGreen)
	return false
}

func (tc *TerminalConsole) cmdStatus(_ ConsoleCommand) bool {
	s := runtimeStatus.snapshot()
	tc.appendOutput(s.statusLine(), "")
	if !s.startedAt.IsZero() {
		tc.appendOutput("up "+time.Since(s.startedAt).Truncate(time.Second).String(), ansiDim)
	}
	return false
}

func (tc *TerminalConsole) cmdDiag(_ ConsoleCommand) bool {
	if diag, ok := tc.actions.session.Diagnostic(); ok {
		tc.appendOutput(diag, ansiRed)
	} else {
		tc.appendOutput("no diagnostic", ansiDim)
	}
	return false
}

func (tc *TerminalConsole) cmdHelp(_ ConsoleCommand) bool {
	tc.appendOutput(helpText, "")
	tc.appendOutput(consoleCommandHelp, "")
	return false
}

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// sparkline draws samples in [-1, 1] as one row of block characters, one per
// column, keeping the peak of each column's bucket.
func sparkline(samples []float32, cols int) string {
	if len(samples) == 0 || cols < 1 {
		return ""
	}
	cols = min(cols, len(samples))
	var sb strings.Builder
	for c := range cols {
		lo := c * len(samples) / cols
		hi := (c + 1) * len(samples) / cols
		peak := samples[lo]
		for _, v := range samples[lo:hi] {
			peak = max(peak, v)
		}
		level := int((peak + 1) / 2 * float32(len(sparkLevels)))
		level = max(0, min(level, len(sparkLevels)-1))
		sb.WriteRune(sparkLevels[level])
	}
	return sb.String()
}
