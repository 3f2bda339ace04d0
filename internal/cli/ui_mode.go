package cli

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"edusim/internal/config"
)

// uiModeDecision is the resolved choice between the live dashboard and plain
// line output, plus an optional warning for the operator.
type uiModeDecision struct {
	useLive bool
	warning string
}

// isTerminal is swappable so tests can simulate TTY and non-TTY stdout.
var isTerminal = stdoutIsTerminal

// resolveUIMode maps a configured ui_mode onto a concrete decision. Verbose
// runs always use plain output: zap debug lines and an alt-screen dashboard
// cannot share a terminal.
func resolveUIMode(mode string, verbose bool, stdout io.Writer) (uiModeDecision, error) {
	normalized := strings.ToLower(strings.TrimSpace(mode))
	if normalized == "" {
		normalized = config.UIModeAuto
	}
	if verbose {
		var warning string
		if normalized == config.UIModeLive {
			warning = "Verbose logging disables the live UI; using plain output."
		}
		return uiModeDecision{warning: warning}, nil
	}
	switch normalized {
	case config.UIModeAuto:
		return uiModeDecision{useLive: isTerminal(stdout)}, nil
	case config.UIModeLive:
		if !isTerminal(stdout) {
			return uiModeDecision{
				warning: "Live UI requested but stdout is not a TTY; falling back to plain output.",
			}, nil
		}
		return uiModeDecision{useLive: true}, nil
	case config.UIModePlain:
		return uiModeDecision{}, nil
	default:
		return uiModeDecision{}, fmt.Errorf("invalid ui mode %q (expected auto|live|plain)", mode)
	}
}

// stdoutIsTerminal probes the writer's file descriptor; os.File and anything
// else exposing Fd qualify, buffers and pipes without one never do.
func stdoutIsTerminal(stdout io.Writer) bool {
	fder, ok := stdout.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(fder.Fd()))
}
