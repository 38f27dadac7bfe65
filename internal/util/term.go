package util

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

/*
   references:
   - https://no-color.org/
   - https://force-color.org/
*/

const ForceColorsEnv = "EXPLORER_FORCE_COLORS"

func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// ShouldUseColors decides whether the pterm handler is used. NO_COLOR beats
// everything, then FORCE_COLOR, then our own override, then the tty check.
func ShouldUseColors() bool {
	if noColor := os.Getenv("NO_COLOR"); noColor != "" {
		return false
	}

	if forceColor := os.Getenv("FORCE_COLOR"); forceColor != "" {
		return forceColor != "0"
	}

	if override := os.Getenv(ForceColorsEnv); override != "" {
		return strings.EqualFold(override, "true")
	}

	return IsTerminal()
}
