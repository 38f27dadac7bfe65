package theme

import (
	"github.com/pterm/pterm"
)

// Theme defines the colour scheme used by the styled logger and the
// startup banner
type Theme struct {
	// Log level colours
	Debug *pterm.Style
	Info  *pterm.Style
	Warn  *pterm.Style
	Error *pterm.Style

	// Explorer specific
	Server  *pterm.Style
	Model   *pterm.Style
	Counts  *pterm.Style
	Numbers *pterm.Style
	Muted   *pterm.Style

	// Outcome colours
	Good pterm.Color
	Bad  pterm.Color
}

func Default() *Theme {
	return &Theme{
		Debug: pterm.NewStyle(pterm.FgLightBlue),
		Info:  pterm.NewStyle(pterm.FgGreen),
		Warn:  pterm.NewStyle(pterm.FgYellow, pterm.Bold),
		Error: pterm.NewStyle(pterm.FgRed, pterm.Bold),

		Server:  pterm.NewStyle(pterm.FgCyan, pterm.Bold),
		Model:   pterm.NewStyle(pterm.FgMagenta),
		Counts:  pterm.NewStyle(pterm.FgLightYellow),
		Numbers: pterm.NewStyle(pterm.FgLightCyan, pterm.Bold),
		Muted:   pterm.NewStyle(pterm.FgGray),

		Good: pterm.FgGreen,
		Bad:  pterm.FgRed,
	}
}

func Dark() *Theme {
	return &Theme{
		Debug: pterm.NewStyle(pterm.FgLightBlue),
		Info:  pterm.NewStyle(pterm.FgLightGreen),
		Warn:  pterm.NewStyle(pterm.FgLightYellow, pterm.Bold),
		Error: pterm.NewStyle(pterm.FgLightRed, pterm.Bold),

		Server:  pterm.NewStyle(pterm.FgLightCyan, pterm.Bold),
		Model:   pterm.NewStyle(pterm.FgLightMagenta),
		Counts:  pterm.NewStyle(pterm.FgLightYellow),
		Numbers: pterm.NewStyle(pterm.FgLightWhite, pterm.Bold),
		Muted:   pterm.NewStyle(pterm.FgGray),

		Good: pterm.FgLightGreen,
		Bad:  pterm.FgLightRed,
	}
}

func Light() *Theme {
	return &Theme{
		Debug: pterm.NewStyle(pterm.FgBlue),
		Info:  pterm.NewStyle(pterm.FgBlack),
		Warn:  pterm.NewStyle(pterm.FgRed, pterm.Bold),
		Error: pterm.NewStyle(pterm.FgRed, pterm.Bold),

		Server:  pterm.NewStyle(pterm.FgBlue, pterm.Bold),
		Model:   pterm.NewStyle(pterm.FgMagenta),
		Counts:  pterm.NewStyle(pterm.FgBlack, pterm.Bold),
		Numbers: pterm.NewStyle(pterm.FgBlue, pterm.Bold),
		Muted:   pterm.NewStyle(pterm.FgGray),

		Good: pterm.FgGreen,
		Bad:  pterm.FgRed,
	}
}

func GetTheme(name string) *Theme {
	switch name {
	case "dark":
		return Dark()
	case "light":
		return Light()
	default:
		return Default()
	}
}

// ColourSplash Colours for the splash screen
func ColourSplash(message ...any) string {
	return pterm.LightCyan(message...)
}

// ColourVersion Colours Version numbers, used for the splash screen
func ColourVersion(message ...any) string {
	return pterm.LightYellow(message...)
}

// StyleUrl Colours for URLs and hyperlinks
func StyleUrl(message ...any) string {
	return pterm.LightBlue(message...)
}

// Hyperlink creates a hyperlink in the terminal
func Hyperlink(uri string, text string) string {
	return "\x1b]8;;" + uri + "\x07" + text + "\x1b]8;;\x07" + "\u001b[0m"
}
