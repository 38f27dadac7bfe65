package version

import (
	"fmt"
	"log"
	"strings"

	"github.com/thushan/olla-explorer/theme"
)

var (
	Name        = "olla-explorer"
	ShortName   = "OllaExplorer"
	Authors     = "Thushan Fernando"
	Description = "See every model on every Ollama server"
	Version     = "v0.0.1"
	Commit      = "none"
	Date        = "nowish"
	User        = "local"
)

const (
	GithubHomeText  = "github.com/thushan/olla-explorer"
	GithubHomeUri   = "https://github.com/thushan/olla-explorer"
	GithubLatestUri = "https://github.com/thushan/olla-explorer/releases/latest"
)

// UserAgent is sent with every upstream call
func UserAgent() string {
	return ShortName + "/" + Version
}

// Info is what /version hands back
type Info struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Commit      string `json:"commit"`
	Date        string `json:"build_date"`
	User        string `json:"build_user"`
}

func Current() Info {
	return Info{
		Name:        Name,
		Version:     Version,
		Description: Description,
		Commit:      Commit,
		Date:        Date,
		User:        User,
	}
}

func PrintVersionInfo(extendedInfo bool, vlog *log.Logger) {
	githubUri := theme.Hyperlink(GithubHomeUri, GithubHomeText)
	latestUri := theme.Hyperlink(GithubLatestUri, Version)

	var b strings.Builder

	b.WriteString(theme.ColourSplash(`
╔──────────────────────────────────────────────────────╗
│   ___  _ _          ___              _               │
│  / _ \| | |__ _    | __|_ ___ __ ___| |___ _ _ ___ _ │
│ | (_) | | / _' |   | _|\ \ / '_ \ / _ \ / _ \ '_/ -_)│
│  \___/|_|_\__,_|   |___/_\_\ .__/_\___/_\___/_| \___|│
│                            |_|                       │` + "\n"))

	b.WriteString(theme.ColourSplash("│ "))
	b.WriteString(theme.StyleUrl(githubUri))
	b.WriteString(" ")
	b.WriteString(theme.ColourVersion(latestUri))
	b.WriteString(theme.ColourSplash("\n╚──────────────────────────────────────────────────────╝"))

	if extendedInfo {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf(" Commit: %s\n", Commit))
		b.WriteString(fmt.Sprintf("  Built: %s\n", Date))
		b.WriteString(fmt.Sprintf("  Using: %s\n", User))
	}

	vlog.Println(b.String())
}
