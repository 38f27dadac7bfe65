package format

import (
	"fmt"
	"time"
)

const (
	zeroPercent = "0%"
	unitStep    = 1024.0
)

// byteUnits are walked in order until the value drops below a single step,
// anything past TB is rendered as PB
var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// Bytes renders a byte count with one fractional digit, eg. 3826793472 => "3.6 GB"
func Bytes(bytes uint64) string {
	value := float64(bytes)
	for _, unit := range byteUnits {
		if value < unitStep {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= unitStep
	}
	return fmt.Sprintf("%.1f PB", value)
}

// Duration formats duration in a readable way
func Duration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

func Percentage(value float64) string {
	if value == 0 {
		return zeroPercent
	}
	if value == 100.0 {
		return "100%"
	}
	return fmt.Sprintf("%.1f%%", value)
}
