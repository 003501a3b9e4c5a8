package utils

import "fmt"

var byteUnits = []string{"", "K", "M", "G", "T", "P"}

// FormatBytes renders a byte count with binary prefixes, e.g. "1.50 GB"
func FormatBytes(size int64) string {
	value := float64(size)
	n := 0
	for value > 1024 && n < len(byteUnits)-1 {
		value /= 1024
		n++
	}
	return fmt.Sprintf("%.2f %sB", value, byteUnits[n])
}

// FormatSeedTime renders a duration in seconds as "3d 4h", "2h 15m", "5m" or "0s"
func FormatSeedTime(seconds int64) string {
	if seconds <= 0 {
		return "0s"
	}

	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// FormatRatio renders a seed ratio with two decimals
func FormatRatio(ratio float64) string {
	return fmt.Sprintf("%.2f", ratio)
}
