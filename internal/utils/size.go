package utils

import (
	"fmt"
	"strings"
)

// kibibyte is the divisor used for kilobyte figures in summaries.
const kibibyte = 1024.0

// FormatKBValue renders a byte count as a bare two-decimal kilobyte number.
func FormatKBValue(bytes int64) string {
	return fmt.Sprintf("%.2f", float64(bytes)/kibibyte)
}

// FormatKB renders a byte count as a two-decimal kilobyte figure, the unit
// used throughout digest summaries.
func FormatKB(bytes int64) string {
	return FormatKBValue(bytes) + " KB"
}

// FormatFileSize converts a byte length into a human-readable lower-case unit string.
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		return "0b"
	}
	units := []string{"b", "kb", "mb", "gb", "tb", "pb"}
	value := float64(bytes)
	unitIndex := 0
	for value >= kibibyte && unitIndex < len(units)-1 {
		value /= kibibyte
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%db", bytes)
	}
	if value < 10 {
		formatted := strings.TrimSuffix(fmt.Sprintf("%.1f", value), ".0")
		return formatted + units[unitIndex]
	}
	return fmt.Sprintf("%.0f%s", value, units[unitIndex])
}
