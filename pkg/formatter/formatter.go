package formatter

import (
	"fmt"
	"time"
)

// FormatBytes renders a byte count with a binary unit.
// Example: 1536 -> "1.5 KiB"
func FormatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := int64(n) / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FormatScore renders a clip score on the 0..10 scale.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f/10", score)
}

// FormatDuration drops sub-second noise: 2m0s, 15s.
func FormatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}
