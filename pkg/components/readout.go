package components

import (
	"fmt"
	"strings"
	"time"
)

// Readout formats the time left in a cycle next to the cycle length, for
// example "12.4s / 30s" or "4:05 / 25m".
func Readout(remaining, interval time.Duration) string {
	return FormatRemaining(remaining) + " / " + FormatInterval(interval)
}

// FormatRemaining shows tenths of a second below a minute, m:ss below an
// hour and h:mm:ss above. Negative values print as zero.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		// Round down so the readout never shows more than is left.
		tenths := d / (100 * time.Millisecond)
		return fmt.Sprintf("%d.%ds", tenths/10, tenths%10)
	}
	secs := int64(d / time.Second)
	h, m, s := secs/3600, secs/60%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatInterval prints d like time.Duration.String without zero trailing
// units: "30s", "25m", "1h30m".
func FormatInterval(d time.Duration) string {
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return s
}
