package util

import (
	"fmt"
	"net/url"
	"time"
)

// OrDash returns the string if non-empty, otherwise returns "-".
func OrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// FormatBytes formats bytes in a human-readable format
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// TruncateURL shortens a hosted-image URL for table display, keeping the
// tail of its path where the file name lives.
func TruncateURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Path == "" {
		if len(rawURL) > 35 {
			return "..." + rawURL[len(rawURL)-35:]
		}
		return rawURL
	}

	path := parsed.Path
	if len(path) > 30 {
		return "..." + path[len(path)-30:]
	}
	return path
}

// RelativeTime renders when in terms relative to now ("5m ago"). Older than
// a week falls back to the full local timestamp.
func RelativeTime(when time.Time) string {
	diff := time.Since(when)

	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return FormatLocal(when)
}

// FormatLocal renders a timestamp in the user's locale.
func FormatLocal(when time.Time) string {
	return when.Local().Format("2006-01-02 15:04:05")
}
