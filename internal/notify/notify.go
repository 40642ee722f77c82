// Package notify sends fire-and-forget desktop notifications.
package notify

import "github.com/gen2brain/beeep"

const appTitle = "cloudup"

// Send shows a desktop notification. Delivery is best effort: environments
// without a notification daemon simply drop the message, and the caller is
// never interrupted.
func Send(title, message string) {
	_ = beeep.Notify(appTitle+": "+title, message, "")
}
