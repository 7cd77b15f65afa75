// Package desktop raises native OS notifications.
package desktop

import (
	"log"

	"github.com/gen2brain/beeep"
)

type Notifier struct {
	enabled bool
	notify  func(title, message string, icon any) error
}

func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled, notify: beeep.Notify}
}

// Notify is best-effort: failures are logged and otherwise ignored.
func (n *Notifier) Notify(title, message string) {
	if n == nil || !n.enabled {
		log.Printf("⚠️ Desktop notifications disabled")
		return
	}
	if err := n.notify(title, message, ""); err != nil {
		log.Printf("❌ Failed to send desktop notification: %v", err)
		return
	}
	log.Printf("🔔 Desktop notification sent: %s", title)
}
