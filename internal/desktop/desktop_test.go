package desktop

import (
	"errors"
	"testing"
)

func TestNotify(t *testing.T) {
	var calls []string
	n := &Notifier{enabled: true, notify: func(title, message string, _ any) error {
		calls = append(calls, title+"|"+message)
		return nil
	}}
	n.Notify("Canvas Daily Reminder", "2 assignments due soon")
	if len(calls) != 1 || calls[0] != "Canvas Daily Reminder|2 assignments due soon" {
		t.Fatalf("unexpected calls: %v", calls)
	}

	n.enabled = false
	n.Notify("x", "y")
	if len(calls) != 1 {
		t.Fatalf("disabled notifier must not notify")
	}

	n = &Notifier{enabled: true, notify: func(string, string, any) error { return errors.New("no dbus") }}
	n.Notify("x", "y")

	var nilNotifier *Notifier
	nilNotifier.Notify("x", "y")
}
