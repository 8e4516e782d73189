// Package relay publishes announcement payloads on per-event subjects
// ("<prefix>.<eventID>.announcements") and delivers them to subscribers.
package relay

import (
	"context"
	"strings"
)

const announcementsSuffix = "announcements"

// Handler receives one relayed payload
type Handler func(eventID string, payload []byte)

// Publisher hands payloads to the relay. Delivery is best-effort.
type Publisher interface {
	Publish(ctx context.Context, eventID string, payload []byte) error
}

// Subscriber delivers every announcement payload to a handler until the returned stop function is called
type Subscriber interface {
	Subscribe(handler Handler) (stop func() error, err error)
}

// Subject returns the announcement subject for an event
func Subject(prefix, eventID string) string {
	return prefix + "." + eventID + "." + announcementsSuffix
}

// Wildcard returns the subject pattern matching every event's announcements
func Wildcard(prefix string) string {
	return prefix + ".*." + announcementsSuffix
}

// EventIDFromSubject extracts the event id from an announcement subject
func EventIDFromSubject(prefix, subject string) (string, bool) {
	rest, ok := strings.CutPrefix(subject, prefix+".")
	if !ok {
		return "", false
	}
	eventID, ok := strings.CutSuffix(rest, "."+announcementsSuffix)
	if !ok || eventID == "" || strings.Contains(eventID, ".") {
		return "", false
	}
	return eventID, true
}
