// Package ics renders bookings as iCalendar files so a confirmed rental can
// be added to the customer's calendar.
package ics

import (
	"strings"
	"time"
)

// Event is one calendar entry.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

const stampLayout = "20060102T150405Z"

// Calendar renders a VCALENDAR with the given events. Lines use CRLF endings
// and all timestamps are emitted in UTC, as RFC 5545 requires.
func Calendar(prodID string, now time.Time, events ...Event) []byte {
	var b strings.Builder
	line(&b, "BEGIN:VCALENDAR")
	line(&b, "VERSION:2.0")
	line(&b, "PRODID:"+prodID)
	line(&b, "CALSCALE:GREGORIAN")
	line(&b, "METHOD:PUBLISH")

	stamp := now.UTC().Format(stampLayout)
	for _, ev := range events {
		line(&b, "BEGIN:VEVENT")
		line(&b, "UID:"+escape(ev.UID))
		line(&b, "DTSTAMP:"+stamp)
		line(&b, "DTSTART:"+ev.Start.UTC().Format(stampLayout))
		line(&b, "DTEND:"+ev.End.UTC().Format(stampLayout))
		line(&b, "SUMMARY:"+escape(ev.Summary))
		if ev.Description != "" {
			line(&b, "DESCRIPTION:"+escape(ev.Description))
		}
		if ev.Location != "" {
			line(&b, "LOCATION:"+escape(ev.Location))
		}
		line(&b, "END:VEVENT")
	}
	line(&b, "END:VCALENDAR")
	return []byte(b.String())
}

func line(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteString("\r\n")
}

// escape quotes the characters RFC 5545 reserves in text values.
func escape(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
