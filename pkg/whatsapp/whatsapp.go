// Package whatsapp builds wa.me deep links used to nudge the next actor on a
// request. Sending the message is the user's job; the app only prepares the link.
package whatsapp

import (
	"errors"
	"net/url"
	"strings"
)

const baseURL = "https://wa.me/"

// DeepLink returns a wa.me URL that opens a chat with the given phone number and
// a prefilled message. The phone number may contain formatting characters
// ("+49 170 1234567"); everything but digits is stripped.
func DeepLink(phone, text string) (string, error) {
	digits := normalizePhone(phone)
	if digits == "" {
		return "", errors.New("phone number has no digits")
	}

	link := baseURL + digits
	if text != "" {
		link += "?text=" + url.QueryEscape(text)
	}
	return link, nil
}

func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
