// Package whatsapp builds click-to-chat links.
package whatsapp

import (
	"net/url"
	"strings"
	"unicode"
)

const baseURL = "https://wa.me/"

// ShareURL returns a wa.me link that opens a chat with phone prefilled with text.
// Ten digit numbers get the 91 country code. An empty phone lets the user pick a contact.
func ShareURL(phone, text string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)

	if len(digits) == 10 {
		digits = "91" + digits
	}

	q := url.Values{}
	q.Set("text", text)

	return baseURL + digits + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}
