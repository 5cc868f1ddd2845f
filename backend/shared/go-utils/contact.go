package utils

import (
	"net/mail"
	"regexp"
	"strings"
)

var e164Regex = regexp.MustCompile(`^\+[1-9]\d{7,14}$`) // ITU-T E.164

var phoneNoise = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

// IsE164 reports basic E.164 compliance.
func IsE164(number string) bool { return e164Regex.MatchString(number) }

// NormalizePhoneE164 turns the loosely formatted numbers guests type into
// E.164, prefixing countryCode when none is given. ok is false when the
// result still is not E.164.
func NormalizePhoneE164(number, countryCode string) (string, bool) {
	n := phoneNoise.Replace(strings.TrimSpace(number))
	switch {
	case strings.HasPrefix(n, "+"):
	case strings.HasPrefix(n, "00"):
		n = "+" + n[2:]
	case strings.HasPrefix(n, "0"):
		n = "+" + countryCode + n[1:]
	case len(n) == 10:
		n = "+" + countryCode + n
	default:
		n = "+" + n
	}
	return n, IsE164(n)
}

// IsValidEmailSyntax does RFC-5322-ish syntax only (no DNS).
func IsValidEmailSyntax(e string) bool {
	_, err := mail.ParseAddress(e)
	return err == nil
}
