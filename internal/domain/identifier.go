package domain

import (
	"strings"
	"unicode"
)

// DefaultCountry is used when a request does not name a country.
const DefaultCountry = "NA"

// IdentifierKind tells which user column an identifier is matched against.
type IdentifierKind string

const (
	IdentifierNationalID IdentifierKind = "national_id"
	IdentifierPhone      IdentifierKind = "phone"
	IdentifierEmail      IdentifierKind = "email"
)

// nationalIDLength is the length of a Namibian national ID number (YYMMDD + 5).
const nationalIDLength = 11

// ClassifyIdentifier guesses the kind of a raw identifier.
// Anything containing '@' is an email; a leading '+' or a leading zero marks a
// phone number; an 11-digit number is a national ID; other all-digit values are
// phone numbers; everything else (passport numbers etc.) is a national ID.
func ClassifyIdentifier(raw string) IdentifierKind {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, "@") {
		return IdentifierEmail
	}
	if strings.HasPrefix(s, "+") {
		return IdentifierPhone
	}

	digits := stripSeparators(s)
	if digits == "" || !isAllDigits(digits) {
		return IdentifierNationalID
	}
	if digits[0] != '0' && len(digits) == nationalIDLength {
		return IdentifierNationalID
	}
	return IdentifierPhone
}

// NormalizeIdentifier canonicalizes raw for matching against stored values.
func NormalizeIdentifier(kind IdentifierKind, raw string) string {
	s := strings.TrimSpace(raw)
	switch kind {
	case IdentifierEmail:
		return strings.ToLower(s)
	case IdentifierPhone:
		plus := strings.HasPrefix(s, "+")
		digits := stripSeparators(strings.TrimPrefix(s, "+"))
		if plus {
			return "+" + digits
		}
		return digits
	default:
		return strings.ToUpper(stripSeparators(s))
	}
}

// NormalizeCountry upper-cases a country code, falling back to DefaultCountry.
func NormalizeCountry(country string) string {
	c := strings.ToUpper(strings.TrimSpace(country))
	if c == "" {
		return DefaultCountry
	}
	return c
}

func stripSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ' ', '-', '(', ')', '.', '/':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
