package utils

import (
	"regexp"
	"strings"
)

// FormatPhoneNumber formats a phone number to a standard format
// Removes all non-digit characters and ensures it starts with country code
func FormatPhoneNumber(phoneNumber string) string {
	// Remove all non-digit characters
	re := regexp.MustCompile(`\D`)
	digits := re.ReplaceAllString(phoneNumber, "")

	// If it doesn't start with country code, assume Bangladesh (+880)
	if len(digits) > 0 && !strings.HasPrefix(digits, "880") {
		// Remove leading zeros
		digits = strings.TrimLeft(digits, "0")
		// Add Bangladesh country code
		digits = "880" + digits
	}

	return digits
}

// ValidatePhoneNumber validates if a phone number is a Bangladeshi mobile number.
// Local format is 11 digits, 01[3-9]XXXXXXXX; the leading 0 may be dropped or
// replaced by the 880 country code.
func ValidatePhoneNumber(phoneNumber string) bool {
	re := regexp.MustCompile(`\D`)
	cleaned := re.ReplaceAllString(phoneNumber, "")

	// Normalize to the 10-digit national significant number (1XXXXXXXXX)
	switch {
	case len(cleaned) == 13 && strings.HasPrefix(cleaned, "880"):
		cleaned = cleaned[3:]
	case len(cleaned) == 11 && strings.HasPrefix(cleaned, "0"):
		cleaned = cleaned[1:]
	}

	if len(cleaned) != 10 || cleaned[0] != '1' {
		return false
	}

	// Operator prefixes run 013 through 019
	secondDigit := cleaned[1]
	return secondDigit >= '3' && secondDigit <= '9'
}

// NormalizePhoneNumber normalizes phone number for database storage
func NormalizePhoneNumber(phoneNumber string) string {
	return FormatPhoneNumber(phoneNumber)
}

// DisplayPhoneNumber formats phone number for display
func DisplayPhoneNumber(phoneNumber string) string {
	formatted := FormatPhoneNumber(phoneNumber)
	if len(formatted) == 13 && strings.HasPrefix(formatted, "880") {
		// Format as +880 1X XXXX XXXX
		return "+" + formatted[:3] + " " + formatted[3:5] + " " + formatted[5:9] + " " + formatted[9:]
	}
	return phoneNumber
}
