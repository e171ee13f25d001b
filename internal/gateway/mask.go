package gateway

import (
	"net/url"
	"strings"
)

const _visibleCardDigits = 4

// MaskCardNumber keeps only the last four digits of a card number.
func MaskCardNumber(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	if len(digits) <= _visibleCardDigits {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-_visibleCardDigits) + digits[len(digits)-_visibleCardDigits:]
}

var _secretFields = map[string]bool{
	"cvv":          true,
	"hash":         true,
	"paytr_token":  true,
	"expiry_month": true,
	"expiry_year":  true,
}

// Redact flattens form values for logs and audit rows. Signatures and card
// security data are dropped and the card number is masked.
func Redact(form url.Values) map[string]string {
	out := make(map[string]string, len(form))
	for key := range form {
		value := form.Get(key)
		switch {
		case _secretFields[key]:
			continue
		case key == "cc_number" || key == "card_number":
			out[key] = MaskCardNumber(value)
		default:
			out[key] = value
		}
	}
	return out
}
