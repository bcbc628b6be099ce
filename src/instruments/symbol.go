package instruments

import (
	"strings"
	"unicode"
)

// suffixSeparators start a broker-specific suffix: EURUSD.a, XAUUSD+, US500#, GER40_cash.
const suffixSeparators = ".+#_-!"

// CleanSymbol reduces a broker symbol to its base alphanumeric code:
// "XAU/USD" -> "XAUUSD", "EURUSD.m" -> "EURUSD", "EURUSDm" -> "EURUSD",
// "GBPJPY+" -> "GBPJPY", "EURUSD2" -> "EURUSD". Index codes that legitimately
// end in digits (US500, GER40) are left alone.
func CleanSymbol(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer("/", "", " ", "", "\u00a0", "").Replace(s)

	if i := strings.IndexAny(s, suffixSeparators); i > 0 {
		s = s[:i]
	}

	// Trailing lower-case micro/cent account markers ("m", "c", "pro").
	if strings.IndexFunc(s, unicode.IsUpper) >= 0 {
		s = strings.TrimRightFunc(s, unicode.IsLower)
	}

	s = strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToUpper(r)
		}
		return -1
	}, s)

	if _, ok := Lookup(s); ok || len(s) <= 6 {
		return s
	}
	head := s[:6]
	if _, ok := Lookup(head); ok {
		return head
	}
	if _, _, ok := SplitPair(head); ok {
		return head
	}
	return s
}
