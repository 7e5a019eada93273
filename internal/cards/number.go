package cards

import "strings"

// Digits strips everything but digits from a card number
func Digits(number string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
}

// FormatNumber groups the digits of number in blocks of four
func FormatNumber(number string) string {
	digits := Digits(number)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
