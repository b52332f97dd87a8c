package test

import (
	"math/rand/v2"
	"strings"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomString returns a lowercase alphanumeric string of length n.
func RandomString(n int) string {
	if n <= 0 {
		n = 1
	}
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(alphanumeric[rand.IntN(len(alphanumeric))])
	}
	return b.String()
}

// RandomEmail returns a unique-looking address under example.com.
func RandomEmail() string {
	return RandomString(10) + "@example.com"
}

// RandomCardNumber returns a 16 digit number with a valid Luhn check digit.
func RandomCardNumber() string {
	digits := make([]byte, 16)
	digits[0] = '4'
	for i := 1; i < 15; i++ {
		digits[i] = byte('0' + rand.IntN(10))
	}

	sum := 0
	for i := 14; i >= 0; i-- {
		d := int(digits[i] - '0')
		// Doubling starts at the digit left of the check digit.
		if (14-i)%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	digits[15] = byte('0' + (10-sum%10)%10)
	return string(digits)
}
