package referral

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
	"unicode"
)

const (
	maxPrefixLen  = 16
	suffixDigits  = 6
	fallbackLocal = "user"
)

var suffixRange = big.NewInt(1_000_000)

// CodeGenerator produces candidate referral codes for a new account.
type CodeGenerator interface {
	Generate(email string) (string, error)
}

// Generator derives referral codes from an email address and a random suffix.
type Generator struct {
	random io.Reader
}

// NewGenerator returns a Generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{random: rand.Reader}
}

// NewGeneratorWithSource returns a Generator reading randomness from r.
func NewGeneratorWithSource(r io.Reader) *Generator {
	return &Generator{random: r}
}

// Generate builds a code such as "alice042917" for alice@example.com.
func (g *Generator) Generate(email string) (string, error) {
	n, err := rand.Int(g.random, suffixRange)
	if err != nil {
		return "", fmt.Errorf("referral suffix: %w", err)
	}
	return fmt.Sprintf("%s%0*d", Prefix(email), suffixDigits, n.Int64()), nil
}

// Prefix returns the lower-cased alphanumeric part of the email local part.
func Prefix(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}

	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			continue
		}
		b.WriteRune(r)
		if b.Len() == maxPrefixLen {
			break
		}
	}
	if b.Len() == 0 {
		return fallbackLocal
	}
	return b.String()
}
