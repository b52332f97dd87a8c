package referral

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
)

func TestPrefix(t *testing.T) {
	cases := map[string]string{
		"alice@example.com":                 "alice",
		"John.Doe+promo@mail.io":            "johndoepromo",
		"@example.com":                      "user",
		"ü.ñ@example.com":                   "user",
		"averyveryverylongaddress@mail.com": "averyveryverylon",
		"plain":                             "plain",
	}
	for email, want := range cases {
		if got := Prefix(email); got != want {
			t.Errorf("Prefix(%q) = %q, want %q", email, got, want)
		}
	}
}

func TestGenerateFormat(t *testing.T) {
	gen := NewGenerator()
	pattern := regexp.MustCompile(`^alice[0-9]{6}$`)
	for i := 0; i < 20; i++ {
		code, err := gen.Generate("alice@example.com")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("unexpected code %q", code)
		}
	}
}

func TestGenerateDeterministicSource(t *testing.T) {
	gen := NewGeneratorWithSource(bytes.NewReader(make([]byte, 64)))
	code, err := gen.Generate("bob@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if code != "bob000000" {
		t.Fatalf("unexpected code %q", code)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestGenerateSourceError(t *testing.T) {
	gen := NewGeneratorWithSource(failingReader{})
	if _, err := gen.Generate("bob@example.com"); err == nil {
		t.Fatal("expected error from failing source")
	}
}

func TestNewCodeGenerator(t *testing.T) {
	gen, ok := newCodeGenerator().(*Generator)
	if !ok {
		t.Fatalf("expected *Generator, got %T", newCodeGenerator())
	}
	if gen.random == nil {
		t.Fatal("expected random source")
	}
}
