package usecase

import (
	"testing"

	testhelpers "github.com/polkiloo/rewardportal/internal/test"
)

func TestValidateCardNumber(t *testing.T) {
	valid := []string{
		"4111111111111111",
		"4111 1111 1111 1111",
		"5500-0000-0000-0004",
		"6011111111111117",
		"378282246310005",
	}
	for _, number := range valid {
		if !ValidateCardNumber(number) {
			t.Fatalf("expected number %s to be valid", number)
		}
	}

	invalid := []string{"", "123456", "abcdefabcdefabcd", "4111111111111112", "79927398713", "41111111111111111111"}
	for _, number := range invalid {
		if ValidateCardNumber(number) {
			t.Fatalf("expected number %s to be invalid", number)
		}
	}
}

func TestNormalizeCardNumber(t *testing.T) {
	if got := NormalizeCardNumber(" 4111 1111-1111 1111 "); got != "4111111111111111" {
		t.Fatalf("unexpected normalized number %q", got)
	}
}

func TestValidateCardNumberAcceptsGeneratedCards(t *testing.T) {
	for i := 0; i < 50; i++ {
		card := testhelpers.RandomCardNumber()
		if !ValidateCardNumber(card) {
			t.Fatalf("expected %s to pass the Luhn check", card)
		}
		last := card[len(card)-1]
		broken := card[:len(card)-1] + string('0'+(last-'0'+1)%10)
		if ValidateCardNumber(broken) {
			t.Fatalf("expected %s to fail the Luhn check", broken)
		}
	}
}
