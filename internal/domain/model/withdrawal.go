package model

import (
	"strings"
	"time"
)

// WithdrawalStatus describes review lifecycle of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "Pending"
	WithdrawalStatusApproved WithdrawalStatus = "Approved"
)

// PaymentInstrument holds the card the payout is sent to.
type PaymentInstrument struct {
	CardNumber     string
	ExpirationDate string
	SecurityCode   string
}

// MaskedCardNumber hides every digit but the last four.
func (p PaymentInstrument) MaskedCardNumber() string {
	digits := strings.ReplaceAll(p.CardNumber, " ", "")
	if len(digits) <= 4 {
		return digits
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

// BillingAddress holds the account holder's billing details.
type BillingAddress struct {
	AccountName   string
	StreetAddress string
	Country       string
	City          string
	State         string
	ZipCode       string
	PhoneNumber   string
}

// WithdrawalRequest is the user supplied payout request.
type WithdrawalRequest struct {
	Instrument PaymentInstrument
	Address    BillingAddress
	Amount     int64
}

// Withdrawal represents a stored payout request.
type Withdrawal struct {
	ID         int64
	UserID     int64
	Instrument PaymentInstrument
	Address    BillingAddress
	Amount     int64
	Status     WithdrawalStatus
	CreatedAt  time.Time
	ApprovedAt *time.Time
}
