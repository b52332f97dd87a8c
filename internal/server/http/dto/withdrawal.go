package dto

import "github.com/polkiloo/rewardportal/internal/domain/model"

// WithdrawRequest describes the withdrawal form. The card number arrives as
// "data" from the HTML form.
type WithdrawRequest struct {
	CardNumber     string `form:"data" json:"card_number"`
	ExpirationDate string `form:"expiration_date" json:"expiration_date"`
	SecurityCode   string `form:"security_code" json:"security_code"`
	AccountName    string `form:"account_name" json:"account_name"`
	StreetAddress  string `form:"street_address" json:"street_address"`
	Country        string `form:"country" json:"country"`
	City           string `form:"city" json:"city"`
	State          string `form:"state" json:"state"`
	ZipCode        string `form:"zip_code" json:"zip_code"`
	PhoneNumber    string `form:"phone_number" json:"phone_number"`
	Amount         int64  `form:"amount" json:"amount"`
}

// Model converts the payload into the domain request.
func (r WithdrawRequest) Model() model.WithdrawalRequest {
	return model.WithdrawalRequest{
		Instrument: model.PaymentInstrument{
			CardNumber:     r.CardNumber,
			ExpirationDate: r.ExpirationDate,
			SecurityCode:   r.SecurityCode,
		},
		Address: model.BillingAddress{
			AccountName:   r.AccountName,
			StreetAddress: r.StreetAddress,
			Country:       r.Country,
			City:          r.City,
			State:         r.State,
			ZipCode:       r.ZipCode,
			PhoneNumber:   r.PhoneNumber,
		},
		Amount: r.Amount,
	}
}
