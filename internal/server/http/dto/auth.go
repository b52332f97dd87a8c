package dto

// SignupRequest describes the user signup form.
type SignupRequest struct {
	Username     string `form:"username" json:"username"`
	Email        string `form:"email" json:"email"`
	Password     string `form:"password" json:"password"`
	ReferralCode string `form:"referral_code" json:"referral_code"`
}

// AdminSignupRequest describes the administrator signup form.
type AdminSignupRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// LoginRequest describes email/password payload.
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// ErrorResponse is the JSON body returned for rejected requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CooldownResponse reports the remaining wait before the next claim.
type CooldownResponse struct {
	Error   string `json:"error"`
	Hours   int    `json:"hours"`
	Minutes int    `json:"minutes"`
}
