package domain

// Session is the identity snapshot the UI uses to render "who is logged in".
// It is created on successful OTP verification, enriched when a fuller
// profile is fetched, and destroyed on logout. A Session existing implies
// a bearer token exists in durable storage - the token is the proof of
// authentication, the Session is only the display cache.
type Session struct {
	UserID      string `json:"id"`
	DisplayName string `json:"name"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// UserRecord is the remote backend's user shape, returned by both the
// user-get and user-update endpoints.
type UserRecord struct {
	ID          string       `json:"_id"`
	Email       string       `json:"email"`
	FirstName   string       `json:"firstName,omitempty"`
	LastName    string       `json:"lastName,omitempty"`
	Role        string       `json:"role"`
	ProfileData *ProfileData `json:"profileData,omitempty"`
	CreatedAt   string       `json:"createdAt,omitempty"`
	UpdatedAt   string       `json:"updatedAt,omitempty"`
}

// AuthResponse is the verify-otp endpoint's success payload. Callers must
// check AccessToken for presence, not merely a success status: the backend
// can answer 200 without a token, and no session may be created then.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"_id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}
