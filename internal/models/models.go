// Package models declares the JSON request and response shapes of the HTTP
// surface.
package models

// CredentialsRequest is the body of POST /signup and POST /login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the success body of POST /signup and POST /login.
type UserResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// UserInfoResponse is the success body of GET /user.
type UserInfoResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"created_at"`
}

// AddLinkRequest is the body of POST /add.
type AddLinkRequest struct {
	URL       string `json:"url"`
	Code      string `json:"code,omitempty"`
	ExpiresIn string `json:"expires_in,omitempty"`
}

// AddLinkResponse is the success body of POST /add. ExpiresAt is null when
// the link never expires.
type AddLinkResponse struct {
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
	ExpiresAt   *int64 `json:"expires_at"`
}

// DeleteLinkRequest is the body of POST /delete.
type DeleteLinkRequest struct {
	Code string `json:"code"`
}

// UserLinkResponse is one entry of the GET /links response array.
type UserLinkResponse struct {
	ShortCode string `json:"short_code"`
	URL       string `json:"url"`
	CreatedAt int64  `json:"created_at"`
	ExpiresAt *int64 `json:"expires_at"`
	IsExpired bool   `json:"is_expired"`
}

// ErrorResponse is the body of every failure response.
type ErrorResponse struct {
	Error string `json:"error"`
}
