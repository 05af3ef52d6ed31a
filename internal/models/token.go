package models

import "time"

// TokenResponse is returned by a successful login
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresIn   int       `json:"expiresIn"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenID     string    `json:"tokenId"`
	User        *User     `json:"user"`
}
