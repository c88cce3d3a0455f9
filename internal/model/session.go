package model

import "time"

// AuthSession is the persisted, process-wide login state
type AuthSession struct {
	Provider      string    `json:"provider"`
	Address       string    `json:"address"`
	IsLoggedIn    bool      `json:"isLoggedIn"`
	Username      string    `json:"username,omitempty"`
	ProfilePicURL string    `json:"profilePicUrl,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// HasProfile reports whether the cached profile fields are filled
func (s AuthSession) HasProfile() bool {
	return s.Username != "" && s.ProfilePicURL != ""
}

// Profile is the user profile returned by the profile service
type Profile struct {
	Username      string `json:"username"`
	ProfilePicURL string `json:"profilePicUrl"`
}

// SessionResponse represents response for GET /auth/session
type SessionResponse struct {
	Status  string      `json:"status"`
	Session AuthSession `json:"session"`
	Message string      `json:"message,omitempty"`
}
