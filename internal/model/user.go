package model

import "time"

// User represents a registered account. Either RSSToken (plain) or
// RSSTokenHash (sha256 hex, token shown once at creation) is populated,
// depending on the RSS_TOKEN_HASH_ONLY setting at registration time.
type User struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	PasswordHash      string    `json:"-"`
	RSSToken          string    `json:"rssToken,omitempty"`
	RSSTokenHash      string    `json:"-"`
	ServerChanSendKey string    `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
}
