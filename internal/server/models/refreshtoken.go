package models

import "time"

// RefreshToken is a server-stored opaque token exchanged for a new token pair.
type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}
