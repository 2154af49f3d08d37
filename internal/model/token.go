package model

import "time"

// GoogleToken holds a user's OAuth credentials for the Forms API
type GoogleToken struct {
	UserID       string    `json:"userId" bson:"userId"`
	AccessToken  string    `json:"-" bson:"accessToken"`
	RefreshToken string    `json:"-" bson:"refreshToken"`
	TokenType    string    `json:"tokenType" bson:"tokenType"`
	Scope        string    `json:"scope" bson:"scope"`
	Expiry       time.Time `json:"expiry" bson:"expiry"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Expired reports whether the access token needs a refresh before use
func (t *GoogleToken) Expired(now time.Time) bool {
	return !t.Expiry.IsZero() && now.After(t.Expiry)
}
