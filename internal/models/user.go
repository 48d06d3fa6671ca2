package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fathima-sithara/social-connect/internal/platform"
)

// SocialAccount is a user's stored connection state for one platform.
// Credential fields are only meaningful while Connected is true; a
// disconnect resets the whole record to its zero value.
type SocialAccount struct {
	Connected         bool   `bson:"connected" json:"connected"`
	AccessToken       string `bson:"access_token,omitempty" json:"-"`
	AccessTokenSecret string `bson:"access_token_secret,omitempty" json:"-"`
	AccountID         string `bson:"account_id,omitempty" json:"account_id,omitempty"`
	AccountName       string `bson:"account_name,omitempty" json:"account_name,omitempty"`
}

// Credentials converts the stored record into the adapter input shape.
func (a SocialAccount) Credentials() platform.Credentials {
	return platform.Credentials{
		AccessToken:       a.AccessToken,
		AccessTokenSecret: a.AccessTokenSecret,
		AccountID:         a.AccountID,
		AccountName:       a.AccountName,
	}
}

type User struct {
	ID        primitive.ObjectID                   `bson:"_id,omitempty" json:"id"`
	Email     string                               `bson:"email" json:"email"`
	Password  string                               `bson:"password" json:"-"`
	Name      string                               `bson:"name" json:"name"`
	Accounts  map[platform.Platform]SocialAccount  `bson:"accounts" json:"accounts"`
	CreatedAt time.Time                            `bson:"created_at" json:"created_at"`
}

// NewAccounts returns the initial account map: every supported platform
// present and disconnected.
func NewAccounts() map[platform.Platform]SocialAccount {
	m := make(map[platform.Platform]SocialAccount, len(platform.Order))
	for _, p := range platform.Order {
		m[p] = SocialAccount{}
	}
	return m
}

// Account returns the stored record for a platform, zero-valued when the
// platform was never touched.
func (u *User) Account(p platform.Platform) SocialAccount {
	if u.Accounts == nil {
		return SocialAccount{}
	}
	return u.Accounts[p]
}

// AccountView is the sanitized shape returned to clients; tokens never
// leave the service.
type AccountView struct {
	Connected   bool   `json:"connected"`
	AccountID   string `json:"account_id,omitempty"`
	AccountName string `json:"account_name,omitempty"`
}

// AccountViews sanitizes the full account map for display.
func (u *User) AccountViews() map[platform.Platform]AccountView {
	out := make(map[platform.Platform]AccountView, len(platform.Order))
	for _, p := range platform.Order {
		a := u.Account(p)
		out[p] = AccountView{Connected: a.Connected, AccountID: a.AccountID, AccountName: a.AccountName}
	}
	return out
}
