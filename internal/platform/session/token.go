// Package session verifies the caller identity tokens minted by the front end after x sign in
//
// A token is base64url(twitterId "|" twitterUsername) "." hex(hmac-sha256(secret, payload))
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"

	perr "xfriends/internal/platform/errors"
)

// ErrSignIn is returned for any missing or invalid token
var ErrSignIn = perr.Unauthorizedf("Please sign in with Twitter first")

// Signer mints and verifies tokens with a shared secret
type Signer struct {
	secret []byte
}

// New returns a Signer; an empty secret rejects every token
func New(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign mints a token for the given x account
func (s *Signer) Sign(twitterID, username string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(twitterID + "|" + username))
	return payload + "." + s.mac(payload)
}

// Verify checks the signature and returns the owner key and x handle
// owner is the twitter id, falling back to the username when the id is empty
func (s *Signer) Verify(token string) (owner string, handle string, err error) {
	if len(s.secret) == 0 {
		return "", "", ErrSignIn
	}
	payload, sig, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || payload == "" || sig == "" {
		return "", "", ErrSignIn
	}
	want, err := hex.DecodeString(s.mac(payload))
	if err != nil {
		return "", "", ErrSignIn
	}
	got, err := hex.DecodeString(sig)
	if err != nil || !hmac.Equal(got, want) {
		return "", "", ErrSignIn
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", "", ErrSignIn
	}
	id, username, _ := strings.Cut(string(raw), "|")
	owner = id
	if owner == "" {
		owner = username
	}
	if owner == "" {
		return "", "", ErrSignIn
	}
	return owner, username, nil
}

func (s *Signer) mac(payload string) string {
	m := hmac.New(sha256.New, s.secret)
	m.Write([]byte(payload))
	return hex.EncodeToString(m.Sum(nil))
}
