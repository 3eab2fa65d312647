package httpkit

import (
	"net/http"
	"strings"

	perr "xfriends/internal/platform/errors"
)

// TokenFunc resolves a session token to the caller owner key and x handle
type TokenFunc func(token string) (owner, handle string, err error)

var errSignIn = perr.Unauthorizedf("Please sign in with Twitter first")

// Port reads the Authorization bearer token and satisfies middleware.AuthPort
type Port struct{ verify TokenFunc }

func NewPortFunc(fn TokenFunc) *Port { return &Port{verify: fn} }

// Parse returns the caller; every failure, including a rejected token, is the same sign in error
func (p *Port) Parse(r *http.Request) (string, string, error) {
	scheme, token, _ := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	token = strings.TrimSpace(token)
	if !strings.EqualFold(scheme, "bearer") || token == "" || p.verify == nil {
		return "", "", errSignIn
	}
	owner, handle, err := p.verify(token)
	if err != nil {
		return "", "", errSignIn
	}
	return owner, handle, nil
}
