package httpkit

import (
	"net/http"

	pnet "xfriends/internal/platform/net"
)

// Caller returns the signed in owner key and x handle from the request context
func Caller(r *http.Request) (owner string, handle string, err error) {
	owner = pnet.Owner(r.Context())
	if owner == "" {
		return "", "", errSignIn
	}
	return owner, pnet.Handle(r.Context()), nil
}
