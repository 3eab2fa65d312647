// Package twitter fetches follow lists from the x data providers
// Providers differ in endpoint and payload shape; each is a strategy registered by id
package twitter

import (
	"net/http"
	"net/url"
	"slices"
	"sync"

	perr "xfriends/internal/platform/errors"
)

// Direction selects which side of the follow graph to read
type Direction string

// Directions
const (
	Following Direction = "following"
	Followers Direction = "followers"
)

// Valid reports whether d is a known direction
func (d Direction) Valid() bool { return d == Following || d == Followers }

// Identity is one x account as the providers report it
type Identity struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

// Page is one parsed provider response
// Next is empty when the provider has no further pages
type Page struct {
	Users []Identity
	Next  string
}

// Credentials are whatever a provider needs to authorize a request
type Credentials struct {
	APIKey      string
	Host        string
	BearerToken string
}

// Provider knows one service's endpoints and payloads
type Provider interface {
	ID() string
	BaseURL() string
	Endpoint(dir Direction, subject string, count int, cursor string) (string, url.Values)
	Parse(dir Direction, body []byte) (Page, error)
	Authorize(h http.Header)
}

// Profiler is implemented by providers that can look up a single account
type Profiler interface {
	ProfileEndpoint(username string) (string, url.Values)
	ParseProfile(body []byte) (Identity, bool, error)
}

// SubjectResolver is implemented by providers whose list endpoints take an id rather than a username
type SubjectResolver interface {
	SubjectEndpoint(username string) (string, url.Values)
	ParseSubject(body []byte) (string, error)
}

// Factory builds a provider from credentials
type Factory func(Credentials) Provider

var (
	regMu    sync.RWMutex
	registry = map[string]Factory{}
)

// Register adds or replaces a provider factory
func Register(id string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[id] = f
}

// Lookup returns the factory registered for id
func Lookup(id string) (Factory, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	f, ok := registry[id]
	return f, ok
}

// IDs lists registered provider ids in sorted order
func IDs() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// NewProvider builds the provider registered for id
func NewProvider(id string, cred Credentials) (Provider, error) {
	f, ok := Lookup(id)
	if !ok {
		return nil, perr.InvalidArgf("unknown x provider %q", id)
	}
	return f(cred), nil
}
