package twitter

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"xfriends/internal/core/handle"
	perr "xfriends/internal/platform/errors"
	"xfriends/internal/platform/logger"
	"xfriends/internal/platform/upstream"
)

const (
	// DefaultLimit is used when a caller passes a non positive limit
	DefaultLimit = 100
	// maxPages bounds pagination against providers that keep handing out cursors
	maxPages = 50
	maxBody  = 8 << 20
)

// Options configures the Client
type Options struct {
	Provider string
	Credentials

	// BaseURL overrides the provider's default origin
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RPS        float64
}

// Client fetches follow lists through one provider
type Client struct {
	prov Provider
	base string
	up   *upstream.Client
	log  logger.Logger
}

// New builds a client for the configured provider
func New(o Options, opts ...upstream.Option) (*Client, error) {
	if o.Provider == "" {
		o.Provider = Twitter241
	}
	p, err := NewProvider(o.Provider, o.Credentials)
	if err != nil {
		return nil, err
	}
	base := strings.TrimRight(o.BaseURL, "/")
	if base == "" {
		base = p.BaseURL()
	}
	up := upstream.New(upstream.Options{
		Name:       "x-" + p.ID(),
		Timeout:    o.Timeout,
		MaxRetries: o.MaxRetries,
		RPS:        o.RPS,
		MaxBody:    maxBody,
	}, opts...)
	return &Client{prov: p, base: base, up: up, log: *logger.Named("twitter")}, nil
}

// Provider returns the active provider id
func (c *Client) Provider() string { return c.prov.ID() }

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	h := http.Header{}
	c.prov.Authorize(h)
	return c.up.Get(ctx, u, h)
}

// FetchFollowList pages through dir for h until limit accounts are collected or the provider runs dry
// any page failure fails the whole call; nothing partial is returned
func (c *Client) FetchFollowList(ctx context.Context, h handle.Handle, dir Direction, limit int) ([]Identity, error) {
	if !h.Valid() {
		return nil, perr.Validationf("invalid x handle")
	}
	if !dir.Valid() {
		return nil, perr.Validationf("invalid direction %q", dir)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	subject := string(h)
	if sr, ok := c.prov.(SubjectResolver); ok {
		path, q := sr.SubjectEndpoint(subject)
		body, err := c.get(ctx, path, q)
		if err != nil {
			return nil, err
		}
		if subject, err = sr.ParseSubject(body); err != nil {
			return nil, err
		}
	}

	out := make([]Identity, 0, min(limit, 1000))
	cursor := ""
	for page := 0; page < maxPages && len(out) < limit; page++ {
		path, q := c.prov.Endpoint(dir, subject, limit-len(out), cursor)
		body, err := c.get(ctx, path, q)
		if err != nil {
			return nil, err
		}
		p, err := c.prov.Parse(dir, body)
		if err != nil {
			return nil, err
		}
		out = append(out, p.Users...)

		if p.Next == "" || p.Next == cursor || len(p.Users) == 0 {
			break
		}
		cursor = p.Next
	}

	if len(out) > limit {
		out = out[:limit]
	}
	c.log.Debug().Str("handle", string(h)).Str("direction", string(dir)).Int("count", len(out)).Msg("x follow list fetched")
	return out, nil
}

// Usernames projects identities onto their usernames
func Usernames(ids []Identity) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Username
	}
	return out
}

// Profile looks up one account; a missing account is (zero, false, nil)
func (c *Client) Profile(ctx context.Context, h handle.Handle) (Identity, bool, error) {
	if !h.Valid() {
		return Identity{}, false, perr.Validationf("invalid x handle")
	}
	pr, ok := c.prov.(Profiler)
	if !ok {
		return Identity{}, false, perr.InvalidArgf("provider %s has no profile lookup", c.prov.ID())
	}
	path, q := pr.ProfileEndpoint(string(h))
	body, err := c.get(ctx, path, q)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, err
	}
	return pr.ParseProfile(body)
}
