// Package neynar talks to the farcaster directory through the neynar v2 API
package neynar

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"xfriends/internal/core/match"
	perr "xfriends/internal/platform/errors"
	"xfriends/internal/platform/upstream"
)

// DefaultBaseURL is the public neynar origin
const DefaultBaseURL = "https://api.neynar.com"

// Profile is a farcaster user as the directory reports it
type Profile = match.Profile

// VerifiedAccount is a linked account on a Profile
type VerifiedAccount = match.VerifiedAccount

// Options configures the Client
type Options struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RPS        float64
}

// Client is a thin neynar REST client
type Client struct {
	key  string
	base string
	up   *upstream.Client
}

// New builds a client
func New(o Options, opts ...upstream.Option) *Client {
	base := strings.TrimRight(o.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		key:  o.APIKey,
		base: base,
		up: upstream.New(upstream.Options{
			Name:       "neynar",
			Timeout:    o.Timeout,
			MaxRetries: o.MaxRetries,
			RPS:        o.RPS,
		}, opts...),
	}
}

func (c *Client) header() http.Header {
	h := http.Header{}
	h.Set("api_key", c.key)
	h.Set("Accept", "application/json")
	return h
}

// Search returns directory users whose username matches q, best first
func (c *Client) Search(ctx context.Context, q string) ([]Profile, error) {
	if strings.TrimSpace(q) == "" {
		return nil, perr.Validationf("search query is required")
	}
	u := c.base + "/v2/farcaster/user/search?" + url.Values{"q": {q}}.Encode()
	body, err := c.up.Get(ctx, u, c.header())
	if err != nil {
		return nil, err
	}
	var out struct {
		Result struct {
			Users []Profile `json:"users"`
		} `json:"result"`
	}
	if err := sonic.ConfigStd.Unmarshal(body, &out); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "malformed neynar payload")
	}
	return out.Result.Users, nil
}

// UserByFID returns the profile for fid; an unknown fid is (zero, false, nil)
func (c *Client) UserByFID(ctx context.Context, fid int64) (Profile, bool, error) {
	if fid <= 0 {
		return Profile{}, false, perr.Validationf("FID is required")
	}
	u := c.base + "/v2/farcaster/user/bulk?" + url.Values{"fids": {strconv.FormatInt(fid, 10)}}.Encode()
	body, err := c.up.Get(ctx, u, c.header())
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return Profile{}, false, nil
	}
	if err != nil {
		return Profile{}, false, err
	}
	var out struct {
		Users []Profile `json:"users"`
	}
	if err := sonic.ConfigStd.Unmarshal(body, &out); err != nil {
		return Profile{}, false, perr.Wrap(err, perr.ErrorCodeUpstream, "malformed neynar payload")
	}
	if len(out.Users) == 0 {
		return Profile{}, false, nil
	}
	return out.Users[0], true, nil
}

type followBody struct {
	SignerUUID string  `json:"signer_uuid"`
	TargetFIDs []int64 `json:"target_fids"`
}

// Follow makes the signer follow targetFID
func (c *Client) Follow(ctx context.Context, signerUUID string, targetFID int64) error {
	if signerUUID == "" {
		return perr.Validationf("signerUuid is required")
	}
	if targetFID <= 0 {
		return perr.Validationf("targetFid is required")
	}
	b, err := sonic.ConfigStd.Marshal(followBody{SignerUUID: signerUUID, TargetFIDs: []int64{targetFID}})
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "encode follow body")
	}
	_, err = c.up.PostJSON(ctx, c.base+"/v2/farcaster/user/follow", c.header(), b)
	return err
}
