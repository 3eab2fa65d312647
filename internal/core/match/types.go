package match

import "xfriends/internal/core/handle"

// VerifiedAccount is a platform account a directory profile claims
type VerifiedAccount struct {
	Platform string `json:"platform"`
	Username string `json:"username"`
}

// Profile is a directory (farcaster) user
type Profile struct {
	FID              int64             `json:"fid"`
	Username         string            `json:"username"`
	DisplayName      string            `json:"display_name"`
	PfpURL           string            `json:"pfp_url"`
	FollowerCount    int64             `json:"follower_count"`
	FollowingCount   int64             `json:"following_count"`
	VerifiedAccounts []VerifiedAccount `json:"verified_accounts,omitempty"`
}

// Record pairs a source handle with the profile it resolved to
type Record struct {
	TwitterHandle string  `json:"twitterHandle"`
	FarcasterUser Profile `json:"farcasterUser"`
}

// Resolved is an insertion-ordered handle to profile mapping
// a handle is present only if it resolved
type Resolved struct {
	order []handle.Handle
	by    map[handle.Handle]Profile
}

// NewResolved returns an empty mapping sized for n handles
func NewResolved(n int) *Resolved {
	return &Resolved{order: make([]handle.Handle, 0, n), by: make(map[handle.Handle]Profile, n)}
}

// Put records p for h; the first insertion position is kept on overwrite
func (r *Resolved) Put(h handle.Handle, p Profile) {
	if _, ok := r.by[h]; !ok {
		r.order = append(r.order, h)
	}
	r.by[h] = p
}

// Get returns the profile resolved for h
func (r *Resolved) Get(h handle.Handle) (Profile, bool) {
	if r == nil {
		return Profile{}, false
	}
	p, ok := r.by[h]
	return p, ok
}

// Len is the number of resolved handles
func (r *Resolved) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Handles returns the resolved handles in insertion order
func (r *Resolved) Handles() []handle.Handle {
	if r == nil {
		return nil
	}
	out := make([]handle.Handle, len(r.order))
	copy(out, r.order)
	return out
}

// Each visits entries in insertion order until fn returns false
func (r *Resolved) Each(fn func(handle.Handle, Profile) bool) {
	if r == nil {
		return
	}
	for _, h := range r.order {
		if !fn(h, r.by[h]) {
			return
		}
	}
}
