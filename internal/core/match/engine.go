// Package match ranks resolved directory profiles against a list of source handles
package match

import (
	"context"
	"fmt"
	"sort"

	"xfriends/internal/core/handle"
)

// Resolver looks up directory profiles for handles; unresolved handles are simply absent
type Resolver interface {
	ResolveBatch(ctx context.Context, hs []handle.Handle) (*Resolved, error)
}

// Result is the ranked outcome of one match call
type Result struct {
	Matches       []Record `json:"matches"`
	Count         int      `json:"count"`
	TotalSearched int      `json:"total_searched"`
	MatchRate     string   `json:"match_rate"`
}

// Engine combines resolver output into ranked records
type Engine struct {
	r Resolver
}

// New returns an engine over r
func New(r Resolver) *Engine { return &Engine{r: r} }

// Match normalizes raw, resolves the distinct valid handles once, and ranks the hits
// by follower count descending with ties kept in input order
func (e *Engine) Match(ctx context.Context, raw []string) (Result, error) {
	res := Result{Matches: []Record{}, TotalSearched: len(raw)}
	hs := handle.NormalizeAll(raw)
	if len(hs) == 0 {
		res.MatchRate = Rate(0, res.TotalSearched)
		return res, nil
	}

	resolved, err := e.r.ResolveBatch(ctx, hs)
	if err != nil {
		return Result{}, err
	}

	res.Matches = Rank(hs, resolved)
	res.Count = len(res.Matches)
	res.MatchRate = Rate(res.Count, res.TotalSearched)
	return res, nil
}

// Rank builds one record per distinct fid in hs order and sorts them by follower count
func Rank(hs []handle.Handle, resolved *Resolved) []Record {
	out := make([]Record, 0, resolved.Len())
	seen := make(map[int64]struct{}, resolved.Len())
	for _, h := range hs {
		p, ok := resolved.Get(h)
		if !ok {
			continue
		}
		if _, dup := seen[p.FID]; dup {
			continue
		}
		seen[p.FID] = struct{}{}
		p.VerifiedAccounts = nil
		out = append(out, Record{TwitterHandle: string(h), FarcasterUser: p})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FarcasterUser.FollowerCount > out[j].FarcasterUser.FollowerCount
	})
	return out
}

// Rate formats matched/searched as a one-decimal percentage
func Rate(matched, searched int) string {
	if searched <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(matched)/float64(searched)*100)
}
