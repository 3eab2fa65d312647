// Package service implements the social endpoints over the match engine, access gate and sync manager
package service

import (
	"context"
	"strings"

	"xfriends/internal/core/match"
	"xfriends/internal/platform/cache"
	perr "xfriends/internal/platform/errors"
	"xfriends/internal/platform/logger"
	"xfriends/internal/services/api/social/domain"
	"xfriends/internal/services/matchlog"
	"xfriends/internal/services/snapshot"
)

// Public messages
const (
	msgMatchFailed     = "Failed to match Farcaster users"
	msgFollowingFailed = "Failed to fetch Twitter following list"
	msgSyncFailed      = "Failed to sync X list"
	msgSavedFailed     = "Failed to get saved X list"
	msgSynced          = "X list synced and saved successfully"
	msgUsingSaved      = "Using saved X list data"
	msgNoSaved         = "No saved X list data. Click sync to fetch."
)

// Deps are the service collaborators
type Deps struct {
	Engine    domain.Matcher
	Cache     *cache.Cache
	Gate      domain.Gate
	Snapshots domain.Snapshots
	Events    matchlog.Sink
}

// Service implements domain.ServicePort
type Service struct {
	d   Deps
	log logger.Logger
}

var _ domain.ServicePort = (*Service)(nil)

// New builds the service; a nil event sink discards events
func New(d Deps) *Service {
	if d.Events == nil {
		d.Events = matchlog.Nop{}
	}
	return &Service{d: d, log: *logger.Named("social")}
}

// Match resolves handles to directory profiles, serving a cached result per address when present
func (s *Service) Match(ctx context.Context, in domain.MatchInput) (domain.MatchOutput, error) {
	if in.TwitterHandles == nil {
		return domain.MatchOutput{}, perr.WithField(perr.Validationf("twitterHandles array is required"), "twitterHandles")
	}
	if len(in.TwitterHandles) == 0 {
		return domain.MatchOutput{Matches: []match.Record{}}, nil
	}

	owner := strings.ToLower(strings.TrimSpace(in.Address))
	if owner != "" {
		var cached []match.Record
		ok, err := s.d.Cache.Get(ctx, cache.MatchKey(owner), &cached)
		switch {
		case err != nil:
			logger.C(ctx).Warn().Err(err).Msg("match cache read failed")
		case ok:
			s.record(ctx, owner, len(in.TwitterHandles), len(cached), snapshot.SourceCache)
			return domain.MatchOutput{Matches: nonNil(cached), Count: len(cached), Source: string(snapshot.SourceCache)}, nil
		}
	}

	res, err := s.d.Engine.Match(ctx, in.TwitterHandles)
	if err != nil {
		logger.C(ctx).Error().Err(err).Int("handles", len(in.TwitterHandles)).Msg("match failed")
		return domain.MatchOutput{}, perr.Wrap(err, perr.ErrorCodeUpstream, msgMatchFailed)
	}

	if owner != "" && res.Count > 0 {
		if err := s.d.Cache.Set(ctx, cache.MatchKey(owner), res.Matches, cache.MatchTTL); err != nil {
			logger.C(ctx).Warn().Err(err).Msg("match cache write failed")
		}
	}
	s.record(ctx, owner, res.TotalSearched, res.Count, snapshot.SourceAPI)

	return domain.MatchOutput{
		Matches:       nonNil(res.Matches),
		Count:         res.Count,
		TotalSearched: res.TotalSearched,
		MatchRate:     res.MatchRate,
		Source:        string(snapshot.SourceAPI),
	}, nil
}

// Following returns the x following list once the access gate allows it
// caller is the signed in owner key when known; otherwise the list is keyed by the normalized username
func (s *Service) Following(ctx context.Context, caller string, in domain.FollowingInput) (domain.FollowingOutput, error) {
	if !s.d.Gate.VerifyAccess(ctx, strings.TrimSpace(in.Address), strings.TrimSpace(in.TxHash)) {
		return domain.FollowingOutput{}, perr.Forbiddenf("Payment required")
	}

	list, src, err := s.d.Snapshots.Following(ctx, caller, in.TwitterUsername, snapshot.FollowingLimit)
	if err != nil {
		logger.C(ctx).Error().Err(err).Str("username", in.TwitterUsername).Msg("following fetch failed")
		return domain.FollowingOutput{}, publicErr(err, msgFollowingFailed)
	}
	return domain.FollowingOutput{
		Data:     nonNil(list),
		Source:   string(src),
		Count:    len(list),
		Username: in.TwitterUsername,
	}, nil
}

// Sync builds or returns the owner's saved snapshot
func (s *Service) Sync(ctx context.Context, owner, username string) (domain.SyncOutput, error) {
	snap, src, err := s.d.Snapshots.Sync(ctx, owner, username)
	if err != nil {
		logger.C(ctx).Error().Err(err).Msg("sync failed")
		return domain.SyncOutput{}, publicErr(err, msgSyncFailed)
	}
	msg := msgSynced
	if src == snapshot.SourceCache {
		msg = msgUsingSaved
	}
	return domain.SyncOutput{Data: snap, Source: string(src), Message: msg}, nil
}

// Saved reads the owner's snapshot without fetching
func (s *Service) Saved(ctx context.Context, owner string) (domain.SavedOutput, error) {
	snap, ok, err := s.d.Snapshots.GetSnapshot(ctx, owner)
	if err != nil {
		logger.C(ctx).Error().Err(err).Msg("saved snapshot read failed")
		return domain.SavedOutput{}, perr.Wrap(err, perr.ErrorCodeUnknown, msgSavedFailed)
	}
	if !ok {
		return domain.SavedOutput{Message: msgNoSaved}, nil
	}
	return domain.SavedOutput{Data: &snap, HasSavedData: true}, nil
}

func (s *Service) record(ctx context.Context, owner string, searched, matched int, src snapshot.Source) {
	s.d.Events.Record(ctx, matchlog.Event{Owner: owner, Searched: searched, Matched: matched, Source: string(src)})
}

// publicErr keeps client errors as they are and hides everything else behind msg
// a rejected provider credential stays a 401 but loses the provider text
func publicErr(err error, msg string) error {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeValidation, perr.ErrorCodeInvalidArgument, perr.ErrorCodeForbidden, perr.ErrorCodeTooManyRequests:
		return err
	case perr.ErrorCodeUnauthorized:
		return perr.Wrap(err, perr.ErrorCodeUnauthorized, msg)
	}
	return perr.Wrap(err, perr.ErrorCodeUpstream, msg)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
