// Package service implements profile lookups and follows against the identity directory
package service

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"xfriends/internal/core/match"
	"xfriends/internal/platform/cache"
	perr "xfriends/internal/platform/errors"
	"xfriends/internal/platform/logger"
	"xfriends/internal/services/api/directory/domain"
)

// Service implements domain.ServicePort
type Service struct {
	dir   domain.Directory
	cache *cache.Cache
	sf    singleflight.Group
}

var _ domain.ServicePort = (*Service)(nil)

// New returns a service over dir, caching profiles in c
func New(dir domain.Directory, c *cache.Cache) *Service {
	return &Service{dir: dir, cache: c}
}

// ParseFID reads a positive fid
func ParseFID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, perr.WithField(perr.Validationf("FID is required"), "id")
	}
	fid, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || fid <= 0 {
		return 0, perr.WithField(perr.Validationf("FID must be a positive integer"), "id")
	}
	return fid, nil
}

// User returns the profile for a fid, reading through the profile cache
// unknown fids are not cached
func (s *Service) User(ctx context.Context, rawID string) (domain.UserOutput, error) {
	fid, err := ParseFID(rawID)
	if err != nil {
		return domain.UserOutput{}, err
	}

	key := cache.ProfileKey(fid)
	p, ok, err := cache.GetAs[match.Profile](ctx, s.cache, key)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Int64("fid", fid).Msg("profile cache read failed")
	}
	if ok {
		return domain.UserOutput{User: &p}, nil
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		p, found, err := s.dir.UserByFID(ctx, fid)
		if err != nil || !found {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, p, cache.ProfileTTL); err != nil {
			logger.C(ctx).Warn().Err(err).Int64("fid", fid).Msg("profile cache write failed")
		}
		return &p, nil
	})
	if err != nil {
		logger.C(ctx).Error().Err(err).Int64("fid", fid).Msg("profile lookup failed")
		return domain.UserOutput{}, perr.Wrap(err, perr.ErrorCodeUpstream, "Failed to fetch Farcaster user")
	}
	out, _ := v.(*match.Profile)
	return domain.UserOutput{User: out}, nil
}

// Follow makes the signer follow the target
func (s *Service) Follow(ctx context.Context, in domain.FollowInput) (domain.FollowOutput, error) {
	if err := s.dir.Follow(ctx, strings.TrimSpace(in.SignerKey), in.TargetID); err != nil {
		logger.C(ctx).Error().Err(err).Int64("target", in.TargetID).Msg("follow failed")
		if perr.IsCode(err, perr.ErrorCodeValidation) {
			return domain.FollowOutput{}, err
		}
		return domain.FollowOutput{}, perr.Wrap(err, perr.ErrorCodeUpstream, "Failed to follow user")
	}
	return domain.FollowOutput{Success: true, Message: "Successfully followed user"}, nil
}
