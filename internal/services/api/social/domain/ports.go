package domain

import (
	"context"

	"xfriends/internal/core/match"
	"xfriends/internal/services/snapshot"
)

// Matcher runs the match pipeline
type Matcher interface {
	Match(ctx context.Context, raw []string) (match.Result, error)
}

// Gate is the payment check used before a following fetch
type Gate interface {
	VerifyAccess(ctx context.Context, owner, proof string) bool
}

// Snapshots is the sync manager
type Snapshots interface {
	Sync(ctx context.Context, owner, username string) (snapshot.Snapshot, snapshot.Source, error)
	GetSnapshot(ctx context.Context, owner string) (snapshot.Snapshot, bool, error)
	Following(ctx context.Context, owner, username string, limit int) ([]string, snapshot.Source, error)
}

// ServicePort is implemented by the social service
type ServicePort interface {
	Match(ctx context.Context, in MatchInput) (MatchOutput, error)
	Following(ctx context.Context, caller string, in FollowingInput) (FollowingOutput, error)
	Sync(ctx context.Context, owner, username string) (SyncOutput, error)
	Saved(ctx context.Context, owner string) (SavedOutput, error)
}
