// Package domain holds DTOs and ports for the directory endpoints
package domain

import (
	"context"

	"xfriends/internal/core/match"
)

// UserOutput wraps a profile lookup; User is null for an unknown fid
type UserOutput struct {
	User *match.Profile `json:"user"`
}

// FollowInput makes the signer follow a directory user
type FollowInput struct {
	SignerKey string `json:"signerKey" validate:"required,max=128" example:"19d0c5fd-9b33-4a48-a0e2-bc7b0555baec"`
	TargetID  int64  `json:"targetId"  validate:"required,gt=0" example:"3"`
}

// FollowOutput acknowledges a follow
type FollowOutput struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Successfully followed user"`
}

// Directory is the identity directory client
type Directory interface {
	UserByFID(ctx context.Context, fid int64) (match.Profile, bool, error)
	Follow(ctx context.Context, signer string, targetFID int64) error
}

// ServicePort is implemented by the directory service
type ServicePort interface {
	User(ctx context.Context, rawID string) (UserOutput, error)
	Follow(ctx context.Context, in FollowInput) (FollowOutput, error)
}
