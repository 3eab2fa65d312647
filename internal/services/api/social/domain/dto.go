// Package domain holds DTOs and ports for the social endpoints
package domain

import (
	"xfriends/internal/core/match"
	"xfriends/internal/services/snapshot"
)

// MatchInput is the match request; a nil list is a client error, an empty one is not
type MatchInput struct {
	TwitterHandles []string `json:"twitterHandles" example:"jack,@vitalik"`
	Address        string   `json:"address,omitempty" example:"0x000000000000000000000000000000000000dEaD"`
}

// MatchOutput is the match response
// total_searched and match_rate are only present on a fresh run
type MatchOutput struct {
	Matches       []match.Record `json:"matches"`
	Count         int            `json:"count"`
	TotalSearched int            `json:"total_searched,omitempty" example:"120"`
	MatchRate     string         `json:"match_rate,omitempty" example:"12.5%"`
	Source        string         `json:"source,omitempty" example:"api"`
}

// FollowingInput asks for the caller's following list behind the access gate
type FollowingInput struct {
	Address         string `json:"address"         validate:"required" example:"0x000000000000000000000000000000000000dEaD"`
	TwitterUsername string `json:"twitterUsername" validate:"required,max=64" example:"jack"`
	TxHash          string `json:"txHash,omitempty" validate:"omitempty,tx_hash"`
}

// FollowingOutput is the following list response
type FollowingOutput struct {
	Data     []string `json:"data"`
	Source   string   `json:"source" example:"cache"`
	Count    int      `json:"count" example:"200"`
	Username string   `json:"username" example:"jack"`
}

// SyncOutput is the response of a sync
type SyncOutput struct {
	Data    snapshot.Snapshot `json:"data"`
	Source  string            `json:"source" example:"api"`
	Message string            `json:"message" example:"X list synced and saved successfully"`
}

// SavedOutput is the response of a saved snapshot read
type SavedOutput struct {
	Data         *snapshot.Snapshot `json:"data"`
	HasSavedData bool               `json:"hasSavedData"`
	Message      string             `json:"message,omitempty"`
}
