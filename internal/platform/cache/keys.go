package cache

import (
	"strconv"
	"strings"
	"time"
)

// TTLs per key purpose
const (
	FollowingTTL    = 24 * time.Hour
	MatchTTL        = time.Hour
	ProfileTTL      = time.Hour
	SnapshotTTL     = 7 * 24 * time.Hour
	NotificationTTL = 30 * 24 * time.Hour
)

// key namespaces, one per purpose
const (
	nsFollowing    = "twitter:following:"
	nsMatch        = "farcaster:match:"
	nsProfile      = "farcaster:profile:"
	nsSnapshot     = "xlist:"
	nsNotification = "notifications:"
)

func part(s string) string { return strings.TrimSpace(s) }

// FollowingKey is the legacy following-only list for an owner
func FollowingKey(owner string) string {
	if owner = part(owner); owner == "" {
		return ""
	}
	return nsFollowing + owner
}

// MatchKey is the cached match result for an owner (wallet address, lowercased)
func MatchKey(owner string) string {
	if owner = part(owner); owner == "" {
		return ""
	}
	return nsMatch + strings.ToLower(owner)
}

// ProfileKey is a cached directory profile
func ProfileKey(fid int64) string {
	if fid <= 0 {
		return ""
	}
	return nsProfile + strconv.FormatInt(fid, 10)
}

// SnapshotKey is the two direction follow snapshot for an owner
func SnapshotKey(owner string) string {
	if owner = part(owner); owner == "" {
		return ""
	}
	return nsSnapshot + owner
}

// NotificationKey is the push credential for a user inside a host app
// deliveries without an app fid share the 0 slot
func NotificationKey(fid, appFid int64) string {
	if fid <= 0 || appFid < 0 {
		return ""
	}
	return nsNotification + strconv.FormatInt(fid, 10) + ":" + strconv.FormatInt(appFid, 10)
}
