package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "twitter:following:1234", FollowingKey("1234"))
	assert.Equal(t, "farcaster:match:0xabc", MatchKey("0xABC"))
	assert.Equal(t, "farcaster:profile:3", ProfileKey(3))
	assert.Equal(t, "xlist:1234", SnapshotKey(" 1234 "))
	assert.Equal(t, "notifications:7:9152", NotificationKey(7, 9152))
	assert.Equal(t, "notifications:7:0", NotificationKey(7, 0))
}

func TestKeys_RejectEmptyOwner(t *testing.T) {
	for name, k := range map[string]string{
		"following":    FollowingKey(""),
		"match":        MatchKey("  "),
		"profile":      ProfileKey(0),
		"snapshot":     SnapshotKey(""),
		"notification": NotificationKey(0, 1),
		"negative app": NotificationKey(1, -1),
	} {
		assert.Emptyf(t, k, "%s should reject an empty component", name)
	}
}

func TestKeys_NamespacesDoNotCollide(t *testing.T) {
	owner := "42"
	keys := []string{FollowingKey(owner), MatchKey(owner), ProfileKey(42), SnapshotKey(owner), NotificationKey(42, 42)}
	seen := map[string]bool{}
	for _, k := range keys {
		assert.Falsef(t, seen[k], "duplicate key %s", k)
		seen[k] = true
	}
}
