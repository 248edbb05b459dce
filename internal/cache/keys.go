package cache

import (
	"fmt"
	"time"
)

const (
	EngagementKeyPrefix = "engagement:%s"
)

// DefaultEngagementTTL applies when no TTL is configured.
const DefaultEngagementTTL = 30 * time.Second

func EngagementKey(postID string) string {
	return fmt.Sprintf(EngagementKeyPrefix, postID)
}
