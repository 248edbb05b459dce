package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"hotgist/internal/config"
	"hotgist/internal/observability"
	"hotgist/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Env:                       "test",
		StorageDriver:             driver,
		DataDir:                   dir,
		SQLitePath:                filepath.Join(dir, "hotgist.db"),
		RedisURL:                  "127.0.0.1:1",
		EngagementCacheTTLSeconds: 30,
		FeedDefaultLimit:          20,
		FeedMaxLimit:              50,
		FeedConcurrency:           8,
		FeedTimeoutMS:             5000,
		FeedTrendingCandidates:    500,
		BreakerFailureThreshold:   5,
		BreakerTimeoutSeconds:     30,
	}
}

func TestInitRuntime(t *testing.T) {
	for _, driver := range []string{config.DriverFile, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			rt, err := InitRuntime(ctx, testConfig(t, driver), observability.NopLogger())
			require.NoError(t, err)
			t.Cleanup(func() { _ = rt.Close() })

			assert.False(t, rt.Cache.Enabled(), "unreachable redis disables the cache")
			require.NoError(t, rt.Store.Ping(ctx))

			campuses, err := rt.Posts.ListCampuses(ctx)
			require.NoError(t, err)
			assert.Len(t, campuses, 8)

			post, err := rt.Posts.CreatePost(ctx, service.CreatePostInput{Content: "who else is in the library?", Campus: "KNUST"})
			require.NoError(t, err)

			page, err := rt.Feed.GetFeed(ctx, service.FeedQuery{Campus: "KNUST"})
			require.NoError(t, err)
			require.Len(t, page.Posts, 1)
			assert.Equal(t, post.ID, page.Posts[0].ID)
		})
	}
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(testConfig(t, "mongo"), observability.NopLogger())
	assert.Error(t, err)
}
