package database

import (
	"path/filepath"
	"testing"

	"hotgist/internal/config"
	"hotgist/internal/models"
	"hotgist/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLiteMigrates(t *testing.T) {
	cfg := &config.Config{
		Env:           "test",
		StorageDriver: config.DriverSQLite,
		SQLitePath:    filepath.Join(t.TempDir(), "nested", "hotgist.db"),
	}

	db, err := Connect(cfg, observability.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	for _, model := range []any{&models.Post{}, &models.Reaction{}, &models.Comment{}, &models.User{}, &models.Campus{}} {
		assert.True(t, db.Migrator().HasTable(model), "%T table should exist", model)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Reaction{}, "idx_reaction_post_user"))
}

func TestConnect_RejectsFileDriver(t *testing.T) {
	_, err := Connect(&config.Config{StorageDriver: config.DriverFile}, observability.NopLogger())
	assert.Error(t, err)
}
