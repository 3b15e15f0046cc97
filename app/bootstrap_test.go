package app

import (
	"context"
	"testing"
	"time"

	"land_records_lending/db"
	"land_records_lending/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newBootstrapRepo(t *testing.T) *db.Repo {
	t.Helper()
	cfg := db.GormConfig(false)
	cfg.Logger = logger.Default.LogMode(logger.Silent)
	gdb, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))
	return db.NewRepo(gdb, nil)
}

func TestBootstrapFirstAdmin(t *testing.T) {
	ctx := context.Background()
	repo := newBootstrapRepo(t)
	cfg := Config{BootstrapUsername: "admin", BootstrapPassword: "changeme"}

	require.NoError(t, BootstrapFirstAdmin(ctx, Config{}, repo, zap.NewNop()))
	n, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "no credentials configured")

	require.NoError(t, BootstrapFirstAdmin(ctx, cfg, repo, zap.NewNop()))
	require.NoError(t, BootstrapFirstAdmin(ctx, cfg, repo, zap.NewNop()))
	n, err = repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "second run is a no-op")

	u, err := repo.VerifyCredentials(ctx, "admin", "changeme")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

func TestConfigSecureCookie(t *testing.T) {
	assert.True(t, Config{WebOrigin: "https://lr.example"}.SecureCookie())
	assert.False(t, Config{WebOrigin: "http://localhost:3000"}.SecureCookie())
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_TTL_SECONDS", "120")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	cfg := LoadConfig()
	assert.Equal(t, 120*time.Second, cfg.SessionTTL)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.Equal(t, ":"+cfg.Port, cfg.Addr())
}
