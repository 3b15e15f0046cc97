package db

import (
	"context"
	"testing"
	"time"

	"land_records_lending/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestRepo(t *testing.T) (*Repo, *testClock) {
	t.Helper()

	cfg := GormConfig(false)
	cfg.Logger = logger.Default.LogMode(logger.Silent)
	gdb, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// :memory: 每个连接是独立的库
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(gdb))

	clock := &testClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	return NewRepo(gdb, nil).WithClock(clock.Now), clock
}

func mustUser(t *testing.T, r *Repo, username string, role models.Role, section *string) *models.User {
	t.Helper()
	u, err := r.CreateUser(context.Background(), uuid.NewString(), CreateUserInput{
		Username: username,
		Password: "secret-" + username,
		FullName: "Full " + username,
		Role:     role,
		Section:  section,
	})
	require.NoError(t, err)
	return u
}

func mustPropertyBook(t *testing.T, r *Repo, code string) *models.PropertyBook {
	t.Helper()
	doc := &models.PropertyBook{
		ID:          uuid.NewString(),
		RightNumber: code,
		OwnerName:   "Owner " + code,
		Village:     "Sukamaju",
		District:    "Cibeunying",
	}
	require.NoError(t, PropertyBooks(r).Create(context.Background(), doc))
	return doc
}

func mustSurveyDeed(t *testing.T, r *Repo, code string) *models.SurveyDeed {
	t.Helper()
	doc := &models.SurveyDeed{
		ID:         uuid.NewString(),
		DeedNumber: code,
		Year:       2001,
		Area:       250.5,
		Village:    "Sukamaju",
	}
	require.NoError(t, SurveyDeeds(r).Create(context.Background(), doc))
	return doc
}

func mustDossier(t *testing.T, r *Repo, code string) *models.ArchivalDossier {
	t.Helper()
	doc := &models.ArchivalDossier{
		ID:            uuid.NewString(),
		DossierNumber: code,
		RightNumber:   "HM-" + code,
		Village:       "Sukamaju",
		District:      "Cibeunying",
		DI208:         "DI208/" + code,
	}
	require.NoError(t, ArchivalDossiers(r).Create(context.Background(), doc))
	return doc
}

// borrowAt 以过去的时间借出，然后把时钟拨回
func borrowAt(t *testing.T, r *Repo, clock *testClock, ago time.Duration, userID string, ref models.DocumentRef) *models.Borrowing {
	t.Helper()
	now := clock.t
	clock.t = now.Add(-ago)
	defer func() { clock.t = now }()
	b, err := r.CreateBorrowing(context.Background(), CreateBorrowingInput{UserID: userID, Document: ref})
	require.NoError(t, err)
	return b
}

func strPtr(s string) *string { return &s }
