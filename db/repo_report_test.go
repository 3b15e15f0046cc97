package db

import (
	"context"
	"testing"
	"time"

	"land_records_lending/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentReport_EmptyLedger(t *testing.T) {
	r, _ := newTestRepo(t)

	rows, err := r.DocumentReport(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, want := range models.DocumentTypes {
		assert.Equal(t, want, rows[i].DocumentType)
		assert.Zero(t, rows[i].TotalBorrowed)
		assert.Zero(t, rows[i].TotalReturned)
		assert.Zero(t, rows[i].CurrentlyBorrowed)
	}
}

func TestDocumentReport_Counts(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	u := mustUser(t, r, "alice", models.RoleUser, nil)
	pb := mustPropertyBook(t, r, "HM-1")
	su := mustSurveyDeed(t, r, "SU-1")

	b1, err := r.CreateBorrowing(ctx, CreateBorrowingInput{UserID: u.ID, Document: models.DocumentRef{Type: models.DocPropertyBook, ID: pb.ID}})
	require.NoError(t, err)
	_, err = r.ReturnBorrowing(ctx, b1.ID, nil)
	require.NoError(t, err)
	_, err = r.CreateBorrowing(ctx, CreateBorrowingInput{UserID: u.ID, Document: models.DocumentRef{Type: models.DocPropertyBook, ID: pb.ID}})
	require.NoError(t, err)
	_, err = r.CreateBorrowing(ctx, CreateBorrowingInput{UserID: u.ID, Document: models.DocumentRef{Type: models.DocSurveyDeed, ID: su.ID}})
	require.NoError(t, err)

	rows, err := r.DocumentReport(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, models.DocumentReport{DocumentType: models.DocPropertyBook, TotalBorrowed: 2, TotalReturned: 1, CurrentlyBorrowed: 1}, rows[0])
	assert.Equal(t, models.DocumentReport{DocumentType: models.DocSurveyDeed, TotalBorrowed: 1, TotalReturned: 0, CurrentlyBorrowed: 1}, rows[1])
	assert.Equal(t, models.DocumentReport{DocumentType: models.DocArchivalDossier}, rows[2])
}

func TestUserBorrowingReport(t *testing.T) {
	r, clock := newTestRepo(t)
	ctx := context.Background()
	alice := mustUser(t, r, "alice", models.RoleUser, nil)
	bob := mustUser(t, r, "bob", models.RoleUser, nil)
	carol := mustUser(t, r, "carol", models.RoleUser, nil)

	_ = borrowAt(t, r, clock, 40*day, bob.ID, models.DocumentRef{Type: models.DocPropertyBook, ID: mustPropertyBook(t, r, "HM-1").ID})
	_ = borrowAt(t, r, clock, time.Hour, bob.ID, models.DocumentRef{Type: models.DocPropertyBook, ID: mustPropertyBook(t, r, "HM-2").ID})
	_ = borrowAt(t, r, clock, time.Hour, alice.ID, models.DocumentRef{Type: models.DocPropertyBook, ID: mustPropertyBook(t, r, "HM-3").ID})

	rows, err := r.UserBorrowingReport(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3, "users without borrowings are listed too")

	assert.Equal(t, bob.ID, rows[0].UserID)
	assert.Equal(t, "Full bob", rows[0].UserName)
	assert.EqualValues(t, 2, rows[0].TotalBorrowings)
	assert.EqualValues(t, 1, rows[0].OverdueBorrowings)

	assert.Equal(t, alice.ID, rows[1].UserID)
	assert.EqualValues(t, 1, rows[1].TotalBorrowings)
	assert.Zero(t, rows[1].OverdueBorrowings)

	assert.Equal(t, carol.ID, rows[2].UserID)
	assert.Zero(t, rows[2].TotalBorrowings)
}

func TestOverdueReport(t *testing.T) {
	r, clock := newTestRepo(t)
	ctx := context.Background()
	u := mustUser(t, r, "alice", models.RoleUser, nil)

	b40 := borrowAt(t, r, clock, 40*day+6*time.Hour, u.ID, models.DocumentRef{Type: models.DocSurveyDeed, ID: mustSurveyDeed(t, r, "SU-1").ID})
	b31 := borrowAt(t, r, clock, 31*day, u.ID, models.DocumentRef{Type: models.DocPropertyBook, ID: mustPropertyBook(t, r, "HM-1").ID})
	_ = borrowAt(t, r, clock, 29*day, u.ID, models.DocumentRef{Type: models.DocPropertyBook, ID: mustPropertyBook(t, r, "HM-2").ID})

	rows, err := r.OverdueReport(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, b40.ID, rows[0].BorrowingID)
	assert.Equal(t, "Full alice", rows[0].UserName)
	assert.Equal(t, models.DocSurveyDeed, rows[0].DocumentType)
	assert.Equal(t, 10, rows[0].DaysOverdue)

	assert.Equal(t, b31.ID, rows[1].BorrowingID)
	assert.Equal(t, 1, rows[1].DaysOverdue)
}

// 4 份文档、3 条借阅（2 条未还，其中 1 条逾期）
func seedDashboard(t *testing.T, r *Repo, clock *testClock) (alice, bob *models.User) {
	t.Helper()
	ctx := context.Background()
	alice = mustUser(t, r, "alice", models.RoleUser, strPtr("Seksi I"))
	bob = mustUser(t, r, "bob", models.RoleUser, strPtr("Seksi II"))

	pb1 := mustPropertyBook(t, r, "HM-1")
	pb2 := mustPropertyBook(t, r, "HM-2")
	su := mustSurveyDeed(t, r, "SU-1")
	mustDossier(t, r, "W-1")

	closed := borrowAt(t, r, clock, 5*day, alice.ID, models.DocumentRef{Type: models.DocPropertyBook, ID: pb1.ID})
	_, err := r.ReturnBorrowing(ctx, closed.ID, nil)
	require.NoError(t, err)
	_ = borrowAt(t, r, clock, 40*day, alice.ID, models.DocumentRef{Type: models.DocPropertyBook, ID: pb2.ID})
	_ = borrowAt(t, r, clock, 2*day, bob.ID, models.DocumentRef{Type: models.DocSurveyDeed, ID: su.ID})
	return alice, bob
}

func TestDashboardStats_Scopes(t *testing.T) {
	r, clock := newTestRepo(t)
	ctx := context.Background()
	alice, bob := seedDashboard(t, r, clock)

	global, err := r.DashboardStats(ctx, GlobalScope())
	require.NoError(t, err)
	assert.Equal(t, models.DashboardStats{
		TotalDocuments: 4, TotalUsers: 2, TotalBorrowings: 3, ActiveBorrowings: 2, OverdueBorrowings: 1,
	}, *global)

	mine, err := r.DashboardStats(ctx, UserScope(alice.ID))
	require.NoError(t, err)
	assert.Equal(t, models.DashboardStats{
		TotalDocuments: 4, TotalUsers: 1, TotalBorrowings: 2, ActiveBorrowings: 1, OverdueBorrowings: 1,
	}, *mine)

	set, err := r.DashboardStats(ctx, UsersScope([]string{bob.ID}))
	require.NoError(t, err)
	assert.Equal(t, models.DashboardStats{
		TotalDocuments: 4, TotalUsers: 1, TotalBorrowings: 1, ActiveBorrowings: 1, OverdueBorrowings: 0,
	}, *set)

	empty, err := r.DashboardStats(ctx, UsersScope(nil))
	require.NoError(t, err)
	assert.Equal(t, models.DashboardStats{TotalDocuments: 4}, *empty)
}

func TestDashboardFor_Roles(t *testing.T) {
	r, clock := newTestRepo(t)
	ctx := context.Background()
	alice, _ := seedDashboard(t, r, clock)
	admin := mustUser(t, r, "root", models.RoleAdmin, nil)
	head := mustUser(t, r, "head", models.RoleSectionHead, strPtr("Seksi I"))
	loneHead := mustUser(t, r, "lone", models.RoleSectionHead, nil)

	got, err := r.DashboardFor(ctx, Caller{UserID: admin.ID, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.EqualValues(t, 5, got.TotalUsers)
	assert.EqualValues(t, 3, got.TotalBorrowings)

	got, err = r.DashboardFor(ctx, Caller{UserID: alice.ID, Role: models.RoleUser})
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.TotalUsers)
	assert.EqualValues(t, 2, got.TotalBorrowings)

	// 本科室：alice + head
	got, err = r.DashboardFor(ctx, Caller{UserID: head.ID, Role: models.RoleSectionHead})
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.TotalUsers)
	assert.EqualValues(t, 2, got.TotalBorrowings)
	assert.EqualValues(t, 1, got.OverdueBorrowings)

	got, err = r.DashboardFor(ctx, Caller{UserID: loneHead.ID, Role: models.RoleSectionHead})
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.TotalUsers)
	assert.Zero(t, got.TotalBorrowings)
}
