package db

import (
	"context"

	"land_records_lending/models"

	"gorm.io/gorm"
)

// DocumentReport 三种类型都返回，即使没有任何借阅
func (r *Repo) DocumentReport(ctx context.Context) ([]models.DocumentReport, error) {
	var rows []models.DocumentReport
	err := r.conn(ctx).Model(&models.Borrowing{}).
		Select(`document_type,
			COUNT(*) AS total_borrowed,
			COUNT(CASE WHEN status = ? THEN 1 END) AS total_returned,
			COUNT(CASE WHEN status = ? THEN 1 END) AS currently_borrowed`,
			models.StatusClosed, models.StatusOpen).
		Group("document_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byType := make(map[models.DocumentType]models.DocumentReport, len(rows))
	for _, row := range rows {
		byType[row.DocumentType] = row
	}
	out := make([]models.DocumentReport, 0, len(models.DocumentTypes))
	for _, t := range models.DocumentTypes {
		row := byType[t]
		row.DocumentType = t
		out = append(out, row)
	}
	return out, nil
}

// UserBorrowingReport 每个用户一行（含没有借阅的用户），按借阅总数降序
func (r *Repo) UserBorrowingReport(ctx context.Context) ([]models.UserBorrowingReport, error) {
	cutoff := models.OverdueCutoff(r.now(), models.OverdueThresholdDays)
	var rows []models.UserBorrowingReport
	err := r.conn(ctx).
		Table(models.UserTable+" u").
		Select(`u.id AS user_id, u.full_name AS user_name,
			COUNT(b.id) AS total_borrowings,
			COUNT(CASE WHEN b.status = ? AND b.opened_at < ? THEN 1 END) AS overdue_borrowings`,
			models.StatusOpen, cutoff).
		Joins("LEFT JOIN " + models.BorrowingTable + " b ON b.user_id = u.id").
		Group("u.id, u.full_name").
		Order("total_borrowings DESC, u.full_name ASC").
		Scan(&rows).Error
	return rows, err
}

// OverdueReport DaysOverdue = floor(借出天数) - 30
func (r *Repo) OverdueReport(ctx context.Context) ([]models.OverdueReport, error) {
	now := r.now()
	cutoff := models.OverdueCutoff(now, models.OverdueThresholdDays)
	var rows []models.OverdueReport
	err := r.conn(ctx).
		Table(models.BorrowingTable+" b").
		Select(`b.id AS borrowing_id, b.user_id, u.full_name AS user_name,
			b.document_type, b.document_id, b.opened_at`).
		Joins("JOIN "+models.UserTable+" u ON u.id = b.user_id").
		Where("b.status = ? AND b.opened_at < ?", models.StatusOpen, cutoff).
		Order("b.opened_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].DaysOverdue = models.ElapsedDays(rows[i].OpenedAt, now) - models.OverdueThresholdDays
	}
	return rows, nil
}

type DashboardScopeKind int

const (
	ScopeGlobal DashboardScopeKind = iota
	ScopeUser
	ScopeUsers
)

// DashboardScope 调用方身份显式传入，不依赖全局状态
type DashboardScope struct {
	Kind    DashboardScopeKind
	UserIDs []string
}

func GlobalScope() DashboardScope { return DashboardScope{Kind: ScopeGlobal} }

func UserScope(userID string) DashboardScope {
	return DashboardScope{Kind: ScopeUser, UserIDs: []string{userID}}
}

func UsersScope(ids []string) DashboardScope {
	return DashboardScope{Kind: ScopeUsers, UserIDs: ids}
}

type borrowingCounts struct {
	TotalBorrowings   int64
	ActiveBorrowings  int64
	OverdueBorrowings int64
}

// DashboardStats 文档总数始终是全局的；借阅计数按 scope 过滤
func (r *Repo) DashboardStats(ctx context.Context, scope DashboardScope) (*models.DashboardStats, error) {
	docs, err := r.CountDocuments(ctx)
	if err != nil {
		return nil, err
	}
	stats := &models.DashboardStats{TotalDocuments: docs}

	switch scope.Kind {
	case ScopeUser:
		stats.TotalUsers = 1
	case ScopeUsers:
		stats.TotalUsers = int64(len(scope.UserIDs))
	default:
		if err := r.conn(ctx).Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
			return nil, err
		}
	}

	if scope.Kind != ScopeGlobal && len(scope.UserIDs) == 0 {
		return stats, nil
	}

	cutoff := models.OverdueCutoff(r.now(), models.OverdueThresholdDays)
	var counts borrowingCounts
	q := r.conn(ctx).Model(&models.Borrowing{}).
		Select(`COUNT(*) AS total_borrowings,
			COUNT(CASE WHEN status = ? THEN 1 END) AS active_borrowings,
			COUNT(CASE WHEN status = ? AND opened_at < ? THEN 1 END) AS overdue_borrowings`,
			models.StatusOpen, models.StatusOpen, cutoff)
	q = scopeFilter(q, scope)
	if err := q.Scan(&counts).Error; err != nil {
		return nil, err
	}
	stats.TotalBorrowings = counts.TotalBorrowings
	stats.ActiveBorrowings = counts.ActiveBorrowings
	stats.OverdueBorrowings = counts.OverdueBorrowings
	return stats, nil
}

func scopeFilter(q *gorm.DB, scope DashboardScope) *gorm.DB {
	if scope.Kind == ScopeGlobal {
		return q
	}
	return q.Where("user_id IN ?", scope.UserIDs)
}

type Caller struct {
	UserID string
	Role   models.Role
}

// DashboardFor 按角色决定范围：admin 全局，section_head 本科室，其他人只看自己
func (r *Repo) DashboardFor(ctx context.Context, caller Caller) (*models.DashboardStats, error) {
	switch caller.Role {
	case models.RoleAdmin:
		return r.DashboardStats(ctx, GlobalScope())
	case models.RoleSectionHead:
		u, err := r.FindUserByID(ctx, caller.UserID)
		if err != nil {
			return nil, err
		}
		if u.Section == nil || *u.Section == "" {
			return r.DashboardStats(ctx, UserScope(caller.UserID))
		}
		ids, err := r.ListUserIDsBySection(ctx, *u.Section)
		if err != nil {
			return nil, err
		}
		return r.DashboardStats(ctx, UsersScope(ids))
	default:
		return r.DashboardStats(ctx, UserScope(caller.UserID))
	}
}
