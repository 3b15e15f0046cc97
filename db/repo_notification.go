package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"land_records_lending/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateNotificationInput struct {
	UserID      string
	BorrowingID string
	Message     string
}

func (r *Repo) CreateNotification(ctx context.Context, in CreateNotificationInput) (*models.Notification, error) {
	n := &models.Notification{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		BorrowingID: in.BorrowingID,
		Message:     in.Message,
		CreatedAt:   r.now(),
	}
	if err := r.conn(ctx).Create(n).Error; err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

func (r *Repo) listNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	q := r.conn(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var ns []models.Notification
	if err := q.Order("created_at DESC").Find(&ns).Error; err != nil {
		return nil, err
	}
	return ns, nil
}

func (r *Repo) ListNotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return r.listNotifications(ctx, userID, false)
}

func (r *Repo) ListUnreadNotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return r.listNotifications(ctx, userID, true)
}

func (r *Repo) GetNotificationByID(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	if err := r.conn(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *Repo) MarkNotificationRead(ctx context.Context, id string) (*models.Notification, error) {
	res := r.conn(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return nil, res.Error
	}
	return r.GetNotificationByID(ctx, id)
}

// MarkAllNotificationsRead 返回本次被标记的条数
func (r *Repo) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	res := r.conn(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func overdueMessage(b models.Borrowing, days int) string {
	return fmt.Sprintf("Document %s (ID: %s) is overdue by %d days. Please return it as soon as possible.",
		b.DocumentType, b.DocumentID, days)
}

// GenerateOverdueNotifications 为每条逾期未还的借阅最多生成一条通知。
// 每条记录单独一个事务，单条失败只记日志，不影响其他记录；
// ctx 取消后立即停止，返回已生成的数量和 ctx.Err()。
func (r *Repo) GenerateOverdueNotifications(ctx context.Context) (int, error) {
	now := r.now()
	cutoff := models.OverdueCutoff(now, models.OverdueThresholdDays)

	var candidates []models.Borrowing
	if err := r.conn(ctx).
		Where("status = ? AND opened_at < ?", models.StatusOpen, cutoff).
		Order("opened_at ASC").
		Find(&candidates).Error; err != nil {
		return 0, fmt.Errorf("load overdue borrowings: %w", err)
	}

	created := 0
	for _, b := range candidates {
		if err := ctx.Err(); err != nil {
			r.Log.Warn("overdue sweep interrupted",
				zap.Int("candidates", len(candidates)),
				zap.Int("created", created),
				zap.Error(err))
			return created, err
		}
		inserted, err := r.notifyOverdue(ctx, b, now)
		if err != nil {
			r.Log.Warn("overdue notification failed",
				zap.String("borrowing_id", b.ID),
				zap.String("user_id", b.UserID),
				zap.Error(err))
			continue
		}
		if inserted {
			created++
		}
	}
	r.Log.Info("overdue sweep finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("created", created))
	return created, nil
}

func (r *Repo) notifyOverdue(ctx context.Context, b models.Borrowing, now time.Time) (bool, error) {
	inserted := false
	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		// 借阅行加锁，并发的两次扫描在这里串行
		var cur models.Borrowing
		if err := tx.Clauses(forUpdate).
			First(&cur, "id = ? AND status = ?", b.ID, models.StatusOpen).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // 扫描期间已归还
			}
			return err
		}
		var existing int64
		if err := tx.Model(&models.Notification{}).
			Where("borrowing_id = ?", b.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}
		n := models.Notification{
			ID:          uuid.NewString(),
			UserID:      cur.UserID,
			BorrowingID: cur.ID,
			Message:     overdueMessage(cur, models.ElapsedDays(cur.OpenedAt, now)),
			CreatedAt:   now,
		}
		if err := tx.Create(&n).Error; err != nil {
			return err
		}
		inserted = true
		return nil
	})
	return inserted, err
}
