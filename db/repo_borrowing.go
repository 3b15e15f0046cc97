package db

import (
	"context"
	"errors"

	"land_records_lending/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateBorrowingInput struct {
	UserID   string
	Document models.DocumentRef
	Notes    *string
}

func countOpenForDocument(tx *gorm.DB, ref models.DocumentRef) (int64, error) {
	var n int64
	err := tx.Model(&models.Borrowing{}).
		Where("document_type = ? AND document_id = ? AND status = ?", ref.Type, ref.ID, models.StatusOpen).
		Count(&n).Error
	return n, err
}

// 借出：原子操作 = 锁住用户和文档 → 检查未归还记录 → 新建借阅
// 部分唯一索引兜底并发重复借出
func (r *Repo) CreateBorrowing(ctx context.Context, in CreateBorrowingInput) (*models.Borrowing, error) {
	var b *models.Borrowing
	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) 用户必须存在
		var u models.User
		if err := tx.Clauses(forShare).Select("id").First(&u, "id = ?", in.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		// 2) 锁住对应目录里的文档
		if err := lockDocument(tx, in.Document); err != nil {
			return err
		}
		// 3) 已有未归还记录则拒绝
		n, err := countOpenForDocument(tx, in.Document)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyBorrowed
		}
		// 4) 新建借阅
		now := r.now()
		row := &models.Borrowing{
			ID:           uuid.NewString(),
			UserID:       in.UserID,
			DocumentType: in.Document.Type,
			DocumentID:   in.Document.ID,
			OpenedAt:     now,
			Status:       models.StatusOpen,
			Notes:        in.Notes,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Create(row).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyBorrowed
			}
			return err
		}
		b = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// 归还：只能对 open 记录做一次；不存在和已归还返回同一个错误
func (r *Repo) ReturnBorrowing(ctx context.Context, id string, notes *string) (*models.Borrowing, error) {
	var b models.Borrowing
	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).
			First(&b, "id = ? AND status = ?", id, models.StatusOpen).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOpenBorrowingNotFound
			}
			return err
		}
		now := r.now()
		update := map[string]any{
			"status":     models.StatusClosed,
			"closed_at":  now,
			"updated_at": now,
		}
		if notes != nil {
			update["notes"] = *notes
		}
		res := tx.Model(&models.Borrowing{}).
			Where("id = ? AND status = ?", id, models.StatusOpen).
			Updates(update)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOpenBorrowingNotFound
		}
		return tx.First(&b, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repo) GetBorrowingByID(ctx context.Context, id string) (*models.Borrowing, error) {
	var b models.Borrowing
	if err := r.conn(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBorrowingNotFound
		}
		return nil, err
	}
	return &b, nil
}

type BorrowingFilter struct {
	UserID       string
	Status       models.BorrowingStatus
	DocumentType models.DocumentType
}

// FindBorrowings 最新创建的在前
func (r *Repo) FindBorrowings(ctx context.Context, f BorrowingFilter) ([]models.Borrowing, error) {
	q := r.conn(ctx).Model(&models.Borrowing{}).Order("created_at DESC")
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.DocumentType != "" {
		q = q.Where("document_type = ?", f.DocumentType)
	}
	var bs []models.Borrowing
	if err := q.Find(&bs).Error; err != nil {
		return nil, err
	}
	return bs, nil
}

func (r *Repo) ListBorrowings(ctx context.Context) ([]models.Borrowing, error) {
	return r.FindBorrowings(ctx, BorrowingFilter{})
}

func (r *Repo) ListBorrowingsByUser(ctx context.Context, userID string) ([]models.Borrowing, error) {
	return r.FindBorrowings(ctx, BorrowingFilter{UserID: userID})
}

func (r *Repo) ListOpenBorrowings(ctx context.Context) ([]models.Borrowing, error) {
	return r.FindBorrowings(ctx, BorrowingFilter{Status: models.StatusOpen})
}

// ListOverdueBorrowings 按 opened_at 升序（逾期最久的在前）；thresholdDays <= 0 时用 30 天
func (r *Repo) ListOverdueBorrowings(ctx context.Context, thresholdDays int) ([]models.Borrowing, error) {
	if thresholdDays <= 0 {
		thresholdDays = models.OverdueThresholdDays
	}
	cutoff := models.OverdueCutoff(r.now(), thresholdDays)
	var bs []models.Borrowing
	err := r.conn(ctx).
		Where("status = ? AND opened_at < ?", models.StatusOpen, cutoff).
		Order("opened_at ASC").
		Find(&bs).Error
	return bs, err
}
