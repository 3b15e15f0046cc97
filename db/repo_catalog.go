// db/repo_catalog.go
package db

import (
	"context"
	"errors"

	"land_records_lending/models"

	"gorm.io/gorm"
)

// Catalog 三种文档目录的通用 CRUD
type Catalog[T models.CatalogDocument] struct{ r *Repo }

func PropertyBooks(r *Repo) *Catalog[models.PropertyBook]       { return &Catalog[models.PropertyBook]{r: r} }
func SurveyDeeds(r *Repo) *Catalog[models.SurveyDeed]           { return &Catalog[models.SurveyDeed]{r: r} }
func ArchivalDossiers(r *Repo) *Catalog[models.ArchivalDossier] { return &Catalog[models.ArchivalDossier]{r: r} }

func (c *Catalog[T]) docType() models.DocumentType {
	var zero T
	return zero.DocType()
}

func (c *Catalog[T]) codeColumn() string {
	var zero T
	return zero.CodeColumn()
}

func (c *Catalog[T]) codeTaken(tx *gorm.DB, code, exceptID string) (bool, error) {
	q := tx.Model(new(T)).Where(c.codeColumn()+" = ?", code)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create 调用方负责填好 ID 和业务字段
func (c *Catalog[T]) Create(ctx context.Context, doc *T) error {
	return c.r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := c.codeTaken(tx, (*doc).UniqueCode(), "")
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateCode
		}
		if err := tx.Create(doc).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateCode
			}
			return err
		}
		return nil
	})
}

func (c *Catalog[T]) Get(ctx context.Context, id string) (*T, error) {
	var doc T
	if err := c.r.conn(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (c *Catalog[T]) List(ctx context.Context) ([]T, error) {
	var docs []T
	err := c.r.conn(ctx).Order("created_at DESC").Find(&docs).Error
	return docs, err
}

// Update changes 的 key 是列名；只更新传入的列
func (c *Catalog[T]) Update(ctx context.Context, id string, changes map[string]any) (*T, error) {
	updates := make(map[string]any, len(changes)+1)
	for k, v := range changes {
		updates[k] = v
	}
	updates["updated_at"] = c.r.now()

	var doc T
	err := c.r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).First(&doc, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDocumentNotFound
			}
			return err
		}
		if code, ok := updates[c.codeColumn()].(string); ok {
			taken, err := c.codeTaken(tx, code, id)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateCode
			}
		}
		if err := tx.Model(new(T)).Where("id = ?", id).Updates(updates).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateCode
			}
			return err
		}
		return tx.First(&doc, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Delete 存在未归还借阅时返回 ErrActiveBorrowings；id 不存在返回 false
func (c *Catalog[T]) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := c.r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var doc T
		if err := tx.Clauses(forUpdate).First(&doc, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		open, err := countOpenForDocument(tx, models.DocumentRef{Type: c.docType(), ID: id})
		if err != nil {
			return err
		}
		if open > 0 {
			return ErrActiveBorrowings
		}
		res := tx.Where("id = ?", id).Delete(new(T))
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

type CatalogEntry[T models.CatalogDocument] struct {
	Document         T                 `json:"document"`
	Available        bool              `json:"available"`
	CurrentBorrowing *models.Borrowing `json:"currentBorrowing,omitempty"`
	Overdue          bool              `json:"overdue"`
}

// ListWithAvailability 可借状态由台账推导，不在目录表里存冗余标记
func (c *Catalog[T]) ListWithAvailability(ctx context.Context) ([]CatalogEntry[T], error) {
	docs, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.Key())
	}

	open := map[string]models.Borrowing{}
	if len(ids) > 0 {
		var rows []models.Borrowing
		if err := c.r.conn(ctx).
			Where("document_type = ? AND status = ? AND document_id IN ?", c.docType(), models.StatusOpen, ids).
			Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, b := range rows {
			open[b.DocumentID] = b
		}
	}

	now := c.r.now()
	out := make([]CatalogEntry[T], 0, len(docs))
	for _, d := range docs {
		e := CatalogEntry[T]{Document: d, Available: true}
		if b, ok := open[d.Key()]; ok {
			e.Available = false
			e.CurrentBorrowing = &b
			e.Overdue = b.IsOverdue(now, models.OverdueThresholdDays)
		}
		out = append(out, e)
	}
	return out, nil
}

// CountDocuments 三个目录的总数
func (r *Repo) CountDocuments(ctx context.Context) (int64, error) {
	var total int64
	for _, m := range []any{&models.PropertyBook{}, &models.SurveyDeed{}, &models.ArchivalDossier{}} {
		var n int64
		if err := r.conn(ctx).Model(m).Count(&n).Error; err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// lockDocument 按类型分派到对应目录表并加行锁
func lockDocument(tx *gorm.DB, ref models.DocumentRef) error {
	var doc any
	switch ref.Type {
	case models.DocPropertyBook:
		doc = &models.PropertyBook{}
	case models.DocSurveyDeed:
		doc = &models.SurveyDeed{}
	case models.DocArchivalDossier:
		doc = &models.ArchivalDossier{}
	default:
		return ErrDocumentNotFound
	}
	if err := tx.Clauses(forUpdate).First(doc, "id = ?", ref.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}
	return nil
}
