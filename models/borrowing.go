// models/borrowing.go
package models

import "time"

const BorrowingTable = "lr_borrowings"

// OverdueThresholdDays 超过此天数未归还即视为逾期
const OverdueThresholdDays = 30

// MaxOverdueThresholdDays 阈值上限，超过的按上限计算
const MaxOverdueThresholdDays = 100 * 365

type BorrowingStatus string

const (
	StatusOpen   BorrowingStatus = "open"
	StatusClosed BorrowingStatus = "closed"
)

// Borrowing 台账记录：open 只能经 return 变为 closed，记录永不删除。
// user_id / document_id 在创建时校验，不建外键（document_id 是多态引用）。
type Borrowing struct {
	ID           string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string          `gorm:"type:uuid;index;not null" json:"userId"`
	DocumentType DocumentType    `gorm:"size:32;not null;index:idx_borrowing_document" json:"documentType"`
	DocumentID   string          `gorm:"type:uuid;not null;index:idx_borrowing_document" json:"documentId"`
	OpenedAt     time.Time       `gorm:"index;not null" json:"openedAt"`
	ClosedAt     *time.Time      `gorm:"check:chk_borrowing_closed_at,(status = 'closed') = (closed_at IS NOT NULL)" json:"closedAt,omitempty"`
	Status       BorrowingStatus `gorm:"size:16;not null;default:'open';index" json:"status"`
	Notes        *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (Borrowing) TableName() string { return BorrowingTable }

func (b Borrowing) Ref() DocumentRef {
	return DocumentRef{Type: b.DocumentType, ID: b.DocumentID}
}

// IsOverdue reports whether an open borrowing was opened strictly before now - threshold.
func (b Borrowing) IsOverdue(now time.Time, thresholdDays int) bool {
	if b.Status != StatusOpen {
		return false
	}
	return b.OpenedAt.Before(OverdueCutoff(now, thresholdDays))
}

// OverdueCutoff 按日历天回退；now 为 UTC 时等价于 thresholdDays*24h
func OverdueCutoff(now time.Time, thresholdDays int) time.Time {
	if thresholdDays > MaxOverdueThresholdDays {
		thresholdDays = MaxOverdueThresholdDays
	}
	return now.AddDate(0, 0, -thresholdDays)
}

// ElapsedDays is floor((now - openedAt) / 1 day).
func ElapsedDays(openedAt, now time.Time) int {
	return int(now.Sub(openedAt) / (24 * time.Hour))
}
