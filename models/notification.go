package models

import "time"

const NotificationTable = "lr_notifications"

type Notification struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"type:uuid;index;not null" json:"userId"`
	BorrowingID string    `gorm:"type:uuid;index;not null" json:"borrowingId"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	IsRead      bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Notification) TableName() string { return NotificationTable }
