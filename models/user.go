package models

import (
	"time"
)

const UserTable = "lr_users"

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleUser        Role = "user"
	RoleSectionHead Role = "section_head"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleSectionHead:
		return true
	}
	return false
}

// User 是借阅人/管理员账号。PasswordHash 永远不会出现在响应里。
type User struct {
	ID           string  `gorm:"primaryKey;type:uuid" json:"id"`
	Username     string  `gorm:"uniqueIndex;size:255;not null" json:"username"`
	PasswordHash string  `gorm:"size:255;not null" json:"-"`
	FullName     string  `gorm:"size:255;not null" json:"fullName"`
	Role         Role    `gorm:"size:20;not null;index" json:"role"`
	Section      *string `gorm:"size:120;index" json:"section,omitempty"` // 科室，section_head 按科室查看

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return UserTable
}

// Scrubbed returns a copy without the credential hash.
func (u User) Scrubbed() User {
	u.PasswordHash = ""
	return u
}
