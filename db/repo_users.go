package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"land_records_lending/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateUserInput struct {
	Username string
	Password string
	FullName string
	Role     models.Role
	Section  *string
}

// UpdateUserInput 只更新非 nil 字段
type UpdateUserInput struct {
	Username *string
	Password *string
	FullName *string
	Role     *models.Role
	Section  *string
}

func hashPassword(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (r *Repo) CreateUser(ctx context.Context, id string, in CreateUserInput) (*models.User, error) {
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := r.now()
	u := models.User{
		ID:           id,
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         in.Role,
		Section:      in.Section,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("username = ?", u.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateUsername
		}
		if err := tx.Create(&u).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateUsername
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := u.Scrubbed()
	return &out, nil
}

func (r *Repo) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*models.User, error) {
	updates := map[string]any{"updated_at": r.now()}
	if in.Username != nil {
		updates["username"] = strings.TrimSpace(*in.Username)
	}
	if in.Password != nil {
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = hash
	}
	if in.FullName != nil {
		updates["full_name"] = *in.FullName
	}
	if in.Role != nil {
		updates["role"] = *in.Role
	}
	if in.Section != nil {
		updates["section"] = *in.Section
	}

	var u models.User
	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).First(&u, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if name, ok := updates["username"]; ok {
			var n int64
			if err := tx.Model(&models.User{}).
				Where("username = ? AND id <> ?", name, id).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return ErrDuplicateUsername
			}
		}
		if err := tx.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateUsername
			}
			return err
		}
		return tx.First(&u, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	out := u.Scrubbed()
	return &out, nil
}

// 按 ID 查
func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.conn(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	out := u.Scrubbed()
	return &out, nil
}

func (r *Repo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.conn(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Scrubbed()
	}
	return users, nil
}

func (r *Repo) ListUserIDsBySection(ctx context.Context, section string) ([]string, error) {
	var ids []string
	err := r.conn(ctx).Model(&models.User{}).
		Where("section = ?", section).
		Order("created_at").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *Repo) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&n).Error
	return n, err
}

// VerifyCredentials 用户不存在和密码错误返回同一个错误
func (r *Repo) VerifyCredentials(ctx context.Context, username, password string) (*models.User, error) {
	var u models.User
	if err := r.conn(ctx).Where("username = ?", strings.TrimSpace(username)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	out := u.Scrubbed()
	return &out, nil
}

// DeleteUserByID 有未归还借阅时拒绝；同时删除该用户的通知
func (r *Repo) DeleteUserByID(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Clauses(forUpdate).First(&u, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		var open int64
		if err := tx.Model(&models.Borrowing{}).
			Where("user_id = ? AND status = ?", id, models.StatusOpen).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrActiveBorrowings
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
