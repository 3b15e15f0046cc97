// app/bootstrap.go
package app

import (
	"context"
	"fmt"

	"land_records_lending/db"
	"land_records_lending/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BootstrapFirstAdmin 没有管理员且配置了初始账号时，创建第一个管理员
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo, log *zap.Logger) error {
	if cfg.BootstrapUsername == "" || cfg.BootstrapPassword == "" {
		return nil
	}
	n, err := repo.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return nil // 已经有管理员，跳过
	}

	u, err := repo.CreateUser(ctx, uuid.NewString(), db.CreateUserInput{
		Username: cfg.BootstrapUsername,
		Password: cfg.BootstrapPassword,
		FullName: "Administrator",
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}
	log.Info("[BOOTSTRAP] created first admin", zap.String("username", u.Username), zap.String("user_id", u.ID))
	return nil
}
