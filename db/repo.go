package db

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct {
	DB  *gorm.DB
	Log *zap.Logger

	now func() time.Time
}

func NewRepo(db *gorm.DB, log *zap.Logger) *Repo {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repo{DB: db, Log: log, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock 替换时钟（测试用）
func (r *Repo) WithClock(now func() time.Time) *Repo {
	r.now = func() time.Time { return now().UTC() }
	return r
}

func (r *Repo) Now() time.Time { return r.now() }

func (r *Repo) conn(ctx context.Context) *gorm.DB { return r.DB.WithContext(ctx) }

var (
	forUpdate = clause.Locking{Strength: "UPDATE"}
	forShare  = clause.Locking{Strength: "SHARE"}
)
