package db

import (
	"fmt"
	"time"

	"land_records_lending/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxIdleConns int
	MaxOpenConns int
	Debug        bool
}

func (o Options) DSN() string {
	sslmode := o.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		o.Host, o.User, o.Password, o.Name, o.Port, sslmode,
	)
}

// GormConfig 所有时间戳统一用 UTC，唯一约束错误翻译成 gorm.ErrDuplicatedKey
func GormConfig(debug bool) *gorm.Config {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

func ConnectDB(opts Options, log *zap.Logger) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(opts.DSN()), GormConfig(opts.Debug))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("Database connected", zap.String("host", opts.Host), zap.String("database", opts.Name))
	return conn, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.PropertyBook{},
		&models.SurveyDeed{},
		&models.ArchivalDossier{},
		&models.Borrowing{},
		&models.Notification{},
	); err != nil {
		return err
	}

	// 同一文档最多一条未归还的借阅
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_document
	  ON %s (document_type, document_id)
	  WHERE status = 'open'
	`, models.BorrowingTable, models.BorrowingTable)).Error; err != nil {
		return err
	}

	// 逾期扫描 / 报表按 opened_at 过滤 open 记录
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_open_opened_at
	  ON %s (opened_at)
	  WHERE status = 'open'
	`, models.BorrowingTable, models.BorrowingTable)).Error; err != nil {
		return err
	}

	return nil
}
