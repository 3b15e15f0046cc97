package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"land_records_lending/config"
	"land_records_lending/db"
	"land_records_lending/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Log    *zap.Logger
	Config Config
	Repo   *db.Repo

	appSess   *session.AppSessionStore
	sweepLock *session.SweepLock
}

// Config 从环境变量读取
type Config struct {
	Env          string
	Port         string
	Database     db.Options
	RedisAddr    string
	RedisPwd     string
	WebOrigin    string
	SessionTTL   time.Duration
	SweepLockTTL time.Duration

	BootstrapUsername string
	BootstrapPassword string
}

func (c Config) SecureCookie() bool {
	return strings.HasPrefix(c.WebOrigin, "https://")
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }
func (a *App) SweepLock() *session.SweepLock         { return a.sweepLock }

func MustNew() *App {
	cfg := LoadConfig()

	logger, err := NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	// --- DB: Postgres ---
	dbConn, err := db.ConnectDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := RegisterValidators(); err != nil {
		logger.Fatal("validators", zap.Error(err))
	}

	return &App{
		Router:    NewEngine(logger, cfg.WebOrigin),
		DB:        dbConn,
		RDB:       rdb,
		Log:       logger,
		Config:    cfg,
		Repo:      db.NewRepo(dbConn, logger),
		appSess:   session.NewAppSessionStore(rdb, cfg.SessionTTL),
		sweepLock: session.NewSweepLock(rdb, cfg.SweepLockTTL),
	}
}

// NewEngine gin.New + zap 请求日志 + Recovery + CORS
func NewEngine(logger *zap.Logger, webOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(logger), gin.Recovery())
	useCORS(r, webOrigin)
	return r
}

func (a *App) Close() {
	_ = a.RDB.Close()
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.Log.Sync()
}

func LoadConfig() Config {
	ttl := time.Duration(config.GetInt("SESSION_TTL_SECONDS", 86400)) * time.Second
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return Config{
		Env:  config.Get("APP_ENV", "development"),
		Port: config.Get("PORT", "3001"),
		Database: db.Options{
			Host:         config.Get("DB_HOST", "127.0.0.1"),
			Port:         config.Get("DB_PORT", "5432"),
			User:         config.Get("DB_USER", "postgres"),
			Password:     config.Get("DB_PASSWORD", "postgres"),
			Name:         config.Get("DB_NAME", "land_records"),
			SSLMode:      config.Get("DB_SSLMODE", "disable"),
			MaxIdleConns: config.GetInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns: config.GetInt("DB_MAX_OPEN_CONNS", 50),
			Debug:        config.Get("DB_DEBUG", "") == "true",
		},
		RedisAddr:    config.Get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:     config.Get("REDIS_PASSWORD", ""),
		WebOrigin:    config.Get("WEB_ORIGIN", "http://localhost:3000"),
		SessionTTL:   ttl,
		SweepLockTTL: 10 * time.Minute,

		BootstrapUsername: config.Get("BOOTSTRAP_ADMIN_USERNAME", ""),
		BootstrapPassword: config.Get("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}
}

func (c Config) Addr() string { return fmt.Sprintf(":%s", c.Port) }
