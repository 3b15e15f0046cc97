package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"land_records_lending/app"
	"land_records_lending/config"
	"land_records_lending/controllers"
	"land_records_lending/routes"
	"land_records_lending/session"

	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()
	application := app.MustNew()

	mode := "serve"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "sweep":
		code := sweep(application)
		application.Close()
		os.Exit(code)
	case "serve":
		serve(application)
		application.Close()
	default:
		application.Log.Fatal("unknown command", zap.String("command", mode))
	}
}

// sweep 单次逾期扫描，给外部调度器（cron 等）调用
func sweep(a *app.App) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var created int
	err := a.SweepLock().Run(ctx, func(ctx context.Context) error {
		n, err := a.Repo.GenerateOverdueNotifications(ctx)
		created = n
		return err
	})
	if errors.Is(err, session.ErrLocked) {
		a.Log.Warn("overdue sweep skipped, another run holds the lock")
		return 0
	}
	if err != nil {
		a.Log.Error("overdue sweep failed", zap.Error(err))
		return 1
	}
	a.Log.Info("overdue sweep done", zap.Int("created", created))
	return 0
}

func serve(a *app.App) {
	if err := app.BootstrapFirstAdmin(context.Background(), a.Config, a.Repo, a.Log); err != nil {
		a.Log.Error("bootstrap admin failed", zap.Error(err))
	}

	routes.RegisterRoutes(a.Router, controllers.GetSrv(a))

	srv := &http.Server{
		Addr:              a.Config.Addr(),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		a.Log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		a.Log.Error("shutdown", zap.Error(err))
	}
	a.Log.Info("server stopped")
}
