package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"soundnest/internal/core/auth"
	"soundnest/internal/core/cache"
	"soundnest/internal/core/config"
	"soundnest/internal/core/database"
	"soundnest/internal/core/logger"
	"soundnest/internal/core/server"
	"soundnest/internal/core/storage"
	"soundnest/internal/repo"
	"soundnest/internal/service"
	"soundnest/internal/transport/http/handler"
	"soundnest/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	userRepo, trackRepo := repo.NewUserRepo(db), repo.NewTrackRepo(db)
	users := service.NewUserService(userRepo, trackRepo)
	tracks := service.NewTrackService(trackRepo, userRepo)

	// Redis 可选：连不上就不开曲目缓存
	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := c.Ping(ctx)
		cancel()
		if err != nil {
			log.Warn("redis unavailable, track cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
		} else {
			tracks.WithCache(c, time.Duration(cfg.Redis.TrackTTLSec)*time.Second)
			defer c.Close()
			log.Info("track cache enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	up, closeUp, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal("storage init", zap.Error(err))
	}
	defer func() { _ = closeUp() }()

	reg := router.NewRegistry(
		handler.NewAuthHandler(users, jwter, cfg.IsAdminEmail),
		handler.NewUploadHandler(up),
		handler.NewUserHandler(users, service.NewGraph(userRepo), service.NewFeed(userRepo, trackRepo)),
		handler.NewTrackHandler(tracks),
	)
	opt := router.Options{
		MaxInFlight:  cfg.App.HTTP.MaxInFlight,
		MaxBodyBytes: cfg.App.HTTP.MaxBodyMB << 20,
		Timeout:      time.Duration(cfg.App.HTTP.WriteTimeoutSec) * time.Second,
	}
	// 本地存储且 URL 是站内路径时，由本服务直接回放上传文件
	if (cfg.Storage.Driver == "" || cfg.Storage.Driver == "local") && strings.HasPrefix(cfg.Storage.PublicBaseURL, "/") {
		opt.UploadsPath = cfg.Storage.PublicBaseURL
		opt.UploadsDir = cfg.Storage.Dir
	}

	// 路由（用户端）
	r := router.NewAPIEngine(log, jwter, reg, opt)

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("user api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	// 异步启动
	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("user api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("user api shutdown", zap.Error(err))
	}
	log.Info("user api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.Rotate.Enable {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate(cfg.Log.Rotate))
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
