package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Gopher0727/GroupChat/config"
	"github.com/Gopher0727/GroupChat/internal/api"
	"github.com/Gopher0727/GroupChat/internal/handlers"
	"github.com/Gopher0727/GroupChat/internal/repositories"
	"github.com/Gopher0727/GroupChat/internal/routers"
	"github.com/Gopher0727/GroupChat/internal/services"
	"github.com/Gopher0727/GroupChat/internal/storage"
	"github.com/Gopher0727/GroupChat/internal/utils"
	logger "github.com/Gopher0727/GroupChat/middleware/log"
	"github.com/Gopher0727/GroupChat/utils/ratelimit"
)

func main() {
	configPath := pflag.StringP("config", "c", "./config.toml", "path to the TOML config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("配置初始化失败: %v", err)
	}

	lg, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer lg.Close()

	if err := run(cfg, lg); err != nil {
		lg.Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, lg *logger.Logger) error {
	// 初始化数据库
	db, err := storage.InitDatabase(&cfg.Database, lg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	// 初始化 Redis，未启用时不使用用户缓存和限流
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = storage.InitRedis(&cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	// 限流：有 Redis 时多实例共享计数，否则退化为进程内计数
	var limiter ratelimit.Limiter
	switch {
	case !cfg.RateLimit.Enabled:
	case redisClient != nil:
		limiter = ratelimit.NewFixedWindowLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.FailOpen, lg)
	default:
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	// 协程池，size 为 0 时不启用
	var pool *utils.WorkerPool
	if cfg.WorkerPool.Size > 0 {
		pool = utils.NewWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize, lg)
		pool.Start()
		defer pool.Stop()
	}

	// 初始化仓储层
	userRepo := repositories.NewUserRepository(db, redisClient, cfg.Redis.UserCacheTTL)
	groupRepo := repositories.NewGroupRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	// 初始化服务层
	membershipService := services.NewMembershipService(userRepo, groupRepo, memberRepo, lg)
	userService := services.NewUserService(userRepo, lg)
	groupService := services.NewGroupService(groupRepo, memberRepo, membershipService, lg)
	messageService := services.NewMessageService(messageRepo, membershipService, lg)

	// 配置并创建 Gin 引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()

	routers.SetupRoutes(r, api.NewMiddlewareManager(limiter, lg), pool, routers.Handlers{
		User:    handlers.NewUserHandler(userService, lg),
		Group:   handlers.NewGroupHandler(groupService, lg),
		Message: handlers.NewMessageHandler(messageService, lg),
		Health:  handlers.NewHealthHandler(sqlDB, lg),
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		lg.Info("server listening", zap.String("addr", srv.Addr), zap.String("db_driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
