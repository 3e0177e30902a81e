package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"arena-chat/internal/config"
	"arena-chat/internal/db"
	apihttp "arena-chat/internal/http"
	"arena-chat/internal/repository"
	"arena-chat/internal/service"
	"arena-chat/internal/ws"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()
	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	blocklist := cfg.BlocklistWords()
	if blocklist == nil {
		blocklist = service.DefaultBlocklist
	}
	filter, err := service.NewProfanityFilter(blocklist, '*')
	if err != nil {
		logger.Fatal("profanity filter init", zap.Error(err))
	}

	// Con Redis configurado los contadores de rate limit se comparten entre
	// réplicas; sin él, ventana fija en memoria por proceso.
	var chatLimiter service.RateLimiter = service.NewWindowRateLimiter(
		apihttp.ChatMessageWindow, apihttp.ChatMessageMax,
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory rate limiter", zap.Error(err))
		} else {
			chatLimiter = service.NewRedisRateLimiter(
				redisClient, apihttp.ChatMessageWindow, apihttp.ChatMessageMax, "chat:rl:send:",
			)
		}
		cancel()
	}

	hub := ws.NewHub(logger)
	go hub.Run()
	defer hub.Shutdown()

	messageRepo := repository.NewPgMessageRepository(pool)
	chatSvc := service.NewChatService(logger, messageRepo, hub, filter)
	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	chatHandler := apihttp.NewChatHandler(logger, chatSvc)
	router := apihttp.NewRouter(logger, jwtSvc, chatLimiter, chatHandler, hub)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
