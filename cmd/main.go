package main

import (
	"context"
	"log"

	"spendbook.com/internal/api"
	"spendbook.com/internal/config"
	"spendbook.com/internal/domain"
	"spendbook.com/internal/infra"
	"spendbook.com/internal/service"
)

func main() {
	cfg := config.LoadConfig()

	db, err := infra.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Redis backs the refresh-token blacklist when configured; otherwise
	// revocations only survive as long as the process does.
	var blacklist domain.TokenBlacklist
	if cfg.Redis.Addr != "" {
		rdb := infra.NewRedisClient(cfg.Redis)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		blacklist = infra.NewRedisBlacklist(rdb)
	} else {
		log.Println("Redis not configured, using in-process token blacklist")
		blacklist = infra.NewMemoryBlacklist()
	}

	tokenSvc := service.NewTokenService(cfg.JWT, blacklist)
	authSvc := service.NewAuthService(db, tokenSvc)
	expenseSvc := service.NewExpenseService(db)

	app := api.NewServer(cfg)
	router := api.NewRouter(app, cfg, db, authSvc, tokenSvc, expenseSvc)
	if err := router.RegisterRoutes(); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := app.Listen(cfg.Server.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
