package main

import (
	"context"
	"os"
	"time"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/auth"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/cache"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/category"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/config"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/database"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/events"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/group"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/logs"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/post"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/router"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/user"
)

func main() {
	cfg := config.LoadConfig()
	logs.SetLevel(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		fatal("JWT_SECRET manquant", nil)
	}
	auth.Init(cfg.JWTSecret, cfg.CookieSecure)

	if err := database.Connect(cfg.DBDriver, cfg.DBDsn, cfg.LogLevel); err != nil {
		fatal("Database connection failed", err)
	}
	defer database.Close()

	if err := database.Migrate(database.DB, user.AutoMigrate, group.AutoMigrate, category.AutoMigrate, post.AutoMigrate); err != nil {
		fatal("Database migration failed", err)
	}

	if cfg.SeedDefaults {
		if err := group.EnsureDefaults(database.DB); err != nil {
			fatal("Default groups seeding failed", err)
		}
		logs.LogJSON("INFO", "Default groups and permissions ensured", nil)
	}

	// Redis et NATS sont optionnels
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		cancel()
		if err != nil {
			logs.LogJSON("WARN", "Redis unavailable, category cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer cache.Close()
	}
	if cfg.NatsURL != "" {
		if err := events.Connect(cfg.NatsURL); err != nil {
			logs.LogJSON("WARN", "NATS unavailable, post events disabled", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer events.Close()
	}

	r := router.New(cfg)

	logs.LogJSON("INFO", "Server starting", map[string]interface{}{
		"port":   cfg.Port,
		"driver": cfg.DBDriver,
	})
	if err := r.Run(":" + cfg.Port); err != nil {
		logs.LogJSON("ERROR", "Server stopped", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func fatal(message string, err error) {
	fields := map[string]interface{}{}
	if err != nil {
		fields["error"] = err.Error()
	}
	logs.LogJSON("FATAL", message, fields)
	os.Exit(1)
}
