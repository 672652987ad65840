package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pyraxo/haru/internal/cache"
	"github.com/pyraxo/haru/internal/config"
	"github.com/pyraxo/haru/internal/discord"
	"github.com/pyraxo/haru/internal/storage"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("[ERR] Configuration error: %v", err)
	}

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatalf("[ERR] Failed to open storage: %v", err)
	}
	defer store.Close()

	var cacheStore cache.Store
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer redisCache.Close()
		cacheStore = redisCache
		log.Printf("[INFO] Track cache enabled via Redis at %s", cfg.RedisAddr)
	} else {
		log.Println("[INFO] REDIS_ADDR not set, track cache disabled")
	}

	bot, err := discord.NewBot(cfg, store, cacheStore)
	if err != nil {
		log.Fatalf("[ERR] Failed to create bot: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.Run(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("[INFO] Received signal: %v. Shutting down...", sig)
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Fatalf("[ERR] Bot stopped: %v", err)
		}
	}

	log.Println("[INFO] Goodbye.")
}
