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

	"github.com/redis/go-redis/v9"

	"github.com/sahdev/shopsync/internal/config"
	"github.com/sahdev/shopsync/internal/stubserver"
)

func main() {
	cfg := config.Load().Stub

	var carts stubserver.CartRepository = stubserver.NewMemoryCartRepository()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Redis connection failed: %v", err)
		}
		log.Printf("Using Redis cart storage at %s", cfg.RedisAddr)
		carts = stubserver.NewRedisCartRepository(client)
	}

	store := stubserver.NewStore(carts)
	if err := stubserver.Seed(store, cfg.SeedProducts); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
	log.Printf("Seeded %d products", cfg.SeedProducts)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      stubserver.NewServer(store, cfg.JWTSecret, cfg.TokenTTL),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Commerce stub listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("server exited")
}
