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

	"github.com/qwf666/GroupMsgSyncTools/internal/api/handler"
	"github.com/qwf666/GroupMsgSyncTools/internal/config"
	"github.com/qwf666/GroupMsgSyncTools/internal/localization"
	"github.com/qwf666/GroupMsgSyncTools/internal/query"
	"github.com/qwf666/GroupMsgSyncTools/internal/storage"
	"github.com/qwf666/GroupMsgSyncTools/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("Starting GroupMsgSyncTools bot...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}

	localizer, err := localization.NewBuiltinLocalizer()
	if cfg.LocalePath != "" {
		localizer, err = localization.NewLocalizer(cfg.LocalePath)
	}
	if err != nil {
		log.Fatalf("Failed to create localizer: %v", err)
	}

	q := query.NewService(store)

	botService, err := telegram.NewBotService(cfg, store, q, localizer)
	if err != nil {
		log.Fatalf("Failed to start Telegram bot: %v", err)
	}

	if err := botService.Bootstrap(); err != nil {
		if errors.Is(err, telegram.ErrConflict) {
			log.Println("========================================")
			log.Println("ERROR: 409 Conflict - another bot instance is running")
			log.Println("Possible causes:")
			log.Println("1. Multiple bot instances are running")
			log.Println("2. A previously set webhook was not removed")
			log.Println("3. Another process is using the same bot token")
			log.Println("Stop all other instances and wait 1-2 minutes before retrying.")
			log.Println("========================================")
			// Short delay so an external supervisor does not restart into
			// the same conflict immediately.
			time.Sleep(5 * time.Second)
			os.Exit(1)
		}
		log.Fatalf("Bootstrap failed: %v", err)
	}

	var server *http.Server
	if cfg.HTTPAddr != "" {
		r := gin.Default()
		h := handler.NewHandler(q)
		r.GET("/healthz", h.Healthz)
		r.GET("/stats", h.Stats)

		server = &http.Server{
			Addr:           cfg.HTTPAddr,
			Handler:        r,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			MaxHeaderBytes: 1 << 20,
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("ERROR: HTTP server: %v", err)
			}
		}()
	}

	log.Printf("Source chat: %d", cfg.SourceChatID)
	log.Printf("Target chat: %d", cfg.TargetChatID)

	go botService.Run()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig
	log.Printf("%v received, shutting down...", received)

	botService.Stop()
	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("ERROR: HTTP server shutdown: %v", err)
		}
	}
	if err := store.Close(); err != nil {
		log.Printf("ERROR: Failed to close storage: %v", err)
	}
	log.Println("Shutdown complete")
}
