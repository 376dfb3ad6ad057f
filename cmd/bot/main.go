package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/eliseohh/voiceechobot/internal/bot"
	"github.com/eliseohh/voiceechobot/internal/config"
	"github.com/eliseohh/voiceechobot/internal/store"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("VoiceEchoBot")

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠ Could not load .env: %v", err)
	}

	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatalf("Fatal: %v", err)
	}

	// 1. Echo history (optional)
	var history bot.EchoLog
	if cfg.DBPath != "" {
		db, err := store.NewDB(cfg.DBPath)
		if err != nil {
			log.Fatalf("Fatal: %v", err)
		}
		defer db.Close()
		history = db
	} else {
		fmt.Println("Running without echo history.")
	}

	// 2. Bot
	b, err := bot.New(bot.Config{
		Token:          cfg.Token,
		PollTimeout:    cfg.PollTimeout,
		AllowedUpdates: cfg.AllowedUpdates,
		Verbose:        cfg.Verbose,
	}, history)
	if err != nil {
		log.Fatalf("Bot init failed: %v", err)
	}

	// 3. Run until SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("🤖 Bot Online. Press Ctrl+C to stop.")
	if err := b.Run(ctx); err != nil {
		log.Printf("Bot stopped with error: %v", err)
		return
	}
	fmt.Println("Bot has been stopped.")
}
