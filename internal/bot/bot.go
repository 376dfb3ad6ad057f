package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/eliseohh/voiceechobot/internal/store"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"
)

var ErrNoToken = errors.New("bot: empty token")

// EchoLog keeps the history of echoed clips. It is optional.
type EchoLog interface {
	Record(ctx context.Context, e store.Echo) error
	Count(ctx context.Context, chatID int64) (chat, total int, err error)
	Recent(ctx context.Context, chatID int64, limit int) ([]store.Echo, error)
}

type Bot struct {
	api     *tele.Bot
	history EchoLog
	cfg     Config
}

type Config struct {
	Token          string
	PollTimeout    time.Duration
	AllowedUpdates []string
	Verbose        bool
}

func New(cfg Config, history EchoLog) (*Bot, error) {
	if cfg.Token == "" {
		return nil, ErrNoToken
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 10 * time.Second
	}

	pref := tele.Settings{
		Token: cfg.Token,
		Poller: &tele.LongPoller{
			Timeout:        cfg.PollTimeout,
			AllowedUpdates: cfg.AllowedUpdates,
		},
		OnError: onError,
	}

	api, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("telebot init: %w", err)
	}

	b := &Bot{api: api, history: history, cfg: cfg}
	b.register()
	return b, nil
}

func (b *Bot) register() {
	b.api.Use(middleware.Recover(func(err error, c tele.Context) {
		log.Printf("Handler panic: %v", err)
	}))
	if b.cfg.Verbose {
		b.api.Use(middleware.Logger())
	}

	b.api.Handle("/start", b.handleStart)
	b.api.Handle("/status", b.handleStatus)
	b.api.Handle("/last", b.handleLast)

	b.api.Handle(tele.OnVoice, b.handleVoice)
}

// Run polls for updates until ctx is done. When it returns the receive
// loop has exited and no new handler starts; running ones may still finish.
func (b *Bot) Run(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.api.Start()
	}()

	log.Printf("Bot started: %s", b.api.Me.Username)

	select {
	case <-ctx.Done():
		log.Println("Stopping the bot...")
		// Stop blocks until the receive loop confirms it has exited.
		b.api.Stop()
		<-done
		log.Println("Bot stopped successfully")
		return nil
	case <-done:
		return errors.New("bot: receive loop exited unexpectedly")
	}
}

func onError(err error, c tele.Context) {
	if c != nil && c.Update().ID != 0 {
		log.Printf("Update %d dropped: %v", c.Update().ID, err)
		return
	}
	log.Printf("Bot error: %v", err)
}
