package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/eliseohh/voiceechobot/internal/store"
	tele "gopkg.in/telebot.v3"
)

const historyTimeout = 5 * time.Second

// handleVoice sends the inbound clip back to the same chat by file id.
// Nothing is downloaded or re-uploaded.
func (b *Bot) handleVoice(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Voice == nil {
		return nil
	}

	in := msg.Voice
	out := &tele.Voice{
		File:     tele.File{FileID: in.FileID},
		Duration: in.Duration,
	}
	// Group echoes quote the clip they answer.
	send := c.Send
	if msg.Chat != nil && (msg.Chat.Type == tele.ChatGroup || msg.Chat.Type == tele.ChatSuperGroup) {
		send = c.Reply
	}
	if err := send(out); err != nil {
		return err
	}

	b.record(msg)
	return nil
}

// record stores a sent echo. Failures are logged only.
func (b *Bot) record(msg *tele.Message) {
	if b.history == nil {
		return
	}

	e := store.Echo{
		FileID:       msg.Voice.FileID,
		FileUniqueID: msg.Voice.UniqueID,
		Duration:     msg.Voice.Duration,
		EchoedAt:     time.Now(),
	}
	if msg.Chat != nil {
		e.ChatID = msg.Chat.ID
	}
	if msg.Sender != nil {
		e.SenderID = msg.Sender.ID
	}

	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()
	if err := b.history.Record(ctx, e); err != nil {
		log.Printf("⚠ Echo not recorded: %v", err)
	}
}

func (b *Bot) handleStart(c tele.Context) error {
	return c.Send("🎙 Send me a voice message and I'll send it right back.")
}

func (b *Bot) handleStatus(c tele.Context) error {
	if b.history == nil {
		return c.Send("History is disabled.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()
	chat, total, err := b.history.Count(ctx, chatID(c))
	if err != nil {
		log.Printf("Status error: %v", err)
		return c.Send("⚠ History unavailable.")
	}
	return c.Send(fmt.Sprintf("Echoed here: %d\nEchoed total: %d", chat, total))
}

// /last replays the most recent clip echoed in this chat.
func (b *Bot) handleLast(c tele.Context) error {
	if b.history == nil {
		return c.Send("History is disabled.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()
	recent, err := b.history.Recent(ctx, chatID(c), 1)
	if err != nil {
		log.Printf("Last error: %v", err)
		return c.Send("⚠ History unavailable.")
	}
	if len(recent) == 0 {
		return c.Send("Nothing echoed here yet.")
	}

	last := recent[0]
	return c.Send(&tele.Voice{
		File:     tele.File{FileID: last.FileID},
		Duration: last.Duration,
	})
}

func chatID(c tele.Context) int64 {
	if msg := c.Message(); msg != nil && msg.Chat != nil {
		return msg.Chat.ID
	}
	return 0
}
