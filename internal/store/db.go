package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

type DB struct {
	*sql.DB
}

// Echo is one voice clip sent back to a chat.
type Echo struct {
	ChatID       int64
	SenderID     int64
	FileID       string
	FileUniqueID string
	Duration     int
	EchoedAt     time.Time
}

func NewDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// Handlers run in their own goroutines; sqlite takes one writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	d := &DB{db}
	if err := d.InitSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) InitSchema() error {
	if _, err := d.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (d *DB) Record(ctx context.Context, e Echo) error {
	if e.EchoedAt.IsZero() {
		e.EchoedAt = time.Now()
	}
	_, err := d.ExecContext(ctx,
		`INSERT INTO echoes (chat_id, sender_id, file_id, file_unique_id, duration, echoed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ChatID, e.SenderID, e.FileID, e.FileUniqueID, e.Duration, e.EchoedAt.UTC())
	if err != nil {
		return fmt.Errorf("record echo: %w", err)
	}
	return nil
}

// Count returns the number of echoes in chatID and across all chats.
func (d *DB) Count(ctx context.Context, chatID int64) (chat, total int, err error) {
	err = d.QueryRowContext(ctx,
		`SELECT COUNT(CASE WHEN chat_id = ? THEN 1 END), COUNT(*) FROM echoes`,
		chatID).Scan(&chat, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("count echoes: %w", err)
	}
	return chat, total, nil
}

// Recent lists the latest echoes for a chat, newest first.
func (d *DB) Recent(ctx context.Context, chatID int64, limit int) ([]Echo, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT chat_id, sender_id, file_id, file_unique_id, duration, echoed_at
		 FROM echoes WHERE chat_id = ? ORDER BY id DESC LIMIT ?`,
		chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("query echoes: %w", err)
	}
	defer rows.Close()

	var out []Echo
	for rows.Next() {
		var e Echo
		if err := rows.Scan(&e.ChatID, &e.SenderID, &e.FileID, &e.FileUniqueID, &e.Duration, &e.EchoedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
