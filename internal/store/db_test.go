package store

import (
	"context"
	"path/filepath"
	"testing"
)

func TestEchoLog(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		chat, total, err := db.Count(ctx, 1)
		if err != nil {
			t.Fatal(err)
		}
		if chat != 0 || total != 0 {
			t.Errorf("expected 0/0, got %d/%d", chat, total)
		}
	})

	t.Run("Record and Count", func(t *testing.T) {
		for _, e := range []Echo{
			{ChatID: 1, SenderID: 10, FileID: "ABC123", Duration: 3},
			{ChatID: 1, SenderID: 10, FileID: "DEF456", Duration: 5},
			{ChatID: 2, SenderID: 20, FileID: "GHI789", Duration: 1},
		} {
			if err := db.Record(ctx, e); err != nil {
				t.Fatal(err)
			}
		}

		chat, total, err := db.Count(ctx, 1)
		if err != nil {
			t.Fatal(err)
		}
		if chat != 2 || total != 3 {
			t.Errorf("expected 2/3, got %d/%d", chat, total)
		}
	})

	t.Run("Recent", func(t *testing.T) {
		got, err := db.Recent(ctx, 1, 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 echo, got %d", len(got))
		}
		if got[0].FileID != "DEF456" {
			t.Errorf("expected newest DEF456, got %s", got[0].FileID)
		}
		if got[0].EchoedAt.IsZero() {
			t.Error("EchoedAt not set")
		}
	})

	t.Run("Schema Idempotent", func(t *testing.T) {
		if err := db.InitSchema(); err != nil {
			t.Fatal(err)
		}
		_, total, _ := db.Count(ctx, 1)
		if total != 3 {
			t.Errorf("schema re-apply lost rows: %d", total)
		}
	})
}
