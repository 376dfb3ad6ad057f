package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingToken = errors.New("BOT_TOKEN is not set")

// AllUpdateTypes lists every update type the Bot API can deliver.
var AllUpdateTypes = []string{
	"message",
	"edited_message",
	"channel_post",
	"edited_channel_post",
	"message_reaction",
	"message_reaction_count",
	"inline_query",
	"chosen_inline_result",
	"callback_query",
	"shipping_query",
	"pre_checkout_query",
	"poll",
	"poll_answer",
	"my_chat_member",
	"chat_member",
	"chat_join_request",
	"chat_boost",
	"removed_chat_boost",
	"business_connection",
	"business_message",
	"edited_business_message",
	"deleted_business_messages",
	"purchased_paid_media",
}

const defaultPollTimeout = 10 * time.Second

type Config struct {
	Token          string
	PollTimeout    time.Duration
	AllowedUpdates []string
	DBPath         string
	Verbose        bool
}

// Load reads config.yaml from dir if present; environment variables win.
func Load(dir string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("bot_token", "")
	v.SetDefault("poll_timeout", defaultPollTimeout)
	v.SetDefault("allowed_updates", AllUpdateTypes)
	v.SetDefault("db_path", "./voiceecho.db")
	v.SetDefault("verbose", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config load error: %w", err)
		}
	}

	cfg := Config{
		Token:          strings.TrimSpace(v.GetString("bot_token")),
		PollTimeout:    v.GetDuration("poll_timeout"),
		AllowedUpdates: splitList(v.GetStringSlice("allowed_updates")),
		DBPath:         v.GetString("db_path"),
		Verbose:        v.GetBool("verbose"),
	}

	// Empty env values are allowed so DB_PATH= can disable history;
	// an empty POLL_TIMEOUT still means the default.
	if strings.TrimSpace(v.GetString("poll_timeout")) == "" {
		cfg.PollTimeout = defaultPollTimeout
	}

	if cfg.Token == "" {
		return cfg, ErrMissingToken
	}
	if cfg.PollTimeout <= 0 {
		return cfg, fmt.Errorf("poll_timeout must be positive, got %s", cfg.PollTimeout)
	}
	if len(cfg.AllowedUpdates) == 0 {
		cfg.AllowedUpdates = AllUpdateTypes
	}
	return cfg, nil
}

// splitList accepts both YAML lists and "a,b c" strings from the environment.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, f := range strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		}) {
			out = append(out, f)
		}
	}
	return out
}
