package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type BotConfig struct {
	SQLitePath string `env:"SQLITE_PATH" envDefault:"tourney.db"`
	HTTPAddr   string `env:"HTTP_ADDR" envDefault:":8080"`

	// AdminIDs are the user ids allowed to run moderation commands.
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	PaymentDetails    string `env:"PAYMENT_DETAILS"`
	CommissionPercent int64  `env:"COMMISSION_PERCENT" envDefault:"30"`

	// PublicChannelID is the recipient id of the broadcast channel.
	// Zero disables channel announcements.
	PublicChannelID int64 `env:"PUBLIC_CHANNEL_ID"`

	// OutboundURL is where outbound actions are POSTed for delivery.
	OutboundURL    string        `env:"OUTBOUND_URL"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`

	// SessionTTL evicts idle wizard sessions. Zero keeps them forever,
	// matching the original deployment.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"0"`

	NotifyWorkers int `env:"NOTIFY_WORKERS" envDefault:"4"`
	NotifyBuffer  int `env:"NOTIFY_BUFFER" envDefault:"2048"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}

func (c BotConfig) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
