package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/billbatista/acasinha-splits/ledger"
	"github.com/billbatista/acasinha-splits/user"
	"github.com/pelletier/go-toml"
	"github.com/shopspring/decimal"
)

var (
	ErrNoUsers         = errors.New("config: at least one user is required")
	ErrEmptyListen     = errors.New("config: listen address can't be empty")
	ErrEmptyCurrency   = errors.New("config: currency can't be empty")
	ErrUnknownLogLevel = errors.New("config: unknown log level")
)

type Config struct {
	Listen       string        `toml:"listen"`
	Currency     string        `toml:"currency"`
	DatabaseURL  string        `toml:"database_url"`
	APITokenHash string        `toml:"api_token_hash"`
	EventBuffer  int           `toml:"event_buffer"`
	LogLevel     string        `toml:"log_level"`
	Users        []user.User   `toml:"users"`
	Seed         []SeedExpense `toml:"seed"`
}

// SeedExpense is appended to the ledger at startup. Amount is kept as a
// string so values survive without float rounding.
type SeedExpense struct {
	Description  string   `toml:"description"`
	Amount       string   `toml:"amount"`
	PaidBy       string   `toml:"paid_by"`
	Participants []string `toml:"participants"`
}

var defaultUsers = []user.User{
	{ID: "U1", Name: "Dinh Phuong Anh"},
	{ID: "U2", Name: "Anh Viet Doan"},
	{ID: "U3", Name: "Le Duy Duc"},
	{ID: "U4", Name: "Chu Thanh Thao"},
	{ID: "U5", Name: "Ta Ha Trang"},
	{ID: "U6", Name: "Nguyen Khanh Bang"},
	{ID: "U7", Name: "Nguyen Phuc Thang"},
	{ID: "U8", Name: "Le Van Bao"},
	{ID: "U9", Name: "Mrudav Mehta"},
}

func Default() Config {
	users := make([]user.User, len(defaultUsers))
	copy(users, defaultUsers)
	return Config{
		Listen:      ":5000",
		Currency:    "VND",
		EventBuffer: 100,
		LogLevel:    "info",
		Users:       users,
	}
}

// Load reads a TOML file on top of Default. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults fills every unset field from Default. A file that lists
// users replaces the default roster entirely.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.Currency == "" {
		c.Currency = def.Currency
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = def.EventBuffer
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if len(c.Users) == 0 {
		c.Users = def.Users
	}
}

func (c Config) Validate() error {
	if c.Listen == "" {
		return ErrEmptyListen
	}
	if c.Currency == "" {
		return ErrEmptyCurrency
	}
	if len(c.Users) == 0 {
		return ErrNoUsers
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

func (c Config) Roster() (*user.Roster, error) {
	r, err := user.NewRoster(c.Users)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return r, nil
}

func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLogLevel, c.LogLevel)
	}
	return level, nil
}

// SeedExpenses converts the [[seed]] entries into submissions. They still
// have to pass validation before they reach the ledger.
func (c Config) SeedExpenses() ([]ledger.NewExpense, error) {
	out := make([]ledger.NewExpense, 0, len(c.Seed))
	for i, s := range c.Seed {
		amount, err := decimal.NewFromString(s.Amount)
		if err != nil {
			return nil, fmt.Errorf("config: seed %d amount %q: %w", i, s.Amount, err)
		}
		out = append(out, ledger.NewExpense{
			Description:  s.Description,
			TotalAmount:  amount,
			PaidBy:       s.PaidBy,
			Participants: s.Participants,
		})
	}
	return out, nil
}
