package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"todoview/internal/view"
)

const (
	AppName               = "todoview"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultLogName        = "todoview.log"
	EnvConfigPath         = "TODOVIEW_CONFIG"
)

type Keymap struct {
	Quit         string `toml:"quit"`
	Up           string `toml:"up"`
	Down         string `toml:"down"`
	Toggle       string `toml:"toggle"`
	Expand       string `toml:"expand"`
	AddSubtask   string `toml:"add_subtask"`
	Search       string `toml:"search"`
	Filter       string `toml:"filter"`
	SortDue      string `toml:"sort_due"`
	SortPriority string `toml:"sort_priority"`
	Select       string `toml:"select"`
	Delete       string `toml:"delete"`
	Undo         string `toml:"undo"`
	Confirm      string `toml:"confirm"`
	Cancel       string `toml:"cancel"`
}

type Config struct {
	DBPath          string `toml:"db_path"`
	LogPath         string `toml:"log_path"`
	DefaultFilter   string `toml:"default_filter"`
	DefaultSort     string `toml:"default_sort"`
	ShowListName    bool   `toml:"show_list_name"`
	AutoProgress    bool   `toml:"auto_progress"`
	DefaultReminder string `toml:"default_reminder"`
	Keys            Keymap `toml:"keys"`
}

// ResolveConfigPath picks the config file: $TODOVIEW_CONFIG, then the user config dir.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults first if it does not exist.
// Relative db and log paths are resolved against the config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogName
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg.resolve(path), nil
}

func (c Config) resolve(configPath string) Config {
	dir := filepath.Dir(configPath)
	if !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(dir, c.LogPath)
	}
	return c
}

func (c Config) Validate() error {
	if _, err := view.ParseFilter(c.DefaultFilter); err != nil {
		return err
	}
	if _, err := view.ParseSortMask(c.DefaultSort); err != nil {
		return err
	}
	if _, err := c.ReminderLead(); err != nil {
		return err
	}
	return nil
}

// ReminderLead is default_reminder as a duration. Empty means no lead time.
func (c Config) ReminderLead() (time.Duration, error) {
	if c.DefaultReminder == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.DefaultReminder)
	if err != nil {
		return 0, fmt.Errorf("default_reminder: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("default_reminder must not be negative: %s", c.DefaultReminder)
	}
	return d, nil
}

func (c Config) ViewConfig() view.Config {
	lead, _ := c.ReminderLead()
	return view.Config{
		AutoProgress:    c.AutoProgress,
		ShowListName:    c.ShowListName,
		DefaultReminder: lead,
	}
}

func (c Config) Criterion() view.Criterion {
	f, _ := view.ParseFilter(c.DefaultFilter)
	return view.Criterion{Filter: f}
}

func (c Config) SortMask() view.SortMask {
	m, _ := view.ParseSortMask(c.DefaultSort)
	return m
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default is the configuration written on first launch.
func Default() Config {
	return Config{
		DBPath:          DefaultDBName,
		LogPath:         DefaultLogName,
		DefaultFilter:   "all",
		DefaultSort:     "priority",
		ShowListName:    false,
		AutoProgress:    true,
		DefaultReminder: "24h",
		Keys: Keymap{
			Quit:         "q",
			Up:           "k",
			Down:         "j",
			Toggle:       " ",
			Expand:       "enter",
			AddSubtask:   "a",
			Search:       "/",
			Filter:       "f",
			SortDue:      "sd",
			SortPriority: "sp",
			Select:       "x",
			Delete:       "dd",
			Undo:         "u",
			Confirm:      "y",
			Cancel:       "esc",
		},
	}
}
