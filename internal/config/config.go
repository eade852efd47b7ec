package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"todoman/internal/storage"
	"todoman/internal/theme"
	"todoman/internal/todo"
)

const (
	AppName               = "todoman"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultDataDirName    = "data"
	DefaultLogName        = "todoman.log"

	// ConfigEnv overrides the config file location.
	ConfigEnv = "TODOMAN_CONFIG"
)

// Keymap binds actions to keys. A field may list several keys separated by
// commas, e.g. "k,up".
type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Edit           string `toml:"edit"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	NextField      string `toml:"next_field"`
	PrevField      string `toml:"prev_field"`
	FilterStatus   string `toml:"filter_status"`
	FilterPriority string `toml:"filter_priority"`
	SortCreated    string `toml:"sort_created"`
	SortDue        string `toml:"sort_due"`
	SortPriority   string `toml:"sort_priority"`
	SortOrder      string `toml:"sort_order"`
	Theme          string `toml:"theme"`
	Help           string `toml:"help"`
}

type Config struct {
	Storage               string `toml:"storage"`
	DataPath              string `toml:"data_path"`
	LogPath               string `toml:"log_path"`
	LogLevel              string `toml:"log_level"`
	Theme                 string `toml:"theme"`
	DefaultFilter         string `toml:"default_filter"`
	DefaultPriorityFilter string `toml:"default_priority_filter"`
	DefaultSort           string `toml:"default_sort"`
	DefaultOrder          string `toml:"default_order"`
	Keys                  Keymap `toml:"keys"`
}

// ResolveConfigPath returns $TODOMAN_CONFIG when set, otherwise config.toml
// inside DefaultConfigDir.
func ResolveConfigPath() string {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), DefaultConfigFileName)
}

// DefaultConfigDir uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// if the file does not exist. Relative data and log paths are resolved
// against the config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Storage == "" {
		cfg.Storage = storage.KindSQLite
	}
	if cfg.DataPath == "" {
		cfg.DataPath = defaultDataPath(cfg.Storage)
	}
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogName
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg.resolve(filepath.Dir(path)), nil
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

func (c Config) resolve(dir string) Config {
	if c.Storage != storage.KindMemory && c.DataPath != "" && !filepath.IsAbs(c.DataPath) && !strings.HasPrefix(c.DataPath, "file:") {
		c.DataPath = filepath.Join(dir, c.DataPath)
	}
	if c.LogPath != "" && !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(dir, c.LogPath)
	}
	return c
}

// Validate rejects unknown enum values.
func (c Config) Validate() error {
	switch c.Storage {
	case storage.KindSQLite, storage.KindFile, storage.KindMemory:
	default:
		return fmt.Errorf("unknown storage %q (want sqlite, file or memory)", c.Storage)
	}
	if _, err := theme.Parse(c.Theme); err != nil {
		return err
	}
	if _, err := c.InitialFilter(); err != nil {
		return err
	}
	if _, err := c.InitialSort(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// InitialFilter is the filter the store starts with.
func (c Config) InitialFilter() (todo.Filter, error) {
	status, err := todo.ParseStatus(c.DefaultFilter)
	if err != nil {
		return todo.Filter{}, err
	}
	priority, err := todo.ParsePriorityFilter(c.DefaultPriorityFilter)
	if err != nil {
		return todo.Filter{}, err
	}
	return todo.Filter{Status: status, Priority: priority}, nil
}

// InitialSort is the sort the store starts with.
func (c Config) InitialSort() (todo.Sort, error) {
	by, err := todo.ParseSortBy(c.DefaultSort)
	if err != nil {
		return todo.Sort{}, err
	}
	order, err := todo.ParseOrder(c.DefaultOrder)
	if err != nil {
		return todo.Sort{}, err
	}
	return todo.Sort{By: by, Order: order}, nil
}

// InitialTheme is used only when no theme has been persisted yet.
func (c Config) InitialTheme() theme.Theme {
	t, err := theme.Parse(c.Theme)
	if err != nil {
		return theme.Light
	}
	return t
}

func defaultDataPath(kind string) string {
	if kind == storage.KindFile {
		return DefaultDataDirName
	}
	return DefaultDBName
}

// Default returns the built-in configuration.
func Default() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Storage:               storage.KindSQLite,
		DataPath:              DefaultDBName,
		LogPath:               DefaultLogName,
		LogLevel:              "info",
		Theme:                 string(theme.Light),
		DefaultFilter:         string(todo.StatusAll),
		DefaultPriorityFilter: string(todo.PriorityAll),
		DefaultSort:           string(todo.SortCreatedAt),
		DefaultOrder:          string(todo.Asc),
		Keys: Keymap{
			Quit:           "q,ctrl+c",
			Add:            "a",
			Up:             "k,up",
			Down:           "j,down",
			Toggle:         " ,x",
			Delete:         "d",
			Edit:           "e",
			Confirm:        "enter",
			Cancel:         "esc",
			NextField:      "tab",
			PrevField:      "shift+tab",
			FilterStatus:   "f",
			FilterPriority: "p",
			SortCreated:    "1",
			SortDue:        "2",
			SortPriority:   "3",
			SortOrder:      "o",
			Theme:          "t",
			Help:           "?",
		},
	}
}
