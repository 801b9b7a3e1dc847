package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// FileName is the repository config file inside the .gitlet directory.
const FileName = "config"

// ErrKeyNotFound is returned by Get for a key with no value, including when
// the repository has no config file.
var ErrKeyNotFound = errors.New("config key not found")

// Config is the merged gitlet configuration.
type Config struct {
	User    UserConfig    `yaml:"user"`
	Core    CoreConfig    `yaml:"core"`
	Related RelatedConfig `yaml:"related"`
}

// UserConfig identifies the author stamped on new commits.
type UserConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// CoreConfig holds CLI behaviour switches.
type CoreConfig struct {
	Verbose bool `yaml:"verbose"`
}

// RelatedConfig tunes the co-change query.
type RelatedConfig struct {
	Window time.Duration `yaml:"window"` // commits closer than this count as one change
	Limit  int           `yaml:"limit"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		User:    UserConfig{Name: "gitlet"},
		Related: RelatedConfig{Limit: 10},
	}
}

// Author renders the user as "Name <email>", or just the name without an email.
func (c *Config) Author() string {
	if c.User.Email == "" {
		return c.User.Name
	}
	return fmt.Sprintf("%s <%s>", c.User.Name, c.User.Email)
}

// UserConfigPath returns ~/.config/gitlet/config.yaml, or "" if there is no
// home directory.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gitlet", "config.yaml")
}

// Load merges defaults, the user file, the repository file in repoDir and
// the environment, later sources winning.
func Load(repoDir string) (*Config, error) {
	return LoadFiles(UserConfigPath(), filepath.Join(repoDir, FileName))
}

// LoadFiles is Load with explicit file paths. Missing files are skipped.
func LoadFiles(userFile, repoFile string) (*Config, error) {
	cfg := Default()
	if userFile != "" {
		if err := loadYAML(cfg, userFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", userFile, err)
		}
	}
	if repoFile != "" {
		if err := loadINI(cfg, repoFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", repoFile, err)
		}
	}
	loadFromEnv(cfg)
	return cfg, nil
}

func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg)
}

func loadINI(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	f, err := ini.Load(path)
	if err != nil {
		return err
	}
	user := f.Section("user")
	if user.HasKey("name") {
		cfg.User.Name = user.Key("name").String()
	}
	if user.HasKey("email") {
		cfg.User.Email = user.Key("email").String()
	}
	core := f.Section("core")
	if core.HasKey("verbose") {
		cfg.Core.Verbose = core.Key("verbose").MustBool(cfg.Core.Verbose)
	}
	related := f.Section("related")
	if related.HasKey("window") {
		cfg.Related.Window = related.Key("window").MustDuration(cfg.Related.Window)
	}
	if related.HasKey("limit") {
		cfg.Related.Limit = related.Key("limit").MustInt(cfg.Related.Limit)
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if name := os.Getenv("GITLET_AUTHOR_NAME"); name != "" {
		cfg.User.Name = name
	}
	if email := os.Getenv("GITLET_AUTHOR_EMAIL"); email != "" {
		cfg.User.Email = email
	}
	if v := os.Getenv("GITLET_VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Core.Verbose = b
		}
	}
}

// WriteDefault creates the repository config file in repoDir seeded with the
// user section of cfg.
func WriteDefault(repoDir string, cfg *Config) error {
	f := ini.Empty()
	f.Section("user").Key("name").SetValue(cfg.User.Name)
	if cfg.User.Email != "" {
		f.Section("user").Key("email").SetValue(cfg.User.Email)
	}
	f.Section("core").Key("verbose").SetValue(strconv.FormatBool(cfg.Core.Verbose))
	return f.SaveTo(filepath.Join(repoDir, FileName))
}

func splitKey(key string) (string, string, error) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid config key: %s", key)
	}
	return parts[0], parts[1], nil
}

// Get reads "section.name" from the repository config file.
func Get(repoDir, key string) (string, error) {
	section, name, err := splitKey(key)
	if err != nil {
		return "", err
	}
	path := filepath.Join(repoDir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	f, err := ini.Load(path)
	if err != nil {
		return "", err
	}
	val := f.Section(section).Key(name).String()
	if val == "" {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return val, nil
}

// Set writes "section.name" into the repository config file, creating the
// file if needed.
func Set(repoDir, key, value string) error {
	section, name, err := splitKey(key)
	if err != nil {
		return err
	}
	path := filepath.Join(repoDir, FileName)
	f, err := ini.LooseLoad(path)
	if err != nil {
		return err
	}
	f.Section(section).Key(name).SetValue(value)
	return f.SaveTo(path)
}
