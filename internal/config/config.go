package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/jsonc"

	pErrors "github.com/zhubert/chatlog/internal/errors"
)

const (
	// DefaultServerURL is the archive backend used when none is configured
	DefaultServerURL = "http://localhost:8000"
	// DefaultRequestTimeout bounds every backend request
	DefaultRequestTimeout = 30 * time.Second
	// DefaultLocale is the status message language
	DefaultLocale = "en"
	// DefaultSourceURLTemplate links a conversation to its origin thread
	DefaultSourceURLTemplate = "https://chat.openai.com/c/{id}"

	// idPlaceholder is replaced with the conversation id in SourceURLTemplate
	idPlaceholder = "{id}"
)

// SupportedLocales lists the locales with bundled status messages
var SupportedLocales = []string{"en", "zh"}

// Config holds the application configuration
type Config struct {
	ServerURL            string `json:"server_url,omitempty"`            // Archive backend base URL
	RequestTimeout       string `json:"request_timeout,omitempty"`       // Go duration, e.g. "15s"
	Theme                string `json:"theme,omitempty"`                 // UI theme name (e.g., "dark-purple", "nord")
	Locale               string `json:"locale,omitempty"`                // Status message language ("en", "zh")
	SourceURLTemplate    string `json:"source_url_template,omitempty"`   // Origin thread link, {id} is substituted
	NotificationsEnabled bool   `json:"notifications_enabled,omitempty"` // Desktop notification when an import succeeds

	mu       sync.RWMutex
	filePath string
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".chatlog"), nil
}

// configPath returns the path to the config file
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from ~/.chatlog/config.json, or returns defaults
// if it doesn't exist
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Comments and trailing commas are
// allowed in the file.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{filePath: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.ensureInitialized()
		return cfg, nil
	}
	if err != nil {
		return nil, pErrors.ConfigLoadFailed(path, err)
	}

	if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
		return nil, pErrors.ConfigLoadFailed(path, err)
	}

	// Defaults must be in place before Validate, which only reads
	cfg.ensureInitialized()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureInitialized fills empty fields with their defaults.
//
// Thread-safety: only called from LoadFrom before the Config is shared.
func (c *Config) ensureInitialized() {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = DefaultRequestTimeout.String()
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.SourceURLTemplate == "" {
		c.SourceURLTemplate = DefaultSourceURLTemplate
	}
}

// Validate checks that the config is internally consistent.
// This is a read-only operation - call ensureInitialized() first if needed.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := validateServerURL(c.ServerURL); err != nil {
		return err
	}

	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return pErrors.ConfigInvalid(fmt.Sprintf("request_timeout %q is not a duration", c.RequestTimeout))
	}
	if d <= 0 {
		return pErrors.ConfigInvalid("request_timeout must be positive")
	}

	if !isSupportedLocale(c.Locale) {
		return pErrors.ConfigInvalid(fmt.Sprintf("unsupported locale %q (supported: %s)",
			c.Locale, strings.Join(SupportedLocales, ", ")))
	}

	if !strings.Contains(c.SourceURLTemplate, idPlaceholder) {
		return pErrors.ConfigInvalid(fmt.Sprintf("source_url_template must contain %s", idPlaceholder))
	}

	return nil
}

func validateServerURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return pErrors.ConfigInvalid(fmt.Sprintf("server_url %q: %v", raw, err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return pErrors.ConfigInvalid(fmt.Sprintf("server_url %q must use http or https", raw))
	}
	if u.Host == "" {
		return pErrors.ConfigInvalid(fmt.Sprintf("server_url %q has no host", raw))
	}
	return nil
}

func isSupportedLocale(locale string) bool {
	for _, l := range SupportedLocales {
		if l == locale {
			return true
		}
	}
	return false
}

// Save writes the config to disk. The file is replaced atomically so a
// crash mid-write never leaves a truncated config behind.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	path := c.filePath
	if path == "" {
		p, err := configPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return pErrors.ConfigSaveFailed(path, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return pErrors.ConfigSaveFailed(path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return pErrors.ConfigSaveFailed(path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return pErrors.ConfigSaveFailed(path, err)
	}
	return nil
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filePath
}

// GetServerURL returns the archive backend base URL without a trailing slash
func (c *Config) GetServerURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return strings.TrimRight(c.ServerURL, "/")
}

// SetServerURL overrides the backend URL after validating it
func (c *Config) SetServerURL(raw string) error {
	if err := validateServerURL(raw); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ServerURL = raw
	return nil
}

// GetRequestTimeout returns the per-request timeout
func (c *Config) GetRequestTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return DefaultRequestTimeout
	}
	return d
}

// GetTheme returns the current theme name
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}

// SetTheme sets the current theme name
func (c *Config) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Theme = theme
}

// GetLocale returns the status message locale
func (c *Config) GetLocale() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Locale
}

// SetLocale sets the status message locale
func (c *Config) SetLocale(locale string) error {
	if !isSupportedLocale(locale) {
		return pErrors.ConfigInvalid(fmt.Sprintf("unsupported locale %q", locale))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Locale = locale
	return nil
}

// SourceURL returns the origin thread link for a conversation id
func (c *Config) SourceURL(conversationID string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tmpl := c.SourceURLTemplate
	if tmpl == "" {
		tmpl = DefaultSourceURLTemplate
	}
	return strings.ReplaceAll(tmpl, idPlaceholder, url.PathEscape(conversationID))
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether desktop notifications are enabled
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}
