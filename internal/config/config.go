package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docbrowse/internal/errors"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvServer overrides Server.BaseURL when set.
const EnvServer = "DOCBROWSE_SERVER"

// Config represents the application configuration structure.
// It defines the backend location, HTTP client behaviour, download target,
// preview rendering and the colour theme.
type Config struct {
	Server struct {
		BaseURL string `yaml:"base_url" toml:"base_url"` // Browse API root, e.g. http://127.0.0.1:8000
	} `yaml:"server" toml:"server"`
	HTTP struct {
		TimeoutSeconds int    `yaml:"timeout_seconds" toml:"timeout_seconds"` // 0 leaves network defaults in place
		UserAgent      string `yaml:"user_agent" toml:"user_agent"`
	} `yaml:"http" toml:"http"`
	Downloads struct {
		Dir string `yaml:"dir" toml:"dir"` // Where downloaded documents are written
	} `yaml:"downloads" toml:"downloads"`
	Preview struct {
		RenderMarkdown bool `yaml:"render_markdown" toml:"render_markdown"` // Style previews as markdown instead of raw text
		WordWrap       int  `yaml:"word_wrap" toml:"word_wrap"`
	} `yaml:"preview" toml:"preview"`
	Open struct {
		Command string `yaml:"command" toml:"command"` // Overrides the platform opener
	} `yaml:"open" toml:"open"`
	Theme struct {
		Name     string `yaml:"name" toml:"name"`         // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary" toml:"primary"`   // Primary color for titles and cursor
		Success  string `yaml:"success" toml:"success"`   // Success notice color
		Warning  string `yaml:"warning" toml:"warning"`   // Warning notice color
		Error    string `yaml:"error" toml:"error"`       // Error message color
		Info     string `yaml:"info" toml:"info"`         // Breadcrumb and meta text color
		Emphasis string `yaml:"emphasis" toml:"emphasis"` // Stat numbers
		Border   string `yaml:"border" toml:"border"`     // Card borders
	} `yaml:"theme" toml:"theme"`
}

// DefaultPath returns ~/.config/docbrowse/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docbrowse", "config.yaml"), nil
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration. Files ending in
// .toml are decoded as TOML, everything else as YAML.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&tempCfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	cfg.merge(&tempCfg)
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) merge(t *Config) {
	if t.Server.BaseURL != "" {
		c.Server.BaseURL = t.Server.BaseURL
	}
	c.HTTP.TimeoutSeconds = t.HTTP.TimeoutSeconds
	if t.HTTP.UserAgent != "" {
		c.HTTP.UserAgent = t.HTTP.UserAgent
	}
	if t.Downloads.Dir != "" {
		c.Downloads.Dir = t.Downloads.Dir
	}
	c.Preview.RenderMarkdown = t.Preview.RenderMarkdown
	if t.Preview.WordWrap != 0 {
		c.Preview.WordWrap = t.Preview.WordWrap
	}
	c.Open.Command = t.Open.Command

	// A theme name picks the palette; explicit colors then override it
	if t.Theme.Name != "" {
		c.ApplyTheme(t.Theme.Name)
	}
	overrides := []struct {
		dst *string
		src string
	}{
		{&c.Theme.Primary, t.Theme.Primary},
		{&c.Theme.Success, t.Theme.Success},
		{&c.Theme.Warning, t.Theme.Warning},
		{&c.Theme.Error, t.Theme.Error},
		{&c.Theme.Info, t.Theme.Info},
		{&c.Theme.Emphasis, t.Theme.Emphasis},
		{&c.Theme.Border, t.Theme.Border},
	}
	for _, o := range overrides {
		if o.src != "" {
			*o.dst = o.src
		}
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvServer); v != "" {
		c.Server.BaseURL = v
	}
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.BaseURL = "http://127.0.0.1:8000"
	cfg.HTTP.TimeoutSeconds = 0 // Network defaults
	cfg.HTTP.UserAgent = "docbrowse"
	cfg.Downloads.Dir = "."
	cfg.Preview.RenderMarkdown = false
	cfg.Preview.WordWrap = 100
	cfg.ApplyTheme("default")

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns an InvalidConfig error naming the offending setting.
func (c *Config) Validate() error {
	if c == nil {
		return invalid("", errors.New("nil config"))
	}

	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return invalid("server.base_url", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("server.base_url", errors.Newf("%q must be an absolute http(s) URL", c.Server.BaseURL))
	}

	if c.HTTP.TimeoutSeconds < 0 {
		return invalid("http.timeout_seconds", errors.New("must be >= 0"))
	}

	if c.Preview.WordWrap < 0 {
		return invalid("preview.word_wrap", errors.New("must be >= 0"))
	}

	if c.Theme.Name != "" && !isKnownTheme(c.Theme.Name) {
		return invalid("theme.name", errors.Newf("unknown theme %q", c.Theme.Name))
	}

	return nil
}

func invalid(param string, cause error) error {
	return errors.NewConfigError("invalid configuration", param, errors.InvalidConfig, cause)
}

// CheckFile returns nil when a config file exists at path and a
// ConfigNotFound error when it does not.
func CheckFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return errors.NewConfigError("config file not found", path, errors.ConfigNotFound, err)
		}
		return errors.Wrapf(err, "check config file %s", path)
	}
	return nil
}

// Timeout returns the HTTP client timeout; zero means none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig(baseURL string) *Config {
	cfg := defaultConfig()
	cfg.Server.BaseURL = baseURL
	cfg.Downloads.Dir = os.TempDir()
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105",
			"success":  "78",
			"warning":  "214",
			"error":    "160",
			"info":     "33",
			"emphasis": "147",
			"border":   "105",
		},
		"light": {
			"primary":  "135",
			"success":  "150",
			"warning":  "222",
			"error":    "210",
			"info":     "117",
			"emphasis": "219",
			"border":   "135",
		},
		"monochrome": {
			"primary":  "245",
			"success":  "252",
			"warning":  "241",
			"error":    "232",
			"info":     "248",
			"emphasis": "255",
			"border":   "245",
		},
		"ocean": {
			"primary":  "31",
			"success":  "36",
			"warning":  "220",
			"error":    "196",
			"info":     "33",
			"emphasis": "51",
			"border":   "31",
		},
		"sunset": {
			"primary":  "208",
			"success":  "154",
			"warning":  "214",
			"error":    "196",
			"info":     "69",
			"emphasis": "203",
			"border":   "208",
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme in the configuration.
// It updates the theme colors based on the theme name.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome", "ocean", "sunset"}
}

func isKnownTheme(name string) bool {
	for _, t := range ListThemes() {
		if t == name {
			return true
		}
	}
	return false
}
