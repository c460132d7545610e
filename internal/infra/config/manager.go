package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/pelletier/go-toml/v2"

	"github.com/osmnl/pdok-report/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

//go:embed config.toml.tmpl
var templateText string

var configTemplate = template.Must(template.New("config").Parse(templateText))

// Manager manages the configuration file.
type Manager struct {
	path string // Path to config.toml
}

// NewManager creates a Manager for the config file at path.
// An empty path uses the file in the default config directory.
func NewManager(path string) *Manager {
	if path == "" {
		path = DefaultPath()
	}
	return &Manager{path: path}
}

// Info returns information about the config file.
func (m *Manager) Info() domain.ConfigInfo {
	content, err := os.ReadFile(m.path)
	if err != nil {
		return domain.ConfigInfo{Path: m.path}
	}
	return domain.ConfigInfo{
		Path:    m.path,
		Content: string(content),
		Exists:  true,
	}
}

// Init writes the default config template and returns its path.
// An existing file is only replaced when overwrite is set.
func (m *Manager) Init(overwrite bool) (string, error) {
	if m.path == "" {
		return "", errors.New("config directory not available")
	}
	if _, err := os.Stat(m.path); err == nil && !overwrite {
		return m.path, domain.ErrConfigExists
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	content, err := RenderTemplate(domain.NewDefaultConfig())
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(m.path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return m.path, nil
}

// RenderTemplate renders the commented config template with cfg's values.
func RenderTemplate(cfg *domain.Config) (string, error) {
	var buf bytes.Buffer
	if err := configTemplate.Execute(&buf, struct {
		Cfg   *domain.Config
		Modes []domain.APIMode
	}{cfg, domain.AllAPIModes()}); err != nil {
		return "", fmt.Errorf("render config template: %w", err)
	}
	return buf.String(), nil
}

// fileConfig mirrors the file layout for encoding.
type fileConfig struct {
	API struct {
		Use                string `toml:"use"`
		Key                string `toml:"key"`
		AcceptanceKey      string `toml:"acceptance_key"`
		URL                string `toml:"url"`
		AcceptanceURL      string `toml:"acceptance_url"`
		ProxyURL           string `toml:"proxy_url"`
		ProxyAcceptanceURL string `toml:"proxy_acceptance_url"`
		DebugProxy         bool   `toml:"debug_proxy"`
	} `toml:"api"`
	Download struct {
		Mode         string  `toml:"mode"`
		Cooldown     string  `toml:"cooldown"`
		SnapDistance float64 `toml:"snap_distance"`
	} `toml:"download"`
	User struct {
		Email        string `toml:"email"`
		Organisation string `toml:"organisation"`
	} `toml:"user"`
	Display struct {
		DateFormat string `toml:"date_format"`
	} `toml:"display"`
	Filter struct {
		HidePeriod string  `toml:"hide_period"`
		HideNumber float64 `toml:"hide_number"`
		HideClosed bool    `toml:"hide_closed"`
	} `toml:"filter"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

// Encode renders cfg as TOML. API keys are masked unless showSecrets is set.
func Encode(cfg *domain.Config, showSecrets bool) (string, error) {
	var f fileConfig
	f.API.Use = string(cfg.API.Use)
	f.API.Key = mask(cfg.API.Key, showSecrets)
	f.API.AcceptanceKey = mask(cfg.API.AcceptanceKey, showSecrets)
	f.API.URL = cfg.API.URL
	f.API.AcceptanceURL = cfg.API.AcceptanceURL
	f.API.ProxyURL = cfg.API.ProxyURL
	f.API.ProxyAcceptanceURL = cfg.API.ProxyAcceptanceURL
	f.API.DebugProxy = cfg.API.DebugProxy
	f.Download.Mode = string(cfg.Download.Mode)
	f.Download.Cooldown = cfg.Download.Cooldown.String()
	f.Download.SnapDistance = cfg.Download.SnapDistance
	f.User.Email = cfg.User.Email
	f.User.Organisation = cfg.User.Organisation
	f.Display.DateFormat = cfg.Display.DateFormat
	f.Filter.HidePeriod = string(cfg.Filter.HidePeriod)
	f.Filter.HideNumber = cfg.Filter.HideNumber
	f.Filter.HideClosed = cfg.Filter.HideClosed
	f.Log.Level = cfg.Log.Level

	data, err := toml.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}

func mask(secret string, show bool) string {
	if show || secret == "" {
		return secret
	}
	return "********"
}
