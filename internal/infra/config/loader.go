// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/osmnl/pdok-report/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from a TOML file.
type Loader struct {
	path string // Path to config.toml
}

// NewLoader creates a Loader for the config file at path.
// An empty path uses the file in the default config directory.
func NewLoader(path string) *Loader {
	if path == "" {
		path = DefaultPath()
	}
	return &Loader{path: path}
}

// DefaultDir returns the default config directory.
func DefaultDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	dir := DefaultDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, domain.ConfigFileName)
}

// Path returns the config file path.
func (l *Loader) Path() string {
	return l.path
}

// Load returns the file's configuration merged over the defaults.
// A missing file yields the defaults.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()
	if l.path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", l.path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data onto cfg. Unknown sections, unknown keys and
// invalid values are collected in cfg.Warnings and leave the field unchanged.
func Parse(data []byte, cfg *domain.Config) error {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return err
	}

	p := parser{cfg: cfg}
	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			p.warnf("unknown key: %s", section)
			continue
		}
		switch section {
		case "api":
			p.api(m)
		case "download":
			p.download(m)
		case "user":
			p.user(m)
		case "display":
			p.display(m)
		case "filter":
			p.filter(m)
		case "log":
			p.log(m)
		default:
			p.warnf("unknown section: %s", section)
		}
	}

	sort.Strings(p.warnings)
	cfg.Warnings = append(cfg.Warnings, p.warnings...)
	return nil
}

type parser struct {
	cfg      *domain.Config
	warnings []string
}

func (p *parser) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *parser) invalid(section, key string, v any) {
	p.warnf("invalid value in [%s]: %s = %v", section, key, v)
}

func (p *parser) api(m map[string]any) {
	c := &p.cfg.API
	for k, v := range m {
		switch k {
		case "use":
			s, _ := v.(string)
			mode, err := domain.ParseAPIMode(s)
			if err != nil {
				p.invalid("api", k, v)
				continue
			}
			c.Use = mode
		case "key":
			p.setString("api", k, v, &c.Key)
		case "acceptance_key":
			p.setString("api", k, v, &c.AcceptanceKey)
		case "url":
			p.setString("api", k, v, &c.URL)
		case "acceptance_url":
			p.setString("api", k, v, &c.AcceptanceURL)
		case "proxy_url":
			p.setString("api", k, v, &c.ProxyURL)
		case "proxy_acceptance_url":
			p.setString("api", k, v, &c.ProxyAcceptanceURL)
		case "debug_proxy":
			p.setBool("api", k, v, &c.DebugProxy)
		default:
			p.warnf("unknown key in [api]: %s", k)
		}
	}
}

func (p *parser) download(m map[string]any) {
	c := &p.cfg.Download
	for k, v := range m {
		switch k {
		case "mode":
			s, _ := v.(string)
			mode, err := domain.ParseDownloadMode(s)
			if err != nil {
				p.invalid("download", k, v)
				continue
			}
			c.Mode = mode
		case "cooldown":
			d, ok := toDuration(v)
			if !ok || d <= 0 {
				p.invalid("download", k, v)
				continue
			}
			c.Cooldown = d
		case "snap_distance":
			f, ok := toFloat(v)
			if !ok || f <= 0 {
				p.invalid("download", k, v)
				continue
			}
			c.SnapDistance = f
		default:
			p.warnf("unknown key in [download]: %s", k)
		}
	}
}

func (p *parser) user(m map[string]any) {
	c := &p.cfg.User
	for k, v := range m {
		switch k {
		case "email":
			p.setString("user", k, v, &c.Email)
		case "organisation":
			p.setString("user", k, v, &c.Organisation)
		default:
			p.warnf("unknown key in [user]: %s", k)
		}
	}
}

func (p *parser) display(m map[string]any) {
	for k, v := range m {
		switch k {
		case "date_format":
			p.setString("display", k, v, &p.cfg.Display.DateFormat)
		default:
			p.warnf("unknown key in [display]: %s", k)
		}
	}
}

func (p *parser) filter(m map[string]any) {
	c := &p.cfg.Filter
	for k, v := range m {
		switch k {
		case "hide_closed":
			p.setBool("filter", k, v, &c.HideClosed)
		case "hide_number":
			f, ok := toFloat(v)
			if !ok || f < 0 {
				p.invalid("filter", k, v)
				continue
			}
			c.HideNumber = f
		case "hide_period":
			s, _ := v.(string)
			switch period := domain.Period(s); period {
			case domain.PeriodDays, domain.PeriodWeeks, domain.PeriodMonths:
				c.HidePeriod = period
			default:
				p.invalid("filter", k, v)
			}
		default:
			p.warnf("unknown key in [filter]: %s", k)
		}
	}
}

func (p *parser) log(m map[string]any) {
	for k, v := range m {
		switch k {
		case "level":
			p.setString("log", k, v, &p.cfg.Log.Level)
		default:
			p.warnf("unknown key in [log]: %s", k)
		}
	}
}

func (p *parser) setString(section, key string, v any, dst *string) {
	s, ok := v.(string)
	if !ok {
		p.invalid(section, key, v)
		return
	}
	*dst = s
}

func (p *parser) setBool(section, key string, v any, dst *bool) {
	b, ok := v.(bool)
	if !ok {
		p.invalid(section, key, v)
		return
	}
	*dst = b
}

// toDuration accepts a Go duration string or a number of seconds.
func toDuration(v any) (time.Duration, bool) {
	switch x := v.(type) {
	case string:
		d, err := time.ParseDuration(x)
		return d, err == nil
	case int64:
		return time.Duration(x) * time.Second, true
	case float64:
		return time.Duration(x * float64(time.Second)), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
