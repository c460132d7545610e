package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "config.toml"

// AppDirName is the directory name used under the user config directory.
const AppDirName = "pdok-report"

// GlobalConfigDir returns the config directory under the given config home.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// LogsDir returns the log directory under the config directory.
func LogsDir(configDir string) string {
	return filepath.Join(configDir, "logs")
}

// LogFilePath returns the log file path under the config directory.
func LogFilePath(configDir string) string {
	return filepath.Join(LogsDir(configDir), AppDirName+".log")
}

// PendingFilePath returns the file holding unsent reports between sessions.
func PendingFilePath(configDir string) string {
	return filepath.Join(configDir, "pending.yaml")
}

// APIMode selects which report API endpoint and credential are used.
type APIMode string

const (
	APIPDOKProduction  APIMode = "pdokProduction"
	APIPDOKAcceptance  APIMode = "pdokAcceptance"
	APIProxyProduction APIMode = "proxyProduction"
	APIProxyAcceptance APIMode = "proxyAcceptance"
)

// DefaultAPIMode is used when nothing is configured.
const DefaultAPIMode = APIPDOKProduction

// AllAPIModes returns all API modes.
func AllAPIModes() []APIMode {
	return []APIMode{APIPDOKProduction, APIPDOKAcceptance, APIProxyProduction, APIProxyAcceptance}
}

// ParseAPIMode parses an API mode identifier.
func ParseAPIMode(s string) (APIMode, error) {
	for _, m := range AllAPIModes() {
		if string(m) == s {
			return m, nil
		}
	}
	return DefaultAPIMode, ErrInvalidAPIMode
}

// NeedsKey reports whether requests in this mode carry an apikey header.
// Proxy modes embed their own credential.
func (m APIMode) NeedsKey() bool {
	return m == APIPDOKProduction || m == APIPDOKAcceptance
}

// IsProduction reports whether the mode targets the production registry.
func (m APIMode) IsProduction() bool {
	return m == APIPDOKProduction || m == APIProxyProduction
}

// DownloadMode selects when reports are downloaded.
type DownloadMode string

const (
	DownloadVisibleArea DownloadMode = "visibleArea" // Everything in the visible area
	DownloadOSMArea     DownloadMode = "osmArea"     // Areas with downloaded OSM data
	DownloadManualOnly  DownloadMode = "manualOnly"  // Only when manually requested
)

// DefaultDownloadMode is used when nothing is configured.
const DefaultDownloadMode = DownloadOSMArea

// ParseDownloadMode parses a download mode identifier.
func ParseDownloadMode(s string) (DownloadMode, error) {
	switch DownloadMode(s) {
	case DownloadVisibleArea, DownloadOSMArea, DownloadManualOnly:
		return DownloadMode(s), nil
	}
	return DefaultDownloadMode, ErrInvalidDownloadMode
}

// Label returns a human-readable description of the mode.
func (m DownloadMode) Label() string {
	switch m {
	case DownloadVisibleArea:
		return "everything in the visible area"
	case DownloadOSMArea:
		return "areas with downloaded OSM-data"
	case DownloadManualOnly:
		return "only when manually requested"
	}
	return string(m)
}

// Default endpoints.
const (
	DefaultAPIURL              = "https://api.kadaster.nl/tms/v1/terugmeldingen"
	DefaultAPIURLAcceptance    = "https://api.acceptatie.kadaster.nl/tms/v1/terugmeldingen"
	DefaultProxyURL            = "https://terugmeldingen.proxy.tools4osm.nl/v1"
	DefaultProxyURLAcceptance  = "https://terugmeldingen.proxy.tools4osm.nl/act/v1"
	DefaultDebugProxyAddress   = "http://127.0.0.1:8888"
	DefaultOrganisation        = "OpenStreetMap contributors"
	DefaultDateFormat          = "2006-01-02 - 15:04:05 (MST)"
	DefaultDownloadCooldown    = 2 * time.Second
	DefaultSnapDistance        = 10.0
	DefaultFilterHideNumber    = 1
	DefaultFilterHidePeriod    = PeriodMonths
	DefaultFilterHideClosed    = true
	DefaultLogLevel            = "info"
	DefaultProxyListenAddress  = "127.0.0.1:8089"
	DefaultProxyUpstreamTries  = 3
	DefaultDownloadStopTimeout = 30 * time.Second
)

// Period is the unit of the closed-report age filter.
type Period string

const (
	PeriodDays   Period = "days"
	PeriodWeeks  Period = "weeks"
	PeriodMonths Period = "months"
)

// Duration returns the length of n periods.
func (p Period) Duration(n float64) time.Duration {
	day := 24 * time.Hour
	switch p {
	case PeriodDays:
		return time.Duration(n * float64(day))
	case PeriodWeeks:
		return time.Duration(n * float64(7*day))
	case PeriodMonths:
		return time.Duration(n * float64(30*day))
	}
	return 0
}

// Config represents the application configuration.
type Config struct {
	API      APIConfig      // [api] settings
	User     UserConfig     // [user] settings
	Display  DisplayConfig  // [display] settings
	Filter   FilterConfig   // [filter] settings
	Log      LogConfig      // [log] settings
	Download DownloadConfig // [download] settings
	Warnings []string       // Unknown keys found while loading
}

// APIConfig holds report API settings from the [api] section.
type APIConfig struct {
	Use                APIMode // Selected API mode
	Key                string  // Production API key
	AcceptanceKey      string  // Acceptance API key
	URL                string  // Production endpoint
	AcceptanceURL      string  // Acceptance endpoint
	ProxyURL           string  // Proxy endpoint (production)
	ProxyAcceptanceURL string  // Proxy endpoint (acceptance)
	DebugProxy         bool    // Route HTTP through a local debugging proxy
}

// UserConfig holds reporter identity from the [user] section.
type UserConfig struct {
	Email        string
	Organisation string
}

// DisplayConfig holds presentation settings from the [display] section.
type DisplayConfig struct {
	DateFormat string // Go time layout
}

// FilterConfig holds the report filter defaults from the [filter] section.
type FilterConfig struct {
	HidePeriod Period
	HideNumber float64
	HideClosed bool
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string // Log level: debug, info, warn, error
}

// DownloadConfig holds download settings from the [download] section.
type DownloadConfig struct {
	Mode         DownloadMode
	Cooldown     time.Duration
	SnapDistance float64
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Use:                DefaultAPIMode,
			URL:                DefaultAPIURL,
			AcceptanceURL:      DefaultAPIURLAcceptance,
			ProxyURL:           DefaultProxyURL,
			ProxyAcceptanceURL: DefaultProxyURLAcceptance,
		},
		User:    UserConfig{Organisation: DefaultOrganisation},
		Display: DisplayConfig{DateFormat: DefaultDateFormat},
		Filter: FilterConfig{
			HideClosed: DefaultFilterHideClosed,
			HideNumber: DefaultFilterHideNumber,
			HidePeriod: DefaultFilterHidePeriod,
		},
		Log: LogConfig{Level: DefaultLogLevel},
		Download: DownloadConfig{
			Mode:         DefaultDownloadMode,
			Cooldown:     DefaultDownloadCooldown,
			SnapDistance: DefaultSnapDistance,
		},
	}
}

// BaseURL returns the endpoint for the given API mode.
func (c APIConfig) BaseURL(mode APIMode) string {
	switch mode {
	case APIPDOKAcceptance:
		return c.AcceptanceURL
	case APIProxyProduction:
		return c.ProxyURL
	case APIProxyAcceptance:
		return c.ProxyAcceptanceURL
	case APIPDOKProduction:
		return c.URL
	}
	return c.URL
}

// Token returns the credential for the given API mode; empty for proxy modes.
func (c APIConfig) Token(mode APIMode) string {
	switch mode {
	case APIPDOKProduction:
		return c.Key
	case APIPDOKAcceptance:
		return c.AcceptanceKey
	case APIProxyProduction, APIProxyAcceptance:
		return ""
	}
	return ""
}

// Credential returns the key for the selected mode and whether the mode is usable.
// Modes that need a key are unusable while the key is blank.
func (c APIConfig) Credential() (string, bool) {
	if !c.Use.NeedsKey() {
		return "", true
	}
	key := c.Token(c.Use)
	return key, strings.TrimSpace(key) != ""
}
