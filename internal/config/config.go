package config

import (
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultHost is the backend host used when neither a base URL nor a
	// profile names one.
	DefaultHost = "localhost"

	// DefaultPort is the port the Parser Engine's uvicorn server listens on.
	DefaultPort = 8000

	// DefaultTimeout bounds each backend request. Listings and detail calls
	// return quickly; the processing endpoints only enqueue work.
	DefaultTimeout = 30 * time.Second

	// DefaultBatchSize is the number of file views loaded concurrently by
	// "show" with several IDs.
	DefaultBatchSize = 4

	// DefaultMaxChars is the number of characters classified for a
	// collapsed content item.
	DefaultMaxChars = 2000

	// DefaultPageSize is the number of table rows per page.
	DefaultPageSize = 50

	// DefaultListLimit is the page size of file listings.
	DefaultListLimit = 50

	// DefaultListenAddr is where "serve" listens. It is loopback only.
	DefaultListenAddr = "127.0.0.1:8787"

	// AppName is the application name used for XDG directory paths.
	AppName = "parsescope"
)

// Config holds all configuration options for parsescope.
// It is populated from defaults, then the config file profile, then CLI
// flags, and passed down explicitly.
type Config struct {
	// Host and Port locate the backend when BaseURL is empty.
	Host string
	Port int

	// BaseURL overrides Host and Port, for example "https://parser.internal/api".
	BaseURL string

	// Proxy is an optional SOCKS5 proxy in host:port form for backend traffic.
	Proxy string

	// Headers are added to every backend request.
	Headers map[string]string

	// Timeout bounds each backend request.
	Timeout time.Duration

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path to the configuration file. When empty the
	// file is searched for; see FindConfigFile.
	ConfigFilePath string

	// Profile names the profile to use from the configuration file. When
	// empty the file's own "profile" key, if any, decides.
	Profile string

	// Profiles holds the parsed configuration file.
	Profiles *File

	// JSONReport and MarkdownReport select the output format. They are
	// mutually exclusive; neither means human-readable text.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile redirects output to a file. Parent directories are created.
	ReportFile string

	// DBDir is the directory holding the SQLite cache.
	DBDir string

	// NoCache disables reading and writing the cache.
	NoCache bool

	// Offline reads file views from the cache only.
	Offline bool

	// BatchSize is the number of file views loaded concurrently.
	BatchSize int

	// MaxChars and PageSize bound rendering; see package content.
	MaxChars int
	PageSize int

	// ListenAddr is the address "serve" listens on.
	ListenAddr string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Host:       DefaultHost,
		Port:       DefaultPort,
		Timeout:    DefaultTimeout,
		BatchSize:  DefaultBatchSize,
		MaxChars:   DefaultMaxChars,
		PageSize:   DefaultPageSize,
		ListenAddr: DefaultListenAddr,
		DBDir:      XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for parsescope.
// On Linux: ~/.local/share/parsescope
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for parsescope.
// On Linux: ~/.config/parsescope
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// BackendURL returns BaseURL when set, and http://Host:Port otherwise.
func (c *Config) BackendURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return "http://" + net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidBaseURL
		}
	} else {
		if c.Host == "" {
			return ErrInvalidHost
		}
		if c.Port < 1 || c.Port > 65535 {
			return ErrInvalidPort
		}
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxChars <= 0 {
		return ErrInvalidMaxChars
	}

	if c.PageSize <= 0 {
		return ErrInvalidPageSize
	}

	if c.Offline && c.NoCache {
		return ErrOfflineWithoutCache
	}

	return nil
}
