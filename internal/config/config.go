package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is used for XDG directory names.
	AppName = "linkscout"

	// DefaultTimeout bounds one seed fetch, including reading the body.
	DefaultTimeout = 30 * time.Second

	// DefaultLimit is the number of discovered links kept per seed.
	DefaultLimit = 10

	// DefaultBatchSize is the number of seeds fetched concurrently.
	DefaultBatchSize = 4

	// DefaultUserAgent identifies linkscout in HTTP requests.
	DefaultUserAgent = "linkscout/1.0 (+https://github.com/nao1215/linkscout)"

	// DefaultMaxBodySize is the number of body bytes read from a seed.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultTorStartupTimeout bounds the embedded Tor bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute
)

// Config holds the options of one linkscout invocation. It is filled from
// CLI flags and the config file and passed down explicitly.
type Config struct {
	// Seeds are the pages to discover links from, in the order given.
	Seeds []Seed

	// Limit is the default number of links per seed.
	Limit int

	// LimitExplicit is set when Limit came from the command line; it then
	// overrides limits from the config file.
	LimitExplicit bool

	// Timeout bounds each seed fetch.
	Timeout time.Duration

	// BatchSize is the number of seeds processed concurrently.
	BatchSize int

	// ProxyAddress is a SOCKS5 proxy in host:port form. Empty dials directly.
	ProxyAddress string

	// UseTor starts an embedded Tor daemon and dials through it.
	UseTor bool

	// TorStartupTimeout bounds the embedded Tor bootstrap.
	TorStartupTimeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// MaxBodySize caps the bytes read from a seed response.
	MaxBodySize int64

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is an explicit config file. When empty, FindConfigFile
	// searches the default locations.
	ConfigFilePath string

	// SiteConfigs is the loaded config file, or nil.
	SiteConfigs *File

	// JSONReport selects JSON output.
	JSONReport bool

	// MarkdownReport selects Markdown output.
	MarkdownReport bool

	// ReportFile redirects the report from stdout to a file.
	ReportFile string

	// DBDir is where the history database lives.
	DBDir string

	// SaveToDB records results in the history database.
	SaveToDB bool
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		Limit:             DefaultLimit,
		Timeout:           DefaultTimeout,
		BatchSize:         DefaultBatchSize,
		TorStartupTimeout: DefaultTorStartupTimeout,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		DBDir:             XDGDataDir(),
		SaveToDB:          true,
	}
}

// XDGDataDir returns the directory for the history database.
// On Linux: ~/.local/share/linkscout
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the per-user config directory.
// On Linux: ~/.config/linkscout
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate returns the first rule the configuration violates, or nil.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeed
	}
	if c.Limit < 0 {
		return ErrInvalidLimit
	}
	for _, s := range c.Seeds {
		if s.Limit != nil && *s.Limit < 0 {
			return ErrInvalidLimit
		}
	}
	if err := c.SiteConfigs.validateLimits(); err != nil {
		return err
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
	if c.UseTor && c.ProxyAddress != "" {
		return ErrConflictingProxy
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}

// LimitFor returns the link limit that applies to s. A limit given on the
// command line wins, then the seed entry, then the site section of the
// config file, then Limit.
func (c *Config) LimitFor(s Seed) int {
	if c.LimitExplicit {
		return c.Limit
	}
	if s.Limit != nil {
		return *s.Limit
	}
	if c.SiteConfigs != nil {
		if site := c.SiteConfigs.GetSiteConfig(s.Host()); site.Limit != nil {
			return *site.Limit
		}
	}
	return c.Limit
}

// SiteFor returns the merged site settings for s. Without a config file it
// returns the zero SiteConfig.
func (c *Config) SiteFor(s Seed) SiteConfig {
	if c.SiteConfigs == nil {
		return SiteConfig{}
	}
	return c.SiteConfigs.GetSiteConfig(s.Host())
}
