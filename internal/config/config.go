package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen for typical clearnet websites where responses
// arrive quickly and polite crawling still finishes in reasonable time.
const (
	// DefaultTimeout is set to 5 seconds because ordinary websites respond
	// well within that window. A page that takes longer is treated as a
	// transport failure and the crawl moves on.
	DefaultTimeout = 5 * time.Second

	// DefaultBatchSize of 4 concurrent crawls balances throughput with
	// resource usage when crawling multiple seeds. Each crawl already
	// issues sequential requests, so a small batch is plenty.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "sitegraph"

	// DefaultUserAgent identifies sitegraph in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows operators
	// to identify crawler traffic in their logs.
	DefaultUserAgent = "sitegraph/1.0 (+https://github.com/nao1215/sitegraph)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 10MB is generous for HTML pages while preventing memory exhaustion
	// from unexpectedly large responses.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultErrorLogFile is where broken-link records are written after
	// a crawl that found 404 responses.
	DefaultErrorLogFile = "404_errors.txt"

	// DefaultExportFile is the default path for CSV edge-list exports.
	DefaultExportFile = "sitemap_export.csv"

	// DefaultDOTFile is the default path for Graphviz exports.
	DefaultDOTFile = "sitemap.dot"
)

// Config holds all configuration options for sitegraph.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Timeout is the per-request timeout for each HTTP fetch.
	// This applies to individual requests, not the overall crawl duration.
	Timeout time.Duration

	// StopOnFirst404 aborts the crawl as soon as a 404 response is seen.
	// The partial results are reported but the 404 log is not written and
	// nothing is persisted to the database.
	StopOnFirst404 bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent crawls when processing
	// multiple seeds. Each individual crawl remains sequential.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .sitegraph in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the
	// config file. This is populated by LoadConfigFile and used when
	// building each crawl.
	SiteConfigs *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// ErrorLogPath is where 404 records with their traversal paths are
	// written. Defaults to DefaultErrorLogFile in the working directory.
	ErrorLogPath string

	// Seeds is the list of URLs to crawl. Must contain at least one
	// absolute http or https URL.
	Seeds []string

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to the XDG data directory (~/.local/share/sitegraph on Linux).
	DBDir string

	// UserAgent is the User-Agent header sent with HTTP requests.
	// A descriptive User-Agent helps site operators identify crawler traffic.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	// Set to 0 to use the default (10MB).
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, file paths).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:      DefaultTimeout,
		BatchSize:    DefaultBatchSize,
		ErrorLogPath: DefaultErrorLogFile,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
		DBDir:        XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for sitegraph.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/sitegraph
// On macOS: ~/Library/Application Support/sitegraph
// On Windows: %LOCALAPPDATA%\sitegraph
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitegraph.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/sitegraph
// On macOS: ~/Library/Application Support/sitegraph
// On Windows: %APPDATA%\sitegraph
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one seed to crawl
	if len(c.Seeds) == 0 {
		return ErrNoSeed
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// BatchSize must be positive; zero would mean no crawling
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// MaxBodySize must be non-negative
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
