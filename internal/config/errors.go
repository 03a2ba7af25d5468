package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and the file loader, and
// can be matched with errors.Is.
var (
	// ErrInvalidBaseURL is returned when the base URL is not an absolute
	// http or https URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: expected http(s)://host[:port][/path]")

	// ErrInvalidHost is returned when no base URL is set and the host is empty.
	ErrInvalidHost = errors.New("invalid host: must not be empty")

	// ErrInvalidPort is returned when the port is outside 1-65535.
	ErrInvalidPort = errors.New("invalid port: must be between 1 and 65535")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxChars is returned when the truncation limit is not positive.
	ErrInvalidMaxChars = errors.New("invalid max chars: must be positive")

	// ErrInvalidPageSize is returned when the table page size is not positive.
	ErrInvalidPageSize = errors.New("invalid page size: must be positive")

	// ErrOfflineWithoutCache is returned when --offline and --no-cache are
	// combined; offline mode reads the cache only.
	ErrOfflineWithoutCache = errors.New("conflicting cache options: --offline requires the cache")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrProfileNotFound is returned when the requested profile is not
	// defined in the configuration file.
	ErrProfileNotFound = errors.New("profile not found in configuration file")
)
