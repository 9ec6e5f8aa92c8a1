package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoSeed is returned when neither arguments nor the config file name
	// a seed.
	ErrNoSeed = errors.New("no seed specified: provide a URL argument or list seeds in the config file")

	// ErrInvalidLimit is returned when the link limit is negative.
	ErrInvalidLimit = errors.New("invalid limit: must be non-negative")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are given.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConflictingProxy is returned when --tor and --proxy are both given.
	ErrConflictingProxy = errors.New("conflicting proxy settings: --tor and --proxy cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
