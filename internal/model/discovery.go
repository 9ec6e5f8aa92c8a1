package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of a discovery.
type Status string

const (
	// StatusOK means the seed was fetched and its links collected.
	StatusOK Status = "ok"

	// StatusFailed means the seed could not be fetched or parsed.
	StatusFailed Status = "failed"
)

// NewRunID returns an identifier shared by all discoveries of one command
// invocation.
func NewRunID() string {
	return uuid.NewString()
}

// Discovery is the result of discovering links from one seed.
type Discovery struct {
	// ID is the database row id, or 0 when not stored.
	ID int64 `json:"id,omitempty"`

	// RunID groups the discoveries of one invocation.
	RunID string `json:"run_id"` //nolint:tagliatelle // snake_case matches the database

	// Seed is the URL the links were discovered from.
	Seed string `json:"seed"`

	// Limit is the link limit that was applied.
	Limit int `json:"limit"`

	// URLs starts with the seed followed by the discovered links. It is
	// empty when the discovery failed.
	URLs []string `json:"urls"`

	// StartedAt is when the fetch began.
	StartedAt time.Time `json:"started_at"` //nolint:tagliatelle // snake_case matches the database

	// Duration is how long the discovery took.
	Duration time.Duration `json:"duration"`

	// Status is the outcome.
	Status Status `json:"status"`

	// Error describes the failure for StatusFailed.
	Error string `json:"error,omitempty"`
}

// NewDiscovery returns a pending discovery started now.
func NewDiscovery(runID, seed string, limit int) *Discovery {
	return &Discovery{
		RunID:     runID,
		Seed:      seed,
		Limit:     limit,
		StartedAt: time.Now().UTC(),
		URLs:      []string{},
	}
}

// Succeed records the discovered URLs.
func (d *Discovery) Succeed(urls []string) {
	d.Status = StatusOK
	d.URLs = urls
	d.Error = ""
	d.Duration = time.Since(d.StartedAt)
}

// Fail records a failure with a human readable message.
func (d *Discovery) Fail(message string) {
	d.Status = StatusFailed
	d.URLs = []string{}
	d.Error = message
	d.Duration = time.Since(d.StartedAt)
}

// Failed reports whether the discovery failed.
func (d *Discovery) Failed() bool {
	return d.Status == StatusFailed
}

// Links returns the discovered URLs without the leading seed.
func (d *Discovery) Links() []string {
	if len(d.URLs) <= 1 {
		return []string{}
	}
	return d.URLs[1:]
}
