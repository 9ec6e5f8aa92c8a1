package discover

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

const (
	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "linkscout/1.0 (+https://github.com/nao1215/linkscout)"

	// DefaultMaxBodySize limits how much of the seed document is read.
	DefaultMaxBodySize int64 = 5 * 1024 * 1024

	// maxErrorBodySize limits how much of a non-2xx response body is kept
	// on a FetchError for diagnostics.
	maxErrorBodySize = 4 * 1024
)

// Discoverer finds a bounded, ordered set of same-site page URLs linked from
// a seed document.
//
// A Discoverer holds no per-call state, so a single instance can serve
// concurrent Discover calls as long as its Observer is concurrency-safe.
type Discoverer struct {
	// client performs the single GET per call. Proxying, cookies and
	// extra headers are the client's concern.
	client *http.Client

	// userAgent is the User-Agent header value.
	userAgent string

	// maxBodySize limits the number of body bytes read.
	maxBodySize int64

	// observer receives progress events.
	observer Observer
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithUserAgent sets the User-Agent header sent with the seed request.
func WithUserAgent(ua string) Option {
	return func(d *Discoverer) {
		if ua != "" {
			d.userAgent = ua
		}
	}
}

// WithMaxBodySize limits the number of bytes read from the seed response.
// Non-positive values keep the default.
func WithMaxBodySize(size int64) Option {
	return func(d *Discoverer) {
		if size > 0 {
			d.maxBodySize = size
		}
	}
}

// WithObserver installs an Observer for progress events.
func WithObserver(o Observer) Option {
	return func(d *Discoverer) {
		if o != nil {
			d.observer = o
		}
	}
}

// WithLogger reports progress events to logger at debug level. It is
// shorthand for WithObserver(NewLogObserver(logger)).
func WithLogger(logger *slog.Logger) Option {
	return func(d *Discoverer) {
		if logger != nil {
			d.observer = NewLogObserver(logger)
		}
	}
}

// New creates a Discoverer that fetches seeds with client.
// A nil client is replaced by a zero http.Client.
func New(client *http.Client, opts ...Option) *Discoverer {
	if client == nil {
		client = &http.Client{}
	}

	d := &Discoverer{
		client:      client,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		observer:    NopObserver{},
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Discover fetches seed once and returns seed followed by up to limit
// distinct absolute URLs built from the root-relative links of the document,
// in document order.
//
// The number of candidates examined is bounded by the same effective cap as
// the result length, min(limit+1, candidates). Duplicates therefore use up
// examination budget without adding to the result, and a page can yield
// fewer URLs than it links to.
//
// Errors are all-or-nothing: a *FetchError or *ParseError (wrapped with the
// "discover" prefix) is returned without a partial result. Candidates that
// cannot be resolved are skipped.
func (d *Discoverer) Discover(ctx context.Context, seed string, limit int) ([]string, error) {
	if limit < 0 {
		return nil, fmt.Errorf("discover: %w", ErrNegativeLimit)
	}

	base, err := parseSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("discover: %w: %q", ErrInvalidSeed, seed)
	}

	doc, err := d.fetch(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}

	candidates, err := extractCandidates(doc.body, doc.contentType)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", &ParseError{URL: seed, Err: err})
	}

	return d.collect(base, seed, candidates, limit), nil
}

// collect builds the result sequence from the extracted candidates.
func (d *Discoverer) collect(base *url.URL, seed string, candidates []string, limit int) []string {
	result := []string{seed}

	effectiveCap := len(candidates)
	if limit < effectiveCap {
		effectiveCap = limit + 1
	}
	d.observer.CandidatesFound(seed, len(candidates), effectiveCap)

	if len(candidates) == 0 {
		return result
	}

	seen := map[string]struct{}{
		normalizeKey(base): {},
	}

	for i := 0; len(result) < effectiveCap && i < effectiveCap; i++ {
		resolved, err := resolve(base, candidates[i])
		if err != nil {
			d.observer.CandidateExamined(seed, i, candidates[i], OutcomeMalformed)
			continue
		}

		key := normalizeKey(resolved)
		if _, dup := seen[key]; dup {
			d.observer.CandidateExamined(seed, i, candidates[i], OutcomeDuplicate)
			continue
		}

		seen[key] = struct{}{}
		result = append(result, resolved.String())
		d.observer.CandidateExamined(seed, i, candidates[i], OutcomeAdded)
	}

	return result
}

// document is a fetched seed body.
type document struct {
	body        []byte
	contentType string
}

// fetch performs the single GET for seed.
func (d *Discoverer) fetch(ctx context.Context, seed string) (*document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, seed, nil)
	if err != nil {
		return nil, &FetchError{URL: seed, Err: err}
	}

	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: seed, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize)) //nolint:errcheck // diagnostics only
		return nil, &FetchError{
			URL:        seed,
			StatusCode: resp.StatusCode,
			Body:       snippet,
			Err:        ErrUnexpectedStatus,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: seed, Err: err}
	}

	d.observer.Fetched(seed, resp.StatusCode, len(body))

	return &document{
		body:        body,
		contentType: resp.Header.Get("Content-Type"),
	}, nil
}
