package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nao1215/linkscout/internal/placeholder"
	"github.com/nao1215/linkscout/internal/query"
)

// Seed is a page to discover links from.
type Seed struct {
	// URL is the absolute seed URL, with variables expanded and query
	// parameters appended.
	URL string

	// Limit overrides the configured limit for this seed when non-nil.
	Limit *int
}

// Host returns the lowercase host name of the seed, without port, or ""
// when the URL cannot be parsed.
func (s Seed) Host() string {
	u, err := url.Parse(strings.TrimSpace(s.URL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// SiteConfig holds settings applied to every seed on one host.
type SiteConfig struct {
	// Cookie is a raw Cookie header value, e.g. "name1=value1; name2=value2".
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are added to every request to the host.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Limit overrides the global link limit for the host.
	Limit *int `yaml:"limit,omitempty"`
}

// SeedEntry is a seed template in the config file.
type SeedEntry struct {
	// URL may contain {name} variables defined under vars.
	URL string `yaml:"url"`

	// Limit overrides every other limit source except the command line.
	Limit *int `yaml:"limit,omitempty"`

	// Query parameters are serialized and appended to URL. Lists become
	// key[0]=a&key[1]=b.
	Query map[string]any `yaml:"query,omitempty"`
}

// File is the structure of the .linkscout configuration file.
type File struct {
	// Vars are substituted into seed URLs.
	Vars map[string]string `yaml:"vars,omitempty"`

	// Seeds are discovered in addition to seeds given as arguments.
	Seeds []SeedEntry `yaml:"seeds,omitempty"`

	// Sites maps host names to their settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults apply to every host unless a site overrides them.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the defaults merged with the settings for host.
// Site headers are added to the default headers, overriding equal names.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	siteConfig, ok := cf.Sites[normalizeHost(host)]
	if !ok {
		return result
	}

	if siteConfig.Cookie != "" {
		result.Cookie = siteConfig.Cookie
	}
	if siteConfig.Limit != nil {
		result.Limit = siteConfig.Limit
	}
	if len(siteConfig.Headers) > 0 {
		merged := make(map[string]string, len(result.Headers)+len(siteConfig.Headers))
		for k, v := range result.Headers {
			merged[k] = v
		}
		for k, v := range siteConfig.Headers {
			merged[k] = v
		}
		result.Headers = merged
	}
	return result
}

// ExpandSeeds resolves the seed templates: variables are substituted and
// query parameters appended.
func (cf *File) ExpandSeeds() ([]Seed, error) {
	seeds := make([]Seed, 0, len(cf.Seeds))
	for i, entry := range cf.Seeds {
		expanded, err := placeholder.Expand(entry.URL, cf.Vars)
		if err != nil {
			return nil, fmt.Errorf("seeds[%d]: %w", i, err)
		}

		params, err := query.FromMap(entry.Query)
		if err != nil {
			return nil, fmt.Errorf("seeds[%d]: %w", i, err)
		}

		seeds = append(seeds, Seed{
			URL:   query.Append(expanded, params, false),
			Limit: entry.Limit,
		})
	}
	return seeds, nil
}

// validateLimits rejects negative limits in the defaults and site sections.
func (cf *File) validateLimits() error {
	if cf == nil {
		return nil
	}
	if cf.Defaults.Limit != nil && *cf.Defaults.Limit < 0 {
		return fmt.Errorf("%w: defaults.limit is %d", ErrInvalidLimit, *cf.Defaults.Limit)
	}
	for host, site := range cf.Sites {
		if site.Limit != nil && *site.Limit < 0 {
			return fmt.Errorf("%w: sites.%s.limit is %d", ErrInvalidLimit, host, *site.Limit)
		}
	}
	return nil
}
