package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name searched in the working and
// home directories.
const DefaultConfigFile = ".linkscout"

// xdgConfigFile is the config file name inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// LoadConfigFile parses the YAML file at path. A missing file is reported
// as ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	sites := make(map[string]SiteConfig, len(cf.Sites))
	for host, site := range cf.Sites {
		sites[normalizeHost(host)] = site
	}
	cf.Sites = sites
	return &cf, nil
}

// normalizeHost folds a sites key to the form GetSiteConfig looks up.
func normalizeHost(host string) string {
	return strings.ToLower(strings.TrimSpace(host))
}

// FindConfigFile returns the config file to load, or "" if there is none.
//
// An explicit configPath is used when it exists. Otherwise .linkscout in
// the working directory, .linkscout in the home directory and config.yaml
// in XDGConfigDir are tried in that order.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
