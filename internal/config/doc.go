// Package config holds the options for a linkscout run and loads the
// optional .linkscout YAML file with seed templates and per-site settings.
package config
