// Package config loads application settings from an optional YAML file and
// the environment, tracking the source of each value. Environment variables
// always win over file values, which win over built-in defaults.
package config
