// Package config loads application settings from defaults, an optional
// config.yaml, an optional .env file and SIRD_-prefixed environment variables,
// and validates the result before any component starts.
package config
