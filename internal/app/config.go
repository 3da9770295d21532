package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	FormPath    string // hcl form files
	ProfilePath string // optional yaml execution profile

	LogFormat   string
	LogLevel    string
	Shell       string // computed-source interpreter, /bin/sh when empty
	FeedURL     string // optional socket.io choice feed endpoint
	Interactive bool
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.FormPath == "" {
		return nil, errors.New("FormPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
