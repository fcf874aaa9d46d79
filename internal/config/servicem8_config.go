package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// ServiceM8File is the optional TOML overlay for the ServiceM8 integration.
type ServiceM8File struct {
	ServiceM8 ServiceM8Section `toml:"servicem8"`
}

type ServiceM8Section struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	FanoutLimit    *int   `toml:"fanout_limit"`
}

// LoadServiceM8File loads the ServiceM8 settings from a TOML file
func LoadServiceM8File(filename string) (*ServiceM8File, error) {
	file := &ServiceM8File{}
	if _, err := toml.DecodeFile(filename, file); err != nil {
		return nil, fmt.Errorf("failed to load servicem8 config file: %w", err)
	}
	return file, nil
}

// Apply overrides cfg with every value set in the file.
func (f *ServiceM8File) Apply(cfg *Config) {
	s := f.ServiceM8
	if s.APIKey != "" {
		cfg.SM8APIKey = s.APIKey
	}
	if s.BaseURL != "" {
		cfg.SM8BaseURL = s.BaseURL
	}
	if s.TimeoutSeconds > 0 {
		cfg.SM8Timeout = time.Duration(s.TimeoutSeconds) * time.Second
	}
	if s.FanoutLimit != nil {
		cfg.SM8FanoutLimit = *s.FanoutLimit
	}
}
