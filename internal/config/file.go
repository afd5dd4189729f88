package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ConfigFileEnvVar names an explicit config file
const ConfigFileEnvVar = "PT_CONFIG"

// FileConfig is the on-disk configuration schema. Durations are written as
// Go duration strings ("10s", "24h"); empty or zero values leave the current
// setting untouched.
type FileConfig struct {
	Database struct {
		Driver         string `yaml:"driver" toml:"driver"`
		DSN            string `yaml:"dsn" toml:"dsn"`
		Dir            string `yaml:"dir" toml:"dir"`
		Filename       string `yaml:"filename" toml:"filename"`
		QueryTimeout   string `yaml:"query_timeout" toml:"query_timeout"`
		WriteTimeout   string `yaml:"write_timeout" toml:"write_timeout"`
		DirPermissions string `yaml:"dir_permissions" toml:"dir_permissions"`
	} `yaml:"database" toml:"database"`

	Backend struct {
		Kind      string `yaml:"kind" toml:"kind"`
		BaseURL   string `yaml:"base_url" toml:"base_url"`
		ProjectID string `yaml:"project_id" toml:"project_id"`
		PublicKey string `yaml:"public_key" toml:"public_key"`
		Timeout   string `yaml:"timeout" toml:"timeout"`
	} `yaml:"backend" toml:"backend"`

	Report struct {
		RecentLogLimit   int `yaml:"recent_log_limit" toml:"recent_log_limit"`
		FetchConcurrency int `yaml:"fetch_concurrency" toml:"fetch_concurrency"`
	} `yaml:"report" toml:"report"`

	Logging struct {
		Level   string `yaml:"level" toml:"level"`
		File    string `yaml:"file" toml:"file"`
		Console *bool  `yaml:"console" toml:"console"`
	} `yaml:"logging" toml:"logging"`

	Time struct {
		DisplayFormat string `yaml:"display_format" toml:"display_format"`
	} `yaml:"time" toml:"time"`

	Validation struct {
		TaskTitleMinLength int    `yaml:"task_title_min_length" toml:"task_title_min_length"`
		TaskTitleMaxLength int    `yaml:"task_title_max_length" toml:"task_title_max_length"`
		MaxDuration        string `yaml:"max_duration" toml:"max_duration"`
	} `yaml:"validation" toml:"validation"`

	Display struct {
		ReportFormat  string `yaml:"report_format" toml:"report_format"`
		RelativeTimes *bool  `yaml:"relative_times" toml:"relative_times"`
	} `yaml:"display" toml:"display"`

	Server struct {
		Addr string `yaml:"addr" toml:"addr"`
	} `yaml:"server" toml:"server"`

	Application struct {
		Timeout string `yaml:"timeout" toml:"timeout"`
		Verbose *bool  `yaml:"verbose" toml:"verbose"`
	} `yaml:"application" toml:"application"`
}

// DefaultConfigPath returns ~/.pt/config.yaml
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pt", "config.yaml"), nil
}

// ParseFile decodes a config file, choosing TOML for .toml files and YAML otherwise
func ParseFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	return &fc, nil
}

// LoadFromFile applies the settings of a config file on top of c
func (c *Config) LoadFromFile(path string) error {
	fc, err := ParseFile(path)
	if err != nil {
		return err
	}
	fc.apply(c)
	return nil
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.Database.Driver, fc.Database.Driver)
	setString(&c.Database.DSN, fc.Database.DSN)
	setString(&c.Database.Dir, fc.Database.Dir)
	setString(&c.Database.Filename, fc.Database.Filename)
	if fc.Database.QueryTimeout != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(fc.Database.QueryTimeout, c.Database.QueryTimeout)
	}
	if fc.Database.WriteTimeout != "" {
		c.Database.WriteTimeout = ParseDurationWithFallback(fc.Database.WriteTimeout, c.Database.WriteTimeout)
	}
	if fc.Database.DirPermissions != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(fc.Database.DirPermissions, 8, c.Database.DirPermissions)
	}

	setString(&c.Backend.Kind, strings.ToLower(fc.Backend.Kind))
	setString(&c.Backend.BaseURL, fc.Backend.BaseURL)
	setString(&c.Backend.ProjectID, fc.Backend.ProjectID)
	setString(&c.Backend.PublicKey, fc.Backend.PublicKey)
	if fc.Backend.Timeout != "" {
		c.Backend.Timeout = ParseDurationWithFallback(fc.Backend.Timeout, c.Backend.Timeout)
	}

	setInt(&c.Report.RecentLogLimit, fc.Report.RecentLogLimit)
	setInt(&c.Report.FetchConcurrency, fc.Report.FetchConcurrency)

	setString(&c.Logging.Level, fc.Logging.Level)
	setString(&c.Logging.File, fc.Logging.File)
	setBool(&c.Logging.Console, fc.Logging.Console)

	setString(&c.Time.DisplayFormat, fc.Time.DisplayFormat)

	setInt(&c.Validation.TaskTitleMinLength, fc.Validation.TaskTitleMinLength)
	setInt(&c.Validation.TaskTitleMaxLength, fc.Validation.TaskTitleMaxLength)
	if fc.Validation.MaxDuration != "" {
		c.Validation.MaxDuration = ParseDurationWithFallback(fc.Validation.MaxDuration, c.Validation.MaxDuration)
	}

	setString(&c.Display.ReportFormat, strings.ToLower(fc.Display.ReportFormat))
	setBool(&c.Display.RelativeTimes, fc.Display.RelativeTimes)

	setString(&c.Server.Addr, fc.Server.Addr)

	if fc.Application.Timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(fc.Application.Timeout, c.Application.Timeout)
	}
	setBool(&c.Application.Verbose, fc.Application.Verbose)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
