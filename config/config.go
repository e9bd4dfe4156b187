package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-secure-stdlib/parseutil"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/mitchellh/go-homedir"
)

// DefaultPath is where the CLI looks for its configuration when --config is
// not given.
const DefaultPath = "~/.lcadmin.hcl"

// Config is the configuration for the lcadmin CLI.
type Config struct {
	Address       string `hcl:"address,optional"`
	Token         string `hcl:"token,optional"`
	Timeout       string `hcl:"timeout,optional"`
	MaxRetries    *int   `hcl:"max_retries,optional"`
	CACert        string `hcl:"ca_cert,optional"`
	TLSSkipVerify bool   `hcl:"tls_skip_verify,optional"`

	LogLevel           string `hcl:"log_level,optional"`
	LogFormat          string `hcl:"log_format,optional"`
	LogFile            string `hcl:"log_file,optional"`
	LogRotateMegabytes int    `hcl:"log_rotate_megabytes,optional"`
	LogRotateMaxFiles  int    `hcl:"log_rotate_max_files,optional"`

	OAuth2 *OAuth2Block `hcl:"oauth2,block"`
}

// OAuth2Block configures the client-credentials grant used instead of a
// static token.
type OAuth2Block struct {
	ClientID     string   `hcl:"client_id"`
	ClientSecret string   `hcl:"client_secret"`
	TokenURL     string   `hcl:"token_url"`
	Scopes       []string `hcl:"scopes,optional"`
}

// LoadConfig decodes the HCL file at configFile.
func LoadConfig(configFile string) (*Config, error) {
	path, err := homedir.Expand(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	var config Config
	if err := hclsimple.DecodeFile(path, nil, &config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}
	return &config, nil
}

// Load reads configFile, or DefaultPath when configFile is empty. A missing
// default file yields an empty configuration; a missing explicit file is an
// error.
func Load(configFile string) (*Config, error) {
	if configFile != "" {
		return LoadConfig(configFile)
	}

	path, err := homedir.Expand(DefaultPath)
	if err != nil {
		return &Config{}, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return LoadConfig(path)
}

// Validate checks settings that cannot be checked by the HCL schema.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Timeout != "" {
		if _, err := parseutil.ParseDurationSecond(c.Timeout); err != nil {
			result = multierror.Append(result, fmt.Errorf("timeout: %w", err))
		}
	}
	if c.MaxRetries != nil && *c.MaxRetries < 0 {
		result = multierror.Append(result, errors.New("max_retries cannot be negative"))
	}
	if c.Token != "" && c.OAuth2 != nil {
		result = multierror.Append(result, errors.New("token and oauth2 are mutually exclusive"))
	}
	if c.OAuth2 != nil {
		if c.OAuth2.ClientID == "" || c.OAuth2.ClientSecret == "" || c.OAuth2.TokenURL == "" {
			result = multierror.Append(result, errors.New("oauth2 requires client_id, client_secret and token_url"))
		}
	}

	return result.ErrorOrNil()
}

// TimeoutDuration returns the parsed timeout, zero when unset.
func (c *Config) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := parseutil.ParseDurationSecond(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}
