package helpers

import (
	"context"
	"fmt"
	"os"

	"github.com/stephnangue/lcadmin/api"
	"github.com/stephnangue/lcadmin/config"
	"github.com/stephnangue/lcadmin/logger"
)

var (
	c *api.Client
)

// SetClient overrides the client returned by Client. Tests use it to point
// the commands at a fake platform.
func SetClient(client *api.Client) {
	c = client
}

// Construct the HTTP API client
func Client() (*api.Client, error) {
	// Read the test client if present
	if c != nil {
		return c, nil
	}

	cfg := Config()
	apiConfig := api.DefaultConfig()
	if apiConfig.Error != nil {
		return nil, fmt.Errorf("failed to read environment: %w", apiConfig.Error)
	}

	// Environment variables win over the config file.
	if cfg.Address != "" && os.Getenv(api.EnvAddress) == "" {
		apiConfig.Address = cfg.Address
	}
	if d := cfg.TimeoutDuration(); d > 0 && os.Getenv(api.EnvClientTimeout) == "" {
		apiConfig.Timeout = d
	}
	if cfg.CACert != "" || cfg.TLSSkipVerify {
		tlsConfig := &api.TLSConfig{Insecure: cfg.TLSSkipVerify}
		if os.Getenv(api.EnvCACert) == "" {
			tlsConfig.CACert = cfg.CACert
		}
		if err := apiConfig.ConfigureTLS(tlsConfig); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	log := Logger().WithSubsystem("http")
	apiConfig.Logger = logger.NewHCLogger(log)

	if cfg.OAuth2 != nil {
		ts, err := api.ClientCredentialsTokenSource(context.Background(), apiConfig, &api.ClientCredentials{
			ClientID:     cfg.OAuth2.ClientID,
			ClientSecret: cfg.OAuth2.ClientSecret,
			TokenURL:     cfg.OAuth2.TokenURL,
			Scopes:       cfg.OAuth2.Scopes,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to configure oauth2: %w", err)
		}
		apiConfig.TokenSource = ts
	}

	// Build the client
	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if client.Token() == "" && cfg.Token != "" {
		client.SetToken(cfg.Token)
	}

	// Turn off retries on the CLI
	if os.Getenv(api.EnvMaxRetries) == "" {
		retries := 0
		if cfg.MaxRetries != nil {
			retries = *cfg.MaxRetries
		}
		client.SetMaxRetries(retries)
	}

	c = client

	return client, nil
}

// settings holds what the root command resolved before any subcommand runs.
var settings = struct {
	config *config.Config
	logger logger.Logger
}{}

// Configure loads the CLI configuration and builds the logger. Flag values
// override the file's log settings when non-empty.
func Configure(configFile, logLevel, logFormat string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	if logFormat == "" {
		logFormat = cfg.LogFormat
	}

	logConfig := logger.DefaultConfig()
	if logLevel != "" {
		logConfig.Level = logger.ParseLogLevel(logLevel)
	}
	if logFormat != "" {
		logConfig.Format = logger.ParseOutputFormat(logFormat)
	}
	if cfg.LogFile != "" {
		fileConfig := logger.DefaultFileConfig(cfg.LogFile)
		if cfg.LogRotateMegabytes > 0 {
			fileConfig.MaxSize = cfg.LogRotateMegabytes
		}
		if cfg.LogRotateMaxFiles > 0 {
			fileConfig.MaxBackups = cfg.LogRotateMaxFiles
		}
		logConfig.FileConfig = fileConfig
	}

	settings.config = cfg
	settings.logger = logger.NewZerologLogger(logConfig)
	return nil
}

// Config returns the loaded CLI configuration, empty if none was loaded.
func Config() *config.Config {
	if settings.config == nil {
		return &config.Config{}
	}
	return settings.config
}

// Logger returns the CLI logger, a no-op one if none was configured.
func Logger() logger.Logger {
	if settings.logger == nil {
		return logger.NewNopLogger()
	}
	return settings.logger
}
