package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// OAuthConfig holds the client credentials and token endpoint used to
// refresh access tokens for one provider.
type OAuthConfig struct {
	// ClientID is the OAuth application client id.
	ClientID string `mapstructure:"client_id" yaml:"client_id"`

	// ClientSecret is the OAuth application client secret.
	ClientSecret string `mapstructure:"client_secret" yaml:"client_secret"`

	// TokenURL is the provider's token endpoint. The default points at the
	// provider's production endpoint; tests override it.
	TokenURL string `mapstructure:"token_url" yaml:"token_url"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// DBPath is the SQLite database location.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// GitHub, Jira, and AzureDevOps hold per-provider OAuth settings.
	GitHub      OAuthConfig `mapstructure:"github" yaml:"github"`
	Jira        OAuthConfig `mapstructure:"jira" yaml:"jira"`
	AzureDevOps OAuthConfig `mapstructure:"azure_devops" yaml:"azure_devops"`
}

// OAuthFor returns the OAuth settings for the given provider.
func (c *AppConfig) OAuthFor(p Provider) OAuthConfig {
	switch p {
	case ProviderGitHub:
		return c.GitHub
	case ProviderJira:
		return c.Jira
	case ProviderAzureDevOps:
		return c.AzureDevOps
	default:
		return OAuthConfig{}
	}
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskos-sync/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskos-sync", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	home, _ := os.UserHomeDir()
	return &AppConfig{
		DBPath: filepath.Join(home, ".local", "share", "taskos-sync", "tasks.db"),
		GitHub: OAuthConfig{
			TokenURL: "https://github.com/login/oauth/access_token",
		},
		Jira: OAuthConfig{
			TokenURL: "https://auth.atlassian.com/oauth/token",
		},
		AzureDevOps: OAuthConfig{
			TokenURL: "https://app.vssps.visualstudio.com/oauth2/token",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()
	v.SetDefault("db_path", defaults.DBPath)
	v.SetDefault("github.token_url", defaults.GitHub.TokenURL)
	v.SetDefault("jira.token_url", defaults.Jira.TokenURL)
	v.SetDefault("azure_devops.token_url", defaults.AzureDevOps.TokenURL)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("db_path", cfg.DBPath)
	v.Set("github", cfg.GitHub)
	v.Set("jira", cfg.Jira)
	v.Set("azure_devops", cfg.AzureDevOps)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
