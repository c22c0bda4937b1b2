// Package config loads the notification channel configuration from YAML.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML can carry values like "10s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Go duration strings.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ChannelsConfig declares which notification channels receive new-video
// events. Webhook URLs can be given inline or indirected through an
// environment variable so the YAML file stays free of secrets.
type ChannelsConfig struct {
	Channels struct {
		Discord ChannelConfig `yaml:"discord"`
		Slack   ChannelConfig `yaml:"slack"`
	} `yaml:"channels"`

	// Timeout applies to every webhook request. Default: 10s.
	Timeout Duration `yaml:"timeout"`
}

// ChannelConfig configures a single webhook channel.
type ChannelConfig struct {
	Enabled bool `yaml:"enabled"`

	// WebhookURL is the webhook endpoint, used when WebhookURLEnv is empty.
	WebhookURL string `yaml:"webhook_url"`

	// WebhookURLEnv names an environment variable holding the webhook URL.
	WebhookURLEnv string `yaml:"webhook_url_env"`
}

// ResolveURL returns the effective webhook URL, preferring the environment
// indirection when configured.
func (c *ChannelConfig) ResolveURL() string {
	if c.WebhookURLEnv != "" {
		if v := os.Getenv(c.WebhookURLEnv); v != "" {
			return v
		}
	}
	return c.WebhookURL
}

// DefaultChannelsConfig returns a configuration with every channel disabled.
func DefaultChannelsConfig() *ChannelsConfig {
	cfg := &ChannelsConfig{}
	cfg.Timeout = Duration(10 * time.Second)
	return cfg
}

// LoadChannelsConfig reads and validates the channel configuration file.
// A missing file is not an error: the watcher runs with all channels
// disabled, which is the expected state for library-style embedding.
func LoadChannelsConfig(path string) (*ChannelsConfig, error) {
	cfg := DefaultChannelsConfig()
	if path == "" {
		return cfg, nil
	}

	// #nosec G304 -- path comes from a CLI flag, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read channels config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse channels config: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = Duration(10 * time.Second)
	}

	if err := validateChannels(cfg); err != nil {
		return nil, fmt.Errorf("channels config validation failed: %w", err)
	}
	return cfg, nil
}

func validateChannels(cfg *ChannelsConfig) error {
	if err := validateChannel("discord", cfg.Channels.Discord); err != nil {
		return err
	}
	return validateChannel("slack", cfg.Channels.Slack)
}

func validateChannel(name string, c ChannelConfig) error {
	if !c.Enabled {
		return nil
	}
	resolved := c.ResolveURL()
	if resolved == "" {
		return fmt.Errorf("channel %s is enabled but has no webhook URL", name)
	}
	u, err := url.Parse(resolved)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("channel %s has an invalid webhook URL", name)
	}
	return nil
}
