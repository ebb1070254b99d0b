package config

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/im-n1/kosatka/internal/aws"
	"github.com/im-n1/kosatka/internal/config/data"
)

// Config is the root configuration for the application.
type Config struct {
	Kosatka *Kosatka `yaml:"kosatka"`

	mx sync.RWMutex
}

// NewConfig creates a Config with default settings.
func NewConfig() *Config {
	return &Config{Kosatka: NewKosatka()}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, the current config is kept unless force is set.
func (c *Config) Load(path string, force bool) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !force {
			return nil
		}
		return fmt.Errorf("config file does not exist: %s", path)
	}
	if err := data.LoadYAML(path, c); err != nil {
		return fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	if c.Kosatka == nil {
		c.Kosatka = NewKosatka()
	}
	c.Kosatka.Validate()

	return nil
}

// Save saves the configuration to path.
// If force is false, only saves if the file already exists.
func (c *Config) Save(path string, force bool) error {
	c.mx.RLock()
	defer c.mx.RUnlock()

	if path == "" {
		return fmt.Errorf("no config file path configured")
	}
	if _, err := os.Stat(path); err != nil && !force {
		return nil
	}
	if err := data.SaveYAML(path, c); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", path, err)
	}

	return nil
}

// Refine resolves the AWS profile and region to use, once CLI flags are applied.
// Profile: aws.profile > AWS default. Region: aws.region > profile default.
func (c *Config) Refine(settings aws.ProfileSettings) (profile, region string, err error) {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.Kosatka == nil {
		return "", "", fmt.Errorf("config.Kosatka is nil")
	}

	profile = c.Kosatka.AWS.Profile
	if profile == "" {
		if profile, err = settings.CurrentProfileName(); err != nil {
			return "", "", fmt.Errorf("failed to get AWS default profile: %w", err)
		}
	}
	p, err := settings.GetProfile(profile)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", aws.ErrInvalidProfile, profile)
	}
	region = aws.ResolveRegion(c.Kosatka.AWS.Region, p.DefaultRegion)
	if err := settings.SetActiveProfile(profile, region); err != nil {
		return "", "", err
	}
	slog.Debug("AWS context resolved", "profile", profile, "region", region)

	return profile, region, nil
}
