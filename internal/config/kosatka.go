package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/im-n1/kosatka/internal/config/data"
)

// Backends
const (
	BackendContainerd = "containerd"
	BackendDocker     = "docker"
	BackendAMI        = "ami"
)

var backends = []string{BackendContainerd, BackendDocker, BackendAMI}

// Default values
const (
	DefaultAPITimeout = time.Duration(0)
	DefaultBackend    = BackendContainerd
	DefaultAddress    = "/run/containerd/containerd.sock"
	DefaultNamespace  = "default"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Kosatka represents the global application configuration.
type Kosatka struct {
	APITimeout string          `yaml:"apiTimeout"`
	ReadOnly   bool            `yaml:"readOnly"`
	Backend    string          `yaml:"backend"`
	Containerd data.Containerd `yaml:"containerd"`
	AWS        data.AWS        `yaml:"aws"`
	UI         data.UI         `yaml:"ui"`
	Logger     data.Logger     `yaml:"logger"`

	mx sync.RWMutex
}

// NewKosatka creates a Kosatka with default settings.
func NewKosatka() *Kosatka {
	return &Kosatka{
		APITimeout: DefaultAPITimeout.String(),
		Backend:    DefaultBackend,
		Containerd: data.Containerd{
			Address:   DefaultAddress,
			Namespace: DefaultNamespace,
		},
		Logger: data.Logger{Level: DefaultLogLevel},
	}
}

// Validate fills blanks with defaults and resets invalid values.
func (k *Kosatka) Validate() {
	k.mx.Lock()
	defer k.mx.Unlock()

	if _, err := time.ParseDuration(k.APITimeout); err != nil {
		if k.APITimeout != "" {
			slog.Warn("Invalid apiTimeout, using default", "value", k.APITimeout)
		}
		k.APITimeout = DefaultAPITimeout.String()
	}
	if !slices.Contains(backends, k.Backend) {
		if k.Backend != "" {
			slog.Warn("Unknown backend, using default", "value", k.Backend)
		}
		k.Backend = DefaultBackend
	}
	if k.Containerd.Address == "" {
		k.Containerd.Address = DefaultAddress
	}
	if k.Containerd.Namespace == "" {
		k.Containerd.Namespace = DefaultNamespace
	}
	if !slices.Contains(logLevels, strings.ToLower(k.Logger.Level)) {
		k.Logger.Level = DefaultLogLevel
	}
}

// Override applies CLI flag overrides to the configuration.
func (k *Kosatka) Override(flags *data.Flags) error {
	if flags == nil {
		return nil
	}

	k.mx.Lock()
	defer k.mx.Unlock()

	if flags.ReadOnly != nil && *flags.ReadOnly {
		k.ReadOnly = true
	}
	// Write flag overrides ReadOnly
	if flags.Write != nil && *flags.Write {
		k.ReadOnly = false
	}
	if IsStringSet(flags.Backend) {
		b := strings.ToLower(*flags.Backend)
		if !slices.Contains(backends, b) {
			return fmt.Errorf("unknown backend %q, expected one of %s", b, strings.Join(backends, ", "))
		}
		k.Backend = b
	}
	if IsStringSet(flags.Address) {
		k.Containerd.Address = *flags.Address
	}
	if IsStringSet(flags.Namespace) {
		k.Containerd.Namespace = *flags.Namespace
	}
	if IsStringSet(flags.Profile) {
		k.AWS.Profile = *flags.Profile
	}
	if IsStringSet(flags.Region) {
		k.AWS.Region = *flags.Region
	}
	if IsStringSet(flags.APITimeout) {
		if _, err := time.ParseDuration(*flags.APITimeout); err != nil {
			return fmt.Errorf("invalid API timeout %q: %w", *flags.APITimeout, err)
		}
		k.APITimeout = *flags.APITimeout
	}
	if IsStringSet(flags.LogLevel) {
		k.Logger.Level = *flags.LogLevel
	}

	return nil
}

// GetAPITimeout returns the parsed API timeout duration.
func (k *Kosatka) GetAPITimeout() (time.Duration, error) {
	k.mx.RLock()
	timeoutStr := k.APITimeout
	k.mx.RUnlock()

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid API timeout %q: %w", timeoutStr, err)
	}

	return timeout, nil
}

// IsReadOnly reports whether mutations are blocked.
func (k *Kosatka) IsReadOnly() bool {
	k.mx.RLock()
	defer k.mx.RUnlock()
	return k.ReadOnly
}

// ActiveBackend returns the configured backend.
func (k *Kosatka) ActiveBackend() string {
	k.mx.RLock()
	defer k.mx.RUnlock()
	return k.Backend
}
