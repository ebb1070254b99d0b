// Package data provides configuration data types for the kosatka application.
package data

// Flags represents CLI command-line flags.
type Flags struct {
	LogLevel   *string // Log level (debug, info, warn, error)
	LogFile    *string // Path to log file
	ReadOnly   *bool   // Block mutations
	Write      *bool   // Force mutations on, overriding readOnly
	Backend    *string // Image backend: containerd or ami
	Address    *string // containerd socket address
	Namespace  *string // containerd namespace
	Profile    *string // AWS profile to use
	Region     *string // AWS region to use
	APITimeout *string // Bound on each backend call, 0s for none
}

// NewFlags creates a new Flags instance with all pointer fields initialized.
func NewFlags() *Flags {
	return &Flags{
		LogLevel:   new(string),
		LogFile:    new(string),
		ReadOnly:   new(bool),
		Write:      new(bool),
		Backend:    new(string),
		Address:    new(string),
		Namespace:  new(string),
		Profile:    new(string),
		Region:     new(string),
		APITimeout: new(string),
	}
}

// UI represents user interface configuration settings.
type UI struct {
	EnableMouse bool   `yaml:"enableMouse"`
	Style       string `yaml:"style,omitempty"`
}

// Logger represents logging configuration settings.
type Logger struct {
	Level string `yaml:"level"`
}

// Containerd holds the containerd connection settings.
type Containerd struct {
	Address   string `yaml:"address"`
	Namespace string `yaml:"namespace"`
}

// AWS holds the AMI backend settings.
type AWS struct {
	Profile string `yaml:"profile,omitempty"`
	Region  string `yaml:"region,omitempty"`
}
