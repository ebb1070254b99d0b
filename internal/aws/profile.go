package aws

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/ini.v1"
)

const defaultProfile = "default"

type ProfileSettings interface {
	CurrentProfileName() (string, error)
	CurrentRegion() (string, error)
	ProfileNames() ([]string, error)
	GetProfile(name string) (*Profile, error)
	SetActiveProfile(profile, region string) error
}

type Profile struct {
	Name          string
	DefaultRegion string
	AccountID     string
	RoleARN       string
	SourceProfile string
}

type ProfileManager struct {
	credentialsPath string
	configPath      string
	profiles        map[string]*Profile
	activeProfile   string
	activeRegion    string
	mx              sync.RWMutex
}

// NewProfileManager loads profiles from the standard shared AWS files.
func NewProfileManager() (*ProfileManager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("locate home dir: %w", err)
	}
	credentials := os.Getenv("AWS_SHARED_CREDENTIALS_FILE")
	if credentials == "" {
		credentials = filepath.Join(home, ".aws", "credentials")
	}
	cfg := os.Getenv("AWS_CONFIG_FILE")
	if cfg == "" {
		cfg = filepath.Join(home, ".aws", "config")
	}

	return NewProfileManagerFrom(credentials, cfg)
}

// NewProfileManagerFrom loads profiles from the given credentials and config files.
// Missing files are not an error; a manager with only the default profile is returned.
func NewProfileManagerFrom(credentialsPath, configPath string) (*ProfileManager, error) {
	m := ProfileManager{
		credentialsPath: credentialsPath,
		configPath:      configPath,
		profiles:        make(map[string]*Profile),
	}
	if err := m.loadCredentials(); err != nil {
		return nil, err
	}
	if err := m.loadConfig(); err != nil {
		return nil, err
	}
	if len(m.profiles) == 0 {
		m.profiles[defaultProfile] = &Profile{Name: defaultProfile}
	}
	for _, p := range m.profiles {
		if p.DefaultRegion == "" {
			p.DefaultRegion = DefaultRegion
		}
	}

	active := os.Getenv("AWS_PROFILE")
	if active == "" {
		active = defaultProfile
	}
	if p, ok := m.profiles[active]; ok {
		m.activeProfile, m.activeRegion = active, p.DefaultRegion
	} else {
		names := m.sortedNames()
		m.activeProfile, m.activeRegion = names[0], m.profiles[names[0]].DefaultRegion
	}

	return &m, nil
}

func loadINI(path string) (*ini.File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", path, err)
	}
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return f, nil
}

func (m *ProfileManager) profile(name string) *Profile {
	p, ok := m.profiles[name]
	if !ok {
		p = &Profile{Name: name}
		m.profiles[name] = p
	}
	return p
}

func (m *ProfileManager) loadCredentials() error {
	f, err := loadINI(m.credentialsPath)
	if err != nil || f == nil {
		return err
	}
	for _, section := range f.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		p := m.profile(section.Name())
		p.RoleARN = section.Key("role_arn").String()
		p.SourceProfile = section.Key("source_profile").String()
	}

	return nil
}

// loadConfig reads the config file where sections other than default are named "profile <name>".
func (m *ProfileManager) loadConfig() error {
	f, err := loadINI(m.configPath)
	if err != nil || f == nil {
		return err
	}
	for _, section := range f.Sections() {
		var name string
		switch n := section.Name(); {
		case n == ini.DefaultSection:
			if len(section.Keys()) == 0 {
				continue
			}
			name = defaultProfile
		case n == defaultProfile:
			name = defaultProfile
		case strings.HasPrefix(n, "profile "):
			name = strings.TrimSpace(strings.TrimPrefix(n, "profile "))
		default:
			continue
		}
		p := m.profile(name)
		if section.HasKey("region") {
			p.DefaultRegion = section.Key("region").String()
		}
		if section.HasKey("account_id") {
			p.AccountID = section.Key("account_id").String()
		}
		if p.RoleARN == "" && section.HasKey("role_arn") {
			p.RoleARN = section.Key("role_arn").String()
		}
		if p.SourceProfile == "" && section.HasKey("source_profile") {
			p.SourceProfile = section.Key("source_profile").String()
		}
	}

	return nil
}

func (m *ProfileManager) sortedNames() []string {
	names := make([]string, 0, len(m.profiles))
	for n := range m.profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CurrentProfileName returns the name of the currently active profile.
func (m *ProfileManager) CurrentProfileName() (string, error) {
	m.mx.RLock()
	defer m.mx.RUnlock()

	if m.activeProfile == "" {
		return "", fmt.Errorf("no active profile set")
	}
	return m.activeProfile, nil
}

// CurrentRegion returns the region of the currently active profile.
func (m *ProfileManager) CurrentRegion() (string, error) {
	m.mx.RLock()
	defer m.mx.RUnlock()

	if m.activeRegion == "" {
		return "", fmt.Errorf("no active region set")
	}
	return m.activeRegion, nil
}

// ProfileNames returns all available profile names, sorted.
func (m *ProfileManager) ProfileNames() ([]string, error) {
	m.mx.RLock()
	defer m.mx.RUnlock()
	return m.sortedNames(), nil
}

// GetProfile retrieves a copy of a profile by name.
func (m *ProfileManager) GetProfile(name string) (*Profile, error) {
	m.mx.RLock()
	defer m.mx.RUnlock()

	p, ok := m.profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}
	cp := *p

	return &cp, nil
}

// SetActiveProfile sets the active profile and region.
// An empty region selects the profile's default region.
func (m *ProfileManager) SetActiveProfile(profile, region string) error {
	m.mx.Lock()
	defer m.mx.Unlock()

	p, ok := m.profiles[profile]
	if !ok {
		return fmt.Errorf("profile %q not found", profile)
	}
	if region == "" {
		region = p.DefaultRegion
	}
	m.activeProfile, m.activeRegion = profile, region

	return nil
}
