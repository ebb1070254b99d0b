package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/im-n1/kosatka/internal/config/data"
)

const AppName = "kosatka"

var (
	// AppConfigDir is ~/.config/kosatka
	AppConfigDir string

	// AppStateDir is ~/.local/state/kosatka
	AppStateDir string

	// AppConfigFile is ~/.config/kosatka/kosatka.yaml
	AppConfigFile string

	// AppAliasesFile is ~/.config/kosatka/aliases.yaml
	AppAliasesFile string

	// AppStyleFile is ~/.config/kosatka/style.toml
	AppStyleFile string

	// AppLogFile is ~/.local/state/kosatka/kosatka.log
	AppLogFile string
)

// InitLocs initializes all application paths, honoring XDG variables,
// and creates the directories plus an empty style file.
func InitLocs() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("locate home dir: %w", err)
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}

	AppConfigDir = filepath.Join(configHome, AppName)
	AppStateDir = filepath.Join(stateHome, AppName)
	AppConfigFile = filepath.Join(AppConfigDir, AppName+".yaml")
	AppAliasesFile = filepath.Join(AppConfigDir, "aliases.yaml")
	AppStyleFile = filepath.Join(AppConfigDir, "style.toml")
	AppLogFile = filepath.Join(AppStateDir, AppName+".log")

	for _, dir := range []string{AppConfigDir, AppStateDir} {
		if _, err := data.EnsureDirPath(dir, data.DefaultDirMod); err != nil {
			return err
		}
	}

	return data.EnsureFile(AppStyleFile, data.DefaultFileMod)
}

// InitLogLoc ensures the log directory exists.
func InitLogLoc(path string) error {
	return data.EnsureFullPath(path, data.DefaultDirMod)
}
