package config

import (
	"os"
	"sort"
	"sync"

	"github.com/im-n1/kosatka/internal/config/data"
)

// Aliases maps command names to resource IDs.
type Aliases struct {
	Alias map[string]string `yaml:"aliases"`
	mx    sync.RWMutex      `yaml:"-"`
}

// DefaultAliases are the built-in command aliases.
var DefaultAliases = map[string]string{
	"image":      "containerd/image",
	"images":     "containerd/image",
	"img":        "containerd/image",
	"containerd": "containerd/image",
	"ctr":        "containerd/image",
	"docker":     "docker/image",
	"dimg":       "docker/image",
	"ami":        "ec2/ami",
	"amis":       "ec2/ami",
	"ec2":        "ec2/ami",
}

// NewAliases creates an Aliases with default aliases loaded.
func NewAliases() *Aliases {
	a := Aliases{Alias: make(map[string]string, len(DefaultAliases))}
	for k, v := range DefaultAliases {
		a.Alias[k] = v
	}

	return &a
}

// Load merges aliases from the default aliases file.
func (a *Aliases) Load() error {
	return a.LoadFrom(AppAliasesFile)
}

// LoadFrom merges aliases from path; file entries win over defaults.
// A missing file is not an error.
func (a *Aliases) LoadFrom(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var loaded Aliases
	if err := data.LoadYAML(path, &loaded); err != nil {
		return err
	}

	a.mx.Lock()
	defer a.mx.Unlock()
	for k, v := range loaded.Alias {
		a.Alias[k] = v
	}

	return nil
}

// Get returns the resource for an alias.
func (a *Aliases) Get(alias string) (string, bool) {
	a.mx.RLock()
	defer a.mx.RUnlock()

	rid, ok := a.Alias[alias]
	return rid, ok
}

// Keys returns all alias names, sorted.
func (a *Aliases) Keys() []string {
	a.mx.RLock()
	defer a.mx.RUnlock()

	kk := make([]string, 0, len(a.Alias))
	for k := range a.Alias {
		kk = append(kk, k)
	}
	sort.Strings(kk)

	return kk
}

// For returns the aliases that resolve to rid, sorted.
func (a *Aliases) For(rid string) []string {
	var kk []string
	for _, k := range a.Keys() {
		if v, _ := a.Get(k); v == rid {
			kk = append(kk, k)
		}
	}
	return kk
}
