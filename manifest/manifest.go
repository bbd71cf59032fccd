// Package manifest handles avmns.toml runtime configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/chazu/avmns/apiversion"
	"github.com/chazu/avmns/avm"
)

// FileName is the configuration file Load looks for.
const FileName = "avmns.toml"

// Manifest represents an avmns.toml configuration.
type Manifest struct {
	Runtime  Runtime  `toml:"runtime"`
	Builtins Builtins `toml:"builtins"`
	Log      Log      `toml:"log"`

	// Dir is the directory containing the avmns.toml file (set at load time).
	Dir string `toml:"-"`
}

// Runtime configures the namespace runtime.
type Runtime struct {
	PlayerRuntime   string `toml:"player-runtime"`
	RootSWFVersion  uint8  `toml:"root-swf-version"`
	TrustedBuiltins bool   `toml:"trusted-builtins"`
}

// Builtins lists constant pool fixtures loaded into playerglobals.
type Builtins struct {
	Paths []string `toml:"paths"`
}

// Log configures commonlog.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the configuration used when no avmns.toml exists.
func Default() *Manifest {
	return &Manifest{
		Runtime: Runtime{PlayerRuntime: "FlashPlayer"},
		Log:     Log{Verbosity: 1},
	}
}

// Load parses an avmns.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m := Default()
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if _, err := m.Options(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	return m, nil
}

// FindAndLoad walks up from startDir to find an avmns.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Options converts the runtime section into avm.Options.
func (m *Manifest) Options() (avm.Options, error) {
	pr, err := apiversion.ParsePlayerRuntime(m.Runtime.PlayerRuntime)
	if err != nil {
		return avm.Options{}, err
	}
	return avm.Options{
		PlayerRuntime:   pr,
		RootSWFVersion:  m.Runtime.RootSWFVersion,
		TrustedBuiltins: m.Runtime.TrustedBuiltins,
	}, nil
}

// BuiltinPaths returns the builtin fixture paths resolved against Dir.
func (m *Manifest) BuiltinPaths() []string {
	var paths []string
	for _, p := range m.Builtins.Paths {
		if filepath.IsAbs(p) || m.Dir == "" {
			paths = append(paths, p)
			continue
		}
		paths = append(paths, filepath.Join(m.Dir, p))
	}
	return paths
}

// LogFile returns the log file path, or nil for stderr.
func (m *Manifest) LogFile() *string {
	if m.Log.File == "" {
		return nil
	}
	path := m.Log.File
	if !filepath.IsAbs(path) && m.Dir != "" {
		path = filepath.Join(m.Dir, path)
	}
	return &path
}
