// Package config reads the optional polaprint TOML file.
//
// The file holds the same settings as the command-line flags. Every key is
// optional; keys that are absent leave the flag default in place, and an
// explicitly passed flag always wins over the file.
//
//	dpi = 600
//	output_format = "tif"
//	output_dir = "~/prints"
//	template = "auto"
//	crop = "smart"
//	jobs = 4
//	no_cache = false
//	log_file = "~/.local/state/polaprint/polaprint.log"
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/polaprint/pkg/errors"
)

// FileName is the config file looked up in the user config directory.
const FileName = "config.toml"

// Config mirrors the CLI flags. Zero values mean "not set".
type Config struct {
	DPI          int    `toml:"dpi"`
	OutputFormat string `toml:"output_format"`
	OutputDir    string `toml:"output_dir"`
	Template     string `toml:"template"`
	Crop         string `toml:"crop"`
	Jobs         int    `toml:"jobs"`
	NoCache      bool   `toml:"no_cache"`
	LogFile      string `toml:"log_file"`

	// Path is the file the config was read from, empty if none was found.
	Path string `toml:"-"`
}

// DefaultPath returns $XDG_CONFIG_HOME/polaprint/config.toml, falling back
// to the platform config directory.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		base = dir
	}
	return filepath.Join(base, "polaprint", FileName), nil
}

// Load reads the config at path. With an empty path the default location
// is tried and a missing file yields an empty Config; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return &Config{}, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config")
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	cfg.Path = path
	cfg.OutputDir = expandHome(cfg.OutputDir)
	cfg.LogFile = expandHome(cfg.LogFile)
	return cfg, nil
}

// Parse decodes TOML data. Unknown keys are rejected so typos do not pass
// silently.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return &cfg, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
