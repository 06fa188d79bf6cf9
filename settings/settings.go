// Package settings loads the application and graphics settings read at
// window and instance creation.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ValidationEnv overrides Settings.Validation when set.
const ValidationEnv = "VK_VALIDATION"

// Version is a major.minor.patch version.
type Version struct {
	Major, Minor, Patch uint32
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseVersion parses a version such as "1.3" or "1.3.0".
func ParseVersion(s string) (Version, error) {
	v, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return Version{}, fmt.Errorf("parse version %q: %w", s, err)
	}
	return Version{Major: uint32(v.Major()), Minor: uint32(v.Minor()), Patch: uint32(v.Patch())}, nil
}

// PresentMode names a swapchain presentation mode.
type PresentMode string

const (
	Immediate   PresentMode = "immediate"
	Mailbox     PresentMode = "mailbox"
	Fifo        PresentMode = "fifo"
	FifoRelaxed PresentMode = "fifo-relaxed"
)

// CPUThreadUsage is the share of CPU threads the engine may use.
type CPUThreadUsage int

const (
	High   CPUThreadUsage = 1
	Medium CPUThreadUsage = 2
	Low    CPUThreadUsage = 3
)

func (u CPUThreadUsage) String() string {
	switch u {
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	}
	return fmt.Sprintf("CPUThreadUsage(%d)", int(u))
}

// Settings is read once at start-up and not modified afterwards.
type Settings struct {
	General struct {
		AppName       string
		AppVersion    Version
		EngineName    string
		EngineVersion Version
		APIVersion    Version
	}
	Graphics struct {
		ScreenWidth  uint32
		ScreenHeight uint32
		PresentMode  PresentMode
	}
	System struct {
		CPUThreadUsage CPUThreadUsage
	}
	Validation bool
}

// Default returns the settings used when no settings file exists.
func Default() Settings {
	var s Settings
	s.General.AppName = "Vulkan Application"
	s.General.AppVersion = Version{1, 0, 0}
	s.General.EngineName = "Neko Engine"
	s.General.EngineVersion = Version{1, 0, 0}
	s.General.APIVersion = Version{1, 3, 0}
	s.Graphics.ScreenWidth = 800
	s.Graphics.ScreenHeight = 600
	s.Graphics.PresentMode = Fifo
	s.System.CPUThreadUsage = High
	s.Validation = true
	return s
}

// Load reads the settings file at path. The format follows the file
// extension: .toml, or .json/.yaml/.yml. Keys missing from the file keep
// their default value; a missing file yields Default.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	p, err := homedir.Expand(path)
	if err != nil {
		return s, fmt.Errorf("expand settings path: %w", err)
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("settings file %s not found, using default settings", p)
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	return Decode(data, filepath.Ext(p))
}

// Decode parses settings in the format named by ext.
func Decode(data []byte, ext string) (Settings, error) {
	f := newFile(Default())
	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		err = toml.Unmarshal(data, &f)
	case ".json", ".yaml", ".yml":
		// JSON documents are valid YAML.
		err = yaml.Unmarshal(data, &f)
	default:
		return Default(), fmt.Errorf("unsupported settings format %q", ext)
	}
	if err != nil {
		return Default(), fmt.Errorf("decode settings: %w", err)
	}
	return f.settings()
}

// ApplyEnv applies the ValidationEnv override: "0" or "false" disable
// validation, any other non-empty value enables it.
func (s *Settings) ApplyEnv() {
	val, ok := os.LookupEnv(ValidationEnv)
	if !ok || val == "" {
		return
	}
	switch strings.ToLower(val) {
	case "0", "false":
		s.Validation = false
	default:
		s.Validation = true
	}
}
