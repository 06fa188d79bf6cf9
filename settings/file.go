package settings

import "fmt"

// file mirrors the on-disk layout of a settings file.
type file struct {
	General struct {
		Info struct {
			Application named `toml:"application" yaml:"application"`
			Engine      named `toml:"engine" yaml:"engine"`
			API         struct {
				Version string `toml:"version" yaml:"version"`
			} `toml:"api" yaml:"api"`
		} `toml:"info" yaml:"info"`
	} `toml:"general" yaml:"general"`
	Graphics struct {
		RenderWindow struct {
			Width  uint32 `toml:"width" yaml:"width"`
			Height uint32 `toml:"height" yaml:"height"`
		} `toml:"render-window" yaml:"render-window"`
		PresentMode string `toml:"present-mode" yaml:"present-mode"`
	} `toml:"graphics" yaml:"graphics"`
	System struct {
		CPUThreadUsage string `toml:"cpu-thread-usage" yaml:"cpu-thread-usage"`
	} `toml:"system" yaml:"system"`
	Advanced struct {
		Validation bool `toml:"validation" yaml:"validation"`
	} `toml:"advanced" yaml:"advanced"`
}

type named struct {
	Name    string `toml:"name" yaml:"name"`
	Version string `toml:"version" yaml:"version"`
}

func newFile(s Settings) file {
	var f file
	f.General.Info.Application = named{s.General.AppName, s.General.AppVersion.String()}
	f.General.Info.Engine = named{s.General.EngineName, s.General.EngineVersion.String()}
	f.General.Info.API.Version = s.General.APIVersion.String()
	f.Graphics.RenderWindow.Width = s.Graphics.ScreenWidth
	f.Graphics.RenderWindow.Height = s.Graphics.ScreenHeight
	f.Graphics.PresentMode = string(s.Graphics.PresentMode)
	f.System.CPUThreadUsage = s.System.CPUThreadUsage.String()
	f.Advanced.Validation = s.Validation
	return f
}

func (f *file) settings() (Settings, error) {
	s := Default()
	var err error
	info := &f.General.Info
	s.General.AppName = info.Application.Name
	if s.General.AppVersion, err = ParseVersion(info.Application.Version); err != nil {
		return Default(), fmt.Errorf("application version: %w", err)
	}
	s.General.EngineName = info.Engine.Name
	if s.General.EngineVersion, err = ParseVersion(info.Engine.Version); err != nil {
		return Default(), fmt.Errorf("engine version: %w", err)
	}
	if s.General.APIVersion, err = ParseVersion(info.API.Version); err != nil {
		return Default(), fmt.Errorf("api version: %w", err)
	}

	s.Graphics.ScreenWidth = f.Graphics.RenderWindow.Width
	s.Graphics.ScreenHeight = f.Graphics.RenderWindow.Height
	if s.Graphics.ScreenWidth == 0 || s.Graphics.ScreenHeight == 0 {
		return Default(), fmt.Errorf("render window size %dx%d", s.Graphics.ScreenWidth, s.Graphics.ScreenHeight)
	}
	switch m := PresentMode(f.Graphics.PresentMode); m {
	case Immediate, Mailbox, Fifo, FifoRelaxed:
		s.Graphics.PresentMode = m
	default:
		return Default(), fmt.Errorf("unknown present mode %q", f.Graphics.PresentMode)
	}

	switch f.System.CPUThreadUsage {
	case "high":
		s.System.CPUThreadUsage = High
	case "medium":
		s.System.CPUThreadUsage = Medium
	case "low":
		s.System.CPUThreadUsage = Low
	default:
		return Default(), fmt.Errorf("unknown CPU thread usage %q", f.System.CPUThreadUsage)
	}

	s.Validation = f.Advanced.Validation
	return s, nil
}
