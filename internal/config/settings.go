package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the project settings file looked up in the working directory.
const DefaultFile = "testgen.yaml"

const (
	TargetWdio         = "wdio"
	TargetPlaywrightGo = "playwright-go"
)

// Paths locates every input and output of the pipeline, relative to the
// project root.
type Paths struct {
	Features    string `yaml:"features"`
	StepMaps    string `yaml:"stepMaps"`
	PageObjects string `yaml:"pageObjects"`
	Specs       string `yaml:"specs"`
	Aliases     string `yaml:"aliases"`
	Ignore      string `yaml:"ignore"`
	Ledger      string `yaml:"ledger"`
}

type LogSettings struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Settings is the project-level configuration read from testgen.yaml.
type Settings struct {
	Paths     Paths       `yaml:"paths"`
	Target    string      `yaml:"target"`
	BaseURL   string      `yaml:"baseURL"`
	GoPackage string      `yaml:"goPackage"`
	Log       LogSettings `yaml:"log"`
}

// Defaults returns the settings used when no testgen.yaml is present.
func Defaults() Settings {
	return Settings{
		Paths: Paths{
			Features:    "features",
			StepMaps:    "stepMaps",
			PageObjects: filepath.Join("test", "pageobjects"),
			Specs:       filepath.Join("test", "specs"),
			Aliases:     "selector-aliases.json",
			Ignore:      ".testgenignore",
			Ledger:      filepath.Join(".testgen", "testgen.db"),
		},
		Target:    TargetWdio,
		BaseURL:   "https://the-internet.herokuapp.com/",
		GoPackage: "e2e",
		Log:       LogSettings{Level: "info"},
	}
}

// Load layers the settings file at path over Defaults. A missing file is not
// an error.
func Load(path string) (Settings, error) {
	settings := Defaults()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var overlay Settings
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Settings{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	settings = merge(settings, overlay)

	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}

// Validate reports settings combinations the generator cannot honour.
func (s Settings) Validate() error {
	switch s.Target {
	case TargetWdio:
	case TargetPlaywrightGo:
		if filepath.Clean(s.Paths.PageObjects) != filepath.Clean(s.Paths.Specs) {
			return fmt.Errorf("target %s needs pageObjects and specs in one directory, got %q and %q",
				s.Target, s.Paths.PageObjects, s.Paths.Specs)
		}
	default:
		return fmt.Errorf("unknown target %q (use %s or %s)", s.Target, TargetWdio, TargetPlaywrightGo)
	}
	return nil
}

func merge(base, overlay Settings) Settings {
	merged := base

	if overlay.Paths.Features != "" {
		merged.Paths.Features = overlay.Paths.Features
	}
	if overlay.Paths.StepMaps != "" {
		merged.Paths.StepMaps = overlay.Paths.StepMaps
	}
	if overlay.Paths.PageObjects != "" {
		merged.Paths.PageObjects = overlay.Paths.PageObjects
	}
	if overlay.Paths.Specs != "" {
		merged.Paths.Specs = overlay.Paths.Specs
	}
	if overlay.Paths.Aliases != "" {
		merged.Paths.Aliases = overlay.Paths.Aliases
	}
	if overlay.Paths.Ignore != "" {
		merged.Paths.Ignore = overlay.Paths.Ignore
	}
	if overlay.Paths.Ledger != "" {
		merged.Paths.Ledger = overlay.Paths.Ledger
	}

	if overlay.Target != "" {
		merged.Target = overlay.Target
	}
	if overlay.BaseURL != "" {
		merged.BaseURL = overlay.BaseURL
	}
	if overlay.GoPackage != "" {
		merged.GoPackage = overlay.GoPackage
	}
	if overlay.Log.Level != "" {
		merged.Log.Level = overlay.Log.Level
	}
	if overlay.Log.File != "" {
		merged.Log.File = overlay.Log.File
	}

	return merged
}
