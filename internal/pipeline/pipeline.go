// Package pipeline runs the two generation stages over files on disk:
// feature files to step maps, and step maps to page objects and specs.
package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chriserin/testgen/internal/codegen"
	"github.com/chriserin/testgen/internal/config"
)

// ErrNoInputs is returned when a run selected nothing, or none of the
// selected inputs exist.
var ErrNoInputs = errors.New("no inputs")

// ErrNoOutput is returned by callers when a run processed inputs but produced
// nothing usable: every item warned or failed.
var ErrNoOutput = errors.New("no usable output")

// Options shared by both stages.
type Options struct {
	All     bool
	Files   []string
	Force   bool
	DryRun  bool
	Watch   bool
	Verbose bool
}

// Env is the read-only configuration of one invocation.
type Env struct {
	// Root is the directory relative paths in Settings resolve against.
	Root      string
	Settings  config.Settings
	Selectors config.Selectors
}

// Load reads settings from settingsPath and the alias table they name. A
// missing settings file yields defaults; a malformed alias file is fatal.
func Load(settingsPath string) (*Env, error) {
	settings, err := config.Load(settingsPath)
	if err != nil {
		return nil, err
	}
	env := &Env{Root: filepath.Dir(settingsPath), Settings: settings}
	env.Selectors, err = config.LoadSelectors(env.Path(settings.Paths.Aliases))
	if err != nil {
		return nil, err
	}
	return env, nil
}

// Path resolves p against Root.
func (e *Env) Path(p string) string {
	if filepath.IsAbs(p) || e.Root == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(e.Root, p)
}

func (e *Env) FeaturesDir() string    { return e.Path(e.Settings.Paths.Features) }
func (e *Env) StepMapsDir() string    { return e.Path(e.Settings.Paths.StepMaps) }
func (e *Env) PageObjectsDir() string { return e.Path(e.Settings.Paths.PageObjects) }
func (e *Env) SpecsDir() string       { return e.Path(e.Settings.Paths.Specs) }

// Target builds the configured code generation target.
func (e *Env) Target() (codegen.Target, error) {
	return codegen.Lookup(e.Settings.Target, codegen.Options{
		BaseURL:    e.Settings.BaseURL,
		Package:    e.Settings.GoPackage,
		PageImport: pageImport(e.SpecsDir(), e.PageObjectsDir()),
	})
}

// pageImport is the module specifier specs use to reach the page object
// directory.
func pageImport(specs, pages string) string {
	rel, err := filepath.Rel(specs, pages)
	if err != nil {
		return "../pageobjects"
	}
	rel = filepath.ToSlash(rel)
	if rel != "." && !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

// dirFor returns where an artifact of kind is written.
func (e *Env) dirFor(kind codegen.Kind) string {
	if kind == codegen.KindSpec {
		return e.SpecsDir()
	}
	return e.PageObjectsDir()
}

type Outcome string

const (
	Generated Outcome = "generated"
	Skipped   Outcome = "skipped"
	Warned    Outcome = "warned"
	DryRun    Outcome = "dry-run"
	Failed    Outcome = "failed"
)

// Outcomes lists every outcome in summary order.
var Outcomes = []Outcome{Generated, Skipped, Warned, DryRun, Failed}

// Item is the outcome for one input or artifact.
type Item struct {
	Path    string
	Kind    string
	Outcome Outcome
	Reason  string
	Err     error
	// Before and After are set on dry-run items; Before is empty when the
	// file does not exist yet.
	Before string
	After  string
	SHA256 string
}

// Report collects the items of one stage run in processing order.
type Report struct {
	Stage string
	RunID string
	Items []Item
}

func (r *Report) add(items ...Item) {
	r.Items = append(r.Items, items...)
}

func (r *Report) Count(o Outcome) int {
	n := 0
	for _, it := range r.Items {
		if it.Outcome == o {
			n++
		}
	}
	return n
}

// Failed reports whether any artifact failed to write.
func (r *Report) Failed() bool {
	return r.Count(Failed) > 0
}

// Unusable reports whether the run had items and none of them was
// generated, previewed or already in place.
func (r *Report) Unusable() bool {
	return len(r.Items) > 0 && r.Count(Generated)+r.Count(DryRun)+r.Count(Skipped) == 0
}

func inputMissing(path string) Item {
	return Item{Path: path, Kind: "input", Outcome: Warned, Reason: "not found"}
}

func inputFailed(path string, err error) Item {
	return Item{Path: path, Kind: "input", Outcome: Failed, Err: err, Reason: err.Error()}
}

func noInputs(stage string) error {
	return fmt.Errorf("%s: %w", stage, ErrNoInputs)
}
