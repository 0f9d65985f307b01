// Package codegen turns a step map and its selector registry into a page
// object module and a test module for one target framework.
package codegen

import (
	"fmt"
	"strings"

	"github.com/chriserin/testgen/internal/registry"
	"github.com/chriserin/testgen/internal/stepmap"
)

type Kind int

const (
	KindPage Kind = iota
	KindSpec
	// KindSupport is shared code the generated modules depend on. It is only
	// written when missing so that local edits survive regeneration.
	KindSupport
)

func (k Kind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindSpec:
		return "spec"
	case KindSupport:
		return "support"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Artifact is one generated file, named relative to the directory its Kind
// is written to.
type Artifact struct {
	Name    string
	Content string
	Kind    Kind
}

// CreateOnly reports whether an existing copy of the file must never be
// replaced, even when forced.
func (a Artifact) CreateOnly() bool {
	return a.Kind == KindSupport
}

type Artifacts struct {
	Page    Artifact
	Spec    Artifact
	Support []Artifact
}

// All returns the artifacts in write order: page, spec, then support files.
func (a Artifacts) All() []Artifact {
	return append([]Artifact{a.Page, a.Spec}, a.Support...)
}

// Model is the target-neutral description of one feature's generated code.
// Every identifier in it is already unique within the module it lands in.
type Model struct {
	Base        string
	Title       string
	PageType    string
	DefaultPath string
	Accessors   []Accessor
	Scenarios   []Scenario
	UsesUpload  bool
}

type Accessor struct {
	Ident     string
	Name      string
	Selector  string
	Fallbacks []string
}

type Scenario struct {
	Name   string
	Method string
	Test   string
	Steps  []Step
}

type Step struct {
	Kind         stepmap.ActionKind
	SelectorName string
	// Accessor is empty when the step has no registry entry.
	Accessor string
	Note     string
}

// Generate renders the artifacts for the feature named base. The output is a
// pure function of its inputs.
func Generate(base string, sm *stepmap.StepMap, reg *registry.Registry, target Target) (Artifacts, error) {
	m := BuildModel(base, sm, reg, target.Naming())
	arts, err := target.Render(m)
	if err != nil {
		return Artifacts{}, fmt.Errorf("rendering %s for %s: %w", target.Name(), base, err)
	}
	return arts, nil
}

// BuildModel resolves names for base's accessors, scenario methods and tests
// under the rules in naming.
func BuildModel(base string, sm *stepmap.StepMap, reg *registry.Registry, naming Naming) *Model {
	m := &Model{
		Base:        base,
		Title:       strings.Join(Words(base), " ") + " feature tests",
		PageType:    TypeName(base),
		DefaultPath: strings.ToLower(base),
	}

	members := newNamer(naming.Reserved...)
	idents := map[string]string{}
	for _, e := range reg.Entries() {
		id := members.unique(naming.Accessor(e.Name))
		idents[e.Name] = id
		m.Accessors = append(m.Accessors, Accessor{
			Ident:     id,
			Name:      e.Name,
			Selector:  e.Selector,
			Fallbacks: e.Fallbacks,
		})
	}

	tests := newNamer()
	sm.Each(func(name string, steps []stepmap.ActionDescriptor) {
		sc := Scenario{
			Name:   name,
			Method: members.unique(naming.Method(name)),
			Test:   tests.unique(naming.Test(base, name)),
		}
		for _, d := range steps {
			kind := d.Action.Canonical()
			if kind == stepmap.ActionUploadFile {
				m.UsesUpload = true
			}
			step := Step{Kind: kind, SelectorName: d.SelectorName, Note: d.Note}
			if kind.Known() {
				step.Accessor = idents[d.SelectorName]
			}
			sc.Steps = append(sc.Steps, step)
		}
		m.Scenarios = append(m.Scenarios, sc)
	})
	return m
}

// Placeholder is the comment emitted in place of a step no statement exists
// for.
func Placeholder(s Step) string {
	line := fmt.Sprintf("// Unknown action: %s (%s)", s.Kind, s.SelectorName)
	return strings.Join(strings.Fields(line), " ")
}
