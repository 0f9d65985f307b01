package codegen

import (
	"embed"
	"errors"
	"fmt"
	"text/template"

	"github.com/chriserin/testgen/internal/stepmap"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var ErrUnknownTarget = errors.New("unknown target")

// Target renders a Model for one test framework.
type Target interface {
	Name() string
	Naming() Naming
	// Statement renders kind acting on owner's accessor. ok is false when
	// the target has no statement for kind.
	Statement(owner, accessor string, kind stepmap.ActionKind, note string) (stmt string, ok bool)
	Render(m *Model) (Artifacts, error)
}

// Naming derives identifiers for one target. Reserved names are never handed
// out to accessors or scenario methods.
type Naming struct {
	Accessor func(name string) string
	Method   func(scenario string) string
	Test     func(base, scenario string) string
	Reserved []string
	// SharedScope is set when every feature's output lands in one namespace,
	// so features whose names fold to the same TypeName collide.
	SharedScope bool
}

// TypeName is the page object type generated for the feature named base.
func TypeName(base string) string {
	return Pascal(base, "feature") + "Page"
}

type Options struct {
	BaseURL string
	// Package is the Go package clause for playwright-go output.
	Package string
	// PageImport is the module path specs use to import page objects, for
	// wdio output.
	PageImport string
}

// Lookup returns the target registered under name.
func Lookup(name string, opts Options) (Target, error) {
	switch name {
	case WdioName:
		return NewWdio(opts), nil
	case PlaywrightGoName:
		return NewPlaywrightGo(opts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, name)
}

// Names lists the registered targets.
func Names() []string {
	return []string{WdioName, PlaywrightGoName}
}

func parseTemplate(name string, funcs template.FuncMap) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/"+name))
}
