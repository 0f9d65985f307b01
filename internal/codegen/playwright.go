package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"text/template"

	"github.com/chriserin/testgen/internal/stepmap"
)

const PlaywrightGoName = "playwright-go"

// Statements are call expressions returning error; the template decides how
// the error is checked.
var playwrightStatements = map[stepmap.ActionKind]string{
	stepmap.ActionSetValue:          "%[1]s.Fill(%[3]s)",
	stepmap.ActionClick:             "%[1]s.Click()",
	stepmap.ActionHover:             "%[1]s.Hover()",
	stepmap.ActionUploadFile:        "%[1]s.Upload(%[3]s)",
	stepmap.ActionSelectDropdown:    "%[1]s.Select(%[3]s)",
	stepmap.ActionScrollTo:          "%[1]s.ScrollIntoView()",
	stepmap.ActionClearText:         "%[1]s.Clear()",
	stepmap.ActionWaitForVisible:    "%[1]s.WaitVisible()",
	stepmap.ActionAssertVisible:     "%[1]s.ExpectVisible()",
	stepmap.ActionAssertText:        "%[1]s.ExpectText(%[3]s)",
	stepmap.ActionAssertEnabled:     "%[1]s.ExpectEnabled()",
	stepmap.ActionAssertDisabled:    "%[1]s.ExpectDisabled()",
	stepmap.ActionAssertTitle:       "%[2]s.ExpectTitle(%[3]s)",
	stepmap.ActionAssertURLContains: "%[2]s.ExpectURLContains(%[3]s)",
}

// PlaywrightGo emits Go page objects over pkg/pageobject and go test files
// asserting with testify.
type PlaywrightGo struct {
	opts Options
	page *template.Template
	spec *template.Template
}

func NewPlaywrightGo(opts Options) *PlaywrightGo {
	if opts.Package == "" {
		opts.Package = "e2e"
	}
	p := &PlaywrightGo{opts: opts}
	funcs := template.FuncMap{
		"q":     strconv.Quote,
		"check": p.check,
		"must":  p.must,
	}
	p.page = parseTemplate("playwright_page.go.tmpl", funcs)
	p.spec = parseTemplate("playwright_spec.go.tmpl", funcs)
	return p
}

func (p *PlaywrightGo) Name() string { return PlaywrightGoName }

func (p *PlaywrightGo) Naming() Naming {
	return Naming{
		Accessor: func(name string) string { return Pascal(name, "element") },
		Method:   func(scenario string) string { return Pascal(scenario, "scenario") },
		Test: func(base, scenario string) string {
			return "Test" + Pascal(base, "feature") + Pascal(scenario, "scenario")
		},
		// Promoted from the embedded *pageobject.Page.
		Reserved:    []string{"Page", "Open", "Element", "ExpectTitle", "ExpectURLContains", "Raw"},
		SharedScope: true,
	}
}

func (p *PlaywrightGo) Statement(owner, accessor string, kind stepmap.ActionKind, note string) (string, bool) {
	pattern, ok := playwrightStatements[kind]
	if !ok {
		return "", false
	}
	return fmt.Sprintf(pattern, owner+"."+accessor+"()", owner, strconv.Quote(note)), true
}

func (p *PlaywrightGo) expr(owner string, s Step) (string, bool) {
	if s.Accessor == "" {
		return "", false
	}
	return p.Statement(owner, s.Accessor, s.Kind, s.Note)
}

// check renders a step inside a method returning error.
func (p *PlaywrightGo) check(owner string, s Step) string {
	expr, ok := p.expr(owner, s)
	if !ok {
		return Placeholder(s) + "\n"
	}
	return fmt.Sprintf("if err := %s; err != nil {\nreturn err\n}\n", expr)
}

// must renders a step inside a test function.
func (p *PlaywrightGo) must(owner string, s Step) string {
	expr, ok := p.expr(owner, s)
	if !ok {
		return Placeholder(s) + "\n"
	}
	return fmt.Sprintf("require.NoError(t, %s)\n", expr)
}

func (p *PlaywrightGo) Render(m *Model) (Artifacts, error) {
	data := struct {
		*Model
		Package string
		BaseURL string
		Source  string
	}{m, p.opts.Package, p.opts.BaseURL, stepmap.FileName(m.Base)}

	page, err := p.execute(p.page, data)
	if err != nil {
		return Artifacts{}, err
	}
	spec, err := p.execute(p.spec, data)
	if err != nil {
		return Artifacts{}, err
	}
	return Artifacts{
		Page: Artifact{Name: m.Base + ".page.go", Content: page, Kind: KindPage},
		Spec: Artifact{Name: m.Base + ".spec_test.go", Content: spec, Kind: KindSpec},
	}, nil
}

func (p *PlaywrightGo) execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("formatting %s: %w", t.Name(), err)
	}
	return string(src), nil
}
