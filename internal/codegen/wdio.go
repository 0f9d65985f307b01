package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/chriserin/testgen/internal/stepmap"
)

const (
	WdioName = "wdio"
	// WdioBasePage is the shared base class every wdio page object extends.
	WdioBasePage = "page.ts"
)

var wdioStatements = map[stepmap.ActionKind]string{
	stepmap.ActionSetValue:          "await (await %[1]s).setValue(%[2]s);",
	stepmap.ActionClick:             "await (await %[1]s).click();",
	stepmap.ActionHover:             "await (await %[1]s).moveTo();",
	stepmap.ActionUploadFile:        "await (await %[1]s).setValue(await browser.uploadFile(path.join(__dirname, '../../uploads', %[2]s)));",
	stepmap.ActionSelectDropdown:    "await (await %[1]s).selectByVisibleText(%[2]s);",
	stepmap.ActionScrollTo:          "await (await %[1]s).scrollIntoView();",
	stepmap.ActionClearText:         "await (await %[1]s).clearValue();",
	stepmap.ActionWaitForVisible:    "await (await %[1]s).waitForDisplayed();",
	stepmap.ActionAssertVisible:     "await expect(await %[1]s).toBeDisplayed();",
	stepmap.ActionAssertText:        "await expect(await %[1]s).toHaveText(%[2]s);",
	stepmap.ActionAssertEnabled:     "await expect(await %[1]s).toBeEnabled();",
	stepmap.ActionAssertDisabled:    "await expect(await %[1]s).toBeDisabled();",
	stepmap.ActionAssertTitle:       "await expect(browser).toHaveTitle(%[2]s);",
	stepmap.ActionAssertURLContains: "await expect(browser).toHaveUrl(expect.stringContaining(%[2]s));",
}

// Wdio emits WebdriverIO page objects and mocha specs in TypeScript.
type Wdio struct {
	opts  Options
	page  *template.Template
	spec  *template.Template
	basep *template.Template
}

func NewWdio(opts Options) *Wdio {
	if opts.PageImport == "" {
		opts.PageImport = "../pageobjects"
	}
	w := &Wdio{opts: opts}
	funcs := template.FuncMap{
		"q":     TSString,
		"qjoin": tsList,
		"stmt":  w.line,
	}
	w.page = parseTemplate("wdio_page.ts.tmpl", funcs)
	w.spec = parseTemplate("wdio_spec.ts.tmpl", funcs)
	w.basep = parseTemplate("wdio_base.ts.tmpl", funcs)
	return w
}

func (w *Wdio) Name() string { return WdioName }

func (w *Wdio) Naming() Naming {
	return Naming{
		Accessor: func(name string) string { return Camel(name, "element") },
		Method:   func(scenario string) string { return Camel(scenario, "scenario") },
		Test:     func(_, scenario string) string { return scenario },
		Reserved: []string{"open", "trySelector", "constructor"},
	}
}

func (w *Wdio) Statement(owner, accessor string, kind stepmap.ActionKind, note string) (string, bool) {
	pattern, ok := wdioStatements[kind]
	if !ok {
		return "", false
	}
	return fmt.Sprintf(pattern, owner+"."+accessor, TSString(note)), true
}

func (w *Wdio) line(owner string, s Step) string {
	if s.Accessor == "" {
		return Placeholder(s)
	}
	stmt, ok := w.Statement(owner, s.Accessor, s.Kind, s.Note)
	if !ok {
		return Placeholder(s)
	}
	return stmt
}

func (w *Wdio) Render(m *Model) (Artifacts, error) {
	data := struct {
		*Model
		PageImport string
		BaseURL    string
	}{m, w.opts.PageImport + "/" + m.Base + ".page", w.opts.BaseURL}

	var page, spec, base bytes.Buffer
	if err := w.page.Execute(&page, data); err != nil {
		return Artifacts{}, err
	}
	if err := w.spec.Execute(&spec, data); err != nil {
		return Artifacts{}, err
	}
	if err := w.basep.Execute(&base, data); err != nil {
		return Artifacts{}, err
	}
	return Artifacts{
		Page:    Artifact{Name: m.Base + ".page.ts", Content: page.String(), Kind: KindPage},
		Spec:    Artifact{Name: m.Base + ".spec.ts", Content: spec.String(), Kind: KindSpec},
		Support: []Artifact{{Name: WdioBasePage, Content: base.String(), Kind: KindSupport}},
	}, nil
}

var tsEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// TSString quotes s as a single-quoted TypeScript string literal.
func TSString(s string) string {
	return "'" + tsEscaper.Replace(s) + "'"
}

func tsList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = TSString(it)
	}
	return strings.Join(quoted, ", ")
}
