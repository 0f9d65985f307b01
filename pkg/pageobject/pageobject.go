// Package pageobject is the runtime behind page objects generated for the
// playwright-go target. Elements are addressed by a primary selector and an
// ordered list of fallbacks; the first selector matching a visible element
// wins.
package pageobject

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// UploadDir is where Upload looks for files named in feature steps.
var UploadDir = "uploads"

// ErrNoMatch is wrapped by every selector resolution failure.
var ErrNoMatch = errors.New("no selector matched")

type Page struct {
	page    playwright.Page
	baseURL string
}

func New(page playwright.Page, baseURL string) *Page {
	return &Page{page: page, baseURL: baseURL}
}

// Raw exposes the underlying playwright page.
func (p *Page) Raw() playwright.Page {
	return p.page
}

// Open navigates to path relative to the base URL.
func (p *Page) Open(path string) error {
	url := p.baseURL + path
	if _, err := p.page.Goto(url); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	return nil
}

func (p *Page) Element(primary string, fallbacks ...string) *Element {
	return &Element{page: p.page, primary: primary, fallbacks: fallbacks}
}

func (p *Page) ExpectTitle(want string) error {
	got, err := p.page.Title()
	if err != nil {
		return fmt.Errorf("reading title: %w", err)
	}
	if got != want {
		return fmt.Errorf("title is %q, want %q", got, want)
	}
	return nil
}

func (p *Page) ExpectURLContains(part string) error {
	if url := p.page.URL(); !strings.Contains(url, part) {
		return fmt.Errorf("url %q does not contain %q", url, part)
	}
	return nil
}

// Element is a lazily resolved element. Every action resolves the selector
// chain again, so an Element stays valid across navigations.
type Element struct {
	page      playwright.Page
	primary   string
	fallbacks []string
}

func (e *Element) locator() (playwright.Locator, error) {
	sel, err := resolve(e.primary, e.fallbacks, func(sel string) (bool, error) {
		loc := e.page.Locator(sel).First()
		n, err := loc.Count()
		if err != nil || n == 0 {
			return false, err
		}
		return loc.IsVisible()
	})
	if err != nil {
		return nil, err
	}
	return e.page.Locator(sel).First(), nil
}

// resolve returns the first selector match accepts, trying primary before
// fallbacks in order.
func resolve(primary string, fallbacks []string, match func(sel string) (bool, error)) (string, error) {
	all := append([]string{primary}, fallbacks...)
	var errs []error
	for _, sel := range all {
		if sel == "" {
			continue
		}
		ok, err := match(sel)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sel, err))
			continue
		}
		if ok {
			return sel, nil
		}
	}
	err := fmt.Errorf("%w: %s", ErrNoMatch, strings.Join(all, ", "))
	if len(errs) > 0 {
		err = errors.Join(append([]error{err}, errs...)...)
	}
	return "", err
}

// do resolves e and runs fn against the matched locator.
func (e *Element) do(action string, fn func(playwright.Locator) error) error {
	loc, err := e.locator()
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if err := fn(loc); err != nil {
		return fmt.Errorf("%s %s: %w", action, e.primary, err)
	}
	return nil
}

func (e *Element) Click() error {
	return e.do("click", func(l playwright.Locator) error { return l.Click() })
}

func (e *Element) Fill(value string) error {
	return e.do("fill", func(l playwright.Locator) error { return l.Fill(value) })
}

func (e *Element) Hover() error {
	return e.do("hover", func(l playwright.Locator) error { return l.Hover() })
}

// Upload sets the file input to name, resolved against UploadDir.
func (e *Element) Upload(name string) error {
	return e.do("upload", func(l playwright.Locator) error {
		return l.SetInputFiles(filepath.Join(UploadDir, name))
	})
}

// Select chooses the option whose label is label.
func (e *Element) Select(label string) error {
	return e.do("select", func(l playwright.Locator) error {
		_, err := l.SelectOption(playwright.SelectOptionValues{Labels: &[]string{label}})
		return err
	})
}

func (e *Element) ScrollIntoView() error {
	return e.do("scroll", func(l playwright.Locator) error { return l.ScrollIntoViewIfNeeded() })
}

func (e *Element) Clear() error {
	return e.do("clear", func(l playwright.Locator) error { return l.Clear() })
}

// WaitVisible waits for the primary selector to become visible. Fallbacks
// are tried only once it times out.
func (e *Element) WaitVisible() error {
	err := e.page.Locator(e.primary).First().WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	})
	if err == nil {
		return nil
	}
	if len(e.fallbacks) == 0 {
		return fmt.Errorf("wait for %s: %w", e.primary, err)
	}
	return e.do("wait", func(playwright.Locator) error { return nil })
}

func (e *Element) ExpectVisible() error {
	return e.do("expect visible", func(playwright.Locator) error { return nil })
}

func (e *Element) ExpectText(want string) error {
	return e.do("expect text", func(l playwright.Locator) error {
		got, err := l.TextContent()
		if err != nil {
			return err
		}
		if !strings.Contains(got, want) {
			return fmt.Errorf("text is %q, want it to contain %q", got, want)
		}
		return nil
	})
}

func (e *Element) ExpectEnabled() error {
	return e.do("expect enabled", func(l playwright.Locator) error {
		ok, err := l.IsEnabled()
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("element is disabled")
		}
		return nil
	})
}

func (e *Element) ExpectDisabled() error {
	return e.do("expect disabled", func(l playwright.Locator) error {
		ok, err := l.IsDisabled()
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("element is enabled")
		}
		return nil
	})
}
