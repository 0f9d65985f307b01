package pageobject

import (
	"os"
	"testing"

	"github.com/playwright-community/playwright-go"
)

// Launch starts a headless Chromium page for one test and closes it when the
// test ends. Set TESTGEN_HEADED=1 to watch the browser.
func Launch(tb testing.TB) playwright.Page {
	tb.Helper()

	pw, err := playwright.Run()
	if err != nil {
		tb.Fatalf("starting playwright: %v", err)
	}
	tb.Cleanup(func() { pw.Stop() })

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(os.Getenv("TESTGEN_HEADED") == ""),
	})
	if err != nil {
		tb.Fatalf("launching chromium: %v", err)
	}
	tb.Cleanup(func() { browser.Close() })

	page, err := browser.NewPage()
	if err != nil {
		tb.Fatalf("opening page: %v", err)
	}
	return page
}
