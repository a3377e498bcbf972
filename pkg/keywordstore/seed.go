package keywordstore

import (
	"context"
	"fmt"

	"github.com/robotforge/robotforge/pkg/models"
)

// seedEntries is a curated subset of SeleniumLibrary and Browser (Playwright)
// library keywords, documented closely enough to their upstream libdoc
// entries to be useful for similarity search, without vendoring the full
// libdoc XML for either library. Real deployments are expected to replace
// this with a Rebuild call fed by a generated libdoc dump; this seed exists
// so a fresh install has a working C1 store on day one.
var seedEntries = []models.KeywordEntry{
	{Library: "SeleniumLibrary", Name: "Open Browser", Args: "url, browser=firefox", Documentation: "Opens a new browser instance to the given URL."},
	{Library: "SeleniumLibrary", Name: "Close Browser", Args: "", Documentation: "Closes the current browser."},
	{Library: "SeleniumLibrary", Name: "Click Element", Args: "locator", Documentation: "Clicks the element identified by locator."},
	{Library: "SeleniumLibrary", Name: "Click Button", Args: "locator", Documentation: "Clicks a button identified by locator."},
	{Library: "SeleniumLibrary", Name: "Input Text", Args: "locator, text", Documentation: "Types the given text into the text field identified by locator."},
	{Library: "SeleniumLibrary", Name: "Input Password", Args: "locator, password", Documentation: "Types the given password into the text field identified by locator, masking it in logs."},
	{Library: "SeleniumLibrary", Name: "Wait Until Element Is Visible", Args: "locator, timeout=None", Documentation: "Waits until the element identified by locator is visible."},
	{Library: "SeleniumLibrary", Name: "Wait Until Page Contains", Args: "text, timeout=None", Documentation: "Waits until text appears on the current page."},
	{Library: "SeleniumLibrary", Name: "Page Should Contain", Args: "text", Documentation: "Verifies that the current page contains text."},
	{Library: "SeleniumLibrary", Name: "Element Should Be Visible", Args: "locator", Documentation: "Verifies that the element identified by locator is visible."},
	{Library: "SeleniumLibrary", Name: "Get Text", Args: "locator", Documentation: "Returns the text value of the element identified by locator."},
	{Library: "SeleniumLibrary", Name: "Select From List By Label", Args: "locator, *labels", Documentation: "Selects options from a selection list by label."},
	{Library: "SeleniumLibrary", Name: "Go To", Args: "url", Documentation: "Navigates the current browser window to the given URL."},
	{Library: "SeleniumLibrary", Name: "Reload Page", Args: "", Documentation: "Simulates user reloading the current page."},
	{Library: "SeleniumLibrary", Name: "Capture Page Screenshot", Args: "filename=<auto>", Documentation: "Takes a screenshot of the current page and embeds it into the log file."},

	{Library: "Browser", Name: "New Browser", Args: "browser=chromium, headless=True", Documentation: "Opens a new browser instance."},
	{Library: "Browser", Name: "New Page", Args: "url=None", Documentation: "Opens a new page (tab) to the given URL."},
	{Library: "Browser", Name: "Close Browser", Args: "", Documentation: "Closes the current browser and all its pages."},
	{Library: "Browser", Name: "Click", Args: "selector", Documentation: "Clicks the element identified by selector."},
	{Library: "Browser", Name: "Fill Text", Args: "selector, text", Documentation: "Clears the field identified by selector and types text into it."},
	{Library: "Browser", Name: "Type Text", Args: "selector, text", Documentation: "Types text into the field identified by selector one character at a time."},
	{Library: "Browser", Name: "Get Text", Args: "selector", Documentation: "Returns the text content of the element identified by selector."},
	{Library: "Browser", Name: "Wait For Elements State", Args: "selector, state=visible, timeout=None", Documentation: "Waits for the element identified by selector to reach the given state."},
	{Library: "Browser", Name: "Get Element States", Args: "selector", Documentation: "Returns the states of the element identified by selector."},
	{Library: "Browser", Name: "Select Options By", Args: "selector, attribute, *values", Documentation: "Selects options from a select element by the given attribute."},
	{Library: "Browser", Name: "Take Screenshot", Args: "filename=<auto>", Documentation: "Takes a screenshot of the current page and embeds it into the log file."},
	{Library: "Browser", Name: "Go To", Args: "url", Documentation: "Navigates the current page to the given URL."},
}

// SeedIfEmpty populates store with seedEntries on first run, leaving an
// already-populated store untouched — Rebuild is reserved for explicit
// re-ingestion when a library's libdoc version changes.
func SeedIfEmpty(ctx context.Context, store *Store) error {
	if store.Count() > 0 {
		return nil
	}
	if err := store.Rebuild(ctx, seedEntries); err != nil {
		return fmt.Errorf("keywordstore: seed: %w", err)
	}
	return nil
}
