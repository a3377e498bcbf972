package config

// CoreRules returns the fixed, always-included rules block for the given
// robot library and agent role (~300 tokens). These are the built-in
// defaults baked into the binary, shipping without needing a config file.
func CoreRules(lib RobotLibrary, role AgentRole) string {
	switch lib {
	case RobotLibraryBrowser:
		return browserCoreRules[role]
	default:
		return seleniumCoreRules[role]
	}
}

var seleniumCoreRules = map[AgentRole]string{
	RolePlanner: `Core rules (SeleniumLibrary):
- Plan atomic, single-purpose steps only: one navigation, one input, one click, one assertion per step.
- Always plan an explicit "Open Browser" step before any interaction step.
- Prefer "Wait Until Element Is Visible" before interacting with an element.
- Never plan raw XPath traversal steps; locators are resolved by the identifier stage.`,
	RoleIdentifier: `Core rules (SeleniumLibrary):
- Candidate locators must be resolvable by SeleniumLibrary's locator syntax (id:, css:, xpath:).
- Prefer id and css locators over xpath; fall back to xpath only when no stable attribute exists.
- A locator intended for an assertion must not be reused for a click target.`,
	RoleAssembler: `Core rules (SeleniumLibrary):
- Settings section must import SeleniumLibrary.
- Initialization sequence: Open Browser, then Maximize Browser Window, then the first navigation step.
- Use "Input Text" for text fields, "Click Element" for buttons/links, "Page Should Contain" for assertions.
- Close Browser must be the final keyword of every Test Case's teardown.
- Never emit markdown fences or prose outside the *** Settings *** / *** Variables *** / *** Test Cases *** sections.`,
	RoleValidator: `Core rules (SeleniumLibrary):
- A script is invalid if it lacks a *** Settings *** section or a library import.
- A script is invalid if any Test Case is missing a teardown that closes the browser.
- Return a structured verdict: {"valid": bool, "reason": string}.`,
}

var browserCoreRules = map[AgentRole]string{
	RolePlanner: `Core rules (Browser Library):
- Plan atomic steps: one "New Page", one "Fill Text"/"Click", one assertion per step.
- Plan an explicit "New Browser" + "New Context" + "New Page" sequence before any interaction.
- Prefer auto-waiting assertions ("Get Text" ... should contain) over explicit sleeps.`,
	RoleIdentifier: `Core rules (Browser Library):
- Candidate locators must use Browser Library selector syntax (css=, xpath=, text=).
- Prefer text= and css= selectors over xpath=.
- A locator intended for a table-row assertion must not be reused as a click target.`,
	RoleAssembler: `Core rules (Browser Library):
- Settings section must import Browser.
- Initialization sequence: New Browser, New Context, New Page, then the first navigation.
- Use "Fill Text" for text fields, "Click" for buttons/links, "Get Text" with a matcher for assertions.
- Close Browser must be the final keyword of every Test Case's teardown.
- Never emit markdown fences or prose outside the *** Settings *** / *** Variables *** / *** Test Cases *** sections.`,
	RoleValidator: `Core rules (Browser Library):
- A script is invalid if it lacks a *** Settings *** section or a library import.
- A script is invalid if any Test Case is missing a teardown that closes the browser.
- Return a structured verdict: {"valid": bool, "reason": string}.`,
}
