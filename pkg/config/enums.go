package config

// ModelProvider selects which LLM backend the agent runner talks to.
type ModelProvider string

const (
	ModelProviderOnline ModelProvider = "online"
	ModelProviderLocal  ModelProvider = "local"
)

func (p ModelProvider) valid() bool {
	switch p {
	case ModelProviderOnline, ModelProviderLocal:
		return true
	default:
		return false
	}
}

// RobotLibrary selects the browser-automation library the generated script
// targets, which in turn selects the C3 core-rules bundle.
type RobotLibrary string

const (
	RobotLibrarySelenium RobotLibrary = "selenium"
	RobotLibraryBrowser  RobotLibrary = "browser"
)

func (l RobotLibrary) valid() bool {
	switch l {
	case RobotLibrarySelenium, RobotLibraryBrowser:
		return true
	default:
		return false
	}
}

// AgentRole names one of the four cooperating agents in the C4 pipeline.
type AgentRole string

const (
	RolePlanner    AgentRole = "planner"
	RoleIdentifier AgentRole = "identifier"
	RoleAssembler  AgentRole = "assembler"
	RoleValidator  AgentRole = "validator"
)
