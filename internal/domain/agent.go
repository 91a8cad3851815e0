package domain

import "strings"

// Agent is the capability family a step belongs to. It selects the step
// executor; it is not an autonomous AI agent.
type Agent string

// Agent constants define the supported capability families.
const (
	// AgentDesigner generates images.
	AgentDesigner Agent = "designer"

	// AgentWriter generates text from a per-action template.
	AgentWriter Agent = "writer"

	// AgentVideo generates or renders video, usually from a generated image.
	AgentVideo Agent = "video"

	// AgentPublisher pushes artifacts to e-commerce and video-hosting targets.
	AgentPublisher Agent = "publisher"

	// AgentBrowser drives browser automation for social posting and ad hoc goals.
	AgentBrowser Agent = "browser"

	// AgentMarketer writes multi-platform marketing copy in one call.
	AgentMarketer Agent = "marketer"

	// AgentGeneric is a no-op used for anything unrecognized.
	AgentGeneric Agent = "generic"
)

// PlannableAgents lists the agents a plan may name, in prompt order.
func PlannableAgents() []Agent {
	return []Agent{AgentDesigner, AgentWriter, AgentVideo, AgentPublisher, AgentBrowser, AgentMarketer}
}

// String returns the string representation of the Agent.
// This implements fmt.Stringer for convenient logging and debugging.
func (a Agent) String() string {
	return string(a)
}

// IsValid checks if the agent is a recognized type.
func (a Agent) IsValid() bool {
	switch a {
	case AgentDesigner, AgentWriter, AgentVideo, AgentPublisher,
		AgentBrowser, AgentMarketer, AgentGeneric:
		return true
	}
	return false
}

// ParseAgent normalizes s into an Agent. Unknown names map to AgentGeneric.
func ParseAgent(s string) Agent {
	a := Agent(strings.ToLower(strings.TrimSpace(s)))
	if a.IsValid() {
		return a
	}
	return AgentGeneric
}
