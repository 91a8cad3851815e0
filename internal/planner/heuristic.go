package planner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mrz1836/adpilot/internal/domain"
)

// Keyword sets tested against the lower-cased description.
//
//nolint:gochecknoglobals // read-only lookup tables
var (
	designWords    = []string{"design", "image", "logo", "graphic", "artwork", "picture", "illustration", "poster", "thumbnail"}
	blogWords      = []string{"blog", "article"}
	marketingWords = []string{"marketing copy", "ad copy", "campaign copy", "hashtag", "caption"}
	videoWords     = []string{"video", "commercial", "reel", "clip", "animation"}
	productWords   = []string{"product", "merch", "t-shirt", "tshirt", "hoodie", "mug", "printify"}
	hostingWords   = []string{"youtube", "video hosting"}
	socialWords    = []string{"social", "twitter", "tweet", "instagram", "facebook", "tiktok", "linkedin"}

	// whole words only so "workshop" and "photoshop" do not publish
	storePattern = regexp.MustCompile(`\b(?:stores?|shops?|shopify|blogs?)\b`)
)

// planBuilder accumulates steps and remembers the indices of each agent so
// later steps can depend on every earlier step of a predecessor agent.
type planBuilder struct {
	steps   []domain.PlanStep
	byAgent map[domain.Agent][]int
	targets []string
}

func (b *planBuilder) add(agent domain.Agent, name, action, description string, after ...domain.Agent) {
	idx := len(b.steps) + 1
	var deps []int
	for _, a := range after {
		deps = append(deps, b.byAgent[a]...)
	}
	b.steps = append(b.steps, domain.PlanStep{
		StepIndex:   idx,
		Name:        name,
		Description: description,
		Agent:       agent.String(),
		Action:      action,
		DependsOn:   deps,
	})
	b.byAgent[agent] = append(b.byAgent[agent], idx)
}

func (b *planBuilder) publish(target, name string, description string, after ...domain.Agent) {
	b.add(domain.AgentPublisher, name, "publish_"+target, description, after...)
	b.targets = append(b.targets, target)
}

// Heuristic builds a plan from keyword matches alone. Dependencies are coarse:
// a step depends on every earlier step of its predecessor agents.
func Heuristic(description string) domain.PlanResult {
	text := strings.ToLower(description)
	b := &planBuilder{byAgent: make(map[domain.Agent][]int)}

	wantsVideo := containsAny(text, videoWords)
	wantsHosting := containsAny(text, hostingWords)

	if containsAny(text, designWords) || containsAny(text, productWords) {
		action := "generate_design"
		switch {
		case strings.Contains(text, "thumbnail"):
			action = "thumbnail"
		case containsAny(text, socialWords):
			action = "social_image"
		}
		b.add(domain.AgentDesigner, "Generate Design", action, description)
	}
	if containsAny(text, blogWords) {
		b.add(domain.AgentWriter, "Write Blog Post", "blog_post", description)
	}
	if containsAny(text, marketingWords) {
		b.add(domain.AgentMarketer, "Write Campaign Copy", "campaign_copy", description)
	}
	if wantsVideo || wantsHosting {
		b.add(domain.AgentVideo, "Create Video", "create_video", description, domain.AgentDesigner)
	}
	if containsAny(text, productWords) {
		b.publish("printify", "Publish to Printify", description, domain.AgentDesigner)
	}
	if storePattern.MatchString(text) {
		b.publish("shopify", "Publish to Store", description, domain.AgentDesigner, domain.AgentWriter)
	}
	if wantsHosting {
		b.publish("youtube", "Upload to YouTube", description, domain.AgentVideo)
	}
	if containsAny(text, socialWords) {
		b.add(domain.AgentBrowser, "Post to Social Media", "post_social", description, domain.AgentDesigner)
		b.targets = append(b.targets, "twitter")
	}

	if len(b.steps) == 0 {
		b.add(domain.AgentWriter, "Complete Task", "generic", description)
	}

	agents := make([]string, 0, len(b.byAgent))
	for _, s := range b.steps {
		agents = append(agents, s.Agent)
	}

	_, hasPublisher := b.byAgent[domain.AgentPublisher]
	_, hasBrowser := b.byAgent[domain.AgentBrowser]

	return domain.PlanResult{
		Summary:              fmt.Sprintf("%d-step plan built from keywords", len(b.steps)),
		Goal:                 description,
		AgentsNeeded:         orderedSet(agents),
		PublishTo:            sortedSet(b.targets),
		Steps:                b.steps,
		EstimatedTime:        estimate(b.steps),
		RequiresConfirmation: hasPublisher || hasBrowser,
		Source:               domain.PlanSourceHeuristic,
	}
}

// estimate gives a rough wall-clock figure; video renders dominate.
func estimate(steps []domain.PlanStep) string {
	minutes := 0
	for _, s := range steps {
		switch domain.Agent(s.Agent) {
		case domain.AgentVideo:
			minutes += 5
		case domain.AgentBrowser:
			minutes += 3
		default:
			minutes++
		}
	}
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
