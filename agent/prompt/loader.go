package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/customer-support-api/agent/contract"
)

var (
	//go:embed template/support.txt
	supportRaw string

	//go:embed template/support_task.txt
	supportTaskRaw string

	//go:embed template/quality.txt
	qualityRaw string

	//go:embed template/quality_task.txt
	qualityTaskRaw string
)

// AgentPrompt pairs an agent's system prompt with its task message.
// Both use FString placeholders: {customer}, {person}, {inquiry}, {draft}.
type AgentPrompt struct {
	System string
	Task   string
}

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Support AgentPrompt
	Quality AgentPrompt
}

// LoadPromptSet returns the embedded prompts, trimmed.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Support: AgentPrompt{
			System: strings.TrimSpace(supportRaw),
			Task:   strings.TrimSpace(supportTaskRaw),
		},
		Quality: AgentPrompt{
			System: strings.TrimSpace(qualityRaw),
			Task:   strings.TrimSpace(qualityTaskRaw),
		},
	}
}

func (p AgentPrompt) Validate(name string) error {
	if strings.TrimSpace(p.System) == "" {
		return fmt.Errorf("%w: %s system prompt", contractx.ErrPromptMissing, name)
	}
	if strings.TrimSpace(p.Task) == "" {
		return fmt.Errorf("%w: %s task prompt", contractx.ErrPromptMissing, name)
	}
	return nil
}
