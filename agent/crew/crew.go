// Package crew answers support inquiries with a support representative agent
// whose draft is reviewed by a quality assurance agent.
package crew

import (
	"context"
	"errors"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/customer-support-api/agent/contract"
	promptx "github.com/tanpawarit/customer-support-api/agent/prompt"
)

const (
	AgentSupport = "Senior Support Representative"
	AgentQuality = "Support Quality Assurance Specialist"
)

type Config struct {
	QualityReview bool `split_words:"true" default:"true"`
}

type TaskOutput struct {
	Agent string `json:"agent"`
	Raw   string `json:"raw"`
}

// Output is the result of one crew run. Final is the last task's answer.
type Output struct {
	Final string       `json:"raw"`
	Tasks []TaskOutput `json:"tasks"`
}

func (o Output) Raw() string { return o.Final }

func (o Output) String() string { return o.Final }

type Crew struct {
	runner compose.Runnable[contractx.InquiryRequest, Output]
}

var _ contractx.Processor = (*Crew)(nil)

func New(ctx context.Context, chatModel einomodel.BaseChatModel, prompts promptx.PromptSet, cfg Config) (*Crew, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if err := prompts.Support.Validate("support"); err != nil {
		return nil, err
	}

	support, err := compileAgentGraph(ctx, chatModel, prompts.Support, "crew.support_representative")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}

	var quality agentRunner
	if cfg.QualityReview {
		if err := prompts.Quality.Validate("quality"); err != nil {
			return nil, err
		}
		quality, err = compileAgentGraph(ctx, chatModel, prompts.Quality, "crew.quality_assurance")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
		}
	}

	runner, err := compileCrewGraph(ctx, support, quality)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return &Crew{runner: runner}, nil
}

func (c *Crew) ProcessInquiry(ctx context.Context, customer, person, inquiry string) (any, error) {
	return c.runner.Invoke(ctx, contractx.InquiryRequest{
		Customer: customer,
		Person:   person,
		Inquiry:  inquiry,
	})
}
