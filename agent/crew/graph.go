package crew

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/customer-support-api/agent/contract"
	promptx "github.com/tanpawarit/customer-support-api/agent/prompt"
)

const (
	nodeKickoff  = "kickoff"
	nodeSupport  = "support_representative"
	nodeQuality  = "quality_assurance"
	nodeFinalize = "finalize"
)

type agentRunner = compose.Runnable[map[string]any, *schema.Message]

// crewState flows through every node of the crew graph.
type crewState struct {
	Vars  map[string]any
	Tasks []TaskOutput
}

func (s *crewState) last() string {
	if s == nil || len(s.Tasks) == 0 {
		return ""
	}
	return s.Tasks[len(s.Tasks)-1].Raw
}

func compileAgentGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	p promptx.AgentPrompt,
	graphName string,
) (agentRunner, error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(p.System),
		schema.UserMessage(p.Task),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add %s prompt node: %w", graphName, err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add %s model node: %w", graphName, err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add %s edge start->prompt: %w", graphName, err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add %s edge prompt->model: %w", graphName, err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add %s edge model->end: %w", graphName, err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", graphName, err)
	}
	return runner, nil
}

// compileCrewGraph chains the support agent and, when quality is non-nil,
// the QA agent reviewing its draft.
func compileCrewGraph(
	ctx context.Context,
	support agentRunner,
	quality agentRunner,
) (compose.Runnable[contractx.InquiryRequest, Output], error) {
	graph := compose.NewGraph[contractx.InquiryRequest, Output]()

	if err := graph.AddLambdaNode(nodeKickoff,
		compose.InvokableLambda(func(ctx context.Context, in contractx.InquiryRequest) (*crewState, error) {
			return kickoff(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeKickoff, err)
	}

	if err := graph.AddLambdaNode(nodeSupport,
		compose.InvokableLambda(func(ctx context.Context, in *crewState) (*crewState, error) {
			return runTask(ctx, in, support, AgentSupport)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeSupport, err)
	}

	edges := [][2]string{
		{compose.START, nodeKickoff},
		{nodeKickoff, nodeSupport},
	}

	if quality != nil {
		if err := graph.AddLambdaNode(nodeQuality,
			compose.InvokableLambda(func(ctx context.Context, in *crewState) (*crewState, error) {
				in.Vars["draft"] = in.last()
				return runTask(ctx, in, quality, AgentQuality)
			}),
		); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nodeQuality, err)
		}
		edges = append(edges, [2]string{nodeSupport, nodeQuality}, [2]string{nodeQuality, nodeFinalize})
	} else {
		edges = append(edges, [2]string{nodeSupport, nodeFinalize})
	}

	if err := graph.AddLambdaNode(nodeFinalize,
		compose.InvokableLambda(func(ctx context.Context, in *crewState) (Output, error) {
			return finalize(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeFinalize, err)
	}
	edges = append(edges, [2]string{nodeFinalize, compose.END})

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("crew.process_inquiry"))
	if err != nil {
		return nil, fmt.Errorf("compile crew graph: %w", err)
	}
	return runner, nil
}

func kickoff(in contractx.InquiryRequest) (*crewState, error) {
	if strings.TrimSpace(in.Inquiry) == "" {
		return nil, contractx.ErrEmptyInquiry
	}
	return &crewState{
		Vars: map[string]any{
			"customer": in.Customer,
			"person":   in.Person,
			"inquiry":  in.Inquiry,
		},
	}, nil
}

func runTask(ctx context.Context, in *crewState, runner agentRunner, agent string) (*crewState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: crew state is nil", contractx.ErrValidation)
	}

	msg, err := runner.Invoke(ctx, in.Vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", contractx.ErrModelInvoke, agent, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return nil, fmt.Errorf("%w: %w: %s", contractx.ErrModelInvoke, contractx.ErrEmptyReply, agent)
	}

	in.Tasks = append(in.Tasks, TaskOutput{
		Agent: agent,
		Raw:   strings.TrimSpace(msg.Content),
	})
	return in, nil
}

func finalize(in *crewState) (Output, error) {
	final := in.last()
	if final == "" {
		return Output{}, fmt.Errorf("%w: crew produced no output", contractx.ErrEmptyReply)
	}
	return Output{Final: final, Tasks: in.Tasks}, nil
}
