package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/likhit-sai/CogniFlow/internal/constant"
	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/pkg/llm"
)

var ErrEmptyResponse = errors.New("planner returned an empty response")

// Planner proposes a batch of structural edits for a workspace.
type Planner interface {
	Plan(ctx context.Context, items []PlanItem) ([]entity.OrganizationAction, error)
}

type LLMPlanner struct {
	provider llm.LLMProvider
}

func NewLLMPlanner(provider llm.LLMProvider) *LLMPlanner {
	return &LLMPlanner{provider: provider}
}

func (p *LLMPlanner) Plan(ctx context.Context, items []PlanItem) ([]entity.OrganizationAction, error) {
	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}

	prompt := fmt.Sprintf(constant.WorkspaceOrganizePrompt, string(payload))
	response, err := p.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: prompt},
	}, llm.WithTemperature(0.2))
	if err != nil {
		return nil, fmt.Errorf("AI organization failed: %w", err)
	}

	actions, err := ParseActions(response)
	if err != nil {
		return nil, fmt.Errorf("AI organization failed: %w", err)
	}
	return actions, nil
}

// ParseActions reads the action list out of a model response. It accepts a bare array,
// an array surrounded by prose or code fences, or an object wrapping the array.
func ParseActions(response string) ([]entity.OrganizationAction, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, ErrEmptyResponse
	}

	actions := make([]entity.OrganizationAction, 0)
	if arr := extractJSONArray(response); arr != "" {
		if err := json.Unmarshal([]byte(arr), &actions); err == nil {
			return actions, nil
		}
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal([]byte(extractJSONObject(response)), &wrapped); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}
	for _, key := range []string{"actions", "suggestions", "plan"} {
		raw, ok := wrapped[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &actions); err != nil {
			return nil, fmt.Errorf("json unmarshal failed: %w", err)
		}
		return actions, nil
	}
	return nil, fmt.Errorf("no action list in response")
}

func extractJSONArray(response string) string {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	// An object that merely contains an array is handled by the wrapper path.
	if obj := strings.Index(response, "{"); obj != -1 && obj < start {
		return ""
	}
	return response[start : end+1]
}

func extractJSONObject(response string) string {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end <= start {
		return response
	}
	return response[start : end+1]
}
