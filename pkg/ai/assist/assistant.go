package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/likhit-sai/CogniFlow/internal/constant"
	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/pkg/llm"
)

const (
	PresentationSlides = 5
	ErrorSlideId       = "error-slide"
)

// ErrEmptyText is returned by callers that have nothing to send to the model.
var ErrEmptyText = errors.New("there is no text to process")

// Assistant rewrites text and drafts slides. Failures are returned as content so the
// caller never has to special case them.
type Assistant struct {
	provider llm.LLMProvider
}

func NewAssistant(provider llm.LLMProvider) *Assistant {
	return &Assistant{provider: provider}
}

func IsAction(action string) bool {
	switch action {
	case constant.AssistActionSummarize, constant.AssistActionImprove, constant.AssistActionBrainstorm:
		return true
	}
	return false
}

func promptFor(action, text string) (string, error) {
	switch action {
	case constant.AssistActionSummarize:
		return fmt.Sprintf(constant.AssistSummarizePrompt, text), nil
	case constant.AssistActionImprove:
		return fmt.Sprintf(constant.AssistImprovePrompt, text), nil
	case constant.AssistActionBrainstorm:
		return fmt.Sprintf(constant.AssistBrainstormPrompt, text), nil
	default:
		return "", fmt.Errorf("unknown AI action: %s", action)
	}
}

// Generate runs action over text. On failure the result is "Error: <message>".
func (a *Assistant) Generate(ctx context.Context, action, text string) string {
	prompt, err := promptFor(action, text)
	if err != nil {
		return "Error: " + err.Error()
	}
	out, err := a.provider.Generate(ctx, prompt)
	if err != nil {
		return "Error: " + err.Error()
	}
	return strings.TrimSpace(out)
}

type slideDeck struct {
	Slides []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"slides"`
}

// GeneratePresentation drafts a deck about topic. On failure it returns one slide describing the error.
func (a *Assistant) GeneratePresentation(ctx context.Context, topic string) []entity.Slide {
	slides, err := a.presentation(ctx, topic)
	if err != nil {
		return []entity.Slide{{
			Id:      ErrorSlideId,
			Title:   "Error Generating Presentation",
			Content: err.Error(),
		}}
	}
	return slides
}

func (a *Assistant) presentation(ctx context.Context, topic string) ([]entity.Slide, error) {
	prompt := fmt.Sprintf(constant.PresentationPrompt, PresentationSlides, topic)
	out, err := a.provider.Generate(ctx, prompt, llm.WithJSON())
	if err != nil {
		return nil, err
	}

	var deck slideDeck
	if err := json.Unmarshal([]byte(extractJSON(out)), &deck); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}
	if len(deck.Slides) == 0 {
		return nil, fmt.Errorf("model returned no slides")
	}

	slides := make([]entity.Slide, 0, len(deck.Slides))
	for _, s := range deck.Slides {
		slides = append(slides, entity.Slide{
			Id:      "slide-" + uuid.NewString(),
			Title:   s.Title,
			Content: s.Content,
		})
	}
	return slides, nil
}

func extractJSON(response string) string {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end <= start {
		return response
	}
	return response[start : end+1]
}
