package assist

import (
	"context"
	"errors"
	"testing"

	"github.com/likhit-sai/CogniFlow/internal/constant"
	"github.com/likhit-sai/CogniFlow/pkg/llm/llmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	stub := &llmtest.Stub{Response: "  A short summary.\n"}
	a := NewAssistant(stub)

	out := a.Generate(context.Background(), constant.AssistActionSummarize, "long text")
	assert.Equal(t, "A short summary.", out)
	require.Len(t, stub.Prompts, 1)
	assert.Contains(t, stub.Prompts[0], "long text")
}

func TestGenerate_FailuresBecomeText(t *testing.T) {
	a := NewAssistant(&llmtest.Stub{Err: errors.New("connection refused")})
	assert.Equal(t, "Error: connection refused", a.Generate(context.Background(), constant.AssistActionImprove, "x"))

	a = NewAssistant(&llmtest.Stub{Response: "unused"})
	assert.Equal(t, "Error: unknown AI action: translate", a.Generate(context.Background(), "translate", "x"))
	assert.False(t, IsAction("translate"))
	assert.True(t, IsAction(constant.AssistActionBrainstorm))
}

func TestGeneratePresentation(t *testing.T) {
	stub := &llmtest.Stub{Response: `{"slides":[{"title":"Intro","content":"- a"},{"title":"End","content":"- b"}]}`}
	slides := NewAssistant(stub).GeneratePresentation(context.Background(), "Go")

	require.Len(t, slides, 2)
	assert.Equal(t, "Intro", slides[0].Title)
	assert.NotEqual(t, slides[0].Id, slides[1].Id)
	require.Len(t, stub.Options, 1)
	assert.True(t, stub.Options[0].JSON)
}

func TestGeneratePresentation_ErrorSlide(t *testing.T) {
	slides := NewAssistant(&llmtest.Stub{Response: "not json"}).GeneratePresentation(context.Background(), "Go")
	require.Len(t, slides, 1)
	assert.Equal(t, ErrorSlideId, slides[0].Id)
	assert.Equal(t, "Error Generating Presentation", slides[0].Title)
}
