package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uniassist/uniassist/llm"
	"github.com/uniassist/uniassist/model"
)

// Long documents get truncated before prompting so the prompt stays within
// the model's context window.
const maxSummaryInput = 3000

const summaryPromptTemplate = `Summarize the following course content.

%s:

Content:
%s

Summary:`

// SummaryAgent generates summaries of document text.
type SummaryAgent struct {
	generator llm.Generator
	logger    *slog.Logger
}

// NewSummaryAgent creates a new summary agent.
func NewSummaryAgent(generator llm.Generator, logger *slog.Logger) *SummaryAgent {
	return &SummaryAgent{
		generator: generator,
		logger:    logger,
	}
}

// Summarize generates a summary of the text in the requested style. Unknown
// styles fall back to bullet points.
func (a *SummaryAgent) Summarize(ctx context.Context, text string, style model.SummaryStyle) (string, error) {
	var instruction string
	switch style {
	case model.SummaryConcise:
		instruction = "Provide a concise 3-4 sentence summary"
	case model.SummaryDetailed:
		instruction = "Provide a detailed paragraph summary"
	default:
		instruction = "Provide a summary in bullet points (5-7 key points)"
	}

	if len(text) > maxSummaryInput {
		text = text[:maxSummaryInput]
	}

	prompt := fmt.Sprintf(summaryPromptTemplate, instruction, text)

	summary, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		a.logger.Error("Summary generation failed", slog.Any("error", err))
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	return summary, nil
}
