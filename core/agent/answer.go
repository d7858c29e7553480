package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/uniassist/uniassist/core/retrieval"
	"github.com/uniassist/uniassist/llm"
	"github.com/uniassist/uniassist/model"
)

// ErrNoRelevantInformation is returned when retrieval finds nothing for a
// question. No generation call is made in that case.
var ErrNoRelevantInformation = errors.New("no relevant information found")

const answerPromptTemplate = `You are a helpful course teaching assistant.
Answer the student's question using ONLY the provided context from past papers and course materials.

Context:
%s

Student Question: %s

Instructions:
- Provide a clear, accurate answer based on the context
- If the context contains code examples, explain them
- If you cannot answer from the context, say so
- Keep the answer concise but complete

Answer:`

// AnswerAgent answers student questions grounded in retrieved course
// material.
type AnswerAgent struct {
	engine    *retrieval.Engine
	generator llm.Generator
	logger    *slog.Logger
}

// NewAnswerAgent creates a new answer agent.
func NewAnswerAgent(engine *retrieval.Engine, generator llm.Generator, logger *slog.Logger) *AnswerAgent {
	return &AnswerAgent{
		engine:    engine,
		generator: generator,
		logger:    logger,
	}
}

// Answer retrieves the most relevant chunks for the question, builds a
// grounded prompt and generates an answer. Retrieval coming back empty
// yields ErrNoRelevantInformation. Generation failures are converted into a
// displayable answer string rather than an error, so a flaky model backend
// degrades instead of breaking the caller.
func (a *AnswerAgent) Answer(ctx context.Context, question string) (*model.Answer, error) {
	docs, err := a.engine.Retrieve(question, 5, nil)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNoRelevantInformation
	}

	prompt := fmt.Sprintf(answerPromptTemplate, buildContext(docs), question)

	answer, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		a.logger.Error("Answer generation failed", slog.Any("error", err))
		answer = fmt.Sprintf("Error: could not generate answer (%v)", err)
	}

	return &model.Answer{
		Question:    question,
		Answer:      answer,
		Sources:     sourceDocuments(docs, 3),
		ContextUsed: len(docs),
	}, nil
}

// buildContext renders retrieved chunks as numbered source blocks, in
// retrieval order.
func buildContext(docs []*model.RetrievalResult) string {
	parts := make([]string, 0, len(docs))
	for i, doc := range docs {
		parts = append(parts, fmt.Sprintf("[Source %d: %s]\n%s\n", i+1, doc.SourceDocument(), doc.Text))
	}
	return strings.Join(parts, "\n")
}

// sourceDocuments returns the distinct source documents of the first max
// results, in retrieval order.
func sourceDocuments(docs []*model.RetrievalResult, max int) []string {
	if len(docs) > max {
		docs = docs[:max]
	}
	seen := map[string]bool{}
	sources := make([]string, 0, len(docs))
	for _, doc := range docs {
		source := doc.SourceDocument()
		if seen[source] {
			continue
		}
		seen[source] = true
		sources = append(sources, source)
	}
	return sources
}
