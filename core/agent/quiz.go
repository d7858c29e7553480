package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/uniassist/uniassist/core/retrieval"
	"github.com/uniassist/uniassist/llm"
	"github.com/uniassist/uniassist/model"
)

const quizPromptTemplate = `Based on the following course content, generate %d multiple choice questions.

Content:
%s

Generate %d questions in this EXACT format:
Q1: [Question text]
A) [Option A]
B) [Option B]
C) [Option C]
D) [Option D]
Correct: [A/B/C/D]

Q2: [Question text]
...

Topic: %s
Generate questions now:`

// QuizAgent generates and parses multiple-choice quizzes from retrieved
// course material.
type QuizAgent struct {
	engine    *retrieval.Engine
	generator llm.Generator
	logger    *slog.Logger
}

// NewQuizAgent creates a new quiz agent.
func NewQuizAgent(engine *retrieval.Engine, generator llm.Generator, logger *slog.Logger) *QuizAgent {
	return &QuizAgent{
		engine:    engine,
		generator: generator,
		logger:    logger,
	}
}

// GenerateQuiz retrieves material on the topic and asks the model for
// numQuestions questions in a strict wire format, then parses whatever came
// back. A topic with no indexed content yields a quiz carrying an error
// marker, not a Go error, so callers can render it directly.
func (a *QuizAgent) GenerateQuiz(ctx context.Context, topic string, numQuestions int) (*model.Quiz, error) {
	if numQuestions <= 0 {
		numQuestions = 5
	}

	docs, err := a.engine.Retrieve(topic, 10, nil)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return &model.Quiz{
			Topic:     topic,
			Requested: numQuestions,
			Questions: []model.QuizQuestion{},
			Err:       "No relevant content found for this topic",
		}, nil
	}

	contextDocs := docs
	if len(contextDocs) > 5 {
		contextDocs = contextDocs[:5]
	}
	texts := make([]string, 0, len(contextDocs))
	for _, doc := range contextDocs {
		texts = append(texts, doc.Text)
	}

	prompt := fmt.Sprintf(quizPromptTemplate, numQuestions, strings.Join(texts, "\n\n"), numQuestions, topic)

	quizText, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		a.logger.Error("Quiz generation failed", slog.Any("error", err))
		return &model.Quiz{
			Topic:     topic,
			Requested: numQuestions,
			Questions: []model.QuizQuestion{},
			Sources:   sourceDocuments(docs, 3),
			Err:       fmt.Sprintf("Error: could not generate quiz (%v)", err),
		}, nil
	}

	questions := ParseQuiz(quizText)
	if len(questions) != numQuestions {
		a.logger.Warn("Quiz came back with unexpected question count",
			slog.Int("requested", numQuestions),
			slog.Int("parsed", len(questions)))
	}

	return &model.Quiz{
		Topic:     topic,
		Requested: numQuestions,
		Questions: questions,
		Sources:   sourceDocuments(docs, 3),
	}, nil
}

// ParseQuiz parses model output in the quiz wire format into structured
// questions. The parser is deliberately lenient: a line starting with "Q"
// and containing ":" opens a question, "A)" through "D)" add options,
// "Correct:" records the first non-space character after the colon and
// everything else is ignored. Partially formed questions are kept with
// Complete set to false. Parsing never fails.
func ParseQuiz(quizText string) []model.QuizQuestion {
	var questions []model.QuizQuestion
	var current *model.QuizQuestion

	flush := func() {
		if current == nil {
			return
		}
		current.Complete = current.Question != "" && len(current.Options) == 4 && current.Correct != ""
		questions = append(questions, *current)
		current = nil
	}

	for _, line := range strings.Split(quizText, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "Q") && strings.Contains(line, ":"):
			flush()
			text := strings.TrimSpace(strings.SplitN(line, ":", 2)[1])
			current = &model.QuizQuestion{
				Question: text,
				Options:  map[string]string{},
			}
		case current != nil && isOptionLine(line):
			current.Options[line[:1]] = strings.TrimSpace(line[2:])
		case current != nil && strings.HasPrefix(line, "Correct:"):
			answer := strings.TrimSpace(strings.TrimPrefix(line, "Correct:"))
			if answer != "" {
				current.Correct = answer[:1]
			}
		}
	}
	flush()

	if questions == nil {
		return []model.QuizQuestion{}
	}
	return questions
}

func isOptionLine(line string) bool {
	return strings.HasPrefix(line, "A)") ||
		strings.HasPrefix(line, "B)") ||
		strings.HasPrefix(line, "C)") ||
		strings.HasPrefix(line, "D)")
}
