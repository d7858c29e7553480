package model

import "math"

// QuizQuestion is one parsed multiple-choice question. Options maps the
// letter labels A-D to option text. Correct is empty when the generated text
// carried no answer key; Complete reports whether all four options and the
// key were parsed, so callers can tell a fully-formed question from a
// degraded one.
type QuizQuestion struct {
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
	Correct  string            `json:"correct,omitempty"`
	Complete bool              `json:"complete"`
}

// Quiz is the result of one generation call. It is immutable once built;
// grading derives a separate GradingResult and never touches the quiz.
// Err carries the "no content for this topic" marker so callers can render
// it without error handling.
type Quiz struct {
	Topic     string         `json:"topic"`
	Requested int            `json:"requested"`
	Questions []QuizQuestion `json:"questions"`
	Sources   []string       `json:"sources,omitempty"`
	Err       string         `json:"error,omitempty"`
}

// QuestionResult is the graded outcome for a single question.
type QuestionResult struct {
	QuestionNum   int    `json:"question_num"`
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer,omitempty"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	IsCorrect     bool   `json:"is_correct"`
}

// GradingResult aggregates per-question outcomes for a submission.
type GradingResult struct {
	TotalQuestions int              `json:"total_questions"`
	Correct        int              `json:"correct"`
	Incorrect      int              `json:"incorrect"`
	ScorePercent   float64          `json:"score"`
	Results        []QuestionResult `json:"results"`
}

// Grade grades a submission against the quiz's answer key. Answers map
// 1-based question numbers to selected letters; a missing or unknown letter
// counts as incorrect, never as an error. Comparison is exact and
// case-sensitive. The result is deterministic: identical inputs always
// produce identical output, and ScorePercent is rounded to two decimals
// (0 when the quiz has no questions).
func (q *Quiz) Grade(answers map[int]string) *GradingResult {
	results := make([]QuestionResult, 0, len(q.Questions))
	correct := 0

	for i, question := range q.Questions {
		num := i + 1
		userAnswer := answers[num]
		isCorrect := question.Correct != "" && userAnswer == question.Correct
		if isCorrect {
			correct++
		}
		results = append(results, QuestionResult{
			QuestionNum:   num,
			Question:      question.Question,
			UserAnswer:    userAnswer,
			CorrectAnswer: question.Correct,
			IsCorrect:     isCorrect,
		})
	}

	total := len(q.Questions)
	score := 0.0
	if total > 0 {
		score = math.Round(float64(correct)/float64(total)*100*100) / 100
	}

	return &GradingResult{
		TotalQuestions: total,
		Correct:        correct,
		Incorrect:      total - correct,
		ScorePercent:   score,
		Results:        results,
	}
}
