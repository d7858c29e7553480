package model

// Answer packages a generated answer with its provenance.
type Answer struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Sources     []string `json:"sources"`
	ContextUsed int      `json:"context_used"`
}

// SummaryStyle selects the shape of a generated summary.
type SummaryStyle string

const (
	SummaryConcise      SummaryStyle = "concise"
	SummaryDetailed     SummaryStyle = "detailed"
	SummaryBulletPoints SummaryStyle = "bullet_points"
)
