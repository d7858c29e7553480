package uniassist

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/uniassist/uniassist/core/agent"
	"github.com/uniassist/uniassist/core/pipeline"
	"github.com/uniassist/uniassist/core/retrieval"
	"github.com/uniassist/uniassist/database"
	"github.com/uniassist/uniassist/helper"
	"github.com/uniassist/uniassist/llm"
	"github.com/uniassist/uniassist/model"
	loadSql "github.com/uniassist/uniassist/sql"
)

// Assistant provides a unified interface to ingestion, retrieval and the
// question answering, quiz and summary agents.
type Assistant struct {
	DB        *helper.Database
	Documents *database.DocumentsDBHandler
	Records   *database.RecordsDBHandler
	Pipeline  *pipeline.Pipeline
	Engine    *retrieval.Engine
	Answer    *agent.AnswerAgent
	Quiz      *agent.QuizAgent
	Summary   *agent.SummaryAgent
	// Logging
	log *slog.Logger
}

// Stats summarizes the indexed corpus.
type Stats struct {
	Documents int            `json:"documents"`
	Records   int64          `json:"records"`
	ByType    map[string]int `json:"documents_by_type"`
}

// NewAssistant creates a new Assistant with all handlers initialized. The
// embedding dimension must match the embedder configured later via
// SetPipeline or UseDefaultPipeline.
func NewAssistant(config *helper.DatabaseConfiguration, embeddingDim int) (*Assistant, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("uniassist", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create handlers in the correct order (documents first, then records)
	// force=false to not reload if functions already exist
	documents, err := database.NewDocumentsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create documents handler", err)
	}

	records, err := database.NewRecordsDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create records handler", err)
	}

	return &Assistant{
		DB:        db,
		Documents: documents,
		Records:   records,
		log:       logger,
	}, nil
}

// Logger returns the assistant's structured logger.
func (a *Assistant) Logger() *slog.Logger {
	return a.log
}

// Close closes the database connection
func (a *Assistant) Close() error {
	if a.DB != nil && a.DB.Instance != nil {
		return a.DB.Instance.Close()
	}
	return nil
}

// SetPipeline sets the chunking and embedding pipeline and wires the
// retrieval engine and agents to it.
func (a *Assistant) SetPipeline(p *pipeline.Pipeline, generator llm.Generator) {
	a.Pipeline = p
	a.Engine = retrieval.NewEngine(a.Records, p.Embedder)
	a.Answer = agent.NewAnswerAgent(a.Engine, generator, a.log)
	a.Quiz = agent.NewQuizAgent(a.Engine, generator, a.log)
	a.Summary = agent.NewSummaryAgent(generator, a.log)
}

// UseDefaultPipeline sets up the type-aware chunker with default sizes, the
// all-MiniLM-L6-v2 embedder (384 dimensions) and a local Ollama generator.
func (a *Assistant) UseDefaultPipeline() error {
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	chunker := pipeline.DocumentChunker(model.DefaultChunkConfig())
	generator := llm.NewOllamaClient(llm.OllamaConfig{})

	a.SetPipeline(pipeline.NewPipeline(chunker, embedder), generator)
	return nil
}

// IngestDocument registers the document, chunks and embeds its content and
// upserts the chunks into the vector index in one transaction. Re-ingesting
// the same document replaces its previous chunks instead of duplicating
// them. Returns the number of chunks indexed.
func (a *Assistant) IngestDocument(doc *model.Document) (int, error) {
	if a.Pipeline == nil {
		return 0, helper.NewError("ingest document", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}
	if doc.FullText == "" {
		return 0, helper.NewError("ingest document", fmt.Errorf("document text is empty"))
	}

	record, err := a.Documents.InsertDocument(doc, len(doc.Pages))
	if err != nil {
		return 0, helper.NewError("insert document", err)
	}

	a.log.Info("Registered document",
		slog.String("filename", record.Filename),
		slog.String("doc_type", string(record.Type)))

	result, err := a.Pipeline.Process(doc)
	if err != nil {
		return 0, helper.NewError("process document", err)
	}

	a.log.Info("Processed document into chunks",
		slog.Int("num_chunks", len(result.Chunks)),
		slog.String("filename", record.Filename))

	if len(result.Chunks) == 0 {
		return 0, nil
	}

	// Old chunks go first so a shrunk document leaves no stale records.
	if err := a.Records.DeleteRecordsByDocument(record.ID); err != nil {
		return 0, helper.NewError("delete stale records", err)
	}
	if _, err := a.Records.UpsertRecords(record.ID, result.Chunks, result.Embeddings); err != nil {
		return 0, helper.NewError("upsert records", err)
	}

	return len(result.Chunks), nil
}

// Search performs vector similarity search over the indexed chunks.
func (a *Assistant) Search(query string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	if a.Engine == nil {
		return nil, helper.NewError("search", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}
	if config == nil {
		defaults := model.DefaultQueryConfig()
		config = &defaults
	}
	return a.Engine.Retrieve(query, config.TopK, config.Filter)
}

// Ask answers a question grounded in the indexed course material.
func (a *Assistant) Ask(ctx context.Context, question string) (*model.Answer, error) {
	if a.Answer == nil {
		return nil, helper.NewError("ask", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}
	return a.Answer.Answer(ctx, question)
}

// GenerateQuiz generates a multiple choice quiz on the topic.
func (a *Assistant) GenerateQuiz(ctx context.Context, topic string, numQuestions int) (*model.Quiz, error) {
	if a.Quiz == nil {
		return nil, helper.NewError("generate quiz", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}
	return a.Quiz.GenerateQuiz(ctx, topic, numQuestions)
}

// GradeQuiz grades a submission against a generated quiz.
func (a *Assistant) GradeQuiz(quiz *model.Quiz, answers map[int]string) *model.GradingResult {
	return quiz.Grade(answers)
}

// Summarize generates a summary of the text in the requested style.
func (a *Assistant) Summarize(ctx context.Context, text string, style model.SummaryStyle) (string, error) {
	if a.Summary == nil {
		return "", helper.NewError("summarize", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}
	return a.Summary.Summarize(ctx, text, style)
}

// Stats returns corpus statistics for the indexed documents and records.
func (a *Assistant) Stats() (*Stats, error) {
	docs, err := a.Documents.SelectAllDocuments()
	if err != nil {
		return nil, helper.NewError("select documents", err)
	}
	count, err := a.Records.CountRecords()
	if err != nil {
		return nil, helper.NewError("count records", err)
	}

	byType := map[string]int{}
	for _, doc := range docs {
		byType[string(doc.Type)]++
	}
	return &Stats{
		Documents: len(docs),
		Records:   count,
		ByType:    byType,
	}, nil
}

// DeleteDocument removes a document and all of its indexed chunks.
func (a *Assistant) DeleteDocument(filename string) error {
	record, err := a.Documents.SelectDocument(filename)
	if err != nil {
		return helper.NewError("select document", err)
	}
	if err := a.Records.DeleteRecordsByDocument(record.ID); err != nil {
		return helper.NewError("delete records", err)
	}
	if err := a.Documents.DeleteDocument(filename); err != nil {
		return helper.NewError("delete document", err)
	}
	return nil
}
