package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/uniassist/uniassist"
	"github.com/uniassist/uniassist/config"
	"github.com/uniassist/uniassist/core/agent"
	"github.com/uniassist/uniassist/core/pipeline"
	"github.com/uniassist/uniassist/extract"
	"github.com/uniassist/uniassist/helper"
	"github.com/uniassist/uniassist/llm"
	"github.com/uniassist/uniassist/model"
	"github.com/uniassist/uniassist/scraper"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var docType string
	var numQuestions int
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file")
	flag.StringVar(&docType, "type", "generic", "Document type for ingestion (exam_paper, notes, slides, generic)")
	flag.IntVar(&numQuestions, "questions", 5, "Number of quiz questions to generate")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		log.Fatalf("failed to load database configuration: %v", err)
	}

	assistant, err := uniassist.NewAssistant(dbConfig, cfg.Embedder.Dimension)
	if err != nil {
		log.Fatalf("failed to initialize assistant: %v", err)
	}
	defer assistant.Close()

	if err := assemblePipeline(assistant, cfg); err != nil {
		log.Fatalf("failed to assemble pipeline: %v", err)
	}

	ctx := context.Background()
	command, rest := args[0], args[1:]

	switch command {
	case "ingest":
		runIngest(assistant, cfg, rest, docType)
	case "ask":
		runAsk(ctx, assistant, strings.Join(rest, " "))
	case "quiz":
		runQuiz(ctx, assistant, strings.Join(rest, " "), numQuestions)
	case "summarize":
		runSummarize(ctx, assistant, rest)
	case "scrape":
		runScrape(assistant, cfg, rest)
	case "stats":
		runStats(assistant)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: uniassist [flags] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  ingest <file.pdf|dir> ...   index documents (see -type)")
	fmt.Println("  ask <question>              answer a question from the indexed material")
	fmt.Println("  quiz <topic>                generate a quiz and grade an interactive submission")
	fmt.Println("  summarize <file.pdf>        summarize a document")
	fmt.Println("  scrape <url> ...            index tutorial pages from the web")
	fmt.Println("  stats                       show corpus statistics")
}

// assemblePipeline builds the embedder, chunker and generator from the
// configuration and wires them into the assistant.
func assemblePipeline(assistant *uniassist.Assistant, cfg *config.AppConfig) error {
	var embedder pipeline.EmbedFunc
	var err error
	switch cfg.Embedder.Type {
	case "local", "":
		embedder, err = pipeline.DefaultEmbedder()
	case "remote":
		embedder, err = pipeline.RemoteEmbedder(pipeline.RemoteEmbedderConfig{
			BaseURL: cfg.Embedder.BaseURL,
			APIKey:  os.Getenv(cfg.Embedder.APIKeyEnv),
			Model:   cfg.Embedder.Model,
			Timeout: time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
		})
	default:
		return fmt.Errorf("unknown embedder type %q", cfg.Embedder.Type)
	}
	if err != nil {
		return err
	}

	var generator llm.Generator
	switch cfg.Generator.Type {
	case "ollama", "":
		generator = llm.NewOllamaClient(llm.OllamaConfig{
			BaseURL: cfg.Generator.BaseURL,
			Model:   cfg.Generator.Model,
			Timeout: time.Duration(cfg.Generator.TimeoutSecs) * time.Second,
		})
	case "claude":
		generator, err = llm.NewClaudeClient(llm.ClaudeConfig{Model: cfg.Generator.Model})
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown generator type %q", cfg.Generator.Type)
	}

	chunker := pipeline.DocumentChunker(&model.ChunkConfig{
		ChunkSize:    cfg.Chunker.ChunkSize,
		ChunkOverlap: cfg.Chunker.ChunkOverlap,
	})
	assistant.SetPipeline(pipeline.NewPipeline(chunker, embedder), generator)
	return nil
}

func runIngest(assistant *uniassist.Assistant, cfg *config.AppConfig, paths []string, docTypeLabel string) {
	if len(paths) == 0 {
		log.Fatal("ingest: no files given")
	}
	docType := model.ParseDocumentType(docTypeLabel)

	extractor, err := extract.NewPDFExtractor(cfg.ImagesDir, assistant.Logger())
	if err != nil {
		log.Fatalf("failed to create extractor: %v", err)
	}

	total := 0
	for _, path := range paths {
		var docs []*model.Document
		info, err := os.Stat(path)
		if err != nil {
			log.Fatalf("ingest: %v", err)
		}
		if info.IsDir() {
			docs, err = extractor.ExtractDirectory(path, docType)
			if err != nil {
				log.Fatalf("ingest: %v", err)
			}
		} else {
			doc, err := extractor.Extract(path, docType)
			if err != nil {
				log.Fatalf("ingest: %v", err)
			}
			docs = []*model.Document{doc}
		}

		for _, doc := range docs {
			doc.Course = cfg.Course.Name
			doc.CourseCode = cfg.Course.Code
			count, err := assistant.IngestDocument(doc)
			if err != nil {
				log.Fatalf("ingest %s: %v", doc.Filename, err)
			}
			fmt.Printf("Indexed %s (%s): %d chunks\n", doc.Filename, doc.Type, count)
			total += count
		}
	}
	fmt.Printf("Done. %d chunks indexed.\n", total)
}

func runAsk(ctx context.Context, assistant *uniassist.Assistant, question string) {
	if question == "" {
		log.Fatal("ask: no question given")
	}
	answer, err := assistant.Ask(ctx, question)
	if errors.Is(err, agent.ErrNoRelevantInformation) {
		fmt.Println("No relevant information found.")
		return
	}
	if err != nil {
		log.Fatalf("ask: %v", err)
	}

	fmt.Printf("\n%s\n\nSources: %s\n", answer.Answer, strings.Join(answer.Sources, ", "))
}

func runQuiz(ctx context.Context, assistant *uniassist.Assistant, topic string, numQuestions int) {
	if topic == "" {
		log.Fatal("quiz: no topic given")
	}
	quiz, err := assistant.GenerateQuiz(ctx, topic, numQuestions)
	if err != nil {
		log.Fatalf("quiz: %v", err)
	}
	if quiz.Err != "" {
		fmt.Println(quiz.Err)
		return
	}

	answers := map[int]string{}
	reader := bufio.NewReader(os.Stdin)
	for i, question := range quiz.Questions {
		fmt.Printf("\nQ%d: %s\n", i+1, question.Question)
		for _, letter := range []string{"A", "B", "C", "D"} {
			if text, ok := question.Options[letter]; ok {
				fmt.Printf("  %s) %s\n", letter, text)
			}
		}
		fmt.Print("Your answer: ")
		line, _ := reader.ReadString('\n')
		line = strings.ToUpper(strings.TrimSpace(line))
		if line != "" {
			answers[i+1] = line[:1]
		}
	}

	grading := assistant.GradeQuiz(quiz, answers)
	fmt.Printf("\nScore: %.2f%% (%d/%d correct)\n", grading.ScorePercent, grading.Correct, grading.TotalQuestions)
	for _, result := range grading.Results {
		mark := "✗"
		if result.IsCorrect {
			mark = "✓"
		}
		fmt.Printf("  %s Q%d: answered %s, correct %s\n", mark, result.QuestionNum, result.UserAnswer, result.CorrectAnswer)
	}
}

func runSummarize(ctx context.Context, assistant *uniassist.Assistant, args []string) {
	if len(args) < 1 {
		log.Fatal("summarize: no file given")
	}
	style := model.SummaryConcise
	if len(args) > 1 {
		style = model.SummaryStyle(args[1])
	}

	extractor, err := extract.NewPDFExtractor("", assistant.Logger())
	if err != nil {
		log.Fatalf("failed to create extractor: %v", err)
	}
	doc, err := extractor.Extract(args[0], model.DocTypeGeneric)
	if err != nil {
		log.Fatalf("summarize: %v", err)
	}

	summary, err := assistant.Summarize(ctx, doc.FullText, style)
	if err != nil {
		log.Fatalf("summarize: %v", err)
	}
	fmt.Println(summary)
}

func runScrape(assistant *uniassist.Assistant, cfg *config.AppConfig, urls []string) {
	if len(urls) == 0 {
		log.Fatal("scrape: no URLs given")
	}
	docs := scraper.NewScraper(assistant.Logger()).FetchPages(urls)
	for _, doc := range docs {
		doc.Course = cfg.Course.Name
		doc.CourseCode = cfg.Course.Code
		count, err := assistant.IngestDocument(doc)
		if err != nil {
			log.Fatalf("scrape %s: %v", doc.Filename, err)
		}
		fmt.Printf("Indexed %s: %d chunks\n", doc.Filename, count)
	}
}

func runStats(assistant *uniassist.Assistant) {
	stats, err := assistant.Stats()
	if err != nil {
		log.Fatalf("stats: %v", err)
	}
	fmt.Printf("Documents: %d\nIndexed chunks: %d\n", stats.Documents, stats.Records)
	for docType, count := range stats.ByType {
		fmt.Printf("  %s: %d\n", docType, count)
	}
}
