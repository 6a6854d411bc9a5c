package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/decisionpipe/decisionpipe/constants"
	"github.com/decisionpipe/decisionpipe/internal/common"
	"github.com/decisionpipe/decisionpipe/internal/entity"
	"github.com/decisionpipe/decisionpipe/internal/export"
	"github.com/decisionpipe/decisionpipe/internal/ingest"
	"github.com/decisionpipe/decisionpipe/internal/llm/openai"
	"github.com/decisionpipe/decisionpipe/internal/pipeline"
)

// One-shot runner: reads local PDF/TXT files and/or stdin memo text, runs
// the pipeline once, and prints the JSON response or writes an XLSX workbook.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	memo := flag.String("memo", "", "memo text to analyze ('-' reads stdin)")
	mode := flag.String("mode", "extract", "extract | summarize | extract+summarize")
	out := flag.String("out", "", "write ranked decisions to this .xlsx file instead of printing JSON")
	flag.Parse()

	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	memoText := *memo
	if memoText == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.Error("read stdin", "error", err)
			os.Exit(2)
		}
		memoText = string(data)
	}

	var docs []entity.Document
	for _, path := range flag.Args() {
		doc, err := loadDocument(path)
		if err != nil {
			logger.Error("load document", "path", path, "error", err)
			os.Exit(2)
		}
		docs = append(docs, doc)
	}

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	pipe := pipeline.New(cfg.Pipeline, client, ingest.NewPDFExtractor(logger), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	resp, err := pipe.Run(ctx, pipeline.Request{
		MemoText:  memoText,
		Documents: docs,
		Mode:      pipeline.Mode(*mode),
	})
	if err != nil {
		logger.Error("pipeline failed", "error", err)
		// Still print the structured response; it carries meta and errorId.
		printJSON(resp)
		os.Exit(1)
	}

	if *out != "" {
		data, err := export.NewService(logger).DecisionsXLSX(resp.Decisions)
		if err != nil {
			logger.Error("export xlsx", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			logger.Error("write xlsx", "path", *out, "error", err)
			os.Exit(1)
		}
		return
	}
	printJSON(resp)
}

func loadDocument(path string) (entity.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.Document{}, err
	}
	name := filepath.Base(path)
	ext := constants.NormalizeExt(filepath.Ext(path))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		logUnsupported(name, ext)
	}
	if ext == "pdf" {
		return entity.Document{FileName: name, Data: data}, nil
	}
	// Plain text: one synthetic page, no page boundaries to preserve.
	return entity.Document{
		FileName: name,
		Pages:    []entity.DocumentPage{{PageNumber: 1, Text: string(data)}},
	}, nil
}

func logUnsupported(name, ext string) {
	slog.Warn("unrecognized extension, treating as plain text",
		"file", name, "ext", ext,
		"supported", strings.Join(constants.FileTypes, ", "))
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
