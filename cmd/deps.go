package cmd

import (
	"context"
	"fmt"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/config"
	"github.com/rjegjin/Specific-Skills-and-Accomplishments/generator"
	"github.com/rjegjin/Specific-Skills-and-Accomplishments/publisher"
)

func buildLLM(ctx context.Context, c *config.Config) (generator.LLMClient, error) {
	if err := c.RequireLLM(); err != nil {
		return nil, err
	}
	settings := &generator.LLMSettings{
		Provider: c.LLM.Provider,
		Model:    c.LLM.Model,
		APIKey:   c.LLM.APIKey,
		BaseURL:  c.LLM.BaseURL,
	}
	switch c.LLM.Provider {
	case "gemini":
		return generator.NewGeminiLLMFromConfig(ctx, settings)
	case "openai":
		if settings.Model == generator.DefaultGeminiModel {
			settings.Model = "gpt-4o-mini"
		}
		return generator.NewOpenAILLMFromConfig(settings)
	case "mock":
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("%w: llm provider %s not supported", config.ErrConfiguration, c.LLM.Provider)
	}
}

func buildEngine(ctx context.Context, c *config.Config) (*generator.Engine, error) {
	llm, err := buildLLM(ctx, c)
	if err != nil {
		return nil, err
	}
	return generator.NewEngine(llm, generator.Options{
		Templates:    c.Templates(),
		Terms:        c.Terms(),
		SkipFailures: c.Generation.SkipFailures,
		CallTimeout:  c.Generation.Timeout,
		Logger:       logger,
	})
}

// buildSheets returns nil when no spreadsheet is configured.
func buildSheets(ctx context.Context, c *config.Config) (*publisher.Sheets, error) {
	if c.Sink.SpreadsheetID == "" || c.Sink.CredentialsFile == "" {
		return nil, nil
	}
	return publisher.NewSheetsFromServiceAccount(ctx, appFs, c.Sink.CredentialsFile, c.Sink.BaseURL, c.Sink.SpreadsheetID, logger)
}

func buildPublisher(ctx context.Context, c *config.Config, sheets *publisher.Sheets) (*publisher.Publisher, error) {
	if err := c.RequireSink(); err != nil {
		return nil, err
	}
	var sink publisher.TabularSink
	switch c.Sink.Kind {
	case "csv":
		sink = publisher.NewCSVSink(appFs, c.Sink.CSVPath)
	default:
		if sheets == nil {
			s, err := buildSheets(ctx, c)
			if err != nil {
				return nil, err
			}
			sheets = s
		}
		sink = sheets
	}
	return publisher.New(sink, c.Sink.Worksheet, c.Terms(), logger)
}
