package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mikey/portfolio-backend/internal/adapters/intake"
	"github.com/mikey/portfolio-backend/internal/config"
	"github.com/mikey/portfolio-backend/internal/core"
	"github.com/mikey/portfolio-backend/internal/di"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run analyzes one message and prints the report
func run(
	flags *di.CLIFlags,
	cfg *config.Config,
	logger *zap.Logger,
	analyzer core.MessageAnalyzer,
	classifier core.CategoryClassifier,
) error {
	defer logger.Sync()

	submission, err := readSubmission(flags, logger)
	if err != nil {
		return err
	}

	startTime := time.Now()
	result := analyzer.AnalyzeMessage(context.Background(), submission)
	duration := time.Since(startTime)

	// Close any resources that need closing
	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close category classifier", zap.Error(err))
		}
	}

	if flags.JSONOutput {
		return writeJSON(os.Stdout, submission, result)
	}
	writeReport(os.Stdout, submission, result, reportMeta{
		Threshold: cfg.GetFloat64("triage.spam_threshold"),
		ZeroShot:  classifier != nil,
		Provider:  cfg.GetString("llm.provider"),
		Duration:  duration,
	})
	return nil
}

// readSubmission builds the submission from the message flags, or parses a
// mail from -file or stdin when no subject or message was given
func readSubmission(flags *di.CLIFlags, logger *zap.Logger) (*core.Submission, error) {
	if !flags.UsesStdinMessage() {
		return &core.Submission{
			Name:    flags.Name,
			Email:   flags.Email,
			Subject: flags.Subject,
			Message: flags.Message,
		}, nil
	}

	var reader io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		reader = file
		logger.Info("Reading mail from file", zap.String("file", flags.InputFile))
	} else {
		reader = os.Stdin
		logger.Info("Reading mail from stdin")
	}

	submission, err := intake.ParseMessage(reader, flags.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail: %w", err)
	}
	if flags.Name != "" {
		submission.Name = flags.Name
	}
	return submission, nil
}
