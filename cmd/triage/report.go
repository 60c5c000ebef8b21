package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mikey/portfolio-backend/internal/core"
)

type reportMeta struct {
	Threshold float64
	ZeroShot  bool
	Provider  string
	Duration  time.Duration
}

func writeReport(w io.Writer, sub *core.Submission, res *core.AnalysisResult, meta reportMeta) {
	fmt.Fprintf(w, "\n=== Message Summary ===\n")
	fmt.Fprintf(w, "From: %s\n", sender(sub))
	fmt.Fprintf(w, "Subject: %s\n", sub.Subject)
	fmt.Fprintf(w, "Message length: %d characters\n", utf8.RuneCountInString(sub.Message))

	fmt.Fprintf(w, "\n=== Analysis ===\n")
	fmt.Fprintf(w, "Spam threshold: %.2f\n", meta.Threshold)
	if meta.ZeroShot {
		fmt.Fprintf(w, "Zero-shot provider: %s\n", meta.Provider)
	}

	fmt.Fprintf(w, "\n=== Results ===\n")
	fmt.Fprintf(w, "Is spam: %t\n", res.IsSpam)
	fmt.Fprintf(w, "Spam score: %.3f\n", res.SpamScore)
	fmt.Fprintf(w, "Sentiment: %s (%.3f, %s)\n", res.Sentiment, res.SentimentScore, res.SentimentSource)
	fmt.Fprintf(w, "Priority: %s (%d/10)\n", res.Priority, res.PriorityScore)
	if res.Category != "" {
		fmt.Fprintf(w, "Category: %s\n", res.Category)
		if res.CategoryModel != "" {
			fmt.Fprintf(w, "Category model: %s (confidence %.2f)\n", res.CategoryModel, res.CategoryConfidence)
		}
	}
	if len(res.Flags) > 0 {
		fmt.Fprintf(w, "Flags: %s\n", strings.Join(res.Flags, "; "))
	}
	fmt.Fprintf(w, "Analysis version: %s\n", res.AnalysisVersion)
	fmt.Fprintf(w, "Processing time: %v\n", meta.Duration)
}

func writeJSON(w io.Writer, sub *core.Submission, res *core.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		From     string               `json:"from,omitempty"`
		Subject  string               `json:"subject"`
		Analysis *core.AnalysisResult `json:"analysis"`
	}{
		From:     sender(sub),
		Subject:  sub.Subject,
		Analysis: res,
	})
}

func sender(sub *core.Submission) string {
	switch {
	case sub.Name != "" && sub.Email != "":
		return fmt.Sprintf("%s <%s>", sub.Name, sub.Email)
	case sub.Email != "":
		return sub.Email
	default:
		return sub.Name
	}
}
