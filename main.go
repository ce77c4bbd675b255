// ABOUTME: Entry point for the Lambda package advisor batch driver.
// ABOUTME: Analyzes Python source files and emits JSON analysis results on stdout.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Frosselet/lambda-package-advisor/config"
	"github.com/Frosselet/lambda-package-advisor/engine"
	"github.com/Frosselet/lambda-package-advisor/logger"
	"github.com/Frosselet/lambda-package-advisor/models"
)

func main() {
	// Load .env if present (ignore error, env vars may be set directly)
	_ = godotenv.Load()

	// Initialize structured logging
	logger.Init()

	contextText := flag.String("context", "", "free-text description of the analysis context (e.g. \"AWS Lambda data pipeline\")")
	requirementsPath := flag.String("requirements", "", "path to a requirements.txt pinning package versions")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [-context text] [-requirements file] source.py [source.py ...]\n", os.Args[0])
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting Lambda package advisor")
	slog.Info("Registry configured", "url", cfg.RegistryURL)
	if len(cfg.CustomRepos) > 0 {
		slog.Info("Custom repositories configured", "count", len(cfg.CustomRepos))
	} else {
		slog.Info("No custom repositories configured, public registry only")
	}

	eng, err := engine.New(cfg)
	if err != nil {
		slog.Error("Failed to initialize analysis engine", "error", err)
		os.Exit(1)
	}

	var requirements []string
	if *requirementsPath != "" {
		requirements, err = readRequirements(*requirementsPath)
		if err != nil {
			slog.Error("Failed to read requirements file", "path", *requirementsPath, "error", err)
			os.Exit(1)
		}
		slog.Info("Requirements loaded", "path", *requirementsPath, "count", len(requirements))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	exitCode := 0
	for _, path := range flag.Args() {
		result, err := analyzeFile(context.Background(), eng, path, *contextText, requirements)
		if err != nil {
			slog.Error("Analysis failed", "file", path, "error", err)
			exitCode = 1
			continue
		}
		slog.Info("Analysis complete",
			"file", path,
			"imports", len(result.Imports),
			"triggers", len(result.Triggers),
			"recommendations", len(result.Recommendations))
		if err := enc.Encode(result); err != nil {
			slog.Error("Failed to encode result", "file", path, "error", err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

// analyzeFile reads a Python source file and runs it through the engine.
func analyzeFile(ctx context.Context, eng *engine.Engine, path, contextText string, requirements []string) (*models.AnalysisResult, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	unit := models.SourceUnit{
		Code:         string(code),
		Context:      contextText,
		Requirements: requirements,
	}
	return eng.Analyze(ctx, unit)
}

// readRequirements parses a requirements.txt into its non-blank,
// non-comment lines. Version pinning syntax is handled downstream.
func readRequirements(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}
