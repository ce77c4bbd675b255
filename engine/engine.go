// ABOUTME: Top-level analysis orchestrator for the recommendation engine
// ABOUTME: Extract, trigger-gate, run analyzers, merge into one ranked result

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Frosselet/lambda-package-advisor/benchmarks"
	"github.com/Frosselet/lambda-package-advisor/cache"
	"github.com/Frosselet/lambda-package-advisor/config"
	"github.com/Frosselet/lambda-package-advisor/customrepo"
	"github.com/Frosselet/lambda-package-advisor/extractor"
	"github.com/Frosselet/lambda-package-advisor/knowledge"
	"github.com/Frosselet/lambda-package-advisor/models"
	"github.com/Frosselet/lambda-package-advisor/triggers"
)

// Engine wires the analyzers together. Reference data is frozen at
// construction; independent Analyze calls are safe in parallel, the
// only shared mutable state being the optional result cache.
type Engine struct {
	cfg        *config.Config
	evaluator  *triggers.Evaluator
	detector   *knowledge.Detector
	scorer     *benchmarks.Scorer
	classifier *customrepo.Classifier
	registry   knowledge.RegistryClient
	fetcher    customrepo.MetadataFetcher
	cache      *cache.Cache
}

// Option substitutes a collaborator, mainly for tests.
type Option func(*Engine)

// WithRegistry replaces the package-registry client.
func WithRegistry(r knowledge.RegistryClient) Option {
	return func(e *Engine) { e.registry = r }
}

// WithFetcher replaces the custom-repository metadata fetcher.
func WithFetcher(f customrepo.MetadataFetcher) Option {
	return func(e *Engine) { e.fetcher = f }
}

// WithScorer replaces the benchmark scorer.
func WithScorer(s *benchmarks.Scorer) Option {
	return func(e *Engine) { e.scorer = s }
}

// WithKnowledgeBase replaces the deprecation knowledge base.
func WithKnowledgeBase(b *knowledge.Base) Option {
	return func(e *Engine) {
		e.detector = knowledge.NewDetector(b)
		e.evaluator = triggers.NewEvaluator(
			triggers.WithCustomPrefixes(e.cfg.Prefixes()),
			triggers.WithQuickPatterns(b.QuickPatterns()),
		)
	}
}

// New builds an engine from configuration. Reference-data override
// files are loaded here; a malformed file is a configuration-time
// error, not an analysis-time one.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	base := knowledge.NewBase()
	if cfg.KnowledgeFile != "" {
		loaded, err := knowledge.LoadBase(cfg.KnowledgeFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load knowledge base: %w", err)
		}
		base = loaded
	}

	scorer := benchmarks.NewScorer()
	if cfg.BenchmarksFile != "" {
		table, useCases, err := benchmarks.LoadTable(cfg.BenchmarksFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load benchmark table: %w", err)
		}
		scorer = benchmarks.NewScorerWithTable(table, useCases)
	}

	e := &Engine{
		cfg:      cfg,
		detector: knowledge.NewDetector(base),
		scorer:   scorer,
		evaluator: triggers.NewEvaluator(
			triggers.WithCustomPrefixes(cfg.Prefixes()),
			triggers.WithQuickPatterns(base.QuickPatterns()),
		),
		classifier: customrepo.NewClassifier(cfg.CustomRepos),
		registry:   knowledge.NewPyPIClient(cfg.RegistryURL, nil),
	}
	if cfg.ScrapingEnabled {
		e.fetcher = customrepo.NewHTTPFetcher(nil)
	}
	if cfg.EnableCaching {
		e.cache = cache.New(time.Duration(cfg.CacheTTL) * time.Second)
	}

	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Analyze runs one full analysis over a source unit and returns the
// merged, ranked result. It always returns a best-effort result:
// failures in individual modules or network sub-operations degrade
// their own findings and nothing else. The caller's ctx deadline
// bounds only the network sub-operations.
func (e *Engine) Analyze(ctx context.Context, unit models.SourceUnit) (*models.AnalysisResult, error) {
	if e.cache == nil {
		return e.runAnalysis(ctx, unit), nil
	}

	key := cache.Key(unit.Code, unit.Context, unit.Requirements)
	val, err := e.cache.GetOrCompute(key, func() (interface{}, error) {
		return e.runAnalysis(ctx, unit), nil
	})
	if err != nil {
		return nil, err
	}
	// Every caller gets its own copy; the cached result stays pristine
	// even if a caller mutates what it received.
	return val.(*models.AnalysisResult).Clone(), nil
}

func (e *Engine) runAnalysis(ctx context.Context, unit models.SourceUnit) *models.AnalysisResult {
	started := time.Now()

	imports, degraded := extractor.Extract(unit.Code)
	if degraded {
		slog.Debug("Import extraction degraded to lexical scan")
	}

	trgs := e.evaluator.Evaluate(unit.Code, unit.Context)

	result := &models.AnalysisResult{
		ID:             uuid.NewString(),
		Imports:        imports,
		Triggers:       trgs,
		Comparisons:    make(map[string]models.PackageComparison),
		CustomPackages: make(map[string]models.CustomPackageRecord),
		ParseDegraded:  degraded,
		GeneratedAt:    started.UTC(),
	}

	reviewed, custom := gatedPackages(trgs)

	targetEnv := "general"
	if result.HasTrigger(models.TriggerLambdaOptimization) || e.cfg.AWSLambdaFocus {
		targetEnv = "aws_lambda"
	}
	for _, pkg := range reviewed {
		result.Comparisons[pkg] = e.scorer.Compare(pkg, "", targetEnv)
	}

	if result.HasTrigger(models.TriggerPackageImport) || result.HasTrigger(models.TriggerDeprecatedUsage) {
		result.Deprecations = e.detector.Detect(unit.Code, imports)
	}

	for _, pkg := range custom {
		if repo := e.classifier.Classify(pkg); repo != nil {
			result.CustomPackages[pkg] = models.CustomPackageRecord{
				Name:        pkg,
				MatchedRepo: repo.Name,
			}
		}
	}

	e.runNetworkOps(ctx, unit, custom, result)

	if result.HasTrigger(models.TriggerLambdaOptimization) && e.cfg.AWSLambdaFocus {
		result.LambdaOptimization = e.lambdaOptimization(result)
	}

	result.Recommendations = e.synthesize(unit, result)

	slog.Info("Analysis complete",
		"id", result.ID,
		"imports", len(result.Imports),
		"triggers", len(result.Triggers),
		"recommendations", len(result.Recommendations),
		"duration", time.Since(started))
	return result
}

// gatedPackages collects, per trigger type, the modules whose triggers
// warrant further analysis. Order follows trigger order, which follows
// sorted import order.
func gatedPackages(trgs []models.Trigger) (reviewed, custom []string) {
	for _, trg := range trgs {
		pkg := trg.Details["package"]
		if pkg == "" {
			continue
		}
		switch trg.Type {
		case models.TriggerPackageImport:
			reviewed = append(reviewed, pkg)
		case models.TriggerCustomPackage:
			custom = append(custom, pkg)
		}
	}
	return reviewed, custom
}

// runNetworkOps executes registry version checks and custom-package
// metadata fetches in parallel, bounded by MaxConcurrentRequests.
// Every sub-operation fails soft: its fields stay absent and the rest
// of the analysis is unaffected.
func (e *Engine) runNetworkOps(ctx context.Context, unit models.SourceUnit, custom []string, result *models.AnalysisResult) {
	opTimeout := time.Duration(e.cfg.RequestTimeout) * time.Second

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.MaxConcurrentRequests)

	if e.registry != nil {
		for _, raw := range unit.Requirements {
			req := models.ParseRequirement(raw)
			if req.Name == "" {
				continue
			}
			g.Go(func() error {
				opCtx, cancel := context.WithTimeout(gctx, opTimeout)
				defer cancel()

				info, err := e.registry.GetPackageVersionInfo(opCtx, req.Name, req.Version)
				if err != nil {
					slog.Warn("Registry lookup unavailable", "package", req.Name, "error", err)
					return nil
				}
				mu.Lock()
				result.VersionReports = append(result.VersionReports, info)
				mu.Unlock()
				return nil
			})
		}
	}

	if e.fetcher != nil && e.cfg.ScrapingEnabled {
		for _, pkg := range custom {
			pkg := pkg
			repo := e.classifier.Classify(pkg)
			if repo == nil {
				continue
			}
			g.Go(func() error {
				opCtx, cancel := context.WithTimeout(gctx, opTimeout)
				defer cancel()

				record, err := e.fetcher.FetchCustomPackageMetadata(opCtx, *repo, pkg)
				if err != nil {
					slog.Warn("Custom package metadata unavailable", "package", pkg, "error", err)
					return nil
				}
				mu.Lock()
				result.CustomPackages[pkg] = record
				mu.Unlock()
				return nil
			})
		}
	}

	// Goroutines never return errors; Wait only joins them.
	_ = g.Wait()

	// Completion order varies; reports are sorted for reproducibility.
	sort.Slice(result.VersionReports, func(i, j int) bool {
		return result.VersionReports[i].PackageName < result.VersionReports[j].PackageName
	})
}
