// ABOUTME: Trigger evaluation deciding which analyses are relevant and why
// ABOUTME: Pure function of source and context; gates analyzer cost, not output

package triggers

import (
	"fmt"
	"strings"

	"github.com/Frosselet/lambda-package-advisor/extractor"
	"github.com/Frosselet/lambda-package-advisor/models"
)

// QuickPattern is a (package, pattern) pair injected from the
// deprecation knowledge base so the evaluator can flag deprecated
// usage without running the full detector.
type QuickPattern struct {
	Package string
	Method  string
	Pattern string
}

// defaultReviewPackages are the data/HTTP/plotting-class libraries
// that always deserve a look when targeting constrained environments.
var defaultReviewPackages = []string{
	"pandas", "numpy", "scipy", "requests", "urllib3", "httpx",
	"matplotlib", "plotly", "seaborn", "boto3",
}

// defaultLambdaKeywords mark execution-environment references in the
// caller-supplied context text.
var defaultLambdaKeywords = []string{"lambda", "serverless", "cold start", "faas"}

// Evaluator decides which analysis dimensions should run for a given
// snippet. All configuration is fixed at construction; Evaluate does
// no I/O and mutates nothing.
type Evaluator struct {
	reviewPackages    map[string]bool
	lambdaKeywords    []string
	customPrefixes    []string
	quickPatterns     []QuickPattern
	complexityCeiling float64
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithReviewPackages replaces the needs-review package set.
func WithReviewPackages(pkgs []string) Option {
	return func(e *Evaluator) {
		e.reviewPackages = make(map[string]bool, len(pkgs))
		for _, p := range pkgs {
			e.reviewPackages[p] = true
		}
	}
}

// WithCustomPrefixes sets the custom-repository naming prefixes.
func WithCustomPrefixes(prefixes []string) Option {
	return func(e *Evaluator) { e.customPrefixes = prefixes }
}

// WithQuickPatterns injects deprecation quick-patterns from the
// knowledge base.
func WithQuickPatterns(patterns []QuickPattern) Option {
	return func(e *Evaluator) { e.quickPatterns = patterns }
}

// WithComplexityCeiling overrides the complexity trigger threshold.
func WithComplexityCeiling(ceiling float64) Option {
	return func(e *Evaluator) { e.complexityCeiling = ceiling }
}

// NewEvaluator builds an Evaluator with the default review set,
// serverless keywords and a complexity ceiling of 7.0.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		reviewPackages:    make(map[string]bool, len(defaultReviewPackages)),
		lambdaKeywords:    defaultLambdaKeywords,
		complexityCeiling: 7.0,
	}
	for _, p := range defaultReviewPackages {
		e.reviewPackages[p] = true
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate classifies why the snippet deserves review. Trigger order
// is deterministic: per-package triggers in sorted import order, then
// the environment, deprecation and complexity triggers.
func (e *Evaluator) Evaluate(code, context string) []models.Trigger {
	imports, _ := extractor.Extract(code)

	var triggers []models.Trigger
	var reviewed []string

	for _, pkg := range imports {
		if e.reviewPackages[pkg] {
			reviewed = append(reviewed, pkg)
			triggers = append(triggers, models.Trigger{
				Type:     models.TriggerPackageImport,
				Details:  map[string]string{"package": pkg},
				Severity: models.SeverityInfo,
			})
		}
		if prefix := e.matchPrefix(pkg); prefix != "" {
			triggers = append(triggers, models.Trigger{
				Type:     models.TriggerCustomPackage,
				Details:  map[string]string{"package": pkg, "prefix": prefix},
				Severity: models.SeverityInfo,
			})
		}
	}

	if len(reviewed) > 0 && e.contextMentionsLambda(context) {
		triggers = append(triggers, models.Trigger{
			Type: models.TriggerLambdaOptimization,
			Details: map[string]string{
				"packages": strings.Join(reviewed, ","),
			},
			Severity: models.SeverityWarning,
		})
	}

	imported := make(map[string]bool, len(imports))
	for _, pkg := range imports {
		imported[pkg] = true
	}
	for _, qp := range e.quickPatterns {
		if imported[qp.Package] && strings.Contains(code, qp.Pattern) {
			triggers = append(triggers, models.Trigger{
				Type: models.TriggerDeprecatedUsage,
				Details: map[string]string{
					"package": qp.Package,
					"method":  qp.Method,
				},
				Severity: models.SeverityWarning,
			})
		}
	}

	if complexity := EstimateComplexity(code); complexity > e.complexityCeiling {
		triggers = append(triggers, models.Trigger{
			Type: models.TriggerComplexityThreshold,
			Details: map[string]string{
				"complexity": fmt.Sprintf("%.2f", complexity),
				"ceiling":    fmt.Sprintf("%.2f", e.complexityCeiling),
			},
			Severity: models.SeverityWarning,
		})
	}

	return triggers
}

// matchPrefix returns the first configured prefix the package name
// starts with, or "".
func (e *Evaluator) matchPrefix(pkg string) string {
	for _, prefix := range e.customPrefixes {
		if prefix != "" && strings.HasPrefix(pkg, prefix) {
			return prefix
		}
	}
	return ""
}

func (e *Evaluator) contextMentionsLambda(context string) bool {
	lowered := strings.ToLower(context)
	for _, kw := range e.lambdaKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
